package transcoder

// Decode limits.
const (
	// DefaultMaxDepth is the default maximum attribute nesting depth.
	// Top-level attributes are at depth 1.
	DefaultMaxDepth = 32

	// DefaultMaxMessageSize is the default maximum buffer size (1 MiB).
	DefaultMaxMessageSize = 1 << 20
)

// Limits bounds the work Decode does on a single buffer. A field that is
// zero or negative takes its default; limits cannot be switched off.
type Limits struct {
	MaxDepth       int
	MaxMessageSize int
}

// DefaultLimits returns the limits used by Decode.
func DefaultLimits() Limits {
	return Limits{
		MaxDepth:       DefaultMaxDepth,
		MaxMessageSize: DefaultMaxMessageSize,
	}
}

func (l Limits) orDefault() Limits {
	if l.MaxDepth <= 0 {
		l.MaxDepth = DefaultMaxDepth
	}
	if l.MaxMessageSize <= 0 {
		l.MaxMessageSize = DefaultMaxMessageSize
	}
	return l
}
