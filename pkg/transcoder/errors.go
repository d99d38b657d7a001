package transcoder

import (
	"errors"
	"fmt"
)

// Transcoder errors.
var (
	// ErrFormat indicates a malformed buffer.
	ErrFormat = errors.New("bad format")

	// ErrOverflow indicates a buffer exceeding the configured limits.
	ErrOverflow = errors.New("overflow")

	// ErrFieldRange indicates a value that does not fit its wire field.
	ErrFieldRange = errors.New("value out of field range")

	// ErrInconsistent indicates a size or count that disagrees with the
	// attributes it describes.
	ErrInconsistent = errors.New("inconsistent attribute size")
)

// DecodeErrorCode identifies the decode failure class. The numeric values are
// carried on the wire by the error sub-protocol.
type DecodeErrorCode uint8

const (
	// FormatError indicates a malformed buffer.
	FormatError DecodeErrorCode = 0

	// OverflowError indicates a buffer exceeding a size or nesting limit.
	OverflowError DecodeErrorCode = 1
)

// String returns the code name.
func (c DecodeErrorCode) String() string {
	switch c {
	case FormatError:
		return "FORMAT_ERROR"
	case OverflowError:
		return "OVERFLOW_ERROR"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", uint8(c))
	}
}

// DecodeError is returned by Decode.
type DecodeError struct {
	Code   DecodeErrorCode
	Offset int
	Reason string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode: %s at offset %d: %s", e.Code, e.Offset, e.Reason)
}

// Unwrap returns ErrFormat or ErrOverflow.
func (e *DecodeError) Unwrap() error {
	if e.Code == OverflowError {
		return ErrOverflow
	}
	return ErrFormat
}
