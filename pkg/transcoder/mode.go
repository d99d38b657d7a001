package transcoder

import (
	"fmt"
	"strings"
)

// Mode selects the width of every structural field on the wire.
type Mode uint8

const (
	// ModeSmall uses one byte per field.
	ModeSmall Mode = 0

	// ModeNormal uses two little-endian bytes per field.
	ModeNormal Mode = 1
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeSmall:
		return "SMALL"
	case ModeNormal:
		return "NORMAL"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", uint8(m))
	}
}

// ParseMode parses a mode name. Matching is case-insensitive.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "small":
		return ModeSmall, nil
	case "normal":
		return ModeNormal, nil
	default:
		return 0, fmt.Errorf("unknown wire mode %q", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("unknown wire mode %d", uint8(m))
	}
	return []byte(strings.ToLower(m.String())), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Mode) UnmarshalText(text []byte) error {
	parsed, err := ParseMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool {
	return m == ModeSmall || m == ModeNormal
}

// FieldSize returns the width in bytes of one structural field.
func (m Mode) FieldSize() int {
	if m == ModeNormal {
		return 2
	}
	return 1
}

// HeaderSize returns the size of a message header.
func (m Mode) HeaderSize() int {
	return 3 * m.FieldSize()
}

// AttributeHeaderSize returns the size of an attribute header.
func (m Mode) AttributeHeaderSize() int {
	return 2 * m.FieldSize()
}

// MaxFieldValue returns the largest value a structural field can hold.
func (m Mode) MaxFieldValue() uint16 {
	if m == ModeNormal {
		return 0xFFFF
	}
	return 0xFF
}

// MaxAttributeID returns the largest attribute id the mode can carry.
func (m Mode) MaxAttributeID() uint16 {
	return m.subAttributeFlag() - 1
}

// subAttributeFlag is the has-subattributes bit within an attribute id field.
func (m Mode) subAttributeFlag() uint16 {
	if m == ModeNormal {
		return 0x8000
	}
	return 0x80
}
