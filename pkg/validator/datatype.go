package validator

import "fmt"

// DataType is the wire type of an attribute.
type DataType uint8

const (
	TypeU8            DataType = 0
	TypeU16           DataType = 1
	TypeU32           DataType = 2
	TypeByteArray     DataType = 3
	TypeString        DataType = 4
	TypeSubAttributes DataType = 5
)

// String returns the data type name.
func (t DataType) String() string {
	switch t {
	case TypeU8:
		return "U8"
	case TypeU16:
		return "U16"
	case TypeU32:
		return "U32"
	case TypeByteArray:
		return "BYTE_ARRAY"
	case TypeString:
		return "STRING"
	case TypeSubAttributes:
		return "SUB_ATTRIBUTES"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", uint8(t))
	}
}

// Valid reports whether t is a known data type.
func (t DataType) Valid() bool {
	return t <= TypeSubAttributes
}

// acceptsLength reports whether a leaf payload of n bytes fits t.
func (t DataType) acceptsLength(n int) bool {
	switch t {
	case TypeU8:
		return n == 1
	case TypeU16:
		return n == 2
	case TypeU32:
		return n == 4
	case TypeByteArray, TypeString:
		return n >= 1
	default:
		return false
	}
}
