package validator

import (
	"errors"
	"fmt"
	"strings"
)

// Validation errors.
var (
	ErrUnknownProtocolID         = errors.New("unknown protocol id")
	ErrUnknownCommandID          = errors.New("unknown command id")
	ErrUnknownAttributeID        = errors.New("unknown attribute id")
	ErrTooManyAttributes         = errors.New("too many attributes")
	ErrMissingMandatoryAttribute = errors.New("missing mandatory attribute")
	ErrWrongAttributeDataType    = errors.New("wrong attribute data type")

	// ErrShapeMismatch indicates a ValidatedCommand whose attribute slots do
	// not line up with its descriptor.
	ErrShapeMismatch = errors.New("command shape does not match descriptor")
)

// ValidationErrorCode identifies the validation failure class. The numeric
// values are carried on the wire by the error sub-protocol.
type ValidationErrorCode uint8

const (
	UnknownProtocolID         ValidationErrorCode = 0
	UnknownCommandID          ValidationErrorCode = 1
	UnknownAttributeID        ValidationErrorCode = 2
	TooManyAttributes         ValidationErrorCode = 3
	MissingMandatoryAttribute ValidationErrorCode = 4
	WrongAttributeDataType    ValidationErrorCode = 5
)

// String returns the code name.
func (c ValidationErrorCode) String() string {
	switch c {
	case UnknownProtocolID:
		return "UNKNOWN_PROTOCOL_ID"
	case UnknownCommandID:
		return "UNKNOWN_COMMAND_ID"
	case UnknownAttributeID:
		return "UNKNOWN_ATTRIBUTE_ID"
	case TooManyAttributes:
		return "TOO_MANY_ATTRIBUTES"
	case MissingMandatoryAttribute:
		return "MISSING_MANDATORY_ATTRIBUTE"
	case WrongAttributeDataType:
		return "WRONG_ATTRIBUTE_DATA_TYPE"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", uint8(c))
	}
}

// ValidationError is returned by Validate and EncodeValid.
type ValidationError struct {
	Code       ValidationErrorCode
	ProtocolID uint16
	CommandID  uint16

	// Path holds the attribute ids from the top level down to the offending
	// attribute. It is empty for protocol and command level failures.
	Path []uint16

	Reason string
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "validate: %s: protocol 0x%x command 0x%x", e.Code, e.ProtocolID, e.CommandID)
	if len(e.Path) > 0 {
		b.WriteString(" attribute ")
		for i, id := range e.Path {
			if i > 0 {
				b.WriteByte('/')
			}
			fmt.Fprintf(&b, "0x%x", id)
		}
	}
	if e.Reason != "" {
		b.WriteString(": ")
		b.WriteString(e.Reason)
	}
	return b.String()
}

// Unwrap returns the sentinel matching Code.
func (e *ValidationError) Unwrap() error {
	switch e.Code {
	case UnknownProtocolID:
		return ErrUnknownProtocolID
	case UnknownCommandID:
		return ErrUnknownCommandID
	case UnknownAttributeID:
		return ErrUnknownAttributeID
	case TooManyAttributes:
		return ErrTooManyAttributes
	case MissingMandatoryAttribute:
		return ErrMissingMandatoryAttribute
	case WrongAttributeDataType:
		return ErrWrongAttributeDataType
	default:
		return nil
	}
}
