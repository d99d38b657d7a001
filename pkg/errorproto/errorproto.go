package errorproto

import (
	"errors"
	"fmt"

	"github.com/lcsf-protocol/lcsf-go/pkg/transcoder"
	"github.com/lcsf-protocol/lcsf-go/pkg/validator"
)

// Protocol identifiers.
const (
	ProtocolIDSmall  = 0x00FF
	ProtocolIDNormal = 0xFFFF

	CommandID = 0x00

	AttrLocation = 0x00
	AttrType     = 0x01
)

// Positions of the attributes in a validated error command, following
// Descriptor order.
const (
	slotLocation = 0
	slotType     = 1
)

// unknownText is reported for locations and types without a known name.
const unknownText = "Unknown"

// Location identifies the layer that rejected a message.
type Location uint8

const (
	// LocationDecoder is the transcoder.
	LocationDecoder Location = 0

	// LocationValidator is the validator.
	LocationValidator Location = 1
)

// String returns the location name.
func (l Location) String() string {
	switch l {
	case LocationDecoder:
		return "Decoder"
	case LocationValidator:
		return "Validator"
	default:
		return unknownText
	}
}

// ProtocolID returns the error protocol id for mode.
func ProtocolID(mode transcoder.Mode) uint16 {
	if mode == transcoder.ModeNormal {
		return ProtocolIDNormal
	}
	return ProtocolIDSmall
}

// Descriptor returns the error protocol descriptor. Each call returns a new
// value, so callers cannot alter the descriptor seen by others.
func Descriptor() *validator.ProtocolDescriptor {
	return &validator.ProtocolDescriptor{
		Name: "Error",
		Commands: []validator.CommandDescriptor{{
			ID:   CommandID,
			Name: "Error",
			Attributes: []validator.AttributeDescriptor{
				{ID: AttrLocation, Name: "Location", DataType: validator.TypeU8},
				{ID: AttrType, Name: "Type", DataType: validator.TypeU8},
			},
		}},
	}
}

// EncodeError returns the wire form of an error report. The message shape is
// fixed, so it is built directly without validation.
func EncodeError(mode transcoder.Mode, loc Location, code uint8) []byte {
	msg := transcoder.NewMessage(ProtocolID(mode), CommandID,
		transcoder.NewLeaf(AttrLocation, []byte{byte(loc)}),
		transcoder.NewLeaf(AttrType, []byte{code}),
	)
	data, err := transcoder.Encode(mode, msg)
	if err != nil {
		// Every field fits both modes; only an invalid mode gets here.
		panic(fmt.Sprintf("errorproto: encoding error report: %v", err))
	}
	return data
}

// Classify maps a receive-path error to its location and type code. It
// reports false for errors that are neither decode nor validation failures.
func Classify(err error) (Location, uint8, bool) {
	var decErr *transcoder.DecodeError
	if errors.As(err, &decErr) {
		return LocationDecoder, uint8(decErr.Code), true
	}
	var valErr *validator.ValidationError
	if errors.As(err, &valErr) {
		return LocationValidator, uint8(valErr.Code), true
	}
	return 0, 0, false
}
