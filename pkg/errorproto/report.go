package errorproto

import (
	"fmt"

	"github.com/lcsf-protocol/lcsf-go/pkg/validator"
)

var decoderTypeText = map[uint8]string{
	0: "Bad format",
	1: "Overflow",
}

var validatorTypeText = map[uint8]string{
	0: "Unknown protocol id",
	1: "Unknown command id",
	2: "Unknown attribute id",
	3: "Too many attributes received",
	4: "Missing mandatory attribute",
	5: "Wrong attribute data type",
}

// Report is a received error report.
type Report struct {
	Location Location
	Code     uint8
}

// ParseReport reads a validated error command.
func ParseReport(cmd *validator.ValidatedCommand) (Report, error) {
	if cmd.CommandID != CommandID || len(cmd.Attributes) != 2 {
		return Report{}, fmt.Errorf("errorproto: command 0x%x with %d attributes is not an error report", cmd.CommandID, len(cmd.Attributes))
	}
	loc, err := cmd.Attributes[slotLocation].AsU8()
	if err != nil {
		return Report{}, fmt.Errorf("errorproto: location: %w", err)
	}
	code, err := cmd.Attributes[slotType].AsU8()
	if err != nil {
		return Report{}, fmt.Errorf("errorproto: type: %w", err)
	}
	return Report{Location: Location(loc), Code: code}, nil
}

// TypeText returns the human readable error type.
func (r Report) TypeText() string {
	var table map[uint8]string
	switch r.Location {
	case LocationDecoder:
		table = decoderTypeText
	case LocationValidator:
		table = validatorTypeText
	default:
		return unknownText
	}
	if text, ok := table[r.Code]; ok {
		return text
	}
	return unknownText
}

func (r Report) String() string {
	return fmt.Sprintf("location: %s, type: %s", r.Location, r.TypeText())
}

// ProcessError returns the location and type texts of a validated error
// command. Commands that are not error reports yield "Unknown" for both.
func ProcessError(cmd *validator.ValidatedCommand) (location, errType string) {
	r, err := ParseReport(cmd)
	if err != nil {
		return unknownText, unknownText
	}
	return r.Location.String(), r.TypeText()
}
