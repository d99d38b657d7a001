package validator

import (
	"errors"
	"fmt"

	"github.com/lcsf-protocol/lcsf-go/pkg/transcoder"
)

// ErrInvalidDescriptor indicates a descriptor that cannot describe any
// message in the given wire mode.
var ErrInvalidDescriptor = errors.New("invalid descriptor")

// Check reports descriptor defects for the given wire mode: command ids or
// attribute ids that do not fit the mode, duplicate ids within one level,
// unknown data types, children on scalar attributes and sub-attribute nodes
// without children.
func (p *ProtocolDescriptor) Check(mode transcoder.Mode) error {
	var errs []error
	seen := make(map[uint16]bool, len(p.Commands))
	for i := range p.Commands {
		cmd := &p.Commands[i]
		if cmd.ID > mode.MaxFieldValue() {
			errs = append(errs, fmt.Errorf("command 0x%x does not fit %s mode", cmd.ID, mode))
		}
		if seen[cmd.ID] {
			errs = append(errs, fmt.Errorf("duplicate command id 0x%x", cmd.ID))
		}
		seen[cmd.ID] = true
		if len(cmd.Attributes) > int(mode.MaxFieldValue()) {
			errs = append(errs, fmt.Errorf("command 0x%x has %d attributes", cmd.ID, len(cmd.Attributes)))
		}
		errs = checkAttributes(errs, mode, fmt.Sprintf("command 0x%x", cmd.ID), cmd.Attributes)
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %s: %w", ErrInvalidDescriptor, p.Name, errors.Join(errs...))
}

func checkAttributes(errs []error, mode transcoder.Mode, where string, descs []AttributeDescriptor) []error {
	seen := make(map[uint16]bool, len(descs))
	for i := range descs {
		d := &descs[i]
		at := fmt.Sprintf("%s attribute 0x%x", where, d.ID)
		if d.ID > mode.MaxAttributeID() {
			errs = append(errs, fmt.Errorf("%s: id does not fit %s mode", at, mode))
		}
		if seen[d.ID] {
			errs = append(errs, fmt.Errorf("%s: duplicate id", at))
		}
		seen[d.ID] = true

		switch {
		case !d.DataType.Valid():
			errs = append(errs, fmt.Errorf("%s: unknown data type %d", at, uint8(d.DataType)))
		case d.DataType == TypeSubAttributes:
			if len(d.SubAttributes) == 0 {
				errs = append(errs, fmt.Errorf("%s: sub-attributes node without children", at))
			}
			errs = checkAttributes(errs, mode, at, d.SubAttributes)
		case len(d.SubAttributes) > 0:
			errs = append(errs, fmt.Errorf("%s: %s attribute with children", at, d.DataType))
		}
	}
	return errs
}
