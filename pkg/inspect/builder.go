package inspect

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/lcsf-protocol/lcsf-go/pkg/validator"
)

// ErrInvalidValue is returned when an assignment value does not parse for
// the attribute's data type.
var ErrInvalidValue = errors.New("invalid value")

// Assignment sets the attribute at Path, relative to its command, to Value.
type Assignment struct {
	Path  []string
	Value string
}

// ParseAssignment parses "Group/Level=10".
func ParseAssignment(s string) (Assignment, error) {
	name, value, ok := strings.Cut(s, "=")
	if !ok {
		return Assignment{}, fmt.Errorf("%w: %q is not attribute=value", ErrInvalidPath, s)
	}
	parts, err := splitPath(strings.TrimSpace(name))
	if err != nil {
		return Assignment{}, err
	}
	return Assignment{Path: parts, Value: value}, nil
}

// BuildCommand returns a command for desc with the given attributes set.
// Unassigned attributes stay absent; whether that is acceptable is decided
// when the command is encoded.
func BuildCommand(desc *validator.CommandDescriptor, assignments []Assignment) (*validator.ValidatedCommand, error) {
	cmd := &validator.ValidatedCommand{
		CommandID:  desc.ID,
		Attributes: make([]validator.ValidatedAttribute, len(desc.Attributes)),
	}
	for _, a := range assignments {
		if err := assign(cmd.Attributes, desc.Attributes, a.Path, a.Value); err != nil {
			return nil, fmt.Errorf("%s: %w", strings.Join(a.Path, "/"), err)
		}
	}
	return cmd, nil
}

func assign(slots []validator.ValidatedAttribute, descs []validator.AttributeDescriptor, path []string, value string) error {
	if len(path) == 0 {
		return ErrEmptyPath
	}
	idx, err := ResolveAttribute(descs, path[0])
	if err != nil {
		return err
	}
	d := &descs[idx]

	if d.DataType == validator.TypeSubAttributes {
		if len(path) == 1 {
			return fmt.Errorf("%w: %s has sub-attributes, assign its children", ErrInvalidValue, d.Name)
		}
		if slots[idx].SubAttributes == nil {
			slots[idx].SubAttributes = make([]validator.ValidatedAttribute, len(d.SubAttributes))
		}
		return assign(slots[idx].SubAttributes, d.SubAttributes, path[1:], value)
	}

	if len(path) > 1 {
		return fmt.Errorf("%w: %s has no sub-attributes", ErrInvalidPath, d.Name)
	}
	data, err := ParseValue(d.DataType, value)
	if err != nil {
		return err
	}
	slots[idx].Data = data
	return nil
}

// ParseValue converts text to the wire payload of a scalar data type.
// Integers accept decimal or 0x hex, byte arrays take hex digits, and
// strings are NUL terminated.
func ParseValue(dt validator.DataType, s string) ([]byte, error) {
	switch dt {
	case validator.TypeU8, validator.TypeU16, validator.TypeU32:
		bits := map[validator.DataType]int{validator.TypeU8: 8, validator.TypeU16: 16, validator.TypeU32: 32}[dt]
		v, err := strconv.ParseUint(strings.TrimSpace(s), 0, bits)
		if err != nil {
			return nil, fmt.Errorf("%w: %q for %s", ErrInvalidValue, s, dt)
		}
		switch dt {
		case validator.TypeU8:
			return validator.FromU8(uint8(v)).Data, nil
		case validator.TypeU16:
			return validator.FromU16(uint16(v)).Data, nil
		default:
			return validator.FromU32(uint32(v)).Data, nil
		}

	case validator.TypeByteArray:
		data, err := ParseHex(s)
		if err != nil || len(data) == 0 {
			return nil, fmt.Errorf("%w: %q is not a non-empty hex string", ErrInvalidValue, s)
		}
		return data, nil

	case validator.TypeString:
		return validator.FromString(s).Data, nil

	default:
		return nil, fmt.Errorf("%w: %s has no scalar form", ErrInvalidValue, dt)
	}
}
