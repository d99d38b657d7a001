package validator

import (
	"fmt"

	"github.com/lcsf-protocol/lcsf-go/pkg/transcoder"
)

// EncodeValid builds the raw message for cmd. The command must have exactly
// one attribute slot per descriptor attribute. Absent optional attributes
// become empty raw placeholders, which transcoder.Encode skips.
func EncodeValid(protocolID uint16, desc *CommandDescriptor, cmd *ValidatedCommand) (*transcoder.RawMessage, error) {
	if desc.ID != cmd.CommandID {
		return nil, fmt.Errorf("encode valid: command 0x%x against descriptor 0x%x: %w", cmd.CommandID, desc.ID, ErrShapeMismatch)
	}
	v := &validation{protocolID: protocolID, commandID: cmd.CommandID}

	attrs, err := v.encodeAttributes(cmd.Attributes, desc.Attributes, nil)
	if err != nil {
		return nil, err
	}
	return &transcoder.RawMessage{
		ProtocolID:     protocolID,
		CommandID:      cmd.CommandID,
		AttributeCount: transcoder.CountPresent(attrs),
		Attributes:     attrs,
	}, nil
}

func (v *validation) encodeAttributes(attrs []ValidatedAttribute, descs []AttributeDescriptor, path []uint16) ([]transcoder.RawAttribute, error) {
	if len(attrs) != len(descs) {
		return nil, fmt.Errorf("encode valid: protocol 0x%x command 0x%x at %v: %d attributes for %d slots: %w",
			v.protocolID, v.commandID, path, len(attrs), len(descs), ErrShapeMismatch)
	}

	out := make([]transcoder.RawAttribute, len(descs))
	for i := range descs {
		desc := &descs[i]
		attr := &attrs[i]
		attrPath := append(path[:len(path):len(path)], desc.ID)
		out[i].ID = desc.ID

		if desc.DataType == TypeSubAttributes {
			out[i].HasSubAttributes = true
			if len(attr.Data) > 0 {
				return nil, v.fail(WrongAttributeDataType, attrPath, "payload on a sub-attributes node")
			}
			if len(attr.SubAttributes) == 0 {
				if !desc.Optional {
					return nil, v.fail(MissingMandatoryAttribute, attrPath, desc.Name)
				}
				continue
			}
			children, err := v.encodeAttributes(attr.SubAttributes, desc.SubAttributes, attrPath)
			if err != nil {
				return nil, err
			}
			present := transcoder.CountPresent(children)
			if present == 0 && !desc.Optional {
				return nil, v.fail(MissingMandatoryAttribute, attrPath, desc.Name+" has no present children")
			}
			out[i].PayloadSize = present
			out[i].SubAttributes = children
			continue
		}

		if len(attr.SubAttributes) > 0 {
			return nil, v.fail(WrongAttributeDataType, attrPath, fmt.Sprintf("sub-attributes on a %s attribute", desc.DataType))
		}
		if len(attr.Data) == 0 {
			if !desc.Optional {
				return nil, v.fail(MissingMandatoryAttribute, attrPath, desc.Name)
			}
			continue
		}
		if !desc.DataType.acceptsLength(len(attr.Data)) {
			return nil, v.fail(WrongAttributeDataType, attrPath, fmt.Sprintf("%d bytes for %s", len(attr.Data), desc.DataType))
		}
		if len(attr.Data) > 0xFFFF {
			return nil, fmt.Errorf("encode valid: attribute %v payload of %d bytes: %w", attrPath, len(attr.Data), transcoder.ErrFieldRange)
		}
		out[i].PayloadSize = uint16(len(attr.Data))
		out[i].Data = attr.Data
	}
	return out, nil
}
