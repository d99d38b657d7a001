package validator

import (
	"bytes"
	"fmt"
	"slices"

	"github.com/lcsf-protocol/lcsf-go/pkg/transcoder"
)

// Validate checks raw against the descriptor registered for its protocol id.
// On success it returns the validated command and the protocol id.
func Validate(raw *transcoder.RawMessage, protocols Resolver) (*ValidatedCommand, uint16, error) {
	v := &validation{protocolID: raw.ProtocolID, commandID: raw.CommandID}

	proto, ok := protocols.Protocol(raw.ProtocolID)
	if !ok || proto == nil {
		return nil, 0, v.fail(UnknownProtocolID, nil, "")
	}
	cmdDesc := proto.Command(raw.CommandID)
	if cmdDesc == nil {
		return nil, 0, v.fail(UnknownCommandID, nil, "")
	}

	attrs, err := v.attributes(raw.Attributes, cmdDesc.Attributes, nil)
	if err != nil {
		return nil, 0, err
	}
	return &ValidatedCommand{CommandID: raw.CommandID, Attributes: attrs}, raw.ProtocolID, nil
}

type validation struct {
	protocolID uint16
	commandID  uint16
}

func (v *validation) fail(code ValidationErrorCode, path []uint16, reason string) *ValidationError {
	return &ValidationError{
		Code:       code,
		ProtocolID: v.protocolID,
		CommandID:  v.commandID,
		Path:       slices.Clone(path),
		Reason:     reason,
	}
}

// attributes validates one nesting level. path identifies the parent node.
func (v *validation) attributes(raws []transcoder.RawAttribute, descs []AttributeDescriptor, path []uint16) ([]ValidatedAttribute, error) {
	if len(raws) > len(descs) {
		return nil, v.fail(TooManyAttributes, path, fmt.Sprintf("received %d, descriptor has %d", len(raws), len(descs)))
	}

	out := make([]ValidatedAttribute, len(descs))
	matched := 0
	for i := range descs {
		desc := &descs[i]
		attrPath := append(path[:len(path):len(path)], desc.ID)

		raw := findRaw(raws, desc.ID)
		if raw == nil {
			if !desc.Optional {
				return nil, v.fail(MissingMandatoryAttribute, attrPath, desc.Name)
			}
			continue
		}
		matched++

		if desc.DataType == TypeSubAttributes {
			if !raw.HasSubAttributes {
				return nil, v.fail(WrongAttributeDataType, attrPath, "expected sub-attributes")
			}
			children, err := v.attributes(raw.SubAttributes, desc.SubAttributes, attrPath)
			if err != nil {
				return nil, err
			}
			out[i].SubAttributes = children
			continue
		}

		if raw.HasSubAttributes {
			return nil, v.fail(WrongAttributeDataType, attrPath, fmt.Sprintf("expected %s, got sub-attributes", desc.DataType))
		}
		if !desc.DataType.acceptsLength(len(raw.Data)) {
			return nil, v.fail(WrongAttributeDataType, attrPath, fmt.Sprintf("%d bytes for %s", len(raw.Data), desc.DataType))
		}
		out[i].Data = bytes.Clone(raw.Data)
	}

	if received := int(transcoder.CountPresent(raws)); matched < received {
		return nil, v.fail(UnknownAttributeID, path, fmt.Sprintf("matched %d of %d", matched, received))
	}
	return out, nil
}

// findRaw returns the first non-empty raw attribute with the given id.
func findRaw(raws []transcoder.RawAttribute, id uint16) *transcoder.RawAttribute {
	for i := range raws {
		if raws[i].ID == id && !raws[i].IsEmpty() {
			return &raws[i]
		}
	}
	return nil
}
