package transcoder

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// Decode parses a complete buffer into a RawMessage using DefaultLimits.
func Decode(mode Mode, data []byte) (*RawMessage, error) {
	return DecodeWithLimits(mode, data, DefaultLimits())
}

// DecodeWithLimits parses a complete buffer into a RawMessage. Zero fields
// of limits take the defaults. The returned tree owns its payloads; data may
// be reused after the call.
func DecodeWithLimits(mode Mode, data []byte, limits Limits) (*RawMessage, error) {
	if !mode.Valid() {
		return nil, fmt.Errorf("decode: unknown wire mode %d", uint8(mode))
	}
	limits = limits.orDefault()
	d := &decoder{mode: mode, buf: data, limits: limits}

	if len(data) > limits.MaxMessageSize {
		return nil, d.fail(OverflowError, fmt.Sprintf("message size %d exceeds %d", len(data), limits.MaxMessageSize))
	}

	msg := &RawMessage{}
	var err error
	if msg.ProtocolID, err = d.field("protocol id"); err != nil {
		return nil, err
	}
	if msg.CommandID, err = d.field("command id"); err != nil {
		return nil, err
	}
	if msg.AttributeCount, err = d.field("attribute count"); err != nil {
		return nil, err
	}
	if msg.Attributes, err = d.attributes(msg.AttributeCount, 1); err != nil {
		return nil, err
	}
	if d.pos != len(d.buf) {
		return nil, d.fail(FormatError, fmt.Sprintf("%d trailing bytes", len(d.buf)-d.pos))
	}
	return msg, nil
}

type decoder struct {
	mode   Mode
	buf    []byte
	pos    int
	limits Limits
}

func (d *decoder) fail(code DecodeErrorCode, reason string) *DecodeError {
	return &DecodeError{Code: code, Offset: d.pos, Reason: reason}
}

func (d *decoder) remaining() int {
	return len(d.buf) - d.pos
}

func (d *decoder) field(name string) (uint16, error) {
	if d.remaining() < d.mode.FieldSize() {
		return 0, d.fail(FormatError, "truncated "+name)
	}
	var v uint16
	if d.mode == ModeNormal {
		v = binary.LittleEndian.Uint16(d.buf[d.pos:])
	} else {
		v = uint16(d.buf[d.pos])
	}
	d.pos += d.mode.FieldSize()
	return v, nil
}

func (d *decoder) attributes(count uint16, depth int) ([]RawAttribute, error) {
	if depth > d.limits.MaxDepth {
		return nil, d.fail(OverflowError, fmt.Sprintf("nesting depth exceeds %d", d.limits.MaxDepth))
	}

	// Each attribute needs at least a header, so a count larger than the
	// remaining input can never succeed. Cap the allocation accordingly.
	capacity := min(int(count), d.remaining()/d.mode.AttributeHeaderSize())
	attrs := make([]RawAttribute, 0, capacity)

	var seen map[uint16]struct{}
	if count > 1 {
		seen = make(map[uint16]struct{}, capacity)
	}

	for range count {
		start := d.pos
		attr, err := d.attribute(depth)
		if err != nil {
			return nil, err
		}
		if seen != nil {
			if _, dup := seen[attr.ID]; dup {
				return nil, &DecodeError{
					Code:   FormatError,
					Offset: start,
					Reason: fmt.Sprintf("duplicate attribute id 0x%x", attr.ID),
				}
			}
			seen[attr.ID] = struct{}{}
		}
		attrs = append(attrs, attr)
	}
	return attrs, nil
}

func (d *decoder) attribute(depth int) (RawAttribute, error) {
	var attr RawAttribute

	rawID, err := d.field("attribute id")
	if err != nil {
		return attr, err
	}
	flag := d.mode.subAttributeFlag()
	attr.ID = rawID &^ flag
	attr.HasSubAttributes = rawID&flag != 0

	if attr.PayloadSize, err = d.field("payload size"); err != nil {
		return attr, err
	}
	if attr.PayloadSize == 0 {
		return attr, d.fail(FormatError, fmt.Sprintf("empty attribute 0x%x", attr.ID))
	}

	if attr.HasSubAttributes {
		attr.SubAttributes, err = d.attributes(attr.PayloadSize, depth+1)
		return attr, err
	}

	size := int(attr.PayloadSize)
	if d.remaining() < size {
		return attr, d.fail(FormatError, fmt.Sprintf("payload of attribute 0x%x needs %d bytes, %d left", attr.ID, size, d.remaining()))
	}
	attr.Data = bytes.Clone(d.buf[d.pos : d.pos+size])
	d.pos += size
	return attr, nil
}
