package transcoder

import (
	"encoding/binary"
	"fmt"
)

// Encode serializes msg. Attributes with a zero PayloadSize are skipped.
//
// Counts are written as given, so AttributeCount and every node's PayloadSize
// must equal the number of non-empty attributes they cover, and every leaf's
// PayloadSize must equal len(Data). Violations return ErrInconsistent; values
// too large for the mode return ErrFieldRange.
func Encode(mode Mode, msg *RawMessage) ([]byte, error) {
	if !mode.Valid() {
		return nil, fmt.Errorf("encode: unknown wire mode %d", uint8(mode))
	}
	e := &encoder{mode: mode, buf: make([]byte, 0, mode.HeaderSize()+32)}

	if err := e.field(msg.ProtocolID, "protocol id"); err != nil {
		return nil, err
	}
	if err := e.field(msg.CommandID, "command id"); err != nil {
		return nil, err
	}
	if present := CountPresent(msg.Attributes); present != msg.AttributeCount {
		return nil, fmt.Errorf("encode: attribute count %d, %d present: %w", msg.AttributeCount, present, ErrInconsistent)
	}
	if err := e.field(msg.AttributeCount, "attribute count"); err != nil {
		return nil, err
	}
	if err := e.attributes(msg.Attributes); err != nil {
		return nil, err
	}
	return e.buf, nil
}

type encoder struct {
	mode Mode
	buf  []byte
}

func (e *encoder) field(v uint16, name string) error {
	if v > e.mode.MaxFieldValue() {
		return fmt.Errorf("encode: %s 0x%x in %s mode: %w", name, v, e.mode, ErrFieldRange)
	}
	if e.mode == ModeNormal {
		e.buf = binary.LittleEndian.AppendUint16(e.buf, v)
	} else {
		e.buf = append(e.buf, byte(v))
	}
	return nil
}

func (e *encoder) attributes(attrs []RawAttribute) error {
	for i := range attrs {
		if attrs[i].IsEmpty() {
			continue
		}
		if err := e.attribute(&attrs[i]); err != nil {
			return err
		}
	}
	return nil
}

func (e *encoder) attribute(a *RawAttribute) error {
	if a.ID > e.mode.MaxAttributeID() {
		return fmt.Errorf("encode: attribute id 0x%x in %s mode: %w", a.ID, e.mode, ErrFieldRange)
	}
	id := a.ID
	if a.HasSubAttributes {
		id |= e.mode.subAttributeFlag()
	}
	if err := e.field(id, "attribute id"); err != nil {
		return err
	}

	if a.HasSubAttributes {
		if present := CountPresent(a.SubAttributes); present != a.PayloadSize {
			return fmt.Errorf("encode: attribute 0x%x declares %d children, %d present: %w", a.ID, a.PayloadSize, present, ErrInconsistent)
		}
		if err := e.field(a.PayloadSize, "payload size"); err != nil {
			return err
		}
		return e.attributes(a.SubAttributes)
	}

	if len(a.Data) != int(a.PayloadSize) {
		return fmt.Errorf("encode: attribute 0x%x declares %d bytes, has %d: %w", a.ID, a.PayloadSize, len(a.Data), ErrInconsistent)
	}
	if err := e.field(a.PayloadSize, "payload size"); err != nil {
		return err
	}
	e.buf = append(e.buf, a.Data...)
	return nil
}
