package validator

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// ValidatedCommand is a command whose attributes line up with its
// descriptor: Attributes has one entry per descriptor attribute, in
// descriptor order.
type ValidatedCommand struct {
	CommandID  uint16
	Attributes []ValidatedAttribute
}

// ValidatedAttribute holds a leaf payload in Data or node children in
// SubAttributes. An attribute with neither is absent.
type ValidatedAttribute struct {
	Data          []byte
	SubAttributes []ValidatedAttribute
}

// NewCommand returns a command with the given attribute slots.
func NewCommand(commandID uint16, attrs ...ValidatedAttribute) *ValidatedCommand {
	return &ValidatedCommand{CommandID: commandID, Attributes: attrs}
}

// IsPresent reports whether the attribute carries a payload.
func (a ValidatedAttribute) IsPresent() bool {
	return len(a.Data) > 0 || len(a.SubAttributes) > 0
}

// Absent returns an empty placeholder for an optional attribute.
func Absent() ValidatedAttribute {
	return ValidatedAttribute{}
}

// FromU8 returns a U8 attribute.
func FromU8(v uint8) ValidatedAttribute {
	return ValidatedAttribute{Data: []byte{v}}
}

// FromU16 returns a little-endian U16 attribute.
func FromU16(v uint16) ValidatedAttribute {
	return ValidatedAttribute{Data: binary.LittleEndian.AppendUint16(nil, v)}
}

// FromU32 returns a little-endian U32 attribute.
func FromU32(v uint32) ValidatedAttribute {
	return ValidatedAttribute{Data: binary.LittleEndian.AppendUint32(nil, v)}
}

// FromBytes returns a ByteArray attribute.
func FromBytes(b []byte) ValidatedAttribute {
	return ValidatedAttribute{Data: bytes.Clone(b)}
}

// FromString returns a NUL terminated String attribute.
func FromString(s string) ValidatedAttribute {
	data := make([]byte, 0, len(s)+1)
	data = append(data, s...)
	return ValidatedAttribute{Data: append(data, 0)}
}

// FromAttributes returns a SubAttributes node.
func FromAttributes(children ...ValidatedAttribute) ValidatedAttribute {
	return ValidatedAttribute{SubAttributes: children}
}

// AsU8 reads a U8 payload.
func (a ValidatedAttribute) AsU8() (uint8, error) {
	if len(a.Data) != 1 {
		return 0, sizeError(1, len(a.Data))
	}
	return a.Data[0], nil
}

// AsU16 reads a little-endian U16 payload.
func (a ValidatedAttribute) AsU16() (uint16, error) {
	if len(a.Data) != 2 {
		return 0, sizeError(2, len(a.Data))
	}
	return binary.LittleEndian.Uint16(a.Data), nil
}

// AsU32 reads a little-endian U32 payload.
func (a ValidatedAttribute) AsU32() (uint32, error) {
	if len(a.Data) != 4 {
		return 0, sizeError(4, len(a.Data))
	}
	return binary.LittleEndian.Uint32(a.Data), nil
}

// AsString reads a String payload, dropping everything from the first NUL.
func (a ValidatedAttribute) AsString() string {
	if i := bytes.IndexByte(a.Data, 0); i >= 0 {
		return string(a.Data[:i])
	}
	return string(a.Data)
}

func sizeError(want, got int) error {
	return fmt.Errorf("%w: want %d bytes, have %d", ErrWrongAttributeDataType, want, got)
}
