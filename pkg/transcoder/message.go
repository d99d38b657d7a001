package transcoder

// RawMessage is an untyped LCSF message as read from or written to the wire.
type RawMessage struct {
	ProtocolID     uint16
	CommandID      uint16
	AttributeCount uint16
	Attributes     []RawAttribute
}

// RawAttribute is one attribute of a raw message.
//
// For a leaf, PayloadSize is len(Data). For a node, PayloadSize is the number
// of non-empty entries in SubAttributes. A PayloadSize of zero marks an absent
// attribute that Encode skips.
type RawAttribute struct {
	ID               uint16
	HasSubAttributes bool
	PayloadSize      uint16
	Data             []byte
	SubAttributes    []RawAttribute
}

// NewLeaf returns a leaf attribute carrying data.
func NewLeaf(id uint16, data []byte) RawAttribute {
	return RawAttribute{
		ID:          id,
		PayloadSize: uint16(len(data)),
		Data:        data,
	}
}

// NewNode returns a node attribute holding children. Empty children are kept
// in SubAttributes but not counted in PayloadSize.
func NewNode(id uint16, children ...RawAttribute) RawAttribute {
	return RawAttribute{
		ID:               id,
		HasSubAttributes: true,
		PayloadSize:      CountPresent(children),
		SubAttributes:    children,
	}
}

// NewMessage returns a message holding attrs with AttributeCount filled in.
func NewMessage(protocolID, commandID uint16, attrs ...RawAttribute) *RawMessage {
	return &RawMessage{
		ProtocolID:     protocolID,
		CommandID:      commandID,
		AttributeCount: CountPresent(attrs),
		Attributes:     attrs,
	}
}

// IsEmpty reports whether the attribute is an absent placeholder.
func (a *RawAttribute) IsEmpty() bool {
	return a.PayloadSize == 0
}

// Attribute returns the child with the given id, or nil.
func (a *RawAttribute) Attribute(id uint16) *RawAttribute {
	return find(a.SubAttributes, id)
}

// Attribute returns the top-level attribute with the given id, or nil.
func (m *RawMessage) Attribute(id uint16) *RawAttribute {
	return find(m.Attributes, id)
}

// CountPresent returns the number of non-empty attributes in attrs.
func CountPresent(attrs []RawAttribute) uint16 {
	var n uint16
	for i := range attrs {
		if !attrs[i].IsEmpty() {
			n++
		}
	}
	return n
}

func find(attrs []RawAttribute, id uint16) *RawAttribute {
	for i := range attrs {
		if attrs[i].ID == id {
			return &attrs[i]
		}
	}
	return nil
}
