// Package testproto holds descriptors and wire frames shared by tests.
package testproto

import (
	"github.com/lcsf-protocol/lcsf-go/pkg/transcoder"
	"github.com/lcsf-protocol/lcsf-go/pkg/validator"
)

// Identifiers of the sample protocol.
const (
	ProtocolID = 0xab
	CommandID  = 0x12

	AttrBlob    = 0x55
	AttrGroup   = 0x7f
	AttrLevel   = 0x30
	AttrLabel   = 0x31
	AttrText    = 0x32
	AttrSetting = 0x40
)

// SmallFrame is the sample command in Small mode.
var SmallFrame = []byte{
	0xab, 0x12, 0x03,
	0x55, 0x05, 0x00, 0x01, 0x02, 0x03, 0x04,
	0xff, 0x02,
	0x30, 0x01, 0x0a,
	0xb1, 0x01,
	0x32, 0x0d, 'O', 'r', 'g', 'a', 'n', 'o', 'l', 'e', 'p', 't', 'i', 'c', 0x00,
	0x40, 0x02, 0xab, 0xcd,
}

// NormalFrame is the sample command in Normal mode.
var NormalFrame = []byte{
	0xab, 0x00, 0x12, 0x00, 0x03, 0x00,
	0x55, 0x00, 0x05, 0x00, 0x00, 0x01, 0x02, 0x03, 0x04,
	0x7f, 0x80, 0x02, 0x00,
	0x30, 0x00, 0x01, 0x00, 0x0a,
	0x31, 0x80, 0x01, 0x00,
	0x32, 0x00, 0x0d, 0x00, 'O', 'r', 'g', 'a', 'n', 'o', 'l', 'e', 'p', 't', 'i', 'c', 0x00,
	0x40, 0x00, 0x02, 0x00, 0xab, 0xcd,
}

// Text is the payload of AttrText, NUL included.
var Text = []byte("Organoleptic\x00")

// Raw returns the decoded form of SmallFrame and NormalFrame.
func Raw() *transcoder.RawMessage {
	return transcoder.NewMessage(ProtocolID, CommandID,
		transcoder.NewLeaf(AttrBlob, []byte{0x00, 0x01, 0x02, 0x03, 0x04}),
		transcoder.NewNode(AttrGroup,
			transcoder.NewLeaf(AttrLevel, []byte{0x0a}),
			transcoder.NewNode(AttrLabel,
				transcoder.NewLeaf(AttrText, []byte("Organoleptic\x00")),
			),
		),
		transcoder.NewLeaf(AttrSetting, []byte{0xab, 0xcd}),
	)
}

// Command returns the descriptor of the sample command.
func Command() validator.CommandDescriptor {
	return validator.CommandDescriptor{
		ID:   CommandID,
		Name: "Sample",
		Attributes: []validator.AttributeDescriptor{
			{ID: AttrBlob, Name: "Blob", DataType: validator.TypeByteArray},
			{ID: AttrGroup, Name: "Group", DataType: validator.TypeSubAttributes, SubAttributes: []validator.AttributeDescriptor{
				{ID: AttrLevel, Name: "Level", DataType: validator.TypeU8},
				{ID: AttrLabel, Name: "Label", DataType: validator.TypeSubAttributes, SubAttributes: []validator.AttributeDescriptor{
					{ID: AttrText, Name: "Text", Optional: true, DataType: validator.TypeString},
				}},
			}},
			{ID: AttrSetting, Name: "Setting", Optional: true, DataType: validator.TypeU16},
		},
	}
}

// Protocol returns the sample protocol descriptor: the sample command plus
// an attribute-less ping command 0x01.
func Protocol() *validator.ProtocolDescriptor {
	return &validator.ProtocolDescriptor{
		Name: "Sample",
		Commands: []validator.CommandDescriptor{
			Command(),
			{ID: 0x01, Name: "Ping"},
		},
	}
}

// Table returns a resolver holding only the sample protocol.
func Table() validator.ProtocolTable {
	return validator.ProtocolTable{ProtocolID: Protocol()}
}

// Validated returns the validated form of Raw.
func Validated() *validator.ValidatedCommand {
	return validator.NewCommand(CommandID,
		validator.FromBytes([]byte{0x00, 0x01, 0x02, 0x03, 0x04}),
		validator.FromAttributes(
			validator.FromU8(0x0a),
			validator.FromAttributes(validator.FromString("Organoleptic")),
		),
		validator.ValidatedAttribute{Data: []byte{0xab, 0xcd}},
	)
}
