package validator_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lcsf-protocol/lcsf-go/internal/testproto"
	"github.com/lcsf-protocol/lcsf-go/pkg/transcoder"
	"github.com/lcsf-protocol/lcsf-go/pkg/validator"
)

func TestCheckSample(t *testing.T) {
	assert.NoError(t, testproto.Protocol().Check(transcoder.ModeSmall))
	assert.NoError(t, testproto.Protocol().Check(transcoder.ModeNormal))
}

func TestCheckDefects(t *testing.T) {
	tests := []struct {
		name   string
		mode   transcoder.Mode
		mutate func(p *validator.ProtocolDescriptor)
		want   string
	}{
		{
			name:   "command id too wide",
			mode:   transcoder.ModeSmall,
			mutate: func(p *validator.ProtocolDescriptor) { p.Commands[1].ID = 0x100 },
			want:   "command 0x100 does not fit SMALL mode",
		},
		{
			name:   "duplicate command",
			mode:   transcoder.ModeNormal,
			mutate: func(p *validator.ProtocolDescriptor) { p.Commands[1].ID = testproto.CommandID },
			want:   "duplicate command id 0x12",
		},
		{
			name:   "attribute id uses flag bit",
			mode:   transcoder.ModeSmall,
			mutate: func(p *validator.ProtocolDescriptor) { p.Commands[0].Attributes[0].ID = 0x80 },
			want:   "attribute 0x80: id does not fit SMALL mode",
		},
		{
			name: "duplicate child",
			mode: transcoder.ModeSmall,
			mutate: func(p *validator.ProtocolDescriptor) {
				p.Commands[0].Attributes[1].SubAttributes[1].ID = testproto.AttrLevel
			},
			want: "attribute 0x30: duplicate id",
		},
		{
			name:   "unknown type",
			mode:   transcoder.ModeSmall,
			mutate: func(p *validator.ProtocolDescriptor) { p.Commands[0].Attributes[2].DataType = 9 },
			want:   "unknown data type 9",
		},
		{
			name: "children on scalar",
			mode: transcoder.ModeSmall,
			mutate: func(p *validator.ProtocolDescriptor) {
				p.Commands[0].Attributes[0].SubAttributes = []validator.AttributeDescriptor{{ID: 1}}
			},
			want: "BYTE_ARRAY attribute with children",
		},
		{
			name: "empty node",
			mode: transcoder.ModeSmall,
			mutate: func(p *validator.ProtocolDescriptor) {
				p.Commands[0].Attributes[1].SubAttributes[1].SubAttributes = nil
			},
			want: "sub-attributes node without children",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := testproto.Protocol()
			tt.mutate(p)

			err := p.Check(tt.mode)
			assert.ErrorIs(t, err, validator.ErrInvalidDescriptor)
			assert.ErrorContains(t, err, tt.want)
		})
	}
}
