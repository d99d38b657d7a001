package transcoder_test

import (
	"bytes"
	"errors"
	"reflect"
	"testing"

	"github.com/lcsf-protocol/lcsf-go/internal/testproto"
	"github.com/lcsf-protocol/lcsf-go/pkg/transcoder"
)

func TestDecodeSample(t *testing.T) {
	tests := []struct {
		name string
		mode transcoder.Mode
		data []byte
	}{
		{"small", transcoder.ModeSmall, testproto.SmallFrame},
		{"normal", transcoder.ModeNormal, testproto.NormalFrame},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, err := transcoder.Decode(tt.mode, tt.data)
			if err != nil {
				t.Fatalf("Decode failed: %v", err)
			}
			if want := testproto.Raw(); !reflect.DeepEqual(msg, want) {
				t.Errorf("Decode mismatch:\n got %+v\nwant %+v", msg, want)
			}

			group := msg.Attribute(testproto.AttrGroup)
			if group == nil || !group.HasSubAttributes || group.PayloadSize != 2 {
				t.Fatalf("group attribute = %+v", group)
			}
			text := group.Attribute(testproto.AttrLabel).Attribute(testproto.AttrText)
			if !bytes.Equal(text.Data, testproto.Text) {
				t.Errorf("text = %q, want %q", text.Data, testproto.Text)
			}
		})
	}
}

func TestDecodeDoesNotAliasInput(t *testing.T) {
	data := bytes.Clone(testproto.SmallFrame)
	msg, err := transcoder.Decode(transcoder.ModeSmall, data)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	data[5] = 0xee

	if got := msg.Attribute(testproto.AttrBlob).Data[0]; got != 0x00 {
		t.Errorf("payload changed with input buffer: 0x%x", got)
	}
}

func TestDecodeEmptyMessage(t *testing.T) {
	msg, err := transcoder.Decode(transcoder.ModeSmall, []byte{0xab, 0x12, 0x00})
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if msg.ProtocolID != 0xab || msg.CommandID != 0x12 || msg.AttributeCount != 0 || len(msg.Attributes) != 0 {
		t.Errorf("Decode = %+v", msg)
	}
}

func TestDecodeFormatErrors(t *testing.T) {
	tests := []struct {
		name string
		mode transcoder.Mode
		data []byte
	}{
		{"empty buffer", transcoder.ModeSmall, nil},
		{"short header small", transcoder.ModeSmall, []byte{0xab, 0x12}},
		{"short header normal", transcoder.ModeNormal, []byte{0xab, 0x00, 0x12, 0x00, 0x00}},
		{"count exceeds input", transcoder.ModeSmall, []byte{0xab, 0x12, 0x05}},
		{"truncated attribute header", transcoder.ModeSmall, []byte{0xab, 0x12, 0x01, 0x55}},
		{"payload exceeds input", transcoder.ModeSmall, []byte{0xab, 0x12, 0x01, 0x55, 0x04, 0x01, 0x02}},
		{"children exceed input", transcoder.ModeSmall, []byte{0xab, 0x12, 0x01, 0xff, 0x02, 0x30, 0x01, 0x0a}},
		{"trailing byte", transcoder.ModeSmall, []byte{0xab, 0x12, 0x00, 0x00}},
		{"trailing after attributes", transcoder.ModeSmall, append(bytes.Clone(testproto.SmallFrame), 0x00)},
		{"empty leaf", transcoder.ModeSmall, []byte{0xab, 0x12, 0x01, 0x55, 0x00}},
		{"childless node", transcoder.ModeSmall, []byte{0xab, 0x12, 0x01, 0xd5, 0x00}},
		{"duplicate top-level id", transcoder.ModeSmall, []byte{0xab, 0x12, 0x02, 0x01, 0x01, 0xaa, 0x01, 0x01, 0xbb}},
		{"duplicate child id", transcoder.ModeNormal, []byte{
			0xab, 0x00, 0x12, 0x00, 0x01, 0x00,
			0x01, 0x80, 0x02, 0x00,
			0x02, 0x00, 0x01, 0x00, 0xaa,
			0x02, 0x00, 0x01, 0x00, 0xbb,
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := transcoder.Decode(tt.mode, tt.data)
			if !errors.Is(err, transcoder.ErrFormat) {
				t.Fatalf("Decode error = %v, want ErrFormat", err)
			}
			var decErr *transcoder.DecodeError
			if !errors.As(err, &decErr) || decErr.Code != transcoder.FormatError {
				t.Errorf("Decode error = %#v, want FormatError", err)
			}
		})
	}
}

func TestDecodeEveryPrefixFails(t *testing.T) {
	for _, frame := range []struct {
		mode transcoder.Mode
		data []byte
	}{
		{transcoder.ModeSmall, testproto.SmallFrame},
		{transcoder.ModeNormal, testproto.NormalFrame},
	} {
		for n := range len(frame.data) {
			if _, err := transcoder.Decode(frame.mode, frame.data[:n]); !errors.Is(err, transcoder.ErrFormat) {
				t.Errorf("%s prefix of %d bytes: error = %v, want ErrFormat", frame.mode, n, err)
			}
		}
	}
}

// nested returns a Small mode message with depth nodes wrapped around one leaf.
func nested(depth int) []byte {
	buf := []byte{0x01, 0x01, 0x01}
	for range depth {
		buf = append(buf, 0x81, 0x01)
	}
	return append(buf, 0x02, 0x01, 0x00)
}

func TestDecodeDepthLimit(t *testing.T) {
	limit := transcoder.DefaultMaxDepth

	if _, err := transcoder.Decode(transcoder.ModeSmall, nested(limit-1)); err != nil {
		t.Fatalf("Decode at the depth limit failed: %v", err)
	}

	_, err := transcoder.Decode(transcoder.ModeSmall, nested(limit))
	var decErr *transcoder.DecodeError
	if !errors.As(err, &decErr) || decErr.Code != transcoder.OverflowError {
		t.Fatalf("Decode error = %v, want OverflowError", err)
	}
	if !errors.Is(err, transcoder.ErrOverflow) {
		t.Errorf("error does not unwrap to ErrOverflow")
	}

	limits := transcoder.Limits{MaxDepth: limit + 11}
	if _, err := transcoder.DecodeWithLimits(transcoder.ModeSmall, nested(limit+10), limits); err != nil {
		t.Errorf("Decode with a raised depth limit failed: %v", err)
	}
}

func TestDecodeZeroLimitsUseDefaults(t *testing.T) {
	for _, limits := range []transcoder.Limits{{}, {MaxDepth: -1, MaxMessageSize: -1}} {
		_, err := transcoder.DecodeWithLimits(transcoder.ModeSmall, nested(transcoder.DefaultMaxDepth), limits)
		if !errors.Is(err, transcoder.ErrOverflow) {
			t.Errorf("limits %+v: depth error = %v, want ErrOverflow", limits, err)
		}

		big := make([]byte, transcoder.DefaultMaxMessageSize+1)
		_, err = transcoder.DecodeWithLimits(transcoder.ModeSmall, big, limits)
		if !errors.Is(err, transcoder.ErrOverflow) {
			t.Errorf("limits %+v: size error = %v, want ErrOverflow", limits, err)
		}
	}
}

func TestDecodeSizeLimit(t *testing.T) {
	limits := transcoder.Limits{MaxMessageSize: len(testproto.SmallFrame) - 1}

	_, err := transcoder.DecodeWithLimits(transcoder.ModeSmall, testproto.SmallFrame, limits)
	if !errors.Is(err, transcoder.ErrOverflow) {
		t.Fatalf("Decode error = %v, want ErrOverflow", err)
	}

	limits.MaxMessageSize = len(testproto.SmallFrame)
	if _, err := transcoder.DecodeWithLimits(transcoder.ModeSmall, testproto.SmallFrame, limits); err != nil {
		t.Errorf("Decode at the size limit failed: %v", err)
	}
}

func TestDecodeUnknownMode(t *testing.T) {
	if _, err := transcoder.Decode(transcoder.Mode(7), testproto.SmallFrame); err == nil {
		t.Fatal("expected error for unknown mode")
	}
}
