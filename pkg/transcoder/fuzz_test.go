package transcoder_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/lcsf-protocol/lcsf-go/internal/testproto"
	"github.com/lcsf-protocol/lcsf-go/pkg/transcoder"
)

// FuzzDecode checks that Decode never panics and that every buffer it
// accepts encodes back to itself.
func FuzzDecode(f *testing.F) {
	f.Add(uint8(0), testproto.SmallFrame)
	f.Add(uint8(1), testproto.NormalFrame)
	f.Add(uint8(0), []byte{0xab, 0x12, 0x00})
	f.Add(uint8(0), []byte{0xab, 0x12, 0x05})
	f.Add(uint8(1), []byte{0xff, 0xff, 0x00, 0x00, 0x02, 0x00})

	f.Fuzz(func(t *testing.T, modeByte uint8, data []byte) {
		mode := transcoder.Mode(modeByte % 2)

		msg, err := transcoder.Decode(mode, data)
		if err != nil {
			var decErr *transcoder.DecodeError
			if !errors.As(err, &decErr) {
				t.Fatalf("Decode returned untyped error %v", err)
			}
			return
		}

		out, err := transcoder.Encode(mode, msg)
		if err != nil {
			t.Fatalf("Encode of decoded message failed: %v", err)
		}
		if !bytes.Equal(out, data) {
			t.Fatalf("round trip mismatch:\n in % x\nout % x", data, out)
		}
	})
}
