package inspect

import (
	"bytes"
	"errors"
	"reflect"
	"testing"

	"github.com/lcsf-protocol/lcsf-go/internal/testproto"
	"github.com/lcsf-protocol/lcsf-go/pkg/transcoder"
	"github.com/lcsf-protocol/lcsf-go/pkg/validator"
)

func mustAssignments(t *testing.T, in ...string) []Assignment {
	t.Helper()
	out := make([]Assignment, 0, len(in))
	for _, s := range in {
		a, err := ParseAssignment(s)
		if err != nil {
			t.Fatalf("ParseAssignment(%q): %v", s, err)
		}
		out = append(out, a)
	}
	return out
}

func TestParseAssignment(t *testing.T) {
	a, err := ParseAssignment("Group/Label/Text=a=b")
	if err != nil {
		t.Fatal(err)
	}
	want := Assignment{Path: []string{"Group", "Label", "Text"}, Value: "a=b"}
	if !reflect.DeepEqual(a, want) {
		t.Errorf("ParseAssignment = %+v, want %+v", a, want)
	}

	for _, bad := range []string{"Level", "/Level=1", "Group//Level=1"} {
		if _, err := ParseAssignment(bad); !errors.Is(err, ErrInvalidPath) {
			t.Errorf("ParseAssignment(%q) error = %v, want ErrInvalidPath", bad, err)
		}
	}
}

func TestBuildCommand(t *testing.T) {
	desc := testproto.Command()
	cmd, err := BuildCommand(&desc, mustAssignments(t,
		"Blob=00 01 02 03 04",
		"group/level=10",
		"Group/Label/Text=Organoleptic",
		"0x40=0xcdab",
	))
	if err != nil {
		t.Fatalf("BuildCommand: %v", err)
	}
	if !reflect.DeepEqual(cmd, testproto.Validated()) {
		t.Fatalf("BuildCommand = %+v\nwant %+v", cmd, testproto.Validated())
	}

	raw, err := validator.EncodeValid(testproto.ProtocolID, &desc, cmd)
	if err != nil {
		t.Fatalf("EncodeValid: %v", err)
	}
	data, err := transcoder.Encode(transcoder.ModeSmall, raw)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !bytes.Equal(data, testproto.SmallFrame) {
		t.Errorf("encoded = %x, want %x", data, testproto.SmallFrame)
	}
}

func TestBuildCommandLeavesUnassignedAbsent(t *testing.T) {
	desc := testproto.Command()
	cmd, err := BuildCommand(&desc, mustAssignments(t, "Blob=ff"))
	if err != nil {
		t.Fatal(err)
	}
	if len(cmd.Attributes) != 3 {
		t.Fatalf("slots = %d, want 3", len(cmd.Attributes))
	}
	if cmd.Attributes[1].IsPresent() || cmd.Attributes[2].IsPresent() {
		t.Errorf("unassigned attributes present: %+v", cmd.Attributes)
	}

	_, err = validator.EncodeValid(testproto.ProtocolID, &desc, cmd)
	if !errors.Is(err, validator.ErrMissingMandatoryAttribute) {
		t.Errorf("EncodeValid error = %v, want missing mandatory", err)
	}
}

func TestBuildCommandErrors(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		wantErr error
	}{
		{"unknown attribute", "Nope=1", ErrUnknownName},
		{"assign a node", "Group=1", ErrInvalidValue},
		{"below a scalar", "Blob/x=1", ErrInvalidPath},
		{"u8 overflow", "Group/Level=256", ErrInvalidValue},
		{"u16 not a number", "Setting=high", ErrInvalidValue},
		{"bytes not hex", "Blob=zz", ErrInvalidValue},
		{"bytes empty", "Blob=", ErrInvalidValue},
	}

	desc := testproto.Command()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BuildCommand(&desc, mustAssignments(t, tt.in))
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("BuildCommand(%q) error = %v, want %v", tt.in, err, tt.wantErr)
			}
		})
	}
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		dt   validator.DataType
		in   string
		want []byte
	}{
		{validator.TypeU8, "255", []byte{0xff}},
		{validator.TypeU16, "0x0102", []byte{0x02, 0x01}},
		{validator.TypeU32, "1", []byte{0x01, 0x00, 0x00, 0x00}},
		{validator.TypeByteArray, "0xdead", []byte{0xde, 0xad}},
		{validator.TypeString, "", []byte{0x00}},
	}
	for _, tt := range tests {
		got, err := ParseValue(tt.dt, tt.in)
		if err != nil {
			t.Errorf("ParseValue(%s, %q): %v", tt.dt, tt.in, err)
			continue
		}
		if !bytes.Equal(got, tt.want) {
			t.Errorf("ParseValue(%s, %q) = %x, want %x", tt.dt, tt.in, got, tt.want)
		}
	}

	if _, err := ParseValue(validator.TypeSubAttributes, "1"); !errors.Is(err, ErrInvalidValue) {
		t.Errorf("ParseValue(sub) error = %v", err)
	}
}
