package transcoder

import "testing"

func TestModeFields(t *testing.T) {
	tests := []struct {
		mode       Mode
		fieldSize  int
		headerSize int
		maxField   uint16
		maxAttrID  uint16
		flag       uint16
	}{
		{ModeSmall, 1, 3, 0xFF, 0x7F, 0x80},
		{ModeNormal, 2, 6, 0xFFFF, 0x7FFF, 0x8000},
	}

	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			if got := tt.mode.FieldSize(); got != tt.fieldSize {
				t.Errorf("FieldSize() = %d, want %d", got, tt.fieldSize)
			}
			if got := tt.mode.HeaderSize(); got != tt.headerSize {
				t.Errorf("HeaderSize() = %d, want %d", got, tt.headerSize)
			}
			if got := tt.mode.MaxFieldValue(); got != tt.maxField {
				t.Errorf("MaxFieldValue() = 0x%x, want 0x%x", got, tt.maxField)
			}
			if got := tt.mode.MaxAttributeID(); got != tt.maxAttrID {
				t.Errorf("MaxAttributeID() = 0x%x, want 0x%x", got, tt.maxAttrID)
			}
			if got := tt.mode.subAttributeFlag(); got != tt.flag {
				t.Errorf("subAttributeFlag() = 0x%x, want 0x%x", got, tt.flag)
			}
		})
	}
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{"small", ModeSmall, false},
		{"NORMAL", ModeNormal, false},
		{" Normal ", ModeNormal, false},
		{"large", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMode(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseMode(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseMode(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestModeText(t *testing.T) {
	var m Mode
	if err := m.UnmarshalText([]byte("normal")); err != nil {
		t.Fatalf("UnmarshalText failed: %v", err)
	}
	text, err := m.MarshalText()
	if err != nil || string(text) != "normal" {
		t.Errorf("MarshalText() = %q, %v", text, err)
	}
	if _, err := Mode(9).MarshalText(); err == nil {
		t.Error("expected error for unknown mode")
	}
}

func TestDecodeErrorCodeString(t *testing.T) {
	if FormatError.String() != "FORMAT_ERROR" || OverflowError.String() != "OVERFLOW_ERROR" {
		t.Errorf("unexpected names %s %s", FormatError, OverflowError)
	}
	if got := DecodeErrorCode(9).String(); got != "UNKNOWN(9)" {
		t.Errorf("String() = %s", got)
	}
}
