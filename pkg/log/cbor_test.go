package log

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/fxamacker/cbor/v2"

	"github.com/lcsf-protocol/lcsf-go/pkg/transcoder"
)

func TestEventCBORRoundTrip(t *testing.T) {
	ts := time.Date(2026, 1, 28, 10, 15, 32, 123456789, time.UTC)
	original := Event{
		Timestamp: ts,
		CoreID:    "abc12345-def6-7890-abcd-ef1234567890",
		Direction: DirectionOut,
		Layer:     LayerDispatch,
		Category:  CategoryMessage,
		Mode:      transcoder.ModeNormal,
	}

	data, err := EncodeEvent(original)
	if err != nil {
		t.Fatalf("EncodeEvent failed: %v", err)
	}

	decoded, err := DecodeEvent(data)
	if err != nil {
		t.Fatalf("DecodeEvent failed: %v", err)
	}

	if !decoded.Timestamp.Equal(original.Timestamp) {
		t.Errorf("Timestamp: got %v, want %v", decoded.Timestamp, original.Timestamp)
	}
	if decoded.CoreID != original.CoreID {
		t.Errorf("CoreID: got %q, want %q", decoded.CoreID, original.CoreID)
	}
	if decoded.Direction != original.Direction {
		t.Errorf("Direction: got %v, want %v", decoded.Direction, original.Direction)
	}
	if decoded.Layer != original.Layer {
		t.Errorf("Layer: got %v, want %v", decoded.Layer, original.Layer)
	}
	if decoded.Category != original.Category {
		t.Errorf("Category: got %v, want %v", decoded.Category, original.Category)
	}
	if decoded.Mode != original.Mode {
		t.Errorf("Mode: got %v, want %v", decoded.Mode, original.Mode)
	}
}

func TestFrameEventCBORRoundTrip(t *testing.T) {
	original := Event{
		Timestamp: time.Now(),
		CoreID:    "core-1",
		Direction: DirectionIn,
		Layer:     LayerTranscoder,
		Category:  CategoryMessage,
		Frame:     NewFrameEvent([]byte{0xab, 0x12, 0x00}),
	}

	data, err := EncodeEvent(original)
	if err != nil {
		t.Fatalf("EncodeEvent failed: %v", err)
	}
	decoded, err := DecodeEvent(data)
	if err != nil {
		t.Fatalf("DecodeEvent failed: %v", err)
	}

	if decoded.Frame == nil {
		t.Fatal("Frame is nil")
	}
	if decoded.Frame.Size != 3 {
		t.Errorf("Frame.Size: got %d, want 3", decoded.Frame.Size)
	}
	if !bytes.Equal(decoded.Frame.Data, []byte{0xab, 0x12, 0x00}) {
		t.Errorf("Frame.Data: got % x", decoded.Frame.Data)
	}
	if decoded.Message != nil || decoded.Error != nil || decoded.Registration != nil {
		t.Error("unexpected payloads set")
	}
}

func TestMessageEventCBORRoundTrip(t *testing.T) {
	handlerTime := 1500 * time.Microsecond
	original := Event{
		Timestamp: time.Now(),
		Layer:     LayerDispatch,
		Category:  CategoryMessage,
		Message: &MessageEvent{
			ProtocolID:     0xab,
			CommandID:      0x12,
			AttributeCount: 3,
			HandlerTime:    &handlerTime,
		},
	}

	data, err := EncodeEvent(original)
	if err != nil {
		t.Fatalf("EncodeEvent failed: %v", err)
	}
	decoded, err := DecodeEvent(data)
	if err != nil {
		t.Fatalf("DecodeEvent failed: %v", err)
	}

	msg := decoded.Message
	if msg == nil {
		t.Fatal("Message is nil")
	}
	if msg.ProtocolID != 0xab || msg.CommandID != 0x12 || msg.AttributeCount != 3 {
		t.Errorf("Message: got %+v", msg)
	}
	if msg.Raw {
		t.Error("Raw: got true, want false")
	}
	if msg.HandlerTime == nil || *msg.HandlerTime != handlerTime {
		t.Errorf("HandlerTime: got %v, want %v", msg.HandlerTime, handlerTime)
	}
}

func TestErrorEventCBORRoundTrip(t *testing.T) {
	code := 5
	original := Event{
		Timestamp: time.Now(),
		Direction: DirectionIn,
		Layer:     LayerValidator,
		Category:  CategoryError,
		Error: &ErrorEventData{
			Layer:    LayerValidator,
			Message:  "wrong attribute data type",
			Code:     &code,
			Context:  "receive",
			Reported: true,
		},
	}

	data, err := EncodeEvent(original)
	if err != nil {
		t.Fatalf("EncodeEvent failed: %v", err)
	}
	decoded, err := DecodeEvent(data)
	if err != nil {
		t.Fatalf("DecodeEvent failed: %v", err)
	}

	e := decoded.Error
	if e == nil {
		t.Fatal("Error is nil")
	}
	if e.Layer != LayerValidator || e.Message != original.Error.Message || e.Context != "receive" || !e.Reported {
		t.Errorf("Error: got %+v", e)
	}
	if e.Code == nil || *e.Code != 5 {
		t.Errorf("Code: got %v, want 5", e.Code)
	}
}

func TestRegistrationEventCBORRoundTrip(t *testing.T) {
	original := Event{
		Timestamp: time.Now(),
		Layer:     LayerDispatch,
		Category:  CategoryRegistration,
		Registration: &RegistrationEvent{
			ProtocolID:  0xff,
			Name:        "Error",
			Commands:    1,
			Fingerprint: "00112233445566778899aabbccddeeff",
			Replaced:    true,
		},
	}

	data, err := EncodeEvent(original)
	if err != nil {
		t.Fatalf("EncodeEvent failed: %v", err)
	}
	decoded, err := DecodeEvent(data)
	if err != nil {
		t.Fatalf("DecodeEvent failed: %v", err)
	}

	if decoded.Registration == nil {
		t.Fatal("Registration is nil")
	}
	if *decoded.Registration != *original.Registration {
		t.Errorf("Registration: got %+v, want %+v", decoded.Registration, original.Registration)
	}
}

func TestEventCBORUsesIntegerKeys(t *testing.T) {
	data, err := EncodeEvent(Event{CoreID: "x"})
	if err != nil {
		t.Fatalf("EncodeEvent failed: %v", err)
	}

	// Text keys would include the field names.
	if bytes.Contains(data, []byte("CoreID")) || bytes.Contains(data, []byte("Timestamp")) {
		t.Errorf("encoded event uses text keys: % x", data)
	}
	// The first map entry is integer key 1 (0x01) for Timestamp.
	if len(data) < 2 || data[1] != 0x01 {
		t.Errorf("first key: got % x", data[:2])
	}
}

func TestDecodeEventRejectsGarbage(t *testing.T) {
	if _, err := DecodeEvent([]byte{0xff, 0xff}); err == nil {
		t.Error("expected error for invalid CBOR")
	}
}

func TestDecodeEventRejectsDuplicateKeys(t *testing.T) {
	// {2: "a", 2: "b"}: CoreID twice.
	data := []byte{0xa2, 0x02, 0x61, 'a', 0x02, 0x61, 'b'}

	_, err := DecodeEvent(data)
	var dupErr *cbor.DupMapKeyError
	if !errors.As(err, &dupErr) {
		t.Fatalf("error = %v, want DupMapKeyError", err)
	}
}

func TestDecodeEventRejectsIndefiniteLength(t *testing.T) {
	// Indefinite-length map holding CoreID "a".
	data := []byte{0xbf, 0x02, 0x61, 'a', 0xff}

	if _, err := DecodeEvent(data); err == nil {
		t.Fatal("expected error for indefinite-length map")
	}
}

func TestDecodeEventRejectsDeepNesting(t *testing.T) {
	// CoreID holding arrays nested past the decoder's limit.
	data := []byte{0xa1, 0x02}
	for range maxEventNesting + 1 {
		data = append(data, 0x81)
	}
	data = append(data, 0x00)

	if _, err := DecodeEvent(data); err == nil {
		t.Fatal("expected error for deeply nested event")
	}
}
