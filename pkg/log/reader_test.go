package log

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func createTestLogFile(t *testing.T, events []Event) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.llog")

	logger, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("failed to create test log: %v", err)
	}
	for _, e := range events {
		logger.Log(e)
	}
	logger.Close()

	return path
}

func readAll(t *testing.T, r *Reader) []Event {
	t.Helper()
	var events []Event
	for {
		e, err := r.Next()
		if err == io.EOF {
			return events
		}
		if err != nil {
			t.Fatalf("Next failed: %v", err)
		}
		events = append(events, e)
	}
}

func testEvents(base time.Time) []Event {
	return []Event{
		{Timestamp: base, CoreID: "core-1", Direction: DirectionIn, Layer: LayerTranscoder, Category: CategoryMessage,
			Frame: NewFrameEvent([]byte{0xab, 0x12, 0x00})},
		{Timestamp: base.Add(time.Second), CoreID: "core-1", Direction: DirectionIn, Layer: LayerDispatch, Category: CategoryMessage,
			Message: &MessageEvent{ProtocolID: 0xab, CommandID: 0x12}},
		{Timestamp: base.Add(2 * time.Second), CoreID: "core-2", Direction: DirectionIn, Layer: LayerValidator, Category: CategoryError,
			Error: &ErrorEventData{Layer: LayerValidator, Message: "unknown protocol id"}},
		{Timestamp: base.Add(3 * time.Second), CoreID: "core-2", Direction: DirectionOut, Layer: LayerDispatch, Category: CategoryRegistration,
			Registration: &RegistrationEvent{ProtocolID: 0x55, Commands: 2}},
	}
}

func TestReaderIteratesEvents(t *testing.T) {
	path := createTestLogFile(t, testEvents(time.Now()))

	reader, err := NewReader(path)
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}
	defer reader.Close()

	events := readAll(t, reader)
	if len(events) != 4 {
		t.Fatalf("got %d events, want 4", len(events))
	}
	if events[0].Frame == nil || events[1].Message == nil || events[2].Error == nil || events[3].Registration == nil {
		t.Error("events out of order or payloads lost")
	}
}

func TestReaderHandlesEmptyFile(t *testing.T) {
	path := createTestLogFile(t, nil)

	reader, err := NewReader(path)
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}
	defer reader.Close()

	if _, err := reader.Next(); err != io.EOF {
		t.Errorf("Next: got %v, want io.EOF", err)
	}
}

func TestReaderHandlesTruncatedFile(t *testing.T) {
	path := createTestLogFile(t, testEvents(time.Now())[:1])

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if err := os.WriteFile(path, data[:len(data)-3], 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	reader, err := NewReader(path)
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}
	defer reader.Close()

	_, err = reader.Next()
	if err == nil || err == io.EOF {
		t.Fatalf("Next: got %v, want decode error", err)
	}
	if !strings.Contains(err.Error(), "capture event 1") {
		t.Errorf("error %q does not name the event", err)
	}
}

func TestReaderFilters(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	path := createTestLogFile(t, testEvents(base))

	layer := LayerDispatch
	dirOut := DirectionOut
	category := CategoryError
	pid := uint16(0xab)
	start := base.Add(time.Second)
	end := base.Add(3 * time.Second)

	tests := []struct {
		name   string
		filter Filter
		want   int
	}{
		{"none", Filter{}, 4},
		{"core id", Filter{CoreID: "core-2"}, 2},
		{"layer", Filter{Layer: &layer}, 2},
		{"direction", Filter{Direction: &dirOut}, 1},
		{"category", Filter{Category: &category}, 1},
		{"protocol id", Filter{ProtocolID: &pid}, 1},
		{"time range", Filter{TimeStart: &start, TimeEnd: &end}, 2},
		{"combined", Filter{CoreID: "core-1", Layer: &layer}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reader, err := NewFilteredReader(path, tt.filter)
			if err != nil {
				t.Fatalf("NewFilteredReader failed: %v", err)
			}
			defer reader.Close()

			if got := len(readAll(t, reader)); got != tt.want {
				t.Errorf("got %d events, want %d", got, tt.want)
			}
		})
	}
}

func TestReaderMissingFile(t *testing.T) {
	if _, err := NewReader(filepath.Join(t.TempDir(), "absent.llog")); err == nil {
		t.Error("expected error for missing file")
	}
}
