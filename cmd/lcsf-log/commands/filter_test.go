package commands

import (
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/lcsf-protocol/lcsf-go/pkg/log"
)

func readAll(t *testing.T, path string) []log.Event {
	t.Helper()
	reader, err := log.NewReader(path)
	if err != nil {
		t.Fatalf("failed to open output: %v", err)
	}
	defer reader.Close()

	var events []log.Event
	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("failed to read event: %v", err)
		}
		events = append(events, event)
	}
	return events
}

func TestFilterByCoreID(t *testing.T) {
	ts := time.Date(2026, 1, 28, 10, 15, 32, 0, time.UTC)
	events := []log.Event{
		{Timestamp: ts, CoreID: "core-1", Category: log.CategoryMessage},
		{Timestamp: ts, CoreID: "core-2", Category: log.CategoryMessage},
		{Timestamp: ts, CoreID: "core-1", Category: log.CategoryMessage},
	}

	path := createTestLogFile(t, events)
	outPath := filepath.Join(t.TempDir(), "filtered"+log.FileExtension)

	count, err := RunFilter(path, FilterOptions{
		Output: outPath,
		CoreID: "core-1",
	})
	if err != nil {
		t.Fatalf("RunFilter failed: %v", err)
	}
	if count != 2 {
		t.Errorf("count = %d, want 2", count)
	}

	for _, event := range readAll(t, outPath) {
		if event.CoreID != "core-1" {
			t.Errorf("expected core-1, got %s", event.CoreID)
		}
	}
}

func TestFilterByTimeRange(t *testing.T) {
	base := time.Date(2026, 1, 28, 10, 0, 0, 0, time.UTC)
	events := []log.Event{
		{Timestamp: base, Category: log.CategoryMessage},
		{Timestamp: base.Add(time.Hour), Category: log.CategoryMessage},
		{Timestamp: base.Add(2 * time.Hour), Category: log.CategoryMessage},
	}

	path := createTestLogFile(t, events)
	outPath := filepath.Join(t.TempDir(), "filtered"+log.FileExtension)

	_, err := RunFilter(path, FilterOptions{
		Output:    outPath,
		TimeStart: "2026-01-28T10:30:00Z",
		TimeEnd:   "2026-01-28T11:30:00Z",
	})
	if err != nil {
		t.Fatalf("RunFilter failed: %v", err)
	}

	if got := readAll(t, outPath); len(got) != 1 {
		t.Errorf("expected 1 event, got %d", len(got))
	}
}

func TestFilterByLayerAndProtocol(t *testing.T) {
	ts := time.Date(2026, 1, 28, 10, 0, 0, 0, time.UTC)
	events := []log.Event{
		{Timestamp: ts, Layer: log.LayerTranscoder, Frame: log.NewFrameEvent([]byte{0xab})},
		{Timestamp: ts, Layer: log.LayerDispatch, Message: &log.MessageEvent{ProtocolID: 0xab}},
		{Timestamp: ts, Layer: log.LayerDispatch, Message: &log.MessageEvent{ProtocolID: 0x10}},
		{Timestamp: ts, Layer: log.LayerDispatch, Category: log.CategoryRegistration, Registration: &log.RegistrationEvent{ProtocolID: 0xab}},
	}

	path := createTestLogFile(t, events)
	outPath := filepath.Join(t.TempDir(), "filtered"+log.FileExtension)

	count, err := RunFilter(path, FilterOptions{
		Output:     outPath,
		Layer:      "dispatch",
		ProtocolID: "0xab",
	})
	if err != nil {
		t.Fatalf("RunFilter failed: %v", err)
	}
	if count != 2 {
		t.Errorf("count = %d, want 2", count)
	}

	for _, event := range readAll(t, outPath) {
		if pid, ok := log.EventProtocolID(event); !ok || pid != 0xab {
			t.Errorf("unexpected event %+v", event)
		}
	}
}

func TestFilterInvalidOptions(t *testing.T) {
	path := createTestLogFile(t, nil)
	outPath := filepath.Join(t.TempDir(), "filtered"+log.FileExtension)

	tests := []struct {
		name string
		opts FilterOptions
	}{
		{"bad layer", FilterOptions{Output: outPath, Layer: "wire"}},
		{"bad direction", FilterOptions{Output: outPath, Direction: "sideways"}},
		{"bad category", FilterOptions{Output: outPath, Category: "state"}},
		{"bad protocol id", FilterOptions{Output: outPath, ProtocolID: "0x10000"}},
		{"bad time", FilterOptions{Output: outPath, TimeStart: "yesterday"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := RunFilter(path, tt.opts); err == nil {
				t.Error("expected error")
			}
		})
	}
}
