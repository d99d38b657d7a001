package log

import (
	"testing"
	"time"
)

func TestNoopLoggerDoesNotPanic(t *testing.T) {
	var logger Logger = NoopLogger{}

	logger.Log(Event{})
	logger.Log(Event{
		Timestamp: time.Now(),
		Frame:     &FrameEvent{Size: 10},
	})
	logger.Log(Event{
		Error: &ErrorEventData{Layer: LayerTranscoder, Message: "bad format"},
	})
}

func TestNoopLoggerIsZeroValue(t *testing.T) {
	var logger NoopLogger
	logger.Log(Event{})
}
