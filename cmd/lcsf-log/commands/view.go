// Package commands implements the lcsf-log CLI commands.
package commands

import (
	"encoding/hex"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/lcsf-protocol/lcsf-go/pkg/inspect"
	"github.com/lcsf-protocol/lcsf-go/pkg/log"
	"github.com/lcsf-protocol/lcsf-go/pkg/transcoder"
)

// ViewFilter specifies criteria for filtering events in the view command.
type ViewFilter struct {
	Layer      *log.Layer
	Direction  *log.Direction
	Category   *log.Category
	ProtocolID *uint16

	// Decode renders captured frames as decoded messages.
	Decode bool
}

func (f ViewFilter) logFilter() log.Filter {
	return log.Filter{
		Layer:      f.Layer,
		Direction:  f.Direction,
		Category:   f.Category,
		ProtocolID: f.ProtocolID,
	}
}

// formatEvent writes a human-readable representation of the event to w.
func formatEvent(w io.Writer, event log.Event, decode bool) {
	// Header line: timestamp [core:id] DIRECTION LAYER Type
	ts := event.Timestamp.UTC().Format("2006-01-02T15:04:05.000000Z")
	coreID := shortenCoreID(event.CoreID)
	dir := event.Direction.String()

	var typeLabel string
	switch {
	case event.Frame != nil:
		typeLabel = "Frame"
	case event.Message != nil:
		typeLabel = "Command"
		if event.Message.Raw {
			typeLabel = "RawMessage"
		}
	case event.Registration != nil:
		typeLabel = "Registration"
	case event.Error != nil:
		typeLabel = "Error"
	default:
		typeLabel = "Unknown"
	}

	fmt.Fprintf(w, "%s [core:%s] %-3s %s %s\n", ts, coreID, dir, event.Layer.String(), typeLabel)

	switch {
	case event.Frame != nil:
		formatFrameDetails(w, event.Frame, event.Mode, decode)
	case event.Message != nil:
		formatMessageDetails(w, event.Message)
	case event.Registration != nil:
		formatRegistrationDetails(w, event.Registration)
	case event.Error != nil:
		formatErrorDetails(w, event.Error)
	}

	fmt.Fprintln(w) // Blank line between events
}

// shortenCoreID returns the first 8 characters of the core ID.
func shortenCoreID(id string) string {
	if len(id) >= 8 {
		return id[:8]
	}
	return id
}

// formatFrameDetails writes frame-specific details.
func formatFrameDetails(w io.Writer, frame *log.FrameEvent, mode transcoder.Mode, decode bool) {
	fmt.Fprintf(w, "  Size: %d bytes\n", frame.Size)
	if len(frame.Data) == 0 {
		return
	}
	fmt.Fprintf(w, "  Data: %s", hex.EncodeToString(frame.Data))
	if frame.Truncated {
		fmt.Fprintf(w, " (truncated)")
	}
	fmt.Fprintln(w)

	if !decode || frame.Truncated {
		return
	}
	msg, err := transcoder.Decode(mode, frame.Data)
	if err != nil {
		fmt.Fprintf(w, "  Decoded (%s): %v\n", mode, err)
		return
	}
	f := &inspect.Formatter{ShowIDs: true, IndentWidth: 2}
	fmt.Fprintf(w, "  Decoded (%s):\n", mode)
	for _, line := range strings.Split(strings.TrimSuffix(f.FormatRaw(msg), "\n"), "\n") {
		fmt.Fprintf(w, "    %s\n", line)
	}
}

// formatMessageDetails writes message-specific details.
func formatMessageDetails(w io.Writer, msg *log.MessageEvent) {
	fmt.Fprintf(w, "  Protocol: 0x%x  Command: 0x%x  Attributes: %d\n", msg.ProtocolID, msg.CommandID, msg.AttributeCount)
	if msg.HandlerTime != nil {
		fmt.Fprintf(w, "  Handler: %s\n", formatDuration(*msg.HandlerTime))
	}
}

// formatRegistrationDetails writes protocol registration details.
func formatRegistrationDetails(w io.Writer, reg *log.RegistrationEvent) {
	name := reg.Name
	if name == "" {
		name = "unnamed"
	}
	fmt.Fprintf(w, "  Protocol: 0x%x (%s)  Commands: %d\n", reg.ProtocolID, name, reg.Commands)
	if reg.Fingerprint != "" {
		fmt.Fprintf(w, "  Fingerprint: %s\n", reg.Fingerprint)
	}
	if reg.Replaced {
		fmt.Fprintln(w, "  Replaced: true")
	}
}

// formatErrorDetails writes error details.
func formatErrorDetails(w io.Writer, err *log.ErrorEventData) {
	fmt.Fprintf(w, "  Layer: %s\n", err.Layer.String())
	fmt.Fprintf(w, "  Message: %s\n", err.Message)
	if err.Code != nil {
		fmt.Fprintf(w, "  Code: %d\n", *err.Code)
	}
	if err.Context != "" {
		fmt.Fprintf(w, "  Context: %s\n", err.Context)
	}
	if err.Reported {
		fmt.Fprintln(w, "  Reported: true")
	}
}

// formatDuration formats a duration for display.
func formatDuration(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%.3fus", float64(d.Nanoseconds())/1000)
	}
	if d < time.Second {
		return fmt.Sprintf("%.3fms", float64(d.Microseconds())/1000)
	}
	return fmt.Sprintf("%.3fs", d.Seconds())
}

// ParseLayerFlag parses a layer string from command-line flag (case-insensitive).
func ParseLayerFlag(s string) (log.Layer, error) {
	return log.ParseLayer(s)
}

// ParseDirectionFlag parses a direction string from command-line flag (case-insensitive).
func ParseDirectionFlag(s string) (log.Direction, error) {
	return log.ParseDirection(s)
}

// ParseCategoryFlag parses a category string from command-line flag (case-insensitive).
func ParseCategoryFlag(s string) (log.Category, error) {
	return log.ParseCategory(s)
}

// ParseProtocolIDFlag parses a protocol id in decimal or 0x hex.
func ParseProtocolIDFlag(s string) (uint16, error) {
	v, err := strconv.ParseUint(s, 0, 16)
	if err != nil {
		return 0, fmt.Errorf("invalid protocol id: %s", s)
	}
	return uint16(v), nil
}

// RunView executes the view command.
func RunView(path string, filter ViewFilter, output io.Writer) error {
	reader, err := log.NewFilteredReader(path, filter.logFilter())
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		formatEvent(output, event, filter.Decode)
	}

	return nil
}
