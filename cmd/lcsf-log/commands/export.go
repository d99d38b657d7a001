package commands

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"gopkg.in/vmihailenco/msgpack.v2"

	"github.com/lcsf-protocol/lcsf-go/pkg/log"
)

// Record is the flat event form written by every export format.
type Record struct {
	Timestamp  time.Time `json:"ts" msgpack:"ts"`
	CoreID     string    `json:"core" msgpack:"core"`
	Direction  string    `json:"dir" msgpack:"dir"`
	Layer      string    `json:"layer" msgpack:"layer"`
	Category   string    `json:"cat" msgpack:"cat"`
	Mode       string    `json:"mode" msgpack:"mode"`
	Type       string    `json:"type" msgpack:"type"`
	ProtocolID *uint16   `json:"pid,omitempty" msgpack:"pid,omitempty"`
	CommandID  *uint16   `json:"cid,omitempty" msgpack:"cid,omitempty"`
	Frame      []byte    `json:"frame,omitempty" msgpack:"frame,omitempty"`
	Error      string    `json:"err,omitempty" msgpack:"err,omitempty"`
	Code       *int      `json:"code,omitempty" msgpack:"code,omitempty"`
}

// eventType returns the lower-case kind of payload an event carries.
func eventType(event log.Event) string {
	switch {
	case event.Frame != nil:
		return "frame"
	case event.Message != nil:
		if event.Message.Raw {
			return "raw"
		}
		return "command"
	case event.Registration != nil:
		return "registration"
	case event.Error != nil:
		return "error"
	default:
		return "unknown"
	}
}

// NewRecord flattens an event.
func NewRecord(event log.Event) Record {
	r := Record{
		Timestamp: event.Timestamp.UTC(),
		CoreID:    event.CoreID,
		Direction: event.Direction.String(),
		Layer:     event.Layer.String(),
		Category:  event.Category.String(),
		Mode:      event.Mode.String(),
		Type:      eventType(event),
	}
	if pid, ok := log.EventProtocolID(event); ok {
		r.ProtocolID = &pid
	}
	switch {
	case event.Frame != nil:
		r.Frame = event.Frame.Data
	case event.Message != nil:
		cid := event.Message.CommandID
		r.CommandID = &cid
	case event.Error != nil:
		r.Error = event.Error.Message
		r.Code = event.Error.Code
	}
	return r
}

// RunExport exports the log file to the specified format.
func RunExport(path, format, output string) error {
	reader, err := log.NewReader(path)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	// Determine output writer
	var w io.Writer = os.Stdout
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	switch format {
	case "jsonl":
		return exportJSONL(reader, w)
	case "csv":
		return exportCSV(reader, w)
	case "msgpack":
		return exportMsgpack(reader, w)
	default:
		return fmt.Errorf("unknown format: %s (supported: jsonl, csv, msgpack)", format)
	}
}

func exportJSONL(reader *log.Reader, w io.Writer) error {
	encoder := json.NewEncoder(w)
	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		if err := encoder.Encode(NewRecord(event)); err != nil {
			return fmt.Errorf("failed to encode event: %w", err)
		}
	}
	return nil
}

func exportMsgpack(reader *log.Reader, w io.Writer) error {
	encoder := msgpack.NewEncoder(w)
	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		if err := encoder.Encode(NewRecord(event)); err != nil {
			return fmt.Errorf("failed to encode event: %w", err)
		}
	}
	return nil
}

func exportCSV(reader *log.Reader, w io.Writer) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	header := []string{"timestamp", "core_id", "direction", "layer", "category", "mode", "type", "protocol_id", "command_id", "size"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}

		r := NewRecord(event)
		pid, cid, size := "", "", ""
		if r.ProtocolID != nil {
			pid = fmt.Sprintf("0x%x", *r.ProtocolID)
		}
		if r.CommandID != nil {
			cid = fmt.Sprintf("0x%x", *r.CommandID)
		}
		if event.Frame != nil {
			size = strconv.Itoa(event.Frame.Size)
		}

		row := []string{
			r.Timestamp.Format("2006-01-02T15:04:05.000000Z"),
			r.CoreID,
			r.Direction,
			r.Layer,
			r.Category,
			r.Mode,
			r.Type,
			pid,
			cid,
			size,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	return nil
}
