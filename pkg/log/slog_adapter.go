package log

import (
	"context"
	"log/slog"
)

// SlogAdapter writes protocol events to an slog.Logger at Debug level.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter creates a new SlogAdapter that writes to the given slog.Logger.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return &SlogAdapter{logger: logger}
}

// Log writes the event to the slog logger at Debug level.
func (a *SlogAdapter) Log(event Event) {
	attrs := []slog.Attr{
		slog.String("core_id", event.CoreID),
		slog.String("direction", event.Direction.String()),
		slog.String("layer", event.Layer.String()),
		slog.String("category", event.Category.String()),
		slog.String("mode", event.Mode.String()),
	}

	switch {
	case event.Frame != nil:
		attrs = append(attrs,
			slog.Int("frame_size", event.Frame.Size),
			slog.Bool("truncated", event.Frame.Truncated),
		)
	case event.Message != nil:
		attrs = append(attrs,
			slog.Uint64("protocol_id", uint64(event.Message.ProtocolID)),
			slog.Uint64("command_id", uint64(event.Message.CommandID)),
			slog.Uint64("attributes", uint64(event.Message.AttributeCount)),
		)
		if event.Message.Raw {
			attrs = append(attrs, slog.Bool("raw", true))
		}
		if event.Message.HandlerTime != nil {
			attrs = append(attrs, slog.Duration("handler_time", *event.Message.HandlerTime))
		}
	case event.Error != nil:
		attrs = append(attrs,
			slog.String("error_layer", event.Error.Layer.String()),
			slog.String("error_msg", event.Error.Message),
			slog.String("error_context", event.Error.Context),
			slog.Bool("reported", event.Error.Reported),
		)
		if event.Error.Code != nil {
			attrs = append(attrs, slog.Int("error_code", *event.Error.Code))
		}
	case event.Registration != nil:
		attrs = append(attrs,
			slog.Uint64("protocol_id", uint64(event.Registration.ProtocolID)),
			slog.String("name", event.Registration.Name),
			slog.Int("commands", event.Registration.Commands),
			slog.String("fingerprint", event.Registration.Fingerprint),
			slog.Bool("replaced", event.Registration.Replaced),
		)
	}

	a.logger.LogAttrs(context.Background(), slog.LevelDebug, "protocol", attrs...)
}

var _ Logger = (*SlogAdapter)(nil)
