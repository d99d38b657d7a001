// Package log provides protocol capture logging for LCSF cores.
//
// This package defines the Logger interface and Event types for capturing
// protocol events at the transcoder, validator and dispatch layers. It is
// separate from operational logging (slog): protocol capture produces a
// machine-readable trace of every frame a core handles.
//
// # Basic Usage
//
// Applications enable capture by setting a Logger on the core configuration:
//
//	// For development: log to console via slog
//	cfg.ProtocolLogger = log.NewSlogAdapter(slog.Default())
//
//	// For analysis: write to a capture file
//	cfg.ProtocolLogger, _ = log.NewFileLogger("/var/log/lcsf/node.llog")
//
//	// Both
//	cfg.ProtocolLogger = log.NewMultiLogger(console, file)
//
// # Event Types
//
//   - Transcoder: raw inbound and outbound frames (FrameEvent), decode errors
//   - Validator: validation errors
//   - Dispatch: dispatched commands (MessageEvent), protocol registrations
//     (RegistrationEvent)
//
// # File Format
//
// Capture files are a stream of CBOR-encoded events with the .llog
// extension. The lcsf-log tool views, filters, exports and summarizes them.
package log
