package core

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/lcsf-protocol/lcsf-go/pkg/log"
	"github.com/lcsf-protocol/lcsf-go/pkg/transcoder"
)

// ErrNilSender is returned by New when no Sender is given.
var ErrNilSender = errors.New("sender is required")

// Config configures a Core.
type Config struct {
	// Mode is the wire mode for every message the core handles.
	Mode transcoder.Mode

	// GenerateErrors makes the core answer rejected buffers with an error
	// report through the Sender.
	GenerateErrors bool

	// Limits bounds decoding of incoming buffers. Zero fields take the
	// transcoder defaults.
	Limits transcoder.Limits

	// Logger is the optional logger for debug output.
	// If nil, logging is disabled except for the default error handler,
	// which falls back to slog.Default().
	Logger *slog.Logger

	// ProtocolLogger receives protocol capture events (optional).
	ProtocolLogger log.Logger
}

// DefaultConfig returns a Small mode configuration with error reports
// enabled and default decode limits.
func DefaultConfig() Config {
	return Config{
		Mode:           transcoder.ModeSmall,
		GenerateErrors: true,
		Limits:         transcoder.DefaultLimits(),
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if !c.Mode.Valid() {
		return fmt.Errorf("invalid wire mode %d", uint8(c.Mode))
	}
	if c.Limits.MaxDepth < 0 || c.Limits.MaxMessageSize < 0 {
		return fmt.Errorf("negative decode limits %+v", c.Limits)
	}
	return nil
}
