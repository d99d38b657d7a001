package core

import (
	"log/slog"

	"github.com/lcsf-protocol/lcsf-go/pkg/errorproto"
	"github.com/lcsf-protocol/lcsf-go/pkg/validator"
)

// Handler receives validated commands for a registered protocol. It runs on
// the goroutine that called ReceiveBuff and may reply through c.SendCmd.
type Handler interface {
	HandleCommand(c *Core, protocolID uint16, cmd *validator.ValidatedCommand)
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(c *Core, protocolID uint16, cmd *validator.ValidatedCommand)

// HandleCommand calls f.
func (f HandlerFunc) HandleCommand(c *Core, protocolID uint16, cmd *validator.ValidatedCommand) {
	f(c, protocolID, cmd)
}

// Sender puts encoded messages on the wire.
type Sender interface {
	Send(data []byte) error
}

// SenderFunc adapts a function to Sender.
type SenderFunc func(data []byte) error

// Send calls f.
func (f SenderFunc) Send(data []byte) error {
	return f(data)
}

// discardHandler drops commands for protocols registered without a handler.
type discardHandler struct{}

func (discardHandler) HandleCommand(*Core, uint16, *validator.ValidatedCommand) {}

// errorLogger is the default handler of the error protocol.
type errorLogger struct {
	logger *slog.Logger
}

func (h errorLogger) HandleCommand(_ *Core, _ uint16, cmd *validator.ValidatedCommand) {
	loc, errType := errorproto.ProcessError(cmd)
	h.logger.Warn("Received error, location: "+loc+", type: "+errType,
		"location", loc,
		"type", errType,
	)
}
