package core

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/lcsf-protocol/lcsf-go/pkg/errorproto"
	"github.com/lcsf-protocol/lcsf-go/pkg/log"
	"github.com/lcsf-protocol/lcsf-go/pkg/transcoder"
	"github.com/lcsf-protocol/lcsf-go/pkg/validator"
)

// Core decodes, validates and dispatches LCSF messages for one endpoint.
type Core struct {
	id              string
	config          Config
	sender          Sender
	errorProtocolID uint16
	protocols       map[uint16]registration

	logger         *slog.Logger
	protocolLogger log.Logger
}

type registration struct {
	desc    *validator.ProtocolDescriptor
	handler Handler
}

// New creates a Core sending through sender. The error protocol is
// registered with a handler that logs received reports.
func New(sender Sender, config Config) (*Core, error) {
	if sender == nil {
		return nil, ErrNilSender
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	c := &Core{
		id:              uuid.NewString(),
		config:          config,
		sender:          sender,
		errorProtocolID: errorproto.ProtocolID(config.Mode),
		protocols:       make(map[uint16]registration),
		logger:          config.Logger,
		protocolLogger:  config.ProtocolLogger,
	}
	c.register(c.errorProtocolID, errorproto.Descriptor(), c.defaultErrorHandler())
	return c, nil
}

// ID returns the core's instance id, as stamped on capture events.
func (c *Core) ID() string {
	return c.id
}

// Mode returns the wire mode.
func (c *Core) Mode() transcoder.Mode {
	return c.config.Mode
}

// ErrorProtocolID returns the id of the error protocol in this core's mode.
func (c *Core) ErrorProtocolID() uint16 {
	return c.errorProtocolID
}

// Protocol implements validator.Resolver over the registration table.
func (c *Core) Protocol(id uint16) (*validator.ProtocolDescriptor, bool) {
	reg, ok := c.protocols[id]
	if !ok {
		return nil, false
	}
	return reg.desc, true
}

// ProtocolIDs returns the registered protocol ids in ascending order.
func (c *Core) ProtocolIDs() []uint16 {
	ids := make([]uint16, 0, len(c.protocols))
	for id := range c.protocols {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// AddProtocol registers or replaces the descriptor and handler for id.
// Registering the error protocol id replaces the error handler. A nil
// handler validates and then discards the protocol's commands.
//
// The descriptor must not be modified after registration.
func (c *Core) AddProtocol(id uint16, desc *validator.ProtocolDescriptor, h Handler) error {
	if desc == nil {
		return ErrNilDescriptor
	}
	if id > c.config.Mode.MaxFieldValue() {
		return fmt.Errorf("protocol id 0x%x in %s mode: %w", id, c.config.Mode, transcoder.ErrFieldRange)
	}
	if err := desc.Check(c.config.Mode); err != nil {
		return err
	}
	if h == nil {
		h = discardHandler{}
	}
	c.register(id, desc, h)
	return nil
}

// UpdateErrorHandler replaces the handler of the error protocol. A nil
// handler restores the default, which logs each report.
func (c *Core) UpdateErrorHandler(h Handler) {
	if h == nil {
		h = c.defaultErrorHandler()
	}
	c.register(c.errorProtocolID, errorproto.Descriptor(), h)
}

func (c *Core) register(id uint16, desc *validator.ProtocolDescriptor, h Handler) {
	_, replaced := c.protocols[id]
	c.protocols[id] = registration{desc: desc, handler: h}

	c.debugLog("protocol registered", "protocol_id", id, "name", desc.Name, "replaced", replaced)
	if c.protocolLogger == nil {
		return
	}
	c.capture(log.Event{
		Layer:    log.LayerDispatch,
		Category: log.CategoryRegistration,
		Registration: &log.RegistrationEvent{
			ProtocolID:  id,
			Name:        desc.Name,
			Commands:    len(desc.Commands),
			Fingerprint: desc.Fingerprint(),
			Replaced:    replaced,
		},
	})
}

func (c *Core) defaultErrorHandler() Handler {
	logger := c.logger
	if logger == nil {
		logger = slog.Default()
	}
	return errorLogger{logger: logger}
}

// ReceiveBuff decodes, validates and dispatches one complete message.
//
// A nil return means the registered handler has run. On failure the
// returned error is a *transcoder.DecodeError or *validator.ValidationError,
// nothing is dispatched, and, with GenerateErrors set, one error report has
// been passed to the Sender.
func (c *Core) ReceiveBuff(data []byte) error {
	c.captureFrame(log.DirectionIn, data)

	raw, err := transcoder.DecodeWithLimits(c.config.Mode, data, c.config.Limits)
	if err != nil {
		c.reject(log.LayerTranscoder, "receive", err)
		return err
	}

	cmd, protocolID, err := validator.Validate(raw, c)
	if err != nil {
		c.reject(log.LayerValidator, "receive", err)
		return err
	}

	reg := c.protocols[protocolID]
	start := time.Now()
	reg.handler.HandleCommand(c, protocolID, cmd)
	elapsed := time.Since(start)

	c.debugLog("command dispatched", "protocol_id", protocolID, "command_id", cmd.CommandID)
	c.capture(log.Event{
		Direction: log.DirectionIn,
		Layer:     log.LayerDispatch,
		Category:  log.CategoryMessage,
		Message: &log.MessageEvent{
			ProtocolID:     protocolID,
			CommandID:      cmd.CommandID,
			AttributeCount: raw.AttributeCount,
			HandlerTime:    &elapsed,
		},
	})
	return nil
}

// reject records a receive failure and answers it with an error report when
// configured to.
func (c *Core) reject(layer log.Layer, context string, cause error) {
	loc, code, _ := errorproto.Classify(cause)

	reported := false
	if c.config.GenerateErrors {
		report := errorproto.EncodeError(c.config.Mode, loc, code)
		c.captureFrame(log.DirectionOut, report)
		if err := c.sender.Send(report); err != nil {
			c.debugLog("error report not sent", "error", err)
		} else {
			reported = true
		}
	}

	c.debugLog("message rejected", "layer", layer.String(), "error", cause)
	intCode := int(code)
	c.capture(log.Event{
		Direction: log.DirectionIn,
		Layer:     layer,
		Category:  log.CategoryError,
		Error: &log.ErrorEventData{
			Layer:    layer,
			Message:  cause.Error(),
			Code:     &intCode,
			Context:  context,
			Reported: reported,
		},
	})
}

// SendCmd encodes cmd against the descriptor registered for protocolID and
// passes the bytes to the Sender.
//
// A command that does not fit its registered descriptor is a programming
// error and yields a *ContractError; nothing is sent. Errors from the Sender
// are returned wrapped.
func (c *Core) SendCmd(protocolID uint16, cmd *validator.ValidatedCommand) error {
	contract := func(err error) error {
		c.captureSendError(err)
		return &ContractError{ProtocolID: protocolID, CommandID: cmd.CommandID, Err: err}
	}

	reg, ok := c.protocols[protocolID]
	if !ok {
		return contract(ErrProtocolNotRegistered)
	}
	desc := reg.desc.Command(cmd.CommandID)
	if desc == nil {
		return contract(validator.ErrUnknownCommandID)
	}
	raw, err := validator.EncodeValid(protocolID, desc, cmd)
	if err != nil {
		return contract(err)
	}
	data, err := transcoder.Encode(c.config.Mode, raw)
	if err != nil {
		return contract(err)
	}
	return c.send(raw, data, false)
}

// MustSendCmd is like SendCmd but panics on contract violations. Errors
// from the Sender are still returned.
func (c *Core) MustSendCmd(protocolID uint16, cmd *validator.ValidatedCommand) error {
	err := c.SendCmd(protocolID, cmd)
	var contractErr *ContractError
	if errors.As(err, &contractErr) {
		panic(err)
	}
	return err
}

// ReceiveRaw decodes one complete message without validating or
// dispatching it. Decode failures are answered with an error report when
// GenerateErrors is set, as in ReceiveBuff.
func (c *Core) ReceiveRaw(data []byte) (*transcoder.RawMessage, error) {
	c.captureFrame(log.DirectionIn, data)

	raw, err := transcoder.DecodeWithLimits(c.config.Mode, data, c.config.Limits)
	if err != nil {
		c.reject(log.LayerTranscoder, "receive raw", err)
		return nil, err
	}

	c.capture(log.Event{
		Direction: log.DirectionIn,
		Layer:     log.LayerDispatch,
		Category:  log.CategoryMessage,
		Message: &log.MessageEvent{
			ProtocolID:     raw.ProtocolID,
			CommandID:      raw.CommandID,
			AttributeCount: raw.AttributeCount,
			Raw:            true,
		},
	})
	return raw, nil
}

// SendRaw encodes msg without validation and passes the bytes to the
// Sender. The caller is responsible for the message matching the peer's
// descriptors.
func (c *Core) SendRaw(msg *transcoder.RawMessage) error {
	data, err := transcoder.Encode(c.config.Mode, msg)
	if err != nil {
		c.captureSendError(err)
		return fmt.Errorf("send raw: %w", err)
	}
	return c.send(msg, data, true)
}

func (c *Core) send(raw *transcoder.RawMessage, data []byte, bypass bool) error {
	c.capture(log.Event{
		Direction: log.DirectionOut,
		Layer:     log.LayerDispatch,
		Category:  log.CategoryMessage,
		Message: &log.MessageEvent{
			ProtocolID:     raw.ProtocolID,
			CommandID:      raw.CommandID,
			AttributeCount: raw.AttributeCount,
			Raw:            bypass,
		},
	})
	c.captureFrame(log.DirectionOut, data)

	if err := c.sender.Send(data); err != nil {
		return fmt.Errorf("send protocol 0x%x command 0x%x: %w", raw.ProtocolID, raw.CommandID, err)
	}
	return nil
}

func (c *Core) captureSendError(err error) {
	c.debugLog("send rejected", "error", err)
	c.capture(log.Event{
		Direction: log.DirectionOut,
		Layer:     log.LayerValidator,
		Category:  log.CategoryError,
		Error: &log.ErrorEventData{
			Layer:   log.LayerValidator,
			Message: err.Error(),
			Context: "send",
		},
	})
}

func (c *Core) captureFrame(dir log.Direction, data []byte) {
	if c.protocolLogger == nil {
		return
	}
	c.capture(log.Event{
		Direction: dir,
		Layer:     log.LayerTranscoder,
		Category:  log.CategoryMessage,
		Frame:     log.NewFrameEvent(data),
	})
}

func (c *Core) capture(event log.Event) {
	if c.protocolLogger == nil {
		return
	}
	event.Timestamp = time.Now()
	event.CoreID = c.id
	event.Mode = c.config.Mode
	c.protocolLogger.Log(event)
}

func (c *Core) debugLog(msg string, args ...any) {
	if c.logger != nil {
		c.logger.Debug(msg, args...)
	}
}
