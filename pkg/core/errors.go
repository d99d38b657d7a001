package core

import (
	"errors"
	"fmt"
)

// Core errors.
var (
	// ErrContract indicates a send request inconsistent with the sender's
	// own registered descriptors.
	ErrContract = errors.New("command violates registered descriptor")

	// ErrProtocolNotRegistered indicates a protocol id with no registration.
	ErrProtocolNotRegistered = errors.New("protocol not registered")

	// ErrNilDescriptor indicates AddProtocol without a descriptor.
	ErrNilDescriptor = errors.New("descriptor is required")
)

// ContractError is returned by SendCmd when the command cannot be encoded
// against the registered descriptor. It matches both ErrContract and the
// underlying cause with errors.Is.
type ContractError struct {
	ProtocolID uint16
	CommandID  uint16
	Err        error
}

func (e *ContractError) Error() string {
	return fmt.Sprintf("send protocol 0x%x command 0x%x: %v: %v", e.ProtocolID, e.CommandID, ErrContract, e.Err)
}

// Unwrap returns ErrContract and the cause.
func (e *ContractError) Unwrap() []error {
	return []error{ErrContract, e.Err}
}
