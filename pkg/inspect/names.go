package inspect

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/lcsf-protocol/lcsf-go/pkg/validator"
)

// ErrUnknownName is returned when a path segment matches no descriptor.
var ErrUnknownName = errors.New("unknown name")

// Registry lists registered protocols. *core.Core implements it.
type Registry interface {
	ProtocolIDs() []uint16
	Protocol(id uint16) (*validator.ProtocolDescriptor, bool)
}

// ResolveProtocol resolves a protocol name (case-insensitive) or numeric id.
func ResolveProtocol(reg Registry, s string) (uint16, *validator.ProtocolDescriptor, error) {
	if id, err := parseUint16(s); err == nil {
		if desc, ok := reg.Protocol(id); ok {
			return id, desc, nil
		}
		return 0, nil, fmt.Errorf("%w: protocol 0x%x", ErrUnknownName, id)
	}
	for _, id := range reg.ProtocolIDs() {
		desc, _ := reg.Protocol(id)
		if desc != nil && strings.EqualFold(desc.Name, s) {
			return id, desc, nil
		}
	}
	return 0, nil, fmt.Errorf("%w: protocol %s", ErrUnknownName, s)
}

// ResolveCommand resolves a command name (case-insensitive) or numeric id
// within a protocol.
func ResolveCommand(proto *validator.ProtocolDescriptor, s string) (*validator.CommandDescriptor, error) {
	if id, err := parseUint16(s); err == nil {
		if cmd := proto.Command(id); cmd != nil {
			return cmd, nil
		}
		return nil, fmt.Errorf("%w: command 0x%x in %s", ErrUnknownName, id, proto.Name)
	}
	for i := range proto.Commands {
		if strings.EqualFold(proto.Commands[i].Name, s) {
			return &proto.Commands[i], nil
		}
	}
	return nil, fmt.Errorf("%w: command %s in %s", ErrUnknownName, s, proto.Name)
}

// ResolveAttribute resolves an attribute name (case-insensitive) or numeric
// id among descs and returns its slot index.
func ResolveAttribute(descs []validator.AttributeDescriptor, s string) (int, error) {
	id, numErr := parseUint16(s)
	for i := range descs {
		if numErr == nil && descs[i].ID == id {
			return i, nil
		}
		if numErr != nil && strings.EqualFold(descs[i].Name, s) {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: attribute %s", ErrUnknownName, s)
}

// ProtocolName returns the registered name of a protocol, or its hex id.
func ProtocolName(reg Registry, id uint16) string {
	if desc, ok := reg.Protocol(id); ok && desc.Name != "" {
		return desc.Name
	}
	return fmt.Sprintf("0x%x", id)
}

// parseUint16 parses a uint16 from decimal or hex string.
func parseUint16(s string) (uint16, error) {
	var v uint64
	var err error

	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		v, err = strconv.ParseUint(s[2:], 16, 16)
	} else {
		v, err = strconv.ParseUint(s, 10, 16)
	}
	if err != nil {
		return 0, err
	}
	return uint16(v), nil
}
