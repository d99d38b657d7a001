// Package inspect renders LCSF messages for people and builds commands from
// text.
//
// The inspect package offers:
//   - Parsing command paths (e.g., "Sample/Ping" or "0xab/0x01")
//   - Resolving protocol, command and attribute names to ids
//   - Building validated commands from "Group/Level=10" assignments
//   - Formatting raw and validated messages for display
package inspect

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lcsf-protocol/lcsf-go/pkg/validator"
)

// Path errors.
var (
	ErrEmptyPath   = errors.New("empty path")
	ErrInvalidPath = errors.New("invalid path format")
)

// Path represents a parsed command path.
// Format: protocol/command[/attribute...]
type Path struct {
	// Protocol is a protocol name or numeric id.
	Protocol string

	// Command is a command name or numeric id.
	Command string

	// Attributes is the attribute path below the command, outermost first.
	Attributes []string

	// Raw stores the original input string.
	Raw string
}

// ParsePath parses a path string into a Path struct.
//
// Supported formats:
//   - "protocol/command" - a command
//   - "protocol/command/attribute/..." - an attribute, nested as deep as needed
//
// Numeric values can be decimal or hex (0x prefix). Names are matched
// case-insensitively when the path is resolved.
func ParsePath(input string) (*Path, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, ErrEmptyPath
	}

	parts, err := splitPath(input)
	if err != nil {
		return nil, err
	}
	if len(parts) < 2 {
		return nil, fmt.Errorf("%w: %q needs protocol/command", ErrInvalidPath, input)
	}

	return &Path{
		Protocol:   parts[0],
		Command:    parts[1],
		Attributes: parts[2:],
		Raw:        input,
	}, nil
}

// String returns the path as a string.
func (p *Path) String() string {
	return strings.Join(append([]string{p.Protocol, p.Command}, p.Attributes...), "/")
}

// Target is a resolved path.
type Target struct {
	ProtocolID uint16
	Protocol   *validator.ProtocolDescriptor
	Command    *validator.CommandDescriptor

	// Attribute is the addressed attribute, nil for a command path.
	Attribute *validator.AttributeDescriptor

	// Slots holds the slot index at each level of the attribute path.
	Slots []int
}

// Resolve looks the path up in reg.
func (p *Path) Resolve(reg Registry) (*Target, error) {
	id, proto, err := ResolveProtocol(reg, p.Protocol)
	if err != nil {
		return nil, err
	}
	cmd, err := ResolveCommand(proto, p.Command)
	if err != nil {
		return nil, err
	}

	t := &Target{ProtocolID: id, Protocol: proto, Command: cmd}
	descs := cmd.Attributes
	for _, seg := range p.Attributes {
		if t.Attribute != nil && t.Attribute.DataType != validator.TypeSubAttributes {
			return nil, fmt.Errorf("%w: %s has no sub-attributes", ErrInvalidPath, t.Attribute.Name)
		}
		idx, err := ResolveAttribute(descs, seg)
		if err != nil {
			return nil, err
		}
		t.Attribute = &descs[idx]
		t.Slots = append(t.Slots, idx)
		descs = t.Attribute.SubAttributes
	}
	return t, nil
}

// Lookup returns the attribute the target addresses inside cmd, and whether
// it is present.
func (t *Target) Lookup(cmd *validator.ValidatedCommand) (validator.ValidatedAttribute, bool) {
	if len(t.Slots) == 0 {
		return validator.ValidatedAttribute{}, false
	}
	attrs := cmd.Attributes
	var attr validator.ValidatedAttribute
	for _, idx := range t.Slots {
		if idx >= len(attrs) {
			return validator.ValidatedAttribute{}, false
		}
		attr = attrs[idx]
		attrs = attr.SubAttributes
	}
	return attr, attr.IsPresent()
}

func splitPath(s string) ([]string, error) {
	if strings.HasPrefix(s, "/") || strings.HasSuffix(s, "/") || strings.Contains(s, "//") {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPath, s)
	}
	return strings.Split(s, "/"), nil
}
