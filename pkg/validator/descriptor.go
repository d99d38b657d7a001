package validator

import (
	"maps"
	"slices"
)

// AttributeDescriptor describes one attribute slot. SubAttributes is only
// meaningful when DataType is TypeSubAttributes.
type AttributeDescriptor struct {
	ID            uint16
	Name          string
	Optional      bool
	DataType      DataType
	SubAttributes []AttributeDescriptor
}

// CommandDescriptor describes one command and its attribute slots in order.
type CommandDescriptor struct {
	ID         uint16
	Name       string
	Attributes []AttributeDescriptor
}

// ProtocolDescriptor describes the commands of one protocol.
type ProtocolDescriptor struct {
	Name     string
	Commands []CommandDescriptor
}

// Command returns the command with the given id, or nil.
func (p *ProtocolDescriptor) Command(id uint16) *CommandDescriptor {
	for i := range p.Commands {
		if p.Commands[i].ID == id {
			return &p.Commands[i]
		}
	}
	return nil
}

// Attribute returns the top-level attribute with the given id, or nil.
func (c *CommandDescriptor) Attribute(id uint16) *AttributeDescriptor {
	return findDescriptor(c.Attributes, id)
}

// Attribute returns the child with the given id, or nil.
func (a *AttributeDescriptor) Attribute(id uint16) *AttributeDescriptor {
	return findDescriptor(a.SubAttributes, id)
}

func findDescriptor(descs []AttributeDescriptor, id uint16) *AttributeDescriptor {
	for i := range descs {
		if descs[i].ID == id {
			return &descs[i]
		}
	}
	return nil
}

// Resolver looks up registered protocol descriptors by protocol id.
type Resolver interface {
	Protocol(id uint16) (*ProtocolDescriptor, bool)
}

// ProtocolTable is a Resolver backed by a map.
type ProtocolTable map[uint16]*ProtocolDescriptor

// Protocol implements Resolver.
func (t ProtocolTable) Protocol(id uint16) (*ProtocolDescriptor, bool) {
	desc, ok := t[id]
	return desc, ok
}

// ProtocolIDs returns the table's protocol ids in ascending order.
func (t ProtocolTable) ProtocolIDs() []uint16 {
	return slices.Sorted(maps.Keys(t))
}
