// Package protodesc loads LCSF protocol descriptors from YAML files.
//
// A protocol file names the protocol, its wire id and its commands. Ids may
// be written in decimal or hex (0xab). Attribute types are u8, u16, u32,
// bytes, string and sub; sub attributes list their children under
// "attributes".
package protodesc

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/lcsf-protocol/lcsf-go/pkg/validator"
)

// RawProtocolDef represents a protocol definition loaded from YAML.
type RawProtocolDef struct {
	Name        string          `yaml:"name"`
	ID          uint16          `yaml:"id"`
	Description string          `yaml:"description"`
	Commands    []RawCommandDef `yaml:"commands"`
}

// RawCommandDef represents a command definition.
type RawCommandDef struct {
	ID          uint16            `yaml:"id"`
	Name        string            `yaml:"name"`
	Description string            `yaml:"description"`
	Attributes  []RawAttributeDef `yaml:"attributes"`
}

// RawAttributeDef represents an attribute definition. Attributes holds the
// children of a "sub" attribute.
type RawAttributeDef struct {
	ID          uint16            `yaml:"id"`
	Name        string            `yaml:"name"`
	Type        string            `yaml:"type"` // "u8", "u16", "u32", "bytes", "string", "sub"
	Optional    bool              `yaml:"optional"`
	Description string            `yaml:"description"`
	Attributes  []RawAttributeDef `yaml:"attributes"`
}

// ParseProtocol parses a protocol definition from YAML bytes.
func ParseProtocol(data []byte) (*RawProtocolDef, error) {
	var def RawProtocolDef
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("parsing protocol def: %w", err)
	}
	if def.Name == "" {
		return nil, fmt.Errorf("protocol definition missing name")
	}
	return &def, nil
}

// LoadProtocol loads and parses a protocol definition from a file.
func LoadProtocol(path string) (*RawProtocolDef, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	def, err := ParseProtocol(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return def, nil
}

// LoadDir loads every .yaml and .yml file in dir, ordered by protocol id.
// Two files declaring the same protocol id are an error.
func LoadDir(dir string) ([]*RawProtocolDef, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", dir, err)
	}

	var defs []*RawProtocolDef
	seen := make(map[uint16]string)
	for _, entry := range entries {
		ext := filepath.Ext(entry.Name())
		if entry.IsDir() || (ext != ".yaml" && ext != ".yml") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		def, err := LoadProtocol(path)
		if err != nil {
			return nil, err
		}
		if prev, dup := seen[def.ID]; dup {
			return nil, fmt.Errorf("protocol id 0x%x declared by %s and %s", def.ID, prev, path)
		}
		seen[def.ID] = path
		defs = append(defs, def)
	}

	slices.SortFunc(defs, func(a, b *RawProtocolDef) int { return int(a.ID) - int(b.ID) })
	return defs, nil
}

// ParseDataType maps a YAML type name to a validator data type.
func ParseDataType(s string) (validator.DataType, error) {
	switch strings.ToLower(s) {
	case "u8", "uint8":
		return validator.TypeU8, nil
	case "u16", "uint16":
		return validator.TypeU16, nil
	case "u32", "uint32":
		return validator.TypeU32, nil
	case "bytes", "byte_array":
		return validator.TypeByteArray, nil
	case "string":
		return validator.TypeString, nil
	case "sub", "sub_attributes":
		return validator.TypeSubAttributes, nil
	default:
		return 0, fmt.Errorf("unknown attribute type %q", s)
	}
}

// Descriptor converts the definition into a validator descriptor. Type
// names are resolved here; structural checks are left to
// validator.ProtocolDescriptor.Check.
func (d *RawProtocolDef) Descriptor() (*validator.ProtocolDescriptor, error) {
	desc := &validator.ProtocolDescriptor{Name: d.Name}
	var errs []error
	for _, cmd := range d.Commands {
		attrs, err := attributeDescriptors(cmd.Attributes, cmd.Name)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		desc.Commands = append(desc.Commands, validator.CommandDescriptor{
			ID:         cmd.ID,
			Name:       cmd.Name,
			Attributes: attrs,
		})
	}
	if err := errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("protocol %s: %w", d.Name, err)
	}
	return desc, nil
}

func attributeDescriptors(defs []RawAttributeDef, parent string) ([]validator.AttributeDescriptor, error) {
	if len(defs) == 0 {
		return nil, nil
	}
	out := make([]validator.AttributeDescriptor, 0, len(defs))
	var errs []error
	for _, def := range defs {
		where := parent + "." + def.Name
		dt, err := ParseDataType(def.Type)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", where, err))
			continue
		}
		children, err := attributeDescriptors(def.Attributes, where)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		out = append(out, validator.AttributeDescriptor{
			ID:            def.ID,
			Name:          def.Name,
			Optional:      def.Optional,
			DataType:      dt,
			SubAttributes: children,
		})
	}
	return out, errors.Join(errs...)
}
