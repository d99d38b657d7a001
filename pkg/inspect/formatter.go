package inspect

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/lcsf-protocol/lcsf-go/pkg/transcoder"
	"github.com/lcsf-protocol/lcsf-go/pkg/validator"
)

// Formatter formats inspection output.
type Formatter struct {
	// ShowIDs includes numeric IDs alongside names
	ShowIDs bool

	// IndentWidth is the number of spaces per indent level
	IndentWidth int
}

// NewFormatter creates a new Formatter with default settings.
func NewFormatter() *Formatter {
	return &Formatter{
		ShowIDs:     true,
		IndentWidth: 2,
	}
}

// Indent returns the content with indentation.
func (f *Formatter) Indent(depth int, content string) string {
	width := f.IndentWidth
	if width == 0 {
		width = 2
	}
	indent := strings.Repeat(" ", depth*width)
	return indent + content
}

// FormatHex formats bytes as space separated hex pairs.
func FormatHex(data []byte) string {
	if len(data) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.Grow(len(data)*3 - 1)
	for i, b := range data {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(hex.EncodeToString([]byte{b}))
	}
	return sb.String()
}

// ParseHex parses hex pairs with optional spaces and 0x prefix.
func ParseHex(s string) ([]byte, error) {
	s = strings.NewReplacer(" ", "", "\t", "", ":", "").Replace(s)
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	data, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidValue, err)
	}
	return data, nil
}

// FormatValue formats a leaf payload for display according to its type.
func FormatValue(dt validator.DataType, data []byte) string {
	attr := validator.ValidatedAttribute{Data: data}
	switch dt {
	case validator.TypeU8:
		if v, err := attr.AsU8(); err == nil {
			return fmt.Sprintf("%d", v)
		}
	case validator.TypeU16:
		if v, err := attr.AsU16(); err == nil {
			return fmt.Sprintf("%d (0x%04x)", v, v)
		}
	case validator.TypeU32:
		if v, err := attr.AsU32(); err == nil {
			return fmt.Sprintf("%d (0x%08x)", v, v)
		}
	case validator.TypeString:
		return fmt.Sprintf("%q", attr.AsString())
	}
	return "0x" + hex.EncodeToString(data)
}

// FormatRaw formats a decoded message without descriptor knowledge.
func (f *Formatter) FormatRaw(msg *transcoder.RawMessage) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("protocol 0x%x command 0x%x (%d attributes)\n", msg.ProtocolID, msg.CommandID, msg.AttributeCount))
	f.formatRawAttributes(&sb, msg.Attributes, 1)
	return sb.String()
}

func (f *Formatter) formatRawAttributes(sb *strings.Builder, attrs []transcoder.RawAttribute, depth int) {
	for _, a := range attrs {
		if a.HasSubAttributes {
			sb.WriteString(f.Indent(depth, fmt.Sprintf("0x%x: (%d sub-attributes)\n", a.ID, a.PayloadSize)))
			f.formatRawAttributes(sb, a.SubAttributes, depth+1)
			continue
		}
		sb.WriteString(f.Indent(depth, fmt.Sprintf("0x%x: %s\n", a.ID, FormatHex(a.Data))))
	}
}

// FormatCommand formats a validated command using its protocol descriptor.
// Absent optional attributes are omitted.
func (f *Formatter) FormatCommand(protocolID uint16, proto *validator.ProtocolDescriptor, cmd *validator.ValidatedCommand) string {
	var sb strings.Builder
	desc := proto.Command(cmd.CommandID)
	if desc == nil {
		sb.WriteString(fmt.Sprintf("%s/0x%x\n", proto.Name, cmd.CommandID))
		return sb.String()
	}

	header := proto.Name + "/" + desc.Name
	if f.ShowIDs {
		header += fmt.Sprintf(" [0x%x/0x%x]", protocolID, desc.ID)
	}
	sb.WriteString(header + "\n")
	if len(desc.Attributes) == 0 {
		sb.WriteString(f.Indent(1, "(no attributes)\n"))
		return sb.String()
	}
	f.formatAttributes(&sb, desc.Attributes, cmd.Attributes, 1)
	return sb.String()
}

func (f *Formatter) formatAttributes(sb *strings.Builder, descs []validator.AttributeDescriptor, attrs []validator.ValidatedAttribute, depth int) {
	for i := range descs {
		if i >= len(attrs) || !attrs[i].IsPresent() {
			continue
		}
		d := &descs[i]
		label := d.Name
		if f.ShowIDs {
			label += fmt.Sprintf(" [0x%x]", d.ID)
		}
		if d.DataType == validator.TypeSubAttributes {
			sb.WriteString(f.Indent(depth, label+":\n"))
			f.formatAttributes(sb, d.SubAttributes, attrs[i].SubAttributes, depth+1)
			continue
		}
		sb.WriteString(f.Indent(depth, label+": "+FormatValue(d.DataType, attrs[i].Data)+"\n"))
	}
}

// FormatDescriptor lists a protocol's commands and attribute slots.
func (f *Formatter) FormatDescriptor(protocolID uint16, proto *validator.ProtocolDescriptor) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s [0x%x] fingerprint %s\n", proto.Name, protocolID, proto.Fingerprint()))
	for _, cmd := range proto.Commands {
		sb.WriteString(f.Indent(1, fmt.Sprintf("%s [0x%x]\n", cmd.Name, cmd.ID)))
		f.formatDescriptors(&sb, cmd.Attributes, 2)
	}
	return sb.String()
}

func (f *Formatter) formatDescriptors(sb *strings.Builder, descs []validator.AttributeDescriptor, depth int) {
	for _, d := range descs {
		opt := ""
		if d.Optional {
			opt = ", optional"
		}
		sb.WriteString(f.Indent(depth, fmt.Sprintf("%s [0x%x] %s%s\n", d.Name, d.ID, d.DataType, opt)))
		f.formatDescriptors(sb, d.SubAttributes, depth+1)
	}
}
