// Package interactive provides the interactive command-line interface
// for lcsf-console.
package interactive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"unicode"

	"github.com/chzyer/readline"

	"github.com/lcsf-protocol/lcsf-go/pkg/core"
	"github.com/lcsf-protocol/lcsf-go/pkg/errorproto"
	"github.com/lcsf-protocol/lcsf-go/pkg/inspect"
	"github.com/lcsf-protocol/lcsf-go/pkg/validator"
)

type commandKey struct {
	protocolID uint16
	commandID  uint16
}

// Console drives a core from typed commands.
type Console struct {
	core      *core.Core
	formatter *inspect.Formatter
	rl        *readline.Instance
	out       io.Writer

	mu   sync.Mutex
	last map[commandKey]*validator.ValidatedCommand
}

// New creates a console reading from a readline prompt. The console must be
// bound to a core before Run.
func New() (*Console, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "lcsf> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}
	con := newConsole(rl.Stdout())
	con.rl = rl
	return con, nil
}

func newConsole(out io.Writer) *Console {
	return &Console{
		formatter: inspect.NewFormatter(),
		out:       out,
		last:      make(map[commandKey]*validator.ValidatedCommand),
	}
}

// Stdout returns a writer that properly coordinates with the readline input.
// Use this for log output to avoid interfering with the command prompt.
func (c *Console) Stdout() io.Writer {
	return c.out
}

// Handler returns a core handler that prints and remembers every command
// dispatched to it.
func (c *Console) Handler() core.Handler {
	return core.HandlerFunc(func(_ *core.Core, protocolID uint16, cmd *validator.ValidatedCommand) {
		c.mu.Lock()
		c.last[commandKey{protocolID, cmd.CommandID}] = cmd
		c.mu.Unlock()

		desc, ok := c.core.Protocol(protocolID)
		if !ok {
			return
		}
		fmt.Fprint(c.out, "<- "+c.formatter.FormatCommand(protocolID, desc, cmd))
	})
}

// Sender returns a core sender that prints outgoing frames. With loopback
// set, each frame is then received by the same core.
func (c *Console) Sender(loopback bool) core.Sender {
	return core.SenderFunc(func(data []byte) error {
		fmt.Fprintf(c.out, "-> %s\n", inspect.FormatHex(data))
		if loopback {
			if err := c.core.ReceiveBuff(data); err != nil {
				fmt.Fprintf(c.out, "loopback: %v\n", err)
			}
		}
		return nil
	})
}

// Bind attaches the console to a core, normally one created with the
// console's Sender.
func (c *Console) Bind(cr *core.Core) {
	c.core = cr
}

// Run starts the interactive command loop.
func (c *Console) Run(ctx context.Context, cancel context.CancelFunc) {
	defer c.rl.Close()

	c.printHelp()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		line, err := c.rl.Readline()
		if err != nil {
			// EOF or interrupt
			if err == readline.ErrInterrupt {
				continue
			}
			fmt.Fprintln(c.out, "Exiting...")
			cancel()
			return
		}

		if quit := c.Execute(line); quit {
			fmt.Fprintln(c.out, "Exiting...")
			cancel()
			return
		}
	}
}

// Execute runs one command line and reports whether the console should exit.
func (c *Console) Execute(line string) bool {
	input := strings.TrimSpace(line)
	if input == "" {
		return false
	}

	parts, err := splitArgs(input)
	if err != nil {
		fmt.Fprintf(c.out, "Error: %v\n", err)
		return false
	}
	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "help", "?":
		c.printHelp()

	case "protocols", "p":
		c.cmdProtocols(args)

	case "recv", "receive":
		c.cmdReceive(args)

	case "decode", "d":
		c.cmdDecode(args)

	case "send", "s":
		c.cmdSend(args)

	case "get", "g":
		c.cmdGet(args)

	case "error":
		c.cmdError(args)

	case "mode":
		fmt.Fprintf(c.out, "Mode: %s (error protocol 0x%x)\n", c.core.Mode(), c.core.ErrorProtocolID())

	case "quit", "exit", "q":
		return true

	default:
		fmt.Fprintf(c.out, "Unknown command: %s (type 'help' for commands)\n", cmd)
	}
	return false
}

// splitArgs splits a command line at white space. Double quotes group text
// containing spaces and are removed.
func splitArgs(line string) ([]string, error) {
	var (
		args    []string
		cur     strings.Builder
		inArg   bool
		inQuote bool
	)
	for _, r := range line {
		switch {
		case r == '"':
			inQuote = !inQuote
			inArg = true
		case unicode.IsSpace(r) && !inQuote:
			if inArg {
				args = append(args, cur.String())
				cur.Reset()
				inArg = false
			}
		default:
			cur.WriteRune(r)
			inArg = true
		}
	}
	if inQuote {
		return nil, errors.New("unterminated quote")
	}
	if inArg {
		args = append(args, cur.String())
	}
	return args, nil
}

func (c *Console) printHelp() {
	fmt.Fprintln(c.out, `
LCSF Console Commands:
  Protocols:
    protocols [protocol]             - List registered protocols (or describe one)

  Traffic:
    recv <hex>                       - Receive a frame: decode, validate, dispatch
    decode <hex>                     - Decode a frame without validating it
    send <protocol/command> [a=v...] - Encode and send a command
    get <protocol/command/attr...>   - Show an attribute of the last received command
    error <decoder|validator> <code> - Send an error report

  General:
    mode                             - Show the wire mode
    help                             - Show this help
    quit                             - Exit console

  Path Format:
    protocol/command/attribute - e.g., Sample/Sample/Group/Level
    Can use IDs or names: 0xab/0x12/0x7f/0x30
  Values:
    integers in decimal or 0x hex, byte arrays as hex, strings as text
    double quotes keep spaces: Text="hello world"`)
}

// cmdProtocols handles the protocols command.
func (c *Console) cmdProtocols(args []string) {
	if len(args) > 0 {
		id, desc, err := inspect.ResolveProtocol(c.core, args[0])
		if err != nil {
			fmt.Fprintf(c.out, "Error: %v\n", err)
			return
		}
		fmt.Fprint(c.out, c.formatter.FormatDescriptor(id, desc))
		return
	}

	for _, id := range c.core.ProtocolIDs() {
		desc, _ := c.core.Protocol(id)
		fmt.Fprintf(c.out, "  [0x%x] %s (%d commands)\n", id, desc.Name, len(desc.Commands))
	}
}

func (c *Console) frameArg(args []string, usage string) ([]byte, bool) {
	if len(args) == 0 {
		fmt.Fprintln(c.out, "Usage: "+usage)
		return nil, false
	}
	data, err := inspect.ParseHex(strings.Join(args, ""))
	if err != nil {
		fmt.Fprintf(c.out, "Invalid frame: %v\n", err)
		return nil, false
	}
	return data, true
}

// cmdReceive handles the recv command.
func (c *Console) cmdReceive(args []string) {
	data, ok := c.frameArg(args, "recv <hex>")
	if !ok {
		return
	}
	if err := c.core.ReceiveBuff(data); err != nil {
		fmt.Fprintf(c.out, "Rejected: %v\n", err)
	}
}

// cmdDecode handles the decode command.
func (c *Console) cmdDecode(args []string) {
	data, ok := c.frameArg(args, "decode <hex>")
	if !ok {
		return
	}
	msg, err := c.core.ReceiveRaw(data)
	if err != nil {
		fmt.Fprintf(c.out, "Error: %v\n", err)
		return
	}
	fmt.Fprint(c.out, c.formatter.FormatRaw(msg))
}

// cmdSend handles the send command.
func (c *Console) cmdSend(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(c.out, "Usage: send <protocol/command> [attribute=value ...]")
		fmt.Fprintln(c.out, "  Example: send Sample/Sample Blob=0001 Group/Level=10")
		return
	}

	target, err := c.resolve(args[0])
	if err != nil {
		fmt.Fprintf(c.out, "Error: %v\n", err)
		return
	}

	assignments := make([]inspect.Assignment, 0, len(args)-1)
	for _, arg := range args[1:] {
		a, err := inspect.ParseAssignment(arg)
		if err != nil {
			fmt.Fprintf(c.out, "Error: %v\n", err)
			return
		}
		assignments = append(assignments, a)
	}

	cmd, err := inspect.BuildCommand(target.Command, assignments)
	if err != nil {
		fmt.Fprintf(c.out, "Error: %v\n", err)
		return
	}
	if err := c.core.SendCmd(target.ProtocolID, cmd); err != nil {
		var contractErr *core.ContractError
		if errors.As(err, &contractErr) {
			fmt.Fprintf(c.out, "Not sent: %v\n", contractErr.Err)
			return
		}
		fmt.Fprintf(c.out, "Error: %v\n", err)
	}
}

// cmdGet handles the get command.
func (c *Console) cmdGet(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(c.out, "Usage: get <protocol/command/attribute...>")
		return
	}

	target, err := c.resolve(args[0])
	if err != nil {
		fmt.Fprintf(c.out, "Error: %v\n", err)
		return
	}

	c.mu.Lock()
	cmd := c.last[commandKey{target.ProtocolID, target.Command.ID}]
	c.mu.Unlock()
	if cmd == nil {
		fmt.Fprintf(c.out, "No %s received yet\n", target.Command.Name)
		return
	}

	if target.Attribute == nil {
		fmt.Fprint(c.out, c.formatter.FormatCommand(target.ProtocolID, target.Protocol, cmd))
		return
	}
	attr, ok := target.Lookup(cmd)
	if !ok {
		fmt.Fprintf(c.out, "%s = (absent)\n", target.Attribute.Name)
		return
	}
	if target.Attribute.DataType == validator.TypeSubAttributes {
		fmt.Fprintf(c.out, "%s = (%d sub-attributes)\n", target.Attribute.Name, len(attr.SubAttributes))
		return
	}
	fmt.Fprintf(c.out, "%s = %s\n", target.Attribute.Name, inspect.FormatValue(target.Attribute.DataType, attr.Data))
}

// cmdError handles the error command.
func (c *Console) cmdError(args []string) {
	if len(args) < 2 {
		fmt.Fprintln(c.out, "Usage: error <decoder|validator> <code>")
		return
	}

	var loc errorproto.Location
	switch strings.ToLower(args[0]) {
	case "decoder":
		loc = errorproto.LocationDecoder
	case "validator":
		loc = errorproto.LocationValidator
	default:
		fmt.Fprintf(c.out, "Invalid location: %s (must be decoder or validator)\n", args[0])
		return
	}

	code, err := strconv.ParseUint(args[1], 0, 8)
	if err != nil {
		fmt.Fprintf(c.out, "Invalid code: %s\n", args[1])
		return
	}

	cmd := validator.NewCommand(errorproto.CommandID,
		validator.FromU8(uint8(loc)),
		validator.FromU8(uint8(code)),
	)
	if err := c.core.SendCmd(c.core.ErrorProtocolID(), cmd); err != nil {
		fmt.Fprintf(c.out, "Error: %v\n", err)
	}
}

func (c *Console) resolve(s string) (*inspect.Target, error) {
	path, err := inspect.ParsePath(s)
	if err != nil {
		return nil, err
	}
	return path.Resolve(c.core)
}
