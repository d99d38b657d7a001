// Command lcsf-log is a tool for viewing and analyzing LCSF protocol capture
// files.
//
// Capture files are written by a core configured with a protocol logger,
// for example lcsf-console with the -protocol-log flag.
//
// Usage:
//
//	lcsf-log <command> [flags] <file.llog>
//
// Commands:
//
//	view     View capture file in human-readable format
//	export   Export capture file to JSONL, CSV or msgpack
//	filter   Filter capture file and write to new file
//	stats    Show statistics about the capture file
//
// Examples:
//
//	# View all events with frames decoded
//	lcsf-log view -decode console.llog
//
//	# View only validator rejections
//	lcsf-log view -layer validator -category error console.llog
//
//	# Export to msgpack
//	lcsf-log export -format msgpack -o events.msgpack console.llog
//
//	# Keep one protocol's traffic
//	lcsf-log filter -protocol-id 0xab -o sample.llog console.llog
//
//	# Show statistics
//	lcsf-log stats console.llog
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/lcsf-protocol/lcsf-go/cmd/lcsf-log/commands"
)

const usage = `lcsf-log - LCSF Protocol Capture Analyzer

Usage:
  lcsf-log <command> [flags] <file.llog>

Commands:
  view     View capture file in human-readable format
  export   Export capture file to JSONL, CSV or msgpack
  filter   Filter capture file and write to new file
  stats    Show statistics about the capture file

Use "lcsf-log <command> -help" for more information about a command.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "view":
		runView(args)
	case "export":
		runExport(args)
	case "filter":
		runFilter(args)
	case "stats":
		runStats(args)
	case "-h", "-help", "--help", "help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

func requirePath(fs *flag.FlagSet) string {
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: log file path required")
		fs.Usage()
		os.Exit(1)
	}
	return fs.Arg(0)
}

func runView(args []string) {
	fs := flag.NewFlagSet("view", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `lcsf-log view - View capture file in human-readable format

Usage:
  lcsf-log view [flags] <file.llog>

Flags:
`)
		fs.PrintDefaults()
	}

	layer := fs.String("layer", "", "Filter by layer (transcoder, validator, dispatch)")
	direction := fs.String("direction", "", "Filter by direction (in, out)")
	category := fs.String("category", "", "Filter by category (message, error, registration)")
	protocolID := fs.String("protocol-id", "", "Filter by protocol id (decimal or 0x hex)")
	decode := fs.Bool("decode", false, "Decode captured frames")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	path := requirePath(fs)

	filter := commands.ViewFilter{Decode: *decode}

	if *layer != "" {
		l, err := commands.ParseLayerFlag(*layer)
		if err != nil {
			fail(err)
		}
		filter.Layer = &l
	}

	if *direction != "" {
		d, err := commands.ParseDirectionFlag(*direction)
		if err != nil {
			fail(err)
		}
		filter.Direction = &d
	}

	if *category != "" {
		c, err := commands.ParseCategoryFlag(*category)
		if err != nil {
			fail(err)
		}
		filter.Category = &c
	}

	if *protocolID != "" {
		id, err := commands.ParseProtocolIDFlag(*protocolID)
		if err != nil {
			fail(err)
		}
		filter.ProtocolID = &id
	}

	if err := commands.RunView(path, filter, os.Stdout); err != nil {
		fail(err)
	}
}

func runExport(args []string) {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `lcsf-log export - Export capture file to JSONL, CSV or msgpack

Usage:
  lcsf-log export [flags] <file.llog>

Flags:
`)
		fs.PrintDefaults()
	}

	format := fs.String("format", "jsonl", "Output format (jsonl, csv, msgpack)")
	output := fs.String("o", "", "Output file (default: stdout)")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	path := requirePath(fs)

	if err := commands.RunExport(path, *format, *output); err != nil {
		fail(err)
	}
}

func runFilter(args []string) {
	fs := flag.NewFlagSet("filter", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `lcsf-log filter - Filter capture file and write to new file

Usage:
  lcsf-log filter [flags] <file.llog>

Flags:
`)
		fs.PrintDefaults()
	}

	output := fs.String("o", "", "Output file (required)")
	coreID := fs.String("core-id", "", "Filter by core ID")
	protocolID := fs.String("protocol-id", "", "Filter by protocol id (decimal or 0x hex)")
	timeStart := fs.String("time-start", "", "Filter by start time (RFC3339)")
	timeEnd := fs.String("time-end", "", "Filter by end time (RFC3339)")
	layer := fs.String("layer", "", "Filter by layer (transcoder, validator, dispatch)")
	direction := fs.String("direction", "", "Filter by direction (in, out)")
	category := fs.String("category", "", "Filter by category (message, error, registration)")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	path := requirePath(fs)

	if *output == "" {
		fmt.Fprintln(os.Stderr, "Error: output file (-o) required")
		fs.Usage()
		os.Exit(1)
	}

	opts := commands.FilterOptions{
		Output:     *output,
		CoreID:     *coreID,
		ProtocolID: *protocolID,
		TimeStart:  *timeStart,
		TimeEnd:    *timeEnd,
		Layer:      *layer,
		Direction:  *direction,
		Category:   *category,
	}

	count, err := commands.RunFilter(path, opts)
	if err != nil {
		fail(err)
	}
	fmt.Printf("Filtered %d events to %s\n", count, opts.Output)
}

func runStats(args []string) {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `lcsf-log stats - Show statistics about the capture file

Usage:
  lcsf-log stats <file.llog>

`)
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	path := requirePath(fs)

	if err := commands.RunStats(path, os.Stdout); err != nil {
		fail(err)
	}
}
