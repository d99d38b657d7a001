// Command lcsf-console is an interactive LCSF endpoint.
//
// It loads protocol descriptors from YAML files, registers them on a core
// and lets the user feed frames in and send commands out. Outgoing frames
// are printed as hex.
//
// Usage:
//
//	lcsf-console [flags]
//
// Flags:
//
//	-config string        TOML configuration file
//	-mode string          Wire mode: small, normal (default "small")
//	-protocols string     Directory of YAML protocol files
//	-protocol-log string  Write a capture file
//	-log-level string     Log level: debug, info, warn, error (default "info")
//	-no-errors            Do not answer rejected frames with error reports
//	-loopback             Receive every sent frame on the same core
//
// Examples:
//
//	# Small mode with the protocols in ./protocols
//	lcsf-console -protocols ./protocols
//
//	# Normal mode, capturing to a file for lcsf-log
//	lcsf-console -mode normal -protocols ./protocols -protocol-log session.llog
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/lcsf-protocol/lcsf-go/cmd/lcsf-console/interactive"
	"github.com/lcsf-protocol/lcsf-go/pkg/core"
	"github.com/lcsf-protocol/lcsf-go/pkg/log"
	"github.com/lcsf-protocol/lcsf-go/pkg/protodesc"
	"github.com/lcsf-protocol/lcsf-go/pkg/transcoder"
)

type flags struct {
	configFile  string
	mode        string
	protocolDir string
	protocolLog string
	logLevel    string
	noErrors    bool
	loopback    bool
}

func parseFlags(args []string) (flags, *flag.FlagSet, error) {
	var f flags
	fs := flag.NewFlagSet("lcsf-console", flag.ContinueOnError)
	fs.StringVar(&f.configFile, "config", "", "TOML configuration file")
	fs.StringVar(&f.mode, "mode", "small", "Wire mode: small, normal")
	fs.StringVar(&f.protocolDir, "protocols", "", "Directory of YAML protocol files")
	fs.StringVar(&f.protocolLog, "protocol-log", "", "Write a capture file")
	fs.StringVar(&f.logLevel, "log-level", "info", "Log level: debug, info, warn, error")
	fs.BoolVar(&f.noErrors, "no-errors", false, "Do not answer rejected frames with error reports")
	fs.BoolVar(&f.loopback, "loopback", false, "Receive every sent frame on the same core")
	err := fs.Parse(args)
	return f, fs, err
}

// buildConfig loads the config file, if any, then applies the flags that
// were set explicitly.
func buildConfig(f flags, fs *flag.FlagSet) (consoleConfig, error) {
	cfg := defaultConsoleConfig()
	if f.configFile != "" {
		var err error
		if cfg, err = loadConsoleConfig(f.configFile); err != nil {
			return consoleConfig{}, err
		}
	}

	var err error
	fs.Visit(func(fl *flag.Flag) {
		if err != nil {
			return
		}
		switch fl.Name {
		case "mode":
			cfg.Core.Mode, err = transcoder.ParseMode(f.mode)
		case "protocols":
			cfg.ProtocolDir = f.protocolDir
		case "protocol-log":
			cfg.ProtocolLog = f.protocolLog
		case "log-level":
			cfg.LogLevel, err = parseLogLevel(f.logLevel)
		case "no-errors":
			cfg.Core.GenerateErrors = !f.noErrors
		case "loopback":
			cfg.Loopback = f.loopback
		}
	})
	return cfg, err
}

// loadProtocols registers every configured protocol file on c.
func loadProtocols(c *core.Core, cfg consoleConfig, h core.Handler, logger *slog.Logger) error {
	var defs []*protodesc.RawProtocolDef
	if cfg.ProtocolDir != "" {
		dirDefs, err := protodesc.LoadDir(cfg.ProtocolDir)
		if err != nil {
			return err
		}
		defs = append(defs, dirDefs...)
	}
	for _, path := range cfg.ProtocolFiles {
		def, err := protodesc.LoadProtocol(path)
		if err != nil {
			return err
		}
		defs = append(defs, def)
	}

	for _, def := range defs {
		desc, err := def.Descriptor()
		if err != nil {
			return err
		}
		if err := c.AddProtocol(def.ID, desc, h); err != nil {
			return fmt.Errorf("protocol %s: %w", def.Name, err)
		}
		logger.Info("protocol loaded", "name", def.Name, "id", fmt.Sprintf("0x%x", def.ID), "commands", len(desc.Commands))
	}
	return nil
}

func main() {
	f, fs, err := parseFlags(os.Args[1:])
	if err != nil {
		os.Exit(2)
	}
	cfg, err := buildConfig(f, fs)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	con, err := interactive.New()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(con.Stdout(), &slog.HandlerOptions{Level: cfg.LogLevel}))
	cfg.Core.Logger = logger

	if cfg.ProtocolLog != "" {
		fileLogger, err := log.NewFileLogger(cfg.ProtocolLog)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open protocol log: %v\n", err)
			os.Exit(1)
		}
		defer fileLogger.Close()
		cfg.Core.ProtocolLogger = fileLogger
	}

	c, err := core.New(con.Sender(cfg.Loopback), cfg.Core)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create core: %v\n", err)
		os.Exit(1)
	}
	con.Bind(c)

	if err := loadProtocols(c, cfg, con.Handler(), logger); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load protocols: %v\n", err)
		os.Exit(1)
	}
	logger.Info("core ready", "id", c.ID(), "mode", c.Mode().String(), "protocols", len(c.ProtocolIDs()))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case <-sigCh:
			cancel()
		case <-ctx.Done():
		}
	}()

	con.Run(ctx, cancel)
}
