package main

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/lcsf-protocol/lcsf-go/pkg/core"
	"github.com/lcsf-protocol/lcsf-go/pkg/transcoder"
)

// lcsf-console config.toml key mapping to console settings.
type fileConfig struct {
	Mode           string   `toml:"mode"`
	GenerateErrors bool     `toml:"generate_errors"`
	ProtocolDir    string   `toml:"protocol_dir"`
	ProtocolFiles  []string `toml:"protocol_files"`
	ProtocolLog    string   `toml:"protocol_log"`
	LogLevel       string   `toml:"log_level"`
	MaxDepth       int      `toml:"max_depth"`
	MaxMessageSize int      `toml:"max_message_size"`
	Loopback       bool     `toml:"loopback"`
}

// consoleConfig holds the resolved console settings.
type consoleConfig struct {
	Core core.Config

	// ProtocolDir is scanned for YAML protocol files.
	ProtocolDir string

	// ProtocolFiles are loaded in addition to ProtocolDir.
	ProtocolFiles []string

	// ProtocolLog is the capture file path; empty disables capture.
	ProtocolLog string

	LogLevel slog.Level

	// Loopback feeds every sent frame back into the core.
	Loopback bool
}

func defaultConsoleConfig() consoleConfig {
	return consoleConfig{
		Core:     core.DefaultConfig(),
		LogLevel: slog.LevelInfo,
	}
}

// loadConsoleConfig reads a TOML config file over the defaults. Relative
// paths are resolved against the config file's directory.
func loadConsoleConfig(path string) (consoleConfig, error) {
	cfg := defaultConsoleConfig()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return consoleConfig{}, fmt.Errorf("load console config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return consoleConfig{}, fmt.Errorf("load console config: unknown key %q", undecoded[0].String())
	}

	base := filepath.Dir(path)
	if meta.IsDefined("mode") {
		mode, err := transcoder.ParseMode(strings.TrimSpace(raw.Mode))
		if err != nil {
			return consoleConfig{}, fmt.Errorf("load console config: %w", err)
		}
		cfg.Core.Mode = mode
	}
	if meta.IsDefined("generate_errors") {
		cfg.Core.GenerateErrors = raw.GenerateErrors
	}
	if meta.IsDefined("protocol_dir") {
		cfg.ProtocolDir = resolvePath(base, raw.ProtocolDir)
	}
	if meta.IsDefined("protocol_files") {
		for _, f := range raw.ProtocolFiles {
			cfg.ProtocolFiles = append(cfg.ProtocolFiles, resolvePath(base, f))
		}
	}
	if meta.IsDefined("protocol_log") {
		cfg.ProtocolLog = resolvePath(base, raw.ProtocolLog)
	}
	if meta.IsDefined("log_level") {
		level, err := parseLogLevel(raw.LogLevel)
		if err != nil {
			return consoleConfig{}, fmt.Errorf("load console config: %w", err)
		}
		cfg.LogLevel = level
	}
	if meta.IsDefined("max_depth") {
		cfg.Core.Limits.MaxDepth = raw.MaxDepth
	}
	if meta.IsDefined("max_message_size") {
		cfg.Core.Limits.MaxMessageSize = raw.MaxMessageSize
	}
	if meta.IsDefined("loopback") {
		cfg.Loopback = raw.Loopback
	}

	if err := cfg.Core.Validate(); err != nil {
		return consoleConfig{}, fmt.Errorf("load console config: %w", err)
	}
	return cfg, nil
}

func resolvePath(base, p string) string {
	p = strings.TrimSpace(p)
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}

func parseLogLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, fmt.Errorf("invalid log level %q (valid: debug, info, warn, error)", s)
	}
	return level, nil
}
