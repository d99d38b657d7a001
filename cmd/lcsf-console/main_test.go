package main

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/lcsf-protocol/lcsf-go/pkg/core"
)

func TestLoadProtocols(t *testing.T) {
	c, err := core.New(core.SenderFunc(func([]byte) error { return nil }), core.DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}

	cfg := defaultConsoleConfig()
	cfg.ProtocolDir = "../../pkg/protodesc/testdata"

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	if err := loadProtocols(c, cfg, nil, logger); err != nil {
		t.Fatalf("loadProtocols: %v", err)
	}

	for _, id := range []uint16{0x10, 0xab} {
		if _, ok := c.Protocol(id); !ok {
			t.Errorf("protocol 0x%x not registered", id)
		}
	}
	if !bytes.Contains(logs.Bytes(), []byte("protocol loaded")) {
		t.Errorf("no load message logged:\n%s", logs.String())
	}
}

func TestLoadProtocolsMissingFile(t *testing.T) {
	c, err := core.New(core.SenderFunc(func([]byte) error { return nil }), core.DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	cfg := defaultConsoleConfig()
	cfg.ProtocolFiles = []string{"does-not-exist.yaml"}
	if err := loadProtocols(c, cfg, nil, slog.Default()); err == nil {
		t.Fatal("expected error for missing protocol file")
	}
}
