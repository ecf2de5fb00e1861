package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestResolveConfigDefaults(t *testing.T) {
	cfg, err := resolveConfig(&serveOptions{})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if cfg.Addr != ":8080" || cfg.ModelsDir != "~/models/llm" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestResolveConfigFlagOverridesFile(t *testing.T) {
	d := t.TempDir()
	p := filepath.Join(d, "cfg.yaml")
	if err := os.WriteFile(p, []byte("addr: :9000\nnuma_strategy: mirror\nctx_size: 1024\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := resolveConfig(&serveOptions{configPath: p, addr: ":7777"})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if cfg.Addr != ":7777" {
		t.Fatalf("flag did not override file: %+v", cfg)
	}
	if cfg.NumaStrategy != "mirror" || cfg.CtxSize != 1024 {
		t.Fatalf("file values lost: %+v", cfg)
	}
}

func TestResolveConfigBadFile(t *testing.T) {
	if _, err := resolveConfig(&serveOptions{configPath: "/no/such/cfg.yaml"}); err == nil {
		t.Fatalf("expected error")
	}
}

func TestNewLoggerRejectsBadLevel(t *testing.T) {
	if _, err := newLogger("verbose"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
	if _, err := newLogger("debug"); err != nil {
		t.Fatalf("debug level: %v", err)
	}
}

func TestModelsCommandListsDir(t *testing.T) {
	d := t.TempDir()
	if err := os.WriteFile(filepath.Join(d, "tiny.Q4_0.gguf"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cmd := newModelsCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--models-dir", d})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !strings.Contains(out.String(), "tiny.Q4_0.gguf") || !strings.Contains(out.String(), "Q4_0") {
		t.Fatalf("output: %q", out.String())
	}
}
