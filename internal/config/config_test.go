package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
)

func TestLoadFileMissingYieldsDefaults(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), FileName))
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.ScopeParam != "__scope" || cfg.FreshPrefix != "__qrlc" {
		t.Errorf("expected default reserved names, got %+v", cfg)
	}
}

func TestLoadFileParsesTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)
	body := "ignore = [\"fixtures\", \"*.generated.tsx\"]\nscope_param = \"__ctx\"\nconcurrency = 4\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.ScopeParam != "__ctx" {
		t.Errorf("ScopeParam = %q", cfg.ScopeParam)
	}
	if cfg.Concurrency != 4 {
		t.Errorf("Concurrency = %d", cfg.Concurrency)
	}
	if len(cfg.Ignore) != 2 || cfg.Ignore[0] != "fixtures" {
		t.Errorf("Ignore = %v", cfg.Ignore)
	}
	// FreshPrefix wasn't set in the file, so the zero-value decode wins —
	// callers combine LoadFile with DefaultConfig's merge semantics via
	// Load when they need per-field fallback.
}

func TestLoadAppliesFlagOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, []byte("scope_param = \"__ctx\"\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("scope_param", "", "")
	if err := flags.Set("scope_param", "__injected"); err != nil {
		t.Fatalf("Set: %v", err)
	}

	cfg, err := Load(dir, flags)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ScopeParam != "__injected" {
		t.Errorf("expected the flag to override the file, got %q", cfg.ScopeParam)
	}
}
