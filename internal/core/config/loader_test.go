package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ariadne.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	content := `
version = 1
paths = ["src", "lib"]

[exclude]
dirs = ["vendor"]
files = ["*.gen.ts"]

[watch]
enabled = true
debounce = "1s"

[store]
enabled = true
path = "out/symbols.db"

[log]
level = "debug"
format = "json"

[languages.typescript]
extensions = [".ts"]
`
	cfg, err := Load(writeConfig(t, content))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(cfg.Paths) != 2 || cfg.Paths[0] != "src" {
		t.Errorf("unexpected paths: %v", cfg.Paths)
	}
	if cfg.Watch.Debounce != time.Second {
		t.Errorf("expected debounce 1s, got %v", cfg.Watch.Debounce)
	}
	if !cfg.Store.Enabled || cfg.Store.Path != "out/symbols.db" {
		t.Errorf("unexpected store config: %+v", cfg.Store)
	}
	if cfg.Store.ProjectKey != "default" {
		t.Errorf("expected default project key, got %q", cfg.Store.ProjectKey)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
		t.Errorf("unexpected log config: %+v", cfg.Log)
	}

	overrides := cfg.LanguageOverrides()
	if o, ok := overrides["typescript"]; !ok || len(o.Extensions) != 1 {
		t.Errorf("unexpected typescript override: %+v", overrides)
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, ``))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(cfg.Paths) != 1 || cfg.Paths[0] != "." {
		t.Errorf("expected default paths [.], got %v", cfg.Paths)
	}
	if cfg.Watch.Debounce != 500*time.Millisecond {
		t.Errorf("expected default debounce 500ms, got %v", cfg.Watch.Debounce)
	}
	if cfg.Log.Level != "info" || cfg.Log.Format != "text" {
		t.Errorf("unexpected log defaults: %+v", cfg.Log)
	}
	if cfg.Observability.ServiceName != "ariadne" {
		t.Errorf("unexpected service name %q", cfg.Observability.ServiceName)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	if _, err := Load("nonexistent.toml"); err == nil {
		t.Error("expected error for missing file")
	}
	if _, err := Load(writeConfig(t, "bad = toml = format")); err == nil {
		t.Error("expected error for malformed TOML")
	}
	if _, err := Load(writeConfig(t, `version = 9`)); err == nil {
		t.Error("expected error for unsupported version")
	}
	if _, err := Load(writeConfig(t, "[log]\nlevel = \"loud\"")); err == nil {
		t.Error("expected error for invalid log level")
	}
	if _, err := Load(writeConfig(t, "[languages.cobol]\nenabled = true")); err == nil {
		t.Error("expected error for unknown language")
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Version != 1 {
		t.Errorf("expected version 1, got %d", cfg.Version)
	}
	if len(cfg.Exclude.Dirs) == 0 {
		t.Error("expected default exclude dirs")
	}
}
