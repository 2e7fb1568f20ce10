package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"ariadne/internal/engine/lang"
)

// Default returns the configuration used when no ariadne.toml exists.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	applyDefaults(&cfg)
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Version == 0 {
		cfg.Version = 1
	}
	if len(cfg.Paths) == 0 {
		cfg.Paths = []string{"."}
	}
	if len(cfg.Exclude.Dirs) == 0 {
		cfg.Exclude.Dirs = []string{".git", "node_modules", "target", "dist", "__pycache__", ".venv"}
	}
	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = 500 * time.Millisecond
	}
	if cfg.Watch.MaxEventsPerSec <= 0 {
		cfg.Watch.MaxEventsPerSec = 20
	}
	if strings.TrimSpace(cfg.Store.Path) == "" {
		cfg.Store.Path = "ariadne.db"
	}
	if strings.TrimSpace(cfg.Store.ProjectKey) == "" {
		cfg.Store.ProjectKey = "default"
	}
	if strings.TrimSpace(cfg.Observability.ServiceName) == "" {
		cfg.Observability.ServiceName = "ariadne"
	}
	if strings.TrimSpace(cfg.Log.Level) == "" {
		cfg.Log.Level = "info"
	}
	if strings.TrimSpace(cfg.Log.Format) == "" {
		cfg.Log.Format = "text"
	}
}

func validate(cfg *Config) error {
	if cfg.Version != 1 {
		return fmt.Errorf("unsupported config version %d", cfg.Version)
	}
	switch cfg.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level %q", cfg.Log.Level)
	}
	switch cfg.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log format %q", cfg.Log.Format)
	}
	known := lang.BuildRegistry(nil)
	for id := range cfg.Languages {
		if _, ok := known[id]; !ok {
			return fmt.Errorf("unknown language %q in [languages]", id)
		}
	}
	for _, p := range cfg.Paths {
		if strings.TrimSpace(p) == "" {
			return fmt.Errorf("empty entry in paths")
		}
	}
	return nil
}

// LanguageOverrides converts the TOML shape into the registry's override
// form.
func (c *Config) LanguageOverrides() map[string]lang.Override {
	if len(c.Languages) == 0 {
		return nil
	}
	out := make(map[string]lang.Override, len(c.Languages))
	for id, o := range c.Languages {
		out[id] = lang.Override{Enabled: o.Enabled, Extensions: o.Extensions}
	}
	return out
}
