// Package config loads ariadne.toml and applies defaults and validation.
package config

import "time"

type Config struct {
	Version int      `toml:"version"`
	Paths   []string `toml:"paths"`

	Exclude       Exclude                     `toml:"exclude"`
	Watch         Watch                       `toml:"watch"`
	Store         Store                       `toml:"store"`
	Observability Observability               `toml:"observability"`
	Log           Log                         `toml:"log"`
	Languages     map[string]LanguageOverride `toml:"languages"`
}

type Exclude struct {
	Dirs  []string `toml:"dirs"`
	Files []string `toml:"files"`
}

type Watch struct {
	Enabled  bool          `toml:"enabled"`
	Debounce time.Duration `toml:"debounce"`
	// Sustained event rate allowed before the watcher starts coalescing.
	MaxEventsPerSec float64 `toml:"max_events_per_sec"`
}

type Store struct {
	Enabled    bool   `toml:"enabled"`
	Path       string `toml:"path"`
	ProjectKey string `toml:"project_key"`
}

type Observability struct {
	// Listen enables the /metrics and /health HTTP endpoints when set,
	// e.g. "127.0.0.1:9090".
	Listen string `toml:"listen"`
	// OTLPEndpoint enables trace export over OTLP gRPC when set.
	OTLPEndpoint string `toml:"otlp_endpoint"`
	ServiceName  string `toml:"service_name"`
}

type Log struct {
	Level  string `toml:"level"`  // debug|info|warn|error
	Format string `toml:"format"` // text|json
}

// LanguageOverride adjusts one entry of the built-in language registry.
type LanguageOverride struct {
	Enabled    *bool    `toml:"enabled"`
	Extensions []string `toml:"extensions"`
}
