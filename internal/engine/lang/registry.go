package lang

import (
	"path/filepath"
	"sort"
	"strings"
)

// Spec describes one supported language: its id, file extensions, and
// whether it is enabled. Config may override extensions or disable a
// language entirely.
type Spec struct {
	ID         string
	Extensions []string
	Enabled    bool
}

// Override is the config-facing shape applied over the built-in registry.
type Override struct {
	Enabled    *bool
	Extensions []string
}

// BuildRegistry returns the language registry with any config overrides
// applied. The built-in set covers exactly the supported grammars.
func BuildRegistry(overrides map[string]Override) map[string]Spec {
	registry := map[string]Spec{
		"javascript": {ID: "javascript", Extensions: []string{".js", ".mjs", ".cjs", ".jsx"}, Enabled: true},
		"typescript": {ID: "typescript", Extensions: []string{".ts", ".mts", ".cts"}, Enabled: true},
		"tsx":        {ID: "tsx", Extensions: []string{".tsx"}, Enabled: true},
		"python":     {ID: "python", Extensions: []string{".py", ".pyi"}, Enabled: true},
		"rust":       {ID: "rust", Extensions: []string{".rs"}, Enabled: true},
	}

	for id, override := range overrides {
		spec, ok := registry[id]
		if !ok {
			continue
		}
		if override.Enabled != nil {
			spec.Enabled = *override.Enabled
		}
		if len(override.Extensions) > 0 {
			spec.Extensions = append([]string(nil), override.Extensions...)
		}
		registry[id] = spec
	}
	return registry
}

// Detector maps file paths to language ids via extension lookup.
type Detector struct {
	extensions map[string]string
}

func NewDetector(registry map[string]Spec) *Detector {
	d := &Detector{extensions: make(map[string]string)}
	ids := make([]string, 0, len(registry))
	for id := range registry {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		spec := registry[id]
		if !spec.Enabled {
			continue
		}
		for _, ext := range spec.Extensions {
			d.extensions[strings.ToLower(ext)] = id
		}
	}
	return d
}

// Detect returns the language id for a path, or "" when unsupported.
func (d *Detector) Detect(path string) string {
	return d.extensions[strings.ToLower(filepath.Ext(path))]
}

func (d *Detector) IsSupported(path string) bool {
	return d.Detect(path) != ""
}

func (d *Detector) SupportedExtensions() []string {
	out := make([]string, 0, len(d.extensions))
	for ext := range d.extensions {
		out = append(out, ext)
	}
	sort.Strings(out)
	return out
}
