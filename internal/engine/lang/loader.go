package lang

import (
	"fmt"
	"sort"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	tree_sitter_python "github.com/tree-sitter/tree-sitter-python/bindings/go"
	tree_sitter_rust "github.com/tree-sitter/tree-sitter-rust/bindings/go"
	tree_sitter_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"
)

// Loader owns the statically linked grammar bindings for the enabled
// languages. Grammars are the external collaborator boundary: everything
// above this package treats trees as opaque capability objects.
type Loader struct {
	languages map[string]*sitter.Language
	registry  map[string]Spec
}

func NewLoader(registry map[string]Spec) (*Loader, error) {
	if registry == nil {
		registry = BuildRegistry(nil)
	}
	l := &Loader{
		languages: make(map[string]*sitter.Language),
		registry:  registry,
	}

	ids := make([]string, 0, len(registry))
	for id := range registry {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		if !registry[id].Enabled {
			continue
		}
		switch id {
		case "javascript":
			l.languages[id] = sitter.NewLanguage(tree_sitter_javascript.Language())
		case "typescript":
			l.languages[id] = sitter.NewLanguage(tree_sitter_typescript.LanguageTypescript())
		case "tsx":
			l.languages[id] = sitter.NewLanguage(tree_sitter_typescript.LanguageTSX())
		case "python":
			l.languages[id] = sitter.NewLanguage(tree_sitter_python.Language())
		case "rust":
			l.languages[id] = sitter.NewLanguage(tree_sitter_rust.Language())
		default:
			return nil, fmt.Errorf("language %q is enabled but no grammar binding is linked", id)
		}
	}
	return l, nil
}

// Get returns the grammar for a language id, or nil when not loaded.
func (l *Loader) Get(language string) *sitter.Language {
	return l.languages[language]
}

func (l *Loader) Registry() map[string]Spec {
	out := make(map[string]Spec, len(l.registry))
	for id, spec := range l.registry {
		spec.Extensions = append([]string(nil), spec.Extensions...)
		out[id] = spec
	}
	return out
}

// Parse parses source with the grammar for language. The returned tree must
// be closed by the caller.
func (l *Loader) Parse(language string, source []byte) (*sitter.Tree, error) {
	grammar := l.languages[language]
	if grammar == nil {
		return nil, fmt.Errorf("grammar not loaded: %s", language)
	}
	parser := sitter.NewParser()
	defer parser.Close()
	if err := parser.SetLanguage(grammar); err != nil {
		return nil, fmt.Errorf("set language %s: %w", language, err)
	}
	tree := parser.Parse(source, nil)
	if tree == nil {
		return nil, fmt.Errorf("parse failed for language %s", language)
	}
	return tree, nil
}
