package query

import (
	"fmt"
	"sync"

	"ariadne/internal/core/errors"
	"ariadne/internal/engine/lang"
	"ariadne/internal/engine/semantic"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// Engine runs the per-language capture queries over parsed trees and
// normalizes the raw matches into semantic.NormalizedCapture records.
// Compiled queries are cached per language.
type Engine struct {
	loader *lang.Loader

	mu       sync.Mutex
	compiled map[string]*sitter.Query
}

func NewEngine(loader *lang.Loader) *Engine {
	return &Engine{
		loader:   loader,
		compiled: make(map[string]*sitter.Query),
	}
}

// FileCaptures is the query layer's per-file output: normalized captures
// plus the lexical scope tree, ready for the builders.
type FileCaptures struct {
	FilePath    string
	Language    string
	Captures    []semantic.NormalizedCapture
	Scopes      map[semantic.ScopeID]semantic.Scope
	RootScopeID semantic.ScopeID
}

// Run parses source and produces the file's captures. Malformed source
// yields a partial tree and therefore fewer captures, never an error.
func (e *Engine) Run(filePath, language string, source []byte) (*FileCaptures, error) {
	prof := profileForLanguage(language)
	if prof == nil {
		return nil, errors.New(errors.CodeNotSupported, fmt.Sprintf("no capture profile for language: %s", language))
	}

	tree, err := e.loader.Parse(language, source)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeParseError, "parse failed")
	}
	defer tree.Close()
	root := tree.RootNode()

	q, err := e.queryFor(language)
	if err != nil {
		return nil, err
	}

	scopes, rootID := buildScopes(filePath, language, root)

	out := &FileCaptures{
		FilePath:    filePath,
		Language:    language,
		Scopes:      scopes,
		RootScopeID: rootID,
	}

	cursor := sitter.NewQueryCursor()
	defer cursor.Close()
	names := q.CaptureNames()

	matches := cursor.Matches(q, root, source)
	for m := matches.Next(); m != nil; m = matches.Next() {
		raw := newMatch(filePath, source, m, names)
		if raw == nil {
			continue
		}
		out.Captures = append(out.Captures, normalizeMatch(prof, raw)...)
	}

	if prof.post != nil {
		out.Captures = prof.post(out.Captures)
	}
	return out, nil
}

func (e *Engine) queryFor(language string) (*sitter.Query, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if q, ok := e.compiled[language]; ok {
		return q, nil
	}
	grammar := e.loader.Get(language)
	if grammar == nil {
		return nil, errors.New(errors.CodeNotSupported, fmt.Sprintf("grammar not loaded: %s", language))
	}
	prof := profileForLanguage(language)
	q, qerr := sitter.NewQuery(grammar, prof.querySource)
	if qerr != nil {
		return nil, errors.Wrap(qerr, errors.CodeInternal, fmt.Sprintf("compile %s query", language))
	}
	e.compiled[language] = q
	return q, nil
}
