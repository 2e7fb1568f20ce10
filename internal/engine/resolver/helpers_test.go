package resolver

import (
	"testing"

	"ariadne/internal/engine/derive"
	"ariadne/internal/engine/semantic"
)

func locAt(file string, startLine, endLine int) semantic.Location {
	return semantic.Location{FilePath: file, StartLine: startLine, StartColumn: 1, EndLine: endLine, EndColumn: 80}
}

func rootScopes(file string) map[semantic.ScopeID]semantic.Scope {
	return map[semantic.ScopeID]semantic.Scope{
		"s0": {ID: "s0", Kind: semantic.ScopeModule, Location: locAt(file, 1, 1000)},
	}
}

func analyze(t *testing.T, idx *semantic.SemanticIndex) *FileAnalysis {
	t.Helper()
	if idx.Scopes == nil {
		idx.Scopes = rootScopes(idx.FilePath)
		idx.RootScopeID = "s0"
	}
	dd, err := derive.Build(idx)
	if err != nil {
		t.Fatalf("derive %s: %v", idx.FilePath, err)
	}
	return &FileAnalysis{Index: idx, Derived: dd}
}

func defOf(kind semantic.SymbolKind, name string, l semantic.Location) semantic.Definition {
	return semantic.Definition{
		SymbolID: semantic.NewSymbolID(kind, l, name),
		Name:     name,
		Kind:     kind,
		Location: l,
		ScopeID:  "s0",
	}
}

func exported(d semantic.Definition) semantic.Definition {
	d.Availability = semantic.AvailExported
	d.Export = &semantic.Export{Kind: semantic.ExportNamed, Name: d.Name}
	return d
}

func importOf(name, source string, l semantic.Location) semantic.Definition {
	d := defOf(semantic.KindImport, name, l)
	d.ImportSource = source
	d.ImportedName = name
	return d
}

// stub registers a path with an empty index, for path-probing tests.
func stub(p *Project, path, language string) {
	p.Add(&FileAnalysis{Index: &semantic.SemanticIndex{FilePath: path, Language: language}})
}
