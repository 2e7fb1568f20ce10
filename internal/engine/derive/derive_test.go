package derive

import (
	"testing"

	"ariadne/internal/core/errors"
	"ariadne/internal/engine/semantic"
)

func loc(startLine, endLine int) semantic.Location {
	return semantic.Location{FilePath: "a.ts", StartLine: startLine, StartColumn: 1, EndLine: endLine, EndColumn: 80}
}

func exportedFunc(name string, l semantic.Location) semantic.Definition {
	return semantic.Definition{
		SymbolID:     semantic.NewSymbolID(semantic.KindFunction, l, name),
		Name:         name,
		Kind:         semantic.KindFunction,
		Location:     l,
		ScopeID:      "s0",
		Availability: semantic.AvailExported,
		Export:       &semantic.Export{Kind: semantic.ExportNamed, Name: name},
	}
}

func TestBuild_EmptyIndex(t *testing.T) {
	idx := &semantic.SemanticIndex{FilePath: "empty.ts", Language: "typescript"}

	dd, err := Build(idx)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if len(dd.ExportedSymbols) != 0 || len(dd.TypeMembers) != 0 {
		t.Errorf("expected empty projections, got %+v", dd)
	}
}

func TestBuild_ExportAndMemberTables(t *testing.T) {
	classLoc := loc(1, 10)
	methodLoc := loc(2, 4)
	idx := &semantic.SemanticIndex{
		FilePath: "a.ts",
		Language: "typescript",
		Classes: []semantic.Definition{{
			SymbolID:     semantic.NewSymbolID(semantic.KindClass, classLoc, "Widget"),
			Name:         "Widget",
			Kind:         semantic.KindClass,
			Location:     classLoc,
			ScopeID:      "s0",
			Availability: semantic.AvailExported,
			Export:       &semantic.Export{Kind: semantic.ExportNamed, Name: "Widget"},
			Extends:      []string{"Base"},
			Methods: []semantic.Definition{{
				SymbolID: semantic.NewSymbolID(semantic.KindMethod, methodLoc, "render"),
				Name:     "render",
				Kind:     semantic.KindMethod,
				Location: methodLoc,
				ScopeID:  "s1",
			}},
		}},
		Functions: []semantic.Definition{exportedFunc("parse", loc(12, 14))},
	}

	dd, err := Build(idx)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if _, ok := dd.ExportedSymbols["Widget"]; !ok {
		t.Error("expected Widget in export table")
	}
	if _, ok := dd.ExportedSymbols["parse"]; !ok {
		t.Error("expected parse in export table")
	}

	tid, ok := dd.TypesByName["Widget"]
	if !ok {
		t.Fatal("expected Widget in TypesByName")
	}
	table, ok := dd.TypeMembers[tid.Key()]
	if !ok {
		t.Fatal("expected member table for Widget")
	}
	if _, ok := table.Methods["render"]; !ok {
		t.Error("expected render in Widget's method table")
	}
	if len(table.Extends) != 1 || table.Extends[0] != "Base" {
		t.Errorf("expected extends carried over, got %v", table.Extends)
	}
}

func TestBuild_DuplicateExportIsHardError(t *testing.T) {
	idx := &semantic.SemanticIndex{
		FilePath: "dup.ts",
		Language: "typescript",
		Functions: []semantic.Definition{
			exportedFunc("parse", loc(1, 3)),
			exportedFunc("parse", loc(5, 7)),
		},
	}

	dd, err := Build(idx)
	if err == nil {
		t.Fatal("expected duplicate export error")
	}
	if dd != nil {
		t.Error("expected nil derived data on error")
	}
	if !errors.IsCode(err, errors.CodeDuplicateExport) {
		t.Errorf("expected CodeDuplicateExport, got %v", err)
	}
}

func TestBuild_AliasCollisionIsHardError(t *testing.T) {
	a := exportedFunc("parse", loc(1, 3))
	b := exportedFunc("tokenize", loc(5, 7))
	b.Export.Alias = "parse"

	idx := &semantic.SemanticIndex{
		FilePath:  "alias.ts",
		Language:  "typescript",
		Functions: []semantic.Definition{a, b},
	}

	if _, err := Build(idx); !errors.IsCode(err, errors.CodeDuplicateExport) {
		t.Errorf("expected CodeDuplicateExport for alias collision, got %v", err)
	}
}

func TestBuild_WildcardReExportsAreExempt(t *testing.T) {
	mk := func(src string, l semantic.Location) semantic.Definition {
		return semantic.Definition{
			SymbolID:     semantic.NewSymbolID(semantic.KindImport, l, "*"),
			Name:         "*",
			Kind:         semantic.KindImport,
			Location:     l,
			ScopeID:      "s0",
			Availability: semantic.AvailExported,
			Export:       &semantic.Export{Kind: semantic.ExportReExport, Name: "*", Source: src},
			ImportSource: src,
			ImportedName: "*",
			IsReExport:   true,
		}
	}
	idx := &semantic.SemanticIndex{
		FilePath: "barrel.ts",
		Language: "typescript",
		Imports: []semantic.Definition{
			mk("./a", loc(1, 1)),
			mk("./b", loc(2, 2)),
		},
	}

	dd, err := Build(idx)
	if err != nil {
		t.Fatalf("expected wildcard re-exports to coexist, got %v", err)
	}
	if _, ok := dd.ExportedSymbols["*"]; ok {
		t.Error("wildcard re-exports must not claim an effective name")
	}
}

func TestBuild_ReExportCreatesNoLocalBinding(t *testing.T) {
	l := loc(1, 1)
	idx := &semantic.SemanticIndex{
		FilePath: "b.ts",
		Language: "typescript",
		Imports: []semantic.Definition{{
			SymbolID:     semantic.NewSymbolID(semantic.KindImport, l, "Thing"),
			Name:         "Thing",
			Kind:         semantic.KindImport,
			Location:     l,
			ScopeID:      "s0",
			Availability: semantic.AvailExported,
			Export:       &semantic.Export{Kind: semantic.ExportReExport, Name: "Thing", Source: "./a"},
			ImportSource: "./a",
			ImportedName: "Thing",
			IsReExport:   true,
		}},
	}

	dd, err := Build(idx)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if kinds := dd.ScopeToDefinitions["s0"]; len(kinds[semantic.KindImport]) != 0 {
		t.Error("re-export must not appear as a local scope binding")
	}
	if _, ok := dd.ExportedSymbols["Thing"]; !ok {
		t.Error("re-export must still appear in the export table")
	}
}
