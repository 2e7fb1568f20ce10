package symbolstore

import (
	"path/filepath"
	"testing"

	"ariadne/internal/engine/semantic"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"), "proj")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleIndex(filePath string) *semantic.SemanticIndex {
	loc := semantic.Location{FilePath: filePath, StartLine: 1, StartColumn: 1, EndLine: 5, EndColumn: 2}
	method := semantic.Definition{
		SymbolID: semantic.NewSymbolID(semantic.KindMethod, loc, "render"),
		Name:     "render", Kind: semantic.KindMethod, Location: loc,
		ReturnType: "string",
	}
	class := semantic.Definition{
		SymbolID: semantic.NewSymbolID(semantic.KindClass, loc, "Widget"),
		Name:     "Widget", Kind: semantic.KindClass, Location: loc,
		Availability: semantic.AvailExported,
		Methods:      []semantic.Definition{method},
	}
	return &semantic.SemanticIndex{
		FilePath: filePath,
		Language: "typescript",
		Classes:  []semantic.Definition{class},
	}
}

func TestStore_UpsertAndLookup(t *testing.T) {
	s := openStore(t)
	if err := s.UpsertIndex(sampleIndex("src/widget.ts")); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	recs := s.Lookup("Widget")
	if len(recs) != 1 {
		t.Fatalf("Lookup(Widget) = %d records, want 1", len(recs))
	}
	if recs[0].FilePath != "src/widget.ts" || recs[0].Kind != semantic.KindClass {
		t.Errorf("record = %+v", recs[0])
	}

	recs = s.Lookup("render")
	if len(recs) != 1 || recs[0].Owner != "Widget" || recs[0].TypeHint != "string" {
		t.Errorf("Lookup(render) = %+v, want owner Widget with string hint", recs)
	}
	if recs := s.Lookup("missing"); len(recs) != 0 {
		t.Errorf("Lookup of an unknown name = %+v, want nothing", recs)
	}
}

func TestStore_LookupCacheSurvivesRepeat(t *testing.T) {
	s := openStore(t)
	if err := s.UpsertIndex(sampleIndex("a.ts")); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	first := s.Lookup("Widget")
	second := s.Lookup("Widget")
	if len(first) != 1 || len(second) != 1 {
		t.Fatalf("cached lookup changed results: %d then %d", len(first), len(second))
	}
}

func TestStore_LoadIndexRoundTrip(t *testing.T) {
	s := openStore(t)
	idx := sampleIndex("src/widget.ts")
	if err := s.UpsertIndex(idx); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	got, err := s.LoadIndex("src/widget.ts")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got == nil || got.FilePath != idx.FilePath || len(got.Classes) != 1 {
		t.Fatalf("loaded index = %+v", got)
	}
	if got.Classes[0].SymbolID != idx.Classes[0].SymbolID {
		t.Errorf("symbol id changed across the round trip")
	}

	if missing, err := s.LoadIndex("absent.ts"); err != nil || missing != nil {
		t.Errorf("LoadIndex(absent) = (%v, %v), want (nil, nil)", missing, err)
	}
}

func TestStore_SyncProjectPrunesRemovedFiles(t *testing.T) {
	s := openStore(t)
	if err := s.UpsertIndex(sampleIndex("old.ts")); err != nil {
		t.Fatalf("seed: %v", err)
	}

	if err := s.SyncProject([]*semantic.SemanticIndex{sampleIndex("new.ts")}); err != nil {
		t.Fatalf("sync: %v", err)
	}
	paths, err := s.StoredPaths()
	if err != nil {
		t.Fatalf("stored paths: %v", err)
	}
	if len(paths) != 1 || paths[0] != "new.ts" {
		t.Errorf("paths after sync = %v, want [new.ts]", paths)
	}
}

func TestStore_BatchDeleteFile(t *testing.T) {
	s := openStore(t)
	if err := s.UpsertIndex(sampleIndex("a.ts")); err != nil {
		t.Fatalf("seed: %v", err)
	}

	b, err := s.BeginBatch()
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	if err := b.DeleteFile("a.ts"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := b.Commit(); err != nil {
		t.Fatalf("commit: %v", err)
	}

	if recs := s.Lookup("Widget"); len(recs) != 0 {
		t.Errorf("Lookup after delete = %+v, want nothing", recs)
	}
	if idx, err := s.LoadIndex("a.ts"); err != nil || idx != nil {
		t.Errorf("LoadIndex after delete = (%v, %v), want (nil, nil)", idx, err)
	}
}
