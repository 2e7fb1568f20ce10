package resolver

import (
	"testing"

	"ariadne/internal/engine/semantic"
)

func TestResolveImportPath_JavaScript(t *testing.T) {
	p := NewProject()
	stub(p, "src/a.ts", "typescript")
	stub(p, "src/util.ts", "typescript")
	stub(p, "src/lib/index.ts", "typescript")

	cases := []struct {
		source string
		want   string
		ok     bool
	}{
		{"./a", "src/a.ts", true},
		{"./lib", "src/lib/index.ts", true},
		{"./util.js", "src/util.ts", true}, // extension remap
		{"./missing", "", false},
		{"react", "", false}, // bare specifiers are external
	}
	for _, tc := range cases {
		got, ok := p.ResolveImportPath("src/b.ts", "typescript", tc.source)
		if ok != tc.ok || got != tc.want {
			t.Errorf("ResolveImportPath(%q) = (%q, %v), want (%q, %v)", tc.source, got, ok, tc.want, tc.ok)
		}
	}
}

func TestResolveImportPath_Python(t *testing.T) {
	p := NewProject()
	stub(p, "pkg/__init__.py", "python")
	stub(p, "pkg/mod.py", "python")
	stub(p, "pkg/sub/__init__.py", "python")
	stub(p, "main.py", "python")

	cases := []struct {
		from, source string
		want         string
		ok           bool
	}{
		{"main.py", "pkg.mod", "pkg/mod.py", true},
		{"main.py", "pkg.sub", "pkg/sub/__init__.py", true},
		{"pkg/mod.py", ".sub", "pkg/sub/__init__.py", true},
		{"pkg/sub/__init__.py", "..mod", "pkg/mod.py", true},
		{"pkg/mod.py", "pkg.mod", "pkg/mod.py", true}, // root found from ancestor
		{"main.py", "os.path", "", false},
	}
	for _, tc := range cases {
		got, ok := p.ResolveImportPath(tc.from, "python", tc.source)
		if ok != tc.ok || got != tc.want {
			t.Errorf("ResolveImportPath(%q from %q) = (%q, %v), want (%q, %v)", tc.source, tc.from, got, ok, tc.want, tc.ok)
		}
	}
}

func TestResolveImportPath_Rust(t *testing.T) {
	p := NewProject()
	stub(p, "src/main.rs", "rust")
	stub(p, "src/util.rs", "rust")
	stub(p, "src/net/mod.rs", "rust")
	stub(p, "src/net/tcp.rs", "rust")

	cases := []struct {
		from, source string
		want         string
		ok           bool
	}{
		{"src/main.rs", "util::helper", "src/util.rs", true}, // trailing item name
		{"src/main.rs", "crate::net::tcp", "src/net/tcp.rs", true},
		{"src/net/tcp.rs", "super::util", "src/util.rs", true},
		{"src/net/mod.rs", "self::tcp", "src/net/tcp.rs", true},
		{"src/main.rs", "net", "src/net/mod.rs", true},
		{"src/main.rs", "std::collections::HashMap", "", false},
	}
	for _, tc := range cases {
		got, ok := p.ResolveImportPath(tc.from, "rust", tc.source)
		if ok != tc.ok || got != tc.want {
			t.Errorf("ResolveImportPath(%q from %q) = (%q, %v), want (%q, %v)", tc.source, tc.from, got, ok, tc.want, tc.ok)
		}
	}
}

func TestResolveImportedSymbol_FollowsReExportChain(t *testing.T) {
	parse := exported(defOf(semantic.KindFunction, "parse", locAt("a.ts", 1, 3)))
	aIdx := &semantic.SemanticIndex{
		FilePath: "a.ts", Language: "typescript",
		Functions: []semantic.Definition{parse},
	}

	reExport := importOf("parse", "./a", locAt("barrel.ts", 1, 1))
	reExport.IsReExport = true
	reExport.Availability = semantic.AvailExported
	reExport.Export = &semantic.Export{Kind: semantic.ExportReExport, Name: "parse", Source: "./a"}
	barrelIdx := &semantic.SemanticIndex{
		FilePath: "barrel.ts", Language: "typescript",
		Imports: []semantic.Definition{reExport},
	}

	p := NewProject()
	p.Add(analyze(t, aIdx))
	p.Add(analyze(t, barrelIdx))

	imp := importOf("parse", "./barrel", locAt("c.ts", 1, 1))
	file, exp, ok := p.ResolveImportedSymbol("c.ts", "typescript", &imp)
	if !ok {
		t.Fatal("expected re-export chain to resolve")
	}
	if file != "a.ts" || exp.SymbolID != parse.SymbolID {
		t.Errorf("resolved to (%s, %s), want original definition in a.ts", file, exp.SymbolID)
	}
}

func TestResolveImportedSymbol_DefaultExport(t *testing.T) {
	lexer := defOf(semantic.KindClass, "Lexer", locAt("a.ts", 1, 9))
	lexer.Availability = semantic.AvailExported
	lexer.Export = &semantic.Export{Kind: semantic.ExportDefault, Name: "Lexer"}
	aIdx := &semantic.SemanticIndex{
		FilePath: "a.ts", Language: "typescript",
		Classes: []semantic.Definition{lexer},
	}

	p := NewProject()
	p.Add(analyze(t, aIdx))

	// `import Tokenizer from "./a"`: local name differs, default is wanted.
	imp := defOf(semantic.KindImport, "Tokenizer", locAt("b.ts", 1, 1))
	imp.ImportSource = "./a"
	imp.ImportedName = "default"

	file, exp, ok := p.ResolveImportedSymbol("b.ts", "typescript", &imp)
	if !ok || file != "a.ts" || exp.SymbolID != lexer.SymbolID {
		t.Errorf("default import resolved to (%s, %s, %v), want Lexer in a.ts", file, exp.SymbolID, ok)
	}
}

func TestResolveImportedSymbol_RustPublicFallback(t *testing.T) {
	// Rust has no export statements; pub visibility is enough.
	helper := defOf(semantic.KindFunction, "helper", locAt("src/util.rs", 1, 3))
	helper.Availability = semantic.AvailPublic
	private := defOf(semantic.KindFunction, "internal", locAt("src/util.rs", 5, 7))
	utilIdx := &semantic.SemanticIndex{
		FilePath: "src/util.rs", Language: "rust",
		Functions: []semantic.Definition{helper, private},
	}

	p := NewProject()
	p.Add(analyze(t, utilIdx))

	imp := defOf(semantic.KindImport, "helper", locAt("src/main.rs", 1, 1))
	imp.ImportSource = "util::helper"
	imp.ImportedName = "helper"
	file, exp, ok := p.ResolveImportedSymbol("src/main.rs", "rust", &imp)
	if !ok || file != "src/util.rs" || exp.SymbolID != helper.SymbolID {
		t.Errorf("pub item resolved to (%s, %s, %v), want helper", file, exp.SymbolID, ok)
	}

	imp = defOf(semantic.KindImport, "internal", locAt("src/main.rs", 2, 2))
	imp.ImportSource = "util::internal"
	imp.ImportedName = "internal"
	if _, _, ok := p.ResolveImportedSymbol("src/main.rs", "rust", &imp); ok {
		t.Error("file-private item must not resolve across files")
	}
}

func TestResolveImportedSymbol_PythonPublicFallback(t *testing.T) {
	// Python modules export nothing explicitly; public module members are
	// importable by convention.
	helper := defOf(semantic.KindFunction, "helper", locAt("pkg/util.py", 1, 3))
	helper.Availability = semantic.AvailPublic
	private := defOf(semantic.KindFunction, "_hidden", locAt("pkg/util.py", 5, 7))
	utilIdx := &semantic.SemanticIndex{
		FilePath: "pkg/util.py", Language: "python",
		Functions: []semantic.Definition{helper, private},
	}

	p := NewProject()
	p.Add(analyze(t, utilIdx))

	imp := defOf(semantic.KindImport, "helper", locAt("pkg/main.py", 1, 1))
	imp.ImportSource = "util"
	imp.ImportedName = "helper"
	file, exp, ok := p.ResolveImportedSymbol("pkg/main.py", "python", &imp)
	if !ok || file != "pkg/util.py" || exp.SymbolID != helper.SymbolID {
		t.Errorf("python member resolved to (%s, %s, %v), want helper in pkg/util.py", file, exp.SymbolID, ok)
	}

	imp = defOf(semantic.KindImport, "_hidden", locAt("pkg/main.py", 2, 2))
	imp.ImportSource = "util"
	imp.ImportedName = "_hidden"
	if _, _, ok := p.ResolveImportedSymbol("pkg/main.py", "python", &imp); ok {
		t.Error("underscore-private member must not resolve across files")
	}
}
