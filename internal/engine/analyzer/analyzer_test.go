package analyzer

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"ariadne/internal/core/errors"
	"ariadne/internal/engine/lang"
	"ariadne/internal/engine/semantic"
)

func newAnalyzer(t *testing.T) *Analyzer {
	t.Helper()
	loader, err := lang.NewLoader(lang.BuildRegistry(nil))
	if err != nil {
		t.Fatalf("loader: %v", err)
	}
	return New(loader, nil)
}

const tsSource = `class Widget {
  render() {
    return "ok";
  }
}

function makeWidget() {
  return new Widget();
}

const w = makeWidget();
`

func TestAnalyzeFile_TypeScript(t *testing.T) {
	a := newAnalyzer(t)
	fa, err := a.AnalyzeFile(context.Background(), "src/widget.ts", []byte(tsSource))
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}

	byName := make(map[string]semantic.SymbolKind)
	for _, def := range fa.Index.AllDefinitions() {
		byName[def.Name] = def.Kind
	}
	if byName["Widget"] != semantic.KindClass {
		t.Errorf("Widget kind = %q, want class", byName["Widget"])
	}
	if byName["makeWidget"] != semantic.KindFunction {
		t.Errorf("makeWidget kind = %q, want function", byName["makeWidget"])
	}
	if byName["w"] != semantic.KindVariable {
		t.Errorf("w kind = %q, want variable", byName["w"])
	}
	if len(fa.Index.References) == 0 {
		t.Error("expected call and construct references")
	}
	if fa.Derived == nil {
		t.Fatal("derived data missing")
	}
	if _, ok := fa.Derived.TypesByName["Widget"]; !ok {
		t.Error("Widget missing from the type table")
	}
}

func TestAnalyzeFile_CapturesTypeReferences(t *testing.T) {
	cases := []struct {
		path   string
		source string
		want   string
	}{
		{"a.ts", "class Widget {}\nlet w: Widget;\n", "Widget"},
		{"a.py", "class Widget:\n    pass\n\ndef take(w: Widget):\n    pass\n", "Widget"},
		{"a.rs", "struct Widget;\nfn take(w: Widget) {}\n", "Widget"},
	}
	a := newAnalyzer(t)
	for _, tc := range cases {
		fa, err := a.AnalyzeFile(context.Background(), tc.path, []byte(tc.source))
		if err != nil {
			t.Fatalf("analyze %s: %v", tc.path, err)
		}
		found := false
		for _, ref := range fa.Index.References {
			if ref.Kind == semantic.RefTypeReference && ref.Name == tc.want {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("%s: no type reference to %s in %+v", tc.path, tc.want, fa.Index.References)
		}
	}
}

func TestAnalyzeFile_IsIdempotent(t *testing.T) {
	a := newAnalyzer(t)
	first, err := a.AnalyzeFile(context.Background(), "src/widget.ts", []byte(tsSource))
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	second, err := a.AnalyzeFile(context.Background(), "src/widget.ts", []byte(tsSource))
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if !reflect.DeepEqual(first.Index, second.Index) {
		t.Error("analyzing the same content twice produced different indexes")
	}
}

func TestAnalyzeFile_UnsupportedPath(t *testing.T) {
	a := newAnalyzer(t)
	_, err := a.AnalyzeFile(context.Background(), "README.md", []byte("# hi"))
	if !errors.IsCode(err, errors.CodeNotSupported) {
		t.Errorf("err = %v, want %s", err, errors.CodeNotSupported)
	}
}

func TestScanDirectories(t *testing.T) {
	root := t.TempDir()
	write := func(rel, content string) {
		t.Helper()
		full := filepath.Join(root, rel)
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	write("a.ts", "const a = 1;")
	write("sub/b.py", "B = 1")
	write("node_modules/dep/index.js", "module.exports = {};")
	write("a.test.ts", "const t = 1;")
	write("README.md", "docs")

	a := newAnalyzer(t)
	files, err := a.ScanDirectories([]string{root}, []string{"node_modules"}, []string{"*.test.ts"})
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	want := []string{filepath.Join(root, "a.ts"), filepath.Join(root, "sub/b.py")}
	if !reflect.DeepEqual(files, want) {
		t.Errorf("scan = %v, want %v", files, want)
	}

	if _, err := a.ScanDirectories([]string{root}, []string{"["}, nil); err == nil {
		t.Error("invalid glob must fail the scan")
	}
}
