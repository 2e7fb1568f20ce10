package semantic

import (
	"reflect"
	"testing"
)

func span(startLine, endLine int) Location {
	return Location{FilePath: "a.ts", StartLine: startLine, StartColumn: 1, EndLine: endLine, EndColumn: 80}
}

func TestBuildIndex_ClassMembers(t *testing.T) {
	captures := []NormalizedCapture{
		{Category: CategoryDefinition, Entity: EntityMethod, Name: "render", Location: span(6, 8)},
		{Category: CategoryDefinition, Entity: EntityClass, Name: "Widget", Location: span(1, 12)},
		{Category: CategoryDefinition, Entity: EntityConstructor, Name: "constructor", Location: span(2, 4)},
		{Category: CategoryDefinition, Entity: EntityProperty, Name: "size", Location: span(5, 5)},
		{Category: CategoryDefinition, Entity: EntityParameter, Name: "depth", Location: span(6, 6)},
		{Category: CategoryDefinition, Entity: EntityFunction, Name: "helper", Location: span(14, 16)},
	}

	idx := BuildIndex("a.ts", "typescript", nil, "", captures)

	if len(idx.Classes) != 1 {
		t.Fatalf("expected 1 class, got %d", len(idx.Classes))
	}
	class := idx.Classes[0]
	if class.Name != "Widget" {
		t.Errorf("unexpected class name %q", class.Name)
	}
	if class.Constructor == nil || class.Constructor.Kind != KindConstructor {
		t.Error("expected constructor attached to class")
	}
	if len(class.Methods) != 1 || class.Methods[0].Name != "render" {
		t.Fatalf("expected method render on class, got %+v", class.Methods)
	}
	if len(class.Methods[0].Parameters) != 1 || class.Methods[0].Parameters[0].Name != "depth" {
		t.Errorf("expected parameter depth on render, got %+v", class.Methods[0].Parameters)
	}
	if len(class.Properties) != 1 || class.Properties[0].Name != "size" {
		t.Errorf("expected property size on class, got %+v", class.Properties)
	}
	if len(idx.Functions) != 1 || idx.Functions[0].Name != "helper" {
		t.Errorf("expected helper to stay top level, got %+v", idx.Functions)
	}
}

func TestBuildIndex_OwnerNameAttachesOutOfSpanMethods(t *testing.T) {
	// Rust impl blocks declare methods outside the struct's own span; the
	// owner arrives by name instead of containment.
	captures := []NormalizedCapture{
		{Category: CategoryDefinition, Entity: EntityClass, Name: "Widget", Location: span(1, 3)},
		{
			Category: CategoryDefinition, Entity: EntityMethod, Name: "area",
			Location: span(10, 12),
			Context:  CaptureContext{OwnerName: "Widget"},
		},
	}

	idx := BuildIndex("lib.rs", "rust", nil, "", captures)

	if len(idx.Classes) != 1 {
		t.Fatalf("expected 1 class, got %d", len(idx.Classes))
	}
	if len(idx.Classes[0].Methods) != 1 || idx.Classes[0].Methods[0].Name != "area" {
		t.Fatalf("expected area attached via owner name, got %+v", idx.Classes[0].Methods)
	}
}

func TestBuildIndex_AppliesStandaloneExports(t *testing.T) {
	captures := []NormalizedCapture{
		{Category: CategoryDefinition, Entity: EntityFunction, Name: "parse", Location: span(1, 3)},
		{Category: CategoryDefinition, Entity: EntityClass, Name: "Lexer", Location: span(5, 9)},
		{
			Category: CategoryExport, Name: "parse", Location: span(11, 11),
			Context: CaptureContext{ExportAlias: "parseSource"},
		},
		{
			Category: CategoryExport, Name: "Lexer", Location: span(12, 12),
			Modifiers: Modifiers{IsDefault: true},
		},
		{Category: CategoryExport, Name: "missing", Location: span(13, 13)},
	}

	idx := BuildIndex("a.ts", "typescript", nil, "", captures)

	fn := idx.Functions[0]
	if fn.Export == nil || fn.Export.Kind != ExportNamed || fn.Export.Alias != "parseSource" {
		t.Errorf("expected named export with alias on parse, got %+v", fn.Export)
	}
	if fn.Availability != AvailExported {
		t.Errorf("expected parse exported, got %s", fn.Availability)
	}
	class := idx.Classes[0]
	if class.Export == nil || class.Export.Kind != ExportDefault {
		t.Errorf("expected default export on Lexer, got %+v", class.Export)
	}
	if fn.Export.EffectiveName() != "parseSource" {
		t.Errorf("unexpected effective name %q", fn.Export.EffectiveName())
	}
}

func TestBuildIndex_DocClaiming(t *testing.T) {
	captures := []NormalizedCapture{
		{Category: CategoryDocumentation, Text: "Parses one file.", Location: span(1, 1)},
		{Category: CategoryDefinition, Entity: EntityFunction, Name: "parse", Location: span(2, 4)},
		{
			Category: CategoryDefinition, Entity: EntityFunction, Name: "load",
			Location: span(8, 12),
			Context:  CaptureContext{Docstring: "Loads the thing."},
		},
	}

	idx := BuildIndex("m.py", "python", nil, "", captures)

	if idx.Functions[0].Docstring != "Parses one file." {
		t.Errorf("expected leading comment claimed, got %q", idx.Functions[0].Docstring)
	}
	if idx.Functions[1].Docstring != "Loads the thing." {
		t.Errorf("expected in-body docstring fallback, got %q", idx.Functions[1].Docstring)
	}
}

func TestBuildIndex_NamespaceNesting(t *testing.T) {
	captures := []NormalizedCapture{
		{Category: CategoryDefinition, Entity: EntityNamespace, Name: "outer", Location: span(1, 20)},
		{Category: CategoryDefinition, Entity: EntityNamespace, Name: "inner", Location: span(5, 15)},
		{Category: CategoryDefinition, Entity: EntityFunction, Name: "deep", Location: span(6, 8)},
		{Category: CategoryDefinition, Entity: EntityFunction, Name: "shallow", Location: span(17, 18)},
		{Category: CategoryDefinition, Entity: EntityFunction, Name: "free", Location: span(25, 27)},
	}

	idx := BuildIndex("a.ts", "typescript", nil, "", captures)

	if len(idx.Namespaces) != 1 || idx.Namespaces[0].Name != "outer" {
		t.Fatalf("expected single root namespace, got %+v", idx.Namespaces)
	}
	outer := idx.Namespaces[0]

	names := make(map[string]bool)
	var inner *Definition
	for i := range outer.Nested {
		names[outer.Nested[i].Name] = true
		if outer.Nested[i].Name == "inner" {
			inner = &outer.Nested[i]
		}
	}
	if !names["inner"] || !names["shallow"] {
		t.Fatalf("expected inner and shallow under outer, got %v", names)
	}
	if inner == nil || len(inner.Nested) != 1 || inner.Nested[0].Name != "deep" {
		t.Errorf("expected deep under inner")
	}
	if len(idx.Functions) != 1 || idx.Functions[0].Name != "free" {
		t.Errorf("expected free to stay top level, got %+v", idx.Functions)
	}
}

func TestBuildIndex_Idempotent(t *testing.T) {
	captures := []NormalizedCapture{
		{Category: CategoryDocumentation, Text: "doc", Location: span(1, 1)},
		{Category: CategoryDefinition, Entity: EntityClass, Name: "A", Location: span(2, 9)},
		{Category: CategoryDefinition, Entity: EntityMethod, Name: "m", Location: span(3, 5)},
		{Category: CategoryDefinition, Entity: EntityEnum, Name: "Color", Location: span(11, 14)},
		{Category: CategoryDefinition, Entity: EntityEnumMember, Name: "Red", Location: span(12, 12)},
		{Category: CategoryReference, Entity: EntityCall, Name: "m", Location: span(16, 16)},
	}

	first := BuildIndex("a.ts", "typescript", nil, "", captures)
	second := BuildIndex("a.ts", "typescript", nil, "", captures)

	if !reflect.DeepEqual(first, second) {
		t.Error("expected identical indexes from identical captures")
	}
}

func TestBuildIndex_SameLineScopeTieBreaksByColumn(t *testing.T) {
	at := func(line, startCol, endCol int) Location {
		return Location{FilePath: "a.ts", StartLine: line, StartColumn: startCol, EndLine: line, EndColumn: endCol}
	}
	scopes := map[ScopeID]Scope{
		"root":  {ID: "root", Kind: ScopeModule, Location: span(1, 20)},
		"outer": {ID: "outer", Kind: ScopeFunction, ParentID: "root", Location: at(5, 1, 80)},
		"inner": {ID: "inner", Kind: ScopeBlock, ParentID: "outer", Location: at(5, 10, 40)},
	}
	captures := []NormalizedCapture{
		{Category: CategoryDefinition, Entity: EntityVariable, Name: "x", Location: at(5, 12, 20)},
	}

	for i := 0; i < 10; i++ {
		idx := BuildIndex("a.ts", "typescript", scopes, "root", captures)
		if len(idx.Variables) != 1 {
			t.Fatalf("expected 1 variable, got %d", len(idx.Variables))
		}
		if got := idx.Variables[0].ScopeID; got != "inner" {
			t.Fatalf("expected narrowest same-line scope, got %q", got)
		}
	}
}
