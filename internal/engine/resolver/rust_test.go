package resolver

import (
	"testing"

	"ariadne/internal/engine/semantic"
)

func TestFutureOutput(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"impl Future<Output = Option<Widget>>", "Option<Widget>", true},
		{"Pin<Box<dyn Future<Output = String>>>", "String", true},
		{"Arc<dyn Future<Output = Result<u32, Error>>>", "Result<u32, Error>", true},
		{"Future<Widget>", "Widget", true},
		{"impl Future<Option<Widget>>", "Option<Widget>", true},
		{"impl Future", "", false},
		{"Widget", "", false},
		{"Box<Widget>", "", false},
	}
	for _, tc := range cases {
		got, ok := FutureOutput(tc.in)
		if ok != tc.ok || got != tc.want {
			t.Errorf("FutureOutput(%q) = (%q, %v), want (%q, %v)", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestApplyRustAsyncRules_BindsAwaitedPatternTypes(t *testing.T) {
	fut := defOf(semantic.KindVariable, "maybe_widget", locAt("src/main.rs", 3, 3))
	fut.TypeAnnotation = "impl Future<Output = Option<Widget>>"

	patternLoc := locAt("src/main.rs", 5, 5)
	match := semantic.Reference{
		Name:            "Some(w)",
		Kind:            semantic.RefPatternMatch,
		Location:        patternLoc,
		ScopeID:         "s0",
		MatchedText:     "maybe_widget.await",
		PatternLocation: &patternLoc,
	}
	bindingLoc := locAt("src/main.rs", 5, 5)
	bindingLoc.StartColumn = 9
	binding := semantic.Reference{
		Name:            "w",
		Kind:            semantic.RefPatternBinding,
		Location:        bindingLoc,
		ScopeID:         "s0",
		MatchedText:     "maybe_widget.await",
		PatternLocation: &patternLoc,
	}
	insideCall := refAt(semantic.RefCall, "render", locAt("src/main.rs", 7, 7))
	insideCall.IsMethodCall = true
	insideCall.PropertyChain = []string{"w", "render"}
	outsideCall := refAt(semantic.RefCall, "render", locAt("src/main.rs", 40, 40))
	outsideCall.IsMethodCall = true
	outsideCall.PropertyChain = []string{"w", "render"}

	idx := &semantic.SemanticIndex{
		FilePath: "src/main.rs", Language: "rust",
		Variables:  []semantic.Definition{fut},
		References: []semantic.Reference{match, binding, insideCall, outsideCall},
	}
	fa := analyze(t, idx)

	extra := ApplyRustAsyncRules(idx, fa.Derived)
	if got := extra[bindingLoc.Key()]; got != "Widget" {
		t.Errorf("binding type = %q, want Widget", got)
	}
	if !idx.References[2].PatternConditional {
		t.Error("call inside the pattern window must be tagged conditional")
	}
	if idx.References[3].PatternConditional {
		t.Error("call outside the pattern window must not be tagged")
	}
}

func TestApplyRustAsyncRules_SynthesizesFutureForAsyncCalls(t *testing.T) {
	fetch := defOf(semantic.KindFunction, "fetch", locAt("src/main.rs", 1, 3))
	fetch.ReturnType = "Option<Widget>"
	fetch.Modifiers.IsAsync = true

	patternLoc := locAt("src/main.rs", 6, 6)
	bindingLoc := locAt("src/main.rs", 6, 6)
	bindingLoc.StartColumn = 9
	refs := []semantic.Reference{
		{Name: "Some(w)", Kind: semantic.RefPatternMatch, Location: patternLoc, ScopeID: "s0",
			MatchedText: "fetch().await", PatternLocation: &patternLoc},
		{Name: "w", Kind: semantic.RefPatternBinding, Location: bindingLoc, ScopeID: "s0",
			MatchedText: "fetch().await", PatternLocation: &patternLoc},
	}
	idx := &semantic.SemanticIndex{
		FilePath: "src/main.rs", Language: "rust",
		Functions:  []semantic.Definition{fetch},
		References: refs,
	}
	fa := analyze(t, idx)

	extra := ApplyRustAsyncRules(idx, fa.Derived)
	if got := extra[bindingLoc.Key()]; got != "Widget" {
		t.Errorf("awaited async call binding = %q, want Widget", got)
	}
}

func TestRustCallType(t *testing.T) {
	returns := map[string]string{"fetch": "Future<Option<Widget>>"}
	cases := []struct {
		expr string
		want string
		ok   bool
	}{
		{"fetch()", "Future<Option<Widget>>", true},
		{"fetch(url)", "Future<Option<Widget>>", true},
		{"client::fetch()", "Future<Option<Widget>>", true},
		{"other()", "", false},
		{"fetch", "", false},
	}
	for _, tc := range cases {
		got, ok := rustCallType(tc.expr, returns)
		if ok != tc.ok || got != tc.want {
			t.Errorf("rustCallType(%q) = (%q, %v), want (%q, %v)", tc.expr, got, ok, tc.want, tc.ok)
		}
	}
}

func TestApplyRustAsyncRules_UnwrapsResultWithoutAwait(t *testing.T) {
	res := defOf(semantic.KindVariable, "parsed", locAt("src/lib.rs", 2, 2))
	res.TypeAnnotation = "Result<Config, ParseError>"

	patternLoc := locAt("src/lib.rs", 4, 4)
	okLoc := locAt("src/lib.rs", 4, 4)
	okLoc.StartColumn = 12
	refs := []semantic.Reference{
		{Name: "Err(e)", Kind: semantic.RefPatternMatch, Location: patternLoc, ScopeID: "s0",
			MatchedText: "parsed", PatternLocation: &patternLoc},
		{Name: "e", Kind: semantic.RefPatternBinding, Location: okLoc, ScopeID: "s0",
			MatchedText: "parsed", PatternLocation: &patternLoc},
	}
	idx := &semantic.SemanticIndex{
		FilePath: "src/lib.rs", Language: "rust",
		Variables:  []semantic.Definition{res},
		References: refs,
	}
	fa := analyze(t, idx)

	extra := ApplyRustAsyncRules(idx, fa.Derived)
	if got := extra[okLoc.Key()]; got != "ParseError" {
		t.Errorf("Err binding type = %q, want ParseError", got)
	}
}

func TestApplyRustAsyncRules_IgnoresOtherLanguages(t *testing.T) {
	idx := &semantic.SemanticIndex{FilePath: "a.ts", Language: "typescript"}
	if extra := ApplyRustAsyncRules(idx, nil); extra != nil {
		t.Errorf("expected nil for non-rust files, got %v", extra)
	}
	if extra := ApplyRustAsyncRules(nil, nil); extra != nil {
		t.Errorf("expected nil for nil index, got %v", extra)
	}
}
