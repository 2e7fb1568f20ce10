package resolver

import (
	"strings"

	"ariadne/internal/engine/derive"
	"ariadne/internal/engine/semantic"
)

// patternConditionalWindow is how many lines after a destructuring pattern a
// call on one of its bindings is still considered conditional on the match.
const patternConditionalWindow = 10

// ApplyRustAsyncRules runs the Rust-only enrichment over one file: awaited
// futures propagate their Output type into pattern bindings, and calls on
// those bindings shortly after the pattern are tagged conditional. Returns
// extra location-keyed type bindings to merge into the file's derived data.
// Non-Rust files are untouched.
func ApplyRustAsyncRules(idx *semantic.SemanticIndex, dd *derive.DerivedData) map[string]string {
	if idx == nil || idx.Language != "rust" {
		return nil
	}

	varTypes := rustVariableTypes(idx, dd)
	asyncReturns := rustAsyncReturnTypes(idx)
	extra := make(map[string]string)

	// Pattern text per pattern span, so bindings can see the wrapper
	// (Some, Ok) they were destructured out of.
	patternText := make(map[string]string)
	for i := range idx.References {
		ref := &idx.References[i]
		if ref.Kind == semantic.RefPatternMatch && ref.PatternLocation != nil {
			patternText[ref.PatternLocation.Key()] = ref.Name
		}
	}

	bindingsByPattern := make(map[string][]string)
	for i := range idx.References {
		ref := &idx.References[i]
		if ref.Kind != semantic.RefPatternBinding || ref.PatternLocation == nil {
			continue
		}
		patKey := ref.PatternLocation.Key()
		bindingsByPattern[patKey] = append(bindingsByPattern[patKey], ref.Name)

		boundType, ok := rustPatternBindingType(ref, patternText[patKey], varTypes, asyncReturns)
		if !ok {
			continue
		}
		extra[ref.Location.Key()] = boundType
	}

	rustTagConditionalCalls(idx, bindingsByPattern)
	return extra
}

// rustVariableTypes maps every typed local name to its type text, from
// declared annotations first and derived bindings second.
func rustVariableTypes(idx *semantic.SemanticIndex, dd *derive.DerivedData) map[string]string {
	types := make(map[string]string)
	record := func(def *semantic.Definition) {
		if _, exists := types[def.Name]; exists {
			return
		}
		if def.TypeAnnotation != "" {
			types[def.Name] = def.TypeAnnotation
			return
		}
		if dd != nil {
			if t, ok := dd.TypeBindings[def.Location.Key()]; ok {
				types[def.Name] = t
			}
		}
	}
	var walk func(defs []semantic.Definition)
	walk = func(defs []semantic.Definition) {
		for i := range defs {
			d := &defs[i]
			record(d)
			walk(d.Parameters)
			walk(d.Methods)
			walk(d.Nested)
			if d.Constructor != nil {
				walk(d.Constructor.Parameters)
			}
		}
	}
	walk(idx.AllDefinitions())
	return types
}

// rustAsyncReturnTypes maps every async fn with a declared return type to a
// synthesized Future<ReturnType> guess, so awaited direct calls can be typed
// without a variable binding in between.
func rustAsyncReturnTypes(idx *semantic.SemanticIndex) map[string]string {
	returns := make(map[string]string)
	var walk func(defs []semantic.Definition)
	walk = func(defs []semantic.Definition) {
		for i := range defs {
			d := &defs[i]
			if d.Modifiers.IsAsync && d.ReturnType != "" {
				if _, exists := returns[d.Name]; !exists {
					returns[d.Name] = "Future<" + d.ReturnType + ">"
				}
			}
			walk(d.Methods)
			walk(d.Nested)
		}
	}
	walk(idx.AllDefinitions())
	return returns
}

// rustCallType resolves a call expression text like "fetch()" or
// "client::fetch(url)" to the synthesized future type of the named async fn.
func rustCallType(expr string, asyncReturns map[string]string) (string, bool) {
	open := strings.IndexByte(expr, '(')
	if open <= 0 || !strings.HasSuffix(expr, ")") {
		return "", false
	}
	ret, ok := asyncReturns[semantic.BaseTypeName(expr[:open])]
	return ret, ok
}

// rustPatternBindingType computes the type a pattern binding receives.
// "if let Some(x) = fut.await" with fut: impl Future<Output = Option<T>>
// binds x to T: the await strips the Future layer, the pattern wrapper
// strips the Option/Result layer. Direct calls to async fns fall back to
// the synthesized Future<ReturnType>.
func rustPatternBindingType(ref *semantic.Reference, pattern string, varTypes, asyncReturns map[string]string) (string, bool) {
	matched := strings.TrimSpace(ref.MatchedText)
	if matched == "" {
		return "", false
	}

	awaited := strings.HasSuffix(matched, ".await")
	name := strings.TrimSuffix(matched, ".await")

	typeText, ok := varTypes[name]
	if !ok {
		typeText, ok = rustCallType(name, asyncReturns)
	}
	if !ok {
		return "", false
	}
	if awaited {
		output, ok := FutureOutput(typeText)
		if !ok {
			return "", false
		}
		typeText = output
	}

	if inner, ok := rustUnwrapPatternLayer(pattern, typeText); ok {
		typeText = inner
	}
	name = semantic.BaseTypeName(typeText)
	if name == "" {
		return "", false
	}
	return name, true
}

// rustUnwrapPatternLayer strips one enum wrapper when the pattern and the
// type agree on it: Some(x) over Option<T> yields T, Ok(x) over Result<T, E>
// yields T, Err(e) yields E.
func rustUnwrapPatternLayer(pattern, typeText string) (string, bool) {
	pattern = strings.TrimSpace(pattern)
	wrapper := pattern
	if i := strings.IndexByte(wrapper, '('); i >= 0 {
		wrapper = wrapper[:i]
	}
	if i := strings.LastIndex(wrapper, "::"); i >= 0 {
		wrapper = wrapper[i+2:]
	}

	base, args, ok := semantic.UnwrapGeneric(strings.TrimSpace(typeText))
	if !ok || len(args) == 0 {
		return "", false
	}
	base = semantic.BaseTypeName(base)

	switch wrapper {
	case "Some":
		if base == "Option" {
			return strings.TrimSpace(args[0]), true
		}
	case "Ok":
		if base == "Result" {
			return strings.TrimSpace(args[0]), true
		}
	case "Err":
		if base == "Result" && len(args) > 1 {
			return strings.TrimSpace(args[1]), true
		}
	}
	return "", false
}

// FutureOutput extracts T from a Future<Output = T> or shorthand Future<T>
// type expression, looking through impl/dyn and Pin/Box/Arc wrappers.
func FutureOutput(typeText string) (string, bool) {
	text := strings.TrimSpace(typeText)
	for {
		text = strings.TrimPrefix(text, "impl ")
		text = strings.TrimPrefix(text, "dyn ")
		base, args, ok := semantic.UnwrapGeneric(text)
		if !ok {
			return "", false
		}
		switch semantic.BaseTypeName(base) {
		case "Pin", "Box", "Arc", "Rc":
			if len(args) == 0 {
				return "", false
			}
			text = strings.TrimSpace(args[0])
			continue
		case "Future":
			for _, arg := range args {
				if k, v, found := strings.Cut(arg, "="); found && strings.TrimSpace(k) == "Output" {
					return strings.TrimSpace(v), true
				}
			}
			// Shorthand Future<T>, as synthesized for async calls.
			if len(args) > 0 {
				if first := strings.TrimSpace(args[0]); !strings.Contains(first, "=") {
					return first, true
				}
			}
			return "", false
		default:
			return "", false
		}
	}
}

// rustTagConditionalCalls marks call and member references on a pattern's
// bindings as conditional when they sit within the pattern's window.
func rustTagConditionalCalls(idx *semantic.SemanticIndex, bindingsByPattern map[string][]string) {
	type window struct {
		startLine int
		endLine   int
		names     map[string]bool
	}
	var windows []window
	for i := range idx.References {
		ref := &idx.References[i]
		if ref.Kind != semantic.RefPatternMatch || ref.PatternLocation == nil {
			continue
		}
		names := bindingsByPattern[ref.PatternLocation.Key()]
		if len(names) == 0 {
			continue
		}
		set := make(map[string]bool, len(names))
		for _, n := range names {
			set[n] = true
		}
		windows = append(windows, window{
			startLine: ref.Location.StartLine,
			endLine:   ref.Location.StartLine + patternConditionalWindow,
			names:     set,
		})
	}
	if len(windows) == 0 {
		return
	}

	for i := range idx.References {
		ref := &idx.References[i]
		if ref.Kind != semantic.RefCall && ref.Kind != semantic.RefMemberAccess {
			continue
		}
		receiver := ""
		if len(ref.PropertyChain) > 0 {
			receiver = ref.PropertyChain[0]
		} else {
			receiver = ref.Name
		}
		for _, w := range windows {
			if ref.Location.StartLine < w.startLine || ref.Location.StartLine > w.endLine {
				continue
			}
			if w.names[receiver] {
				ref.PatternConditional = true
				break
			}
		}
	}
}
