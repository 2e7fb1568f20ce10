package semantic

import (
	"strings"
)

// RustExtractors implements MetadataExtractors for the Rust grammar.
// Path-style names use "::" segments; method calls use ".".
type RustExtractors struct{}

func (RustExtractors) TypeFromAnnotation(c NormalizedCapture) string {
	t := strings.TrimSpace(c.Context.TypeAnnotation)
	t = strings.TrimPrefix(t, ":")
	t = strings.TrimPrefix(t, "->")
	return strings.TrimSpace(t)
}

func (RustExtractors) CallReceiver(c NormalizedCapture) (*Location, string, bool) {
	if c.Context.ReceiverLocation != nil {
		return c.Context.ReceiverLocation, c.Context.ReceiverText, true
	}
	return nil, "", false
}

// PropertyChain splits "self.inner.widget.run()" on dots. Path calls
// ("mod::f()") are not member chains and yield nil.
func (RustExtractors) PropertyChain(c NormalizedCapture) []string {
	text := c.Context.CallText
	if text == "" {
		text = c.Text
	}
	if idx := strings.IndexByte(text, '('); idx >= 0 {
		text = text[:idx]
	}
	if strings.Contains(text, "::") && !strings.Contains(text, ".") {
		return nil
	}
	parts := SplitTopLevel(text, '.')
	if len(parts) < 2 {
		return nil
	}
	return parts
}

func (RustExtractors) AssignmentParts(c NormalizedCapture) (string, string, bool) {
	if c.Context.AssignTarget == "" && c.Context.AssignValue == "" {
		return "", "", false
	}
	return c.Context.AssignTarget, c.Context.AssignValue, true
}

// ConstructTarget handles struct expressions ("Widget { .. }") and the
// `Type::new` convention.
func (RustExtractors) ConstructTarget(c NormalizedCapture) (*Location, string, bool) {
	name := c.Name
	if idx := strings.Index(name, "::"); idx >= 0 {
		segments := strings.Split(name, "::")
		// `Widget::new` names the type in its second-to-last segment.
		if last := segments[len(segments)-1]; last == "new" && len(segments) > 1 {
			name = segments[len(segments)-2]
		} else {
			name = segments[len(segments)-1]
		}
	}
	name = BaseTypeName(name)
	if name == "" {
		return nil, "", false
	}
	return c.Context.ConstructTargetLocation, name, true
}

// TypeArguments parses turbofish ("::<T, U>") or plain angle arguments.
func (RustExtractors) TypeArguments(c NormalizedCapture) []string {
	return parseAngleArguments(c.Context.TypeArguments)
}

func (RustExtractors) IsOptionalChain(c NormalizedCapture) bool { return false }

func (e RustExtractors) IsMethodCall(c NormalizedCapture) bool {
	return len(e.PropertyChain(c)) > 1
}

func (e RustExtractors) CallName(c NormalizedCapture) string {
	chain := e.PropertyChain(c)
	if len(chain) > 0 {
		return chain[len(chain)-1]
	}
	text := c.Context.CallText
	if text == "" {
		text = c.Name
	}
	if idx := strings.IndexByte(text, '('); idx >= 0 {
		text = text[:idx]
	}
	if idx := strings.Index(text, "::<"); idx >= 0 {
		text = text[:idx]
	}
	if idx := strings.LastIndex(text, "::"); idx >= 0 {
		text = text[idx+2:]
	}
	return strings.TrimSpace(text)
}

// ExtractorsForLanguage returns the metadata extractors for a language id.
func ExtractorsForLanguage(language string) MetadataExtractors {
	switch language {
	case "typescript", "tsx":
		return TypeScriptExtractors{}
	case "python":
		return PythonExtractors{}
	case "rust":
		return RustExtractors{}
	default:
		return JavaScriptExtractors{}
	}
}
