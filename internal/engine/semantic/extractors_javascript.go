package semantic

import (
	"strings"
)

// JavaScriptExtractors implements MetadataExtractors for the JavaScript
// grammar. The TypeScript extractors embed it and override only the
// type-annotation pieces.
type JavaScriptExtractors struct{}

func (JavaScriptExtractors) TypeFromAnnotation(c NormalizedCapture) string {
	t := strings.TrimSpace(c.Context.TypeAnnotation)
	t = strings.TrimPrefix(t, ":")
	return strings.TrimSpace(t)
}

func (JavaScriptExtractors) CallReceiver(c NormalizedCapture) (*Location, string, bool) {
	if c.Context.ReceiverLocation != nil {
		return c.Context.ReceiverLocation, c.Context.ReceiverText, true
	}
	return nil, "", false
}

func (JavaScriptExtractors) PropertyChain(c NormalizedCapture) []string {
	text := c.Context.CallText
	if text == "" {
		text = c.Text
	}
	if idx := strings.IndexByte(text, '('); idx >= 0 {
		text = text[:idx]
	}
	text = strings.ReplaceAll(text, "?.", ".")
	parts := SplitTopLevel(text, '.')
	if len(parts) < 2 {
		return nil
	}
	return parts
}

func (JavaScriptExtractors) AssignmentParts(c NormalizedCapture) (string, string, bool) {
	if c.Context.AssignTarget == "" && c.Context.AssignValue == "" {
		return "", "", false
	}
	return c.Context.AssignTarget, c.Context.AssignValue, true
}

func (JavaScriptExtractors) ConstructTarget(c NormalizedCapture) (*Location, string, bool) {
	if c.Context.ConstructTargetLocation == nil {
		return nil, BaseTypeName(c.Name), c.Name != ""
	}
	return c.Context.ConstructTargetLocation, BaseTypeName(c.Name), true
}

func (JavaScriptExtractors) TypeArguments(c NormalizedCapture) []string {
	return parseAngleArguments(c.Context.TypeArguments)
}

func (JavaScriptExtractors) IsOptionalChain(c NormalizedCapture) bool {
	text := c.Context.CallText
	if text == "" {
		text = c.Text
	}
	return strings.Contains(text, "?.")
}

func (e JavaScriptExtractors) IsMethodCall(c NormalizedCapture) bool {
	return len(e.PropertyChain(c)) > 1
}

func (e JavaScriptExtractors) CallName(c NormalizedCapture) string {
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
	return strings.TrimSpace(text)
}

// TypeScriptExtractors layers TypeScript-specific annotation handling over
// the JavaScript behavior.
type TypeScriptExtractors struct {
	JavaScriptExtractors
}

func (TypeScriptExtractors) TypeFromAnnotation(c NormalizedCapture) string {
	t := strings.TrimSpace(c.Context.TypeAnnotation)
	t = strings.TrimPrefix(t, ":")
	t = strings.TrimSpace(t)
	// Strip TS-only wrappers that don't name a runtime type.
	t = strings.TrimPrefix(t, "readonly ")
	return t
}

func parseAngleArguments(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	text = strings.TrimPrefix(text, "::") // Rust turbofish spelling
	if strings.HasPrefix(text, "<") && strings.HasSuffix(text, ">") {
		text = text[1 : len(text)-1]
	}
	return SplitTopLevel(text, ',')
}
