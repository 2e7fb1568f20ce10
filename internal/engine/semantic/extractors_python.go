package semantic

import (
	"strings"
)

// PythonExtractors implements MetadataExtractors for the Python grammar.
type PythonExtractors struct{}

func (PythonExtractors) TypeFromAnnotation(c NormalizedCapture) string {
	t := strings.TrimSpace(c.Context.TypeAnnotation)
	t = strings.TrimPrefix(t, ":")
	t = strings.TrimPrefix(t, "->")
	return strings.TrimSpace(t)
}

func (PythonExtractors) CallReceiver(c NormalizedCapture) (*Location, string, bool) {
	if c.Context.ReceiverLocation != nil {
		return c.Context.ReceiverLocation, c.Context.ReceiverText, true
	}
	return nil, "", false
}

func (PythonExtractors) PropertyChain(c NormalizedCapture) []string {
	text := c.Context.CallText
	if text == "" {
		text = c.Text
	}
	if idx := strings.IndexByte(text, '('); idx >= 0 {
		text = text[:idx]
	}
	parts := SplitTopLevel(text, '.')
	if len(parts) < 2 {
		return nil
	}
	return parts
}

func (PythonExtractors) AssignmentParts(c NormalizedCapture) (string, string, bool) {
	if c.Context.AssignTarget == "" && c.Context.AssignValue == "" {
		return "", "", false
	}
	return c.Context.AssignTarget, c.Context.AssignValue, true
}

// ConstructTarget: Python constructions are plain calls whose callee names a
// class; the normalizer marks them when the callee resolves locally.
func (PythonExtractors) ConstructTarget(c NormalizedCapture) (*Location, string, bool) {
	name := BaseTypeName(c.Name)
	if name == "" {
		return nil, "", false
	}
	return c.Context.ConstructTargetLocation, name, true
}

// TypeArguments: subscripted generics, "List[int]" style.
func (PythonExtractors) TypeArguments(c NormalizedCapture) []string {
	text := strings.TrimSpace(c.Context.TypeArguments)
	if text == "" {
		return nil
	}
	if strings.HasPrefix(text, "[") && strings.HasSuffix(text, "]") {
		text = text[1 : len(text)-1]
	}
	return SplitTopLevel(text, ',')
}

func (PythonExtractors) IsOptionalChain(c NormalizedCapture) bool { return false }

func (e PythonExtractors) IsMethodCall(c NormalizedCapture) bool {
	return len(e.PropertyChain(c)) > 1
}

func (e PythonExtractors) CallName(c NormalizedCapture) string {
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
