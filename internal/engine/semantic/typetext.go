package semantic

import (
	"strings"
)

// Helpers for picking apart raw type-expression text. This is deliberately
// string-pattern work with balanced-bracket scanning, not a type parser;
// deeply pathological expressions degrade to empty results.

// UnwrapGeneric splits "Base<A, B>" into its base name and argument texts.
// Returns ok=false when text carries no angle-bracket arguments.
func UnwrapGeneric(text string) (base string, args []string, ok bool) {
	text = strings.TrimSpace(text)
	open := strings.IndexByte(text, '<')
	if open <= 0 || !strings.HasSuffix(text, ">") {
		return "", nil, false
	}
	depth := 0
	for i := open; i < len(text); i++ {
		switch text[i] {
		case '<':
			depth++
		case '>':
			depth--
			if depth == 0 && i != len(text)-1 {
				// Arguments close before the end: not a plain generic.
				return "", nil, false
			}
		}
	}
	if depth != 0 {
		return "", nil, false
	}
	base = strings.TrimSpace(text[:open])
	args = SplitTopLevel(text[open+1:len(text)-1], ',')
	return base, args, true
}

// SplitTopLevel splits on sep, ignoring separators nested inside (), [], <>
// or {} pairs.
func SplitTopLevel(text string, sep byte) []string {
	var parts []string
	depth := 0
	start := 0
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '<', '(', '[', '{':
			depth++
		case '>', ')', ']', '}':
			if depth > 0 {
				depth--
			}
		case sep:
			if depth == 0 {
				parts = append(parts, strings.TrimSpace(text[start:i]))
				start = i + 1
			}
		}
	}
	if tail := strings.TrimSpace(text[start:]); tail != "" {
		parts = append(parts, tail)
	}
	return parts
}

// BaseTypeName strips generic arguments, reference/pointer sigils and
// leading path segments: "&mut Vec<T>" -> "Vec", "crate::m::Widget" ->
// "Widget".
func BaseTypeName(text string) string {
	text = strings.TrimSpace(text)
	for _, prefix := range []string{"&mut ", "&", "*const ", "*mut "} {
		text = strings.TrimPrefix(text, prefix)
	}
	if open := strings.IndexByte(text, '<'); open > 0 {
		text = text[:open]
	}
	if idx := strings.LastIndex(text, "::"); idx >= 0 {
		text = text[idx+2:]
	}
	if idx := strings.LastIndexByte(text, '.'); idx >= 0 {
		text = text[idx+1:]
	}
	return strings.TrimSpace(text)
}
