package query

import (
	"strings"
	"unicode"

	"ariadne/internal/engine/semantic"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

const pythonQuery = `
(class_definition
  name: (identifier) @name) @def.class

(function_definition
  name: (identifier) @name) @def.function

(assignment
  left: (identifier) @name) @def.variable

(parameters
  (identifier) @def.parameter)

(parameters
  (typed_parameter
    (identifier) @def.parameter))

(parameters
  (default_parameter
    name: (identifier) @def.parameter))

(parameters
  (typed_default_parameter
    name: (identifier) @def.parameter))

(lambda_parameters
  (identifier) @def.parameter)

(import_statement) @def.import

(import_from_statement) @def.import

(decorator) @decorator

(call) @ref.call

(attribute) @ref.member

(assignment) @ref.assignment

(await) @ref.await

(typed_parameter
  type: (type (identifier) @ref.type))

(typed_default_parameter
  type: (type (identifier) @ref.type))

(function_definition
  return_type: (type (identifier) @ref.type))

(assignment
  type: (type (identifier) @ref.type))

(comment) @doc
`

func pythonProfile() *profile {
	return &profile{
		language:    "python",
		querySource: pythonQuery,
		modifiers:   pyModifiers,
		rewrite:     pyRewrite,
		enrich:      pyEnrich,
		expand:      pyExpand,
	}
}

func pyModifiers(m *match) semantic.Modifiers {
	var mods semantic.Modifiers
	node := m.node.node
	mods.IsAsync = childOfKind(node, "async") != nil
	// Python has no export keyword; module-level names without a leading
	// underscore are importable by convention.
	name := m.auxText(capName)
	if name != "" && !strings.HasPrefix(name, "_") && pyEnclosingCallable(node) == nil {
		mods.IsPublic = true
	}
	return mods
}

// pyEnclosingCallable finds the nearest wrapping function, stopping the walk
// before it leaves the file.
func pyEnclosingCallable(node *sitter.Node) *sitter.Node {
	return hasAncestor(node, "function_definition", "lambda")
}

func pyRewrite(k captureKind, m *match) captureKind {
	node := m.node.node
	switch k {
	case capDefFunction:
		if cls := hasAncestor(node, "class_definition"); cls != nil && pyMethodOf(node) == cls {
			if m.auxText(capName) == "__init__" {
				return capDefConstructor
			}
			return capDefMethod
		}
	case capDefVariable:
		name := m.auxText(capName)
		if cls := hasAncestor(node, "class_definition"); cls != nil && pyEnclosingCallable(node) == nil {
			return capDefProperty
		}
		if isUpperSnake(name) {
			return capDefConstant
		}
	case capRefCall:
		// ClassName(...) is construction by convention.
		if fn := node.ChildByFieldName("function"); fn != nil && fn.Kind() == "identifier" {
			text := nodeText(m.source, fn)
			if text != "" && unicode.IsUpper(rune(text[0])) {
				return capRefConstruct
			}
		}
	case capRefMember:
		if p := node.Parent(); p != nil {
			if p.Kind() == "attribute" {
				return capUnknown
			}
			if p.Kind() == "call" {
				if fn := p.ChildByFieldName("function"); fn != nil && fn.StartByte() == node.StartByte() && fn.EndByte() == node.EndByte() {
					return capUnknown
				}
			}
		}
	}
	return k
}

// pyMethodOf returns the class a function is a direct method of, or nil when
// another function intervenes (nested helpers are plain functions).
func pyMethodOf(fn *sitter.Node) *sitter.Node {
	for p := fn.Parent(); p != nil; p = p.Parent() {
		switch p.Kind() {
		case "class_definition":
			return p
		case "function_definition", "lambda":
			return nil
		}
	}
	return nil
}

func isUpperSnake(name string) bool {
	if name == "" {
		return false
	}
	sawLetter := false
	for _, r := range name {
		switch {
		case r >= 'A' && r <= 'Z':
			sawLetter = true
		case r >= '0' && r <= '9', r == '_':
		default:
			return false
		}
	}
	return sawLetter
}

func pyEnrich(k captureKind, m *match, c *semantic.NormalizedCapture) {
	node := m.node.node
	switch k {
	case capDefClass:
		if sc := node.ChildByFieldName("superclasses"); sc != nil {
			for i := uint(0); i < sc.ChildCount(); i++ {
				ch := sc.Child(i)
				switch ch.Kind() {
				case "identifier", "attribute":
					c.Context.Extends = append(c.Context.Extends, semantic.BaseTypeName(nodeText(m.source, ch)))
				}
			}
		}
		c.Context.Docstring = pyDocstring(m, node)
	case capDefFunction, capDefMethod, capDefConstructor:
		c.Context.ReturnType = strings.TrimSpace(nodeText(m.source, node.ChildByFieldName("return_type")))
		c.Context.Docstring = pyDocstring(m, node)
	case capDefParameter:
		if p := node.Parent(); p != nil {
			switch p.Kind() {
			case "typed_parameter", "typed_default_parameter":
				c.Context.TypeAnnotation = strings.TrimSpace(nodeText(m.source, p.ChildByFieldName("type")))
			}
		}
	case capDefVariable, capDefConstant, capDefProperty:
		if t := node.ChildByFieldName("type"); t != nil {
			c.Context.TypeAnnotation = strings.TrimSpace(nodeText(m.source, t))
		}
	case capRefCall:
		fn := node.ChildByFieldName("function")
		c.Context.CallText = nodeText(m.source, fn)
		if c.Context.CallText == "" {
			c.Context.CallText = m.node.text
		}
		c.Name = c.Context.CallText
		if fn != nil && fn.Kind() == "attribute" {
			pyApplyReceiver(m, fn, c)
		}
	case capRefConstruct:
		if fn := node.ChildByFieldName("function"); fn != nil {
			c.Name = nodeText(m.source, fn)
			loc := nodeLocation(m.filePath, fn)
			c.Context.ConstructTargetLocation = &loc
		}
	case capRefMember:
		c.Context.CallText = m.node.text
		pyApplyReceiver(m, node, c)
		if attr := node.ChildByFieldName("attribute"); attr != nil {
			c.Name = nodeText(m.source, attr)
		}
	case capRefAssignment:
		c.Context.AssignTarget = nodeText(m.source, node.ChildByFieldName("left"))
		c.Context.AssignValue = nodeText(m.source, node.ChildByFieldName("right"))
		c.Name = c.Context.AssignTarget
	case capRefAwait:
		if node.ChildCount() > 1 {
			expr := node.Child(1)
			c.Name = nodeText(m.source, expr)
			loc := nodeLocation(m.filePath, expr)
			c.Context.ReceiverLocation = &loc
			c.Context.ReceiverText = c.Name
		}
	case capDecorator:
		name := strings.TrimPrefix(m.node.text, "@")
		if i := strings.IndexByte(name, '('); i >= 0 {
			name = name[:i]
		}
		c.Name = strings.TrimSpace(name)
	}
}

func pyApplyReceiver(m *match, attr *sitter.Node, c *semantic.NormalizedCapture) {
	obj := attr.ChildByFieldName("object")
	if obj == nil {
		return
	}
	c.Context.ReceiverText = nodeText(m.source, obj)
	loc := nodeLocation(m.filePath, obj)
	c.Context.ReceiverLocation = &loc
}

// pyDocstring reads a definition body's leading string expression.
func pyDocstring(m *match, node *sitter.Node) string {
	body := node.ChildByFieldName("body")
	if body == nil || body.ChildCount() == 0 {
		return ""
	}
	first := body.Child(0)
	if first == nil || first.Kind() != "expression_statement" || first.ChildCount() == 0 {
		return ""
	}
	str := first.Child(0)
	if str == nil || str.Kind() != "string" {
		return ""
	}
	text := nodeText(m.source, str)
	text = strings.Trim(text, `rRbBuUfF`)
	for _, q := range []string{`"""`, `'''`, `"`, `'`} {
		if strings.HasPrefix(text, q) && strings.HasSuffix(text, q) && len(text) >= 2*len(q) {
			return strings.TrimSpace(text[len(q) : len(text)-len(q)])
		}
	}
	return strings.TrimSpace(text)
}

func pyExpand(k captureKind, m *match) ([]semantic.NormalizedCapture, bool) {
	if k != capDefImport {
		return nil, false
	}
	node := m.node.node
	if node.Kind() == "import_from_statement" {
		return pyExpandFromImport(m), true
	}
	return pyExpandImport(m), true
}

// pyExpandImport handles "import os" and "import numpy as np".
func pyExpandImport(m *match) []semantic.NormalizedCapture {
	node := m.node.node
	var caps []semantic.NormalizedCapture
	for i := uint(0); i < node.ChildCount(); i++ {
		ch := node.Child(i)
		switch ch.Kind() {
		case "dotted_name":
			module := nodeText(m.source, ch)
			caps = append(caps, pyImportCapture(m, ch, pyLastSegment(module), module, ""))
		case "aliased_import":
			module := nodeText(m.source, childOfKind(ch, "dotted_name"))
			alias := ""
			if id := ch.ChildByFieldName("alias"); id != nil {
				alias = nodeText(m.source, id)
			} else if id := childOfKind(ch, "identifier"); id != nil {
				alias = nodeText(m.source, id)
			}
			if alias == "" {
				alias = pyLastSegment(module)
			}
			caps = append(caps, pyImportCapture(m, ch, alias, module, ""))
		}
	}
	return caps
}

// pyExpandFromImport handles "from pkg.mod import a, b as c" and
// "from . import sibling".
func pyExpandFromImport(m *match) []semantic.NormalizedCapture {
	node := m.node.node
	module := ""
	if mn := node.ChildByFieldName("module_name"); mn != nil {
		module = nodeText(m.source, mn)
	}

	var caps []semantic.NormalizedCapture
	sawImportKw := false
	for i := uint(0); i < node.ChildCount(); i++ {
		ch := node.Child(i)
		if ch.Kind() == "import" {
			sawImportKw = true
			continue
		}
		if !sawImportKw {
			continue
		}
		switch ch.Kind() {
		case "dotted_name", "identifier":
			name := nodeText(m.source, ch)
			caps = append(caps, pyImportCapture(m, ch, name, module, name))
		case "aliased_import":
			name := nodeText(m.source, childOfKind(ch, "dotted_name"))
			alias := ""
			if id := ch.ChildByFieldName("alias"); id != nil {
				alias = nodeText(m.source, id)
			} else if id := childOfKind(ch, "identifier"); id != nil {
				alias = nodeText(m.source, id)
			}
			if alias == "" {
				alias = name
			}
			caps = append(caps, pyImportCapture(m, ch, alias, module, name))
		case "wildcard_import":
			caps = append(caps, pyImportCapture(m, ch, "*", module, "*"))
		}
	}
	return caps
}

func pyImportCapture(m *match, node *sitter.Node, localName, module, importedName string) semantic.NormalizedCapture {
	c := semantic.NormalizedCapture{
		Category: semantic.CategoryDefinition,
		Entity:   semantic.EntityImport,
		Name:     localName,
		Text:     nodeText(m.source, node),
		Location: nodeLocation(m.filePath, node),
	}
	c.Context.ImportSource = module
	c.Context.ImportedName = importedName
	return c
}

func pyLastSegment(module string) string {
	if i := strings.LastIndexByte(module, '.'); i >= 0 {
		return module[i+1:]
	}
	return module
}
