package query

import (
	"strings"

	"ariadne/internal/engine/semantic"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

const javascriptQuery = `
(class_declaration
  name: (identifier) @name) @def.class

(function_declaration
  name: (identifier) @name) @def.function

(generator_function_declaration
  name: (identifier) @name) @def.function

(method_definition
  name: (property_identifier) @name) @def.method

(field_definition
  property: (property_identifier) @name) @def.property

(variable_declarator
  name: (identifier) @name) @def.variable

(formal_parameters
  (identifier) @def.parameter)

(formal_parameters
  (assignment_pattern
    left: (identifier) @def.parameter))

(import_statement) @def.import

(export_statement) @export

(decorator) @decorator

(call_expression) @ref.call

(new_expression) @ref.construct

(member_expression) @ref.member

(assignment_expression) @ref.assignment

(await_expression) @ref.await

(comment) @doc
`

func javascriptProfile() *profile {
	return &profile{
		language:    "javascript",
		querySource: javascriptQuery,
		modifiers:   jsModifiers,
		rewrite:     jsRewrite,
		enrich:      jsEnrich,
		expand:      jsExpand,
	}
}

func jsModifiers(m *match) semantic.Modifiers {
	var mods semantic.Modifiers
	node := m.node.node
	if exp := exportAncestor(node); exp != nil {
		mods.IsExported = true
		mods.IsDefault = childOfKind(exp, "default") != nil
	}
	mods.IsConst = jsDeclaredConst(node)
	mods.IsAsync = childOfKind(node, "async") != nil
	mods.IsStatic = childOfKind(node, "static") != nil
	return mods
}

// exportAncestor finds the wrapping export statement, if any, without
// crossing another declaration boundary on the way up.
func exportAncestor(node *sitter.Node) *sitter.Node {
	for p := node.Parent(); p != nil; p = p.Parent() {
		switch p.Kind() {
		case "export_statement":
			return p
		case "statement_block", "class_body", "function_declaration", "arrow_function":
			return nil
		}
	}
	return nil
}

func jsDeclaredConst(node *sitter.Node) bool {
	p := node.Parent()
	return p != nil && p.Kind() == "lexical_declaration" && childOfKind(p, "const") != nil
}

func jsRewrite(k captureKind, m *match) captureKind {
	node := m.node.node
	switch k {
	case capDefMethod:
		if m.auxText(capName) == "constructor" {
			return capDefConstructor
		}
	case capDefVariable:
		if jsDeclaredConst(node) {
			return capDefConstant
		}
	case capRefMember:
		// Only the outermost access of a chain is a reference; the callee of
		// a call is reported through the call capture instead.
		if p := node.Parent(); p != nil {
			if p.Kind() == "member_expression" || p.Kind() == "subscript_expression" {
				return capUnknown
			}
			if p.Kind() == "call_expression" {
				if fn := p.ChildByFieldName("function"); fn != nil && fn.StartByte() == node.StartByte() && fn.EndByte() == node.EndByte() {
					return capUnknown
				}
			}
		}
	}
	return k
}

func jsEnrich(k captureKind, m *match, c *semantic.NormalizedCapture) {
	node := m.node.node
	switch k {
	case capDefClass:
		if h := childOfKind(node, "class_heritage"); h != nil {
			jsApplyHeritage(m, h, c)
		}
	case capRefCall:
		fn := node.ChildByFieldName("function")
		c.Context.CallText = nodeText(m.source, fn)
		if c.Context.CallText == "" {
			c.Context.CallText = m.node.text
		}
		c.Name = c.Context.CallText
		if fn != nil && fn.Kind() == "member_expression" {
			jsApplyReceiver(m, fn, c)
		}
		if ta := node.ChildByFieldName("type_arguments"); ta != nil {
			c.Context.TypeArguments = nodeText(m.source, ta)
		}
	case capRefConstruct:
		if ctor := node.ChildByFieldName("constructor"); ctor != nil {
			c.Name = nodeText(m.source, ctor)
			loc := nodeLocation(m.filePath, ctor)
			c.Context.ConstructTargetLocation = &loc
		}
		if ta := node.ChildByFieldName("type_arguments"); ta != nil {
			c.Context.TypeArguments = nodeText(m.source, ta)
		}
	case capRefMember:
		c.Context.CallText = m.node.text
		jsApplyReceiver(m, node, c)
		if prop := node.ChildByFieldName("property"); prop != nil {
			c.Name = nodeText(m.source, prop)
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

func jsApplyReceiver(m *match, member *sitter.Node, c *semantic.NormalizedCapture) {
	obj := member.ChildByFieldName("object")
	if obj == nil {
		return
	}
	c.Context.ReceiverText = nodeText(m.source, obj)
	loc := nodeLocation(m.filePath, obj)
	c.Context.ReceiverLocation = &loc
}

// jsApplyHeritage reads a class_heritage clause. In the JavaScript grammar
// the clause is "extends <expression>"; the TypeScript grammar nests
// extends_clause / implements_clause nodes inside instead.
func jsApplyHeritage(m *match, heritage *sitter.Node, c *semantic.NormalizedCapture) {
	sawClause := false
	for i := uint(0); i < heritage.ChildCount(); i++ {
		ch := heritage.Child(i)
		switch ch.Kind() {
		case "extends_clause":
			sawClause = true
			c.Context.Extends = append(c.Context.Extends, heritageNames(m, ch)...)
		case "implements_clause":
			sawClause = true
			c.Context.Implements = append(c.Context.Implements, heritageNames(m, ch)...)
		}
	}
	if !sawClause {
		text := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(nodeText(m.source, heritage)), "extends"))
		if text != "" {
			c.Context.Extends = append(c.Context.Extends, semantic.BaseTypeName(text))
		}
	}
}

// heritageNames collects the named types of one extends/implements clause,
// skipping keyword tokens and punctuation.
func heritageNames(m *match, clause *sitter.Node) []string {
	var names []string
	for i := uint(0); i < clause.ChildCount(); i++ {
		ch := clause.Child(i)
		switch ch.Kind() {
		case "identifier", "type_identifier", "member_expression", "nested_type_identifier", "generic_type":
			if name := semantic.BaseTypeName(nodeText(m.source, ch)); name != "" {
				names = append(names, name)
			}
		}
	}
	return names
}

func splitTypeArguments(text string) []string {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "<")
	text = strings.TrimSuffix(text, ">")
	parts := semantic.SplitTopLevel(text, ',')
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// jsExpand fans import and export statements out into per-binding captures.
func jsExpand(k captureKind, m *match) ([]semantic.NormalizedCapture, bool) {
	switch k {
	case capDefImport:
		return jsExpandImport(m), true
	case capExportStatement:
		return jsExpandExport(m), true
	}
	return nil, false
}

func jsExpandImport(m *match) []semantic.NormalizedCapture {
	node := m.node.node
	source := trimQuotes(nodeText(m.source, node.ChildByFieldName("source")))
	if source == "" {
		return nil
	}

	var caps []semantic.NormalizedCapture
	addBinding := func(bindingNode *sitter.Node, localName, importedName string) {
		if localName == "" {
			return
		}
		c := semantic.NormalizedCapture{
			Category: semantic.CategoryDefinition,
			Entity:   semantic.EntityImport,
			Name:     localName,
			Text:     nodeText(m.source, bindingNode),
			Location: nodeLocation(m.filePath, bindingNode),
		}
		c.Context.ImportSource = source
		c.Context.ImportedName = importedName
		caps = append(caps, c)
	}

	clause := childOfKind(node, "import_clause")
	if clause == nil {
		// Side-effect import: record the module with no local binding.
		c := semantic.NormalizedCapture{
			Category: semantic.CategoryDefinition,
			Entity:   semantic.EntityImport,
			Name:     source,
			Text:     m.node.text,
			Location: m.node.loc,
		}
		c.Context.ImportSource = source
		return []semantic.NormalizedCapture{c}
	}

	for i := uint(0); i < clause.ChildCount(); i++ {
		ch := clause.Child(i)
		switch ch.Kind() {
		case "identifier":
			// import Foo from "mod"
			addBinding(ch, nodeText(m.source, ch), "default")
		case "namespace_import":
			// import * as ns from "mod"
			if id := childOfKind(ch, "identifier"); id != nil {
				addBinding(ch, nodeText(m.source, id), "*")
			}
		case "named_imports":
			for j := uint(0); j < ch.ChildCount(); j++ {
				spec := ch.Child(j)
				if spec.Kind() != "import_specifier" {
					continue
				}
				name := nodeText(m.source, spec.ChildByFieldName("name"))
				local := nodeText(m.source, spec.ChildByFieldName("alias"))
				if local == "" {
					local = name
				}
				addBinding(spec, local, name)
			}
		}
	}
	return caps
}

// jsExpandExport decomposes an export_statement. Exported declarations carry
// their own definition capture (the modifiers hook sees the export wrapper),
// so only clause and re-export forms produce captures here.
func jsExpandExport(m *match) []semantic.NormalizedCapture {
	node := m.node.node
	if node.ChildByFieldName("declaration") != nil {
		return nil
	}

	source := trimQuotes(nodeText(m.source, node.ChildByFieldName("source")))
	isDefault := childOfKind(node, "default") != nil

	var caps []semantic.NormalizedCapture

	// export * from "mod"  /  export * as ns from "mod"
	if star := childOfKind(node, "*"); star != nil && source != "" {
		name := "*"
		if as := childOfKind(node, "namespace_export"); as != nil {
			if id := childOfKind(as, "identifier"); id != nil {
				name = nodeText(m.source, id)
			}
		}
		c := semantic.NormalizedCapture{
			Category:  semantic.CategoryDefinition,
			Entity:    semantic.EntityImport,
			Name:      name,
			Text:      m.node.text,
			Location:  m.node.loc,
			Modifiers: semantic.Modifiers{IsExported: true, IsReExport: true},
		}
		c.Context.ImportSource = source
		c.Context.ExportSource = source
		c.Context.ImportedName = "*"
		return []semantic.NormalizedCapture{c}
	}

	if clause := childOfKind(node, "export_clause"); clause != nil {
		for i := uint(0); i < clause.ChildCount(); i++ {
			spec := clause.Child(i)
			if spec.Kind() != "export_specifier" {
				continue
			}
			name := nodeText(m.source, spec.ChildByFieldName("name"))
			alias := nodeText(m.source, spec.ChildByFieldName("alias"))
			if name == "" {
				continue
			}
			if source != "" {
				// export { x as y } from "mod": an import binding that is
				// immediately re-exported.
				c := semantic.NormalizedCapture{
					Category:  semantic.CategoryDefinition,
					Entity:    semantic.EntityImport,
					Name:      name,
					Text:      nodeText(m.source, spec),
					Location:  nodeLocation(m.filePath, spec),
					Modifiers: semantic.Modifiers{IsExported: true, IsReExport: true},
				}
				c.Context.ImportSource = source
				c.Context.ExportSource = source
				c.Context.ImportedName = name
				c.Context.ExportAlias = alias
				caps = append(caps, c)
				continue
			}
			c := semantic.NormalizedCapture{
				Category: semantic.CategoryExport,
				Name:     name,
				Text:     nodeText(m.source, spec),
				Location: nodeLocation(m.filePath, spec),
			}
			c.Context.ExportAlias = alias
			caps = append(caps, c)
		}
		return caps
	}

	// export default <expression>: when the expression is a plain identifier
	// the named definition elsewhere in the file becomes the default export.
	if isDefault {
		if id := childOfKind(node, "identifier"); id != nil {
			c := semantic.NormalizedCapture{
				Category:  semantic.CategoryExport,
				Name:      nodeText(m.source, id),
				Text:      m.node.text,
				Location:  nodeLocation(m.filePath, id),
				Modifiers: semantic.Modifiers{IsExported: true, IsDefault: true},
			}
			return []semantic.NormalizedCapture{c}
		}
	}
	return caps
}

func trimQuotes(s string) string {
	return strings.Trim(strings.TrimSpace(s), `"'`+"`")
}
