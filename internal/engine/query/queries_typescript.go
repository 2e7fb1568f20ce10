package query

import (
	"strings"

	"ariadne/internal/engine/semantic"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

const typescriptQuery = `
(class_declaration
  name: (type_identifier) @name) @def.class

(abstract_class_declaration
  name: (type_identifier) @name) @def.class

(function_declaration
  name: (identifier) @name) @def.function

(generator_function_declaration
  name: (identifier) @name) @def.function

(method_definition
  name: (property_identifier) @name) @def.method

(public_field_definition
  name: (property_identifier) @name) @def.property

(interface_declaration
  name: (type_identifier) @name) @def.interface

(property_signature
  name: (property_identifier) @name) @def.property

(method_signature
  name: (property_identifier) @name) @def.method

(enum_declaration
  name: (identifier) @name) @def.enum

(enum_body
  (property_identifier) @def.enum_member)

(enum_assignment
  name: (property_identifier) @def.enum_member)

(type_alias_declaration
  name: (type_identifier) @name) @def.type_alias

(internal_module
  name: (identifier) @name) @def.namespace

(variable_declarator
  name: (identifier) @name) @def.variable

(required_parameter
  pattern: (identifier) @def.parameter)

(optional_parameter
  pattern: (identifier) @def.parameter)

(import_statement) @def.import

(export_statement) @export

(decorator) @decorator

(call_expression) @ref.call

(new_expression) @ref.construct

(member_expression) @ref.member

(assignment_expression) @ref.assignment

(await_expression) @ref.await

(type_annotation
  (type_identifier) @ref.type)

(type_annotation
  (generic_type
    name: (type_identifier) @ref.type))

(comment) @doc
`

// typescriptProfile layers type-aware enrichment over the JavaScript hooks.
// Import/export expansion and modifier detection are shared; only the query
// source and enrich differ.
func typescriptProfile() *profile {
	return &profile{
		language:    "typescript",
		querySource: typescriptQuery,
		modifiers:   tsModifiers,
		rewrite:     jsRewrite,
		enrich:      tsEnrich,
		expand:      jsExpand,
	}
}

// tsxProfile is the TypeScript profile compiled against the TSX grammar; the
// node vocabulary is identical.
func tsxProfile() *profile {
	p := typescriptProfile()
	p.language = "tsx"
	return p
}

func tsModifiers(m *match) semantic.Modifiers {
	mods := jsModifiers(m)
	node := m.node.node
	if am := childOfKind(node, "accessibility_modifier"); am != nil {
		mods.IsPublic = nodeText(m.source, am) == "public"
	}
	return mods
}

func tsEnrich(k captureKind, m *match, c *semantic.NormalizedCapture) {
	jsEnrich(k, m, c)
	node := m.node.node
	switch k {
	case capDefFunction, capDefMethod, capDefConstructor:
		c.Context.ReturnType = typeAnnotationText(m, node.ChildByFieldName("return_type"))
		c.Context.TypeParams = typeParamNames(m, node)
	case capDefClass:
		c.Context.TypeParams = typeParamNames(m, node)
	case capDefInterface:
		c.Context.TypeParams = typeParamNames(m, node)
		for _, kind := range []string{"extends_type_clause", "extends_clause"} {
			if ec := childOfKind(node, kind); ec != nil {
				c.Context.Extends = append(c.Context.Extends, heritageNames(m, ec)...)
			}
		}
	case capDefVariable, capDefConstant, capDefProperty:
		c.Context.TypeAnnotation = typeAnnotationText(m, node.ChildByFieldName("type"))
	case capDefParameter:
		if p := parameterAncestor(node); p != nil {
			c.Context.TypeAnnotation = typeAnnotationText(m, p.ChildByFieldName("type"))
		}
	case capDefTypeAlias:
		c.Context.AliasedType = strings.TrimSpace(nodeText(m.source, node.ChildByFieldName("value")))
	}
}

// typeAnnotationText strips the leading colon of a type_annotation node.
func typeAnnotationText(m *match, node *sitter.Node) string {
	text := strings.TrimSpace(nodeText(m.source, node))
	return strings.TrimSpace(strings.TrimPrefix(text, ":"))
}

func typeParamNames(m *match, node *sitter.Node) []string {
	tp := node.ChildByFieldName("type_parameters")
	if tp == nil {
		return nil
	}
	var names []string
	for i := uint(0); i < tp.ChildCount(); i++ {
		ch := tp.Child(i)
		if ch.Kind() != "type_parameter" {
			continue
		}
		if name := ch.ChildByFieldName("name"); name != nil {
			names = append(names, nodeText(m.source, name))
		}
	}
	return names
}

func parameterAncestor(node *sitter.Node) *sitter.Node {
	for p := node.Parent(); p != nil; p = p.Parent() {
		switch p.Kind() {
		case "required_parameter", "optional_parameter", "parameter":
			return p
		case "formal_parameters", "parameters":
			return nil
		}
	}
	return nil
}
