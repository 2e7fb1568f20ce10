package query

import (
	"strings"

	"ariadne/internal/engine/semantic"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

const rustQuery = `
(struct_item
  name: (type_identifier) @name) @def.class

(enum_item
  name: (type_identifier) @name) @def.enum

(enum_variant
  name: (identifier) @name) @def.enum_member

(trait_item
  name: (type_identifier) @name) @def.interface

(mod_item
  name: (identifier) @name) @def.namespace

(type_item
  name: (type_identifier) @name) @def.type_alias

(function_item
  name: (identifier) @name) @def.function

(function_signature_item
  name: (identifier) @name) @def.method

(field_declaration
  name: (field_identifier) @name) @def.property

(const_item
  name: (identifier) @name) @def.constant

(static_item
  name: (identifier) @name) @def.constant

(let_declaration
  pattern: (identifier) @name) @def.variable

(parameters
  (parameter
    pattern: (identifier) @def.parameter))

(use_declaration) @def.import

(impl_item) @impl

(attribute_item) @decorator

(call_expression) @ref.call

(struct_expression) @ref.construct

(field_expression) @ref.member

(assignment_expression) @ref.assignment

(await_expression) @ref.await

(let_declaration
  type: (type_identifier) @ref.type)

(parameters
  (parameter
    type: (type_identifier) @ref.type))

(function_item
  return_type: (type_identifier) @ref.type)

(match_expression) @ref.pattern_match

(let_condition) @ref.pattern_match

(let_declaration
  pattern: [(tuple_struct_pattern) (struct_pattern) (tuple_pattern)]) @ref.pattern_match

(line_comment) @doc

(block_comment) @doc
`

func rustProfile() *profile {
	return &profile{
		language:    "rust",
		querySource: rustQuery,
		modifiers:   rustModifiers,
		rewrite:     rustRewrite,
		enrich:      rustEnrich,
		expand:      rustExpand,
		post:        rustPost,
	}
}

func rustModifiers(m *match) semantic.Modifiers {
	var mods semantic.Modifiers
	node := m.node.node
	mods.IsPublic = childOfKind(node, "visibility_modifier") != nil
	mods.IsAsync = childOfKind(node, "async") != nil
	return mods
}

func rustRewrite(k captureKind, m *match) captureKind {
	node := m.node.node
	switch k {
	case capDefFunction:
		if hasAncestor(node, "impl_item", "trait_item") != nil {
			return capDefMethod
		}
	case capRefCall:
		// Type::new(..) and Type::default(..) are construction sites.
		if fn := node.ChildByFieldName("function"); fn != nil && fn.Kind() == "scoped_identifier" {
			if name := fn.ChildByFieldName("name"); name != nil {
				switch nodeText(m.source, name) {
				case "new", "default":
					return capRefConstruct
				}
			}
		}
	case capRefMember:
		if p := node.Parent(); p != nil {
			if p.Kind() == "field_expression" || p.Kind() == "await_expression" {
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

func rustEnrich(k captureKind, m *match, c *semantic.NormalizedCapture) {
	node := m.node.node
	switch k {
	case capDefClass, capDefEnum:
		c.Context.TypeParams = rustTypeParams(m, node)
	case capDefInterface:
		c.Context.TypeParams = rustTypeParams(m, node)
		if bounds := node.ChildByFieldName("bounds"); bounds != nil {
			for i := uint(0); i < bounds.ChildCount(); i++ {
				ch := bounds.Child(i)
				switch ch.Kind() {
				case "type_identifier", "scoped_type_identifier", "generic_type":
					c.Context.Extends = append(c.Context.Extends, semantic.BaseTypeName(nodeText(m.source, ch)))
				}
			}
		}
	case capDefFunction, capDefMethod:
		c.Context.ReturnType = strings.TrimSpace(nodeText(m.source, node.ChildByFieldName("return_type")))
		c.Context.TypeParams = rustTypeParams(m, node)
		if impl := hasAncestor(node, "impl_item"); impl != nil {
			if t := impl.ChildByFieldName("type"); t != nil {
				c.Context.OwnerName = semantic.BaseTypeName(nodeText(m.source, t))
			}
		}
	case capDefTypeAlias:
		c.Context.AliasedType = strings.TrimSpace(nodeText(m.source, node.ChildByFieldName("type")))
	case capDefVariable, capDefConstant, capDefProperty:
		if t := node.ChildByFieldName("type"); t != nil {
			c.Context.TypeAnnotation = strings.TrimSpace(nodeText(m.source, t))
		}
	case capDefParameter:
		if p := node.Parent(); p != nil && p.Kind() == "parameter" {
			c.Context.TypeAnnotation = strings.TrimSpace(nodeText(m.source, p.ChildByFieldName("type")))
		}
	case capRefCall:
		fn := node.ChildByFieldName("function")
		c.Context.CallText = nodeText(m.source, fn)
		if c.Context.CallText == "" {
			c.Context.CallText = m.node.text
		}
		c.Name = c.Context.CallText
		if fn != nil && fn.Kind() == "field_expression" {
			rustApplyReceiver(m, fn, c)
		}
		if fn != nil && fn.Kind() == "generic_function" {
			c.Context.CallText = nodeText(m.source, fn.ChildByFieldName("function"))
			c.Name = c.Context.CallText
			c.Context.TypeArguments = nodeText(m.source, fn.ChildByFieldName("type_arguments"))
		}
	case capRefConstruct:
		switch node.Kind() {
		case "struct_expression":
			if name := node.ChildByFieldName("name"); name != nil {
				c.Name = semantic.BaseTypeName(nodeText(m.source, name))
				loc := nodeLocation(m.filePath, name)
				c.Context.ConstructTargetLocation = &loc
				c.Context.CallText = nodeText(m.source, name)
			}
		case "call_expression":
			if fn := node.ChildByFieldName("function"); fn != nil {
				c.Context.CallText = nodeText(m.source, fn)
				c.Name = c.Context.CallText
				loc := nodeLocation(m.filePath, fn)
				c.Context.ConstructTargetLocation = &loc
			}
		}
	case capRefMember:
		c.Context.CallText = m.node.text
		rustApplyReceiver(m, node, c)
		if f := node.ChildByFieldName("field"); f != nil {
			c.Name = nodeText(m.source, f)
		}
	case capRefAssignment:
		c.Context.AssignTarget = nodeText(m.source, node.ChildByFieldName("left"))
		c.Context.AssignValue = nodeText(m.source, node.ChildByFieldName("right"))
		c.Name = c.Context.AssignTarget
	case capRefAwait:
		// expr.await: the awaited expression is the first child.
		if node.ChildCount() > 0 {
			expr := node.Child(0)
			c.Name = nodeText(m.source, expr)
			loc := nodeLocation(m.filePath, expr)
			c.Context.ReceiverLocation = &loc
			c.Context.ReceiverText = c.Name
		}
	case capDecorator:
		name := strings.TrimSpace(m.node.text)
		name = strings.TrimPrefix(name, "#[")
		name = strings.TrimSuffix(name, "]")
		if i := strings.IndexByte(name, '('); i >= 0 {
			name = name[:i]
		}
		c.Name = strings.TrimSpace(name)
	}
}

func rustApplyReceiver(m *match, field *sitter.Node, c *semantic.NormalizedCapture) {
	val := field.ChildByFieldName("value")
	if val == nil {
		return
	}
	c.Context.ReceiverText = nodeText(m.source, val)
	loc := nodeLocation(m.filePath, val)
	c.Context.ReceiverLocation = &loc
}

func rustTypeParams(m *match, node *sitter.Node) []string {
	tp := node.ChildByFieldName("type_parameters")
	if tp == nil {
		return nil
	}
	var names []string
	for i := uint(0); i < tp.ChildCount(); i++ {
		ch := tp.Child(i)
		switch ch.Kind() {
		case "type_identifier":
			names = append(names, nodeText(m.source, ch))
		case "constrained_type_parameter", "optional_type_parameter":
			if left := ch.ChildByFieldName("left"); left != nil {
				names = append(names, nodeText(m.source, left))
			} else if id := childOfKind(ch, "type_identifier"); id != nil {
				names = append(names, nodeText(m.source, id))
			}
		}
	}
	return names
}

func rustExpand(k captureKind, m *match) ([]semantic.NormalizedCapture, bool) {
	switch k {
	case capDefImport:
		return rustExpandUse(m), true
	case capImplBlock:
		return rustExpandImpl(m), true
	case capRefPatternMatch:
		return rustExpandPattern(m), true
	}
	return nil, false
}

// rustExpandImpl emits one marker per "impl Trait for Type" block; rustPost
// folds the markers into the type's definition capture. Inherent impls need
// no marker, their methods attach through OwnerName.
func rustExpandImpl(m *match) []semantic.NormalizedCapture {
	node := m.node.node
	trait := node.ChildByFieldName("trait")
	typ := node.ChildByFieldName("type")
	if trait == nil || typ == nil {
		return nil
	}
	c := semantic.NormalizedCapture{
		Category: semantic.CategoryDefinition,
		Entity:   semantic.EntityNone,
		Name:     semantic.BaseTypeName(nodeText(m.source, typ)),
		Text:     nodeText(m.source, trait),
		Location: nodeLocation(m.filePath, trait),
	}
	c.Context.Implements = []string{semantic.BaseTypeName(nodeText(m.source, trait))}
	return []semantic.NormalizedCapture{c}
}

// rustPost folds impl-block markers into the struct/enum captures they name
// and drops the markers.
func rustPost(caps []semantic.NormalizedCapture) []semantic.NormalizedCapture {
	impls := make(map[string][]string)
	kept := caps[:0]
	for _, c := range caps {
		if c.Category == semantic.CategoryDefinition && c.Entity == semantic.EntityNone && len(c.Context.Implements) > 0 {
			impls[c.Name] = append(impls[c.Name], c.Context.Implements...)
			continue
		}
		kept = append(kept, c)
	}
	if len(impls) == 0 {
		return kept
	}
	for i := range kept {
		c := &kept[i]
		if c.Category != semantic.CategoryDefinition {
			continue
		}
		if c.Entity != semantic.EntityClass && c.Entity != semantic.EntityEnum {
			continue
		}
		for _, trait := range impls[c.Name] {
			if !containsString(c.Context.Implements, trait) {
				c.Context.Implements = append(c.Context.Implements, trait)
			}
		}
	}
	return kept
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// rustExpandPattern emits one pattern-match reference per destructuring site,
// plus one pattern-binding reference per identifier the pattern introduces.
func rustExpandPattern(m *match) []semantic.NormalizedCapture {
	node := m.node.node
	switch node.Kind() {
	case "match_expression":
		return rustExpandMatchExpr(m, node)
	case "let_condition", "let_declaration":
		pattern := node.ChildByFieldName("pattern")
		value := node.ChildByFieldName("value")
		return rustPatternCaptures(m, pattern, value)
	}
	return nil
}

func rustExpandMatchExpr(m *match, node *sitter.Node) []semantic.NormalizedCapture {
	value := node.ChildByFieldName("value")
	body := node.ChildByFieldName("body")
	if body == nil {
		return nil
	}
	var caps []semantic.NormalizedCapture
	for i := uint(0); i < body.ChildCount(); i++ {
		arm := body.Child(i)
		if arm.Kind() != "match_arm" {
			continue
		}
		caps = append(caps, rustPatternCaptures(m, arm.ChildByFieldName("pattern"), value)...)
	}
	return caps
}

func rustPatternCaptures(m *match, pattern, value *sitter.Node) []semantic.NormalizedCapture {
	if pattern == nil {
		return nil
	}
	patLoc := nodeLocation(m.filePath, pattern)
	matched := strings.TrimSpace(nodeText(m.source, value))

	c := semantic.NormalizedCapture{
		Category: semantic.CategoryReference,
		Entity:   semantic.EntityPatternMatch,
		Name:     strings.TrimSpace(nodeText(m.source, pattern)),
		Text:     nodeText(m.source, pattern),
		Location: patLoc,
	}
	c.Context.MatchedText = matched
	c.Context.PatternLocation = &patLoc

	caps := []semantic.NormalizedCapture{c}
	for _, id := range patternIdentifiers(pattern) {
		b := semantic.NormalizedCapture{
			Category: semantic.CategoryReference,
			Entity:   semantic.EntityPatternBinding,
			Name:     nodeText(m.source, id),
			Text:     nodeText(m.source, id),
			Location: nodeLocation(m.filePath, id),
		}
		b.Context.MatchedText = matched
		b.Context.PatternLocation = &patLoc
		caps = append(caps, b)
	}
	return caps
}

// patternIdentifiers collects the binding identifiers a pattern introduces.
// Type names inside the pattern (Some, Widget) are type_identifier nodes and
// are skipped.
func patternIdentifiers(pattern *sitter.Node) []*sitter.Node {
	var ids []*sitter.Node
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if n == nil {
			return
		}
		if n.Kind() == "identifier" {
			ids = append(ids, n)
			return
		}
		for i := uint(0); i < n.ChildCount(); i++ {
			walk(n.Child(i))
		}
	}
	walk(pattern)
	return ids
}

// rustExpandUse flattens a use declaration into one import capture per bound
// name, handling nested lists, aliases, and wildcards.
func rustExpandUse(m *match) []semantic.NormalizedCapture {
	node := m.node.node
	arg := node.ChildByFieldName("argument")
	if arg == nil {
		return nil
	}
	var caps []semantic.NormalizedCapture
	rustWalkUseTree(m, arg, "", &caps)
	return caps
}

func rustWalkUseTree(m *match, node *sitter.Node, prefix string, caps *[]semantic.NormalizedCapture) {
	join := func(a, b string) string {
		if a == "" {
			return b
		}
		return a + "::" + b
	}
	switch node.Kind() {
	case "identifier", "self", "crate", "super":
		full := join(prefix, nodeText(m.source, node))
		*caps = append(*caps, rustUseCapture(m, node, full))
	case "scoped_identifier":
		full := join(prefix, nodeText(m.source, node))
		*caps = append(*caps, rustUseCapture(m, node, full))
	case "use_as_clause":
		path := node.ChildByFieldName("path")
		alias := node.ChildByFieldName("alias")
		full := join(prefix, nodeText(m.source, path))
		c := rustUseCapture(m, node, full)
		if alias != nil {
			c.Name = nodeText(m.source, alias)
		}
		*caps = append(*caps, c)
	case "use_wildcard":
		path := ""
		for i := uint(0); i < node.ChildCount(); i++ {
			ch := node.Child(i)
			if ch.Kind() != "*" && ch.Kind() != "::" {
				path = nodeText(m.source, ch)
			}
		}
		full := join(prefix, path)
		c := semantic.NormalizedCapture{
			Category: semantic.CategoryDefinition,
			Entity:   semantic.EntityImport,
			Name:     "*",
			Text:     nodeText(m.source, node),
			Location: nodeLocation(m.filePath, node),
		}
		c.Context.ImportSource = full
		c.Context.ImportedName = "*"
		*caps = append(*caps, c)
	case "scoped_use_list":
		path := node.ChildByFieldName("path")
		list := node.ChildByFieldName("list")
		next := join(prefix, nodeText(m.source, path))
		if list != nil {
			rustWalkUseTree(m, list, next, caps)
		}
	case "use_list":
		for i := uint(0); i < node.ChildCount(); i++ {
			ch := node.Child(i)
			switch ch.Kind() {
			case ",", "{", "}":
				continue
			}
			rustWalkUseTree(m, ch, prefix, caps)
		}
	}
}

// rustUseCapture builds an import capture from a full "::"-separated path;
// the final segment is the bound name, the rest the source module.
func rustUseCapture(m *match, node *sitter.Node, fullPath string) semantic.NormalizedCapture {
	name := fullPath
	source := ""
	if i := strings.LastIndex(fullPath, "::"); i >= 0 {
		name = fullPath[i+2:]
		source = fullPath[:i]
	}
	c := semantic.NormalizedCapture{
		Category: semantic.CategoryDefinition,
		Entity:   semantic.EntityImport,
		Name:     name,
		Text:     nodeText(m.source, node),
		Location: nodeLocation(m.filePath, node),
	}
	c.Context.ImportSource = source
	c.Context.ImportedName = name
	return c
}
