package query

import (
	"fmt"

	"ariadne/internal/engine/semantic"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// Node kinds that open a lexical scope, per grammar. The module scope is
// always the tree root and is not listed.
var scopeNodeKinds = map[string]map[string]semantic.ScopeKind{
	"javascript": {
		"function_declaration":           semantic.ScopeFunction,
		"generator_function_declaration": semantic.ScopeFunction,
		"function_expression":            semantic.ScopeFunction,
		"arrow_function":                 semantic.ScopeFunction,
		"method_definition":              semantic.ScopeFunction,
		"class_body":                     semantic.ScopeClass,
		"statement_block":                semantic.ScopeBlock,
	},
	"python": {
		"function_definition": semantic.ScopeFunction,
		"lambda":              semantic.ScopeFunction,
		"class_definition":    semantic.ScopeClass,
	},
	"rust": {
		"function_item":      semantic.ScopeFunction,
		"closure_expression": semantic.ScopeFunction,
		"impl_item":          semantic.ScopeClass,
		"trait_item":         semantic.ScopeClass,
		"mod_item":           semantic.ScopeBlock,
		"block":              semantic.ScopeBlock,
	},
}

func init() {
	// TypeScript shares the JavaScript scope kinds plus its own wrappers.
	ts := make(map[string]semantic.ScopeKind, len(scopeNodeKinds["javascript"])+2)
	for k, v := range scopeNodeKinds["javascript"] {
		ts[k] = v
	}
	ts["internal_module"] = semantic.ScopeBlock
	ts["enum_body"] = semantic.ScopeBlock
	scopeNodeKinds["typescript"] = ts
	scopeNodeKinds["tsx"] = ts
}

// buildScopes walks the tree once and produces the file's scope tree. Scope
// ids are assigned in pre-order, so building twice yields identical ids.
func buildScopes(filePath, language string, root *sitter.Node) (map[semantic.ScopeID]semantic.Scope, semantic.ScopeID) {
	kinds := scopeNodeKinds[language]
	if kinds == nil {
		kinds = scopeNodeKinds["javascript"]
	}

	scopes := make(map[semantic.ScopeID]semantic.Scope)
	next := 0
	newID := func() semantic.ScopeID {
		id := semantic.ScopeID(fmt.Sprintf("s%d", next))
		next++
		return id
	}

	rootID := newID()
	scopes[rootID] = semantic.Scope{
		ID:       rootID,
		Kind:     semantic.ScopeModule,
		Location: nodeLocation(filePath, root),
	}

	var walk func(node *sitter.Node, parent semantic.ScopeID)
	walk = func(node *sitter.Node, parent semantic.ScopeID) {
		current := parent
		if kind, ok := kinds[node.Kind()]; ok {
			id := newID()
			scopes[id] = semantic.Scope{
				ID:       id,
				Kind:     kind,
				ParentID: parent,
				Location: nodeLocation(filePath, node),
			}
			p := scopes[parent]
			p.Children = append(p.Children, id)
			scopes[parent] = p
			current = id
		}
		for i := uint(0); i < node.ChildCount(); i++ {
			walk(node.Child(i), current)
		}
	}
	for i := uint(0); i < root.ChildCount(); i++ {
		walk(root.Child(i), rootID)
	}

	return scopes, rootID
}
