package query

import (
	"strings"

	"ariadne/internal/engine/semantic"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// captureKind is the closed set of capture tags the query files may use.
// normalizeMatch switches exhaustively over it; query files using a tag
// outside this set produce capUnknown matches, which are dropped.
type captureKind int

const (
	capUnknown captureKind = iota

	capDefClass
	capDefFunction
	capDefMethod
	capDefConstructor
	capDefProperty
	capDefInterface
	capDefEnum
	capDefEnumMember
	capDefNamespace
	capDefVariable
	capDefConstant
	capDefImport
	capDefTypeAlias
	capDefParameter

	capRefCall
	capRefConstruct
	capRefMember
	capRefAssignment
	capRefType
	capRefAwait
	capRefPatternMatch

	capExportStatement
	capDecorator
	capDoc
	capImplBlock

	// Auxiliary captures, attached to a primary within the same match.
	capName
	capExtends
	capImplements
	capSource
	capAlias
	capValue
	capType
	capReturnType
	capReceiver
	capOwner
)

var tagKinds = map[string]captureKind{
	"def.class":         capDefClass,
	"def.function":      capDefFunction,
	"def.method":        capDefMethod,
	"def.constructor":   capDefConstructor,
	"def.property":      capDefProperty,
	"def.interface":     capDefInterface,
	"def.enum":          capDefEnum,
	"def.enum_member":   capDefEnumMember,
	"def.namespace":     capDefNamespace,
	"def.variable":      capDefVariable,
	"def.constant":      capDefConstant,
	"def.import":        capDefImport,
	"def.type_alias":    capDefTypeAlias,
	"def.parameter":     capDefParameter,
	"ref.call":          capRefCall,
	"ref.construct":     capRefConstruct,
	"ref.member":        capRefMember,
	"ref.assignment":    capRefAssignment,
	"ref.type":          capRefType,
	"ref.await":         capRefAwait,
	"ref.pattern_match": capRefPatternMatch,
	"export":            capExportStatement,
	"decorator":         capDecorator,
	"doc":               capDoc,
	"impl":              capImplBlock,
	"name":              capName,
	"extends":           capExtends,
	"implements":        capImplements,
	"source":            capSource,
	"alias":             capAlias,
	"value":             capValue,
	"type":              capType,
	"return_type":       capReturnType,
	"receiver":          capReceiver,
	"owner":             capOwner,
}

func isPrimary(k captureKind) bool {
	return k > capUnknown && k < capName
}

// capNode is one captured node with its text and span materialized.
type capNode struct {
	node *sitter.Node
	text string
	loc  semantic.Location
}

// match groups one query match: its primary capture plus auxiliary captures
// keyed by kind.
type match struct {
	filePath string
	source   []byte
	primary  captureKind
	node     capNode
	aux      map[captureKind][]capNode
}

func (m *match) auxFirst(k captureKind) (capNode, bool) {
	nodes := m.aux[k]
	if len(nodes) == 0 {
		return capNode{}, false
	}
	return nodes[0], true
}

func (m *match) auxText(k captureKind) string {
	if n, ok := m.auxFirst(k); ok {
		return n.text
	}
	return ""
}

func (m *match) auxTexts(k captureKind) []string {
	nodes := m.aux[k]
	out := make([]string, 0, len(nodes))
	for _, n := range nodes {
		if t := strings.TrimSpace(n.text); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// newMatch materializes a raw query match. Matches without a primary
// capture are dropped (nil return).
func newMatch(filePath string, source []byte, qm *sitter.QueryMatch, names []string) *match {
	m := &match{
		filePath: filePath,
		source:   source,
		aux:      make(map[captureKind][]capNode),
	}
	found := false
	for i := range qm.Captures {
		capture := &qm.Captures[i]
		kind := tagKinds[names[capture.Index]]
		if kind == capUnknown {
			continue
		}
		cn := capNode{
			node: &capture.Node,
			text: string(source[capture.Node.StartByte():capture.Node.EndByte()]),
			loc:  nodeLocation(filePath, &capture.Node),
		}
		if isPrimary(kind) {
			// One primary per pattern; first wins if a query misuses tags.
			if !found {
				m.primary = kind
				m.node = cn
				found = true
			}
			continue
		}
		m.aux[kind] = append(m.aux[kind], cn)
	}
	if !found {
		return nil
	}
	return m
}

func nodeLocation(filePath string, node *sitter.Node) semantic.Location {
	start := node.StartPosition()
	end := node.EndPosition()
	return semantic.Location{
		FilePath:    filePath,
		StartLine:   int(start.Row) + 1,
		StartColumn: int(start.Column) + 1,
		EndLine:     int(end.Row) + 1,
		EndColumn:   int(end.Column) + 1,
	}
}

func nodeText(source []byte, node *sitter.Node) string {
	if node == nil {
		return ""
	}
	return string(source[node.StartByte():node.EndByte()])
}

// hasAncestor walks up from node looking for any of the given kinds,
// stopping at the tree root.
func hasAncestor(node *sitter.Node, kinds ...string) *sitter.Node {
	for p := node.Parent(); p != nil; p = p.Parent() {
		for _, k := range kinds {
			if p.Kind() == k {
				return p
			}
		}
	}
	return nil
}

// childOfKind returns the first direct child with the given kind.
func childOfKind(node *sitter.Node, kind string) *sitter.Node {
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child.Kind() == kind {
			return child
		}
	}
	return nil
}
