package semantic

import (
	"fmt"
)

// Location is a source span. Lines and columns are 1-based, end-inclusive
// on the line axis and end-exclusive on the column axis, matching what the
// grammar bindings report.
type Location struct {
	FilePath    string
	StartLine   int
	StartColumn int
	EndLine     int
	EndColumn   int
}

// Key canonicalizes a location for use as a map key. Two locations are the
// same position iff their keys match.
func (l Location) Key() string {
	return fmt.Sprintf("%s:%d:%d:%d:%d", l.FilePath, l.StartLine, l.StartColumn, l.EndLine, l.EndColumn)
}

func (l Location) IsZero() bool {
	return l.FilePath == "" && l.StartLine == 0 && l.EndLine == 0
}

// Contains reports whether other lies fully inside l. Both spans must be in
// the same file. Used to re-attach nested captures to their container.
func (l Location) Contains(other Location) bool {
	if l.FilePath != other.FilePath {
		return false
	}
	if other.StartLine < l.StartLine || other.EndLine > l.EndLine {
		return false
	}
	if other.StartLine == l.StartLine && other.StartColumn < l.StartColumn {
		return false
	}
	if other.EndLine == l.EndLine && other.EndColumn > l.EndColumn {
		return false
	}
	return true
}

type SymbolKind string

const (
	KindFunction    SymbolKind = "function"
	KindClass       SymbolKind = "class"
	KindMethod      SymbolKind = "method"
	KindConstructor SymbolKind = "constructor"
	KindProperty    SymbolKind = "property"
	KindInterface   SymbolKind = "interface"
	KindEnum        SymbolKind = "enum"
	KindEnumMember  SymbolKind = "enum_member"
	KindNamespace   SymbolKind = "namespace"
	KindVariable    SymbolKind = "variable"
	KindConstant    SymbolKind = "constant"
	KindImport      SymbolKind = "import"
	KindTypeAlias   SymbolKind = "type_alias"
	KindDecorator   SymbolKind = "decorator"
	KindParameter   SymbolKind = "parameter"
)

// SymbolID identifies one definition. It is derived purely from
// (kind, location, name), so re-deriving the triple always yields the same
// id. Cross-pass identity matching relies on that.
type SymbolID string

func NewSymbolID(kind SymbolKind, loc Location, name string) SymbolID {
	return SymbolID(fmt.Sprintf("%s:%s:%s", kind, loc.Key(), name))
}

type Availability string

const (
	AvailFilePrivate Availability = "file_private"
	AvailPublic      Availability = "public"
	AvailExported    Availability = "exported"
)

type ExportKind string

const (
	ExportNamed     ExportKind = "named"
	ExportDefault   ExportKind = "default"
	ExportNamespace ExportKind = "namespace"
	ExportReExport  ExportKind = "re_export"
)

type Export struct {
	Kind   ExportKind
	Name   string
	Alias  string // effective name when set
	Source string // re-export source module, "" when unknown
}

// EffectiveName is the name the export is visible under from other files.
func (e Export) EffectiveName() string {
	if e.Alias != "" {
		return e.Alias
	}
	return e.Name
}

type ScopeID string

type ScopeKind string

const (
	ScopeModule   ScopeKind = "module"
	ScopeFunction ScopeKind = "function"
	ScopeClass    ScopeKind = "class"
	ScopeBlock    ScopeKind = "block"
)

// Scope is one node of the per-file lexical scope tree. The root (module)
// scope has an empty ParentID.
type Scope struct {
	ID       ScopeID
	Kind     ScopeKind
	ParentID ScopeID
	Location Location
	Children []ScopeID
}

// Definition is one named program entity. Container kinds (class, interface,
// enum, namespace) own their children by composition; children do not appear
// as independent top-level definitions.
type Definition struct {
	SymbolID     SymbolID
	Name         string
	Kind         SymbolKind
	Location     Location
	ScopeID      ScopeID
	Availability Availability
	Export       *Export
	Docstring    string

	// Declared type information, kept as raw annotation text.
	TypeAnnotation string
	ReturnType     string
	TypeParams     []string

	// Container payloads.
	Extends     []string
	Implements  []string
	Methods     []Definition
	Properties  []Definition
	Members     []Definition // enum members
	Nested      []Definition // namespace children
	Constructor *Definition
	Parameters  []Definition

	// Import payload.
	ImportSource string
	ImportedName string
	IsReExport   bool

	// Type alias payload: the raw aliased type expression, unparsed.
	AliasedType string

	Modifiers Modifiers
}

// IsContainer reports whether the definition owns nested children.
func (d *Definition) IsContainer() bool {
	switch d.Kind {
	case KindClass, KindInterface, KindEnum, KindNamespace:
		return true
	}
	return false
}

type ReferenceKind string

const (
	RefCall           ReferenceKind = "call"
	RefConstruct      ReferenceKind = "construct"
	RefMemberAccess   ReferenceKind = "member_access"
	RefAssignment     ReferenceKind = "assignment"
	RefTypeReference  ReferenceKind = "type_reference"
	RefIdentifier     ReferenceKind = "identifier"
	RefAwait          ReferenceKind = "await"
	RefPatternMatch   ReferenceKind = "pattern_match"
	RefPatternBinding ReferenceKind = "pattern_binding"
)

// Reference is one usage site, enriched with whatever the language's
// metadata extractors could recover.
type Reference struct {
	Name     string
	Kind     ReferenceKind
	Location Location
	ScopeID  ScopeID

	ReceiverLocation *Location
	PropertyChain    []string
	TypeArguments    []string
	IsOptionalChain  bool
	IsMethodCall     bool

	AssignTarget string
	AssignValue  string

	// For constructs: where the constructed type's name appears.
	TargetLocation *Location

	// For pattern captures: the matched expression's text and span.
	MatchedText     string
	PatternLocation *Location

	// Tagged by the Rust conditional-call pass.
	PatternConditional bool
}

type TypeCategory string

const (
	TypeClass     TypeCategory = "class"
	TypeInterface TypeCategory = "interface"
	TypeEnum      TypeCategory = "enum"
	TypeAlias     TypeCategory = "type_alias"
)

// TypeID identifies a named type by category, name, and declaring location.
// Distinct from SymbolID but derived from the same location concept.
type TypeID struct {
	Category TypeCategory
	Name     string
	Location Location
}

func (t TypeID) Key() string {
	return fmt.Sprintf("%s:%s:%s", t.Category, t.Name, t.Location.Key())
}

// SemanticIndex is the complete per-file output of the builder pipeline.
// It is built once per parse and never mutated afterwards; per-kind slices
// preserve insertion order.
type SemanticIndex struct {
	FilePath    string
	Language    string
	RootScopeID ScopeID
	Scopes      map[ScopeID]Scope

	Functions   []Definition
	Classes     []Definition
	Interfaces  []Definition
	Enums       []Definition
	Namespaces  []Definition
	Variables   []Definition
	Imports     []Definition
	TypeAliases []Definition
	Decorators  []Definition

	References []Reference
}

// AllDefinitions yields the top-level definitions in a fixed kind order,
// insertion order within each kind. Children stay inside their containers.
func (idx *SemanticIndex) AllDefinitions() []Definition {
	out := make([]Definition, 0,
		len(idx.Functions)+len(idx.Classes)+len(idx.Interfaces)+len(idx.Enums)+
			len(idx.Namespaces)+len(idx.Variables)+len(idx.Imports)+len(idx.TypeAliases)+len(idx.Decorators))
	out = append(out, idx.Functions...)
	out = append(out, idx.Classes...)
	out = append(out, idx.Interfaces...)
	out = append(out, idx.Enums...)
	out = append(out, idx.Namespaces...)
	out = append(out, idx.Variables...)
	out = append(out, idx.Imports...)
	out = append(out, idx.TypeAliases...)
	out = append(out, idx.Decorators...)
	return out
}

// DefinitionByID searches top-level definitions and container children.
func (idx *SemanticIndex) DefinitionByID(id SymbolID) (*Definition, bool) {
	for _, defs := range [][]Definition{
		idx.Functions, idx.Classes, idx.Interfaces, idx.Enums,
		idx.Namespaces, idx.Variables, idx.Imports, idx.TypeAliases, idx.Decorators,
	} {
		for i := range defs {
			if defs[i].SymbolID == id {
				return &defs[i], true
			}
			if found, ok := childByID(&defs[i], id); ok {
				return found, true
			}
		}
	}
	return nil, false
}

func childByID(def *Definition, id SymbolID) (*Definition, bool) {
	for _, children := range [][]Definition{def.Methods, def.Properties, def.Members, def.Nested} {
		for i := range children {
			if children[i].SymbolID == id {
				return &children[i], true
			}
			if found, ok := childByID(&children[i], id); ok {
				return found, true
			}
		}
	}
	if def.Constructor != nil && def.Constructor.SymbolID == id {
		return def.Constructor, true
	}
	return nil, false
}
