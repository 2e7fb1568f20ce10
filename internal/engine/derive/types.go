package derive

import (
	"ariadne/internal/engine/semantic"
)

// ExportedSymbol is one entry of a file's export namespace, keyed by its
// effective export name.
type ExportedSymbol struct {
	SymbolID semantic.SymbolID
	Name     string
	Export   semantic.Export
	Location semantic.Location
}

// TypeMemberTable lists the members of one named type. Constructor is empty
// when the type declares none; enums carry their variants in Members and
// leave Methods/Properties empty.
type TypeMemberTable struct {
	Methods     map[string]semantic.SymbolID
	Properties  map[string]semantic.SymbolID
	Members     map[string]semantic.SymbolID
	Constructor semantic.SymbolID
	Extends     []string
	Implements  []string
}

// DerivedData holds the fast-lookup projections computed from one
// SemanticIndex. Like the index it is immutable once built.
type DerivedData struct {
	FilePath string

	// (scope, kind) -> symbol ids in insertion order.
	ScopeToDefinitions map[semantic.ScopeID]map[semantic.SymbolKind][]semantic.SymbolID

	// Effective export name -> symbol. Duplicate names are a hard error.
	ExportedSymbols map[string]ExportedSymbol

	// Location key -> type name, merged from declarations and constructor
	// calls (constructor bindings win on collision).
	TypeBindings map[string]string

	// TypeID key -> member table.
	TypeMembers map[string]TypeMemberTable

	// Type alias symbol -> raw aliased type expression.
	TypeAliasMetadata map[semantic.SymbolID]string

	// Local named types, for cross-file hierarchy construction.
	TypesByName map[string]semantic.TypeID
}
