package derive

import (
	"ariadne/internal/engine/semantic"
)

// Type preprocessing: four independent, purely syntactic extraction passes
// over a semantic index. No inference happens here; only annotation and
// declaration text is consulted.

// bindingsFromDeclarations records location -> type name for every
// definition carrying a type or return-type annotation.
func bindingsFromDeclarations(idx *semantic.SemanticIndex, out map[string]string) {
	record := func(def *semantic.Definition) {
		annotation := def.TypeAnnotation
		if annotation == "" {
			annotation = def.ReturnType
		}
		if annotation == "" {
			return
		}
		if name := semantic.BaseTypeName(annotation); name != "" {
			out[def.Location.Key()] = name
		}
	}

	var walk func(defs []semantic.Definition)
	walk = func(defs []semantic.Definition) {
		for i := range defs {
			record(&defs[i])
			walk(defs[i].Methods)
			walk(defs[i].Properties)
			walk(defs[i].Parameters)
			walk(defs[i].Nested)
		}
	}
	walk(idx.Variables)
	walk(idx.Functions)
	walk(idx.Classes)
	walk(idx.Interfaces)
	walk(idx.Namespaces)
}

// bindingsFromConstructors records location -> constructed type name for
// every construct reference with a resolvable target. Applied after the
// declaration pass, so constructor bindings win on location collision.
func bindingsFromConstructors(idx *semantic.SemanticIndex, out map[string]string) {
	for i := range idx.References {
		ref := &idx.References[i]
		if ref.Kind != semantic.RefConstruct || ref.Name == "" {
			continue
		}
		out[ref.Location.Key()] = semantic.BaseTypeName(ref.Name)
	}
}

// buildTypeMembers produces the member table for every class, interface and
// enum, and records each named type for hierarchy construction.
func buildTypeMembers(idx *semantic.SemanticIndex, d *DerivedData) {
	addType := func(def *semantic.Definition, category semantic.TypeCategory) {
		id := semantic.TypeID{Category: category, Name: def.Name, Location: def.Location}
		d.TypesByName[def.Name] = id

		table := TypeMemberTable{
			Methods:    make(map[string]semantic.SymbolID),
			Properties: make(map[string]semantic.SymbolID),
			Members:    make(map[string]semantic.SymbolID),
			Extends:    append([]string(nil), def.Extends...),
			Implements: append([]string(nil), def.Implements...),
		}
		for i := range def.Methods {
			table.Methods[def.Methods[i].Name] = def.Methods[i].SymbolID
		}
		for i := range def.Properties {
			table.Properties[def.Properties[i].Name] = def.Properties[i].SymbolID
		}
		for i := range def.Members {
			table.Members[def.Members[i].Name] = def.Members[i].SymbolID
		}
		if def.Constructor != nil {
			table.Constructor = def.Constructor.SymbolID
		}
		d.TypeMembers[id.Key()] = table
	}

	var walkNested func(defs []semantic.Definition)
	walkNested = func(defs []semantic.Definition) {
		for i := range defs {
			def := &defs[i]
			switch def.Kind {
			case semantic.KindClass:
				addType(def, semantic.TypeClass)
			case semantic.KindInterface:
				addType(def, semantic.TypeInterface)
			case semantic.KindEnum:
				addType(def, semantic.TypeEnum)
			}
			walkNested(def.Nested)
		}
	}

	walkNested(idx.Classes)
	walkNested(idx.Interfaces)
	walkNested(idx.Enums)
	walkNested(idx.Namespaces)

	for i := range idx.TypeAliases {
		def := &idx.TypeAliases[i]
		d.TypesByName[def.Name] = semantic.TypeID{Category: semantic.TypeAlias, Name: def.Name, Location: def.Location}
	}
}

// buildAliasMetadata records the raw, unparsed aliased type expression per
// type-alias symbol. No structural decomposition happens at this layer.
func buildAliasMetadata(idx *semantic.SemanticIndex, out map[semantic.SymbolID]string) {
	for i := range idx.TypeAliases {
		def := &idx.TypeAliases[i]
		if def.AliasedType == "" {
			continue
		}
		out[def.SymbolID] = def.AliasedType
	}
}
