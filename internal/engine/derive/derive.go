package derive

import (
	"fmt"

	"ariadne/internal/core/errors"
	"ariadne/internal/engine/semantic"
)

// Build computes the derived projections for one semantic index. The only
// error condition is a duplicate effective export name, which signals an
// upstream builder bug rather than malformed input and is therefore returned
// as a distinguishable CodeDuplicateExport error, never swallowed.
func Build(idx *semantic.SemanticIndex) (*DerivedData, error) {
	d := &DerivedData{
		FilePath:           idx.FilePath,
		ScopeToDefinitions: make(map[semantic.ScopeID]map[semantic.SymbolKind][]semantic.SymbolID),
		ExportedSymbols:    make(map[string]ExportedSymbol),
		TypeBindings:       make(map[string]string),
		TypeMembers:        make(map[string]TypeMemberTable),
		TypeAliasMetadata:  make(map[semantic.SymbolID]string),
		TypesByName:        make(map[string]semantic.TypeID),
	}

	if err := d.buildScopeAndExportTables(idx); err != nil {
		return nil, err
	}

	bindingsFromDeclarations(idx, d.TypeBindings)
	bindingsFromConstructors(idx, d.TypeBindings)
	buildTypeMembers(idx, d)
	buildAliasMetadata(idx, d.TypeAliasMetadata)

	return d, nil
}

func (d *DerivedData) buildScopeAndExportTables(idx *semantic.SemanticIndex) error {
	var walk func(defs []semantic.Definition) error
	walk = func(defs []semantic.Definition) error {
		for i := range defs {
			def := &defs[i]

			// Re-export imports create no local binding.
			if !(def.Kind == semantic.KindImport && def.IsReExport) {
				kinds := d.ScopeToDefinitions[def.ScopeID]
				if kinds == nil {
					kinds = make(map[semantic.SymbolKind][]semantic.SymbolID)
					d.ScopeToDefinitions[def.ScopeID] = kinds
				}
				kinds[def.Kind] = append(kinds[def.Kind], def.SymbolID)
			}

			// Anonymous wildcard re-exports (`export * from "./x"`) bind no
			// effective name of their own, so several per file are legal and
			// exempt from uniqueness.
			if def.Export != nil && !(def.IsReExport && def.Name == "*") {
				if err := d.registerExport(idx.FilePath, def); err != nil {
					return err
				}
			}

			for _, children := range [][]semantic.Definition{def.Methods, def.Properties, def.Members, def.Nested} {
				if err := walk(children); err != nil {
					return err
				}
			}
			if def.Constructor != nil {
				if err := walk([]semantic.Definition{*def.Constructor}); err != nil {
					return err
				}
			}
		}
		return nil
	}
	return walk(idx.AllDefinitions())
}

func (d *DerivedData) registerExport(filePath string, def *semantic.Definition) error {
	name := def.Export.EffectiveName()
	if name == "" {
		name = def.Name
	}
	if existing, ok := d.ExportedSymbols[name]; ok && existing.SymbolID != def.SymbolID {
		return errors.New(errors.CodeDuplicateExport,
			fmt.Sprintf("duplicate export name %q in %s: %s and %s", name, filePath, existing.SymbolID, def.SymbolID))
	}
	d.ExportedSymbols[name] = ExportedSymbol{
		SymbolID: def.SymbolID,
		Name:     name,
		Export:   *def.Export,
		Location: def.Location,
	}
	return nil
}
