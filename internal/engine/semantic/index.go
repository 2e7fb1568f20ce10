package semantic

// BuildIndex runs the definition and reference builders over one file's
// normalized captures and assembles the immutable per-file index. Captures
// may arrive in any order; building twice from the same inputs yields a
// structurally identical index.
func BuildIndex(filePath, language string, scopes map[ScopeID]Scope, rootID ScopeID, captures []NormalizedCapture) *SemanticIndex {
	if scopes == nil {
		rootID = ScopeID("s0")
		scopes = map[ScopeID]Scope{
			rootID: {ID: rootID, Kind: ScopeModule, Location: Location{FilePath: filePath, StartLine: 1, StartColumn: 1}},
		}
	}

	defs := NewDefinitionBuilder(filePath, scopes, rootID)
	refs := NewReferenceBuilder(scopes, rootID, ExtractorsForLanguage(language))

	// Capture order within one query pass is grammar node order, but the
	// builders make no cross-phase ordering assumption: docs and containers
	// are registered first, then members and plain definitions, and
	// parameters last (they attach to already-registered callables).
	for _, c := range captures {
		if stageFor(c) == stageEarly {
			defs.Process(c)
		}
	}
	for _, c := range captures {
		if stageFor(c) == stageMain {
			defs.Process(c)
		}
		refs.Process(c)
	}
	for _, c := range captures {
		if stageFor(c) == stageLate {
			defs.Process(c)
		}
	}

	built := defs.Build()
	return &SemanticIndex{
		FilePath:    filePath,
		Language:    language,
		RootScopeID: rootID,
		Scopes:      scopes,
		Functions:   built.Functions,
		Classes:     built.Classes,
		Interfaces:  built.Interfaces,
		Enums:       built.Enums,
		Namespaces:  built.Namespaces,
		Variables:   built.Variables,
		Imports:     built.Imports,
		TypeAliases: built.TypeAliases,
		Decorators:  built.Decorators,
		References:  refs.Build(),
	}
}

type buildStage int

const (
	stageEarly buildStage = iota // documentation, decorators, containers
	stageMain                   // members, functions, variables, imports, aliases
	stageLate                   // parameters
)

func stageFor(c NormalizedCapture) buildStage {
	switch c.Category {
	case CategoryDocumentation, CategoryDecorator:
		return stageEarly
	case CategoryDefinition:
		switch c.Entity {
		case EntityClass, EntityInterface, EntityEnum, EntityNamespace:
			return stageEarly
		case EntityParameter:
			return stageLate
		}
	}
	return stageMain
}
