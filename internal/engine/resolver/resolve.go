package resolver

import (
	"log/slog"

	"ariadne/internal/engine/semantic"
)

// Resolution is one successfully resolved reference: the definition it
// lands on and the file declaring it.
type Resolution struct {
	SymbolID semantic.SymbolID
	FilePath string
}

// UnresolvedReference is a usage the resolver could not bind to any
// analyzed definition. External and stdlib symbols land here; that is
// expected, not an error.
type UnresolvedReference struct {
	FilePath  string
	Reference semantic.Reference
}

// Resolver binds references to definitions across the project. It is built
// after the per-file passes and the hierarchy are complete.
type Resolver struct {
	project   *Project
	hierarchy *TypeHierarchyGraph
	logger    *slog.Logger

	// file -> scope -> name -> symbol, built lazily per file.
	scopeNames map[string]map[semantic.ScopeID]map[string]semantic.SymbolID

	// type key -> declaring file, for member lookups through the hierarchy.
	typeOwner map[string]string
}

func NewResolver(p *Project, hierarchy *TypeHierarchyGraph, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	r := &Resolver{
		project:    p,
		hierarchy:  hierarchy,
		logger:     logger,
		scopeNames: make(map[string]map[semantic.ScopeID]map[string]semantic.SymbolID),
		typeOwner:  make(map[string]string),
	}
	for fp, fa := range p.Files() {
		if fa.Derived == nil {
			continue
		}
		for key := range fa.Derived.TypeMembers {
			r.typeOwner[key] = fp
		}
	}
	return r
}

// ResolveReference binds one reference. Resolution order: the lexical scope
// chain, then the file's imports, then receiver-typed member lookup through
// the type hierarchy.
func (r *Resolver) ResolveReference(fa *FileAnalysis, ref semantic.Reference) (Resolution, bool) {
	switch ref.Kind {
	case semantic.RefCall:
		if ref.IsMethodCall {
			if res, ok := r.resolveMember(fa, ref); ok {
				return res, true
			}
		}
		return r.resolveName(fa, ref.ScopeID, ref.Name)
	case semantic.RefConstruct:
		return r.resolveConstruct(fa, ref)
	case semantic.RefMemberAccess:
		if res, ok := r.resolveMember(fa, ref); ok {
			return res, true
		}
		return r.resolveName(fa, ref.ScopeID, ref.Name)
	case semantic.RefTypeReference:
		return r.resolveTypeName(fa, ref.Name)
	case semantic.RefAwait, semantic.RefAssignment, semantic.RefIdentifier:
		return r.resolveName(fa, ref.ScopeID, ref.Name)
	}
	return Resolution{}, false
}

// resolveName walks the scope chain from the reference's scope to the root,
// then falls back to the file's import bindings.
func (r *Resolver) resolveName(fa *FileAnalysis, scopeID semantic.ScopeID, name string) (Resolution, bool) {
	if name == "" {
		return Resolution{}, false
	}
	names := r.fileScopeNames(fa)
	for id := scopeID; id != ""; {
		if sym, ok := names[id][name]; ok {
			if res, ok := r.chaseImport(fa, sym); ok {
				return res, true
			}
			return Resolution{SymbolID: sym, FilePath: fa.Index.FilePath}, true
		}
		scope, ok := fa.Index.Scopes[id]
		if !ok {
			break
		}
		id = scope.ParentID
	}
	return Resolution{}, false
}

// chaseImport follows an import binding to the exported symbol it names.
// Non-import symbols resolve to themselves via the ok=false fallthrough.
func (r *Resolver) chaseImport(fa *FileAnalysis, sym semantic.SymbolID) (Resolution, bool) {
	def, ok := fa.Index.DefinitionByID(sym)
	if !ok || def.Kind != semantic.KindImport {
		return Resolution{}, false
	}
	file, exp, ok := r.project.ResolveImportedSymbol(fa.Index.FilePath, fa.Index.Language, def)
	if !ok {
		return Resolution{}, false
	}
	return Resolution{SymbolID: exp.SymbolID, FilePath: file}, true
}

func (r *Resolver) resolveConstruct(fa *FileAnalysis, ref semantic.Reference) (Resolution, bool) {
	name := semantic.BaseTypeName(ref.Name)
	if res, ok := r.resolveTypeName(fa, name); ok {
		// Prefer the constructor symbol when the type declares one.
		if target, found := r.project.File(res.FilePath); found && target.Derived != nil {
			if id, ok := target.Derived.TypesByName[name]; ok {
				if table, ok := target.Derived.TypeMembers[id.Key()]; ok && table.Constructor != "" {
					return Resolution{SymbolID: table.Constructor, FilePath: res.FilePath}, true
				}
			}
		}
		return res, true
	}
	return r.resolveName(fa, ref.ScopeID, name)
}

func (r *Resolver) resolveTypeName(fa *FileAnalysis, name string) (Resolution, bool) {
	name = semantic.BaseTypeName(name)
	if name == "" || fa.Derived == nil {
		return Resolution{}, false
	}
	if id, ok := fa.Derived.TypesByName[name]; ok {
		if sym, ok := r.typeSymbol(fa, id); ok {
			return Resolution{SymbolID: sym, FilePath: fa.Index.FilePath}, true
		}
	}
	for i := range fa.Index.Imports {
		imp := &fa.Index.Imports[i]
		if imp.Name != name {
			continue
		}
		if file, exp, ok := r.project.ResolveImportedSymbol(fa.Index.FilePath, fa.Index.Language, imp); ok {
			return Resolution{SymbolID: exp.SymbolID, FilePath: file}, true
		}
	}
	return Resolution{}, false
}

// typeSymbol recovers the definition symbol behind a TypeID.
func (r *Resolver) typeSymbol(fa *FileAnalysis, id semantic.TypeID) (semantic.SymbolID, bool) {
	var kind semantic.SymbolKind
	switch id.Category {
	case semantic.TypeClass:
		kind = semantic.KindClass
	case semantic.TypeInterface:
		kind = semantic.KindInterface
	case semantic.TypeEnum:
		kind = semantic.KindEnum
	case semantic.TypeAlias:
		kind = semantic.KindTypeAlias
	default:
		return "", false
	}
	sym := semantic.NewSymbolID(kind, id.Location, id.Name)
	if _, ok := fa.Index.DefinitionByID(sym); ok {
		return sym, true
	}
	return "", false
}

// resolveMember resolves obj.method() style references: find the receiver's
// declared or constructed type, then look the member up on that type and its
// ancestors.
func (r *Resolver) resolveMember(fa *FileAnalysis, ref semantic.Reference) (Resolution, bool) {
	if len(ref.PropertyChain) < 2 || fa.Derived == nil {
		return Resolution{}, false
	}
	receiver := ref.PropertyChain[0]
	member := ref.PropertyChain[len(ref.PropertyChain)-1]

	typeName, ok := r.receiverTypeName(fa, ref.ScopeID, receiver)
	if !ok {
		return Resolution{}, false
	}
	return r.lookupMember(fa, typeName, member)
}

// receiverTypeName resolves a receiver identifier to its bound type name via
// the file's type bindings.
func (r *Resolver) receiverTypeName(fa *FileAnalysis, scopeID semantic.ScopeID, receiver string) (string, bool) {
	names := r.fileScopeNames(fa)
	for id := scopeID; id != ""; {
		if sym, ok := names[id][receiver]; ok {
			def, found := fa.Index.DefinitionByID(sym)
			if !found {
				return "", false
			}
			if t, ok := fa.Derived.TypeBindings[def.Location.Key()]; ok {
				return t, true
			}
			if def.TypeAnnotation != "" {
				return semantic.BaseTypeName(def.TypeAnnotation), true
			}
			return "", false
		}
		scope, ok := fa.Index.Scopes[id]
		if !ok {
			break
		}
		id = scope.ParentID
	}
	return "", false
}

// lookupMember finds a member on the named type, walking ancestors when the
// type itself does not declare it.
func (r *Resolver) lookupMember(fa *FileAnalysis, typeName, member string) (Resolution, bool) {
	id, ok := fa.Derived.TypesByName[semantic.BaseTypeName(typeName)]
	if !ok {
		// The type may live in another file reachable through an import.
		res, found := r.resolveTypeName(fa, typeName)
		if !found {
			return Resolution{}, false
		}
		owner, ok := r.project.File(res.FilePath)
		if !ok || owner.Derived == nil {
			return Resolution{}, false
		}
		id, ok = owner.Derived.TypesByName[semantic.BaseTypeName(typeName)]
		if !ok {
			return Resolution{}, false
		}
		fa = owner
	}

	if res, ok := r.memberOn(fa.Index.FilePath, id.Key(), member); ok {
		return res, true
	}
	for _, anc := range r.hierarchy.AllAncestors(id.Key()) {
		if owner, ok := r.typeOwner[anc.Key()]; ok {
			if res, ok := r.memberOn(owner, anc.Key(), member); ok {
				return res, true
			}
		}
	}
	return Resolution{}, false
}

func (r *Resolver) memberOn(filePath, typeKey, member string) (Resolution, bool) {
	fa, ok := r.project.File(filePath)
	if !ok || fa.Derived == nil {
		return Resolution{}, false
	}
	table, ok := fa.Derived.TypeMembers[typeKey]
	if !ok {
		return Resolution{}, false
	}
	if sym, ok := table.Methods[member]; ok {
		return Resolution{SymbolID: sym, FilePath: filePath}, true
	}
	if sym, ok := table.Properties[member]; ok {
		return Resolution{SymbolID: sym, FilePath: filePath}, true
	}
	if sym, ok := table.Members[member]; ok {
		return Resolution{SymbolID: sym, FilePath: filePath}, true
	}
	return Resolution{}, false
}

// fileScopeNames builds (and caches) a scope -> name -> symbol table for one
// file from its index.
func (r *Resolver) fileScopeNames(fa *FileAnalysis) map[semantic.ScopeID]map[string]semantic.SymbolID {
	fp := fa.Index.FilePath
	if table, ok := r.scopeNames[fp]; ok {
		return table
	}
	table := make(map[semantic.ScopeID]map[string]semantic.SymbolID)
	add := func(def *semantic.Definition) {
		scope := table[def.ScopeID]
		if scope == nil {
			scope = make(map[string]semantic.SymbolID)
			table[def.ScopeID] = scope
		}
		if _, exists := scope[def.Name]; !exists {
			scope[def.Name] = def.SymbolID
		}
	}
	var walk func(defs []semantic.Definition)
	walk = func(defs []semantic.Definition) {
		for i := range defs {
			d := &defs[i]
			add(d)
			walk(d.Methods)
			walk(d.Properties)
			walk(d.Members)
			walk(d.Nested)
			walk(d.Parameters)
			if d.Constructor != nil {
				add(d.Constructor)
				walk(d.Constructor.Parameters)
			}
		}
	}
	walk(fa.Index.AllDefinitions())
	r.scopeNames[fp] = table
	return table
}

// ResolveAll resolves every reference in the project, returning the
// resolutions keyed by file along with whatever could not be bound.
func (r *Resolver) ResolveAll() (map[string][]Resolution, []UnresolvedReference) {
	resolved := make(map[string][]Resolution)
	var unresolved []UnresolvedReference
	for fp, fa := range r.project.Files() {
		for _, ref := range fa.Index.References {
			if ref.Kind == semantic.RefPatternMatch || ref.Kind == semantic.RefPatternBinding {
				continue
			}
			if res, ok := r.ResolveReference(fa, ref); ok {
				resolved[fp] = append(resolved[fp], res)
				continue
			}
			unresolved = append(unresolved, UnresolvedReference{FilePath: fp, Reference: ref})
		}
	}
	return resolved, unresolved
}
