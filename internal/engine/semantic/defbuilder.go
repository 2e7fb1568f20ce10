package semantic

import (
	"sort"
)

// containerState accumulates a container definition whose children arrive
// incrementally and in no guaranteed order relative to the container itself.
type containerState struct {
	def         Definition
	methods     []Definition
	properties  []Definition
	members     []Definition
	constructor *Definition
}

// DefinitionBuilder consumes normalized captures in arbitrary arrival order
// and produces finished Definition records. Containers (class, interface,
// enum, namespace) are held as mutable accumulator states until Build;
// write-once kinds (variable, import, type alias, decorator) are stored
// directly.
type DefinitionBuilder struct {
	filePath string
	scopes   map[ScopeID]Scope
	rootID   ScopeID

	classes    []*containerState
	interfaces []*containerState
	enums      []*containerState
	namespaces []*containerState

	functions   []Definition
	variables   []Definition
	imports     []Definition
	typeAliases []Definition
	decorators  []Definition

	// Export declarations that name an already- or not-yet-seen definition
	// (export { Foo }, export default foo). Applied at Build time so arrival
	// order relative to the definition never matters.
	exportDecls []NormalizedCapture

	// Comment text keyed by the line the comment ends on; a definition
	// starting on the next line claims it. Threaded state, not ambient.
	pendingDocs map[int]string
}

func NewDefinitionBuilder(filePath string, scopes map[ScopeID]Scope, rootID ScopeID) *DefinitionBuilder {
	return &DefinitionBuilder{
		filePath:    filePath,
		scopes:      scopes,
		rootID:      rootID,
		pendingDocs: make(map[int]string),
	}
}

// Process routes one capture. Unknown (category, entity) combinations are
// deliberate no-ops so new capture kinds never break older builders.
func (b *DefinitionBuilder) Process(c NormalizedCapture) {
	switch c.Category {
	case CategoryDocumentation:
		b.pendingDocs[c.Location.EndLine] = c.Text
	case CategoryDecorator:
		b.addDecorator(c)
	case CategoryExport:
		b.exportDecls = append(b.exportDecls, c)
	case CategoryDefinition:
		b.processDefinition(c)
	}
}

func (b *DefinitionBuilder) processDefinition(c NormalizedCapture) {
	switch c.Entity {
	case EntityClass:
		b.classes = append(b.classes, b.newContainer(c, KindClass))
	case EntityInterface:
		b.interfaces = append(b.interfaces, b.newContainer(c, KindInterface))
	case EntityEnum:
		b.enums = append(b.enums, b.newContainer(c, KindEnum))
	case EntityNamespace:
		b.namespaces = append(b.namespaces, b.newContainer(c, KindNamespace))
	case EntityFunction:
		b.functions = append(b.functions, b.newDefinition(c, KindFunction))
	case EntityMethod:
		b.addMethod(c)
	case EntityConstructor:
		b.addConstructor(c)
	case EntityProperty:
		b.addProperty(c)
	case EntityEnumMember:
		b.addEnumMember(c)
	case EntityParameter:
		b.addParameter(c)
	case EntityVariable:
		b.variables = append(b.variables, b.newDefinition(c, KindVariable))
	case EntityConstant:
		def := b.newDefinition(c, KindConstant)
		def.Modifiers.IsConst = true
		b.variables = append(b.variables, def)
	case EntityImport:
		def := b.newDefinition(c, KindImport)
		def.ImportSource = c.Context.ImportSource
		def.ImportedName = c.Context.ImportedName
		def.IsReExport = c.Modifiers.IsReExport
		b.imports = append(b.imports, def)
	case EntityTypeAlias:
		def := b.newDefinition(c, KindTypeAlias)
		def.AliasedType = c.Context.AliasedType
		b.typeAliases = append(b.typeAliases, def)
	}
}

func (b *DefinitionBuilder) newDefinition(c NormalizedCapture, kind SymbolKind) Definition {
	avail, export := AvailabilityFor(c.Name, c.Modifiers, c.Context)
	doc := b.claimDoc(c.Location)
	if doc == "" {
		doc = c.Context.Docstring
	}
	return Definition{
		SymbolID:       NewSymbolID(kind, c.Location, c.Name),
		Name:           c.Name,
		Kind:           kind,
		Location:       c.Location,
		ScopeID:        b.scopeFor(c.Location),
		Availability:   avail,
		Export:         export,
		Docstring:      doc,
		TypeAnnotation: c.Context.TypeAnnotation,
		ReturnType:     c.Context.ReturnType,
		TypeParams:     c.Context.TypeParams,
		Modifiers:      c.Modifiers,
	}
}

func (b *DefinitionBuilder) newContainer(c NormalizedCapture, kind SymbolKind) *containerState {
	def := b.newDefinition(c, kind)
	def.Extends = c.Context.Extends
	def.Implements = c.Context.Implements
	return &containerState{def: def}
}

func (b *DefinitionBuilder) addDecorator(c NormalizedCapture) {
	b.decorators = append(b.decorators, b.newDefinition(c, KindDecorator))
}

// containerFor scans the known containers of the given kinds and returns the
// first whose span contains loc. Containers are scanned in registration
// order; a child capture arriving before any container is known is dropped.
func (b *DefinitionBuilder) containerFor(loc Location, pools ...[]*containerState) *containerState {
	for _, pool := range pools {
		for _, state := range pool {
			if state.def.Location.Contains(loc) {
				return state
			}
		}
	}
	return nil
}

// containerNamed finds a container by name across the given pools. Used for
// grammars that declare members outside the type's own span (Rust impl
// blocks), where location containment cannot attach them.
func (b *DefinitionBuilder) containerNamed(name string, pools ...[]*containerState) *containerState {
	if name == "" {
		return nil
	}
	for _, pool := range pools {
		for _, state := range pool {
			if state.def.Name == name {
				return state
			}
		}
	}
	return nil
}

func (b *DefinitionBuilder) addMethod(c NormalizedCapture) {
	owner := b.containerFor(c.Location, b.classes, b.interfaces, b.namespaces)
	if owner == nil {
		owner = b.containerNamed(c.Context.OwnerName, b.classes, b.interfaces, b.enums, b.namespaces)
	}
	if owner == nil {
		return
	}
	owner.methods = append(owner.methods, b.newDefinition(c, KindMethod))
}

func (b *DefinitionBuilder) addConstructor(c NormalizedCapture) {
	owner := b.containerFor(c.Location, b.classes)
	if owner == nil {
		return
	}
	ctor := b.newDefinition(c, KindConstructor)
	owner.constructor = &ctor
}

func (b *DefinitionBuilder) addProperty(c NormalizedCapture) {
	owner := b.containerFor(c.Location, b.classes, b.interfaces)
	if owner == nil {
		return
	}
	owner.properties = append(owner.properties, b.newDefinition(c, KindProperty))
}

func (b *DefinitionBuilder) addEnumMember(c NormalizedCapture) {
	owner := b.containerFor(c.Location, b.enums)
	if owner == nil {
		return
	}
	owner.members = append(owner.members, b.newDefinition(c, KindEnumMember))
}

// addParameter attaches a parameter capture to its callable. Scan priority:
// methods inside classes, class constructors, top-level functions, then
// interface method signatures. First containing span wins; no match is a
// no-op.
func (b *DefinitionBuilder) addParameter(c NormalizedCapture) {
	param := b.newDefinition(c, KindParameter)

	for _, class := range b.classes {
		for i := range class.methods {
			if class.methods[i].Location.Contains(c.Location) {
				class.methods[i].Parameters = append(class.methods[i].Parameters, param)
				return
			}
		}
	}
	for _, class := range b.classes {
		if class.constructor != nil && class.constructor.Location.Contains(c.Location) {
			class.constructor.Parameters = append(class.constructor.Parameters, param)
			return
		}
	}
	for i := range b.functions {
		if b.functions[i].Location.Contains(c.Location) {
			b.functions[i].Parameters = append(b.functions[i].Parameters, param)
			return
		}
	}
	for _, iface := range b.interfaces {
		for i := range iface.methods {
			if iface.methods[i].Location.Contains(c.Location) {
				iface.methods[i].Parameters = append(iface.methods[i].Parameters, param)
				return
			}
		}
	}
}

func (b *DefinitionBuilder) claimDoc(loc Location) string {
	if doc, ok := b.pendingDocs[loc.StartLine-1]; ok {
		delete(b.pendingDocs, loc.StartLine-1)
		return doc
	}
	return ""
}

func (b *DefinitionBuilder) scopeFor(loc Location) ScopeID {
	return innermostScope(b.scopes, b.rootID, loc)
}

// Build flattens the accumulator states into finished definitions.
// Containers materialize their children in insertion order; containers that
// never saw a child emit with empty child slices. Build never fails.
func (b *DefinitionBuilder) Build() BuiltDefinitions {
	out := BuiltDefinitions{
		Functions:   append([]Definition(nil), b.functions...),
		Variables:   append([]Definition(nil), b.variables...),
		Imports:     append([]Definition(nil), b.imports...),
		TypeAliases: append([]Definition(nil), b.typeAliases...),
		Decorators:  append([]Definition(nil), b.decorators...),
	}
	for _, state := range b.classes {
		out.Classes = append(out.Classes, finalizeContainer(state))
	}
	for _, state := range b.interfaces {
		out.Interfaces = append(out.Interfaces, finalizeContainer(state))
	}
	for _, state := range b.enums {
		out.Enums = append(out.Enums, finalizeContainer(state))
	}
	for _, state := range b.namespaces {
		out.Namespaces = append(out.Namespaces, finalizeContainer(state))
	}
	out.applyExports(b.exportDecls)
	out.nestIntoNamespaces()
	return out
}

// applyExports marks definitions named by standalone export declarations
// (export { Foo as Bar }, export default foo). Matching is by name against
// top-level definitions; a declaration that matches nothing is dropped, since
// the name may come from a grammar construct the queries do not model.
func (bd *BuiltDefinitions) applyExports(decls []NormalizedCapture) {
	pools := [][]Definition{
		bd.Functions, bd.Classes, bd.Interfaces, bd.Enums,
		bd.Namespaces, bd.Variables, bd.TypeAliases, bd.Imports,
	}
	for _, decl := range decls {
		if decl.Name == "" {
			continue
		}
		kind := ExportNamed
		if decl.Modifiers.IsDefault {
			kind = ExportDefault
		}
	match:
		for _, pool := range pools {
			for i := range pool {
				if pool[i].Name != decl.Name || pool[i].Export != nil {
					continue
				}
				pool[i].Export = &Export{
					Kind:  kind,
					Name:  decl.Name,
					Alias: decl.Context.ExportAlias,
				}
				pool[i].Availability = AvailExported
				break match
			}
		}
	}
}

func finalizeContainer(state *containerState) Definition {
	def := state.def
	def.Methods = state.methods
	def.Properties = state.properties
	def.Members = state.members
	def.Constructor = state.constructor
	return def
}

// BuiltDefinitions is the flattened output of one Build pass, grouped per
// kind in insertion order.
type BuiltDefinitions struct {
	Functions   []Definition
	Classes     []Definition
	Interfaces  []Definition
	Enums       []Definition
	Namespaces  []Definition
	Variables   []Definition
	Imports     []Definition
	TypeAliases []Definition
	Decorators  []Definition
}

// nestIntoNamespaces moves definitions that lie inside a namespace span into
// that namespace's Nested slice. The innermost namespace wins.
func (bd *BuiltDefinitions) nestIntoNamespaces() {
	if len(bd.Namespaces) == 0 {
		return
	}

	// Innermost namespace strictly containing loc; -1 when none. selfIdx
	// excludes a namespace from being its own parent.
	innermostIdx := func(loc Location, selfIdx int) int {
		found := -1
		for i := range bd.Namespaces {
			if i == selfIdx {
				continue
			}
			ns := &bd.Namespaces[i]
			if ns.Location == loc || !ns.Location.Contains(loc) {
				continue
			}
			if found == -1 || bd.Namespaces[found].Location.Contains(ns.Location) {
				found = i
			}
		}
		return found
	}

	take := func(defs []Definition) []Definition {
		var kept []Definition
		for _, def := range defs {
			if i := innermostIdx(def.Location, -1); i >= 0 {
				bd.Namespaces[i].Nested = append(bd.Namespaces[i].Nested, def)
				continue
			}
			kept = append(kept, def)
		}
		return kept
	}

	bd.Functions = take(bd.Functions)
	bd.Classes = take(bd.Classes)
	bd.Interfaces = take(bd.Interfaces)
	bd.Enums = take(bd.Enums)
	bd.Variables = take(bd.Variables)
	bd.TypeAliases = take(bd.TypeAliases)

	// Resolve namespace-in-namespace parents up front, then attach children
	// innermost-first so each subtree is complete before it is copied into
	// its parent.
	parents := make([]int, len(bd.Namespaces))
	order := make([]int, len(bd.Namespaces))
	for i := range bd.Namespaces {
		parents[i] = innermostIdx(bd.Namespaces[i].Location, i)
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		return spanLines(bd.Namespaces[order[a]].Location) < spanLines(bd.Namespaces[order[b]].Location)
	})
	for _, i := range order {
		if p := parents[i]; p >= 0 {
			bd.Namespaces[p].Nested = append(bd.Namespaces[p].Nested, bd.Namespaces[i])
		}
	}

	var roots []Definition
	for i := range bd.Namespaces {
		if parents[i] == -1 {
			roots = append(roots, bd.Namespaces[i])
		}
	}
	bd.Namespaces = roots
}

func spanLines(loc Location) int {
	return (loc.EndLine-loc.StartLine)*1000 + (loc.EndColumn - loc.StartColumn)
}
