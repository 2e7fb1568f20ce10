package resolver

import (
	"log/slog"
	"sort"

	"ariadne/internal/engine/semantic"
	"ariadne/internal/shared/observability"
)

// TypeHierarchyGraph links every named type in the project to its declared
// parents (extends) and contracts (implements), plus the inverse child
// edges. Built once after all files are analyzed; queries are read-only.
type TypeHierarchyGraph struct {
	types map[string]semantic.TypeID // key -> id

	extends    map[string][]string // child key -> parent keys
	implements map[string][]string // type key -> interface keys
	children   map[string][]string // inverse of both edge sets

	logger *slog.Logger
}

// BuildHierarchy constructs the graph from a project. Parent names resolve
// against the declaring file's own types first, then its imports, then any
// type in the project with that name. Unresolvable names are skipped.
func BuildHierarchy(p *Project, logger *slog.Logger) *TypeHierarchyGraph {
	if logger == nil {
		logger = slog.Default()
	}
	g := &TypeHierarchyGraph{
		types:      make(map[string]semantic.TypeID),
		extends:    make(map[string][]string),
		implements: make(map[string][]string),
		children:   make(map[string][]string),
		logger:     logger,
	}

	byName := make(map[string][]semantic.TypeID)
	paths := make([]string, 0, len(p.Files()))
	for fp := range p.Files() {
		paths = append(paths, fp)
	}
	sort.Strings(paths)

	for _, fp := range paths {
		fa := p.files[fp]
		if fa.Derived == nil {
			continue
		}
		for _, id := range fa.Derived.TypesByName {
			g.types[id.Key()] = id
			byName[id.Name] = append(byName[id.Name], id)
		}
	}

	for _, fp := range paths {
		fa := p.files[fp]
		if fa.Derived == nil {
			continue
		}
		for key, table := range fa.Derived.TypeMembers {
			for _, parent := range table.Extends {
				if pid, ok := g.resolveTypeName(p, fa, byName, parent); ok {
					g.addEdge(g.extends, key, pid.Key())
				}
			}
			for _, iface := range table.Implements {
				if pid, ok := g.resolveTypeName(p, fa, byName, iface); ok {
					g.addEdge(g.implements, key, pid.Key())
				}
			}
		}
	}
	return g
}

func (g *TypeHierarchyGraph) resolveTypeName(p *Project, fa *FileAnalysis, byName map[string][]semantic.TypeID, name string) (semantic.TypeID, bool) {
	name = semantic.BaseTypeName(name)
	if name == "" {
		return semantic.TypeID{}, false
	}
	if id, ok := fa.Derived.TypesByName[name]; ok {
		return id, true
	}
	// Through an import binding: the local name may alias a different
	// exported name.
	for i := range fa.Index.Imports {
		imp := &fa.Index.Imports[i]
		if imp.Name != name {
			continue
		}
		if file, exp, ok := p.ResolveImportedSymbol(fa.Index.FilePath, fa.Index.Language, imp); ok {
			target, found := p.File(file)
			if !found || target.Derived == nil {
				break
			}
			if id, ok := target.Derived.TypesByName[exp.Name]; ok {
				return id, true
			}
		}
	}
	if candidates := byName[name]; len(candidates) > 0 {
		return candidates[0], true
	}
	return semantic.TypeID{}, false
}

func (g *TypeHierarchyGraph) addEdge(m map[string][]string, from, to string) {
	for _, existing := range m[from] {
		if existing == to {
			return
		}
	}
	m[from] = append(m[from], to)
	g.children[to] = append(g.children[to], from)
}

// Size is the number of registered types.
func (g *TypeHierarchyGraph) Size() int {
	return len(g.types)
}

// Type returns the TypeID registered under a key.
func (g *TypeHierarchyGraph) Type(key string) (semantic.TypeID, bool) {
	id, ok := g.types[key]
	return id, ok
}

// Parents returns the direct extends targets of a type.
func (g *TypeHierarchyGraph) Parents(key string) []semantic.TypeID {
	return g.lookupAll(g.extends[key])
}

// Interfaces returns the direct implements targets of a type.
func (g *TypeHierarchyGraph) Interfaces(key string) []semantic.TypeID {
	return g.lookupAll(g.implements[key])
}

// Children returns the direct subtypes and implementors of a type.
func (g *TypeHierarchyGraph) Children(key string) []semantic.TypeID {
	return g.lookupAll(g.children[key])
}

func (g *TypeHierarchyGraph) lookupAll(keys []string) []semantic.TypeID {
	out := make([]semantic.TypeID, 0, len(keys))
	for _, k := range keys {
		if id, ok := g.types[k]; ok {
			out = append(out, id)
		}
	}
	return out
}

// AllAncestors walks extends and implements edges transitively, depth-first,
// parents before grandparents. A type participating in an inheritance cycle
// is reported once and the cycle edge skipped, so traversal always ends.
func (g *TypeHierarchyGraph) AllAncestors(key string) []semantic.TypeID {
	return g.closure(key, func(k string) []string {
		return append(append([]string(nil), g.extends[k]...), g.implements[k]...)
	})
}

// AllDescendants is the inverse closure: every type that transitively
// extends or implements the given one.
func (g *TypeHierarchyGraph) AllDescendants(key string) []semantic.TypeID {
	return g.closure(key, func(k string) []string {
		return g.children[k]
	})
}

func (g *TypeHierarchyGraph) closure(start string, edges func(string) []string) []semantic.TypeID {
	var out []semantic.TypeID
	seen := make(map[string]bool)
	visiting := make(map[string]bool)

	var walk func(key string)
	walk = func(key string) {
		visiting[key] = true
		for _, next := range edges(key) {
			if visiting[next] {
				observability.HierarchyCyclesTotal.Inc()
				g.logger.Warn("type hierarchy cycle detected",
					"at", key,
					"edge", next)
				continue
			}
			if seen[next] {
				continue
			}
			seen[next] = true
			if id, ok := g.types[next]; ok {
				out = append(out, id)
			}
			walk(next)
		}
		delete(visiting, key)
	}
	walk(start)
	return out
}
