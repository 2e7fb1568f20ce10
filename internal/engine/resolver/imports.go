package resolver

import (
	"path"
	"strings"

	"ariadne/internal/engine/derive"
	"ariadne/internal/engine/semantic"
)

// maxReExportDepth bounds re-export chain following; chains deeper than this
// are treated as unresolved rather than risking a cycle.
const maxReExportDepth = 16

var jsExtensions = []string{".ts", ".tsx", ".js", ".jsx", ".mjs", ".cjs", ".mts", ".cts"}

// ResolveImportPath maps an import source string to an analyzed file path.
// Sources that leave the analyzed set (external packages, stdlib) resolve to
// ("", false); that is the normal case, not an error.
func (p *Project) ResolveImportPath(fromFile, language, source string) (string, bool) {
	switch language {
	case "javascript", "typescript", "tsx":
		return p.resolveJSPath(fromFile, source)
	case "python":
		return p.resolvePythonPath(fromFile, source)
	case "rust":
		return p.resolveRustPath(fromFile, source)
	}
	return "", false
}

func (p *Project) resolveJSPath(fromFile, source string) (string, bool) {
	if !strings.HasPrefix(source, ".") {
		return "", false
	}
	base := path.Join(path.Dir(fromFile), source)
	for _, ext := range jsExtensions {
		if p.HasFile(base + ext) {
			return base + ext, true
		}
	}
	if p.HasFile(base) {
		return base, true
	}
	for _, ext := range jsExtensions {
		candidate := path.Join(base, "index"+ext)
		if p.HasFile(candidate) {
			return candidate, true
		}
	}
	// "./util.js" written with an explicit extension that maps to a .ts file.
	if trimmed := strings.TrimSuffix(base, path.Ext(base)); trimmed != base {
		for _, ext := range jsExtensions {
			if p.HasFile(trimmed + ext) {
				return trimmed + ext, true
			}
		}
	}
	return "", false
}

func (p *Project) resolvePythonPath(fromFile, source string) (string, bool) {
	dir := path.Dir(fromFile)

	// Relative: each leading dot beyond the first climbs one directory.
	if strings.HasPrefix(source, ".") {
		rest := strings.TrimLeft(source, ".")
		for i := 1; i < len(source)-len(rest); i++ {
			dir = path.Dir(dir)
		}
		return p.probePythonModule(dir, rest)
	}

	// Absolute: probe from every ancestor of the importing file so package
	// roots anywhere above it work.
	for d := dir; ; d = path.Dir(d) {
		if target, ok := p.probePythonModule(d, source); ok {
			return target, ok
		}
		if d == "." || d == "/" || path.Dir(d) == d {
			break
		}
	}
	return "", false
}

func (p *Project) probePythonModule(root, dotted string) (string, bool) {
	if dotted == "" {
		candidate := path.Join(root, "__init__.py")
		if p.HasFile(candidate) {
			return candidate, true
		}
		return "", false
	}
	rel := strings.ReplaceAll(dotted, ".", "/")
	if candidate := path.Join(root, rel+".py"); p.HasFile(candidate) {
		return candidate, true
	}
	if candidate := path.Join(root, rel, "__init__.py"); p.HasFile(candidate) {
		return candidate, true
	}
	return "", false
}

func (p *Project) resolveRustPath(fromFile, source string) (string, bool) {
	segments := strings.Split(source, "::")
	if len(segments) == 0 {
		return "", false
	}
	dir := path.Dir(fromFile)

	switch segments[0] {
	case "crate":
		root, ok := p.rustCrateRoot(fromFile)
		if !ok {
			return "", false
		}
		return p.probeRustModule(path.Dir(root), segments[1:])
	case "super":
		i := 0
		for i < len(segments) && segments[i] == "super" {
			dir = path.Dir(dir)
			i++
		}
		return p.probeRustModule(dir, segments[i:])
	case "self":
		return p.probeRustModule(dir, segments[1:])
	default:
		// Sibling module of the current file.
		return p.probeRustModule(dir, segments)
	}
}

// rustCrateRoot finds the analyzed lib.rs or main.rs nearest above fromFile.
func (p *Project) rustCrateRoot(fromFile string) (string, bool) {
	for d := path.Dir(fromFile); ; d = path.Dir(d) {
		for _, name := range []string{"lib.rs", "main.rs"} {
			if candidate := path.Join(d, name); p.HasFile(candidate) {
				return candidate, true
			}
		}
		if d == "." || d == "/" || path.Dir(d) == d {
			return "", false
		}
	}
}

// probeRustModule walks module segments from a directory, trying mod.rs and
// file-module layouts at each step. The trailing segment is usually an item
// name, not a module, so both the full path and the path minus the last
// segment are probed.
func (p *Project) probeRustModule(dir string, segments []string) (string, bool) {
	try := func(parts []string) (string, bool) {
		if len(parts) == 0 {
			return "", false
		}
		rel := strings.Join(parts, "/")
		if candidate := path.Join(dir, rel+".rs"); p.HasFile(candidate) {
			return candidate, true
		}
		if candidate := path.Join(dir, rel, "mod.rs"); p.HasFile(candidate) {
			return candidate, true
		}
		return "", false
	}
	if target, ok := try(segments); ok {
		return target, ok
	}
	if len(segments) > 1 {
		return try(segments[:len(segments)-1])
	}
	return "", false
}

// ResolveImportedSymbol chases an import definition to the exported symbol
// it binds, following re-export chains up to maxReExportDepth hops.
func (p *Project) ResolveImportedSymbol(fromFile, language string, imp *semantic.Definition) (string, derive.ExportedSymbol, bool) {
	name := imp.ImportedName
	if name == "" || name == "default" {
		name = imp.Name
	}
	return p.lookupExport(fromFile, language, imp.ImportSource, name, imp.ImportedName == "default", 0)
}

func (p *Project) lookupExport(fromFile, language, source, name string, wantDefault bool, depth int) (string, derive.ExportedSymbol, bool) {
	if depth > maxReExportDepth {
		return "", derive.ExportedSymbol{}, false
	}
	target, ok := p.ResolveImportPath(fromFile, language, source)
	if !ok {
		return "", derive.ExportedSymbol{}, false
	}
	fa, ok := p.File(target)
	if !ok || fa.Derived == nil {
		return "", derive.ExportedSymbol{}, false
	}

	if wantDefault {
		for _, exp := range fa.Derived.ExportedSymbols {
			if exp.Export.Kind == semantic.ExportDefault {
				return target, exp, true
			}
		}
		return "", derive.ExportedSymbol{}, false
	}

	if exp, ok := fa.Derived.ExportedSymbols[name]; ok {
		if exp.Export.Kind == semantic.ExportReExport && exp.Export.Source != "" {
			return p.lookupExport(target, fa.Index.Language, exp.Export.Source, exp.Export.Name, false, depth+1)
		}
		return target, exp, true
	}

	// Rust and Python have no export statements; pub items and public
	// module members are importable directly.
	switch fa.Index.Language {
	case "rust", "python":
		if def, ok := findPublicDefinition(fa.Index, name); ok {
			return target, derive.ExportedSymbol{
				SymbolID: def.SymbolID,
				Name:     def.Name,
				Location: def.Location,
			}, true
		}
	}

	// export * from "mod": search the named wildcard sources.
	for _, imp := range fa.Index.Imports {
		if imp.IsReExport && imp.ImportedName == "*" {
			if t, exp, ok := p.lookupExport(target, fa.Index.Language, imp.ImportSource, name, false, depth+1); ok {
				return t, exp, ok
			}
		}
	}
	return "", derive.ExportedSymbol{}, false
}

func findPublicDefinition(idx *semantic.SemanticIndex, name string) (*semantic.Definition, bool) {
	defs := idx.AllDefinitions()
	for i := range defs {
		d := &defs[i]
		if d.Name != name {
			continue
		}
		if d.Availability == semantic.AvailPublic || d.Availability == semantic.AvailExported {
			return d, true
		}
	}
	return nil, false
}
