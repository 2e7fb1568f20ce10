package query

import (
	"ariadne/internal/engine/semantic"
)

// profile is one language's capture configuration: the query source plus
// hooks for the language-specific parts of normalization. Profiles compose
// by explicit layering — the TypeScript profile starts from the JavaScript
// one and overrides individual hooks.
type profile struct {
	language    string
	querySource string

	// modifiers derives declaration flags from the primary node's
	// surroundings (export wrappers, visibility keywords, naming rules).
	modifiers func(m *match) semantic.Modifiers

	// rewrite may reclassify a primary capture from node context, e.g. a
	// function inside a class body becomes a method.
	rewrite func(k captureKind, m *match) captureKind

	// enrich fills the language-specific context bag for one capture.
	enrich func(k captureKind, m *match, c *semantic.NormalizedCapture)

	// expand fully handles a primary kind, emitting zero or more captures
	// (imports and exports fan out to one capture per binding).
	expand func(k captureKind, m *match) ([]semantic.NormalizedCapture, bool)

	// post runs once over the whole file's captures (e.g. Rust impl-block
	// merging).
	post func(caps []semantic.NormalizedCapture) []semantic.NormalizedCapture
}

func profileForLanguage(language string) *profile {
	switch language {
	case "javascript":
		return javascriptProfile()
	case "typescript":
		return typescriptProfile()
	case "tsx":
		return tsxProfile()
	case "python":
		return pythonProfile()
	case "rust":
		return rustProfile()
	}
	return nil
}

// normalizeMatch converts one raw match into normalized captures. The
// switch over captureKind is exhaustive for all primary kinds; anything
// else is dropped, keeping forward compatibility with new tags.
func normalizeMatch(p *profile, m *match) []semantic.NormalizedCapture {
	k := m.primary
	if p.rewrite != nil {
		k = p.rewrite(k, m)
	}
	if k == capUnknown {
		return nil
	}

	if p.expand != nil {
		if caps, handled := p.expand(k, m); handled {
			return caps
		}
	}

	c := semantic.NormalizedCapture{
		Text:     m.node.text,
		Location: m.node.loc,
	}
	if name, ok := m.auxFirst(capName); ok {
		c.Name = name.text
	}

	switch k {
	case capDefClass:
		c.Category, c.Entity = semantic.CategoryDefinition, semantic.EntityClass
	case capDefFunction:
		c.Category, c.Entity = semantic.CategoryDefinition, semantic.EntityFunction
	case capDefMethod:
		c.Category, c.Entity = semantic.CategoryDefinition, semantic.EntityMethod
	case capDefConstructor:
		c.Category, c.Entity = semantic.CategoryDefinition, semantic.EntityConstructor
	case capDefProperty:
		c.Category, c.Entity = semantic.CategoryDefinition, semantic.EntityProperty
	case capDefInterface:
		c.Category, c.Entity = semantic.CategoryDefinition, semantic.EntityInterface
	case capDefEnum:
		c.Category, c.Entity = semantic.CategoryDefinition, semantic.EntityEnum
	case capDefEnumMember:
		c.Category, c.Entity = semantic.CategoryDefinition, semantic.EntityEnumMember
	case capDefNamespace:
		c.Category, c.Entity = semantic.CategoryDefinition, semantic.EntityNamespace
	case capDefVariable:
		c.Category, c.Entity = semantic.CategoryDefinition, semantic.EntityVariable
	case capDefConstant:
		c.Category, c.Entity = semantic.CategoryDefinition, semantic.EntityConstant
	case capDefImport:
		c.Category, c.Entity = semantic.CategoryDefinition, semantic.EntityImport
	case capDefTypeAlias:
		c.Category, c.Entity = semantic.CategoryDefinition, semantic.EntityTypeAlias
	case capDefParameter:
		c.Category, c.Entity = semantic.CategoryDefinition, semantic.EntityParameter
	case capRefCall:
		c.Category, c.Entity = semantic.CategoryReference, semantic.EntityCall
	case capRefConstruct:
		c.Category, c.Entity = semantic.CategoryReference, semantic.EntityConstruct
	case capRefMember:
		c.Category, c.Entity = semantic.CategoryReference, semantic.EntityMemberAccess
	case capRefAssignment:
		c.Category, c.Entity = semantic.CategoryReference, semantic.EntityAssignment
	case capRefType:
		c.Category, c.Entity = semantic.CategoryReference, semantic.EntityTypeReference
	case capRefAwait:
		c.Category, c.Entity = semantic.CategoryReference, semantic.EntityAwait
	case capRefPatternMatch:
		c.Category, c.Entity = semantic.CategoryReference, semantic.EntityPatternMatch
	case capExportStatement:
		c.Category, c.Entity = semantic.CategoryExport, semantic.EntityNone
	case capDecorator:
		c.Category, c.Entity = semantic.CategoryDecorator, semantic.EntityDecorator
	case capDoc:
		c.Category, c.Entity = semantic.CategoryDocumentation, semantic.EntityNone
	default:
		return nil
	}

	if c.Name == "" && c.Category == semantic.CategoryReference {
		c.Name = c.Text
	}
	// Parameter and enum-member patterns tag the identifier itself as the
	// primary node, with no separate @name capture.
	if c.Name == "" && (k == capDefParameter || k == capDefEnumMember) {
		c.Name = c.Text
	}
	if c.Category == semantic.CategoryDefinition {
		c.Context.Extends = m.auxTexts(capExtends)
		c.Context.Implements = m.auxTexts(capImplements)
		c.Context.TypeAnnotation = m.auxText(capType)
		c.Context.ReturnType = m.auxText(capReturnType)
	}
	if p.modifiers != nil && (c.Category == semantic.CategoryDefinition || c.Category == semantic.CategoryDecorator) {
		c.Modifiers = p.modifiers(m)
	}
	if p.enrich != nil {
		p.enrich(k, m, &c)
	}
	return []semantic.NormalizedCapture{c}
}
