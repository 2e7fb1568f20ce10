package semantic

// Category classifies what a capture announces about its node.
type Category int

const (
	CategoryDefinition Category = iota
	CategoryReference
	CategoryExport
	CategoryDecorator
	CategoryDocumentation
)

func (c Category) String() string {
	switch c {
	case CategoryDefinition:
		return "definition"
	case CategoryReference:
		return "reference"
	case CategoryExport:
		return "export"
	case CategoryDecorator:
		return "decorator"
	case CategoryDocumentation:
		return "documentation"
	}
	return "unknown"
}

// Entity is the program-entity kind a capture refers to. Definition
// categories use the declaration entities; reference categories use the
// usage entities.
type Entity int

const (
	EntityNone Entity = iota

	// Declarations.
	EntityClass
	EntityFunction
	EntityMethod
	EntityConstructor
	EntityProperty
	EntityInterface
	EntityEnum
	EntityEnumMember
	EntityNamespace
	EntityVariable
	EntityConstant
	EntityImport
	EntityTypeAlias
	EntityParameter
	EntityDecorator

	// Usage sites.
	EntityCall
	EntityConstruct
	EntityMemberAccess
	EntityAssignment
	EntityTypeReference
	EntityAwait
	EntityPatternMatch
	EntityPatternBinding
)

// Modifiers are language-neutral declaration flags derived from the raw
// capture's surroundings.
type Modifiers struct {
	IsExported bool // appears in an export declaration
	IsDefault  bool // `export default`
	IsConst    bool
	IsStatic   bool
	IsAsync    bool
	IsPublic   bool // Rust `pub` style visibility
	IsReExport bool
}

// CaptureContext is the bag of language-specific hints a normalizer attaches
// to a capture. Builders and metadata extractors read from it; empty fields
// mean the grammar did not supply the detail.
type CaptureContext struct {
	ExportAlias  string
	ExportSource string

	ImportSource string
	ImportedName string

	TypeAnnotation string
	ReturnType     string
	TypeParams     []string
	Extends        []string
	Implements     []string
	AliasedType    string

	ReceiverText     string
	ReceiverLocation *Location
	CallText         string
	TypeArguments    string
	AssignTarget     string
	AssignValue      string

	ConstructTargetLocation *Location

	// Rust pattern captures.
	MatchedText     string
	PatternLocation *Location

	// OwnerName names the container for member captures whose grammar does
	// not nest members inside the type declaration (Rust impl blocks).
	OwnerName string

	// Docstring carries documentation that lives inside the definition's own
	// body (Python docstrings); leading comments are claimed separately.
	Docstring string
}

// NormalizedCapture is the single representation all four grammars are
// normalized into before the builders run.
type NormalizedCapture struct {
	Category  Category
	Entity    Entity
	Name      string
	Text      string
	Location  Location
	Modifiers Modifiers
	Context   CaptureContext
}

// AvailabilityFor maps declaration modifiers to an availability descriptor
// plus export metadata. Pure; identical across grammars.
func AvailabilityFor(name string, m Modifiers, ctx CaptureContext) (Availability, *Export) {
	switch {
	case m.IsReExport:
		return AvailExported, &Export{
			Kind:   ExportReExport,
			Name:   name,
			Alias:  ctx.ExportAlias,
			Source: ctx.ExportSource,
		}
	case m.IsDefault:
		return AvailExported, &Export{Kind: ExportDefault, Name: name}
	case m.IsExported:
		return AvailExported, &Export{Kind: ExportNamed, Name: name, Alias: ctx.ExportAlias}
	case m.IsPublic:
		return AvailPublic, nil
	}
	return AvailFilePrivate, nil
}
