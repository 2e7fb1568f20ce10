package semantic

// MetadataExtractors is the per-language plugin point the reference builder
// consumes. Each language supplies one implementation; the builder itself is
// language-agnostic. Implementations work over the capture's context bag and
// raw text, so missing grammar detail degrades to empty results, never errors.
type MetadataExtractors interface {
	TypeFromAnnotation(c NormalizedCapture) string
	CallReceiver(c NormalizedCapture) (loc *Location, text string, ok bool)
	PropertyChain(c NormalizedCapture) []string
	AssignmentParts(c NormalizedCapture) (target, value string, ok bool)
	ConstructTarget(c NormalizedCapture) (loc *Location, name string, ok bool)
	TypeArguments(c NormalizedCapture) []string
	IsOptionalChain(c NormalizedCapture) bool
	IsMethodCall(c NormalizedCapture) bool
	CallName(c NormalizedCapture) string
}

// ReferenceBuilder accumulates usage-site captures into Reference records,
// enriched via the language's metadata extractors.
type ReferenceBuilder struct {
	scopes     map[ScopeID]Scope
	rootID     ScopeID
	extractors MetadataExtractors
	refs       []Reference
}

func NewReferenceBuilder(scopes map[ScopeID]Scope, rootID ScopeID, extractors MetadataExtractors) *ReferenceBuilder {
	return &ReferenceBuilder{scopes: scopes, rootID: rootID, extractors: extractors}
}

// Process consumes one reference-category capture. Captures of other
// categories and unknown entities are no-ops.
func (b *ReferenceBuilder) Process(c NormalizedCapture) {
	if c.Category != CategoryReference {
		return
	}

	ref := Reference{
		Name:     c.Name,
		Location: c.Location,
		ScopeID:  b.scopeFor(c.Location),
	}

	switch c.Entity {
	case EntityCall:
		ref.Kind = RefCall
		if name := b.extractors.CallName(c); name != "" {
			ref.Name = name
		}
		if loc, _, ok := b.extractors.CallReceiver(c); ok {
			ref.ReceiverLocation = loc
		}
		ref.PropertyChain = b.extractors.PropertyChain(c)
		ref.TypeArguments = b.extractors.TypeArguments(c)
		ref.IsOptionalChain = b.extractors.IsOptionalChain(c)
		ref.IsMethodCall = b.extractors.IsMethodCall(c)
	case EntityConstruct:
		ref.Kind = RefConstruct
		if loc, name, ok := b.extractors.ConstructTarget(c); ok {
			ref.TargetLocation = loc
			if name != "" {
				ref.Name = name
			}
		}
		ref.TypeArguments = b.extractors.TypeArguments(c)
	case EntityMemberAccess:
		ref.Kind = RefMemberAccess
		if loc, _, ok := b.extractors.CallReceiver(c); ok {
			ref.ReceiverLocation = loc
		}
		ref.PropertyChain = b.extractors.PropertyChain(c)
		ref.IsOptionalChain = b.extractors.IsOptionalChain(c)
	case EntityAssignment:
		ref.Kind = RefAssignment
		if target, value, ok := b.extractors.AssignmentParts(c); ok {
			ref.AssignTarget = target
			ref.AssignValue = value
		}
	case EntityTypeReference:
		ref.Kind = RefTypeReference
		if t := b.extractors.TypeFromAnnotation(c); t != "" {
			ref.Name = t
		}
		ref.TypeArguments = b.extractors.TypeArguments(c)
	case EntityAwait:
		ref.Kind = RefAwait
	case EntityPatternMatch:
		ref.Kind = RefPatternMatch
		ref.MatchedText = c.Context.MatchedText
		ref.PatternLocation = c.Context.PatternLocation
		if ref.PatternLocation == nil {
			loc := c.Location
			ref.PatternLocation = &loc
		}
	case EntityPatternBinding:
		ref.Kind = RefPatternBinding
		ref.PatternLocation = c.Context.PatternLocation
	default:
		ref.Kind = RefIdentifier
	}

	b.refs = append(b.refs, ref)
}

// Build returns the accumulated references in arrival order.
func (b *ReferenceBuilder) Build() []Reference {
	return append([]Reference(nil), b.refs...)
}

func (b *ReferenceBuilder) scopeFor(loc Location) ScopeID {
	return innermostScope(b.scopes, b.rootID, loc)
}

// innermostScope picks the narrowest scope containing loc. Line span decides
// first, column span breaks same-line ties, and the scope id breaks exact
// ties, so the choice never depends on map iteration order.
func innermostScope(scopes map[ScopeID]Scope, rootID ScopeID, loc Location) ScopeID {
	best := rootID
	bestLines, bestCols := -1, -1
	for id, scope := range scopes {
		if !scope.Location.Contains(loc) {
			continue
		}
		lines := scope.Location.EndLine - scope.Location.StartLine
		cols := scope.Location.EndColumn - scope.Location.StartColumn
		switch {
		case bestLines == -1,
			lines < bestLines,
			lines == bestLines && cols < bestCols,
			lines == bestLines && cols == bestCols && id < best:
			best = id
			bestLines, bestCols = lines, cols
		}
	}
	return best
}
