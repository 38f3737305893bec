// Package graph implements the arena-backed binding graph: scopes and
// symbols addressed by small integer handles, built once per document
// revision and never mutated after publication.
package graph

// ScopeID identifies a scope within a single Graph. The zero value is
// reserved for "no scope" and never assigned to a real scope.
type ScopeID uint32

// SymbolID identifies a symbol within a single Graph. The zero value is
// reserved for "no symbol".
type SymbolID uint32

// Span is a half-open byte range [Start, End) into the document's UTF-8
// source text.
type Span struct {
	Start int
	End   int
}

// Contains reports whether pos falls inside the span.
func (s Span) Contains(pos int) bool {
	return pos >= s.Start && pos < s.End
}

// Len returns the number of bytes the span covers.
func (s Span) Len() int {
	return s.End - s.Start
}

// ScopeKind classifies the syntactic construct that introduced a scope.
type ScopeKind int

const (
	ScopeRoot ScopeKind = iota
	ScopeFunction
	ScopeBlock
	ScopeClass
	ScopeLoop
	ScopeConditional
	ScopeTry
	ScopeCatch
	ScopeWith
	ScopeComprehension
)

func (k ScopeKind) String() string {
	switch k {
	case ScopeRoot:
		return "root"
	case ScopeFunction:
		return "function"
	case ScopeBlock:
		return "block"
	case ScopeClass:
		return "class"
	case ScopeLoop:
		return "loop"
	case ScopeConditional:
		return "conditional"
	case ScopeTry:
		return "try"
	case ScopeCatch:
		return "catch"
	case ScopeWith:
		return "with"
	case ScopeComprehension:
		return "comprehension"
	default:
		return "unknown"
	}
}

// Scope is a lexical region of the document.
type Scope struct {
	ID     ScopeID
	Parent ScopeID
	Span   Span
	Kind   ScopeKind
}

// OriginKind tags the variant held by an Origin.
type OriginKind int

const (
	OriginUnresolved OriginKind = iota
	OriginEnvVar
	OriginEnvObject
	OriginDestructuredProperty
	OriginAlias
)

// Origin is the tagged variant describing what a symbol ultimately refers
// to. Exactly one field set is meaningful per Kind.
type Origin struct {
	Kind OriginKind

	// OriginEnvVar / terminal form of OriginDestructuredProperty once
	// simplified.
	EnvVarName string

	// OriginEnvObject.
	CanonicalName string

	// OriginDestructuredProperty.
	Source SymbolID
	Key    string

	// OriginAlias.
	AliasSource SymbolID

	// DefaultText preserves a destructure/fetch default expression for
	// diagnostics only (spec.md §9 open question); never affects
	// resolution.
	DefaultText string
}

// EnvVar builds an Origin that resolves directly to an env var name.
func EnvVar(name string) Origin { return Origin{Kind: OriginEnvVar, EnvVarName: name} }

// EnvObject builds an Origin aliasing the language's env container.
func EnvObject(canonical string) Origin {
	return Origin{Kind: OriginEnvObject, CanonicalName: canonical}
}

// Alias builds an Origin that chains to another symbol unchanged.
func Alias(source SymbolID) Origin { return Origin{Kind: OriginAlias, AliasSource: source} }

// Destructured builds an Origin obtained by taking key from source.
func Destructured(source SymbolID, key string) Origin {
	return Origin{Kind: OriginDestructuredProperty, Source: source, Key: key}
}

// Unresolved is the terminal origin for symbols whose provenance isn't one
// of EnvVar/EnvObject.
var Unresolved = Origin{Kind: OriginUnresolved}

// Symbol is a named local binding introduced at a specific declaration
// site, live over a validity window.
type Symbol struct {
	ID       SymbolID
	Name     string
	Scope    ScopeID
	DeclSpan Span
	Origin   Origin

	// Validity is the byte range in which this symbol is the live meaning
	// of (Scope, Name). Starts at DeclSpan.Start, ends at the first
	// reassignment in the same scope or at the scope's end.
	Validity Span
}

// EnvReference is a direct access site, e.g. `process.env.DATABASE_URL`.
type EnvReference struct {
	Name     string
	NameSpan Span
	FullSpan Span
	Scope    ScopeID
}

// Usage is an identifier occurrence that references a known symbol.
type Usage struct {
	Symbol SymbolID
	Span   Span
}
