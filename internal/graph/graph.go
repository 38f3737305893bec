package graph

// MaxChainDepth bounds how many Alias/DestructuredProperty hops
// ResolveOrigin will follow before giving up and returning Unresolved.
// Configurable per Graph via SetMaxChainDepth; default mirrors the
// original implementation's depth bound (spec.md §5).
const MaxChainDepth = 32

// Graph is the per-document binding graph: scopes and symbols in dense
// arenas addressed by integer handles. Append-only during construction,
// frozen and read-only once published (spec.md §3, "Lifecycle").
type Graph struct {
	scopes  []Scope
	symbols []Symbol

	// nameIndex maps (scope, name) to the symbol IDs declared there, in
	// declaration order. LookupSymbol walks this from the end so the most
	// recent symbol at a given scope is checked first.
	nameIndex map[nameScopeKey][]SymbolID

	directReferences []EnvReference
	usages           []Usage

	resolutionCache map[SymbolID]Origin

	maxChainDepth int

	// sorted position indices, built lazily by Freeze.
	scopeIndex []scopeEntry
	frozen     bool

	// posIdx backs DirectReferenceAt/SymbolDeclarationAt/UsageAt, built
	// lazily on first use and invalidated by any further mutation.
	posIdx positionIndices
}

type nameScopeKey struct {
	name  string
	scope ScopeID
}

type scopeEntry struct {
	span Span
	id   ScopeID
}

// New creates an empty binding graph with a root scope (ScopeID 1)
// covering [0, rootEnd).
func New(rootEnd int) *Graph {
	g := &Graph{
		nameIndex:       make(map[nameScopeKey][]SymbolID),
		resolutionCache: make(map[SymbolID]Origin),
		maxChainDepth:   MaxChainDepth,
	}
	g.scopes = append(g.scopes, Scope{}) // index 0 unused, ID 0 reserved
	root := Scope{ID: 1, Parent: 0, Span: Span{0, rootEnd}, Kind: ScopeRoot}
	g.scopes = append(g.scopes, root)
	g.symbols = append(g.symbols, Symbol{}) // index 0 unused, SymbolID 0 reserved
	return g
}

// RootScope returns the document's root scope ID.
func (g *Graph) RootScope() ScopeID { return 1 }

// SetMaxChainDepth overrides the chain-resolution depth bound.
func (g *Graph) SetMaxChainDepth(n int) {
	if n > 0 {
		g.maxChainDepth = n
	}
}

// Scopes returns every scope in the graph, including the root.
func (g *Graph) Scopes() []Scope { return g.scopes[1:] }

// Symbols returns every symbol in the graph.
func (g *Graph) Symbols() []Symbol { return g.symbols[1:] }

// DirectReferences returns all recorded direct env accesses.
func (g *Graph) DirectReferences() []EnvReference { return g.directReferences }

// Usages returns all recorded symbol usages.
func (g *Graph) Usages() []Usage { return g.usages }
