// Package resolver is the Binding Resolver (spec.md §4.5): a single
// operation that turns a byte position into a classification of what env
// binding, if any, touches it. Grounded on
// _examples/original_source/src/analysis/resolver.rs's BindingResolver and
// its EnvHit enum (DirectReference/ViaSymbol/ViaUsage), renamed here to
// match spec.md §4.5's taxonomy. The Rust EnvHit carries a fourth tier
// (destructured_key_range) and property-access usage detail; neither has
// an analogue on graph.Symbol/graph.Usage (internal/graph's simplified
// shapes), so Classify collapses to exactly the three positive tiers plus
// None that spec.md §4.5 names.
package resolver

import "github.com/jenian/envbind/internal/graph"

// Kind distinguishes what a position landed on.
type Kind int

const (
	None Kind = iota
	DirectReference
	SymbolDeclaration
	Usage
)

// Hit is the result of Classify: which kind of binding touches a
// position, and enough detail to report it without a second lookup.
type Hit struct {
	Kind Kind
	Span graph.Span

	// VarName is set for DirectReference: the literal env var name at the
	// access site (os.Getenv("X"), process.env.X, ...).
	VarName string

	// SymbolID and Origin are set for SymbolDeclaration and Usage: the
	// bound identifier and its fully resolved terminal origin (spec.md
	// §4.4 Pass 4's chain resolution already collapsed aliases and
	// destructures down to this).
	SymbolID graph.SymbolID
	Origin   graph.Origin
}

// Resolver classifies byte positions against a single frozen Graph.
type Resolver struct{}

// New returns a Resolver. Stateless; a value would do, but matching the
// rest of the package's constructor convention keeps call sites uniform.
func New() *Resolver {
	return &Resolver{}
}

// Classify reports what, if anything, occupies pos in g: a direct env-var
// access, a binding's declaration site, or a use of an already-bound
// identifier. Priority is DirectReference > SymbolDeclaration > Usage,
// mirroring env_at_position's tier order in the original; within each
// tier the position index already resolves ties by narrowest span then
// earliest start (internal/graph/position.go).
func (r *Resolver) Classify(g *graph.Graph, pos int) Hit {
	if ref, ok := g.DirectReferenceAt(pos); ok {
		return Hit{Kind: DirectReference, Span: ref.FullSpan, VarName: ref.Name}
	}

	if sym, ok := g.SymbolDeclarationAt(pos); ok {
		return Hit{
			Kind:     SymbolDeclaration,
			Span:     sym.DeclSpan,
			SymbolID: sym.ID,
			Origin:   g.ResolveOrigin(sym.ID),
		}
	}

	if u, ok := g.UsageAt(pos); ok {
		return Hit{
			Kind:     Usage,
			Span:     u.Span,
			SymbolID: u.Symbol,
			Origin:   g.ResolveOrigin(u.Symbol),
		}
	}

	return Hit{Kind: None}
}
