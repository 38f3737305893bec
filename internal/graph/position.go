package graph

import "sort"

// PositionHit identifies which of the three position-indexed collections a
// narrowest-span-wins lookup landed on, for internal/resolver to turn into
// a classification without reaching back into the arenas itself.
type PositionHit struct {
	Kind PositionKind
	Span Span

	// Populated according to Kind.
	Reference EnvReference
	Symbol    Symbol
	Usage     Usage
}

type PositionKind int

const (
	PositionNone PositionKind = iota
	PositionDirectReference
	PositionSymbolDeclaration
	PositionUsage
)

type posEntry struct {
	span Span
	idx  int
}

// positionIndices holds the three sorted-by-start indices built lazily by
// ensurePositionIndices on the first lookup, one per collection the resolver searches (spec.md §4.5).
type positionIndices struct {
	refs    []posEntry
	decls   []posEntry
	usages  []posEntry
	built   bool
}

func buildPosIndex(spans []Span) []posEntry {
	entries := make([]posEntry, len(spans))
	for i, s := range spans {
		entries[i] = posEntry{span: s, idx: i}
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].span.Start != entries[j].span.Start {
			return entries[i].span.Start < entries[j].span.Start
		}
		return entries[i].span.Len() < entries[j].span.Len()
	})
	return entries
}

func (g *Graph) ensurePositionIndices() {
	if g.posIdx.built {
		return
	}
	refSpans := make([]Span, len(g.directReferences))
	for i, r := range g.directReferences {
		refSpans[i] = r.FullSpan
	}
	declSpans := make([]Span, 0, len(g.symbols)-1)
	for _, s := range g.symbols[1:] {
		declSpans = append(declSpans, s.DeclSpan)
	}
	usageSpans := make([]Span, len(g.usages))
	for i, u := range g.usages {
		usageSpans[i] = u.Span
	}

	g.posIdx.refs = buildPosIndex(refSpans)
	g.posIdx.decls = buildPosIndex(declSpans)
	g.posIdx.usages = buildPosIndex(usageSpans)
	g.posIdx.built = true
}

// narrowestContaining scans a sorted-by-start position index for the
// smallest span containing pos, returning its original index and whether
// anything matched.
func narrowestContaining(entries []posEntry, pos int) (int, bool) {
	best := -1
	bestLen := -1
	for _, e := range entries {
		if e.span.Start > pos {
			break
		}
		if e.span.Contains(pos) {
			if bestLen == -1 || e.span.Len() < bestLen {
				best = e.idx
				bestLen = e.span.Len()
			}
		}
	}
	return best, best != -1
}

// DirectReferenceAt returns the narrowest direct reference containing pos.
func (g *Graph) DirectReferenceAt(pos int) (EnvReference, bool) {
	g.ensurePositionIndices()
	i, ok := narrowestContaining(g.posIdx.refs, pos)
	if !ok {
		return EnvReference{}, false
	}
	return g.directReferences[i], true
}

// SymbolDeclarationAt returns the narrowest symbol declaration containing
// pos. Index i in g.symbols[1:] is offset by one from the arena's own
// SymbolID space, so the returned Symbol carries its own correct ID.
func (g *Graph) SymbolDeclarationAt(pos int) (Symbol, bool) {
	g.ensurePositionIndices()
	i, ok := narrowestContaining(g.posIdx.decls, pos)
	if !ok {
		return Symbol{}, false
	}
	return g.symbols[1:][i], true
}

// UsageAt returns the narrowest usage containing pos.
func (g *Graph) UsageAt(pos int) (Usage, bool) {
	g.ensurePositionIndices()
	i, ok := narrowestContaining(g.posIdx.usages, pos)
	if !ok {
		return Usage{}, false
	}
	return g.usages[i], true
}
