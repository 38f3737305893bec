package graph

import "sort"

// Freeze builds the sorted position index used by LookupScopeAt. Safe to
// call multiple times; a no-op if the graph hasn't changed since the last
// call. The graph's own lifecycle (append-only during construction, then
// read-only forever) means a plain sort-once-then-scan index is
// exactly as fast as a balanced interval tree here and far simpler, so we
// don't reach for a third-party interval-tree package for this (see
// DESIGN.md, "Standard-library justifications").
func (g *Graph) Freeze() {
	if g.frozen {
		return
	}
	entries := make([]scopeEntry, 0, len(g.scopes)-1)
	for _, s := range g.scopes[1:] {
		entries = append(entries, scopeEntry{span: s.Span, id: s.ID})
	}
	// Sort by start ascending, then by span length ascending so that, for
	// a given start, narrower (more deeply nested) scopes are considered
	// first during the containment scan below.
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].span.Start != entries[j].span.Start {
			return entries[i].span.Start < entries[j].span.Start
		}
		return entries[i].span.Len() < entries[j].span.Len()
	})
	g.scopeIndex = entries
	g.frozen = true
}

// LookupScopeAt returns the deepest scope whose span contains byte. Falls
// back to the root scope if nothing more specific matches.
func (g *Graph) LookupScopeAt(pos int) ScopeID {
	g.Freeze()

	best := g.RootScope()
	bestLen := -1
	// Linear scan is fine: per-document scope counts are small (hundreds,
	// not millions) and this runs once per resolver query, not per pass.
	for _, e := range g.scopeIndex {
		if e.span.Start > pos {
			break
		}
		if e.span.Contains(pos) {
			if bestLen == -1 || e.span.Len() < bestLen {
				best = e.id
				bestLen = e.span.Len()
			}
		}
	}
	return best
}
