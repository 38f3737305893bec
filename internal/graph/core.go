package graph

// InternScope assigns a new ScopeID to a scope with the given parent,
// span and kind, and appends it to the arena. Returns the assigned ID.
func (g *Graph) InternScope(parent ScopeID, span Span, kind ScopeKind) ScopeID {
	id := ScopeID(len(g.scopes))
	g.scopes = append(g.scopes, Scope{ID: id, Parent: parent, Span: span, Kind: kind})
	g.frozen = false
	return id
}

// GetScope returns the scope for id, or the zero Scope and false if id is
// out of range.
func (g *Graph) GetScope(id ScopeID) (Scope, bool) {
	if int(id) <= 0 || int(id) >= len(g.scopes) {
		return Scope{}, false
	}
	return g.scopes[id], true
}

// InternSymbol assigns a new SymbolID, appends it to the arena and adds it
// to the (scope, name) index. Validity starts at decl.Start and
// initially extends to the declaring scope's end; CloseValidity narrows
// it on reassignment.
func (g *Graph) InternSymbol(name string, scope ScopeID, decl Span, origin Origin) SymbolID {
	id := SymbolID(len(g.symbols))
	scopeSpan, _ := g.GetScope(scope)
	validity := Span{Start: decl.Start, End: scopeSpan.Span.End}

	sym := Symbol{ID: id, Name: name, Scope: scope, DeclSpan: decl, Origin: origin, Validity: validity}
	g.symbols = append(g.symbols, sym)

	key := nameScopeKey{name: name, scope: scope}
	g.nameIndex[key] = append(g.nameIndex[key], id)

	delete(g.resolutionCache, id)
	g.frozen = false
	g.posIdx.built = false
	return id
}

// GetSymbol returns the symbol for id, or the zero Symbol and false if id
// is out of range.
func (g *Graph) GetSymbol(id SymbolID) (Symbol, bool) {
	if int(id) <= 0 || int(id) >= len(g.symbols) {
		return Symbol{}, false
	}
	return g.symbols[id], true
}

// UpdateOrigin overwrites a symbol's origin in place (used by pass 4 when
// a destructure off an EnvObject simplifies immediately to EnvVar).
func (g *Graph) UpdateOrigin(id SymbolID, origin Origin) {
	if int(id) <= 0 || int(id) >= len(g.symbols) {
		return
	}
	g.symbols[id].Origin = origin
	delete(g.resolutionCache, id)
}

// CloseValidity ends the validity window of the live symbol named name in
// exactly scope (ancestor scopes are not searched) at atByte, because a
// reassignment occurred there. If no live symbol exists, this
// is a no-op.
func (g *Graph) CloseValidity(name string, scope ScopeID, atByte int) {
	key := nameScopeKey{name: name, scope: scope}
	ids := g.nameIndex[key]
	for i := len(ids) - 1; i >= 0; i-- {
		sym := &g.symbols[ids[i]]
		if sym.Validity.Contains(atByte) || sym.Validity.Start == atByte {
			if atByte > sym.Validity.Start {
				sym.Validity.End = atByte
			}
			return
		}
	}
}

// LookupSymbol walks up the scope chain from scope, returning the first
// live symbol named name whose validity window contains atByte. Stops at
// the first hit per spec.md §4.3.
func (g *Graph) LookupSymbol(name string, scope ScopeID, atByte int) (SymbolID, bool) {
	current := scope
	for current != 0 {
		key := nameScopeKey{name: name, scope: current}
		ids := g.nameIndex[key]
		for i := len(ids) - 1; i >= 0; i-- {
			sym := g.symbols[ids[i]]
			if sym.Validity.Contains(atByte) {
				return sym.ID, true
			}
		}
		s, ok := g.GetScope(current)
		if !ok {
			break
		}
		current = s.Parent
	}
	return 0, false
}

// AddDirectReference records a direct env access site.
func (g *Graph) AddDirectReference(ref EnvReference) {
	for _, existing := range g.directReferences {
		if existing.NameSpan == ref.NameSpan {
			return
		}
	}
	g.directReferences = append(g.directReferences, ref)
	g.posIdx.built = false
}

// AddUsage records an identifier occurrence referencing a known symbol.
func (g *Graph) AddUsage(u Usage) {
	g.usages = append(g.usages, u)
	g.posIdx.built = false
}
