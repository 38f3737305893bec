package graph

// ResolveOrigin follows Alias/DestructuredProperty links from id until it
// reaches EnvVar, EnvObject, or Unresolved, or the configured depth bound
// is hit (DepthExhausted, treated as Unresolved per spec.md §7). Results
// are cached per symbol for the lifetime of the (frozen) graph.
func (g *Graph) ResolveOrigin(id SymbolID) Origin {
	if cached, ok := g.resolutionCache[id]; ok {
		return cached
	}
	origin := g.resolveDepth(id, 0)
	g.resolutionCache[id] = origin
	return origin
}

func (g *Graph) resolveDepth(id SymbolID, depth int) Origin {
	if depth >= g.maxChainDepth {
		return Unresolved
	}
	sym, ok := g.GetSymbol(id)
	if !ok {
		return Unresolved
	}

	switch sym.Origin.Kind {
	case OriginEnvVar, OriginEnvObject, OriginUnresolved:
		return sym.Origin

	case OriginAlias:
		resolved := g.resolveDepth(sym.Origin.AliasSource, depth+1)
		if resolved.DefaultText == "" {
			resolved.DefaultText = sym.Origin.DefaultText
		}
		return resolved

	case OriginDestructuredProperty:
		source := g.resolveDepth(sym.Origin.Source, depth+1)
		switch source.Kind {
		case OriginEnvObject:
			out := EnvVar(sym.Origin.Key)
			out.DefaultText = sym.Origin.DefaultText
			return out
		case OriginEnvVar:
			// Destructuring a variable (not the env container) isn't a
			// recognized shape; the chain dead-ends.
			return Unresolved
		default:
			return Unresolved
		}

	default:
		return Unresolved
	}
}
