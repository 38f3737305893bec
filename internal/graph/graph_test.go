package graph

import "testing"

func TestInternScopeAndLookupScopeAt(t *testing.T) {
	g := New(100)
	fn := g.InternScope(g.RootScope(), Span{10, 50}, ScopeFunction)
	blk := g.InternScope(fn, Span{20, 40}, ScopeBlock)

	cases := []struct {
		pos  int
		want ScopeID
	}{
		{0, g.RootScope()},
		{15, fn},
		{25, blk},
		{45, fn},
		{99, g.RootScope()},
	}
	for _, c := range cases {
		if got := g.LookupScopeAt(c.pos); got != c.want {
			t.Errorf("LookupScopeAt(%d) = %d, want %d", c.pos, got, c.want)
		}
	}
}

func TestInternSymbolAndLookupSymbol(t *testing.T) {
	g := New(100)
	root := g.RootScope()
	id := g.InternSymbol("dbUrl", root, Span{5, 10}, EnvVar("DATABASE_URL"))

	got, ok := g.LookupSymbol("dbUrl", root, 20)
	if !ok || got != id {
		t.Fatalf("LookupSymbol = (%d, %v), want (%d, true)", got, ok, id)
	}

	if _, ok := g.LookupSymbol("dbUrl", root, 4); ok {
		t.Fatalf("LookupSymbol should not find a symbol before its declaration")
	}
}

func TestCloseValidityNarrowsWindow(t *testing.T) {
	g := New(100)
	root := g.RootScope()
	first := g.InternSymbol("x", root, Span{5, 10}, EnvVar("A"))
	g.CloseValidity("x", root, 30)
	second := g.InternSymbol("x", root, Span{30, 35}, EnvVar("B"))

	if got, ok := g.LookupSymbol("x", root, 20); !ok || got != first {
		t.Fatalf("expected first symbol live at 20, got (%d, %v)", got, ok)
	}
	if got, ok := g.LookupSymbol("x", root, 40); !ok || got != second {
		t.Fatalf("expected second symbol live at 40, got (%d, %v)", got, ok)
	}
	if _, ok := g.LookupSymbol("x", root, 30); !ok {
		t.Fatalf("second symbol should be live at its own declaration point")
	}
}

func TestLookupSymbolWalksAncestorScopes(t *testing.T) {
	g := New(100)
	root := g.RootScope()
	outer := g.InternSymbol("port", root, Span{0, 1}, EnvVar("PORT"))
	inner := g.InternScope(root, Span{10, 90}, ScopeFunction)

	got, ok := g.LookupSymbol("port", inner, 50)
	if !ok || got != outer {
		t.Fatalf("expected inner scope lookup to find outer-scope symbol, got (%d, %v)", got, ok)
	}
}

func TestResolveOriginFollowsAliasChain(t *testing.T) {
	g := New(100)
	root := g.RootScope()
	a := g.InternSymbol("a", root, Span{0, 1}, EnvVar("FOO"))
	b := g.InternSymbol("b", root, Span{2, 3}, Alias(a))
	c := g.InternSymbol("c", root, Span{4, 5}, Alias(b))

	origin := g.ResolveOrigin(c)
	if origin.Kind != OriginEnvVar || origin.EnvVarName != "FOO" {
		t.Fatalf("ResolveOrigin(c) = %+v, want EnvVar(FOO)", origin)
	}
}

func TestResolveOriginDestructuredFromEnvObjectSimplifies(t *testing.T) {
	g := New(100)
	root := g.RootScope()
	envObj := g.InternSymbol("env", root, Span{0, 1}, EnvObject("process.env"))
	key := g.InternSymbol("port", root, Span{2, 3}, Destructured(envObj, "PORT"))

	origin := g.ResolveOrigin(key)
	if origin.Kind != OriginEnvVar || origin.EnvVarName != "PORT" {
		t.Fatalf("ResolveOrigin(key) = %+v, want EnvVar(PORT)", origin)
	}
}

func TestResolveOriginDestructuredFromPlainVarIsUnresolved(t *testing.T) {
	g := New(100)
	root := g.RootScope()
	plain := g.InternSymbol("cfg", root, Span{0, 1}, Unresolved)
	key := g.InternSymbol("x", root, Span{2, 3}, Destructured(plain, "X"))

	origin := g.ResolveOrigin(key)
	if origin.Kind != OriginUnresolved {
		t.Fatalf("ResolveOrigin(key) = %+v, want Unresolved", origin)
	}
}

func TestResolveOriginRespectsDepthBound(t *testing.T) {
	g := New(100)
	g.SetMaxChainDepth(3)
	root := g.RootScope()

	prev := g.InternSymbol("s0", root, Span{0, 1}, EnvVar("ROOT"))
	for i := 1; i <= 5; i++ {
		prev = g.InternSymbol("s", root, Span{i, i + 1}, Alias(prev))
	}

	origin := g.ResolveOrigin(prev)
	if origin.Kind != OriginUnresolved {
		t.Fatalf("expected depth-exhausted chain to resolve Unresolved, got %+v", origin)
	}
}

func TestResolveOriginPreservesDefaultTextAcrossAlias(t *testing.T) {
	g := New(100)
	root := g.RootScope()
	envVar := EnvVar("TIMEOUT")
	envVar.DefaultText = "30"
	a := g.InternSymbol("a", root, Span{0, 1}, envVar)
	b := g.InternSymbol("b", root, Span{2, 3}, Alias(a))

	origin := g.ResolveOrigin(b)
	if origin.DefaultText != "30" {
		t.Fatalf("DefaultText lost across alias hop, got %q", origin.DefaultText)
	}
}

func TestDirectReferenceAtNarrowestWins(t *testing.T) {
	g := New(100)
	g.AddDirectReference(EnvReference{Name: "A", NameSpan: Span{1, 2}, FullSpan: Span{0, 10}})
	g.AddDirectReference(EnvReference{Name: "B", NameSpan: Span{5, 6}, FullSpan: Span{4, 7}})

	got, ok := g.DirectReferenceAt(5)
	if !ok || got.Name != "B" {
		t.Fatalf("DirectReferenceAt(5) = %+v, %v, want narrowest match B", got, ok)
	}
}

func TestSymbolDeclarationAt(t *testing.T) {
	g := New(100)
	root := g.RootScope()
	id := g.InternSymbol("x", root, Span{10, 11}, EnvVar("X"))

	got, ok := g.SymbolDeclarationAt(10)
	if !ok || got.ID != id {
		t.Fatalf("SymbolDeclarationAt(10) = %+v, %v", got, ok)
	}
	if _, ok := g.SymbolDeclarationAt(11); ok {
		t.Fatalf("SymbolDeclarationAt should be half-open, like Span.Contains")
	}
}

func TestUsageAt(t *testing.T) {
	g := New(100)
	root := g.RootScope()
	id := g.InternSymbol("x", root, Span{0, 1}, EnvVar("X"))
	g.AddUsage(Usage{Symbol: id, Span: Span{20, 21}})

	got, ok := g.UsageAt(20)
	if !ok || got.Symbol != id {
		t.Fatalf("UsageAt(20) = %+v, %v", got, ok)
	}
}

func TestAddDirectReferenceDedupsByNameSpan(t *testing.T) {
	g := New(100)
	ref := EnvReference{Name: "A", NameSpan: Span{1, 2}, FullSpan: Span{0, 3}}
	g.AddDirectReference(ref)
	g.AddDirectReference(ref)

	if len(g.DirectReferences()) != 1 {
		t.Fatalf("expected dedup, got %d references", len(g.DirectReferences()))
	}
}
