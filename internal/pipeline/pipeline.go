// Package pipeline is the Analysis Pipeline (spec.md §4.4): it runs the
// six ordered passes over a parsed tree and a language Descriptor,
// producing a fully built graph.Graph. Later passes never invalidate
// earlier passes' results; the pipeline's job is wiring internal/query's
// category runner into internal/graph's mutation API in the order and
// tie-break spec.md §4.4 "Determinism" requires.
//
// Grounded on _examples/original_source/src/analysis/pipeline.rs's phase
// numbering (adapted from that file's single combined tree walk into the
// six discrete query-category passes spec.md names) and on the teacher's
// (_examples/njenia-envgrd/internal/parser/parser.go) match-collection
// loop style.
package pipeline

import (
	"context"
	"sort"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/jenian/envbind/internal/graph"
	"github.com/jenian/envbind/internal/langdesc"
	"github.com/jenian/envbind/internal/query"
)

// Pipeline runs the six-pass analysis over a parsed tree.
type Pipeline struct {
	Engine *query.Engine
}

// New builds a Pipeline backed by eng.
func New(eng *query.Engine) *Pipeline {
	return &Pipeline{Engine: eng}
}

// Analyze runs passes 1..6 over tree/src using desc's queries and
// classifiers, returning a fully built, unfrozen graph.Graph. Cancellable
// at pass boundaries per spec.md §5 "Cancellation": if ctx is done
// between passes, Analyze returns the partial graph built so far and a
// non-nil error; callers must discard rather than publish it.
func (p *Pipeline) Analyze(ctx context.Context, desc *langdesc.Descriptor, tree *sitter.Tree, src []byte) (*graph.Graph, error) {
	g := graph.New(len(src))
	comments := collectCommentSpans(tree, desc)

	passes := []func(){
		func() { p.extractScopes(desc, tree, src, g) },
		func() { p.extractDirectReferences(desc, tree, src, g, comments) },
		func() { p.extractBindings(desc, tree, src, g) },
		func() { p.resolveChains(desc, tree, src, g) },
		func() { p.extractUsages(desc, tree, src, g, comments) },
		func() { p.extractPropertyAccessReferences(desc, tree, src, g, comments) },
		func() { p.processReassignments(desc, tree, src, g) },
	}
	for _, pass := range passes {
		if err := ctx.Err(); err != nil {
			return g, err
		}
		pass()
	}
	return g, nil
}

// ===========================================================================
// Comment-aware filtering (supplemented feature, SPEC_FULL.md; grounded on
// LanguageSupport::comment_node_kinds in
// _examples/original_source/src/languages/mod.rs).
// ===========================================================================

func collectCommentSpans(tree *sitter.Tree, desc *langdesc.Descriptor) []graph.Span {
	if len(desc.CommentNodeKinds) == 0 {
		return nil
	}
	kinds := make(map[string]bool, len(desc.CommentNodeKinds))
	for _, k := range desc.CommentNodeKinds {
		kinds[k] = true
	}
	var spans []graph.Span
	walkComments(tree.RootNode(), kinds, &spans)
	return spans
}

func walkComments(node *sitter.Node, kinds map[string]bool, out *[]graph.Span) {
	if node == nil {
		return
	}
	if kinds[node.Kind()] {
		*out = append(*out, graph.Span{Start: int(node.StartByte()), End: int(node.EndByte())})
		return
	}
	count := int(node.ChildCount())
	for i := 0; i < count; i++ {
		walkComments(node.Child(uint(i)), kinds, out)
	}
}

func insideAny(span graph.Span, spans []graph.Span) bool {
	return langdesc.IsInsideAny(span, spans)
}

// ===========================================================================
// Pass 1 — Scope extraction.
// ===========================================================================

type scopeCapture struct {
	span graph.Span
	kind graph.ScopeKind
}

func (p *Pipeline) extractScopes(desc *langdesc.Descriptor, tree *sitter.Tree, src []byte, g *graph.Graph) {
	matches, err := p.Engine.Run(desc, query.CategoryScopes, tree, src)
	if err != nil || matches == nil {
		return
	}

	captures := make([]scopeCapture, 0, len(matches))
	for _, m := range matches {
		c, ok := m["scope_node"]
		if !ok {
			continue
		}
		kind, ok := desc.ScopeKind(c.NodeKind)
		if !ok {
			continue
		}
		captures = append(captures, scopeCapture{span: c.Span, kind: kind})
	}

	// Byte start ascending, then byte end descending, so a containing
	// scope is always inserted before the scopes nested inside it
	// (spec.md §4.4 Pass 1).
	sort.Slice(captures, func(i, j int) bool {
		if captures[i].span.Start != captures[j].span.Start {
			return captures[i].span.Start < captures[j].span.Start
		}
		return captures[i].span.End > captures[j].span.End
	})

	type insertedScope struct {
		id   graph.ScopeID
		span graph.Span
	}
	stack := []insertedScope{{id: g.RootScope(), span: graph.Span{Start: 0, End: len(src)}}}

	for _, c := range captures {
		parent := g.RootScope()
		for i := len(stack) - 1; i >= 0; i-- {
			if containsSpan(stack[i].span, c.span) {
				parent = stack[i].id
				break
			}
		}
		id := g.InternScope(parent, c.span, c.kind)
		stack = append(stack, insertedScope{id: id, span: c.span})
	}
}

func containsSpan(outer, inner graph.Span) bool {
	return outer.Start <= inner.Start && inner.End <= outer.End
}

// ===========================================================================
// Pass 2 — Direct references.
// ===========================================================================

func (p *Pipeline) extractDirectReferences(desc *langdesc.Descriptor, tree *sitter.Tree, src []byte, g *graph.Graph, comments []graph.Span) {
	matches, err := p.Engine.Run(desc, query.CategoryReferences, tree, src)
	if err != nil || matches == nil {
		return
	}

	type found struct {
		ref graph.EnvReference
	}
	var refs []found

	for _, m := range matches {
		r, ok := desc.ClassifyReference(m)
		if !ok {
			continue
		}
		nameCap := r.NameCapture
		if nameCap == "" {
			nameCap = "key"
		}
		nameSpan, ok := m[nameCap]
		if !ok {
			continue
		}
		if insideAny(nameSpan.Span, comments) {
			continue
		}
		fullSpan := nameSpan.Span
		if r.FullCapture != "" {
			if c, ok := m[r.FullCapture]; ok {
				fullSpan = c.Span
			}
		}
		refs = append(refs, found{ref: graph.EnvReference{
			Name:     r.Name,
			NameSpan: nameSpan.Span,
			FullSpan: fullSpan,
		}})
	}

	sort.Slice(refs, func(i, j int) bool {
		a, b := refs[i].ref.NameSpan, refs[j].ref.NameSpan
		if a.Start != b.Start {
			return a.Start < b.Start
		}
		return a.End < b.End
	})

	for _, f := range refs {
		f.ref.Scope = g.LookupScopeAt(f.ref.NameSpan.Start)
		g.AddDirectReference(f.ref)
	}
}

// ===========================================================================
// Pass 3 — Bindings, plus chain-candidate collection for Pass 4.
// ===========================================================================

type chainCandidate struct {
	isDestructure bool
	target        string
	targetSpan    graph.Span
	source        string
	sourceSpan    graph.Span
	key           string
	defaultText   string
}

func (p *Pipeline) extractBindings(desc *langdesc.Descriptor, tree *sitter.Tree, src []byte, g *graph.Graph) {
	p.internEnvBindings(desc, tree, src, g)
}

func (p *Pipeline) internEnvBindings(desc *langdesc.Descriptor, tree *sitter.Tree, src []byte, g *graph.Graph) {
	matches, err := p.Engine.Run(desc, query.CategoryBindings, tree, src)
	if err != nil || matches == nil {
		return
	}

	type candidate struct {
		name     string
		nameSpan graph.Span
		origin   graph.Origin
	}
	var candidates []candidate

	for _, m := range matches {
		b, ok := desc.ClassifyBinding(m)
		if !ok || b.Kind == langdesc.BindingNone {
			continue
		}
		nameCap := b.NameCapture
		if nameCap == "" {
			nameCap = "binding_name"
		}
		nameSpan, ok := m[nameCap]
		if !ok {
			continue
		}

		var origin graph.Origin
		switch b.Kind {
		case langdesc.BindingEnvVar:
			origin = graph.EnvVar(b.EnvVarName)
		case langdesc.BindingEnvObject:
			origin = graph.EnvObject(b.BindingName)
		default:
			continue
		}
		candidates = append(candidates, candidate{name: b.BindingName, nameSpan: nameSpan.Span, origin: origin})
	}

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].nameSpan.Start < candidates[j].nameSpan.Start
	})

	for _, c := range candidates {
		scope := g.LookupScopeAt(c.nameSpan.Start)
		// A later binding of the same (scope, name) closes the prior
		// symbol's validity window at this binding's start (spec.md §4.4
		// Pass 3).
		g.CloseValidity(c.name, scope, c.nameSpan.Start)
		g.InternSymbol(c.name, scope, c.nameSpan, c.origin)
	}
}

// ===========================================================================
// Pass 4 — Origin resolution for aliases and destructures.
// ===========================================================================

func (p *Pipeline) resolveChains(desc *langdesc.Descriptor, tree *sitter.Tree, src []byte, g *graph.Graph) {
	candidates := p.collectAssignmentChains(desc, tree, src)
	candidates = append(candidates, p.collectDestructureChains(desc, tree, src)...)

	// Strict source order so multi-step chains (a = env; b = a; c = b.X)
	// resolve deterministically (spec.md §4.4 Pass 4).
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].targetSpan.Start < candidates[j].targetSpan.Start
	})

	for _, c := range candidates {
		sourceScope := g.LookupScopeAt(c.sourceSpan.Start)
		sourceID, ok := g.LookupSymbol(c.source, sourceScope, c.sourceSpan.Start)
		if !ok {
			// Resolution failed at the source identifier: skip (spec.md
			// §4.4 Pass 4, "if resolution fails, skip").
			continue
		}

		targetScope := g.LookupScopeAt(c.targetSpan.Start)

		var origin graph.Origin
		if c.isDestructure {
			origin = graph.Destructured(sourceID, c.key)
			origin.DefaultText = c.defaultText
			// If the source's terminal origin is already EnvObject, the
			// destructure simplifies immediately to EnvVar(key) (spec.md
			// §4.4 Pass 4).
			if resolved := g.ResolveOrigin(sourceID); resolved.Kind == graph.OriginEnvObject {
				simplified := graph.EnvVar(c.key)
				simplified.DefaultText = c.defaultText
				origin = simplified
			}
		} else {
			origin = graph.Alias(sourceID)
		}

		g.InternSymbol(c.target, targetScope, c.targetSpan, origin)
	}
}

func (p *Pipeline) collectAssignmentChains(desc *langdesc.Descriptor, tree *sitter.Tree, src []byte) []chainCandidate {
	matches, err := p.Engine.Run(desc, query.CategoryAssignments, tree, src)
	if err != nil || matches == nil {
		return nil
	}
	var out []chainCandidate
	for _, m := range matches {
		r, ok := desc.ClassifyAssignment(m)
		if !ok {
			continue
		}
		targetSpan, tok := m[captureOr(r.TargetCapture, "target")]
		sourceSpan, sok := m[captureOr(r.SourceCapture, "source")]
		if !tok || !sok {
			continue
		}
		out = append(out, chainCandidate{
			target: r.TargetName, targetSpan: targetSpan.Span,
			source: r.SourceName, sourceSpan: sourceSpan.Span,
		})
	}
	return out
}

func (p *Pipeline) collectDestructureChains(desc *langdesc.Descriptor, tree *sitter.Tree, src []byte) []chainCandidate {
	matches, err := p.Engine.Run(desc, query.CategoryDestructures, tree, src)
	if err != nil || matches == nil {
		return nil
	}
	var out []chainCandidate
	for _, m := range matches {
		r, ok := desc.ClassifyDestructure(m)
		if !ok {
			continue
		}
		targetSpan, tok := m[captureOr(r.TargetCapture, "target")]
		sourceSpan, sok := m[captureOr(r.SourceCapture, "source")]
		if !tok || !sok {
			continue
		}
		key := r.Key
		if !r.HasKey {
			key = r.TargetName
		}
		out = append(out, chainCandidate{
			isDestructure: true,
			target:        r.TargetName, targetSpan: targetSpan.Span,
			source: r.SourceName, sourceSpan: sourceSpan.Span,
			key: key, defaultText: r.Default,
		})
	}
	return out
}

func captureOr(cap, fallback string) string {
	if cap == "" {
		return fallback
	}
	return cap
}

// ===========================================================================
// Pass 5 — Usages.
// ===========================================================================

// identifierNodeKinds names, per language, the grammar node kind(s) a bare
// identifier occurrence takes. Property/member/attribute tokens
// (property_identifier, field_identifier, ...) are deliberately excluded
// by using a kind distinct from the object-position identifier wherever
// the grammar offers one; this is what naturally excludes "member-property
// positions inside a known env access" per spec.md §4.4 Pass 5 without a
// second, language-specific predicate.
func identifierNodeKinds(tag string) []string {
	switch tag {
	case "php":
		return []string{"name", "variable_name"}
	case "ruby":
		return []string{"identifier", "constant"}
	case "bash":
		return []string{"variable_name"}
	case "zig":
		return []string{"IDENTIFIER"}
	case "kotlin":
		return []string{"simple_identifier"}
	default:
		return []string{"identifier"}
	}
}

type identOccurrence struct {
	name string
	span graph.Span
}

func collectIdentifiers(node *sitter.Node, kinds map[string]bool, out *[]identOccurrence, src []byte) {
	if node == nil {
		return
	}
	if kinds[node.Kind()] {
		*out = append(*out, identOccurrence{
			name: string(src[node.StartByte():node.EndByte()]),
			span: graph.Span{Start: int(node.StartByte()), End: int(node.EndByte())},
		})
	}
	count := int(node.ChildCount())
	for i := 0; i < count; i++ {
		collectIdentifiers(node.Child(uint(i)), kinds, out, src)
	}
}

func (p *Pipeline) extractUsages(desc *langdesc.Descriptor, tree *sitter.Tree, src []byte, g *graph.Graph, comments []graph.Span) {
	kindList := identifierNodeKinds(desc.Tag)
	kinds := make(map[string]bool, len(kindList))
	for _, k := range kindList {
		kinds[k] = true
	}

	var occurrences []identOccurrence
	collectIdentifiers(tree.RootNode(), kinds, &occurrences, src)

	// Structural captures (the object/method/function tokens already
	// consumed by the references and bindings queries) never count as a
	// usage even when their node kind coincides with a plain identifier
	// (e.g. Python's `os` in `os.environ`).
	structural := p.collectStructuralSpans(desc, tree, src)

	for _, occ := range occurrences {
		if insideAny(occ.span, structural) || insideAny(occ.span, comments) {
			continue
		}
		scope := g.LookupScopeAt(occ.span.Start)
		symID, ok := g.LookupSymbol(occ.name, scope, occ.span.Start)
		if !ok {
			continue
		}
		sym, ok := g.GetSymbol(symID)
		if !ok {
			continue
		}
		// Only after the declaration, and never the declaration site
		// itself (spec.md §4.4 Pass 5).
		if occ.span == sym.DeclSpan {
			continue
		}
		if occ.span.Start < sym.DeclSpan.End {
			continue
		}
		g.AddUsage(graph.Usage{Symbol: symID, Span: occ.span})
	}
}

// collectStructuralSpans gathers every capture span that plays a
// structural role (object/function/method token) in a references or
// bindings match, so Pass 5's generic identifier walk can skip them —
// they are never themselves a "usage" of a symbol, they are part of the
// expression that defines or accesses the env container.
func (p *Pipeline) collectStructuralSpans(desc *langdesc.Descriptor, tree *sitter.Tree, src []byte) []graph.Span {
	var spans []graph.Span
	structuralCaptures := []string{"obj", "attr", "fn", "method", "method1", "method2", "path", "path1", "path2"}

	for _, cat := range []query.Category{query.CategoryReferences, query.CategoryBindings} {
		matches, err := p.Engine.Run(desc, cat, tree, src)
		if err != nil {
			continue
		}
		for _, m := range matches {
			for _, name := range structuralCaptures {
				if c, ok := m[name]; ok {
					spans = append(spans, c.Span)
				}
			}
		}
	}
	return spans
}

// ===========================================================================
// Pass 5b — Property access on resolved env-object aliases.
// ===========================================================================

// extractPropertyAccessReferences promotes a single-level object.property
// (or object["property"]) access to a direct reference once the object
// identifier is known, by this point in the pipeline, to resolve to the
// language's env object — the shape spec.md §1's core example names:
// `env = process.env; cfg = env; x = cfg.DATABASE_URL` must classify the
// `DATABASE_URL` property itself as a direct reference to that env var,
// not merely as part of `x`'s binding. Deliberately deferred behind
// passes 3/4 (bindings and chain resolution), mirroring
// _examples/original_source/src/analysis/pipeline.rs's
// process_property_access_candidates, which runs its equivalent
// candidate-collection step only after the symbol table is populated.
func (p *Pipeline) extractPropertyAccessReferences(desc *langdesc.Descriptor, tree *sitter.Tree, src []byte, g *graph.Graph, comments []graph.Span) {
	if desc.ClassifyPropertyAccess == nil {
		return
	}
	matches, err := p.Engine.Run(desc, query.CategoryPropertyAccesses, tree, src)
	if err != nil || matches == nil {
		return
	}

	for _, m := range matches {
		r, ok := desc.ClassifyPropertyAccess(m)
		if !ok {
			continue
		}
		objSpan, ok := m[captureOr(r.ObjectCapture, "obj")]
		if !ok {
			continue
		}
		keySpan, ok := m["key"]
		if !ok {
			continue
		}
		if insideAny(keySpan.Span, comments) {
			continue
		}
		fullSpan := keySpan.Span
		if r.FullCapture != "" {
			if c, ok := m[r.FullCapture]; ok {
				fullSpan = c.Span
			}
		}

		scope := g.LookupScopeAt(objSpan.Span.Start)
		symID, ok := g.LookupSymbol(r.ObjectName, scope, objSpan.Span.Start)
		if !ok {
			continue
		}
		if g.ResolveOrigin(symID).Kind != graph.OriginEnvObject {
			continue
		}
		g.AddDirectReference(graph.EnvReference{
			Name:     desc.Normalize(r.PropertyName),
			NameSpan: keySpan.Span,
			FullSpan: fullSpan,
			Scope:    scope,
		})
	}
}

// ===========================================================================
// Pass 6 — Reassignment invalidation.
// ===========================================================================

func (p *Pipeline) processReassignments(desc *langdesc.Descriptor, tree *sitter.Tree, src []byte, g *graph.Graph) {
	matches, err := p.Engine.Run(desc, query.CategoryReassignments, tree, src)
	if err != nil || matches == nil {
		return
	}

	type reassign struct {
		name string
		span graph.Span
	}
	var reassigns []reassign
	for _, m := range matches {
		r, ok := desc.ClassifyReassignment(m)
		if !ok {
			continue
		}
		nameCap := r.NameCapture
		if nameCap == "" {
			nameCap = "reassigned_name"
		}
		span, ok := m[nameCap]
		if !ok {
			continue
		}
		reassigns = append(reassigns, reassign{name: r.Name, span: span.Span})
	}

	sort.Slice(reassigns, func(i, j int) bool {
		return reassigns[i].span.Start < reassigns[j].span.Start
	})

	for _, r := range reassigns {
		scope := g.LookupScopeAt(r.span.Start)
		symID, ok := g.LookupSymbol(r.name, scope, r.span.Start)
		if !ok {
			continue
		}
		sym, ok := g.GetSymbol(symID)
		if !ok {
			continue
		}
		// Only a reassignment whose declaration precedes it closes the
		// validity window (spec.md §4.4 Pass 6); closing at the symbol's
		// own declaring scope, found via LookupSymbol's ancestor walk, is
		// what makes a reassignment in an enclosing scope visible to a
		// symbol declared in an inner one.
		if sym.DeclSpan.Start < r.span.Start {
			g.CloseValidity(r.name, sym.Scope, r.span.Start)
		}
	}
}
