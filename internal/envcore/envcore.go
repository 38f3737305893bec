// Package envcore is the public façade (spec.md §6): it owns a document
// store keyed by DocID, runs the analysis pipeline on Analyze, and
// answers Classify/DirectReferences/Symbols against whatever graph is
// currently published for a document. Grounded on
// _examples/njenia-envgrd/internal/parser/parser.go's
// Parser{languages map, mu sync.RWMutex} double-checked-lock cache,
// generalized from "cache loaded grammars" (that stays in
// internal/query, which already owns it) to "cache published document
// graphs," swapped atomically per spec.md §5's "Replacement ... is
// atomic."
package envcore

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/zeebo/xxh3"

	"github.com/jenian/envbind/internal/graph"
	"github.com/jenian/envbind/internal/langdesc"
	"github.com/jenian/envbind/internal/metrics"
	"github.com/jenian/envbind/internal/obslog"
	"github.com/jenian/envbind/internal/pipeline"
	"github.com/jenian/envbind/internal/query"
	"github.com/jenian/envbind/internal/resolver"
)

// document is one published analysis revision: the frozen graph plus the
// content fingerprint it was built from, so a repeat Analyze call with
// byte-identical source can short-circuit (spec.md §8, idempotence).
type document struct {
	graph       *graph.Graph
	fingerprint uint64
	languageTag string
}

// Core is the process-wide entry point: one Engine shared across every
// document, one atomic.Pointer[document] per DocID.
type Core struct {
	engine   *query.Engine
	pipeline *pipeline.Pipeline
	resolver *resolver.Resolver

	mu   sync.RWMutex
	docs map[string]*atomic.Pointer[document]
}

// New builds a Core with a fresh query engine and its own pipeline.
func New() *Core {
	eng := query.NewEngine()
	return &Core{
		engine:   eng,
		pipeline: pipeline.New(eng),
		resolver: resolver.New(),
		docs:     make(map[string]*atomic.Pointer[document]),
	}
}

func (c *Core) slot(docID string) *atomic.Pointer[document] {
	c.mu.RLock()
	if p, ok := c.docs[docID]; ok {
		c.mu.RUnlock()
		return p
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if p, ok := c.docs[docID]; ok {
		return p
	}
	p := &atomic.Pointer[document]{}
	c.docs[docID] = p
	return p
}

// Analyze parses and runs the six-pass pipeline over source for docID,
// atomically publishing the resulting graph on success. If source's
// content fingerprint matches the document's current revision, Analyze
// is a no-op (spec.md §8, "unrelated region"/idempotence). A pipeline
// panic (an internal invariant violation, spec.md §7) is recovered here,
// logged through internal/obslog, and surfaced as an error, leaving the document's prior revision
// published untouched.
func (c *Core) Analyze(ctx context.Context, docID, source, languageTag string) (err error) {
	desc, ok := langdesc.Lookup(languageTag)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnregisteredLanguage, languageTag)
	}

	src := []byte(source)
	fp := xxh3.Hash(src)

	slot := c.slot(docID)
	if cur := slot.Load(); cur != nil && cur.fingerprint == fp && cur.languageTag == languageTag {
		metrics.IncCacheHit()
		return nil
	}

	defer func() {
		if r := recover(); r != nil {
			metrics.IncPipelineError()
			err = fmt.Errorf("envcore: internal invariant violation analyzing %q: %v", docID, r)
			obslog.L().Error(err.Error())
		}
	}()

	tree, perr := c.engine.Parse(desc, src)
	if perr != nil {
		metrics.IncParseError()
		return fmt.Errorf("envcore: parse %q: %w", docID, perr)
	}
	defer tree.Close()

	g, perr := c.pipeline.Analyze(ctx, desc, tree, src)
	if perr != nil {
		// Partial graph on cancellation: spec.md §5 says the caller must
		// discard rather than publish, so don't Store.
		metrics.IncPipelineError()
		return perr
	}
	g.Freeze()

	metrics.IncDocumentsAnalyzed()
	metrics.AddDirectReferences(len(g.DirectReferences()))

	slot.Store(&document{graph: g, fingerprint: fp, languageTag: languageTag})
	return nil
}

// Classify reports what occupies bytePos in docID's current revision.
// Returns resolver.Hit{Kind: resolver.None} for an unknown document,
// matching the rest of the core's "best effort, never panic on a
// missing document" posture.
func (c *Core) Classify(docID string, bytePos int) resolver.Hit {
	doc := c.load(docID)
	if doc == nil {
		return resolver.Hit{Kind: resolver.None}
	}
	return c.resolver.Classify(doc.graph, bytePos)
}

// DirectReferences returns every direct env-var access site in docID's
// current revision.
func (c *Core) DirectReferences(docID string) []graph.EnvReference {
	doc := c.load(docID)
	if doc == nil {
		return nil
	}
	return doc.graph.DirectReferences()
}

// Symbols returns every bound symbol in docID's current revision.
func (c *Core) Symbols(docID string) []graph.Symbol {
	doc := c.load(docID)
	if doc == nil {
		return nil
	}
	return doc.graph.Symbols()
}

func (c *Core) load(docID string) *document {
	c.mu.RLock()
	p, ok := c.docs[docID]
	c.mu.RUnlock()
	if !ok {
		return nil
	}
	return p.Load()
}

// Close discards docID's published revision, freeing it for the next
// Analyze to start fresh.
func (c *Core) Close(docID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.docs, docID)
}

// Shutdown releases the shared query engine's compiled queries. Call
// once the Core itself is no longer needed.
func (c *Core) Shutdown() {
	c.engine.Close()
}
