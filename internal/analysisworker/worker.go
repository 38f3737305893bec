// Package analysisworker runs Core.Analyze over many documents
// concurrently, bounded to a fixed number of in-flight workers.
// Grounded on _examples/njenia-envgrd/cmd/envgrd/main.go's parseFiles
// (a sync.WaitGroup plus a `chan struct{}` acquire/release semaphore),
// generalized from "parse N files, collect one flat usage slice" to
// "analyze N documents, collect one error per failure" using
// golang.org/x/sync/errgroup — the idiomatic successor to that
// hand-rolled pattern once a pack dependency supplies it.
package analysisworker

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/jenian/envbind/internal/envcore"
)

// defaultConcurrency mirrors the teacher's hard-coded worker count
// (main.go's `workers := make(chan struct{}, 10)`).
const defaultConcurrency = 10

// Document is one unit of work: a document ID, its source text, and its
// language tag, exactly Core.Analyze's three variable arguments bundled
// for fan-out.
type Document struct {
	ID       string
	Source   string
	Language string
}

// Result pairs a Document with whatever error its Analyze call
// produced, nil on success. A failed document doesn't stop the others —
// this mirrors the teacher's "log error but continue" comment in
// parseFiles.
type Result struct {
	Document Document
	Err      error
}

// Pool runs documents through a Core's Analyze method with bounded
// concurrency.
type Pool struct {
	core        *envcore.Core
	concurrency int
}

// New builds a Pool bound to core, running up to concurrency documents
// at once. concurrency <= 0 falls back to defaultConcurrency.
func New(core *envcore.Core, concurrency int) *Pool {
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}
	return &Pool{core: core, concurrency: concurrency}
}

// AnalyzeAll runs Analyze for every document in docs, bounded to the
// pool's concurrency limit, and returns one Result per document
// (order not guaranteed to match docs). ctx cancellation is honored by
// internal/pipeline's per-pass check; with an already-cancelled ctx every
// document is still handed to Analyze, which returns ctx's error at the
// pipeline's first pass check.
func (p *Pool) AnalyzeAll(ctx context.Context, docs []Document) []Result {
	results := make(chan Result, len(docs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)

	for _, doc := range docs {
		doc := doc
		g.Go(func() error {
			err := p.core.Analyze(gctx, doc.ID, doc.Source, doc.Language)
			results <- Result{Document: doc, Err: err}
			return nil
		})
	}

	// Intentionally ignore g.Wait()'s error: each worker always returns
	// nil so its own Result carries the failure instead of aborting the
	// whole batch, matching the teacher's "log error but continue."
	_ = g.Wait()
	close(results)

	out := make([]Result, 0, len(docs))
	for r := range results {
		out = append(out, r)
	}
	return out
}
