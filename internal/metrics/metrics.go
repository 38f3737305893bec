// Package metrics is the process-wide Counters component: lock-free
// tallies of pipeline activity (documents analyzed, cache hits, parse and
// pipeline failures, direct references discovered), reported through the
// ambient structured logger rather than a push/pull metrics
// backend. No example repo's go.mod imports a metrics client, so the
// counters themselves stay on sync/atomic (see DESIGN.md, "Standard-library
// justifications"); their reporting path reuses internal/obslog's zap
// logger instead of hand-rolling a second output format.
package metrics

import (
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/jenian/envbind/internal/obslog"
)

// Counters is a point-in-time snapshot of the process-wide tallies.
type Counters struct {
	DocumentsAnalyzed uint64
	CacheHits         uint64
	ParseErrors       uint64
	PipelineErrors    uint64
	DirectReferences  uint64
}

var (
	documentsAnalyzed uint64
	cacheHits         uint64
	parseErrors       uint64
	pipelineErrors    uint64
	directReferences  uint64
)

// IncDocumentsAnalyzed counts one document that reached a published
// graph (envcore.Core.Analyze's success path).
func IncDocumentsAnalyzed() { atomic.AddUint64(&documentsAnalyzed, 1) }

// IncCacheHit counts one Analyze call short-circuited by an unchanged
// content fingerprint.
func IncCacheHit() { atomic.AddUint64(&cacheHits, 1) }

// IncParseError counts one tree-sitter parse failure.
func IncParseError() { atomic.AddUint64(&parseErrors, 1) }

// IncPipelineError counts one pipeline.Analyze failure (cancellation or
// an internal invariant violation recovered from panic).
func IncPipelineError() { atomic.AddUint64(&pipelineErrors, 1) }

// AddDirectReferences adds n direct references to the running total;
// a no-op for n <= 0 so callers can pass len(slice) unconditionally.
func AddDirectReferences(n int) {
	if n > 0 {
		atomic.AddUint64(&directReferences, uint64(n))
	}
}

// Snapshot reads every counter's current value.
func Snapshot() Counters {
	return Counters{
		DocumentsAnalyzed: atomic.LoadUint64(&documentsAnalyzed),
		CacheHits:         atomic.LoadUint64(&cacheHits),
		ParseErrors:       atomic.LoadUint64(&parseErrors),
		PipelineErrors:    atomic.LoadUint64(&pipelineErrors),
		DirectReferences:  atomic.LoadUint64(&directReferences),
	}
}

// LogSnapshot emits the current counters as one structured log line. It
// is called once at the end of cmd/envbindd's analyze and serve commands,
// standing in for a pull-based /metrics endpoint no dependency in this
// codebase's corpus provides.
func LogSnapshot() {
	s := Snapshot()
	obslog.L().Info("pipeline counters",
		zap.Uint64("documents_analyzed", s.DocumentsAnalyzed),
		zap.Uint64("cache_hits", s.CacheHits),
		zap.Uint64("parse_errors", s.ParseErrors),
		zap.Uint64("pipeline_errors", s.PipelineErrors),
		zap.Uint64("direct_references", s.DirectReferences),
	)
}
