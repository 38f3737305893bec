package metrics

import "testing"

func TestCountersAccumulateAcrossCalls(t *testing.T) {
	before := Snapshot()

	IncDocumentsAnalyzed()
	IncCacheHit()
	IncParseError()
	IncPipelineError()
	AddDirectReferences(3)
	AddDirectReferences(0) // no-op, must not underflow or panic

	after := Snapshot()
	if after.DocumentsAnalyzed != before.DocumentsAnalyzed+1 {
		t.Fatalf("DocumentsAnalyzed = %d, want %d", after.DocumentsAnalyzed, before.DocumentsAnalyzed+1)
	}
	if after.CacheHits != before.CacheHits+1 {
		t.Fatalf("CacheHits = %d, want %d", after.CacheHits, before.CacheHits+1)
	}
	if after.ParseErrors != before.ParseErrors+1 {
		t.Fatalf("ParseErrors = %d, want %d", after.ParseErrors, before.ParseErrors+1)
	}
	if after.PipelineErrors != before.PipelineErrors+1 {
		t.Fatalf("PipelineErrors = %d, want %d", after.PipelineErrors, before.PipelineErrors+1)
	}
	if after.DirectReferences != before.DirectReferences+3 {
		t.Fatalf("DirectReferences = %d, want %d", after.DirectReferences, before.DirectReferences+3)
	}
}

func TestLogSnapshotDoesNotPanicWithoutInit(t *testing.T) {
	// obslog's package-level logger defaults to a no-op until Init is
	// called; LogSnapshot must still be safe to call.
	LogSnapshot()
}
