package analysisworker

import (
	"context"
	"testing"

	"github.com/jenian/envbind/internal/envcore"
)

func TestAnalyzeAllRunsEveryDocument(t *testing.T) {
	core := envcore.New()
	defer core.Shutdown()

	docs := []Document{
		{ID: "a", Source: "package main\n\nimport \"os\"\n\nfunc main() { _ = os.Getenv(\"A\") }\n", Language: "go"},
		{ID: "b", Source: "package main\n\nimport \"os\"\n\nfunc main() { _ = os.Getenv(\"B\") }\n", Language: "go"},
		{ID: "c", Source: "not even go", Language: "cobol"},
	}

	pool := New(core, 2)
	results := pool.AnalyzeAll(context.Background(), docs)

	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}

	byID := make(map[string]Result, 3)
	for _, r := range results {
		byID[r.Document.ID] = r
	}

	if byID["a"].Err != nil {
		t.Errorf("doc a: %v", byID["a"].Err)
	}
	if byID["b"].Err != nil {
		t.Errorf("doc b: %v", byID["b"].Err)
	}
	if byID["c"].Err == nil {
		t.Error("doc c: expected an unregistered-language error")
	}

	refs := core.DirectReferences("a")
	if len(refs) != 1 || refs[0].Name != "A" {
		t.Fatalf("doc a references = %+v", refs)
	}
}
