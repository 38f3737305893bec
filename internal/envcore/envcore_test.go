package envcore

import (
	"context"
	"strings"
	"testing"

	"github.com/jenian/envbind/internal/resolver"
)

func TestAnalyzeRejectsUnregisteredLanguage(t *testing.T) {
	c := New()
	defer c.Shutdown()

	err := c.Analyze(context.Background(), "doc1", "whatever", "cobol")
	if !Is(err, ErrUnregisteredLanguage) {
		t.Fatalf("got %v, want ErrUnregisteredLanguage", err)
	}
}

func TestAnalyzeThenClassifyDirectReference(t *testing.T) {
	c := New()
	defer c.Shutdown()

	src := "package main\n\nimport \"os\"\n\nfunc main() {\n\tv := os.Getenv(\"DATABASE_URL\")\n\t_ = v\n}\n"
	if err := c.Analyze(context.Background(), "doc1", src, "go"); err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	pos := strings.Index(src, "DATABASE_URL")
	hit := c.Classify("doc1", pos)
	if hit.Kind != resolver.DirectReference || hit.VarName != "DATABASE_URL" {
		t.Fatalf("Classify = %+v", hit)
	}

	refs := c.DirectReferences("doc1")
	if len(refs) != 1 || refs[0].Name != "DATABASE_URL" {
		t.Fatalf("DirectReferences = %+v", refs)
	}
}

func TestAnalyzeIsIdempotentOnUnchangedSource(t *testing.T) {
	c := New()
	defer c.Shutdown()

	src := "package main\n\nimport \"os\"\n\nfunc main() {\n\t_ = os.Getenv(\"X\")\n}\n"
	if err := c.Analyze(context.Background(), "doc1", src, "go"); err != nil {
		t.Fatalf("Analyze 1: %v", err)
	}
	before := c.DirectReferences("doc1")

	if err := c.Analyze(context.Background(), "doc1", src, "go"); err != nil {
		t.Fatalf("Analyze 2: %v", err)
	}
	after := c.DirectReferences("doc1")

	if len(before) != len(after) {
		t.Fatalf("reference count changed across idempotent re-Analyze: %d vs %d", len(before), len(after))
	}
}

func TestClassifyOnUnknownDocumentReturnsNone(t *testing.T) {
	c := New()
	defer c.Shutdown()

	hit := c.Classify("never-analyzed", 0)
	if hit.Kind != resolver.None {
		t.Fatalf("got %v, want None", hit.Kind)
	}
}

func TestCloseDropsDocument(t *testing.T) {
	c := New()
	defer c.Shutdown()

	src := "package main\n\nimport \"os\"\n\nfunc main() {\n\t_ = os.Getenv(\"X\")\n}\n"
	if err := c.Analyze(context.Background(), "doc1", src, "go"); err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	c.Close("doc1")

	if got := c.DirectReferences("doc1"); got != nil {
		t.Fatalf("expected nil after Close, got %+v", got)
	}
}
