package envcache

import (
	"path/filepath"
	"testing"
)

func openTestCache(t *testing.T) *Cache {
	t.Helper()
	c, err := Open(filepath.Join(t.TempDir(), "envbind.cache"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func TestPutGetRoundTrips(t *testing.T) {
	c := openTestCache(t)

	if err := c.Put("doc1", "DATABASE_URL", "postgres://localhost/db", ".env:3"); err != nil {
		t.Fatalf("Put: %v", err)
	}

	entry, ok, err := c.Get("doc1", "DATABASE_URL")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !ok {
		t.Fatal("expected a cached entry")
	}
	if entry.Value != "postgres://localhost/db" || entry.SourceDesc != ".env:3" {
		t.Fatalf("got %+v", entry)
	}
}

func TestGetMissReturnsFalse(t *testing.T) {
	c := openTestCache(t)
	_, ok, err := c.Get("doc1", "MISSING")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if ok {
		t.Fatal("expected no cached entry")
	}
}

func TestPutOverwritesExisting(t *testing.T) {
	c := openTestCache(t)
	if err := c.Put("doc1", "PORT", "3000", ".env"); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := c.Put("doc1", "PORT", "4000", ".env.local"); err != nil {
		t.Fatalf("Put: %v", err)
	}
	entry, ok, err := c.Get("doc1", "PORT")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !ok || entry.Value != "4000" || entry.SourceDesc != ".env.local" {
		t.Fatalf("got %+v, ok=%v", entry, ok)
	}
}

func TestDeleteDocumentRemovesAllItsEntries(t *testing.T) {
	c := openTestCache(t)
	if err := c.Put("doc1", "A", "1", "src"); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := c.Put("doc1", "B", "2", "src"); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := c.Put("doc2", "A", "1", "src"); err != nil {
		t.Fatalf("Put: %v", err)
	}

	if err := c.DeleteDocument("doc1"); err != nil {
		t.Fatalf("DeleteDocument: %v", err)
	}

	if _, ok, _ := c.Get("doc1", "A"); ok {
		t.Fatal("expected doc1/A to be gone")
	}
	if _, ok, _ := c.Get("doc1", "B"); ok {
		t.Fatal("expected doc1/B to be gone")
	}
	if _, ok, _ := c.Get("doc2", "A"); !ok {
		t.Fatal("expected doc2/A to survive")
	}
}
