package wsconfig

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadReturnsDefaultWhenFileMissing(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cfg.Features.CommentAwareFiltering {
		t.Fatal("expected default comment-aware filtering to be on")
	}
	if cfg.Interpolation.MaxDepth != 8 {
		t.Fatalf("MaxDepth = %d, want 8", cfg.Interpolation.MaxDepth)
	}
}

func TestLoadParsesConfigFile(t *testing.T) {
	dir := t.TempDir()
	contents := "features:\n  comment_aware_filtering: false\nignores:\n  missing:\n    - NOISY_VAR\n"
	if err := os.WriteFile(filepath.Join(dir, fileName), []byte(contents), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Features.CommentAwareFiltering {
		t.Fatal("expected comment_aware_filtering to be overridden to false")
	}
	if !cfg.ShouldIgnoreMissing("NOISY_VAR") {
		t.Fatal("expected NOISY_VAR to be ignored")
	}
	if cfg.ShouldIgnoreMissing("DATABASE_URL") {
		t.Fatal("did not expect DATABASE_URL to be ignored")
	}
}
