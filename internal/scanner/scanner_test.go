package scanner

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDetectLanguage(t *testing.T) {
	tests := []struct {
		path     string
		expected string
	}{
		{"test.js", "javascript"},
		{"test.jsx", "javascript"},
		{"test.mjs", "javascript"},
		{"test.ts", "typescript"},
		{"test.tsx", "typescript"},
		{"test.go", "go"},
		{"test.py", "python"},
		{"test.rb", "ruby"},
		{"test.php", "php"},
		{"test.cs", "csharp"},
		{"test.kt", "kotlin"},
		{"test.ex", "elixir"},
		{"test.lua", "lua"},
		{"test.sh", "bash"},
		{"test.zig", "zig"},
		{"test.txt", LanguageUnknown},
		{"test", LanguageUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := detectLanguage(tt.path); got != tt.expected {
				t.Errorf("detectLanguage(%q) = %q, want %q", tt.path, got, tt.expected)
			}
		})
	}
}

func TestScanner_Scan(t *testing.T) {
	tmpDir := t.TempDir()

	if err := os.MkdirAll(filepath.Join(tmpDir, "src"), 0755); err != nil {
		t.Fatalf("Failed to create src directory: %v", err)
	}
	if err := os.MkdirAll(filepath.Join(tmpDir, "node_modules"), 0755); err != nil {
		t.Fatalf("Failed to create node_modules directory: %v", err)
	}

	if err := os.WriteFile(filepath.Join(tmpDir, "src", "app.js"), []byte("console.log('test');"), 0644); err != nil {
		t.Fatalf("Failed to write app.js: %v", err)
	}
	if err := os.WriteFile(filepath.Join(tmpDir, "src", "app.go"), []byte("package main"), 0644); err != nil {
		t.Fatalf("Failed to write app.go: %v", err)
	}
	if err := os.WriteFile(filepath.Join(tmpDir, "src", "app.py"), []byte("print('test')"), 0644); err != nil {
		t.Fatalf("Failed to write app.py: %v", err)
	}

	if err := os.WriteFile(filepath.Join(tmpDir, "node_modules", "lib.js"), []byte("module.exports = {};"), 0644); err != nil {
		t.Fatalf("Failed to write lib.js: %v", err)
	}
	if err := os.WriteFile(filepath.Join(tmpDir, "src", "readme.txt"), []byte("readme content"), 0644); err != nil {
		t.Fatalf("Failed to write readme.txt: %v", err)
	}

	scanner := NewScanner()
	files, err := scanner.Scan(tmpDir)
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}

	if len(files) != 3 {
		t.Errorf("Expected 3 files, got %d", len(files))
	}

	for _, file := range files {
		if filepath.Base(filepath.Dir(file.Path)) == "node_modules" {
			t.Error("Files in node_modules should be excluded")
		}
	}
}

func TestScanner_ExcludeGlobs(t *testing.T) {
	tmpDir := t.TempDir()

	if err := os.WriteFile(filepath.Join(tmpDir, "test.js"), []byte("test"), 0644); err != nil {
		t.Fatalf("Failed to write test.js: %v", err)
	}
	if err := os.WriteFile(filepath.Join(tmpDir, "test.go"), []byte("test"), 0644); err != nil {
		t.Fatalf("Failed to write test.go: %v", err)
	}

	scanner := NewScanner()
	scanner.SetExcludeGlobs([]string{"*.go"})

	files, err := scanner.Scan(tmpDir)
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}

	if len(files) != 1 {
		t.Errorf("Expected 1 file, got %d", len(files))
	}
	if files[0].Language != "javascript" {
		t.Errorf("Expected javascript file, got %v", files[0].Language)
	}
}

func TestScanner_ScansAllRegisteredLanguageExtensions(t *testing.T) {
	tmpDir := t.TempDir()
	samples := map[string]string{
		"a.rb":  "ruby",
		"a.php": "php",
		"a.cs":  "csharp",
		"a.c":   "c",
		"a.cpp": "cpp",
		"a.kt":  "kotlin",
		"a.ex":  "elixir",
		"a.lua": "lua",
		"a.sh":  "bash",
		"a.zig": "zig",
	}
	for name := range samples {
		if err := os.WriteFile(filepath.Join(tmpDir, name), []byte("x"), 0644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	files, err := NewScanner().Scan(tmpDir)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(files) != len(samples) {
		t.Fatalf("got %d files, want %d", len(files), len(samples))
	}
	for _, f := range files {
		want := samples[filepath.Base(f.Path)]
		if f.Language != want {
			t.Errorf("%s: Language = %q, want %q", f.Path, f.Language, want)
		}
	}
}
