package query

import (
	"testing"

	"github.com/jenian/envbind/internal/langdesc"
)

func TestRunFindsGoGetenvReference(t *testing.T) {
	desc, ok := langdesc.Lookup("go")
	if !ok {
		t.Fatal("go descriptor not registered")
	}

	eng := NewEngine()
	defer eng.Close()

	src := []byte("package main\n\nimport \"os\"\n\nfunc main() {\n\tv := os.Getenv(\"DATABASE_URL\")\n\t_ = v\n}\n")
	tree, err := eng.Parse(desc, src)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	defer tree.Close()

	matches, err := eng.Run(desc, CategoryReferences, tree, src)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	found := false
	for _, m := range matches {
		if r, ok := desc.ClassifyReference(m); ok && r.Name == "DATABASE_URL" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a DATABASE_URL reference match, got %+v", matches)
	}
}

func TestRunReturnsNilForUnsupportedCategory(t *testing.T) {
	desc, ok := langdesc.Lookup("go")
	if !ok {
		t.Fatal("go descriptor not registered")
	}
	eng := NewEngine()
	defer eng.Close()

	src := []byte("package main\n")
	tree, err := eng.Parse(desc, src)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	defer tree.Close()

	matches, err := eng.Run(desc, CategoryDestructures, tree, src)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if matches != nil {
		t.Fatalf("expected nil matches for Go's empty destructures query, got %+v", matches)
	}
}

func TestParserPoolReusesAcrossCalls(t *testing.T) {
	desc, ok := langdesc.Lookup("python")
	if !ok {
		t.Fatal("python descriptor not registered")
	}
	eng := NewEngine()
	defer eng.Close()

	for i := 0; i < maxParsersPerLanguage+2; i++ {
		tree, err := eng.Parse(desc, []byte("x = os.environ['A']\n"))
		if err != nil {
			t.Fatalf("Parse iteration %d: %v", i, err)
		}
		tree.Close()
	}
	if idle := len(eng.parserPool(desc).free); idle != 1 {
		t.Fatalf("idle parsers after sequential parses = %d, want 1 (one parser reused)", idle)
	}
}
