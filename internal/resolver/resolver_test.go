package resolver

import (
	"context"
	"strings"
	"testing"

	"github.com/jenian/envbind/internal/graph"
	"github.com/jenian/envbind/internal/langdesc"
	"github.com/jenian/envbind/internal/pipeline"
	"github.com/jenian/envbind/internal/query"
)

func analyzeGo(t *testing.T, src string) (*graph.Graph, []byte) {
	t.Helper()
	desc, ok := langdesc.Lookup("go")
	if !ok {
		t.Fatal("go descriptor not registered")
	}
	eng := query.NewEngine()
	t.Cleanup(eng.Close)

	b := []byte(src)
	tree, err := eng.Parse(desc, b)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	t.Cleanup(tree.Close)

	p := pipeline.New(eng)
	g, err := p.Analyze(context.Background(), desc, tree, b)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	return g, b
}

func byteOffset(t *testing.T, src, needle string) int {
	t.Helper()
	i := strings.Index(src, needle)
	if i < 0 {
		t.Fatalf("needle %q not found in source", needle)
	}
	return i
}

func TestClassifyDirectReferenceTakesPriorityOverEverythingElse(t *testing.T) {
	src := "package main\n\nimport \"os\"\n\nfunc main() {\n\tv := os.Getenv(\"DATABASE_URL\")\n\t_ = v\n}\n"
	g, _ := analyzeGo(t, src)

	pos := byteOffset(t, src, "DATABASE_URL")
	r := New()
	hit := r.Classify(g, pos)
	if hit.Kind != DirectReference {
		t.Fatalf("Classify at env var literal = %v, want DirectReference", hit.Kind)
	}
	if hit.VarName != "DATABASE_URL" {
		t.Fatalf("VarName = %q, want DATABASE_URL", hit.VarName)
	}
}

func TestClassifySymbolDeclarationAndUsage(t *testing.T) {
	src := "package main\n\nimport \"os\"\n\nfunc main() {\n\turl := os.Getenv(\"DATABASE_URL\")\n\tconnect(url)\n}\n"
	g, _ := analyzeGo(t, src)
	r := New()

	declPos := byteOffset(t, src, "url :=")
	declHit := r.Classify(g, declPos)
	if declHit.Kind != SymbolDeclaration {
		t.Fatalf("Classify at declaration = %v, want SymbolDeclaration", declHit.Kind)
	}
	if declHit.Origin.Kind != graph.OriginEnvVar || declHit.Origin.EnvVarName != "DATABASE_URL" {
		t.Fatalf("declaration origin = %+v, want EnvVar(DATABASE_URL)", declHit.Origin)
	}

	usagePos := byteOffset(t, src, "connect(url)") + len("connect(")
	usageHit := r.Classify(g, usagePos)
	if usageHit.Kind != Usage {
		t.Fatalf("Classify at usage = %v, want Usage", usageHit.Kind)
	}
	if usageHit.Origin.Kind != graph.OriginEnvVar || usageHit.Origin.EnvVarName != "DATABASE_URL" {
		t.Fatalf("usage origin = %+v, want EnvVar(DATABASE_URL)", usageHit.Origin)
	}
	if usageHit.SymbolID != declHit.SymbolID {
		t.Fatalf("usage symbol %d != declaration symbol %d", usageHit.SymbolID, declHit.SymbolID)
	}
}

func TestClassifyNoneOnPlainCode(t *testing.T) {
	src := "package main\n\nfunc main() {\n\tx := 1\n\t_ = x\n}\n"
	g, _ := analyzeGo(t, src)

	pos := byteOffset(t, src, "x := 1")
	r := New()
	hit := r.Classify(g, pos)
	if hit.Kind != None {
		t.Fatalf("Classify on unrelated code = %v, want None", hit.Kind)
	}
}
