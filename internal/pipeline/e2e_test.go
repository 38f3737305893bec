package pipeline_test

import (
	"context"
	"strings"
	"testing"

	"github.com/jenian/envbind/internal/graph"
	"github.com/jenian/envbind/internal/langdesc"
	"github.com/jenian/envbind/internal/pipeline"
	"github.com/jenian/envbind/internal/query"
	"github.com/jenian/envbind/internal/resolver"
)

// One subtest per source-language shape in spec.md's "End-to-end
// scenarios": these exercise the alias/destructure/property-access
// interactions a single-language unit test never has to combine — an
// env-object alias read back through member access (TypeScript), a
// subscript read off an aliased dict (Python), a plain Alias chain (Go),
// a let-binding
// wrapped in `.unwrap()`/`.clone()` (Rust), an `$_ENV` alias read through
// a subscript (PHP), and scope-shadowed ENV reads (Ruby).

func analyzeLang(t *testing.T, lang, src string) (*graph.Graph, []byte) {
	t.Helper()
	desc, ok := langdesc.Lookup(lang)
	if !ok {
		t.Fatalf("%s descriptor not registered", lang)
	}
	eng := query.NewEngine()
	t.Cleanup(eng.Close)

	b := []byte(src)
	tree, err := eng.Parse(desc, b)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	t.Cleanup(tree.Close)

	g, err := pipeline.New(eng).Analyze(context.Background(), desc, tree, b)
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

func lastByteOffset(t *testing.T, src, needle string) int {
	t.Helper()
	i := strings.LastIndex(src, needle)
	if i < 0 {
		t.Fatalf("needle %q not found in source", needle)
	}
	return i
}

func TestE2ETypeScriptAliasPropertyAccess(t *testing.T) {
	src := `const env = process.env; const cfg = env; const x = cfg.DATABASE_URL;`
	g, _ := analyzeLang(t, "typescript", src)
	r := resolver.New()

	propPos := byteOffset(t, src, "DATABASE_URL")
	propHit := r.Classify(g, propPos)
	if propHit.Kind != resolver.DirectReference {
		t.Fatalf("Classify at cfg.DATABASE_URL's property = %v, want DirectReference", propHit.Kind)
	}
	if propHit.VarName != "DATABASE_URL" {
		t.Fatalf("VarName = %q, want DATABASE_URL", propHit.VarName)
	}

	xPos := byteOffset(t, src, "x = cfg")
	xHit := r.Classify(g, xPos)
	if xHit.Kind != resolver.SymbolDeclaration {
		t.Fatalf("Classify at x's declaration = %v, want SymbolDeclaration", xHit.Kind)
	}
	if xHit.Origin.Kind != graph.OriginEnvVar || xHit.Origin.EnvVarName != "DATABASE_URL" {
		t.Fatalf("x's origin = %+v, want EnvVar(DATABASE_URL)", xHit.Origin)
	}
}

func TestE2EPythonAliasSubscript(t *testing.T) {
	src := "env = os.environ\nval = env[\"DB\"]\n"
	g, _ := analyzeLang(t, "python", src)
	r := resolver.New()

	valPos := byteOffset(t, src, "val = env")
	hit := r.Classify(g, valPos)
	if hit.Kind != resolver.SymbolDeclaration {
		t.Fatalf("Classify at val's declaration = %v, want SymbolDeclaration", hit.Kind)
	}
	if hit.Origin.Kind != graph.OriginEnvVar || hit.Origin.EnvVarName != "DB" {
		t.Fatalf("val's origin = %+v, want EnvVar(DB)", hit.Origin)
	}
}

func TestE2EGoAliasChain(t *testing.T) {
	src := "package main\n\nimport \"os\"\n\nfunc main() {\n\tdb := os.Getenv(\"DATABASE_URL\")\n\tx := db\n\t_ = x\n}\n"
	g, _ := analyzeLang(t, "go", src)
	r := resolver.New()

	dbPos := byteOffset(t, src, "db :=")
	dbHit := r.Classify(g, dbPos)
	if dbHit.Kind != resolver.SymbolDeclaration {
		t.Fatalf("Classify at db's declaration = %v, want SymbolDeclaration", dbHit.Kind)
	}
	if dbHit.Origin.Kind != graph.OriginEnvVar || dbHit.Origin.EnvVarName != "DATABASE_URL" {
		t.Fatalf("db's origin = %+v, want EnvVar(DATABASE_URL)", dbHit.Origin)
	}

	xPos := byteOffset(t, src, "x := db")
	xHit := r.Classify(g, xPos)
	if xHit.Kind != resolver.SymbolDeclaration {
		t.Fatalf("Classify at x's declaration = %v, want SymbolDeclaration", xHit.Kind)
	}
	if xHit.Origin.Kind != graph.OriginEnvVar || xHit.Origin.EnvVarName != "DATABASE_URL" {
		t.Fatalf("x's terminal origin = %+v, want EnvVar(DATABASE_URL) via Alias", xHit.Origin)
	}
}

func TestE2ERustUnwrapAndCloneWrappedChain(t *testing.T) {
	src := `fn main() { let db = std::env::var("DB").unwrap(); let c = db.clone(); }`
	g, _ := analyzeLang(t, "rust", src)
	r := resolver.New()

	dbPos := byteOffset(t, src, "db = std")
	dbHit := r.Classify(g, dbPos)
	if dbHit.Kind != resolver.SymbolDeclaration {
		t.Fatalf("Classify at db's declaration = %v, want SymbolDeclaration", dbHit.Kind)
	}
	if dbHit.Origin.Kind != graph.OriginEnvVar || dbHit.Origin.EnvVarName != "DB" {
		t.Fatalf("db's origin = %+v, want EnvVar(DB)", dbHit.Origin)
	}

	cPos := byteOffset(t, src, "c = db.clone")
	cHit := r.Classify(g, cPos)
	if cHit.Kind != resolver.SymbolDeclaration {
		t.Fatalf("Classify at c's declaration = %v, want SymbolDeclaration", cHit.Kind)
	}
	if cHit.Origin.Kind != graph.OriginEnvVar || cHit.Origin.EnvVarName != "DB" {
		t.Fatalf("c's terminal origin = %+v, want EnvVar(DB) via Alias", cHit.Origin)
	}
}

func TestE2EPHPEnvSuperglobalAliasSubscript(t *testing.T) {
	src := "$env = $_ENV;\n$x = $env['TOKEN'];\n"
	g, _ := analyzeLang(t, "php", src)
	r := resolver.New()

	tokenPos := byteOffset(t, src, "TOKEN")
	tokenHit := r.Classify(g, tokenPos)
	if tokenHit.Kind != resolver.DirectReference {
		t.Fatalf("Classify at $env['TOKEN']'s key = %v, want DirectReference", tokenHit.Kind)
	}
	if tokenHit.VarName != "TOKEN" {
		t.Fatalf("VarName = %q, want TOKEN", tokenHit.VarName)
	}

	xPos := byteOffset(t, src, "x = $env")
	xHit := r.Classify(g, xPos)
	if xHit.Kind != resolver.SymbolDeclaration {
		t.Fatalf("Classify at $x's declaration = %v, want SymbolDeclaration", xHit.Kind)
	}
	if xHit.Origin.Kind != graph.OriginEnvVar || xHit.Origin.EnvVarName != "TOKEN" {
		t.Fatalf("$x's origin = %+v, want EnvVar(TOKEN)", xHit.Origin)
	}
}

func TestE2ERubyShadowedEnvRead(t *testing.T) {
	src := "def f\n  db = ENV['A']\nend\ndb = ENV['B']\nx = db\n"
	g, _ := analyzeLang(t, "ruby", src)
	r := resolver.New()

	xPos := byteOffset(t, src, "x = db")
	xHit := r.Classify(g, xPos)
	if xHit.Kind != resolver.SymbolDeclaration {
		t.Fatalf("Classify at outer x's declaration = %v, want SymbolDeclaration", xHit.Kind)
	}
	if xHit.Origin.Kind != graph.OriginEnvVar || xHit.Origin.EnvVarName != "B" {
		t.Fatalf("outer x's origin = %+v, want EnvVar(B); the inner f-scoped db must stay invisible here", xHit.Origin)
	}

	innerDBPos := byteOffset(t, src, "db = ENV['A']")
	outerDBPos := lastByteOffset(t, src, "db = ENV['B']")
	if innerDBPos == outerDBPos {
		t.Fatal("test fixture must distinguish the inner and outer db bindings")
	}
}
