package langdesc

import "testing"

var wantTags = []string{
	"javascript", "typescript", "python", "go", "rust", "java", "ruby", "php",
	"csharp", "c", "cpp", "kotlin", "elixir", "lua", "bash", "zig",
}

func TestAllLanguagesRegistered(t *testing.T) {
	for _, tag := range wantTags {
		d, ok := Lookup(tag)
		if !ok {
			t.Errorf("Lookup(%q) not registered", tag)
			continue
		}
		if d.Grammar == nil {
			t.Errorf("%s: nil Grammar func", tag)
		}
		if d.Grammar() == nil {
			t.Errorf("%s: Grammar() returned nil", tag)
		}
		if d.Queries.Scopes == "" {
			t.Errorf("%s: empty scopes query", tag)
		}
		if d.Queries.References == "" {
			t.Errorf("%s: empty references query", tag)
		}
		if d.ClassifyReference == nil {
			t.Errorf("%s: nil ClassifyReference", tag)
		}
		if d.ScopeKind == nil {
			t.Errorf("%s: nil ScopeKind", tag)
		}
	}
}

func TestLookupUnknownLanguage(t *testing.T) {
	if _, ok := Lookup("cobol"); ok {
		t.Fatal("expected cobol to be unregistered")
	}
}

func TestNormalizeQuotesStripsMatchingPairs(t *testing.T) {
	cases := map[string]string{
		`"DATABASE_URL"`: "DATABASE_URL",
		`'DATABASE_URL'`: "DATABASE_URL",
		"`DATABASE_URL`": "DATABASE_URL",
		"DATABASE_URL":   "DATABASE_URL",
		`"mismatched'`:   `"mismatched'`,
	}
	for in, want := range cases {
		if got := NormalizeQuotes(in); got != want {
			t.Errorf("NormalizeQuotes(%q) = %q, want %q", in, got, want)
		}
	}
}
