package valuemask

import "testing"

func TestDisplayMasksByDefault(t *testing.T) {
	p := NewPolicy(nil)
	got := p.Display("DATABASE_URL", "postgres://secretpass@host", Context{})
	if got == "postgres://secretpass@host" {
		t.Fatal("expected masking, got the raw value")
	}
	if got[:2] != "po" || got[len(got)-2:] != "st" {
		t.Fatalf("got %q, want prefix/suffix preserved", got)
	}
}

func TestDisplayRevealsNonSensitiveWhenRequested(t *testing.T) {
	p := NewPolicy(nil)
	got := p.Display("PORT", "8080", Context{Reveal: true})
	if got != "8080" {
		t.Fatalf("got %q, want 8080", got)
	}
}

func TestDisplayNeverRevealsSensitiveNameEvenWithReveal(t *testing.T) {
	p := NewPolicy(nil)
	got := p.Display("API_SECRET_KEY", "sk-abcdef1234", Context{Reveal: true})
	if got == "sk-abcdef1234" {
		t.Fatal("expected a sensitive-named var to stay masked despite Reveal")
	}
}

func TestDisplayShortValueFullyMasked(t *testing.T) {
	p := NewPolicy(nil)
	if got := p.Display("X", "ab", Context{}); got != "****" {
		t.Fatalf("got %q, want ****", got)
	}
}

func TestDisplayEmptyValuePassesThrough(t *testing.T) {
	p := NewPolicy(nil)
	if got := p.Display("X", "", Context{}); got != "" {
		t.Fatalf("got %q, want empty string", got)
	}
}
