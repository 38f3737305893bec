// Package valuemask is the masking-policy collaborator spec.md §6 names:
// it decides how a resolved env value is displayed, never how it's
// stored. The core never persists an unmasked value through this
// package — it only ever formats one for display. No teacher precedent
// exists (the teacher never displays resolved values, only
// present/missing diffs); implemented fresh in the teacher's plain
// top-level-function style (see internal/envfile's parsers.go for the
// same convention: small pure functions, no receiver state).
package valuemask

import "strings"

// Context carries whatever a caller knows about where a value is about
// to be shown, so Display can vary its policy (e.g. a CLI flag asking
// for full values during local debugging).
type Context struct {
	// Reveal, when true, bypasses masking entirely. Never set from
	// persisted configuration — only from an explicit, per-invocation
	// CLI flag (spec.md §6 treats unmasking as the caller's call, not the
	// core's).
	Reveal bool

	// SensitiveNameHints lists substrings (case-insensitive) that mark a
	// variable name as sensitive even when Reveal is false for the rest
	// of the document — e.g. "SECRET", "TOKEN", "PASSWORD", "KEY".
	SensitiveNameHints []string
}

// Policy decides how a resolved value is shown to a caller.
type Policy struct {
	hints []string
}

// DefaultHints mirrors the name fragments most secret-scanning tools
// flag by default.
var DefaultHints = []string{"SECRET", "TOKEN", "PASSWORD", "KEY", "CREDENTIAL"}

// NewPolicy builds a Policy with the given name hints, falling back to
// DefaultHints when none are given.
func NewPolicy(hints []string) *Policy {
	if len(hints) == 0 {
		hints = DefaultHints
	}
	return &Policy{hints: hints}
}

// Display returns value formatted for a caller, masked unless ctx.Reveal
// is set. varName feeds the sensitive-name heuristic even when Reveal is
// requested for less sensitive values elsewhere in the same document.
func (p *Policy) Display(varName, value string, ctx Context) string {
	if value == "" {
		return ""
	}
	if ctx.Reveal && !p.looksSensitive(varName, ctx.SensitiveNameHints) {
		return value
	}
	return mask(value)
}

func (p *Policy) looksSensitive(varName string, extra []string) bool {
	hints := p.hints
	if len(extra) > 0 {
		hints = append(append([]string{}, hints...), extra...)
	}
	upper := strings.ToUpper(varName)
	for _, h := range hints {
		if strings.Contains(upper, strings.ToUpper(h)) {
			return true
		}
	}
	return false
}

// mask shows only a short prefix/suffix of a value, enough to recognize
// it without disclosing it, matching the abbreviated-secret convention
// secret scanners and CI logs commonly use.
func mask(value string) string {
	const keep = 2
	if len(value) <= keep*2 {
		return "****"
	}
	return value[:keep] + "****" + value[len(value)-keep:]
}
