// Package langdesc is the Grammar Registry (spec.md §4.1): a process-wide,
// read-only-after-init table mapping a source-language tag to its
// tree-sitter grammar, its seven query sources, and its language policy
// (scope classification, per-category match classifiers, string
// normalisation, comment node kinds).
//
// Registration mirrors _examples/DeusData-codebase-memory-mcp/internal/lang's
// init()-time Register pattern; the per-language query/extractor split
// mirrors _examples/njenia-envgrd/internal/languages.
package langdesc

import (
	"sync"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/jenian/envbind/internal/graph"
)

// Capture is one named capture produced by a query match: its text, byte
// span, and grammar node kind (e.g. "identifier", "function_declaration")
// — the last is what Pass 1 uses to classify a captured scope node
// without re-walking the tree.
type Capture struct {
	Text     string
	Span     graph.Span
	NodeKind string
}

// Match is a single query match, indexed by capture name. A capture name
// may legally be absent from a match (optional captures like
// bound_env_var? or destructure_key?).
type Match map[string]Capture

// ReferenceResult is what ClassifyReference extracts from one references
// match.
type ReferenceResult struct {
	Name string
	// NameCapture is the capture name whose span is the env-var-name
	// token (used to compute EnvReference.NameSpan); defaults to "key" if
	// empty.
	NameCapture string
	// FullCapture is the capture name whose span is the whole access
	// expression; defaults to NameCapture's span if empty.
	FullCapture string
}

// BindingKind distinguishes the two binding shapes pass 3 recognizes.
type BindingKind int

const (
	BindingNone BindingKind = iota
	BindingEnvVar
	BindingEnvObject
)

// BindingResult is what ClassifyBinding extracts from one bindings match.
type BindingResult struct {
	Kind       BindingKind
	BindingName string
	EnvVarName  string
	// NameCapture is the capture holding the declared identifier's span.
	NameCapture string
}

// ChainResult is what ClassifyAssignment/ClassifyDestructure extract:
// a target identifier assigned from a source identifier, optionally via a
// property key (destructure) and optionally carrying a default-value
// expression for diagnostics (spec.md §9).
type ChainResult struct {
	TargetName   string
	TargetCapture string
	SourceName   string
	SourceCapture string
	Key          string
	HasKey       bool
	Default      string
}

// ReassignResult is what ClassifyReassignment extracts: the name being
// reassigned and the capture whose span marks where validity should end.
type ReassignResult struct {
	Name        string
	NameCapture string
}

// PropertyAccessResult is what ClassifyPropertyAccess extracts from one
// property-accesses match: a single-level object.property (or
// object["property"]) access whose object is a bare identifier that may
// turn out, once pass 3/4 have run, to be bound to the language's env
// object. Pass 5b resolves the object and only then decides whether this
// candidate becomes a direct reference (spec.md §1's `cfg.DATABASE_URL`
// off `cfg = env; env = process.env`); most candidates resolve to nothing
// and are discarded.
type PropertyAccessResult struct {
	ObjectName    string
	ObjectCapture string
	PropertyName  string
	FullCapture   string
}

// QuerySet holds the six compiled-once-per-process query sources for a
// language, keyed by spec.md §4.2's category table, plus the
// property-accesses query pass 5b uses to catch member access on
// resolved env-object aliases (supplemented feature; optional per
// language).
type QuerySet struct {
	Scopes           string
	References       string
	Bindings         string
	Assignments      string
	Destructures     string
	Reassignments    string
	PropertyAccesses string
}

// Descriptor is a language's full policy bundle (spec.md §4.1).
type Descriptor struct {
	Tag     string
	Grammar func() *sitter.Language
	Queries QuerySet

	// ScopeKind maps a scopes-query captured node's grammar type to a
	// graph.ScopeKind. ok=false means the node shouldn't introduce a scope
	// after all (defensive; scopes queries are written to avoid this).
	ScopeKind func(nodeType string) (graph.ScopeKind, bool)

	ClassifyReference      func(m Match) (ReferenceResult, bool)
	ClassifyBinding        func(m Match) (BindingResult, bool)
	ClassifyAssignment     func(m Match) (ChainResult, bool)
	ClassifyDestructure    func(m Match) (ChainResult, bool)
	ClassifyReassignment   func(m Match) (ReassignResult, bool)
	ClassifyPropertyAccess func(m Match) (PropertyAccessResult, bool)

	// Normalize strips quotes / collapses bracket-vs-dot notation for a
	// raw captured key token.
	Normalize func(raw string) string

	// CommentNodeKinds lists node kinds to treat as comments, so pass 2/5
	// can skip matches anchored inside them (supplemented feature, see
	// SPEC_FULL.md).
	CommentNodeKinds []string
}

var (
	mu       sync.RWMutex
	registry = map[string]*Descriptor{}
)

// Register adds a Descriptor to the process-wide table. Called from each
// language file's init(). Guarded by the registry mutex, so it is safe
// alongside Lookup.
func Register(d *Descriptor) {
	mu.Lock()
	defer mu.Unlock()
	registry[d.Tag] = d
}

// Lookup is the registry's only read operation: a pure, stateless
// function over the immutable post-init table (spec.md §4.1).
func Lookup(tag string) (*Descriptor, bool) {
	mu.RLock()
	defer mu.RUnlock()
	d, ok := registry[tag]
	return d, ok
}

// Tags returns every registered language tag, for diagnostics/tests.
func Tags() []string {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]string, 0, len(registry))
	for t := range registry {
		out = append(out, t)
	}
	return out
}

// NormalizeQuotes is the shared quote/backtick stripping rule most
// languages use (grounded on _examples/njenia-envgrd's trimQuotes, used
// across internal/languages/{go,python,rust,java}.go).
func NormalizeQuotes(s string) string {
	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if (first == '"' && last == '"') ||
			(first == '\'' && last == '\'') ||
			(first == '`' && last == '`') {
			return s[1 : len(s)-1]
		}
	}
	return s
}

// IsInsideAny reports whether span falls within any of the given spans,
// used for the comment-filtering supplemented feature.
func IsInsideAny(span graph.Span, spans []graph.Span) bool {
	for _, s := range spans {
		if span.Start >= s.Start && span.End <= s.End {
			return true
		}
	}
	return false
}
