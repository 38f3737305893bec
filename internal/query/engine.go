// Package query is the Query Engine (spec.md §4.2): it owns bounded
// per-language tree-sitter parser and cursor pools and runs a compiled
// query over a parsed tree, returning named captures keyed by
// internal/langdesc's Match shape.
package query

import (
	"fmt"
	"sync"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/jenian/envbind/internal/graph"
	"github.com/jenian/envbind/internal/langdesc"
)

// Bounds on pooled parsers/cursors per language, grounded on
// _examples/original_source/src/analysis/query.rs's ParserPool constants.
const (
	maxParsersPerLanguage = 4
	maxCursorsPerLanguage = 8
)

// Category names one of the seven query kinds a Descriptor carries.
type Category int

const (
	CategoryScopes Category = iota
	CategoryReferences
	CategoryBindings
	CategoryAssignments
	CategoryDestructures
	CategoryReassignments
	CategoryPropertyAccesses
)

// boundedPool is a fixed-capacity free-list: Get returns a pooled item if
// one is idle, otherwise allocates a fresh one via new; Put returns an
// item to the free-list, dropping it (letting the GC reclaim it) once the
// list is already at capacity. This is the Go-idiomatic reading of
// _examples/original_source/src/analysis/query.rs's ParserPool, which
// bounds live instances at MAX_PARSERS_PER_LANGUAGE/MAX_CURSORS rather
// than growing unboundedly under concurrent load.
type boundedPool struct {
	free chan any
	new  func() any
}

func newBoundedPool(capacity int, newFn func() any) *boundedPool {
	return &boundedPool{free: make(chan any, capacity), new: newFn}
}

func (p *boundedPool) Get() any {
	select {
	case v := <-p.free:
		return v
	default:
		return p.new()
	}
}

func (p *boundedPool) Put(v any) {
	select {
	case p.free <- v:
	default:
		// at capacity; drop v for the GC to reclaim.
	}
}

// Engine compiles and runs tree-sitter queries against parsed source,
// reusing parsers and query cursors per language through bounded pools.
// _examples/njenia-envgrd/internal/parser/parser.go creates a fresh
// *sitter.Parser per file to dodge CGO concurrency hazards; pooling with
// exclusive per-Get ownership gets the same safety without reallocating a
// tree-sitter parser (and its internal arena) on every document edit.
type Engine struct {
	mu      sync.Mutex
	parsers map[string]*boundedPool
	cursors map[string]*boundedPool

	compiledMu sync.RWMutex
	compiled   map[compiledKey]*sitter.Query
}

type compiledKey struct {
	lang     string
	category Category
}

// NewEngine builds an empty Engine; pools are populated lazily per
// language on first use.
func NewEngine() *Engine {
	return &Engine{
		parsers:  make(map[string]*boundedPool),
		cursors:  make(map[string]*boundedPool),
		compiled: make(map[compiledKey]*sitter.Query),
	}
}

// pooledParser is a tree-sitter parser bound to a single language,
// reused across Parse calls. Never shared across goroutines concurrently
// — callers must return it before another goroutine acquires it, which
// the pool's Get/Put discipline guarantees.
type pooledParser struct {
	parser *sitter.Parser
}

func (e *Engine) parserPool(desc *langdesc.Descriptor) *boundedPool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if p, ok := e.parsers[desc.Tag]; ok {
		return p
	}
	lang := desc.Grammar()
	pool := newBoundedPool(maxParsersPerLanguage, func() any {
		p := sitter.NewParser()
		p.SetLanguage(lang)
		return &pooledParser{parser: p}
	})
	e.parsers[desc.Tag] = pool
	return pool
}

func (e *Engine) cursorPool(desc *langdesc.Descriptor) *boundedPool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if p, ok := e.cursors[desc.Tag]; ok {
		return p
	}
	pool := newBoundedPool(maxCursorsPerLanguage, func() any {
		return sitter.NewQueryCursor()
	})
	e.cursors[desc.Tag] = pool
	return pool
}

// Parse parses src with desc's grammar, returning the resulting tree. The
// caller owns the returned tree and must Close it. Mirrors
// _examples/njenia-envgrd/internal/parser/parser.go's parse-then-defer-Close
// lifecycle, with the *sitter.Parser itself returned to the pool instead
// of discarded.
func (e *Engine) Parse(desc *langdesc.Descriptor, src []byte) (*sitter.Tree, error) {
	pool := e.parserPool(desc)
	pp := pool.Get().(*pooledParser)
	defer pool.Put(pp)

	tree := pp.parser.Parse(src, nil)
	if tree == nil {
		return nil, fmt.Errorf("query: parse failed for language %q", desc.Tag)
	}
	return tree, nil
}

func (e *Engine) queryFor(desc *langdesc.Descriptor, category Category) (*sitter.Query, error) {
	key := compiledKey{lang: desc.Tag, category: category}

	e.compiledMu.RLock()
	if q, ok := e.compiled[key]; ok {
		e.compiledMu.RUnlock()
		return q, nil
	}
	e.compiledMu.RUnlock()

	src := categorySource(desc, category)
	if src == "" {
		return nil, nil
	}

	e.compiledMu.Lock()
	defer e.compiledMu.Unlock()
	if q, ok := e.compiled[key]; ok {
		return q, nil
	}
	q, err := sitter.NewQuery(desc.Grammar(), src)
	if err != nil {
		return nil, fmt.Errorf("query: compile %s/%d: %w", desc.Tag, category, err)
	}
	e.compiled[key] = q
	return q, nil
}

func categorySource(desc *langdesc.Descriptor, category Category) string {
	switch category {
	case CategoryScopes:
		return desc.Queries.Scopes
	case CategoryReferences:
		return desc.Queries.References
	case CategoryBindings:
		return desc.Queries.Bindings
	case CategoryAssignments:
		return desc.Queries.Assignments
	case CategoryDestructures:
		return desc.Queries.Destructures
	case CategoryReassignments:
		return desc.Queries.Reassignments
	case CategoryPropertyAccesses:
		return desc.Queries.PropertyAccesses
	default:
		return ""
	}
}

// Run executes category's query over tree, returning every match as a
// langdesc.Match keyed by capture name. Returns nil, nil if the language
// has no query for that category (e.g. Go's destructures).
func (e *Engine) Run(desc *langdesc.Descriptor, category Category, tree *sitter.Tree, src []byte) ([]langdesc.Match, error) {
	q, err := e.queryFor(desc, category)
	if err != nil {
		return nil, err
	}
	if q == nil {
		return nil, nil
	}

	pool := e.cursorPool(desc)
	cursor := pool.Get().(*sitter.QueryCursor)
	defer pool.Put(cursor)

	names := q.CaptureNames()
	matchIter := cursor.Matches(q, tree.RootNode(), src)

	var out []langdesc.Match
	for {
		m := matchIter.Next()
		if m == nil {
			break
		}
		match := make(langdesc.Match, len(m.Captures))
		for _, cap := range m.Captures {
			idx := int(cap.Index)
			if idx >= len(names) {
				continue
			}
			name := names[idx]
			node := cap.Node
			match[name] = langdesc.Capture{
				Text:     string(src[node.StartByte():node.EndByte()]),
				Span:     graph.Span{Start: int(node.StartByte()), End: int(node.EndByte())},
				NodeKind: node.Kind(),
			}
		}
		out = append(out, match)
	}
	return out, nil
}

// Close releases every compiled query this engine holds. Parser and
// cursor pool members are left for the GC — boundedPool has no explicit
// teardown.
func (e *Engine) Close() {
	e.compiledMu.Lock()
	defer e.compiledMu.Unlock()
	for _, q := range e.compiled {
		q.Close()
	}
	e.compiled = make(map[compiledKey]*sitter.Query)
}
