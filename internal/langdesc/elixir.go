package langdesc

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_elixir "github.com/tree-sitter/tree-sitter-elixir/bindings/go"

	"github.com/jenian/envbind/internal/graph"
)

// Grounded on _examples/original_source/src/languages/elixir.rs:
// is_standard_env_object ("System"), is_scope_node's node list
// (do_block/anonymous_function/call/stab_clause). System.get_env/1,
// System.fetch_env/1 and System.fetch_env!/1 are the three call forms
// exercised by integration_elixir.rs.

const elixirScopeQuery = `
[
  (do_block) @scope_node
  (anonymous_function) @scope_node
  (call) @scope_node
  (stab_clause) @scope_node
]
`

const elixirReferencesQuery = `
(call
  target: (dot left: (alias) @obj right: (identifier) @fn)
  (arguments (string (quoted_content) @key))) @full_expr
`

const elixirBindingsQuery = `
(binary_operator
  left: (identifier) @binding_name
  operator: "="
  right: (call
    target: (dot left: (alias) @obj right: (identifier) @fn)
    (arguments (string (quoted_content) @key)))) @binding_node
`

const elixirAssignmentsQuery = `
(binary_operator
  left: (identifier) @target
  operator: "="
  right: (identifier) @source) @assign_node
`

const elixirReassignmentsQuery = `
(binary_operator
  left: (identifier) @reassigned_name
  operator: "=") @reassign_node
`

func elixirScopeKind(nodeType string) (graph.ScopeKind, bool) {
	switch nodeType {
	case "do_block", "anonymous_function", "stab_clause":
		return graph.ScopeFunction, true
	case "call":
		return graph.ScopeBlock, true
	default:
		return graph.ScopeBlock, false
	}
}

func elixirIsSystemEnv(m Match) bool {
	obj, ok := m["obj"]
	fn, fok := m["fn"]
	if !ok || !fok || obj.Text != "System" {
		return false
	}
	switch fn.Text {
	case "get_env", "fetch_env", "fetch_env!":
		return true
	default:
		return false
	}
}

func elixirClassifyReference(m Match) (ReferenceResult, bool) {
	key, kok := m["key"]
	if !kok || !elixirIsSystemEnv(m) {
		return ReferenceResult{}, false
	}
	return ReferenceResult{Name: NormalizeQuotes(key.Text), NameCapture: "key", FullCapture: "full_expr"}, true
}

func elixirClassifyBinding(m Match) (BindingResult, bool) {
	name, nok := m["binding_name"]
	key, kok := m["key"]
	if !nok || !kok || !elixirIsSystemEnv(m) {
		return BindingResult{}, false
	}
	return BindingResult{Kind: BindingEnvVar, BindingName: name.Text, EnvVarName: NormalizeQuotes(key.Text), NameCapture: "binding_name"}, true
}

func init() {
	Register(&Descriptor{
		Tag: "elixir",
		Grammar: func() *sitter.Language {
			return sitter.NewLanguage(tree_sitter_elixir.Language())
		},
		Queries: QuerySet{
			Scopes:        elixirScopeQuery,
			References:    elixirReferencesQuery,
			Bindings:      elixirBindingsQuery,
			Assignments:   elixirAssignmentsQuery,
			Reassignments: elixirReassignmentsQuery,
		},
		ScopeKind:         elixirScopeKind,
		ClassifyReference: elixirClassifyReference,
		ClassifyBinding:   elixirClassifyBinding,
		ClassifyAssignment: func(m Match) (ChainResult, bool) {
			target, ok := m["target"]
			source, sok := m["source"]
			if !ok || !sok {
				return ChainResult{}, false
			}
			return ChainResult{TargetName: target.Text, TargetCapture: "target", SourceName: source.Text, SourceCapture: "source"}, true
		},
		ClassifyDestructure: func(Match) (ChainResult, bool) { return ChainResult{}, false },
		ClassifyReassignment: func(m Match) (ReassignResult, bool) {
			name, ok := m["reassigned_name"]
			if !ok {
				return ReassignResult{}, false
			}
			return ReassignResult{Name: name.Text, NameCapture: "reassigned_name"}, true
		},
		Normalize:        NormalizeQuotes,
		CommentNodeKinds: []string{"comment"},
	})
}
