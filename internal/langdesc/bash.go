package langdesc

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_bash "github.com/tree-sitter/tree-sitter-bash/bindings/go"

	"github.com/jenian/envbind/internal/graph"
)

// Grounded on _examples/original_source/src/languages/bash.rs:
// is_standard_env_object returns true unconditionally ("all variable
// expansions are env var access" — bash has no container object to
// check), and is_scope_node's node list. Covers $VAR, ${VAR}, and
// ${VAR:-default} (simple_expansion / expansion nodes).

const bashScopeQuery = `
[
  (function_definition) @scope_node
  (compound_statement) @scope_node
  (subshell) @scope_node
  (for_statement) @scope_node
  (while_statement) @scope_node
  (if_statement) @scope_node
  (case_statement) @scope_node
]
`

const bashReferencesQuery = `
[
  (simple_expansion (variable_name) @key) @full_expr
  (expansion (variable_name) @key) @full_expr
  (expansion (variable_name) @key "-" (_) @default) @full_expr
]
`

const bashBindingsQuery = `
(variable_assignment
  name: (variable_name) @binding_name
  value: (simple_expansion (variable_name) @key)) @binding_node
`

const bashAssignmentsQuery = `
(variable_assignment
  name: (variable_name) @target
  value: (simple_expansion (variable_name) @source)) @assign_node
`

const bashReassignmentsQuery = `
(variable_assignment
  name: (variable_name) @reassigned_name) @reassign_node
`

func bashScopeKind(nodeType string) (graph.ScopeKind, bool) {
	switch nodeType {
	case "function_definition":
		return graph.ScopeFunction, true
	case "for_statement", "while_statement":
		return graph.ScopeLoop, true
	case "if_statement", "case_statement":
		return graph.ScopeConditional, true
	case "compound_statement", "subshell":
		return graph.ScopeBlock, true
	default:
		return graph.ScopeBlock, false
	}
}

func bashClassifyReference(m Match) (ReferenceResult, bool) {
	key, kok := m["key"]
	if !kok {
		return ReferenceResult{}, false
	}
	return ReferenceResult{Name: key.Text, NameCapture: "key", FullCapture: "full_expr"}, true
}

func bashClassifyBinding(m Match) (BindingResult, bool) {
	name, nok := m["binding_name"]
	key, kok := m["key"]
	if !nok || !kok {
		return BindingResult{}, false
	}
	return BindingResult{Kind: BindingEnvVar, BindingName: name.Text, EnvVarName: key.Text, NameCapture: "binding_name"}, true
}

func init() {
	Register(&Descriptor{
		Tag: "bash",
		Grammar: func() *sitter.Language {
			return sitter.NewLanguage(tree_sitter_bash.Language())
		},
		Queries: QuerySet{
			Scopes:        bashScopeQuery,
			References:    bashReferencesQuery,
			Bindings:      bashBindingsQuery,
			Assignments:   bashAssignmentsQuery,
			Reassignments: bashReassignmentsQuery,
		},
		ScopeKind:         bashScopeKind,
		ClassifyReference: bashClassifyReference,
		ClassifyBinding:   bashClassifyBinding,
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
		Normalize:        func(s string) string { return s },
		CommentNodeKinds: []string{"comment"},
	})
}
