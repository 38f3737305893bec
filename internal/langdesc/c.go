package langdesc

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_c "github.com/tree-sitter/tree-sitter-c/bindings/go"

	"github.com/jenian/envbind/internal/graph"
)

// Grounded on _examples/original_source/src/languages/c.rs:
// is_standard_env_object (getenv/secure_getenv, bare function calls with
// no receiver object), is_scope_node's node list.

const cScopeQuery = `
[
  (function_definition) @scope_node
  (compound_statement) @scope_node
  (for_statement) @scope_node
  (if_statement) @scope_node
  (while_statement) @scope_node
  (do_statement) @scope_node
  (switch_statement) @scope_node
]
`

const cReferencesQuery = `
(call_expression
  function: (identifier) @fn
  arguments: (argument_list (string_literal) @key)) @full_expr
`

const cBindingsQuery = `
(init_declarator
  declarator: (identifier) @binding_name
  value: (call_expression
    function: (identifier) @fn
    arguments: (argument_list (string_literal) @key))) @binding_node
`

const cAssignmentsQuery = `
(init_declarator
  declarator: (identifier) @target
  value: (identifier) @source) @assign_node
`

const cReassignmentsQuery = `
(assignment_expression
  left: (identifier) @reassigned_name) @reassign_node
`

func cScopeKind(nodeType string) (graph.ScopeKind, bool) {
	switch nodeType {
	case "function_definition":
		return graph.ScopeFunction, true
	case "for_statement", "while_statement", "do_statement":
		return graph.ScopeLoop, true
	case "if_statement", "switch_statement":
		return graph.ScopeConditional, true
	case "compound_statement":
		return graph.ScopeBlock, true
	default:
		return graph.ScopeBlock, false
	}
}

func cIsGetenv(fn string) bool {
	return fn == "getenv" || fn == "secure_getenv"
}

func cClassifyReference(m Match) (ReferenceResult, bool) {
	fn, ok := m["fn"]
	key, kok := m["key"]
	if !ok || !kok || !cIsGetenv(fn.Text) {
		return ReferenceResult{}, false
	}
	return ReferenceResult{Name: NormalizeQuotes(key.Text), NameCapture: "key", FullCapture: "full_expr"}, true
}

func cClassifyBinding(m Match) (BindingResult, bool) {
	name, nok := m["binding_name"]
	fn, ok := m["fn"]
	key, kok := m["key"]
	if !nok || !ok || !kok || !cIsGetenv(fn.Text) {
		return BindingResult{}, false
	}
	return BindingResult{Kind: BindingEnvVar, BindingName: name.Text, EnvVarName: NormalizeQuotes(key.Text), NameCapture: "binding_name"}, true
}

func init() {
	Register(&Descriptor{
		Tag: "c",
		Grammar: func() *sitter.Language {
			return sitter.NewLanguage(tree_sitter_c.Language())
		},
		Queries: QuerySet{
			Scopes:        cScopeQuery,
			References:    cReferencesQuery,
			Bindings:      cBindingsQuery,
			Assignments:   cAssignmentsQuery,
			Reassignments: cReassignmentsQuery,
		},
		ScopeKind:         cScopeKind,
		ClassifyReference: cClassifyReference,
		ClassifyBinding:   cClassifyBinding,
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
