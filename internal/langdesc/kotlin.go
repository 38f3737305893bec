package langdesc

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_kotlin "github.com/tree-sitter-grammars/tree-sitter-kotlin/bindings/go"

	"github.com/jenian/envbind/internal/graph"
)

// Grounded on _examples/original_source/tests/integration_kotlin.rs's
// `val db = System.getenv("DB_URL")` fixture; JVM env-container policy
// shared with [[java]]'s System.getenv recognition.

const kotlinScopeQuery = `
[
  (function_declaration) @scope_node
  (lambda_literal) @scope_node
  (class_declaration) @scope_node
  (object_declaration) @scope_node
  (statements) @scope_node
  (for_statement) @scope_node
  (while_statement) @scope_node
  (do_while_statement) @scope_node
  (if_expression) @scope_node
  (catch_block) @scope_node
]
`

const kotlinReferencesQuery = `
(call_expression
  (navigation_expression
    (simple_identifier) @obj
    (navigation_suffix (simple_identifier) @method))
  (call_suffix (value_arguments (value_argument (string_literal (string_content) @key))))) @full_expr
`

const kotlinBindingsQuery = `
(property_declaration
  (variable_declaration (simple_identifier) @binding_name)
  (call_expression
    (navigation_expression
      (simple_identifier) @obj
      (navigation_suffix (simple_identifier) @method))
    (call_suffix (value_arguments (value_argument (string_literal (string_content) @key)))))) @binding_node
`

const kotlinAssignmentsQuery = `
(property_declaration
  (variable_declaration (simple_identifier) @target)
  (simple_identifier) @source) @assign_node
`

const kotlinReassignmentsQuery = `
(assignment
  (directly_assignable_expression (simple_identifier) @reassigned_name)) @reassign_node
`

func kotlinScopeKind(nodeType string) (graph.ScopeKind, bool) {
	switch nodeType {
	case "function_declaration", "lambda_literal":
		return graph.ScopeFunction, true
	case "class_declaration", "object_declaration":
		return graph.ScopeClass, true
	case "for_statement", "while_statement", "do_while_statement":
		return graph.ScopeLoop, true
	case "if_expression":
		return graph.ScopeConditional, true
	case "catch_block":
		return graph.ScopeCatch, true
	case "statements":
		return graph.ScopeBlock, true
	default:
		return graph.ScopeBlock, false
	}
}

func kotlinIsSystemGetenv(m Match) bool {
	obj, ok := m["obj"]
	method, mok := m["method"]
	return ok && mok && obj.Text == "System" && method.Text == "getenv"
}

func kotlinClassifyReference(m Match) (ReferenceResult, bool) {
	key, kok := m["key"]
	if !kok || !kotlinIsSystemGetenv(m) {
		return ReferenceResult{}, false
	}
	return ReferenceResult{Name: NormalizeQuotes(key.Text), NameCapture: "key", FullCapture: "full_expr"}, true
}

func kotlinClassifyBinding(m Match) (BindingResult, bool) {
	name, nok := m["binding_name"]
	key, kok := m["key"]
	if !nok || !kok || !kotlinIsSystemGetenv(m) {
		return BindingResult{}, false
	}
	return BindingResult{Kind: BindingEnvVar, BindingName: name.Text, EnvVarName: NormalizeQuotes(key.Text), NameCapture: "binding_name"}, true
}

func init() {
	Register(&Descriptor{
		Tag: "kotlin",
		Grammar: func() *sitter.Language {
			return sitter.NewLanguage(tree_sitter_kotlin.Language())
		},
		Queries: QuerySet{
			Scopes:        kotlinScopeQuery,
			References:    kotlinReferencesQuery,
			Bindings:      kotlinBindingsQuery,
			Assignments:   kotlinAssignmentsQuery,
			Reassignments: kotlinReassignmentsQuery,
		},
		ScopeKind:         kotlinScopeKind,
		ClassifyReference: kotlinClassifyReference,
		ClassifyBinding:   kotlinClassifyBinding,
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
		CommentNodeKinds: []string{"comment", "line_comment", "multiline_comment"},
	})
}
