package langdesc

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_cpp "github.com/tree-sitter/tree-sitter-cpp/bindings/go"

	"github.com/jenian/envbind/internal/graph"
)

// Grounded on _examples/original_source/src/languages/cpp.rs:
// is_standard_env_object (getenv/secure_getenv/std::getenv),
// is_scope_node's node list (adds class_specifier, namespace_definition,
// lambda_expression, for_range_loop relative to C).

const cppScopeQuery = `
[
  (function_definition) @scope_node
  (compound_statement) @scope_node
  (for_statement) @scope_node
  (for_range_loop) @scope_node
  (if_statement) @scope_node
  (while_statement) @scope_node
  (do_statement) @scope_node
  (switch_statement) @scope_node
  (class_specifier) @scope_node
  (namespace_definition) @scope_node
  (lambda_expression) @scope_node
  (try_statement) @scope_node
]
`

const cppReferencesQuery = `
[
  (call_expression
    function: (identifier) @fn
    arguments: (argument_list (string_literal) @key)) @full_expr
  (call_expression
    function: (qualified_identifier name: (identifier) @fn)
    arguments: (argument_list (string_literal) @key)) @full_expr
]
`

const cppBindingsQuery = `
(declaration
  declarator: (init_declarator
    declarator: (identifier) @binding_name
    value: (call_expression
      function: (identifier) @fn
      arguments: (argument_list (string_literal) @key)))) @binding_node
`

const cppAssignmentsQuery = `
(declaration
  declarator: (init_declarator
    declarator: (identifier) @target
    value: (identifier) @source)) @assign_node
`

const cppReassignmentsQuery = `
(assignment_expression
  left: (identifier) @reassigned_name) @reassign_node
`

func cppScopeKind(nodeType string) (graph.ScopeKind, bool) {
	switch nodeType {
	case "function_definition", "lambda_expression":
		return graph.ScopeFunction, true
	case "class_specifier", "namespace_definition":
		return graph.ScopeClass, true
	case "for_statement", "for_range_loop", "while_statement", "do_statement":
		return graph.ScopeLoop, true
	case "if_statement", "switch_statement":
		return graph.ScopeConditional, true
	case "try_statement":
		return graph.ScopeTry, true
	case "compound_statement":
		return graph.ScopeBlock, true
	default:
		return graph.ScopeBlock, false
	}
}

func cppClassifyReference(m Match) (ReferenceResult, bool) {
	fn, ok := m["fn"]
	key, kok := m["key"]
	if !ok || !kok || !cIsGetenv(fn.Text) {
		return ReferenceResult{}, false
	}
	return ReferenceResult{Name: NormalizeQuotes(key.Text), NameCapture: "key", FullCapture: "full_expr"}, true
}

func cppClassifyBinding(m Match) (BindingResult, bool) {
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
		Tag: "cpp",
		Grammar: func() *sitter.Language {
			return sitter.NewLanguage(tree_sitter_cpp.Language())
		},
		Queries: QuerySet{
			Scopes:        cppScopeQuery,
			References:    cppReferencesQuery,
			Bindings:      cppBindingsQuery,
			Assignments:   cppAssignmentsQuery,
			Reassignments: cppReassignmentsQuery,
		},
		ScopeKind:         cppScopeKind,
		ClassifyReference: cppClassifyReference,
		ClassifyBinding:   cppClassifyBinding,
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
