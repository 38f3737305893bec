package langdesc

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_csharp "github.com/tree-sitter/tree-sitter-c-sharp/bindings/go"

	"github.com/jenian/envbind/internal/graph"
)

// Grounded on _examples/original_source/src/languages/csharp.rs:
// is_standard_env_object ("Environment"), is_scope_node's node list.

const csharpScopeQuery = `
[
  (method_declaration) @scope_node
  (constructor_declaration) @scope_node
  (local_function_statement) @scope_node
  (lambda_expression) @scope_node
  (class_declaration) @scope_node
  (struct_declaration) @scope_node
  (interface_declaration) @scope_node
  (namespace_declaration) @scope_node
  (block) @scope_node
  (for_statement) @scope_node
  (foreach_statement) @scope_node
  (if_statement) @scope_node
  (while_statement) @scope_node
  (do_statement) @scope_node
  (switch_statement) @scope_node
  (try_statement) @scope_node
  (catch_clause) @scope_node
]
`

const csharpReferencesQuery = `
(invocation_expression
  function: (member_access_expression
    expression: (identifier) @obj
    name: (identifier) @method)
  arguments: (argument_list (argument (string_literal) @key))) @full_expr
`

const csharpBindingsQuery = `
(variable_declarator
  name: (identifier) @binding_name
  value: (invocation_expression
    function: (member_access_expression
      expression: (identifier) @obj
      name: (identifier) @method)
    arguments: (argument_list (argument (string_literal) @key)))) @binding_node
`

const csharpAssignmentsQuery = `
(variable_declarator
  name: (identifier) @target
  value: (identifier) @source) @assign_node
`

const csharpReassignmentsQuery = `
(assignment_expression
  left: (identifier) @reassigned_name) @reassign_node
`

func csharpScopeKind(nodeType string) (graph.ScopeKind, bool) {
	switch nodeType {
	case "method_declaration", "constructor_declaration", "local_function_statement", "lambda_expression":
		return graph.ScopeFunction, true
	case "class_declaration", "struct_declaration", "interface_declaration", "namespace_declaration":
		return graph.ScopeClass, true
	case "for_statement", "foreach_statement", "while_statement", "do_statement":
		return graph.ScopeLoop, true
	case "if_statement", "switch_statement":
		return graph.ScopeConditional, true
	case "try_statement":
		return graph.ScopeTry, true
	case "catch_clause":
		return graph.ScopeCatch, true
	case "block":
		return graph.ScopeBlock, true
	default:
		return graph.ScopeBlock, false
	}
}

func csharpClassifyReference(m Match) (ReferenceResult, bool) {
	obj, ok := m["obj"]
	method, mok := m["method"]
	key, kok := m["key"]
	if !ok || !mok || !kok || obj.Text != "Environment" || method.Text != "GetEnvironmentVariable" {
		return ReferenceResult{}, false
	}
	return ReferenceResult{Name: NormalizeQuotes(key.Text), NameCapture: "key", FullCapture: "full_expr"}, true
}

func csharpClassifyBinding(m Match) (BindingResult, bool) {
	name, nok := m["binding_name"]
	if !nok {
		return BindingResult{}, false
	}
	r, ok := csharpClassifyReference(m)
	if !ok {
		return BindingResult{}, false
	}
	return BindingResult{Kind: BindingEnvVar, BindingName: name.Text, EnvVarName: r.Name, NameCapture: "binding_name"}, true
}

func init() {
	Register(&Descriptor{
		Tag: "csharp",
		Grammar: func() *sitter.Language {
			return sitter.NewLanguage(tree_sitter_csharp.Language())
		},
		Queries: QuerySet{
			Scopes:        csharpScopeQuery,
			References:    csharpReferencesQuery,
			Bindings:      csharpBindingsQuery,
			Assignments:   csharpAssignmentsQuery,
			Reassignments: csharpReassignmentsQuery,
		},
		ScopeKind:         csharpScopeKind,
		ClassifyReference: csharpClassifyReference,
		ClassifyBinding:   csharpClassifyBinding,
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
