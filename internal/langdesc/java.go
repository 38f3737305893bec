package langdesc

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_java "github.com/tree-sitter/tree-sitter-java/bindings/go"

	"github.com/jenian/envbind/internal/graph"
)

// Grounded on _examples/njenia-envgrd/internal/languages/java.go's
// JavaQuery (System.getenv("KEY") / System.getenv().get("KEY")).

const javaScopeQuery = `
[
  (method_declaration) @scope_node
  (constructor_declaration) @scope_node
  (class_declaration) @scope_node
  (lambda_expression) @scope_node
  (block) @scope_node
  (for_statement) @scope_node
  (enhanced_for_statement) @scope_node
  (while_statement) @scope_node
  (if_statement) @scope_node
  (try_statement) @scope_node
  (catch_clause) @scope_node
]
`

const javaReferencesQuery = `
[
  (method_invocation
    object: (identifier) @obj
    name: (identifier) @method
    arguments: (argument_list (string_literal) @key)) @full_expr
  (method_invocation
    object: (method_invocation object: (identifier) @obj name: (identifier) @method1)
    name: (identifier) @method2
    arguments: (argument_list (string_literal) @key)) @full_expr
]
`

const javaBindingsQuery = `
(local_variable_declaration
  declarator: (variable_declarator
    name: (identifier) @binding_name
    value: (method_invocation
      object: (identifier) @obj
      name: (identifier) @method
      arguments: (argument_list (string_literal) @key)))) @binding_node
`

const javaAssignmentsQuery = `
(local_variable_declaration
  declarator: (variable_declarator
    name: (identifier) @target
    value: (identifier) @source)) @assign_node
`

const javaDestructuresQuery = ``

const javaReassignmentsQuery = `
(assignment_expression
  left: (identifier) @reassigned_name) @reassign_node
`

func javaScopeKind(nodeType string) (graph.ScopeKind, bool) {
	switch nodeType {
	case "method_declaration", "constructor_declaration", "lambda_expression":
		return graph.ScopeFunction, true
	case "class_declaration":
		return graph.ScopeClass, true
	case "for_statement", "enhanced_for_statement", "while_statement":
		return graph.ScopeLoop, true
	case "if_statement":
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

func javaIsSystemGetenv(m Match) bool {
	obj, ok := m["obj"]
	method, mok := m["method"]
	if ok && mok && obj.Text == "System" && method.Text == "getenv" {
		return true
	}
	method1, m1ok := m["method1"]
	method2, m2ok := m["method2"]
	if ok && m1ok && m2ok && obj.Text == "System" && method1.Text == "getenv" && method2.Text == "get" {
		return true
	}
	return false
}

func javaClassifyReference(m Match) (ReferenceResult, bool) {
	key, kok := m["key"]
	if !kok || !javaIsSystemGetenv(m) {
		return ReferenceResult{}, false
	}
	return ReferenceResult{Name: NormalizeQuotes(key.Text), NameCapture: "key", FullCapture: "full_expr"}, true
}

func javaClassifyBinding(m Match) (BindingResult, bool) {
	name, nok := m["binding_name"]
	key, kok := m["key"]
	if !nok || !kok || !javaIsSystemGetenv(m) {
		return BindingResult{}, false
	}
	return BindingResult{Kind: BindingEnvVar, BindingName: name.Text, EnvVarName: NormalizeQuotes(key.Text), NameCapture: "binding_name"}, true
}

func javaClassifyAssignment(m Match) (ChainResult, bool) {
	target, ok := m["target"]
	source, sok := m["source"]
	if !ok || !sok {
		return ChainResult{}, false
	}
	return ChainResult{TargetName: target.Text, TargetCapture: "target", SourceName: source.Text, SourceCapture: "source"}, true
}

func javaClassifyReassignment(m Match) (ReassignResult, bool) {
	name, ok := m["reassigned_name"]
	if !ok {
		return ReassignResult{}, false
	}
	return ReassignResult{Name: name.Text, NameCapture: "reassigned_name"}, true
}

func init() {
	Register(&Descriptor{
		Tag: "java",
		Grammar: func() *sitter.Language {
			return sitter.NewLanguage(tree_sitter_java.Language())
		},
		Queries: QuerySet{
			Scopes:        javaScopeQuery,
			References:    javaReferencesQuery,
			Bindings:      javaBindingsQuery,
			Assignments:   javaAssignmentsQuery,
			Destructures:  javaDestructuresQuery,
			Reassignments: javaReassignmentsQuery,
		},
		ScopeKind:          javaScopeKind,
		ClassifyReference:  javaClassifyReference,
		ClassifyBinding:    javaClassifyBinding,
		ClassifyAssignment: javaClassifyAssignment,
		ClassifyDestructure: func(Match) (ChainResult, bool) {
			return ChainResult{}, false
		},
		ClassifyReassignment: javaClassifyReassignment,
		Normalize:            NormalizeQuotes,
		CommentNodeKinds:     []string{"line_comment", "block_comment"},
	})
}
