package langdesc

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_go "github.com/tree-sitter/tree-sitter-go/bindings/go"

	"github.com/jenian/envbind/internal/graph"
)

// Grounded on _examples/njenia-envgrd/internal/languages/go.go's GoQuery
// (os.Getenv("KEY")), extended to os.LookupEnv as a direct reference and
// short variable declarations for bindings/assignments/reassignments.

const goScopeQuery = `
[
  (function_declaration) @scope_node
  (func_literal) @scope_node
  (method_declaration) @scope_node
  (block) @scope_node
  (for_statement) @scope_node
  (if_statement) @scope_node
]
`

const goReferencesQuery = `
[
  (call_expression
    function: (selector_expression operand: (identifier) @obj field: (field_identifier) @fn)
    arguments: (argument_list (interpreted_string_literal) @key)) @full_expr
]
`

const goBindingsQuery = `
[
  (short_var_declaration
    left: (expression_list (identifier) @binding_name)
    right: (expression_list
      (call_expression
        function: (selector_expression operand: (identifier) @obj field: (field_identifier) @fn)
        arguments: (argument_list (interpreted_string_literal) @key)))) @binding_node
]
`

const goAssignmentsQuery = `
(short_var_declaration
  left: (expression_list (identifier) @target)
  right: (expression_list (identifier) @source)) @assign_node
`

// Go's env package exposes no destructuring shape distinct from a plain
// alias. LookupEnv's two-value form is recorded only as a direct
// reference; no symbol is bound for either of its results.
const goDestructuresQuery = ``

const goReassignmentsQuery = `
(assignment_statement
  left: (expression_list (identifier) @reassigned_name)) @reassign_node
`

func goScopeKind(nodeType string) (graph.ScopeKind, bool) {
	switch nodeType {
	case "function_declaration", "func_literal", "method_declaration":
		return graph.ScopeFunction, true
	case "for_statement":
		return graph.ScopeLoop, true
	case "if_statement":
		return graph.ScopeConditional, true
	case "block":
		return graph.ScopeBlock, true
	default:
		return graph.ScopeBlock, false
	}
}

func goClassifyReference(m Match) (ReferenceResult, bool) {
	obj, ok := m["obj"]
	fn, fok := m["fn"]
	key, kok := m["key"]
	if !ok || !fok || !kok || obj.Text != "os" || (fn.Text != "Getenv" && fn.Text != "LookupEnv") {
		return ReferenceResult{}, false
	}
	return ReferenceResult{Name: NormalizeQuotes(key.Text), NameCapture: "key", FullCapture: "full_expr"}, true
}

func goClassifyBinding(m Match) (BindingResult, bool) {
	name, nok := m["binding_name"]
	obj, ok := m["obj"]
	fn, fok := m["fn"]
	key, kok := m["key"]
	if !nok || !ok || !fok || !kok || obj.Text != "os" || fn.Text != "Getenv" {
		return BindingResult{}, false
	}
	return BindingResult{Kind: BindingEnvVar, BindingName: name.Text, EnvVarName: NormalizeQuotes(key.Text), NameCapture: "binding_name"}, true
}

func goClassifyAssignment(m Match) (ChainResult, bool) {
	target, ok := m["target"]
	source, sok := m["source"]
	if !ok || !sok {
		return ChainResult{}, false
	}
	return ChainResult{TargetName: target.Text, TargetCapture: "target", SourceName: source.Text, SourceCapture: "source"}, true
}

func goClassifyReassignment(m Match) (ReassignResult, bool) {
	name, ok := m["reassigned_name"]
	if !ok {
		return ReassignResult{}, false
	}
	return ReassignResult{Name: name.Text, NameCapture: "reassigned_name"}, true
}

func init() {
	Register(&Descriptor{
		Tag: "go",
		Grammar: func() *sitter.Language {
			return sitter.NewLanguage(tree_sitter_go.Language())
		},
		Queries: QuerySet{
			Scopes:        goScopeQuery,
			References:    goReferencesQuery,
			Bindings:      goBindingsQuery,
			Assignments:   goAssignmentsQuery,
			Destructures:  goDestructuresQuery,
			Reassignments: goReassignmentsQuery,
		},
		ScopeKind:          goScopeKind,
		ClassifyReference:  goClassifyReference,
		ClassifyBinding:    goClassifyBinding,
		ClassifyAssignment: goClassifyAssignment,
		ClassifyDestructure: func(Match) (ChainResult, bool) {
			return ChainResult{}, false
		},
		ClassifyReassignment: goClassifyReassignment,
		Normalize:            NormalizeQuotes,
		CommentNodeKinds:     []string{"comment"},
	})
}
