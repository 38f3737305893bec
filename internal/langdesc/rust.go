package langdesc

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_rust "github.com/tree-sitter/tree-sitter-rust/bindings/go"

	"github.com/jenian/envbind/internal/graph"
)

// Grounded on _examples/njenia-envgrd/internal/languages/rust.go's
// RustQuery (env::var("KEY") / std::env::var("KEY")), extended to
// let-bindings and the original implementation's own env::var chains
// (_examples/original_source/tests/integration_rust fixtures).

const rustScopeQuery = `
[
  (function_item) @scope_node
  (closure_expression) @scope_node
  (impl_item) @scope_node
  (block) @scope_node
  (for_expression) @scope_node
  (while_expression) @scope_node
  (if_expression) @scope_node
  (match_expression) @scope_node
]
`

const rustReferencesQuery = `
[
  (call_expression
    function: (scoped_identifier path: (identifier) @path name: (identifier) @fn)
    arguments: (arguments (string_literal (string_content) @key))) @full_expr
  (call_expression
    function: (scoped_identifier
      path: (scoped_identifier path: (identifier) @path1 name: (identifier) @path2)
      name: (identifier) @fn)
    arguments: (arguments (string_literal (string_content) @key))) @full_expr
]
`

const rustBindingsQuery = `
[
  (let_declaration
    pattern: (identifier) @binding_name
    value: (call_expression
      function: (scoped_identifier path: (identifier) @path name: (identifier) @fn)
      arguments: (arguments (string_literal (string_content) @key)))) @binding_node
  (let_declaration
    pattern: (identifier) @binding_name
    value: (call_expression
      function: (scoped_identifier
        path: (scoped_identifier path: (identifier) @path1 name: (identifier) @path2)
        name: (identifier) @fn)
      arguments: (arguments (string_literal (string_content) @key)))) @binding_node
  (let_declaration
    pattern: (identifier) @binding_name
    value: (call_expression
      function: (field_expression
        value: (call_expression
          function: (scoped_identifier path: (identifier) @path name: (identifier) @fn)
          arguments: (arguments (string_literal (string_content) @key)))
        field: (field_identifier) @wrapper)
      arguments: (arguments))) @binding_node
  (let_declaration
    pattern: (identifier) @binding_name
    value: (call_expression
      function: (field_expression
        value: (call_expression
          function: (scoped_identifier
            path: (scoped_identifier path: (identifier) @path1 name: (identifier) @path2)
            name: (identifier) @fn)
          arguments: (arguments (string_literal (string_content) @key)))
        field: (field_identifier) @wrapper)
      arguments: (arguments))) @binding_node
  (let_declaration
    pattern: (identifier) @binding_name
    value: (try_expression
      (call_expression
        function: (scoped_identifier path: (identifier) @path name: (identifier) @fn)
        arguments: (arguments (string_literal (string_content) @key))))) @binding_node
]
`

// rustAssignmentsQuery covers both a bare alias (let c = db;) and an alias
// read back through a ?-or-.unwrap()/.clone()-style wrapper call — the
// binding itself still names only the identifier being aliased, so the
// wrapper's method name is captured but not required to match anything.
const rustAssignmentsQuery = `
[
  (let_declaration
    pattern: (identifier) @target
    value: (identifier) @source) @assign_node
  (let_declaration
    pattern: (identifier) @target
    value: (call_expression
      function: (field_expression
        value: (identifier) @source
        field: (field_identifier) @wrapper)
      arguments: (arguments))) @assign_node
  (let_declaration
    pattern: (identifier) @target
    value: (try_expression (identifier) @source)) @assign_node
]
`

const rustDestructuresQuery = `
(let_declaration
  pattern: (tuple_struct_pattern (identifier) @target)
  value: (identifier) @source) @destructure_node
`

// Rust's let-bindings are immutable by default; a genuine reassignment
// requires a `let mut` target and a bare assignment_expression.
const rustReassignmentsQuery = `
(assignment_expression
  left: (identifier) @reassigned_name) @reassign_node
`

func rustScopeKind(nodeType string) (graph.ScopeKind, bool) {
	switch nodeType {
	case "function_item", "closure_expression":
		return graph.ScopeFunction, true
	case "impl_item":
		return graph.ScopeClass, true
	case "for_expression", "while_expression":
		return graph.ScopeLoop, true
	case "if_expression":
		return graph.ScopeConditional, true
	case "match_expression":
		return graph.ScopeConditional, true
	case "block":
		return graph.ScopeBlock, true
	default:
		return graph.ScopeBlock, false
	}
}

func rustIsEnvPath(m Match) bool {
	path, ok := m["path"]
	fn, fok := m["fn"]
	if ok && fok && path.Text == "env" && fn.Text == "var" {
		return true
	}
	path1, ok1 := m["path1"]
	path2, ok2 := m["path2"]
	if ok1 && ok2 && fok && path1.Text == "std" && path2.Text == "env" && fn.Text == "var" {
		return true
	}
	return false
}

func rustClassifyReference(m Match) (ReferenceResult, bool) {
	key, kok := m["key"]
	if !kok || !rustIsEnvPath(m) {
		return ReferenceResult{}, false
	}
	return ReferenceResult{Name: NormalizeQuotes(key.Text), NameCapture: "key", FullCapture: "full_expr"}, true
}

func rustClassifyBinding(m Match) (BindingResult, bool) {
	name, nok := m["binding_name"]
	key, kok := m["key"]
	if !nok || !kok || !rustIsEnvPath(m) {
		return BindingResult{}, false
	}
	return BindingResult{Kind: BindingEnvVar, BindingName: name.Text, EnvVarName: NormalizeQuotes(key.Text), NameCapture: "binding_name"}, true
}

func rustClassifyAssignment(m Match) (ChainResult, bool) {
	target, ok := m["target"]
	source, sok := m["source"]
	if !ok || !sok {
		return ChainResult{}, false
	}
	return ChainResult{TargetName: target.Text, TargetCapture: "target", SourceName: source.Text, SourceCapture: "source"}, true
}

func rustClassifyReassignment(m Match) (ReassignResult, bool) {
	name, ok := m["reassigned_name"]
	if !ok {
		return ReassignResult{}, false
	}
	return ReassignResult{Name: name.Text, NameCapture: "reassigned_name"}, true
}

func init() {
	Register(&Descriptor{
		Tag: "rust",
		Grammar: func() *sitter.Language {
			return sitter.NewLanguage(tree_sitter_rust.Language())
		},
		Queries: QuerySet{
			Scopes:        rustScopeQuery,
			References:    rustReferencesQuery,
			Bindings:      rustBindingsQuery,
			Assignments:   rustAssignmentsQuery,
			Destructures:  rustDestructuresQuery,
			Reassignments: rustReassignmentsQuery,
		},
		ScopeKind:          rustScopeKind,
		ClassifyReference:  rustClassifyReference,
		ClassifyBinding:    rustClassifyBinding,
		ClassifyAssignment: rustClassifyAssignment,
		ClassifyDestructure: func(m Match) (ChainResult, bool) {
			target, ok := m["target"]
			source, sok := m["source"]
			if !ok || !sok {
				return ChainResult{}, false
			}
			return ChainResult{TargetName: target.Text, TargetCapture: "target", SourceName: source.Text, SourceCapture: "source"}, true
		},
		ClassifyReassignment: rustClassifyReassignment,
		Normalize:            NormalizeQuotes,
		CommentNodeKinds:     []string{"line_comment", "block_comment"},
	})
}
