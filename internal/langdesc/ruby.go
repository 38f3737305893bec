package langdesc

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_ruby "github.com/tree-sitter/tree-sitter-ruby/bindings/go"

	"github.com/jenian/envbind/internal/graph"
)

// Grounded on _examples/original_source/src/languages/ruby.rs:
// is_standard_env_object recognizes the ENV constant, is_scope_node's
// node-kind list, and is_env_source_node's constant-node recognition.
// ENV['KEY'] compiles to an element_reference node; ENV.fetch('KEY') to a
// call node, both exercised in _examples/original_source/tests/integration_ruby.rs.

const rubyScopeQuery = `
[
  (method) @scope_node
  (singleton_method) @scope_node
  (class) @scope_node
  (module) @scope_node
  (block) @scope_node
  (do_block) @scope_node
  (lambda) @scope_node
  (for) @scope_node
  (if) @scope_node
  (unless) @scope_node
  (case) @scope_node
  (while) @scope_node
  (until) @scope_node
  (begin) @scope_node
]
`

const rubyReferencesQuery = `
[
  (element_reference
    object: (constant) @obj
    (string (string_content) @key)) @full_expr
  (call
    receiver: (constant) @obj
    method: (identifier) @method
    arguments: (argument_list (string (string_content) @key))) @full_expr
]
`

const rubyBindingsQuery = `
[
  (assignment
    left: (identifier) @binding_name
    right: (element_reference
      object: (constant) @obj
      (string (string_content) @key))) @binding_node
  (assignment
    left: (identifier) @binding_name
    right: (call
      receiver: (constant) @obj
      method: (identifier) @method
      arguments: (argument_list (string (string_content) @key)))) @binding_node
]
`

const rubyAssignmentsQuery = `
(assignment
  left: (identifier) @target
  right: (identifier) @source) @assign_node
`

const rubyDestructuresQuery = `
(assignment
  left: (destructuring_left_assignment (identifier) @target)
  right: (identifier) @source) @destructure_node
`

const rubyReassignmentsQuery = `
(assignment
  left: (identifier) @reassigned_name) @reassign_node
`

func rubyScopeKind(nodeType string) (graph.ScopeKind, bool) {
	switch nodeType {
	case "method", "singleton_method", "lambda", "block", "do_block":
		return graph.ScopeFunction, true
	case "class", "module":
		return graph.ScopeClass, true
	case "for", "while", "until":
		return graph.ScopeLoop, true
	case "if", "unless", "case":
		return graph.ScopeConditional, true
	case "begin":
		return graph.ScopeTry, true
	default:
		return graph.ScopeBlock, false
	}
}

func rubyIsEnv(m Match) bool {
	obj, ok := m["obj"]
	return ok && obj.Text == "ENV"
}

func rubyClassifyReference(m Match) (ReferenceResult, bool) {
	key, kok := m["key"]
	if !kok || !rubyIsEnv(m) {
		return ReferenceResult{}, false
	}
	return ReferenceResult{Name: NormalizeQuotes(key.Text), NameCapture: "key", FullCapture: "full_expr"}, true
}

func rubyClassifyBinding(m Match) (BindingResult, bool) {
	name, nok := m["binding_name"]
	key, kok := m["key"]
	if !nok || !kok || !rubyIsEnv(m) {
		return BindingResult{}, false
	}
	return BindingResult{Kind: BindingEnvVar, BindingName: name.Text, EnvVarName: NormalizeQuotes(key.Text), NameCapture: "binding_name"}, true
}

func rubyClassifyAssignment(m Match) (ChainResult, bool) {
	target, ok := m["target"]
	source, sok := m["source"]
	if !ok || !sok {
		return ChainResult{}, false
	}
	return ChainResult{TargetName: target.Text, TargetCapture: "target", SourceName: source.Text, SourceCapture: "source"}, true
}

func rubyClassifyDestructure(m Match) (ChainResult, bool) {
	target, ok := m["target"]
	source, sok := m["source"]
	if !ok || !sok {
		return ChainResult{}, false
	}
	return ChainResult{TargetName: target.Text, TargetCapture: "target", SourceName: source.Text, SourceCapture: "source", Key: target.Text, HasKey: true}, true
}

func rubyClassifyReassignment(m Match) (ReassignResult, bool) {
	name, ok := m["reassigned_name"]
	if !ok {
		return ReassignResult{}, false
	}
	return ReassignResult{Name: name.Text, NameCapture: "reassigned_name"}, true
}

func init() {
	Register(&Descriptor{
		Tag: "ruby",
		Grammar: func() *sitter.Language {
			return sitter.NewLanguage(tree_sitter_ruby.Language())
		},
		Queries: QuerySet{
			Scopes:        rubyScopeQuery,
			References:    rubyReferencesQuery,
			Bindings:      rubyBindingsQuery,
			Assignments:   rubyAssignmentsQuery,
			Destructures:  rubyDestructuresQuery,
			Reassignments: rubyReassignmentsQuery,
		},
		ScopeKind:            rubyScopeKind,
		ClassifyReference:    rubyClassifyReference,
		ClassifyBinding:      rubyClassifyBinding,
		ClassifyAssignment:   rubyClassifyAssignment,
		ClassifyDestructure:  rubyClassifyDestructure,
		ClassifyReassignment: rubyClassifyReassignment,
		Normalize:            NormalizeQuotes,
		CommentNodeKinds:     []string{"comment"},
	})
}
