package langdesc

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_php "github.com/tree-sitter/tree-sitter-php/bindings/go"

	"github.com/jenian/envbind/internal/graph"
)

// Grounded on _examples/original_source/src/languages/php.rs:
// is_standard_env_object ($_ENV / $_SERVER / getenv / env),
// is_scope_node's node list, and is_env_source_node's variable_name
// recognition, exercised by integration_php.rs's `$_ENV['VAR']` fixture.

const phpScopeQuery = `
[
  (function_definition) @scope_node
  (method_declaration) @scope_node
  (class_declaration) @scope_node
  (anonymous_function) @scope_node
  (arrow_function) @scope_node
  (for_statement) @scope_node
  (foreach_statement) @scope_node
  (if_statement) @scope_node
  (try_statement) @scope_node
  (while_statement) @scope_node
  (do_statement) @scope_node
  (switch_statement) @scope_node
]
`

const phpReferencesQuery = `
[
  (subscript_expression
    (variable_name (name) @obj)
    (encapsed_string (string_value) @key)) @full_expr
  (subscript_expression
    (variable_name (name) @obj)
    (string (string_value) @key)) @full_expr
  (function_call_expression
    function: (name) @fn
    arguments: (arguments (argument (string (string_value) @key)))) @full_expr
]
`

const phpBindingsQuery = `
[
  (assignment_expression
    left: (variable_name (name) @binding_name)
    right: (subscript_expression
      (variable_name (name) @obj)
      (string (string_value) @key))) @binding_node
  (assignment_expression
    left: (variable_name (name) @binding_name)
    right: (function_call_expression
      function: (name) @fn
      arguments: (arguments (argument (string (string_value) @key))))) @binding_node
  (assignment_expression
    left: (variable_name (name) @binding_name)
    right: (variable_name (name) @obj)) @binding_node
]
`

const phpAssignmentsQuery = `
(assignment_expression
  left: (variable_name (name) @target)
  right: (variable_name (name) @source)) @assign_node
`

const phpDestructuresQuery = `
[
  (assignment_expression
    left: (list_literal (variable_name (name) @target))
    right: (variable_name (name) @source)) @destructure_node
  (assignment_expression
    left: (variable_name (name) @target)
    right: (subscript_expression
      (variable_name (name) @source)
      (encapsed_string (string_value) @key))) @destructure_node
  (assignment_expression
    left: (variable_name (name) @target)
    right: (subscript_expression
      (variable_name (name) @source)
      (string (string_value) @key))) @destructure_node
]
`

// phpPropertyAccessesQuery matches a subscript access on a bare variable,
// whether or not that variable's name is a literal env-container name — a
// previously bound alias ($env = $_ENV) takes this shape when read
// ($env['TOKEN']) instead of phpReferencesQuery's literal-container shape.
// Resolution against the aliased binding happens in pass 5b, not here.
const phpPropertyAccessesQuery = `
[
  (subscript_expression
    (variable_name (name) @obj)
    (encapsed_string (string_value) @key)) @full_expr
  (subscript_expression
    (variable_name (name) @obj)
    (string (string_value) @key)) @full_expr
]
`

const phpReassignmentsQuery = `
(assignment_expression
  left: (variable_name (name) @reassigned_name)) @reassign_node
`

func phpScopeKind(nodeType string) (graph.ScopeKind, bool) {
	switch nodeType {
	case "function_definition", "method_declaration", "anonymous_function", "arrow_function":
		return graph.ScopeFunction, true
	case "class_declaration":
		return graph.ScopeClass, true
	case "for_statement", "foreach_statement", "while_statement", "do_statement":
		return graph.ScopeLoop, true
	case "if_statement", "switch_statement":
		return graph.ScopeConditional, true
	case "try_statement":
		return graph.ScopeTry, true
	default:
		return graph.ScopeBlock, false
	}
}

func phpIsEnvContainer(text string) bool {
	switch text {
	case "$_ENV", "_ENV", "$_SERVER", "_SERVER":
		return true
	default:
		return false
	}
}

func phpClassifyReference(m Match) (ReferenceResult, bool) {
	key, kok := m["key"]
	if obj, ok := m["obj"]; ok && kok && phpIsEnvContainer(obj.Text) {
		return ReferenceResult{Name: NormalizeQuotes(key.Text), NameCapture: "key", FullCapture: "full_expr"}, true
	}
	if fn, ok := m["fn"]; ok && kok && (fn.Text == "getenv" || fn.Text == "env") {
		return ReferenceResult{Name: NormalizeQuotes(key.Text), NameCapture: "key", FullCapture: "full_expr"}, true
	}
	return ReferenceResult{}, false
}

func phpClassifyBinding(m Match) (BindingResult, bool) {
	name, nok := m["binding_name"]
	if !nok {
		return BindingResult{}, false
	}
	key, kok := m["key"]
	if obj, ok := m["obj"]; ok && phpIsEnvContainer(obj.Text) {
		if !kok {
			return BindingResult{Kind: BindingEnvObject, BindingName: name.Text, NameCapture: "binding_name"}, true
		}
		return BindingResult{Kind: BindingEnvVar, BindingName: name.Text, EnvVarName: NormalizeQuotes(key.Text), NameCapture: "binding_name"}, true
	}
	if fn, ok := m["fn"]; ok && kok && (fn.Text == "getenv" || fn.Text == "env") {
		return BindingResult{Kind: BindingEnvVar, BindingName: name.Text, EnvVarName: NormalizeQuotes(key.Text), NameCapture: "binding_name"}, true
	}
	return BindingResult{}, false
}

func phpClassifyAssignment(m Match) (ChainResult, bool) {
	target, ok := m["target"]
	source, sok := m["source"]
	if !ok || !sok {
		return ChainResult{}, false
	}
	return ChainResult{TargetName: target.Text, TargetCapture: "target", SourceName: source.Text, SourceCapture: "source"}, true
}

func phpClassifyDestructure(m Match) (ChainResult, bool) {
	target, ok := m["target"]
	source, sok := m["source"]
	if !ok || !sok {
		return ChainResult{}, false
	}
	r := ChainResult{TargetName: target.Text, TargetCapture: "target", SourceName: source.Text, SourceCapture: "source", HasKey: true}
	if key, ok := m["key"]; ok {
		r.Key = NormalizeQuotes(key.Text)
	} else {
		r.Key = target.Text
	}
	return r, true
}

func phpClassifyPropertyAccess(m Match) (PropertyAccessResult, bool) {
	obj, ok := m["obj"]
	key, kok := m["key"]
	if !ok || !kok {
		return PropertyAccessResult{}, false
	}
	return PropertyAccessResult{
		ObjectName:    obj.Text,
		ObjectCapture: "obj",
		PropertyName:  NormalizeQuotes(key.Text),
		FullCapture:   "full_expr",
	}, true
}

func phpClassifyReassignment(m Match) (ReassignResult, bool) {
	name, ok := m["reassigned_name"]
	if !ok {
		return ReassignResult{}, false
	}
	return ReassignResult{Name: name.Text, NameCapture: "reassigned_name"}, true
}

func init() {
	Register(&Descriptor{
		Tag: "php",
		Grammar: func() *sitter.Language {
			return sitter.NewLanguage(tree_sitter_php.LanguagePHPOnly())
		},
		Queries: QuerySet{
			Scopes:           phpScopeQuery,
			References:       phpReferencesQuery,
			Bindings:         phpBindingsQuery,
			Assignments:      phpAssignmentsQuery,
			Destructures:     phpDestructuresQuery,
			Reassignments:    phpReassignmentsQuery,
			PropertyAccesses: phpPropertyAccessesQuery,
		},
		ScopeKind:              phpScopeKind,
		ClassifyReference:      phpClassifyReference,
		ClassifyBinding:        phpClassifyBinding,
		ClassifyAssignment:     phpClassifyAssignment,
		ClassifyDestructure:    phpClassifyDestructure,
		ClassifyReassignment:   phpClassifyReassignment,
		ClassifyPropertyAccess: phpClassifyPropertyAccess,
		Normalize:              NormalizeQuotes,
		CommentNodeKinds:       []string{"comment"},
	})
}
