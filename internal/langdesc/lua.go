package langdesc

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_lua "github.com/tree-sitter-grammars/tree-sitter-lua/bindings/go"

	"github.com/jenian/envbind/internal/graph"
)

// Grounded on _examples/original_source/src/languages/lua.rs:
// is_standard_env_object ("os" / "os.getenv"), extract_property_access's
// dot_index_expression(table, field) shape, and is_scope_node's node
// list.

const luaScopeQuery = `
[
  (function_declaration) @scope_node
  (function_definition) @scope_node
  (do_statement) @scope_node
  (while_statement) @scope_node
  (repeat_statement) @scope_node
  (for_statement) @scope_node
  (if_statement) @scope_node
]
`

const luaReferencesQuery = `
(function_call
  name: (dot_index_expression table: (identifier) @obj field: (identifier) @fn)
  arguments: (arguments (string (string_content) @key))) @full_expr
`

const luaBindingsQuery = `
(assignment_statement
  (variable_list (identifier) @binding_name)
  (expression_list
    (function_call
      name: (dot_index_expression table: (identifier) @obj field: (identifier) @fn)
      arguments: (arguments (string (string_content) @key))))) @binding_node
`

const luaAssignmentsQuery = `
(assignment_statement
  (variable_list (identifier) @target)
  (expression_list (identifier) @source)) @assign_node
`

const luaReassignmentsQuery = `
(assignment_statement
  (variable_list (identifier) @reassigned_name)) @reassign_node
`

func luaScopeKind(nodeType string) (graph.ScopeKind, bool) {
	switch nodeType {
	case "function_declaration", "function_definition":
		return graph.ScopeFunction, true
	case "while_statement", "repeat_statement", "for_statement":
		return graph.ScopeLoop, true
	case "if_statement":
		return graph.ScopeConditional, true
	case "do_statement":
		return graph.ScopeBlock, true
	default:
		return graph.ScopeBlock, false
	}
}

func luaIsOsGetenv(m Match) bool {
	obj, ok := m["obj"]
	fn, fok := m["fn"]
	return ok && fok && obj.Text == "os" && fn.Text == "getenv"
}

func luaClassifyReference(m Match) (ReferenceResult, bool) {
	key, kok := m["key"]
	if !kok || !luaIsOsGetenv(m) {
		return ReferenceResult{}, false
	}
	return ReferenceResult{Name: NormalizeQuotes(key.Text), NameCapture: "key", FullCapture: "full_expr"}, true
}

func luaClassifyBinding(m Match) (BindingResult, bool) {
	name, nok := m["binding_name"]
	key, kok := m["key"]
	if !nok || !kok || !luaIsOsGetenv(m) {
		return BindingResult{}, false
	}
	return BindingResult{Kind: BindingEnvVar, BindingName: name.Text, EnvVarName: NormalizeQuotes(key.Text), NameCapture: "binding_name"}, true
}

func init() {
	Register(&Descriptor{
		Tag: "lua",
		Grammar: func() *sitter.Language {
			return sitter.NewLanguage(tree_sitter_lua.Language())
		},
		Queries: QuerySet{
			Scopes:        luaScopeQuery,
			References:    luaReferencesQuery,
			Bindings:      luaBindingsQuery,
			Assignments:   luaAssignmentsQuery,
			Reassignments: luaReassignmentsQuery,
		},
		ScopeKind:         luaScopeKind,
		ClassifyReference: luaClassifyReference,
		ClassifyBinding:   luaClassifyBinding,
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
