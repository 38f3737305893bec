package langdesc

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_zig "github.com/tree-sitter-grammars/tree-sitter-zig/bindings/go"

	"github.com/jenian/envbind/internal/graph"
)

// Grounded on _examples/original_source/src/languages/zig.rs:
// is_standard_env_object ("std"), is_scope_node's PascalCase node list
// (FnProto/Block/ForStatement/...), and comment_node_kinds. Covers
// std.os.getenv("VAR") and std.posix.getenv("VAR"), both exercised in
// integration_scenarios.rs.

const zigScopeQuery = `
[
  (FnProto) @scope_node
  (Block) @scope_node
  (ForStatement) @scope_node
  (WhileStatement) @scope_node
  (IfStatement) @scope_node
  (SwitchExpr) @scope_node
  (ContainerDecl) @scope_node
]
`

const zigReferencesQuery = `
(SuffixExpr
  (FieldAccess (FieldAccess (IDENTIFIER) @path1 (IDENTIFIER) @path2) (IDENTIFIER) @fn)
  (FnCallArguments (STRINGLITERALSINGLE) @key)) @full_expr
`

const zigBindingsQuery = `
(VarDecl
  (IDENTIFIER) @binding_name
  (SuffixExpr
    (FieldAccess (FieldAccess (IDENTIFIER) @path1 (IDENTIFIER) @path2) (IDENTIFIER) @fn)
    (FnCallArguments (STRINGLITERALSINGLE) @key))) @binding_node
`

const zigAssignmentsQuery = `
(VarDecl
  (IDENTIFIER) @target
  (IDENTIFIER) @source) @assign_node
`

func zigScopeKind(nodeType string) (graph.ScopeKind, bool) {
	switch nodeType {
	case "FnProto":
		return graph.ScopeFunction, true
	case "ForStatement", "WhileStatement":
		return graph.ScopeLoop, true
	case "IfStatement", "SwitchExpr":
		return graph.ScopeConditional, true
	case "ContainerDecl":
		return graph.ScopeClass, true
	case "Block":
		return graph.ScopeBlock, true
	default:
		return graph.ScopeBlock, false
	}
}

func zigIsStdGetenv(m Match) bool {
	path1, ok1 := m["path1"]
	path2, ok2 := m["path2"]
	fn, fok := m["fn"]
	if !ok1 || !ok2 || !fok || path1.Text != "std" || fn.Text != "getenv" {
		return false
	}
	return path2.Text == "os" || path2.Text == "posix"
}

func zigClassifyReference(m Match) (ReferenceResult, bool) {
	key, kok := m["key"]
	if !kok || !zigIsStdGetenv(m) {
		return ReferenceResult{}, false
	}
	return ReferenceResult{Name: NormalizeQuotes(key.Text), NameCapture: "key", FullCapture: "full_expr"}, true
}

func zigClassifyBinding(m Match) (BindingResult, bool) {
	name, nok := m["binding_name"]
	key, kok := m["key"]
	if !nok || !kok || !zigIsStdGetenv(m) {
		return BindingResult{}, false
	}
	return BindingResult{Kind: BindingEnvVar, BindingName: name.Text, EnvVarName: NormalizeQuotes(key.Text), NameCapture: "binding_name"}, true
}

func init() {
	Register(&Descriptor{
		Tag: "zig",
		Grammar: func() *sitter.Language {
			return sitter.NewLanguage(tree_sitter_zig.Language())
		},
		Queries: QuerySet{
			Scopes:     zigScopeQuery,
			References: zigReferencesQuery,
			Bindings:   zigBindingsQuery,
			Assignments: zigAssignmentsQuery,
		},
		ScopeKind:         zigScopeKind,
		ClassifyReference: zigClassifyReference,
		ClassifyBinding:   zigClassifyBinding,
		ClassifyAssignment: func(m Match) (ChainResult, bool) {
			target, ok := m["target"]
			source, sok := m["source"]
			if !ok || !sok {
				return ChainResult{}, false
			}
			return ChainResult{TargetName: target.Text, TargetCapture: "target", SourceName: source.Text, SourceCapture: "source"}, true
		},
		ClassifyDestructure:  func(Match) (ChainResult, bool) { return ChainResult{}, false },
		ClassifyReassignment: func(Match) (ReassignResult, bool) { return ReassignResult{}, false },
		Normalize:            NormalizeQuotes,
		CommentNodeKinds:     []string{"line_comment", "doc_comment", "container_doc_comment"},
	})
}
