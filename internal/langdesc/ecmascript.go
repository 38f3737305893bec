package langdesc

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	tree_sitter_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"

	"github.com/jenian/envbind/internal/graph"
)

// JavaScript and TypeScript share one grammar shape for everything this
// package cares about (member/subscript expressions, destructuring
// patterns, assignment expressions); TypeScript's grammar is a superset.
// Grounded on _examples/njenia-envgrd/internal/languages/javascript.go's
// JavaScriptQuery, generalized from "direct reference only" to all six
// pass categories.

const ecmaScopeQuery = `
[
  (function_declaration) @scope_node
  (function_expression) @scope_node
  (arrow_function) @scope_node
  (method_definition) @scope_node
  (class_declaration) @scope_node
  (class) @scope_node
  (statement_block) @scope_node
  (for_statement) @scope_node
  (for_in_statement) @scope_node
  (while_statement) @scope_node
  (if_statement) @scope_node
  (try_statement) @scope_node
  (catch_clause) @scope_node
]
`

const ecmaReferencesQuery = `
[
  (member_expression
    object: (member_expression
      object: (identifier) @obj
      property: (property_identifier) @prop)
    property: (property_identifier) @key) @full_expr
  (subscript_expression
    object: (member_expression
      object: (identifier) @obj
      property: (property_identifier) @prop)
    index: (string (string_fragment) @key)) @full_expr
]
`

const ecmaBindingsQuery = `
[
  (variable_declarator
    name: (identifier) @binding_name
    value: (member_expression
      object: (identifier) @obj
      property: (property_identifier) @prop)) @binding_node
  (variable_declarator
    name: (identifier) @binding_name
    value: (member_expression
      object: (member_expression
        object: (identifier) @obj
        property: (property_identifier) @prop)
      property: (property_identifier) @key)) @binding_node
]
`

const ecmaAssignmentsQuery = `
(variable_declarator
  name: (identifier) @target
  value: (identifier) @source) @assign_node
`

const ecmaDestructuresQuery = `
[
  (variable_declarator
    name: (object_pattern
      (shorthand_property_identifier_pattern) @target)
    value: (identifier) @source) @destructure_node
  (variable_declarator
    name: (object_pattern
      (pair_pattern
        key: (property_identifier) @key
        value: (identifier) @target))
    value: (identifier) @source) @destructure_node
  (variable_declarator
    name: (object_pattern
      (pair_pattern
        key: (property_identifier) @key
        value: (assignment_pattern
          left: (identifier) @target
          right: (_) @default)))
    value: (identifier) @source) @destructure_node
  (variable_declarator
    name: (identifier) @target
    value: (member_expression
      object: (identifier) @source
      property: (property_identifier) @key)) @destructure_node
  (variable_declarator
    name: (identifier) @target
    value: (subscript_expression
      object: (identifier) @source
      index: (string (string_fragment) @key))) @destructure_node
]
`

// ecmaPropertyAccessesQuery matches a single-level object.property or
// object["property"] access whose object is a bare identifier — the
// shape a previously bound alias (`cfg = env`) takes when a caller reads
// one of the env object's keys off it (`cfg.DATABASE_URL`), as opposed to
// the two-level `process.env.X` ecmaReferencesQuery requires. Whether
// "obj" actually resolves to an env object is a pass-5b question, not a
// query-time one, so this matches unconditionally and lets the pipeline
// discard candidates whose object never resolves.
const ecmaPropertyAccessesQuery = `
[
  (member_expression
    object: (identifier) @obj
    property: (property_identifier) @key) @full_expr
  (subscript_expression
    object: (identifier) @obj
    index: (string (string_fragment) @key)) @full_expr
]
`

const ecmaReassignmentsQuery = `
(assignment_expression
  left: (identifier) @reassigned_name) @reassign_node
`

func ecmaScopeKind(nodeType string) (graph.ScopeKind, bool) {
	switch nodeType {
	case "function_declaration", "function_expression", "arrow_function", "method_definition":
		return graph.ScopeFunction, true
	case "class_declaration", "class":
		return graph.ScopeClass, true
	case "for_statement", "for_in_statement", "while_statement":
		return graph.ScopeLoop, true
	case "if_statement":
		return graph.ScopeConditional, true
	case "try_statement":
		return graph.ScopeTry, true
	case "catch_clause":
		return graph.ScopeCatch, true
	case "statement_block":
		return graph.ScopeBlock, true
	default:
		return graph.ScopeBlock, false
	}
}

func ecmaClassifyReference(root string) func(Match) (ReferenceResult, bool) {
	return func(m Match) (ReferenceResult, bool) {
		obj, ok := m["obj"]
		prop, pok := m["prop"]
		if !ok || !pok || obj.Text != root || prop.Text != "env" {
			return ReferenceResult{}, false
		}
		key, ok := m["key"]
		if !ok {
			return ReferenceResult{}, false
		}
		return ReferenceResult{Name: NormalizeQuotes(key.Text), NameCapture: "key", FullCapture: "full_expr"}, true
	}
}

func ecmaClassifyBinding(root string) func(Match) (BindingResult, bool) {
	return func(m Match) (BindingResult, bool) {
		obj, ok := m["obj"]
		prop, pok := m["prop"]
		name, nok := m["binding_name"]
		if !ok || !pok || !nok || obj.Text != root || prop.Text != "env" {
			return BindingResult{}, false
		}
		if key, ok := m["key"]; ok {
			return BindingResult{Kind: BindingEnvVar, BindingName: name.Text, EnvVarName: NormalizeQuotes(key.Text), NameCapture: "binding_name"}, true
		}
		return BindingResult{Kind: BindingEnvObject, BindingName: name.Text, NameCapture: "binding_name"}, true
	}
}

func ecmaClassifyAssignment(m Match) (ChainResult, bool) {
	target, ok := m["target"]
	source, sok := m["source"]
	if !ok || !sok {
		return ChainResult{}, false
	}
	return ChainResult{TargetName: target.Text, TargetCapture: "target", SourceName: source.Text, SourceCapture: "source"}, true
}

func ecmaClassifyDestructure(m Match) (ChainResult, bool) {
	target, ok := m["target"]
	source, sok := m["source"]
	if !ok || !sok {
		return ChainResult{}, false
	}
	r := ChainResult{TargetName: target.Text, TargetCapture: "target", SourceName: source.Text, SourceCapture: "source"}
	if key, ok := m["key"]; ok {
		r.Key = key.Text
		r.HasKey = true
	} else {
		r.Key = target.Text
		r.HasKey = true
	}
	if d, ok := m["default"]; ok {
		r.Default = d.Text
	}
	return r, true
}

func ecmaClassifyPropertyAccess(m Match) (PropertyAccessResult, bool) {
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

func ecmaClassifyReassignment(m Match) (ReassignResult, bool) {
	name, ok := m["reassigned_name"]
	if !ok {
		return ReassignResult{}, false
	}
	return ReassignResult{Name: name.Text, NameCapture: "reassigned_name"}, true
}

func newEcmaDescriptor(tag string, grammar func() *sitter.Language, root string) *Descriptor {
	return &Descriptor{
		Tag:     tag,
		Grammar: grammar,
		Queries: QuerySet{
			Scopes:           ecmaScopeQuery,
			References:       ecmaReferencesQuery,
			Bindings:         ecmaBindingsQuery,
			Assignments:      ecmaAssignmentsQuery,
			Destructures:     ecmaDestructuresQuery,
			Reassignments:    ecmaReassignmentsQuery,
			PropertyAccesses: ecmaPropertyAccessesQuery,
		},
		ScopeKind:              ecmaScopeKind,
		ClassifyReference:      ecmaClassifyReference(root),
		ClassifyBinding:        ecmaClassifyBinding(root),
		ClassifyAssignment:     ecmaClassifyAssignment,
		ClassifyDestructure:    ecmaClassifyDestructure,
		ClassifyReassignment:   ecmaClassifyReassignment,
		ClassifyPropertyAccess: ecmaClassifyPropertyAccess,
		Normalize:              NormalizeQuotes,
		CommentNodeKinds:       []string{"comment"},
	}
}

func init() {
	Register(newEcmaDescriptor("javascript", func() *sitter.Language {
		return sitter.NewLanguage(tree_sitter_javascript.Language())
	}, "process"))
	Register(newEcmaDescriptor("typescript", func() *sitter.Language {
		return sitter.NewLanguage(tree_sitter_typescript.LanguageTypescript())
	}, "process"))
}
