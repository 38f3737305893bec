package langdesc

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_python "github.com/tree-sitter/tree-sitter-python/bindings/go"

	"github.com/jenian/envbind/internal/graph"
)

// Grounded on _examples/njenia-envgrd/internal/languages/python.go's
// PythonQuery (os.environ[...] / os.getenv(...)), extended to bindings,
// destructured dict access, and os.getenv("X", default) per
// _examples/original_source's integration_python fixtures.
// os.environ.get("X") is not matched: the call queries take only a bare
// identifier as the method's object.

const pythonScopeQuery = `
[
  (function_definition) @scope_node
  (class_definition) @scope_node
  (for_statement) @scope_node
  (while_statement) @scope_node
  (if_statement) @scope_node
  (try_statement) @scope_node
  (except_clause) @scope_node
  (with_statement) @scope_node
  (list_comprehension) @scope_node
  (dictionary_comprehension) @scope_node
  (set_comprehension) @scope_node
  (generator_expression) @scope_node
]
`

const pythonReferencesQuery = `
[
  (subscript
    value: (attribute object: (identifier) @obj attribute: (identifier) @attr)
    subscript: (string (string_content) @key)) @full_expr
  (call
    function: (attribute object: (identifier) @obj attribute: (identifier) @fn)
    arguments: (argument_list . (string (string_content) @key))) @full_expr
]
`

const pythonBindingsQuery = `
[
  (assignment
    left: (identifier) @binding_name
    right: (attribute object: (identifier) @obj attribute: (identifier) @attr)) @binding_node
  (assignment
    left: (identifier) @binding_name
    right: (subscript
      value: (attribute object: (identifier) @obj attribute: (identifier) @attr)
      subscript: (string (string_content) @key))) @binding_node
  (assignment
    left: (identifier) @binding_name
    right: (call
      function: (attribute object: (identifier) @obj attribute: (identifier) @fn)
      arguments: (argument_list . (string (string_content) @key) . (_)? @default))) @binding_node
]
`

const pythonAssignmentsQuery = `
(assignment
  left: (identifier) @target
  right: (identifier) @source) @assign_node
`

const pythonDestructuresQuery = `
[
  (assignment
    left: (pattern_list (identifier) @target)
    right: (identifier) @source) @destructure_node
  (assignment
    left: (identifier) @target
    right: (subscript
      value: (identifier) @source
      subscript: (string (string_content) @key))) @destructure_node
]
`

const pythonReassignmentsQuery = `
(assignment
  left: (identifier) @reassigned_name) @reassign_node
`

func pythonScopeKind(nodeType string) (graph.ScopeKind, bool) {
	switch nodeType {
	case "function_definition":
		return graph.ScopeFunction, true
	case "class_definition":
		return graph.ScopeClass, true
	case "for_statement", "while_statement":
		return graph.ScopeLoop, true
	case "if_statement":
		return graph.ScopeConditional, true
	case "try_statement":
		return graph.ScopeTry, true
	case "except_clause":
		return graph.ScopeCatch, true
	case "with_statement":
		return graph.ScopeWith, true
	case "list_comprehension", "dictionary_comprehension", "set_comprehension", "generator_expression":
		return graph.ScopeComprehension, true
	default:
		return graph.ScopeBlock, false
	}
}

func pythonReferenceOk(obj, attr Capture) bool {
	return (obj.Text == "os" && attr.Text == "environ")
}

func pythonClassifyReference(m Match) (ReferenceResult, bool) {
	obj, ok := m["obj"]
	attr, aok := m["attr"]
	fn, fok := m["fn"]
	key, kok := m["key"]
	if !kok {
		return ReferenceResult{}, false
	}
	if ok && aok && pythonReferenceOk(obj, attr) {
		return ReferenceResult{Name: NormalizeQuotes(key.Text), NameCapture: "key", FullCapture: "full_expr"}, true
	}
	if ok && fok && obj.Text == "os" && (fn.Text == "getenv" || fn.Text == "environ") {
		return ReferenceResult{Name: NormalizeQuotes(key.Text), NameCapture: "key", FullCapture: "full_expr"}, true
	}
	return ReferenceResult{}, false
}

func pythonClassifyBinding(m Match) (BindingResult, bool) {
	name, nok := m["binding_name"]
	obj, ok := m["obj"]
	attr, aok := m["attr"]
	fn, fok := m["fn"]
	if !nok {
		return BindingResult{}, false
	}
	isEnviron := ok && aok && pythonReferenceOk(obj, attr)
	isGetenv := ok && fok && obj.Text == "os" && fn.Text == "getenv"
	if !isEnviron && !isGetenv {
		return BindingResult{}, false
	}
	if key, ok := m["key"]; ok {
		return BindingResult{Kind: BindingEnvVar, BindingName: name.Text, EnvVarName: NormalizeQuotes(key.Text), NameCapture: "binding_name"}, true
	}
	return BindingResult{Kind: BindingEnvObject, BindingName: name.Text, NameCapture: "binding_name"}, true
}

func pythonClassifyAssignment(m Match) (ChainResult, bool) {
	target, ok := m["target"]
	source, sok := m["source"]
	if !ok || !sok {
		return ChainResult{}, false
	}
	return ChainResult{TargetName: target.Text, TargetCapture: "target", SourceName: source.Text, SourceCapture: "source"}, true
}

func pythonClassifyDestructure(m Match) (ChainResult, bool) {
	target, ok := m["target"]
	source, sok := m["source"]
	if !ok || !sok {
		return ChainResult{}, false
	}
	r := ChainResult{TargetName: target.Text, TargetCapture: "target", SourceName: source.Text, SourceCapture: "source", HasKey: true}
	if key, ok := m["key"]; ok {
		// subscript-on-alias (env["DB"] where env was bound to os.environ
		// elsewhere): the subscript literal is the destructured key.
		r.Key = NormalizeQuotes(key.Text)
	} else {
		// tuple-unpack shape: the bound name doubles as the key.
		r.Key = target.Text
	}
	return r, true
}

func pythonClassifyReassignment(m Match) (ReassignResult, bool) {
	name, ok := m["reassigned_name"]
	if !ok {
		return ReassignResult{}, false
	}
	return ReassignResult{Name: name.Text, NameCapture: "reassigned_name"}, true
}

func init() {
	Register(&Descriptor{
		Tag: "python",
		Grammar: func() *sitter.Language {
			return sitter.NewLanguage(tree_sitter_python.Language())
		},
		Queries: QuerySet{
			Scopes:        pythonScopeQuery,
			References:    pythonReferencesQuery,
			Bindings:      pythonBindingsQuery,
			Assignments:   pythonAssignmentsQuery,
			Destructures:  pythonDestructuresQuery,
			Reassignments: pythonReassignmentsQuery,
		},
		ScopeKind:            pythonScopeKind,
		ClassifyReference:    pythonClassifyReference,
		ClassifyBinding:      pythonClassifyBinding,
		ClassifyAssignment:   pythonClassifyAssignment,
		ClassifyDestructure:  pythonClassifyDestructure,
		ClassifyReassignment: pythonClassifyReassignment,
		Normalize:            NormalizeQuotes,
		CommentNodeKinds:     []string{"comment"},
	})
}
