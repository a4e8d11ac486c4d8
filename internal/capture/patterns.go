// Package capture implements the enclosing-scope collector (spec §4.C),
// the free-variable finder (spec §4.D), and the CaptureSet data type
// (spec §3) built from them.
package capture

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/nau-media/qrlcapture/internal/parser"
)

// functionNodeKinds are the tree-sitter node kinds treated as function
// boundaries throughout this package.
var functionNodeKinds = map[string]bool{
	"arrow_function":                true,
	"function_expression":           true,
	"function_declaration":          true,
	"generator_function_declaration": true,
	"method_definition":             true,
}

// IsFunctionNode reports whether kind is one of the function-like node
// kinds that introduce a new scope (spec §4.B).
func IsFunctionNode(kind string) bool {
	return functionNodeKinds[kind]
}

// paramNames flattens a function-like node's formal parameter list into the
// set of names it binds, flattening object and array binding patterns
// (spec §4.C: "flattening object and array binding patterns").
func paramNames(fn *tree_sitter.Node, source []byte) []string {
	var out []string
	if fn == nil {
		return out
	}
	if fn.Kind() == "arrow_function" {
		if single := fn.ChildByFieldName("parameter"); single != nil {
			collectPatternNames(single, source, &out)
			return out
		}
	}
	params := fn.ChildByFieldName("parameters")
	if params == nil {
		return out
	}
	for i := uint(0); i < params.NamedChildCount(); i++ {
		collectPatternNames(params.NamedChild(i), source, &out)
	}
	return out
}

// ParamNames is the exported form of paramNames, for callers outside this
// package that need a function-like node's flattened parameter-binding
// names — e.g. the call rewriter's auto-capture gate (spec §4.E), which
// requires the callable to have zero formal parameters.
func ParamNames(fn *tree_sitter.Node, source []byte) []string {
	return paramNames(fn, source)
}

// collectPatternNames recursively collects every bound name introduced by
// a parameter, variable-declarator, or destructuring pattern node.
func collectPatternNames(n *tree_sitter.Node, source []byte, out *[]string) {
	if n == nil {
		return
	}
	switch n.Kind() {
	case "identifier", "shorthand_property_identifier_pattern":
		*out = append(*out, parser.NodeText(n, source))
	case "object_pattern", "array_pattern":
		for i := uint(0); i < n.NamedChildCount(); i++ {
			collectPatternNames(n.NamedChild(i), source, out)
		}
	case "pair_pattern":
		if value := n.ChildByFieldName("value"); value != nil {
			collectPatternNames(value, source, out)
		}
	case "assignment_pattern", "object_assignment_pattern":
		if left := n.ChildByFieldName("left"); left != nil {
			collectPatternNames(left, source, out)
		}
	case "rest_pattern":
		for i := uint(0); i < n.NamedChildCount(); i++ {
			collectPatternNames(n.NamedChild(i), source, out)
		}
	case "required_parameter", "optional_parameter":
		if pattern := n.ChildByFieldName("pattern"); pattern != nil {
			collectPatternNames(pattern, source, out)
		} else {
			for i := uint(0); i < n.NamedChildCount(); i++ {
				collectPatternNames(n.NamedChild(i), source, out)
			}
		}
	}
	// Anything else (e.g. a bare "this" parameter) contributes no name.
}

// declaredNamesInStatement collects every name a variable statement
// (lexical_declaration or variable_declaration) or a function declaration
// introduces.
func declaredNamesInStatement(stmt *tree_sitter.Node, source []byte) []string {
	var out []string
	switch stmt.Kind() {
	case "lexical_declaration", "variable_declaration":
		for i := uint(0); i < stmt.NamedChildCount(); i++ {
			child := stmt.NamedChild(i)
			if child == nil || child.Kind() != "variable_declarator" {
				continue
			}
			if name := child.ChildByFieldName("name"); name != nil {
				collectPatternNames(name, source, &out)
			}
		}
	case "function_declaration", "generator_function_declaration":
		if name := stmt.ChildByFieldName("name"); name != nil {
			out = append(out, parser.NodeText(name, source))
		}
	}
	return out
}

// walkChildren visits every immediate child of n with fn.
func walkChildren(n *tree_sitter.Node, fn func(*tree_sitter.Node)) {
	if n == nil {
		return
	}
	for i := uint(0); i < n.ChildCount(); i++ {
		if child := n.Child(i); child != nil {
			fn(child)
		}
	}
}
