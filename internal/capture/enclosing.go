package capture

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"
)

// EnclosingFunction is the nearest function-like ancestor of a call site
// (spec §3). Node is the function/arrow/method node itself.
type EnclosingFunction struct {
	Node *tree_sitter.Node
}

// FindEnclosingFunction walks up from node and returns the nearest
// function-like ancestor, or nil if node is at the top level of the file.
func FindEnclosingFunction(node *tree_sitter.Node) *EnclosingFunction {
	for p := node.Parent(); p != nil; p = p.Parent() {
		if IsFunctionNode(p.Kind()) {
			return &EnclosingFunction{Node: p}
		}
	}
	return nil
}

// PotentiallyCaptureable returns the set of identifier names that are
// potentially captureable (spec §4.C) from inside a callback invoked at
// byte offset position within fn: every parameter of fn, plus every name
// introduced by a variable statement or function declaration at the top
// level of fn's block body whose starting position precedes position.
//
// Positions are compared using tree-sitter byte offsets, which already
// exclude leading trivia (comments, whitespace) the way the spec requires.
// Declarations appearing textually after position are excluded even though
// host-language hoisting would make them visible at runtime — this is a
// deliberate non-goal (spec §4.C).
func PotentiallyCaptureable(fn *EnclosingFunction, position uint, source []byte) map[string]bool {
	out := make(map[string]bool)
	if fn == nil || fn.Node == nil {
		return out
	}

	for _, name := range paramNames(fn.Node, source) {
		out[name] = true
	}

	body := fn.Node.ChildByFieldName("body")
	if body == nil || body.Kind() != "statement_block" {
		return out
	}

	for i := uint(0); i < body.NamedChildCount(); i++ {
		stmt := body.NamedChild(i)
		if stmt == nil {
			continue
		}
		if stmt.StartByte() >= uint(position) {
			continue
		}
		for _, name := range declaredNamesInStatement(stmt, source) {
			out[name] = true
		}
	}
	return out
}
