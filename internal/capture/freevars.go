package capture

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/nau-media/qrlcapture/internal/classify"
	"github.com/nau-media/qrlcapture/internal/parser"
	"github.com/nau-media/qrlcapture/internal/scope"
)

// Ref is one occurrence of a free-variable identifier found by FreeVars.
type Ref struct {
	Node *tree_sitter.Node
	Name string
}

// FreeVars walks callback (an arrow or function expression) and returns,
// in encounter order and including duplicates, every identifier node that
// is (1) a value reference (spec §4.A), (2) not bound by the innermost
// scope or any ancestor scope except the root, and (3) a member of
// enclosingNames (spec §4.C's result). The callback's own parameters
// belong to the root scope (spec §4.D).
func FreeVars(callback *tree_sitter.Node, enclosingNames map[string]bool, source []byte) []Ref {
	f := &finder{
		callbackID:     callback.Id(),
		enclosingNames: enclosingNames,
		source:         source,
	}
	root := scope.New()
	for _, name := range paramNames(callback, source) {
		root.Declare(name)
	}
	f.walkFunctionBody(callback, root)
	return f.refs
}

type finder struct {
	callbackID     uintptr
	enclosingNames map[string]bool
	source         []byte
	refs           []Ref
}

func (f *finder) walk(n *tree_sitter.Node, cur *scope.Scope) {
	if n == nil {
		return
	}

	switch n.Kind() {
	case "arrow_function", "function_expression", "function_declaration",
		"generator_function_declaration", "method_definition":
		f.walkFunction(n, cur)
		return
	case "statement_block":
		child := cur.Child(scope.KindBlock)
		walkChildren(n, func(c *tree_sitter.Node) { f.walk(c, child) })
		return
	case "for_statement", "for_in_statement":
		child := cur.Child(scope.KindLoop)
		f.declareLoopVars(n, child)
		walkChildren(n, func(c *tree_sitter.Node) { f.walk(c, child) })
		return
	case "catch_clause":
		child := cur.Child(scope.KindCatch)
		if param := n.ChildByFieldName("parameter"); param != nil {
			var names []string
			collectPatternNames(param, f.source, &names)
			for _, name := range names {
				child.Declare(name)
			}
		}
		walkChildren(n, func(c *tree_sitter.Node) { f.walk(c, child) })
		return
	case "lexical_declaration", "variable_declaration":
		for _, name := range declaredNamesInStatement(n, f.source) {
			cur.Declare(name)
		}
		walkChildren(n, func(c *tree_sitter.Node) { f.walk(c, cur) })
		return
	}

	if classify.IsValueReference(n) {
		name := parser.NodeText(n, f.source)
		if f.enclosingNames[name] && !hasAboveRoot(name, cur) {
			f.refs = append(f.refs, Ref{Node: n, Name: name})
		}
	}
	walkChildren(n, func(c *tree_sitter.Node) { f.walk(c, cur) })
}

// walkFunction handles entry into a function-like node encountered during
// the walk. The callback's own root is special-cased: its scope and
// parameter bindings were already set up by FreeVars, so it is walked in
// place rather than pushing a new function scope.
func (f *finder) walkFunction(n *tree_sitter.Node, cur *scope.Scope) {
	if n.Id() == f.callbackID {
		f.walkFunctionBody(n, cur)
		return
	}

	if n.Kind() == "function_declaration" || n.Kind() == "generator_function_declaration" {
		if name := n.ChildByFieldName("name"); name != nil {
			cur.Declare(parser.NodeText(name, f.source))
		}
	}

	child := cur.Child(scope.KindFunction)
	for _, name := range paramNames(n, f.source) {
		child.Declare(name)
	}
	walkChildren(n, func(c *tree_sitter.Node) { f.walk(c, child) })
}

// walkFunctionBody walks every child of a function node (parameter list
// defaults, and the body) in scope cur, without introducing a new function
// scope — used for the callback root, whose scope was seeded by the caller.
func (f *finder) walkFunctionBody(n *tree_sitter.Node, cur *scope.Scope) {
	walkChildren(n, func(c *tree_sitter.Node) { f.walk(c, cur) })
}

// declareLoopVars adds let/const loop-variable bindings from a for/for-in/
// for-of header to the loop's scope (spec §4.D). var-declared loop
// variables are not block-scoped in the host language and are deliberately
// left out of the loop scope.
func (f *finder) declareLoopVars(n *tree_sitter.Node, loopScope *scope.Scope) {
	var decl *tree_sitter.Node
	switch n.Kind() {
	case "for_statement":
		init := n.ChildByFieldName("initializer")
		if init != nil && init.Kind() == "lexical_declaration" {
			decl = init
		}
	case "for_in_statement":
		left := n.ChildByFieldName("left")
		if left != nil && left.Kind() == "lexical_declaration" {
			decl = left
		} else if kind := n.ChildByFieldName("kind"); left != nil && kind != nil {
			if k := parser.NodeText(kind, f.source); k == "let" || k == "const" {
				var names []string
				collectPatternNames(left, f.source, &names)
				for _, name := range names {
					loopScope.Declare(name)
				}
			}
			return
		}
	}
	if decl == nil {
		return
	}
	for _, name := range declaredNamesInStatement(decl, f.source) {
		loopScope.Declare(name)
	}
}

// hasAboveRoot reports whether name is declared by s or any ancestor of s,
// stopping before (and never inspecting) the root scope itself — the root
// holds only the callback's own parameters, which spec §4.D's condition 2
// explicitly excludes from the "bound" check.
func hasAboveRoot(name string, s *scope.Scope) bool {
	for cur := s; cur != nil; cur = cur.Parent() {
		if cur.Kind() == scope.KindRoot {
			return false
		}
		if cur.DeclaresLocally(name) {
			return true
		}
	}
	return false
}
