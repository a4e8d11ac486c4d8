package rewrite

import (
	"fmt"
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/nau-media/qrlcapture/internal/capture"
	"github.com/nau-media/qrlcapture/internal/discover"
	"github.com/nau-media/qrlcapture/internal/lang"
	"github.com/nau-media/qrlcapture/internal/parser"
)

// Result is what Rewrite returns once a file has been walked. Edited is
// false when no inline-task call site produced any edit, in which case
// Text and Map are zero and the driver must emit nothing (spec §4.G).
type Result struct {
	Edited bool
	Text   string
	Map    *SourceMap
}

// injectionGroup is the per-enclosing-function record of fresh binding
// names produced by auto-injected calls (spec §3 InjectionGroup), keyed
// by the enclosing function node's identity.
type injectionGroup struct {
	fn    *tree_sitter.Node
	names []string
}

// Rewrite parses source as l and applies the call rewriter (spec §4.E),
// using the built-in reserved names, to every eligible `useInlineTask`
// call site.
func Rewrite(l lang.Language, filename string, source []byte) (Result, error) {
	return RewriteWithReserved(l, filename, source, DefaultReservedNames())
}

// RewriteWithReserved is Rewrite with caller-supplied reserved identifiers
// (internal/config's scope_param/fresh_prefix overrides), returning the
// modified text and a source map, or Edited=false if the file needed no
// changes.
func RewriteWithReserved(l lang.Language, filename string, source []byte, reserved ReservedNames) (Result, error) {
	tree, err := parser.Parse(l, source)
	if err != nil {
		return Result{}, fmt.Errorf("rewrite: parse %s: %w", filename, err)
	}
	defer tree.Close()

	buf := NewBuffer(source)
	counter := &freshBindingCounter{prefix: reserved.FreshPrefix}
	groups := map[uintptr]*injectionGroup{}
	var groupOrder []uintptr

	parser.Walk(tree.RootNode(), func(n *tree_sitter.Node) bool {
		if n.Kind() != "call_expression" {
			return true
		}
		processCall(n, source, buf, counter, groups, &groupOrder, reserved.ScopeParam)
		return true
	})

	for _, id := range groupOrder {
		g := groups[id]
		spliceReturnInjections(g, source, buf)
	}

	if buf.Len() == 0 {
		return Result{Edited: false}, nil
	}

	text, segments, err := buf.Apply()
	if err != nil {
		return Result{}, fmt.Errorf("rewrite: %s: %w", filename, err)
	}
	sm := buildSourceMap(filename, source, text, segments)
	return Result{Edited: true, Text: text, Map: sm}, nil
}

// processCall handles one call_expression node: the auto-capture gate,
// capture-list computation, identifier rewriting, and fresh-binding
// bookkeeping for the later return-injection pass.
func processCall(call *tree_sitter.Node, source []byte, buf *Buffer, counter *freshBindingCounter, groups map[uintptr]*injectionGroup, groupOrder *[]uintptr, scopeParamBase string) {
	fn := call.ChildByFieldName("function")
	if fn == nil || parser.NodeText(fn, source) != discover.HookIdentifier {
		return
	}
	args := call.ChildByFieldName("arguments")
	if args == nil || args.NamedChildCount() == 0 {
		return
	}
	callback := args.NamedChild(0)
	if callback == nil || !capture.IsFunctionNode(callback.Kind()) {
		return
	}

	autoCapture := args.NamedChildCount() == 1 && len(capture.ParamNames(callback, source)) == 0
	if autoCapture {
		applyCaptureEdits(call, callback, args, source, buf, scopeParamBase)
	}

	if call.Parent() == nil || call.Parent().Kind() != "expression_statement" {
		return
	}
	enclosing := capture.FindEnclosingFunction(call)
	if enclosing == nil || enclosing.Node == nil {
		return
	}

	id := enclosing.Node.Id()
	g, ok := groups[id]
	if !ok {
		g = &injectionGroup{fn: enclosing.Node}
		groups[id] = g
		*groupOrder = append(*groupOrder, id)
	}
	fresh := counter.next()
	g.names = append(g.names, fresh)
	buf.Insert(call.Parent().StartByte(), "const "+fresh+" = ")
}

// applyCaptureEdits performs rewriter steps 1-4 of spec §4.E for a single
// auto-capture-eligible call: scope-parameter injection, identifier
// rewriting, and the trailing captures object literal.
func applyCaptureEdits(call, callback, args *tree_sitter.Node, source []byte, buf *Buffer, scopeParamBase string) {
	enclosing := capture.FindEnclosingFunction(callback)
	potentially := capture.PotentiallyCaptureable(enclosing, callback.StartByte(), source)
	refs := capture.FreeVars(callback, potentially, source)
	captures := capture.NewCaptureSet(refs)
	if captures.Len() == 0 {
		return
	}

	names := captures.Names()
	scopeParam := chooseScopeParam(scopeParamBase, names)

	if params := callback.ChildByFieldName("parameters"); params != nil {
		innerStart, innerEnd := params.StartByte()+1, params.EndByte()-1
		if innerStart >= innerEnd {
			buf.Insert(innerStart, scopeParam)
		} else {
			buf.Replace(innerStart, innerEnd, scopeParam)
		}
	}

	for _, ref := range captures.Occurrences(refs) {
		buf.Replace(ref.Node.StartByte(), ref.Node.EndByte(), scopeParam+"."+ref.Name)
	}

	closing := args.Child(args.ChildCount() - 1)
	insertPos := call.EndByte() - 1
	if closing != nil {
		insertPos = closing.StartByte()
	}
	buf.Insert(insertPos, ", { "+strings.Join(names, ", ")+" }")
}

// spliceReturnInjections implements the return-splicing pass that runs
// once all call sites in the file have been processed (spec §4.E): every
// return expression of an enclosing function with a non-empty injection
// group gets the group's fresh-binding references appended as child
// expression slots.
func spliceReturnInjections(g *injectionGroup, source []byte, buf *Buffer) {
	if g == nil || len(g.names) == 0 {
		return
	}
	var suffix strings.Builder
	for _, name := range g.names {
		suffix.WriteByte('{')
		suffix.WriteString(name)
		suffix.WriteByte('}')
	}

	for _, expr := range returnExpressions(g.fn) {
		expr = stripParens(expr)
		if expr == nil {
			continue
		}
		if isFragment(expr) {
			closing := expr.Child(expr.ChildCount() - 1)
			if closing == nil {
				continue
			}
			buf.Insert(closing.StartByte(), suffix.String())
			continue
		}
		text := parser.NodeText(expr, source)
		buf.Replace(expr.StartByte(), expr.EndByte(), "<>"+text+suffix.String()+"</>")
	}
}

// returnExpressions collects every return-value expression belonging
// directly to fn: for an arrow with an expression body, that body itself;
// for a block body, the argument of every `return` statement reachable
// without crossing a nested function-like boundary.
func returnExpressions(fn *tree_sitter.Node) []*tree_sitter.Node {
	body := fn.ChildByFieldName("body")
	if body == nil {
		return nil
	}
	if body.Kind() != "statement_block" {
		return []*tree_sitter.Node{body}
	}

	var out []*tree_sitter.Node
	var walk func(n *tree_sitter.Node)
	walk = func(n *tree_sitter.Node) {
		if n == nil {
			return
		}
		if n.Kind() == "return_statement" {
			arg := n.ChildByFieldName("argument")
			for i := uint(0); arg == nil && i < n.NamedChildCount(); i++ {
				if c := n.NamedChild(i); c != nil && c.Kind() != "comment" {
					arg = c
				}
			}
			if arg != nil {
				out = append(out, arg)
			}
			return
		}
		if capture.IsFunctionNode(n.Kind()) {
			return
		}
		for i := uint(0); i < n.ChildCount(); i++ {
			walk(n.Child(i))
		}
	}
	walk(body)
	return out
}

// stripParens peels away enclosing parenthesised_expression wrappers.
func stripParens(n *tree_sitter.Node) *tree_sitter.Node {
	for n != nil && n.Kind() == "parenthesized_expression" {
		inner := n.ChildByFieldName("expression")
		if inner == nil && n.NamedChildCount() > 0 {
			inner = n.NamedChild(0)
		}
		if inner == nil {
			return n
		}
		n = inner
	}
	return n
}

// isFragment reports whether n is a JSX fragment (`<>...</>`), as opposed
// to a self-closing/ordinary JSX element or any other expression kind.
func isFragment(n *tree_sitter.Node) bool {
	if n.Kind() == "jsx_fragment" {
		return true
	}
	if n.Kind() != "jsx_element" {
		return false
	}
	open := n.ChildByFieldName("open_tag")
	return open != nil && open.ChildByFieldName("name") == nil
}
