package capture

import (
	"testing"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/nau-media/qrlcapture/internal/lang"
	"github.com/nau-media/qrlcapture/internal/parser"
)

// findCall returns the first call_expression node whose callee text equals
// name, and its first argument (the callback).
func findCall(t *testing.T, root *tree_sitter.Node, source []byte, name string) (call, callback *tree_sitter.Node) {
	t.Helper()
	parser.Walk(root, func(n *tree_sitter.Node) bool {
		if n.Kind() != "call_expression" {
			return true
		}
		fn := n.ChildByFieldName("function")
		if fn == nil || parser.NodeText(fn, source) != name {
			return true
		}
		args := n.ChildByFieldName("arguments")
		if args == nil || args.NamedChildCount() == 0 {
			return true
		}
		call = n
		callback = args.NamedChild(0)
		return false
	})
	return call, callback
}

func analyze(t *testing.T, source string) (names []string, refs []Ref) {
	t.Helper()
	tree, err := parser.Parse(lang.TSX, []byte(source))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	defer tree.Close()

	src := []byte(source)
	_, callback := findCall(t, tree.RootNode(), src, "useInlineTask")
	if callback == nil {
		t.Fatal("no useInlineTask call found")
	}

	enclosing := FindEnclosingFunction(callback)
	names2 := PotentiallyCaptureable(enclosing, callback.StartByte(), src)
	refs = FreeVars(callback, names2, src)
	cs := NewCaptureSet(refs)
	return cs.Names(), refs
}

func TestScenario1_SimpleOuterConst(t *testing.T) {
	names, refs := analyze(t, `function C(){ const x=1; useInlineTask(()=>{ console.log(x); }); return <div/>; }`)
	if len(names) != 1 || names[0] != "x" {
		t.Fatalf("Names() = %v, want [x]", names)
	}
	if len(refs) != 1 {
		t.Fatalf("expected 1 occurrence of x, got %d", len(refs))
	}
}

func TestScenario2_EnclosingParameter(t *testing.T) {
	names, _ := analyze(t, `function C(props){ useInlineTask(()=>{ console.log(props.title); }); return <div/>; }`)
	if len(names) != 1 || names[0] != "props" {
		t.Fatalf("Names() = %v, want [props]", names)
	}
}

func TestScenario3_BlockShadowing(t *testing.T) {
	names, refs := analyze(t, `function C(){ const x='outer'; useInlineTask(()=>{ { const x='inner'; use(x);} use(x); }); return <div/>; }`)
	if len(names) != 1 || names[0] != "x" {
		t.Fatalf("Names() = %v, want [x]", names)
	}
	if len(refs) != 1 {
		t.Fatalf("expected exactly 1 captured occurrence of x (the outer use), got %d", len(refs))
	}
}

func TestScenario4_LoopShadowing(t *testing.T) {
	names, _ := analyze(t, `function C(){ const i=99; useInlineTask(()=>{ for(let i=0;i<10;i++) use(i); }); return <div/>; }`)
	for _, n := range names {
		if n == "i" {
			t.Fatalf("expected loop-scoped i to shadow outer i, got capture set %v", names)
		}
	}
}

func TestScenario4_ForInDeclaredVarShadows(t *testing.T) {
	names, _ := analyze(t, `function C(){ const outer=1; useInlineTask(()=>{ for(let outer in obj) use(outer); }); return <div/>; }`)
	for _, n := range names {
		if n == "outer" {
			t.Fatalf("loop-scoped 'let outer' in for-in header should shadow, got capture set %v", names)
		}
	}
}

func TestForInReusedIdentifierIsCaptured(t *testing.T) {
	names, refs := analyze(t, `function C(){ let outer; useInlineTask(()=>{ for (outer in someObj) { use(outer); } }); return <div/>; }`)
	if len(names) != 1 || names[0] != "outer" {
		t.Fatalf("Names() = %v, want [outer]: a bare reused for-in target is not a new binding and must be captured", names)
	}
	if len(refs) != 2 {
		t.Fatalf("expected exactly 2 captured occurrences of outer (the for-in target and the use), got %d", len(refs))
	}
}

func TestNoEnclosingFunctionYieldsNoCaptures(t *testing.T) {
	names, _ := analyze(t, `const x = 1; useInlineTask(()=>{ console.log(x); });`)
	if len(names) != 0 {
		t.Fatalf("top-level const is not in any enclosing function's visible prefix, want no captures, got %v", names)
	}
}

func TestDeclarationAfterCallSiteNotCaptureable(t *testing.T) {
	names, _ := analyze(t, `function C(){ useInlineTask(()=>{ console.log(y); }); const y = 2; return <div/>; }`)
	if len(names) != 0 {
		t.Fatalf("y is declared after the call site and must not be captureable, got %v", names)
	}
}

func TestCatchBindingShadowsOuterName(t *testing.T) {
	names, _ := analyze(t, `function C(){ const e='outer'; useInlineTask(()=>{ try {} catch (e) { use(e); } }); return <div/>; }`)
	for _, n := range names {
		if n == "e" {
			t.Fatalf("catch-bound e shadows outer e; expected no capture, got %v", names)
		}
	}
}

func TestDestructuredParameterIsCaptureable(t *testing.T) {
	names, _ := analyze(t, `function C({ title, meta }){ useInlineTask(()=>{ console.log(title); }); return <div/>; }`)
	if len(names) != 1 || names[0] != "title" {
		t.Fatalf("Names() = %v, want [title]", names)
	}
}

func TestFirstOccurrenceOrderingPreserved(t *testing.T) {
	names, _ := analyze(t, `function C(){ const a=1; const b=2; useInlineTask(()=>{ console.log(b); console.log(a); console.log(b); }); return <div/>; }`)
	if len(names) != 2 || names[0] != "b" || names[1] != "a" {
		t.Fatalf("Names() = %v, want [b a] in first-occurrence order", names)
	}
}
