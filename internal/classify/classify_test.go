package classify

import (
	"testing"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/nau-media/qrlcapture/internal/lang"
	"github.com/nau-media/qrlcapture/internal/parser"
)

// occurrence records one identifier-ish node's classification for a given
// source text, keyed by kind so tests can pick out the occurrence they mean.
type occurrence struct {
	kind  string
	text  string
	value bool
}

func classifyAll(t *testing.T, l lang.Language, source string) []occurrence {
	t.Helper()
	tree, err := parser.Parse(l, []byte(source))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	defer tree.Close()

	var out []occurrence
	parser.Walk(tree.RootNode(), func(n *tree_sitter.Node) bool {
		out = append(out, occurrence{
			kind:  n.Kind(),
			text:  parser.NodeText(n, []byte(source)),
			value: IsValueReference(n),
		})
		return true
	})
	return out
}

func findAll(occs []occurrence, text string) []occurrence {
	var out []occurrence
	for _, o := range occs {
		if o.text == text {
			out = append(out, o)
		}
	}
	return out
}

func TestMemberAccessPropertyNotValue(t *testing.T) {
	occs := classifyAll(t, lang.TypeScript, `obj.prop;`)
	for _, o := range findAll(occs, "prop") {
		if o.kind == "property_identifier" && o.value {
			t.Errorf("property_identifier %q classified as value reference", o.text)
		}
	}
	found := false
	for _, o := range findAll(occs, "obj") {
		if o.kind == "identifier" {
			found = true
			if !o.value {
				t.Error("obj should be a value reference")
			}
		}
	}
	if !found {
		t.Fatal("expected to find identifier 'obj'")
	}
}

func TestParameterNamesNotValue(t *testing.T) {
	occs := classifyAll(t, lang.TypeScript, `function foo(a, b) { return a + b; }`)
	for _, o := range occs {
		if o.kind == "identifier" && o.text == "a" {
			// First occurrence (the parameter) must not be a value reference;
			// we only assert the parameter-list one here by checking there is
			// at least one non-value 'a' and at least one value 'a'.
		}
	}
	var sawDeclA, sawValueA bool
	for _, o := range occs {
		if o.text != "a" || o.kind != "identifier" {
			continue
		}
		if o.value {
			sawValueA = true
		} else {
			sawDeclA = true
		}
	}
	if !sawDeclA {
		t.Error("expected parameter 'a' to be classified as non-value")
	}
	if !sawValueA {
		t.Error("expected usage 'a' inside the body to be classified as value")
	}
}

func TestShorthandPropertyNotValue(t *testing.T) {
	occs := classifyAll(t, lang.TypeScript, `const y = 2; const o = { y };`)
	for _, o := range occs {
		if o.kind == "shorthand_property_identifier" && o.text == "y" {
			if o.value {
				t.Error("shorthand property identifier must not be classified as a value reference")
			}
			return
		}
	}
	t.Fatal("expected a shorthand_property_identifier node for 'y'")
}

func TestLabelTargetsNotValue(t *testing.T) {
	occs := classifyAll(t, lang.TypeScript, `outer: for (;;) { break outer; }`)
	sawLabel := false
	for _, o := range occs {
		if o.text == "outer" {
			sawLabel = true
			if o.value {
				t.Errorf("label/continue-target node (kind=%s) must not be a value reference", o.kind)
			}
		}
	}
	if !sawLabel {
		t.Fatal("expected to find 'outer' nodes")
	}
}

func TestCatchParameterNotValueButUsageIs(t *testing.T) {
	occs := classifyAll(t, lang.TypeScript, `try {} catch (e) { console.log(e); }`)
	var sawDecl, sawUse bool
	for _, o := range occs {
		if o.text != "e" || o.kind != "identifier" {
			continue
		}
		if o.value {
			sawUse = true
		} else {
			sawDecl = true
		}
	}
	if !sawDecl {
		t.Error("expected catch binding 'e' to be non-value")
	}
	if !sawUse {
		t.Error("expected 'e' inside console.log(e) to be a value reference")
	}
}

func TestTypeAnnotationNotValue(t *testing.T) {
	occs := classifyAll(t, lang.TypeScript, `let z: MyType;`)
	for _, o := range findAll(occs, "MyType") {
		if o.kind == "type_identifier" && o.value {
			t.Error("type_identifier must not be classified as a value reference")
		}
	}
}

func TestImportSpecifierNotValue(t *testing.T) {
	occs := classifyAll(t, lang.TypeScript, `import { useInlineTask } from "framework";`)
	for _, o := range findAll(occs, "useInlineTask") {
		if o.value {
			t.Error("import specifier name must not be classified as a value reference")
		}
	}
}

func TestNilNode(t *testing.T) {
	if IsValueReference(nil) {
		t.Error("nil node must not be a value reference")
	}
}
