package parser

import (
	"testing"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/nau-media/qrlcapture/internal/lang"
)

func TestParseJavaScript(t *testing.T) {
	source := []byte(`function greet(name) {
	return "Hello, " + name;
}

const add = (a, b) => a + b;
`)
	tree, err := Parse(lang.JavaScript, source)
	if err != nil {
		t.Fatalf("Parse JavaScript: %v", err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root == nil {
		t.Fatal("root node is nil")
	}

	var funcCount, arrowCount int
	Walk(root, func(n *tree_sitter.Node) bool {
		switch n.Kind() {
		case "function_declaration":
			funcCount++
		case "arrow_function":
			arrowCount++
		}
		return true
	})
	if funcCount != 1 {
		t.Errorf("expected 1 function_declaration, got %d", funcCount)
	}
	if arrowCount != 1 {
		t.Errorf("expected 1 arrow_function, got %d", arrowCount)
	}
}

func TestParseTypeScript(t *testing.T) {
	source := []byte(`function greet(name: string): string {
	return "Hello, " + name;
}

interface Point {
	x: number;
	y: number;
}
`)
	tree, err := Parse(lang.TypeScript, source)
	if err != nil {
		t.Fatalf("Parse TypeScript: %v", err)
	}
	defer tree.Close()

	root := tree.RootNode()
	var funcCount, interfaceCount int
	Walk(root, func(n *tree_sitter.Node) bool {
		switch n.Kind() {
		case "function_declaration":
			funcCount++
		case "interface_declaration":
			interfaceCount++
		}
		return true
	})
	if funcCount != 1 {
		t.Errorf("expected 1 function_declaration, got %d", funcCount)
	}
	if interfaceCount != 1 {
		t.Errorf("expected 1 interface_declaration, got %d", interfaceCount)
	}
}

func TestParseTSX(t *testing.T) {
	source := []byte(`export function Widget(props: { label: string }) {
	return <div className="widget">{props.label}</div>;
}
`)
	tree, err := Parse(lang.TSX, source)
	if err != nil {
		t.Fatalf("Parse TSX: %v", err)
	}
	defer tree.Close()

	root := tree.RootNode()
	var jsxCount int
	Walk(root, func(n *tree_sitter.Node) bool {
		if n.Kind() == "jsx_element" {
			jsxCount++
		}
		return true
	})
	if jsxCount != 1 {
		t.Errorf("expected 1 jsx_element, got %d", jsxCount)
	}
}

func TestAllLanguagesLoad(t *testing.T) {
	for _, l := range lang.AllLanguages() {
		if _, err := GetLanguage(l); err != nil {
			t.Errorf("GetLanguage(%s): %v", l, err)
		}
	}
}

func TestNodeText(t *testing.T) {
	source := []byte(`function Hello() { return "hi"; }`)
	tree, err := Parse(lang.JavaScript, source)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	defer tree.Close()

	root := tree.RootNode()
	Walk(root, func(n *tree_sitter.Node) bool {
		if n.Kind() == "function_declaration" {
			nameNode := n.ChildByFieldName("name")
			if nameNode == nil {
				t.Error("function has no name node")
				return false
			}
			if got := NodeText(nameNode, source); got != "Hello" {
				t.Errorf("expected Hello, got %s", got)
			}
			return false
		}
		return true
	})
}

func TestFieldNameForChildNode(t *testing.T) {
	source := []byte(`function Hello(a, b) { return a; }`)
	tree, err := Parse(lang.JavaScript, source)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	defer tree.Close()

	root := tree.RootNode()
	Walk(root, func(n *tree_sitter.Node) bool {
		if n.Kind() == "function_declaration" {
			name := n.ChildByFieldName("name")
			if got := FieldNameForChildNode(n, name); got != "name" {
				t.Errorf("FieldNameForChildNode = %q, want %q", got, "name")
			}
			return false
		}
		return true
	})
}

func TestFieldNameForChildNodeNotAChild(t *testing.T) {
	source := []byte(`function A() {} function B() {}`)
	tree, err := Parse(lang.JavaScript, source)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	defer tree.Close()

	var fns []*tree_sitter.Node
	Walk(tree.RootNode(), func(n *tree_sitter.Node) bool {
		if n.Kind() == "function_declaration" {
			fns = append(fns, n)
		}
		return true
	})
	if len(fns) != 2 {
		t.Fatalf("expected 2 function_declarations, got %d", len(fns))
	}
	if got := FieldNameForChildNode(fns[0], fns[1]); got != "" {
		t.Errorf("FieldNameForChildNode across unrelated nodes = %q, want empty", got)
	}
}
