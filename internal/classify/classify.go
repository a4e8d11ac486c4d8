// Package classify implements the lexical classifier (spec §4.A): given an
// identifier occurrence, decide whether it is a value reference eligible
// for rewriting, as opposed to a property name, declaration name, label, or
// type-level name.
package classify

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/nau-media/qrlcapture/internal/parser"
)

// nonValueKinds are tree-sitter node kinds the JS/TS grammars already give
// a distinct shape to, so no parent inspection is needed: the grammar
// itself tells us these are never a read of a runtime binding.
var nonValueKinds = map[string]bool{
	"property_identifier":                  true, // obj.prop / {prop: v} key / method name
	"private_property_identifier":          true, // obj.#prop
	"shorthand_property_identifier":        true, // {name} literal — see IsValueReference doc
	"shorthand_property_identifier_pattern": true, // {name} destructuring pattern
	"type_identifier":                      true, // TS type position
	"statement_identifier":                 true, // labelled-statement label / break|continue target
}

// identifierKinds are the node kinds that can, depending on context, be a
// value reference. Anything outside this set is never classified as one.
var identifierKinds = map[string]bool{
	"identifier": true,
}

// IsValueReference reports whether node is a value reference: an
// identifier occurrence that, at run time, reads the binding of that name.
//
// Per spec §4.A this returns false for: the right-hand identifier of a
// member access (property name), declaration names (variable, function,
// class, parameter), property names in object literals and object binding
// patterns, property signatures and method names, import/export
// specifiers, label targets of break/continue, labelled-statement labels,
// and any identifier whose parent is a type-level syntactic position.
//
// Object literal/pattern shorthand (`{ name }`) is deliberately classified
// as non-value: tree-sitter represents it as a single node that is
// simultaneously the key and the value, and rewriting it in place would
// produce `{ __scope.name }`, which is not valid shorthand syntax (spec
// §4.A rationale). Capturing a shorthand-referenced outer variable is
// accepted as an uncaptured miss, consistent with the non-goals in §1.
func IsValueReference(node *tree_sitter.Node) bool {
	if node == nil {
		return false
	}
	kind := node.Kind()
	if nonValueKinds[kind] {
		return false
	}
	if !identifierKinds[kind] {
		return false
	}

	parent := node.Parent()
	if parent == nil {
		return true
	}
	field := parser.FieldNameForChildNode(parent, node)

	switch parent.Kind() {
	case "variable_declarator":
		return field != "name"
	case "function_declaration", "function_expression", "generator_function_declaration",
		"method_definition", "function_signature", "class_declaration", "class":
		return field != "name"
	case "formal_parameters":
		// Plain `identifier` children of a parameter list are declared
		// bindings, not references.
		return false
	case "required_parameter", "optional_parameter":
		// TypeScript parameter wrapper: the "pattern" field is the bound
		// name; a "type" field identifier would already be a
		// type_identifier and filtered above, but guard anyway.
		return field != "pattern"
	case "arrow_function":
		// Single unparenthesised parameter: `x => ...`.
		return field != "parameter"
	case "catch_clause":
		return field != "parameter"
	case "import_specifier", "export_specifier", "namespace_import",
		"import_clause", "import_default_specifier", "import_attribute":
		return false
	case "labeled_statement":
		return field != "label"
	case "break_statement", "continue_statement":
		return false
	case "pair_pattern":
		// {key: value} destructuring: key is a binding-target name, not a
		// reference; value is itself a (possibly further-nested) binding.
		return false
	case "object_assignment_pattern", "assignment_pattern":
		// Default-value patterns: the left side is the declared name, the
		// right side is an ordinary value expression that may itself
		// reference outer variables.
		return field != "left"
	case "array_pattern", "object_pattern":
		return false
	case "type_annotation", "type_arguments", "type_alias_declaration",
		"interface_declaration", "predefined_type", "generic_type",
		"type_parameters", "type_parameter", "implements_clause",
		"extends_type_clause":
		return false
	case "import_statement", "export_statement":
		return false
	default:
		return true
	}
}
