package treesitter

import (
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
)

var pyGrammar = &grammar{
	decls: map[string]declSpec{
		"function_definition":     {kind: "FunctionDef", ctx: true, name: field("name"), typ: annotation("return_type")},
		"class_definition":        {kind: "ClassDef", ctx: true, name: field("name")},
		"assignment":              {kind: "Assign", match: pyBindsName, name: field("left"), typ: annotation("type")},
		"typed_parameter":         {kind: "Parameter", name: pyTypedParamName, typ: annotation("type")},
		"default_parameter":       {kind: "Parameter", name: identField("name")},
		"typed_default_parameter": {kind: "Parameter", name: identField("name"), typ: annotation("type")},
		"aliased_import":          {kind: "ImportAlias", name: field("alias")},
		"lambda":                  {kind: "Lambda", ctx: true},
	},
	refs: newSet("identifier"),
	literals: newSet("integer", "float", "string", "concatenated_string", "true", "false", "none",
		"ellipsis"),
	stmts: newSet("block", "elif_clause", "else_clause", "except_clause", "finally_clause",
		"case_clause", "with_clause"),
	exprs: newSet("call", "attribute", "subscript", "binary_operator", "boolean_operator",
		"comparison_operator", "unary_operator", "not_operator", "list", "dictionary", "tuple",
		"set", "pair", "list_comprehension", "dictionary_comprehension", "set_comprehension",
		"keyword_argument", "augmented_assignment", "assignment", "await", "slice",
		"conditional_expression", "named_expression"),
	identDecl: pyBareParam,
	hidden:    pyHidden,
}

// pyBindsName accepts assignments whose target is a single name. Other
// assignments stay expressions.
func pyBindsName(n *tree_sitter.Node) bool {
	left := n.ChildByFieldName("left")
	return left != nil && left.Kind() == "identifier"
}

func pyTypedParamName(n *tree_sitter.Node) *tree_sitter.Node {
	if c := firstNamed(n); c != nil && c.Kind() == "identifier" {
		return c
	}
	return nil
}

// pyBareParam reports untyped parameters, which the grammar leaves as plain
// identifiers in the parameter list.
func pyBareParam(n *tree_sitter.Node) string {
	switch parentKind(n) {
	case "parameters", "lambda_parameters":
		return "Parameter"
	}
	return ""
}

// pyHidden follows the leading-underscore convention. Dunder names are
// public.
func pyHidden(_ *tree_sitter.Node, _ []byte, name string, _ bool) bool {
	if strings.HasPrefix(name, "__") && strings.HasSuffix(name, "__") {
		return false
	}
	return strings.HasPrefix(name, "_")
}
