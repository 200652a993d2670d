package treesitter

import (
	"unicode"
	"unicode/utf8"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
)

var goGrammar = &grammar{
	decls: map[string]declSpec{
		"package_clause":                 {kind: "PackageClause", name: firstNamed},
		"function_declaration":           {kind: "FuncDecl", ctx: true, name: field("name"), typ: goFuncType},
		"method_declaration":             {kind: "MethodDecl", ctx: true, name: field("name"), typ: goFuncType},
		"method_elem":                    {kind: "MethodElem", name: field("name"), typ: goFuncType},
		"type_spec":                      {kind: "TypeSpec", ctx: true, name: field("name"), typ: fieldText("type")},
		"type_alias":                     {kind: "TypeAlias", name: field("name"), typ: fieldText("type")},
		"type_parameter_declaration":     {kind: "TypeParam", name: field("name"), typ: fieldText("type")},
		"var_spec":                       {kind: "VarSpec", name: field("name"), typ: fieldText("type")},
		"const_spec":                     {kind: "ConstSpec", name: field("name"), typ: fieldText("type")},
		"short_var_declaration":          {kind: "ShortVarDecl", name: goLeftIdent},
		"range_clause":                   {kind: "RangeClause", match: goDefines, name: goLeftIdent},
		"parameter_declaration":          {kind: "ParamDecl", name: field("name"), typ: fieldText("type")},
		"variadic_parameter_declaration": {kind: "ParamDecl", name: field("name"), typ: goVariadicType},
		"field_declaration":              {kind: "FieldDecl", name: field("name"), typ: fieldText("type")},
		"import_spec":                    {kind: "ImportSpec", name: field("name")},
		"import_declaration":             {kind: "GenDecl"},
		"var_declaration":                {kind: "GenDecl"},
		"const_declaration":              {kind: "GenDecl"},
		"type_declaration":               {kind: "GenDecl"},
		"labeled_statement":              {kind: "LabeledStmt", name: field("label")},
	},
	refs: newSet("identifier", "type_identifier", "field_identifier", "package_identifier",
		"label_name"),
	literals: newSet("int_literal", "float_literal", "imaginary_literal", "rune_literal",
		"interpreted_string_literal", "raw_string_literal", "true", "false", "nil", "iota"),
	stmts: newSet("block", "expression_case", "default_case", "type_case", "communication_case"),
	exprs: newSet("composite_literal", "literal_value", "keyed_element", "literal_element",
		"func_literal"),
	casts: map[string]string{
		"type_assertion_expression":  "Dynamic",
		"type_conversion_expression": "Conversion",
	},
	hidden: goHidden,
	constexpr: func(n *tree_sitter.Node, _ []byte) bool {
		return n.Kind() == "const_spec"
	},
	owner:  goReceiver,
	module: goPackage,
}

// goFuncType spells a function signature as "func(params) result".
func goFuncType(n *tree_sitter.Node, src []byte) string {
	t := "func" + text(n.ChildByFieldName("parameters"), src)
	if r := text(n.ChildByFieldName("result"), src); r != "" {
		t += " " + r
	}
	return t
}

func goVariadicType(n *tree_sitter.Node, src []byte) string {
	if t := text(n.ChildByFieldName("type"), src); t != "" {
		return "..." + t
	}
	return ""
}

// goLeftIdent names a := declaration after the first identifier it
// defines.
func goLeftIdent(n *tree_sitter.Node) *tree_sitter.Node {
	left := n.ChildByFieldName("left")
	if left == nil {
		return nil
	}
	if left.Kind() == "identifier" {
		return left
	}
	if c := firstNamed(left); c != nil && c.Kind() == "identifier" {
		return c
	}
	return nil
}

// goDefines reports a range clause that declares its variables.
func goDefines(n *tree_sitter.Node) bool {
	return hasToken(n, ":=")
}

// hasToken reports whether an anonymous child of n is the token tok.
// Anonymous nodes are named after their text.
func hasToken(n *tree_sitter.Node, tok string) bool {
	for i := uint(0); i < n.ChildCount(); i++ {
		if c := n.Child(i); !c.IsNamed() && c.Kind() == tok {
			return true
		}
	}
	return false
}

// goReceiver names the receiver base type of a method.
func goReceiver(n *tree_sitter.Node, src []byte) string {
	if n.Kind() != "method_declaration" {
		return ""
	}
	recv := n.ChildByFieldName("receiver")
	if recv == nil {
		return ""
	}
	for i := uint(0); i < recv.NamedChildCount(); i++ {
		p := recv.NamedChild(i)
		if p.Kind() == "parameter_declaration" {
			return baseTypeName(p.ChildByFieldName("type"), src)
		}
	}
	return ""
}

func goPackage(root *tree_sitter.Node, src []byte) string {
	for i := uint(0); i < root.NamedChildCount(); i++ {
		c := root.NamedChild(i)
		if c.Kind() == "package_clause" {
			return text(firstNamed(c), src)
		}
	}
	return ""
}

// goHidden reports unexported package members, fields and methods.
func goHidden(n *tree_sitter.Node, _ []byte, name string, top bool) bool {
	if name == "" || name == "_" {
		return false
	}
	switch n.Kind() {
	case "package_clause", "import_spec":
		return false
	case "field_declaration", "method_declaration", "method_elem":
		return !isGoExported(name)
	}
	return top && !isGoExported(name)
}

// isGoExported returns true if the first rune of name is an uppercase letter.
func isGoExported(name string) bool {
	r, _ := utf8.DecodeRuneInString(name)
	return unicode.IsUpper(r)
}
