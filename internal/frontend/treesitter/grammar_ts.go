package treesitter

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"
)

var tsGrammar = &grammar{
	decls: map[string]declSpec{
		"function_declaration":           {kind: "FunctionDeclaration", ctx: true, name: field("name"), typ: tsFuncType},
		"generator_function_declaration": {kind: "FunctionDeclaration", ctx: true, name: field("name"), typ: tsFuncType},
		"function_signature":             {kind: "FunctionSignature", name: field("name"), typ: tsFuncType},
		"class_declaration":              {kind: "ClassDeclaration", ctx: true, name: field("name")},
		"abstract_class_declaration":     {kind: "ClassDeclaration", ctx: true, name: field("name")},
		"interface_declaration":          {kind: "InterfaceDeclaration", ctx: true, name: field("name")},
		"enum_declaration":               {kind: "EnumDeclaration", ctx: true, name: field("name")},
		"type_alias_declaration":         {kind: "TypeAliasDeclaration", name: field("name"), typ: fieldText("value")},
		"internal_module":                {kind: "ModuleDeclaration", ctx: true, name: field("name")},
		"module":                         {kind: "ModuleDeclaration", ctx: true, name: field("name")},
		"method_definition":              {kind: "MethodDefinition", ctx: true, name: field("name"), typ: tsFuncType},
		"method_signature":               {kind: "MethodSignature", name: field("name"), typ: tsFuncType},
		"abstract_method_signature":      {kind: "MethodSignature", name: field("name"), typ: tsFuncType},
		"public_field_definition":        {kind: "PropertyDeclaration", name: field("name"), typ: annotation("type")},
		"property_signature":             {kind: "PropertySignature", name: field("name"), typ: annotation("type")},
		"lexical_declaration":            {kind: "VariableStatement"},
		"variable_declaration":           {kind: "VariableStatement"},
		"variable_declarator":            {kind: "VariableDeclaration", name: identField("name"), typ: annotation("type")},
		"required_parameter":             {kind: "Parameter", name: identField("pattern"), typ: annotation("type")},
		"optional_parameter":             {kind: "Parameter", name: identField("pattern"), typ: annotation("type")},
		"import_specifier":               {kind: "ImportSpecifier", name: tsImportName},
		"namespace_import":               {kind: "NamespaceImport", name: firstNamed},
		"arrow_function":                 {kind: "ArrowFunction", ctx: true, typ: tsFuncType},
	},
	refs: newSet("identifier", "type_identifier", "property_identifier",
		"shorthand_property_identifier"),
	literals: newSet("number", "string", "template_string", "regex", "true", "false", "null",
		"undefined"),
	stmts: newSet("statement_block", "switch_case", "switch_default", "catch_clause",
		"finally_clause", "else_clause"),
	exprs: newSet("object", "array", "pair", "template_substitution", "function_expression",
		"arguments"),
	casts: map[string]string{
		"as_expression":        "As",
		"satisfies_expression": "Satisfies",
		"type_assertion":       "TypeAssertion",
		"non_null_expression":  "NonNull",
	},
	hidden: tsHidden,
}

// tsFuncType spells a signature as "(params) => ret".
func tsFuncType(n *tree_sitter.Node, src []byte) string {
	params := text(n.ChildByFieldName("parameters"), src)
	if params == "" {
		return ""
	}
	ret := annotation("return_type")(n, src)
	if ret == "" {
		return params
	}
	return params + " => " + ret
}

func tsImportName(n *tree_sitter.Node) *tree_sitter.Node {
	if a := n.ChildByFieldName("alias"); a != nil {
		return a
	}
	return n.ChildByFieldName("name")
}

// tsHidden reports top-level declarations that are not exported and class
// members marked private.
func tsHidden(n *tree_sitter.Node, src []byte, _ string, top bool) bool {
	for i := uint(0); i < n.NamedChildCount(); i++ {
		c := n.NamedChild(i)
		if c.Kind() == "accessibility_modifier" && text(c, src) == "private" {
			return true
		}
	}
	if !top {
		return false
	}
	// Walk past the declaration list a declarator sits in.
	p := n.Parent()
	for p != nil && (p.Kind() == "lexical_declaration" || p.Kind() == "variable_declaration") {
		p = p.Parent()
	}
	return p == nil || p.Kind() != "export_statement"
}
