package treesitter

import (
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
)

// C and C++ share most of their grammar. Declaration kinds follow the
// names clang gives them.

var cDecls = map[string]declSpec{
	"function_definition":   {kind: "FunctionDecl", ctx: true, name: declaratorName, typ: cFuncType},
	"declaration":           {kind: "VarDecl", kindOf: cPrototype, name: declaratorName, typ: cDeclType},
	"field_declaration":     {kind: "FieldDecl", name: declaratorName, typ: cDeclType},
	"parameter_declaration": {kind: "ParmVarDecl", name: declaratorName, typ: cDeclType},
	"type_definition":       {kind: "TypedefDecl", name: declaratorName, typ: fieldText("type")},
	"struct_specifier":      {kind: "RecordDecl", ctx: true, match: hasBody, name: field("name")},
	"union_specifier":       {kind: "RecordDecl", ctx: true, match: hasBody, name: field("name")},
	"enum_specifier":        {kind: "EnumDecl", ctx: true, match: hasBody, name: field("name")},
	"enumerator":            {kind: "EnumConstantDecl", name: field("name")},
	"preproc_def":           {kind: "MacroDefinition", name: field("name")},
	"preproc_function_def":  {kind: "MacroDefinition", name: field("name")},
	"preproc_include":       {kind: "InclusionDirective"},
}

var cLiterals = []string{
	"number_literal", "string_literal", "char_literal", "concatenated_string",
	"true", "false", "null", "system_lib_string",
}

var cStmts = []string{"compound_statement", "case_statement", "labeled_statement"}

var cExprs = []string{"initializer_list", "compound_literal_expression"}

var cGrammar = &grammar{
	decls:    cDecls,
	refs:     newSet("identifier", "type_identifier", "field_identifier", "statement_identifier"),
	literals: newSet(cLiterals...),
	stmts:    newSet(cStmts...),
	exprs:    newSet(cExprs...),
	casts:    map[string]string{"cast_expression": "CStyleCast"},
	hidden:   cStatic,
}

var cppGrammar = &grammar{
	decls: merge(cDecls, map[string]declSpec{
		"function_definition":  {kind: "FunctionDecl", kindOf: cppMethod, ctx: true, name: declaratorName, typ: cFuncType},
		"field_declaration":    {kind: "FieldDecl", kindOf: cppMethod, name: declaratorName, typ: cDeclType},
		"struct_specifier":     {kind: "CXXRecordDecl", ctx: true, match: hasBody, name: field("name")},
		"union_specifier":      {kind: "CXXRecordDecl", ctx: true, match: hasBody, name: field("name")},
		"class_specifier":      {kind: "CXXRecordDecl", ctx: true, match: hasBody, name: field("name")},
		"namespace_definition": {kind: "NamespaceDecl", ctx: true, name: field("name")},
		"alias_declaration":    {kind: "TypeAliasDecl", name: field("name"), typ: fieldText("type")},
		"template_declaration": {kind: "TemplateDecl"},
		"optional_parameter_declaration": {
			kind: "ParmVarDecl", name: declaratorName, typ: cDeclType,
		},
	}),
	refs: newSet("identifier", "type_identifier", "field_identifier", "statement_identifier",
		"namespace_identifier"),
	literals: newSet(append(cLiterals, "nullptr", "raw_string_literal", "user_defined_literal")...),
	stmts:    newSet(append(cStmts, "try_statement", "catch_clause")...),
	exprs:    newSet(append(cExprs, "lambda_expression", "this", "condition_clause")...),
	casts:    map[string]string{"cast_expression": "CStyleCast"},
	cast:     cppNamedCast,
	hidden:   cStatic,
	constexpr: func(n *tree_sitter.Node, src []byte) bool {
		return hasChildText(n, src, "constexpr")
	},
	owner: qualifiedScope,
}

func merge(base, over map[string]declSpec) map[string]declSpec {
	out := make(map[string]declSpec, len(base)+len(over))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range over {
		out[k] = v
	}
	return out
}

func hasBody(n *tree_sitter.Node) bool {
	return n.ChildByFieldName("body") != nil
}

// declarator follows the declarator chain of n down to the innermost
// declarator, which names the entity. Abstract declarators yield nil.
func declarator(n *tree_sitter.Node) *tree_sitter.Node {
	d := n.ChildByFieldName("declarator")
	for d != nil {
		switch d.Kind() {
		case "identifier", "field_identifier", "type_identifier", "destructor_name",
			"operator_name", "qualified_identifier", "template_function":
			return d
		}
		d = innerDeclarator(d)
	}
	return nil
}

// innerDeclarator steps one level down a declarator chain. A few wrappers
// hold their declarator without a field name.
func innerDeclarator(d *tree_sitter.Node) *tree_sitter.Node {
	if next := d.ChildByFieldName("declarator"); next != nil {
		return next
	}
	switch d.Kind() {
	case "parenthesized_declarator", "reference_declarator", "attributed_declarator":
		return firstNamed(d)
	}
	return nil
}

// declaratorName returns the identifier a declaration introduces. For a
// qualified name such as Shape::area it is the last component.
func declaratorName(n *tree_sitter.Node) *tree_sitter.Node {
	d := declarator(n)
	for d != nil && (d.Kind() == "qualified_identifier" || d.Kind() == "template_function") {
		d = d.ChildByFieldName("name")
	}
	return d
}

// functionDeclarator finds the function declarator in the chain of n.
func functionDeclarator(n *tree_sitter.Node) *tree_sitter.Node {
	d := n.ChildByFieldName("declarator")
	for d != nil {
		if d.Kind() == "function_declarator" {
			return d
		}
		d = innerDeclarator(d)
	}
	return nil
}

// pointerDepth counts the pointer declarators wrapping the name.
func pointerDepth(n *tree_sitter.Node) int {
	depth := 0
	d := n.ChildByFieldName("declarator")
	for d != nil {
		switch d.Kind() {
		case "pointer_declarator":
			depth++
		case "function_declarator":
			return depth
		}
		d = d.ChildByFieldName("declarator")
	}
	return depth
}

func cDeclType(n *tree_sitter.Node, src []byte) string {
	if fd := functionDeclarator(n); fd != nil {
		return cFuncType(n, src)
	}
	t := text(n.ChildByFieldName("type"), src)
	if t == "" {
		return ""
	}
	if depth := pointerDepth(n); depth > 0 {
		t += " " + strings.Repeat("*", depth)
	}
	return t
}

// cFuncType spells a function type as "ret (params)".
func cFuncType(n *tree_sitter.Node, src []byte) string {
	ret := text(n.ChildByFieldName("type"), src)
	fd := functionDeclarator(n)
	if fd == nil {
		return ret
	}
	params := text(fd.ChildByFieldName("parameters"), src)
	if ret == "" {
		return params
	}
	return ret + " " + params
}

// cPrototype reports a declaration with a function declarator as a
// function declaration.
func cPrototype(n *tree_sitter.Node) string {
	if functionDeclarator(n) != nil {
		return "FunctionDecl"
	}
	return ""
}

// cppMethod distinguishes member functions: those declared inside a class
// body and those defined out of line with a qualified name.
func cppMethod(n *tree_sitter.Node) string {
	if functionDeclarator(n) == nil {
		return ""
	}
	if parentKind(n) == "field_declaration_list" {
		return "CXXMethodDecl"
	}
	if d := declarator(n); d != nil && d.Kind() == "qualified_identifier" {
		return "CXXMethodDecl"
	}
	return ""
}

// qualifiedScope returns the class or namespace an out-of-line definition
// names, e.g. Shape for Shape::area.
func qualifiedScope(n *tree_sitter.Node, src []byte) string {
	if n.Kind() != "function_definition" && n.Kind() != "declaration" {
		return ""
	}
	d := declarator(n)
	if d == nil || d.Kind() != "qualified_identifier" {
		return ""
	}
	// a::b::f nests to the right; the owner is the innermost scope.
	for {
		next := d.ChildByFieldName("name")
		if next == nil || next.Kind() != "qualified_identifier" {
			break
		}
		d = next
	}
	s := text(d.ChildByFieldName("scope"), src)
	if i := strings.IndexByte(s, '<'); i >= 0 {
		s = s[:i]
	}
	return s
}

var cppCasts = map[string]string{
	"static_cast":      "StaticCast",
	"dynamic_cast":     "DynamicCast",
	"reinterpret_cast": "ReinterpretCast",
	"const_cast":       "ConstCast",
}

// cppNamedCast recognizes static_cast<T>(x) and its siblings, which the
// grammar parses as calls of a template function.
func cppNamedCast(n *tree_sitter.Node, src []byte) string {
	if n.Kind() != "call_expression" {
		return ""
	}
	fn := n.ChildByFieldName("function")
	if fn == nil || fn.Kind() != "template_function" {
		return ""
	}
	return cppCasts[text(fn.ChildByFieldName("name"), src)]
}

func cStatic(n *tree_sitter.Node, src []byte, _ string, _ bool) bool {
	for i := uint(0); i < n.NamedChildCount(); i++ {
		c := n.NamedChild(i)
		if c.Kind() == "storage_class_specifier" && text(c, src) == "static" {
			return true
		}
	}
	return false
}
