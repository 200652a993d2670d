package treesitter

import (
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
)

var rsGrammar = &grammar{
	decls: map[string]declSpec{
		"function_item":           {kind: "FnItem", ctx: true, name: field("name"), typ: rsFnType},
		"function_signature_item": {kind: "FnSignature", name: field("name"), typ: rsFnType},
		"struct_item":             {kind: "StructItem", ctx: true, name: field("name")},
		"union_item":              {kind: "UnionItem", ctx: true, name: field("name")},
		"enum_item":               {kind: "EnumItem", ctx: true, name: field("name")},
		"enum_variant":            {kind: "EnumVariant", name: field("name")},
		"trait_item":              {kind: "TraitItem", ctx: true, name: field("name")},
		"impl_item":               {kind: "ImplItem", ctx: true},
		"mod_item":                {kind: "ModItem", ctx: true, name: field("name")},
		"type_item":               {kind: "TypeItem", name: field("name"), typ: fieldText("type")},
		"const_item":              {kind: "ConstItem", name: field("name"), typ: fieldText("type")},
		"static_item":             {kind: "StaticItem", name: field("name"), typ: fieldText("type")},
		"field_declaration":       {kind: "FieldDecl", name: field("name"), typ: fieldText("type")},
		"let_declaration":         {kind: "LetDecl", name: rsPatternName, typ: fieldText("type")},
		"parameter":               {kind: "Param", name: rsPatternName, typ: fieldText("type")},
		"self_parameter":          {kind: "SelfParam"},
		"closure_expression":      {kind: "Closure", ctx: true},
		"macro_definition":        {kind: "MacroDef", name: field("name")},
		"use_declaration":         {kind: "UseDecl"},
	},
	refs: newSet("identifier", "type_identifier", "field_identifier", "shorthand_field_identifier"),
	literals: newSet("integer_literal", "float_literal", "string_literal", "raw_string_literal",
		"char_literal", "boolean_literal"),
	stmts: newSet("block", "expression_statement", "match_arm", "match_block"),
	exprs: newSet("macro_invocation", "field_initializer", "arguments"),
	casts: map[string]string{"type_cast_expression": "As"},
	hidden: func(n *tree_sitter.Node, _ []byte, _ string, _ bool) bool {
		return rsItems[n.Kind()] && !hasChildKind(n, "visibility_modifier")
	},
	constexpr: func(n *tree_sitter.Node, _ []byte) bool {
		return n.Kind() == "const_item"
	},
	owner: rsImplOwner,
}

// rsItems are the declarations a visibility modifier applies to.
var rsItems = newSet("function_item", "function_signature_item", "struct_item", "union_item",
	"enum_item", "trait_item", "mod_item", "type_item", "const_item", "static_item",
	"field_declaration", "macro_definition")

// rsFnType spells a function type as "fn(params) -> ret".
func rsFnType(n *tree_sitter.Node, src []byte) string {
	t := "fn" + text(n.ChildByFieldName("parameters"), src)
	if r := text(n.ChildByFieldName("return_type"), src); r != "" {
		t += " -> " + r
	}
	return t
}

// rsPatternName accepts x and mut x. Destructuring patterns are left
// anonymous.
func rsPatternName(n *tree_sitter.Node) *tree_sitter.Node {
	p := n.ChildByFieldName("pattern")
	if p == nil {
		return nil
	}
	if p.Kind() == "mut_pattern" {
		for i := uint(0); i < p.NamedChildCount(); i++ {
			if c := p.NamedChild(i); c.Kind() == "identifier" {
				return c
			}
		}
		return nil
	}
	if p.Kind() == "identifier" {
		return p
	}
	return nil
}

// rsImplOwner names the type an impl block's functions belong to.
func rsImplOwner(n *tree_sitter.Node, src []byte) string {
	if n.Kind() != "function_item" && n.Kind() != "const_item" && n.Kind() != "type_item" {
		return ""
	}
	list := n.Parent()
	if list == nil || list.Kind() != "declaration_list" {
		return ""
	}
	impl := list.Parent()
	if impl == nil || impl.Kind() != "impl_item" {
		return ""
	}
	name := baseTypeName(impl.ChildByFieldName("type"), src)
	// Paths such as crate::Counter name their last segment.
	if i := strings.LastIndex(name, "::"); i >= 0 {
		name = name[i+2:]
	}
	return name
}
