package treesitter

import (
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
)

// declSpec describes how a declaration node kind is read.
type declSpec struct {
	kind string
	// ctx marks declarations that open a lexical context.
	ctx bool
	// match rejects nodes of the kind that are not declarations here, such
	// as a struct specifier used only as a type.
	match func(n *tree_sitter.Node) bool
	// kindOf refines kind for a particular node; "" keeps kind.
	kindOf func(n *tree_sitter.Node) string
	name   func(n *tree_sitter.Node) *tree_sitter.Node
	typ    func(n *tree_sitter.Node, src []byte) string
}

// grammar classifies the node kinds of one tree-sitter grammar.
type grammar struct {
	decls map[string]declSpec
	// refs are identifier kinds. An identifier that is not the name of a
	// declaration is a reference, resolved by name.
	refs     set
	literals set
	stmts    set
	exprs    set
	casts    map[string]string

	// identDecl reports the declaration kind of an identifier that
	// declares by position alone, such as a bare Python parameter.
	identDecl func(n *tree_sitter.Node) string
	// cast classifies nodes that are casts only in some shapes.
	cast func(n *tree_sitter.Node, src []byte) string
	// hidden reports whether a declaration is invisible outside its file
	// or module. top is set for declarations directly in the root.
	hidden    func(n *tree_sitter.Node, src []byte, name string, top bool) bool
	constexpr func(n *tree_sitter.Node, src []byte) bool
	// owner names the semantic owner of an out-of-line member.
	owner func(n *tree_sitter.Node, src []byte) string
	// module names the module top-level declarations belong to.
	module func(root *tree_sitter.Node, src []byte) string
}

type set map[string]bool

func newSet(kinds ...string) set {
	s := make(set, len(kinds))
	for _, k := range kinds {
		s[k] = true
	}
	return s
}

func (g *grammar) isStmt(kind string) bool {
	return g.stmts[kind] || strings.HasSuffix(kind, "_statement")
}

func (g *grammar) isExpr(kind string) bool {
	return g.exprs[kind] || strings.HasSuffix(kind, "_expression")
}

func (g *grammar) castKind(n *tree_sitter.Node, src []byte) string {
	if ck, ok := g.casts[n.Kind()]; ok {
		return ck
	}
	if g.cast != nil {
		return g.cast(n, src)
	}
	return ""
}

// --- Shared readers ---

func field(name string) func(*tree_sitter.Node) *tree_sitter.Node {
	return func(n *tree_sitter.Node) *tree_sitter.Node {
		return n.ChildByFieldName(name)
	}
}

// identField is like field but only accepts a plain identifier, so that
// destructuring patterns stay anonymous.
func identField(name string) func(*tree_sitter.Node) *tree_sitter.Node {
	return func(n *tree_sitter.Node) *tree_sitter.Node {
		c := n.ChildByFieldName(name)
		if c == nil || c.Kind() != "identifier" {
			return nil
		}
		return c
	}
}

func firstNamed(n *tree_sitter.Node) *tree_sitter.Node {
	if n.NamedChildCount() == 0 {
		return nil
	}
	return n.NamedChild(0)
}

func text(n *tree_sitter.Node, src []byte) string {
	if n == nil {
		return ""
	}
	return n.Utf8Text(src)
}

func fieldText(name string) func(*tree_sitter.Node, []byte) string {
	return func(n *tree_sitter.Node, src []byte) string {
		return text(n.ChildByFieldName(name), src)
	}
}

// annotation reads a type annotation field, dropping the leading ':' or
// '->' some grammars keep in the node.
func annotation(name string) func(*tree_sitter.Node, []byte) string {
	return func(n *tree_sitter.Node, src []byte) string {
		t := strings.TrimSpace(text(n.ChildByFieldName(name), src))
		t = strings.TrimPrefix(t, ":")
		t = strings.TrimPrefix(t, "->")
		return strings.TrimSpace(t)
	}
}

// hasChildText reports whether a direct child of n spells word.
func hasChildText(n *tree_sitter.Node, src []byte, word string) bool {
	for i := uint(0); i < n.ChildCount(); i++ {
		if text(n.Child(i), src) == word {
			return true
		}
	}
	return false
}

func hasChildKind(n *tree_sitter.Node, kind string) bool {
	for i := uint(0); i < n.NamedChildCount(); i++ {
		if n.NamedChild(i).Kind() == kind {
			return true
		}
	}
	return false
}

func parentKind(n *tree_sitter.Node) string {
	p := n.Parent()
	if p == nil {
		return ""
	}
	return p.Kind()
}

// baseTypeName strips pointers and type arguments from a type node and
// returns the name that remains.
func baseTypeName(n *tree_sitter.Node, src []byte) string {
	for n != nil {
		switch n.Kind() {
		case "pointer_type", "reference_type", "parenthesized_type":
			if t := n.ChildByFieldName("type"); t != nil {
				n = t
			} else {
				n = firstNamed(n)
			}
		case "generic_type":
			n = n.ChildByFieldName("type")
		default:
			return text(n, src)
		}
	}
	return ""
}
