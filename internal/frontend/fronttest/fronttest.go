// Package fronttest provides an in-memory front-end for exercising code that
// consumes frontend.Unit without parsing real sources.
package fronttest

import (
	"github.com/dusk-indust/astgraph/internal/frontend"
)

// Base carries what every fake element has. Its address is the element's
// handle.
type Base struct {
	K      string
	Rng    frontend.Range
	parent *Base
	extra  []frontend.Node
	kids   []frontend.Element
}

func (b *Base) Handle() frontend.Node { return b }
func (b *Base) Kind() string          { return b.K }
func (b *Base) Range() frontend.Range { return b.Rng }
func (b *Base) base() *Base           { return b }

// Element is implemented by every fake element.
type Element interface {
	frontend.Element
	base() *Base
}

// Decl is a declaration with no name.
type Decl struct {
	Base
	Loc   frontend.Position
	Sem   frontend.Node
	Lex   frontend.Node
	Quals frontend.Qualifiers
}

func (d *Decl) DeclKind() string                { return d.K }
func (d *Decl) Location() frontend.Position     { return d.Loc }
func (d *Decl) SemanticContext() frontend.Node  { return d.Sem }
func (d *Decl) LexicalContext() frontend.Node   { return d.Lex }
func (d *Decl) Qualifiers() frontend.Qualifiers { return d.Quals }

// NamedDecl is a declaration with a name.
type NamedDecl struct {
	Decl
	N string
}

func (d *NamedDecl) Name() string { return d.N }

// ValueDecl is a named, typed declaration.
type ValueDecl struct {
	NamedDecl
	T frontend.Type
}

func (d *ValueDecl) Type() frontend.Type { return d.T }

// TU is a translation unit root.
type TU struct {
	Decl
	File string
}

func (d *TU) Filename() string { return d.File }

// Stmt is a statement.
type Stmt struct {
	Base
}

func (s *Stmt) StmtKind() string { return s.K }

// Expr is an expression.
type Expr struct {
	Stmt
	T  frontend.Type
	VK frontend.ValueKind
}

func (e *Expr) Type() frontend.Type           { return e.T }
func (e *Expr) ValueKind() frontend.ValueKind { return e.VK }

// Cast is a cast expression.
type Cast struct {
	Expr
	CK string
}

func (c *Cast) CastKind() string { return c.CK }

// Ref is a declaration reference.
type Ref struct {
	Expr
	Target frontend.Decl
}

func (r *Ref) Decl() frontend.Decl { return r.Target }

// Lit is a literal.
type Lit struct {
	Expr
	V string
}

func (l *Lit) Value() string { return l.V }

// Add appends children to parent in document order.
func Add(parent Element, children ...Element) {
	p := parent.base()
	for _, c := range children {
		c.base().parent = p
		p.kids = append(p.kids, c)
	}
}

// AlsoParent records an additional parent for child, reported after its
// structural parent.
func AlsoParent(child Element, parent Element) {
	child.base().extra = append(child.base().extra, parent.Handle())
}

// Unit is a fake translation unit.
type Unit struct {
	Name string
	Top  Element
}

// NewUnit returns a unit rooted at root.
func NewUnit(path string, root Element) *Unit {
	return &Unit{Name: path, Top: root}
}

func (u *Unit) Path() string { return u.Name }

func (u *Unit) Root() frontend.Element {
	if u.Top == nil {
		return nil
	}
	return u.Top
}

func (u *Unit) Children(e frontend.Element) []frontend.Element {
	el, ok := e.(Element)
	if !ok {
		return nil
	}
	return el.base().kids
}

func (u *Unit) Parents(n frontend.Node) []frontend.Node {
	b, ok := n.(*Base)
	if !ok {
		return nil
	}
	var out []frontend.Node
	if b.parent != nil {
		out = append(out, b.parent)
	}
	return append(out, b.extra...)
}

// Pos is shorthand for a position.
func Pos(file string, line, col int) frontend.Position {
	return frontend.Position{Filename: file, Line: line, Column: col}
}

// Span is shorthand for a range.
func Span(begin, end frontend.Position) frontend.Range {
	return frontend.Range{Begin: begin, End: end}
}
