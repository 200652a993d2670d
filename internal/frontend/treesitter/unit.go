package treesitter

import (
	"github.com/dusk-indust/astgraph/internal/frontend"
)

// Unit is one parsed source file. It keeps no reference to the tree-sitter
// tree; everything the walk needs is copied out while building.
type Unit struct {
	path   string
	lang   Language
	root   *tuDecl
	byName map[string][]declared
	refs   []*ref

	elements int
	errors   int
}

func (u *Unit) Path() string           { return u.path }
func (u *Unit) Root() frontend.Element { return u.root }
func (u *Unit) Language() Language     { return u.lang }
func (u *Unit) Elements() int          { return u.elements }
func (u *Unit) SyntaxErrors() int      { return u.errors }

func (u *Unit) Children(e frontend.Element) []frontend.Element {
	if el, ok := e.(element); ok {
		return el.base().kids
	}
	return nil
}

func (u *Unit) Parents(n frontend.Node) []frontend.Node {
	e, ok := n.(*elem)
	if !ok || e.parent == nil {
		return nil
	}
	return []frontend.Node{e.parent}
}

// resolve picks the declaration a reference at byte offset at names: the
// nearest one before it, or failing that the first one after it.
func (u *Unit) resolve(name string, at uint) declared {
	var before, after declared
	for _, d := range u.byName[name] {
		if d.declBase().start < at {
			before = d
		} else if after == nil {
			after = d
		}
	}
	if before != nil {
		return before
	}
	return after
}

// owner finds the context-opening declaration called name.
func (u *Unit) owner(name string) *decl {
	for _, d := range u.byName[name] {
		if b := d.declBase(); b.ctx {
			return b
		}
	}
	return nil
}

// --- Elements ---

type elem struct {
	kind   string
	rng    frontend.Range
	start  uint
	parent *elem
	kids   []frontend.Element
	ctx    bool
}

func (e *elem) Handle() frontend.Node { return e }
func (e *elem) Kind() string          { return e.kind }
func (e *elem) Range() frontend.Range { return e.rng }
func (e *elem) base() *elem           { return e }

type element interface {
	frontend.Element
	base() *elem
}

func lexical(e *elem) *elem {
	for ; e != nil; e = e.parent {
		if e.ctx {
			return e
		}
	}
	return nil
}

type decl struct {
	elem
	u      *Unit
	loc    frontend.Position
	lex    *elem
	owner  string
	module string
	uses   int

	hidden, constexpr, invalid bool
}

func (d *decl) DeclKind() string            { return d.kind }
func (d *decl) Location() frontend.Position { return d.loc }
func (d *decl) declBase() *decl             { return d }

func (d *decl) LexicalContext() frontend.Node {
	if d.lex == nil {
		return nil
	}
	return d.lex
}

func (d *decl) SemanticContext() frontend.Node {
	if d.owner != "" {
		if o := d.u.owner(d.owner); o != nil && o != d {
			return &o.elem
		}
	}
	return d.LexicalContext()
}

func (d *decl) Qualifiers() frontend.Qualifiers {
	return frontend.Qualifiers{
		Module:    d.module,
		Hidden:    d.hidden,
		Used:      d.uses > 0,
		Invalid:   d.invalid,
		Constexpr: d.constexpr,
	}
}

// declared is a named declaration registered for lookup.
type declared interface {
	frontend.NamedDecl
	declBase() *decl
}

type namedDecl struct {
	decl
	name string
}

func (d *namedDecl) Name() string { return d.name }

type valueDecl struct {
	namedDecl
	typ string
}

func (d *valueDecl) Type() frontend.Type { return frontend.Type{Spelling: d.typ} }

type tuDecl struct {
	decl
	path string
}

func (d *tuDecl) Filename() string { return d.path }

type stmt struct {
	elem
}

func (s *stmt) StmtKind() string { return s.kind }

type expr struct {
	stmt
}

func (e *expr) Type() frontend.Type           { return frontend.Type{} }
func (e *expr) ValueKind() frontend.ValueKind { return frontend.ValueKindNone }

type cast struct {
	expr
	castKind string
}

func (c *cast) CastKind() string { return c.castKind }

type ref struct {
	expr
	name   string
	target declared
}

func (r *ref) Decl() frontend.Decl {
	if r.target == nil {
		return nil
	}
	return r.target
}

type literal struct {
	expr
	value string
}

func (l *literal) Value() string { return l.value }
