package golang

import (
	"go/ast"
	"go/types"

	"github.com/dusk-indust/astgraph/internal/frontend"
)

// elem is the part every element shares. Its address is the element's
// handle.
type elem struct {
	node   ast.Node
	kind   string
	rng    frontend.Range
	parent *elem
	kids   []frontend.Element

	// ctx marks elements that open a lexical declaration context.
	ctx bool
}

func (e *elem) Handle() frontend.Node { return e }
func (e *elem) Kind() string          { return e.kind }
func (e *elem) Range() frontend.Range { return e.rng }
func (e *elem) base() *elem           { return e }

type element interface {
	frontend.Element
	base() *elem
}

// lexical returns the nearest context-opening element at or above e.
func lexical(e *elem) *elem {
	for ; e != nil; e = e.parent {
		if e.ctx {
			return e
		}
	}
	return nil
}

// --- Declarations ---

type decl struct {
	elem
	u   *Unit
	obj types.Object
	loc frontend.Position
	lex *elem

	implicit bool
	bad      bool
}

func (d *decl) DeclKind() string            { return d.kind }
func (d *decl) Location() frontend.Position { return d.loc }

func (d *decl) LexicalContext() frontend.Node {
	if d.lex == nil {
		return nil
	}
	return d.lex
}

func (d *decl) SemanticContext() frontend.Node {
	return d.u.semanticContext(d)
}

func (d *decl) Qualifiers() frontend.Qualifiers {
	q := d.u.qualifiers(d.obj)
	q.Implicit = q.Implicit || d.implicit
	q.Invalid = q.Invalid || d.bad
	return q
}

type namedDecl struct {
	decl
	name string
}

func (d *namedDecl) Name() string { return d.name }

type valueDecl struct {
	namedDecl
	typ frontend.Type
}

func (d *valueDecl) Type() frontend.Type { return d.typ }

// pkgDecl is the root of a unit.
type pkgDecl struct {
	decl
	path string
}

func (d *pkgDecl) Filename() string { return d.path }

// --- Statements and expressions ---

type stmt struct {
	elem
}

func (s *stmt) StmtKind() string { return s.kind }

type expr struct {
	stmt
	typ frontend.Type
	vk  frontend.ValueKind
}

func (e *expr) Type() frontend.Type           { return e.typ }
func (e *expr) ValueKind() frontend.ValueKind { return e.vk }

type conversion struct {
	expr
	castKind string
}

func (c *conversion) CastKind() string { return c.castKind }

type ref struct {
	expr
	u   *Unit
	obj types.Object
}

func (r *ref) Decl() frontend.Decl { return r.u.declOf(r.obj) }

type literal struct {
	expr
	value string
}

func (l *literal) Value() string { return l.value }
