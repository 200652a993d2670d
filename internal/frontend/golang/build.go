package golang

import (
	"fmt"
	"go/ast"
	"go/constant"
	"go/token"
	"go/types"
	"path/filepath"
	"strings"

	"github.com/dusk-indust/astgraph/internal/frontend"
)

// builder turns one file's syntax tree into elements.
type builder struct {
	u *Unit
	// owned holds identifiers whose declaration element is their parent
	// node, so they are not repeated as elements of their own.
	owned map[*ast.Ident]bool
}

func (b *builder) file(f *ast.File) {
	u := b.u
	b.owned = map[*ast.Ident]bool{f.Name: true}

	fe := &namedDecl{name: filepath.Base(u.fset.Position(f.Package).Filename)}
	fe.kind = "File"
	fe.node = f
	fe.u = u
	fe.ctx = true
	fe.loc = u.position(f.Package)
	fe.rng = u.span(f)
	attach(&u.root.elem, fe)
	fe.lex = lexical(fe.parent)
	u.elements++

	// frames holds the element opened by each node on the inspection path,
	// or nil for nodes that have none.
	var frames []*elem
	ast.Inspect(f, func(n ast.Node) bool {
		if n == nil {
			frames = frames[:len(frames)-1]
			return true
		}
		switch n.(type) {
		case *ast.Comment, *ast.CommentGroup:
			return false
		}

		var opened *elem
		if n == f {
			opened = &fe.elem
		} else if e := b.element(n); e != nil {
			attach(innermost(frames), e)
			if d, ok := e.(interface{ setLexical() }); ok {
				d.setLexical()
			}
			opened = e.base()
			u.elements++
		}
		frames = append(frames, opened)
		return true
	})
}

func innermost(frames []*elem) *elem {
	for i := len(frames) - 1; i >= 0; i-- {
		if frames[i] != nil {
			return frames[i]
		}
	}
	return nil
}

func attach(parent *elem, child element) {
	child.base().parent = parent
	parent.kids = append(parent.kids, child)
}

func (d *decl) setLexical() {
	d.lex = lexical(d.parent)
}

// element creates the element for n, or returns nil when n has none.
func (b *builder) element(n ast.Node) element {
	u := b.u
	switch n := n.(type) {
	case *ast.FieldList:
		return nil

	case *ast.GenDecl:
		return b.decl(n, "GenDecl", nil, n.Pos())

	case *ast.BadDecl:
		d := b.decl(n, "BadDecl", nil, n.Pos())
		d.bad = true
		return d

	case *ast.ValueSpec:
		return b.decl(n, "ValueSpec", nil, n.Pos())

	case *ast.Field:
		return b.decl(n, "FieldSpec", nil, n.Pos())

	case *ast.ImportSpec:
		var obj types.Object
		if n.Name != nil {
			obj = u.info.Defs[n.Name]
			b.owned[n.Name] = true
		} else {
			obj = u.info.Implicits[n]
		}
		d := &namedDecl{decl: *b.decl(n, "Import", obj, n.Pos())}
		if obj != nil {
			d.name = obj.Name()
		}
		d.implicit = n.Name == nil
		b.declare(obj, d)
		return d

	case *ast.TypeSpec:
		b.owned[n.Name] = true
		obj := u.info.Defs[n.Name]
		d := b.valueDecl(n, obj, n.Name)
		d.kind = "TypeName"
		d.ctx = true
		return d

	case *ast.FuncDecl:
		b.owned[n.Name] = true
		obj := u.info.Defs[n.Name]
		d := b.valueDecl(n, obj, n.Name)
		d.kind = "Func"
		if n.Recv != nil {
			d.kind = "Method"
		}
		d.ctx = true
		return d

	case *ast.Ident:
		return b.ident(n)

	case *ast.BasicLit:
		l := &literal{value: n.Value}
		b.fillExpr(&l.expr, n)
		if tv, ok := u.info.Types[n]; ok && tv.Value != nil {
			l.value = constantText(tv.Value)
		}
		return l

	case *ast.CallExpr:
		if tv, ok := u.info.Types[n.Fun]; ok && tv.IsType() {
			c := &conversion{castKind: "Conversion"}
			b.fillExpr(&c.expr, n)
			if len(n.Args) == 1 {
				if from := u.info.TypeOf(n.Args[0]); from != nil {
					c.castKind = convKind(from, tv.Type)
				}
			}
			return c
		}
		return b.expr(n)

	case *ast.TypeAssertExpr:
		c := &conversion{castKind: "Dynamic"}
		b.fillExpr(&c.expr, n)
		return c

	case ast.Expr:
		return b.expr(n)

	case ast.Stmt:
		s := &stmt{}
		s.node = n
		s.kind = nodeKind(n)
		s.rng = u.span(n)
		return s
	}
	return nil
}

// ident classifies an identifier: the name of a declaration it introduces,
// a reference to one it uses, or a plain expression.
func (b *builder) ident(id *ast.Ident) element {
	u := b.u
	if b.owned[id] {
		return nil
	}
	if obj, defined := u.info.Defs[id]; defined {
		if obj == nil {
			// Package clause names and type switch guards declare nothing.
			return nil
		}
		if _, ok := obj.(*types.Label); ok {
			d := &namedDecl{decl: *b.decl(id, "Label", obj, id.Pos()), name: id.Name}
			b.declare(obj, d)
			return d
		}
		return b.valueDecl(id, obj, id)
	}
	if obj := u.info.Uses[id]; obj != nil {
		r := &ref{u: u, obj: obj}
		b.fillExpr(&r.expr, id)
		return r
	}
	return b.expr(id)
}

func (b *builder) decl(n ast.Node, kind string, obj types.Object, pos token.Pos) *decl {
	d := &decl{u: b.u, obj: obj, loc: b.u.position(pos)}
	d.node = n
	d.kind = kind
	d.rng = b.u.span(n)
	return d
}

// valueDecl creates the declaration of obj named by name and registers it
// as the target of references to obj.
func (b *builder) valueDecl(n ast.Node, obj types.Object, name *ast.Ident) *valueDecl {
	d := &valueDecl{}
	d.decl = *b.decl(n, "Object", obj, name.Pos())
	d.name = name.Name
	if obj != nil {
		d.kind = objKind(obj)
		d.typ = b.u.objType(obj)
	} else {
		d.bad = true
	}
	b.declare(obj, d)
	return d
}

func (b *builder) declare(obj types.Object, d frontend.Decl) {
	if obj != nil {
		b.u.objDecl[obj] = d
	}
}

func (b *builder) expr(n ast.Expr) *expr {
	e := &expr{}
	b.fillExpr(e, n)
	return e
}

func (b *builder) fillExpr(e *expr, n ast.Expr) {
	u := b.u
	e.node = n
	e.kind = nodeKind(n)
	e.rng = u.span(n)

	tv, ok := u.info.Types[n]
	if !ok {
		if id, isIdent := n.(*ast.Ident); isIdent {
			if obj := u.info.Uses[id]; obj != nil {
				e.typ = u.objType(obj)
			}
		}
		return
	}
	if !tv.IsType() {
		e.typ = u.typeOf(tv.Type)
	}
	switch {
	case tv.Addressable():
		e.vk = frontend.ValueKindLValue
	case tv.Assignable():
		e.vk = frontend.ValueKindXValue
	}
}

// nodeKind is the syntax node type name, e.g. "CallExpr".
func nodeKind(n ast.Node) string {
	return strings.TrimPrefix(fmt.Sprintf("%T", n), "*ast.")
}

func constantText(v constant.Value) string {
	switch v.Kind() {
	case constant.Float, constant.Complex:
		return v.String()
	}
	return v.ExactString()
}
