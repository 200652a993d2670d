// Package golang is a semantic front-end for Go. It exposes a type-checked
// package as a frontend.Unit: declarations carry their types.Object, and
// identifiers resolve to the declarations they use.
package golang

import (
	"go/ast"
	"go/token"
	"go/types"
	"path/filepath"
	"strings"

	"github.com/dusk-indust/astgraph/internal/frontend"
)

// Unit is one type-checked Go package.
type Unit struct {
	name    string
	fset    *token.FileSet
	pkg     *types.Package
	info    *types.Info
	baseDir string
	qual    types.Qualifier

	root     *pkgDecl
	objDecl  map[types.Object]frontend.Decl
	external map[types.Object]frontend.Decl
	uses     map[types.Object]int
	elements int
	errs     []error
}

// UnitOption configures NewUnit.
type UnitOption func(*Unit)

// WithBaseDir makes file names relative to dir where possible.
func WithBaseDir(dir string) UnitOption {
	return func(u *Unit) { u.baseDir = dir }
}

// WithName overrides the unit name, which defaults to the package path.
func WithName(name string) UnitOption {
	return func(u *Unit) { u.name = name }
}

// WithErrors attaches load or type-check errors to the unit.
func WithErrors(errs ...error) UnitOption {
	return func(u *Unit) { u.errs = append(u.errs, errs...) }
}

// NewUnit builds the element tree of a type-checked package. info must
// carry Types, Defs, Uses and Implicits.
func NewUnit(fset *token.FileSet, pkg *types.Package, info *types.Info, files []*ast.File, opts ...UnitOption) *Unit {
	u := &Unit{
		name:     pkg.Path(),
		fset:     fset,
		pkg:      pkg,
		info:     info,
		qual:     types.RelativeTo(pkg),
		objDecl:  make(map[types.Object]frontend.Decl),
		external: make(map[types.Object]frontend.Decl),
		uses:     make(map[types.Object]int),
	}
	for _, opt := range opts {
		opt(u)
	}

	for _, obj := range info.Uses {
		u.uses[obj]++
	}

	u.root = &pkgDecl{path: u.name}
	u.root.kind = "Package"
	u.root.u = u
	u.root.ctx = true
	u.elements = 1

	for _, f := range files {
		b := builder{u: u}
		b.file(f)
	}
	return u
}

func (u *Unit) Path() string            { return u.name }
func (u *Unit) Root() frontend.Element  { return u.root }
func (u *Unit) Package() *types.Package { return u.pkg }
func (u *Unit) Errors() []error         { return u.errs }
func (u *Unit) Elements() int           { return u.elements }
func (u *Unit) FileSet() *token.FileSet { return u.fset }
func (u *Unit) TypesInfo() *types.Info  { return u.info }

func (u *Unit) Children(e frontend.Element) []frontend.Element {
	el, ok := e.(element)
	if !ok {
		return nil
	}
	return el.base().kids
}

// Parents returns the single structural parent of n. Go syntax trees do not
// share nodes.
func (u *Unit) Parents(n frontend.Node) []frontend.Node {
	e, ok := n.(*elem)
	if !ok || e.parent == nil {
		return nil
	}
	return []frontend.Node{e.parent}
}

// position resolves pos, honoring //line directives.
func (u *Unit) position(pos token.Pos) frontend.Position {
	if !pos.IsValid() {
		return frontend.Position{}
	}
	p := u.fset.Position(pos)
	return frontend.Position{Filename: u.relative(p.Filename), Line: p.Line, Column: p.Column}
}

func (u *Unit) relative(name string) string {
	if u.baseDir == "" || !filepath.IsAbs(name) {
		return name
	}
	rel, err := filepath.Rel(u.baseDir, name)
	if err != nil || strings.HasPrefix(rel, "..") {
		return name
	}
	return filepath.ToSlash(rel)
}

// span returns the range from the first character of n to its last.
func (u *Unit) span(n ast.Node) frontend.Range {
	begin, end := n.Pos(), n.End()
	if end > begin {
		end--
	}
	return frontend.Range{Begin: u.position(begin), End: u.position(end)}
}

// typeOf describes t. Desugared holds the underlying type when it differs.
func (u *Unit) typeOf(t types.Type) frontend.Type {
	if t == nil {
		return frontend.Type{}
	}
	ft := frontend.Type{Spelling: types.TypeString(t, u.qual)}
	if under := types.TypeString(types.Unalias(t).Underlying(), u.qual); under != ft.Spelling {
		ft.Desugared = under
	}
	return ft
}

func (u *Unit) objType(obj types.Object) frontend.Type {
	switch obj.(type) {
	case *types.PkgName, *types.Label, *types.Builtin, *types.Nil:
		return frontend.Type{}
	}
	return u.typeOf(obj.Type())
}

// declOf returns the declaration of obj: its element when the package
// declares it, otherwise a detached description that is never walked.
func (u *Unit) declOf(obj types.Object) frontend.Decl {
	if obj == nil {
		return nil
	}
	if d, ok := u.objDecl[obj]; ok {
		return d
	}
	if d, ok := u.external[obj]; ok {
		return d
	}
	d := &valueDecl{typ: u.objType(obj)}
	d.kind = objKind(obj)
	d.name = obj.Name()
	d.u = u
	d.obj = obj
	d.loc = u.position(obj.Pos())
	u.external[obj] = d
	return d
}

func (u *Unit) semanticContext(d *decl) frontend.Node {
	if obj := d.obj; obj != nil {
		if tn := receiverTypeName(obj); tn != nil {
			if td, ok := u.objDecl[tn]; ok {
				return td.Handle()
			}
		} else if packageLevel(obj) {
			return u.root.Handle()
		}
	}
	return d.LexicalContext()
}

func (u *Unit) qualifiers(obj types.Object) frontend.Qualifiers {
	var q frontend.Qualifiers
	if obj == nil {
		return q
	}
	method := receiverTypeName(obj) != nil
	if (packageLevel(obj) || method) && obj.Pkg() != nil {
		q.Module = obj.Pkg().Path()
		q.Hidden = !obj.Exported()
	}
	if u.uses[obj] > 0 {
		if _, ok := obj.(*types.TypeName); ok {
			q.Referenced = true
		} else {
			q.Used = true
		}
	}
	if _, ok := obj.(*types.Const); ok {
		q.Constexpr = true
	}
	if t := u.objType(obj); t.Spelling == "invalid type" {
		q.Invalid = true
	}
	return q
}

func packageLevel(obj types.Object) bool {
	return obj.Pkg() != nil && obj.Parent() == obj.Pkg().Scope()
}

// receiverTypeName returns the named type a method is declared on, or nil
// when obj is not a method of a named type.
func receiverTypeName(obj types.Object) *types.TypeName {
	fn, ok := obj.(*types.Func)
	if !ok {
		return nil
	}
	sig, ok := fn.Type().(*types.Signature)
	if !ok || sig.Recv() == nil {
		return nil
	}
	t := types.Unalias(sig.Recv().Type())
	if p, ok := t.(*types.Pointer); ok {
		t = types.Unalias(p.Elem())
	}
	if n, ok := t.(*types.Named); ok {
		return n.Origin().Obj()
	}
	return nil
}

// objKind names the declaration kind of obj.
func objKind(obj types.Object) string {
	switch o := obj.(type) {
	case *types.Var:
		switch o.Kind() {
		case types.FieldVar:
			return "Field"
		case types.ParamVar, types.RecvVar:
			return "Param"
		case types.ResultVar:
			return "Result"
		}
		return "Var"
	case *types.Const:
		return "Const"
	case *types.TypeName:
		return "TypeName"
	case *types.Func:
		if sig, ok := o.Type().(*types.Signature); ok && sig.Recv() != nil {
			return "Method"
		}
		return "Func"
	case *types.PkgName:
		return "Import"
	case *types.Label:
		return "Label"
	case *types.Builtin:
		return "Builtin"
	case *types.Nil:
		return "Nil"
	}
	return "Object"
}
