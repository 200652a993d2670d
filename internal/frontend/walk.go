package frontend

import "context"

// Visitor receives the callbacks of a walk. Traverse fires once per element
// before any of its facets or children; the Visit methods fire afterwards,
// once per facet the element implements. Returning an error stops the walk.
type Visitor interface {
	Traverse(e Element) error
	VisitNode(e Element) error

	VisitDecl(d Decl) error
	VisitNamedDecl(d NamedDecl) error
	VisitValueDecl(d ValueDecl) error
	VisitTranslationUnit(tu TranslationUnit) error

	VisitStmt(s Stmt) error
	VisitExpr(e Expr) error
	VisitCastExpr(c CastExpr) error
	VisitDeclRefExpr(r DeclRefExpr) error
	VisitLiteral(l Literal) error
}

// facet dispatches one capability of an element to a visitor. It does
// nothing when the element does not have the capability.
type facet func(v Visitor, e Element) error

// facets is the dispatch table, in callback order. Declarations walk up from
// the most general facet to the most specific, as do statements.
var facets = []facet{
	func(v Visitor, e Element) error {
		d, ok := e.(Decl)
		if !ok {
			return nil
		}
		return v.VisitDecl(d)
	},
	func(v Visitor, e Element) error {
		d, ok := e.(NamedDecl)
		if !ok {
			return nil
		}
		return v.VisitNamedDecl(d)
	},
	func(v Visitor, e Element) error {
		d, ok := e.(ValueDecl)
		if !ok {
			return nil
		}
		return v.VisitValueDecl(d)
	},
	func(v Visitor, e Element) error {
		tu, ok := e.(TranslationUnit)
		if !ok {
			return nil
		}
		return v.VisitTranslationUnit(tu)
	},
	func(v Visitor, e Element) error {
		s, ok := e.(Stmt)
		if !ok {
			return nil
		}
		return v.VisitStmt(s)
	},
	func(v Visitor, e Element) error {
		x, ok := e.(Expr)
		if !ok {
			return nil
		}
		return v.VisitExpr(x)
	},
	func(v Visitor, e Element) error {
		c, ok := e.(CastExpr)
		if !ok {
			return nil
		}
		return v.VisitCastExpr(c)
	},
	func(v Visitor, e Element) error {
		r, ok := e.(DeclRefExpr)
		if !ok {
			return nil
		}
		return v.VisitDeclRefExpr(r)
	},
	func(v Visitor, e Element) error {
		l, ok := e.(Literal)
		if !ok {
			return nil
		}
		return v.VisitLiteral(l)
	},
}

// Dispatch fires VisitNode and then every facet callback e supports.
func Dispatch(v Visitor, e Element) error {
	if err := v.VisitNode(e); err != nil {
		return err
	}
	for _, f := range facets {
		if err := f(v, e); err != nil {
			return err
		}
	}
	return nil
}

// cancelCheckInterval is how many elements are walked between context checks.
const cancelCheckInterval = 1024

// Walk performs a depth-first, pre-order walk of u. Each element receives
// Traverse, then its facet callbacks, then its children are walked in
// document order. The walk is iterative so deeply nested trees cannot
// exhaust the goroutine stack.
func Walk(ctx context.Context, u Unit, v Visitor) error {
	root := u.Root()
	if root == nil {
		return nil
	}

	stack := []Element{root}
	for n := 0; len(stack) > 0; n++ {
		if n%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}

		e := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if err := v.Traverse(e); err != nil {
			return err
		}
		if err := Dispatch(v, e); err != nil {
			return err
		}

		children := u.Children(e)
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, children[i])
		}
	}
	return nil
}
