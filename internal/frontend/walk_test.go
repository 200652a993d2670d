package frontend_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dusk-indust/astgraph/internal/frontend"
	"github.com/dusk-indust/astgraph/internal/frontend/fronttest"
)

// tracer records every callback as "Callback(kind)".
type tracer struct {
	calls  []string
	failOn string
}

func (t *tracer) note(cb string, e frontend.Element) error {
	entry := fmt.Sprintf("%s(%s)", cb, e.Kind())
	t.calls = append(t.calls, entry)
	if entry == t.failOn {
		return errors.New("stop")
	}
	return nil
}

func (t *tracer) Traverse(e frontend.Element) error  { return t.note("Traverse", e) }
func (t *tracer) VisitNode(e frontend.Element) error { return t.note("Node", e) }
func (t *tracer) VisitDecl(d frontend.Decl) error    { return t.note("Decl", d) }
func (t *tracer) VisitNamedDecl(d frontend.NamedDecl) error {
	return t.note("NamedDecl", d)
}
func (t *tracer) VisitValueDecl(d frontend.ValueDecl) error {
	return t.note("ValueDecl", d)
}
func (t *tracer) VisitTranslationUnit(tu frontend.TranslationUnit) error {
	return t.note("TranslationUnit", tu)
}
func (t *tracer) VisitStmt(s frontend.Stmt) error         { return t.note("Stmt", s) }
func (t *tracer) VisitExpr(e frontend.Expr) error         { return t.note("Expr", e) }
func (t *tracer) VisitCastExpr(c frontend.CastExpr) error { return t.note("Cast", c) }
func (t *tracer) VisitDeclRefExpr(r frontend.DeclRefExpr) error {
	return t.note("DeclRef", r)
}
func (t *tracer) VisitLiteral(l frontend.Literal) error { return t.note("Literal", l) }

func sample() frontend.Unit {
	tu := &fronttest.TU{}
	tu.K = "tu"
	fn := &fronttest.ValueDecl{}
	fn.K = "fn"
	body := &fronttest.Stmt{}
	body.K = "body"
	cast := &fronttest.Cast{}
	cast.K = "cast"
	ref := &fronttest.Ref{Target: fn}
	ref.K = "ref"
	lit := &fronttest.Lit{}
	lit.K = "lit"

	fronttest.Add(tu, fn)
	fronttest.Add(fn, body)
	fronttest.Add(body, cast, lit)
	fronttest.Add(cast, ref)
	return fronttest.NewUnit("x", tu)
}

func TestWalk_CallbackOrder(t *testing.T) {
	var tr tracer
	require.NoError(t, frontend.Walk(context.Background(), sample(), &tr))

	assert.Equal(t, []string{
		"Traverse(tu)", "Node(tu)", "Decl(tu)", "TranslationUnit(tu)",
		"Traverse(fn)", "Node(fn)", "Decl(fn)", "NamedDecl(fn)", "ValueDecl(fn)",
		"Traverse(body)", "Node(body)", "Stmt(body)",
		"Traverse(cast)", "Node(cast)", "Stmt(cast)", "Expr(cast)", "Cast(cast)",
		"Traverse(ref)", "Node(ref)", "Stmt(ref)", "Expr(ref)", "DeclRef(ref)",
		"Traverse(lit)", "Node(lit)", "Stmt(lit)", "Expr(lit)", "Literal(lit)",
	}, tr.calls)
}

func TestWalk_StopsOnError(t *testing.T) {
	tr := tracer{failOn: "Stmt(cast)"}
	err := frontend.Walk(context.Background(), sample(), &tr)
	require.Error(t, err)
	assert.Equal(t, "Stmt(cast)", tr.calls[len(tr.calls)-1])
}

func TestWalk_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var tr tracer
	err := frontend.Walk(ctx, sample(), &tr)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, tr.calls)
}

func TestWalk_EmptyUnit(t *testing.T) {
	var tr tracer
	require.NoError(t, frontend.Walk(context.Background(), fronttest.NewUnit("empty", nil), &tr))
	assert.Empty(t, tr.calls)
}

func TestWalk_DeepTree(t *testing.T) {
	root := &fronttest.Stmt{}
	root.K = "s"
	cur := root
	for i := 0; i < 100000; i++ {
		next := &fronttest.Stmt{}
		next.K = "s"
		fronttest.Add(cur, next)
		cur = next
	}

	var n int
	v := &countVisitor{n: &n}
	require.NoError(t, frontend.Walk(context.Background(), fronttest.NewUnit("deep", root), v))
	assert.Equal(t, 100001, n)
}

type countVisitor struct {
	tracer
	n *int
}

func (c *countVisitor) Traverse(frontend.Element) error {
	*c.n++
	return nil
}

func (c *countVisitor) VisitNode(frontend.Element) error { return nil }
func (c *countVisitor) VisitStmt(frontend.Stmt) error    { return nil }

func TestPosition(t *testing.T) {
	assert.False(t, frontend.Position{}.IsValid())
	assert.False(t, frontend.Position{Filename: "a.c"}.IsValid())
	p := fronttest.Pos("a.c", 3, 4)
	assert.True(t, p.IsValid())
	assert.Equal(t, "a.c:3:4", p.String())
}

func TestValueKind_String(t *testing.T) {
	assert.Equal(t, "", frontend.ValueKindNone.String())
	assert.Equal(t, "lvalue", frontend.ValueKindLValue.String())
	assert.Equal(t, "xvalue", frontend.ValueKindXValue.String())
}
