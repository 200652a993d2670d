package graph

import (
	"errors"
	"strconv"

	"github.com/dusk-indust/astgraph/internal/frontend"
)

// ErrNoOpenRecord is returned when a facet callback arrives before any
// Traverse opened a record for it.
var ErrNoOpenRecord = errors.New("facet callback without an open record")

// State is the commit state of a Bridge.
type State int

const (
	// StateIdle means no record is buffered.
	StateIdle State = iota
	// StateAccumulating means a record is open and still receiving facets.
	StateAccumulating
)

func (s State) String() string {
	if s == StateAccumulating {
		return "accumulating"
	}
	return "idle"
}

// Bridge turns walk callbacks into table rows.
//
// A node reports its facets through several callbacks and nothing signals
// that the last one has fired. The only reliable completion signal is the
// walk moving on, so the record of a node stays buffered until the next
// Traverse (or Finish) commits it.
type Bridge struct {
	unit  frontend.Unit
	reg   *Registry
	loc   *LocationEncoder
	nodes RecordWriter
	edges *EdgeEmitter

	row     *Row[NodeColumn]
	state   State
	current uint64
	rows    int
}

var _ frontend.Visitor = (*Bridge)(nil)

// NewBridge returns a bridge for one unit. The registry, encoder and writers
// may be shared with bridges of other units in the same session.
func NewBridge(unit frontend.Unit, reg *Registry, loc *LocationEncoder, nodes RecordWriter, edges *EdgeEmitter) *Bridge {
	return &Bridge{
		unit:  unit,
		reg:   reg,
		loc:   loc,
		nodes: nodes,
		edges: edges,
		row:   NewRow[NodeColumn](),
	}
}

// State returns the current commit state.
func (b *Bridge) State() State {
	return b.state
}

// Current returns the identity of the open record, or 0 when idle.
func (b *Bridge) Current() uint64 {
	if b.state == StateIdle {
		return 0
	}
	return b.current
}

// Rows returns the number of node rows committed.
func (b *Bridge) Rows() int {
	return b.rows
}

// Traverse commits the previous node and opens a record for e.
func (b *Bridge) Traverse(e frontend.Element) error {
	if err := b.commit(); err != nil {
		return err
	}
	b.current = b.reg.Register(e.Handle())
	b.row.Set(ColNodeID, strconv.FormatUint(b.current, 10))
	b.state = StateAccumulating
	return nil
}

// Finish commits the last buffered record. The walk never advances past the
// final node, so without this call it would be lost.
func (b *Bridge) Finish() error {
	return b.commit()
}

func (b *Bridge) commit() error {
	if err := b.row.Commit(b.nodes, NodeFirst, NodeLast); err != nil {
		return err
	}
	if b.state == StateAccumulating {
		b.rows++
	}
	b.state = StateIdle
	return nil
}

func (b *Bridge) open() error {
	if b.state != StateAccumulating {
		return ErrNoOpenRecord
	}
	return nil
}

// VisitNode records the generic kind. More specific facets overwrite it.
func (b *Bridge) VisitNode(e frontend.Element) error {
	if err := b.open(); err != nil {
		return err
	}
	b.row.SetIfEmpty(ColKind, e.Kind())
	return nil
}

// VisitDecl records the declaration columns and its parent edges.
func (b *Bridge) VisitDecl(d frontend.Decl) error {
	if err := b.open(); err != nil {
		return err
	}

	b.row.Set(ColKind, d.DeclKind())
	// The root's location is its unit path, set by VisitTranslationUnit.
	if _, root := d.(frontend.TranslationUnit); !root {
		b.row.Set(ColLoc, b.loc.Encode(d.Location()))
	}
	b.row.Set(ColRange, b.loc.EncodeRange(d.Range()))
	if q := FormatQualifiers(d.Qualifiers()); q != "" {
		b.row.Set(ColDeclQual, q)
	}

	sem, lex := d.SemanticContext(), d.LexicalContext()
	if id, ok := b.reg.Lookup(sem); ok {
		b.row.Set(ColSemContext, strconv.FormatUint(id, 10))
	}
	if id, ok := b.reg.Lookup(lex); ok {
		b.row.Set(ColLexContext, strconv.FormatUint(id, 10))
	}

	if err := b.emitParents(d.Handle()); err != nil {
		return err
	}
	if sem != nil && sem != lex {
		if _, err := b.edges.EmitParentChild(b.current, sem, RelSemanticParent); err != nil {
			return err
		}
	}
	return nil
}

// VisitNamedDecl records the declared name.
func (b *Bridge) VisitNamedDecl(d frontend.NamedDecl) error {
	if err := b.open(); err != nil {
		return err
	}
	if name := d.Name(); name != "" {
		b.row.Set(ColDeclName, name)
	}
	return nil
}

// VisitValueDecl records the declared type.
func (b *Bridge) VisitValueDecl(d frontend.ValueDecl) error {
	if err := b.open(); err != nil {
		return err
	}
	if t := FormatType(d.Type()); t != "" {
		b.row.Set(ColType, t)
	}
	return nil
}

// VisitTranslationUnit records the unit path as the root's location.
func (b *Bridge) VisitTranslationUnit(tu frontend.TranslationUnit) error {
	if err := b.open(); err != nil {
		return err
	}
	name := tu.Filename()
	if name == "" {
		name = b.unit.Path()
	}
	b.row.Set(ColLoc, name)
	return nil
}

// VisitStmt records the statement columns and its parent edges.
func (b *Bridge) VisitStmt(s frontend.Stmt) error {
	if err := b.open(); err != nil {
		return err
	}
	b.row.Set(ColKind, s.StmtKind())
	b.row.Set(ColRange, b.loc.EncodeRange(s.Range()))
	return b.emitParents(s.Handle())
}

// VisitExpr records the type and value category.
func (b *Bridge) VisitExpr(e frontend.Expr) error {
	if err := b.open(); err != nil {
		return err
	}
	if t := FormatType(e.Type()); t != "" {
		b.row.Set(ColType, t)
	}
	if vk := e.ValueKind().String(); vk != "" {
		b.row.Set(ColValueKind, vk)
	}
	return nil
}

// VisitCastExpr records the cast kind.
func (b *Bridge) VisitCastExpr(c frontend.CastExpr) error {
	if err := b.open(); err != nil {
		return err
	}
	if ck := c.CastKind(); ck != "" {
		b.row.Set(ColCastKind, ck)
	}
	return nil
}

// VisitDeclRefExpr links the expression to the declaration it names, or
// describes the declaration inline when it has no identity yet.
func (b *Bridge) VisitDeclRefExpr(r frontend.DeclRefExpr) error {
	if err := b.open(); err != nil {
		return err
	}
	_, err := b.edges.EmitReference(b.current, r.Decl(), b.row)
	return err
}

// VisitLiteral records the literal value.
func (b *Bridge) VisitLiteral(l frontend.Literal) error {
	if err := b.open(); err != nil {
		return err
	}
	b.row.Set(ColValue, l.Value())
	return nil
}

func (b *Bridge) emitParents(h frontend.Node) error {
	for _, p := range b.unit.Parents(h) {
		if _, err := b.edges.EmitParentChild(b.current, p, RelIsParentOf); err != nil {
			return err
		}
	}
	return nil
}
