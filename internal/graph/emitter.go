package graph

import (
	"strconv"
	"strings"

	"github.com/dusk-indust/astgraph/internal/frontend"
)

// EdgeEmitter writes edges the moment a relation is discovered. Edges are
// assembled in a scratch row that is committed before returning, so no edge
// outlives the callback that found it.
type EdgeEmitter struct {
	reg  *Registry
	sink RecordWriter
	row  *Row[EdgeColumn]

	edges    int
	bareRefs int
}

// NewEdgeEmitter returns an emitter that resolves handles through reg and
// writes to sink.
func NewEdgeEmitter(reg *Registry, sink RecordWriter) *EdgeEmitter {
	return &EdgeEmitter{
		reg:  reg,
		sink: sink,
		row:  NewRow[EdgeColumn](),
	}
}

// Emit writes the edge src -> dst.
func (e *EdgeEmitter) Emit(src, dst uint64, rel Relation) error {
	e.row.Set(ColSource, strconv.FormatUint(src, 10))
	e.row.Set(ColTarget, strconv.FormatUint(dst, 10))
	e.row.Set(ColRelation, rel.String())
	if err := e.row.Commit(e.sink, EdgeFirst, EdgeLast); err != nil {
		return err
	}
	e.edges++
	return nil
}

// EmitParentChild writes child -> parent when parent has an identity. It
// reports whether an edge was written.
func (e *EdgeEmitter) EmitParentChild(child uint64, parent frontend.Node, rel Relation) (bool, error) {
	pid, ok := e.reg.Lookup(parent)
	if !ok {
		return false, nil
	}
	return true, e.Emit(child, pid, rel)
}

// EmitReference links src to the declaration target. A target without an
// identity yet (declared later in the walk, or outside the unit) gets no
// edge; its description is stored in the bare-reference column of row
// instead. It reports whether an edge was written.
func (e *EdgeEmitter) EmitReference(src uint64, target frontend.Decl, row *Row[NodeColumn]) (bool, error) {
	if target == nil {
		return false, nil
	}
	if dst, ok := e.reg.Lookup(target.Handle()); ok {
		return true, e.Emit(src, dst, RelReferencesDecl)
	}
	row.Set(ColBareDeclRef, DescribeDecl(target))
	e.bareRefs++
	return false, nil
}

// Edges returns the number of edges written.
func (e *EdgeEmitter) Edges() int {
	return e.edges
}

// BareRefs returns the number of references stored as text.
func (e *EdgeEmitter) BareRefs() int {
	return e.bareRefs
}

// DescribeDecl renders a short description of d: its kind, its name if it
// has one and its type if it is a value.
func DescribeDecl(d frontend.Decl) string {
	var sb strings.Builder
	sb.WriteByte('<')
	sb.WriteString(d.DeclKind())
	if nd, ok := d.(frontend.NamedDecl); ok && nd.Name() != "" {
		sb.WriteString(", ")
		sb.WriteString(nd.Name())
	}
	if vd, ok := d.(frontend.ValueDecl); ok {
		if t := vd.Type(); !t.IsZero() {
			sb.WriteString(", ")
			sb.WriteString(FormatType(t))
		}
	}
	sb.WriteByte('>')
	return sb.String()
}

// FormatType renders <spelling> or <spelling, desugared>.
func FormatType(t frontend.Type) string {
	if t.IsZero() {
		return ""
	}
	if t.Desugared == "" || t.Desugared == t.Spelling {
		return "<" + t.Spelling + ">"
	}
	return "<" + t.Spelling + ", " + t.Desugared + ">"
}

// FormatQualifiers renders the qualifiers that hold as <a, b, ...>, or ""
// when none does.
func FormatQualifiers(q frontend.Qualifiers) string {
	var parts []string
	if q.Module != "" {
		parts = append(parts, "in "+q.Module)
	}
	if q.Hidden {
		parts = append(parts, "hidden")
	}
	if q.Implicit {
		parts = append(parts, "implicit")
	}
	if q.Used {
		parts = append(parts, "used")
	} else if q.Referenced {
		parts = append(parts, "referenced")
	}
	if q.Invalid {
		parts = append(parts, "invalid")
	}
	if q.Constexpr {
		parts = append(parts, "constexpr")
	}
	if len(parts) == 0 {
		return ""
	}
	return "<" + strings.Join(parts, ", ") + ">"
}
