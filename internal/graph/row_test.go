package graph

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder collects committed records in memory.
type recorder struct {
	rows [][]string
	err  error
}

func (r *recorder) Write(fields []string) error {
	if r.err != nil {
		return r.err
	}
	r.rows = append(r.rows, append([]string(nil), fields...))
	return nil
}

func TestRow_SetOverwrites(t *testing.T) {
	row := NewRow[NodeColumn]()
	row.Set(ColKind, "Stmt")
	row.Set(ColKind, "CallExpr")

	got, ok := row.Get(ColKind)
	require.True(t, ok)
	assert.Equal(t, "CallExpr", got)
	assert.Equal(t, 1, row.Len())
}

func TestRow_SetIfEmpty(t *testing.T) {
	row := NewRow[NodeColumn]()
	row.SetIfEmpty(ColKind, "generic")
	row.SetIfEmpty(ColKind, "ignored")
	got, _ := row.Get(ColKind)
	assert.Equal(t, "generic", got)

	row.Set(ColKind, "specific")
	got, _ = row.Get(ColKind)
	assert.Equal(t, "specific", got)
}

func TestRow_CommitFillsGaps(t *testing.T) {
	row := NewRow[NodeColumn]()
	row.Set(ColNodeID, "7")
	row.Set(ColDeclName, "main")

	var rec recorder
	require.NoError(t, row.Commit(&rec, NodeFirst, NodeLast))

	require.Len(t, rec.rows, 1)
	want := make([]string, len(NodeHeader))
	want[ColNodeID] = "7"
	want[ColDeclName] = "main"
	assert.Equal(t, want, rec.rows[0])
	assert.True(t, row.Empty(), "commit clears the row")
}

func TestRow_CommitEmptyIsNoop(t *testing.T) {
	row := NewRow[EdgeColumn]()
	rec := recorder{err: errors.New("must not be called")}

	require.NoError(t, row.Commit(&rec, EdgeFirst, EdgeLast))
	assert.Empty(t, rec.rows)
}

func TestRow_CommitSubrange(t *testing.T) {
	row := NewRow[EdgeColumn]()
	row.Set(ColSource, "1")
	row.Set(ColTarget, "2")
	row.Set(ColRelation, "is_parent_of")

	var rec recorder
	require.NoError(t, row.Commit(&rec, ColSource, ColTarget))
	assert.Equal(t, [][]string{{"1", "2"}}, rec.rows)
}
