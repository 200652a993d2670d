package graph

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dusk-indust/astgraph/internal/frontend"
	"github.com/dusk-indust/astgraph/internal/frontend/fronttest"
)

// sampleUnit builds a small unit: a root, a function with a body holding a
// call to an earlier declaration and one to a later one.
func sampleUnit(path string) frontend.Unit {
	tu := &fronttest.TU{File: path}
	tu.K = "TranslationUnit"

	helper := funcDecl("helper")
	helper.Loc = fronttest.Pos(path, 1, 5)
	helper.Lex = tu.Handle()
	helper.Sem = tu.Handle()

	main := funcDecl("main")
	main.Loc = fronttest.Pos(path, 3, 5)

	body := &fronttest.Stmt{}
	body.K = "CompoundStmt"
	body.Rng = fronttest.Span(fronttest.Pos(path, 3, 12), fronttest.Pos(path, 6, 1))

	back := &fronttest.Ref{Target: helper}
	back.K = "DeclRefExpr"
	fwd := &fronttest.Ref{}
	fwd.K = "DeclRefExpr"

	later := funcDecl("later")
	later.Loc = fronttest.Pos(path, 8, 5)
	fwd.Target = later

	fronttest.Add(tu, helper, main, later)
	fronttest.Add(main, body)
	fronttest.Add(body, back, fwd)
	return fronttest.NewUnit(path, tu)
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func exportAll(t *testing.T, dir string, units ...frontend.Unit) Stats {
	t.Helper()
	s, err := Open(dir)
	require.NoError(t, err)
	for _, u := range units {
		_, err := s.Export(context.Background(), u)
		require.NoError(t, err)
	}
	st := s.Stats()
	require.NoError(t, s.Close())
	return st
}

func TestSession_FreshDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	st := exportAll(t, dir, sampleUnit("a.c"))

	assert.Equal(t, 7, st.Nodes)
	assert.Equal(t, uint64(1), st.FirstID)
	assert.Equal(t, uint64(7), st.LastID)
	assert.False(t, st.Appended)

	nodes := readFile(t, filepath.Join(dir, NodesFile))
	assert.True(t, strings.HasPrefix(nodes, strings.Join(NodeHeader, "\t")+"\n"))
	edges := readFile(t, filepath.Join(dir, EdgesFile))
	assert.True(t, strings.HasPrefix(edges, strings.Join(EdgeHeader, "\t")+"\n"))

	assert.Equal(t, "7", readFile(t, filepath.Join(dir, CounterFile)))

	tables, err := ReadTables(dir)
	require.NoError(t, err)
	assert.Len(t, tables.Nodes, 7)
	assert.Empty(t, tables.Verify())
}

func TestSession_CounterRoundTrip(t *testing.T) {
	split := t.TempDir()
	exportAll(t, split, sampleUnit("a.c"))
	st := exportAll(t, split, sampleUnit("b.c"))
	assert.True(t, st.Appended)
	assert.Equal(t, uint64(8), st.FirstID)
	assert.Equal(t, uint64(14), st.LastID)

	combined := t.TempDir()
	exportAll(t, combined, sampleUnit("a.c"), sampleUnit("b.c"))

	splitTables, err := ReadTables(split)
	require.NoError(t, err)
	combinedTables, err := ReadTables(combined)
	require.NoError(t, err)

	var splitIDs, combinedIDs []uint64
	for _, n := range splitTables.Nodes {
		splitIDs = append(splitIDs, n.ID)
	}
	for _, n := range combinedTables.Nodes {
		combinedIDs = append(combinedIDs, n.ID)
	}
	assert.Equal(t, combinedIDs, splitIDs, "two runs partition the identity space of one run")
	for i, id := range splitIDs {
		assert.Equal(t, uint64(i+1), id, "no gaps")
	}
	assert.Equal(t, combinedTables.Edges, splitTables.Edges)
	assert.Empty(t, splitTables.Verify())

	headerLines := strings.Count(readFile(t, filepath.Join(split, NodesFile)), "nodeID:ID")
	assert.Equal(t, 1, headerLines, "appending never rewrites the header")
}

func TestSession_ReferenceFallbackInTables(t *testing.T) {
	dir := t.TempDir()
	exportAll(t, dir, sampleUnit("a.c"))

	tables, err := ReadTables(dir)
	require.NoError(t, err)

	// Rows: 1 tu, 2 helper, 3 main, 4 body, 5 back, 6 fwd, 7 later.
	back, ok := tables.Node(5)
	require.True(t, ok)
	assert.Empty(t, back.BareDeclRef)
	fwd, ok := tables.Node(6)
	require.True(t, ok)
	assert.Equal(t, "<FunctionDecl, later, <int (void)>>", fwd.BareDeclRef)

	var refs []EdgeRecord
	for _, e := range tables.Edges {
		if e.Relation == RelReferencesDecl {
			refs = append(refs, e)
		}
	}
	assert.Equal(t, []EdgeRecord{{Source: 5, Target: 2, Relation: RelReferencesDecl}}, refs)
	assert.Equal(t, []uint64{5, 6}, tables.Children(4))
}

func TestSession_TablesWithoutCounter(t *testing.T) {
	dir := t.TempDir()
	exportAll(t, dir, sampleUnit("a.c"))
	require.NoError(t, os.Remove(filepath.Join(dir, CounterFile)))
	before := readFile(t, filepath.Join(dir, NodesFile))

	_, err := Open(dir)
	assert.ErrorIs(t, err, ErrCounterMissing)
	assert.Equal(t, before, readFile(t, filepath.Join(dir, NodesFile)), "tables are untouched")
}

func TestSession_BadCounterIsFatal(t *testing.T) {
	dir := t.TempDir()
	exportAll(t, dir, sampleUnit("a.c"))
	require.NoError(t, os.WriteFile(filepath.Join(dir, CounterFile), []byte("not a number"), 0o644))

	_, err := Open(dir)
	assert.ErrorIs(t, err, ErrCounterHandoff)
}

func TestSession_StaleCounterWithoutTables(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, CounterFile), []byte("99"), 0o644))

	st := exportAll(t, dir, sampleUnit("a.c"))
	assert.Equal(t, uint64(1), st.FirstID)
	assert.Equal(t, "7", readFile(t, filepath.Join(dir, CounterFile)))
}

func TestSession_IncompleteTables(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, NodesFile), []byte(strings.Join(NodeHeader, "\t")+"\n"), 0o644))

	_, err := Open(dir)
	assert.ErrorIs(t, err, ErrIncompleteTables)
}

func TestSession_CloseWritesCounterWithoutUnits(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir)
	require.NoError(t, err)
	require.NoError(t, s.Close())
	require.NoError(t, s.Close(), "close is idempotent")

	assert.Equal(t, "0", readFile(t, filepath.Join(dir, CounterFile)))

	_, err = s.Export(context.Background(), sampleUnit("late.c"))
	assert.Error(t, err)
}

func TestSession_CanceledWalkStillCommitsPending(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = s.Export(ctx, sampleUnit("a.c"))
	assert.ErrorIs(t, err, context.Canceled)
	require.NoError(t, s.Close())

	tables, err := ReadTables(dir)
	require.NoError(t, err)
	assert.Empty(t, tables.Verify())
}

func TestSession_UnitStats(t *testing.T) {
	s, err := Open(t.TempDir())
	require.NoError(t, err)
	defer s.Close()

	us, err := s.Export(context.Background(), sampleUnit("a.c"))
	require.NoError(t, err)
	assert.Equal(t, "a.c", us.Path)
	assert.Equal(t, 7, us.Nodes)
	assert.Equal(t, 1, us.BareRefs)
	// 6 parent edges, 1 reference.
	assert.Equal(t, 7, us.Edges)
	assert.Equal(t, uint64(1), us.FirstID)
	assert.Equal(t, uint64(7), us.LastID)
}

func TestSession_LiteralWithTabsRoundTrips(t *testing.T) {
	root := &fronttest.TU{}
	root.K = "TranslationUnit"
	lit := &fronttest.Lit{V: "\"a\tb\nc\""}
	lit.K = "StringLiteral"
	fronttest.Add(root, lit)

	dir := t.TempDir()
	exportAll(t, dir, fronttest.NewUnit("s.c", root))

	tables, err := ReadTables(dir)
	require.NoError(t, err)
	require.Len(t, tables.Nodes, 2)
	assert.Equal(t, "\"a\tb\nc\"", tables.Nodes[1].Value)
}
