package render

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dusk-indust/astgraph/internal/graph"
)

// classTables models
//
//	struct S { int f(); };
//	int S::f() { return 0; }
func classTables() *graph.Tables {
	return graph.NewTables(
		[]graph.NodeRecord{
			{ID: 1, Kind: "TranslationUnit", Loc: "a.cpp"},
			{ID: 2, Kind: "CXXRecordDecl", DeclName: "S"},
			{ID: 3, Kind: "CXXMethodDecl", DeclName: "f"},
			{ID: 4, Kind: "CXXMethodDecl", DeclName: "f"},
			{ID: 5, Kind: "CompoundStmt"},
			{ID: 6, Kind: "IntegerLiteral", Value: "0"},
			{ID: 7, Kind: "DeclRefExpr", DeclName: `say "hi"`},
		},
		[]graph.EdgeRecord{
			{Source: 2, Target: 1, Relation: graph.RelIsParentOf},
			{Source: 3, Target: 2, Relation: graph.RelIsParentOf},
			{Source: 4, Target: 1, Relation: graph.RelIsParentOf},
			{Source: 4, Target: 2, Relation: graph.RelSemanticParent},
			{Source: 5, Target: 4, Relation: graph.RelIsParentOf},
			{Source: 6, Target: 5, Relation: graph.RelIsParentOf},
			{Source: 7, Target: 5, Relation: graph.RelIsParentOf},
			{Source: 7, Target: 3, Relation: graph.RelReferencesDecl},
		},
	)
}

func TestSubtrees(t *testing.T) {
	trees, err := Subtrees(classTables(), 0, 0)
	require.NoError(t, err)
	require.Len(t, trees, 1)

	tu := trees[0]
	assert.Equal(t, uint64(1), tu.ID)
	require.Len(t, tu.Children, 2)

	def := tu.Children[1]
	assert.Equal(t, uint64(4), def.ID)
	assert.Equal(t, uint64(2), def.SemanticParent)
	require.Len(t, def.Children, 1)
	assert.Equal(t, []uint64{3}, def.Children[0].Children[1].References)
}

func TestSubtrees_Depth(t *testing.T) {
	trees, err := Subtrees(classTables(), 4, 2)
	require.NoError(t, err)
	require.Len(t, trees, 1)
	require.Len(t, trees[0].Children, 1)
	assert.Empty(t, trees[0].Children[0].Children)
}

func TestSubtrees_UnknownRoot(t *testing.T) {
	_, err := Subtrees(classTables(), 42, 0)
	assert.ErrorContains(t, err, "node 42 not found")
}

func TestMermaid(t *testing.T) {
	got, err := Mermaid(classTables(), 0, 0)
	require.NoError(t, err)

	want := `graph TD
  N1["1 TranslationUnit"]
  N2["2 CXXRecordDecl S"]
  N3["3 CXXMethodDecl f"]
  N4["4 CXXMethodDecl f"]
  N5["5 CompoundStmt"]
  N6["6 IntegerLiteral 0"]
  N7["7 DeclRefExpr say #quot;hi#quot;"]
  N1 --> N2
  N1 --> N4
  N2 --> N3
  N4 --> N5
  N5 --> N6
  N5 --> N7
  N2 -.-> N4
  N7 ==> N3
`
	assert.Equal(t, want, got)
}

func TestMermaid_DropsEdgesLeavingSubtree(t *testing.T) {
	got, err := Mermaid(classTables(), 4, 0)
	require.NoError(t, err)
	assert.NotContains(t, got, "-.->")
	assert.NotContains(t, got, "==>")
	assert.Contains(t, got, "N4 --> N5")
}

func TestJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, JSON(&buf, classTables(), 5, 0))

	var got []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "CompoundStmt", got[0]["kind"])

	kids := got[0]["children"].([]any)
	require.Len(t, kids, 2)
	lit := kids[0].(map[string]any)
	assert.Equal(t, "0", lit["value"])
	ref := kids[1].(map[string]any)
	assert.Equal(t, []any{float64(3)}, ref["references"])
}
