//go:build cgo

package mcptools

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dusk-indust/astgraph/internal/config"
	"github.com/dusk-indust/astgraph/internal/graph"
)

// fixtureAbsPath returns the absolute path of a fixture project.
func fixtureAbsPath(t *testing.T, name string) string {
	t.Helper()
	abs, err := filepath.Abs(filepath.Join("../../testdata/fixtures", name))
	require.NoError(t, err)
	return abs
}

// exportedService returns a service whose output directory already holds
// the C fixture.
func exportedService(t *testing.T) *GraphService {
	t.Helper()
	svc := NewGraphService(config.ProjectConfig{OutputDir: t.TempDir()}, nil)
	_, _, err := svc.ExportAST(context.Background(), nil, ExportASTInput{
		Inputs: []string{fixtureAbsPath(t, "c_project")},
	})
	require.NoError(t, err)
	return svc
}

func findOne(t *testing.T, svc *GraphService, name, kind string) graph.NodeRecord {
	t.Helper()
	_, out, err := svc.FindDecls(context.Background(), nil, FindDeclsInput{Name: name, Kind: kind})
	require.NoError(t, err)
	for _, n := range out.Nodes {
		if n.DeclName == name {
			return n
		}
	}
	require.Failf(t, "declaration not found", "%s %s", kind, name)
	return graph.NodeRecord{}
}

// ---------------------------------------------------------------------------
// ExportAST
// ---------------------------------------------------------------------------

func TestExportAST(t *testing.T) {
	svc := NewGraphService(config.ProjectConfig{OutputDir: t.TempDir()}, nil)
	out := t.TempDir()

	_, res, err := svc.ExportAST(context.Background(), nil, ExportASTInput{
		Inputs:    []string{fixtureAbsPath(t, "c_project")},
		OutputDir: out,
	})
	require.NoError(t, err)

	report := res.Report
	assert.Equal(t, out, report.OutputDir)
	require.Len(t, report.Units, 2)
	assert.Equal(t, "shapes.c", report.Units[0].Path)
	assert.Equal(t, "shapes.h", report.Units[1].Path)
	assert.Equal(t, uint64(1), report.Session.FirstID)
	assert.Positive(t, report.Session.BareRefs, "later() is called before it is declared")
}

func TestExportAST_Validation(t *testing.T) {
	svc := NewGraphService(config.ProjectConfig{OutputDir: t.TempDir()}, nil)
	ctx := context.Background()

	_, _, err := svc.ExportAST(ctx, nil, ExportASTInput{})
	assert.ErrorContains(t, err, "inputs or compileCommands is required")

	_, _, err = svc.ExportAST(ctx, nil, ExportASTInput{Inputs: []string{"."}, GoFrontend: "clang"})
	assert.ErrorContains(t, err, "goFrontend")

	_, _, err = svc.ExportAST(ctx, nil, ExportASTInput{Inputs: []string{"."}, Languages: []string{"cobol"}})
	assert.ErrorContains(t, err, "unknown language")
}

// ---------------------------------------------------------------------------
// Queries
// ---------------------------------------------------------------------------

func TestGraphStats(t *testing.T) {
	svc := exportedService(t)

	_, out, err := svc.GraphStats(context.Background(), nil, GraphStatsInput{})
	require.NoError(t, err)
	assert.Empty(t, out.Violations)
	assert.Equal(t, uint64(1), out.Summary.FirstID)
	assert.Equal(t, 2, out.Summary.ByKind["TranslationUnit"])
	assert.Positive(t, out.Summary.ByRelation["is_parent_of"])
	assert.Positive(t, out.Summary.ByRelation["references_decl"])
}

func TestGraphStats_MissingTables(t *testing.T) {
	svc := NewGraphService(config.ProjectConfig{OutputDir: t.TempDir()}, nil)
	_, _, err := svc.GraphStats(context.Background(), nil, GraphStatsInput{})
	assert.Error(t, err)
}

func TestGetNode(t *testing.T) {
	svc := exportedService(t)
	ctx := context.Background()

	area := findOne(t, svc, "area", "FunctionDecl")
	_, out, err := svc.GetNode(ctx, nil, GetNodeInput{ID: area.ID})
	require.NoError(t, err)

	assert.Equal(t, area, out.Node)
	require.Len(t, out.Parents, 1)
	assert.NotEmpty(t, out.Children)
	assert.NotEmpty(t, out.Referrers, "total() calls area()")

	for _, ref := range out.Referrers {
		_, refOut, err := svc.GetNode(ctx, nil, GetNodeInput{ID: ref})
		require.NoError(t, err)
		assert.Contains(t, refOut.References, area.ID)
	}
}

func TestGetNode_Errors(t *testing.T) {
	svc := exportedService(t)
	ctx := context.Background()

	_, _, err := svc.GetNode(ctx, nil, GetNodeInput{})
	assert.ErrorContains(t, err, "id is required")

	_, _, err = svc.GetNode(ctx, nil, GetNodeInput{ID: 1 << 40})
	assert.ErrorContains(t, err, "not found")
}

func TestFindDecls(t *testing.T) {
	svc := exportedService(t)
	ctx := context.Background()

	_, out, err := svc.FindDecls(ctx, nil, FindDeclsInput{Name: "later", Kind: "FunctionDecl"})
	require.NoError(t, err)
	require.Equal(t, 1, out.Total)
	assert.Equal(t, "later", out.Nodes[0].DeclName)

	_, out, err = svc.FindDecls(ctx, nil, FindDeclsInput{Name: "a", Limit: 1})
	require.NoError(t, err)
	assert.Len(t, out.Nodes, 1)
	assert.Greater(t, out.Total, 1)

	_, _, err = svc.FindDecls(ctx, nil, FindDeclsInput{})
	assert.ErrorContains(t, err, "name is required")
}
