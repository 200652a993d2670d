package mcptools

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/dusk-indust/astgraph/internal/config"
	"github.com/dusk-indust/astgraph/internal/driver"
	"github.com/dusk-indust/astgraph/internal/graph"
)

// GraphService holds the defaults shared by the MCP tool handlers.
type GraphService struct {
	cfg    config.ProjectConfig
	logger *slog.Logger
}

// NewGraphService creates a GraphService. Values in cfg are the defaults for
// every export; cfg.OutputDir is also where the query tools read from when
// a call names no directory.
func NewGraphService(cfg config.ProjectConfig, logger *slog.Logger) *GraphService {
	if logger == nil {
		logger = slog.Default()
	}
	return &GraphService{cfg: cfg.WithDefaults(), logger: logger}
}

func (s *GraphService) dir(d string) string {
	if d != "" {
		return d
	}
	return s.cfg.OutputDir
}

// ExportAST exports the given inputs into an output directory, appending to
// tables already there.
func (s *GraphService) ExportAST(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ExportASTInput,
) (*mcp.CallToolResult, ExportASTOutput, error) {
	if len(input.Inputs) == 0 && input.CompileCommands == "" {
		return nil, ExportASTOutput{}, errors.New("inputs or compileCommands is required")
	}

	cfg := s.cfg
	cfg.OutputDir = s.dir(input.OutputDir)
	if len(input.Languages) > 0 {
		cfg.Languages = input.Languages
	}
	if len(input.ExcludeDirs) > 0 {
		cfg.ExcludeDirs = input.ExcludeDirs
	}
	if input.CompileCommands != "" {
		cfg.CompileCommands = input.CompileCommands
	}
	if input.GoFrontend != "" {
		cfg.GoFrontend = input.GoFrontend
	}
	cfg.IncludeTests = cfg.IncludeTests || input.IncludeTests
	if err := cfg.Validate(); err != nil {
		return nil, ExportASTOutput{}, err
	}

	opts, err := driver.FromConfig(cfg, input.Inputs)
	if err != nil {
		return nil, ExportASTOutput{}, err
	}
	opts.Logger = s.logger

	report, err := driver.Run(ctx, opts)
	if err != nil {
		return nil, ExportASTOutput{}, fmt.Errorf("export: %w", err)
	}
	return nil, ExportASTOutput{Report: *report}, nil
}

// GraphStats summarizes the tables in a directory and checks them.
func (s *GraphService) GraphStats(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input GraphStatsInput,
) (*mcp.CallToolResult, GraphStatsOutput, error) {
	t, err := graph.ReadTables(s.dir(input.Dir))
	if err != nil {
		return nil, GraphStatsOutput{}, err
	}
	out := GraphStatsOutput{Summary: t.Summary(), Violations: t.Verify()}
	if out.Violations == nil {
		out.Violations = []graph.Violation{}
	}
	return nil, out, nil
}

// GetNode returns one row with its neighbourhood.
func (s *GraphService) GetNode(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input GetNodeInput,
) (*mcp.CallToolResult, GetNodeOutput, error) {
	if input.ID == 0 {
		return nil, GetNodeOutput{}, errors.New("id is required")
	}
	t, err := graph.ReadTables(s.dir(input.Dir))
	if err != nil {
		return nil, GetNodeOutput{}, err
	}
	n, ok := t.Node(input.ID)
	if !ok {
		return nil, GetNodeOutput{}, fmt.Errorf("node %d not found", input.ID)
	}

	out := GetNodeOutput{
		Node:       n,
		Parents:    nonNil(t.Parents(n.ID)),
		Children:   nonNil(t.Children(n.ID)),
		References: []uint64{},
		Referrers:  []uint64{},
	}
	for _, e := range t.EdgesFrom(n.ID) {
		switch e.Relation {
		case graph.RelSemanticParent:
			out.SemanticParent = e.Target
		case graph.RelReferencesDecl:
			out.References = append(out.References, e.Target)
		}
	}
	for _, e := range t.Edges {
		if e.Relation == graph.RelReferencesDecl && e.Target == n.ID {
			out.Referrers = append(out.Referrers, e.Source)
		}
	}
	return nil, out, nil
}

// FindDecls searches declarations by name substring.
func (s *GraphService) FindDecls(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input FindDeclsInput,
) (*mcp.CallToolResult, FindDeclsOutput, error) {
	if input.Name == "" {
		return nil, FindDeclsOutput{}, errors.New("name is required")
	}
	limit := input.Limit
	if limit <= 0 {
		limit = 20
	}
	t, err := graph.ReadTables(s.dir(input.Dir))
	if err != nil {
		return nil, FindDeclsOutput{}, err
	}

	out := FindDeclsOutput{Nodes: []graph.NodeRecord{}}
	for _, n := range t.Nodes {
		if !strings.Contains(n.DeclName, input.Name) {
			continue
		}
		if input.Kind != "" && n.Kind != input.Kind {
			continue
		}
		out.Total++
		if len(out.Nodes) < limit {
			out.Nodes = append(out.Nodes, n)
		}
	}
	return nil, out, nil
}

func nonNil(ids []uint64) []uint64 {
	if ids == nil {
		return []uint64{}
	}
	return ids
}
