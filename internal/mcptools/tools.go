package mcptools

import (
	"github.com/dusk-indust/astgraph/internal/driver"
	"github.com/dusk-indust/astgraph/internal/graph"
)

// --- MCP Tool Input Types ---
// The MCP Go SDK derives each tool's JSON schema from these struct tags.

// ExportASTInput is the input for the export_ast MCP tool.
type ExportASTInput struct {
	Inputs          []string `json:"inputs" jsonschema:"files, directories or Go package patterns to export"`
	OutputDir       string   `json:"outputDir,omitempty" jsonschema:"directory receiving nodes.csv and edges.csv (default: the server's output directory)"`
	Languages       []string `json:"languages,omitempty" jsonschema:"restrict to these languages. Values: c, cpp, go, python, rust, typescript, tsx"`
	ExcludeDirs     []string `json:"excludeDirs,omitempty" jsonschema:"directory names to skip (e.g. vendor, node_modules)"`
	CompileCommands string   `json:"compileCommands,omitempty" jsonschema:"compile_commands.json or the build directory holding it"`
	GoFrontend      string   `json:"goFrontend,omitempty" jsonschema:"types (type-checked, default) or treesitter"`
	IncludeTests    bool     `json:"includeTests,omitempty" jsonschema:"also export Go test files"`
}

// ExportASTOutput is the result of the export_ast MCP tool.
type ExportASTOutput struct {
	Report driver.Report `json:"report"`
}

// GraphStatsInput is the input for the graph_stats MCP tool.
type GraphStatsInput struct {
	Dir string `json:"dir,omitempty" jsonschema:"directory holding nodes.csv and edges.csv (default: the server's output directory)"`
}

// GraphStatsOutput is the result of the graph_stats MCP tool.
type GraphStatsOutput struct {
	Summary    graph.Summary     `json:"summary"`
	Violations []graph.Violation `json:"violations"`
}

// GetNodeInput is the input for the get_node MCP tool.
type GetNodeInput struct {
	Dir string `json:"dir,omitempty" jsonschema:"directory holding nodes.csv and edges.csv (default: the server's output directory)"`
	ID  uint64 `json:"id" jsonschema:"node identity"`
}

// GetNodeOutput is the result of the get_node MCP tool.
type GetNodeOutput struct {
	Node           graph.NodeRecord `json:"node"`
	Parents        []uint64         `json:"parents"`
	Children       []uint64         `json:"children"`
	SemanticParent uint64           `json:"semanticParent,omitempty"`
	References     []uint64         `json:"references"`
	Referrers      []uint64         `json:"referrers"`
}

// FindDeclsInput is the input for the find_decls MCP tool.
type FindDeclsInput struct {
	Dir   string `json:"dir,omitempty" jsonschema:"directory holding nodes.csv and edges.csv (default: the server's output directory)"`
	Name  string `json:"name" jsonschema:"declared name to look for (substring match)"`
	Kind  string `json:"kind,omitempty" jsonschema:"only return nodes of this kind, e.g. FunctionDecl"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum number of results (default: 20)"`
}

// FindDeclsOutput is the result of the find_decls MCP tool.
type FindDeclsOutput struct {
	Nodes []graph.NodeRecord `json:"nodes"`
	Total int                `json:"total"`
}
