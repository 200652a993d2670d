package mcptools

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// version is set by the linker at build time.
var version = "dev"

// NewGraphMCPServer creates an MCP server with the export and query tools
// registered.
func NewGraphMCPServer(svc *GraphService) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "astgraph",
		Version: version,
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "export_ast",
		Description: "Parse source files, directories, Go packages or a compilation database and append their syntax trees to nodes.csv and edges.csv in the output directory. Node identities continue across runs.",
	}, svc.ExportAST)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "graph_stats",
		Description: "Count the nodes and edges of an exported table pair by kind and relation, and report well-formedness violations.",
	}, svc.GraphStats)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_node",
		Description: "Return one node row with its lexical parents, children, semantic parent, the declarations it references and the nodes referencing it.",
	}, svc.GetNode)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "find_decls",
		Description: "Search declaration rows by name substring, optionally restricted to one node kind.",
	}, svc.FindDecls)

	return server
}

// RunStdio runs server on stdio, blocking until stdin is closed or ctx is
// cancelled.
func RunStdio(ctx context.Context, server *mcp.Server) error {
	return server.Run(ctx, &mcp.StdioTransport{})
}
