package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/dusk-indust/astgraph/internal/config"
)

// mcpConfig represents the structure of a .mcp.json file.
type mcpConfig struct {
	MCPServers map[string]json.RawMessage `json:"mcpServers"`
}

// astgraphMCPEntry runs the tool server from the project root.
var astgraphMCPEntry = json.RawMessage(`{
  "type": "stdio",
  "command": "astgraph",
  "args": ["serve-mcp"]
}`)

// defaultConfig is written by init.
var defaultConfig = config.ProjectConfig{
	OutputDir:   "astgraph-out",
	ExcludeDirs: []string{"vendor", "node_modules", "third_party"},
	GoFrontend:  config.GoFrontendTypes,
}

// runInit writes astgraph.yml and registers the MCP server in .mcp.json.
func runInit(_ context.Context, args []string, stdout io.Writer) error {
	fs := newFlagSet("init")
	force := fs.Bool("force", false, "overwrite existing files")
	if err := fs.Parse(args); err != nil {
		return err
	}
	projectRoot := "."
	if fs.NArg() > 0 {
		projectRoot = fs.Arg(0)
	}

	abs, err := filepath.Abs(projectRoot)
	if err != nil {
		return fmt.Errorf("resolving project root: %w", err)
	}

	cfgPath := filepath.Join(abs, config.FileNames[0])
	if _, err := os.Stat(cfgPath); err == nil && !*force {
		fmt.Fprintf(stdout, "  skipped %s (exists, use -force to overwrite)\n", config.FileNames[0])
	} else {
		if err := defaultConfig.Save(abs); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "  created %s\n", config.FileNames[0])
	}

	return mergeMCPConfig(filepath.Join(abs, ".mcp.json"), *force, stdout)
}

// mergeMCPConfig creates or merges the astgraph entry into .mcp.json.
func mergeMCPConfig(mcpPath string, force bool, stdout io.Writer) error {
	var cfg mcpConfig

	data, err := os.ReadFile(mcpPath)
	if err == nil {
		if err := json.Unmarshal(data, &cfg); err != nil {
			return fmt.Errorf("parsing %s: %w", mcpPath, err)
		}
	}

	if cfg.MCPServers == nil {
		cfg.MCPServers = make(map[string]json.RawMessage)
	}

	if _, exists := cfg.MCPServers["astgraph"]; exists && !force {
		fmt.Fprintln(stdout, "  skipped .mcp.json astgraph entry (exists, use -force to overwrite)")
		return nil
	}
	cfg.MCPServers["astgraph"] = astgraphMCPEntry

	out, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling .mcp.json: %w", err)
	}
	if err := os.WriteFile(mcpPath, append(out, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", mcpPath, err)
	}

	action := "created"
	if data != nil {
		action = "updated"
	}
	fmt.Fprintf(stdout, "  %s .mcp.json with astgraph MCP server\n", action)
	return nil
}
