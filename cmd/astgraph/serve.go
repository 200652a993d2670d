package main

import (
	"context"
	"io"

	"github.com/dusk-indust/astgraph/internal/config"
	"github.com/dusk-indust/astgraph/internal/mcptools"
)

func runServeMCP(ctx context.Context, args []string, _ io.Writer) error {
	fs := newFlagSet("serve-mcp")
	configDir := fs.String("config", ".", "directory holding astgraph.yml")
	outputDir := fs.String("o", "", "default output directory")
	verbose := fs.Bool("verbose", false, "enable verbose logging")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(*configDir)
	if err != nil {
		return err
	}
	if *outputDir != "" {
		cfg.OutputDir = *outputDir
	}

	// stdout carries the protocol; logs go to stderr.
	svc := mcptools.NewGraphService(*cfg, newLogger(*verbose || cfg.Verbose))
	return mcptools.RunStdio(ctx, mcptools.NewGraphMCPServer(svc))
}
