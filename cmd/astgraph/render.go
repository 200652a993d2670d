package main

import (
	"context"
	"fmt"
	"io"

	"github.com/dusk-indust/astgraph/internal/graph"
	"github.com/dusk-indust/astgraph/internal/render"
)

func runRender(_ context.Context, args []string, stdout io.Writer) error {
	fs := newFlagSet("render")
	dir := fs.String("dir", ".", "directory holding nodes.csv and edges.csv")
	root := fs.Uint64("root", 0, "node to start from (default: every root)")
	depth := fs.Int("depth", 0, "levels to draw (default: unlimited)")
	format := fs.String("format", "mermaid", `output format: "mermaid" or "json"`)
	if err := fs.Parse(args); err != nil {
		return err
	}

	t, err := graph.ReadTables(*dir)
	if err != nil {
		return err
	}

	switch *format {
	case "mermaid":
		out, err := render.Mermaid(t, *root, *depth)
		if err != nil {
			return err
		}
		_, err = io.WriteString(stdout, out)
		return err
	case "json":
		return render.JSON(stdout, t, *root, *depth)
	default:
		return fmt.Errorf("unknown format %q", *format)
	}
}
