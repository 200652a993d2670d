//go:build cgo

package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/dusk-indust/astgraph/internal/graph"
	"github.com/dusk-indust/astgraph/internal/kuzu"
)

func init() {
	commands["load"] = command{"load [-dir dir] [-db path]", runLoad}
}

// runLoad imports exported tables into a KuzuDB database.
func runLoad(ctx context.Context, args []string, stdout io.Writer) error {
	fs := newFlagSet("load")
	dir := fs.String("dir", ".", "directory holding nodes.csv and edges.csv")
	dbPath := fs.String("db", "", "database path (default: <dir>/graph.kuzu)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *dbPath == "" {
		*dbPath = filepath.Join(*dir, "graph.kuzu")
	}

	t, err := graph.ReadTables(*dir)
	if err != nil {
		return err
	}
	if v := t.Verify(); len(v) > 0 {
		return fmt.Errorf("tables in %s are not well formed: %s (and %d more)", *dir, v[0], len(v)-1)
	}

	store, err := kuzu.NewFileStore(*dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.InitSchema(ctx); err != nil {
		return err
	}
	imported, err := store.Import(ctx, t)
	if err != nil {
		return err
	}
	st, err := store.Stats(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "imported %d nodes and %d edges into %s (%d nodes total)\n",
		imported.Nodes, imported.Edges, *dbPath, st.Nodes)
	return nil
}
