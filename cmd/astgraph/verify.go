package main

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/dusk-indust/astgraph/internal/graph"
)

func runVerify(_ context.Context, args []string, stdout io.Writer) error {
	fs := newFlagSet("verify")
	dir := fs.String("dir", ".", "directory holding nodes.csv and edges.csv")
	if err := fs.Parse(args); err != nil {
		return err
	}

	t, err := graph.ReadTables(*dir)
	if err != nil {
		return err
	}
	sum := t.Summary()
	fmt.Fprintf(stdout, "%d nodes (ids %d-%d), %d edges, %d bare references\n",
		sum.Nodes, sum.FirstID, sum.LastID, sum.Edges, sum.BareRefs)
	for _, r := range graph.Relations() {
		fmt.Fprintf(stdout, "  %-16s %d\n", r, sum.ByRelation[r.String()])
	}

	kinds := make([]string, 0, len(sum.ByKind))
	for k := range sum.ByKind {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	for _, k := range kinds {
		fmt.Fprintf(stdout, "  %-16s %d\n", k, sum.ByKind[k])
	}

	violations := t.Verify()
	for _, v := range violations {
		fmt.Fprintf(stdout, "violation: %s\n", v)
	}
	if len(violations) > 0 {
		return fmt.Errorf("%d violations", len(violations))
	}
	return nil
}
