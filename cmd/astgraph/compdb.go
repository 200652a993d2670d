package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/dusk-indust/astgraph/internal/compdb"
)

// runCompdbUniq keeps the first compile command of every file.
func runCompdbUniq(_ context.Context, args []string, stdout io.Writer) error {
	fs := newFlagSet("compdb-uniq")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 2 {
		return errors.New("usage: astgraph compdb-uniq in.json out.json")
	}

	entries, err := compdb.Load(fs.Arg(0))
	if err != nil {
		return err
	}
	uniq := compdb.Unique(entries)
	if err := compdb.Write(fs.Arg(1), uniq); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "kept %d of %d entries\n", len(uniq), len(entries))
	return nil
}
