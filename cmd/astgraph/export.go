package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/dusk-indust/astgraph/internal/config"
	"github.com/dusk-indust/astgraph/internal/driver"
)

// exportFlags are the flags of the export command. Flags given on the
// command line override astgraph.yml.
type exportFlags struct {
	ConfigDir       string
	OutputDir       string
	CompileCommands string
	Languages       listFlag
	ExcludeDirs     listFlag
	BuildTags       listFlag
	GoFrontend      string
	IncludeTests    bool
	Jobs            int
	Verbose         bool
	JSON            bool
}

func runExport(ctx context.Context, args []string, stdout io.Writer) error {
	var flags exportFlags

	fs := newFlagSet("export")
	fs.StringVar(&flags.ConfigDir, "config", ".", "directory holding astgraph.yml")
	fs.StringVar(&flags.OutputDir, "o", "", "output directory for nodes.csv and edges.csv")
	fs.StringVar(&flags.CompileCommands, "p", "", "build directory holding compile_commands.json, or the file itself")
	fs.Var(&flags.Languages, "lang", "comma-separated languages to export (default: all)")
	fs.Var(&flags.ExcludeDirs, "exclude", "comma-separated directory names to skip")
	fs.Var(&flags.BuildTags, "tags", "comma-separated Go build tags")
	fs.StringVar(&flags.GoFrontend, "go-frontend", "", `Go front-end: "types" or "treesitter"`)
	fs.BoolVar(&flags.IncludeTests, "tests", false, "also export Go test files")
	fs.IntVar(&flags.Jobs, "j", 0, "concurrent parses (default: number of CPUs)")
	fs.BoolVar(&flags.Verbose, "verbose", false, "enable verbose output")
	fs.BoolVar(&flags.JSON, "json", false, "print the report as JSON")

	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(flags.ConfigDir)
	if err != nil {
		return err
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "o":
			cfg.OutputDir = flags.OutputDir
		case "p":
			cfg.CompileCommands = flags.CompileCommands
		case "lang":
			cfg.Languages = flags.Languages
		case "exclude":
			cfg.ExcludeDirs = flags.ExcludeDirs
		case "tags":
			cfg.BuildTags = flags.BuildTags
		case "go-frontend":
			cfg.GoFrontend = flags.GoFrontend
		case "tests":
			cfg.IncludeTests = flags.IncludeTests
		case "j":
			cfg.Jobs = flags.Jobs
		case "verbose":
			cfg.Verbose = flags.Verbose
		}
	})
	if err := cfg.Validate(); err != nil {
		return err
	}

	opts, err := driver.FromConfig(*cfg, fs.Args())
	if err != nil {
		return err
	}
	opts.Logger = newLogger(cfg.Verbose)
	if cfg.Verbose {
		opts.OnProgress = func(ev driver.ProgressEvent) {
			fmt.Fprintln(os.Stderr, driver.FormatProgress(ev))
		}
	}

	report, err := driver.Run(ctx, opts)
	if err != nil {
		return err
	}

	if flags.JSON {
		out, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal JSON: %w", err)
		}
		_, err = stdout.Write(append(out, '\n'))
		return err
	}

	st := report.Session
	fmt.Fprintf(stdout, "exported %d units to %s: %d nodes (ids %d-%d), %d edges, %d bare references\n",
		st.Units, report.OutputDir, st.Nodes, st.FirstID, st.LastID, st.Edges, st.BareRefs)
	return nil
}
