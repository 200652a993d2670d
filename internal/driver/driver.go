// Package driver runs an export: it resolves inputs into translation units,
// builds them with the matching front-end and writes them through one
// graph session.
package driver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/dusk-indust/astgraph/internal/config"
	"github.com/dusk-indust/astgraph/internal/frontend"
	"github.com/dusk-indust/astgraph/internal/frontend/golang"
	"github.com/dusk-indust/astgraph/internal/frontend/treesitter"
	"github.com/dusk-indust/astgraph/internal/graph"
)

// Options configures a run.
type Options struct {
	// OutputDir receives nodes.csv, edges.csv and the identity side-car.
	OutputDir string

	// Inputs are files, directories or Go package patterns.
	Inputs []string

	// CompileCommands names a compilation database, or the build directory
	// holding one. Its files are exported before Inputs.
	CompileCommands string

	// Languages restricts the tree-sitter grammars used. Empty means all.
	Languages []treesitter.Language

	ExcludeDirs  []string
	IncludeTests bool
	BuildTags    []string

	// GoFrontend selects how Go sources are read: config.GoFrontendTypes
	// (type-checked packages, the default) or config.GoFrontendTreeSitter.
	GoFrontend string

	// Jobs bounds concurrent parsing. Zero means runtime.NumCPU().
	Jobs int

	Logger *slog.Logger

	// OnProgress is called for every progress event. Calls may come from
	// several goroutines at once. It may be nil.
	OnProgress func(ProgressEvent)
}

// FromConfig builds Options from a project config and the inputs of a run.
func FromConfig(cfg config.ProjectConfig, inputs []string) (Options, error) {
	cfg = cfg.WithDefaults()
	opts := Options{
		OutputDir:       cfg.OutputDir,
		Inputs:          inputs,
		CompileCommands: cfg.CompileCommands,
		ExcludeDirs:     cfg.ExcludeDirs,
		IncludeTests:    cfg.IncludeTests,
		BuildTags:       cfg.BuildTags,
		GoFrontend:      cfg.GoFrontend,
		Jobs:            cfg.Jobs,
	}
	for _, name := range cfg.Languages {
		lang, err := treesitter.ParseLanguage(name)
		if err != nil {
			return Options{}, err
		}
		opts.Languages = append(opts.Languages, lang)
	}
	return opts, nil
}

// Report summarizes a run.
type Report struct {
	OutputDir string            `json:"outputDir"`
	Units     []graph.UnitStats `json:"units"`
	Skipped   []string          `json:"skipped,omitempty"`
	Session   graph.Stats       `json:"session"`
}

// Run exports every unit the options name. Tree-sitter files are parsed
// concurrently; units are exported one at a time in input order, tree-sitter
// files first and Go packages after them.
func Run(ctx context.Context, opts Options) (report *Report, err error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if opts.OutputDir == "" {
		opts.OutputDir = "."
	}

	p, err := resolve(opts)
	if err != nil {
		return nil, err
	}
	for _, s := range p.skipped {
		logger.Debug("skipping file without grammar", "path", s)
	}
	if len(p.files) == 0 && len(p.packages) == 0 {
		return nil, errors.New("no input files")
	}

	parsed, err := parseAll(ctx, p.files, opts, logger)
	if err != nil {
		return nil, err
	}
	loaded, err := loadAll(ctx, p.packages, opts, logger)
	if err != nil {
		return nil, err
	}

	s, err := graph.Open(opts.OutputDir, graph.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := s.Close(); cerr != nil {
			err = errors.Join(err, cerr)
		}
	}()

	report = &Report{OutputDir: opts.OutputDir, Skipped: p.skipped}
	units := make([]frontend.Unit, 0, len(parsed)+len(loaded))
	for _, u := range parsed {
		units = append(units, u)
	}
	for _, u := range loaded {
		units = append(units, u)
	}

	for _, u := range units {
		emit(opts, ProgressEvent{Phase: PhaseExport, Unit: u.Path(), Status: ProgressWorking})
		st, err := s.Export(ctx, u)
		if err != nil {
			emit(opts, ProgressEvent{Phase: PhaseExport, Unit: u.Path(), Status: ProgressFailed, Message: err.Error()})
			return report, err
		}
		report.Units = append(report.Units, st)
		emit(opts, ProgressEvent{
			Phase:   PhaseExport,
			Unit:    u.Path(),
			Status:  ProgressComplete,
			Message: strconv.Itoa(st.Nodes) + " nodes",
		})
	}
	report.Session = s.Stats()

	logger.Info("export complete",
		"dir", opts.OutputDir,
		"units", report.Session.Units,
		"nodes", report.Session.Nodes,
		"edges", report.Session.Edges,
	)
	return report, nil
}

// parseAll parses files concurrently and returns the units in file order.
// The first failure cancels the remaining parses.
func parseAll(ctx context.Context, files []sourceFile, opts Options, logger *slog.Logger) ([]*treesitter.Unit, error) {
	if len(files) == 0 {
		return nil, nil
	}
	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}

	parser := treesitter.NewParser()
	defer parser.Close()

	units := make([]*treesitter.Unit, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)

	for i, f := range files {
		emit(opts, ProgressEvent{Phase: PhaseParse, Unit: f.Name, Status: ProgressPending})
		g.Go(func() error {
			emit(opts, ProgressEvent{Phase: PhaseParse, Unit: f.Name, Status: ProgressWorking})
			u, err := parseFile(gctx, parser, f)
			if err != nil {
				emit(opts, ProgressEvent{Phase: PhaseParse, Unit: f.Name, Status: ProgressFailed, Message: err.Error()})
				return err
			}
			if n := u.SyntaxErrors(); n > 0 {
				logger.Warn("syntax errors", "unit", f.Name, "errors", n)
			}
			units[i] = u
			emit(opts, ProgressEvent{Phase: PhaseParse, Unit: f.Name, Status: ProgressComplete})
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return units, nil
}

func parseFile(ctx context.Context, parser *treesitter.Parser, f sourceFile) (*treesitter.Unit, error) {
	src, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", f.Name, err)
	}
	u, err := parser.Parse(ctx, f.Name, src, f.Lang)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", f.Name, err)
	}
	return u, nil
}

func loadAll(ctx context.Context, groups []goPackages, opts Options, logger *slog.Logger) ([]*golang.Unit, error) {
	var units []*golang.Unit
	for _, grp := range groups {
		emit(opts, ProgressEvent{Phase: PhaseLoad, Unit: grp.Dir, Status: ProgressWorking})
		us, err := golang.Load(ctx, golang.LoadConfig{
			Dir:       grp.Dir,
			Tests:     opts.IncludeTests,
			BuildTags: opts.BuildTags,
			Logger:    logger,
		}, grp.Patterns...)
		if err != nil {
			emit(opts, ProgressEvent{Phase: PhaseLoad, Unit: grp.Dir, Status: ProgressFailed, Message: err.Error()})
			return nil, err
		}
		emit(opts, ProgressEvent{
			Phase:   PhaseLoad,
			Unit:    grp.Dir,
			Status:  ProgressComplete,
			Message: strconv.Itoa(len(us)) + " packages",
		})
		units = append(units, us...)
	}
	return units, nil
}

// emit sends a progress event if a callback is registered.
func emit(opts Options, ev ProgressEvent) {
	if opts.OnProgress != nil {
		opts.OnProgress(ev)
	}
}
