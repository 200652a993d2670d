package golang

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/tools/go/packages"
)

// LoadConfig controls how packages are located and type-checked.
type LoadConfig struct {
	// Dir is the directory patterns are resolved in. File names are
	// reported relative to it.
	Dir       string
	Tests     bool
	BuildTags []string
	Logger    *slog.Logger
}

const loadMode = packages.NeedName | packages.NeedFiles | packages.NeedCompiledGoFiles |
	packages.NeedSyntax | packages.NeedTypes | packages.NeedTypesInfo |
	packages.NeedTypesSizes | packages.NeedImports

// Load type-checks the packages matching patterns and returns one unit per
// package, in the order go/packages reports them. Packages with errors are
// still returned; their errors are logged and attached to the unit.
func Load(ctx context.Context, cfg LoadConfig, patterns ...string) ([]*Unit, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	dir := cfg.Dir
	if dir == "" {
		dir = "."
	}
	dir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("load packages: %w", err)
	}

	pcfg := &packages.Config{
		Context: ctx,
		Mode:    loadMode,
		Dir:     dir,
		Tests:   cfg.Tests,
		Env:     os.Environ(),
	}
	if len(cfg.BuildTags) > 0 {
		pcfg.BuildFlags = []string{"-tags=" + strings.Join(cfg.BuildTags, ",")}
	}

	pkgs, err := packages.Load(pcfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("load packages: %w", err)
	}

	units := make([]*Unit, 0, len(pkgs))
	for _, p := range pkgs {
		var errs []error
		for _, pe := range p.Errors {
			logger.Warn("package error", "pkg", p.ID, "err", pe.Error())
			errs = append(errs, pe)
		}
		if p.Types == nil || p.TypesInfo == nil || len(p.Syntax) == 0 {
			logger.Warn("skipping package without syntax", "pkg", p.ID)
			continue
		}
		units = append(units, NewUnit(p.Fset, p.Types, p.TypesInfo, p.Syntax,
			WithName(p.ID),
			WithBaseDir(dir),
			WithErrors(errs...),
		))
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return units, nil
}
