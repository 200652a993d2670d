package driver

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/dusk-indust/astgraph/internal/compdb"
	"github.com/dusk-indust/astgraph/internal/config"
	"github.com/dusk-indust/astgraph/internal/frontend/treesitter"
)

// sourceFile is one file for the tree-sitter front-end. Name is the unit
// path written to the tables.
type sourceFile struct {
	Path string
	Name string
	Lang treesitter.Language
}

// goPackages is a set of patterns loaded together by the Go front-end.
type goPackages struct {
	Dir      string
	Patterns []string
}

type plan struct {
	files    []sourceFile
	packages []goPackages
	skipped  []string
}

// resolve expands the inputs of a run into files and package patterns.
// Inputs are taken in order; a file reached twice is parsed once.
func resolve(opts Options) (*plan, error) {
	p := &plan{}
	seen := make(map[string]bool)
	allowed := make(map[treesitter.Language]bool, len(opts.Languages))
	for _, l := range opts.Languages {
		allowed[l] = true
	}
	accept := func(path, name string) {
		abs, err := filepath.Abs(path)
		if err != nil {
			abs = path
		}
		if seen[abs] {
			return
		}
		seen[abs] = true

		lang, ok := treesitter.DetectLanguage(path)
		if !ok {
			p.skipped = append(p.skipped, path)
			return
		}
		if len(allowed) > 0 && !allowed[lang] {
			p.skipped = append(p.skipped, path)
			return
		}
		if lang == treesitter.LangGo && !opts.IncludeTests && strings.HasSuffix(path, "_test.go") {
			return
		}
		p.files = append(p.files, sourceFile{Path: path, Name: name, Lang: lang})
	}

	if opts.CompileCommands != "" {
		entries, err := compdb.Load(opts.CompileCommands)
		if err != nil {
			return nil, err
		}
		for _, f := range compdb.Files(entries) {
			accept(f, f)
		}
	}

	semanticGo := opts.GoFrontend != config.GoFrontendTreeSitter &&
		(len(allowed) == 0 || allowed[treesitter.LangGo])

	for _, in := range opts.Inputs {
		info, err := os.Stat(in)
		switch {
		case err == nil && info.IsDir():
			if semanticGo && hasGoFiles(in) {
				p.packages = append(p.packages, goPackages{Dir: in, Patterns: []string{"./..."}})
			}
			if err := walk(in, opts.ExcludeDirs, semanticGo, accept); err != nil {
				return nil, err
			}
		case err == nil:
			if semanticGo && filepath.Ext(in) == ".go" {
				p.packages = append(p.packages, goPackages{Dir: filepath.Dir(in), Patterns: []string{"file=" + filepath.Base(in)}})
				continue
			}
			accept(in, in)
		case semanticGo && os.IsNotExist(err) && looksLikePattern(in):
			p.packages = append(p.packages, goPackages{Dir: ".", Patterns: []string{in}})
		default:
			return nil, fmt.Errorf("input %s: %w", in, err)
		}
	}
	return p, nil
}

// walk visits the source files under root. Unit names are relative to root.
func walk(root string, exclude []string, skipGo bool, accept func(path, name string)) error {
	excludeSet := make(map[string]bool, len(exclude))
	for _, d := range exclude {
		excludeSet[d] = true
	}

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // skip inaccessible paths
		}
		if d.IsDir() {
			name := d.Name()
			if path != root && (strings.HasPrefix(name, ".") || excludeSet[name]) {
				return filepath.SkipDir
			}
			return nil
		}
		if skipGo && filepath.Ext(path) == ".go" {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			rel = path
		}
		accept(path, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return fmt.Errorf("walk %s: %w", root, err)
	}
	return nil
}

func hasGoFiles(dir string) bool {
	found := false
	_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() && filepath.Ext(path) == ".go" {
			found = true
			return filepath.SkipAll
		}
		return nil
	})
	return found
}

// looksLikePattern accepts go list patterns such as ./... or
// example.com/mod/pkg. Paths of source files are never patterns.
func looksLikePattern(s string) bool {
	if _, ok := treesitter.DetectLanguage(s); ok {
		return false
	}
	return strings.Contains(s, "...") || (strings.Contains(s, "/") && !strings.Contains(s, `\`))
}
