package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// Go front-end selections.
const (
	GoFrontendTypes      = "types"
	GoFrontendTreeSitter = "treesitter"
)

// FileNames are the config file names Load looks for, in order.
var FileNames = []string{"astgraph.yml", "astgraph.yaml"}

// ProjectConfig holds project-level settings loaded from astgraph.yml.
type ProjectConfig struct {
	OutputDir       string   `yaml:"outputDir,omitempty"`
	Languages       []string `yaml:"languages,omitempty"`
	ExcludeDirs     []string `yaml:"excludeDirs,omitempty"`
	IncludeTests    bool     `yaml:"includeTests,omitempty"`
	GoFrontend      string   `yaml:"goFrontend,omitempty"`
	Jobs            int      `yaml:"jobs,omitempty"`
	CompileCommands string   `yaml:"compileCommands,omitempty"`
	BuildTags       []string `yaml:"buildTags,omitempty"`
	Verbose         bool     `yaml:"verbose,omitempty"`
}

// Load attempts to read astgraph.yml or astgraph.yaml from the given
// directory. Returns a zero-value config (not an error) if no config file
// exists.
func Load(dir string) (*ProjectConfig, error) {
	for _, name := range FileNames {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		var cfg ProjectConfig
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("config: %s: %w", name, err)
		}
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("config: %s: %w", name, err)
		}
		return &cfg, nil
	}
	return &ProjectConfig{}, nil
}

// Validate rejects values no run could use.
func (c *ProjectConfig) Validate() error {
	switch c.GoFrontend {
	case "", GoFrontendTypes, GoFrontendTreeSitter:
	default:
		return fmt.Errorf("goFrontend must be %q or %q, got %q", GoFrontendTypes, GoFrontendTreeSitter, c.GoFrontend)
	}
	if c.Jobs < 0 {
		return fmt.Errorf("jobs must not be negative, got %d", c.Jobs)
	}
	return nil
}

// WithDefaults returns a copy with unset fields filled in.
func (c ProjectConfig) WithDefaults() ProjectConfig {
	if c.OutputDir == "" {
		c.OutputDir = "."
	}
	if c.GoFrontend == "" {
		c.GoFrontend = GoFrontendTypes
	}
	if c.Jobs == 0 {
		c.Jobs = runtime.NumCPU()
	}
	return c
}

// Save writes c to astgraph.yml in dir.
func (c ProjectConfig) Save(dir string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("config: marshal: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, FileNames[0]), data, 0o644); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}
