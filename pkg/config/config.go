// Package config loads the optional project file that sets CLI defaults.
//
// The file is `.streamtmpl.yaml` (or `.yml`) or `.streamtmpl.hcl`, looked up in
// the working directory. A missing file is not an error.
package config

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/zclconf/go-cty/cty"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"
)

// FileNames are tried in order.
var FileNames = []string{".streamtmpl.yaml", ".streamtmpl.yml", ".streamtmpl.hcl"}

type Config struct {
	// MaxDepth overrides the default conditional nesting limit.
	MaxDepth int `yaml:"max_depth,omitempty" hcl:"max_depth,optional"`
	// Context is the default render context file, relative to the config file.
	Context string `yaml:"context,omitempty" hcl:"context,optional"`

	Lint *LintBlock `yaml:"lint,omitempty" hcl:"lint,block"`
}

type LintBlock struct {
	// Patterns are doublestar globs used when lint gets no arguments.
	Patterns []string `yaml:"patterns,omitempty" hcl:"patterns,optional"`
	Format   string   `yaml:"format,omitempty" hcl:"format,optional"`
}

// Find loads the first config file present in dir. It returns an empty Config
// and an empty path when there is none.
func Find(ctx context.Context, fs afero.Fs, dir string) (*Config, string, error) {
	for _, name := range FileNames {
		path := filepath.Join(dir, name)
		ok, err := afero.Exists(fs, path)
		if err != nil {
			return nil, "", errors.Errorf("checking %s: %w", path, err)
		}
		if !ok {
			continue
		}
		cfg, err := Load(fs, path)
		if err != nil {
			return nil, "", err
		}
		zerolog.Ctx(ctx).Debug().Str("path", path).Msg("loaded config")
		return cfg, path, nil
	}
	return &Config{}, "", nil
}

// Load reads a config file. YAML is used for .yaml and .yml, HCL otherwise.
func Load(fs afero.Fs, path string) (*Config, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		decoder := yaml.NewDecoder(bytes.NewReader(data))
		decoder.KnownFields(true)
		if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, errors.Errorf("parsing YAML: %w", err)
		}
	} else {
		parser := hclparse.NewParser()
		file, diags := parser.ParseHCL(data, path)
		if diags.HasErrors() {
			return nil, errors.Errorf("parsing HCL: %s", diags.Error())
		}
		evalCtx := &hcl.EvalContext{Variables: map[string]cty.Value{}}
		if diags := gohcl.DecodeBody(file.Body, evalCtx, &cfg); diags.HasErrors() {
			return nil, errors.Errorf("decoding HCL: %s", diags.Error())
		}
	}

	if cfg.MaxDepth < 0 {
		return nil, errors.Errorf("max_depth must not be negative, got %d", cfg.MaxDepth)
	}
	if cfg.Lint != nil {
		for _, pattern := range cfg.Lint.Patterns {
			if !doublestar.ValidatePattern(pattern) {
				return nil, errors.Errorf("invalid lint pattern %q", pattern)
			}
		}
	}

	return &cfg, nil
}

// ContextPath resolves Context against the directory of the config file.
func (c *Config) ContextPath(configPath string) string {
	if c.Context == "" || filepath.IsAbs(c.Context) || configPath == "" {
		return c.Context
	}
	return filepath.Join(filepath.Dir(configPath), c.Context)
}
