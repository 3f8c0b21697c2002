// Package config loads the shell's optional HCL configuration file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/hashicorp/go-multierror"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/mitchellh/go-homedir"
)

const (
	DefaultPath        = "~/.moshell.hcl"
	DefaultHistoryFile = "~/.moshell_history"
	DefaultMaxLines    = 300
	DefaultSymbol      = "$"
	DefaultMaxPath     = 30
	DefaultPathColor   = "blue"
)

var pathColors = map[string]color.Attribute{
	"black":   color.FgBlack,
	"red":     color.FgRed,
	"green":   color.FgGreen,
	"yellow":  color.FgYellow,
	"blue":    color.FgBlue,
	"magenta": color.FgMagenta,
	"cyan":    color.FgCyan,
	"white":   color.FgWhite,
}

type Config struct {
	RequiredVersion string   `hcl:"required_version,optional"`
	History         *History `hcl:"history,block"`
	Prompt          *Prompt  `hcl:"prompt,block"`
}

type History struct {
	File     string `hcl:"file,optional"`
	MaxLines int    `hcl:"max_lines,optional"`
}

type Prompt struct {
	Symbol    string `hcl:"symbol,optional"`
	MaxPath   int    `hcl:"max_path,optional"`
	PathColor string `hcl:"path_color,optional"`
}

// Default is the configuration used when no file exists.
func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	// an unresolvable home directory keeps the literal path
	_ = c.expandPaths()
	return c
}

// Load reads the file at path. A missing file yields Default. The returned
// config has defaults filled in and "~" expanded, but is not validated.
func Load(path string) (*Config, error) {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return nil, fmt.Errorf("config path: %w", err)
	}
	if _, err := os.Stat(expanded); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return nil, fmt.Errorf("config: %w", err)
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(expanded)
	if diags.HasErrors() {
		return nil, diags
	}
	var c Config
	if diags := gohcl.DecodeBody(file.Body, nil, &c); diags.HasErrors() {
		return nil, diags
	}
	c.applyDefaults()
	if err := c.expandPaths(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) applyDefaults() {
	if c.History == nil {
		c.History = &History{}
	}
	if c.History.File == "" {
		c.History.File = DefaultHistoryFile
	}
	if c.History.MaxLines == 0 {
		c.History.MaxLines = DefaultMaxLines
	}
	if c.Prompt == nil {
		c.Prompt = &Prompt{}
	}
	if c.Prompt.Symbol == "" {
		c.Prompt.Symbol = DefaultSymbol
	}
	if c.Prompt.MaxPath == 0 {
		c.Prompt.MaxPath = DefaultMaxPath
	}
	if c.Prompt.PathColor == "" {
		c.Prompt.PathColor = DefaultPathColor
	}
}

func (c *Config) expandPaths() error {
	f, err := homedir.Expand(c.History.File)
	if err != nil {
		return fmt.Errorf("history file: %w", err)
	}
	c.History.File = f
	return nil
}

// Validate reports every problem with c at once.
func (c *Config) Validate() error {
	var result *multierror.Error
	if strings.TrimSpace(c.History.File) == "" {
		result = multierror.Append(result, errors.New("history.file must not be empty"))
	}
	if c.History.MaxLines < 0 {
		result = multierror.Append(result, fmt.Errorf("history.max_lines must be positive, got %d", c.History.MaxLines))
	}
	if c.Prompt.MaxPath < 0 {
		result = multierror.Append(result, fmt.Errorf("prompt.max_path must be positive, got %d", c.Prompt.MaxPath))
	}
	if _, ok := pathColors[c.Prompt.PathColor]; !ok {
		result = multierror.Append(result, fmt.Errorf("prompt.path_color: unknown color %q", c.Prompt.PathColor))
	}
	if err := CheckRequiredVersion(c.RequiredVersion); err != nil {
		result = multierror.Append(result, err)
	}
	return result.ErrorOrNil()
}

// PathStyle is the style of the working directory in the prompt.
func (c *Config) PathStyle() *color.Color {
	attr, ok := pathColors[c.Prompt.PathColor]
	if !ok {
		attr = color.FgBlue
	}
	return color.New(color.Bold, attr)
}
