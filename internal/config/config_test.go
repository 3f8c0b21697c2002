package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hashicorp/go-multierror"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "moshell.hcl")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_MissingFileGivesDefaults(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "absent.hcl"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.History.MaxLines != DefaultMaxLines || c.Prompt.Symbol != DefaultSymbol || c.Prompt.MaxPath != DefaultMaxPath {
		t.Fatalf("unexpected defaults: %+v %+v", c.History, c.Prompt)
	}
	if strings.HasPrefix(c.History.File, "~") {
		t.Fatalf("history path not expanded: %s", c.History.File)
	}
	if err := c.Validate(); err != nil {
		t.Fatalf("defaults invalid: %v", err)
	}
}

func TestLoad_FullFile(t *testing.T) {
	histPath := filepath.Join(t.TempDir(), "hist")
	path := writeConfig(t, `
required_version = ">= 0.1.0"

history {
  file      = "`+histPath+`"
  max_lines = 50
}

prompt {
  symbol     = "%"
  max_path   = 20
  path_color = "green"
}
`)
	c, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.History.File != histPath || c.History.MaxLines != 50 {
		t.Fatalf("history block: %+v", c.History)
	}
	if c.Prompt.Symbol != "%" || c.Prompt.MaxPath != 20 || c.Prompt.PathColor != "green" {
		t.Fatalf("prompt block: %+v", c.Prompt)
	}
	if err := c.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	c, err := Load(writeConfig(t, "history {\n  max_lines = 10\n}\n"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.History.MaxLines != 10 || c.Prompt.Symbol != DefaultSymbol {
		t.Fatalf("got %+v %+v", c.History, c.Prompt)
	}
}

func TestLoad_SyntaxError(t *testing.T) {
	if _, err := Load(writeConfig(t, "history {\n")); err == nil {
		t.Fatalf("expected a parse error")
	}
}

func TestLoad_UnknownAttribute(t *testing.T) {
	if _, err := Load(writeConfig(t, "colour = \"blue\"\n")); err == nil {
		t.Fatalf("expected a decode error")
	}
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	c := Default()
	c.History.MaxLines = -1
	c.Prompt.PathColor = "mauve"
	c.RequiredVersion = ">= 99.0"

	err := c.Validate()
	merr, ok := err.(*multierror.Error)
	if !ok {
		t.Fatalf("expected *multierror.Error, got %T (%v)", err, err)
	}
	if len(merr.Errors) != 3 {
		t.Fatalf("expected 3 errors, got %d: %v", len(merr.Errors), merr)
	}
}

func TestCheckRequiredVersion(t *testing.T) {
	tests := []struct {
		constraint string
		ok         bool
	}{
		{"", true},
		{">= 0.1.0", true},
		{"~> 0.1", true},
		{">= 1.0", false},
		{"not a version", false},
	}
	for _, tt := range tests {
		err := CheckRequiredVersion(tt.constraint)
		if (err == nil) != tt.ok {
			t.Fatalf("CheckRequiredVersion(%q) = %v", tt.constraint, err)
		}
	}
}
