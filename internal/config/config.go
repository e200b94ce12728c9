// Package config resolves generator settings from defaults and an optional
// .generatepytest.env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// FileName is the optional settings file looked up in the working directory.
const FileName = ".generatepytest.env"

const (
	keyAlias        = "GENERATEPYTEST_ALIAS"
	keyIndent       = "GENERATEPYTEST_INDENT"
	keyCreateMarker = "GENERATEPYTEST_CREATE_MARKER"
)

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Config holds the settings that shape a generation run.
type Config struct {
	Alias        string // import alias of the module under test
	Indent       string // one indentation level in generated code
	CreateMarker bool   // write __init__.py when the target directory lacks one
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Alias:        "totest",
		Indent:       "\t",
		CreateMarker: true,
	}
}

// Load returns the defaults overlaid with dir/.generatepytest.env when that
// file exists.
func Load(dir string) (Config, error) {
	cfg := Default()

	path := filepath.Join(dir, FileName)
	values, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read %s: %w", path, err)
	}

	if err := cfg.apply(values); err != nil {
		return cfg, fmt.Errorf("invalid %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) apply(values map[string]string) error {
	if raw, ok := values[keyAlias]; ok {
		c.Alias = strings.TrimSpace(raw)
	}
	if raw, ok := values[keyIndent]; ok {
		indent, err := ParseIndent(raw)
		if err != nil {
			return fmt.Errorf("%s: %w", keyIndent, err)
		}
		c.Indent = indent
	}
	if raw, ok := values[keyCreateMarker]; ok {
		create, err := strconv.ParseBool(strings.TrimSpace(raw))
		if err != nil {
			return fmt.Errorf("%s: expected a boolean, got %q", keyCreateMarker, raw)
		}
		c.CreateMarker = create
	}
	return c.Validate()
}

// Validate checks that the settings produce importable Python.
func (c Config) Validate() error {
	if !identifierPattern.MatchString(c.Alias) {
		return fmt.Errorf("alias %q is not a valid Python identifier", c.Alias)
	}
	if c.Indent == "" || strings.Trim(c.Indent, " \t") != "" {
		return fmt.Errorf("indent must be tabs or spaces, got %q", c.Indent)
	}
	return nil
}

// ParseIndent accepts "tab" or a positive number of spaces.
func ParseIndent(raw string) (string, error) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == "tab" || raw == "\\t" {
		return "\t", nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 || n > 16 {
		return "", fmt.Errorf("expected \"tab\" or a number of spaces between 1 and 16, got %q", raw)
	}
	return strings.Repeat(" ", n), nil
}
