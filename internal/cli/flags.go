package cli

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/Colin-McGrath/generatepytest/internal/config"
	"github.com/spf13/cobra"
)

// ErrUsage marks errors caused by how the command was invoked.
var ErrUsage = errors.New("usage error")

// Mode selects what happens with a rendered test file.
type Mode string

const (
	ModeWrite  Mode = "generate"
	ModeDryRun Mode = "dry-run"
	ModeDiff   Mode = "diff"
)

type generateOptions struct {
	Path     string
	Filename string
	Glob     string
	Mode     Mode
	JSON     bool
	Config   config.Config
}

func OptionalStringFlag(cmd *cobra.Command, name string) (string, error) {
	if cmd == nil || cmd.Flags().Lookup(name) == nil {
		return "", nil
	}
	value, err := cmd.Flags().GetString(name)
	if err != nil {
		return "", fmt.Errorf("failed to read --%s flag: %w", name, err)
	}
	return strings.TrimSpace(value), nil
}

func OptionalBoolFlag(cmd *cobra.Command, name string, fallback bool) (bool, error) {
	if cmd == nil || cmd.Flags().Lookup(name) == nil {
		return fallback, nil
	}
	value, err := cmd.Flags().GetBool(name)
	if err != nil {
		return fallback, fmt.Errorf("failed to read --%s flag: %w", name, err)
	}
	return value, nil
}

// noArguments reports whether the command was run bare, which prints usage.
func noArguments(cmd *cobra.Command, args []string) bool {
	return len(args) == 0 && cmd.Flags().NFlag() == 0
}

func parseGenerateOptions(cmd *cobra.Command, cfg config.Config) (generateOptions, error) {
	opts := generateOptions{Mode: ModeWrite, Config: cfg}

	var err error
	if opts.Path, err = OptionalStringFlag(cmd, "path"); err != nil {
		return opts, err
	}
	if opts.Filename, err = OptionalStringFlag(cmd, "filename"); err != nil {
		return opts, err
	}
	if opts.Glob, err = OptionalStringFlag(cmd, "glob"); err != nil {
		return opts, err
	}

	dryRun, err := OptionalBoolFlag(cmd, "dry-run", false)
	if err != nil {
		return opts, err
	}
	diff, err := OptionalBoolFlag(cmd, "diff", false)
	if err != nil {
		return opts, err
	}
	switch {
	case dryRun && diff:
		return opts, fmt.Errorf("%w: --dry-run and --diff cannot be combined", ErrUsage)
	case dryRun:
		opts.Mode = ModeDryRun
	case diff:
		opts.Mode = ModeDiff
	}

	if opts.JSON, err = OptionalBoolFlag(cmd, "json", false); err != nil {
		return opts, err
	}
	if opts.JSON && opts.Glob == "" {
		return opts, fmt.Errorf("%w: --json requires --glob", ErrUsage)
	}
	if opts.JSON && opts.Mode != ModeWrite {
		return opts, fmt.Errorf("%w: --json cannot be combined with --%s", ErrUsage, opts.Mode)
	}

	noMarker, err := OptionalBoolFlag(cmd, "no-marker", false)
	if err != nil {
		return opts, err
	}
	if noMarker {
		opts.Config.CreateMarker = false
	}
	alias, err := OptionalStringFlag(cmd, "alias")
	if err != nil {
		return opts, err
	}
	if alias != "" {
		opts.Config.Alias = alias
	}
	indent, err := OptionalStringFlag(cmd, "indent")
	if err != nil {
		return opts, err
	}
	if indent != "" {
		if opts.Config.Indent, err = config.ParseIndent(indent); err != nil {
			return opts, fmt.Errorf("%w: --indent: %v", ErrUsage, err)
		}
	}
	if err := opts.Config.Validate(); err != nil {
		return opts, fmt.Errorf("%w: %v", ErrUsage, err)
	}

	if opts.Path == "" {
		return opts, fmt.Errorf("%w: --path is required", ErrUsage)
	}
	if opts.Glob != "" {
		if opts.Filename != "" {
			return opts, fmt.Errorf("%w: --filename and --glob cannot be combined", ErrUsage)
		}
		return opts, nil
	}
	if opts.Filename == "" {
		return opts, fmt.Errorf("%w: --filename is required", ErrUsage)
	}
	if filepath.Base(opts.Filename) != opts.Filename {
		return opts, fmt.Errorf("%w: --filename must name a file directly inside --path, got %q", ErrUsage, opts.Filename)
	}
	return opts, nil
}
