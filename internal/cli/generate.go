package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/Colin-McGrath/generatepytest/internal/config"
	"github.com/Colin-McGrath/generatepytest/internal/languages"
	"github.com/Colin-McGrath/generatepytest/internal/loader"
	"github.com/Colin-McGrath/generatepytest/internal/parser"
	"github.com/Colin-McGrath/generatepytest/internal/reflector"
	"github.com/Colin-McGrath/generatepytest/internal/skeleton"
	"github.com/akedrou/textdiff"
	"github.com/spf13/cobra"
)

func RunGenerate(cmd *cobra.Command, args []string) error {
	if noArguments(cmd, args) {
		PrintUsage(cmd.OutOrStdout())
		return nil
	}

	workingDir, err := resolveWorkingDirectory()
	if err != nil {
		return err
	}
	cfg, err := config.Load(workingDir)
	if err != nil {
		return err
	}

	opts, err := parseGenerateOptions(cmd, cfg)
	if err != nil {
		return err
	}

	g := NewGenerator(opts.Config, opts.Mode, cmd.OutOrStdout())
	if opts.Glob != "" {
		return g.RunBatch(opts.Path, opts.Glob, opts.JSON)
	}

	_, err = g.GenerateFile(opts.Path, opts.Filename)
	return err
}

// Generator runs the load, inspect, render and write pipeline. One Generator
// shares a single loader runtime across every file it processes.
type Generator struct {
	Runtime  *loader.Runtime
	Registry *parser.Registry
	Emitter  *skeleton.Emitter
	Config   config.Config
	Mode     Mode
	Out      io.Writer
}

func NewGenerator(cfg config.Config, mode Mode, out io.Writer) *Generator {
	return &Generator{
		Runtime:  loader.NewRuntime(),
		Registry: languages.NewDefaultRegistry(),
		Emitter:  skeleton.NewEmitter(skeleton.Options{Alias: cfg.Alias, Indent: cfg.Indent}),
		Config:   cfg,
		Mode:     mode,
		Out:      out,
	}
}

// GenerateFile produces the skeleton for dir/filename. The module is unloaded
// before returning, whether or not generation succeeded.
func (g *Generator) GenerateFile(dir, filename string) (FileResult, error) {
	result := FileResult{
		Source:   filepath.Join(dir, filename),
		TestFile: skeleton.TestFilePath(dir, filename),
	}

	session, err := loader.Load(g.Runtime, dir, filename, loader.Options{
		Registry:     g.Registry,
		CreateMarker: g.Config.CreateMarker && g.Mode == ModeWrite,
	})
	if err != nil {
		return result, err
	}
	defer session.Close()
	result.CreatedMarker = session.CreatedMarker

	inv := reflector.Inspect(session.Module)
	result.Functions = len(inv.Functions)
	result.Classes = len(inv.Classes)
	result.Methods = inv.MethodCount()

	content, err := g.Emitter.Render(inv)
	if err != nil {
		return result, fmt.Errorf("failed to render %s: %w", result.TestFile, err)
	}

	switch g.Mode {
	case ModeDryRun:
		if _, err := g.Out.Write(content); err != nil {
			return result, fmt.Errorf("failed to print %s: %w", result.TestFile, err)
		}
	case ModeDiff:
		diff, err := diffAgainstExisting(result.TestFile, content)
		if err != nil {
			return result, err
		}
		result.Changed = diff != ""
		if _, err := io.WriteString(g.Out, diff); err != nil {
			return result, fmt.Errorf("failed to print diff for %s: %w", result.TestFile, err)
		}
	default:
		_, changed, err := skeleton.Write(dir, filename, content)
		if err != nil {
			return result, err
		}
		result.Changed = changed
	}

	return result, nil
}

func diffAgainstExisting(path string, content []byte) (string, error) {
	existing, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return textdiff.Unified(path+" (current)", path+" (generated)", string(existing), string(content)), nil
}
