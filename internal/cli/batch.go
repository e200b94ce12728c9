package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/Colin-McGrath/generatepytest/internal/parser"
	"github.com/bmatcuk/doublestar/v4"
)

// RunBatch generates a test file for every module under root matching
// pattern. A failing module is reported and skipped; the run returns an
// error once all modules were attempted if any of them failed.
func (g *Generator) RunBatch(root, pattern string, asJSON bool) error {
	start := time.Now()

	userRules, err := LoadIgnoreRules(root)
	if err != nil {
		return err
	}
	files, err := g.Registry.Discover(root, pattern, userRules)
	if err != nil {
		if errors.Is(err, doublestar.ErrBadPattern) {
			return fmt.Errorf("%w: %v", ErrUsage, err)
		}
		return err
	}

	summary := RunSummary{
		Mode:     string(g.Mode),
		RootPath: root,
		Pattern:  pattern,
		Scanned:  len(files),
	}

	var issues []parser.ParseIssue
	progress := newBatchProgressReporter(len(files), asJSON)
	for _, rel := range files {
		source := filepath.Join(root, rel)
		result, err := g.GenerateFile(filepath.Dir(source), filepath.Base(source))
		if err != nil {
			summary.Fail(source)
			issues = append(issues, parser.ParseIssue{
				File:     source,
				Language: "python",
				Severity: "error",
				Message:  err.Error(),
			})
		} else {
			summary.Add(result)
		}
		progress.Update(source, summary.Generated, summary.Failed)
	}
	progress.Done()
	summary.DurationMS = time.Since(start).Milliseconds()

	if !asJSON {
		ReportParseIssues(os.Stderr, issues)
	}
	if err := PrintRunSummary(g.summaryWriter(asJSON), summary, asJSON); err != nil {
		return err
	}

	if summary.Failed > 0 {
		return fmt.Errorf("%d of %d files failed", summary.Failed, summary.Scanned)
	}
	return nil
}

// summaryWriter keeps rendered tests and diffs alone on stdout.
func (g *Generator) summaryWriter(asJSON bool) io.Writer {
	if asJSON || g.Mode == ModeWrite {
		return g.Out
	}
	return os.Stderr
}
