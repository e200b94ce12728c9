package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
)

// batchProgressReporter draws a progress bar on stderr during --glob runs.
// It stays silent when stderr is not a terminal or JSON output was requested.
type batchProgressReporter struct {
	enabled bool
	bar     *progressbar.ProgressBar
}

func newBatchProgressReporter(total int, asJSON bool) *batchProgressReporter {
	stat, err := os.Stderr.Stat()
	enabled := err == nil && (stat.Mode()&os.ModeCharDevice) != 0 && !asJSON && total > 0
	r := &batchProgressReporter{enabled: enabled}
	if !enabled {
		return r
	}

	r.bar = progressbar.NewOptions(total,
		progressbar.OptionSetDescription(describeProgress("", 0, 0)),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        color.CyanString("█"),
			SaucerHead:    color.CyanString("█"),
			SaucerPadding: "░",
			BarStart:      "│",
			BarEnd:        "│",
		}),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(os.Stderr, "\n")
		}),
		progressbar.OptionSetRenderBlankState(true),
	)
	return r
}

func (r *batchProgressReporter) Update(file string, generated, failed int) {
	if !r.enabled {
		return
	}
	_ = r.bar.Set(generated + failed)
	r.bar.Describe(describeProgress(file, generated, failed))
}

func (r *batchProgressReporter) Done() {
	if !r.enabled {
		return
	}
	_ = r.bar.Finish()
}

func describeProgress(file string, generated, failed int) string {
	label := color.CyanString("Generating ")
	if file != "" {
		label = color.CyanString("Generating %s ", filepath.Base(file))
	}
	return label +
		color.GreenString("[ok: %d", generated) +
		" | " +
		color.RedString("failed: %d]", failed)
}
