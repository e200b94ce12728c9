package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// FileResult describes the outcome of generating one test file.
type FileResult struct {
	Source        string `json:"source"`
	TestFile      string `json:"test_file"`
	Functions     int    `json:"functions"`
	Classes       int    `json:"classes"`
	Methods       int    `json:"methods"`
	CreatedMarker bool   `json:"created_marker,omitempty"`
	Changed       bool   `json:"changed"`
}

type RunSummary struct {
	Mode           string       `json:"mode"`
	RootPath       string       `json:"root_path"`
	Pattern        string       `json:"pattern,omitempty"`
	Scanned        int          `json:"scanned"`
	Generated      int          `json:"generated"`
	Rewritten      int          `json:"rewritten"`
	Failed         int          `json:"failed"`
	MarkersCreated int          `json:"markers_created"`
	Functions      int          `json:"functions"`
	Classes        int          `json:"classes"`
	Methods        int          `json:"methods"`
	DurationMS     int64        `json:"duration_ms"`
	Files          []FileResult `json:"files,omitempty"`
	FailedFiles    []string     `json:"failed_files,omitempty"`
}

func (s *RunSummary) Add(result FileResult) {
	s.Generated++
	if result.Changed {
		s.Rewritten++
	}
	if result.CreatedMarker {
		s.MarkersCreated++
	}
	s.Functions += result.Functions
	s.Classes += result.Classes
	s.Methods += result.Methods
	s.Files = append(s.Files, result)
}

func (s *RunSummary) Fail(file string) {
	s.Failed++
	s.FailedFiles = append(s.FailedFiles, file)
}

func PrintRunSummary(w io.Writer, summary RunSummary, asJSON bool) error {
	if asJSON {
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(summary)
	}

	fmt.Fprintf(
		w,
		"%s: scanned=%d generated=%d rewritten=%d failed=%d markers=%d duration=%dms\n",
		summary.Mode,
		summary.Scanned,
		summary.Generated,
		summary.Rewritten,
		summary.Failed,
		summary.MarkersCreated,
		summary.DurationMS,
	)
	fmt.Fprintf(w, "stubs: functions=%d classes=%d methods=%d\n", summary.Functions, summary.Classes, summary.Methods)
	if len(summary.FailedFiles) > 0 {
		fmt.Fprintf(w, "failed files (%d): %s\n", len(summary.FailedFiles), SummarizePaths(summary.FailedFiles, 8))
	}
	return nil
}

func SummarizePaths(paths []string, max int) string {
	if len(paths) <= max {
		return strings.Join(paths, ", ")
	}
	return fmt.Sprintf("%s ... (+%d more)", strings.Join(paths[:max], ", "), len(paths)-max)
}
