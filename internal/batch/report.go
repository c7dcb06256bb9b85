package batch

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/amorell/av1batch/pkg/models"
)

// Report writes the flat skipped/bad file lists for one invocation. Results
// are collected in memory during the run and written once at the end by a
// single writer; sharded runs get shard-suffixed file names so concurrent
// shard processes never append to the same file.
type Report struct {
	dir   string
	shard int // -1 when not sharded
}

// NewReport creates a Report writing into dir.
func NewReport(dir string, shard int) *Report {
	return &Report{dir: dir, shard: shard}
}

// SkippedPath returns the skipped-files list path for this invocation.
func (r *Report) SkippedPath() string {
	return r.listPath("skippedfiles")
}

// BadPath returns the bad-files list path for this invocation.
func (r *Report) BadPath() string {
	return r.listPath("badfiles")
}

func (r *Report) listPath(stem string) string {
	if r.shard >= 0 {
		return filepath.Join(r.dir, fmt.Sprintf("%s_%d.txt", stem, r.shard))
	}
	return filepath.Join(r.dir, stem+".txt")
}

// Write appends one line per skipped or failed file. The lists are
// append-only and never deduplicated; repeated runs over the same inputs
// append duplicate lines. Files are only created when there is something
// to record.
func (r *Report) Write(summary *models.Summary) error {
	var skipped, bad []string
	for _, res := range summary.Results {
		switch {
		case res.Outcome.Skipped():
			skipped = append(skipped, res.Path)
		case res.Outcome.Failed():
			bad = append(bad, res.Path)
		}
	}

	if err := appendLines(r.SkippedPath(), skipped); err != nil {
		return fmt.Errorf("writing skipped list: %w", err)
	}
	if err := appendLines(r.BadPath(), bad); err != nil {
		return fmt.Errorf("writing bad list: %w", err)
	}
	return nil
}

func appendLines(path string, lines []string) error {
	if len(lines) == 0 {
		return nil
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}

	for _, line := range lines {
		if _, err := fmt.Fprintln(f, line); err != nil {
			f.Close()
			return err
		}
	}
	return f.Close()
}
