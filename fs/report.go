package fs

import (
	"os"
	"path/filepath"

	"github.com/fwojciec/rankcrawl"
)

// ReportWriter writes the rendered rankings of a report to a file.
// The file is written next to its destination and renamed into place, so
// readers never see a partial report.
type ReportWriter struct {
	path string
}

// NewReportWriter creates a ReportWriter targeting path.
func NewReportWriter(path string) *ReportWriter {
	return &ReportWriter{path: path}
}

func (w *ReportWriter) tempPath() string {
	return w.path + ".tmp"
}

// WriteReport renders report and replaces the destination file with it.
func (w *ReportWriter) WriteReport(report *rankcrawl.Report) error {
	if err := report.Validate(); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(w.path), 0755); err != nil {
		return err
	}

	content := rankcrawl.FormatRankings(report.Entries) + rankcrawl.FormatSummary(report) + "\n"
	if err := os.WriteFile(w.tempPath(), []byte(content), 0644); err != nil {
		return err
	}

	if err := os.Rename(w.tempPath(), w.path); err != nil {
		_ = os.Remove(w.tempPath())
		return err
	}
	return nil
}
