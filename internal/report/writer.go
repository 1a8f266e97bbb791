package report

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fraudlens/fraudlens/internal/model"
)

// Writer persists rendered reports under a fixed output directory.
type Writer struct {
	outputDir string
	formatter *Formatter
}

// NewWriter creates a report writer targeting outputDir. The directory is
// created on first write.
func NewWriter(outputDir string) *Writer {
	return &Writer{
		outputDir: outputDir,
		formatter: NewFormatter(),
	}
}

// Write renders the report and saves it with a timestamped filename.
// Returns the path of the written file.
func (w *Writer) Write(r *model.CaseReport) (string, error) {
	if err := os.MkdirAll(w.outputDir, 0o750); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	filename := fmt.Sprintf("Comprehensive_Case_Analysis_%s_%s.txt",
		sanitizeID(r.Case.CaseID),
		r.GeneratedAt.Format("20060102_150405"))
	path := filepath.Join(w.outputDir, filename)

	content := w.formatter.Format(r)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}

	return path, nil
}
