package report

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/MarcelloBorromeo/SearchSift/internal/aggregate"
)

// HTMLPath returns the pre-rendered HTML report path for a date string.
func HTMLPath(dir, date string) string {
	return filepath.Join(dir, date+".html")
}

// CSVPath returns the pre-rendered CSV export path for a date string.
func CSVPath(dir, date string) string {
	return filepath.Join(dir, date+".csv")
}

// Writer persists rendered report files to the reports directory so the
// API can serve them without recomputing.
type Writer struct {
	dir      string
	renderer *Renderer
	log      *zap.Logger
}

// NewWriter creates a report file writer for the given directory.
func NewWriter(dir string, renderer *Renderer, log *zap.Logger) *Writer {
	return &Writer{dir: dir, renderer: renderer, log: log}
}

// WriteFiles renders and writes the HTML and CSV files for a daily report.
func (w *Writer) WriteFiles(report *aggregate.DailyReport) error {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create reports dir: %w", err)
	}

	htmlPath := HTMLPath(w.dir, report.Date)
	htmlFile, err := os.Create(htmlPath)
	if err != nil {
		return fmt.Errorf("failed to create HTML report: %w", err)
	}
	if err := w.renderer.RenderHTML(htmlFile, report); err != nil {
		htmlFile.Close()
		return err
	}
	if err := htmlFile.Close(); err != nil {
		return fmt.Errorf("failed to close HTML report: %w", err)
	}
	w.log.Info("Wrote HTML report", zap.String("path", htmlPath))

	csvPath := CSVPath(w.dir, report.Date)
	csvFile, err := os.Create(csvPath)
	if err != nil {
		return fmt.Errorf("failed to create CSV report: %w", err)
	}
	if err := WriteCSV(csvFile, report.Records); err != nil {
		csvFile.Close()
		return err
	}
	if err := csvFile.Close(); err != nil {
		return fmt.Errorf("failed to close CSV report: %w", err)
	}
	w.log.Info("Wrote CSV report", zap.String("path", csvPath))

	return nil
}
