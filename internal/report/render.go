// Package report renders daily report files (HTML and CSV) from aggregated
// record data.
package report

import (
	"embed"
	"encoding/csv"
	"fmt"
	"html/template"
	"io"
	"strconv"
	"time"

	"github.com/MarcelloBorromeo/SearchSift/internal/aggregate"
	"github.com/MarcelloBorromeo/SearchSift/internal/domain"
)

//go:embed templates/report.html
var templatesFS embed.FS

// Renderer renders daily reports as HTML.
type Renderer struct {
	tmpl *template.Template
}

// NewRenderer parses the embedded report template.
func NewRenderer() (*Renderer, error) {
	tmpl, err := template.ParseFS(templatesFS, "templates/report.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse report template: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

// RenderHTML writes the HTML report for a daily aggregate.
func (r *Renderer) RenderHTML(w io.Writer, report *aggregate.DailyReport) error {
	if err := r.tmpl.Execute(w, report); err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}
	return nil
}

// csvHeader matches the column order consumers of exported files rely on.
var csvHeader = []string{
	"id", "event_type", "query", "url", "engine",
	"timestamp_utc", "category", "confidence",
}

// WriteCSV writes records as CSV in the stable export column order.
func WriteCSV(w io.Writer, records []*domain.SearchRecord) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, r := range records {
		row := []string{
			r.ID,
			r.EventType,
			r.Query,
			r.URL,
			r.Engine,
			r.Timestamp.UTC().Format(time.RFC3339),
			r.Category,
			strconv.FormatFloat(r.Confidence, 'f', 2, 64),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}
