// Package output renders magis reports for the terminal, as JSON, or as
// Markdown.
package output

import (
	"fmt"
	"io"
	"os"

	"github.com/dotcommander/magis/internal/backup"
	"github.com/dotcommander/magis/internal/catalog"
	"github.com/dotcommander/magis/internal/counter"
	"github.com/dotcommander/magis/internal/metrics"
	"github.com/dotcommander/magis/internal/types"
)

// Tool and Version identify the producer in machine-readable reports.
const (
	Tool    = "magis"
	Version = "0.1.0"
)

// Formatter renders each report kind.
type Formatter interface {
	Metrics(r metrics.Result) error
	Count(c CountReport) error
	Import(r *catalog.Result) error
	Sessions(sessions []types.ExamSession) error
	Catalog(items []CatalogItem) error
	Notes(notes []metrics.NoteView) error
	Backup(r BackupReport) error
}

// CountReport pairs a reconciled count with the item's name.
type CountReport struct {
	Name  string        `json:"name"`
	Count counter.Count `json:"count"`
	Total int           `json:"total"`
}

// NewCountReport builds a CountReport with the total filled in.
func NewCountReport(name string, c counter.Count) CountReport {
	return CountReport{Name: name, Count: c, Total: c.Total()}
}

// CatalogItem is one line of a catalog listing.
type CatalogItem struct {
	Kind     catalog.Kind `json:"kind"`
	ID       string       `json:"id"`
	Name     string       `json:"name"`
	Detail   string       `json:"detail,omitempty"`
	Disabled bool         `json:"disabled,omitempty"`
}

// BackupReport describes an export or restore.
type BackupReport struct {
	Action  string         `json:"action"`
	Summary backup.Summary `json:"summary"`
}

// writeTo sends data to outputFile when set, otherwise to w.
func writeTo(w io.Writer, outputFile string, data []byte) error {
	if outputFile != "" {
		if err := os.WriteFile(outputFile, data, 0644); err != nil {
			return fmt.Errorf("error writing to file %s: %w", outputFile, err)
		}
		return nil
	}
	_, err := w.Write(data)
	return err
}

func sessionState(s types.ExamSession) string {
	if s.Completed() {
		return "completed"
	}
	return "open"
}
