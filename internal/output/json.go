package output

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/dotcommander/magis/internal/catalog"
	"github.com/dotcommander/magis/internal/metrics"
	"github.com/dotcommander/magis/internal/types"
)

// JSONFormatter formats output as JSON
type JSONFormatter struct {
	w          io.Writer
	quiet      bool
	indent     bool
	outputFile string
	now        func() time.Time
}

// NewJSONFormatter creates a new JSONFormatter
func NewJSONFormatter(w io.Writer, quiet bool, indent bool, outputFile string) *JSONFormatter {
	return &JSONFormatter{
		w:          w,
		quiet:      quiet,
		indent:     indent,
		outputFile: outputFile,
		now:        time.Now,
	}
}

// JSONReport represents the complete JSON report structure
type JSONReport struct {
	Header JSONHeader `json:"header"`
	Kind   string     `json:"kind"`
	Data   any        `json:"data"`
}

// JSONHeader contains report metadata
type JSONHeader struct {
	Tool      string `json:"tool"`
	Version   string `json:"version"`
	Timestamp string `json:"timestamp"`
}

func (f *JSONFormatter) write(kind string, data any) error {
	report := JSONReport{
		Header: JSONHeader{
			Tool:      Tool,
			Version:   Version,
			Timestamp: f.now().Format(time.RFC3339),
		},
		Kind: kind,
		Data: data,
	}

	var jsonBytes []byte
	var err error
	if f.indent {
		jsonBytes, err = json.MarshalIndent(report, "", "  ")
	} else {
		jsonBytes, err = json.Marshal(report)
	}
	if err != nil {
		return fmt.Errorf("error marshaling JSON: %w", err)
	}
	return writeTo(f.w, f.outputFile, append(jsonBytes, '\n'))
}

// Metrics writes the full metrics result.
func (f *JSONFormatter) Metrics(r metrics.Result) error { return f.write("metrics", r) }

// Count writes one reconciled count.
func (f *JSONFormatter) Count(c CountReport) error { return f.write("count", c) }

// Import writes the import summary and row errors.
func (f *JSONFormatter) Import(r *catalog.Result) error { return f.write("import", r) }

// Sessions writes the session list.
func (f *JSONFormatter) Sessions(sessions []types.ExamSession) error {
	if sessions == nil {
		sessions = []types.ExamSession{}
	}
	return f.write("sessions", sessions)
}

// Catalog writes a catalog listing.
func (f *JSONFormatter) Catalog(items []CatalogItem) error {
	if items == nil {
		items = []CatalogItem{}
	}
	return f.write("catalog", items)
}

// Notes writes a note listing.
func (f *JSONFormatter) Notes(notes []metrics.NoteView) error {
	if notes == nil {
		notes = []metrics.NoteView{}
	}
	return f.write("notes", notes)
}

// Backup writes an export or restore summary.
func (f *JSONFormatter) Backup(r BackupReport) error { return f.write("backup", r) }
