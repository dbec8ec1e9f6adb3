package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dotcommander/magis/internal/catalog"
	"github.com/dotcommander/magis/internal/metrics"
	"github.com/dotcommander/magis/internal/types"
)

// MarkdownFormatter formats output as Markdown
type MarkdownFormatter struct {
	w          io.Writer
	quiet      bool
	verbose    bool
	outputFile string
}

// NewMarkdownFormatter creates a new MarkdownFormatter
func NewMarkdownFormatter(w io.Writer, quiet, verbose bool, outputFile string) *MarkdownFormatter {
	return &MarkdownFormatter{
		w:          w,
		quiet:      quiet,
		verbose:    verbose,
		outputFile: outputFile,
	}
}

func (f *MarkdownFormatter) flush(b *strings.Builder) error {
	return writeTo(f.w, f.outputFile, []byte(b.String()))
}

// escapeCell keeps table cells on one line and away from column breaks.
func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}

// Metrics writes the period report as a Markdown document.
func (f *MarkdownFormatter) Metrics(r metrics.Result) error {
	var builder strings.Builder
	g := r.Grade

	builder.WriteString("# MAGIS Report\n\n")
	builder.WriteString(fmt.Sprintf("**Period:** %s\n\n", r.Period.Label))
	builder.WriteString(fmt.Sprintf("**Generated:** %s\n\n", r.GeneratedAt.Format("2006-01-02 15:04:05")))
	if r.Filter != "" {
		builder.WriteString(fmt.Sprintf("**Filter:** `%s`\n\n", r.Filter))
	}

	builder.WriteString("## Grade\n\n")
	status := "✅ Pass"
	if !g.Passed {
		status = "❌ Fail"
	}
	builder.WriteString("| Metric | Value |\n")
	builder.WriteString("|--------|-------|\n")
	builder.WriteString(fmt.Sprintf("| Grade | %.2f / %.0f |\n", g.Grade, g.FullMark))
	builder.WriteString(fmt.Sprintf("| Tier | %s |\n", g.Tier))
	builder.WriteString(fmt.Sprintf("| Status | %s |\n", status))
	builder.WriteString(fmt.Sprintf("| Penalty | %.2f |\n", g.Penalty))
	builder.WriteString(fmt.Sprintf("| Good works | %.2f |\n", g.Bonus))
	builder.WriteString(fmt.Sprintf("| Recovered | %.2f |\n", g.Recovered))
	if g.MortalCapped {
		builder.WriteString("| Mortal ceiling | applied |\n")
	}
	builder.WriteString("\n")

	if !f.quiet {
		builder.WriteString("## Series\n\n")
		builder.WriteString("| Series | Total | Events | Change | Trend |\n")
		builder.WriteString("|--------|-------|--------|--------|-------|\n")
		for _, s := range r.Series {
			builder.WriteString(fmt.Sprintf("| %s | %.2f | %d | %s | %s |\n",
				escapeCell(s.Label), s.Total, s.EventCount, s.Variation.Display, s.Variation.Type))
		}
		builder.WriteString("\n")

		if len(r.DimensionSeries) > 0 {
			builder.WriteString("## Trajectories\n\n")
			builder.WriteString("| Series | Total | Contribution | Change |\n")
			builder.WriteString("|--------|-------|--------------|--------|\n")
			for _, s := range r.DimensionSeries {
				builder.WriteString(fmt.Sprintf("| %s | %.2f | %.1f%% | %s |\n",
					escapeCell(s.Label), s.Total, s.ContributionPercent, s.Variation.Display))
			}
			builder.WriteString("\n")
		}
	}

	if f.verbose {
		writeBreakdowns(&builder, "Sins by Dimension", r.SinDimensions)
		writeBreakdowns(&builder, "Good Works by Dimension", r.GoodWorkDimensions)
	}

	if len(r.Notes) > 0 && !f.quiet {
		builder.WriteString("## Notes\n\n")
		for _, n := range r.Notes {
			builder.WriteString(fmt.Sprintf("- **%s** (%s): %s\n", n.TargetName, n.CreatedAt.Format("2006-01-02"), n.Text))
		}
		builder.WriteString("\n")
	}

	builder.WriteString(fmt.Sprintf("*%d sin events, %d good-work events.*\n", r.SinEventCount, r.GoodWorkEventCount))
	return f.flush(&builder)
}

func writeBreakdowns(builder *strings.Builder, title string, bs []metrics.Breakdown) {
	builder.WriteString(fmt.Sprintf("## %s\n\n", title))
	for _, b := range bs {
		if len(b.Rows) == 0 {
			continue
		}
		builder.WriteString(fmt.Sprintf("### %s\n\n", b.Dimension))
		builder.WriteString("| Value | Events | Score | Share |\n")
		builder.WriteString("|-------|--------|-------|-------|\n")
		for _, row := range b.Rows {
			builder.WriteString(fmt.Sprintf("| %s | %d | %.2f | %.1f%% |\n",
				escapeCell(row.Label), row.EventCount, row.TotalScore, row.ContributionPercent))
		}
		builder.WriteString("\n")
	}
}

// Count writes one count as a short table.
func (f *MarkdownFormatter) Count(c CountReport) error {
	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("## %s\n\n", c.Name))
	builder.WriteString("| Count | Value |\n")
	builder.WriteString("|-------|-------|\n")
	builder.WriteString(fmt.Sprintf("| Total | %d |\n", c.Total))
	builder.WriteString(fmt.Sprintf("| Persisted | %d |\n", c.Count.Persisted))
	builder.WriteString(fmt.Sprintf("| This session | %d |\n", c.Count.Pending))
	builder.WriteString(fmt.Sprintf("| Reset | %t |\n", c.Count.Reset))
	return f.flush(&builder)
}

// Import writes the import summary and a table of row errors.
func (f *MarkdownFormatter) Import(r *catalog.Result) error {
	var builder strings.Builder
	builder.WriteString("# Catalog Import\n\n")
	if r.DryRun {
		builder.WriteString("*Dry run: nothing was written.*\n\n")
	}
	builder.WriteString("| Kind | Records |\n")
	builder.WriteString("|------|---------|\n")
	for _, k := range catalog.Kinds() {
		builder.WriteString(fmt.Sprintf("| %s | %d |\n", k, r.Imported[k]))
	}
	builder.WriteString(fmt.Sprintf("\n**Files:** %d, **Updated:** %d, **Errors:** %d\n\n", r.Files, r.Updated, len(r.Errors)))

	if len(r.Errors) > 0 {
		builder.WriteString("## Errors\n\n")
		builder.WriteString("| File | Row | Field | Message |\n")
		builder.WriteString("|------|-----|-------|---------|\n")
		for _, e := range r.Errors {
			builder.WriteString(fmt.Sprintf("| %s | %d | %s | %s |\n",
				escapeCell(e.File), e.Row, escapeCell(e.Field), escapeCell(e.Message)))
		}
		builder.WriteString("\n")
	}
	return f.flush(&builder)
}

// Sessions writes the session list as a table.
func (f *MarkdownFormatter) Sessions(sessions []types.ExamSession) error {
	var builder strings.Builder
	builder.WriteString("# Sessions\n\n")
	if len(sessions) == 0 {
		builder.WriteString("*No sessions recorded.*\n")
		return f.flush(&builder)
	}
	builder.WriteString("| Started | ID | State | Sins | Good works |\n")
	builder.WriteString("|---------|----|-------|------|------------|\n")
	for _, s := range sessions {
		builder.WriteString(fmt.Sprintf("| %s | `%s` | %s | %d | %d |\n",
			s.StartedAt.Format(time.DateTime), s.ID, sessionState(s), len(s.SinEvents), len(s.GoodWorkEvents)))
	}
	return f.flush(&builder)
}

// Catalog writes one section per kind.
func (f *MarkdownFormatter) Catalog(items []CatalogItem) error {
	var builder strings.Builder
	builder.WriteString("# Catalog\n\n")
	var current catalog.Kind
	for _, it := range items {
		if it.Kind != current {
			if current != catalog.KindUnknown {
				builder.WriteString("\n")
			}
			current = it.Kind
			builder.WriteString(fmt.Sprintf("## %s\n\n", current))
		}
		line := fmt.Sprintf("- **%s** `%s`", escapeCell(it.Name), it.ID)
		if it.Disabled {
			line += " *(disabled)*"
		}
		if f.verbose && it.Detail != "" {
			line += " " + it.Detail
		}
		builder.WriteString(line + "\n")
	}
	return f.flush(&builder)
}

// Notes writes a bullet list of notes.
func (f *MarkdownFormatter) Notes(notes []metrics.NoteView) error {
	var builder strings.Builder
	builder.WriteString("# Notes\n\n")
	for _, n := range notes {
		builder.WriteString(fmt.Sprintf("- **%s** (%s): %s\n", n.TargetName, n.CreatedAt.Format("2006-01-02"), n.Text))
	}
	return f.flush(&builder)
}

// Backup writes an export or restore summary.
func (f *MarkdownFormatter) Backup(r BackupReport) error {
	var builder strings.Builder
	s := r.Summary
	builder.WriteString(fmt.Sprintf("# Backup %s\n\n", r.Action))
	builder.WriteString(fmt.Sprintf("**File:** `%s`\n\n", s.Path))
	builder.WriteString("| Collection | Records |\n")
	builder.WriteString("|------------|---------|\n")
	builder.WriteString(fmt.Sprintf("| sins | %d |\n", s.Sins))
	builder.WriteString(fmt.Sprintf("| buenasObras | %d |\n", s.BuenasObras))
	builder.WriteString(fmt.Sprintf("| personTypes | %d |\n", s.PersonTypes))
	builder.WriteString(fmt.Sprintf("| activities | %d |\n", s.Activities))
	builder.WriteString(fmt.Sprintf("| condicionantes | %d |\n", s.Condicionantes))
	builder.WriteString(fmt.Sprintf("| examSessions | %d |\n", s.Sessions))
	builder.WriteString(fmt.Sprintf("| notes | %d |\n", s.Notes))
	return f.flush(&builder)
}
