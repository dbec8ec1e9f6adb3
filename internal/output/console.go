package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dotcommander/magis/internal/catalog"
	"github.com/dotcommander/magis/internal/metrics"
	"github.com/dotcommander/magis/internal/types"
)

// ConsoleFormatter formats output for console display
type ConsoleFormatter struct {
	w        io.Writer
	quiet    bool
	verbose  bool
	colorize bool
}

// NewConsoleFormatter creates a new ConsoleFormatter writing to w
func NewConsoleFormatter(w io.Writer, quiet, verbose bool) *ConsoleFormatter {
	return &ConsoleFormatter{
		w:        w,
		quiet:    quiet,
		verbose:  verbose,
		colorize: true,
	}
}

func (f *ConsoleFormatter) style(color string) lipgloss.Style {
	if !f.colorize {
		return lipgloss.NewStyle()
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color))
}

func (f *ConsoleFormatter) bold() lipgloss.Style {
	if !f.colorize {
		return lipgloss.NewStyle()
	}
	return lipgloss.NewStyle().Bold(true)
}

func (f *ConsoleFormatter) printf(format string, args ...any) {
	fmt.Fprintf(f.w, format, args...)
}

// Metrics prints the period report. Quiet mode prints the grade only.
func (f *ConsoleFormatter) Metrics(r metrics.Result) error {
	g := r.Grade
	if f.quiet {
		f.printf("%.2f\n", g.Grade)
		return nil
	}

	f.printf("%s %s\n", f.bold().Render("Period:"), r.Period.Label)
	if r.Filter != "" {
		f.printf("%s %s\n", f.bold().Render("Filter:"), r.Filter)
	}
	f.printf("\n")

	gradeStyle := f.style("10") // green
	verdict := "PASS"
	if !g.Passed {
		gradeStyle = f.style("9") // red
		verdict = "FAIL"
	}
	f.printf("Grade %s / %.0f  %s  %s\n",
		gradeStyle.Bold(f.colorize).Render(fmt.Sprintf("%.2f", g.Grade)), g.FullMark, g.Tier, gradeStyle.Render(verdict))
	f.printf("  penalty %.2f, good works %.2f, recovered %.2f\n", g.Penalty, g.Bonus, g.Recovered)
	if g.MortalCapped {
		f.printf("  %s\n", f.style("3").Render("⚠ capped by a mortally imputable sin"))
	}
	if g.Grade >= g.FullMark && r.SinEventCount > 0 {
		f.printf("  %s\n", celebration("full mark"))
	}

	f.printf("\n%s\n", f.bold().Render("Series"))
	width := 0
	for _, s := range r.Series {
		width = max(width, len(s.Label))
	}
	for _, s := range r.Series {
		f.printf("  %-*s %8.2f  %s  %s\n", width, s.Label, s.Total, sparkline(s.Points), f.variation(s.Variation))
	}

	if len(r.DimensionSeries) > 0 {
		f.printf("\n%s\n", f.bold().Render("Trajectories"))
		for _, s := range r.DimensionSeries {
			f.printf("  %s %s %.2f (%s)  %s\n",
				s.Label, sparkline(s.Points), s.Total, metrics.FormatPercent(s.ContributionPercent), f.variation(s.Variation))
		}
	}

	if f.verbose {
		f.breakdowns("Sins by dimension", r.SinDimensions)
		f.breakdowns("Good works by dimension", r.GoodWorkDimensions)
		f.details("Sin detail", g.PecadosDetail)
		f.details("Good work detail", g.BuenasObrasDetail)
	}

	if len(r.Notes) > 0 {
		f.printf("\n%s\n", f.bold().Render("Notes"))
		for _, n := range r.Notes {
			f.printf("  %s  %s: %s\n", n.CreatedAt.Format("2006-01-02"), n.TargetName, n.Text)
		}
	}

	dim := f.style("8")
	f.printf("\n%s\n", dim.Render(fmt.Sprintf("%d sin events, %d good-work events", r.SinEventCount, r.GoodWorkEventCount)))
	if r.OrphanCount > 0 {
		f.printf("%s\n", f.style("3").Render(fmt.Sprintf("%d events reference deleted catalog items and were skipped", r.OrphanCount)))
	}
	return nil
}

func (f *ConsoleFormatter) variation(v metrics.Variation) string {
	switch v.Type {
	case metrics.VariationProgress:
		return f.style("10").Render("▲ " + v.Display)
	case metrics.VariationRegression:
		return f.style("9").Render("▼ " + v.Display)
	}
	return f.style("8").Render("= " + v.Display)
}

func (f *ConsoleFormatter) breakdowns(title string, bs []metrics.Breakdown) {
	f.printf("\n%s\n", f.bold().Render(title))
	for _, b := range bs {
		if len(b.Rows) == 0 {
			continue
		}
		f.printf("  %s\n", b.Dimension)
		for _, row := range b.Rows {
			f.printf("    %-24s %3d  %8.2f  %5.1f%%\n", row.Label, row.EventCount, row.TotalScore, row.ContributionPercent)
		}
	}
}

func (f *ConsoleFormatter) details(title string, items []metrics.DetailItem) {
	if len(items) == 0 {
		return
	}
	f.printf("\n%s\n", f.bold().Render(title))
	for _, d := range items {
		mark := ""
		if d.MortalImputable {
			mark = f.style("9").Render(" ✘ mortal")
		}
		f.printf("  %s  %-24s %7.2f%s\n", d.Timestamp.Format("2006-01-02 15:04"), d.Name, d.Points, mark)
	}
}

// sparkline renders bucket values as block characters scaled to the
// series maximum.
func sparkline(points []metrics.Point) string {
	if len(points) == 0 {
		return ""
	}
	blocks := []rune("▁▂▃▄▅▆▇█")
	hi := 0.0
	for _, p := range points {
		hi = max(hi, p.Value)
	}
	var b strings.Builder
	for _, p := range points {
		i := 0
		if hi > 0 && p.Value > 0 {
			i = int(p.Value / hi * float64(len(blocks)-1))
		}
		b.WriteRune(blocks[i])
	}
	return b.String()
}

// Count prints the running count of one item.
func (f *ConsoleFormatter) Count(c CountReport) error {
	if f.quiet {
		f.printf("%d\n", c.Total)
		return nil
	}
	f.printf("%s  %s\n", f.bold().Render(c.Name), f.style("10").Render(fmt.Sprintf("%d", c.Total)))
	f.printf("  persisted %d, this session %d\n", c.Count.Persisted, c.Count.Pending)
	if c.Count.Reset {
		f.printf("  %s\n", f.style("8").Render("history reset by the item's cycle"))
	} else if c.Count.LastEventAt != nil {
		f.printf("  last %s\n", c.Count.LastEventAt.Format("2006-01-02 15:04"))
	}
	return nil
}

// Import prints the outcome of a catalog import, one line per failed row.
func (f *ConsoleFormatter) Import(r *catalog.Result) error {
	for _, e := range r.Errors {
		f.printf("    %s %s\n", f.style("9").Render("✘"), e.Error())
	}
	if f.quiet {
		return nil
	}
	if len(r.Errors) > 0 {
		f.printf("\n")
	}
	verb := "imported"
	if r.DryRun {
		verb = "validated"
	}
	var parts []string
	for _, k := range catalog.Kinds() {
		if n := r.Imported[k]; n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, k))
		}
	}
	if len(parts) == 0 {
		parts = append(parts, "nothing")
	}
	f.printf("%s %s from %d files (%d updated, %d errors)\n",
		verb, strings.Join(parts, ", "), r.Files, r.Updated, len(r.Errors))
	if len(r.Errors) == 0 && r.Total() > 0 {
		f.printf("%s\n", f.style("10").Bold(f.colorize).Render("✓ All rows accepted"))
	}
	return nil
}

// Sessions lists examination sessions, newest last.
func (f *ConsoleFormatter) Sessions(sessions []types.ExamSession) error {
	if f.quiet {
		return nil
	}
	if len(sessions) == 0 {
		f.printf("no sessions\n")
		return nil
	}
	for _, s := range sessions {
		state := f.style("8").Render(sessionState(s))
		if !s.Completed() {
			state = f.style("3").Render(sessionState(s))
		}
		f.printf("%s  %s  %s  %d sins, %d good works",
			s.StartedAt.Format("2006-01-02 15:04"), s.ID, state, len(s.SinEvents), len(s.GoodWorkEvents))
		if len(s.Freeform) > 0 {
			f.printf(", %d freeform", len(s.Freeform))
		}
		f.printf("\n")
		if f.verbose {
			for _, e := range s.Freeform {
				f.printf("    %s [%s] %s\n", e.ID, e.Kind, e.Text)
			}
		}
	}
	return nil
}

// Catalog lists catalog items grouped by kind.
func (f *ConsoleFormatter) Catalog(items []CatalogItem) error {
	if f.quiet {
		return nil
	}
	var current catalog.Kind
	for _, it := range items {
		if it.Kind != current {
			current = it.Kind
			f.printf("%s\n", f.bold().Render(string(current)))
		}
		name := it.Name
		if it.Disabled {
			name = f.style("8").Render(name + " (disabled)")
		}
		f.printf("  %s  %s", it.ID, name)
		if it.Detail != "" && f.verbose {
			f.printf("  %s", f.style("8").Render(it.Detail))
		}
		f.printf("\n")
	}
	return nil
}

// Notes lists notes with their target names.
func (f *ConsoleFormatter) Notes(notes []metrics.NoteView) error {
	if f.quiet {
		return nil
	}
	for _, n := range notes {
		f.printf("%s  %s  %s: %s\n", n.CreatedAt.Format("2006-01-02"), n.ID, n.TargetName, n.Text)
	}
	return nil
}

// Backup reports an export or restore.
func (f *ConsoleFormatter) Backup(r BackupReport) error {
	if f.quiet {
		return nil
	}
	s := r.Summary
	f.printf("%s %s\n", f.style("10").Render("✓ "+r.Action), s.Path)
	f.printf("  %d sins, %d good works, %d sessions, %d notes\n", s.Sins, s.BuenasObras, s.Sessions, s.Notes)
	return nil
}
