package metrics

import (
	"time"

	"github.com/dotcommander/magis/internal/scoring"
)

// Options tunes a calculation.
type Options struct {
	// Calculator scores events. Nil uses default weights and scale 1.
	Calculator *scoring.Calculator
	// Grading holds the grade rules. A zero value selects the defaults.
	Grading scoring.Grading
	// TrajectoryDimensions lists the dimensions to build per-value
	// trajectories for.
	TrajectoryDimensions []Dimension
	// Now stamps the result. Zero means time.Now.
	Now time.Time
}

// Result is everything the metrics screen shows for one period.
type Result struct {
	Period             Period      `json:"period"`
	Previous           Period      `json:"previous"`
	Filter             string      `json:"filter,omitempty"`
	Grade              GradeResult `json:"grade"`
	Series             []Series    `json:"series"`
	DimensionSeries    []Series    `json:"dimension_series"`
	SinDimensions      []Breakdown `json:"sin_dimensions"`
	GoodWorkDimensions []Breakdown `json:"good_work_dimensions"`
	Notes              []NoteView  `json:"notes"`
	SinEventCount      int         `json:"sin_event_count"`
	GoodWorkEventCount int         `json:"good_work_event_count"`
	OrphanCount        int         `json:"orphan_count"`
	GeneratedAt        time.Time   `json:"generated_at"`
}

// EventCount is the number of events that reached the aggregates.
func (r Result) EventCount() int {
	return r.SinEventCount + r.GoodWorkEventCount
}

// Calculate aggregates the snapshot over the period. It never fails: empty
// input yields a full-mark grade and empty tables.
func Calculate(in Input, period Period, filter Filter, opts Options) Result {
	calc := opts.Calculator
	if calc == nil {
		calc = scoring.NewCalculator(nil, 1)
	}
	g := opts.Grading
	if g.Validate() != nil {
		g = scoring.DefaultGrading()
	}
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}

	cat := NewCatalog(in)
	prevPeriod := period.Previous()
	cur := collect(in.Sessions, cat, calc, period, filter)
	prev := collect(in.Sessions, cat, calc, prevPeriod, filter)

	return Result{
		Period:             period,
		Previous:           prevPeriod,
		Filter:             filter.String(),
		Grade:              computeGrade(cur.sins, cur.goods, g),
		Series:             fixedSeries(cur, prev, period, g),
		DimensionSeries:    dimensionSeries(cur, prev, period, opts.TrajectoryDimensions, cat),
		SinDimensions:      breakdowns(cur.sins, SinDimensions(), cat),
		GoodWorkDimensions: breakdowns(cur.goods, GoodWorkDimensions(), cat),
		Notes:              NotesInPeriod(in.Notes, period, cat),
		SinEventCount:      len(cur.sins),
		GoodWorkEventCount: len(cur.goods),
		OrphanCount:        cur.orphans,
		GeneratedAt:        now,
	}
}

// DailyRawTotals sums the unscaled sin score of each day in the window
// ending at now, zero days included. It feeds scoring.Calibrate.
func DailyRawTotals(in Input, calc *scoring.Calculator, now time.Time, days int) []float64 {
	if days < 1 {
		return nil
	}
	if calc == nil {
		calc = scoring.NewCalculator(nil, 1)
	}
	p := Period{Start: now.AddDate(0, 0, -days), End: now}
	cur := collect(in.Sessions, NewCatalog(in), calc, p, nil)
	totals := make([]float64, days)
	for _, e := range cur.sins {
		i := int(e.timestamp.Sub(p.Start) / (24 * time.Hour))
		if i < 0 {
			i = 0
		}
		if i >= days {
			i = days - 1
		}
		totals[i] += e.breakdown.Raw
	}
	return totals
}
