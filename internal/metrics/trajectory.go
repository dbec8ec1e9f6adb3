package metrics

import (
	"math"
	"sort"
	"time"

	"github.com/dotcommander/magis/internal/scoring"
	"github.com/dotcommander/magis/internal/types"
)

// Fixed series keys.
const (
	SeriesGrade     = "grade"
	SeriesGoodWorks = "good-works"
	SeriesMortal    = "mortal-sins"
	SeriesVenial    = "venial-sins"
)

// Point is one bucket of a trajectory.
type Point struct {
	Label      string    `json:"label"`
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
	Value      float64   `json:"value"`
	EventCount int       `json:"event_count"`
}

// Series is a time-bucketed trajectory of one metric or dimension value.
type Series struct {
	Key                 string    `json:"key"`
	Label               string    `json:"label"`
	Kind                Kind      `json:"kind"`
	Dimension           Dimension `json:"dimension,omitempty"`
	Value               string    `json:"value,omitempty"`
	Points              []Point   `json:"points"`
	Total               float64   `json:"total"`
	EventCount          int       `json:"event_count"`
	ContributionPercent float64   `json:"contribution_percent"`
	Variation           Variation `json:"variation"`
}

// bucketCount picks daily buckets for short windows, weekly up to a
// quarter, and twelve equal buckets beyond that.
func bucketCount(days int) int {
	switch {
	case days <= 14:
		return days
	case days <= 92:
		return int(math.Ceil(float64(days) / 7))
	default:
		return 12
	}
}

// buckets divides the period into equal-width sub-periods.
type buckets struct {
	start time.Time
	width time.Duration
	n     int
}

func newBuckets(p Period) buckets {
	n := bucketCount(p.Days())
	width := p.Duration() / time.Duration(n)
	if width <= 0 {
		width = time.Nanosecond
	}
	return buckets{start: p.Start, width: width, n: n}
}

func (b buckets) index(t time.Time) int {
	i := int(t.Sub(b.start) / b.width)
	if i < 0 {
		return 0
	}
	if i >= b.n {
		return b.n - 1
	}
	return i
}

func (b buckets) points() []Point {
	pts := make([]Point, b.n)
	for i := range pts {
		s := b.start.Add(time.Duration(i) * b.width)
		pts[i] = Point{
			Label: s.Format("Jan 2"),
			Start: s,
			End:   s.Add(b.width),
		}
	}
	return pts
}

// sumSeries buckets the events and sums their points.
func (b buckets) sumSeries(events []scoredEvent) ([]Point, float64, int) {
	pts := b.points()
	var total float64
	for _, e := range events {
		i := b.index(e.timestamp)
		pts[i].Value += e.points()
		pts[i].EventCount++
		total += e.points()
	}
	for i := range pts {
		pts[i].Value = round2(pts[i].Value)
	}
	return pts, total, len(events)
}

// gradeSeries grades each bucket on its own events.
func (b buckets) gradeSeries(sins, goods []scoredEvent, g scoring.Grading) []Point {
	bySin := make([][]scoredEvent, b.n)
	byGood := make([][]scoredEvent, b.n)
	for _, e := range sins {
		i := b.index(e.timestamp)
		bySin[i] = append(bySin[i], e)
	}
	for _, e := range goods {
		i := b.index(e.timestamp)
		byGood[i] = append(byGood[i], e)
	}
	pts := b.points()
	for i := range pts {
		pts[i].Value = computeGrade(bySin[i], byGood[i], g).Grade
		pts[i].EventCount = len(bySin[i]) + len(byGood[i])
	}
	return pts
}

func byGravity(events []scoredEvent, g types.Gravity) []scoredEvent {
	var out []scoredEvent
	for _, e := range events {
		if e.gravity == g {
			out = append(out, e)
		}
	}
	return out
}

func total(events []scoredEvent) float64 {
	var t float64
	for _, e := range events {
		t += e.points()
	}
	return t
}

// fixedSeries builds the grade, good-work, mortal and venial trajectories.
func fixedSeries(cur, prev collection, p Period, g scoring.Grading) []Series {
	b := newBuckets(p)
	sinTotal := total(cur.sins)

	curGrade := computeGrade(cur.sins, cur.goods, g)
	prevGrade := computeGrade(prev.sins, prev.goods, g)
	out := []Series{{
		Key:        SeriesGrade,
		Label:      "Grade",
		Kind:       KindGrade,
		Points:     b.gradeSeries(cur.sins, cur.goods, g),
		Total:      curGrade.Grade,
		EventCount: len(cur.sins) + len(cur.goods),
		Variation:  Classify(curGrade.Grade, prevGrade.Grade, false),
	}}

	pts, goodTotal, n := b.sumSeries(cur.goods)
	out = append(out, Series{
		Key:                 SeriesGoodWorks,
		Label:               "Good works",
		Kind:                KindGoodWork,
		Points:              pts,
		Total:               round2(goodTotal),
		EventCount:          n,
		ContributionPercent: Percent(goodTotal, goodTotal),
		Variation:           Classify(goodTotal, total(prev.goods), false),
	})

	for _, s := range []struct {
		key, label string
		gravity    types.Gravity
	}{
		{SeriesMortal, "Mortal sins", types.GravityMortal},
		{SeriesVenial, "Venial sins", types.GravityVenial},
	} {
		events := byGravity(cur.sins, s.gravity)
		pts, t, n := b.sumSeries(events)
		out = append(out, Series{
			Key:                 s.key,
			Label:               s.label,
			Kind:                KindSin,
			Points:              pts,
			Total:               round2(t),
			EventCount:          n,
			ContributionPercent: Percent(t, sinTotal),
			Variation:           Classify(t, total(byGravity(prev.sins, s.gravity)), true),
		})
	}
	return out
}

// groupByValue collects events per observed value of a dimension. An event
// carrying several values belongs to each of them.
func groupByValue(events []scoredEvent, dim Dimension) map[string][]scoredEvent {
	groups := make(map[string][]scoredEvent)
	for _, e := range events {
		seen := make(map[string]bool)
		for _, v := range e.values[dim] {
			if v == "" || seen[v] {
				continue
			}
			seen[v] = true
			groups[v] = append(groups[v], e)
		}
	}
	return groups
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// dimensionSeries builds one trajectory per observed value of each
// requested dimension, separately for sins and good works. Contributions
// are shares of the sum across one dimension's series, as in breakdowns.
func dimensionSeries(cur, prev collection, p Period, dims []Dimension, cat *Catalog) []Series {
	b := newBuckets(p)
	var out []Series
	for _, dim := range dims {
		for _, side := range []struct {
			kind      Kind
			cur, prev []scoredEvent
		}{
			{KindSin, cur.sins, prev.sins},
			{KindGoodWork, cur.goods, prev.goods},
		} {
			groups := groupByValue(side.cur, dim)
			prevGroups := groupByValue(side.prev, dim)
			var dimTotal float64
			for _, events := range groups {
				dimTotal += total(events)
			}
			for _, value := range sortedKeys(groups) {
				pts, t, n := b.sumSeries(groups[value])
				out = append(out, Series{
					Key:                 string(side.kind) + ":" + string(dim) + ":" + value,
					Label:               cat.Label(dim, value),
					Kind:                side.kind,
					Dimension:           dim,
					Value:               value,
					Points:              pts,
					Total:               round2(t),
					EventCount:          n,
					ContributionPercent: Percent(t, dimTotal),
					Variation:           Classify(t, total(prevGroups[value]), side.kind == KindSin),
				})
			}
		}
	}
	return out
}
