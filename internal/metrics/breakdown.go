package metrics

import "sort"

// Row is one observed category value of a dimension.
type Row struct {
	Value               string  `json:"value"`
	Label               string  `json:"label"`
	EventCount          int     `json:"event_count"`
	TotalScore          float64 `json:"total_score"`
	ContributionPercent float64 `json:"contribution_percent"`
}

// Breakdown is the per-value table of one dimension.
type Breakdown struct {
	Dimension Dimension `json:"dimension"`
	Rows      []Row     `json:"rows"`
	Total     float64   `json:"total"`
}

// breakdown groups events by every value they carry for dim. Contributions
// are shares of the sum across the table's rows, so a non-empty table
// always sums to 100.
func breakdown(events []scoredEvent, dim Dimension, cat *Catalog) Breakdown {
	groups := groupByValue(events, dim)
	b := Breakdown{Dimension: dim, Rows: make([]Row, 0, len(groups))}
	for _, value := range sortedKeys(groups) {
		t := total(groups[value])
		b.Rows = append(b.Rows, Row{
			Value:      value,
			Label:      cat.Label(dim, value),
			EventCount: len(groups[value]),
			TotalScore: t,
		})
		b.Total += t
	}
	for i := range b.Rows {
		b.Rows[i].ContributionPercent = Percent(b.Rows[i].TotalScore, b.Total)
		b.Rows[i].TotalScore = round2(b.Rows[i].TotalScore)
	}
	b.Total = round2(b.Total)
	sort.SliceStable(b.Rows, func(i, j int) bool {
		return b.Rows[i].TotalScore > b.Rows[j].TotalScore
	})
	return b
}

func breakdowns(events []scoredEvent, dims []Dimension, cat *Catalog) []Breakdown {
	out := make([]Breakdown, 0, len(dims))
	for _, d := range dims {
		out = append(out, breakdown(events, d, cat))
	}
	return out
}
