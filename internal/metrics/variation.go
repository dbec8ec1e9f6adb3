package metrics

import (
	"fmt"
	"math"
)

// VariationType classifies a period-over-period change.
type VariationType string

const (
	VariationProgress   VariationType = "progress"
	VariationRegression VariationType = "regression"
	VariationStable     VariationType = "stable"
)

const (
	decreaseRatio = 0.90
	increaseRatio = 1.10
)

// Variation compares a series total against the preceding period.
type Variation struct {
	Type     VariationType `json:"type"`
	Current  float64       `json:"current"`
	Previous float64       `json:"previous"`
	Percent  float64       `json:"percent"`
	Display  string        `json:"display"`
}

// Classify compares current against previous. When lowerIsBetter is set a
// decrease counts as progress (sins); otherwise an increase does (good
// works, grade).
func Classify(current, previous float64, lowerIsBetter bool) Variation {
	v := Variation{Current: current, Previous: previous, Type: VariationStable}

	var decreased, increased bool
	switch {
	case previous == 0 && current == 0:
	case previous == 0:
		v.Percent = 100
		increased = current > 0
		decreased = current < 0
	default:
		v.Percent = (current - previous) / math.Abs(previous) * 100
		ratio := current / previous
		decreased = ratio <= decreaseRatio
		increased = ratio >= increaseRatio
		if previous < 0 {
			decreased, increased = increased, decreased
		}
	}

	switch {
	case decreased && lowerIsBetter, increased && !lowerIsBetter:
		v.Type = VariationProgress
	case decreased, increased:
		v.Type = VariationRegression
	}
	v.Display = FormatPercent(v.Percent)
	return v
}

// Percent returns part/whole*100, or 0 when whole is 0.
func Percent(part, whole float64) float64 {
	if whole == 0 {
		return 0
	}
	return part / whole * 100
}

// FormatPercent renders a signed percentage with one decimal. Values that
// round to zero render as "0.0%".
func FormatPercent(pct float64) string {
	if math.Abs(pct) < 0.05 || math.IsNaN(pct) {
		return "0.0%"
	}
	if pct > 0 {
		return fmt.Sprintf("+%.1f%%", pct)
	}
	return fmt.Sprintf("%.1f%%", pct)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
