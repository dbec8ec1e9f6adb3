package scoring

import (
	"fmt"
	"sort"

	"github.com/dotcommander/magis/internal/types"
)

// Validate checks that the grade rules are coherent.
func (g Grading) Validate() error {
	if g.FullMark <= 0 {
		return fmt.Errorf("full_mark must be > 0, got %v", g.FullMark)
	}
	if g.PassBar <= 0 || g.PassBar > g.FullMark {
		return fmt.Errorf("pass_bar must be in (0, full_mark], got %v", g.PassBar)
	}
	if g.MortalCeiling < 0 || g.MortalCeiling > g.FullMark {
		return fmt.Errorf("mortal_ceiling must be in [0, full_mark], got %v", g.MortalCeiling)
	}
	return nil
}

// Calibrate derives the raw-to-points scale from the raw sin totals of each
// day in the calibration window (zero days included).
//
// The median non-zero day is mapped onto FullMark-TargetGrade lost points.
// The scale is then raised, if needed, so that at most PassRateCeiling of
// the window's days would reach the pass bar.
func Calibrate(dailyRaw []float64, prefs types.Preferences, g Grading) float64 {
	fallback := prefs.PointScale
	if fallback <= 0 {
		fallback = 1
	}
	if len(dailyRaw) == 0 {
		return fallback
	}

	sorted := append([]float64(nil), dailyRaw...)
	sort.Float64s(sorted)

	var nonZero []float64
	for _, v := range sorted {
		if v > 0 {
			nonZero = append(nonZero, v)
		}
	}
	if len(nonZero) == 0 {
		return fallback
	}

	scale := fallback
	loss := g.FullMark - prefs.TargetGrade
	if loss > 0 {
		scale = loss / median(nonZero)
	}

	if prefs.PassRateCeiling > 0 && prefs.PassRateCeiling < 1 {
		allowed := int(prefs.PassRateCeiling * float64(len(sorted)))
		if allowed < len(sorted) {
			t := sorted[allowed]
			if t > 0 {
				minScale := (g.FullMark - g.PassBar) / t
				if scale <= minScale {
					scale = minScale * 1.001
				}
			}
		}
	}
	return scale
}

func median(sorted []float64) float64 {
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}
