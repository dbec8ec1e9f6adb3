package scoring

import (
	"fmt"
	"math"

	"github.com/dotcommander/magis/internal/types"
)

// Calculator scores sin and good-work events.
type Calculator struct {
	weights Weights
	scale   float64
}

// NewCalculator creates a calculator. A nil weights pointer selects the
// defaults; a non-positive scale is treated as 1.
func NewCalculator(weights *Weights, scale float64) *Calculator {
	w := DefaultWeights()
	if weights != nil {
		w = *weights
	}
	if scale <= 0 || math.IsNaN(scale) || math.IsInf(scale, 0) {
		scale = 1
	}
	return &Calculator{weights: w, scale: scale}
}

// Weights returns the calculator's calibration constants.
func (c *Calculator) Weights() Weights { return c.weights }

// Scale returns the raw-to-points multiplier.
func (c *Calculator) Scale() float64 { return c.scale }

// EffectiveGravity classifies one occurrence of a sin. A sin that can be
// either mortal or venial counts as mortal only when fully deliberate.
func EffectiveGravity(sin types.Sin, ev types.SinEvent) types.Gravity {
	if !sin.HasGravity(types.GravityMortal) {
		return types.GravityVenial
	}
	if !sin.HasGravity(types.GravityVenial) {
		return types.GravityMortal
	}
	if ev.Attention == types.AttentionDeliberate {
		return types.GravityMortal
	}
	return types.GravityVenial
}

// IsMortalImputable reports whether an occurrence meets every condition of
// mortal imputability: grave matter, full deliberation, formal
// responsibility and a motive other than ignorance. An unset
// responsibility counts as formal.
func IsMortalImputable(gravity types.Gravity, ev types.SinEvent) bool {
	return gravity == types.GravityMortal &&
		ev.Attention == types.AttentionDeliberate &&
		ev.Responsibility != types.ResponsibilityMaterial &&
		ev.Motive != types.MotiveIgnorance
}

// ScoreSin scores a sin occurrence using its effective gravity.
func (c *Calculator) ScoreSin(sin types.Sin, ev types.SinEvent) ScoreBreakdown {
	return c.ScoreSinAs(sin, ev, EffectiveGravity(sin, ev))
}

// ScoreSinAs scores a sin occurrence under an explicit gravity, used when
// venial occurrences have aggregated into a mortal classification.
func (c *Calculator) ScoreSinAs(sin types.Sin, ev types.SinEvent, gravity types.Gravity) ScoreBreakdown {
	w := c.weights
	var details []Factor

	gravityBase := w.VenialBase
	if gravity == types.GravityMortal {
		gravityBase = w.MortalBase
	}
	base, note := baseWeight(sin.ManualWeightOverride, sin.UnitPerTap, gravityBase, ev.CountIncrement)
	details = append(details, Factor{Category: "base", Name: "Base weight", Value: base, Note: note})

	attention := w.Deliberate
	if ev.Attention == types.AttentionSemiDeliberate {
		attention = w.SemiDeliberate
	}
	details = append(details, Factor{Category: "qualifier", Name: "Attention", Value: attention, Note: string(ev.Attention)})

	var motive float64
	switch ev.Motive {
	case types.MotiveMalice:
		motive = w.Malice
	case types.MotiveIgnorance:
		motive = w.Ignorance
	case types.MotiveFrailty:
		motive = w.Frailty
	default:
		motive = w.Frailty
	}
	details = append(details, Factor{Category: "qualifier", Name: "Motive", Value: motive, Note: string(ev.Motive)})

	responsibility := w.Formal
	if ev.Responsibility == types.ResponsibilityMaterial {
		responsibility = w.Material
	}
	details = append(details, Factor{Category: "qualifier", Name: "Responsibility", Value: responsibility, Note: string(ev.Responsibility)})

	condition := snapshotFactor(ev.AppliedCondicionantes, w.SinConditionBase)
	details = append(details, Factor{
		Category: "condition",
		Name:     "Condicionantes",
		Value:    condition,
		Note:     fmt.Sprintf("k=%d", ev.AppliedCondicionantes.K),
	})

	raw := nonNegative(base * attention * motive * responsibility * condition)
	return ScoreBreakdown{
		Base:            base,
		Attention:       attention,
		Motive:          motive,
		Responsibility:  responsibility,
		Condition:       condition,
		ConditionK:      ev.AppliedCondicionantes.K,
		Raw:             raw,
		Scale:           c.scale,
		Normalized:      raw * c.scale,
		MortalImputable: IsMortalImputable(gravity, ev),
		Details:         details,
	}
}

// ScoreGoodWork scores a good-work occurrence.
func (c *Calculator) ScoreGoodWork(obra types.BuenaObra, ev types.GoodWorkEvent) ScoreBreakdown {
	w := c.weights
	var details []Factor

	base, note := baseWeight(obra.ManualWeightOverride, obra.UnitPerTap, w.GoodWorkBase, ev.CountIncrement)
	details = append(details, Factor{Category: "base", Name: "Base weight", Value: base, Note: note})

	var purity float64
	switch obra.Purity {
	case types.PurityMixed:
		purity = w.PurityMixed
	case types.PuritySelfInterested:
		purity = w.PuritySelfInterested
	case types.PurityPure:
		purity = w.PurityPure
	default:
		purity = w.PurityPure
	}
	details = append(details, Factor{Category: "qualifier", Name: "Purity of intention", Value: purity, Note: string(obra.Purity)})

	var charity float64
	switch obra.Charity {
	case types.CharityLow:
		charity = w.CharityLow
	case types.CharityHigh:
		charity = w.CharityHigh
	case types.CharityMedium:
		charity = w.CharityMedium
	default:
		charity = w.CharityMedium
	}
	details = append(details, Factor{Category: "qualifier", Name: "Charity", Value: charity, Note: string(obra.Charity)})

	quality := w.QualityOrdinary
	if obra.Quality == types.QualityExcellent {
		quality = w.QualityExcellent
	}
	details = append(details, Factor{Category: "qualifier", Name: "Quality", Value: quality, Note: string(obra.Quality)})

	condition := snapshotFactor(ev.AppliedCondicionantes, w.GoodWorkConditionBase)
	details = append(details, Factor{
		Category: "condition",
		Name:     "Condicionantes",
		Value:    condition,
		Note:     fmt.Sprintf("k=%d", ev.AppliedCondicionantes.K),
	})

	raw := nonNegative(base * purity * charity * quality * condition)
	return ScoreBreakdown{
		Base:       base,
		Purity:     purity,
		Charity:    charity,
		Quality:    quality,
		Condition:  condition,
		ConditionK: ev.AppliedCondicionantes.K,
		Raw:        raw,
		Scale:      c.scale,
		Normalized: raw * c.scale,
		Details:    details,
	}
}

// baseWeight resolves the per-occurrence weight: manual override, then
// unit-per-tap, then the gravity default, multiplied by the batch count.
func baseWeight(override, unitPerTap, fallback float64, count int) (float64, string) {
	if count < 1 {
		count = 1
	}
	n := float64(count)
	switch {
	case override > 0:
		return override * n, "manual override"
	case unitPerTap > 0:
		return unitPerTap * n, "unit per tap"
	default:
		return fallback * n, "gravity default"
	}
}

// snapshotFactor returns the persisted factor, deriving it from k only for
// events stored before factors were snapshotted.
func snapshotFactor(applied types.AppliedConditions, base float64) float64 {
	if applied.Factor > 0 {
		return applied.Factor
	}
	if applied.K <= 0 {
		return 1
	}
	return math.Pow(base, float64(applied.K))
}

func nonNegative(v float64) float64 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	return v
}
