package scoring

import (
	"math"
	"testing"

	"github.com/dotcommander/magis/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func venialSin() types.Sin {
	return types.Sin{
		ID:               "impatience",
		Name:             "Impatience",
		Terms:            []types.Term{types.TermNeighbor},
		Gravities:        []types.Gravity{types.GravityVenial},
		UnitPerTap:       1,
		CondicionanteIDs: []string{"tired", "sick", "stress"},
	}
}

func baseEvent() types.SinEvent {
	return types.SinEvent{
		SinID:          "impatience",
		CountIncrement: 1,
		Attention:      types.AttentionDeliberate,
		Motive:         types.MotiveFrailty,
		Responsibility: types.ResponsibilityFormal,
	}
}

func TestScoreSin_DefaultWeights(t *testing.T) {
	c := NewCalculator(nil, 1)
	got := c.ScoreSin(venialSin(), baseEvent())

	assert.InDelta(t, 1.0, got.Base, 1e-9)
	assert.InDelta(t, 1.0, got.Condition, 1e-9)
	assert.InDelta(t, 1.0, got.Normalized, 1e-9)
	assert.False(t, got.MortalImputable)
	assert.Len(t, got.Details, 5)
}

func TestScoreSin_BaseWeightPrecedence(t *testing.T) {
	c := NewCalculator(nil, 1)
	ev := baseEvent()
	ev.CountIncrement = 3

	tests := []struct {
		name     string
		mutate   func(s *types.Sin)
		wantBase float64
	}{
		{"manual override wins", func(s *types.Sin) { s.ManualWeightOverride = 2.5 }, 7.5},
		{"unit per tap", func(s *types.Sin) { s.UnitPerTap = 2 }, 6},
		{"venial default", func(s *types.Sin) { s.UnitPerTap = 0 }, 3},
		{"mortal default", func(s *types.Sin) {
			s.UnitPerTap = 0
			s.Gravities = []types.Gravity{types.GravityMortal}
		}, 9},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := venialSin()
			tt.mutate(&s)
			assert.InDelta(t, tt.wantBase, c.ScoreSin(s, ev).Base, 1e-9)
		})
	}
}

func TestScoreSin_QualifierOrdering(t *testing.T) {
	c := NewCalculator(nil, 1)
	sin := venialSin()
	score := func(mut func(e *types.SinEvent)) float64 {
		ev := baseEvent()
		mut(&ev)
		return c.ScoreSin(sin, ev).Normalized
	}

	deliberate := score(func(e *types.SinEvent) {})
	semi := score(func(e *types.SinEvent) { e.Attention = types.AttentionSemiDeliberate })
	assert.Greater(t, deliberate, semi)

	malice := score(func(e *types.SinEvent) { e.Motive = types.MotiveMalice })
	ignorance := score(func(e *types.SinEvent) { e.Motive = types.MotiveIgnorance })
	assert.Greater(t, malice, deliberate)
	assert.Greater(t, deliberate, ignorance)

	material := score(func(e *types.SinEvent) { e.Responsibility = types.ResponsibilityMaterial })
	assert.Greater(t, deliberate, material)
}

func TestScoreSin_NonNegative(t *testing.T) {
	c := NewCalculator(nil, 0.3)
	sin := venialSin()
	for _, a := range types.Attentions() {
		for _, m := range types.Motives() {
			for _, r := range types.Responsibilities() {
				for k := 0; k <= 3; k++ {
					ev := baseEvent()
					ev.Attention, ev.Motive, ev.Responsibility = a, m, r
					ev.AppliedCondicionantes = c.SinConditions(sin, []string{"tired", "sick", "stress"}[:k])
					assert.GreaterOrEqual(t, c.ScoreSin(sin, ev).Normalized, 0.0)
				}
			}
		}
	}
}

func TestConditionMonotonicity(t *testing.T) {
	c := NewCalculator(nil, 1)
	sin := venialSin()
	obra := types.BuenaObra{ID: "alms", Name: "Alms", Terms: []types.Term{types.TermNeighbor}, CondicionanteIDs: sin.CondicionanteIDs}
	active := []string{"tired", "sick", "stress"}

	prevSin := math.Inf(1)
	prevGood := math.Inf(-1)
	for k := 0; k <= len(active); k++ {
		ev := baseEvent()
		ev.AppliedCondicionantes = c.SinConditions(sin, active[:k])
		require.Equal(t, k, ev.AppliedCondicionantes.K)
		s := c.ScoreSin(sin, ev).Normalized
		assert.Less(t, s, prevSin, "k=%d", k)
		prevSin = s

		gev := types.GoodWorkEvent{BuenaObraID: "alms", CountIncrement: 1, AppliedCondicionantes: c.GoodWorkConditions(obra, active[:k])}
		g := c.ScoreGoodWork(obra, gev).Normalized
		assert.Greater(t, g, prevGood, "k=%d", k)
		prevGood = g
	}
}

func TestConditionFactor(t *testing.T) {
	got := ConditionFactor([]string{"b", "x", "a", "a"}, []string{"a", "b", "c"}, 0.8)
	assert.Equal(t, []string{"a", "b"}, got.IDs)
	assert.Equal(t, 2, got.K)
	assert.InDelta(t, 0.64, got.Factor, 1e-9)

	none := ConditionFactor(nil, []string{"a"}, 0.8)
	assert.Equal(t, 0, none.K)
	assert.InDelta(t, 1.0, none.Factor, 1e-9)
}

func TestScoreSin_UsesSnapshotNotRecomputed(t *testing.T) {
	c := NewCalculator(nil, 1)
	ev := baseEvent()
	ev.AppliedCondicionantes = types.AppliedConditions{IDs: []string{"tired"}, K: 1, Factor: 0.8}

	// The sin's compatible list changing later must not alter the result.
	sin := venialSin()
	sin.CondicionanteIDs = nil
	assert.InDelta(t, 0.8, c.ScoreSin(sin, ev).Normalized, 1e-9)

	legacy := baseEvent()
	legacy.AppliedCondicionantes = types.AppliedConditions{K: 2}
	assert.InDelta(t, 0.64, c.ScoreSin(sin, legacy).Condition, 1e-9)
}

func TestIsMortalImputable(t *testing.T) {
	ev := baseEvent()
	assert.True(t, IsMortalImputable(types.GravityMortal, ev))
	assert.False(t, IsMortalImputable(types.GravityVenial, ev))

	semi := ev
	semi.Attention = types.AttentionSemiDeliberate
	assert.False(t, IsMortalImputable(types.GravityMortal, semi))

	material := ev
	material.Responsibility = types.ResponsibilityMaterial
	assert.False(t, IsMortalImputable(types.GravityMortal, material))

	ignorant := ev
	ignorant.Motive = types.MotiveIgnorance
	assert.False(t, IsMortalImputable(types.GravityMortal, ignorant))

	malice := ev
	malice.Motive = types.MotiveMalice
	assert.True(t, IsMortalImputable(types.GravityMortal, malice))
}

func TestScoreSin_UnsetResponsibilityIsFormal(t *testing.T) {
	c := NewCalculator(nil, 1)
	sin := venialSin()
	sin.Gravities = []types.Gravity{types.GravityMortal}

	ev := baseEvent()
	ev.Motive = types.MotiveMalice
	ev.Responsibility = ""

	got := c.ScoreSin(sin, ev)
	assert.InDelta(t, DefaultWeights().Formal, got.Responsibility, 1e-9)
	assert.True(t, got.MortalImputable)
	assert.True(t, IsMortalImputable(types.GravityMortal, ev))
}

func TestEffectiveGravity(t *testing.T) {
	both := venialSin()
	both.Gravities = []types.Gravity{types.GravityMortal, types.GravityVenial}

	ev := baseEvent()
	assert.Equal(t, types.GravityMortal, EffectiveGravity(both, ev))
	ev.Attention = types.AttentionSemiDeliberate
	assert.Equal(t, types.GravityVenial, EffectiveGravity(both, ev))

	assert.Equal(t, types.GravityVenial, EffectiveGravity(venialSin(), baseEvent()))

	mortalOnly := venialSin()
	mortalOnly.Gravities = []types.Gravity{types.GravityMortal}
	assert.Equal(t, types.GravityMortal, EffectiveGravity(mortalOnly, ev))
	assert.True(t, NewCalculator(nil, 1).ScoreSin(mortalOnly, baseEvent()).MortalImputable)
}

func TestScoreGoodWork(t *testing.T) {
	calc := NewCalculator(nil, 2)
	obra := types.BuenaObra{ID: "alms", Name: "Alms", Terms: []types.Term{types.TermNeighbor}, Purity: types.PurityMixed, Charity: types.CharityHigh, Quality: types.QualityExcellent, UnitPerTap: 2}
	got := calc.ScoreGoodWork(obra, types.GoodWorkEvent{CountIncrement: 1})

	want := 2 * 0.7 * 1.5 * 1.25
	assert.InDelta(t, want, got.Raw, 1e-9)
	assert.InDelta(t, want*2, got.Normalized, 1e-9)
	assert.False(t, got.MortalImputable)
}

func TestNewCalculator_BadScale(t *testing.T) {
	assert.Equal(t, 1.0, NewCalculator(nil, 0).Scale())
	assert.Equal(t, 1.0, NewCalculator(nil, math.NaN()).Scale())
	assert.Equal(t, 0.5, NewCalculator(nil, 0.5).Scale())
}

func TestWeightsValidate(t *testing.T) {
	assert.NoError(t, DefaultWeights().Validate())

	w := DefaultWeights()
	w.SemiDeliberate = 2
	assert.Error(t, w.Validate())

	w = DefaultWeights()
	w.SinConditionBase = 1.2
	assert.Error(t, w.Validate())

	w = DefaultWeights()
	w.Ignorance = 0
	assert.Error(t, w.Validate())
}
