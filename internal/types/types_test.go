package types

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSinValidate(t *testing.T) {
	valid := Sin{Name: "Impatience", Terms: []Term{TermNeighbor}, Gravities: []Gravity{GravityVenial}, UnitPerTap: 1}

	tests := []struct {
		name    string
		mutate  func(s *Sin)
		wantErr bool
	}{
		{"valid", func(s *Sin) {}, false},
		{"empty name", func(s *Sin) { s.Name = "  " }, true},
		{"no terms", func(s *Sin) { s.Terms = nil }, true},
		{"unknown term", func(s *Sin) { s.Terms = []Term{"angels"} }, true},
		{"unknown gravity", func(s *Sin) { s.Gravities = []Gravity{"grave"} }, true},
		{"aggregate without threshold", func(s *Sin) { s.CanAggregateToMortal = true }, true},
		{"aggregate with threshold", func(s *Sin) { s.CanAggregateToMortal = true; s.MortalThresholdUnits = 5 }, false},
		{"negative override", func(s *Sin) { s.ManualWeightOverride = -1 }, true},
		{"bad virtue", func(s *Sin) { s.OpposedVirtues = []VirtueRef{{Kind: "minor", Name: "x"}} }, true},
		{"custom cycle without window", func(s *Sin) { s.ResetCycle = ResetCycle{Kind: ResetCustom} }, true},
		{"custom cycle", func(s *Sin) { s.ResetCycle = ResetCycle{Kind: ResetCustom, Every: 2, Unit: UnitWeeks} }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := valid
			tt.mutate(&s)
			err := s.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalid))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestBuenaObraValidate(t *testing.T) {
	b := BuenaObra{Name: "Visit the sick", Terms: []Term{TermNeighbor}, Purity: PurityPure}
	assert.NoError(t, b.Validate())

	b.Charity = "enormous"
	assert.ErrorIs(t, b.Validate(), ErrInvalid)
}

func TestSinEventValidate(t *testing.T) {
	e := SinEvent{SinID: "s1", CountIncrement: 1, Attention: AttentionDeliberate, Motive: MotiveFrailty, Responsibility: ResponsibilityFormal}
	assert.NoError(t, e.Validate())

	e.CountIncrement = 0
	assert.Error(t, e.Validate())
}

func TestAppliesToMatches(t *testing.T) {
	assert.True(t, AppliesToBoth.Matches(TargetSin))
	assert.True(t, AppliesTo("").Matches(TargetGoodWork))
	assert.True(t, AppliesToSin.Matches(TargetSin))
	assert.False(t, AppliesToSin.Matches(TargetGoodWork))
	assert.False(t, AppliesToGoodWork.Matches(TargetSin))
}

func TestEnumListsAreValid(t *testing.T) {
	for _, v := range Terms() {
		assert.True(t, v.Valid(), v)
	}
	for _, v := range CapitalSins() {
		assert.True(t, v.Valid(), v)
	}
	for _, v := range Motives() {
		assert.True(t, v.Valid(), v)
	}
	assert.Len(t, CapitalSins(), 7)
}
