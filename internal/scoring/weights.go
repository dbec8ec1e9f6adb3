package scoring

import "fmt"

// Weights holds every magnitude used by the scoring formula. None of these
// are hard truths; they are calibration constants loaded from config.
type Weights struct {
	MortalBase float64 `mapstructure:"mortal_base" json:"mortal_base" yaml:"mortal_base"`
	VenialBase float64 `mapstructure:"venial_base" json:"venial_base" yaml:"venial_base"`

	Deliberate     float64 `mapstructure:"deliberate" json:"deliberate" yaml:"deliberate"`
	SemiDeliberate float64 `mapstructure:"semi_deliberate" json:"semi_deliberate" yaml:"semi_deliberate"`

	Malice    float64 `mapstructure:"malice" json:"malice" yaml:"malice"`
	Frailty   float64 `mapstructure:"frailty" json:"frailty" yaml:"frailty"`
	Ignorance float64 `mapstructure:"ignorance" json:"ignorance" yaml:"ignorance"`

	Formal   float64 `mapstructure:"formal" json:"formal" yaml:"formal"`
	Material float64 `mapstructure:"material" json:"material" yaml:"material"`

	// SinConditionBase is raised to k for sins (attenuating, < 1).
	SinConditionBase float64 `mapstructure:"sin_condition_base" json:"sin_condition_base" yaml:"sin_condition_base"`
	// GoodWorkConditionBase is raised to k for good works (amplifying, > 1).
	GoodWorkConditionBase float64 `mapstructure:"good_work_condition_base" json:"good_work_condition_base" yaml:"good_work_condition_base"`

	GoodWorkBase float64 `mapstructure:"good_work_base" json:"good_work_base" yaml:"good_work_base"`

	PurityPure           float64 `mapstructure:"purity_pure" json:"purity_pure" yaml:"purity_pure"`
	PurityMixed          float64 `mapstructure:"purity_mixed" json:"purity_mixed" yaml:"purity_mixed"`
	PuritySelfInterested float64 `mapstructure:"purity_self_interested" json:"purity_self_interested" yaml:"purity_self_interested"`

	CharityLow    float64 `mapstructure:"charity_low" json:"charity_low" yaml:"charity_low"`
	CharityMedium float64 `mapstructure:"charity_medium" json:"charity_medium" yaml:"charity_medium"`
	CharityHigh   float64 `mapstructure:"charity_high" json:"charity_high" yaml:"charity_high"`

	QualityOrdinary  float64 `mapstructure:"quality_ordinary" json:"quality_ordinary" yaml:"quality_ordinary"`
	QualityExcellent float64 `mapstructure:"quality_excellent" json:"quality_excellent" yaml:"quality_excellent"`
}

// DefaultWeights returns the stock calibration.
func DefaultWeights() Weights {
	return Weights{
		MortalBase:            3.0,
		VenialBase:            1.0,
		Deliberate:            1.0,
		SemiDeliberate:        0.5,
		Malice:                1.5,
		Frailty:               1.0,
		Ignorance:             0.25,
		Formal:                1.0,
		Material:              0.3,
		SinConditionBase:      0.80,
		GoodWorkConditionBase: 1.20,
		GoodWorkBase:          1.0,
		PurityPure:            1.0,
		PurityMixed:           0.7,
		PuritySelfInterested:  0.4,
		CharityLow:            0.75,
		CharityMedium:         1.0,
		CharityHigh:           1.5,
		QualityOrdinary:       1.0,
		QualityExcellent:      1.25,
	}
}

// Validate enforces the orderings the engine relies on.
func (w Weights) Validate() error {
	positive := map[string]float64{
		"mortal_base": w.MortalBase, "venial_base": w.VenialBase,
		"deliberate": w.Deliberate, "semi_deliberate": w.SemiDeliberate,
		"malice": w.Malice, "frailty": w.Frailty, "ignorance": w.Ignorance,
		"formal": w.Formal, "material": w.Material,
		"good_work_base": w.GoodWorkBase,
		"purity_pure": w.PurityPure, "purity_mixed": w.PurityMixed, "purity_self_interested": w.PuritySelfInterested,
		"charity_low": w.CharityLow, "charity_medium": w.CharityMedium, "charity_high": w.CharityHigh,
		"quality_ordinary": w.QualityOrdinary, "quality_excellent": w.QualityExcellent,
	}
	for name, v := range positive {
		if v <= 0 {
			return fmt.Errorf("weight %s must be > 0, got %v", name, v)
		}
	}
	if w.MortalBase <= w.VenialBase {
		return fmt.Errorf("mortal_base (%v) must exceed venial_base (%v)", w.MortalBase, w.VenialBase)
	}
	if w.Deliberate <= w.SemiDeliberate {
		return fmt.Errorf("deliberate (%v) must exceed semi_deliberate (%v)", w.Deliberate, w.SemiDeliberate)
	}
	if !(w.Malice > w.Frailty && w.Frailty > w.Ignorance) {
		return fmt.Errorf("motive weights must order malice > frailty > ignorance")
	}
	if w.Formal <= w.Material {
		return fmt.Errorf("formal (%v) must exceed material (%v)", w.Formal, w.Material)
	}
	if w.SinConditionBase <= 0 || w.SinConditionBase >= 1 {
		return fmt.Errorf("sin_condition_base must be in (0,1), got %v", w.SinConditionBase)
	}
	if w.GoodWorkConditionBase <= 1 {
		return fmt.Errorf("good_work_condition_base must be > 1, got %v", w.GoodWorkConditionBase)
	}
	return nil
}
