package scoring

// ScoreBreakdown is the audited result of scoring one event.
type ScoreBreakdown struct {
	Base            float64  `json:"base"`
	Attention       float64  `json:"attention,omitempty"`
	Motive          float64  `json:"motive,omitempty"`
	Responsibility  float64  `json:"responsibility,omitempty"`
	Purity          float64  `json:"purity,omitempty"`
	Charity         float64  `json:"charity,omitempty"`
	Quality         float64  `json:"quality,omitempty"`
	Condition       float64  `json:"condition"`
	ConditionK      int      `json:"condition_k"`
	Raw             float64  `json:"raw"`
	Scale           float64  `json:"scale"`
	Normalized      float64  `json:"normalized"`
	MortalImputable bool     `json:"mortal_imputable"`
	Details         []Factor `json:"details"`
}

// Factor is one line of a breakdown.
type Factor struct {
	Category string  `json:"category"` // base, qualifier, condition
	Name     string  `json:"name"`
	Value    float64 `json:"value"`
	Note     string  `json:"note,omitempty"`
}

// Grading holds the period-grade rules.
type Grading struct {
	FullMark      float64 `mapstructure:"full_mark" json:"full_mark" yaml:"full_mark"`
	PassBar       float64 `mapstructure:"pass_bar" json:"pass_bar" yaml:"pass_bar"`
	MortalCeiling float64 `mapstructure:"mortal_ceiling" json:"mortal_ceiling" yaml:"mortal_ceiling"`
	// AllowOverflow lets good works raise the grade above FullMark.
	AllowOverflow bool `mapstructure:"allow_overflow" json:"allow_overflow" yaml:"allow_overflow"`
}

// DefaultGrading returns a 0-10 scale with a 4.9 mortal ceiling.
func DefaultGrading() Grading {
	return Grading{
		FullMark:      10,
		PassBar:       5,
		MortalCeiling: 4.9,
	}
}

// TierFromGrade returns the display tier for a 0-10 grade.
func TierFromGrade(grade, fullMark float64) string {
	if fullMark <= 0 {
		fullMark = 10
	}
	pct := grade / fullMark * 100
	switch {
	case pct >= 85:
		return "A"
	case pct >= 70:
		return "B"
	case pct >= 50:
		return "C"
	case pct >= 30:
		return "D"
	default:
		return "F"
	}
}
