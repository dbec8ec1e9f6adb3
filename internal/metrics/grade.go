package metrics

import (
	"time"

	"github.com/dotcommander/magis/internal/scoring"
	"github.com/dotcommander/magis/internal/types"
)

// DetailItem is one event's contribution to the grade.
type DetailItem struct {
	EventID         string        `json:"event_id"`
	TargetID        string        `json:"target_id"`
	Name            string        `json:"name"`
	Timestamp       time.Time     `json:"timestamp"`
	Points          float64       `json:"points"`
	Gravity         types.Gravity `json:"gravity,omitempty"`
	MortalImputable bool          `json:"mortal_imputable,omitempty"`
}

// GradeResult is the period grade with its audit trail.
type GradeResult struct {
	Grade        float64 `json:"grade"`
	FullMark     float64 `json:"full_mark"`
	Penalty      float64 `json:"penalty"`
	Bonus        float64 `json:"bonus"`
	Recovered    float64 `json:"recovered"`
	MortalCapped bool    `json:"mortal_capped"`
	Passed       bool    `json:"passed"`
	Tier         string  `json:"tier"`

	PecadosDetail     []DetailItem `json:"pecados_detail"`
	BuenasObrasDetail []DetailItem `json:"buenas_obras_detail"`
}

// computeGrade starts at the full mark, subtracts sin points and adds back
// good-work points up to what was lost. Any mortally imputable event caps
// the result at the mortal ceiling.
func computeGrade(sins, goods []scoredEvent, g scoring.Grading) GradeResult {
	res := GradeResult{
		FullMark:          g.FullMark,
		PecadosDetail:     make([]DetailItem, 0, len(sins)),
		BuenasObrasDetail: make([]DetailItem, 0, len(goods)),
	}

	mortal := false
	for _, e := range sins {
		res.Penalty += e.points()
		mortal = mortal || e.breakdown.MortalImputable
		res.PecadosDetail = append(res.PecadosDetail, detail(e))
	}
	for _, e := range goods {
		res.Bonus += e.points()
		res.BuenasObrasDetail = append(res.BuenasObrasDetail, detail(e))
	}

	res.Recovered = res.Bonus
	if !g.AllowOverflow && res.Recovered > res.Penalty {
		res.Recovered = res.Penalty
	}

	grade := g.FullMark - res.Penalty + res.Recovered
	if grade < 0 {
		grade = 0
	}
	if mortal && grade > g.MortalCeiling {
		grade = g.MortalCeiling
		res.MortalCapped = true
	}

	res.Grade = round2(grade)
	res.Penalty = round2(res.Penalty)
	res.Bonus = round2(res.Bonus)
	res.Recovered = round2(res.Recovered)
	res.Passed = res.Grade >= g.PassBar
	res.Tier = scoring.TierFromGrade(res.Grade, g.FullMark)
	return res
}

func detail(e scoredEvent) DetailItem {
	return DetailItem{
		EventID:         e.id,
		TargetID:        e.targetID,
		Name:            e.name,
		Timestamp:       e.timestamp,
		Points:          round2(e.points()),
		Gravity:         e.gravity,
		MortalImputable: e.breakdown.MortalImputable,
	}
}
