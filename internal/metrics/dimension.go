package metrics

import (
	"fmt"
	"time"

	"github.com/dotcommander/magis/internal/scoring"
	"github.com/dotcommander/magis/internal/types"
)

// Dimension is a categorical axis events can be grouped or filtered by.
type Dimension string

const (
	DimTerm              Dimension = "term"
	DimGravity           Dimension = "gravity"
	DimAttention         Dimension = "attention"
	DimMotive            Dimension = "motive"
	DimResponsibility    Dimension = "responsibility"
	DimPersonType        Dimension = "person-type"
	DimActivity          Dimension = "activity"
	DimCapitalSin        Dimension = "capital-sin"
	DimVirtueTheological Dimension = "virtue-theological"
	DimVirtueCardinal    Dimension = "virtue-cardinal"
	DimVirtueAnnex       Dimension = "virtue-annex"
	DimVow               Dimension = "vow"
	DimCondicionante     Dimension = "condicionante"
	DimSpiritualMean     Dimension = "spiritual-mean"
	DimMateriaTipo       Dimension = "materia-tipo"
	DimManifestation     Dimension = "manifestation"
	DimMode              Dimension = "mode"
	DimObjectType        Dimension = "object-type"
	DimPurity            Dimension = "purity"
	DimCharity           Dimension = "charity"
	DimQuality           Dimension = "quality"
	DimSin               Dimension = "sin"
	DimGoodWork          Dimension = "good-work"
)

// SinDimensions are the breakdown tables computed for sin events.
func SinDimensions() []Dimension {
	return []Dimension{
		DimTerm, DimGravity, DimAttention, DimMotive, DimResponsibility,
		DimPersonType, DimActivity, DimCapitalSin,
		DimVirtueTheological, DimVirtueCardinal, DimVirtueAnnex,
		DimVow, DimCondicionante, DimSpiritualMean,
		DimMateriaTipo, DimManifestation, DimMode, DimObjectType,
	}
}

// GoodWorkDimensions are the breakdown tables computed for good-work events.
func GoodWorkDimensions() []Dimension {
	return []Dimension{
		DimTerm, DimPurity, DimCharity, DimQuality,
		DimPersonType, DimActivity, DimCondicionante,
	}
}

// ParseDimension validates a dimension name.
func ParseDimension(s string) (Dimension, error) {
	d := Dimension(s)
	if !d.Valid() {
		return "", fmt.Errorf("invalid dimension %q", s)
	}
	return d, nil
}

func (d Dimension) Valid() bool {
	switch d {
	case DimTerm, DimGravity, DimAttention, DimMotive, DimResponsibility,
		DimPersonType, DimActivity, DimCapitalSin,
		DimVirtueTheological, DimVirtueCardinal, DimVirtueAnnex,
		DimVow, DimCondicionante, DimSpiritualMean,
		DimMateriaTipo, DimManifestation, DimMode, DimObjectType,
		DimPurity, DimCharity, DimQuality, DimSin, DimGoodWork:
		return true
	}
	return false
}

// values maps each dimension to the category values an event carries.
type values map[Dimension][]string

func strs[T ~string](in []T) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		out = append(out, string(v))
	}
	return out
}

func orFallback(own, fallback []string) []string {
	if len(own) > 0 {
		return own
	}
	return fallback
}

// sinValues extracts every dimension value of a sin occurrence. Person-type
// and activity tags on the event take precedence over the sin's defaults.
func sinValues(sin types.Sin, ev types.SinEvent, gravity types.Gravity) values {
	v := values{
		DimTerm:           strs(sin.Terms),
		DimGravity:        {string(gravity)},
		DimAttention:      {string(ev.Attention)},
		DimMotive:         {string(ev.Motive)},
		DimResponsibility: {string(ev.Responsibility)},
		DimPersonType:     orFallback(ev.PersonTypeIDs, sin.PersonTypeIDs),
		DimActivity:       orFallback(ev.ActivityIDs, sin.ActivityIDs),
		DimCapitalSin:     strs(sin.CapitalSins),
		DimVow:            sin.Vows,
		DimCondicionante:  ev.AppliedCondicionantes.IDs,
		DimSpiritualMean:  sin.SpiritualMeans,
		DimMateriaTipo:    strs(sin.MateriaTipo),
		DimManifestation:  strs(sin.Manifestations),
		DimMode:           strs(sin.Modes),
		DimObjectType:     strs(sin.ObjectTypes),
		DimSin:            {sin.ID},
	}
	for _, virtue := range sin.OpposedVirtues {
		switch virtue.Kind {
		case types.VirtueTheological:
			v[DimVirtueTheological] = append(v[DimVirtueTheological], virtue.Name)
		case types.VirtueCardinal:
			v[DimVirtueCardinal] = append(v[DimVirtueCardinal], virtue.Name)
		case types.VirtueAnnex:
			v[DimVirtueAnnex] = append(v[DimVirtueAnnex], virtue.Name)
		}
	}
	return v
}

// goodWorkValues extracts every dimension value of a good-work occurrence.
func goodWorkValues(obra types.BuenaObra, ev types.GoodWorkEvent) values {
	v := values{
		DimTerm:          strs(obra.Terms),
		DimPersonType:    orFallback(ev.PersonTypeIDs, obra.PersonTypeIDs),
		DimActivity:      orFallback(ev.ActivityIDs, obra.ActivityIDs),
		DimCondicionante: ev.AppliedCondicionantes.IDs,
		DimGoodWork:      {obra.ID},
	}
	if obra.Purity != "" {
		v[DimPurity] = []string{string(obra.Purity)}
	}
	if obra.Charity != "" {
		v[DimCharity] = []string{string(obra.Charity)}
	}
	if obra.Quality != "" {
		v[DimQuality] = []string{string(obra.Quality)}
	}
	return v
}

// Kind says which side of the ledger an event sits on.
type Kind string

const (
	KindSin      Kind = "sin"
	KindGoodWork Kind = "goodWork"
	KindGrade    Kind = "grade"
)

// scoredEvent is a resolved, scored, dimension-tagged occurrence.
type scoredEvent struct {
	kind      Kind
	id        string
	targetID  string
	name      string
	timestamp time.Time
	gravity   types.Gravity
	breakdown scoring.ScoreBreakdown
	values    values
}

func (e scoredEvent) points() float64 { return e.breakdown.Normalized }
