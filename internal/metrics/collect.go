package metrics

import (
	"sort"

	"github.com/dotcommander/magis/internal/scoring"
	"github.com/dotcommander/magis/internal/types"
)

// Input is the snapshot of every collection the engine reads.
type Input struct {
	Sins           []types.Sin
	BuenasObras    []types.BuenaObra
	PersonTypes    []types.PersonType
	Activities     []types.Activity
	Condicionantes []types.Condicionante
	Sessions       []types.ExamSession
	Notes          []types.Note
}

// Catalog indexes the catalog collections by id.
type Catalog struct {
	sins           map[string]types.Sin
	obras          map[string]types.BuenaObra
	personTypes    map[string]string
	activities     map[string]string
	condicionantes map[string]string
}

// NewCatalog indexes a snapshot.
func NewCatalog(in Input) *Catalog {
	c := &Catalog{
		sins:           make(map[string]types.Sin, len(in.Sins)),
		obras:          make(map[string]types.BuenaObra, len(in.BuenasObras)),
		personTypes:    make(map[string]string, len(in.PersonTypes)),
		activities:     make(map[string]string, len(in.Activities)),
		condicionantes: make(map[string]string, len(in.Condicionantes)),
	}
	for _, s := range in.Sins {
		c.sins[s.ID] = s
	}
	for _, b := range in.BuenasObras {
		c.obras[b.ID] = b
	}
	for _, p := range in.PersonTypes {
		c.personTypes[p.ID] = p.Name
	}
	for _, a := range in.Activities {
		c.activities[a.ID] = a.Name
	}
	for _, k := range in.Condicionantes {
		c.condicionantes[k.ID] = k.Name
	}
	return c
}

// Sin looks a sin up by its current id.
func (c *Catalog) Sin(id string) (types.Sin, bool) {
	s, ok := c.sins[id]
	return s, ok
}

// BuenaObra looks a good work up by its current id.
func (c *Catalog) BuenaObra(id string) (types.BuenaObra, bool) {
	b, ok := c.obras[id]
	return b, ok
}

// Label renders a dimension value for display, falling back to the raw
// value when a referenced entity no longer exists.
func (c *Catalog) Label(dim Dimension, value string) string {
	var names map[string]string
	switch dim {
	case DimPersonType:
		names = c.personTypes
	case DimActivity:
		names = c.activities
	case DimCondicionante:
		names = c.condicionantes
	case DimSin:
		if s, ok := c.sins[value]; ok {
			return s.Name
		}
		return value
	case DimGoodWork:
		if b, ok := c.obras[value]; ok {
			return b.Name
		}
		return value
	default:
		return value
	}
	if name, ok := names[value]; ok && name != "" {
		return name
	}
	return value
}

// TargetName resolves a note target for display.
func (c *Catalog) TargetName(t types.TargetType, id string) string {
	switch t {
	case types.TargetSin:
		return c.Label(DimSin, id)
	case types.TargetGoodWork:
		return c.Label(DimGoodWork, id)
	}
	return id
}

// collection is the outcome of resolving and scoring one period.
type collection struct {
	sins    []scoredEvent
	goods   []scoredEvent
	orphans int
}

// collect selects completed sessions started inside the period, resolves
// each event against the current catalog, scores it and applies the filter.
// Events pointing at deleted catalog items are counted and dropped.
func collect(sessions []types.ExamSession, cat *Catalog, calc *scoring.Calculator, p Period, f Filter) collection {
	var out collection
	var sinEvents []types.SinEvent
	var goodEvents []types.GoodWorkEvent

	for _, s := range sessions {
		if !s.Completed() || !p.Contains(s.StartedAt) {
			continue
		}
		sinEvents = append(sinEvents, s.SinEvents...)
		goodEvents = append(goodEvents, s.GoodWorkEvents...)
	}

	sort.SliceStable(sinEvents, func(i, j int) bool {
		return sinEvents[i].Timestamp.Before(sinEvents[j].Timestamp)
	})

	accumulated := make(map[string]float64)
	for _, ev := range sinEvents {
		sin, ok := cat.Sin(ev.SinID)
		if !ok {
			out.orphans++
			continue
		}
		gravity := scoring.EffectiveGravity(sin, ev)
		if sin.CanAggregateToMortal && gravity == types.GravityVenial && sin.MortalThresholdUnits > 0 {
			accumulated[sin.ID] += units(sin.UnitPerTap, ev.CountIncrement)
			if accumulated[sin.ID] >= sin.MortalThresholdUnits {
				gravity = types.GravityMortal
			}
		}
		se := scoredEvent{
			kind:      KindSin,
			id:        ev.ID,
			targetID:  sin.ID,
			name:      sin.Name,
			timestamp: ev.Timestamp,
			gravity:   gravity,
			breakdown: calc.ScoreSinAs(sin, ev, gravity),
			values:    sinValues(sin, ev, gravity),
		}
		if f.Matches(se.values) {
			out.sins = append(out.sins, se)
		}
	}

	for _, ev := range goodEvents {
		obra, ok := cat.BuenaObra(ev.BuenaObraID)
		if !ok {
			out.orphans++
			continue
		}
		ge := scoredEvent{
			kind:      KindGoodWork,
			id:        ev.ID,
			targetID:  obra.ID,
			name:      obra.Name,
			timestamp: ev.Timestamp,
			breakdown: calc.ScoreGoodWork(obra, ev),
			values:    goodWorkValues(obra, ev),
		}
		if f.Matches(ge.values) {
			out.goods = append(out.goods, ge)
		}
	}
	sort.SliceStable(out.goods, func(i, j int) bool {
		return out.goods[i].timestamp.Before(out.goods[j].timestamp)
	})

	return out
}

func units(unitPerTap float64, count int) float64 {
	if count < 1 {
		count = 1
	}
	if unitPerTap <= 0 {
		unitPerTap = 1
	}
	return unitPerTap * float64(count)
}
