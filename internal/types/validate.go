package types

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalid is wrapped by every validation failure in this package.
var ErrInvalid = errors.New("invalid")

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...))
}

// Validate checks the catalog invariants of a sin.
func (s Sin) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return invalid("sin name is empty")
	}
	if len(s.Terms) == 0 {
		return invalid("sin %q has no terms", s.Name)
	}
	for _, t := range s.Terms {
		if !t.Valid() {
			return invalid("sin %q: unknown term %q", s.Name, t)
		}
	}
	for _, g := range s.Gravities {
		if !g.Valid() {
			return invalid("sin %q: unknown gravity %q", s.Name, g)
		}
	}
	for _, m := range s.MateriaTipo {
		if !m.Valid() {
			return invalid("sin %q: unknown materia %q", s.Name, m)
		}
	}
	for _, m := range s.Manifestations {
		if !m.Valid() {
			return invalid("sin %q: unknown manifestation %q", s.Name, m)
		}
	}
	for _, o := range s.ObjectTypes {
		if !o.Valid() {
			return invalid("sin %q: unknown object type %q", s.Name, o)
		}
	}
	for _, m := range s.Modes {
		if !m.Valid() {
			return invalid("sin %q: unknown mode %q", s.Name, m)
		}
	}
	for _, c := range s.CapitalSins {
		if !c.Valid() {
			return invalid("sin %q: unknown capital sin %q", s.Name, c)
		}
	}
	for _, v := range s.OpposedVirtues {
		if !v.Kind.Valid() || strings.TrimSpace(v.Name) == "" {
			return invalid("sin %q: bad opposed virtue %+v", s.Name, v)
		}
	}
	if s.CanAggregateToMortal && s.MortalThresholdUnits <= 0 {
		return invalid("sin %q: mortal threshold must be > 0", s.Name)
	}
	if s.UnitPerTap < 0 || s.ManualWeightOverride < 0 || s.MortalThresholdUnits < 0 {
		return invalid("sin %q: negative weight", s.Name)
	}
	return s.ResetCycle.Validate()
}

// Validate checks the catalog invariants of a good work.
func (b BuenaObra) Validate() error {
	if strings.TrimSpace(b.Name) == "" {
		return invalid("good work name is empty")
	}
	if len(b.Terms) == 0 {
		return invalid("good work %q has no terms", b.Name)
	}
	for _, t := range b.Terms {
		if !t.Valid() {
			return invalid("good work %q: unknown term %q", b.Name, t)
		}
	}
	if b.Purity != "" && !b.Purity.Valid() {
		return invalid("good work %q: unknown purity %q", b.Name, b.Purity)
	}
	if b.Charity != "" && !b.Charity.Valid() {
		return invalid("good work %q: unknown charity %q", b.Name, b.Charity)
	}
	if b.Quality != "" && !b.Quality.Valid() {
		return invalid("good work %q: unknown quality %q", b.Name, b.Quality)
	}
	if b.UnitPerTap < 0 || b.ManualWeightOverride < 0 {
		return invalid("good work %q: negative weight", b.Name)
	}
	return b.ResetCycle.Validate()
}

// Validate checks that a custom cycle has a positive window.
func (r ResetCycle) Validate() error {
	if !r.Kind.Valid() {
		return invalid("unknown reset cycle %q", r.Kind)
	}
	if r.Kind != ResetCustom {
		return nil
	}
	if r.Every <= 0 {
		return invalid("custom reset cycle needs every > 0")
	}
	if !r.Unit.Valid() {
		return invalid("unknown custom reset unit %q", r.Unit)
	}
	return nil
}

// Validate checks the qualifiers of a sin occurrence.
func (e SinEvent) Validate() error {
	if e.SinID == "" {
		return invalid("event has no sin id")
	}
	if e.CountIncrement < 1 {
		return invalid("count increment must be >= 1")
	}
	if !e.Attention.Valid() {
		return invalid("unknown attention %q", e.Attention)
	}
	if !e.Motive.Valid() {
		return invalid("unknown motive %q", e.Motive)
	}
	if !e.Responsibility.Valid() {
		return invalid("unknown responsibility %q", e.Responsibility)
	}
	return nil
}
