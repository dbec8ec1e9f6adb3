// Package metrics aggregates the examination log into period grades,
// trajectories and per-dimension breakdowns. Every function here is total:
// empty logs, empty catalogs and fully filtered-out sets produce zero results.
package metrics

import (
	"fmt"
	"math"
	"time"
)

// Preset names a standard reporting window.
type Preset string

const (
	Preset7d     Preset = "7d"
	Preset30d    Preset = "30d"
	Preset90d    Preset = "90d"
	Preset1y     Preset = "1y"
	PresetCustom Preset = "custom"
)

// ParsePreset validates a preset name.
func ParsePreset(s string) (Preset, error) {
	switch p := Preset(s); p {
	case Preset7d, Preset30d, Preset90d, Preset1y, PresetCustom:
		return p, nil
	}
	return "", fmt.Errorf("invalid preset %q: valid presets are 7d, 30d, 90d, 1y, custom", s)
}

func (p Preset) days() int {
	switch p {
	case Preset7d:
		return 7
	case Preset30d:
		return 30
	case Preset90d:
		return 90
	case Preset1y:
		return 365
	case PresetCustom:
		return 0
	}
	return 0
}

// Period is a closed reporting window [Start, End].
type Period struct {
	Preset Preset    `json:"preset"`
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
	Label  string    `json:"label"`
}

// ResolvePeriod turns a preset into a concrete window ending at now. For
// PresetCustom the start and end are used as given (swapped if reversed).
func ResolvePeriod(preset Preset, now, start, end time.Time) Period {
	if preset == PresetCustom {
		if end.Before(start) {
			start, end = end, start
		}
		return Period{
			Preset: preset,
			Start:  start,
			End:    end,
			Label:  fmt.Sprintf("%s – %s", start.Format("2006-01-02"), end.Format("2006-01-02")),
		}
	}
	days := preset.days()
	if days == 0 {
		preset, days = Preset7d, 7
	}
	return Period{
		Preset: preset,
		Start:  now.AddDate(0, 0, -days),
		End:    now,
		Label:  fmt.Sprintf("last %d days", days),
	}
}

// Duration is the length of the window.
func (p Period) Duration() time.Duration {
	return p.End.Sub(p.Start)
}

// Days is the window length in whole days, rounded up, at least 1.
func (p Period) Days() int {
	d := int(math.Ceil(p.Duration().Hours() / 24))
	if d < 1 {
		return 1
	}
	return d
}

// Contains reports whether t falls inside the window, bounds included.
func (p Period) Contains(t time.Time) bool {
	return !t.Before(p.Start) && !t.After(p.End)
}

// Previous returns the window of equal length immediately preceding p.
func (p Period) Previous() Period {
	d := p.Duration()
	prev := Period{
		Preset: p.Preset,
		Start:  p.Start.Add(-d),
		End:    p.Start.Add(-time.Nanosecond),
	}
	prev.Label = fmt.Sprintf("previous %s", p.Label)
	return prev
}
