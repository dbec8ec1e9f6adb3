// Package counter computes the running count shown for a catalog item:
// completed-session history subject to the item's reset cycle, plus the
// events of the examination still in progress.
package counter

import (
	"time"

	"github.com/dotcommander/magis/internal/types"
)

const day = 24 * time.Hour

// Target identifies a catalog item.
type Target struct {
	Type types.TargetType `json:"type"`
	ID   string           `json:"id"`
}

// Count is the reconciled count of one item.
type Count struct {
	Target Target `json:"target"`
	// Persisted is the count from completed sessions after the reset rule.
	Persisted int `json:"persisted"`
	// Pending is the count from the in-progress session.
	Pending int `json:"pending"`
	// LastEventAt is the most recent persisted event, nil after a reset.
	LastEventAt *time.Time `json:"last_event_at,omitempty"`
	// Reset reports whether the reset rule zeroed the persisted count.
	Reset bool `json:"reset"`
}

// Total is the number shown to the user.
func (c Count) Total() int { return c.Persisted + c.Pending }

// Window returns the fixed elapsed-time window of a cycle. Daily cycles
// are calendar based and report false, as does a cycle that never resets.
func Window(cycle types.ResetCycle) (time.Duration, bool) {
	switch cycle.Kind {
	case types.ResetWeekly:
		return 7 * day, true
	case types.ResetMonthly:
		return 30 * day, true
	case types.ResetYearly:
		return 365 * day, true
	case types.ResetCustom:
		if cycle.Every <= 0 {
			return 0, false
		}
		n := time.Duration(cycle.Every)
		switch cycle.Unit {
		case types.UnitDays:
			return n * day, true
		case types.UnitWeeks:
			return n * 7 * day, true
		case types.UnitMonths:
			return n * 30 * day, true
		}
	}
	return 0, false
}

// ShouldReset evaluates the cycle against the most recent event.
func ShouldReset(cycle types.ResetCycle, last, now time.Time) bool {
	if cycle.Kind == types.ResetDaily {
		y1, m1, d1 := last.In(now.Location()).Date()
		y2, m2, d2 := now.Date()
		return y1 != y2 || m1 != m2 || d1 != d2
	}
	window, ok := Window(cycle)
	if !ok {
		return false
	}
	return now.Sub(last) > window
}

// Persisted scans completed sessions for the target and applies the reset
// rule. History is never modified; a reset only zeroes the presented count.
func Persisted(sessions []types.ExamSession, target Target, cycle types.ResetCycle, now time.Time) Count {
	c := Count{Target: target}
	var last time.Time
	for _, s := range sessions {
		if !s.Completed() {
			continue
		}
		n, ts := tally(s, target)
		c.Persisted += n
		if n > 0 && ts.After(last) {
			last = ts
		}
	}
	if c.Persisted == 0 {
		return c
	}
	if ShouldReset(cycle, last, now) {
		c.Persisted = 0
		c.Reset = true
		return c
	}
	c.LastEventAt = &last
	return c
}

// Live adds the in-progress session's events on top of the persisted count.
// A nil or already completed session contributes nothing.
func Live(sessions []types.ExamSession, inProgress *types.ExamSession, target Target, cycle types.ResetCycle, now time.Time) Count {
	c := Persisted(sessions, target, cycle, now)
	if inProgress != nil && !inProgress.Completed() {
		c.Pending, _ = tally(*inProgress, target)
	}
	return c
}

// tally sums the count increments of the target's events in one session.
func tally(s types.ExamSession, target Target) (int, time.Time) {
	var n int
	var last time.Time
	add := func(id string, inc int, ts time.Time) {
		if id != target.ID {
			return
		}
		if inc < 1 {
			inc = 1
		}
		n += inc
		if ts.After(last) {
			last = ts
		}
	}
	switch target.Type {
	case types.TargetSin:
		for _, e := range s.SinEvents {
			add(e.SinID, e.CountIncrement, e.Timestamp)
		}
	case types.TargetGoodWork:
		for _, e := range s.GoodWorkEvents {
			add(e.BuenaObraID, e.CountIncrement, e.Timestamp)
		}
	}
	return n, last
}
