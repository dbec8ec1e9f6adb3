package store

import (
	"fmt"
	"sort"
	"time"

	"github.com/dotcommander/magis/internal/types"
)

// Sessions returns every examination session, oldest first.
func (s *Store) Sessions() ([]types.ExamSession, error) {
	sessions, err := load[types.ExamSession](s, CollSessions)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(sessions, func(i, j int) bool {
		return sessions[i].StartedAt.Before(sessions[j].StartedAt)
	})
	return sessions, nil
}

// Session returns one session by id.
func (s *Store) Session(id string) (types.ExamSession, error) {
	return find(s, CollSessions, id, sessionKey)
}

// OpenSession returns the most recently started session that is not
// completed, or ErrNotFound.
func (s *Store) OpenSession() (types.ExamSession, error) {
	sessions, err := s.Sessions()
	if err != nil {
		return types.ExamSession{}, err
	}
	for i := len(sessions) - 1; i >= 0; i-- {
		if !sessions[i].Completed() {
			return sessions[i], nil
		}
	}
	return types.ExamSession{}, fmt.Errorf("open session: %w", ErrNotFound)
}

// CreateSession starts a new examination.
func (s *Store) CreateSession(filter types.SessionFilter) (types.ExamSession, error) {
	session := types.ExamSession{
		ID:             newID(),
		StartedAt:      s.now(),
		Filter:         filter,
		SinEvents:      []types.SinEvent{},
		GoodWorkEvents: []types.GoodWorkEvent{},
	}
	err := mutate(s, CollSessions, func(items []types.ExamSession) ([]types.ExamSession, error) {
		return append(items, session), nil
	})
	if err != nil {
		return types.ExamSession{}, fmt.Errorf("create session: %w", err)
	}
	return session, nil
}

// updateOpen applies fn to an open session.
func (s *Store) updateOpen(id string, fn func(*types.ExamSession) error) error {
	return mutate(s, CollSessions, func(items []types.ExamSession) ([]types.ExamSession, error) {
		i := indexOf(items, id, sessionKey)
		if i < 0 {
			return nil, fmt.Errorf("session %q: %w", id, ErrNotFound)
		}
		if items[i].Completed() {
			return nil, fmt.Errorf("session %q: %w", id, ErrSessionClosed)
		}
		if err := fn(&items[i]); err != nil {
			return nil, err
		}
		return items, nil
	})
}

// AddSinEvent appends a sin event to an open session. The event gets an id
// and timestamp when they are unset.
func (s *Store) AddSinEvent(sessionID string, ev types.SinEvent) (types.SinEvent, error) {
	if ev.ID == "" {
		ev.ID = newID()
	}
	if ev.Timestamp.IsZero() {
		ev.Timestamp = s.now()
	}
	if err := ev.Validate(); err != nil {
		return types.SinEvent{}, fmt.Errorf("add sin event: %w", err)
	}
	err := s.updateOpen(sessionID, func(session *types.ExamSession) error {
		session.SinEvents = append(session.SinEvents, ev)
		return nil
	})
	if err != nil {
		return types.SinEvent{}, fmt.Errorf("add sin event: %w", err)
	}
	return ev, nil
}

// UpdateSinEvent replaces a sin event of an open session.
func (s *Store) UpdateSinEvent(sessionID string, ev types.SinEvent) error {
	if err := ev.Validate(); err != nil {
		return fmt.Errorf("update sin event: %w", err)
	}
	err := s.updateOpen(sessionID, func(session *types.ExamSession) error {
		for i := range session.SinEvents {
			if session.SinEvents[i].ID == ev.ID {
				session.SinEvents[i] = ev
				return nil
			}
		}
		return fmt.Errorf("sin event %q: %w", ev.ID, ErrNotFound)
	})
	if err != nil {
		return fmt.Errorf("update sin event: %w", err)
	}
	return nil
}

// RemoveSinEvent deletes a sin event from an open session.
func (s *Store) RemoveSinEvent(sessionID, eventID string) error {
	err := s.updateOpen(sessionID, func(session *types.ExamSession) error {
		for i := range session.SinEvents {
			if session.SinEvents[i].ID == eventID {
				session.SinEvents = append(session.SinEvents[:i], session.SinEvents[i+1:]...)
				return nil
			}
		}
		return fmt.Errorf("sin event %q: %w", eventID, ErrNotFound)
	})
	if err != nil {
		return fmt.Errorf("remove sin event: %w", err)
	}
	return nil
}

// AddGoodWorkEvent appends a good-work event to an open session.
func (s *Store) AddGoodWorkEvent(sessionID string, ev types.GoodWorkEvent) (types.GoodWorkEvent, error) {
	if ev.ID == "" {
		ev.ID = newID()
	}
	if ev.Timestamp.IsZero() {
		ev.Timestamp = s.now()
	}
	if ev.BuenaObraID == "" {
		return types.GoodWorkEvent{}, fmt.Errorf("add good work event: %w: good work id is empty", types.ErrInvalid)
	}
	if ev.CountIncrement < 1 {
		ev.CountIncrement = 1
	}
	err := s.updateOpen(sessionID, func(session *types.ExamSession) error {
		session.GoodWorkEvents = append(session.GoodWorkEvents, ev)
		return nil
	})
	if err != nil {
		return types.GoodWorkEvent{}, fmt.Errorf("add good work event: %w", err)
	}
	return ev, nil
}

// RemoveGoodWorkEvent deletes a good-work event from an open session.
func (s *Store) RemoveGoodWorkEvent(sessionID, eventID string) error {
	err := s.updateOpen(sessionID, func(session *types.ExamSession) error {
		for i := range session.GoodWorkEvents {
			if session.GoodWorkEvents[i].ID == eventID {
				session.GoodWorkEvents = append(session.GoodWorkEvents[:i], session.GoodWorkEvents[i+1:]...)
				return nil
			}
		}
		return fmt.Errorf("good work event %q: %w", eventID, ErrNotFound)
	})
	if err != nil {
		return fmt.Errorf("remove good work event: %w", err)
	}
	return nil
}

// AddFreeform records an uncataloged entry on an open session.
func (s *Store) AddFreeform(sessionID string, kind types.TargetType, text string) (types.FreeformEntry, error) {
	entry := types.FreeformEntry{ID: newID(), Kind: kind, Text: text, CreatedAt: s.now()}
	err := s.updateOpen(sessionID, func(session *types.ExamSession) error {
		session.Freeform = append(session.Freeform, entry)
		return nil
	})
	if err != nil {
		return types.FreeformEntry{}, fmt.Errorf("add freeform: %w", err)
	}
	return entry, nil
}

// TakeFreeform removes a freeform entry from an open session and returns it.
func (s *Store) TakeFreeform(sessionID, entryID string) (types.FreeformEntry, error) {
	var taken types.FreeformEntry
	err := s.updateOpen(sessionID, func(session *types.ExamSession) error {
		for i, e := range session.Freeform {
			if e.ID == entryID {
				taken = e
				session.Freeform = append(session.Freeform[:i], session.Freeform[i+1:]...)
				return nil
			}
		}
		return fmt.Errorf("freeform %q: %w", entryID, ErrNotFound)
	})
	if err != nil {
		return types.FreeformEntry{}, fmt.Errorf("take freeform: %w", err)
	}
	return taken, nil
}

// CompleteSession closes a session. Completed sessions are frozen.
func (s *Store) CompleteSession(id string) (types.ExamSession, error) {
	var done types.ExamSession
	err := s.updateOpen(id, func(session *types.ExamSession) error {
		end := s.now()
		if end.Before(session.StartedAt) {
			end = session.StartedAt
		}
		session.EndedAt = &end
		done = *session
		return nil
	})
	if err != nil {
		return types.ExamSession{}, fmt.Errorf("complete session: %w", err)
	}
	return done, nil
}

// DeleteSession removes a session and its events.
func (s *Store) DeleteSession(id string) error {
	return remove(s, CollSessions, id, sessionKey)
}

// Now returns the current time of the store clock.
func (s *Store) Now() time.Time { return s.now() }
