// Package exam runs an examination: it opens a session, registers sin and
// good-work occurrences with their condicionantes snapshot, and completes
// the session. Registration reports success as a bool so callers only
// update visible counters after the write is confirmed.
package exam

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dotcommander/magis/internal/counter"
	"github.com/dotcommander/magis/internal/scoring"
	"github.com/dotcommander/magis/internal/store"
	"github.com/dotcommander/magis/internal/types"
	"go.uber.org/zap"
)

// Service coordinates examination writes against the store.
type Service struct {
	store *store.Store
	calc  *scoring.Calculator
	log   *zap.Logger
}

// NewService creates a Service. A nil calculator uses the default weights.
func NewService(st *store.Store, calc *scoring.Calculator, log *zap.Logger) *Service {
	if calc == nil {
		calc = scoring.NewCalculator(nil, 1)
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{store: st, calc: calc, log: log}
}

// SinInput describes one sin occurrence to register.
type SinInput struct {
	SinID          string
	CountIncrement int
	Attention      types.Attention
	Motive         types.Motive
	Responsibility types.Responsibility
	PersonTypeIDs  []string
	ActivityIDs    []string
}

// GoodWorkInput describes one good-work occurrence to register.
type GoodWorkInput struct {
	BuenaObraID    string
	CountIncrement int
	PersonTypeIDs  []string
	ActivityIDs    []string
}

// StartSession opens a new examination. An already open session is
// returned instead of creating a second one.
func (s *Service) StartSession(filter types.SessionFilter) (types.ExamSession, error) {
	open, err := s.store.OpenSession()
	if err == nil {
		return open, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return types.ExamSession{}, fmt.Errorf("start session: %w", err)
	}
	session, err := s.store.CreateSession(filter)
	if err != nil {
		return types.ExamSession{}, fmt.Errorf("start session: %w", err)
	}
	s.log.Debug("session started", zap.String("session", session.ID))
	return session, nil
}

// activeFor returns the profile's active condicionantes that exist in the
// catalog and apply to the given side.
func (s *Service) activeFor(target types.TargetType) ([]string, error) {
	prefs, err := s.store.Preferences()
	if err != nil {
		return nil, err
	}
	catalog, err := s.store.Condicionantes()
	if err != nil {
		return nil, err
	}
	applies := make(map[string]types.AppliesTo, len(catalog))
	for _, c := range catalog {
		applies[c.ID] = c.AppliesTo
	}
	var out []string
	for _, id := range prefs.ActiveCondicionanteIDs {
		if a, ok := applies[id]; ok && a.Matches(target) {
			out = append(out, id)
		}
	}
	return out, nil
}

// RegisterSin records a sin occurrence on an open session. The applied
// condicionantes are computed now and stored with the event.
func (s *Service) RegisterSin(sessionID string, in SinInput) (types.SinEvent, bool) {
	ev, err := s.registerSin(sessionID, in)
	if err != nil {
		s.log.Error("register sin failed",
			zap.String("session", sessionID),
			zap.String("sin", in.SinID),
			zap.Error(err))
		return types.SinEvent{}, false
	}
	s.log.Debug("sin registered", zap.String("session", sessionID), zap.String("event", ev.ID))
	return ev, true
}

func (s *Service) registerSin(sessionID string, in SinInput) (types.SinEvent, error) {
	sin, err := s.store.Sin(in.SinID)
	if err != nil {
		return types.SinEvent{}, err
	}
	if sin.Disabled {
		return types.SinEvent{}, fmt.Errorf("sin %q is disabled", sin.ID)
	}
	active, err := s.activeFor(types.TargetSin)
	if err != nil {
		return types.SinEvent{}, err
	}
	if in.CountIncrement < 1 {
		in.CountIncrement = 1
	}
	// Responsibility is settled during review; until then it is formal.
	if in.Responsibility == "" {
		in.Responsibility = types.ResponsibilityFormal
	}
	ev := types.SinEvent{
		SinID:                 sin.ID,
		CountIncrement:        in.CountIncrement,
		Attention:             in.Attention,
		Motive:                in.Motive,
		Responsibility:        in.Responsibility,
		PersonTypeIDs:         in.PersonTypeIDs,
		ActivityIDs:           in.ActivityIDs,
		AppliedCondicionantes: s.calc.SinConditions(sin, active),
	}
	return s.store.AddSinEvent(sessionID, ev)
}

// RegisterGoodWork records a good-work occurrence on an open session.
func (s *Service) RegisterGoodWork(sessionID string, in GoodWorkInput) (types.GoodWorkEvent, bool) {
	ev, err := s.registerGoodWork(sessionID, in)
	if err != nil {
		s.log.Error("register good work failed",
			zap.String("session", sessionID),
			zap.String("good_work", in.BuenaObraID),
			zap.Error(err))
		return types.GoodWorkEvent{}, false
	}
	s.log.Debug("good work registered", zap.String("session", sessionID), zap.String("event", ev.ID))
	return ev, true
}

func (s *Service) registerGoodWork(sessionID string, in GoodWorkInput) (types.GoodWorkEvent, error) {
	obra, err := s.store.BuenaObra(in.BuenaObraID)
	if err != nil {
		return types.GoodWorkEvent{}, err
	}
	if obra.Disabled {
		return types.GoodWorkEvent{}, fmt.Errorf("good work %q is disabled", obra.ID)
	}
	active, err := s.activeFor(types.TargetGoodWork)
	if err != nil {
		return types.GoodWorkEvent{}, err
	}
	ev := types.GoodWorkEvent{
		BuenaObraID:           obra.ID,
		CountIncrement:        in.CountIncrement,
		PersonTypeIDs:         in.PersonTypeIDs,
		ActivityIDs:           in.ActivityIDs,
		AppliedCondicionantes: s.calc.GoodWorkConditions(obra, active),
	}
	return s.store.AddGoodWorkEvent(sessionID, ev)
}

// UpdateSinEvent changes the qualifiers of a registered sin event. The
// condicionantes snapshot taken at registration is kept.
func (s *Service) UpdateSinEvent(sessionID string, ev types.SinEvent) bool {
	err := func() error {
		session, err := s.store.Session(sessionID)
		if err != nil {
			return err
		}
		for _, existing := range session.SinEvents {
			if existing.ID == ev.ID {
				ev.SinID = existing.SinID
				ev.Timestamp = existing.Timestamp
				ev.AppliedCondicionantes = existing.AppliedCondicionantes
				return s.store.UpdateSinEvent(sessionID, ev)
			}
		}
		return fmt.Errorf("sin event %q: %w", ev.ID, store.ErrNotFound)
	}()
	if err != nil {
		s.log.Error("update sin event failed", zap.String("session", sessionID), zap.String("event", ev.ID), zap.Error(err))
		return false
	}
	return true
}

// RemoveEvent deletes a sin or good-work event from an open session.
func (s *Service) RemoveEvent(sessionID string, kind types.TargetType, eventID string) bool {
	var err error
	switch kind {
	case types.TargetSin:
		err = s.store.RemoveSinEvent(sessionID, eventID)
	case types.TargetGoodWork:
		err = s.store.RemoveGoodWorkEvent(sessionID, eventID)
	default:
		err = fmt.Errorf("%w: event kind %q", types.ErrInvalid, kind)
	}
	if err != nil {
		s.log.Error("remove event failed", zap.String("session", sessionID), zap.String("event", eventID), zap.Error(err))
		return false
	}
	return true
}

// AddFreeform records an uncataloged entry.
func (s *Service) AddFreeform(sessionID string, kind types.TargetType, text string) (types.FreeformEntry, error) {
	if !kind.Valid() {
		return types.FreeformEntry{}, fmt.Errorf("add freeform: %w: kind %q", types.ErrInvalid, kind)
	}
	if strings.TrimSpace(text) == "" {
		return types.FreeformEntry{}, fmt.Errorf("add freeform: %w: text is empty", types.ErrInvalid)
	}
	return s.store.AddFreeform(sessionID, kind, strings.TrimSpace(text))
}

// Promotion holds the catalog fields a freeform entry lacks.
type Promotion struct {
	Terms     []types.Term
	Gravities []types.Gravity
}

// PromoteFreeform turns a freeform entry into a catalog item named after
// its text and removes it from the session. It returns the new item's id.
func (s *Service) PromoteFreeform(sessionID, entryID string, p Promotion) (string, error) {
	session, err := s.store.Session(sessionID)
	if err != nil {
		return "", fmt.Errorf("promote: %w", err)
	}
	var entry *types.FreeformEntry
	for i := range session.Freeform {
		if session.Freeform[i].ID == entryID {
			entry = &session.Freeform[i]
			break
		}
	}
	if entry == nil {
		return "", fmt.Errorf("promote: freeform %q: %w", entryID, store.ErrNotFound)
	}
	if session.Completed() {
		return "", fmt.Errorf("promote: %w", store.ErrSessionClosed)
	}

	var id string
	switch entry.Kind {
	case types.TargetSin:
		gravities := p.Gravities
		if len(gravities) == 0 {
			gravities = []types.Gravity{types.GravityVenial}
		}
		sin, err := s.store.SaveSin(types.Sin{Name: entry.Text, Terms: p.Terms, Gravities: gravities})
		if err != nil {
			return "", fmt.Errorf("promote: %w", err)
		}
		id = sin.ID
	case types.TargetGoodWork:
		obra, err := s.store.SaveBuenaObra(types.BuenaObra{Name: entry.Text, Terms: p.Terms})
		if err != nil {
			return "", fmt.Errorf("promote: %w", err)
		}
		id = obra.ID
	default:
		return "", fmt.Errorf("promote: %w: kind %q", types.ErrInvalid, entry.Kind)
	}

	if _, err := s.store.TakeFreeform(sessionID, entryID); err != nil {
		return id, fmt.Errorf("promote: %w", err)
	}
	s.log.Info("freeform promoted", zap.String("entry", entryID), zap.String("id", id))
	return id, nil
}

// Complete closes the session.
func (s *Service) Complete(sessionID string) (types.ExamSession, error) {
	session, err := s.store.CompleteSession(sessionID)
	if err != nil {
		return types.ExamSession{}, err
	}
	s.log.Info("session completed",
		zap.String("session", session.ID),
		zap.Int("sins", len(session.SinEvents)),
		zap.Int("good_works", len(session.GoodWorkEvents)))
	return session, nil
}

// Count reconciles the displayed count of a catalog item: completed
// history under its reset cycle plus the open session's events.
func (s *Service) Count(target counter.Target) (counter.Count, error) {
	var cycle types.ResetCycle
	switch target.Type {
	case types.TargetSin:
		sin, err := s.store.Sin(target.ID)
		if err != nil {
			return counter.Count{}, fmt.Errorf("count: %w", err)
		}
		cycle = sin.ResetCycle
	case types.TargetGoodWork:
		obra, err := s.store.BuenaObra(target.ID)
		if err != nil {
			return counter.Count{}, fmt.Errorf("count: %w", err)
		}
		cycle = obra.ResetCycle
	default:
		return counter.Count{}, fmt.Errorf("count: %w: target type %q", types.ErrInvalid, target.Type)
	}

	sessions, err := s.store.Sessions()
	if err != nil {
		return counter.Count{}, fmt.Errorf("count: %w", err)
	}
	var open *types.ExamSession
	if o, err := s.store.OpenSession(); err == nil {
		open = &o
	}
	return counter.Live(sessions, open, target, cycle, s.store.Now()), nil
}
