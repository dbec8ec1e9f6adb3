package exam

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/dotcommander/magis/internal/counter"
	"github.com/dotcommander/magis/internal/logging"
	"github.com/dotcommander/magis/internal/store"
	"github.com/dotcommander/magis/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

type fixture struct {
	svc   *Service
	store *store.Store
	log   *logging.TestLogger
	sin   types.Sin
	obra  types.BuenaObra
	now   *time.Time
}

func setup(t *testing.T) fixture {
	t.Helper()
	now := time.Date(2026, 4, 10, 21, 0, 0, 0, time.UTC)
	st, err := store.Open(filepath.Join(t.TempDir(), "magis.db"), store.WithClock(func() time.Time { return now }))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	for _, c := range []types.Condicionante{
		{ID: "tired", Name: "Tired", AppliesTo: types.AppliesToBoth},
		{ID: "sick", Name: "Sick", AppliesTo: types.AppliesToSin},
		{ID: "feast", Name: "Feast day", AppliesTo: types.AppliesToGoodWork},
	} {
		_, err := st.SaveCondicionante(c)
		require.NoError(t, err)
	}
	prefs := types.DefaultPreferences()
	prefs.ActiveCondicionanteIDs = []string{"tired", "sick", "feast", "deleted"}
	require.NoError(t, st.SavePreferences(prefs))

	sin, err := st.SaveSin(types.Sin{
		Name:             "Impatience",
		Terms:            []types.Term{types.TermNeighbor},
		Gravities:        []types.Gravity{types.GravityVenial},
		CondicionanteIDs: []string{"tired", "sick", "feast"},
		ResetCycle:       types.ResetCycle{Kind: types.ResetDaily},
	})
	require.NoError(t, err)
	obra, err := st.SaveBuenaObra(types.BuenaObra{
		Name:             "Alms",
		Terms:            []types.Term{types.TermNeighbor},
		CondicionanteIDs: []string{"tired", "sick", "feast"},
	})
	require.NoError(t, err)

	tl := logging.NewTestLogger()
	return fixture{svc: NewService(st, nil, tl.Logger), store: st, log: tl, sin: sin, obra: obra, now: &now}
}

func deliberate(sinID string) SinInput {
	return SinInput{
		SinID:          sinID,
		CountIncrement: 1,
		Attention:      types.AttentionDeliberate,
		Motive:         types.MotiveFrailty,
		Responsibility: types.ResponsibilityFormal,
	}
}

func TestStartSession_ReusesOpen(t *testing.T) {
	f := setup(t)
	a, err := f.svc.StartSession(types.SessionFilter{})
	require.NoError(t, err)
	b, err := f.svc.StartSession(types.SessionFilter{})
	require.NoError(t, err)
	assert.Equal(t, a.ID, b.ID)
}

func TestRegisterSin_SnapshotsConditions(t *testing.T) {
	f := setup(t)
	session, err := f.svc.StartSession(types.SessionFilter{})
	require.NoError(t, err)

	ev, ok := f.svc.RegisterSin(session.ID, deliberate(f.sin.ID))
	require.True(t, ok)
	assert.Equal(t, []string{"sick", "tired"}, ev.AppliedCondicionantes.IDs)
	assert.Equal(t, 2, ev.AppliedCondicionantes.K)
	assert.InDelta(t, 0.64, ev.AppliedCondicionantes.Factor, 1e-9)

	// Changing the profile later does not touch the stored snapshot.
	prefs, err := f.store.Preferences()
	require.NoError(t, err)
	prefs.ActiveCondicionanteIDs = nil
	require.NoError(t, f.store.SavePreferences(prefs))

	got, err := f.store.Session(session.ID)
	require.NoError(t, err)
	require.Len(t, got.SinEvents, 1)
	assert.Equal(t, 2, got.SinEvents[0].AppliedCondicionantes.K)
}

func TestRegisterSin_DefaultsResponsibilityToFormal(t *testing.T) {
	f := setup(t)
	session, err := f.svc.StartSession(types.SessionFilter{})
	require.NoError(t, err)

	ev, ok := f.svc.RegisterSin(session.ID, SinInput{
		SinID:     f.sin.ID,
		Attention: types.AttentionDeliberate,
		Motive:    types.MotiveFrailty,
	})
	require.True(t, ok)
	assert.Equal(t, types.ResponsibilityFormal, ev.Responsibility)
	assert.Equal(t, 1, ev.CountIncrement)

	got, err := f.store.Session(session.ID)
	require.NoError(t, err)
	require.Len(t, got.SinEvents, 1)
	assert.Equal(t, types.ResponsibilityFormal, got.SinEvents[0].Responsibility)
}

func TestRegisterGoodWork_SnapshotsConditions(t *testing.T) {
	f := setup(t)
	session, err := f.svc.StartSession(types.SessionFilter{})
	require.NoError(t, err)

	ev, ok := f.svc.RegisterGoodWork(session.ID, GoodWorkInput{BuenaObraID: f.obra.ID})
	require.True(t, ok)
	assert.Equal(t, []string{"feast", "tired"}, ev.AppliedCondicionantes.IDs)
	assert.InDelta(t, 1.44, ev.AppliedCondicionantes.Factor, 1e-9)
	assert.Equal(t, 1, ev.CountIncrement)
}

func TestRegister_FailuresReturnFalse(t *testing.T) {
	f := setup(t)
	session, err := f.svc.StartSession(types.SessionFilter{})
	require.NoError(t, err)

	_, ok := f.svc.RegisterSin(session.ID, deliberate("missing"))
	assert.False(t, ok)
	f.log.AssertLogged(t, zapcore.ErrorLevel, "register sin failed")

	_, ok = f.svc.RegisterGoodWork("no-session", GoodWorkInput{BuenaObraID: f.obra.ID})
	assert.False(t, ok)
	f.log.AssertLogged(t, zapcore.ErrorLevel, "register good work failed")

	disabled := f.sin
	disabled.Disabled = true
	_, err = f.store.SaveSin(disabled)
	require.NoError(t, err)
	_, ok = f.svc.RegisterSin(session.ID, deliberate(f.sin.ID))
	assert.False(t, ok)

	_, err = f.svc.Complete(session.ID)
	require.NoError(t, err)
	_, ok = f.svc.RegisterGoodWork(session.ID, GoodWorkInput{BuenaObraID: f.obra.ID})
	assert.False(t, ok)
}

func TestUpdateAndRemoveEvent(t *testing.T) {
	f := setup(t)
	session, err := f.svc.StartSession(types.SessionFilter{})
	require.NoError(t, err)
	ev, ok := f.svc.RegisterSin(session.ID, deliberate(f.sin.ID))
	require.True(t, ok)

	changed := ev
	changed.Attention = types.AttentionSemiDeliberate
	changed.AppliedCondicionantes = types.AppliedConditions{}
	assert.True(t, f.svc.UpdateSinEvent(session.ID, changed))

	got, err := f.store.Session(session.ID)
	require.NoError(t, err)
	assert.Equal(t, types.AttentionSemiDeliberate, got.SinEvents[0].Attention)
	assert.Equal(t, 2, got.SinEvents[0].AppliedCondicionantes.K)

	assert.True(t, f.svc.RemoveEvent(session.ID, types.TargetSin, ev.ID))
	assert.False(t, f.svc.RemoveEvent(session.ID, types.TargetSin, ev.ID))
	assert.False(t, f.svc.RemoveEvent(session.ID, "other", ev.ID))
	assert.False(t, f.svc.UpdateSinEvent(session.ID, changed))
}

func TestPromoteFreeform(t *testing.T) {
	f := setup(t)
	session, err := f.svc.StartSession(types.SessionFilter{})
	require.NoError(t, err)

	entry, err := f.svc.AddFreeform(session.ID, types.TargetSin, "  gossip at lunch ")
	require.NoError(t, err)
	assert.Equal(t, "gossip at lunch", entry.Text)

	_, err = f.svc.AddFreeform(session.ID, types.TargetSin, "")
	assert.True(t, errors.Is(err, types.ErrInvalid))

	id, err := f.svc.PromoteFreeform(session.ID, entry.ID, Promotion{Terms: []types.Term{types.TermNeighbor}})
	require.NoError(t, err)

	sin, err := f.store.Sin(id)
	require.NoError(t, err)
	assert.Equal(t, "gossip at lunch", sin.Name)
	assert.Equal(t, []types.Gravity{types.GravityVenial}, sin.Gravities)

	got, err := f.store.Session(session.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Freeform)

	_, err = f.svc.PromoteFreeform(session.ID, entry.ID, Promotion{})
	assert.True(t, errors.Is(err, store.ErrNotFound))

	good, err := f.svc.AddFreeform(session.ID, types.TargetGoodWork, "visited grandmother")
	require.NoError(t, err)
	// Missing terms fail validation and leave the entry in place.
	_, err = f.svc.PromoteFreeform(session.ID, good.ID, Promotion{})
	assert.True(t, errors.Is(err, types.ErrInvalid))
	got, err = f.store.Session(session.ID)
	require.NoError(t, err)
	assert.Len(t, got.Freeform, 1)
}

func TestCount_LiveAndPersisted(t *testing.T) {
	f := setup(t)
	target := counter.Target{Type: types.TargetSin, ID: f.sin.ID}

	first, err := f.svc.StartSession(types.SessionFilter{})
	require.NoError(t, err)
	in := deliberate(f.sin.ID)
	in.CountIncrement = 2
	_, ok := f.svc.RegisterSin(first.ID, in)
	require.True(t, ok)

	c, err := f.svc.Count(target)
	require.NoError(t, err)
	assert.Equal(t, 0, c.Persisted)
	assert.Equal(t, 2, c.Pending)

	_, err = f.svc.Complete(first.ID)
	require.NoError(t, err)

	second, err := f.svc.StartSession(types.SessionFilter{})
	require.NoError(t, err)
	_, ok = f.svc.RegisterSin(second.ID, deliberate(f.sin.ID))
	require.True(t, ok)

	c, err = f.svc.Count(target)
	require.NoError(t, err)
	assert.Equal(t, 2, c.Persisted)
	assert.Equal(t, 1, c.Pending)
	assert.Equal(t, 3, c.Total())

	// Daily reset zeroes history the next day but keeps pending events.
	*f.now = f.now.Add(24 * time.Hour)
	c, err = f.svc.Count(target)
	require.NoError(t, err)
	assert.True(t, c.Reset)
	assert.Equal(t, 1, c.Total())

	_, err = f.svc.Count(counter.Target{Type: types.TargetSin, ID: "missing"})
	assert.True(t, errors.Is(err, store.ErrNotFound))
}
