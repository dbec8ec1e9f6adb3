package store

import (
	"fmt"

	"github.com/dotcommander/magis/internal/types"
)

// Preferences returns the stored preferences, or the defaults when none
// have been saved or the record is unreadable.
func (s *Store) Preferences() (types.Preferences, error) {
	if s == nil || s.db == nil {
		return types.Preferences{}, fmt.Errorf("preferences: store is nil")
	}
	raw, err := readRaw(s.db, CollPreferences)
	if err != nil {
		return types.Preferences{}, err
	}
	prefs, _ := decode(s, CollPreferences, raw, types.DefaultPreferences())
	return prefs, nil
}

// SavePreferences replaces the stored preferences.
func (s *Store) SavePreferences(p types.Preferences) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("save preferences: store is nil")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("save preferences: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()
	if err := writeRaw(tx, CollPreferences, p, s.now()); err != nil {
		return fmt.Errorf("save preferences: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save preferences: commit: %w", err)
	}
	s.notify(CollPreferences)
	return nil
}

// Snapshot is the full contents of the store.
type Snapshot struct {
	Sins           []types.Sin           `json:"sins" yaml:"sins"`
	BuenasObras    []types.BuenaObra     `json:"buenasObras" yaml:"buenasObras"`
	PersonTypes    []types.PersonType    `json:"personTypes" yaml:"personTypes"`
	Activities     []types.Activity      `json:"activities" yaml:"activities"`
	Condicionantes []types.Condicionante `json:"condicionantes" yaml:"condicionantes"`
	Sessions       []types.ExamSession   `json:"examSessions" yaml:"examSessions"`
	Notes          []types.Note          `json:"notes" yaml:"notes"`
	Preferences    types.Preferences     `json:"preferences" yaml:"preferences"`
}

// Snapshot reads every collection.
func (s *Store) Snapshot() (Snapshot, error) {
	var snap Snapshot
	var err error
	if snap.Sins, err = s.Sins(); err != nil {
		return Snapshot{}, fmt.Errorf("snapshot: %w", err)
	}
	if snap.BuenasObras, err = s.BuenasObras(); err != nil {
		return Snapshot{}, fmt.Errorf("snapshot: %w", err)
	}
	if snap.PersonTypes, err = s.PersonTypes(); err != nil {
		return Snapshot{}, fmt.Errorf("snapshot: %w", err)
	}
	if snap.Activities, err = s.Activities(); err != nil {
		return Snapshot{}, fmt.Errorf("snapshot: %w", err)
	}
	if snap.Condicionantes, err = s.Condicionantes(); err != nil {
		return Snapshot{}, fmt.Errorf("snapshot: %w", err)
	}
	if snap.Sessions, err = s.Sessions(); err != nil {
		return Snapshot{}, fmt.Errorf("snapshot: %w", err)
	}
	if snap.Notes, err = s.Notes(); err != nil {
		return Snapshot{}, fmt.Errorf("snapshot: %w", err)
	}
	if snap.Preferences, err = s.Preferences(); err != nil {
		return Snapshot{}, fmt.Errorf("snapshot: %w", err)
	}
	return snap, nil
}

// Replace overwrites every collection with the snapshot in one transaction.
func (s *Store) Replace(snap Snapshot) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("replace: store is nil")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("replace: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	at := s.now()
	writes := []struct {
		name string
		v    any
	}{
		{CollSins, nonNil(snap.Sins)},
		{CollBuenasObras, nonNil(snap.BuenasObras)},
		{CollPersonTypes, nonNil(snap.PersonTypes)},
		{CollActivities, nonNil(snap.Activities)},
		{CollCondicionantes, nonNil(snap.Condicionantes)},
		{CollSessions, nonNil(snap.Sessions)},
		{CollNotes, nonNil(snap.Notes)},
		{CollPreferences, snap.Preferences},
	}
	for _, w := range writes {
		if err := writeRaw(tx, w.name, w.v, at); err != nil {
			return fmt.Errorf("replace: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("replace: commit: %w", err)
	}
	for _, name := range Collections() {
		s.notify(name)
	}
	return nil
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
