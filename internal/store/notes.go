package store

import (
	"fmt"
	"strings"

	"github.com/dotcommander/magis/internal/types"
)

// Notes returns every note.
func (s *Store) Notes() ([]types.Note, error) { return load[types.Note](s, CollNotes) }

// NotesForTarget returns the notes attached to one catalog item.
func (s *Store) NotesForTarget(t types.TargetType, id string) ([]types.Note, error) {
	notes, err := s.Notes()
	if err != nil {
		return nil, err
	}
	out := make([]types.Note, 0)
	for _, n := range notes {
		if n.TargetType == t && n.TargetID == id {
			out = append(out, n)
		}
	}
	return out, nil
}

// AddNote attaches a note to a catalog item.
func (s *Store) AddNote(t types.TargetType, targetID, text string) (types.Note, error) {
	if !t.Valid() || targetID == "" {
		return types.Note{}, fmt.Errorf("add note: %w: bad target %s/%q", types.ErrInvalid, t, targetID)
	}
	if strings.TrimSpace(text) == "" {
		return types.Note{}, fmt.Errorf("add note: %w: text is empty", types.ErrInvalid)
	}
	n := types.Note{ID: newID(), TargetType: t, TargetID: targetID, Text: text, CreatedAt: s.now()}
	if err := upsert(s, CollNotes, n, noteID); err != nil {
		return types.Note{}, fmt.Errorf("add note: %w", err)
	}
	return n, nil
}

// DeleteNote removes a note.
func (s *Store) DeleteNote(id string) error { return remove(s, CollNotes, id, noteID) }
