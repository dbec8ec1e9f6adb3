package metrics

import (
	"sort"

	"github.com/dotcommander/magis/internal/types"
)

// NoteView is a note joined with its target's display name.
type NoteView struct {
	types.Note
	TargetName string `json:"target_name"`
}

// NotesInPeriod returns the notes created inside the period, oldest first.
func NotesInPeriod(notes []types.Note, p Period, cat *Catalog) []NoteView {
	out := make([]NoteView, 0)
	for _, n := range notes {
		if !p.Contains(n.CreatedAt) {
			continue
		}
		out = append(out, NoteView{Note: n, TargetName: cat.TargetName(n.TargetType, n.TargetID)})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}
