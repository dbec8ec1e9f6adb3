package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dotcommander/magis/internal/metrics"
	"github.com/dotcommander/magis/internal/output"
	"github.com/dotcommander/magis/internal/types"
)

var noteCmd = &cobra.Command{
	Use:   "note",
	Short: "Attach notes to catalog items",
}

var noteAddCmd = &cobra.Command{
	Use:   "add <sin|good-work> <id> <text...>",
	Short: "Add a note to a sin or good work",
	Args:  cobra.MinimumNArgs(3),
	Run:   run(withApp(runNoteAdd)),
}

var noteListCmd = &cobra.Command{
	Use:   "list [<sin|good-work> <id>]",
	Short: "List notes, oldest first",
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) != 0 && len(args) != 2 {
			return fmt.Errorf("accepts no arguments or a target type and id, received %d", len(args))
		}
		return nil
	},
	Run: run(withApp(runNoteList)),
}

var noteDeleteCmd = &cobra.Command{
	Use:   "delete <note-id>",
	Short: "Delete a note",
	Args:  cobra.ExactArgs(1),
	Run:   run(withApp(runNoteDelete)),
}

func init() {
	noteCmd.AddCommand(noteAddCmd, noteListCmd, noteDeleteCmd)
	rootCmd.AddCommand(noteCmd)
}

func runNoteAdd(a *app, args []string) error {
	t, err := parseTarget(args[0])
	if err != nil {
		return err
	}
	if t == types.TargetSin {
		_, err = a.store.Sin(args[1])
	} else {
		_, err = a.store.BuenaObra(args[1])
	}
	if err != nil {
		return err
	}
	n, err := a.store.AddNote(t, args[1], strings.Join(args[2:], " "))
	if err != nil {
		return err
	}
	if !a.cfg.Quiet {
		fmt.Fprintf(stdout, "%s\n", n.ID)
	}
	return nil
}

func runNoteList(a *app, args []string) error {
	in, err := a.input()
	if err != nil {
		return err
	}
	notes := in.Notes
	if len(args) == 2 {
		t, err := parseTarget(args[0])
		if err != nil {
			return err
		}
		if notes, err = a.store.NotesForTarget(t, args[1]); err != nil {
			return err
		}
	}
	views := metrics.NotesInPeriod(notes, span(notes), metrics.NewCatalog(in))
	return a.out.Render(func(f output.Formatter) error { return f.Notes(views) })
}

// span is the smallest period holding every note.
func span(notes []types.Note) metrics.Period {
	var p metrics.Period
	for i, n := range notes {
		if i == 0 || n.CreatedAt.Before(p.Start) {
			p.Start = n.CreatedAt
		}
		if i == 0 || n.CreatedAt.After(p.End) {
			p.End = n.CreatedAt
		}
	}
	if p.End.IsZero() {
		p.End = now()
	}
	p.Label = "all notes"
	p.Preset = metrics.PresetCustom
	return p
}

func runNoteDelete(a *app, args []string) error {
	if err := a.store.DeleteNote(args[0]); err != nil {
		return err
	}
	if !a.cfg.Quiet {
		fmt.Fprintf(stdout, "deleted note %s\n", args[0])
	}
	return nil
}
