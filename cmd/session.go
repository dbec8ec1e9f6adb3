package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dotcommander/magis/internal/counter"
	"github.com/dotcommander/magis/internal/exam"
	"github.com/dotcommander/magis/internal/output"
	"github.com/dotcommander/magis/internal/types"
)

var (
	sessionID      string
	sessionPersons []string
	sessionActs    []string
	sessionSins    []string

	eventCount          int
	eventAttention      string
	eventMotive         string
	eventResponsibility string

	promoteTerms     []string
	promoteGravities []string
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Run an examination session",
	Long: `An examination session collects sin and good-work occurrences. Each
occurrence snapshots the condicionantes active at that moment, so later
profile changes never rescore history.

Commands that take --session default to the currently open session.`,
}

var sessionStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Open a session (or return the one already open)",
	Args:  cobra.NoArgs,
	Run:   run(withApp(runSessionStart)),
}

var sessionAddSinCmd = &cobra.Command{
	Use:   "add-sin <sin-id>",
	Short: "Register a sin occurrence",
	Args:  cobra.ExactArgs(1),
	Run:   run(withApp(runSessionAddSin)),
}

var sessionAddGoodCmd = &cobra.Command{
	Use:   "add-good <good-work-id>",
	Short: "Register a good-work occurrence",
	Args:  cobra.ExactArgs(1),
	Run:   run(withApp(runSessionAddGood)),
}

var sessionRemoveCmd = &cobra.Command{
	Use:   "remove-event <sin|good-work> <event-id>",
	Short: "Remove an event from the session",
	Args:  cobra.ExactArgs(2),
	Run:   run(withApp(runSessionRemove)),
}

var sessionFreeformCmd = &cobra.Command{
	Use:   "freeform <sin|good-work> <text...>",
	Short: "Record an uncataloged entry",
	Args:  cobra.MinimumNArgs(2),
	Run:   run(withApp(runSessionFreeform)),
}

var sessionPromoteCmd = &cobra.Command{
	Use:   "promote <entry-id>",
	Short: "Turn a freeform entry into a catalog item",
	Args:  cobra.ExactArgs(1),
	Run:   run(withApp(runSessionPromote)),
}

var sessionCompleteCmd = &cobra.Command{
	Use:   "complete",
	Short: "Close the session",
	Args:  cobra.NoArgs,
	Run:   run(withApp(runSessionComplete)),
}

var sessionListCmd = &cobra.Command{
	Use:   "list",
	Short: "List sessions",
	Args:  cobra.NoArgs,
	Run:   run(withApp(runSessionList)),
}

func init() {
	sessionStartCmd.Flags().StringSliceVar(&sessionPersons, "person-type", nil, "Restrict to these person-type ids")
	sessionStartCmd.Flags().StringSliceVar(&sessionActs, "activity", nil, "Restrict to these activity ids")
	sessionStartCmd.Flags().StringSliceVar(&sessionSins, "sin", nil, "Restrict to these sin ids")

	for _, c := range []*cobra.Command{sessionAddSinCmd, sessionAddGoodCmd, sessionRemoveCmd, sessionFreeformCmd, sessionPromoteCmd, sessionCompleteCmd} {
		c.Flags().StringVar(&sessionID, "session", "", "Session id (default: the open session)")
	}
	for _, c := range []*cobra.Command{sessionAddSinCmd, sessionAddGoodCmd} {
		c.Flags().IntVarP(&eventCount, "count", "n", 1, "Number of occurrences")
		c.Flags().StringSliceVar(&sessionPersons, "person-type", nil, "Person-type ids involved")
		c.Flags().StringSliceVar(&sessionActs, "activity", nil, "Activity ids involved")
	}
	sessionAddSinCmd.Flags().StringVar(&eventAttention, "attention", string(types.AttentionDeliberate), "deliberate|semi-deliberate")
	sessionAddSinCmd.Flags().StringVar(&eventMotive, "motive", string(types.MotiveFrailty), "frailty|malice|ignorance")
	sessionAddSinCmd.Flags().StringVar(&eventResponsibility, "responsibility", string(types.ResponsibilityFormal), "formal|material")

	sessionPromoteCmd.Flags().StringSliceVar(&promoteTerms, "term", nil, "Terms of the new item (god|neighbor|self)")
	sessionPromoteCmd.Flags().StringSliceVar(&promoteGravities, "gravity", nil, "Gravities of a promoted sin (default venial)")

	sessionCmd.AddCommand(sessionStartCmd, sessionAddSinCmd, sessionAddGoodCmd, sessionRemoveCmd,
		sessionFreeformCmd, sessionPromoteCmd, sessionCompleteCmd, sessionListCmd)
	rootCmd.AddCommand(sessionCmd)
}

func runSessionStart(a *app, _ []string) error {
	s, err := a.service().StartSession(types.SessionFilter{
		PersonTypeIDs: sessionPersons,
		ActivityIDs:   sessionActs,
		SinIDs:        sessionSins,
	})
	if err != nil {
		return err
	}
	return a.out.Render(func(f output.Formatter) error { return f.Sessions([]types.ExamSession{s}) })
}

// showCount prints the item's updated count after a registration.
func (a *app) showCount(svc *exam.Service, t types.TargetType, id, name string) error {
	c, err := svc.Count(counter.Target{Type: t, ID: id})
	if err != nil {
		return err
	}
	return a.out.Render(func(f output.Formatter) error { return f.Count(output.NewCountReport(name, c)) })
}

func runSessionAddSin(a *app, args []string) error {
	id, err := a.sessionOrOpen(sessionID)
	if err != nil {
		return err
	}
	sin, err := a.store.Sin(args[0])
	if err != nil {
		return err
	}
	svc := a.service()
	_, ok := svc.RegisterSin(id, exam.SinInput{
		SinID:          sin.ID,
		CountIncrement: eventCount,
		Attention:      types.Attention(eventAttention),
		Motive:         types.Motive(eventMotive),
		Responsibility: types.Responsibility(eventResponsibility),
		PersonTypeIDs:  sessionPersons,
		ActivityIDs:    sessionActs,
	})
	if !ok {
		return fmt.Errorf("sin %q was not registered", sin.Name)
	}
	return a.showCount(svc, types.TargetSin, sin.ID, sin.Name)
}

func runSessionAddGood(a *app, args []string) error {
	id, err := a.sessionOrOpen(sessionID)
	if err != nil {
		return err
	}
	obra, err := a.store.BuenaObra(args[0])
	if err != nil {
		return err
	}
	svc := a.service()
	_, ok := svc.RegisterGoodWork(id, exam.GoodWorkInput{
		BuenaObraID:    obra.ID,
		CountIncrement: eventCount,
		PersonTypeIDs:  sessionPersons,
		ActivityIDs:    sessionActs,
	})
	if !ok {
		return fmt.Errorf("good work %q was not registered", obra.Name)
	}
	return a.showCount(svc, types.TargetGoodWork, obra.ID, obra.Name)
}

func runSessionRemove(a *app, args []string) error {
	t, err := parseTarget(args[0])
	if err != nil {
		return err
	}
	id, err := a.sessionOrOpen(sessionID)
	if err != nil {
		return err
	}
	if !a.service().RemoveEvent(id, t, args[1]) {
		return fmt.Errorf("event %q was not removed", args[1])
	}
	return nil
}

func runSessionFreeform(a *app, args []string) error {
	t, err := parseTarget(args[0])
	if err != nil {
		return err
	}
	id, err := a.sessionOrOpen(sessionID)
	if err != nil {
		return err
	}
	entry, err := a.service().AddFreeform(id, t, strings.Join(args[1:], " "))
	if err != nil {
		return err
	}
	if !a.cfg.Quiet {
		fmt.Fprintf(stdout, "%s\n", entry.ID)
	}
	return nil
}

func runSessionPromote(a *app, args []string) error {
	id, err := a.sessionOrOpen(sessionID)
	if err != nil {
		return err
	}
	p := exam.Promotion{}
	for _, t := range promoteTerms {
		p.Terms = append(p.Terms, types.Term(t))
	}
	for _, g := range promoteGravities {
		p.Gravities = append(p.Gravities, types.Gravity(g))
	}
	newID, err := a.service().PromoteFreeform(id, args[0], p)
	if err != nil {
		if errors.Is(err, types.ErrInvalid) && len(p.Terms) == 0 {
			return fmt.Errorf("%w (pass --term)", err)
		}
		return err
	}
	if !a.cfg.Quiet {
		fmt.Fprintf(stdout, "%s\n", newID)
	}
	return nil
}

func runSessionComplete(a *app, _ []string) error {
	id, err := a.sessionOrOpen(sessionID)
	if err != nil {
		return err
	}
	s, err := a.service().Complete(id)
	if err != nil {
		return err
	}
	return a.out.Render(func(f output.Formatter) error { return f.Sessions([]types.ExamSession{s}) })
}

func runSessionList(a *app, _ []string) error {
	sessions, err := a.store.Sessions()
	if err != nil {
		return err
	}
	return a.out.Render(func(f output.Formatter) error { return f.Sessions(sessions) })
}
