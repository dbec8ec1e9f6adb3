package cmd

import (
	"github.com/spf13/cobra"

	"github.com/dotcommander/magis/internal/counter"
	"github.com/dotcommander/magis/internal/output"
	"github.com/dotcommander/magis/internal/types"
)

var countCmd = &cobra.Command{
	Use:   "count <sin|good-work> <id>",
	Short: "Show the running count of a catalog item",
	Long: `Shows the count of a sin or good work: completed-session history after the
item's reset cycle (daily, weekly, monthly, yearly or custom), plus the
occurrences already registered in the open session.`,
	Args: cobra.ExactArgs(2),
	Run:  run(withApp(runCount)),
}

func init() {
	rootCmd.AddCommand(countCmd)
}

func runCount(a *app, args []string) error {
	t, err := parseTarget(args[0])
	if err != nil {
		return err
	}
	c, err := a.service().Count(counter.Target{Type: t, ID: args[1]})
	if err != nil {
		return err
	}

	name := args[1]
	if t == types.TargetSin {
		if sin, err := a.store.Sin(args[1]); err == nil {
			name = sin.Name
		}
	} else if obra, err := a.store.BuenaObra(args[1]); err == nil {
		name = obra.Name
	}
	return a.out.Render(func(f output.Formatter) error { return f.Count(output.NewCountReport(name, c)) })
}
