package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/dotcommander/magis/internal/metrics"
	"github.com/dotcommander/magis/internal/output"
)

var (
	metricsPreset     string
	metricsFrom       string
	metricsTo         string
	metricsFilters    []string
	metricsDimensions []string
)

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Show the grade, trajectories and breakdowns for a period",
	Long: `Aggregates completed examinations over a period and reports the grade,
the grade/good-work/mortal/venial trajectories against the previous period of
equal length, and per-dimension breakdowns.

Filters narrow the events: --filter term=god,neighbor --filter gravity=venial.
Values inside one filter are alternatives; separate filters must all match.`,
	Example: `  magis metrics
  magis metrics --preset 90d --dimension capital-sin
  magis metrics --preset custom --from 2026-01-01 --to 2026-01-31 -f markdown -o jan.md`,
	Args: cobra.NoArgs,
	Run:  run(withApp(runMetrics)),
}

func init() {
	metricsCmd.Flags().StringVar(&metricsPreset, "preset", string(metrics.Preset7d), "Period (7d|30d|90d|1y|custom)")
	metricsCmd.Flags().StringVar(&metricsFrom, "from", "", "Custom period start (YYYY-MM-DD)")
	metricsCmd.Flags().StringVar(&metricsTo, "to", "", "Custom period end, inclusive (YYYY-MM-DD)")
	metricsCmd.Flags().StringArrayVar(&metricsFilters, "filter", nil, "Filter as dimension=value[,value] (repeatable)")
	metricsCmd.Flags().StringSliceVar(&metricsDimensions, "dimension", nil, "Dimensions to plot per-value trajectories for")
	rootCmd.AddCommand(metricsCmd)
}

// resolvePeriod turns the period flags into a window ending at t.
func resolvePeriod(preset, from, to string, t time.Time) (metrics.Period, error) {
	p, err := metrics.ParsePreset(preset)
	if err != nil {
		return metrics.Period{}, err
	}
	if p != metrics.PresetCustom {
		if from != "" || to != "" {
			return metrics.Period{}, fmt.Errorf("--from and --to require --preset custom")
		}
		return metrics.ResolvePeriod(p, t, time.Time{}, time.Time{}), nil
	}

	if from == "" || to == "" {
		return metrics.Period{}, fmt.Errorf("--preset custom requires --from and --to")
	}
	start, err := time.ParseInLocation(time.DateOnly, from, t.Location())
	if err != nil {
		return metrics.Period{}, fmt.Errorf("invalid --from: %w", err)
	}
	end, err := time.ParseInLocation(time.DateOnly, to, t.Location())
	if err != nil {
		return metrics.Period{}, fmt.Errorf("invalid --to: %w", err)
	}
	if end.Before(start) {
		start, end = end, start
	}
	// Include the whole final day.
	end = end.AddDate(0, 0, 1).Add(-time.Nanosecond)
	return metrics.ResolvePeriod(p, t, start, end), nil
}

func runMetrics(a *app, _ []string) error {
	t := now()
	period, err := resolvePeriod(metricsPreset, metricsFrom, metricsTo, t)
	if err != nil {
		return err
	}
	filter, err := metrics.ParseFilter(metricsFilters)
	if err != nil {
		return err
	}
	var dims []metrics.Dimension
	for _, s := range metricsDimensions {
		d, err := metrics.ParseDimension(s)
		if err != nil {
			return err
		}
		dims = append(dims, d)
	}

	in, err := a.input()
	if err != nil {
		return err
	}
	result := metrics.Calculate(in, period, filter, metrics.Options{
		Calculator:           a.calc,
		Grading:              a.cfg.Grading,
		TrajectoryDimensions: dims,
		Now:                  t,
	})
	return a.out.Render(func(f output.Formatter) error { return f.Metrics(result) })
}
