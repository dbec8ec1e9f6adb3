package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dotcommander/magis/internal/metrics"
	"github.com/dotcommander/magis/internal/scoring"
)

var calibrateDryRun bool

var calibrateCmd = &cobra.Command{
	Use:   "calibrate",
	Short: "Fit the point scale to recent history",
	Long: `Computes a point scale from the daily raw sin totals of the calibration
window so that a typical day lands on the target grade and no more than the
pass-rate ceiling of days would pass. The new scale applies to every grade,
past periods included.`,
	Args: cobra.NoArgs,
	Run:  run(withApp(runCalibrate)),
}

func init() {
	calibrateCmd.Flags().BoolVar(&calibrateDryRun, "dry-run", false, "Print the scale without saving it")
	rootCmd.AddCommand(calibrateCmd)
}

func runCalibrate(a *app, _ []string) error {
	prefs, err := a.store.Preferences()
	if err != nil {
		return err
	}
	in, err := a.input()
	if err != nil {
		return err
	}

	daily := metrics.DailyRawTotals(in, a.calc, now(), prefs.CalibrationWindowDays)
	old := prefs.PointScale
	prefs.PointScale = scoring.Calibrate(daily, prefs, a.cfg.Grading)
	a.log.Info("calibrated",
		zap.Int("days", len(daily)),
		zap.Float64("old_scale", old),
		zap.Float64("new_scale", prefs.PointScale))

	if !calibrateDryRun {
		if err := a.store.SavePreferences(prefs); err != nil {
			return err
		}
	}
	if a.cfg.Quiet {
		fmt.Fprintf(stdout, "%.4f\n", prefs.PointScale)
		return nil
	}
	fmt.Fprintf(stdout, "point scale %.4f -> %.4f over %d days", old, prefs.PointScale, len(daily))
	if calibrateDryRun {
		fmt.Fprint(stdout, " (not saved)")
	}
	fmt.Fprintln(stdout)
	return nil
}
