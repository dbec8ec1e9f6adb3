package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/dotcommander/magis/internal/types"
)

var prefsCmd = &cobra.Command{
	Use:   "prefs",
	Short: "Show or change preferences",
	Long: `Preferences hold the active condicionantes profile and the calibration
settings. The profile is snapshotted into every event when it is registered.`,
}

var prefsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the preferences as YAML",
	Args:  cobra.NoArgs,
	Run:   run(withApp(runPrefsShow)),
}

var prefsSetCmd = &cobra.Command{
	Use:   "set <key=value>...",
	Short: "Change preferences",
	Long: `Keys:
  active                    comma-separated condicionante ids (empty clears)
  target-grade              grade the calibration aims for
  pass-rate-ceiling         largest share of days allowed to pass (0-1)
  calibration-window-days   days of history used by calibrate
  point-scale               points per unit of raw score`,
	Example: `  magis prefs set active=c1,c2
  magis prefs set target-grade=7.5 calibration-window-days=60`,
	Args: cobra.MinimumNArgs(1),
	Run:  run(withApp(runPrefsSet)),
}

func init() {
	prefsCmd.AddCommand(prefsShowCmd, prefsSetCmd)
	rootCmd.AddCommand(prefsCmd)
}

func runPrefsShow(a *app, _ []string) error {
	prefs, err := a.store.Preferences()
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(prefs)
	if err != nil {
		return err
	}
	_, err = stdout.Write(data)
	return err
}

// applyPref sets one key on prefs.
func applyPref(prefs *types.Preferences, key, value string) error {
	number := func() (float64, error) {
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %s=%q is not a number", types.ErrInvalid, key, value)
		}
		return v, nil
	}

	switch key {
	case "active":
		prefs.ActiveCondicionanteIDs = nil
		for _, id := range strings.Split(value, ",") {
			if id = strings.TrimSpace(id); id != "" {
				prefs.ActiveCondicionanteIDs = append(prefs.ActiveCondicionanteIDs, id)
			}
		}
	case "target-grade":
		v, err := number()
		if err != nil {
			return err
		}
		prefs.TargetGrade = v
	case "pass-rate-ceiling":
		v, err := number()
		if err != nil {
			return err
		}
		if v < 0 || v > 1 {
			return fmt.Errorf("%w: pass-rate-ceiling must be between 0 and 1", types.ErrInvalid)
		}
		prefs.PassRateCeiling = v
	case "calibration-window-days":
		v, err := strconv.Atoi(value)
		if err != nil || v < 1 {
			return fmt.Errorf("%w: calibration-window-days must be a positive integer", types.ErrInvalid)
		}
		prefs.CalibrationWindowDays = v
	case "point-scale":
		v, err := number()
		if err != nil {
			return err
		}
		if v <= 0 {
			return fmt.Errorf("%w: point-scale must be positive", types.ErrInvalid)
		}
		prefs.PointScale = v
	default:
		return fmt.Errorf("%w: unknown preference %q", types.ErrInvalid, key)
	}
	return nil
}

func runPrefsSet(a *app, args []string) error {
	prefs, err := a.store.Preferences()
	if err != nil {
		return err
	}
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok {
			return fmt.Errorf("%w: expected key=value, got %q", types.ErrInvalid, arg)
		}
		if err := applyPref(&prefs, strings.TrimSpace(key), strings.TrimSpace(value)); err != nil {
			return err
		}
	}
	if err := a.store.SavePreferences(prefs); err != nil {
		return err
	}
	a.log.Info("preferences saved")
	return nil
}
