package cmd

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/dotcommander/magis/internal/config"
	"github.com/dotcommander/magis/internal/exam"
	"github.com/dotcommander/magis/internal/logging"
	"github.com/dotcommander/magis/internal/metrics"
	"github.com/dotcommander/magis/internal/outputters"
	"github.com/dotcommander/magis/internal/scoring"
	"github.com/dotcommander/magis/internal/store"
	"github.com/dotcommander/magis/internal/types"
)

// app bundles what every command needs: configuration, the open store and
// the output dispatcher.
type app struct {
	cfg   *config.Config
	log   *zap.Logger
	store *store.Store
	calc  *scoring.Calculator
	out   *outputters.Outputter
}

// now is the clock used by commands.
var now = time.Now

func newApp() (*app, error) {
	cfg, err := config.LoadConfig(dataPath)
	if err != nil {
		return nil, fmt.Errorf("error loading configuration: %w", err)
	}
	if cfg.Verbose && cfg.Log.Level == logging.NewDefaultConfig().Level {
		cfg.Log.Level = "info"
	}

	log, err := logging.NewWithWriter(cfg.Log, stderr)
	if err != nil {
		return nil, fmt.Errorf("error creating logger: %w", err)
	}

	st, err := store.Open(cfg.Data, store.WithLogger(log), store.WithClock(now))
	if err != nil {
		return nil, fmt.Errorf("error opening data file: %w", err)
	}

	prefs, err := st.Preferences()
	if err != nil {
		_ = st.Close()
		return nil, err
	}
	log.Debug("store opened", zap.String("path", cfg.Data), zap.Float64("point_scale", prefs.PointScale))
	st.Subscribe(func(collection string) {
		log.Debug("collection changed", zap.String("collection", collection))
	})

	return &app{
		cfg:   cfg,
		log:   log,
		store: st,
		calc:  scoring.NewCalculator(&cfg.Scoring, prefs.PointScale),
		out:   outputters.NewOutputterTo(cfg, stdout),
	}, nil
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		a.log.Warn("close store", zap.Error(err))
	}
	_ = a.log.Sync()
}

func (a *app) service() *exam.Service {
	return exam.NewService(a.store, a.calc, a.log)
}

// withApp opens the app for the duration of fn.
func withApp(fn func(a *app, args []string) error) func(args []string) error {
	return func(args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()
		return fn(a, args)
	}
}

// input reads the whole store into a metrics input.
func (a *app) input() (metrics.Input, error) {
	var in metrics.Input
	var err error
	if in.Sins, err = a.store.Sins(); err != nil {
		return in, err
	}
	if in.BuenasObras, err = a.store.BuenasObras(); err != nil {
		return in, err
	}
	if in.PersonTypes, err = a.store.PersonTypes(); err != nil {
		return in, err
	}
	if in.Activities, err = a.store.Activities(); err != nil {
		return in, err
	}
	if in.Condicionantes, err = a.store.Condicionantes(); err != nil {
		return in, err
	}
	if in.Sessions, err = a.store.Sessions(); err != nil {
		return in, err
	}
	if in.Notes, err = a.store.Notes(); err != nil {
		return in, err
	}
	return in, nil
}

// parseTarget accepts the user-facing spellings of a target type.
func parseTarget(s string) (types.TargetType, error) {
	switch s {
	case "sin", "sins":
		return types.TargetSin, nil
	case "goodWork", "good-work", "goodwork", "good":
		return types.TargetGoodWork, nil
	}
	return "", fmt.Errorf("%w: target %q must be sin or good-work", types.ErrInvalid, s)
}

// sessionOrOpen returns id, or the open session's id when id is empty.
func (a *app) sessionOrOpen(id string) (string, error) {
	if id != "" {
		return id, nil
	}
	s, err := a.store.OpenSession()
	if err != nil {
		return "", fmt.Errorf("no open session; run 'magis session start' first: %w", err)
	}
	return s.ID, nil
}
