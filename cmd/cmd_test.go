package cmd

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dotcommander/magis/internal/metrics"
	"github.com/dotcommander/magis/internal/types"
)

var testNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

// setupCmd points the commands at a fresh database and captures stdout.
// It returns the captured output and a pointer to the last exit code.
func setupCmd(t *testing.T) (*bytes.Buffer, *int) {
	t.Helper()
	viper.Reset()

	oldData, oldOut, oldErr, oldExit, oldNow := dataPath, stdout, stderr, exitFunc, now
	buf := &bytes.Buffer{}
	code := -1
	dataPath = filepath.Join(t.TempDir(), "magis.db")
	stdout = buf
	stderr = io.Discard
	exitFunc = func(c int) { code = c }
	now = func() time.Time { return testNow }

	t.Cleanup(func() {
		dataPath, stdout, stderr, exitFunc, now = oldData, oldOut, oldErr, oldExit, oldNow
		viper.Reset()
	})
	return buf, &code
}

// decodeReport parses a JSON report and returns its data section.
func decodeReport(t *testing.T, buf *bytes.Buffer, kind string) map[string]any {
	t.Helper()
	var report struct {
		Kind string         `json:"kind"`
		Data map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &report), buf.String())
	assert.Equal(t, kind, report.Kind)
	buf.Reset()
	return report.Data
}

func seedSin(t *testing.T, sin types.Sin) types.Sin {
	t.Helper()
	var saved types.Sin
	require.NoError(t, withApp(func(a *app, _ []string) error {
		var err error
		saved, err = a.store.SaveSin(sin)
		return err
	})(nil))
	return saved
}

func TestCommandsRegistered(t *testing.T) {
	want := []string{"metrics", "session", "count", "catalog", "note", "prefs", "calibrate", "backup", "config"}
	for _, name := range want {
		c, _, err := rootCmd.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, c.Name())
		assert.NotEmpty(t, c.Short, name)
	}
}

func TestParseTarget(t *testing.T) {
	tests := []struct {
		in      string
		want    types.TargetType
		wantErr bool
	}{
		{"sin", types.TargetSin, false},
		{"sins", types.TargetSin, false},
		{"good-work", types.TargetGoodWork, false},
		{"goodWork", types.TargetGoodWork, false},
		{"good", types.TargetGoodWork, false},
		{"virtue", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseTarget(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, types.ErrInvalid)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolvePeriod(t *testing.T) {
	tests := []struct {
		name      string
		preset    string
		from, to  string
		wantStart time.Time
		wantEnd   time.Time
		wantErr   string
	}{
		{
			name:      "preset",
			preset:    "30d",
			wantStart: testNow.AddDate(0, 0, -30),
			wantEnd:   testNow,
		},
		{
			name:      "custom end covers the whole day",
			preset:    "custom",
			from:      "2026-01-01",
			to:        "2026-01-31",
			wantStart: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC).Add(-time.Nanosecond),
		},
		{
			name:      "custom reversed dates",
			preset:    "custom",
			from:      "2026-01-31",
			to:        "2026-01-01",
			wantStart: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC).Add(-time.Nanosecond),
		},
		{name: "custom without dates", preset: "custom", wantErr: "requires --from and --to"},
		{name: "dates without custom", preset: "7d", from: "2026-01-01", wantErr: "require --preset custom"},
		{name: "bad date", preset: "custom", from: "01/01/2026", to: "2026-01-31", wantErr: "invalid --from"},
		{name: "bad preset", preset: "2w", wantErr: "2w"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := resolvePeriod(tt.preset, tt.from, tt.to, testNow)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.wantStart.Equal(p.Start), "start %s", p.Start)
			assert.True(t, tt.wantEnd.Equal(p.End), "end %s", p.End)
		})
	}
}

func TestApplyPref(t *testing.T) {
	tests := []struct {
		key, value string
		check      func(t *testing.T, p types.Preferences)
		wantErr    bool
	}{
		{"active", "c1, c2,", func(t *testing.T, p types.Preferences) {
			assert.Equal(t, []string{"c1", "c2"}, p.ActiveCondicionanteIDs)
		}, false},
		{"active", "", func(t *testing.T, p types.Preferences) {
			assert.Empty(t, p.ActiveCondicionanteIDs)
		}, false},
		{"target-grade", "7.5", func(t *testing.T, p types.Preferences) {
			assert.InDelta(t, 7.5, p.TargetGrade, 1e-9)
		}, false},
		{"pass-rate-ceiling", "0.6", func(t *testing.T, p types.Preferences) {
			assert.InDelta(t, 0.6, p.PassRateCeiling, 1e-9)
		}, false},
		{"calibration-window-days", "60", func(t *testing.T, p types.Preferences) {
			assert.Equal(t, 60, p.CalibrationWindowDays)
		}, false},
		{"point-scale", "2", func(t *testing.T, p types.Preferences) {
			assert.InDelta(t, 2.0, p.PointScale, 1e-9)
		}, false},
		{"pass-rate-ceiling", "1.5", nil, true},
		{"calibration-window-days", "0", nil, true},
		{"point-scale", "-1", nil, true},
		{"target-grade", "high", nil, true},
		{"colour", "red", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			p := types.DefaultPreferences()
			p.ActiveCondicionanteIDs = []string{"old"}
			err := applyPref(&p, tt.key, tt.value)
			if tt.wantErr {
				assert.ErrorIs(t, err, types.ErrInvalid)
				return
			}
			require.NoError(t, err)
			tt.check(t, p)
		})
	}
}

func TestSessionWorkflow(t *testing.T) {
	buf, _ := setupCmd(t)
	viper.Set("format", "json")

	sin := seedSin(t, types.Sin{
		Name:      "Impatience",
		Terms:     []types.Term{types.TermNeighbor},
		Gravities: []types.Gravity{types.GravityVenial},
	})

	// add-sin without an open session fails
	err := withApp(runSessionAddSin)([]string{sin.ID})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "session start")

	require.NoError(t, withApp(runSessionStart)(nil))
	buf.Reset()

	eventCount = 2
	defer func() { eventCount = 1 }()
	require.NoError(t, withApp(runSessionAddSin)([]string{sin.ID}))
	data := decodeReport(t, buf, "count")
	assert.Equal(t, "Impatience", data["name"])
	assert.EqualValues(t, 2, data["total"])
	count := data["count"].(map[string]any)
	assert.EqualValues(t, 0, count["persisted"])
	assert.EqualValues(t, 2, count["pending"])

	require.NoError(t, withApp(runSessionComplete)(nil))
	buf.Reset()

	require.NoError(t, withApp(runCount)([]string{"sin", sin.ID}))
	data = decodeReport(t, buf, "count")
	assert.EqualValues(t, 2, data["total"])

	require.NoError(t, withApp(runMetrics)(nil))
	data = decodeReport(t, buf, "metrics")
	assert.EqualValues(t, 1, data["sin_event_count"])
	grade := data["grade"].(map[string]any)
	assert.Less(t, grade["grade"].(float64), grade["full_mark"].(float64))
}

func TestSessionFreeformAndPromote(t *testing.T) {
	buf, _ := setupCmd(t)

	require.NoError(t, withApp(runSessionStart)(nil))
	buf.Reset()

	require.NoError(t, withApp(runSessionFreeform)([]string{"sin", "harsh", "words"}))
	entryID := firstLine(buf)
	require.NotEmpty(t, entryID)

	promoteTerms = nil
	err := withApp(runSessionPromote)([]string{entryID})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--term")

	promoteTerms = []string{"neighbor"}
	defer func() { promoteTerms = nil }()
	require.NoError(t, withApp(runSessionPromote)([]string{entryID}))
	sinID := firstLine(buf)

	require.NoError(t, withApp(func(a *app, _ []string) error {
		sin, err := a.store.Sin(sinID)
		require.NoError(t, err)
		assert.Equal(t, "harsh words", sin.Name)
		assert.Equal(t, []types.Gravity{types.GravityVenial}, sin.Gravities)
		open, err := a.store.OpenSession()
		require.NoError(t, err)
		assert.Empty(t, open.Freeform)
		return nil
	})(nil))
}

func firstLine(buf *bytes.Buffer) string {
	line, _ := buf.ReadString('\n')
	buf.Reset()
	return string(bytes.TrimSpace([]byte(line)))
}

func TestSessionRemoveEvent(t *testing.T) {
	buf, _ := setupCmd(t)
	viper.Set("format", "json")
	sin := seedSin(t, types.Sin{Name: "Sloth", Terms: []types.Term{types.TermGod}})

	require.NoError(t, withApp(runSessionStart)(nil))
	require.NoError(t, withApp(runSessionAddSin)([]string{sin.ID}))
	buf.Reset()

	var eventID string
	require.NoError(t, withApp(func(a *app, _ []string) error {
		open, err := a.store.OpenSession()
		require.NoError(t, err)
		require.Len(t, open.SinEvents, 1)
		eventID = open.SinEvents[0].ID
		return nil
	})(nil))

	require.NoError(t, withApp(runSessionRemove)([]string{"sin", eventID}))
	assert.Error(t, withApp(runSessionRemove)([]string{"sin", eventID}))
}

func TestCatalogImportAndList(t *testing.T) {
	buf, code := setupCmd(t)
	viper.Set("format", "json")

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sins.yaml"), []byte(`
- name: Envy
  terms: [neighbor]
  gravities: [venial]
- name: Gluttony
  terms: [self]
  gravities: [venial]
`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "activities.csv"), []byte("name\nWork\nDriving\n"), 0644))

	catalogRoot = dir
	defer func() { catalogRoot = "." }()

	require.NoError(t, withApp(runCatalogImport)([]string{"*.{yaml,csv}"}))
	data := decodeReport(t, buf, "import")
	imported := data["imported"].(map[string]any)
	assert.EqualValues(t, 2, imported["sins"])
	assert.EqualValues(t, 2, imported["activities"])
	assert.Equal(t, -1, *code)

	catalogKind = "sins"
	defer func() { catalogKind = "" }()
	require.NoError(t, withApp(runCatalogList)(nil))
	var report struct {
		Data []map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &report))
	require.Len(t, report.Data, 2)
	assert.Equal(t, "Envy", report.Data[0]["name"])
}

func TestCatalogImportRowErrorsExit(t *testing.T) {
	buf, code := setupCmd(t)
	viper.Set("format", "json")

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sins.yaml"), []byte(`
- name: Envy
  terms: [neighbor]
- name: Broken
  terms: [nobody]
`), 0644))
	catalogRoot = dir
	defer func() { catalogRoot = "." }()

	require.NoError(t, withApp(runCatalogImport)([]string{"sins.yaml"}))
	data := decodeReport(t, buf, "import")
	assert.NotEmpty(t, data["errors"])
	assert.Equal(t, 1, *code)
}

func TestCatalogImportNoMatch(t *testing.T) {
	setupCmd(t)
	catalogRoot = t.TempDir()
	defer func() { catalogRoot = "." }()

	err := withApp(runCatalogImport)([]string{"*.yaml"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no catalog files")
}

func TestCatalogDeleteCondicionanteDropsActive(t *testing.T) {
	setupCmd(t)

	var condID string
	require.NoError(t, withApp(func(a *app, _ []string) error {
		c, err := a.store.SaveCondicionante(types.Condicionante{Name: "Fatigue"})
		require.NoError(t, err)
		condID = c.ID
		prefs, err := a.store.Preferences()
		require.NoError(t, err)
		prefs.ActiveCondicionanteIDs = []string{condID, "other"}
		return a.store.SavePreferences(prefs)
	})(nil))

	require.NoError(t, withApp(runCatalogDelete)([]string{"condicionantes", condID}))

	require.NoError(t, withApp(func(a *app, _ []string) error {
		prefs, err := a.store.Preferences()
		require.NoError(t, err)
		assert.Equal(t, []string{"other"}, prefs.ActiveCondicionanteIDs)
		return nil
	})(nil))
}

func TestNotes(t *testing.T) {
	buf, _ := setupCmd(t)
	viper.Set("format", "json")
	sin := seedSin(t, types.Sin{Name: "Pride", Terms: []types.Term{types.TermGod}})

	assert.Error(t, withApp(runNoteAdd)([]string{"sin", "missing", "text"}))

	require.NoError(t, withApp(runNoteAdd)([]string{"sin", sin.ID, "watch", "this"}))
	noteID := firstLine(buf)

	require.NoError(t, withApp(runNoteList)(nil))
	var report struct {
		Data []metrics.NoteView `json:"data"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &report))
	buf.Reset()
	require.Len(t, report.Data, 1)
	assert.Equal(t, "watch this", report.Data[0].Text)
	assert.Equal(t, "Pride", report.Data[0].TargetName)

	require.NoError(t, withApp(runNoteList)([]string{"good-work", sin.ID}))
	require.NoError(t, json.Unmarshal(buf.Bytes(), &report))
	buf.Reset()
	assert.Empty(t, report.Data)

	require.NoError(t, withApp(runNoteDelete)([]string{noteID}))
	require.NoError(t, withApp(runNoteList)(nil))
	require.NoError(t, json.Unmarshal(buf.Bytes(), &report))
	assert.Empty(t, report.Data)
}

func TestPrefsSetAndShow(t *testing.T) {
	buf, _ := setupCmd(t)

	require.NoError(t, withApp(runPrefsSet)([]string{"target-grade=8", "point-scale=0.5"}))
	assert.Error(t, withApp(runPrefsSet)([]string{"target-grade"}))

	require.NoError(t, withApp(runPrefsShow)(nil))
	assert.Contains(t, buf.String(), "targetGrade: 8")
	assert.Contains(t, buf.String(), "pointScale: 0.5")
}

func TestCalibrateDryRun(t *testing.T) {
	buf, _ := setupCmd(t)
	viper.Set("quiet", true)
	sin := seedSin(t, types.Sin{Name: "Gossip", Terms: []types.Term{types.TermNeighbor}})

	require.NoError(t, withApp(runSessionStart)(nil))
	require.NoError(t, withApp(runSessionAddSin)([]string{sin.ID}))
	require.NoError(t, withApp(runSessionComplete)(nil))
	buf.Reset()

	calibrateDryRun = true
	defer func() { calibrateDryRun = false }()
	require.NoError(t, withApp(runCalibrate)(nil))
	assert.NotEmpty(t, buf.String())

	require.NoError(t, withApp(func(a *app, _ []string) error {
		prefs, err := a.store.Preferences()
		require.NoError(t, err)
		assert.InDelta(t, 1.0, prefs.PointScale, 1e-9)
		return nil
	})(nil))
}

func TestBackupExportRestore(t *testing.T) {
	buf, _ := setupCmd(t)
	viper.Set("format", "json")
	seedSin(t, types.Sin{Name: "Anger", Terms: []types.Term{types.TermNeighbor}})

	file := filepath.Join(t.TempDir(), "backup.json")
	require.NoError(t, withApp(runBackupExport)([]string{file}))
	data := decodeReport(t, buf, "backup")
	assert.Equal(t, "exported", data["action"])

	err := withApp(runBackupRestore)([]string{file})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--force")

	restoreForce = true
	defer func() { restoreForce = false }()
	require.NoError(t, withApp(runBackupRestore)([]string{file}))
	data = decodeReport(t, buf, "backup")
	assert.Equal(t, "restored", data["action"])
	summary := data["summary"].(map[string]any)
	assert.EqualValues(t, 1, summary["sins"])
}

func TestConfigInit(t *testing.T) {
	buf, _ := setupCmd(t)
	path := filepath.Join(t.TempDir(), ".magisrc.yaml")

	require.NoError(t, runConfigInit([]string{path}))
	assert.Contains(t, buf.String(), "wrote")
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "scoring:")

	err = runConfigInit([]string{path})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--force")
}

func TestRunReportsErrors(t *testing.T) {
	_, code := setupCmd(t)
	run(func([]string) error { return assert.AnError })(nil, nil)
	assert.Equal(t, 1, *code)
}
