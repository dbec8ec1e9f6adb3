package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dotcommander/magis/internal/scoring"
)

// resetViper resets viper to a clean state for each test
func resetViper() {
	viper.Reset()
}

// chdirTemp switches into a fresh temporary directory for the test.
func chdirTemp(t *testing.T) string {
	t.Helper()
	tmpDir := t.TempDir()
	oldWd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(tmpDir))
	t.Cleanup(func() {
		_ = os.Chdir(oldWd)
	})
	return tmpDir
}

func TestLoadConfigDefaults(t *testing.T) {
	resetViper()
	chdirTemp(t)

	config, err := LoadConfig("")
	require.NoError(t, err)
	require.NotNil(t, config)

	assert.NotEmpty(t, config.Data)
	assert.Equal(t, "console", config.Format)
	assert.False(t, config.Quiet)
	assert.False(t, config.Verbose)
	assert.Equal(t, "warn", config.Log.Level)
	assert.Equal(t, scoring.DefaultWeights(), config.Scoring)
	assert.Equal(t, scoring.DefaultGrading(), config.Grading)
}

func TestLoadConfigFromYAML(t *testing.T) {
	resetViper()
	tmpDir := chdirTemp(t)

	yamlContent := `
data: /yaml/magis.db
format: markdown
output: report.md
verbose: true
log:
  level: debug
  format: json
scoring:
  mortal_base: 5
grading:
  allow_overflow: true
  pass_bar: 6
`
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, ".magisrc.yaml"), []byte(yamlContent), 0644))

	config, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "/yaml/magis.db", config.Data)
	assert.Equal(t, "markdown", config.Format)
	assert.Equal(t, "report.md", config.Output)
	assert.True(t, config.Verbose)
	assert.Equal(t, "debug", config.Log.Level)
	assert.Equal(t, "json", config.Log.Format)
	assert.Equal(t, 5.0, config.Scoring.MortalBase)
	// Keys absent from the file keep their defaults.
	assert.Equal(t, scoring.DefaultWeights().VenialBase, config.Scoring.VenialBase)
	assert.True(t, config.Grading.AllowOverflow)
	assert.Equal(t, 6.0, config.Grading.PassBar)
	assert.Equal(t, 10.0, config.Grading.FullMark)
}

func TestLoadConfigFromJSON(t *testing.T) {
	resetViper()
	tmpDir := chdirTemp(t)

	configData := map[string]any{
		"data":   "/json/magis.db",
		"format": "json",
		"quiet":  true,
	}
	jsonData, err := json.MarshalIndent(configData, "", "  ")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, ".magisrc.json"), jsonData, 0644))

	config, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "/json/magis.db", config.Data)
	assert.Equal(t, "json", config.Format)
	assert.True(t, config.Quiet)
}

func TestLoadConfigFilePriority(t *testing.T) {
	resetViper()
	tmpDir := chdirTemp(t)

	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, ".magisrc.json"), []byte(`{"data": "/json.db"}`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, ".magisrc.yaml"), []byte("data: /yaml.db\n"), 0644))

	config, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "/yaml.db", config.Data)
}

func TestLoadConfigDataOverride(t *testing.T) {
	resetViper()
	tmpDir := chdirTemp(t)
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, ".magisrc.yaml"), []byte("data: /config.db\n"), 0644))

	config, err := LoadConfig("/override.db")
	require.NoError(t, err)
	assert.Equal(t, "/override.db", config.Data)
}

func TestLoadConfigEnvironmentVariables(t *testing.T) {
	resetViper()
	chdirTemp(t)

	t.Setenv("MAGIS_DATA", "/env/magis.db")
	t.Setenv("MAGIS_FORMAT", "json")
	t.Setenv("MAGIS_LOG_LEVEL", "info")
	t.Setenv("MAGIS_SCORING_MORTAL_BASE", "4")
	t.Setenv("MAGIS_GRADING_ALLOW_OVERFLOW", "true")

	config, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "/env/magis.db", config.Data)
	assert.Equal(t, "json", config.Format)
	assert.Equal(t, "info", config.Log.Level)
	assert.Equal(t, 4.0, config.Scoring.MortalBase)
	assert.True(t, config.Grading.AllowOverflow)
}

func TestLoadConfigExplicitFile(t *testing.T) {
	resetViper()
	chdirTemp(t)
	path := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("format: markdown\n"), 0644))
	viper.SetConfigFile(path)

	config, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "markdown", config.Format)
}

func TestLoadConfigInvalid(t *testing.T) {
	resetViper()
	tmpDir := chdirTemp(t)
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, ".magisrc.yaml"), []byte("scoring:\n  venial_base: 9\n"), 0644))

	_, err := LoadConfig("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"json format", func(c *Config) { c.Format = "json" }, ""},
		{"invalid format", func(c *Config) { c.Format = "xml" }, "invalid format"},
		{"quiet and verbose", func(c *Config) { c.Quiet, c.Verbose = true, true }, "mutually exclusive"},
		{"no data path", func(c *Config) { c.Data = " " }, "data path"},
		{"bad log level", func(c *Config) { c.Log.Level = "loud" }, "invalid log level"},
		{"bad weights", func(c *Config) { c.Scoring.Formal = 0 }, "scoring"},
		{"bad grading", func(c *Config) { c.Grading.PassBar = 11 }, "grading"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.mutate(c)
			err := validateConfig(c)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestSaveConfigRoundTrip(t *testing.T) {
	for _, name := range []string{".magisrc.yaml", ".magisrc.json"} {
		t.Run(name, func(t *testing.T) {
			resetViper()
			tmpDir := chdirTemp(t)

			c := Default()
			c.Data = "/saved/magis.db"
			c.Grading.AllowOverflow = true
			c.Scoring.MortalBase = 4
			require.NoError(t, SaveConfig(c, filepath.Join(tmpDir, name)))

			loaded, err := LoadConfig("")
			require.NoError(t, err)
			assert.Equal(t, "/saved/magis.db", loaded.Data)
			assert.True(t, loaded.Grading.AllowOverflow)
			assert.Equal(t, 4.0, loaded.Scoring.MortalBase)
		})
	}
}

func TestSaveConfigCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "config.json")
	require.NoError(t, SaveConfig(Default(), path))
	_, err := os.Stat(path)
	assert.NoError(t, err)
}
