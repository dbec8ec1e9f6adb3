package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/dotcommander/magis/internal/logging"
	"github.com/dotcommander/magis/internal/scoring"
	"github.com/dotcommander/magis/internal/store"
)

// Config represents the magis configuration
type Config struct {
	Data    string          `mapstructure:"data" json:"data" yaml:"data"`
	Format  string          `mapstructure:"format" json:"format" yaml:"format"`
	Output  string          `mapstructure:"output" json:"output,omitempty" yaml:"output,omitempty"`
	Quiet   bool            `mapstructure:"quiet" json:"quiet" yaml:"quiet"`
	Verbose bool            `mapstructure:"verbose" json:"verbose" yaml:"verbose"`
	Log     logging.Config  `mapstructure:"log" json:"log" yaml:"log"`
	Scoring scoring.Weights `mapstructure:"scoring" json:"scoring" yaml:"scoring"`
	Grading scoring.Grading `mapstructure:"grading" json:"grading" yaml:"grading"`
}

// ConfigFiles are the file names searched in the working directory, in order.
var ConfigFiles = []string{".magisrc.yaml", ".magisrc.yml", ".magisrc.json"}

// LoadConfig loads configuration from defaults, config file, environment
// and any flags already bound to viper. A non-empty dataPath overrides
// the configured database location.
func LoadConfig(dataPath string) (*Config, error) {
	if err := setDefaults(); err != nil {
		return nil, err
	}

	if viper.ConfigFileUsed() != "" {
		if err := viper.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	} else {
		for _, path := range ConfigFiles {
			if _, err := os.Stat(path); err != nil {
				continue
			}
			viper.SetConfigFile(path)
			if err := viper.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("error reading config file %s: %w", path, err)
			}
			break
		}
	}

	// Environment variables
	viper.SetEnvPrefix("MAGIS")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if dataPath != "" {
		config.Data = dataPath
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Default returns the configuration used when nothing is configured.
func Default() *Config {
	data, err := store.DefaultDBPath()
	if err != nil {
		data = "magis.db"
	}
	return &Config{
		Data:    data,
		Format:  "console",
		Log:     logging.NewDefaultConfig(),
		Scoring: scoring.DefaultWeights(),
		Grading: scoring.DefaultGrading(),
	}
}

func setDefaults() error {
	def := Default()
	viper.SetDefault("data", def.Data)
	viper.SetDefault("format", def.Format)
	viper.SetDefault("quiet", false)
	viper.SetDefault("verbose", false)
	viper.SetDefault("log.level", def.Log.Level)
	viper.SetDefault("log.format", def.Log.Format)

	// Nested sections are registered key by key so env overrides such as
	// MAGIS_SCORING_MORTAL_BASE resolve.
	for prefix, section := range map[string]any{"scoring": def.Scoring, "grading": def.Grading} {
		raw, err := json.Marshal(section)
		if err != nil {
			return fmt.Errorf("error encoding %s defaults: %w", prefix, err)
		}
		var fields map[string]any
		if err := json.Unmarshal(raw, &fields); err != nil {
			return fmt.Errorf("error encoding %s defaults: %w", prefix, err)
		}
		for k, v := range fields {
			viper.SetDefault(prefix+"."+k, v)
		}
	}
	return nil
}

// validateConfig validates the configuration
func validateConfig(config *Config) error {
	switch config.Format {
	case "console", "json", "markdown":
	default:
		return fmt.Errorf("invalid format: %s. Must be 'console', 'json', or 'markdown'", config.Format)
	}

	if config.Quiet && config.Verbose {
		return fmt.Errorf("quiet and verbose are mutually exclusive")
	}

	if strings.TrimSpace(config.Data) == "" {
		return fmt.Errorf("data path is required")
	}

	if err := config.Log.Validate(); err != nil {
		return err
	}

	if err := config.Scoring.Validate(); err != nil {
		return fmt.Errorf("scoring: %w", err)
	}

	if err := config.Grading.Validate(); err != nil {
		return fmt.Errorf("grading: %w", err)
	}

	return nil
}

// SaveConfig saves the configuration to a file, as YAML or JSON depending
// on the extension.
func SaveConfig(config *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating directory: %w", err)
	}

	var data []byte
	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(config)
	default:
		data, err = json.MarshalIndent(config, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}
