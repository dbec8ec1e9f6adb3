package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/dotcommander/magis/internal/config"
)

var configForce bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the configuration file",
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a configuration file with the default weights",
	Long: `Writes the default configuration, including every scoring weight and the
grading scale, so it can be edited. The format follows the extension
(.yaml, .yml or .json).`,
	Args: cobra.MaximumNArgs(1),
	Run:  run(runConfigInit),
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Args:  cobra.NoArgs,
	Run:   run(runConfigShow),
}

func init() {
	configInitCmd.Flags().BoolVar(&configForce, "force", false, "Overwrite an existing file")
	configCmd.AddCommand(configInitCmd, configShowCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigInit(args []string) error {
	path := config.ConfigFiles[0]
	if len(args) == 1 {
		path = args[0]
	}
	if _, err := os.Stat(path); err == nil && !configForce {
		return fmt.Errorf("%s already exists; pass --force to overwrite it", path)
	}
	if err := config.SaveConfig(config.Default(), path); err != nil {
		return err
	}
	if !quiet {
		fmt.Fprintf(stdout, "wrote %s\n", path)
	}
	return nil
}

func runConfigShow(_ []string) error {
	cfg, err := config.LoadConfig(dataPath)
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	_, err = stdout.Write(data)
	return err
}
