package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Version is set at build time.
var Version = "dev"

var (
	dataPath     string
	cfgFile      string
	quiet        bool
	verbose      bool
	outputFormat string
	outputFile   string
	logLevel     string
)

// exitFunc and the output streams are variables so tests can capture them.
var (
	exitFunc           = os.Exit
	stdout   io.Writer = os.Stdout
	stderr   io.Writer = os.Stderr
)

var rootCmd = &cobra.Command{
	Use:   "magis",
	Short: "MAGIS - an offline examination of conscience with period metrics",
	Long: `MAGIS records sins and good works during an examination session, scores
them with a configurable formula and reports period grades, trajectories and
per-dimension breakdowns.

Start with 'magis catalog import' to load a catalog, then 'magis session start'.
Everything is stored locally in a single SQLite file.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		exitFunc(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&dataPath, "data", "d", "", "Database file (default ~/.local/share/magis/magis.db)")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default .magisrc.yaml in the working directory)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress non-essential output")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "format", "f", "console", "Output format for reports (console|json|markdown)")
	rootCmd.PersistentFlags().StringVarP(&outputFile, "output", "o", "", "Write json or markdown reports to this file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level (debug|info|warn|error)")

	_ = viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("format", rootCmd.PersistentFlags().Lookup("format"))
	_ = viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output"))
	_ = viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	}
}

// fail reports err and exits with status 1.
func fail(err error) {
	fmt.Fprintf(stderr, "Error: %v\n", err)
	exitFunc(1)
}

// run adapts a command body to cobra's Run signature with the shared
// error handling.
func run(fn func(args []string) error) func(*cobra.Command, []string) {
	return func(cmd *cobra.Command, args []string) {
		if err := fn(args); err != nil {
			fail(err)
		}
	}
}
