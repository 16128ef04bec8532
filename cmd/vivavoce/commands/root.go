package commands

import (
	"github.com/spf13/cobra"

	"github.com/vivavoce-ai/vivavoce/internal/bootstrap"
)

var (
	// Global flags
	configFile string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "vivavoce",
	Short: "Voice interview station",
	Long: `vivavoce runs spoken screening interviews: it analyzes a candidate's
resume into an interview profile, then drives a live voice conversation
through the microphone and speakers.

Configuration comes from environment variables, optionally overlaid with a
YAML station file (--config) and command flags.

Examples:
  # Analyze a resume into a profile
  vivavoce analyze --file resume.pdf > profile.json

  # Run an interview straight from a resume
  vivavoce interview --file resume.pdf

  # Run an interview from a saved profile, with the local monitor
  vivavoce interview --profile profile.json --monitor :8088`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "station config file (YAML)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
}

// loadConfig builds the effective config: environment first, then the
// optional station file, then flags.
func loadConfig() (*bootstrap.Config, error) {
	cfg := bootstrap.LoadConfig()
	if configFile != "" {
		if err := cfg.ApplyFile(configFile); err != nil {
			return nil, err
		}
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	cfg.Version = version
	return cfg, nil
}
