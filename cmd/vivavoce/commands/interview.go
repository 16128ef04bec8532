package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vivavoce-ai/vivavoce/internal/bootstrap"
	"github.com/vivavoce-ai/vivavoce/internal/profile"
)

var (
	interviewFile    string
	interviewProfile string
	interviewMonitor string
	interviewVoice   string
)

var interviewCmd = &cobra.Command{
	Use:   "interview",
	Short: "Run a live spoken interview",
	Long: `Interview starts a voice session against the dialogue service using the
default microphone and speakers. The profile comes either from a saved
profile JSON (--profile) or from analyzing a document first (--file).

The session ends when the remote side closes, on Ctrl-C, or through the
monitor's stop endpoint when --monitor is set.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if interviewMonitor != "" {
			cfg.MonitorAddr = interviewMonitor
		}
		if interviewVoice != "" {
			cfg.Voice = interviewVoice
		}
		if cfg.GeminiAPIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY is required for the dialogue service")
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		prof, err := resolveProfile(ctx, cfg)
		stop()
		if err != nil {
			return err
		}

		bootstrap.Run(cfg, prof)
		return nil
	},
}

func init() {
	interviewCmd.Flags().StringVarP(&interviewFile, "file", "f", "", "resume or profile document to analyze first")
	interviewCmd.Flags().StringVarP(&interviewProfile, "profile", "p", "", "saved profile JSON")
	interviewCmd.Flags().StringVar(&interviewMonitor, "monitor", "", "monitor listen address, e.g. :8088")
	interviewCmd.Flags().StringVar(&interviewVoice, "voice", "", "interviewer voice name")
	rootCmd.AddCommand(interviewCmd)
}

func resolveProfile(ctx context.Context, cfg *bootstrap.Config) (*profile.Profile, error) {
	switch {
	case interviewProfile != "":
		raw, err := os.ReadFile(interviewProfile)
		if err != nil {
			return nil, fmt.Errorf("failed to read profile: %w", err)
		}
		return profile.ParseProfile(string(raw))
	case interviewFile != "":
		log := bootstrap.NewCLILogger(cfg.LogLevel)
		analyzer, err := bootstrap.NewAnalyzer(ctx, cfg, log)
		if err != nil {
			return nil, err
		}
		doc, err := readDocument(interviewFile)
		if err != nil {
			return nil, err
		}
		return analyzer.Analyze(ctx, doc)
	default:
		return nil, fmt.Errorf("a profile (--profile) or document (--file) is required")
	}
}
