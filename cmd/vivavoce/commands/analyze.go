package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vivavoce-ai/vivavoce/internal/bootstrap"
	"github.com/vivavoce-ai/vivavoce/internal/profile"
)

var analyzeFile string

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze a resume into an interview profile",
	Long: `Analyze reads a resume or profile document, extracts the candidate's
name, summary, interview topics, and technical skills with the configured
model, and prints the profile as JSON on stdout.

PDFs and images are sent to the model as-is where the provider supports
them; everything else is treated as text.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if analyzeFile == "" {
			return fmt.Errorf("a document is required, use --file")
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		log := bootstrap.NewCLILogger(cfg.LogLevel)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		analyzer, err := bootstrap.NewAnalyzer(ctx, cfg, log)
		if err != nil {
			return err
		}

		doc, err := readDocument(analyzeFile)
		if err != nil {
			return err
		}

		prof, err := analyzer.Analyze(ctx, doc)
		if err != nil {
			return err
		}

		out, err := json.MarshalIndent(prof, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	},
}

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeFile, "file", "f", "", "resume or profile document")
	rootCmd.AddCommand(analyzeCmd)
}

// readDocument loads a file as an analyzer document, deciding text versus
// binary by extension.
func readDocument(path string) (profile.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return profile.Document{}, fmt.Errorf("failed to read document: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return profile.Document{Data: data, MIME: "application/pdf"}, nil
	case ".png":
		return profile.Document{Data: data, MIME: "image/png"}, nil
	case ".jpg", ".jpeg":
		return profile.Document{Data: data, MIME: "image/jpeg"}, nil
	default:
		return profile.Document{Text: string(data)}, nil
	}
}
