package profile

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"google.golang.org/genai"
)

type GeminiConfig struct {
	APIKey string
	Model  string
	Log    *slog.Logger
}

// GeminiAnalyzer produces profiles with Gemini structured output. It is the
// default analyzer and the only one that accepts binary documents.
type GeminiAnalyzer struct {
	client *genai.Client
	model  string
	log    *slog.Logger
}

func NewGeminiAnalyzer(ctx context.Context, cfg GeminiConfig) (*GeminiAnalyzer, error) {
	if cfg.Model == "" {
		cfg.Model = "gemini-2.0-flash"
	}
	if cfg.Log == nil {
		cfg.Log = slog.Default()
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: cfg.APIKey})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	return &GeminiAnalyzer{client: client, model: cfg.Model, log: cfg.Log}, nil
}

var profileSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"candidateName":   {Type: genai.TypeString},
		"summary":         {Type: genai.TypeString},
		"topics":          {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
		"technicalSkills": {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
	},
	Required: []string{"candidateName", "summary", "topics", "technicalSkills"},
}

func (a *GeminiAnalyzer) Analyze(ctx context.Context, doc Document) (*Profile, error) {
	var parts []*genai.Part
	if doc.IsBinary() {
		parts = append(parts, genai.NewPartFromBytes(doc.Data, doc.MIME))
	} else {
		parts = append(parts, genai.NewPartFromText(TruncateText(doc.Text)))
	}

	a.log.Info("analyzing candidate document", "model", a.model, "binary", doc.IsBinary())
	resp, err := a.client.Models.GenerateContent(ctx, a.model,
		[]*genai.Content{{Role: "user", Parts: parts}},
		&genai.GenerateContentConfig{
			ResponseMIMEType:  "application/json",
			ResponseSchema:    profileSchema,
			SystemInstruction: &genai.Content{Parts: []*genai.Part{genai.NewPartFromText(analysisPrompt)}},
		})
	if err != nil {
		return nil, fmt.Errorf("failed to analyze document: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, fmt.Errorf("%w: empty model response", ErrAnalysisFailed)
	}

	var sb strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	return ParseProfile(sb.String())
}
