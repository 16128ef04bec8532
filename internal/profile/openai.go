package profile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	openai "github.com/sashabaranov/go-openai"
)

type OpenAIConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Log     *slog.Logger
}

// OpenAIAnalyzer is the text-only analyzer for OpenAI-compatible endpoints.
type OpenAIAnalyzer struct {
	client *openai.Client
	model  string
	log    *slog.Logger
}

func NewOpenAIAnalyzer(cfg OpenAIConfig) *OpenAIAnalyzer {
	if cfg.Model == "" {
		cfg.Model = openai.GPT4oMini
	}
	if cfg.Log == nil {
		cfg.Log = slog.Default()
	}
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	return &OpenAIAnalyzer{
		client: openai.NewClientWithConfig(clientCfg),
		model:  cfg.Model,
		log:    cfg.Log,
	}
}

func (a *OpenAIAnalyzer) Analyze(ctx context.Context, doc Document) (*Profile, error) {
	if doc.IsBinary() {
		return nil, errors.New("openai analyzer only accepts plain text documents")
	}

	a.log.Info("analyzing candidate document", "model", a.model)
	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: a.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: analysisPrompt},
			{Role: openai.ChatMessageRoleUser, Content: TruncateText(doc.Text)},
		},
		Temperature: 0.2,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to analyze document: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: empty model response", ErrAnalysisFailed)
	}
	return ParseProfile(resp.Choices[0].Message.Content)
}
