package bootstrap

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultDialogueEndpoint is the Gemini Live bidirectional endpoint. The API
// key is appended as a query parameter at connect time.
const DefaultDialogueEndpoint = "wss://generativelanguage.googleapis.com/ws/google.ai.generativelanguage.v1beta.GenerativeService.BidiGenerateContent"

type Config struct {
	GeminiAPIKey string

	AnalyzerProvider string
	AnalyzerModel    string
	OpenAIAPIKey     string
	OpenAIBaseURL    string

	DialogueEndpoint string
	DialogueModel    string
	Voice            string

	CaptureRate  int
	PlaybackRate int
	FrameSize    int

	MonitorAddr string
	LogLevel    string

	// Version is stamped by the CLI, not loaded from the environment.
	Version string
}

func LoadConfig() *Config {
	return &Config{
		GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),

		AnalyzerProvider: getEnv("ANALYZER_PROVIDER", "gemini"),
		AnalyzerModel:    getEnv("ANALYZER_MODEL", ""),
		OpenAIAPIKey:     getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL:    getEnv("OPENAI_BASE_URL", ""),

		DialogueEndpoint: getEnv("DIALOGUE_ENDPOINT", DefaultDialogueEndpoint),
		DialogueModel:    getEnv("DIALOGUE_MODEL", "models/gemini-2.0-flash-live-001"),
		Voice:            getEnv("VOICE", "Puck"),

		CaptureRate:  getEnvInt("CAPTURE_RATE", 16000),
		PlaybackRate: getEnvInt("PLAYBACK_RATE", 24000),
		FrameSize:    getEnvInt("FRAME_SIZE", 4096),

		MonitorAddr: getEnv("MONITOR_ADDR", ""),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
	}
}

type fileConfig struct {
	GeminiAPIKey     string `yaml:"gemini_api_key"`
	AnalyzerProvider string `yaml:"analyzer_provider"`
	AnalyzerModel    string `yaml:"analyzer_model"`
	OpenAIAPIKey     string `yaml:"openai_api_key"`
	OpenAIBaseURL    string `yaml:"openai_base_url"`
	DialogueEndpoint string `yaml:"dialogue_endpoint"`
	DialogueModel    string `yaml:"dialogue_model"`
	Voice            string `yaml:"voice"`
	CaptureRate      int    `yaml:"capture_rate"`
	PlaybackRate     int    `yaml:"playback_rate"`
	FrameSize        int    `yaml:"frame_size"`
	MonitorAddr      string `yaml:"monitor_addr"`
	LogLevel         string `yaml:"log_level"`
}

// ApplyFile overlays a YAML station file on the config. Environment
// references like ${GEMINI_API_KEY} are expanded before parsing; keys absent
// from the file leave the current values alone.
func (c *Config) ApplyFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var file fileConfig
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(raw))), &file); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	if file.GeminiAPIKey != "" {
		c.GeminiAPIKey = file.GeminiAPIKey
	}
	if file.AnalyzerProvider != "" {
		c.AnalyzerProvider = file.AnalyzerProvider
	}
	if file.AnalyzerModel != "" {
		c.AnalyzerModel = file.AnalyzerModel
	}
	if file.OpenAIAPIKey != "" {
		c.OpenAIAPIKey = file.OpenAIAPIKey
	}
	if file.OpenAIBaseURL != "" {
		c.OpenAIBaseURL = file.OpenAIBaseURL
	}
	if file.DialogueEndpoint != "" {
		c.DialogueEndpoint = file.DialogueEndpoint
	}
	if file.DialogueModel != "" {
		c.DialogueModel = file.DialogueModel
	}
	if file.Voice != "" {
		c.Voice = file.Voice
	}
	if file.CaptureRate > 0 {
		c.CaptureRate = file.CaptureRate
	}
	if file.PlaybackRate > 0 {
		c.PlaybackRate = file.PlaybackRate
	}
	if file.FrameSize > 0 {
		c.FrameSize = file.FrameSize
	}
	if file.MonitorAddr != "" {
		c.MonitorAddr = file.MonitorAddr
	}
	if file.LogLevel != "" {
		c.LogLevel = file.LogLevel
	}
	return nil
}

// DialogueURL returns the endpoint with the API key attached, unless the
// endpoint already carries one.
func (c *Config) DialogueURL() string {
	if c.GeminiAPIKey == "" || strings.Contains(c.DialogueEndpoint, "key=") {
		return c.DialogueEndpoint
	}
	sep := "?"
	if strings.Contains(c.DialogueEndpoint, "?") {
		sep = "&"
	}
	return c.DialogueEndpoint + sep + "key=" + c.GeminiAPIKey
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}
