package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"

	"github.com/vivavoce-ai/vivavoce/internal/capture"
	"github.com/vivavoce-ai/vivavoce/internal/device"
	"github.com/vivavoce-ai/vivavoce/internal/interview"
	"github.com/vivavoce-ai/vivavoce/internal/monitor"
	"github.com/vivavoce-ai/vivavoce/internal/playback"
	"github.com/vivavoce-ai/vivavoce/internal/profile"
	"github.com/vivavoce-ai/vivavoce/internal/tui"
)

// NewAnalyzer builds the configured document analyzer. Used directly by the
// analyze command and wrapped by ProvideAnalyzer for the station runtime.
func NewAnalyzer(ctx context.Context, cfg *Config, log *slog.Logger) (profile.Analyzer, error) {
	switch cfg.AnalyzerProvider {
	case "", "gemini":
		if cfg.GeminiAPIKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY is required for the gemini analyzer")
		}
		return profile.NewGeminiAnalyzer(ctx, profile.GeminiConfig{
			APIKey: cfg.GeminiAPIKey,
			Model:  cfg.AnalyzerModel,
			Log:    log,
		})
	case "openai":
		if cfg.OpenAIAPIKey == "" && cfg.OpenAIBaseURL == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY or OPENAI_BASE_URL is required for the openai analyzer")
		}
		return profile.NewOpenAIAnalyzer(profile.OpenAIConfig{
			APIKey:  cfg.OpenAIAPIKey,
			BaseURL: cfg.OpenAIBaseURL,
			Model:   cfg.AnalyzerModel,
			Log:     log,
		}), nil
	default:
		return nil, fmt.Errorf("unknown analyzer provider %q", cfg.AnalyzerProvider)
	}
}

// ProvideAnalyzer tolerates missing credentials: the station can interview
// with a pre-built profile while the monitor's analyze endpoint reports 503.
func ProvideAnalyzer(cfg *Config, log *slog.Logger) profile.Analyzer {
	analyzer, err := NewAnalyzer(context.Background(), cfg, log)
	if err != nil {
		log.Warn("document analysis disabled", "error", err)
		return nil
	}
	return analyzer
}

func ProvideManager(log *slog.Logger) *interview.Manager {
	return interview.NewManager(log)
}

func ProvideHub() *monitor.Hub {
	return monitor.NewHub()
}

func ProvideMeter() *tui.Meter {
	return tui.NewMeter(nil)
}

func ProvideCaptureSource(cfg *Config, log *slog.Logger) (capture.Source, error) {
	return device.NewMicSource(device.SourceConfig{
		SampleRate: cfg.CaptureRate,
		Log:        log.With("component", "mic"),
	})
}

func ProvideSpeakerSink(cfg *Config, log *slog.Logger) (playback.Sink, error) {
	return device.NewSpeakerSink(device.SinkConfig{
		SampleRate: cfg.PlaybackRate,
		Log:        log.With("component", "speaker"),
	})
}

type StationParams struct {
	fx.In

	Config  *Config
	Profile *profile.Profile
	Manager *interview.Manager
	Hub     *monitor.Hub
	Meter   *tui.Meter
	Source  capture.Source
	Sink    playback.Sink
	Log     *slog.Logger
}

// startStation launches the interview session and shuts the app down when
// the session ends, whichever side ends it.
func startStation(lc fx.Lifecycle, shutdowner fx.Shutdowner, params StationParams) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			cb := interview.Callbacks{
				OnVolume: func(level float64) {
					params.Meter.Update(level)
					params.Hub.Publish(monitor.Event{Type: "volume", Level: level})
				},
				OnError: func(message string) {
					params.Hub.Publish(monitor.Event{Type: "error", Message: message})
				},
				OnDisconnect: func() {
					params.Hub.Publish(monitor.Event{Type: "stopped"})
					if err := shutdowner.Shutdown(); err != nil {
						params.Log.Error("failed to shut down", "error", err)
					}
				},
			}

			session, err := params.Manager.Start(interview.Config{
				Profile:   params.Profile,
				Endpoint:  params.Config.DialogueURL(),
				Model:     params.Config.DialogueModel,
				Voice:     params.Config.Voice,
				FrameSize: params.Config.FrameSize,
				Source:    params.Source,
				Sink:      params.Sink,
				Log:       params.Log,
			}, cb)
			if err != nil {
				return err
			}

			params.Hub.Publish(monitor.Event{Type: "started", SessionID: session.ID()})
			params.Log.Info("interview station running",
				"session_id", session.ID(),
				"candidate", session.CandidateName())
			return nil
		},
		OnStop: func(ctx context.Context) error {
			params.Manager.Stop()
			params.Meter.Clear()
			return nil
		},
	})
}

var StationModule = fx.Options(
	fx.Provide(
		ProvideLogger,
		ProvideAnalyzer,
		ProvideManager,
		ProvideHub,
		ProvideMeter,
		ProvideCaptureSource,
		ProvideSpeakerSink,
	),
	fx.Invoke(startStation),
)

// Run wires the station and blocks until the session ends or a signal
// arrives.
func Run(cfg *Config, prof *profile.Profile) {
	fx.New(
		fx.Supply(cfg, prof),
		fx.WithLogger(func(log *slog.Logger) fxevent.Logger {
			return &fxevent.SlogLogger{Logger: log}
		}),
		StationModule,
		MonitorModule,
	).Run()
}
