package bootstrap

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/fx"

	"github.com/vivavoce-ai/vivavoce/internal/interview"
	"github.com/vivavoce-ai/vivavoce/internal/monitor"
	"github.com/vivavoce-ai/vivavoce/internal/profile"
)

var defaultCORSConfig = middleware.CORSConfig{
	AllowOrigins: []string{"*"},
	AllowMethods: []string{
		http.MethodGet,
		http.MethodPost,
		http.MethodOptions,
	},
	AllowHeaders: []string{
		"Accept",
		"Content-Type",
	},
	MaxAge: 86400,
}

func NewEchoServer() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(defaultCORSConfig))
	return e
}

func ProvideMonitorHandler(manager *interview.Manager, analyzer profile.Analyzer, hub *monitor.Hub, cfg *Config, log *slog.Logger) *monitor.Handler {
	return monitor.NewHandler(manager, analyzer, hub, cfg.Version, log.With("component", "monitor"))
}

// StartServer runs the monitor server when an address is configured. With no
// address the station stays purely local.
func StartServer(lc fx.Lifecycle, e *echo.Echo, handler *monitor.Handler, cfg *Config, log *slog.Logger) {
	if cfg.MonitorAddr == "" {
		return
	}

	handler.RegisterRoutes(e)

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := e.Start(cfg.MonitorAddr); err != nil && err != http.ErrServerClosed {
					log.Error("monitor server stopped", "error", err)
				}
			}()
			log.Info("monitor listening", "addr", cfg.MonitorAddr)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return e.Shutdown(ctx)
		},
	})
}

var MonitorModule = fx.Options(
	fx.Provide(
		NewEchoServer,
		ProvideMonitorHandler,
	),
	fx.Invoke(StartServer),
)
