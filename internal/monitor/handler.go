package monitor

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/vivavoce-ai/vivavoce/internal/interview"
	"github.com/vivavoce-ai/vivavoce/internal/profile"
)

const (
	keepaliveInterval = 30 * time.Second
	maxUploadBytes    = 10 << 20
)

// Handler exposes the local monitor surface: health, the current session
// snapshot, a live event stream, and document analysis.
type Handler struct {
	manager  *interview.Manager
	analyzer profile.Analyzer
	hub      *Hub
	version  string
	started  time.Time
	log      *slog.Logger
}

func NewHandler(manager *interview.Manager, analyzer profile.Analyzer, hub *Hub, version string, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{
		manager:  manager,
		analyzer: analyzer,
		hub:      hub,
		version:  version,
		started:  time.Now(),
		log:      log,
	}
}

// RegisterRoutes mounts the monitor endpoints on the echo instance.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", h.Health)
	e.GET("/session", h.Session)
	e.POST("/session/stop", h.StopSession)
	e.GET("/events", h.Events)
	e.POST("/analyze", h.Analyze)
}

type healthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
	Uptime  string `json:"uptime"`
}

func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, healthResponse{
		Status:  "ok",
		Version: h.version,
		Uptime:  time.Since(h.started).Round(time.Second).String(),
	})
}

func (h *Handler) Session(c echo.Context) error {
	return c.JSON(http.StatusOK, h.manager.Snapshot())
}

func (h *Handler) StopSession(c echo.Context) error {
	h.manager.Stop()
	return c.JSON(http.StatusOK, h.manager.Snapshot())
}

type analyzeRequest struct {
	Text string `json:"text"`
}

func (h *Handler) Analyze(c echo.Context) error {
	if h.analyzer == nil {
		return ServiceUnavailable("no analyzer configured").Respond(c)
	}

	doc, apiErr := documentFromRequest(c)
	if apiErr != nil {
		return apiErr.Respond(c)
	}

	p, err := h.analyzer.Analyze(c.Request().Context(), doc)
	if err != nil {
		h.log.Error("failed to analyze document", "error", err)
		return Unprocessable("analysis failed").Respond(c)
	}
	return c.JSON(http.StatusOK, p)
}

func documentFromRequest(c echo.Context) (profile.Document, *APIError) {
	contentType := c.Request().Header.Get(echo.HeaderContentType)

	switch {
	case strings.HasPrefix(contentType, echo.MIMEApplicationJSON):
		var req analyzeRequest
		if err := c.Bind(&req); err != nil {
			return profile.Document{}, BadRequest("invalid json body")
		}
		if strings.TrimSpace(req.Text) == "" {
			return profile.Document{}, BadRequest("text is required")
		}
		return profile.Document{Text: req.Text}, nil

	case strings.HasPrefix(contentType, "text/"):
		body, err := io.ReadAll(io.LimitReader(c.Request().Body, maxUploadBytes))
		if err != nil {
			return profile.Document{}, BadRequest("failed to read body")
		}
		if strings.TrimSpace(string(body)) == "" {
			return profile.Document{}, BadRequest("text is required")
		}
		return profile.Document{Text: string(body)}, nil

	case contentType == "":
		return profile.Document{}, BadRequest("content type is required")

	default:
		body, err := io.ReadAll(io.LimitReader(c.Request().Body, maxUploadBytes))
		if err != nil || len(body) == 0 {
			return profile.Document{}, BadRequest("document body is required")
		}
		return profile.Document{Data: body, MIME: contentType}, nil
	}
}

// Events streams hub events to the client as server-sent events.
func (h *Handler) Events(c echo.Context) error {
	w := c.Response()
	w.Header().Set(echo.HeaderContentType, "text/event-stream")
	w.Header().Set(echo.HeaderCacheControl, "no-cache")
	w.Header().Set(echo.HeaderConnection, "keep-alive")
	w.WriteHeader(http.StatusOK)
	w.Flush()

	events, cancel := h.hub.Subscribe(64)
	defer cancel()

	ticker := time.NewTicker(keepaliveInterval)
	defer ticker.Stop()

	ctx := c.Request().Context()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			data, err := json.Marshal(ev)
			if err != nil {
				h.log.Warn("failed to marshal monitor event", "error", err)
				continue
			}
			if _, err := fmt.Fprintf(w, "data: %s\n\n", data); err != nil {
				return nil
			}
			w.Flush()
		case <-ticker.C:
			if _, err := io.WriteString(w, ":keepalive\n\n"); err != nil {
				return nil
			}
			w.Flush()
		}
	}
}
