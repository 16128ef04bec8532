package monitor

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/vivavoce-ai/vivavoce/internal/interview"
	"github.com/vivavoce-ai/vivavoce/internal/profile"
)

type stubAnalyzer struct {
	mu      sync.Mutex
	doc     profile.Document
	profile *profile.Profile
	err     error
}

func (a *stubAnalyzer) Analyze(ctx context.Context, doc profile.Document) (*profile.Profile, error) {
	a.mu.Lock()
	a.doc = doc
	a.mu.Unlock()
	if a.err != nil {
		return nil, a.err
	}
	return a.profile, nil
}

func (a *stubAnalyzer) received() profile.Document {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.doc
}

func newTestHandler(analyzer profile.Analyzer) (*echo.Echo, *Hub) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	hub := NewHub()
	handler := NewHandler(interview.NewManager(log), analyzer, hub, "test", log)

	e := echo.New()
	handler.RegisterRoutes(e)
	return e, hub
}

func TestHealth_ReportsOK(t *testing.T) {
	e, _ := newTestHandler(nil)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var body healthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body.Status != "ok" {
		t.Errorf("expected status ok, got %q", body.Status)
	}
	if body.Version != "test" {
		t.Errorf("expected version test, got %q", body.Version)
	}
}

func TestSession_EmptyWithoutSession(t *testing.T) {
	e, _ := newTestHandler(nil)

	req := httptest.NewRequest(http.MethodGet, "/session", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var snap interview.Snapshot
	if err := json.Unmarshal(rec.Body.Bytes(), &snap); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if snap.Active {
		t.Error("expected no active session")
	}
}

func TestStopSession_NoSessionIsSafe(t *testing.T) {
	e, _ := newTestHandler(nil)

	req := httptest.NewRequest(http.MethodPost, "/session/stop", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAnalyze_JSONBody(t *testing.T) {
	analyzer := &stubAnalyzer{profile: &profile.Profile{
		CandidateName:   "Dana",
		Summary:         "Backend engineer.",
		Topics:          []string{"APIs"},
		TechnicalSkills: []string{"Go"},
	}}
	e, _ := newTestHandler(analyzer)

	payload := `{"text":"Dana is a backend engineer."}`
	req := httptest.NewRequest(http.MethodPost, "/analyze", strings.NewReader(payload))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var got profile.Profile
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if got.CandidateName != "Dana" {
		t.Errorf("expected candidate Dana, got %q", got.CandidateName)
	}

	doc := analyzer.received()
	if doc.Text != "Dana is a backend engineer." {
		t.Errorf("expected document text to pass through, got %q", doc.Text)
	}
	if doc.IsBinary() {
		t.Error("expected a text document")
	}
}

func TestAnalyze_PlainTextBody(t *testing.T) {
	analyzer := &stubAnalyzer{profile: &profile.Profile{CandidateName: "Dana"}}
	e, _ := newTestHandler(analyzer)

	req := httptest.NewRequest(http.MethodPost, "/analyze", strings.NewReader("plain resume text"))
	req.Header.Set(echo.HeaderContentType, "text/plain")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if doc := analyzer.received(); doc.Text != "plain resume text" {
		t.Errorf("expected plain text document, got %q", doc.Text)
	}
}

func TestAnalyze_BinaryBody(t *testing.T) {
	analyzer := &stubAnalyzer{profile: &profile.Profile{CandidateName: "Dana"}}
	e, _ := newTestHandler(analyzer)

	pdf := []byte("%PDF-1.4 fake")
	req := httptest.NewRequest(http.MethodPost, "/analyze", bytes.NewReader(pdf))
	req.Header.Set(echo.HeaderContentType, "application/pdf")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	doc := analyzer.received()
	if !doc.IsBinary() {
		t.Fatal("expected a binary document")
	}
	if doc.MIME != "application/pdf" {
		t.Errorf("expected pdf mime type, got %q", doc.MIME)
	}
	if !bytes.Equal(doc.Data, pdf) {
		t.Error("expected body bytes to pass through unchanged")
	}
}

func TestAnalyze_RejectsEmptyText(t *testing.T) {
	e, _ := newTestHandler(&stubAnalyzer{})

	req := httptest.NewRequest(http.MethodPost, "/analyze", strings.NewReader(`{"text":"  "}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	var apiErr APIError
	if err := json.Unmarshal(rec.Body.Bytes(), &apiErr); err != nil {
		t.Fatalf("failed to decode error body: %v", err)
	}
	if apiErr.Code != http.StatusBadRequest {
		t.Errorf("expected error code 400, got %d", apiErr.Code)
	}
}

func TestAnalyze_FailureMapsToUnprocessable(t *testing.T) {
	analyzer := &stubAnalyzer{err: errors.New("model refused")}
	e, _ := newTestHandler(analyzer)

	req := httptest.NewRequest(http.MethodPost, "/analyze", strings.NewReader(`{"text":"resume"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
}

func TestAnalyze_WithoutAnalyzer(t *testing.T) {
	e, _ := newTestHandler(nil)

	req := httptest.NewRequest(http.MethodPost, "/analyze", strings.NewReader(`{"text":"resume"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}

func TestEvents_StreamsPublishedEvents(t *testing.T) {
	e, hub := newTestHandler(nil)

	ts := httptest.NewServer(e)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/events")
	if err != nil {
		t.Fatalf("failed to open event stream: %v", err)
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/event-stream") {
		t.Fatalf("expected event-stream content type, got %q", ct)
	}

	deadline := time.Now().Add(time.Second)
	for hub.SubscriberCount() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("timed out waiting for subscription")
		}
		time.Sleep(5 * time.Millisecond)
	}

	hub.Publish(Event{Type: "volume", Level: 0.25, SessionID: "abc"})

	lines := make(chan string, 1)
	go func() {
		reader := bufio.NewReader(resp.Body)
		for {
			line, err := reader.ReadString('\n')
			if err != nil {
				return
			}
			if strings.HasPrefix(line, "data: ") {
				lines <- strings.TrimSpace(strings.TrimPrefix(line, "data: "))
				return
			}
		}
	}()

	select {
	case line := <-lines:
		var ev Event
		if err := json.Unmarshal([]byte(line), &ev); err != nil {
			t.Fatalf("failed to decode event %q: %v", line, err)
		}
		if ev.Type != "volume" || ev.Level != 0.25 || ev.SessionID != "abc" {
			t.Errorf("unexpected event: %+v", ev)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event on stream")
	}
}
