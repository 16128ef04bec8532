package interview

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vivavoce-ai/vivavoce/internal/capture"
	"github.com/vivavoce-ai/vivavoce/internal/dialogue"
	"github.com/vivavoce-ai/vivavoce/internal/pcm"
	"github.com/vivavoce-ai/vivavoce/internal/playback"
	"github.com/vivavoce-ai/vivavoce/internal/profile"
)

type State string

const (
	StateIdle     State = "idle"
	StateStarting State = "starting"
	StateActive   State = "active"
	StateStopped  State = "stopped"
)

// Transport is the dialogue connection the session drives. *dialogue.Client
// is the production implementation.
type Transport interface {
	Connect(ctx context.Context)
	SendAudio(data []byte, mimeType string) error
	Close() error
}

type Callbacks struct {
	OnVolume     func(level float64)
	OnError      func(message string)
	OnDisconnect func()
}

type Config struct {
	Profile   *profile.Profile
	Endpoint  string
	Model     string
	Voice     string
	FrameSize int
	Log       *slog.Logger

	Source capture.Source
	Sink   playback.Sink

	// NewTransport overrides the dialogue client factory.
	NewTransport func(cfg dialogue.Config, cb dialogue.Callbacks) (Transport, error)
}

// Session runs one spoken interview: microphone to dialogue service, model
// audio back through the playback scheduler. Start never returns an error;
// failures surface on OnError and every path out of the session lands in
// Stopped with exactly one OnDisconnect.
type Session struct {
	id        string
	log       *slog.Logger
	cb        Callbacks
	candidate string
	startedAt time.Time

	source    capture.Source
	sink      playback.Sink
	scheduler *playback.Scheduler
	path      *capture.Path
	transport Transport

	ctx    context.Context
	cancel context.CancelFunc

	mu    sync.Mutex
	state State

	stopOnce sync.Once
	errOnce  sync.Once
}

func New(cfg Config, cb Callbacks) (*Session, error) {
	if cfg.Profile == nil {
		return nil, errors.New("interview: profile is required")
	}
	if cfg.Source == nil || cfg.Sink == nil {
		return nil, errors.New("interview: audio source and sink are required")
	}
	if cfg.Log == nil {
		cfg.Log = slog.Default()
	}
	if cfg.NewTransport == nil {
		cfg.NewTransport = func(dcfg dialogue.Config, dcb dialogue.Callbacks) (Transport, error) {
			return dialogue.New(dcfg, dcb)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Session{
		id:        uuid.New().String(),
		cb:        cb,
		candidate: cfg.Profile.CandidateName,
		startedAt: time.Now(),
		source:    cfg.Source,
		sink:      cfg.Sink,
		ctx:       ctx,
		cancel:    cancel,
		state:     StateIdle,
	}
	s.log = cfg.Log.With("session_id", s.id)

	s.scheduler = playback.NewScheduler(playback.Config{Log: s.log}, cfg.Sink)

	transport, err := cfg.NewTransport(dialogue.Config{
		Endpoint:     cfg.Endpoint,
		Model:        cfg.Model,
		Instructions: BuildInstructions(cfg.Profile),
		Voice:        cfg.Voice,
		Log:          s.log,
	}, dialogue.Callbacks{
		OnOpen:        s.handleOpen,
		OnAudio:       s.handleAudio,
		OnInterrupted: s.handleInterrupted,
		OnClosed:      s.handleClosed,
		OnError:       s.handleError,
	})
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to create dialogue transport: %w", err)
	}
	s.transport = transport

	s.path = capture.NewPath(capture.Config{
		FrameSize:  cfg.FrameSize,
		SampleRate: pcm.FormatCapture.SampleRate,
		Log:        s.log,
	}, cfg.Source, transport, capture.Callbacks{OnVolume: cb.OnVolume})

	return s, nil
}

func (s *Session) ID() string {
	return s.id
}

func (s *Session) CandidateName() string {
	return s.candidate
}

func (s *Session) StartedAt() time.Time {
	return s.startedAt
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Start acquires the audio devices and connects the dialogue transport.
// Errors are reported through OnError; the session lands in Stopped.
func (s *Session) Start() {
	s.mu.Lock()
	if s.state != StateIdle {
		s.mu.Unlock()
		s.log.Warn("start ignored", "state", s.state)
		return
	}
	s.state = StateStarting
	s.mu.Unlock()

	s.log.Info("starting interview session", "candidate", s.candidate)

	if err := s.sink.Start(); err != nil {
		s.fail(fmt.Sprintf("failed to open audio output: %v", err))
		return
	}
	if err := s.source.Start(); err != nil {
		s.fail(fmt.Sprintf("failed to open microphone: %v", err))
		return
	}
	s.scheduler.Start()
	s.transport.Connect(s.ctx)
}

// Stop tears the session down. Idempotent; OnDisconnect fires exactly once.
func (s *Session) Stop() {
	s.teardown()
}

func (s *Session) handleOpen() {
	s.mu.Lock()
	if s.state != StateStarting {
		s.mu.Unlock()
		return
	}
	s.state = StateActive
	s.mu.Unlock()

	s.log.Info("interview session active")
	s.path.Start()
}

func (s *Session) handleAudio(data []byte, mimeType string) {
	if !s.isLive() {
		return
	}
	buf, err := pcm.Decode(data, pcm.FormatPlayback.SampleRate, pcm.FormatPlayback.Channels)
	if err != nil {
		s.log.Warn("skipping malformed audio delta", "error", err, "mime_type", mimeType)
		return
	}
	s.scheduler.Enqueue(buf.Channels[0])
}

func (s *Session) handleInterrupted() {
	if !s.isLive() {
		return
	}
	s.log.Debug("model speech interrupted")
	s.scheduler.Interrupt()
}

func (s *Session) handleClosed() {
	if !s.isLive() {
		return
	}
	s.log.Info("dialogue closed by remote")
	s.teardown()
}

func (s *Session) handleError(message string) {
	if !s.isLive() {
		return
	}
	s.reportError(message)
	s.teardown()
}

func (s *Session) isLive() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == StateStarting || s.state == StateActive
}

func (s *Session) fail(message string) {
	s.reportError(message)
	s.teardown()
}

func (s *Session) reportError(message string) {
	s.errOnce.Do(func() {
		s.log.Error("interview session failed", "error", message)
		if s.cb.OnError != nil {
			s.cb.OnError(message)
		}
	})
}

// teardown releases everything in reverse acquisition order: capture frames
// first, then the transport, then the microphone, then audio output.
func (s *Session) teardown() {
	s.stopOnce.Do(func() {
		s.mu.Lock()
		s.state = StateStopped
		s.mu.Unlock()
		s.cancel()

		s.path.Stop()
		if err := s.transport.Close(); err != nil {
			s.log.Warn("failed to close dialogue transport", "error", err)
		}
		if err := s.source.Close(); err != nil {
			s.log.Warn("failed to release microphone", "error", err)
		}
		s.scheduler.Stop()
		if err := s.sink.Close(); err != nil {
			s.log.Warn("failed to release audio output", "error", err)
		}

		s.log.Info("interview session stopped")
		if s.cb.OnDisconnect != nil {
			s.cb.OnDisconnect()
		}
	})
}
