package interview

import (
	"errors"
	"log/slog"
	"sync"
	"time"
)

// ErrSessionActive is returned when a session is already running.
var ErrSessionActive = errors.New("an interview session is already active")

// Manager enforces the one-active-session rule for the CLI and monitor.
type Manager struct {
	log *slog.Logger

	mu      sync.Mutex
	current *Session
}

func NewManager(log *slog.Logger) *Manager {
	if log == nil {
		log = slog.Default()
	}
	return &Manager{log: log}
}

// Start creates and starts a session, rejecting overlap with a running one.
// The manager wraps OnDisconnect so the slot clears when the session ends.
func (m *Manager) Start(cfg Config, cb Callbacks) (*Session, error) {
	m.mu.Lock()
	if m.current != nil && m.current.State() != StateStopped {
		m.mu.Unlock()
		return nil, ErrSessionActive
	}

	var session *Session
	wrapped := cb
	userDisconnect := cb.OnDisconnect
	wrapped.OnDisconnect = func() {
		m.clear(session)
		if userDisconnect != nil {
			userDisconnect()
		}
	}

	s, err := New(cfg, wrapped)
	if err != nil {
		m.mu.Unlock()
		return nil, err
	}
	session = s
	m.current = s
	m.mu.Unlock()

	m.log.Info("session slot taken", "session_id", s.ID(), "candidate", s.CandidateName())
	s.Start()
	return s, nil
}

// Stop stops the running session, if any.
func (m *Manager) Stop() {
	m.mu.Lock()
	s := m.current
	m.mu.Unlock()
	if s != nil {
		s.Stop()
	}
}

func (m *Manager) clear(s *Session) {
	m.mu.Lock()
	if m.current == s {
		m.current = nil
	}
	m.mu.Unlock()
}

// Snapshot describes the current session for the monitor surface.
type Snapshot struct {
	Active        bool      `json:"active"`
	SessionID     string    `json:"sessionId,omitempty"`
	State         State     `json:"state,omitempty"`
	CandidateName string    `json:"candidateName,omitempty"`
	StartedAt     time.Time `json:"startedAt,omitempty"`
}

func (m *Manager) Snapshot() Snapshot {
	m.mu.Lock()
	s := m.current
	m.mu.Unlock()
	if s == nil {
		return Snapshot{}
	}
	state := s.State()
	return Snapshot{
		Active:        state == StateStarting || state == StateActive,
		SessionID:     s.ID(),
		State:         state,
		CandidateName: s.CandidateName(),
		StartedAt:     s.StartedAt(),
	}
}
