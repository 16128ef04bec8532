//go:build portaudio

package device

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/gordonklaus/portaudio"
)

// MicSource captures mono float32 samples from the default input device.
type MicSource struct {
	log     *slog.Logger
	stream  *portaudio.Stream
	rate    int
	buf     []float32
	samples chan []float32

	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	started   bool
	startOnce sync.Once
	closeOnce sync.Once
}

func NewMicSource(cfg SourceConfig) (*MicSource, error) {
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = 16000
	}
	if cfg.FrameSize <= 0 {
		cfg.FrameSize = 1024
	}
	if cfg.Buffer <= 0 {
		cfg.Buffer = 32
	}
	if cfg.Log == nil {
		cfg.Log = slog.Default()
	}

	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize audio subsystem: %w", err)
	}

	rate := cfg.SampleRate
	buf := make([]float32, cfg.FrameSize)
	stream, err := portaudio.OpenDefaultStream(1, 0, float64(rate), cfg.FrameSize, buf)
	if err != nil {
		info, derr := portaudio.DefaultInputDevice()
		if derr != nil {
			portaudio.Terminate()
			return nil, fmt.Errorf("failed to open microphone: %w", err)
		}
		rate = int(info.DefaultSampleRate)
		cfg.Log.Warn("capture rate unavailable, falling back to device rate",
			"requested", cfg.SampleRate, "device", rate)
		stream, err = portaudio.OpenDefaultStream(1, 0, float64(rate), cfg.FrameSize, buf)
		if err != nil {
			portaudio.Terminate()
			return nil, fmt.Errorf("failed to open microphone: %w", err)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &MicSource{
		log:     cfg.Log,
		stream:  stream,
		rate:    rate,
		buf:     buf,
		samples: make(chan []float32, cfg.Buffer),
		ctx:     ctx,
		cancel:  cancel,
	}, nil
}

func (m *MicSource) Start() error {
	var err error
	m.startOnce.Do(func() {
		if serr := m.stream.Start(); serr != nil {
			err = fmt.Errorf("failed to start microphone stream: %w", serr)
			return
		}
		m.started = true
		m.wg.Add(1)
		go m.readLoop()
	})
	return err
}

func (m *MicSource) Samples() <-chan []float32 { return m.samples }
func (m *MicSource) SampleRate() int           { return m.rate }

func (m *MicSource) Close() error {
	m.closeOnce.Do(func() {
		m.cancel()
		if m.started {
			m.stream.Abort()
		}
		m.wg.Wait()
		if err := m.stream.Close(); err != nil {
			m.log.Warn("failed to close microphone stream", "error", err)
		}
		close(m.samples)
		portaudio.Terminate()
	})
	return nil
}

func (m *MicSource) readLoop() {
	defer m.wg.Done()
	for {
		if m.ctx.Err() != nil {
			return
		}
		if err := m.stream.Read(); err != nil {
			if m.ctx.Err() == nil {
				m.log.Warn("microphone read failed", "error", err)
			}
			return
		}
		batch := make([]float32, len(m.buf))
		copy(batch, m.buf)
		select {
		case m.samples <- batch:
		default:
			m.log.Debug("capture buffer full, dropping samples")
		}
	}
}

// SpeakerSink plays mono float32 samples on the default output device.
// Writes accumulate in a carry buffer so hardware blocks always fill; the
// remainder is flushed with silence padding on Close.
type SpeakerSink struct {
	log    *slog.Logger
	stream *portaudio.Stream
	rate   int
	buf    []float32

	mu      sync.Mutex
	pending []float32
	closed  bool

	started   bool
	startOnce sync.Once
	closeOnce sync.Once
}

func NewSpeakerSink(cfg SinkConfig) (*SpeakerSink, error) {
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = 24000
	}
	if cfg.FrameSize <= 0 {
		cfg.FrameSize = 512
	}
	if cfg.Log == nil {
		cfg.Log = slog.Default()
	}

	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize audio subsystem: %w", err)
	}

	buf := make([]float32, cfg.FrameSize)
	stream, err := portaudio.OpenDefaultStream(0, 1, float64(cfg.SampleRate), cfg.FrameSize, buf)
	if err != nil {
		portaudio.Terminate()
		return nil, fmt.Errorf("failed to open audio output: %w", err)
	}

	return &SpeakerSink{
		log:    cfg.Log,
		stream: stream,
		rate:   cfg.SampleRate,
		buf:    buf,
	}, nil
}

func (s *SpeakerSink) Start() error {
	var err error
	s.startOnce.Do(func() {
		if serr := s.stream.Start(); serr != nil {
			err = fmt.Errorf("failed to start audio output stream: %w", serr)
			return
		}
		s.started = true
	})
	return err
}

func (s *SpeakerSink) Write(samples []float32) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errors.New("audio output closed")
	}

	s.pending = append(s.pending, samples...)
	for len(s.pending) >= len(s.buf) {
		copy(s.buf, s.pending[:len(s.buf)])
		s.pending = s.pending[len(s.buf):]
		if err := s.stream.Write(); err != nil {
			return fmt.Errorf("failed to write audio output: %w", err)
		}
	}
	return nil
}

func (s *SpeakerSink) SampleRate() int { return s.rate }

func (s *SpeakerSink) Close() error {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.closed = true
		if s.started && len(s.pending) > 0 {
			n := copy(s.buf, s.pending)
			for i := n; i < len(s.buf); i++ {
				s.buf[i] = 0
			}
			if err := s.stream.Write(); err != nil {
				s.log.Debug("failed to flush audio output", "error", err)
			}
		}
		s.pending = nil
		s.mu.Unlock()

		if s.started {
			if err := s.stream.Stop(); err != nil {
				s.log.Warn("failed to stop audio output stream", "error", err)
			}
		}
		if err := s.stream.Close(); err != nil {
			s.log.Warn("failed to close audio output stream", "error", err)
		}
		portaudio.Terminate()
	})
	return nil
}

// ListDevices reports the host's audio devices.
func ListDevices() ([]Info, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize audio subsystem: %w", err)
	}
	defer portaudio.Terminate()

	devices, err := portaudio.Devices()
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate audio devices: %w", err)
	}
	defaultIn, _ := portaudio.DefaultInputDevice()
	defaultOut, _ := portaudio.DefaultOutputDevice()

	infos := make([]Info, 0, len(devices))
	for _, d := range devices {
		infos = append(infos, Info{
			Name:          d.Name,
			MaxInputs:     d.MaxInputChannels,
			MaxOutputs:    d.MaxOutputChannels,
			SampleRate:    d.DefaultSampleRate,
			DefaultInput:  d == defaultIn,
			DefaultOutput: d == defaultOut,
		})
	}
	return infos, nil
}
