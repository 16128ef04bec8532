package playback

import (
	"log/slog"
	"sync"
	"time"
)

const (
	defaultQueueSize = 64
	// defaultChunk keeps sink writes short enough that an interrupt lands
	// within ~100ms at 24kHz.
	defaultChunk = 2400
)

// Sink plays mono float32 samples. Start acquires the output device and
// Close releases it; Write may block at the hardware rate.
type Sink interface {
	Start() error
	Write(samples []float32) error
	SampleRate() int
	Close() error
}

type Config struct {
	QueueSize int
	Chunk     int
	Clock     Clock
	Log       *slog.Logger
}

type segment struct {
	id      uint64
	samples []float32
	startAt time.Duration
	stop    chan struct{}
}

// Scheduler plays decoded audio segments back to back on a single timeline.
// Segments are written to the sink in hand-off order; nextStart only moves
// forward except when an interrupt resets it to zero.
type Scheduler struct {
	sink  Sink
	clock Clock
	log   *slog.Logger
	rate  int
	chunk int

	mu        sync.Mutex
	nextStart time.Duration
	nextID    uint64
	active    map[uint64]*segment
	closed    bool

	queue     chan *segment
	startOnce sync.Once
	stopOnce  sync.Once
	wg        sync.WaitGroup
}

func NewScheduler(cfg Config, sink Sink) *Scheduler {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = defaultQueueSize
	}
	if cfg.Chunk <= 0 {
		cfg.Chunk = defaultChunk
	}
	if cfg.Clock == nil {
		cfg.Clock = NewSystemClock()
	}
	if cfg.Log == nil {
		cfg.Log = slog.Default()
	}
	return &Scheduler{
		sink:   sink,
		clock:  cfg.Clock,
		log:    cfg.Log,
		rate:   sink.SampleRate(),
		chunk:  cfg.Chunk,
		active: make(map[uint64]*segment),
		queue:  make(chan *segment, cfg.QueueSize),
	}
}

// Start launches the playback worker.
func (s *Scheduler) Start() {
	s.startOnce.Do(func() {
		s.wg.Add(1)
		go s.run()
	})
}

// Enqueue schedules a segment at the current end of the timeline and
// returns its id, or 0 when the segment was empty or dropped. Never blocks.
func (s *Scheduler) Enqueue(samples []float32) uint64 {
	if len(samples) == 0 {
		return 0
	}
	dur := time.Duration(float64(len(samples)) / float64(s.rate) * float64(time.Second))

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return 0
	}
	startAt := s.nextStart
	if now := s.clock.Now(); now > startAt {
		startAt = now
	}
	seg := &segment{
		id:      s.nextID + 1,
		samples: samples,
		startAt: startAt,
		stop:    make(chan struct{}),
	}

	select {
	case s.queue <- seg:
		s.nextID = seg.id
		s.nextStart = startAt + dur
		s.active[seg.id] = seg
		s.mu.Unlock()
		return seg.id
	default:
		s.mu.Unlock()
		s.log.Warn("playback queue full, dropping segment", "samples", len(samples))
		return 0
	}
}

// Interrupt stops every active segment, clears the set, and resets the
// timeline so the next segment starts immediately.
func (s *Scheduler) Interrupt() {
	s.mu.Lock()
	stopped := len(s.active)
	for _, seg := range s.active {
		close(seg.stop)
	}
	s.active = make(map[uint64]*segment)
	s.nextStart = 0
	s.mu.Unlock()

	if stopped > 0 {
		s.log.Debug("interrupted playback", "segments", stopped)
	}
}

// Stop interrupts playback and shuts the worker down. Idempotent.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		s.mu.Lock()
		s.closed = true
		for _, seg := range s.active {
			close(seg.stop)
		}
		s.active = make(map[uint64]*segment)
		s.nextStart = 0
		s.mu.Unlock()
		close(s.queue)
	})
	s.wg.Wait()
}

// ActiveCount returns the number of scheduled but unfinished segments.
func (s *Scheduler) ActiveCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.active)
}

// NextStart returns the timeline position the next segment would occupy.
func (s *Scheduler) NextStart() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nextStart
}

func (s *Scheduler) run() {
	defer s.wg.Done()
	for seg := range s.queue {
		s.play(seg)
	}
}

func (s *Scheduler) play(seg *segment) {
	defer func() {
		s.mu.Lock()
		delete(s.active, seg.id)
		s.mu.Unlock()
	}()

	if delay := seg.startAt - s.clock.Now(); delay > 0 {
		timer := time.NewTimer(delay)
		select {
		case <-seg.stop:
			timer.Stop()
			return
		case <-timer.C:
		}
	}

	for off := 0; off < len(seg.samples); off += s.chunk {
		select {
		case <-seg.stop:
			return
		default:
		}
		end := off + s.chunk
		if end > len(seg.samples) {
			end = len(seg.samples)
		}
		if err := s.sink.Write(seg.samples[off:end]); err != nil {
			s.log.Warn("failed to write playback audio", "error", err)
			return
		}
	}
}
