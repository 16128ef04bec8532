package capture

import (
	"context"
	"log/slog"
	"sync"

	"github.com/vivavoce-ai/vivavoce/internal/pcm"
)

// DefaultFrameSize is the number of samples per outbound frame.
const DefaultFrameSize = 4096

// Source produces raw microphone samples. Start acquires the hardware
// stream and Close releases it; Samples delivers batches of arbitrary size
// at SampleRate until the source is closed.
type Source interface {
	Start() error
	Samples() <-chan []float32
	SampleRate() int
	Close() error
}

// Sender accepts encoded audio chunks for delivery. Implementations must
// not block the caller.
type Sender interface {
	SendAudio(data []byte, mimeType string) error
}

type Config struct {
	FrameSize  int
	SampleRate int
	Log        *slog.Logger
}

type Callbacks struct {
	OnVolume func(level float64)
}

// Path frames microphone samples, reports loudness, and hands encoded
// chunks to the Sender. It does not own the Source lifecycle; the session
// acquires and releases the hardware stream around it.
type Path struct {
	source Source
	sender Sender
	cb     Callbacks
	log    *slog.Logger

	frameSize int
	wireRate  int
	mimeType  string

	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	startOnce sync.Once
	stopOnce  sync.Once
}

func NewPath(cfg Config, source Source, sender Sender, cb Callbacks) *Path {
	if cfg.FrameSize <= 0 {
		cfg.FrameSize = DefaultFrameSize
	}
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = pcm.FormatCapture.SampleRate
	}
	if cfg.Log == nil {
		cfg.Log = slog.Default()
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Path{
		source:    source,
		sender:    sender,
		cb:        cb,
		log:       cfg.Log,
		frameSize: cfg.FrameSize,
		wireRate:  cfg.SampleRate,
		mimeType:  pcm.Format{SampleRate: cfg.SampleRate, Channels: 1}.MIME(),
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Start begins consuming source samples. Safe to call once the transport
// is ready for audio.
func (p *Path) Start() {
	p.startOnce.Do(func() {
		p.wg.Add(1)
		go p.run()
	})
}

// Stop halts frame processing and waits for the loop to exit. Idempotent.
func (p *Path) Stop() {
	p.stopOnce.Do(func() {
		p.cancel()
		p.wg.Wait()
	})
}

func (p *Path) run() {
	defer p.wg.Done()

	srcRate := p.source.SampleRate()
	framer := NewFramer(p.frameSize)

	for {
		select {
		case <-p.ctx.Done():
			return
		case samples, ok := <-p.source.Samples():
			if !ok {
				return
			}
			if srcRate != p.wireRate {
				samples = pcm.Resample(samples, srcRate, p.wireRate)
			}
			for _, frame := range framer.Push(samples) {
				p.handleFrame(frame)
			}
		}
	}
}

func (p *Path) handleFrame(frame []float32) {
	if p.cb.OnVolume != nil {
		p.cb.OnVolume(pcm.RMS(frame))
	}
	if err := p.sender.SendAudio(pcm.Encode(frame), p.mimeType); err != nil {
		p.log.Warn("failed to send audio frame", "error", err)
	}
}
