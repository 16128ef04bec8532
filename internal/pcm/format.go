package pcm

import (
	"fmt"
	"time"
)

// Format describes a PCM stream layout on the dialogue wire.
type Format struct {
	SampleRate int
	Channels   int
}

var (
	// FormatCapture is the microphone format sent to the dialogue service.
	FormatCapture = Format{SampleRate: 16000, Channels: 1}
	// FormatPlayback is the format of audio received from the dialogue service.
	FormatPlayback = Format{SampleRate: 24000, Channels: 1}
)

// MIME returns the media type string carried on realtime input chunks.
func (f Format) MIME() string {
	return fmt.Sprintf("audio/pcm;rate=%d", f.SampleRate)
}

// Duration converts a PCM16 byte count to playback time.
func (f Format) Duration(byteLen int) time.Duration {
	if f.SampleRate <= 0 || f.Channels <= 0 {
		return 0
	}
	frames := byteLen / (2 * f.Channels)
	return time.Duration(float64(frames) / float64(f.SampleRate) * float64(time.Second))
}

// Bytes converts a playback duration to a PCM16 byte count.
func (f Format) Bytes(d time.Duration) int {
	if d <= 0 || f.SampleRate <= 0 || f.Channels <= 0 {
		return 0
	}
	frames := int(d.Seconds() * float64(f.SampleRate))
	return frames * 2 * f.Channels
}
