package pcm

import (
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"time"
)

// Buffer holds decoded PCM as per-channel sample slices in [-1, 1].
type Buffer struct {
	Channels   [][]float32
	SampleRate int
}

// Frames returns the number of samples per channel.
func (b *Buffer) Frames() int {
	if len(b.Channels) == 0 {
		return 0
	}
	return len(b.Channels[0])
}

// Duration returns the playback time of the buffer.
func (b *Buffer) Duration() time.Duration {
	if b.SampleRate <= 0 {
		return 0
	}
	return time.Duration(float64(b.Frames()) / float64(b.SampleRate) * float64(time.Second))
}

// MalformedAudioError reports PCM16 input whose byte length does not divide
// into whole frames for the requested channel count.
type MalformedAudioError struct {
	ByteLength int
	Channels   int
}

func (e *MalformedAudioError) Error() string {
	return fmt.Sprintf("malformed pcm16 audio: %d bytes is not a whole number of frames for %d channel(s)", e.ByteLength, e.Channels)
}

// Encode serializes a mono frame of float32 samples as little-endian PCM16.
// Samples are clamped to [-1, 1]; negative values scale by 32768 and
// non-negative values by 32767 so both ends of the int16 range are reachable.
func Encode(frame []float32) []byte {
	out := make([]byte, len(frame)*2)
	for i, s := range frame {
		if s > 1.0 {
			s = 1.0
		} else if s < -1.0 {
			s = -1.0
		}
		var v int16
		if s < 0 {
			v = int16(s * 32768.0)
		} else {
			v = int16(s * 32767.0)
		}
		binary.LittleEndian.PutUint16(out[i*2:], uint16(v))
	}
	return out
}

// Decode parses interleaved little-endian PCM16 into per-channel float32
// samples scaled by 1/32768.
func Decode(data []byte, sampleRate, channels int) (*Buffer, error) {
	if channels < 1 || len(data)%(2*channels) != 0 {
		return nil, &MalformedAudioError{ByteLength: len(data), Channels: channels}
	}
	frames := len(data) / (2 * channels)
	chans := make([][]float32, channels)
	for c := range chans {
		chans[c] = make([]float32, frames)
	}
	for i := 0; i < frames; i++ {
		for c := 0; c < channels; c++ {
			off := (i*channels + c) * 2
			v := int16(binary.LittleEndian.Uint16(data[off : off+2]))
			chans[c][i] = float32(v) / 32768.0
		}
	}
	return &Buffer{Channels: chans, SampleRate: sampleRate}, nil
}

// BytesToText encodes raw bytes as standard base64 text.
func BytesToText(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}

// TextToBytes decodes standard base64 text back to raw bytes.
func TextToBytes(text string) ([]byte, error) {
	return base64.StdEncoding.DecodeString(text)
}
