package device

import (
	"errors"
	"log/slog"
)

// ErrUnavailable is returned by every constructor when the binary was built
// without the portaudio tag.
var ErrUnavailable = errors.New("audio devices unavailable: rebuild with -tags portaudio")

// SourceConfig selects the microphone stream layout. When the preferred
// sample rate cannot be opened the device default wins and callers are
// expected to resample.
type SourceConfig struct {
	SampleRate int
	FrameSize  int
	Buffer     int
	Log        *slog.Logger
}

// SinkConfig selects the speaker stream layout.
type SinkConfig struct {
	SampleRate int
	FrameSize  int
	Log        *slog.Logger
}

// Info describes one host audio device.
type Info struct {
	Name          string
	MaxInputs     int
	MaxOutputs    int
	SampleRate    float64
	DefaultInput  bool
	DefaultOutput bool
}
