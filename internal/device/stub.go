//go:build !portaudio

package device

// MicSource is a placeholder in builds without the portaudio tag.
type MicSource struct{}

func NewMicSource(cfg SourceConfig) (*MicSource, error) {
	return nil, ErrUnavailable
}

func (m *MicSource) Start() error {
	return ErrUnavailable
}

func (m *MicSource) Samples() <-chan []float32 {
	return nil
}

func (m *MicSource) SampleRate() int {
	return 0
}

func (m *MicSource) Close() error {
	return nil
}

// SpeakerSink is a placeholder in builds without the portaudio tag.
type SpeakerSink struct{}

func NewSpeakerSink(cfg SinkConfig) (*SpeakerSink, error) {
	return nil, ErrUnavailable
}

func (s *SpeakerSink) Start() error {
	return ErrUnavailable
}

func (s *SpeakerSink) Write(samples []float32) error {
	return ErrUnavailable
}

func (s *SpeakerSink) SampleRate() int {
	return 0
}

func (s *SpeakerSink) Close() error {
	return nil
}

// ListDevices reports the host's audio devices.
func ListDevices() ([]Info, error) {
	return nil, ErrUnavailable
}
