package pcm

import (
	"bytes"
	"errors"
	"math"
	"testing"
)

func TestEncode_ClampsOutOfRangeSamples(t *testing.T) {
	over := Encode([]float32{1.5})
	full := Encode([]float32{1.0})
	if !bytes.Equal(over, full) {
		t.Errorf("expected 1.5 to encode like 1.0, got %v vs %v", over, full)
	}

	under := Encode([]float32{-1.5})
	floor := Encode([]float32{-1.0})
	if !bytes.Equal(under, floor) {
		t.Errorf("expected -1.5 to encode like -1.0, got %v vs %v", under, floor)
	}
}

func TestEncode_ScalesAsymmetrically(t *testing.T) {
	got := Encode([]float32{1.0, -1.0, 0})
	want := []byte{0xFF, 0x7F, 0x00, 0x80, 0x00, 0x00}
	if !bytes.Equal(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestDecode_RoundTripWithinOneStep(t *testing.T) {
	frame := []float32{0, 0.25, -0.25, 0.5, -0.5, 1.0, -1.0}
	buf, err := Decode(Encode(frame), 16000, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(buf.Channels) != 1 {
		t.Fatalf("expected 1 channel, got %d", len(buf.Channels))
	}
	if buf.Frames() != len(frame) {
		t.Fatalf("expected %d frames, got %d", len(frame), buf.Frames())
	}
	for i, got := range buf.Channels[0] {
		if diff := math.Abs(float64(got - frame[i])); diff > 1.0/32768.0 {
			t.Errorf("sample %d: expected %v within one quantization step, got %v", i, frame[i], got)
		}
	}
}

func TestDecode_DeinterleavesChannels(t *testing.T) {
	// two stereo frames: L0 R0 L1 R1 = 0.5 -0.5 0.25 -0.25
	data := []byte{0x00, 0x40, 0x00, 0xC0, 0x00, 0x20, 0x00, 0xE0}
	buf, err := Decode(data, 48000, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if buf.SampleRate != 48000 {
		t.Errorf("expected sample rate 48000, got %d", buf.SampleRate)
	}
	if len(buf.Channels) != 2 || buf.Frames() != 2 {
		t.Fatalf("expected 2 channels of 2 frames, got %d channels of %d", len(buf.Channels), buf.Frames())
	}
	left, right := buf.Channels[0], buf.Channels[1]
	if left[0] != 0.5 || left[1] != 0.25 {
		t.Errorf("expected left channel [0.5 0.25], got %v", left)
	}
	if right[0] != -0.5 || right[1] != -0.25 {
		t.Errorf("expected right channel [-0.5 -0.25], got %v", right)
	}
}

func TestDecode_RejectsMisalignedInput(t *testing.T) {
	_, err := Decode([]byte{0x01, 0x02, 0x03}, 24000, 1)
	var malformed *MalformedAudioError
	if !errors.As(err, &malformed) {
		t.Fatalf("expected MalformedAudioError, got %v", err)
	}
	if malformed.ByteLength != 3 || malformed.Channels != 1 {
		t.Errorf("expected error to carry 3 bytes / 1 channel, got %+v", malformed)
	}

	if _, err := Decode([]byte{0x01, 0x02}, 24000, 2); err == nil {
		t.Error("expected error for stereo input shorter than one frame")
	}
	if _, err := Decode([]byte{0x01, 0x02}, 24000, 0); err == nil {
		t.Error("expected error for zero channels")
	}
}

func TestBuffer_Duration(t *testing.T) {
	buf, err := Decode(make([]byte, 48000), 24000, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := buf.Duration(); got.Seconds() != 1.0 {
		t.Errorf("expected 1s of audio, got %v", got)
	}
}

func TestBytesToText_RoundTrip(t *testing.T) {
	all := make([]byte, 256)
	for i := range all {
		all[i] = byte(i)
	}
	inputs := [][]byte{nil, {0x00}, {0xFF, 0x00, 0xAB}, []byte("hello world"), all}
	for _, in := range inputs {
		out, err := TextToBytes(BytesToText(in))
		if err != nil {
			t.Fatalf("unexpected error decoding %d bytes: %v", len(in), err)
		}
		if !bytes.Equal(out, in) {
			t.Errorf("expected round trip of %d bytes, got %v", len(in), out)
		}
	}
}

func TestTextToBytes_RejectsInvalidInput(t *testing.T) {
	if _, err := TextToBytes("not base64!!!"); err == nil {
		t.Error("expected error for invalid base64 text")
	}
}
