package pcm

import "testing"

func TestResample_SameRatePassthrough(t *testing.T) {
	in := []float32{0.1, 0.2, 0.3}
	out := Resample(in, 16000, 16000)
	if len(out) != len(in) {
		t.Fatalf("expected %d samples, got %d", len(in), len(out))
	}
	for i := range in {
		if out[i] != in[i] {
			t.Errorf("sample %d: expected %v, got %v", i, in[i], out[i])
		}
	}
}

func TestResample_Downsample(t *testing.T) {
	in := make([]float32, 480)
	for i := range in {
		in[i] = float32(i) / 480
	}
	out := Resample(in, 48000, 16000)
	if len(out) != 160 {
		t.Fatalf("expected 160 samples, got %d", len(out))
	}
	for i := 1; i < len(out); i++ {
		if out[i] < out[i-1] {
			t.Fatalf("expected monotone ramp to stay monotone, sample %d went backwards", i)
		}
	}
}

func TestResample_UpsampleInterpolates(t *testing.T) {
	out := Resample([]float32{0, 1}, 8000, 16000)
	if len(out) != 4 {
		t.Fatalf("expected 4 samples, got %d", len(out))
	}
	if out[0] != 0 {
		t.Errorf("expected first sample 0, got %v", out[0])
	}
	if out[1] != 0.5 {
		t.Errorf("expected interpolated midpoint 0.5, got %v", out[1])
	}
	if out[3] != 1 {
		t.Errorf("expected tail to hold last sample, got %v", out[3])
	}
}

func TestResample_EmptyInput(t *testing.T) {
	if out := Resample(nil, 48000, 16000); len(out) != 0 {
		t.Errorf("expected empty output, got %d samples", len(out))
	}
}
