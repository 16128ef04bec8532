package pcm

import "math"

// RMS computes the root-mean-square loudness of a frame. Inputs in [-1, 1]
// yield values in [0, 1]; an empty frame is silent.
func RMS(frame []float32) float64 {
	if len(frame) == 0 {
		return 0
	}
	var sum float64
	for _, s := range frame {
		sum += float64(s) * float64(s)
	}
	return math.Sqrt(sum / float64(len(frame)))
}
