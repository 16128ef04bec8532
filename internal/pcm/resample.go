package pcm

// Resample converts mono PCM between sample rates using linear interpolation.
// It is the fallback for capture devices that cannot open at the wire rate.
func Resample(input []float32, fromRate, toRate int) []float32 {
	if fromRate == toRate || len(input) == 0 || fromRate <= 0 || toRate <= 0 {
		return input
	}

	ratio := float64(fromRate) / float64(toRate)
	outLen := int(float64(len(input)) / ratio)
	if outLen == 0 {
		return nil
	}

	output := make([]float32, outLen)
	for i := range output {
		pos := float64(i) * ratio
		idx := int(pos)
		frac := float32(pos - float64(idx))
		if idx+1 < len(input) {
			output[i] = input[idx]*(1-frac) + input[idx+1]*frac
		} else if idx < len(input) {
			output[i] = input[idx]
		}
	}
	return output
}
