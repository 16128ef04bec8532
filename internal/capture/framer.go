package capture

// Framer re-chunks sample deliveries of arbitrary size into fixed-size
// frames, carrying the remainder over to the next delivery.
type Framer struct {
	size int
	buf  []float32
}

func NewFramer(size int) *Framer {
	return &Framer{size: size}
}

// Push appends samples and returns every complete frame now available.
// Returned frames are copies and safe to retain.
func (f *Framer) Push(samples []float32) [][]float32 {
	f.buf = append(f.buf, samples...)
	var frames [][]float32
	for len(f.buf) >= f.size {
		frame := make([]float32, f.size)
		copy(frame, f.buf[:f.size])
		frames = append(frames, frame)
		f.buf = f.buf[f.size:]
	}
	return frames
}

// Pending returns how many samples are buffered short of a full frame.
func (f *Framer) Pending() int {
	return len(f.buf)
}
