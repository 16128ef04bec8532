package playback

import "time"

// Clock provides the playback timeline. Position zero is the idle origin;
// implementations must be monotonic.
type Clock interface {
	Now() time.Duration
}

type systemClock struct {
	start time.Time
}

// NewSystemClock returns a Clock anchored at the moment of creation.
func NewSystemClock() Clock {
	return &systemClock{start: time.Now()}
}

func (c *systemClock) Now() time.Duration {
	return time.Since(c.start)
}
