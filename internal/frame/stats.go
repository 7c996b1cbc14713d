package frame

import (
	"fmt"
	"time"
)

const statsWindow = time.Second

// Stats averages frame time over roughly one second of frames.
type Stats struct {
	prefix string

	last        time.Duration
	accumulated time.Duration
	frames      int
}

func NewStats(prefix string, now time.Duration) *Stats {
	return &Stats{prefix: prefix, last: now}
}

// Tick records one frame at now. Once a second's worth of frames has been
// seen it returns a fresh window title and restarts the average.
func (s *Stats) Tick(now time.Duration) (string, bool) {
	s.accumulated += now - s.last
	s.last = now
	s.frames++

	if s.accumulated < statsWindow {
		return "", false
	}

	avg := float64(s.accumulated) / float64(time.Millisecond) / float64(s.frames)
	s.accumulated = 0
	s.frames = 0

	return fmt.Sprintf("%s | FPS: %.0f (%.2fms)", s.prefix, 1000.0/avg, avg), true
}
