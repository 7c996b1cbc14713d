package frame

import (
	"testing"
	"time"
)

func TestStatsTitle(t *testing.T) {
	s := NewStats("VkDraw", 0)

	now := time.Duration(0)
	for i := 0; i < 99; i++ {
		now += 10 * time.Millisecond
		if _, ok := s.Tick(now); ok {
			t.Fatalf("title produced early at frame %d", i)
		}
	}

	now += 10 * time.Millisecond
	title, ok := s.Tick(now)
	if !ok {
		t.Fatal("no title after one second")
	}
	if want := "VkDraw | FPS: 100 (10.00ms)"; title != want {
		t.Errorf("title = %q, want %q", title, want)
	}

	now += 10 * time.Millisecond
	if _, ok := s.Tick(now); ok {
		t.Error("average not restarted")
	}
}
