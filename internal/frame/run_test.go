package frame

import (
	"context"
	"testing"
	"time"
)

type fakeWindow struct {
	events []struct{ quit, resized bool }
	titles []string
	idles  int
	polled int
}

func (w *fakeWindow) PollEvents() (bool, bool) {
	if w.polled >= len(w.events) {
		return true, false
	}
	e := w.events[w.polled]
	w.polled++
	return e.quit, e.resized
}

func (w *fakeWindow) SetTitle(title string) { w.titles = append(w.titles, title) }
func (w *fakeWindow) Idle()                 { w.idles++ }

type resizeFlag struct{ s *fakeSwapchain }

func (r resizeFlag) MarkResized() { r.s.pending = true }

func TestDriverRun(t *testing.T) {
	window := &fakeWindow{events: []struct{ quit, resized bool }{
		{}, {resized: true}, {}, {quit: true},
	}}
	backend := &fakeBackend{}
	swapchain := &fakeSwapchain{}

	clock := time.Duration(0)
	driver := &Driver{
		Window:  window,
		Loop:    NewLoop(backend, swapchain, 2),
		Resizer: resizeFlag{swapchain},
		Stats:   NewStats("VkDraw", 0),
		Clock: func() time.Duration {
			clock += 600 * time.Millisecond
			return clock
		},
	}

	if err := driver.Run(context.Background()); err != nil {
		t.Fatal(err)
	}

	if swapchain.recreates != 1 {
		t.Errorf("recreates = %d, want 1", swapchain.recreates)
	}
	if driver.Loop.Slots().Frame() != 3 {
		t.Errorf("frames = %d, want 3", driver.Loop.Slots().Frame())
	}
	if len(window.titles) != 1 {
		t.Errorf("titles = %v", window.titles)
	}
	if last := backend.calls[len(backend.calls)-1]; last != "idle" {
		t.Errorf("last call = %q, want idle", last)
	}
}

func TestDriverIdlesWhileMinimized(t *testing.T) {
	window := &fakeWindow{events: make([]struct{ quit, resized bool }, 4)}
	driver := &Driver{
		Window:  window,
		Loop:    NewLoop(&fakeBackend{}, &fakeSwapchain{minimized: true}, 2),
		Resizer: resizeFlag{&fakeSwapchain{}},
	}

	if err := driver.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if window.idles != 4 {
		t.Errorf("idles = %d, want 4", window.idles)
	}
}

func TestDriverStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	window := &fakeWindow{events: make([]struct{ quit, resized bool }, 10)}
	driver := &Driver{
		Window:  window,
		Loop:    NewLoop(&fakeBackend{}, &fakeSwapchain{}, 2),
		Resizer: resizeFlag{&fakeSwapchain{}},
	}
	if err := driver.Run(ctx); err != nil {
		t.Fatal(err)
	}
	if window.polled != 0 {
		t.Errorf("polled %d times after cancel", window.polled)
	}
}
