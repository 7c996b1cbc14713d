package frame

import (
	"context"
	"time"
)

type Window interface {
	// PollEvents drains pending window events.
	PollEvents() (quit, resized bool)
	SetTitle(title string)
	// Idle is called when a tick drew nothing, so a minimized window does
	// not spin.
	Idle()
}

type Resizer interface {
	MarkResized()
}

type Driver struct {
	Window  Window
	Loop    *Loop
	Resizer Resizer
	Stats   *Stats
	Clock   func() time.Duration
}

// Run ticks until the window asks to quit or ctx is done. Both are only
// observed between frames. The device is idle when Run returns.
func (d *Driver) Run(ctx context.Context) error {
	err := d.run(ctx)
	idleErr := d.Loop.WaitIdle()
	if err != nil {
		return err
	}
	return idleErr
}

func (d *Driver) run(ctx context.Context) error {
	for {
		if ctx.Err() != nil {
			return nil
		}

		quit, resized := d.Window.PollEvents()
		if quit {
			return nil
		}
		if resized {
			d.Resizer.MarkResized()
		}

		if d.Stats != nil && d.Clock != nil {
			if title, ok := d.Stats.Tick(d.Clock()); ok {
				d.Window.SetTitle(title)
			}
		}

		outcome, err := d.Loop.Tick()
		if err != nil {
			return err
		}
		if outcome == Skipped {
			d.Window.Idle()
		}
	}
}
