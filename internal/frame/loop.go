// Package frame drives the per-frame lifecycle: wait for the slot's fence,
// acquire a swapchain image, record, submit and present, rebuilding the
// swapchain when the surface stops matching it.
package frame

import (
	"github.com/vkngwrapper/vkdraw/internal/failure"
)

// Status is the surface-related outcome of acquire and present.
type Status int

const (
	StatusSuccess Status = iota
	StatusSuboptimal
	StatusOutOfDate
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusSuboptimal:
		return "suboptimal"
	case StatusOutOfDate:
		return "out of date"
	}
	return "unknown"
}

// Backend issues the GPU side of one frame for a given in-flight slot.
type Backend interface {
	// WaitForFrame blocks until the slot's previous submission has finished.
	WaitForFrame(slot int) error
	AcquireImage(slot int) (imageIndex int, status Status, err error)
	ResetFrame(slot int) error
	// Record resets the slot's command buffer and records the frame against
	// imageIndex.
	Record(slot, imageIndex int) error
	Submit(slot int) error
	Present(slot, imageIndex int) (Status, error)
	WaitIdle() error
}

type Swapchain interface {
	Recreate() (bool, error)
	Pending() bool
	Minimized() bool
}

type Outcome int

const (
	// Presented means an image was submitted for presentation.
	Presented Outcome = iota
	// Skipped means nothing was drawn this tick.
	Skipped
)

type Loop struct {
	backend   Backend
	swapchain Swapchain
	slots     *Slots
}

func NewLoop(backend Backend, swapchain Swapchain, depth int) *Loop {
	return &Loop{
		backend:   backend,
		swapchain: swapchain,
		slots:     NewSlots(depth),
	}
}

func (l *Loop) Slots() *Slots { return l.slots }

func (l *Loop) Tick() (Outcome, error) {
	if l.swapchain.Minimized() {
		return Skipped, nil
	}

	if l.swapchain.Pending() {
		rebuilt, err := l.swapchain.Recreate()
		if err != nil {
			return Skipped, err
		}
		if !rebuilt {
			return Skipped, nil
		}
	}

	slot := l.slots.Current()

	err := l.backend.WaitForFrame(slot)
	if err != nil {
		return Skipped, failure.Wrap(failure.KindFrame, "wait for in-flight fence", err)
	}

	imageIndex, status, err := l.backend.AcquireImage(slot)
	if status == StatusOutOfDate {
		_, err = l.swapchain.Recreate()
		return Skipped, err
	} else if err != nil {
		return Skipped, failure.Wrap(failure.KindFrame, "acquire swapchain image", err)
	}

	// Only reset once we know work will be submitted, or the next wait on
	// this fence never returns.
	err = l.backend.ResetFrame(slot)
	if err != nil {
		return Skipped, failure.Wrap(failure.KindFrame, "reset in-flight fence", err)
	}

	err = l.backend.Record(slot, imageIndex)
	if err != nil {
		return Skipped, failure.Wrap(failure.KindFrame, "record command buffer", err)
	}

	err = l.backend.Submit(slot)
	if err != nil {
		return Skipped, failure.Wrap(failure.KindFrame, "submit command buffer", err)
	}

	status, err = l.backend.Present(slot, imageIndex)
	if err != nil && status == StatusSuccess {
		return Presented, failure.Wrap(failure.KindFrame, "present swapchain image", err)
	}
	if status == StatusOutOfDate || status == StatusSuboptimal || l.swapchain.Pending() {
		_, err = l.swapchain.Recreate()
		if err != nil {
			return Presented, err
		}
	}

	l.slots.Advance()
	return Presented, nil
}

// WaitIdle blocks until the GPU has finished all submitted frames.
func (l *Loop) WaitIdle() error {
	return failure.Wrap(failure.KindFrame, "wait device idle", l.backend.WaitIdle())
}
