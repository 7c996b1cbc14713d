// Package swapchain chooses swapchain parameters from what the surface
// supports and owns the swapchain-dependent resources as one unit that is
// destroyed and rebuilt together.
package swapchain

import (
	"log"

	"github.com/vkngwrapper/vkdraw/internal/failure"
)

// Window is the part of the platform window the manager needs.
type Window interface {
	DrawableSize() (width, height int)
	Minimized() bool
}

// Target is a built swapchain together with its images, views and
// framebuffers.
type Target interface {
	Destroy()
}

type Builder interface {
	QuerySupport() (Support, error)
	Build(plan Plan) (Target, error)
	// WaitIdle blocks until no submitted work can reference the current target.
	WaitIdle() error
}

type Manager struct {
	window  Window
	builder Builder

	graphicsFamily int
	presentFamily  int

	plan    Plan
	target  Target
	resized bool
	builds  int
}

func NewManager(window Window, builder Builder, graphicsFamily, presentFamily int) *Manager {
	return &Manager{
		window:         window,
		builder:        builder,
		graphicsFamily: graphicsFamily,
		presentFamily:  presentFamily,
	}
}

func (m *Manager) Create() error {
	support, err := m.builder.QuerySupport()
	if err != nil {
		return failure.Wrap(failure.KindInit, "query swapchain support", err)
	}

	width, height := m.window.DrawableSize()
	plan, err := NewPlan(support, width, height, m.graphicsFamily, m.presentFamily)
	if err != nil {
		return err
	}

	log.Printf("Vulkan: creating swapchain (%dx%d)", plan.Extent.Width, plan.Extent.Height)
	target, err := m.builder.Build(plan)
	if err != nil {
		return failure.Wrap(failure.KindInit, "build swapchain", err)
	}

	m.plan = plan
	m.target = target
	m.builds++
	return nil
}

// Minimized reports whether the surface currently has no presentable area.
func (m *Manager) Minimized() bool {
	if m.window.Minimized() {
		return true
	}
	w, h := m.window.DrawableSize()
	return w == 0 || h == 0
}

// Recreate rebuilds the swapchain and everything that depends on it. While
// the window is minimized it does nothing and any pending resize stays
// pending, so the rebuild happens on the first visible frame.
func (m *Manager) Recreate() (bool, error) {
	if m.Minimized() {
		return false, nil
	}

	err := m.builder.WaitIdle()
	if err != nil {
		return false, failure.Wrap(failure.KindSurface, "wait idle before recreate", err)
	}

	m.destroyTarget()

	err = m.Create()
	if err != nil {
		return false, failure.Wrap(failure.KindSurface, "recreate swapchain", err)
	}

	m.resized = false
	return true, nil
}

// MarkResized flags that the window size changed. Repeated calls before the
// next rebuild coalesce.
func (m *Manager) MarkResized() {
	m.resized = true
}

func (m *Manager) Pending() bool {
	return m.resized
}

func (m *Manager) Plan() Plan {
	return m.plan
}

func (m *Manager) Target() Target {
	return m.target
}

// Builds counts how many swapchains have been created.
func (m *Manager) Builds() int {
	return m.builds
}

func (m *Manager) destroyTarget() {
	if m.target != nil {
		m.target.Destroy()
		m.target = nil
	}
}

func (m *Manager) Destroy() {
	m.destroyTarget()
}
