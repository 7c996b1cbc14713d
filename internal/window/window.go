// Package window wraps the SDL2 window vkdraw renders into.
package window

import (
	"github.com/veandco/go-sdl2/sdl"
	"github.com/vkngwrapper/vkdraw/internal/config"
	"github.com/vkngwrapper/vkdraw/internal/failure"
)

const idleDelay = 16

type Window struct {
	sdlWindow *sdl.Window
}

// Open initializes SDL video and creates a Vulkan-capable window.
func Open(cfg config.Config) (*Window, error) {
	if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
		return nil, failure.Wrap(failure.KindInit, "init sdl", err)
	}

	flags := uint32(sdl.WINDOW_SHOWN | sdl.WINDOW_VULKAN)
	if cfg.Resizable {
		flags |= sdl.WINDOW_RESIZABLE
	}

	sdlWindow, err := sdl.CreateWindow(cfg.Title, sdl.WINDOWPOS_CENTERED, sdl.WINDOWPOS_CENTERED, int32(cfg.Width), int32(cfg.Height), flags)
	if err != nil {
		sdl.Quit()
		return nil, failure.Wrap(failure.KindInit, "create window", err)
	}

	return &Window{sdlWindow: sdlWindow}, nil
}

func (w *Window) SDL() *sdl.Window {
	return w.sdlWindow
}

func (w *Window) VulkanInstanceExtensions() []string {
	return w.sdlWindow.VulkanGetInstanceExtensions()
}

func (w *Window) DrawableSize() (int, int) {
	width, height := w.sdlWindow.VulkanGetDrawableSize()
	return int(width), int(height)
}

func (w *Window) Minimized() bool {
	return w.sdlWindow.GetFlags()&sdl.WINDOW_MINIMIZED != 0
}

func (w *Window) PollEvents() (quit, resized bool) {
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		q, r := classify(event)
		quit = quit || q
		resized = resized || r
	}
	return quit, resized
}

func classify(event sdl.Event) (quit, resized bool) {
	switch e := event.(type) {
	case *sdl.QuitEvent:
		return true, false
	case *sdl.WindowEvent:
		switch e.Event {
		case sdl.WINDOWEVENT_RESIZED, sdl.WINDOWEVENT_SIZE_CHANGED, sdl.WINDOWEVENT_RESTORED:
			return false, true
		}
	}
	return false, false
}

func (w *Window) SetTitle(title string) {
	w.sdlWindow.SetTitle(title)
}

func (w *Window) Idle() {
	sdl.Delay(idleDelay)
}

func (w *Window) Close() {
	if w.sdlWindow != nil {
		w.sdlWindow.Destroy()
		w.sdlWindow = nil
	}
	sdl.Quit()
}
