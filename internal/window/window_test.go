package window

import (
	"testing"

	"github.com/veandco/go-sdl2/sdl"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name          string
		event         sdl.Event
		quit, resized bool
	}{
		{"quit", &sdl.QuitEvent{Type: sdl.QUIT}, true, false},
		{"resized", &sdl.WindowEvent{Type: sdl.WINDOWEVENT, Event: sdl.WINDOWEVENT_RESIZED}, false, true},
		{"size changed", &sdl.WindowEvent{Type: sdl.WINDOWEVENT, Event: sdl.WINDOWEVENT_SIZE_CHANGED}, false, true},
		{"restored", &sdl.WindowEvent{Type: sdl.WINDOWEVENT, Event: sdl.WINDOWEVENT_RESTORED}, false, true},
		{"minimized", &sdl.WindowEvent{Type: sdl.WINDOWEVENT, Event: sdl.WINDOWEVENT_MINIMIZED}, false, false},
		{"key", &sdl.KeyboardEvent{Type: sdl.KEYDOWN}, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			quit, resized := classify(tt.event)
			if quit != tt.quit || resized != tt.resized {
				t.Errorf("classify = (%v, %v), want (%v, %v)", quit, resized, tt.quit, tt.resized)
			}
		})
	}
}
