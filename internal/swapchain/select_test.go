package swapchain

import (
	"math"
	"testing"

	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/extensions/v3/khr_surface"
	"github.com/vkngwrapper/vkdraw/internal/failure"
)

var preferredFormat = khr_surface.SurfaceFormat{
	Format:     core1_0.FormatB8G8R8A8SRGB,
	ColorSpace: khr_surface.ColorSpaceSRGBNonlinear,
}

func TestChooseSurfaceFormat(t *testing.T) {
	unorm := khr_surface.SurfaceFormat{Format: core1_0.FormatB8G8R8A8UnsignedNormalized, ColorSpace: khr_surface.ColorSpaceSRGBNonlinear}
	rgba := khr_surface.SurfaceFormat{Format: core1_0.FormatR8G8B8A8SRGB, ColorSpace: khr_surface.ColorSpaceSRGBNonlinear}

	tests := []struct {
		name      string
		available []khr_surface.SurfaceFormat
		want      khr_surface.SurfaceFormat
	}{
		{"preferred only", []khr_surface.SurfaceFormat{preferredFormat}, preferredFormat},
		{"preferred last", []khr_surface.SurfaceFormat{unorm, rgba, preferredFormat}, preferredFormat},
		{"fallback to first", []khr_surface.SurfaceFormat{rgba, unorm}, rgba},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ChooseSurfaceFormat(tt.available); got != tt.want {
				t.Errorf("ChooseSurfaceFormat = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestChoosePresentMode(t *testing.T) {
	tests := []struct {
		name      string
		available []khr_surface.PresentMode
		want      khr_surface.PresentMode
	}{
		{"mailbox present", []khr_surface.PresentMode{khr_surface.PresentModeFIFO, khr_surface.PresentModeMailbox}, khr_surface.PresentModeMailbox},
		{"fifo only", []khr_surface.PresentMode{khr_surface.PresentModeFIFO}, khr_surface.PresentModeFIFO},
		{"immediate falls back to fifo", []khr_surface.PresentMode{khr_surface.PresentModeImmediate}, khr_surface.PresentModeFIFO},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ChoosePresentMode(tt.available); got != tt.want {
				t.Errorf("ChoosePresentMode = %v, want %v", got, tt.want)
			}
		})
	}
}

func capabilities(current core1_0.Extent2D) *khr_surface.SurfaceCapabilities {
	return &khr_surface.SurfaceCapabilities{
		MinImageCount:  2,
		MaxImageCount:  8,
		CurrentExtent:  current,
		MinImageExtent: core1_0.Extent2D{Width: 100, Height: 100},
		MaxImageExtent: core1_0.Extent2D{Width: 1920, Height: 1080},
	}
}

func TestChooseExtent(t *testing.T) {
	undefined := core1_0.Extent2D{Width: math.MaxUint32, Height: math.MaxUint32}

	tests := []struct {
		name          string
		current       core1_0.Extent2D
		width, height int
		want          core1_0.Extent2D
	}{
		{"surface decides", core1_0.Extent2D{Width: 800, Height: 600}, 1024, 768, core1_0.Extent2D{Width: 800, Height: 600}},
		{"window inside limits", undefined, 1024, 768, core1_0.Extent2D{Width: 1024, Height: 768}},
		{"window too large", undefined, 4000, 3000, core1_0.Extent2D{Width: 1920, Height: 1080}},
		{"window too small", undefined, 10, 20, core1_0.Extent2D{Width: 100, Height: 100}},
		{"mixed", undefined, 5000, 50, core1_0.Extent2D{Width: 1920, Height: 100}},
		{"sentinel widened to -1", core1_0.Extent2D{Width: -1, Height: -1}, 640, 480, core1_0.Extent2D{Width: 640, Height: 480}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ChooseExtent(capabilities(tt.current), tt.width, tt.height)
			if got != tt.want {
				t.Errorf("ChooseExtent = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestChooseImageCount(t *testing.T) {
	tests := []struct {
		min, max, want int
	}{
		{2, 8, 3},
		{2, 2, 2},
		{3, 0, 4},
		{1, 3, 2},
	}
	for _, tt := range tests {
		caps := &khr_surface.SurfaceCapabilities{MinImageCount: tt.min, MaxImageCount: tt.max}
		if got := ChooseImageCount(caps); got != tt.want {
			t.Errorf("ChooseImageCount(min=%d, max=%d) = %d, want %d", tt.min, tt.max, got, tt.want)
		}
	}
}

func TestChooseSharing(t *testing.T) {
	mode, families := ChooseSharing(0, 0)
	if mode != core1_0.SharingModeExclusive || families != nil {
		t.Errorf("same family: got %v %v", mode, families)
	}

	mode, families = ChooseSharing(0, 2)
	if mode != core1_0.SharingModeConcurrent {
		t.Errorf("different families: mode %v", mode)
	}
	if len(families) != 2 || families[0] != 0 || families[1] != 2 {
		t.Errorf("different families: got %v", families)
	}
}

func TestNewPlanRejectsEmptySupport(t *testing.T) {
	caps := capabilities(core1_0.Extent2D{Width: 800, Height: 600})
	tests := []struct {
		name    string
		support Support
	}{
		{"no capabilities", Support{Formats: []khr_surface.SurfaceFormat{preferredFormat}, PresentModes: []khr_surface.PresentMode{khr_surface.PresentModeFIFO}}},
		{"no formats", Support{Capabilities: caps, PresentModes: []khr_surface.PresentMode{khr_surface.PresentModeFIFO}}},
		{"no present modes", Support{Capabilities: caps, Formats: []khr_surface.SurfaceFormat{preferredFormat}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewPlan(tt.support, 800, 600, 0, 0)
			if err == nil {
				t.Fatal("expected error")
			}
			if k := failure.KindOf(err); k != failure.KindInit {
				t.Errorf("kind = %v, want init", k)
			}
			if tt.support.Adequate() {
				t.Error("Adequate() = true for incomplete support")
			}
		})
	}
}
