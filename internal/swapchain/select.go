package swapchain

import (
	"math"

	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/extensions/v3/khr_surface"
	"github.com/vkngwrapper/vkdraw/internal/failure"
)

// Support is what the surface reports for a physical device.
type Support struct {
	Capabilities *khr_surface.SurfaceCapabilities
	Formats      []khr_surface.SurfaceFormat
	PresentModes []khr_surface.PresentMode
}

func (s Support) Adequate() bool {
	return s.Capabilities != nil && len(s.Formats) > 0 && len(s.PresentModes) > 0
}

// Plan is everything needed to create one swapchain. Format, extent and image
// count are fixed for the lifetime of the swapchain built from it.
type Plan struct {
	Format      khr_surface.SurfaceFormat
	PresentMode khr_surface.PresentMode
	Extent      core1_0.Extent2D
	ImageCount  int

	SharingMode   core1_0.SharingMode
	QueueFamilies []int

	Capabilities *khr_surface.SurfaceCapabilities
}

func ChooseSurfaceFormat(availableFormats []khr_surface.SurfaceFormat) khr_surface.SurfaceFormat {
	for _, format := range availableFormats {
		if format.Format == core1_0.FormatB8G8R8A8SRGB && format.ColorSpace == khr_surface.ColorSpaceSRGBNonlinear {
			return format
		}
	}

	return availableFormats[0]
}

func ChoosePresentMode(availablePresentModes []khr_surface.PresentMode) khr_surface.PresentMode {
	for _, presentMode := range availablePresentModes {
		if presentMode == khr_surface.PresentModeMailbox {
			return presentMode
		}
	}

	return khr_surface.PresentModeFIFO
}

// undefinedExtent reports the 0xFFFFFFFF "size is up to the swapchain"
// sentinel, however the wrapper widened it.
func undefinedExtent(width int) bool {
	return uint32(width) == math.MaxUint32
}

// ChooseExtent picks the surface's current extent, or the drawable size
// clamped to the surface limits when the surface leaves it to us.
func ChooseExtent(capabilities *khr_surface.SurfaceCapabilities, width, height int) core1_0.Extent2D {
	if !undefinedExtent(capabilities.CurrentExtent.Width) {
		return capabilities.CurrentExtent
	}

	return core1_0.Extent2D{
		Width:  clamp(width, capabilities.MinImageExtent.Width, capabilities.MaxImageExtent.Width),
		Height: clamp(height, capabilities.MinImageExtent.Height, capabilities.MaxImageExtent.Height),
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		v = lo
	}
	if v > hi {
		v = hi
	}
	return v
}

// ChooseImageCount asks for one image more than the minimum; a zero maximum
// means unbounded.
func ChooseImageCount(capabilities *khr_surface.SurfaceCapabilities) int {
	imageCount := capabilities.MinImageCount + 1
	if capabilities.MaxImageCount > 0 && capabilities.MaxImageCount < imageCount {
		imageCount = capabilities.MaxImageCount
	}
	return imageCount
}

func ChooseSharing(graphicsFamily, presentFamily int) (core1_0.SharingMode, []int) {
	if graphicsFamily == presentFamily {
		return core1_0.SharingModeExclusive, nil
	}
	return core1_0.SharingModeConcurrent, []int{graphicsFamily, presentFamily}
}

func NewPlan(support Support, width, height, graphicsFamily, presentFamily int) (Plan, error) {
	if support.Capabilities == nil {
		return Plan{}, failure.New(failure.KindInit, "plan swapchain", "surface reported no capabilities")
	}
	if len(support.Formats) == 0 {
		return Plan{}, failure.New(failure.KindInit, "plan swapchain", "surface reported no formats")
	}
	if len(support.PresentModes) == 0 {
		return Plan{}, failure.New(failure.KindInit, "plan swapchain", "surface reported no present modes")
	}

	sharingMode, families := ChooseSharing(graphicsFamily, presentFamily)

	return Plan{
		Format:        ChooseSurfaceFormat(support.Formats),
		PresentMode:   ChoosePresentMode(support.PresentModes),
		Extent:        ChooseExtent(support.Capabilities, width, height),
		ImageCount:    ChooseImageCount(support.Capabilities),
		SharingMode:   sharingMode,
		QueueFamilies: families,
		Capabilities:  support.Capabilities,
	}, nil
}
