package render

import (
	"testing"
	"unsafe"

	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/extensions/v3/khr_swapchain"
	"github.com/vkngwrapper/vkdraw/internal/assets"
	"github.com/vkngwrapper/vkdraw/internal/frame"
	"github.com/vkngwrapper/vkdraw/internal/swapchain"
)

var (
	_ frame.Backend     = (*Context)(nil)
	_ swapchain.Builder = (*Context)(nil)
	_ swapchain.Target  = (*target)(nil)
)

func TestStatusOf(t *testing.T) {
	if got := statusOf(khr_swapchain.VKErrorOutOfDate); got != frame.StatusOutOfDate {
		t.Errorf("out of date -> %v", got)
	}
	if got := statusOf(khr_swapchain.VKSuboptimal); got != frame.StatusSuboptimal {
		t.Errorf("suboptimal -> %v", got)
	}
	if got := statusOf(core1_0.VKSuccess); got != frame.StatusSuccess {
		t.Errorf("success -> %v", got)
	}
}

func TestVertexLayout(t *testing.T) {
	bindings := vertexBindingDescriptions()
	if len(bindings) != 1 || bindings[0].Stride != int(unsafe.Sizeof(assets.Vertex{})) {
		t.Fatalf("bindings = %+v", bindings)
	}
	if bindings[0].Stride != 7*4 {
		t.Errorf("stride = %d, want 28", bindings[0].Stride)
	}

	attrs := vertexAttributeDescriptions()
	wantOffsets := []int{0, 8, 20}
	wantFormats := []core1_0.Format{core1_0.FormatR32G32SignedFloat, core1_0.FormatR32G32B32SignedFloat, core1_0.FormatR32G32SignedFloat}
	if len(attrs) != len(wantOffsets) {
		t.Fatalf("attributes = %+v", attrs)
	}
	for i, attr := range attrs {
		if attr.Location != i || attr.Offset != wantOffsets[i] || attr.Format != wantFormats[i] {
			t.Errorf("attribute %d = %+v", i, attr)
		}
	}
}

func TestDynamicRegions(t *testing.T) {
	extent := core1_0.Extent2D{Width: 1280, Height: 720}
	vp := fullViewport(extent)
	if vp.Width != 1280 || vp.Height != 720 || vp.MaxDepth != 1 {
		t.Errorf("viewport = %+v", vp)
	}
	if sc := fullScissor(extent); sc.Extent != extent || sc.Offset != (core1_0.Offset2D{}) {
		t.Errorf("scissor = %+v", sc)
	}
}
