package render

import (
	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/extensions/v3/khr_surface"
	"github.com/vkngwrapper/extensions/v3/khr_swapchain"
	"github.com/vkngwrapper/vkdraw/internal/swapchain"
)

// target is one swapchain with its images, views and framebuffers. They are
// only ever created and destroyed together.
type target struct {
	ctx *Context

	swapchain    khr_swapchain.Swapchain
	images       []core1_0.Image
	imageViews   []core1_0.ImageView
	framebuffers []core1_0.Framebuffer
	format       core1_0.Format
	extent       core1_0.Extent2D
}

func (ctx *Context) QuerySupport() (swapchain.Support, error) {
	return ctx.querySwapChainSupport(ctx.physicalDevice)
}

func (ctx *Context) WaitIdle() error {
	_, err := ctx.deviceDriver.DeviceWaitIdle()
	return err
}

// Build creates a swapchain from plan. The render pass is created with the
// first swapchain's format and every later swapchain must match it.
func (ctx *Context) Build(plan swapchain.Plan) (swapchain.Target, error) {
	if !ctx.renderPass.Initialized() {
		err := ctx.createRenderPass(plan.Format.Format)
		if err != nil {
			return nil, err
		}
	} else if plan.Format.Format != ctx.renderPassFormat {
		return nil, errors.Newf("surface format changed from %s to %s", ctx.renderPassFormat, plan.Format.Format)
	}

	t := &target{
		ctx:    ctx,
		format: plan.Format.Format,
		extent: plan.Extent,
	}

	err := t.create(plan)
	if err != nil {
		t.Destroy()
		return nil, err
	}

	ctx.current = t
	return t, nil
}

func (t *target) create(plan swapchain.Plan) error {
	var err error
	t.swapchain, _, err = t.ctx.swapchainExtension.CreateSwapchain(nil, khr_swapchain.SwapchainCreateInfo{
		Surface: t.ctx.surface,

		MinImageCount:    plan.ImageCount,
		ImageFormat:      plan.Format.Format,
		ImageColorSpace:  plan.Format.ColorSpace,
		ImageExtent:      plan.Extent,
		ImageArrayLayers: 1,
		ImageUsage:       core1_0.ImageUsageColorAttachment,

		ImageSharingMode:   plan.SharingMode,
		QueueFamilyIndices: plan.QueueFamilies,

		PreTransform:   plan.Capabilities.CurrentTransform,
		CompositeAlpha: khr_surface.CompositeAlphaOpaque,
		PresentMode:    plan.PresentMode,
		Clipped:        true,
	})
	if err != nil {
		return err
	}

	t.images, _, err = t.ctx.swapchainExtension.GetSwapchainImages(t.swapchain)
	if err != nil {
		return err
	}

	for _, image := range t.images {
		view, err := t.ctx.createImageView(image, t.format, core1_0.ImageAspectColor)
		if err != nil {
			return err
		}
		t.imageViews = append(t.imageViews, view)
	}

	for _, imageView := range t.imageViews {
		framebuffer, _, err := t.ctx.deviceDriver.CreateFramebuffer(nil, core1_0.FramebufferCreateInfo{
			RenderPass:  t.ctx.renderPass,
			Layers:      1,
			Attachments: []core1_0.ImageView{imageView},
			Width:       t.extent.Width,
			Height:      t.extent.Height,
		})
		if err != nil {
			return err
		}

		t.framebuffers = append(t.framebuffers, framebuffer)
	}

	return nil
}

func (t *target) Destroy() {
	driver := t.ctx.deviceDriver

	for _, framebuffer := range t.framebuffers {
		driver.DestroyFramebuffer(framebuffer, nil)
	}
	t.framebuffers = nil

	for _, imageView := range t.imageViews {
		driver.DestroyImageView(imageView, nil)
	}
	t.imageViews = nil

	if t.swapchain.Initialized() {
		t.ctx.swapchainExtension.DestroySwapchain(t.swapchain, nil)
		t.swapchain = khr_swapchain.Swapchain{}
	}
	t.images = nil

	if t.ctx.current == t {
		t.ctx.current = nil
	}
}

func (ctx *Context) createImageView(image core1_0.Image, format core1_0.Format, aspect core1_0.ImageAspectFlags) (core1_0.ImageView, error) {
	imageView, _, err := ctx.deviceDriver.CreateImageView(nil, core1_0.ImageViewCreateInfo{
		Image:    image,
		ViewType: core1_0.ImageViewType2D,
		Format:   format,
		SubresourceRange: core1_0.ImageSubresourceRange{
			AspectMask:     aspect,
			BaseMipLevel:   0,
			LevelCount:     1,
			BaseArrayLayer: 0,
			LayerCount:     1,
		},
	})
	return imageView, err
}
