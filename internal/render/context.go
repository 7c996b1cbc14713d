// Package render owns every Vulkan object vkdraw creates. A Context is built
// once at startup, serves as the swapchain builder and the per-frame
// backend, and is torn down once by Close.
package render

import (
	"github.com/loov/hrtime"
	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/extensions/v3/ext_debug_utils"
	"github.com/vkngwrapper/extensions/v3/khr_surface"
	"github.com/vkngwrapper/extensions/v3/khr_swapchain"
	"github.com/vkngwrapper/vkdraw/internal/assets"
	"github.com/vkngwrapper/vkdraw/internal/config"
	"github.com/vkngwrapper/vkdraw/internal/failure"
	"github.com/vkngwrapper/vkdraw/internal/pipecache"
	"github.com/vkngwrapper/vkdraw/internal/swapchain"
	"github.com/vkngwrapper/vkdraw/internal/window"
)

type Context struct {
	cfg    config.Config
	window *window.Window
	assets *assets.Assets

	globalDriver   core1_0.GlobalDriver
	instanceDriver core1_0.CoreInstanceDriver
	deviceDriver   core1_0.CoreDeviceDriver

	debugDriver      ext_debug_utils.ExtensionDriver
	debugMessenger   ext_debug_utils.DebugUtilsMessenger
	surfaceExtension khr_surface.ExtensionDriver
	surface          khr_surface.Surface

	physicalDevice core1_0.PhysicalDevice
	queueFamilies  QueueFamilyIndices
	graphicsQueue  core1_0.Queue
	presentQueue   core1_0.Queue

	swapchainExtension khr_swapchain.ExtensionDriver
	swapchains         *swapchain.Manager
	current            *target

	renderPass       core1_0.RenderPass
	renderPassFormat core1_0.Format

	descriptorSetLayout core1_0.DescriptorSetLayout
	descriptorPool      core1_0.DescriptorPool
	descriptorSets      []core1_0.DescriptorSet
	pipelineLayout      core1_0.PipelineLayout
	pipelineCache       core1_0.PipelineCache
	cacheIdentity       pipecache.Identity
	graphicsPipeline    core1_0.Pipeline

	commandPool    core1_0.CommandPool
	commandBuffers []core1_0.CommandBuffer

	imageAvailableSemaphore []core1_0.Semaphore
	renderFinishedSemaphore []core1_0.Semaphore
	inFlightFence           []core1_0.Fence

	vertexBuffer       core1_0.Buffer
	vertexBufferMemory core1_0.DeviceMemory
	indexBuffer        core1_0.Buffer
	indexBufferMemory  core1_0.DeviceMemory
	indexCount         int

	uniformBuffers       []core1_0.Buffer
	uniformBuffersMemory []core1_0.DeviceMemory

	textureImage       core1_0.Image
	textureImageMemory core1_0.DeviceMemory
	textureImageView   core1_0.ImageView
	textureSampler     core1_0.Sampler

	startTime float64
}

// New brings up the device, the first swapchain and every resource the frame
// loop draws with. On failure everything created so far is released.
func New(cfg config.Config, win *window.Window, loaded *assets.Assets) (*Context, error) {
	ctx := &Context{
		cfg:       cfg,
		window:    win,
		assets:    loaded,
		startTime: hrtime.Now().Seconds(),
	}

	err := ctx.init()
	if err != nil {
		ctx.Close()
		return nil, err
	}

	return ctx, nil
}

func (ctx *Context) init() error {
	steps := []struct {
		op string
		fn func() error
	}{
		{"create instance", ctx.createInstance},
		{"setup debug messenger", ctx.setupDebugMessenger},
		{"create surface", ctx.createSurface},
		{"pick physical device", ctx.pickPhysicalDevice},
		{"create logical device", ctx.createLogicalDevice},
		{"create command pool", ctx.createCommandPool},
		{"create swapchain", ctx.createSwapchain},
		{"create descriptor set layout", ctx.createDescriptorSetLayout},
		{"create pipeline cache", ctx.createPipelineCache},
		{"create graphics pipeline", ctx.createGraphicsPipeline},
		{"create texture image", ctx.createTextureImage},
		{"create texture image view", ctx.createTextureImageView},
		{"create sampler", ctx.createSampler},
		{"create vertex buffer", ctx.createVertexBuffer},
		{"create index buffer", ctx.createIndexBuffer},
		{"create uniform buffers", ctx.createUniformBuffers},
		{"create descriptor pool", ctx.createDescriptorPool},
		{"create descriptor sets", ctx.createDescriptorSets},
		{"create command buffers", ctx.createCommandBuffers},
		{"create sync objects", ctx.createSyncObjects},
	}

	for _, step := range steps {
		err := step.fn()
		if err != nil {
			return failure.Wrap(failure.KindInit, step.op, err)
		}
	}

	return nil
}

// Swapchains is the manager that rebuilds the swapchain through this
// context.
func (ctx *Context) Swapchains() *swapchain.Manager {
	return ctx.swapchains
}

func (ctx *Context) createSwapchain() error {
	ctx.swapchainExtension = khr_swapchain.CreateExtensionDriverFromCoreDriver(ctx.deviceDriver)
	ctx.swapchains = swapchain.NewManager(ctx.window, ctx, *ctx.queueFamilies.GraphicsFamily, *ctx.queueFamilies.PresentFamily)
	return ctx.swapchains.Create()
}

// Close waits for the GPU and destroys everything in reverse creation
// order. It is safe on a partially initialized context.
func (ctx *Context) Close() {
	if ctx.deviceDriver != nil {
		_, _ = ctx.deviceDriver.DeviceWaitIdle()
	}

	ctx.destroySyncObjects()

	if len(ctx.commandBuffers) > 0 {
		ctx.deviceDriver.FreeCommandBuffers(ctx.commandBuffers...)
		ctx.commandBuffers = nil
	}

	if ctx.descriptorPool.Initialized() {
		ctx.deviceDriver.DestroyDescriptorPool(ctx.descriptorPool, nil)
	}

	for i := range ctx.uniformBuffers {
		ctx.deviceDriver.DestroyBuffer(ctx.uniformBuffers[i], nil)
	}
	for i := range ctx.uniformBuffersMemory {
		ctx.deviceDriver.FreeMemory(ctx.uniformBuffersMemory[i], nil)
	}

	if ctx.indexBuffer.Initialized() {
		ctx.deviceDriver.DestroyBuffer(ctx.indexBuffer, nil)
	}
	if ctx.indexBufferMemory.Initialized() {
		ctx.deviceDriver.FreeMemory(ctx.indexBufferMemory, nil)
	}
	if ctx.vertexBuffer.Initialized() {
		ctx.deviceDriver.DestroyBuffer(ctx.vertexBuffer, nil)
	}
	if ctx.vertexBufferMemory.Initialized() {
		ctx.deviceDriver.FreeMemory(ctx.vertexBufferMemory, nil)
	}

	ctx.destroyTexture()

	if ctx.graphicsPipeline.Initialized() {
		ctx.deviceDriver.DestroyPipeline(ctx.graphicsPipeline, nil)
	}
	ctx.destroyPipelineCache()
	if ctx.pipelineLayout.Initialized() {
		ctx.deviceDriver.DestroyPipelineLayout(ctx.pipelineLayout, nil)
	}
	if ctx.descriptorSetLayout.Initialized() {
		ctx.deviceDriver.DestroyDescriptorSetLayout(ctx.descriptorSetLayout, nil)
	}

	if ctx.swapchains != nil {
		ctx.swapchains.Destroy()
	}
	if ctx.renderPass.Initialized() {
		ctx.deviceDriver.DestroyRenderPass(ctx.renderPass, nil)
	}

	if ctx.commandPool.Initialized() {
		ctx.deviceDriver.DestroyCommandPool(ctx.commandPool, nil)
	}

	if ctx.deviceDriver != nil {
		ctx.deviceDriver.DestroyDevice(nil)
		ctx.deviceDriver = nil
	}

	if ctx.debugMessenger.Initialized() {
		ctx.debugDriver.DestroyDebugUtilsMessenger(ctx.debugMessenger, nil)
	}

	if ctx.surface.Initialized() {
		ctx.surfaceExtension.DestroySurface(ctx.surface, nil)
	}

	if ctx.instanceDriver != nil {
		ctx.instanceDriver.DestroyInstance(nil)
		ctx.instanceDriver = nil
	}
}
