package render

import (
	"github.com/vkngwrapper/core/v3/core1_0"
)

func (ctx *Context) createCommandPool() error {
	pool, _, err := ctx.deviceDriver.CreateCommandPool(nil, core1_0.CommandPoolCreateInfo{
		Flags:            core1_0.CommandPoolCreateResetBuffer,
		QueueFamilyIndex: *ctx.queueFamilies.GraphicsFamily,
	})
	if err != nil {
		return err
	}

	ctx.commandPool = pool
	return nil
}

// createCommandBuffers allocates one primary buffer per in-flight slot. They
// are re-recorded every frame, so swapchain rebuilds leave them alone.
func (ctx *Context) createCommandBuffers() error {
	buffers, _, err := ctx.deviceDriver.AllocateCommandBuffers(core1_0.CommandBufferAllocateInfo{
		CommandPool:        ctx.commandPool,
		Level:              core1_0.CommandBufferLevelPrimary,
		CommandBufferCount: ctx.cfg.FramesInFlight,
	})
	if err != nil {
		return err
	}

	ctx.commandBuffers = buffers
	return nil
}

// createSyncObjects creates each slot's semaphore pair and fence. Fences
// start signaled so the first wait on every slot returns at once.
func (ctx *Context) createSyncObjects() error {
	for i := 0; i < ctx.cfg.FramesInFlight; i++ {
		semaphore, _, err := ctx.deviceDriver.CreateSemaphore(nil, core1_0.SemaphoreCreateInfo{})
		if err != nil {
			return err
		}
		ctx.imageAvailableSemaphore = append(ctx.imageAvailableSemaphore, semaphore)

		semaphore, _, err = ctx.deviceDriver.CreateSemaphore(nil, core1_0.SemaphoreCreateInfo{})
		if err != nil {
			return err
		}
		ctx.renderFinishedSemaphore = append(ctx.renderFinishedSemaphore, semaphore)

		fence, _, err := ctx.deviceDriver.CreateFence(nil, core1_0.FenceCreateInfo{
			Flags: core1_0.FenceCreateSignaled,
		})
		if err != nil {
			return err
		}
		ctx.inFlightFence = append(ctx.inFlightFence, fence)
	}

	return nil
}

func (ctx *Context) destroySyncObjects() {
	for _, fence := range ctx.inFlightFence {
		ctx.deviceDriver.DestroyFence(fence, nil)
	}
	ctx.inFlightFence = nil

	for _, semaphore := range ctx.renderFinishedSemaphore {
		ctx.deviceDriver.DestroySemaphore(semaphore, nil)
	}
	ctx.renderFinishedSemaphore = nil

	for _, semaphore := range ctx.imageAvailableSemaphore {
		ctx.deviceDriver.DestroySemaphore(semaphore, nil)
	}
	ctx.imageAvailableSemaphore = nil
}
