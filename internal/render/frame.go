package render

import (
	"github.com/cockroachdb/errors"
	"github.com/loov/hrtime"
	"github.com/vkngwrapper/core/v3/common"
	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/extensions/v3/khr_swapchain"
	"github.com/vkngwrapper/vkdraw/internal/frame"
	"github.com/vkngwrapper/vkdraw/internal/uniform"
)

// statusOf maps the surface-related results of acquire and present.
func statusOf(res common.VkResult) frame.Status {
	switch res {
	case khr_swapchain.VKErrorOutOfDate:
		return frame.StatusOutOfDate
	case khr_swapchain.VKSuboptimal:
		return frame.StatusSuboptimal
	}
	return frame.StatusSuccess
}

func (ctx *Context) WaitForFrame(slot int) error {
	_, err := ctx.deviceDriver.WaitForFences(true, common.NoTimeout, ctx.inFlightFence[slot])
	return err
}

func (ctx *Context) AcquireImage(slot int) (int, frame.Status, error) {
	if ctx.current == nil {
		return 0, frame.StatusOutOfDate, errors.New("no swapchain")
	}

	imageIndex, res, err := ctx.swapchainExtension.AcquireNextImage(ctx.current.swapchain, common.NoTimeout, &ctx.imageAvailableSemaphore[slot], nil)
	return imageIndex, statusOf(res), err
}

func (ctx *Context) ResetFrame(slot int) error {
	_, err := ctx.deviceDriver.ResetFences(ctx.inFlightFence[slot])
	return err
}

// Record writes the slot's uniforms and re-records its command buffer for
// the given swapchain image.
func (ctx *Context) Record(slot, imageIndex int) error {
	extent := ctx.current.extent

	elapsed := hrtime.Now().Seconds() - ctx.startTime
	ubo := uniform.Compute(elapsed, extent.Width, extent.Height)
	err := writeData(ctx.deviceDriver, ctx.uniformBuffersMemory[slot], 0, &ubo)
	if err != nil {
		return err
	}

	buffer := ctx.commandBuffers[slot]
	_, err = ctx.deviceDriver.ResetCommandBuffer(buffer, 0)
	if err != nil {
		return err
	}

	_, err = ctx.deviceDriver.BeginCommandBuffer(buffer, core1_0.CommandBufferBeginInfo{})
	if err != nil {
		return err
	}

	err = ctx.deviceDriver.CmdBeginRenderPass(buffer, core1_0.SubpassContentsInline,
		core1_0.RenderPassBeginInfo{
			RenderPass:  ctx.renderPass,
			Framebuffer: ctx.current.framebuffers[imageIndex],
			RenderArea:  fullScissor(extent),
			ClearValues: []core1_0.ClearValue{
				core1_0.ClearValueFloat{0, 0, 0, 1},
			},
		})
	if err != nil {
		return err
	}

	ctx.deviceDriver.CmdBindPipeline(buffer, core1_0.PipelineBindPointGraphics, ctx.graphicsPipeline)
	ctx.deviceDriver.CmdBindVertexBuffers(buffer, 0, []core1_0.Buffer{ctx.vertexBuffer}, []int{0})
	ctx.deviceDriver.CmdBindIndexBuffer(buffer, ctx.indexBuffer, 0, core1_0.IndexTypeUInt32)
	ctx.deviceDriver.CmdSetViewport(buffer, []core1_0.Viewport{fullViewport(extent)})
	ctx.deviceDriver.CmdSetScissor(buffer, []core1_0.Rect2D{fullScissor(extent)})
	ctx.deviceDriver.CmdBindDescriptorSets(buffer, core1_0.PipelineBindPointGraphics, ctx.pipelineLayout, 0, []core1_0.DescriptorSet{
		ctx.descriptorSets[slot],
	}, nil)
	ctx.deviceDriver.CmdDrawIndexed(buffer, ctx.indexCount, 1, 0, 0, 0)
	ctx.deviceDriver.CmdEndRenderPass(buffer)

	_, err = ctx.deviceDriver.EndCommandBuffer(buffer)
	return err
}

func (ctx *Context) Submit(slot int) error {
	_, err := ctx.deviceDriver.QueueSubmit(ctx.graphicsQueue, &ctx.inFlightFence[slot],
		core1_0.SubmitInfo{
			WaitSemaphores:   []core1_0.Semaphore{ctx.imageAvailableSemaphore[slot]},
			WaitDstStageMask: []core1_0.PipelineStageFlags{core1_0.PipelineStageColorAttachmentOutput},
			CommandBuffers:   []core1_0.CommandBuffer{ctx.commandBuffers[slot]},
			SignalSemaphores: []core1_0.Semaphore{ctx.renderFinishedSemaphore[slot]},
		},
	)
	return err
}

func (ctx *Context) Present(slot, imageIndex int) (frame.Status, error) {
	res, err := ctx.swapchainExtension.QueuePresent(ctx.presentQueue, khr_swapchain.PresentInfo{
		WaitSemaphores: []core1_0.Semaphore{ctx.renderFinishedSemaphore[slot]},
		Swapchains:     []khr_swapchain.Swapchain{ctx.current.swapchain},
		ImageIndices:   []int{imageIndex},
	})
	return statusOf(res), err
}
