package render

import (
	"log"

	"github.com/loov/hrtime"
	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/extensions/v3/khr_swapchain"
	"github.com/vkngwrapper/vkdraw/internal/pipecache"
)

func (ctx *Context) createRenderPass(format core1_0.Format) error {
	renderPass, _, err := ctx.deviceDriver.CreateRenderPass(nil, core1_0.RenderPassCreateInfo{
		Attachments: []core1_0.AttachmentDescription{
			{
				Format:         format,
				Samples:        core1_0.Samples1,
				LoadOp:         core1_0.AttachmentLoadOpClear,
				StoreOp:        core1_0.AttachmentStoreOpStore,
				StencilLoadOp:  core1_0.AttachmentLoadOpDontCare,
				StencilStoreOp: core1_0.AttachmentStoreOpDontCare,
				InitialLayout:  core1_0.ImageLayoutUndefined,
				FinalLayout:    khr_swapchain.ImageLayoutPresentSrc,
			},
		},
		Subpasses: []core1_0.SubpassDescription{
			{
				PipelineBindPoint: core1_0.PipelineBindPointGraphics,
				ColorAttachments: []core1_0.AttachmentReference{
					{
						Attachment: 0,
						Layout:     core1_0.ImageLayoutColorAttachmentOptimal,
					},
				},
			},
		},
		SubpassDependencies: []core1_0.SubpassDependency{
			{
				SrcSubpass: core1_0.SubpassExternal,
				DstSubpass: 0,

				SrcStageMask:  core1_0.PipelineStageColorAttachmentOutput,
				SrcAccessMask: 0,

				DstStageMask:  core1_0.PipelineStageColorAttachmentOutput,
				DstAccessMask: core1_0.AccessColorAttachmentWrite,
			},
		},
	})
	if err != nil {
		return err
	}

	ctx.renderPass = renderPass
	ctx.renderPassFormat = format
	return nil
}

func (ctx *Context) createDescriptorSetLayout() error {
	var err error
	ctx.descriptorSetLayout, _, err = ctx.deviceDriver.CreateDescriptorSetLayout(nil, core1_0.DescriptorSetLayoutCreateInfo{
		Bindings: []core1_0.DescriptorSetLayoutBinding{
			{
				Binding:         0,
				DescriptorType:  core1_0.DescriptorTypeUniformBuffer,
				DescriptorCount: 1,

				StageFlags: core1_0.StageVertex,
			},
			{
				Binding:         1,
				DescriptorType:  core1_0.DescriptorTypeCombinedImageSampler,
				DescriptorCount: 1,

				StageFlags: core1_0.StageFragment,
			},
		},
	})
	return err
}

func (ctx *Context) createPipelineCache() error {
	properties, err := ctx.instanceDriver.GetPhysicalDeviceProperties(ctx.physicalDevice)
	if err != nil {
		return err
	}

	ctx.cacheIdentity = pipecache.Identity{
		VendorID:  uint32(properties.VendorID),
		DeviceID:  uint32(properties.DeviceID),
		CacheUUID: properties.PipelineCacheUUID,
	}

	ctx.pipelineCache, _, err = ctx.deviceDriver.CreatePipelineCache(nil, core1_0.PipelineCacheCreateInfo{
		InitialData: pipecache.Load(ctx.cfg.PipelineCache, ctx.cacheIdentity),
	})
	return err
}

// destroyPipelineCache writes the cache back to disk before destroying it.
func (ctx *Context) destroyPipelineCache() {
	if !ctx.pipelineCache.Initialized() {
		return
	}

	data, _, err := ctx.deviceDriver.GetPipelineCacheData(ctx.pipelineCache)
	if err == nil {
		err = pipecache.Save(ctx.cfg.PipelineCache, data)
	}
	if err != nil {
		log.Printf("pipeline cache not saved: %v", err)
	}

	ctx.deviceDriver.DestroyPipelineCache(ctx.pipelineCache, nil)
	ctx.pipelineCache = core1_0.PipelineCache{}
}

func (ctx *Context) createGraphicsPipeline() error {
	vertShader, _, err := ctx.deviceDriver.CreateShaderModule(nil, core1_0.ShaderModuleCreateInfo{
		Code: ctx.assets.VertexShader,
	})
	if err != nil {
		return err
	}
	defer ctx.deviceDriver.DestroyShaderModule(vertShader, nil)

	fragShader, _, err := ctx.deviceDriver.CreateShaderModule(nil, core1_0.ShaderModuleCreateInfo{
		Code: ctx.assets.FragmentShader,
	})
	if err != nil {
		return err
	}
	defer ctx.deviceDriver.DestroyShaderModule(fragShader, nil)

	vertexInput := &core1_0.PipelineVertexInputStateCreateInfo{
		VertexBindingDescriptions:   vertexBindingDescriptions(),
		VertexAttributeDescriptions: vertexAttributeDescriptions(),
	}

	inputAssembly := &core1_0.PipelineInputAssemblyStateCreateInfo{
		Topology:               core1_0.PrimitiveTopologyTriangleList,
		PrimitiveRestartEnable: false,
	}

	vertStage := core1_0.PipelineShaderStageCreateInfo{
		Stage:  core1_0.StageVertex,
		Module: vertShader,
		Name:   "main",
	}

	fragStage := core1_0.PipelineShaderStageCreateInfo{
		Stage:  core1_0.StageFragment,
		Module: fragShader,
		Name:   "main",
	}

	// Viewport and scissor are dynamic; these only fix the counts.
	extent := ctx.current.extent
	viewport := &core1_0.PipelineViewportStateCreateInfo{
		Viewports: []core1_0.Viewport{fullViewport(extent)},
		Scissors:  []core1_0.Rect2D{fullScissor(extent)},
	}

	dynamicState := &core1_0.PipelineDynamicStateCreateInfo{
		DynamicStates: []core1_0.DynamicState{
			core1_0.DynamicStateViewport,
			core1_0.DynamicStateScissor,
		},
	}

	rasterization := &core1_0.PipelineRasterizationStateCreateInfo{
		DepthClampEnable:        false,
		RasterizerDiscardEnable: false,

		PolygonMode: core1_0.PolygonModeFill,
		CullMode:    core1_0.CullModeBack,
		FrontFace:   core1_0.FrontFaceCounterClockwise,

		DepthBiasEnable: false,

		LineWidth: 1.0,
	}

	multisample := &core1_0.PipelineMultisampleStateCreateInfo{
		SampleShadingEnable:  false,
		RasterizationSamples: core1_0.Samples1,
		MinSampleShading:     1.0,
	}

	colorBlend := &core1_0.PipelineColorBlendStateCreateInfo{
		LogicOpEnabled: false,
		LogicOp:        core1_0.LogicOpCopy,

		BlendConstants: [4]float32{0, 0, 0, 0},
		Attachments: []core1_0.PipelineColorBlendAttachmentState{
			{
				BlendEnabled:   false,
				ColorWriteMask: core1_0.ColorComponentRed | core1_0.ColorComponentGreen | core1_0.ColorComponentBlue | core1_0.ColorComponentAlpha,
			},
		},
	}

	ctx.pipelineLayout, _, err = ctx.deviceDriver.CreatePipelineLayout(nil, core1_0.PipelineLayoutCreateInfo{
		SetLayouts: []core1_0.DescriptorSetLayout{
			ctx.descriptorSetLayout,
		},
	})
	if err != nil {
		return err
	}

	start := hrtime.Now()
	pipelines, _, err := ctx.deviceDriver.CreateGraphicsPipelines(&ctx.pipelineCache, nil,
		core1_0.GraphicsPipelineCreateInfo{
			Stages: []core1_0.PipelineShaderStageCreateInfo{
				vertStage,
				fragStage,
			},
			VertexInputState:   vertexInput,
			InputAssemblyState: inputAssembly,
			ViewportState:      viewport,
			RasterizationState: rasterization,
			MultisampleState:   multisample,
			ColorBlendState:    colorBlend,
			DynamicState:       dynamicState,
			Layout:             ctx.pipelineLayout,
			RenderPass:         ctx.renderPass,
			Subpass:            0,
			BasePipelineIndex:  -1,
		},
	)
	if err != nil {
		return err
	}
	log.Printf("graphics pipeline created in %s", hrtime.Since(start))

	ctx.graphicsPipeline = pipelines[0]
	return nil
}

func fullViewport(extent core1_0.Extent2D) core1_0.Viewport {
	return core1_0.Viewport{
		X:        0,
		Y:        0,
		Width:    float32(extent.Width),
		Height:   float32(extent.Height),
		MinDepth: 0,
		MaxDepth: 1,
	}
}

func fullScissor(extent core1_0.Extent2D) core1_0.Rect2D {
	return core1_0.Rect2D{
		Offset: core1_0.Offset2D{X: 0, Y: 0},
		Extent: extent,
	}
}
