package render

import (
	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/v3/core1_0"
)

const textureFormat = core1_0.FormatR8G8B8A8SRGB

func (ctx *Context) createTextureImage() error {
	tex := ctx.assets.Texture

	stagingBuffer, stagingMemory, err := ctx.createBuffer(tex.Size(), core1_0.BufferUsageTransferSrc, core1_0.MemoryPropertyHostVisible|core1_0.MemoryPropertyHostCoherent)
	if stagingBuffer.Initialized() {
		defer ctx.deviceDriver.DestroyBuffer(stagingBuffer, nil)
	}
	if stagingMemory.Initialized() {
		defer ctx.deviceDriver.FreeMemory(stagingMemory, nil)
	}
	if err != nil {
		return err
	}

	err = writeData(ctx.deviceDriver, stagingMemory, 0, tex.Pixels)
	if err != nil {
		return err
	}

	ctx.textureImage, ctx.textureImageMemory, err = ctx.createImage(tex.Width, tex.Height,
		textureFormat,
		core1_0.ImageTilingOptimal,
		core1_0.ImageUsageTransferDst|core1_0.ImageUsageSampled,
		core1_0.MemoryPropertyDeviceLocal)
	if err != nil {
		return err
	}

	err = ctx.transitionImageLayout(ctx.textureImage, core1_0.ImageLayoutUndefined, core1_0.ImageLayoutTransferDstOptimal)
	if err != nil {
		return err
	}

	err = ctx.copyBufferToImage(stagingBuffer, ctx.textureImage, tex.Width, tex.Height)
	if err != nil {
		return err
	}

	return ctx.transitionImageLayout(ctx.textureImage, core1_0.ImageLayoutTransferDstOptimal, core1_0.ImageLayoutShaderReadOnlyOptimal)
}

func (ctx *Context) createTextureImageView() error {
	var err error
	ctx.textureImageView, err = ctx.createImageView(ctx.textureImage, textureFormat, core1_0.ImageAspectColor)
	return err
}

func (ctx *Context) createSampler() error {
	properties, err := ctx.instanceDriver.GetPhysicalDeviceProperties(ctx.physicalDevice)
	if err != nil {
		return err
	}

	ctx.textureSampler, _, err = ctx.deviceDriver.CreateSampler(nil, core1_0.SamplerCreateInfo{
		MagFilter:    core1_0.FilterLinear,
		MinFilter:    core1_0.FilterLinear,
		AddressModeU: core1_0.SamplerAddressModeRepeat,
		AddressModeV: core1_0.SamplerAddressModeRepeat,
		AddressModeW: core1_0.SamplerAddressModeRepeat,

		AnisotropyEnable: true,
		MaxAnisotropy:    properties.Limits.MaxSamplerAnisotropy,

		BorderColor: core1_0.BorderColorIntOpaqueBlack,

		MipmapMode: core1_0.SamplerMipmapModeLinear,
		MinLod:     0,
		MaxLod:     0,
	})
	return err
}

func (ctx *Context) destroyTexture() {
	if ctx.textureSampler.Initialized() {
		ctx.deviceDriver.DestroySampler(ctx.textureSampler, nil)
	}
	if ctx.textureImageView.Initialized() {
		ctx.deviceDriver.DestroyImageView(ctx.textureImageView, nil)
	}
	if ctx.textureImage.Initialized() {
		ctx.deviceDriver.DestroyImage(ctx.textureImage, nil)
	}
	if ctx.textureImageMemory.Initialized() {
		ctx.deviceDriver.FreeMemory(ctx.textureImageMemory, nil)
	}
}

func (ctx *Context) createImage(width, height int, format core1_0.Format, tiling core1_0.ImageTiling, usage core1_0.ImageUsageFlags, memoryProperties core1_0.MemoryPropertyFlags) (core1_0.Image, core1_0.DeviceMemory, error) {
	image, _, err := ctx.deviceDriver.CreateImage(nil, core1_0.ImageCreateInfo{
		ImageType: core1_0.ImageType2D,
		Extent: core1_0.Extent3D{
			Width:  width,
			Height: height,
			Depth:  1,
		},
		MipLevels:     1,
		ArrayLayers:   1,
		Format:        format,
		Tiling:        tiling,
		InitialLayout: core1_0.ImageLayoutUndefined,
		Usage:         usage,
		SharingMode:   core1_0.SharingModeExclusive,
		Samples:       core1_0.Samples1,
	})
	if err != nil {
		return core1_0.Image{}, core1_0.DeviceMemory{}, err
	}

	memReqs := ctx.deviceDriver.GetImageMemoryRequirements(image)
	memoryIndex, err := ctx.findMemoryType(memReqs.MemoryTypeBits, memoryProperties)
	if err != nil {
		return image, core1_0.DeviceMemory{}, err
	}

	imageMemory, _, err := ctx.deviceDriver.AllocateMemory(nil, core1_0.MemoryAllocateInfo{
		AllocationSize:  memReqs.Size,
		MemoryTypeIndex: memoryIndex,
	})
	if err != nil {
		return image, core1_0.DeviceMemory{}, err
	}

	_, err = ctx.deviceDriver.BindImageMemory(image, imageMemory, 0)
	return image, imageMemory, err
}

func (ctx *Context) transitionImageLayout(image core1_0.Image, oldLayout core1_0.ImageLayout, newLayout core1_0.ImageLayout) error {
	var sourceStage, destStage core1_0.PipelineStageFlags
	var sourceAccess, destAccess core1_0.AccessFlags

	if oldLayout == core1_0.ImageLayoutUndefined && newLayout == core1_0.ImageLayoutTransferDstOptimal {
		sourceAccess = 0
		destAccess = core1_0.AccessTransferWrite
		sourceStage = core1_0.PipelineStageTopOfPipe
		destStage = core1_0.PipelineStageTransfer
	} else if oldLayout == core1_0.ImageLayoutTransferDstOptimal && newLayout == core1_0.ImageLayoutShaderReadOnlyOptimal {
		sourceAccess = core1_0.AccessTransferWrite
		destAccess = core1_0.AccessShaderRead
		sourceStage = core1_0.PipelineStageTransfer
		destStage = core1_0.PipelineStageFragmentShader
	} else {
		return errors.Newf("unexpected layout transition: %s -> %s", oldLayout, newLayout)
	}

	buffer, err := ctx.beginSingleTimeCommands()
	if err != nil {
		return err
	}

	err = ctx.deviceDriver.CmdPipelineBarrier(buffer, sourceStage, destStage, 0, nil, nil, []core1_0.ImageMemoryBarrier{
		{
			OldLayout:           oldLayout,
			NewLayout:           newLayout,
			SrcQueueFamilyIndex: -1,
			DstQueueFamilyIndex: -1,
			Image:               image,
			SubresourceRange: core1_0.ImageSubresourceRange{
				AspectMask:     core1_0.ImageAspectColor,
				BaseMipLevel:   0,
				LevelCount:     1,
				BaseArrayLayer: 0,
				LayerCount:     1,
			},
			SrcAccessMask: sourceAccess,
			DstAccessMask: destAccess,
		},
	})
	if err != nil {
		return err
	}

	return ctx.endSingleTimeCommands(buffer)
}

func (ctx *Context) copyBufferToImage(buffer core1_0.Buffer, image core1_0.Image, width, height int) error {
	cmdBuffer, err := ctx.beginSingleTimeCommands()
	if err != nil {
		return err
	}

	err = ctx.deviceDriver.CmdCopyBufferToImage(cmdBuffer, buffer, image, core1_0.ImageLayoutTransferDstOptimal,
		core1_0.BufferImageCopy{
			BufferOffset:      0,
			BufferRowLength:   0,
			BufferImageHeight: 0,

			ImageSubresource: core1_0.ImageSubresourceLayers{
				AspectMask:     core1_0.ImageAspectColor,
				MipLevel:       0,
				BaseArrayLayer: 0,
				LayerCount:     1,
			},
			ImageOffset: core1_0.Offset3D{X: 0, Y: 0, Z: 0},
			ImageExtent: core1_0.Extent3D{Width: width, Height: height, Depth: 1},
		},
	)
	if err != nil {
		return err
	}

	return ctx.endSingleTimeCommands(cmdBuffer)
}
