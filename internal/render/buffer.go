package render

import (
	"bytes"
	"encoding/binary"
	"unsafe"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/v3/common"
	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/vkdraw/internal/uniform"
)

func writeData(driver core1_0.CoreDeviceDriver, memory core1_0.DeviceMemory, offset int, data any) error {
	bufferSize := binary.Size(data)
	if bufferSize < 0 {
		return errors.Newf("cannot upload %T: not fixed size", data)
	}

	memoryPtr, _, err := driver.MapMemory(memory, offset, bufferSize, 0)
	if err != nil {
		return err
	}
	defer driver.UnmapMemory(memory)

	dataBuffer := unsafe.Slice((*byte)(memoryPtr), bufferSize)

	buf := &bytes.Buffer{}
	err = binary.Write(buf, common.ByteOrder, data)
	if err != nil {
		return err
	}

	copy(dataBuffer, buf.Bytes())
	return nil
}

func (ctx *Context) createBuffer(size int, usage core1_0.BufferUsageFlags, properties core1_0.MemoryPropertyFlags) (core1_0.Buffer, core1_0.DeviceMemory, error) {
	buffer, _, err := ctx.deviceDriver.CreateBuffer(nil, core1_0.BufferCreateInfo{
		Size:        size,
		Usage:       usage,
		SharingMode: core1_0.SharingModeExclusive,
	})
	if err != nil {
		return core1_0.Buffer{}, core1_0.DeviceMemory{}, err
	}

	memRequirements := ctx.deviceDriver.GetBufferMemoryRequirements(buffer)
	memoryTypeIndex, err := ctx.findMemoryType(memRequirements.MemoryTypeBits, properties)
	if err != nil {
		return buffer, core1_0.DeviceMemory{}, err
	}

	memory, _, err := ctx.deviceDriver.AllocateMemory(nil, core1_0.MemoryAllocateInfo{
		AllocationSize:  memRequirements.Size,
		MemoryTypeIndex: memoryTypeIndex,
	})
	if err != nil {
		return buffer, core1_0.DeviceMemory{}, err
	}

	_, err = ctx.deviceDriver.BindBufferMemory(buffer, memory, 0)
	return buffer, memory, err
}

func (ctx *Context) findMemoryType(typeFilter uint32, properties core1_0.MemoryPropertyFlags) (int, error) {
	memProperties := ctx.instanceDriver.GetPhysicalDeviceMemoryProperties(ctx.physicalDevice)
	for i, memoryType := range memProperties.MemoryTypes {
		typeBit := uint32(1 << i)

		if (typeFilter&typeBit) != 0 && (memoryType.PropertyFlags&properties) == properties {
			return i, nil
		}
	}

	return 0, errors.Newf("failed to find a memory type for filter %x with flags %s", typeFilter, properties)
}

// beginSingleTimeCommands and endSingleTimeCommands bracket a one-off
// transfer. The end call blocks until the graphics queue is idle.
func (ctx *Context) beginSingleTimeCommands() (core1_0.CommandBuffer, error) {
	buffers, _, err := ctx.deviceDriver.AllocateCommandBuffers(core1_0.CommandBufferAllocateInfo{
		CommandPool:        ctx.commandPool,
		Level:              core1_0.CommandBufferLevelPrimary,
		CommandBufferCount: 1,
	})
	if err != nil {
		return core1_0.CommandBuffer{}, err
	}

	buffer := buffers[0]
	_, err = ctx.deviceDriver.BeginCommandBuffer(buffer, core1_0.CommandBufferBeginInfo{
		Flags: core1_0.CommandBufferUsageOneTimeSubmit,
	})
	return buffer, err
}

func (ctx *Context) endSingleTimeCommands(buffer core1_0.CommandBuffer) error {
	defer ctx.deviceDriver.FreeCommandBuffers(buffer)

	_, err := ctx.deviceDriver.EndCommandBuffer(buffer)
	if err != nil {
		return err
	}

	_, err = ctx.deviceDriver.QueueSubmit(ctx.graphicsQueue, nil,
		core1_0.SubmitInfo{
			CommandBuffers: []core1_0.CommandBuffer{buffer},
		},
	)
	if err != nil {
		return err
	}

	_, err = ctx.deviceDriver.QueueWaitIdle(ctx.graphicsQueue)
	return err
}

func (ctx *Context) copyBuffer(srcBuffer core1_0.Buffer, dstBuffer core1_0.Buffer, size int) error {
	buffer, err := ctx.beginSingleTimeCommands()
	if err != nil {
		return err
	}

	err = ctx.deviceDriver.CmdCopyBuffer(buffer, srcBuffer, dstBuffer,
		core1_0.BufferCopy{
			SrcOffset: 0,
			DstOffset: 0,
			Size:      size,
		},
	)
	if err != nil {
		return err
	}

	return ctx.endSingleTimeCommands(buffer)
}

// uploadDeviceLocal stages data through a host-visible buffer into a new
// device-local buffer with the given usage.
func (ctx *Context) uploadDeviceLocal(data any, usage core1_0.BufferUsageFlags) (core1_0.Buffer, core1_0.DeviceMemory, error) {
	bufferSize := binary.Size(data)

	stagingBuffer, stagingBufferMemory, err := ctx.createBuffer(bufferSize, core1_0.BufferUsageTransferSrc, core1_0.MemoryPropertyHostVisible|core1_0.MemoryPropertyHostCoherent)
	if stagingBuffer.Initialized() {
		defer ctx.deviceDriver.DestroyBuffer(stagingBuffer, nil)
	}
	if stagingBufferMemory.Initialized() {
		defer ctx.deviceDriver.FreeMemory(stagingBufferMemory, nil)
	}
	if err != nil {
		return core1_0.Buffer{}, core1_0.DeviceMemory{}, err
	}

	err = writeData(ctx.deviceDriver, stagingBufferMemory, 0, data)
	if err != nil {
		return core1_0.Buffer{}, core1_0.DeviceMemory{}, err
	}

	buffer, memory, err := ctx.createBuffer(bufferSize, core1_0.BufferUsageTransferDst|usage, core1_0.MemoryPropertyDeviceLocal)
	if err != nil {
		return buffer, memory, err
	}

	return buffer, memory, ctx.copyBuffer(stagingBuffer, buffer, bufferSize)
}

func (ctx *Context) createVertexBuffer() error {
	var err error
	ctx.vertexBuffer, ctx.vertexBufferMemory, err = ctx.uploadDeviceLocal(ctx.assets.Mesh.Vertices, core1_0.BufferUsageVertexBuffer)
	return err
}

func (ctx *Context) createIndexBuffer() error {
	var err error
	ctx.indexBuffer, ctx.indexBufferMemory, err = ctx.uploadDeviceLocal(ctx.assets.Mesh.Indices, core1_0.BufferUsageIndexBuffer)
	ctx.indexCount = len(ctx.assets.Mesh.Indices)
	return err
}

// One uniform buffer per in-flight slot, so the CPU never writes one the GPU
// may still be reading.
func (ctx *Context) createUniformBuffers() error {
	for i := 0; i < ctx.cfg.FramesInFlight; i++ {
		buffer, memory, err := ctx.createBuffer(uniform.Size, core1_0.BufferUsageUniformBuffer, core1_0.MemoryPropertyHostVisible|core1_0.MemoryPropertyHostCoherent)
		if buffer.Initialized() {
			ctx.uniformBuffers = append(ctx.uniformBuffers, buffer)
		}
		if memory.Initialized() {
			ctx.uniformBuffersMemory = append(ctx.uniformBuffersMemory, memory)
		}
		if err != nil {
			return err
		}
	}

	return nil
}

func (ctx *Context) createDescriptorPool() error {
	var err error
	ctx.descriptorPool, _, err = ctx.deviceDriver.CreateDescriptorPool(nil, core1_0.DescriptorPoolCreateInfo{
		MaxSets: ctx.cfg.FramesInFlight,
		PoolSizes: []core1_0.DescriptorPoolSize{
			{
				Type:            core1_0.DescriptorTypeUniformBuffer,
				DescriptorCount: ctx.cfg.FramesInFlight,
			},
			{
				Type:            core1_0.DescriptorTypeCombinedImageSampler,
				DescriptorCount: ctx.cfg.FramesInFlight,
			},
		},
	})
	return err
}

func (ctx *Context) createDescriptorSets() error {
	var allocLayouts []core1_0.DescriptorSetLayout
	for i := 0; i < ctx.cfg.FramesInFlight; i++ {
		allocLayouts = append(allocLayouts, ctx.descriptorSetLayout)
	}

	var err error
	ctx.descriptorSets, _, err = ctx.deviceDriver.AllocateDescriptorSets(core1_0.DescriptorSetAllocateInfo{
		DescriptorPool: ctx.descriptorPool,
		SetLayouts:     allocLayouts,
	})
	if err != nil {
		return err
	}

	for i := 0; i < ctx.cfg.FramesInFlight; i++ {
		err = ctx.deviceDriver.UpdateDescriptorSets([]core1_0.WriteDescriptorSet{
			{
				DstSet:          ctx.descriptorSets[i],
				DstBinding:      0,
				DstArrayElement: 0,

				DescriptorType: core1_0.DescriptorTypeUniformBuffer,

				BufferInfo: []core1_0.DescriptorBufferInfo{
					{
						Buffer: ctx.uniformBuffers[i],
						Offset: 0,
						Range:  uniform.Size,
					},
				},
			},
			{
				DstSet:          ctx.descriptorSets[i],
				DstBinding:      1,
				DstArrayElement: 0,

				DescriptorType: core1_0.DescriptorTypeCombinedImageSampler,

				ImageInfo: []core1_0.DescriptorImageInfo{
					{
						ImageView:   ctx.textureImageView,
						Sampler:     ctx.textureSampler,
						ImageLayout: core1_0.ImageLayoutShaderReadOnlyOptimal,
					},
				},
			},
		}, nil)
		if err != nil {
			return err
		}
	}

	return nil
}
