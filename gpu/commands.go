package gpu

import (
	"fmt"

	vk "github.com/vulkan-go/vulkan"
)

// CommandBuffer is a primary command buffer allocated from the context's
// pool.
type CommandBuffer struct {
	device vk.Device
	pool   vk.CommandPool
	handle vk.CommandBuffer
}

// NewCommandBuffer allocates a primary command buffer.
func (c *Context) NewCommandBuffer() (*CommandBuffer, error) {
	allocInfo := vk.CommandBufferAllocateInfo{
		SType:              vk.StructureTypeCommandBufferAllocateInfo,
		CommandPool:        c.commandPool,
		Level:              vk.CommandBufferLevelPrimary,
		CommandBufferCount: 1,
	}

	commandBuffers := make([]vk.CommandBuffer, 1)
	res := vk.AllocateCommandBuffers(c.device, &allocInfo, commandBuffers)
	if err := vk.Error(res); err != nil {
		return nil, fmt.Errorf("failed to allocate command buffer: %w", err)
	}

	return &CommandBuffer{
		device: c.device,
		pool:   c.commandPool,
		handle: commandBuffers[0],
	}, nil
}

// Handle returns the Vulkan command buffer.
func (b *CommandBuffer) Handle() vk.CommandBuffer { return b.handle }

// Begin starts recording. Buffers recorded with oneTime set may be submitted
// only once.
func (b *CommandBuffer) Begin(oneTime bool) error {
	beginInfo := vk.CommandBufferBeginInfo{
		SType: vk.StructureTypeCommandBufferBeginInfo,
	}
	if oneTime {
		beginInfo.Flags = vk.CommandBufferUsageFlags(vk.CommandBufferUsageOneTimeSubmitBit)
	}

	if err := vk.Error(vk.BeginCommandBuffer(b.handle, &beginInfo)); err != nil {
		return fmt.Errorf("cannot add begin command to the buffer: %w", err)
	}
	return nil
}

// End finishes recording.
func (b *CommandBuffer) End() error {
	if err := vk.Error(vk.EndCommandBuffer(b.handle)); err != nil {
		return fmt.Errorf("recording commands to buffer failed: %w", err)
	}
	return nil
}

// Free returns the buffer to its pool. The buffer must not be pending
// execution.
func (b *CommandBuffer) Free() {
	if b.handle == nil {
		return
	}
	vk.FreeCommandBuffers(b.device, b.pool, 1, []vk.CommandBuffer{b.handle})
	b.handle = nil
}

// TransitionImage records a barrier moving img from one layout to another
// and updates its tracked layout.
func (b *CommandBuffer) TransitionImage(img *Image, from, to vk.ImageLayout) error {
	barrier, srcStage, dstStage, err := img.Transition(from, to)
	if err != nil {
		return err
	}

	vk.CmdPipelineBarrier(
		b.handle,
		srcStage, dstStage,
		0,
		0, nil,
		0, nil,
		1, []vk.ImageMemoryBarrier{barrier},
	)

	return nil
}

// Blit records a nearest filtered copy of srcRect in src to dstRect in dst.
// src must be in the transfer source layout and dst in the transfer
// destination layout when the command executes.
func (b *CommandBuffer) Blit(src vk.Image, srcRect vk.Rect2D, dst vk.Image, dstRect vk.Rect2D) {
	vk.CmdBlitImage(
		b.handle,
		src, vk.ImageLayoutTransferSrcOptimal,
		dst, vk.ImageLayoutTransferDstOptimal,
		1, []vk.ImageBlit{BlitRegion(srcRect, dstRect)},
		vk.FilterNearest,
	)
}

// BlitRegion converts a pair of rectangles into the corner offsets an image
// blit uses.
func BlitRegion(src, dst vk.Rect2D) vk.ImageBlit {
	return vk.ImageBlit{
		SrcSubresource: colorLayers,
		SrcOffsets:     rectCorners(src),
		DstSubresource: colorLayers,
		DstOffsets:     rectCorners(dst),
	}
}

func rectCorners(r vk.Rect2D) [2]vk.Offset3D {
	return [2]vk.Offset3D{
		{X: r.Offset.X, Y: r.Offset.Y, Z: 0},
		{
			X: r.Offset.X + int32(r.Extent.Width),
			Y: r.Offset.Y + int32(r.Extent.Height),
			Z: 1,
		},
	}
}

// CopyBuffer records a copy of size bytes from src to dst.
func (b *CommandBuffer) CopyBuffer(src, dst vk.Buffer, size vk.DeviceSize) {
	copyRegion := vk.BufferCopy{
		SrcOffset: 0,
		DstOffset: 0,
		Size:      size,
	}

	vk.CmdCopyBuffer(b.handle, src, dst, 1, []vk.BufferCopy{copyRegion})
}

// CopyBufferToImage records a copy of tightly packed pixels from buffer into
// the whole of img, which must be in the transfer destination layout.
func (b *CommandBuffer) CopyBufferToImage(buffer vk.Buffer, img *Image) {
	region := vk.BufferImageCopy{
		BufferOffset:      0,
		BufferRowLength:   0,
		BufferImageHeight: 0,
		ImageSubresource:  colorLayers,
		ImageOffset:       vk.Offset3D{X: 0, Y: 0, Z: 0},
		ImageExtent: vk.Extent3D{
			Width:  img.Extent.Width,
			Height: img.Extent.Height,
			Depth:  1,
		},
	}

	vk.CmdCopyBufferToImage(
		b.handle,
		buffer,
		img.handle,
		vk.ImageLayoutTransferDstOptimal,
		1,
		[]vk.BufferImageCopy{region},
	)
}

// OneTimeCommands records the commands added by record into a fresh buffer,
// submits it to the graphics queue and waits until the queue is idle.
func (c *Context) OneTimeCommands(record func(cmd *CommandBuffer) error) error {
	cmd, err := c.NewCommandBuffer()
	if err != nil {
		return err
	}
	defer cmd.Free()

	if err := cmd.Begin(true); err != nil {
		return err
	}

	if err := record(cmd); err != nil {
		return err
	}

	if err := cmd.End(); err != nil {
		return err
	}

	submitInfo := vk.SubmitInfo{
		SType:              vk.StructureTypeSubmitInfo,
		CommandBufferCount: 1,
		PCommandBuffers:    []vk.CommandBuffer{cmd.handle},
	}

	res := vk.QueueSubmit(c.graphicsQueue, 1, []vk.SubmitInfo{submitInfo}, vk.NullFence)
	if err := vk.Error(res); err != nil {
		return fmt.Errorf("failed to submit to graphics queue: %w", err)
	}

	res = vk.QueueWaitIdle(c.graphicsQueue)
	if err := vk.Error(res); err != nil {
		return fmt.Errorf("failed to wait on graphics queue idle: %w", err)
	}

	return nil
}
