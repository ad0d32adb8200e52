package render

import (
	"fmt"
	"time"

	"vulkan-sprites/frame"
	"vulkan-sprites/geometry"
	"vulkan-sprites/gpu"
	"vulkan-sprites/pipeline"
	"vulkan-sprites/rendertarget"
	"vulkan-sprites/sprite"
	"vulkan-sprites/swapchain"
	"vulkan-sprites/unsafer"

	vk "github.com/vulkan-go/vulkan"
)

// recorder owns the per image command buffers and uniform buffers.
type recorder struct {
	ctx *gpu.Context

	swapchain   *swapchain.Swapchain
	targets     *rendertarget.Set
	pass        *pipeline.Pass
	graphics    *pipeline.Graphics
	descriptors *pipeline.Descriptors
	mesh        *geometry.Buffers

	clear   [4]float32
	started time.Time

	start    []*gpu.CommandBuffer
	end      []*gpu.CommandBuffer
	uniforms []*gpu.Buffer
}

var _ frame.Recorder = (*recorder)(nil)

func (r *recorder) StartBuffer(image uint32) frame.CommandBuffer { return r.start[image] }

func (r *recorder) EndBuffer(image uint32) frame.CommandBuffer { return r.end[image] }

func (r *recorder) WriteUniforms(image uint32) error {
	extent := r.targets.Extent
	ubo := NewUniforms(time.Since(r.started), float32(extent.Width)/float32(extent.Height))
	return r.uniforms[image].Write(unsafer.StructToBytes(&ubo))
}

func (r *recorder) RecordDynamic(image uint32, sprites *sprite.Queue) (frame.CommandBuffer, error) {
	cmd, err := r.ctx.NewCommandBuffer()
	if err != nil {
		return nil, err
	}

	if err := cmd.Begin(true); err != nil {
		cmd.Free()
		return nil, err
	}

	sprites.FlushAsCommands(cmd, r.targets.Image(int(image)).Handle(), r.targets.Extent)

	if err := cmd.End(); err != nil {
		cmd.Free()
		return nil, err
	}

	return cmd, nil
}

// createUniformBuffers allocates one mapped uniform buffer per image and
// points the image's descriptor set at it.
func (r *recorder) createUniformBuffers(texture *gpu.Texture, sampler *gpu.Sampler) error {
	size := vk.DeviceSize(len(unsafer.StructToBytes(&Uniforms{})))

	for i := 0; i < r.swapchain.Len(); i++ {
		buf, err := r.ctx.NewHostBuffer(size, vk.BufferUsageFlags(vk.BufferUsageUniformBufferBit))
		if err != nil {
			return fmt.Errorf("uniform buffer %d: %w", i, err)
		}
		r.uniforms = append(r.uniforms, buf)
		r.descriptors.Write(i, buf, texture, sampler)
	}

	return nil
}

// recordStatic records the start and end buffers of every image. They are
// submitted again every time their image comes up.
func (r *recorder) recordStatic() error {
	for i := 0; i < r.swapchain.Len(); i++ {
		start, err := r.record(func(cmd *gpu.CommandBuffer) error {
			return r.recordStart(cmd, i)
		})
		if err != nil {
			return fmt.Errorf("recording start buffer %d: %w", i, err)
		}
		r.start = append(r.start, start)

		end, err := r.record(func(cmd *gpu.CommandBuffer) error {
			return r.recordEnd(cmd, i)
		})
		if err != nil {
			return fmt.Errorf("recording end buffer %d: %w", i, err)
		}
		r.end = append(r.end, end)
	}

	return nil
}

func (r *recorder) record(commands func(cmd *gpu.CommandBuffer) error) (*gpu.CommandBuffer, error) {
	cmd, err := r.ctx.NewCommandBuffer()
	if err != nil {
		return nil, err
	}

	if err := cmd.Begin(false); err != nil {
		cmd.Free()
		return nil, err
	}
	if err := commands(cmd); err != nil {
		cmd.Free()
		return nil, err
	}
	if err := cmd.End(); err != nil {
		cmd.Free()
		return nil, err
	}

	return cmd, nil
}

// recordStart draws the mesh into render target i and leaves the target
// ready to receive sprites.
func (r *recorder) recordStart(cmd *gpu.CommandBuffer, i int) error {
	handle := cmd.Handle()

	r.pass.Begin(handle, i, r.clear)
	r.graphics.Bind(handle, r.descriptors.Set(i))
	r.mesh.Bind(handle)
	vk.CmdDrawIndexed(handle, r.mesh.IndexCount, 1, 0, 0, 0)
	r.pass.End(handle)

	return cmd.TransitionImage(
		r.targets.Image(i),
		rendertarget.RestLayout,
		vk.ImageLayoutTransferDstOptimal,
	)
}

// recordEnd scales render target i onto swapchain image i and hands the
// latter over for presentation.
func (r *recorder) recordEnd(cmd *gpu.CommandBuffer, i int) error {
	target := r.targets.Image(i)
	swapImage := r.swapchain.Images()[i]

	if err := cmd.TransitionImage(target, vk.ImageLayoutTransferDstOptimal, rendertarget.RestLayout); err != nil {
		return err
	}
	if err := cmd.TransitionImage(swapImage, vk.ImageLayoutUndefined, vk.ImageLayoutTransferDstOptimal); err != nil {
		return err
	}

	cmd.Blit(target.Handle(), target.Rect(), swapImage.Handle(), swapImage.Rect())

	return cmd.TransitionImage(swapImage, vk.ImageLayoutTransferDstOptimal, vk.ImageLayoutPresentSrc)
}

// destroy frees the command buffers and uniform buffers. The device must be
// idle.
func (r *recorder) destroy() {
	for _, cmd := range r.end {
		cmd.Free()
	}
	r.end = nil
	for _, cmd := range r.start {
		cmd.Free()
	}
	r.start = nil
	for _, buf := range r.uniforms {
		buf.Destroy()
	}
	r.uniforms = nil
}
