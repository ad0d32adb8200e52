package render

import (
	"fmt"

	"vulkan-sprites/frame"
	"vulkan-sprites/gpu"
	"vulkan-sprites/swapchain"

	vk "github.com/vulkan-go/vulkan"
)

// device runs the frame pipeline on the graphics queue of a context and the
// images of a swapchain.
type device struct {
	ctx       *gpu.Context
	swapchain *swapchain.Swapchain
}

var _ frame.Device = (*device)(nil)

func (d *device) NewSemaphore() (frame.Semaphore, error) {
	sem, err := d.ctx.NewSemaphore()
	if err != nil {
		return nil, err
	}
	return sem, nil
}

func (d *device) NewFence(signaled bool) (frame.Fence, error) {
	fence, err := d.ctx.NewFence(signaled)
	if err != nil {
		return nil, err
	}
	return fence, nil
}

func (d *device) AcquireNextImage(signal frame.Semaphore) (uint32, error) {
	sem, err := semaphoreHandle(signal)
	if err != nil {
		return 0, err
	}
	return d.swapchain.AcquireNextImage(sem)
}

func (d *device) Submit(s frame.Submission) error {
	wait, err := semaphoreHandle(s.Wait)
	if err != nil {
		return err
	}
	signal, err := semaphoreHandle(s.Signal)
	if err != nil {
		return err
	}
	cmd, err := commandBufferHandle(s.Buffer)
	if err != nil {
		return err
	}
	fence, err := fenceHandle(s.Fence)
	if err != nil {
		return err
	}

	submitInfo := vk.SubmitInfo{
		SType:                vk.StructureTypeSubmitInfo,
		WaitSemaphoreCount:   1,
		PWaitSemaphores:      []vk.Semaphore{wait},
		PWaitDstStageMask:    []vk.PipelineStageFlags{s.WaitStage},
		CommandBufferCount:   1,
		PCommandBuffers:      []vk.CommandBuffer{cmd},
		SignalSemaphoreCount: 1,
		PSignalSemaphores:    []vk.Semaphore{signal},
	}

	res := vk.QueueSubmit(d.ctx.GraphicsQueue(), 1, []vk.SubmitInfo{submitInfo}, fence)
	if err := vk.Error(res); err != nil {
		return fmt.Errorf("failed to submit %s buffer of image %d: %w", s.Stage, s.Image, err)
	}
	return nil
}

func (d *device) Present(image uint32, wait frame.Semaphore) error {
	sem, err := semaphoreHandle(wait)
	if err != nil {
		return err
	}
	return d.swapchain.Present(image, sem)
}

func (d *device) WaitIdle() error {
	return d.ctx.WaitIdle()
}

func semaphoreHandle(s frame.Semaphore) (vk.Semaphore, error) {
	sem, ok := s.(*gpu.Semaphore)
	if !ok {
		return vk.NullSemaphore, fmt.Errorf("semaphore of type %T was not created by this device", s)
	}
	return sem.Handle(), nil
}

// fenceHandle accepts a nil fence, which submits without one.
func fenceHandle(f frame.Fence) (vk.Fence, error) {
	if f == nil {
		return vk.NullFence, nil
	}
	fence, ok := f.(*gpu.Fence)
	if !ok {
		return vk.NullFence, fmt.Errorf("fence of type %T was not created by this device", f)
	}
	return fence.Handle(), nil
}

func commandBufferHandle(b frame.CommandBuffer) (vk.CommandBuffer, error) {
	cmd, ok := b.(*gpu.CommandBuffer)
	if !ok {
		return nil, fmt.Errorf("command buffer of type %T was not recorded by this device", b)
	}
	return cmd.Handle(), nil
}
