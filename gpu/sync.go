package gpu

import (
	"fmt"
	"math"

	vk "github.com/vulkan-go/vulkan"
)

// Semaphore orders work between queue submissions.
type Semaphore struct {
	device vk.Device
	handle vk.Semaphore
}

// NewSemaphore creates a binary semaphore.
func (c *Context) NewSemaphore() (*Semaphore, error) {
	semaphoreInfo := vk.SemaphoreCreateInfo{
		SType: vk.StructureTypeSemaphoreCreateInfo,
	}

	var sem vk.Semaphore
	if err := vk.Error(
		vk.CreateSemaphore(c.device, &semaphoreInfo, nil, &sem),
	); err != nil {
		return nil, fmt.Errorf("failed to create semaphore: %w", err)
	}

	return &Semaphore{device: c.device, handle: sem}, nil
}

// Handle returns the Vulkan semaphore.
func (s *Semaphore) Handle() vk.Semaphore { return s.handle }

// Destroy releases the semaphore.
func (s *Semaphore) Destroy() {
	if s.handle == vk.NullSemaphore {
		return
	}
	vk.DestroySemaphore(s.device, s.handle, nil)
	s.handle = vk.NullSemaphore
}

// Fence lets the CPU wait for submitted work.
type Fence struct {
	device vk.Device
	handle vk.Fence
}

// NewFence creates a fence, already signaled when signaled is set.
func (c *Context) NewFence(signaled bool) (*Fence, error) {
	fenceInfo := vk.FenceCreateInfo{
		SType: vk.StructureTypeFenceCreateInfo,
	}
	if signaled {
		fenceInfo.Flags = vk.FenceCreateFlags(vk.FenceCreateSignaledBit)
	}

	var fence vk.Fence
	if err := vk.Error(
		vk.CreateFence(c.device, &fenceInfo, nil, &fence),
	); err != nil {
		return nil, fmt.Errorf("failed to create fence: %w", err)
	}

	return &Fence{device: c.device, handle: fence}, nil
}

// Handle returns the Vulkan fence.
func (f *Fence) Handle() vk.Fence { return f.handle }

// Wait blocks until the fence is signaled. There is no timeout.
func (f *Fence) Wait() error {
	res := vk.WaitForFences(f.device, 1, []vk.Fence{f.handle}, vk.True, math.MaxUint64)
	if err := vk.Error(res); err != nil {
		return fmt.Errorf("waiting for fence: %w", err)
	}
	return nil
}

// Reset moves the fence back to the unsignaled state.
func (f *Fence) Reset() error {
	if err := vk.Error(vk.ResetFences(f.device, 1, []vk.Fence{f.handle})); err != nil {
		return fmt.Errorf("resetting fence: %w", err)
	}
	return nil
}

// Destroy releases the fence.
func (f *Fence) Destroy() {
	if f.handle == vk.NullFence {
		return
	}
	vk.DestroyFence(f.device, f.handle, nil)
	f.handle = vk.NullFence
}
