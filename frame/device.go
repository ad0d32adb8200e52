// Package frame drives the per frame work: acquiring a swapchain image,
// submitting the start, dynamic and end command buffers chained by
// semaphores, presenting, and bounding the number of frames in flight with
// fences.
package frame

import (
	"fmt"

	"vulkan-sprites/sprite"

	vk "github.com/vulkan-go/vulkan"
)

// Semaphore orders two pieces of GPU work.
type Semaphore interface {
	Destroy()
}

// Fence lets the CPU wait for GPU work.
type Fence interface {
	// Wait blocks until the fence is signaled. It never times out.
	Wait() error
	Reset() error
	Destroy()
}

// CommandBuffer is recorded GPU work.
type CommandBuffer interface {
	Free()
}

// Stage is one of the three command buffers submitted every frame.
type Stage int

const (
	// StageStart draws the 3D pass into the render target and prepares the
	// target to receive sprites.
	StageStart Stage = iota
	// StageDynamic blits the frame's sprites onto the render target.
	StageDynamic
	// StageEnd blits the render target onto the swapchain image.
	StageEnd
)

func (s Stage) String() string {
	switch s {
	case StageStart:
		return "start"
	case StageDynamic:
		return "dynamic"
	case StageEnd:
		return "end"
	default:
		return fmt.Sprintf("stage(%d)", int(s))
	}
}

// Submission is one command buffer submitted to the graphics queue.
type Submission struct {
	Stage  Stage
	Image  uint32
	Buffer CommandBuffer

	// Wait is waited on at WaitStage before the buffer executes.
	Wait      Semaphore
	WaitStage vk.PipelineStageFlags

	// Signal is signaled when the buffer completes.
	Signal Semaphore

	// Fence, when not nil, is signaled when the buffer completes.
	Fence Fence
}

// Device is the GPU side of the frame pipeline.
type Device interface {
	NewSemaphore() (Semaphore, error)
	NewFence(signaled bool) (Fence, error)

	// AcquireNextImage returns the index of the next swapchain image and
	// arranges for signal to be signaled when the image may be written.
	AcquireNextImage(signal Semaphore) (uint32, error)

	Submit(s Submission) error

	// Present queues image for presentation after wait is signaled.
	Present(image uint32, wait Semaphore) error

	WaitIdle() error
}

// Recorder provides the command buffers for a swapchain image.
type Recorder interface {
	// StartBuffer and EndBuffer return the pre-recorded buffers for image.
	StartBuffer(image uint32) CommandBuffer
	EndBuffer(image uint32) CommandBuffer

	// RecordDynamic records the sprites onto the render target of image
	// into a new one-shot buffer.
	RecordDynamic(image uint32, sprites *sprite.Queue) (CommandBuffer, error)

	// WriteUniforms updates the uniform buffer read by the start buffer of
	// image.
	WriteUniforms(image uint32) error
}

// PrepareFunc runs the CPU side of a frame once the target image is known.
// It usually queues sprites.
type PrepareFunc func(image uint32, sprites *sprite.Queue) error
