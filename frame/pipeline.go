package frame

import (
	"fmt"

	"vulkan-sprites/sprite"

	vk "github.com/vulkan-go/vulkan"
)

// DefaultFramesInFlight is how many frames the CPU may queue ahead of the
// GPU.
const DefaultFramesInFlight = 3

// Config sizes the pipeline.
type Config struct {
	// FramesInFlight is the number of frame slots.
	FramesInFlight int

	// ImageCount is the length of the swapchain and render target chains.
	ImageCount int

	// Prepare is called every frame before anything is recorded for it.
	// It may be nil.
	Prepare PrepareFunc
}

// slot holds the synchronization objects of one frame in flight.
type slot struct {
	acquired    Semaphore
	startDone   Semaphore
	dynamicDone Semaphore
	endDone     Semaphore

	// inFlight is signaled when the slot's end buffer has executed.
	inFlight Fence
}

// Pipeline renders frames with up to FramesInFlight of them queued on the
// GPU at once. Frame slots are used round-robin and bound to whichever image
// the swapchain hands out, so a second fence check per image guards against
// an image still in use by an older slot.
//
// Pipeline is not safe for concurrent use.
type Pipeline struct {
	device   Device
	recorder Recorder
	prepare  PrepareFunc

	slots   []slot
	current int

	// imagesInFlight[i] is the fence of the last frame rendered to image
	// i, nil before the first one.
	imagesInFlight []Fence
	dynamic        []CommandBuffer

	sprites sprite.Queue
	frames  uint64
}

// New creates the synchronization objects for cfg.FramesInFlight slots. Frame
// fences start signaled so the first frame of each slot does not block.
func New(device Device, recorder Recorder, cfg Config) (*Pipeline, error) {
	if cfg.FramesInFlight <= 0 {
		return nil, fmt.Errorf("frames in flight must be positive, got %d", cfg.FramesInFlight)
	}
	if cfg.ImageCount <= 0 {
		return nil, fmt.Errorf("image count must be positive, got %d", cfg.ImageCount)
	}

	p := &Pipeline{
		device:         device,
		recorder:       recorder,
		prepare:        cfg.Prepare,
		imagesInFlight: make([]Fence, cfg.ImageCount),
		dynamic:        make([]CommandBuffer, cfg.ImageCount),
	}

	for i := 0; i < cfg.FramesInFlight; i++ {
		s, err := p.newSlot()
		if err != nil {
			p.Destroy()
			return nil, fmt.Errorf("frame slot %d: %w", i, err)
		}
		p.slots = append(p.slots, s)
	}

	return p, nil
}

func (p *Pipeline) newSlot() (slot, error) {
	var (
		s   slot
		err error
	)

	semaphores := []*Semaphore{&s.acquired, &s.startDone, &s.dynamicDone, &s.endDone}
	for _, sem := range semaphores {
		*sem, err = p.device.NewSemaphore()
		if err != nil {
			s.destroy()
			return slot{}, err
		}
	}

	s.inFlight, err = p.device.NewFence(true)
	if err != nil {
		s.destroy()
		return slot{}, err
	}

	return s, nil
}

func (s *slot) destroy() {
	if s.inFlight != nil {
		s.inFlight.Destroy()
	}
	for _, sem := range []Semaphore{s.endDone, s.dynamicDone, s.startDone, s.acquired} {
		if sem != nil {
			sem.Destroy()
		}
	}
	*s = slot{}
}

// Sprites returns the queue of sprites drawn in the current frame.
func (p *Pipeline) Sprites() *sprite.Queue { return &p.sprites }

// FrameCount returns the number of frames rendered so far.
func (p *Pipeline) FrameCount() uint64 { return p.frames }

// FramesInFlight returns the number of frame slots.
func (p *Pipeline) FramesInFlight() int { return len(p.slots) }

// RenderNextFrame renders and presents one frame. It blocks while the frame
// slot, or the image it acquires, is still in use by the GPU. Any failure is
// returned as a *FatalRenderError.
func (p *Pipeline) RenderNextFrame() error {
	s := &p.slots[p.current]

	if err := s.inFlight.Wait(); err != nil {
		return p.fail(StepWaitFrame, err)
	}

	img, err := p.device.AcquireNextImage(s.acquired)
	if err != nil {
		return p.fail(StepAcquire, err)
	}
	if int(img) >= len(p.imagesInFlight) {
		return p.fail(StepAcquire, fmt.Errorf("image index %d out of range [0, %d)",
			img, len(p.imagesInFlight)))
	}

	if fence := p.imagesInFlight[img]; fence != nil {
		if err := fence.Wait(); err != nil {
			return p.fail(StepWaitImage, err)
		}
	}
	if old := p.dynamic[img]; old != nil {
		old.Free()
		p.dynamic[img] = nil
	}
	p.imagesInFlight[img] = s.inFlight

	if p.prepare != nil {
		if err := p.prepare(img, &p.sprites); err != nil {
			return p.fail(StepPrepare, err)
		}
	}

	if err := p.recorder.WriteUniforms(img); err != nil {
		return p.fail(StepWriteUniforms, err)
	}

	dynamic, err := p.recorder.RecordDynamic(img, &p.sprites)
	if err != nil {
		return p.fail(StepRecord, err)
	}
	p.dynamic[img] = dynamic

	if err := s.inFlight.Reset(); err != nil {
		return p.fail(StepResetFence, err)
	}

	err = p.device.Submit(Submission{
		Stage:     StageStart,
		Image:     img,
		Buffer:    p.recorder.StartBuffer(img),
		Wait:      s.acquired,
		WaitStage: vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit),
		Signal:    s.startDone,
	})
	if err != nil {
		return p.fail(StepSubmitStart, err)
	}

	err = p.device.Submit(Submission{
		Stage:     StageDynamic,
		Image:     img,
		Buffer:    dynamic,
		Wait:      s.startDone,
		WaitStage: vk.PipelineStageFlags(vk.PipelineStageTransferBit),
		Signal:    s.dynamicDone,
	})
	if err != nil {
		return p.fail(StepSubmitDynamic, err)
	}

	err = p.device.Submit(Submission{
		Stage:     StageEnd,
		Image:     img,
		Buffer:    p.recorder.EndBuffer(img),
		Wait:      s.dynamicDone,
		WaitStage: vk.PipelineStageFlags(vk.PipelineStageTransferBit),
		Signal:    s.endDone,
		Fence:     s.inFlight,
	})
	if err != nil {
		return p.fail(StepSubmitEnd, err)
	}

	if err := p.device.Present(img, s.endDone); err != nil {
		return p.fail(StepPresent, err)
	}

	p.sprites.Clear()

	p.current = (p.current + 1) % len(p.slots)
	p.frames++

	return nil
}

func (p *Pipeline) fail(step Step, err error) error {
	return &FatalRenderError{Frame: p.frames, Step: step, Err: err}
}

// WaitIdle blocks until the device has finished every submitted frame.
func (p *Pipeline) WaitIdle() error {
	return p.device.WaitIdle()
}

// Destroy frees the dynamic buffers and the synchronization objects. The
// device must be idle.
func (p *Pipeline) Destroy() {
	for i, buf := range p.dynamic {
		if buf != nil {
			buf.Free()
			p.dynamic[i] = nil
		}
	}
	for i := range p.imagesInFlight {
		p.imagesInFlight[i] = nil
	}
	for i := len(p.slots) - 1; i >= 0; i-- {
		p.slots[i].destroy()
	}
	p.slots = nil
	p.sprites.Clear()
}
