package frame

import (
	"errors"
	"fmt"
	"testing"

	"vulkan-sprites/sprite"

	vk "github.com/vulkan-go/vulkan"
)

// fakeGPU executes queued work lazily, only when the CPU waits on a fence,
// and keeps a logical clock so that the order of execution can be checked.
type fakeGPU struct {
	t *testing.T

	clock  int
	queue  []fakeOp
	events []string

	nextID int

	// acquireOrder forces the image indices handed out by acquire. When it
	// runs out images are handed out round-robin.
	acquireOrder []uint32
	chain        uint32
	acquires     int

	executed []executedOp
	presents []uint32

	pendingFrames    int
	maxPendingFrames int
}

type fakeOp struct {
	submission *Submission
	present    *fakePresent
}

type fakePresent struct {
	image uint32
	wait  Semaphore
}

type executedOp struct {
	stage Stage
	image uint32
	start int
	end   int
}

// noStage marks a semaphore signaled by acquire rather than by a stage.
const noStage Stage = -1

type fakeSemaphore struct {
	id         int
	signaled   bool
	signaledBy Stage
	signaledAt int
	destroyed  bool
}

func (s *fakeSemaphore) Destroy() { s.destroyed = true }

type fakeFence struct {
	gpu       *fakeGPU
	id        int
	signaled  bool
	destroyed bool
}

func (f *fakeFence) Wait() error {
	f.gpu.events = append(f.gpu.events, fmt.Sprintf("wait fence %d", f.id))
	for !f.signaled {
		if !f.gpu.step() {
			return errors.New("fence can never be signaled")
		}
	}
	return nil
}

func (f *fakeFence) Reset() error {
	f.signaled = false
	return nil
}

func (f *fakeFence) Destroy() { f.destroyed = true }

// fakeBuffer is a command buffer. Dynamic buffers record the destination
// x offset of every blit, which is what the tests tell sprites apart by.
type fakeBuffer struct {
	gpu   *fakeGPU
	stage Stage
	image uint32
	blits []int32
	freed bool
}

func (b *fakeBuffer) Free() {
	if b.gpu.pending(b) {
		b.gpu.t.Errorf("%s buffer of image %d freed while pending", b.stage, b.image)
	}
	b.freed = true
}

func (b *fakeBuffer) Blit(src vk.Image, srcRect vk.Rect2D, dst vk.Image, dstRect vk.Rect2D) {
	b.blits = append(b.blits, dstRect.Offset.X)
}

func newFakeGPU(t *testing.T, chain uint32) *fakeGPU {
	return &fakeGPU{t: t, chain: chain}
}

func (g *fakeGPU) NewSemaphore() (Semaphore, error) {
	g.nextID++
	return &fakeSemaphore{id: g.nextID}, nil
}

func (g *fakeGPU) NewFence(signaled bool) (Fence, error) {
	g.nextID++
	return &fakeFence{gpu: g, id: g.nextID, signaled: signaled}, nil
}

func (g *fakeGPU) AcquireNextImage(signal Semaphore) (uint32, error) {
	var img uint32
	if g.acquires < len(g.acquireOrder) {
		img = g.acquireOrder[g.acquires]
	} else {
		img = uint32(g.acquires) % g.chain
	}
	g.acquires++

	g.clock++
	sem := signal.(*fakeSemaphore)
	sem.signaled = true
	sem.signaledBy = noStage
	sem.signaledAt = g.clock

	g.events = append(g.events, fmt.Sprintf("acquire %d", img))
	return img, nil
}

func (g *fakeGPU) Submit(s Submission) error {
	if s.Wait == nil || s.Signal == nil || s.Buffer == nil {
		return errors.New("incomplete submission")
	}

	g.queue = append(g.queue, fakeOp{submission: &s})
	g.events = append(g.events, fmt.Sprintf("submit %s %d", s.Stage, s.Image))

	if s.Fence != nil {
		g.pendingFrames++
		g.maxPendingFrames = max(g.maxPendingFrames, g.pendingFrames)
	}
	return nil
}

func (g *fakeGPU) Present(image uint32, wait Semaphore) error {
	g.queue = append(g.queue, fakeOp{present: &fakePresent{image: image, wait: wait}})
	g.events = append(g.events, fmt.Sprintf("present %d", image))
	return nil
}

func (g *fakeGPU) WaitIdle() error {
	for g.step() {
	}
	return nil
}

// expectedWaiter is the stage whose completion each stage has to wait for.
var expectedWaiter = map[Stage]Stage{
	StageStart:   noStage,
	StageDynamic: StageStart,
	StageEnd:     StageDynamic,
}

// step executes the oldest queued operation. It returns false when the queue
// is empty.
func (g *fakeGPU) step() bool {
	if len(g.queue) == 0 {
		return false
	}
	op := g.queue[0]
	g.queue = g.queue[1:]

	if op.present != nil {
		sem := op.present.wait.(*fakeSemaphore)
		if !sem.signaled || sem.signaledBy != StageEnd {
			g.t.Errorf("present of image %d before its end stage completed", op.present.image)
		}
		sem.signaled = false
		g.presents = append(g.presents, op.present.image)
		return true
	}

	s := op.submission
	wait := s.Wait.(*fakeSemaphore)
	if !wait.signaled {
		g.t.Errorf("%s stage of image %d executed before its wait semaphore was signaled",
			s.Stage, s.Image)
	}
	if wait.signaledBy != expectedWaiter[s.Stage] {
		g.t.Errorf("%s stage of image %d waits on a semaphore signaled by %s",
			s.Stage, s.Image, wait.signaledBy)
	}
	wait.signaled = false

	g.clock++
	start := g.clock
	if wait.signaledAt >= start {
		g.t.Errorf("%s stage started at %d before its wait was signaled at %d",
			s.Stage, start, wait.signaledAt)
	}
	g.clock++
	end := g.clock

	signal := s.Signal.(*fakeSemaphore)
	signal.signaled = true
	signal.signaledBy = s.Stage
	signal.signaledAt = end

	if s.Fence != nil {
		s.Fence.(*fakeFence).signaled = true
		g.pendingFrames--
	}

	g.executed = append(g.executed, executedOp{stage: s.Stage, image: s.Image, start: start, end: end})
	return true
}

// pending reports whether buf is referenced by work that has not executed.
func (g *fakeGPU) pending(buf *fakeBuffer) bool {
	for _, op := range g.queue {
		if op.submission != nil && op.submission.Buffer == CommandBuffer(buf) {
			return true
		}
	}
	return false
}

// imageBusy reports whether queued command buffers still render to image.
// A pending present does not count: the swapchain hands the image out again
// only once it may be written.
func (g *fakeGPU) imageBusy(image uint32) bool {
	for _, op := range g.queue {
		if op.submission != nil && op.submission.Image == image {
			return true
		}
	}
	return false
}

type fakeRecorder struct {
	gpu *fakeGPU

	start, end []*fakeBuffer
	dynamic    []*fakeBuffer
	uniforms   []uint32
}

func newFakeRecorder(g *fakeGPU, chain int) *fakeRecorder {
	r := &fakeRecorder{gpu: g}
	for i := 0; i < chain; i++ {
		r.start = append(r.start, &fakeBuffer{gpu: g, stage: StageStart, image: uint32(i)})
		r.end = append(r.end, &fakeBuffer{gpu: g, stage: StageEnd, image: uint32(i)})
	}
	return r
}

func (r *fakeRecorder) StartBuffer(image uint32) CommandBuffer { return r.start[image] }

func (r *fakeRecorder) EndBuffer(image uint32) CommandBuffer { return r.end[image] }

func (r *fakeRecorder) WriteUniforms(image uint32) error {
	if r.gpu.imageBusy(image) {
		r.gpu.t.Errorf("uniforms of image %d written while the image is in use", image)
	}
	r.uniforms = append(r.uniforms, image)
	return nil
}

func (r *fakeRecorder) RecordDynamic(image uint32, sprites *sprite.Queue) (CommandBuffer, error) {
	if r.gpu.imageBusy(image) {
		r.gpu.t.Errorf("dynamic buffer of image %d recorded while the image is in use", image)
	}
	r.gpu.events = append(r.gpu.events, fmt.Sprintf("record %d", image))

	buf := &fakeBuffer{gpu: r.gpu, stage: StageDynamic, image: image}
	sprites.FlushAsCommands(buf, vk.NullImage, vk.Extent2D{Width: 320, Height: 240})
	r.dynamic = append(r.dynamic, buf)
	return buf, nil
}
