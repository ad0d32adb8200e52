// Package render binds the device context, the swapchain, the render targets
// and the graphics pipeline into a frame.Pipeline that draws a textured mesh
// with a sprite overlay.
package render

import (
	"errors"
	"fmt"
	"image"
	"time"

	"vulkan-sprites/frame"
	"vulkan-sprites/geometry"
	"vulkan-sprites/gpu"
	"vulkan-sprites/pipeline"
	"vulkan-sprites/rendertarget"
	"vulkan-sprites/swapchain"

	vk "github.com/vulkan-go/vulkan"
)

// Config describes what the renderer draws and how it presents it.
type Config struct {
	// Resolution is the size of the render targets. The end of every frame
	// scales them to the swapchain extent.
	Resolution vk.Extent2D

	Swapchain swapchain.Config

	// FramesInFlight defaults to frame.DefaultFramesInFlight when zero.
	FramesInFlight int

	Shaders pipeline.Shaders

	// Mesh is drawn with MeshTexture sampled at descriptor binding 1.
	Mesh        geometry.Mesh
	MeshTexture *image.RGBA

	ClearColor [4]float32

	// Prepare queues the sprites of each frame.
	Prepare frame.PrepareFunc
}

// Renderer owns every GPU resource except the context.
type Renderer struct {
	ctx *gpu.Context
	cfg Config

	swapchain   *swapchain.Swapchain
	targets     *rendertarget.Set
	pass        *pipeline.Pass
	descriptors *pipeline.Descriptors
	graphics    *pipeline.Graphics
	mesh        *geometry.Buffers
	texture     *gpu.Texture
	sampler     *gpu.Sampler
	recorder    *recorder
	frames      *frame.Pipeline

	// sprites are the textures created through NewSpriteTexture.
	sprites []*gpu.Texture
}

// New creates the renderer. Whatever was created before an error is
// released again.
func New(ctx *gpu.Context, cfg Config) (*Renderer, error) {
	if cfg.Resolution.Width == 0 || cfg.Resolution.Height == 0 {
		return nil, fmt.Errorf("invalid resolution %dx%d", cfg.Resolution.Width, cfg.Resolution.Height)
	}
	if cfg.MeshTexture == nil {
		return nil, errors.New("mesh texture is required")
	}
	if cfg.FramesInFlight == 0 {
		cfg.FramesInFlight = frame.DefaultFramesInFlight
	}

	r := &Renderer{ctx: ctx, cfg: cfg}
	if err := r.init(); err != nil {
		r.Destroy()
		return nil, err
	}

	return r, nil
}

func (r *Renderer) init() error {
	var err error

	r.swapchain, err = swapchain.New(r.ctx, r.cfg.Swapchain)
	if err != nil {
		return fmt.Errorf("creating swapchain: %w", err)
	}
	if !gpu.IsSRGB(r.swapchain.Format) {
		gpu.Logger().Warn("surface format is not sRGB, textures will look too dark",
			"format", r.swapchain.Format,
		)
	}

	r.targets, err = rendertarget.Allocate(r.ctx, r.swapchain.Len(), r.swapchain.Format, r.cfg.Resolution)
	if err != nil {
		return fmt.Errorf("allocating render targets: %w", err)
	}

	r.pass, err = pipeline.NewPass(r.ctx, r.targets)
	if err != nil {
		return fmt.Errorf("creating render pass: %w", err)
	}

	r.descriptors, err = pipeline.NewDescriptors(r.ctx, r.swapchain.Len())
	if err != nil {
		return fmt.Errorf("creating descriptors: %w", err)
	}

	r.graphics, err = pipeline.NewGraphics(r.ctx, r.pass, r.descriptors, r.cfg.Shaders, r.cfg.Resolution)
	if err != nil {
		return fmt.Errorf("creating graphics pipeline: %w", err)
	}

	r.mesh, err = geometry.Upload(r.ctx, r.cfg.Mesh)
	if err != nil {
		return fmt.Errorf("uploading mesh: %w", err)
	}

	r.texture, err = r.ctx.NewTexture(r.cfg.MeshTexture, vk.ImageLayoutShaderReadOnlyOptimal)
	if err != nil {
		return fmt.Errorf("uploading mesh texture: %w", err)
	}

	r.sampler, err = r.ctx.NewSampler()
	if err != nil {
		return err
	}

	r.recorder = &recorder{
		ctx:         r.ctx,
		swapchain:   r.swapchain,
		targets:     r.targets,
		pass:        r.pass,
		graphics:    r.graphics,
		descriptors: r.descriptors,
		mesh:        r.mesh,
		clear:       r.cfg.ClearColor,
		started:     time.Now(),
	}
	if err := r.recorder.createUniformBuffers(r.texture, r.sampler); err != nil {
		return err
	}
	if err := r.recorder.recordStatic(); err != nil {
		return err
	}

	r.frames, err = frame.New(
		&device{ctx: r.ctx, swapchain: r.swapchain},
		r.recorder,
		frame.Config{
			FramesInFlight: r.cfg.FramesInFlight,
			ImageCount:     r.swapchain.Len(),
			Prepare:        r.cfg.Prepare,
		},
	)
	if err != nil {
		return fmt.Errorf("creating frame pipeline: %w", err)
	}

	return nil
}

// NewSpriteTexture uploads pixels as a texture sprites can be blitted from.
// The renderer destroys it together with everything else.
func (r *Renderer) NewSpriteTexture(pixels *image.RGBA) (*gpu.Texture, error) {
	tex, err := r.ctx.NewTexture(pixels, vk.ImageLayoutTransferSrcOptimal)
	if err != nil {
		return nil, fmt.Errorf("uploading sprite texture: %w", err)
	}
	r.sprites = append(r.sprites, tex)
	return tex, nil
}

// Resolution returns the size of the render targets, which is the
// coordinate space of sprite destinations.
func (r *Renderer) Resolution() vk.Extent2D { return r.cfg.Resolution }

// RenderNextFrame renders and presents one frame. Errors are
// *frame.FatalRenderError.
func (r *Renderer) RenderNextFrame() error {
	return r.frames.RenderNextFrame()
}

// FrameCount returns the number of frames rendered so far.
func (r *Renderer) FrameCount() uint64 { return r.frames.FrameCount() }

// WaitIdle blocks until all submitted frames are done.
func (r *Renderer) WaitIdle() error {
	return r.ctx.WaitIdle()
}

// Destroy waits for the device and releases everything in reverse creation
// order.
func (r *Renderer) Destroy() {
	if err := r.ctx.WaitIdle(); err != nil {
		gpu.Logger().Warn("waiting for the device before cleanup", "err", err)
	}

	if r.frames != nil {
		r.frames.Destroy()
		r.frames = nil
	}
	if r.recorder != nil {
		r.recorder.destroy()
		r.recorder = nil
	}
	for i := len(r.sprites) - 1; i >= 0; i-- {
		r.sprites[i].Destroy()
	}
	r.sprites = nil
	if r.sampler != nil {
		r.sampler.Destroy()
		r.sampler = nil
	}
	if r.texture != nil {
		r.texture.Destroy()
		r.texture = nil
	}
	if r.mesh != nil {
		r.mesh.Destroy()
		r.mesh = nil
	}
	if r.graphics != nil {
		r.graphics.Destroy()
		r.graphics = nil
	}
	if r.descriptors != nil {
		r.descriptors.Destroy()
		r.descriptors = nil
	}
	if r.pass != nil {
		r.pass.Destroy()
		r.pass = nil
	}
	if r.targets != nil {
		r.targets.Destroy()
		r.targets = nil
	}
	if r.swapchain != nil {
		r.swapchain.Destroy()
		r.swapchain = nil
	}
}
