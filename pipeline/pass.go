// Package pipeline builds the fixed 3D configuration: the render pass over
// the render targets, their framebuffers, the descriptor sets and the
// graphics pipeline.
package pipeline

import (
	"fmt"

	"vulkan-sprites/gpu"
	"vulkan-sprites/rendertarget"

	vk "github.com/vulkan-go/vulkan"
)

// Pass is a single subpass render pass with one cleared color attachment.
// It leaves the attachment ready to be a blit source.
type Pass struct {
	device vk.Device
	handle vk.RenderPass

	framebuffers []vk.Framebuffer
	extent       vk.Extent2D
}

// NewPass creates the render pass for targets and one framebuffer per
// target.
func NewPass(ctx *gpu.Context, targets *rendertarget.Set) (*Pass, error) {
	colorAttachment := vk.AttachmentDescription{
		Format:         targets.Format,
		Samples:        vk.SampleCount1Bit,
		LoadOp:         vk.AttachmentLoadOpClear,
		StoreOp:        vk.AttachmentStoreOpStore,
		StencilLoadOp:  vk.AttachmentLoadOpDontCare,
		StencilStoreOp: vk.AttachmentStoreOpDontCare,
		InitialLayout:  vk.ImageLayoutUndefined,
		FinalLayout:    rendertarget.RestLayout,
	}

	colorAttachmentRef := vk.AttachmentReference{
		Attachment: 0,
		Layout:     vk.ImageLayoutColorAttachmentOptimal,
	}

	subpass := vk.SubpassDescription{
		PipelineBindPoint:    vk.PipelineBindPointGraphics,
		ColorAttachmentCount: 1,
		PColorAttachments:    []vk.AttachmentReference{colorAttachmentRef},
	}

	dependencies := []vk.SubpassDependency{
		{
			SrcSubpass:    vk.SubpassExternal,
			DstSubpass:    0,
			SrcStageMask:  vk.PipelineStageFlags(vk.PipelineStageTransferBit),
			SrcAccessMask: vk.AccessFlags(vk.AccessTransferReadBit),
			DstStageMask:  vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit),
			DstAccessMask: vk.AccessFlags(vk.AccessColorAttachmentWriteBit),
		},
		{
			SrcSubpass:    0,
			DstSubpass:    vk.SubpassExternal,
			SrcStageMask:  vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit),
			SrcAccessMask: vk.AccessFlags(vk.AccessColorAttachmentWriteBit),
			DstStageMask:  vk.PipelineStageFlags(vk.PipelineStageTransferBit),
			DstAccessMask: vk.AccessFlags(vk.AccessTransferReadBit),
		},
	}

	renderPassInfo := vk.RenderPassCreateInfo{
		SType:           vk.StructureTypeRenderPassCreateInfo,
		AttachmentCount: 1,
		PAttachments:    []vk.AttachmentDescription{colorAttachment},
		SubpassCount:    1,
		PSubpasses:      []vk.SubpassDescription{subpass},
		DependencyCount: uint32(len(dependencies)),
		PDependencies:   dependencies,
	}

	var renderPass vk.RenderPass
	res := vk.CreateRenderPass(ctx.Device(), &renderPassInfo, nil, &renderPass)
	if err := vk.Error(res); err != nil {
		return nil, fmt.Errorf("failed to create render pass: %w", err)
	}

	p := &Pass{
		device: ctx.Device(),
		handle: renderPass,
		extent: targets.Extent,
	}

	for i, target := range targets.Images() {
		frameBufferInfo := vk.FramebufferCreateInfo{
			SType:           vk.StructureTypeFramebufferCreateInfo,
			RenderPass:      p.handle,
			AttachmentCount: 1,
			PAttachments:    []vk.ImageView{target.View()},
			Width:           targets.Extent.Width,
			Height:          targets.Extent.Height,
			Layers:          1,
		}

		var frameBuffer vk.Framebuffer
		res := vk.CreateFramebuffer(ctx.Device(), &frameBufferInfo, nil, &frameBuffer)
		if err := vk.Error(res); err != nil {
			p.Destroy()
			return nil, fmt.Errorf("failed to create frame buffer %d: %w", i, err)
		}

		p.framebuffers = append(p.framebuffers, frameBuffer)
	}

	return p, nil
}

// Handle returns the Vulkan render pass.
func (p *Pass) Handle() vk.RenderPass { return p.handle }

// Begin records beginning the pass on framebuffer i, cleared to clear.
func (p *Pass) Begin(cmd vk.CommandBuffer, i int, clear [4]float32) {
	clearColor := vk.NewClearValue(clear[:])

	renderPassInfo := vk.RenderPassBeginInfo{
		SType:       vk.StructureTypeRenderPassBeginInfo,
		RenderPass:  p.handle,
		Framebuffer: p.framebuffers[i],
		RenderArea: vk.Rect2D{
			Offset: vk.Offset2D{X: 0, Y: 0},
			Extent: p.extent,
		},
		ClearValueCount: 1,
		PClearValues:    []vk.ClearValue{clearColor},
	}

	vk.CmdBeginRenderPass(cmd, &renderPassInfo, vk.SubpassContentsInline)
}

// End records the end of the pass.
func (p *Pass) End(cmd vk.CommandBuffer) {
	vk.CmdEndRenderPass(cmd)
}

// Destroy releases the framebuffers and the render pass.
func (p *Pass) Destroy() {
	for i := len(p.framebuffers) - 1; i >= 0; i-- {
		vk.DestroyFramebuffer(p.device, p.framebuffers[i], nil)
	}
	p.framebuffers = nil

	if p.handle != vk.RenderPass(vk.NullHandle) {
		vk.DestroyRenderPass(p.device, p.handle, nil)
		p.handle = vk.RenderPass(vk.NullHandle)
	}
}
