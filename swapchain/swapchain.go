// Package swapchain negotiates the presentable image chain with the surface.
package swapchain

import (
	"fmt"
	"math"

	"vulkan-sprites/gpu"

	vk "github.com/vulkan-go/vulkan"
)

// Config is the presentation policy.
type Config struct {
	// PresentModes is the order of preference. FIFO is used when none of
	// them is supported.
	PresentModes []vk.PresentMode

	// Format is the preferred surface format.
	Format vk.SurfaceFormat

	// Extent is used when the surface lets the application pick the size,
	// normally the window framebuffer size.
	Extent vk.Extent2D

	// ImageCount is the smallest number of images wanted.
	ImageCount uint32
}

// DefaultConfig prefers mailbox presentation of sRGB BGRA images.
func DefaultConfig(extent vk.Extent2D, imageCount uint32) Config {
	return Config{
		PresentModes: []vk.PresentMode{
			vk.PresentModeMailbox,
			vk.PresentModeFifo,
		},
		Format: vk.SurfaceFormat{
			Format:     vk.FormatB8g8r8a8Srgb,
			ColorSpace: vk.ColorSpaceSrgbNonlinear,
		},
		Extent:     extent,
		ImageCount: imageCount,
	}
}

// Swapchain is the chain of images shown on screen in rotation. Images are
// blit destinations only; nothing renders into them directly.
type Swapchain struct {
	device       vk.Device
	presentQueue vk.Queue

	handle vk.Swapchain
	images []*gpu.Image

	Format      vk.Format
	Extent      vk.Extent2D
	PresentMode vk.PresentMode
}

// New creates the swapchain for the context's surface.
func New(ctx *gpu.Context, cfg Config) (*Swapchain, error) {
	support, err := querySupport(ctx.PhysicalDevice(), ctx.Surface())
	if err != nil {
		return nil, err
	}

	required := vk.ImageUsageFlags(vk.ImageUsageTransferDstBit)
	if support.capabilities.SupportedUsageFlags&required != required {
		return nil, fmt.Errorf("surface images cannot be blit destinations")
	}

	surfaceFormat, err := ChooseSurfaceFormat(cfg.Format, support.formats)
	if err != nil {
		return nil, err
	}
	presentMode := ChoosePresentMode(cfg.PresentModes, support.presentModes)
	extent := ChooseExtent(support.capabilities, cfg.Extent)
	imageCount := ChooseImageCount(support.capabilities, cfg.ImageCount)

	createInfo := vk.SwapchainCreateInfo{
		SType:            vk.StructureTypeSwapchainCreateInfo,
		Surface:          ctx.Surface(),
		MinImageCount:    imageCount,
		ImageColorSpace:  surfaceFormat.ColorSpace,
		ImageFormat:      surfaceFormat.Format,
		ImageExtent:      extent,
		ImageArrayLayers: 1,
		ImageUsage: vk.ImageUsageFlags(vk.ImageUsageColorAttachmentBit) |
			vk.ImageUsageFlags(vk.ImageUsageTransferDstBit),
		PreTransform:   support.capabilities.CurrentTransform,
		CompositeAlpha: vk.CompositeAlphaOpaqueBit,
		PresentMode:    presentMode,
		Clipped:        vk.True,
	}

	families := ctx.Families()
	if !families.Shared() {
		indices := families.Unique()
		createInfo.ImageSharingMode = vk.SharingModeConcurrent
		createInfo.QueueFamilyIndexCount = uint32(len(indices))
		createInfo.PQueueFamilyIndices = indices
	} else {
		createInfo.ImageSharingMode = vk.SharingModeExclusive
	}

	var handle vk.Swapchain
	res := vk.CreateSwapchain(ctx.Device(), &createInfo, nil, &handle)
	if err := vk.Error(res); err != nil {
		return nil, fmt.Errorf("failed to create swap chain: %w", err)
	}

	s := &Swapchain{
		device:       ctx.Device(),
		presentQueue: ctx.PresentQueue(),
		handle:       handle,
		Format:       surfaceFormat.Format,
		Extent:       extent,
		PresentMode:  presentMode,
	}

	var imagesCount uint32
	res = vk.GetSwapchainImages(ctx.Device(), handle, &imagesCount, nil)
	if err := vk.Error(res); err != nil {
		s.Destroy()
		return nil, fmt.Errorf("counting swap chain images: %w", err)
	}

	handles := make([]vk.Image, imagesCount)
	res = vk.GetSwapchainImages(ctx.Device(), handle, &imagesCount, handles)
	if err := vk.Error(res); err != nil {
		s.Destroy()
		return nil, fmt.Errorf("getting swap chain images: %w", err)
	}

	for i, image := range handles {
		img, err := ctx.WrapImage(i, image, s.Format, s.Extent)
		if err != nil {
			s.Destroy()
			return nil, err
		}
		s.images = append(s.images, img)
	}

	gpu.Logger().Info("swapchain created",
		"images", len(s.images),
		"width", extent.Width,
		"height", extent.Height,
		"present_mode", PresentModeName(presentMode),
	)

	return s, nil
}

// Images returns the swapchain images in chain order.
func (s *Swapchain) Images() []*gpu.Image { return s.images }

// Len returns the number of images in the chain.
func (s *Swapchain) Len() int { return len(s.images) }

// AcquireNextImage returns the index of the next image to draw into. signal
// is signaled once the presentation engine is done reading the image. The
// call blocks without a timeout.
func (s *Swapchain) AcquireNextImage(signal vk.Semaphore) (uint32, error) {
	var imageIndex uint32
	res := vk.AcquireNextImage(
		s.device,
		s.handle,
		math.MaxUint64,
		signal,
		vk.NullFence,
		&imageIndex,
	)
	if res == vk.Suboptimal {
		gpu.Logger().Debug("swapchain is suboptimal", "image", imageIndex)
		return imageIndex, nil
	}
	if err := vk.Error(res); err != nil {
		return 0, fmt.Errorf("acquiring swap chain image: %w", err)
	}
	return imageIndex, nil
}

// Present queues image index for presentation once wait is signaled.
func (s *Swapchain) Present(index uint32, wait vk.Semaphore) error {
	presentInfo := vk.PresentInfo{
		SType:              vk.StructureTypePresentInfo,
		WaitSemaphoreCount: 1,
		PWaitSemaphores:    []vk.Semaphore{wait},
		SwapchainCount:     1,
		PSwapchains:        []vk.Swapchain{s.handle},
		PImageIndices:      []uint32{index},
	}

	res := vk.QueuePresent(s.presentQueue, &presentInfo)
	if res == vk.Suboptimal {
		return nil
	}
	if err := vk.Error(res); err != nil {
		return fmt.Errorf("presenting image %d: %w", index, err)
	}
	return nil
}

// Destroy releases the image views and the swapchain.
func (s *Swapchain) Destroy() {
	for _, img := range s.images {
		img.Destroy()
	}
	s.images = nil

	if s.handle != vk.NullSwapchain {
		vk.DestroySwapchain(s.device, s.handle, nil)
		s.handle = vk.NullSwapchain
	}
}

// PresentModeName returns a readable name for mode.
func PresentModeName(mode vk.PresentMode) string {
	switch mode {
	case vk.PresentModeImmediate:
		return "immediate"
	case vk.PresentModeMailbox:
		return "mailbox"
	case vk.PresentModeFifo:
		return "fifo"
	case vk.PresentModeFifoRelaxed:
		return "fifo-relaxed"
	default:
		return fmt.Sprintf("mode(%d)", int32(mode))
	}
}

// supportDetails describes a present surface.
type supportDetails struct {
	capabilities vk.SurfaceCapabilities
	formats      []vk.SurfaceFormat
	presentModes []vk.PresentMode
}

func querySupport(device vk.PhysicalDevice, surface vk.Surface) (supportDetails, error) {
	details := supportDetails{}

	var capabilities vk.SurfaceCapabilities
	res := vk.GetPhysicalDeviceSurfaceCapabilities(device, surface, &capabilities)
	if err := vk.Error(res); err != nil {
		return details, fmt.Errorf("failed to query device surface capabilities: %w", err)
	}
	capabilities.Deref()
	capabilities.CurrentExtent.Deref()
	capabilities.MinImageExtent.Deref()
	capabilities.MaxImageExtent.Deref()

	details.capabilities = capabilities

	var formatCount uint32
	res = vk.GetPhysicalDeviceSurfaceFormats(device, surface, &formatCount, nil)
	if err := vk.Error(res); err != nil {
		return details, fmt.Errorf("failed to query device surface formats: %w", err)
	}

	if formatCount != 0 {
		formats := make([]vk.SurfaceFormat, formatCount)
		vk.GetPhysicalDeviceSurfaceFormats(device, surface, &formatCount, formats)
		for _, format := range formats {
			format.Deref()
			details.formats = append(details.formats, format)
		}
	}

	var presentModeCount uint32
	res = vk.GetPhysicalDeviceSurfacePresentModes(
		device, surface, &presentModeCount, nil,
	)
	if err := vk.Error(res); err != nil {
		return details, fmt.Errorf("failed to query device surface present modes: %w", err)
	}

	if presentModeCount != 0 {
		presentModes := make([]vk.PresentMode, presentModeCount)
		vk.GetPhysicalDeviceSurfacePresentModes(
			device, surface, &presentModeCount, presentModes,
		)
		details.presentModes = presentModes
	}

	return details, nil
}
