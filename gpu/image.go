package gpu

import (
	"fmt"

	vk "github.com/vulkan-go/vulkan"
)

// Image is one slot of an image chain: the image handle, its memory when the
// image is owned by this program, a 2D view and the layout the image is known
// to be in.
//
// Layout is only changed by recorded transitions. Recording a transition
// whose source layout does not match Layout is an error.
type Image struct {
	device vk.Device

	handle vk.Image
	memory vk.DeviceMemory
	view   vk.ImageView
	owned  bool

	// Format and Extent are what the image was created with.
	Format vk.Format
	Extent vk.Extent2D

	// Layout is the tracked layout of the image.
	Layout vk.ImageLayout

	// Index is the position of the image in its chain.
	Index int
}

// ImageOptions describes an image owned by this program.
type ImageOptions struct {
	Index  int
	Format vk.Format
	Extent vk.Extent2D
	Usage  vk.ImageUsageFlags
	Tiling vk.ImageTiling

	// Properties of the memory backing the image.
	Properties vk.MemoryPropertyFlags

	// NoView skips creating the image view.
	NoView bool
}

// NewImage creates an image with its own memory. The image starts in the
// undefined layout.
func (c *Context) NewImage(opts ImageOptions) (*Image, error) {
	img := &Image{
		device: c.device,
		handle: vk.NullImage,
		memory: vk.NullDeviceMemory,
		view:   vk.NullImageView,
		Format: opts.Format,
		Extent: opts.Extent,
		Layout: vk.ImageLayoutUndefined,
		Index:  opts.Index,
		owned:  true,
	}

	imageInfo := vk.ImageCreateInfo{
		SType:     vk.StructureTypeImageCreateInfo,
		ImageType: vk.ImageType2d,
		Extent: vk.Extent3D{
			Width:  opts.Extent.Width,
			Height: opts.Extent.Height,
			Depth:  1,
		},
		MipLevels:     1,
		ArrayLayers:   1,
		Format:        opts.Format,
		Tiling:        opts.Tiling,
		InitialLayout: vk.ImageLayoutUndefined,
		Usage:         opts.Usage,
		SharingMode:   vk.SharingModeExclusive,
		Samples:       vk.SampleCount1Bit,
	}

	var handle vk.Image
	res := vk.CreateImage(c.device, &imageInfo, nil, &handle)
	if err := vk.Error(res); err != nil {
		return nil, fmt.Errorf("failed to create image %d: %w", opts.Index, err)
	}
	img.handle = handle

	var memRequirements vk.MemoryRequirements
	vk.GetImageMemoryRequirements(c.device, img.handle, &memRequirements)

	memory, err := c.allocate(memRequirements, opts.Properties)
	if err != nil {
		img.Destroy()
		return nil, fmt.Errorf("image %d memory: %w", opts.Index, err)
	}
	img.memory = memory

	res = vk.BindImageMemory(c.device, img.handle, img.memory, 0)
	if err := vk.Error(res); err != nil {
		img.Destroy()
		return nil, fmt.Errorf("failed to bind image %d memory: %w", opts.Index, err)
	}

	if !opts.NoView {
		if err := img.createView(); err != nil {
			img.Destroy()
			return nil, err
		}
	}

	Logger().Debug("image created",
		"index", opts.Index,
		"width", opts.Extent.Width,
		"height", opts.Extent.Height,
	)

	return img, nil
}

// WrapImage takes an image owned by someone else, the swapchain usually, and
// creates a view for it. Destroy only releases the view.
func (c *Context) WrapImage(
	index int,
	handle vk.Image,
	format vk.Format,
	extent vk.Extent2D,
) (*Image, error) {
	img := &Image{
		device: c.device,
		handle: handle,
		memory: vk.NullDeviceMemory,
		view:   vk.NullImageView,
		Format: format,
		Extent: extent,
		Layout: vk.ImageLayoutUndefined,
		Index:  index,
	}

	if err := img.createView(); err != nil {
		return nil, err
	}

	return img, nil
}

func (i *Image) createView() error {
	createInfo := vk.ImageViewCreateInfo{
		SType:    vk.StructureTypeImageViewCreateInfo,
		Image:    i.handle,
		ViewType: vk.ImageViewType2d,
		Format:   i.Format,
		Components: vk.ComponentMapping{
			R: vk.ComponentSwizzleIdentity,
			G: vk.ComponentSwizzleIdentity,
			B: vk.ComponentSwizzleIdentity,
			A: vk.ComponentSwizzleIdentity,
		},
		SubresourceRange: colorRange,
	}

	var imageView vk.ImageView
	res := vk.CreateImageView(i.device, &createInfo, nil, &imageView)
	if err := vk.Error(res); err != nil {
		return fmt.Errorf("failed to create image view %d: %w", i.Index, err)
	}
	i.view = imageView

	return nil
}

// Handle returns the Vulkan image.
func (i *Image) Handle() vk.Image { return i.handle }

// View returns the 2D view of the whole image.
func (i *Image) View() vk.ImageView { return i.view }

// Rect returns the full extent of the image.
func (i *Image) Rect() vk.Rect2D {
	return vk.Rect2D{Extent: i.Extent}
}

// Owned reports whether the image memory belongs to this program.
func (i *Image) Owned() bool { return i.owned }

// Transition checks that the image is in from, moves the tracked layout to
// to and returns the barrier doing the same on the device.
//
// A from of undefined discards the contents and is accepted whatever the
// tracked layout is. Swapchain images come back from presenting that way.
func (i *Image) Transition(
	from, to vk.ImageLayout,
) (vk.ImageMemoryBarrier, vk.PipelineStageFlags, vk.PipelineStageFlags, error) {
	if from != vk.ImageLayoutUndefined && i.Layout != from {
		return vk.ImageMemoryBarrier{}, 0, 0, &LayoutMismatchError{
			Image:    i.Index,
			Tracked:  i.Layout,
			Expected: from,
		}
	}

	barrier, srcStage, dstStage, err := Barrier(i.handle, from, to)
	if err != nil {
		return vk.ImageMemoryBarrier{}, 0, 0, err
	}
	i.Layout = to

	return barrier, srcStage, dstStage, nil
}

// Destroy releases the view and, for owned images, the image and its memory.
func (i *Image) Destroy() {
	if i.view != vk.NullImageView {
		vk.DestroyImageView(i.device, i.view, nil)
		i.view = vk.NullImageView
	}

	if !i.owned {
		return
	}

	if i.handle != vk.NullImage {
		vk.DestroyImage(i.device, i.handle, nil)
		i.handle = vk.NullImage
	}
	if i.memory != vk.NullDeviceMemory {
		vk.FreeMemory(i.device, i.memory, nil)
		i.memory = vk.NullDeviceMemory
	}
}
