// Package rendertarget allocates the images the 3D pass draws into. They are
// blitted onto the swapchain at the end of each frame, which lets the
// internal resolution differ from the window's.
package rendertarget

import (
	"fmt"

	"vulkan-sprites/gpu"

	vk "github.com/vulkan-go/vulkan"
)

// RestLayout is the layout render targets are in between frames: the render
// pass leaves them there and the end stage blits from it.
const RestLayout = vk.ImageLayoutTransferSrcOptimal

// Usage is what every render target is created for.
const Usage = vk.ImageUsageFlags(vk.ImageUsageTransferSrcBit) |
	vk.ImageUsageFlags(vk.ImageUsageTransferDstBit) |
	vk.ImageUsageFlags(vk.ImageUsageColorAttachmentBit)

// Set is a chain of device local render target images, one per swapchain
// image.
type Set struct {
	images []*gpu.Image
	Format vk.Format
	Extent vk.Extent2D
}

// Allocate creates count render targets and moves them into RestLayout. On
// error the images created so far are released.
func Allocate(ctx *gpu.Context, count int, format vk.Format, extent vk.Extent2D) (*Set, error) {
	if count <= 0 {
		return nil, fmt.Errorf("render target count must be positive, got %d", count)
	}

	s := &Set{
		Format: format,
		Extent: extent,
	}

	for i := 0; i < count; i++ {
		img, err := ctx.NewImage(gpu.ImageOptions{
			Index:      i,
			Format:     format,
			Extent:     extent,
			Usage:      Usage,
			Tiling:     vk.ImageTilingOptimal,
			Properties: vk.MemoryPropertyFlags(vk.MemoryPropertyDeviceLocalBit),
		})
		if err != nil {
			s.Destroy()
			return nil, fmt.Errorf("render target %d: %w", i, err)
		}
		s.images = append(s.images, img)
	}

	err := ctx.OneTimeCommands(func(cmd *gpu.CommandBuffer) error {
		for _, img := range s.images {
			err := cmd.TransitionImage(img, vk.ImageLayoutUndefined, RestLayout)
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.Destroy()
		return nil, fmt.Errorf("preparing render targets: %w", err)
	}

	gpu.Logger().Debug("render targets allocated",
		"count", count,
		"width", extent.Width,
		"height", extent.Height,
	)

	return s, nil
}

// Images returns the render targets in chain order.
func (s *Set) Images() []*gpu.Image { return s.images }

// Image returns render target i.
func (s *Set) Image(i int) *gpu.Image { return s.images[i] }

// Len returns the number of render targets.
func (s *Set) Len() int { return len(s.images) }

// Destroy releases the images in reverse creation order.
func (s *Set) Destroy() {
	for i := len(s.images) - 1; i >= 0; i-- {
		s.images[i].Destroy()
	}
	s.images = nil
}
