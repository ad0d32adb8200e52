package swapchain

import (
	"cmp"
	"fmt"
	"math"

	vk "github.com/vulkan-go/vulkan"
)

// ChoosePresentMode returns the first mode of preferred which the surface
// supports. FIFO is always available and is returned when nothing preferred
// is.
func ChoosePresentMode(preferred, available []vk.PresentMode) vk.PresentMode {
	for _, want := range preferred {
		for _, mode := range available {
			if mode == want {
				return mode
			}
		}
	}

	return vk.PresentModeFifo
}

// ChooseSurfaceFormat returns preferred when the surface supports it and the
// first supported format otherwise.
func ChooseSurfaceFormat(
	preferred vk.SurfaceFormat,
	available []vk.SurfaceFormat,
) (vk.SurfaceFormat, error) {
	if len(available) == 0 {
		return vk.SurfaceFormat{}, fmt.Errorf("surface reports no formats")
	}

	for _, format := range available {
		if format.Format == preferred.Format &&
			format.ColorSpace == preferred.ColorSpace {
			return format, nil
		}
	}

	return available[0], nil
}

// ChooseExtent returns the extent the surface dictates or, when the surface
// leaves it to the application, want clamped to the supported range.
func ChooseExtent(capabilities vk.SurfaceCapabilities, want vk.Extent2D) vk.Extent2D {
	if capabilities.CurrentExtent.Width != math.MaxUint32 {
		return capabilities.CurrentExtent
	}

	return vk.Extent2D{
		Width: clamp(
			want.Width,
			capabilities.MinImageExtent.Width,
			capabilities.MaxImageExtent.Width,
		),
		Height: clamp(
			want.Height,
			capabilities.MinImageExtent.Height,
			capabilities.MaxImageExtent.Height,
		),
	}
}

// ChooseImageCount asks for one image more than the minimum so that the
// driver never makes us wait for an image. A max of zero means no limit.
func ChooseImageCount(capabilities vk.SurfaceCapabilities, want uint32) uint32 {
	imageCount := max(want, capabilities.MinImageCount+1)
	if capabilities.MaxImageCount > 0 && imageCount > capabilities.MaxImageCount {
		imageCount = capabilities.MaxImageCount
	}
	return imageCount
}

func clamp[T cmp.Ordered](val, min, max T) T {
	if val < min {
		val = min
	}
	if val > max {
		val = max
	}
	return val
}
