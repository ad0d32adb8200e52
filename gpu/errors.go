package gpu

import (
	"fmt"

	vk "github.com/vulkan-go/vulkan"
)

// UnsupportedTransitionError is returned when a layout transition is requested
// for a pair of layouts outside of the supported set. It always points to a
// programming error in the caller.
type UnsupportedTransitionError struct {
	Old vk.ImageLayout
	New vk.ImageLayout
}

func (e *UnsupportedTransitionError) Error() string {
	return fmt.Sprintf("unsupported layout transition: %s -> %s",
		LayoutName(e.Old), LayoutName(e.New))
}

// LayoutMismatchError is returned when a transition is recorded for an image
// whose tracked layout is not the transition's source layout.
type LayoutMismatchError struct {
	Image    int
	Tracked  vk.ImageLayout
	Expected vk.ImageLayout
}

func (e *LayoutMismatchError) Error() string {
	return fmt.Sprintf("image %d is in layout %s, transition expects %s",
		e.Image, LayoutName(e.Tracked), LayoutName(e.Expected))
}

// LayoutName returns a short human readable name for the layouts this
// program works with.
func LayoutName(layout vk.ImageLayout) string {
	switch layout {
	case vk.ImageLayoutUndefined:
		return "undefined"
	case vk.ImageLayoutTransferSrcOptimal:
		return "transfer-src"
	case vk.ImageLayoutTransferDstOptimal:
		return "transfer-dst"
	case vk.ImageLayoutShaderReadOnlyOptimal:
		return "shader-read"
	case vk.ImageLayoutColorAttachmentOptimal:
		return "color-attachment"
	case vk.ImageLayoutPresentSrc:
		return "present"
	default:
		return fmt.Sprintf("layout(%d)", int32(layout))
	}
}
