package gpu

import (
	"testing"

	"github.com/stretchr/testify/require"
	vk "github.com/vulkan-go/vulkan"
)

func TestBlitRegion(t *testing.T) {
	src := vk.Rect2D{
		Offset: vk.Offset2D{X: 7, Y: 13},
		Extent: vk.Extent2D{Width: 7, Height: 13},
	}
	dst := vk.Rect2D{
		Offset: vk.Offset2D{X: 100, Y: 50},
		Extent: vk.Extent2D{Width: 14, Height: 26},
	}

	blit := BlitRegion(src, dst)

	require.Equal(t, [2]vk.Offset3D{{X: 7, Y: 13, Z: 0}, {X: 14, Y: 26, Z: 1}}, blit.SrcOffsets)
	require.Equal(t, [2]vk.Offset3D{{X: 100, Y: 50, Z: 0}, {X: 114, Y: 76, Z: 1}}, blit.DstOffsets)
	require.Equal(t, uint32(1), blit.SrcSubresource.LayerCount)
	require.Equal(t, uint32(1), blit.DstSubresource.LayerCount)
	require.Equal(t, vk.ImageAspectFlags(vk.ImageAspectColorBit), blit.DstSubresource.AspectMask)
}
