package gpu

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	vk "github.com/vulkan-go/vulkan"
)

func TestImageTransitionTracksLayout(t *testing.T) {
	img := &Image{Index: 1, Layout: vk.ImageLayoutUndefined}

	steps := []struct{ from, to vk.ImageLayout }{
		{vk.ImageLayoutUndefined, vk.ImageLayoutTransferSrcOptimal},
		{vk.ImageLayoutTransferSrcOptimal, vk.ImageLayoutTransferDstOptimal},
		{vk.ImageLayoutTransferDstOptimal, vk.ImageLayoutTransferSrcOptimal},
	}
	for _, step := range steps {
		barrier, _, _, err := img.Transition(step.from, step.to)
		require.NoError(t, err)
		require.Equal(t, step.from, barrier.OldLayout)
		require.Equal(t, step.to, barrier.NewLayout)
		require.Equal(t, step.to, img.Layout)
	}
}

func TestImageTransitionMismatch(t *testing.T) {
	img := &Image{Index: 2, Layout: vk.ImageLayoutTransferSrcOptimal}

	_, _, _, err := img.Transition(vk.ImageLayoutTransferDstOptimal, vk.ImageLayoutPresentSrc)

	var mismatch *LayoutMismatchError
	require.True(t, errors.As(err, &mismatch))
	require.Equal(t, 2, mismatch.Image)
	require.Equal(t, vk.ImageLayoutTransferSrcOptimal, mismatch.Tracked)
	require.Equal(t, vk.ImageLayoutTransferDstOptimal, mismatch.Expected)
	require.Equal(t, vk.ImageLayoutTransferSrcOptimal, img.Layout, "failed transition must not move the tag")
}

func TestImageTransitionFromUndefinedDiscards(t *testing.T) {
	// A presented swapchain image is re-acquired with its contents discarded.
	img := &Image{Index: 0, Layout: vk.ImageLayoutPresentSrc}

	_, _, _, err := img.Transition(vk.ImageLayoutUndefined, vk.ImageLayoutTransferDstOptimal)
	require.NoError(t, err)
	require.Equal(t, vk.ImageLayoutTransferDstOptimal, img.Layout)
}

func TestImageTransitionUnsupported(t *testing.T) {
	img := &Image{Layout: vk.ImageLayoutTransferSrcOptimal}

	_, _, _, err := img.Transition(vk.ImageLayoutTransferSrcOptimal, vk.ImageLayoutPresentSrc)

	var unsupported *UnsupportedTransitionError
	require.True(t, errors.As(err, &unsupported))
	require.Equal(t, vk.ImageLayoutTransferSrcOptimal, img.Layout)
}

func TestImageRect(t *testing.T) {
	img := &Image{Extent: vk.Extent2D{Width: 320, Height: 240}}
	require.Equal(t, vk.Rect2D{Extent: vk.Extent2D{Width: 320, Height: 240}}, img.Rect())
	require.False(t, img.Owned())
}
