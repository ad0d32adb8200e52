package gpu

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	vk "github.com/vulkan-go/vulkan"
)

func TestTransitionMasks(t *testing.T) {
	var (
		top      = vk.PipelineStageFlags(vk.PipelineStageTopOfPipeBit)
		transfer = vk.PipelineStageFlags(vk.PipelineStageTransferBit)
		fragment = vk.PipelineStageFlags(vk.PipelineStageFragmentShaderBit)
		bottom   = vk.PipelineStageFlags(vk.PipelineStageBottomOfPipeBit)

		read       = vk.AccessFlags(vk.AccessTransferReadBit)
		write      = vk.AccessFlags(vk.AccessTransferWriteBit)
		shaderRead = vk.AccessFlags(vk.AccessShaderReadBit)
		memoryRead = vk.AccessFlags(vk.AccessMemoryReadBit)
	)

	for idx, tc := range []struct {
		old, new vk.ImageLayout
		src, dst Masks
	}{
		{
			old: vk.ImageLayoutUndefined, new: vk.ImageLayoutTransferDstOptimal,
			src: Masks{0, top}, dst: Masks{write, transfer},
		},
		{
			old: vk.ImageLayoutUndefined, new: vk.ImageLayoutTransferSrcOptimal,
			src: Masks{0, top}, dst: Masks{read, transfer},
		},
		{
			old: vk.ImageLayoutTransferSrcOptimal, new: vk.ImageLayoutTransferDstOptimal,
			src: Masks{read, transfer}, dst: Masks{write, transfer},
		},
		{
			old: vk.ImageLayoutTransferDstOptimal, new: vk.ImageLayoutTransferSrcOptimal,
			src: Masks{write, transfer}, dst: Masks{read, transfer},
		},
		{
			old: vk.ImageLayoutTransferDstOptimal, new: vk.ImageLayoutShaderReadOnlyOptimal,
			src: Masks{write, transfer}, dst: Masks{shaderRead, fragment},
		},
		{
			old: vk.ImageLayoutTransferDstOptimal, new: vk.ImageLayoutPresentSrc,
			src: Masks{write, transfer}, dst: Masks{memoryRead, bottom},
		},
	} {
		src, dst, err := TransitionMasks(tc.old, tc.new)
		require.NoError(t, err, "case %d", idx)
		require.Equal(t, tc.src, src, "case %d: %s -> %s", idx, LayoutName(tc.old), LayoutName(tc.new))
		require.Equal(t, tc.dst, dst, "case %d: %s -> %s", idx, LayoutName(tc.old), LayoutName(tc.new))

		// Same input, same answer.
		src2, dst2, err := TransitionMasks(tc.old, tc.new)
		require.NoError(t, err)
		require.Equal(t, src, src2)
		require.Equal(t, dst, dst2)
	}
}

func TestTransitionMasksUnsupported(t *testing.T) {
	layouts := []vk.ImageLayout{
		vk.ImageLayoutUndefined,
		vk.ImageLayoutTransferSrcOptimal,
		vk.ImageLayoutTransferDstOptimal,
		vk.ImageLayoutShaderReadOnlyOptimal,
		vk.ImageLayoutColorAttachmentOptimal,
		vk.ImageLayoutPresentSrc,
	}

	supported := 0
	for _, oldLayout := range layouts {
		for _, newLayout := range layouts {
			_, _, err := TransitionMasks(oldLayout, newLayout)
			if _, ok := transitions[layoutPair{oldLayout, newLayout}]; ok {
				require.NoError(t, err)
				supported++
				continue
			}

			var unsupported *UnsupportedTransitionError
			require.True(t, errors.As(err, &unsupported), "%s -> %s",
				LayoutName(oldLayout), LayoutName(newLayout))
			require.Equal(t, oldLayout, unsupported.Old)
			require.Equal(t, newLayout, unsupported.New)
		}
	}
	require.Equal(t, 6, supported)
}

func TestUnsupportedTransitionErrorMessage(t *testing.T) {
	_, _, err := TransitionMasks(vk.ImageLayoutPresentSrc, vk.ImageLayoutTransferDstOptimal)
	require.EqualError(t, err, "unsupported layout transition: present -> transfer-dst")
}

func TestBarrier(t *testing.T) {
	barrier, srcStage, dstStage, err := Barrier(
		vk.NullImage,
		vk.ImageLayoutTransferDstOptimal,
		vk.ImageLayoutPresentSrc,
	)
	require.NoError(t, err)
	require.Equal(t, vk.ImageLayoutTransferDstOptimal, barrier.OldLayout)
	require.Equal(t, vk.ImageLayoutPresentSrc, barrier.NewLayout)
	require.Equal(t, vk.AccessFlags(vk.AccessTransferWriteBit), barrier.SrcAccessMask)
	require.Equal(t, vk.AccessFlags(vk.AccessMemoryReadBit), barrier.DstAccessMask)
	require.Equal(t, vk.PipelineStageFlags(vk.PipelineStageTransferBit), srcStage)
	require.Equal(t, vk.PipelineStageFlags(vk.PipelineStageBottomOfPipeBit), dstStage)
	require.Equal(t, uint32(vk.QueueFamilyIgnored), barrier.SrcQueueFamilyIndex)

	_, _, _, err = Barrier(vk.NullImage, vk.ImageLayoutPresentSrc, vk.ImageLayoutUndefined)
	require.Error(t, err)
}
