package gpu

import (
	vk "github.com/vulkan-go/vulkan"
)

// Masks holds the access and pipeline stage masks for one side of an image
// memory barrier.
type Masks struct {
	Access vk.AccessFlags
	Stage  vk.PipelineStageFlags
}

type layoutPair struct {
	old, new vk.ImageLayout
}

var transitions = map[layoutPair][2]Masks{
	{vk.ImageLayoutUndefined, vk.ImageLayoutTransferDstOptimal}: {
		{0, vk.PipelineStageFlags(vk.PipelineStageTopOfPipeBit)},
		{vk.AccessFlags(vk.AccessTransferWriteBit), vk.PipelineStageFlags(vk.PipelineStageTransferBit)},
	},
	{vk.ImageLayoutUndefined, vk.ImageLayoutTransferSrcOptimal}: {
		{0, vk.PipelineStageFlags(vk.PipelineStageTopOfPipeBit)},
		{vk.AccessFlags(vk.AccessTransferReadBit), vk.PipelineStageFlags(vk.PipelineStageTransferBit)},
	},
	{vk.ImageLayoutTransferSrcOptimal, vk.ImageLayoutTransferDstOptimal}: {
		{vk.AccessFlags(vk.AccessTransferReadBit), vk.PipelineStageFlags(vk.PipelineStageTransferBit)},
		{vk.AccessFlags(vk.AccessTransferWriteBit), vk.PipelineStageFlags(vk.PipelineStageTransferBit)},
	},
	{vk.ImageLayoutTransferDstOptimal, vk.ImageLayoutTransferSrcOptimal}: {
		{vk.AccessFlags(vk.AccessTransferWriteBit), vk.PipelineStageFlags(vk.PipelineStageTransferBit)},
		{vk.AccessFlags(vk.AccessTransferReadBit), vk.PipelineStageFlags(vk.PipelineStageTransferBit)},
	},
	{vk.ImageLayoutTransferDstOptimal, vk.ImageLayoutShaderReadOnlyOptimal}: {
		{vk.AccessFlags(vk.AccessTransferWriteBit), vk.PipelineStageFlags(vk.PipelineStageTransferBit)},
		{vk.AccessFlags(vk.AccessShaderReadBit), vk.PipelineStageFlags(vk.PipelineStageFragmentShaderBit)},
	},
	{vk.ImageLayoutTransferDstOptimal, vk.ImageLayoutPresentSrc}: {
		{vk.AccessFlags(vk.AccessTransferWriteBit), vk.PipelineStageFlags(vk.PipelineStageTransferBit)},
		{vk.AccessFlags(vk.AccessMemoryReadBit), vk.PipelineStageFlags(vk.PipelineStageBottomOfPipeBit)},
	},
}

// TransitionMasks returns the source and destination masks for moving an
// image from oldLayout to newLayout. Pairs outside of the supported set return
// an *UnsupportedTransitionError.
func TransitionMasks(oldLayout, newLayout vk.ImageLayout) (src, dst Masks, err error) {
	masks, ok := transitions[layoutPair{oldLayout, newLayout}]
	if !ok {
		return Masks{}, Masks{}, &UnsupportedTransitionError{Old: oldLayout, New: newLayout}
	}
	return masks[0], masks[1], nil
}

// Barrier builds the image memory barrier for the transition. The barrier
// covers the single color mip level and array layer every image here has.
func Barrier(
	image vk.Image,
	oldLayout, newLayout vk.ImageLayout,
) (vk.ImageMemoryBarrier, vk.PipelineStageFlags, vk.PipelineStageFlags, error) {
	src, dst, err := TransitionMasks(oldLayout, newLayout)
	if err != nil {
		return vk.ImageMemoryBarrier{}, 0, 0, err
	}

	barrier := vk.ImageMemoryBarrier{
		SType:               vk.StructureTypeImageMemoryBarrier,
		OldLayout:           oldLayout,
		NewLayout:           newLayout,
		SrcQueueFamilyIndex: vk.QueueFamilyIgnored,
		DstQueueFamilyIndex: vk.QueueFamilyIgnored,
		Image:               image,
		SubresourceRange:    colorRange,
		SrcAccessMask:       src.Access,
		DstAccessMask:       dst.Access,
	}

	return barrier, src.Stage, dst.Stage, nil
}

var colorRange = vk.ImageSubresourceRange{
	AspectMask:     vk.ImageAspectFlags(vk.ImageAspectColorBit),
	BaseMipLevel:   0,
	LevelCount:     1,
	BaseArrayLayer: 0,
	LayerCount:     1,
}

var colorLayers = vk.ImageSubresourceLayers{
	AspectMask:     vk.ImageAspectFlags(vk.ImageAspectColorBit),
	MipLevel:       0,
	BaseArrayLayer: 0,
	LayerCount:     1,
}
