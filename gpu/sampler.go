package gpu

import (
	"fmt"

	vk "github.com/vulkan-go/vulkan"
)

// Sampler reads textures in shaders with nearest filtering, so pixel art
// stays sharp.
type Sampler struct {
	device vk.Device
	handle vk.Sampler
}

// NewSampler creates a nearest filtering, repeating sampler.
func (c *Context) NewSampler() (*Sampler, error) {
	samplerInfo := vk.SamplerCreateInfo{
		SType:                   vk.StructureTypeSamplerCreateInfo,
		MagFilter:               vk.FilterNearest,
		MinFilter:               vk.FilterNearest,
		AddressModeU:            vk.SamplerAddressModeRepeat,
		AddressModeV:            vk.SamplerAddressModeRepeat,
		AddressModeW:            vk.SamplerAddressModeRepeat,
		AnisotropyEnable:        vk.False,
		MaxAnisotropy:           1,
		BorderColor:             vk.BorderColorIntOpaqueBlack,
		UnnormalizedCoordinates: vk.False,
		CompareEnable:           vk.False,
		CompareOp:               vk.CompareOpAlways,
		MipmapMode:              vk.SamplerMipmapModeNearest,
		MipLodBias:              0,
		MinLod:                  0,
		MaxLod:                  0,
	}

	var sampler vk.Sampler
	res := vk.CreateSampler(c.device, &samplerInfo, nil, &sampler)
	if err := vk.Error(res); err != nil {
		return nil, fmt.Errorf("failed to create texture sampler: %w", err)
	}

	return &Sampler{device: c.device, handle: sampler}, nil
}

// Handle returns the Vulkan sampler.
func (s *Sampler) Handle() vk.Sampler { return s.handle }

// Destroy releases the sampler.
func (s *Sampler) Destroy() {
	if s.handle == vk.NullSampler {
		return
	}
	vk.DestroySampler(s.device, s.handle, nil)
	s.handle = vk.NullSampler
}
