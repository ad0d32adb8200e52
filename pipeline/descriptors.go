package pipeline

import (
	"fmt"

	"vulkan-sprites/gpu"

	vk "github.com/vulkan-go/vulkan"
)

// Descriptors are the layout, pool and sets binding the per image uniform
// buffer at binding 0 and the sampled texture at binding 1.
type Descriptors struct {
	device vk.Device

	layout vk.DescriptorSetLayout
	pool   vk.DescriptorPool
	sets   []vk.DescriptorSet
}

// NewDescriptors creates the layout and a pool holding count sets.
func NewDescriptors(ctx *gpu.Context, count int) (*Descriptors, error) {
	d := &Descriptors{
		device: ctx.Device(),
		layout: vk.DescriptorSetLayout(vk.NullHandle),
		pool:   vk.DescriptorPool(vk.NullHandle),
	}

	bindings := []vk.DescriptorSetLayoutBinding{
		{
			Binding:         0,
			DescriptorType:  vk.DescriptorTypeUniformBuffer,
			DescriptorCount: 1,
			StageFlags:      vk.ShaderStageFlags(vk.ShaderStageVertexBit),
		},
		{
			Binding:         1,
			DescriptorType:  vk.DescriptorTypeCombinedImageSampler,
			DescriptorCount: 1,
			StageFlags:      vk.ShaderStageFlags(vk.ShaderStageFragmentBit),
		},
	}

	layoutInfo := vk.DescriptorSetLayoutCreateInfo{
		SType:        vk.StructureTypeDescriptorSetLayoutCreateInfo,
		BindingCount: uint32(len(bindings)),
		PBindings:    bindings,
	}

	var layout vk.DescriptorSetLayout
	res := vk.CreateDescriptorSetLayout(d.device, &layoutInfo, nil, &layout)
	if err := vk.Error(res); err != nil {
		return nil, fmt.Errorf("failed to create descriptor set layout: %w", err)
	}
	d.layout = layout

	poolSizes := []vk.DescriptorPoolSize{
		{
			Type:            vk.DescriptorTypeUniformBuffer,
			DescriptorCount: uint32(count),
		},
		{
			Type:            vk.DescriptorTypeCombinedImageSampler,
			DescriptorCount: uint32(count),
		},
	}

	poolInfo := vk.DescriptorPoolCreateInfo{
		SType:         vk.StructureTypeDescriptorPoolCreateInfo,
		PoolSizeCount: uint32(len(poolSizes)),
		PPoolSizes:    poolSizes,
		MaxSets:       uint32(count),
	}

	var pool vk.DescriptorPool
	res = vk.CreateDescriptorPool(d.device, &poolInfo, nil, &pool)
	if err := vk.Error(res); err != nil {
		d.Destroy()
		return nil, fmt.Errorf("failed to create descriptor pool: %w", err)
	}
	d.pool = pool

	layouts := make([]vk.DescriptorSetLayout, count)
	for i := range layouts {
		layouts[i] = d.layout
	}

	allocInfo := vk.DescriptorSetAllocateInfo{
		SType:              vk.StructureTypeDescriptorSetAllocateInfo,
		DescriptorPool:     d.pool,
		DescriptorSetCount: uint32(count),
		PSetLayouts:        layouts,
	}

	d.sets = make([]vk.DescriptorSet, count)
	res = vk.AllocateDescriptorSets(d.device, &allocInfo, &d.sets[0])
	if err := vk.Error(res); err != nil {
		d.Destroy()
		return nil, fmt.Errorf("failed to allocate descriptor sets: %w", err)
	}

	return d, nil
}

// Layout returns the descriptor set layout.
func (d *Descriptors) Layout() vk.DescriptorSetLayout { return d.layout }

// Set returns descriptor set i.
func (d *Descriptors) Set(i int) vk.DescriptorSet { return d.sets[i] }

// Len returns the number of sets.
func (d *Descriptors) Len() int { return len(d.sets) }

// Write points set i at uniforms and at the texture sampled through sampler.
func (d *Descriptors) Write(i int, uniforms *gpu.Buffer, texture *gpu.Texture, sampler *gpu.Sampler) {
	bufferInfo := vk.DescriptorBufferInfo{
		Buffer: uniforms.Handle(),
		Offset: 0,
		Range:  vk.DeviceSize(vk.WholeSize),
	}

	imageInfo := vk.DescriptorImageInfo{
		ImageLayout: vk.ImageLayoutShaderReadOnlyOptimal,
		ImageView:   texture.View(),
		Sampler:     sampler.Handle(),
	}

	descriptorWrites := []vk.WriteDescriptorSet{
		{
			SType:           vk.StructureTypeWriteDescriptorSet,
			DstSet:          d.sets[i],
			DstBinding:      0,
			DstArrayElement: 0,
			DescriptorType:  vk.DescriptorTypeUniformBuffer,
			DescriptorCount: 1,
			PBufferInfo:     []vk.DescriptorBufferInfo{bufferInfo},
		},
		{
			SType:           vk.StructureTypeWriteDescriptorSet,
			DstSet:          d.sets[i],
			DstBinding:      1,
			DstArrayElement: 0,
			DescriptorType:  vk.DescriptorTypeCombinedImageSampler,
			DescriptorCount: 1,
			PImageInfo:      []vk.DescriptorImageInfo{imageInfo},
		},
	}

	vk.UpdateDescriptorSets(
		d.device,
		uint32(len(descriptorWrites)),
		descriptorWrites,
		0,
		nil,
	)
}

// Destroy releases the pool, which frees the sets, and the layout.
func (d *Descriptors) Destroy() {
	if d.pool != vk.DescriptorPool(vk.NullHandle) {
		vk.DestroyDescriptorPool(d.device, d.pool, nil)
		d.pool = vk.DescriptorPool(vk.NullHandle)
	}
	d.sets = nil

	if d.layout != vk.DescriptorSetLayout(vk.NullHandle) {
		vk.DestroyDescriptorSetLayout(d.device, d.layout, nil)
		d.layout = vk.DescriptorSetLayout(vk.NullHandle)
	}
}
