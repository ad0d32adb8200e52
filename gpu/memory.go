package gpu

import (
	"fmt"

	vk "github.com/vulkan-go/vulkan"
)

// selectMemoryType returns the first memory type allowed by typeFilter which
// has all of properties.
func selectMemoryType(
	types []vk.MemoryPropertyFlags,
	typeFilter uint32,
	properties vk.MemoryPropertyFlags,
) (uint32, error) {
	for i, flags := range types {
		if typeFilter&(1<<uint32(i)) == 0 {
			continue
		}

		if flags&properties != properties {
			continue
		}

		return uint32(i), nil
	}

	return 0, fmt.Errorf("failed to find suitable memory type")
}

func (c *Context) findMemoryType(
	typeFilter uint32,
	properties vk.MemoryPropertyFlags,
) (uint32, error) {
	types := make([]vk.MemoryPropertyFlags, c.memory.MemoryTypeCount)
	for i := range types {
		memType := c.memory.MemoryTypes[i]
		memType.Deref()
		types[i] = memType.PropertyFlags
	}

	return selectMemoryType(types, typeFilter, properties)
}

// allocate allocates and returns memory matching requirements.
func (c *Context) allocate(
	requirements vk.MemoryRequirements,
	properties vk.MemoryPropertyFlags,
) (vk.DeviceMemory, error) {
	requirements.Deref()

	memTypeIndex, err := c.findMemoryType(requirements.MemoryTypeBits, properties)
	if err != nil {
		return vk.NullDeviceMemory, err
	}

	allocInfo := vk.MemoryAllocateInfo{
		SType:           vk.StructureTypeMemoryAllocateInfo,
		AllocationSize:  requirements.Size,
		MemoryTypeIndex: memTypeIndex,
	}

	var memory vk.DeviceMemory
	res := vk.AllocateMemory(c.device, &allocInfo, nil, &memory)
	if err := vk.Error(res); err != nil {
		return vk.NullDeviceMemory, fmt.Errorf("failed to allocate memory: %w", err)
	}

	return memory, nil
}
