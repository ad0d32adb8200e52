package gpu

import (
	"fmt"
	"unsafe"

	vk "github.com/vulkan-go/vulkan"
)

// Buffer is a device buffer together with the memory bound to it.
type Buffer struct {
	device vk.Device

	handle vk.Buffer
	memory vk.DeviceMemory
	size   vk.DeviceSize
	mapped unsafe.Pointer
}

// NewBuffer creates a buffer of size bytes backed by memory with properties.
func (c *Context) NewBuffer(
	size vk.DeviceSize,
	usage vk.BufferUsageFlags,
	properties vk.MemoryPropertyFlags,
) (*Buffer, error) {
	b := &Buffer{
		device: c.device,
		handle: vk.NullBuffer,
		memory: vk.NullDeviceMemory,
		size:   size,
	}

	bufferInfo := vk.BufferCreateInfo{
		SType:       vk.StructureTypeBufferCreateInfo,
		Size:        size,
		Usage:       usage,
		SharingMode: vk.SharingModeExclusive,
	}

	var handle vk.Buffer
	res := vk.CreateBuffer(c.device, &bufferInfo, nil, &handle)
	if err := vk.Error(res); err != nil {
		return nil, fmt.Errorf("failed to create buffer: %w", err)
	}
	b.handle = handle

	var memRequirements vk.MemoryRequirements
	vk.GetBufferMemoryRequirements(c.device, b.handle, &memRequirements)

	memory, err := c.allocate(memRequirements, properties)
	if err != nil {
		b.Destroy()
		return nil, fmt.Errorf("buffer memory: %w", err)
	}
	b.memory = memory

	res = vk.BindBufferMemory(c.device, b.handle, b.memory, 0)
	if err := vk.Error(res); err != nil {
		b.Destroy()
		return nil, fmt.Errorf("failed to bind buffer memory: %w", err)
	}

	return b, nil
}

// NewHostBuffer creates a host visible and coherent buffer which stays
// mapped for its whole life.
func (c *Context) NewHostBuffer(size vk.DeviceSize, usage vk.BufferUsageFlags) (*Buffer, error) {
	b, err := c.NewBuffer(
		size,
		usage,
		vk.MemoryPropertyFlags(vk.MemoryPropertyHostVisibleBit)|
			vk.MemoryPropertyFlags(vk.MemoryPropertyHostCoherentBit),
	)
	if err != nil {
		return nil, err
	}

	var pData unsafe.Pointer
	res := vk.MapMemory(c.device, b.memory, 0, size, 0, &pData)
	if err := vk.Error(res); err != nil {
		b.Destroy()
		return nil, fmt.Errorf("failed to map buffer memory: %w", err)
	}
	b.mapped = pData

	return b, nil
}

// NewDeviceBuffer uploads data into a new device local buffer through a
// temporary staging buffer.
func (c *Context) NewDeviceBuffer(data []byte, usage vk.BufferUsageFlags) (*Buffer, error) {
	size := vk.DeviceSize(len(data))

	staging, err := c.NewHostBuffer(size, vk.BufferUsageFlags(vk.BufferUsageTransferSrcBit))
	if err != nil {
		return nil, fmt.Errorf("creating the staging buffer: %w", err)
	}
	defer staging.Destroy()

	if err := staging.Write(data); err != nil {
		return nil, err
	}

	b, err := c.NewBuffer(
		size,
		vk.BufferUsageFlags(vk.BufferUsageTransferDstBit)|usage,
		vk.MemoryPropertyFlags(vk.MemoryPropertyDeviceLocalBit),
	)
	if err != nil {
		return nil, fmt.Errorf("creating the device local buffer: %w", err)
	}

	err = c.OneTimeCommands(func(cmd *CommandBuffer) error {
		cmd.CopyBuffer(staging.handle, b.handle, size)
		return nil
	})
	if err != nil {
		b.Destroy()
		return nil, fmt.Errorf("failed to copy staging buffer: %w", err)
	}

	return b, nil
}

// Handle returns the Vulkan buffer.
func (b *Buffer) Handle() vk.Buffer { return b.handle }

// Size returns the size of the buffer in bytes.
func (b *Buffer) Size() vk.DeviceSize { return b.size }

// Write copies data to the start of a mapped buffer.
func (b *Buffer) Write(data []byte) error {
	if b.mapped == nil {
		return fmt.Errorf("buffer is not mapped")
	}
	if vk.DeviceSize(len(data)) > b.size {
		return fmt.Errorf("writing %d bytes into a buffer of %d", len(data), b.size)
	}

	vk.Memcopy(b.mapped, data)
	return nil
}

// Destroy unmaps and releases the buffer and its memory.
func (b *Buffer) Destroy() {
	if b.mapped != nil {
		vk.UnmapMemory(b.device, b.memory)
		b.mapped = nil
	}
	if b.handle != vk.NullBuffer {
		vk.DestroyBuffer(b.device, b.handle, nil)
		b.handle = vk.NullBuffer
	}
	if b.memory != vk.NullDeviceMemory {
		vk.FreeMemory(b.device, b.memory, nil)
		b.memory = vk.NullDeviceMemory
	}
}
