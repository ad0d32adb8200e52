package geometry

import (
	"fmt"

	"vulkan-sprites/gpu"
	"vulkan-sprites/unsafer"

	vk "github.com/vulkan-go/vulkan"
)

// Buffers is a mesh uploaded into device local vertex and index buffers.
type Buffers struct {
	vertices *gpu.Buffer
	indices  *gpu.Buffer

	IndexCount uint32
}

// Upload copies mesh into new device buffers.
func Upload(ctx *gpu.Context, mesh Mesh) (*Buffers, error) {
	vertices, err := ctx.NewDeviceBuffer(
		unsafer.SliceToBytes(mesh.Vertices),
		vk.BufferUsageFlags(vk.BufferUsageVertexBufferBit),
	)
	if err != nil {
		return nil, fmt.Errorf("creating the vertex buffer: %w", err)
	}

	indices, err := ctx.NewDeviceBuffer(
		unsafer.SliceToBytes(mesh.Indices),
		vk.BufferUsageFlags(vk.BufferUsageIndexBufferBit),
	)
	if err != nil {
		vertices.Destroy()
		return nil, fmt.Errorf("creating the index buffer: %w", err)
	}

	gpu.Logger().Debug("mesh uploaded",
		"vertices", len(mesh.Vertices),
		"indices", len(mesh.Indices),
	)

	return &Buffers{
		vertices:   vertices,
		indices:    indices,
		IndexCount: uint32(len(mesh.Indices)),
	}, nil
}

// Bind records binding the vertex and index buffers.
func (b *Buffers) Bind(cmd vk.CommandBuffer) {
	vk.CmdBindVertexBuffers(cmd, 0, 1, []vk.Buffer{b.vertices.Handle()}, []vk.DeviceSize{0})
	vk.CmdBindIndexBuffer(cmd, b.indices.Handle(), 0, IndexType)
}

// Destroy releases both buffers.
func (b *Buffers) Destroy() {
	b.indices.Destroy()
	b.vertices.Destroy()
}
