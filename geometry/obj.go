package geometry

import (
	"fmt"
	"io"

	"github.com/mokiat/go-data-front/decoder/obj"
	"github.com/xlab/linmath"
)

// Mesh is indexed triangle geometry.
type Mesh struct {
	Vertices []Vertex
	Indices  []Index
}

// LoadOBJ decodes a Wavefront OBJ stream into a single mesh. Every object and
// material group is merged, polygons are triangulated as fans and identical
// position and texture coordinate pairs share one vertex.
func LoadOBJ(r io.Reader) (Mesh, error) {
	model, err := obj.NewDecoder(obj.DefaultLimits()).Decode(r)
	if err != nil {
		return Mesh{}, fmt.Errorf("decoding OBJ: %w", err)
	}

	return FromModel(model)
}

// FromModel converts a decoded OBJ model into a mesh.
func FromModel(model *obj.Model) (Mesh, error) {
	var (
		mesh   Mesh
		unique = make(map[vertexKey]Index)
	)

	for _, object := range model.Objects {
		for _, group := range object.Meshes {
			for f, face := range group.Faces {
				if len(face.References) < 3 {
					return Mesh{}, fmt.Errorf("object %q face %d has %d corners",
						object.Name, f, len(face.References))
				}

				corners := make([]Index, len(face.References))
				for i, ref := range face.References {
					index, err := mesh.add(model, ref, unique)
					if err != nil {
						return Mesh{}, fmt.Errorf("object %q face %d: %w", object.Name, f, err)
					}
					corners[i] = index
				}

				for i := 1; i+1 < len(corners); i++ {
					mesh.Indices = append(mesh.Indices, corners[0], corners[i], corners[i+1])
				}
			}
		}
	}

	if len(mesh.Indices) == 0 {
		return Mesh{}, fmt.Errorf("model has no faces")
	}

	return mesh, nil
}

type vertexKey struct {
	vertex, texCoord int64
}

func (m *Mesh) add(model *obj.Model, ref obj.Reference, unique map[vertexKey]Index) (Index, error) {
	if ref.VertexIndex < 0 || ref.VertexIndex >= int64(len(model.Vertices)) {
		return 0, fmt.Errorf("vertex index %d out of range", ref.VertexIndex)
	}

	texCoord := int64(-1)
	if ref.TexCoordIndex >= 0 && ref.TexCoordIndex < int64(len(model.TexCoords)) {
		texCoord = ref.TexCoordIndex
	}

	key := vertexKey{vertex: ref.VertexIndex, texCoord: texCoord}
	if index, ok := unique[key]; ok {
		return index, nil
	}

	pos := model.GetVertexFromReference(ref)
	vertex := Vertex{
		Pos: linmath.Vec3{float32(pos.X), float32(pos.Y), float32(pos.Z)},
	}
	vertex.Color = colorFor(vertex.Pos)

	if texCoord >= 0 {
		uv := model.TexCoords[texCoord]
		// OBJ puts the origin bottom left, Vulkan samples from the top left.
		vertex.TexCoord = linmath.Vec2{float32(uv.U), 1 - float32(uv.V)}
	}

	index := Index(len(m.Vertices))
	m.Vertices = append(m.Vertices, vertex)
	unique[key] = index

	return index, nil
}

// colorFor maps a position in the unit cube onto an RGB color.
func colorFor(pos linmath.Vec3) linmath.Vec3 {
	var c linmath.Vec3
	for i := range pos {
		c[i] = clamp01(pos[i]*0.5 + 0.5)
	}
	return c
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
