// Package queues discovers the Vulkan queue families used for drawing and
// presenting.
package queues

import (
	"vulkan-sprites/optional"

	vk "github.com/vulkan-go/vulkan"
)

// FamilyIndices holds the indexes of Vulkan queue families needed by the renderer.
type FamilyIndices struct {

	// Graphics is the index of the graphics queue family. Transfer and blit
	// commands are recorded for this family too.
	Graphics optional.Optional[uint32]

	// Present is the index of the queue family used for presenting to the drawing
	// surface.
	Present optional.Optional[uint32]
}

// IsComplete returns true if all families have been set.
func (f *FamilyIndices) IsComplete() bool {
	return f.Graphics.HasValue() && f.Present.HasValue()
}

// Shared returns true when graphics and present use the same family, in which
// case images can be owned exclusively.
func (f *FamilyIndices) Shared() bool {
	return f.IsComplete() && f.Graphics.Get() == f.Present.Get()
}

// Unique returns the distinct family indexes, graphics first.
func (f *FamilyIndices) Unique() []uint32 {
	var out []uint32
	if f.Graphics.HasValue() {
		out = append(out, f.Graphics.Get())
	}
	if f.Present.HasValue() && !f.Shared() {
		out = append(out, f.Present.Get())
	}
	return out
}

// Family is the part of a queue family description Select looks at.
type Family struct {
	Graphics bool
	Present  bool
}

// Select picks the first family with graphics support and the first family
// able to present. A family supporting both is preferred for both roles so
// that swapchain images do not have to be shared between queues.
func Select(families []Family) FamilyIndices {
	indices := FamilyIndices{}

	for i, family := range families {
		if family.Graphics && family.Present {
			indices.Graphics.Set(uint32(i))
			indices.Present.Set(uint32(i))
			return indices
		}
	}

	for i, family := range families {
		if family.Graphics && !indices.Graphics.HasValue() {
			indices.Graphics.Set(uint32(i))
		}
		if family.Present && !indices.Present.HasValue() {
			indices.Present.Set(uint32(i))
		}

		if indices.IsComplete() {
			break
		}
	}

	return indices
}

// Find queries the queue families of device and returns the ones usable for
// drawing and for presenting to surface.
func Find(device vk.PhysicalDevice, surface vk.Surface) (FamilyIndices, error) {
	var queueFamilyCount uint32
	vk.GetPhysicalDeviceQueueFamilyProperties(device, &queueFamilyCount, nil)

	queueFamilies := make([]vk.QueueFamilyProperties, queueFamilyCount)
	vk.GetPhysicalDeviceQueueFamilyProperties(device, &queueFamilyCount, queueFamilies)

	families := make([]Family, len(queueFamilies))
	for i, family := range queueFamilies {
		family.Deref()

		families[i].Graphics = family.QueueFlags&vk.QueueFlags(vk.QueueGraphicsBit) != 0

		var hasPresent vk.Bool32
		err := vk.Error(
			vk.GetPhysicalDeviceSurfaceSupport(device, uint32(i), surface, &hasPresent),
		)
		if err != nil {
			return FamilyIndices{}, err
		}
		families[i].Present = hasPresent.B()
	}

	return Select(families), nil
}
