package gpu

import (
	"fmt"

	"vulkan-sprites/queues"

	vk "github.com/vulkan-go/vulkan"
)

// deviceCandidate is what device selection knows about one physical device.
type deviceCandidate struct {
	name     string
	kind     vk.PhysicalDeviceType
	families queues.FamilyIndices

	missingExtensions []string

	formats      int
	presentModes int
}

// score returns how suitable the candidate is. Bigger is better, zero means
// the device cannot be used at all.
func (d deviceCandidate) score() uint32 {
	if !d.families.IsComplete() || len(d.missingExtensions) > 0 {
		return 0
	}
	if d.formats == 0 || d.presentModes == 0 {
		return 0
	}

	if d.kind == vk.PhysicalDeviceTypeDiscreteGpu {
		return 1000
	}
	if d.kind == vk.PhysicalDeviceTypeIntegratedGpu {
		return 100
	}
	return 1
}

// bestCandidate returns the index of the highest scoring candidate. The first
// one wins ties. It returns -1 when no candidate is usable.
func bestCandidate(candidates []deviceCandidate) int {
	var (
		selected = -1
		score    uint32
	)

	for i, candidate := range candidates {
		if s := candidate.score(); s > score {
			selected = i
			score = s
		}
	}

	return selected
}

func (c *Context) pickPhysicalDevice() error {
	var deviceCount uint32
	err := vk.Error(vk.EnumeratePhysicalDevices(c.instance, &deviceCount, nil))
	if err != nil {
		return fmt.Errorf("failed to get the number of physical devices: %w", err)
	}
	if deviceCount == 0 {
		return fmt.Errorf("failed to find GPUs with Vulkan support")
	}

	pDevices := make([]vk.PhysicalDevice, deviceCount)
	err = vk.Error(vk.EnumeratePhysicalDevices(c.instance, &deviceCount, pDevices))
	if err != nil {
		return fmt.Errorf("failed to enumerate the physical devices: %w", err)
	}

	candidates := make([]deviceCandidate, len(pDevices))
	for i, device := range pDevices {
		candidate, err := c.describeDevice(device)
		if err != nil {
			return fmt.Errorf("describing physical device %d: %w", i, err)
		}
		candidates[i] = candidate

		Logger().Debug("available device",
			"name", candidate.name,
			"score", candidate.score(),
			"missing_extensions", candidate.missingExtensions,
		)
	}

	selected := bestCandidate(candidates)
	if selected < 0 {
		return fmt.Errorf("failed to find suitable physical devices")
	}

	c.physicalDevice = pDevices[selected]
	c.deviceName = candidates[selected].name
	c.families = candidates[selected].families

	var memProperties vk.PhysicalDeviceMemoryProperties
	vk.GetPhysicalDeviceMemoryProperties(c.physicalDevice, &memProperties)
	memProperties.Deref()
	c.memory = memProperties

	Logger().Info("selected physical device",
		"name", c.deviceName,
		"graphics_family", c.families.Graphics.Get(),
		"present_family", c.families.Present.Get(),
	)

	return nil
}

func (c *Context) describeDevice(device vk.PhysicalDevice) (deviceCandidate, error) {
	var properties vk.PhysicalDeviceProperties
	vk.GetPhysicalDeviceProperties(device, &properties)
	properties.Deref()

	candidate := deviceCandidate{
		name: vk.ToString(properties.DeviceName[:]),
		kind: properties.DeviceType,
	}

	families, err := queues.Find(device, c.surface)
	if err != nil {
		return candidate, fmt.Errorf("querying queue families: %w", err)
	}
	candidate.families = families

	available, err := deviceExtensions(device)
	if err != nil {
		return candidate, err
	}
	candidate.missingExtensions = containsAll(available, c.cfg.RequiredExtensions)
	if len(candidate.missingExtensions) > 0 {
		return candidate, nil
	}

	var formatCount uint32
	res := vk.GetPhysicalDeviceSurfaceFormats(device, c.surface, &formatCount, nil)
	if err := vk.Error(res); err != nil {
		return candidate, fmt.Errorf("failed to query device surface formats: %w", err)
	}
	candidate.formats = int(formatCount)

	var presentModeCount uint32
	res = vk.GetPhysicalDeviceSurfacePresentModes(device, c.surface, &presentModeCount, nil)
	if err := vk.Error(res); err != nil {
		return candidate, fmt.Errorf("failed to query device surface present modes: %w", err)
	}
	candidate.presentModes = int(presentModeCount)

	return candidate, nil
}

func deviceExtensions(device vk.PhysicalDevice) ([]string, error) {
	var extensionsCount uint32
	res := vk.EnumerateDeviceExtensionProperties(device, "", &extensionsCount, nil)
	if err := vk.Error(res); err != nil {
		return nil, fmt.Errorf("enumerating device extension properties count: %w", err)
	}

	availableExtensions := make([]vk.ExtensionProperties, extensionsCount)
	res = vk.EnumerateDeviceExtensionProperties(device, "", &extensionsCount,
		availableExtensions)
	if err := vk.Error(res); err != nil {
		return nil, fmt.Errorf("getting device extension properties: %w", err)
	}

	names := make([]string, 0, extensionsCount)
	for _, extension := range availableExtensions {
		extension.Deref()
		names = append(names, vk.ToString(extension.ExtensionName[:]))
	}

	return names, nil
}
