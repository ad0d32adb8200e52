package gpu

import (
	"testing"

	"vulkan-sprites/optional"
	"vulkan-sprites/queues"

	"github.com/stretchr/testify/require"
	vk "github.com/vulkan-go/vulkan"
)

func completeFamilies() queues.FamilyIndices {
	return queues.FamilyIndices{
		Graphics: optional.Of[uint32](0),
		Present:  optional.Of[uint32](0),
	}
}

func TestBestCandidate(t *testing.T) {
	usable := func(kind vk.PhysicalDeviceType) deviceCandidate {
		return deviceCandidate{
			kind:         kind,
			families:     completeFamilies(),
			formats:      2,
			presentModes: 1,
		}
	}

	noPresent := usable(vk.PhysicalDeviceTypeDiscreteGpu)
	noPresent.families = queues.FamilyIndices{Graphics: optional.Of[uint32](0)}

	noSwapchain := usable(vk.PhysicalDeviceTypeDiscreteGpu)
	noSwapchain.missingExtensions = []string{vk.KhrSwapchainExtensionName}

	noFormats := usable(vk.PhysicalDeviceTypeDiscreteGpu)
	noFormats.formats = 0

	for idx, tc := range []struct {
		candidates []deviceCandidate
		expected   int
	}{
		{candidates: nil, expected: -1},
		{candidates: []deviceCandidate{noPresent, noSwapchain, noFormats}, expected: -1},
		{
			candidates: []deviceCandidate{
				usable(vk.PhysicalDeviceTypeCpu),
				usable(vk.PhysicalDeviceTypeIntegratedGpu),
				usable(vk.PhysicalDeviceTypeDiscreteGpu),
			},
			expected: 2,
		},
		{
			candidates: []deviceCandidate{
				noSwapchain,
				usable(vk.PhysicalDeviceTypeIntegratedGpu),
			},
			expected: 1,
		},
		{
			candidates: []deviceCandidate{
				usable(vk.PhysicalDeviceTypeVirtualGpu),
				usable(vk.PhysicalDeviceTypeVirtualGpu),
			},
			expected: 0,
		},
	} {
		require.Equal(t, tc.expected, bestCandidate(tc.candidates), "case %d", idx)
	}
}

func TestContainsAll(t *testing.T) {
	available := []string{"VK_KHR_swapchain", "VK_EXT_debug_report\x00"}

	require.Empty(t, containsAll(available, []string{"VK_KHR_swapchain\x00"}))
	require.Empty(t, containsAll(available, []string{"VK_EXT_debug_report"}))
	require.Equal(t,
		[]string{"VK_LAYER_KHRONOS_validation"},
		containsAll(available, []string{"VK_KHR_swapchain", "VK_LAYER_KHRONOS_validation"}),
	)
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig("sprites", true)
	require.True(t, cfg.EnableValidation)
	require.Equal(t, "sprites", cfg.AppName)
	require.Contains(t, cfg.RequiredLayers, ValidationLayer)
	require.Len(t, cfg.RequiredExtensions, 1)

	require.Equal(t, "abc\x00", cString("abc"))
	require.Equal(t, "abc\x00", cString("abc\x00"))
}
