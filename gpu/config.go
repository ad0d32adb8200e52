package gpu

import (
	vk "github.com/vulkan-go/vulkan"
)

// ValidationLayer is the layer enabled when validation is requested.
const ValidationLayer = "VK_LAYER_KHRONOS_validation"

// Config describes the instance and device a Context is created with. Names
// are plain Go strings, the NUL terminators Vulkan expects are added when the
// create infos are built.
type Config struct {
	// AppName is reported to the driver in the application info.
	AppName string

	// EnableValidation turns on RequiredLayers and installs a debug report
	// callback which forwards validation messages to Logger().
	EnableValidation bool

	// RequiredExtensions lists the device extensions the program cannot run
	// without. Physical devices missing any of them are never selected.
	RequiredExtensions []string

	// RequiredLayers lists the instance layers enabled with validation.
	RequiredLayers []string
}

// DefaultConfig returns the configuration needed for presenting to a window
// surface, optionally with the Khronos validation layer.
func DefaultConfig(appName string, validation bool) Config {
	return Config{
		AppName:          appName,
		EnableValidation: validation,
		RequiredExtensions: []string{
			vk.KhrSwapchainExtensionName,
		},
		RequiredLayers: []string{
			ValidationLayer,
		},
	}
}

func cStrings(names []string) []string {
	out := make([]string, len(names))
	for i, name := range names {
		out[i] = cString(name)
	}
	return out
}

func cString(name string) string {
	if n := len(name); n > 0 && name[n-1] == 0 {
		return name
	}
	return name + "\x00"
}

// containsAll reports whether every name in required is present in available.
// Both lists may or may not carry NUL terminators.
func containsAll(available, required []string) (missing []string) {
	have := make(map[string]struct{}, len(available))
	for _, name := range available {
		have[cString(name)] = struct{}{}
	}

	for _, name := range required {
		if _, ok := have[cString(name)]; !ok {
			missing = append(missing, name)
		}
	}
	return missing
}
