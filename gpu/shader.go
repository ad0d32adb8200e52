package gpu

import (
	"fmt"

	"vulkan-sprites/unsafer"

	vk "github.com/vulkan-go/vulkan"
)

// NewShaderModule creates a shader module from SPIR-V bytecode. The caller
// destroys it with vk.DestroyShaderModule once the pipeline is built.
func (c *Context) NewShaderModule(code []byte) (vk.ShaderModule, error) {
	if len(code) == 0 || len(code)%4 != 0 {
		return vk.ShaderModule(vk.NullHandle), fmt.Errorf("shader bytecode size %d is not a multiple of 4", len(code))
	}

	createInfo := vk.ShaderModuleCreateInfo{
		SType:    vk.StructureTypeShaderModuleCreateInfo,
		CodeSize: uint(len(code)),
		PCode:    unsafer.BytesToUint32(code),
	}

	var shaderModule vk.ShaderModule
	res := vk.CreateShaderModule(c.device, &createInfo, nil, &shaderModule)
	if err := vk.Error(res); err != nil {
		return vk.ShaderModule(vk.NullHandle), fmt.Errorf("failed to create shader module: %w", err)
	}

	return shaderModule, nil
}
