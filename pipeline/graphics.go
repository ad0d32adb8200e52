package pipeline

import (
	"fmt"

	"vulkan-sprites/geometry"
	"vulkan-sprites/gpu"

	vk "github.com/vulkan-go/vulkan"
)

// Shaders holds SPIR-V bytecode for the two pipeline stages.
type Shaders struct {
	Vertex   []byte
	Fragment []byte
}

// Graphics is the pipeline drawing the background mesh.
type Graphics struct {
	device vk.Device

	layout vk.PipelineLayout
	handle vk.Pipeline
}

// NewGraphics creates the pipeline for pass. Viewport and scissor are fixed
// to extent.
func NewGraphics(
	ctx *gpu.Context,
	pass *Pass,
	descriptors *Descriptors,
	shaders Shaders,
	extent vk.Extent2D,
) (*Graphics, error) {
	vertexShaderModule, err := ctx.NewShaderModule(shaders.Vertex)
	if err != nil {
		return nil, fmt.Errorf("creating vertex shader module: %w", err)
	}
	defer vk.DestroyShaderModule(ctx.Device(), vertexShaderModule, nil)

	fragmentShaderModule, err := ctx.NewShaderModule(shaders.Fragment)
	if err != nil {
		return nil, fmt.Errorf("creating fragment shader module: %w", err)
	}
	defer vk.DestroyShaderModule(ctx.Device(), fragmentShaderModule, nil)

	shaderStages := []vk.PipelineShaderStageCreateInfo{
		{
			SType:  vk.StructureTypePipelineShaderStageCreateInfo,
			Stage:  vk.ShaderStageVertexBit,
			Module: vertexShaderModule,
			PName:  "main\x00",
		},
		{
			SType:  vk.StructureTypePipelineShaderStageCreateInfo,
			Stage:  vk.ShaderStageFragmentBit,
			Module: fragmentShaderModule,
			PName:  "main\x00",
		},
	}

	bindingDescription := geometry.BindingDescription()
	attributeDescriptions := geometry.AttributeDescriptions()

	vertexInputInfo := vk.PipelineVertexInputStateCreateInfo{
		SType: vk.StructureTypePipelineVertexInputStateCreateInfo,

		VertexBindingDescriptionCount: 1,
		PVertexBindingDescriptions: []vk.VertexInputBindingDescription{
			bindingDescription,
		},
		VertexAttributeDescriptionCount: uint32(len(attributeDescriptions)),
		PVertexAttributeDescriptions:    attributeDescriptions,
	}

	inputAssembly := vk.PipelineInputAssemblyStateCreateInfo{
		SType:                  vk.StructureTypePipelineInputAssemblyStateCreateInfo,
		Topology:               vk.PrimitiveTopologyTriangleList,
		PrimitiveRestartEnable: vk.False,
	}

	viewport := vk.Viewport{
		X:        0,
		Y:        0,
		Width:    float32(extent.Width),
		Height:   float32(extent.Height),
		MinDepth: 0,
		MaxDepth: 1,
	}

	scissor := vk.Rect2D{
		Offset: vk.Offset2D{X: 0, Y: 0},
		Extent: extent,
	}

	viewportState := vk.PipelineViewportStateCreateInfo{
		SType:         vk.StructureTypePipelineViewportStateCreateInfo,
		ViewportCount: 1,
		ScissorCount:  1,
		PViewports:    []vk.Viewport{viewport},
		PScissors:     []vk.Rect2D{scissor},
	}

	rasterizer := vk.PipelineRasterizationStateCreateInfo{
		SType:                   vk.StructureTypePipelineRasterizationStateCreateInfo,
		DepthClampEnable:        vk.False,
		RasterizerDiscardEnable: vk.False,
		PolygonMode:             vk.PolygonModeFill,
		LineWidth:               1,
		CullMode:                vk.CullModeFlags(vk.CullModeBackBit),
		FrontFace:               vk.FrontFaceCounterClockwise,
		DepthBiasEnable:         vk.False,
	}

	multisampling := vk.PipelineMultisampleStateCreateInfo{
		SType:                 vk.StructureTypePipelineMultisampleStateCreateInfo,
		SampleShadingEnable:   vk.False,
		RasterizationSamples:  vk.SampleCount1Bit,
		MinSampleShading:      1,
		AlphaToCoverageEnable: vk.False,
		AlphaToOneEnable:      vk.False,
	}

	colorBlendAttachment := vk.PipelineColorBlendAttachmentState{
		ColorWriteMask: vk.ColorComponentFlags(
			vk.ColorComponentRBit |
				vk.ColorComponentGBit |
				vk.ColorComponentBBit |
				vk.ColorComponentABit,
		),
		BlendEnable:         vk.False,
		SrcColorBlendFactor: vk.BlendFactorOne,
		DstColorBlendFactor: vk.BlendFactorZero,
		ColorBlendOp:        vk.BlendOpAdd,
		SrcAlphaBlendFactor: vk.BlendFactorOne,
		DstAlphaBlendFactor: vk.BlendFactorZero,
		AlphaBlendOp:        vk.BlendOpAdd,
	}

	colorBlending := vk.PipelineColorBlendStateCreateInfo{
		SType:           vk.StructureTypePipelineColorBlendStateCreateInfo,
		LogicOpEnable:   vk.False,
		LogicOp:         vk.LogicOpCopy,
		AttachmentCount: 1,
		PAttachments: []vk.PipelineColorBlendAttachmentState{
			colorBlendAttachment,
		},
	}

	pipelineLayoutInfo := vk.PipelineLayoutCreateInfo{
		SType:          vk.StructureTypePipelineLayoutCreateInfo,
		SetLayoutCount: 1,
		PSetLayouts:    []vk.DescriptorSetLayout{descriptors.Layout()},
	}

	g := &Graphics{
		device: ctx.Device(),
		layout: vk.PipelineLayout(vk.NullHandle),
		handle: vk.Pipeline(vk.NullHandle),
	}

	var pipelineLayout vk.PipelineLayout
	res := vk.CreatePipelineLayout(g.device, &pipelineLayoutInfo, nil, &pipelineLayout)
	if err := vk.Error(res); err != nil {
		return nil, fmt.Errorf("failed to create pipeline layout: %w", err)
	}
	g.layout = pipelineLayout

	pipelineInfo := vk.GraphicsPipelineCreateInfo{
		SType:               vk.StructureTypeGraphicsPipelineCreateInfo,
		StageCount:          uint32(len(shaderStages)),
		PStages:             shaderStages,
		PVertexInputState:   &vertexInputInfo,
		PInputAssemblyState: &inputAssembly,
		PViewportState:      &viewportState,
		PRasterizationState: &rasterizer,
		PMultisampleState:   &multisampling,
		PDepthStencilState:  nil,
		PColorBlendState:    &colorBlending,
		PDynamicState:       nil,
		Layout:              g.layout,
		RenderPass:          pass.Handle(),
		Subpass:             0,
		BasePipelineHandle:  vk.Pipeline(vk.NullHandle),
		BasePipelineIndex:   -1,
	}

	pipelines := make([]vk.Pipeline, 1)
	res = vk.CreateGraphicsPipelines(
		g.device,
		vk.PipelineCache(vk.NullHandle),
		1,
		[]vk.GraphicsPipelineCreateInfo{pipelineInfo},
		nil,
		pipelines,
	)
	if err := vk.Error(res); err != nil {
		g.Destroy()
		return nil, fmt.Errorf("failed to create graphics pipeline: %w", err)
	}
	g.handle = pipelines[0]

	return g, nil
}

// Bind records binding the pipeline and descriptor set.
func (g *Graphics) Bind(cmd vk.CommandBuffer, set vk.DescriptorSet) {
	vk.CmdBindPipeline(cmd, vk.PipelineBindPointGraphics, g.handle)
	vk.CmdBindDescriptorSets(
		cmd,
		vk.PipelineBindPointGraphics,
		g.layout,
		0,
		1,
		[]vk.DescriptorSet{set},
		0,
		nil,
	)
}

// Destroy releases the pipeline and its layout.
func (g *Graphics) Destroy() {
	if g.handle != vk.Pipeline(vk.NullHandle) {
		vk.DestroyPipeline(g.device, g.handle, nil)
		g.handle = vk.Pipeline(vk.NullHandle)
	}
	if g.layout != vk.PipelineLayout(vk.NullHandle) {
		vk.DestroyPipelineLayout(g.device, g.layout, nil)
		g.layout = vk.PipelineLayout(vk.NullHandle)
	}
}
