// Package gpu owns the Vulkan instance, the logical device and its queues,
// and provides one owning wrapper type per kind of device resource.
package gpu

import (
	"fmt"
	"unsafe"

	"vulkan-sprites/queues"

	vk "github.com/vulkan-go/vulkan"
)

// SurfaceSource is the windowing side of device creation. It tells which
// instance extensions presenting needs and creates the surface once the
// instance exists.
type SurfaceSource interface {
	InstanceProcAddr() unsafe.Pointer
	RequiredInstanceExtensions() []string
	CreateSurface(instance vk.Instance) (vk.Surface, error)
}

// Context is the device context: instance, surface, physical and logical
// device, the graphics and present queues and the command pool every command
// buffer is allocated from.
type Context struct {
	cfg Config

	instance      vk.Instance
	debugCallback vk.DebugReportCallback
	surface       vk.Surface

	physicalDevice vk.PhysicalDevice
	deviceName     string
	memory         vk.PhysicalDeviceMemoryProperties
	families       queues.FamilyIndices

	device        vk.Device
	graphicsQueue vk.Queue
	presentQueue  vk.Queue
	commandPool   vk.CommandPool
}

// New creates a device context presenting to the surface made by src. On
// error everything created so far is released.
func New(cfg Config, src SurfaceSource) (*Context, error) {
	vk.SetGetInstanceProcAddr(src.InstanceProcAddr())
	if err := vk.Init(); err != nil {
		return nil, fmt.Errorf("failed to init Vulkan Go: %w", err)
	}

	c := &Context{
		cfg:            cfg,
		physicalDevice: vk.PhysicalDevice(vk.NullHandle),
		device:         vk.Device(vk.NullHandle),
		surface:        vk.NullSurface,
		debugCallback:  vk.NullDebugReportCallback,
		commandPool:    vk.CommandPool(vk.NullHandle),
	}

	if err := c.init(src); err != nil {
		c.Destroy()
		return nil, err
	}

	return c, nil
}

func (c *Context) init(src SurfaceSource) error {
	if err := c.createInstance(src.RequiredInstanceExtensions()); err != nil {
		return fmt.Errorf("createInstance: %w", err)
	}

	if c.cfg.EnableValidation {
		if err := c.setupDebugCallback(); err != nil {
			return fmt.Errorf("setupDebugCallback: %w", err)
		}
	}

	surface, err := src.CreateSurface(c.instance)
	if err != nil {
		return fmt.Errorf("createSurface: %w", err)
	}
	c.surface = surface

	if err := c.pickPhysicalDevice(); err != nil {
		return fmt.Errorf("pickPhysicalDevice: %w", err)
	}

	if err := c.createLogicalDevice(); err != nil {
		return fmt.Errorf("createLogicalDevice: %w", err)
	}

	if err := c.createCommandPool(); err != nil {
		return fmt.Errorf("createCommandPool: %w", err)
	}

	return nil
}

// Destroy releases the context. Every resource created from it must have been
// destroyed before.
func (c *Context) Destroy() {
	if c.commandPool != vk.CommandPool(vk.NullHandle) {
		vk.DestroyCommandPool(c.device, c.commandPool, nil)
		c.commandPool = vk.CommandPool(vk.NullHandle)
	}
	if c.device != vk.Device(vk.NullHandle) {
		vk.DestroyDevice(c.device, nil)
		c.device = vk.Device(vk.NullHandle)
	}
	if c.surface != vk.NullSurface {
		vk.DestroySurface(c.instance, c.surface, nil)
		c.surface = vk.NullSurface
	}
	if c.debugCallback != vk.NullDebugReportCallback {
		vk.DestroyDebugReportCallback(c.instance, c.debugCallback, nil)
		c.debugCallback = vk.NullDebugReportCallback
	}
	if c.instance != nil {
		vk.DestroyInstance(c.instance, nil)
		c.instance = nil
	}
}

// WaitIdle blocks until the device has finished all submitted work.
func (c *Context) WaitIdle() error {
	if err := vk.Error(vk.DeviceWaitIdle(c.device)); err != nil {
		return fmt.Errorf("waiting for device idle: %w", err)
	}
	return nil
}

// Device returns the logical device handle.
func (c *Context) Device() vk.Device { return c.device }

// PhysicalDevice returns the selected physical device.
func (c *Context) PhysicalDevice() vk.PhysicalDevice { return c.physicalDevice }

// Surface returns the presentation surface.
func (c *Context) Surface() vk.Surface { return c.surface }

// Families returns the queue families the logical device was created with.
func (c *Context) Families() queues.FamilyIndices { return c.families }

// GraphicsQueue returns the queue all command buffers are submitted to.
func (c *Context) GraphicsQueue() vk.Queue { return c.graphicsQueue }

// PresentQueue returns the queue used for presenting swapchain images.
func (c *Context) PresentQueue() vk.Queue { return c.presentQueue }

// CommandPool returns the pool command buffers are allocated from.
func (c *Context) CommandPool() vk.CommandPool { return c.commandPool }

func (c *Context) createInstance(windowExtensions []string) error {
	if c.cfg.EnableValidation {
		available, err := instanceLayers()
		if err != nil {
			return err
		}
		if missing := containsAll(available, c.cfg.RequiredLayers); len(missing) > 0 {
			return fmt.Errorf("validation layers requested but not available: %v", missing)
		}
	}

	appInfo := vk.ApplicationInfo{
		SType:              vk.StructureTypeApplicationInfo,
		PApplicationName:   cString(c.cfg.AppName),
		ApplicationVersion: vk.MakeVersion(1, 0, 0),
		PEngineName:        "No Engine\x00",
		EngineVersion:      vk.MakeVersion(1, 0, 0),
		ApiVersion:         vk.ApiVersion10,
	}

	extensions := cStrings(windowExtensions)
	if c.cfg.EnableValidation {
		extensions = append(extensions, cString(vk.ExtDebugReportExtensionName))
	}

	createInfo := vk.InstanceCreateInfo{
		SType:                   vk.StructureTypeInstanceCreateInfo,
		PApplicationInfo:        &appInfo,
		EnabledExtensionCount:   uint32(len(extensions)),
		PpEnabledExtensionNames: extensions,
	}

	if c.cfg.EnableValidation {
		layers := cStrings(c.cfg.RequiredLayers)
		createInfo.EnabledLayerCount = uint32(len(layers))
		createInfo.PpEnabledLayerNames = layers
	}

	var instance vk.Instance
	if err := vk.Error(vk.CreateInstance(&createInfo, nil, &instance)); err != nil {
		return fmt.Errorf("failed to create Vulkan instance: %w", err)
	}
	c.instance = instance

	if err := vk.InitInstance(instance); err != nil {
		return fmt.Errorf("failed to load instance functions: %w", err)
	}

	return nil
}

func (c *Context) createLogicalDevice() error {
	if !c.families.IsComplete() {
		return fmt.Errorf("physical device does not have all the queues required")
	}

	queueCreateInfos := []vk.DeviceQueueCreateInfo{}
	for _, familyIndex := range c.families.Unique() {
		queueCreateInfos = append(
			queueCreateInfos,
			vk.DeviceQueueCreateInfo{
				SType:            vk.StructureTypeDeviceQueueCreateInfo,
				QueueFamilyIndex: familyIndex,
				QueueCount:       1,
				PQueuePriorities: []float32{1.0},
			},
		)
	}

	deviceFeatures := []vk.PhysicalDeviceFeatures{{}}
	extensions := cStrings(c.cfg.RequiredExtensions)

	createInfo := vk.DeviceCreateInfo{
		SType:            vk.StructureTypeDeviceCreateInfo,
		PEnabledFeatures: deviceFeatures,

		PQueueCreateInfos:    queueCreateInfos,
		QueueCreateInfoCount: uint32(len(queueCreateInfos)),

		EnabledExtensionCount:   uint32(len(extensions)),
		PpEnabledExtensionNames: extensions,
	}

	if c.cfg.EnableValidation {
		layers := cStrings(c.cfg.RequiredLayers)
		createInfo.PpEnabledLayerNames = layers
		createInfo.EnabledLayerCount = uint32(len(layers))
	}

	var device vk.Device
	err := vk.Error(vk.CreateDevice(c.physicalDevice, &createInfo, nil, &device))
	if err != nil {
		return fmt.Errorf("failed to create logical device: %w", err)
	}
	c.device = device

	var graphicsQueue vk.Queue
	vk.GetDeviceQueue(c.device, c.families.Graphics.Get(), 0, &graphicsQueue)
	c.graphicsQueue = graphicsQueue

	var presentQueue vk.Queue
	vk.GetDeviceQueue(c.device, c.families.Present.Get(), 0, &presentQueue)
	c.presentQueue = presentQueue

	return nil
}

func (c *Context) createCommandPool() error {
	poolInfo := vk.CommandPoolCreateInfo{
		SType: vk.StructureTypeCommandPoolCreateInfo,
		Flags: vk.CommandPoolCreateFlags(
			vk.CommandPoolCreateResetCommandBufferBit,
		),
		QueueFamilyIndex: c.families.Graphics.Get(),
	}

	var commandPool vk.CommandPool
	res := vk.CreateCommandPool(c.device, &poolInfo, nil, &commandPool)
	if err := vk.Error(res); err != nil {
		return fmt.Errorf("failed to create command pool: %w", err)
	}
	c.commandPool = commandPool

	return nil
}

func instanceLayers() ([]string, error) {
	var count uint32
	if err := vk.Error(vk.EnumerateInstanceLayerProperties(&count, nil)); err != nil {
		return nil, fmt.Errorf("counting instance layers: %w", err)
	}

	availableLayers := make([]vk.LayerProperties, count)
	if err := vk.Error(vk.EnumerateInstanceLayerProperties(&count, availableLayers)); err != nil {
		return nil, fmt.Errorf("enumerating instance layers: %w", err)
	}

	names := make([]string, 0, count)
	for _, layer := range availableLayers {
		layer.Deref()
		names = append(names, vk.ToString(layer.LayerName[:]))
	}

	return names, nil
}
