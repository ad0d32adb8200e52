// Package window opens the GLFW window the renderer presents to and turns
// its input callbacks into polled events.
package window

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/glfw/v3.3/glfw"
	vk "github.com/vulkan-go/vulkan"
)

// Window is a fixed size window without a client API. It implements
// gpu.SurfaceSource.
type Window struct {
	handle *glfw.Window
	events eventQueue
}

// New initializes GLFW and opens a non-resizable window of width x height
// screen coordinates. It must be called from the main OS thread.
func New(width, height int, title string) (*Window, error) {
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("glfw.Init: %w", err)
	}

	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	glfw.WindowHint(glfw.Resizable, glfw.False)

	handle, err := glfw.CreateWindow(width, height, title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("creating window: %w", err)
	}

	w := &Window{handle: handle}
	handle.SetKeyCallback(w.onKey)
	handle.SetCloseCallback(w.onClose)

	return w, nil
}

func (w *Window) onKey(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
	switch action {
	case glfw.Press:
		w.events.push(Event{Kind: KeyPressed, Key: key})
	case glfw.Release:
		w.events.push(Event{Kind: KeyReleased, Key: key})
	}
}

func (w *Window) onClose(_ *glfw.Window) {
	w.events.push(Event{Kind: CloseRequested})
}

// PollEvents processes pending window system events and returns the ones
// received since the last call.
func (w *Window) PollEvents() []Event {
	glfw.PollEvents()
	return w.events.drain()
}

// QuitRequested reports whether escape was pressed or the window was asked
// to close.
func (w *Window) QuitRequested() bool {
	return w.events.quit
}

// FramebufferSize returns the size of the window in pixels.
func (w *Window) FramebufferSize() vk.Extent2D {
	width, height := w.handle.GetFramebufferSize()
	return vk.Extent2D{Width: uint32(width), Height: uint32(height)}
}

// InstanceProcAddr returns the Vulkan loader entry point GLFW found.
func (w *Window) InstanceProcAddr() unsafe.Pointer {
	return glfw.GetVulkanGetInstanceProcAddress()
}

// RequiredInstanceExtensions lists the instance extensions presenting to the
// window needs.
func (w *Window) RequiredInstanceExtensions() []string {
	return w.handle.GetRequiredInstanceExtensions()
}

// CreateSurface creates the window's Vulkan surface.
func (w *Window) CreateSurface(instance vk.Instance) (vk.Surface, error) {
	surfacePtr, err := w.handle.CreateWindowSurface(instance, nil)
	if err != nil {
		return vk.NullSurface, fmt.Errorf("creating window surface: %w", err)
	}
	return vk.SurfaceFromPointer(surfacePtr), nil
}

// Destroy closes the window and terminates GLFW.
func (w *Window) Destroy() {
	w.handle.Destroy()
	glfw.Terminate()
}
