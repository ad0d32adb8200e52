package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"vulkan-sprites/assets"
	"vulkan-sprites/geometry"
	"vulkan-sprites/gpu"
	"vulkan-sprites/models"
	"vulkan-sprites/render"
	"vulkan-sprites/shaders"
	"vulkan-sprites/sprite"
	"vulkan-sprites/swapchain"
	"vulkan-sprites/textures"
	"vulkan-sprites/window"

	vk "github.com/vulkan-go/vulkan"
)

const (
	title = "vulkan-sprites"

	// renderWidth and renderHeight are the internal resolution. The window
	// shows it scaled up by pixelScale.
	renderWidth  = 320
	renderHeight = 240
	pixelScale   = 3
)

// App draws a spinning cube with a sprite overlay until the window is
// closed.
type App struct {
	enableValidationLayers bool
	shadersDir             string

	window   *window.Window
	ctx      *gpu.Context
	renderer *render.Renderer
	scene    *scene
}

// Run runs the program.
func (a *App) Run() error {
	if err := a.initWindow(); err != nil {
		return fmt.Errorf("initWindow: %w", err)
	}
	defer a.cleanWindow()

	defer a.cleanVulkan()
	if err := a.initVulkan(); err != nil {
		return fmt.Errorf("initVulkan: %w", err)
	}

	if err := a.initScene(); err != nil {
		return fmt.Errorf("initScene: %w", err)
	}

	if err := a.mainLoop(); err != nil {
		return fmt.Errorf("mainLoop: %w", err)
	}

	return nil
}

func (a *App) initWindow() error {
	w, err := window.New(renderWidth*pixelScale, renderHeight*pixelScale, title)
	if err != nil {
		return err
	}

	a.window = w
	return nil
}

func (a *App) cleanWindow() {
	a.window.Destroy()
}

func (a *App) initVulkan() error {
	var err error

	a.ctx, err = gpu.New(gpu.DefaultConfig(title, a.enableValidationLayers), a.window)
	if err != nil {
		return fmt.Errorf("creating device context: %w", err)
	}

	shaderCode, err := shaders.Load(os.DirFS(a.shadersDir))
	if err != nil {
		return fmt.Errorf("loading shaders from %s: %w", a.shadersDir, err)
	}

	mesh, err := loadCube()
	if err != nil {
		return err
	}

	crate, err := assets.LoadImage(textures.FS, textures.Crate)
	if err != nil {
		return err
	}

	a.renderer, err = render.New(a.ctx, render.Config{
		Resolution: vk.Extent2D{Width: renderWidth, Height: renderHeight},
		Swapchain: swapchain.DefaultConfig(
			a.window.FramebufferSize(),
			3,
		),
		Shaders:     shaderCode,
		Mesh:        mesh,
		MeshTexture: crate,
		ClearColor:  [4]float32{0.05, 0.05, 0.1, 1},
		Prepare: func(image uint32, q *sprite.Queue) error {
			return a.scene.Prepare(image, q)
		},
	})
	if err != nil {
		return fmt.Errorf("creating renderer: %w", err)
	}

	return nil
}

func loadCube() (geometry.Mesh, error) {
	f, err := models.FS.Open(models.Cube)
	if err != nil {
		return geometry.Mesh{}, fmt.Errorf("opening model: %w", err)
	}
	defer f.Close()

	mesh, err := geometry.LoadOBJ(f)
	if err != nil {
		return geometry.Mesh{}, fmt.Errorf("loading %s: %w", models.Cube, err)
	}
	return mesh, nil
}

func (a *App) initScene() error {
	sheetPixels, err := assets.LoadImage(textures.FS, textures.Sprites)
	if err != nil {
		return err
	}
	sheet, err := a.renderer.NewSpriteTexture(sheetPixels)
	if err != nil {
		return err
	}

	atlas, glyph := sprite.NewFontAtlas()
	fontTexture, err := a.renderer.NewSpriteTexture(atlas)
	if err != nil {
		return err
	}

	a.scene = newScene(
		a.renderer.Resolution(),
		sheet,
		&sprite.Font{Texture: fontTexture, Glyph: glyph},
		time.Now,
	)
	return nil
}

func (a *App) mainLoop() error {
	for !a.window.QuitRequested() {
		a.scene.HandleEvents(a.window.PollEvents())

		if err := a.renderer.RenderNextFrame(); err != nil {
			return err
		}
	}

	slog.Info("quitting", "frames", a.renderer.FrameCount())
	return a.renderer.WaitIdle()
}

func (a *App) cleanVulkan() {
	if a.renderer != nil {
		a.renderer.Destroy()
	}
	if a.ctx != nil {
		a.ctx.Destroy()
	}
}
