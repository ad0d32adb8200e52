package main

import (
	"fmt"
	"log/slog"
	"math"
	"time"

	"vulkan-sprites/sprite"
	"vulkan-sprites/textures"
	"vulkan-sprites/window"

	"github.com/go-gl/glfw/v3.3/glfw"
	vk "github.com/vulkan-go/vulkan"
)

// Sprite layers, back to front.
const (
	layerGround uint32 = iota
	layerPickups
	layerShip
	layerText
)

const (
	// shipSpeed is in render target pixels per second.
	shipSpeed = 120

	gemCount  = 8
	coinCount = 5
)

// scene is the CPU side of every frame: it moves things around and queues
// the sprites that show them.
type scene struct {
	resolution vk.Extent2D
	sheet      sprite.Texture
	font       *sprite.Font
	now        func() time.Time

	started time.Time
	last    time.Time

	shipX       float32
	left, right bool

	fps fpsCounter
}

func newScene(resolution vk.Extent2D, sheet sprite.Texture, font *sprite.Font, now func() time.Time) *scene {
	start := now()
	return &scene{
		resolution: resolution,
		sheet:      sheet,
		font:       font,
		now:        now,
		started:    start,
		last:       start,
		shipX:      float32(resolution.Width-textures.SpriteSize) / 2,
		fps:        fpsCounter{since: start},
	}
}

// HandleEvents steers the ship with the arrow keys.
func (s *scene) HandleEvents(events []window.Event) {
	for _, e := range events {
		pressed := e.Kind == window.KeyPressed
		if e.Kind != window.KeyPressed && e.Kind != window.KeyReleased {
			continue
		}

		switch e.Key {
		case glfw.KeyLeft:
			s.left = pressed
		case glfw.KeyRight:
			s.right = pressed
		}
	}
}

// Prepare advances the scene to the current time and queues its sprites.
func (s *scene) Prepare(_ uint32, q *sprite.Queue) error {
	now := s.now()
	dt := now.Sub(s.last).Seconds()
	s.last = now

	if fps, ok := s.fps.tick(now); ok {
		slog.Debug("frame rate", "fps", fps)
	}

	s.moveShip(float32(dt))

	width, height := int32(s.resolution.Width), int32(s.resolution.Height)
	elapsed := now.Sub(s.started).Seconds()

	spacing := width / gemCount
	for i := int32(0); i < gemCount; i++ {
		x := i*spacing + (spacing-textures.SpriteSize)/2
		s.drawSprite(q, textures.Gem, x, height-textures.SpriteSize-8, layerGround)
	}

	spacing = width / coinCount
	for i := int32(0); i < coinCount; i++ {
		bob := int32(math.Round(10 * math.Sin(2*elapsed+float64(i))))
		x := i*spacing + (spacing-textures.SpriteSize)/2
		s.drawSprite(q, textures.Coin, x, height/3+bob, layerPickups)
	}

	s.drawSprite(q, textures.Heart, width-textures.SpriteSize-4, 4, layerPickups)
	s.drawSprite(q, textures.Ship, int32(s.shipX), height-2*textures.SpriteSize-16, layerShip)

	s.font.DrawText(q, fmt.Sprintf("FPS %d", s.fps.current), 4, 4, layerText)

	return nil
}

func (s *scene) moveShip(dt float32) {
	switch {
	case s.left && !s.right:
		s.shipX -= shipSpeed * dt
	case s.right && !s.left:
		s.shipX += shipSpeed * dt
	}

	maxX := float32(s.resolution.Width - textures.SpriteSize)
	s.shipX = min(max(s.shipX, 0), maxX)
}

func (s *scene) drawSprite(q *sprite.Queue, index int, x, y int32, layer uint32) {
	size := uint32(textures.SpriteSize)
	q.Enqueue(s.sheet,
		vk.Rect2D{
			Offset: vk.Offset2D{X: int32(index) * textures.SpriteSize},
			Extent: vk.Extent2D{Width: size, Height: size},
		},
		vk.Rect2D{
			Offset: vk.Offset2D{X: x, Y: y},
			Extent: vk.Extent2D{Width: size, Height: size},
		},
		layer,
	)
}

// fpsCounter counts frames over one second windows.
type fpsCounter struct {
	since   time.Time
	frames  int
	current int
}

// tick records a frame at now. When a second has passed since the window
// started it returns the window's rate and ok set.
func (c *fpsCounter) tick(now time.Time) (fps int, ok bool) {
	c.frames++

	elapsed := now.Sub(c.since)
	if elapsed < time.Second {
		return 0, false
	}

	c.current = int(math.Round(float64(c.frames) / elapsed.Seconds()))
	c.frames = 0
	c.since = now

	return c.current, true
}
