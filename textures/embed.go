package textures

import "embed"

// FS contains the textures drawn by the renderer. It makes it possible to
// generate a binary and just copy it to another machine.
//
//go:embed sprites.png
//go:embed crate.png
var FS embed.FS

// Names of the textures in FS.
const (
	// Sprites is a strip of 16x16 sprites.
	Sprites = "sprites.png"

	// Crate is sampled by the cube.
	Crate = "crate.png"
)

// SpriteSize is the edge length of one sprite in Sprites.
const SpriteSize = 16

// Sprite indices in Sprites.
const (
	Ship = iota
	Coin
	Heart
	Gem
)
