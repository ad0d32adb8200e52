// Package assets reads the files the renderer needs at startup: images for
// textures and SPIR-V shader bytecode.
package assets

import (
	"fmt"
	"image"
	"io/fs"

	// Decoders for image.Decode.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"golang.org/x/image/draw"
)

// LoadImage decodes the PNG, JPEG, GIF, BMP or WebP image at path in fsys
// and returns it as RGBA pixels with the origin at (0, 0).
func LoadImage(fsys fs.FS, path string) (*image.RGBA, error) {
	f, err := fsys.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding image %s: %w", path, err)
	}

	return toRGBA(img), nil
}

// toRGBA returns img itself when it already has the right type and origin.
func toRGBA(img image.Image) *image.RGBA {
	bounds := img.Bounds()
	if rgba, ok := img.(*image.RGBA); ok && bounds.Min == (image.Point{}) {
		return rgba
	}

	rgba := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)
	return rgba
}
