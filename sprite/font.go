package sprite

import (
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	vk "github.com/vulkan-go/vulkan"
)

const (
	// FirstGlyph is the first character in a font atlas.
	FirstGlyph = ' '
	// LastGlyph is the last character in a font atlas.
	LastGlyph = '~'
	// AtlasColumns is the number of glyphs per atlas row.
	AtlasColumns = 32
)

// Font draws text with fixed size glyphs laid out in a texture atlas of
// AtlasColumns columns, starting at FirstGlyph.
type Font struct {
	Texture Texture
	Glyph   vk.Extent2D
}

// GlyphRect returns where ch is in the atlas. ok is false for characters the
// atlas does not have.
func (f *Font) GlyphRect(ch rune) (rect vk.Rect2D, ok bool) {
	if ch < FirstGlyph || ch > LastGlyph {
		return vk.Rect2D{}, false
	}

	n := int32(ch - FirstGlyph)
	return vk.Rect2D{
		Offset: vk.Offset2D{
			X: (n % AtlasColumns) * int32(f.Glyph.Width),
			Y: (n / AtlasColumns) * int32(f.Glyph.Height),
		},
		Extent: f.Glyph,
	}, true
}

// DrawChar queues ch with its top left corner at x, y. Characters the atlas
// lacks are skipped.
func (f *Font) DrawChar(q *Queue, ch rune, x, y int32, layer uint32) {
	src, ok := f.GlyphRect(ch)
	if !ok {
		return
	}

	q.Enqueue(f.Texture, src, vk.Rect2D{
		Offset: vk.Offset2D{X: x, Y: y},
		Extent: f.Glyph,
	}, layer)
}

// DrawText queues text starting at x, y. A newline moves back to x one glyph
// lower. Text running off the target is clipped when the queue is flushed.
func (f *Font) DrawText(q *Queue, text string, x, y int32, layer uint32) {
	cx, cy := x, y
	for _, ch := range text {
		if ch == '\n' {
			cx = x
			cy += int32(f.Glyph.Height)
			continue
		}

		f.DrawChar(q, ch, cx, cy, layer)
		cx += int32(f.Glyph.Width)
	}
}

// NewFontAtlas rasterizes the printable ASCII range of the built in 7x13
// bitmap face into an atlas image, white glyphs on a transparent
// background. It returns the image and the size of one glyph cell.
func NewFontAtlas() (*image.RGBA, vk.Extent2D) {
	face := basicfont.Face7x13
	glyph := vk.Extent2D{
		Width:  uint32(face.Advance),
		Height: uint32(face.Height),
	}

	count := int(LastGlyph-FirstGlyph) + 1
	rows := (count + AtlasColumns - 1) / AtlasColumns

	atlas := image.NewRGBA(image.Rect(0, 0, AtlasColumns*int(glyph.Width), rows*int(glyph.Height)))
	draw.Draw(atlas, atlas.Bounds(), image.Transparent, image.Point{}, draw.Src)

	drawer := font.Drawer{
		Dst:  atlas,
		Src:  image.NewUniform(color.White),
		Face: face,
	}

	for i := 0; i < count; i++ {
		col, row := i%AtlasColumns, i/AtlasColumns
		drawer.Dot = fixed.P(
			col*int(glyph.Width),
			row*int(glyph.Height)+face.Ascent,
		)
		drawer.DrawString(string(rune(FirstGlyph + i)))
	}

	return atlas, glyph
}
