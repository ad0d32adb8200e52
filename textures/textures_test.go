package textures

import (
	"image"
	"testing"

	"vulkan-sprites/assets"

	"github.com/stretchr/testify/require"
)

func TestTexturesDecode(t *testing.T) {
	for idx, tc := range []struct {
		name string
		size image.Point
	}{
		{name: Sprites, size: image.Pt(4*SpriteSize, SpriteSize)},
		{name: Crate, size: image.Pt(64, 64)},
	} {
		img, err := assets.LoadImage(FS, tc.name)
		require.NoError(t, err, "case %d", idx)
		require.Equal(t, tc.size, img.Bounds().Size(), "case %d", idx)
	}
}
