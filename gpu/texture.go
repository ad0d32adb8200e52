package gpu

import (
	"fmt"
	"image"

	vk "github.com/vulkan-go/vulkan"
)

// TextureFormat is the format RGBA pixel data is uploaded in. Decoded images
// are sRGB encoded, so sampling and blitting decode them to linear.
const TextureFormat = vk.FormatR8g8b8a8Srgb

// IsSRGB reports whether format is one of the 8 bit RGBA or BGRA sRGB
// formats used for textures and surfaces.
func IsSRGB(format vk.Format) bool {
	switch format {
	case vk.FormatR8g8b8a8Srgb, vk.FormatB8g8r8a8Srgb:
		return true
	default:
		return false
	}
}

// Texture is a device local image filled from decoded pixels.
type Texture struct {
	image *Image
}

// NewTexture uploads pixels into a new image and leaves it in layout, which
// is either the transfer source layout for blitting or the shader read layout
// for sampling.
func (c *Context) NewTexture(pixels *image.RGBA, layout vk.ImageLayout) (*Texture, error) {
	if layout != vk.ImageLayoutTransferSrcOptimal && layout != vk.ImageLayoutShaderReadOnlyOptimal {
		return nil, &UnsupportedTransitionError{Old: vk.ImageLayoutTransferDstOptimal, New: layout}
	}

	bounds := pixels.Bounds()
	if bounds.Empty() {
		return nil, fmt.Errorf("texture has no pixels")
	}
	data := packRGBA(pixels)

	staging, err := c.NewHostBuffer(
		vk.DeviceSize(len(data)),
		vk.BufferUsageFlags(vk.BufferUsageTransferSrcBit),
	)
	if err != nil {
		return nil, fmt.Errorf("creating the staging buffer: %w", err)
	}
	defer staging.Destroy()

	if err := staging.Write(data); err != nil {
		return nil, err
	}

	img, err := c.NewImage(ImageOptions{
		Format: TextureFormat,
		Extent: vk.Extent2D{
			Width:  uint32(bounds.Dx()),
			Height: uint32(bounds.Dy()),
		},
		Tiling: vk.ImageTilingOptimal,
		Usage: vk.ImageUsageFlags(vk.ImageUsageTransferSrcBit) |
			vk.ImageUsageFlags(vk.ImageUsageTransferDstBit) |
			vk.ImageUsageFlags(vk.ImageUsageSampledBit),
		Properties: vk.MemoryPropertyFlags(vk.MemoryPropertyDeviceLocalBit),
	})
	if err != nil {
		return nil, fmt.Errorf("creating texture image: %w", err)
	}

	err = c.OneTimeCommands(func(cmd *CommandBuffer) error {
		err := cmd.TransitionImage(img, vk.ImageLayoutUndefined, vk.ImageLayoutTransferDstOptimal)
		if err != nil {
			return err
		}

		cmd.CopyBufferToImage(staging.handle, img)

		return cmd.TransitionImage(img, vk.ImageLayoutTransferDstOptimal, layout)
	})
	if err != nil {
		img.Destroy()
		return nil, fmt.Errorf("uploading texture: %w", err)
	}

	return &Texture{image: img}, nil
}

// packRGBA returns the pixels as tightly packed rows.
func packRGBA(pixels *image.RGBA) []byte {
	bounds := pixels.Bounds()
	rowBytes := bounds.Dx() * 4

	if pixels.Stride == rowBytes && bounds.Min == (image.Point{}) {
		return pixels.Pix[:rowBytes*bounds.Dy()]
	}

	out := make([]byte, 0, rowBytes*bounds.Dy())
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		start := pixels.PixOffset(bounds.Min.X, y)
		out = append(out, pixels.Pix[start:start+rowBytes]...)
	}
	return out
}

// Image returns the Vulkan image, the handle sprite blits read from.
func (t *Texture) Image() vk.Image { return t.image.Handle() }

// View returns the view used for sampling.
func (t *Texture) View() vk.ImageView { return t.image.View() }

// Extent returns the size of the texture in pixels.
func (t *Texture) Extent() vk.Extent2D { return t.image.Extent }

// Layout returns the layout the texture rests in.
func (t *Texture) Layout() vk.ImageLayout { return t.image.Layout }

// Destroy releases the texture.
func (t *Texture) Destroy() {
	t.image.Destroy()
}
