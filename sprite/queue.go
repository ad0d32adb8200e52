// Package sprite collects the 2D overlay drawn on top of the 3D pass. Draw
// calls made during a frame are queued per layer and turned into image blits
// when the frame is recorded.
package sprite

import (
	vk "github.com/vulkan-go/vulkan"
)

// Texture is anything a sprite can be copied from. The image must be in the
// transfer source layout whenever blits reading it execute.
type Texture interface {
	Image() vk.Image
}

// Blitter records one nearest filtered image copy.
type Blitter interface {
	Blit(src vk.Image, srcRect vk.Rect2D, dst vk.Image, dstRect vk.Rect2D)
}

// Entry is a single queued sprite.
type Entry struct {
	Texture Texture
	Src     vk.Rect2D
	Dst     vk.Rect2D
	Layer   uint32
}

// Queue holds the sprites of one frame, bucketed by layer. Lower layers are
// drawn first and so end up below higher ones. Within a layer sprites are
// drawn in the order they were queued.
//
// Queued entries only hold references to their textures. The caller keeps
// the textures alive until the commands recorded from the queue have
// finished executing.
type Queue struct {
	layers [][]Entry
	count  int
}

// Enqueue adds a sprite copying src out of texture onto dst. Using a layer
// for the first time makes every layer below it available too.
func (q *Queue) Enqueue(texture Texture, src, dst vk.Rect2D, layer uint32) {
	for uint32(len(q.layers)) <= layer {
		q.layers = append(q.layers, nil)
	}

	q.layers[layer] = append(q.layers[layer], Entry{
		Texture: texture,
		Src:     src,
		Dst:     dst,
		Layer:   layer,
	})
	q.count++
}

// FlushAsCommands records one blit per queued sprite onto dst, layer by
// layer, and returns how many it recorded. Destinations are clipped to
// bounds, the extent of dst, with the source cut by the same proportion;
// sprites entirely outside are skipped. dst must be in the transfer
// destination layout when the commands execute. The queue is left
// untouched; call Clear once the commands have been submitted.
func (q *Queue) FlushAsCommands(blitter Blitter, dst vk.Image, bounds vk.Extent2D) int {
	n := 0
	for _, layer := range q.layers {
		for _, entry := range layer {
			src, dstRect, ok := clip(entry.Src, entry.Dst, bounds)
			if !ok {
				continue
			}
			blitter.Blit(entry.Texture.Image(), src, dst, dstRect)
			n++
		}
	}
	return n
}

// clip cuts dst down to bounds and src along with it.
func clip(src, dst vk.Rect2D, bounds vk.Extent2D) (vk.Rect2D, vk.Rect2D, bool) {
	dx, dw, sx, sw, ok := clipSpan(dst.Offset.X, dst.Extent.Width, bounds.Width, src.Offset.X, src.Extent.Width)
	if !ok {
		return vk.Rect2D{}, vk.Rect2D{}, false
	}
	dy, dh, sy, sh, ok := clipSpan(dst.Offset.Y, dst.Extent.Height, bounds.Height, src.Offset.Y, src.Extent.Height)
	if !ok {
		return vk.Rect2D{}, vk.Rect2D{}, false
	}

	return vk.Rect2D{
			Offset: vk.Offset2D{X: sx, Y: sy},
			Extent: vk.Extent2D{Width: sw, Height: sh},
		}, vk.Rect2D{
			Offset: vk.Offset2D{X: dx, Y: dy},
			Extent: vk.Extent2D{Width: dw, Height: dh},
		}, true
}

// clipSpan clips the destination span [dstOff, dstOff+dstLen) to [0, bound)
// on one axis and scales the cut onto the source span.
func clipSpan(
	dstOff int32, dstLen, bound uint32,
	srcOff int32, srcLen uint32,
) (int32, uint32, int32, uint32, bool) {
	if dstLen == 0 || srcLen == 0 {
		return 0, 0, 0, 0, false
	}

	start, end := int64(dstOff), int64(dstOff)+int64(dstLen)
	lo, hi := max(start, 0), min(end, int64(bound))
	if hi <= lo {
		return 0, 0, 0, 0, false
	}

	n, m := int64(dstLen), int64(srcLen)
	srcStart := int64(srcOff) + (lo-start)*m/n
	srcEnd := int64(srcOff) + m - (end-hi)*m/n
	if srcEnd <= srcStart {
		return 0, 0, 0, 0, false
	}

	return int32(lo), uint32(hi - lo), int32(srcStart), uint32(srcEnd - srcStart), true
}

// Entries returns the queued sprites in drawing order.
func (q *Queue) Entries() []Entry {
	out := make([]Entry, 0, q.count)
	for _, layer := range q.layers {
		out = append(out, layer...)
	}
	return out
}

// Clear drops every queued sprite and the texture references they hold.
// Clearing an empty queue does nothing.
func (q *Queue) Clear() {
	for i := range q.layers {
		clear(q.layers[i])
		q.layers[i] = q.layers[i][:0]
	}
	q.count = 0
}

// Len returns the number of queued sprites.
func (q *Queue) Len() int { return q.count }

// Layers returns the number of layer buckets: one more than the highest
// layer used so far. Buckets are kept across Clear so that their storage is
// reused by the next frame.
func (q *Queue) Layers() int { return len(q.layers) }
