package sprite

import (
	"testing"

	"github.com/stretchr/testify/require"
	vk "github.com/vulkan-go/vulkan"
)

type recordedBlit struct {
	src     vk.Image
	srcRect vk.Rect2D
	dst     vk.Image
	dstRect vk.Rect2D
}

type recordingBlitter struct {
	blits []recordedBlit
}

func (r *recordingBlitter) Blit(src vk.Image, srcRect vk.Rect2D, dst vk.Image, dstRect vk.Rect2D) {
	r.blits = append(r.blits, recordedBlit{src, srcRect, dst, dstRect})
}

type namedTexture struct {
	name string
}

func (namedTexture) Image() vk.Image { return vk.NullImage }

func rect(x, y int32, w, h uint32) vk.Rect2D {
	return vk.Rect2D{
		Offset: vk.Offset2D{X: x, Y: y},
		Extent: vk.Extent2D{Width: w, Height: h},
	}
}

// dstXs returns the destination x offsets of the blits, which tell the
// sprites apart in these tests.
// bounds is a target large enough for every sprite in these tests.
var bounds = vk.Extent2D{Width: 320, Height: 240}

func dstXs(blits []recordedBlit) []int32 {
	out := make([]int32, len(blits))
	for i, b := range blits {
		out[i] = b.dstRect.Offset.X
	}
	return out
}

func TestQueueLayerOrdering(t *testing.T) {
	var (
		q       Queue
		blitter recordingBlitter
		tex     = namedTexture{"atlas"}
	)

	q.Enqueue(tex, rect(0, 0, 8, 8), rect(1, 0, 8, 8), 2) // A
	q.Enqueue(tex, rect(0, 0, 8, 8), rect(2, 0, 8, 8), 0) // B
	q.Enqueue(tex, rect(0, 0, 8, 8), rect(3, 0, 8, 8), 2) // C

	require.Equal(t, 3, q.Len())
	require.Equal(t, 3, q.Layers())

	n := q.FlushAsCommands(&blitter, vk.NullImage, bounds)
	require.Equal(t, 3, n)
	require.Equal(t, []int32{2, 1, 3}, dstXs(blitter.blits))

	entries := q.Entries()
	require.Len(t, entries, 3)
	require.Equal(t, uint32(0), entries[0].Layer)
	require.Equal(t, uint32(2), entries[2].Layer)
}

func TestQueueFlushCopiesRects(t *testing.T) {
	var (
		q       Queue
		blitter recordingBlitter
	)

	src := rect(7, 13, 7, 13)
	dst := rect(100, 50, 7, 13)
	q.Enqueue(namedTexture{"font"}, src, dst, 0)
	q.FlushAsCommands(&blitter, vk.NullImage, bounds)

	require.Len(t, blitter.blits, 1)
	require.Equal(t, src, blitter.blits[0].srcRect)
	require.Equal(t, dst, blitter.blits[0].dstRect)
}

func TestQueueLayersGrowLazily(t *testing.T) {
	var q Queue
	require.Zero(t, q.Layers())

	q.Enqueue(namedTexture{}, rect(0, 0, 1, 1), rect(0, 0, 1, 1), 4)
	require.Equal(t, 5, q.Layers())

	q.Enqueue(namedTexture{}, rect(0, 0, 1, 1), rect(0, 0, 1, 1), 1)
	require.Equal(t, 5, q.Layers())
	require.Equal(t, 2, q.Len())
}

func TestQueueClearIdempotent(t *testing.T) {
	var (
		q       Queue
		blitter recordingBlitter
	)

	q.Enqueue(namedTexture{}, rect(0, 0, 1, 1), rect(0, 0, 1, 1), 0)
	q.Enqueue(namedTexture{}, rect(0, 0, 1, 1), rect(0, 0, 1, 1), 3)
	q.FlushAsCommands(&blitter, vk.NullImage, bounds)

	q.Clear()
	require.Zero(t, q.Len())
	require.Empty(t, q.Entries())

	q.Clear()
	require.Zero(t, q.Len())
	require.Empty(t, q.Entries())

	blitter.blits = nil
	require.Zero(t, q.FlushAsCommands(&blitter, vk.NullImage, bounds))
	require.Empty(t, blitter.blits)
}

func TestQueueClearOnEmpty(t *testing.T) {
	var q Queue
	q.Clear()
	require.Zero(t, q.Len())
	require.Zero(t, q.Layers())
}

func TestQueueReuseAfterClear(t *testing.T) {
	var (
		q       Queue
		blitter recordingBlitter
	)

	q.Enqueue(namedTexture{}, rect(0, 0, 1, 1), rect(9, 0, 1, 1), 1)
	q.Clear()
	q.Enqueue(namedTexture{}, rect(0, 0, 1, 1), rect(5, 0, 1, 1), 1)
	q.FlushAsCommands(&blitter, vk.NullImage, bounds)

	require.Equal(t, []int32{5}, dstXs(blitter.blits))
}

func TestQueueFlushClipsToBounds(t *testing.T) {
	for idx, tc := range []struct {
		src, dst vk.Rect2D
		wantSrc  vk.Rect2D
		wantDst  vk.Rect2D
		skipped  bool
	}{
		{
			src: rect(14, 0, 7, 13), dst: rect(10, 20, 7, 13),
			wantSrc: rect(14, 0, 7, 13), wantDst: rect(10, 20, 7, 13),
		},
		{
			src: rect(14, 0, 7, 13), dst: rect(-3, 20, 7, 13),
			wantSrc: rect(17, 0, 4, 13), wantDst: rect(0, 20, 4, 13),
		},
		{
			src: rect(14, 0, 7, 13), dst: rect(318, 235, 7, 13),
			wantSrc: rect(14, 0, 2, 5), wantDst: rect(318, 235, 2, 5),
		},
		{
			// Scaled twice: each destination pixel cut removes half a
			// source pixel.
			src: rect(0, 0, 8, 8), dst: rect(-4, 0, 16, 16),
			wantSrc: rect(2, 0, 6, 8), wantDst: rect(0, 0, 12, 16),
		},
		{src: rect(0, 0, 7, 13), dst: rect(320, 0, 7, 13), skipped: true},
		{src: rect(0, 0, 7, 13), dst: rect(-7, 0, 7, 13), skipped: true},
		{src: rect(0, 0, 7, 13), dst: rect(0, -20, 7, 13), skipped: true},
		{src: rect(0, 0, 7, 13), dst: rect(0, 0, 0, 13), skipped: true},
	} {
		var (
			q       Queue
			blitter recordingBlitter
		)
		q.Enqueue(namedTexture{"font"}, tc.src, tc.dst, 0)
		n := q.FlushAsCommands(&blitter, vk.NullImage, bounds)

		if tc.skipped {
			require.Zero(t, n, "case %d", idx)
			require.Empty(t, blitter.blits, "case %d", idx)
			continue
		}
		require.Equal(t, 1, n, "case %d", idx)
		require.Equal(t, tc.wantSrc, blitter.blits[0].srcRect, "case %d", idx)
		require.Equal(t, tc.wantDst, blitter.blits[0].dstRect, "case %d", idx)
	}
}

func TestQueueFlushCountsOnlyRecordedBlits(t *testing.T) {
	var (
		q       Queue
		blitter recordingBlitter
	)
	q.Enqueue(namedTexture{}, rect(0, 0, 8, 8), rect(0, 0, 8, 8), 0)
	q.Enqueue(namedTexture{}, rect(0, 0, 8, 8), rect(400, 0, 8, 8), 1)

	require.Equal(t, 1, q.FlushAsCommands(&blitter, vk.NullImage, bounds))
	require.Equal(t, 2, q.Len())
}
