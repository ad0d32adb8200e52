package render

import (
	"testing"
	"time"

	"vulkan-sprites/frame"
	"vulkan-sprites/unsafer"

	"github.com/stretchr/testify/require"
	vk "github.com/vulkan-go/vulkan"
	"github.com/xlab/linmath"
)

func TestNewUniformsAtRest(t *testing.T) {
	u := NewUniforms(0, 4.0/3.0)

	var identity linmath.Mat4x4
	identity.Identity()
	require.Equal(t, identity, u.Model)

	require.Less(t, u.Proj[1][1], float32(0), "projection must flip Y")
	require.InDelta(t, -u.Proj[1][1], u.Proj[0][0]*4.0/3.0, 1e-5)
}

func TestNewUniformsRotates(t *testing.T) {
	at0 := NewUniforms(0, 1)
	at1 := NewUniforms(time.Second, 1)

	require.NotEqual(t, at0.Model, at1.Model)
	require.Equal(t, at0.View, at1.View)
	require.Equal(t, at0.Proj, at1.Proj)

	// Rotation about Z leaves the Z axis alone.
	require.InDelta(t, 1, at1.Model[2][2], 1e-6)
}

func TestUniformsSize(t *testing.T) {
	var u Uniforms
	require.Len(t, unsafer.StructToBytes(&u), 3*16*4)
}

type foreignSemaphore struct{}

func (foreignSemaphore) Destroy() {}

type foreignFence struct{}

func (foreignFence) Wait() error  { return nil }
func (foreignFence) Reset() error { return nil }
func (foreignFence) Destroy()     {}

type foreignBuffer struct{}

func (foreignBuffer) Free() {}

func TestForeignHandlesRejected(t *testing.T) {
	_, err := semaphoreHandle(foreignSemaphore{})
	require.EqualError(t, err, "semaphore of type render.foreignSemaphore was not created by this device")

	_, err = fenceHandle(foreignFence{})
	require.EqualError(t, err, "fence of type render.foreignFence was not created by this device")

	_, err = commandBufferHandle(foreignBuffer{})
	require.EqualError(t, err, "command buffer of type render.foreignBuffer was not recorded by this device")

	_, err = fenceHandle(nil)
	require.NoError(t, err)

	d := &device{}
	err = d.Submit(frame.Submission{
		Wait:   foreignSemaphore{},
		Signal: foreignSemaphore{},
		Buffer: foreignBuffer{},
	})
	require.Error(t, err)
}

func TestNewValidatesConfig(t *testing.T) {
	for idx, tc := range []struct {
		cfg Config
		err string
	}{
		{
			cfg: Config{Resolution: vk.Extent2D{Width: 0, Height: 240}},
			err: "invalid resolution 0x240",
		},
		{
			cfg: Config{Resolution: vk.Extent2D{Width: 320, Height: 240}},
			err: "mesh texture is required",
		},
	} {
		_, err := New(nil, tc.cfg)
		require.EqualError(t, err, tc.err, "case %d", idx)
	}
}
