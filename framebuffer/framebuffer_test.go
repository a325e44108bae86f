package framebuffer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/richinsley/glframework/graphics"
	"github.com/richinsley/glframework/graphics/graphicstest"
	"github.com/richinsley/glframework/texture"
)

func TestCreateWithDepthRenderbuffer(t *testing.T) {
	gl := graphicstest.NewGL()
	color := texture.CreateNPOT(gl, 128, 64, true)

	fb := New(color.ID)
	require.NoError(t, fb.Create(gl, 128, 64))
	assert.NotZero(t, fb.Handle())
	assert.NotZero(t, fb.Depthbuffer())
	assert.Equal(t, 1, gl.Called("RenderbufferStorage 0x81a5 128x64"))
	assert.Equal(t, 1, gl.Called("FramebufferTexture2D 0x8ce0"))

	fb.Bind(gl)
	assert.Equal(t, [4]int32{0, 0, 128, 64}, gl.Viewports[len(gl.Viewports)-1])

	fb.Destroy(gl)
	fb.Destroy(gl)
	assert.Equal(t, 1, gl.Called("DeleteFramebuffer"))
	assert.Equal(t, 1, gl.Called("DeleteRenderbuffer"))
}

func TestCreateWithDepthTexture(t *testing.T) {
	gl := graphicstest.NewGL()
	color := texture.CreateNPOT(gl, 32, 32, false)
	depth := texture.CreateDepth(gl, 32, 32)

	fb := New(color.ID)
	fb.DepthTexture = depth.ID
	require.NoError(t, fb.Create(gl, 32, 32))
	assert.Zero(t, fb.Depthbuffer())
	assert.Zero(t, gl.Called("CreateRenderbuffer"))
	assert.Equal(t, 1, gl.Called("FramebufferTexture2D 0x8d00"))
}

func TestCreateIncomplete(t *testing.T) {
	gl := graphicstest.NewGL()
	gl.FramebufferStatus = 0x8CD6
	fb := New(texture.CreateNPOT(gl, 8, 8, false).ID)

	err := fb.Create(gl, 8, 8)
	assert.ErrorIs(t, err, ErrIncomplete)
}

func TestCreateWithoutTextureIsNoop(t *testing.T) {
	gl := graphicstest.NewGL()
	fb := New(0)
	require.NoError(t, fb.Create(gl, 8, 8))
	assert.Zero(t, fb.Handle())
	assert.Zero(t, gl.Called("CreateFramebuffer"))
	assert.Equal(t, 8, fb.Width())
}

func TestCreateDrainsErrors(t *testing.T) {
	gl := graphicstest.NewGL()
	gl.Errors = []graphics.Enum{0x0500, 0x0502}
	fb := New(texture.CreateNPOT(gl, 8, 8, false).ID)
	require.NoError(t, fb.Create(gl, 8, 8))
	assert.Empty(t, gl.Errors)
}
