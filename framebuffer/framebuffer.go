// Package framebuffer wraps an off-screen render target: a color texture plus
// a depth renderbuffer or depth texture.
package framebuffer

import (
	"errors"
	"fmt"
	"log"

	"github.com/richinsley/glframework/graphics"
)

var ErrIncomplete = errors.New("framebuffer incomplete")

// FrameBuffer renders into ColorTexture. When DepthTexture is set before
// Create it is attached as the depth buffer, otherwise a DEPTH_COMPONENT16
// renderbuffer is allocated.
type FrameBuffer struct {
	ColorTexture uint32
	DepthTexture uint32

	framebuffer uint32
	depthbuffer uint32
	width       int
	height      int
}

// New returns a framebuffer for an existing color texture.
func New(colorTexture uint32) *FrameBuffer {
	return &FrameBuffer{ColorTexture: colorTexture}
}

// Create allocates the GL objects. It does nothing without a color texture or
// with an empty size.
func (fb *FrameBuffer) Create(gl graphics.GL, width, height int) error {
	fb.width, fb.height = width, height
	if fb.ColorTexture == 0 || width <= 0 || height <= 0 {
		return nil
	}

	fb.framebuffer = gl.CreateFramebuffer()
	gl.BindTexture(graphics.TEXTURE_2D, fb.ColorTexture)
	gl.BindFramebuffer(graphics.FRAMEBUFFER, fb.framebuffer)
	gl.FramebufferTexture2D(graphics.FRAMEBUFFER, graphics.COLOR_ATTACHMENT0, graphics.TEXTURE_2D, fb.ColorTexture, 0)
	graphics.CheckError(gl, "FB")

	if fb.DepthTexture == 0 {
		fb.depthbuffer = gl.CreateRenderbuffer()
		gl.BindRenderbuffer(graphics.RENDERBUFFER, fb.depthbuffer)
		graphics.CheckError(gl, "FB - glBindRenderbuffer")
		gl.RenderbufferStorage(graphics.RENDERBUFFER, graphics.DEPTH_COMPONENT16, int32(width), int32(height))
		graphics.CheckError(gl, "FB - glRenderbufferStorage")
		gl.FramebufferRenderbuffer(graphics.FRAMEBUFFER, graphics.DEPTH_ATTACHMENT, graphics.RENDERBUFFER, fb.depthbuffer)
		graphics.CheckError(gl, "FB - glFramebufferRenderbuffer")
	} else {
		gl.BindTexture(graphics.TEXTURE_2D, fb.DepthTexture)
		gl.FramebufferTexture2D(graphics.FRAMEBUFFER, graphics.DEPTH_ATTACHMENT, graphics.TEXTURE_2D, fb.DepthTexture, 0)
		graphics.CheckError(gl, "FB depth")
	}

	status := gl.CheckFramebufferStatus(graphics.FRAMEBUFFER)

	gl.BindRenderbuffer(graphics.RENDERBUFFER, 0)
	gl.BindFramebuffer(graphics.FRAMEBUFFER, 0)

	if status != graphics.FRAMEBUFFER_COMPLETE {
		log.Printf("Error creating framebuffer: 0x%04x", status)
		return fmt.Errorf("%w: status 0x%04x", ErrIncomplete, status)
	}
	return nil
}

// Bind directs rendering into the framebuffer and sets the viewport to its size.
func (fb *FrameBuffer) Bind(gl graphics.GL) {
	gl.BindFramebuffer(graphics.FRAMEBUFFER, fb.framebuffer)
	gl.Viewport(0, 0, int32(fb.width), int32(fb.height))
}

// Unbind restores the default framebuffer.
func (fb *FrameBuffer) Unbind(gl graphics.GL) {
	gl.BindFramebuffer(graphics.FRAMEBUFFER, 0)
}

// Destroy releases the framebuffer and its depth renderbuffer. Textures are
// owned by the caller.
func (fb *FrameBuffer) Destroy(gl graphics.GL) {
	if fb.depthbuffer != 0 {
		gl.DeleteRenderbuffer(fb.depthbuffer)
		fb.depthbuffer = 0
	}
	if fb.framebuffer != 0 {
		gl.DeleteFramebuffer(fb.framebuffer)
		fb.framebuffer = 0
	}
}

func (fb *FrameBuffer) Handle() uint32      { return fb.framebuffer }
func (fb *FrameBuffer) Depthbuffer() uint32 { return fb.depthbuffer }
func (fb *FrameBuffer) Width() int          { return fb.width }
func (fb *FrameBuffer) Height() int         { return fb.height }
