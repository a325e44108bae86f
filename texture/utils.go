package texture

import (
	"strings"

	"github.com/richinsley/glframework/graphics"
)

// CreateNPOT creates an empty non-power-of-two texture for render targets.
func CreateNPOT(gl graphics.GL, width, height int, hasAlpha bool) Texture {
	id := gl.CreateTexture()
	gl.BindTexture(graphics.TEXTURE_2D, id)
	gl.TexParameteri(graphics.TEXTURE_2D, graphics.TEXTURE_MIN_FILTER, int32(graphics.NEAREST))
	gl.TexParameteri(graphics.TEXTURE_2D, graphics.TEXTURE_MAG_FILTER, int32(graphics.LINEAR))
	gl.TexParameteri(graphics.TEXTURE_2D, graphics.TEXTURE_WRAP_S, int32(graphics.CLAMP_TO_EDGE))
	gl.TexParameteri(graphics.TEXTURE_2D, graphics.TEXTURE_WRAP_T, int32(graphics.CLAMP_TO_EDGE))

	format := graphics.RGB
	if hasAlpha {
		format = graphics.RGBA
	}
	gl.TexImage2D(graphics.TEXTURE_2D, 0, int32(format), int32(width), int32(height), format, graphics.UNSIGNED_BYTE, nil)

	return Texture{ID: id, Target: graphics.TEXTURE_2D, Width: width, Height: height}
}

// CreateDepth creates an empty depth texture. ES 2 contexts only accept the
// unsized DEPTH_COMPONENT internal format.
func CreateDepth(gl graphics.GL, width, height int) Texture {
	id := gl.CreateTexture()
	gl.BindTexture(graphics.TEXTURE_2D, id)
	gl.TexParameteri(graphics.TEXTURE_2D, graphics.TEXTURE_MIN_FILTER, int32(graphics.NEAREST))
	gl.TexParameteri(graphics.TEXTURE_2D, graphics.TEXTURE_MAG_FILTER, int32(graphics.NEAREST))
	gl.TexParameteri(graphics.TEXTURE_2D, graphics.TEXTURE_WRAP_S, int32(graphics.CLAMP_TO_EDGE))
	gl.TexParameteri(graphics.TEXTURE_2D, graphics.TEXTURE_WRAP_T, int32(graphics.CLAMP_TO_EDGE))

	internalFormat := graphics.DEPTH_COMPONENT16
	if IsES2(gl) {
		internalFormat = graphics.DEPTH_COMPONENT
	}
	gl.TexImage2D(graphics.TEXTURE_2D, 0, int32(internalFormat), int32(width), int32(height),
		graphics.DEPTH_COMPONENT, graphics.UNSIGNED_SHORT, nil)

	return Texture{ID: id, Target: graphics.TEXTURE_2D, Width: width, Height: height}
}

// IsES2 reports whether the bound context is OpenGL ES 2.x.
func IsES2(gl graphics.GL) bool {
	return strings.HasPrefix(gl.GetString(graphics.VERSION), "OpenGL ES 2")
}
