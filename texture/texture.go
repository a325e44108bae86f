// Package texture loads compressed (ETC1 in PKM) and uncompressed textures
// and creates the render-target textures used by framebuffers.
package texture

import (
	"errors"

	"github.com/richinsley/glframework/graphics"
)

var (
	ErrEmptyPayload    = errors.New("no texture data received")
	ErrTruncatedHeader = errors.New("texture header truncated")
)

// Texture is a GPU texture handle and its declared size. The zero value is an
// unloaded texture.
type Texture struct {
	ID     uint32
	Target graphics.Enum
	Width  int
	Height int
}

func (t Texture) Loaded() bool { return t.ID != 0 }

// Destroy deletes the GPU texture.
func (t *Texture) Destroy(gl graphics.GL) {
	if t.ID == 0 {
		return
	}
	gl.DeleteTexture(t.ID)
	t.ID = 0
}

// Config holds the sampling parameters applied to an uncompressed texture.
type Config struct {
	MinFilter graphics.Enum
	MagFilter graphics.Enum
	// Clamp selects CLAMP_TO_EDGE wrapping instead of REPEAT.
	Clamp bool
}

// DefaultConfig samples linearly and repeats.
func DefaultConfig() Config {
	return Config{MinFilter: graphics.LINEAR, MagFilter: graphics.LINEAR}
}

func (c Config) wrapMode() int32 {
	if c.Clamp {
		return int32(graphics.CLAMP_TO_EDGE)
	}
	return int32(graphics.REPEAT)
}

func (c Config) filters() (minFilter, magFilter int32) {
	minFilter, magFilter = int32(c.MinFilter), int32(c.MagFilter)
	if minFilter == 0 {
		minFilter = int32(graphics.LINEAR)
	}
	if magFilter == 0 {
		magFilter = int32(graphics.LINEAR)
	}
	return minFilter, magFilter
}

func usesMipmaps(minFilter int32) bool {
	switch graphics.Enum(minFilter) {
	case graphics.NEAREST_MIPMAP_NEAREST, graphics.LINEAR_MIPMAP_NEAREST,
		graphics.NEAREST_MIPMAP_LINEAR, graphics.LINEAR_MIPMAP_LINEAR:
		return true
	}
	return false
}
