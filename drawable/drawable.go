// Package drawable defines the contract between shaders that can draw a model
// and the renderer that owns the GL context and transform state.
package drawable

import (
	"sort"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/richinsley/glframework/graphics"
	"github.com/richinsley/glframework/model"
)

// AttributeDescriptor mirrors the arguments of VertexAttribPointer.
type AttributeDescriptor struct {
	Size       int32
	Type       graphics.Enum
	Normalized bool
	Stride     int32
	Offset     int
}

// AttributeLayout maps attribute locations to their vertex layout. A shader's
// fixed default layout is just one such map.
type AttributeLayout map[uint32]AttributeDescriptor

// Apply sets a vertex attribute pointer for every entry, in location order.
func (l AttributeLayout) Apply(gl graphics.GL) {
	locs := make([]uint32, 0, len(l))
	for loc := range l {
		locs = append(locs, loc)
	}
	sort.Slice(locs, func(i, j int) bool { return locs[i] < locs[j] })
	for _, loc := range locs {
		d := l[loc]
		gl.VertexAttribPointer(loc, d.Size, d.Type, d.Normalized, d.Stride, d.Offset)
	}
}

// Renderer is what a drawable needs from the renderer.
type Renderer interface {
	GL() graphics.GL
	ComputeMVP(translation, rotation, scale mgl32.Vec3)
	MVP() mgl32.Mat4
	ModelMatrix() mgl32.Mat4
	ViewMatrix() mgl32.Mat4
	OrthoMatrix() mgl32.Mat4
	SetTexture2D(unit int32, texture uint32, uniform int32)
	SetTextureCubemap(unit int32, texture uint32, uniform int32)
	UnbindBuffers()
	CheckGLError(op string)
}

// Drawable draws a model with a transform. layout, when non-nil, replaces the
// shader's default vertex layout. Drawing an unloaded model, or with a shader
// that failed to build, draws nothing.
type Drawable interface {
	Draw(r Renderer, m *model.Model, translation, rotation, scale mgl32.Vec3, layout AttributeLayout)
}
