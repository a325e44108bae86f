package shaders

import (
	"context"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/richinsley/glframework/drawable"
	"github.com/richinsley/glframework/graphics"
	"github.com/richinsley/glframework/graphics/graphicstest"
	"github.com/richinsley/glframework/model"
	"github.com/richinsley/glframework/renderer"
	"github.com/richinsley/glframework/translator"
)

func newRenderer(t *testing.T) (*renderer.Renderer, *graphicstest.GL) {
	t.Helper()
	s := graphicstest.NewSurface(32, 32)
	gl := s.Fake
	gl.Uniforms["view_proj_matrix"] = 2
	gl.Uniforms["sTexture"] = 3
	gl.Attribs["rm_Vertex"] = 0
	gl.Attribs["rm_TexCoord0"] = 1

	r := renderer.New(renderer.Hooks{})
	require.NoError(t, r.Initialize(context.Background(), s, false))
	return r, gl
}

func cube(gl graphics.GL) *model.Model {
	return model.Upload(gl, &model.Data{Indices: make([]byte, 36), Strides: make([]byte, 20*8)})
}

func TestDiffuseSourceDialects(t *testing.T) {
	assert.True(t, strings.HasPrefix(DiffuseSource(translator.GLSL410).Vertex, "#version 410 core\n"))
	assert.True(t, strings.HasPrefix(DiffuseSource(translator.GLSL330).Fragment, "#version 330 core\n"))
	src := DiffuseSource(translator.ESSL)
	assert.True(t, strings.HasPrefix(src.Fragment, "#version 300 es\n"))
	assert.ElementsMatch(t, []string{"view_proj_matrix", "sTexture"}, src.Uniforms)
	assert.ElementsMatch(t, []string{"rm_Vertex", "rm_TexCoord0"}, src.Attributes)
}

func TestDiffuseSourceES2(t *testing.T) {
	src := DiffuseSource(translator.FormatFor(graphics.Baseline, true))
	assert.True(t, strings.HasPrefix(src.Vertex, "#version 100\n"))
	assert.True(t, strings.HasPrefix(src.Fragment, "#version 100\n"))
	assert.Contains(t, src.Vertex, "attribute vec4 rm_Vertex;")
	assert.Contains(t, src.Vertex, "varying vec2 vTextureCoord;")
	assert.Contains(t, src.Fragment, "gl_FragColor = texture2D(sTexture, vTextureCoord);")
	assert.NotContains(t, src.Vertex, "in vec4")
	assert.NotContains(t, src.Fragment, "out vec4")

	r, gl := newRenderer(t)
	d := NewDiffuse(gl, translator.ESSL100)
	require.True(t, d.Usable())
	d.Draw(r, cube(gl), mgl32.Vec3{}, mgl32.Vec3{}, mgl32.Vec3{1, 1, 1}, nil)
	assert.Len(t, gl.Draws, 1)
}

func TestDiffuseDrawDefaultLayout(t *testing.T) {
	r, gl := newRenderer(t)
	d := NewDiffuse(gl, translator.GLSL410)
	require.True(t, d.Usable())
	m := cube(gl)

	r.SetPerspective(45, 1, 0.1, 10)
	d.Draw(r, m, mgl32.Vec3{0, 0, -4}, mgl32.Vec3{0, 1, 0}, mgl32.Vec3{1, 1, 1}, nil)

	require.Len(t, gl.Draws, 1)
	assert.Equal(t, graphics.TRIANGLES, gl.Draws[0].Mode)
	assert.Equal(t, int32(m.NumIndices()*3), gl.Draws[0].Count)
	assert.Equal(t, graphics.UNSIGNED_SHORT, gl.Draws[0].Type)
	assert.Equal(t, d.ID(), gl.Draws[0].Program)

	assert.True(t, gl.EnabledAttribs[0])
	assert.True(t, gl.EnabledAttribs[1])
	require.Len(t, gl.Pointers, 2)
	assert.Equal(t, graphicstest.AttribPointer{Index: 0, Size: 3, Type: graphics.FLOAT, Stride: 20, Offset: 0}, gl.Pointers[0])
	assert.Equal(t, graphicstest.AttribPointer{Index: 1, Size: 2, Type: graphics.FLOAT, Stride: 20, Offset: 12}, gl.Pointers[1])

	assert.Equal(t, [16]float32(r.MVP()), gl.Matrices[2])
}

func TestDiffuseDrawOverrideLayout(t *testing.T) {
	r, gl := newRenderer(t)
	d := NewDiffuse(gl, translator.GLSL410)
	m := cube(gl)

	layout := drawable.AttributeLayout{
		0: {Size: 3, Type: graphics.FLOAT, Stride: 32, Offset: 0},
		1: {Size: 2, Type: graphics.FLOAT, Stride: 32, Offset: 24},
	}
	d.Draw(r, m, mgl32.Vec3{}, mgl32.Vec3{}, mgl32.Vec3{1, 1, 1}, layout)

	require.Len(t, gl.Pointers, 2)
	assert.Equal(t, int32(32), gl.Pointers[0].Stride)
	assert.Equal(t, 24, gl.Pointers[1].Offset)
}

func TestDiffuseDrawNoops(t *testing.T) {
	r, gl := newRenderer(t)
	d := NewDiffuse(gl, translator.GLSL410)

	d.Draw(r, nil, mgl32.Vec3{}, mgl32.Vec3{}, mgl32.Vec3{1, 1, 1}, nil)
	d.Draw(r, &model.Model{}, mgl32.Vec3{}, mgl32.Vec3{}, mgl32.Vec3{1, 1, 1}, nil)
	assert.Empty(t, gl.Draws)

	gl.FailLink = true
	broken := NewDiffuse(gl, translator.GLSL410)
	assert.False(t, broken.Usable())
	broken.Draw(r, cube(gl), mgl32.Vec3{}, mgl32.Vec3{}, mgl32.Vec3{1, 1, 1}, nil)
	assert.Empty(t, gl.Draws)
}

func TestDiffuseDrawChecksErrors(t *testing.T) {
	r, gl := newRenderer(t)
	d := NewDiffuse(gl, translator.GLSL410)
	gl.Errors = []graphics.Enum{0x0502}
	d.Draw(r, cube(gl), mgl32.Vec3{}, mgl32.Vec3{}, mgl32.Vec3{1, 1, 1}, nil)
	assert.Empty(t, gl.Errors)
}

func TestDiffuseSetTexture(t *testing.T) {
	r, gl := newRenderer(t)
	d := NewDiffuse(gl, translator.GLSL410)
	d.SetTexture(r, 0, 42)
	assert.Equal(t, uint32(42), gl.BoundTextures[graphics.TEXTURE_2D])
	assert.Equal(t, int32(0), gl.Uniform1is[3])
}
