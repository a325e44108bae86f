// Package shaders holds the concrete drawable shaders.
package shaders

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/richinsley/glframework/drawable"
	"github.com/richinsley/glframework/graphics"
	"github.com/richinsley/glframework/model"
	"github.com/richinsley/glframework/shader"
	"github.com/richinsley/glframework/translator"
)

const diffuseVertexBody = `
uniform mat4 view_proj_matrix;
in vec4 rm_Vertex;
in vec2 rm_TexCoord0;
out vec2 vTextureCoord;

void main() {
    gl_Position = view_proj_matrix * rm_Vertex;
    vTextureCoord = rm_TexCoord0;
}
`

const diffuseFragmentBody = `
precision mediump float;
in vec2 vTextureCoord;
out vec4 fragColor;
uniform sampler2D sTexture;

void main() {
    fragColor = texture(sTexture, vTextureCoord);
}
`

const diffuseVertex100 = `#version 100
uniform mat4 view_proj_matrix;
attribute vec4 rm_Vertex;
attribute vec2 rm_TexCoord0;
varying vec2 vTextureCoord;

void main() {
    gl_Position = view_proj_matrix * rm_Vertex;
    vTextureCoord = rm_TexCoord0;
}
`

const diffuseFragment100 = `#version 100
precision mediump float;
varying vec2 vTextureCoord;
uniform sampler2D sTexture;

void main() {
    gl_FragColor = texture2D(sTexture, vTextureCoord);
}
`

// versionHeader returns the #version line for a dialect. ESSL 3.00 is also
// the input dialect accepted by the shader translator.
func versionHeader(format translator.Format) string {
	switch format {
	case translator.GLSL410:
		return "#version 410 core\n"
	case translator.GLSL330:
		return "#version 330 core\n"
	}
	return "#version 300 es\n"
}

// DiffuseSource returns the diffuse shader's sources in the given dialect.
func DiffuseSource(format translator.Format) shader.Source {
	src := shader.Source{
		Name:       "DiffuseShader",
		Uniforms:   []string{"view_proj_matrix", "sTexture"},
		Attributes: []string{"rm_Vertex", "rm_TexCoord0"},
	}
	if format == translator.ESSL100 {
		src.Vertex, src.Fragment = diffuseVertex100, diffuseFragment100
		return src
	}
	header := versionHeader(format)
	src.Vertex = header + diffuseVertexBody
	src.Fragment = header + diffuseFragmentBody
	return src
}

// Diffuse draws a model with a single texture. Vertices are interleaved as
// three position floats followed by two texture coordinate floats.
type Diffuse struct {
	*shader.Program

	viewProjMatrix int32
	sTexture       int32
	rmVertex       int32
	rmTexCoord0    int32
}

// NewDiffuse builds the diffuse program for format. When opts carries a
// translator the sources are given in ESSL and translated to format.
func NewDiffuse(gl graphics.GL, format translator.Format, opts ...shader.Option) *Diffuse {
	src := DiffuseSource(format)
	if len(opts) > 0 {
		src = DiffuseSource(translator.ESSL)
	}
	d := &Diffuse{Program: shader.New(gl, src, opts...)}
	d.viewProjMatrix, _ = d.Uniform("view_proj_matrix")
	d.sTexture, _ = d.Uniform("sTexture")
	d.rmVertex = locationOr(d.Attribute("rm_Vertex"))
	d.rmTexCoord0 = locationOr(d.Attribute("rm_TexCoord0"))
	return d
}

func locationOr(loc int32, ok bool) int32 {
	if !ok {
		return -1
	}
	return loc
}

// DefaultLayout is the interleaved position/uv layout for this program's
// attribute locations.
func (d *Diffuse) DefaultLayout() drawable.AttributeLayout {
	const stride = 4 * (3 + 2)
	return drawable.AttributeLayout{
		uint32(d.rmVertex):    {Size: 3, Type: graphics.FLOAT, Stride: stride, Offset: 0},
		uint32(d.rmTexCoord0): {Size: 2, Type: graphics.FLOAT, Stride: stride, Offset: 4 * 3},
	}
}

// SetTexture binds tex to unit and points sTexture at it.
func (d *Diffuse) SetTexture(r drawable.Renderer, unit int32, tex uint32) {
	if !d.Usable() {
		return
	}
	r.SetTexture2D(unit, tex, d.sTexture)
}

func (d *Diffuse) Draw(r drawable.Renderer, m *model.Model, translation, rotation, scale mgl32.Vec3, layout drawable.AttributeLayout) {
	if !d.Usable() || !m.Loaded() || d.rmVertex < 0 || d.rmTexCoord0 < 0 {
		return
	}
	gl := r.GL()

	d.Use()
	m.BindBuffers(gl)

	gl.EnableVertexAttribArray(uint32(d.rmVertex))
	gl.EnableVertexAttribArray(uint32(d.rmTexCoord0))

	if layout == nil {
		layout = d.DefaultLayout()
	}
	layout.Apply(gl)

	r.ComputeMVP(translation, rotation, scale)
	mvp := [16]float32(r.MVP())
	gl.UniformMatrix4fv(d.viewProjMatrix, false, &mvp)
	gl.DrawElements(graphics.TRIANGLES, int32(m.NumIndices()*3), graphics.UNSIGNED_SHORT, 0)

	r.CheckGLError("DiffuseShader glDrawElements")
}

var _ drawable.Drawable = (*Diffuse)(nil)
