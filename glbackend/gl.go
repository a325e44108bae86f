// Package glbackend implements graphics.GL on top of the go-gl bindings. It
// must only be used on the thread that owns the current context.
package glbackend

import (
	"fmt"
	"strings"
	"sync"
	"unsafe"

	"github.com/go-gl/gl/v3.3-core/gl"

	"github.com/richinsley/glframework/graphics"
)

var glInitOnce sync.Once
var glInitErr error

// GL forwards graphics.GL calls to the current context.
type GL struct {
	vao uint32
}

// New loads the GL function pointers for the current context, once per
// process, and binds a vertex array object so core profiles accept attribute
// pointers.
func New() (*GL, error) {
	glInitOnce.Do(func() {
		glInitErr = gl.Init()
	})
	if glInitErr != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", glInitErr)
	}

	g := &GL{}
	// ES 2 has no vertex array objects and needs none.
	if !strings.HasPrefix(g.GetString(gl.VERSION), "OpenGL ES 2") {
		gl.GenVertexArrays(1, &g.vao)
		gl.BindVertexArray(g.vao)
	}
	return g, nil
}

func ptr(b []byte) unsafe.Pointer {
	if len(b) == 0 {
		return nil
	}
	return gl.Ptr(b)
}

func (g *GL) CreateShader(kind graphics.Enum) uint32 { return gl.CreateShader(kind) }

func (g *GL) ShaderSource(shader uint32, source string) {
	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
	free()
}

func (g *GL) CompileShader(shader uint32) { gl.CompileShader(shader) }

func (g *GL) GetShaderi(shader uint32, pname graphics.Enum) int32 {
	var v int32
	gl.GetShaderiv(shader, pname, &v)
	return v
}

func (g *GL) GetShaderInfoLog(shader uint32) string {
	var logLength int32
	gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
	if logLength == 0 {
		return ""
	}
	logText := strings.Repeat("\x00", int(logLength+1))
	gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(logText))
	return strings.TrimRight(logText, "\x00")
}

func (g *GL) DeleteShader(shader uint32) { gl.DeleteShader(shader) }

func (g *GL) CreateProgram() uint32              { return gl.CreateProgram() }
func (g *GL) AttachShader(program, shader uint32) { gl.AttachShader(program, shader) }
func (g *GL) LinkProgram(program uint32)          { gl.LinkProgram(program) }

func (g *GL) GetProgrami(program uint32, pname graphics.Enum) int32 {
	var v int32
	gl.GetProgramiv(program, pname, &v)
	return v
}

func (g *GL) GetProgramInfoLog(program uint32) string {
	var logLength int32
	gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)
	if logLength == 0 {
		return ""
	}
	logText := strings.Repeat("\x00", int(logLength+1))
	gl.GetProgramInfoLog(program, logLength, nil, gl.Str(logText))
	return strings.TrimRight(logText, "\x00")
}

func (g *GL) UseProgram(program uint32)    { gl.UseProgram(program) }
func (g *GL) DeleteProgram(program uint32) { gl.DeleteProgram(program) }

func (g *GL) GetUniformLocation(program uint32, name string) int32 {
	return gl.GetUniformLocation(program, gl.Str(name+"\x00"))
}

func (g *GL) GetAttribLocation(program uint32, name string) int32 {
	return gl.GetAttribLocation(program, gl.Str(name+"\x00"))
}

func (g *GL) CreateBuffer() uint32 {
	var b uint32
	gl.GenBuffers(1, &b)
	return b
}

func (g *GL) BindBuffer(target graphics.Enum, buffer uint32) { gl.BindBuffer(target, buffer) }

func (g *GL) BufferData(target graphics.Enum, data []byte, usage graphics.Enum) {
	gl.BufferData(target, len(data), ptr(data), usage)
}

func (g *GL) DeleteBuffer(buffer uint32) { gl.DeleteBuffers(1, &buffer) }

func (g *GL) CreateTexture() uint32 {
	var t uint32
	gl.GenTextures(1, &t)
	return t
}

func (g *GL) ActiveTexture(unit graphics.Enum)                    { gl.ActiveTexture(unit) }
func (g *GL) BindTexture(target graphics.Enum, texture uint32)    { gl.BindTexture(target, texture) }
func (g *GL) TexParameteri(target, pname graphics.Enum, v int32) { gl.TexParameteri(target, pname, v) }
func (g *GL) GenerateMipmap(target graphics.Enum)                 { gl.GenerateMipmap(target) }
func (g *GL) PixelStorei(pname graphics.Enum, param int32)       { gl.PixelStorei(pname, param) }
func (g *GL) DeleteTexture(texture uint32)                        { gl.DeleteTextures(1, &texture) }

func (g *GL) TexImage2D(target graphics.Enum, level, internalFormat, width, height int32, format, xtype graphics.Enum, pixels []byte) {
	gl.TexImage2D(target, level, internalFormat, width, height, 0, format, xtype, ptr(pixels))
}

func (g *GL) CompressedTexImage2D(target graphics.Enum, level int32, internalFormat graphics.Enum, width, height int32, data []byte) {
	gl.CompressedTexImage2D(target, level, internalFormat, width, height, 0, int32(len(data)), ptr(data))
}

func (g *GL) CreateFramebuffer() uint32 {
	var fb uint32
	gl.GenFramebuffers(1, &fb)
	return fb
}

func (g *GL) BindFramebuffer(target graphics.Enum, framebuffer uint32) {
	gl.BindFramebuffer(target, framebuffer)
}

func (g *GL) FramebufferTexture2D(target, attachment, texTarget graphics.Enum, texture uint32, level int32) {
	gl.FramebufferTexture2D(target, attachment, texTarget, texture, level)
}

func (g *GL) CheckFramebufferStatus(target graphics.Enum) graphics.Enum {
	return gl.CheckFramebufferStatus(target)
}

func (g *GL) DeleteFramebuffer(framebuffer uint32) { gl.DeleteFramebuffers(1, &framebuffer) }

func (g *GL) CreateRenderbuffer() uint32 {
	var rb uint32
	gl.GenRenderbuffers(1, &rb)
	return rb
}

func (g *GL) BindRenderbuffer(target graphics.Enum, renderbuffer uint32) {
	gl.BindRenderbuffer(target, renderbuffer)
}

func (g *GL) RenderbufferStorage(target, internalFormat graphics.Enum, width, height int32) {
	gl.RenderbufferStorage(target, internalFormat, width, height)
}

func (g *GL) FramebufferRenderbuffer(target, attachment, rbTarget graphics.Enum, renderbuffer uint32) {
	gl.FramebufferRenderbuffer(target, attachment, rbTarget, renderbuffer)
}

func (g *GL) DeleteRenderbuffer(renderbuffer uint32) { gl.DeleteRenderbuffers(1, &renderbuffer) }

func (g *GL) EnableVertexAttribArray(index uint32) { gl.EnableVertexAttribArray(index) }

func (g *GL) VertexAttribPointer(index uint32, size int32, xtype graphics.Enum, normalized bool, stride int32, offset int) {
	gl.VertexAttribPointerWithOffset(index, size, xtype, normalized, stride, uintptr(offset))
}

func (g *GL) Uniform1i(location int32, v int32)   { gl.Uniform1i(location, v) }
func (g *GL) Uniform1f(location int32, v float32) { gl.Uniform1f(location, v) }

func (g *GL) UniformMatrix4fv(location int32, transpose bool, m *[16]float32) {
	gl.UniformMatrix4fv(location, 1, transpose, &m[0])
}

func (g *GL) DrawElements(mode graphics.Enum, count int32, xtype graphics.Enum, offset int) {
	gl.DrawElementsWithOffset(mode, count, xtype, uintptr(offset))
}

func (g *GL) Viewport(x, y, width, height int32) { gl.Viewport(x, y, width, height) }
func (g *GL) ClearColor(r, gr, b, a float32)      { gl.ClearColor(r, gr, b, a) }
func (g *GL) Clear(mask graphics.Enum)            { gl.Clear(mask) }
func (g *GL) Enable(capability graphics.Enum)     { gl.Enable(capability) }

func (g *GL) ReadPixels(x, y, width, height int32, format, xtype graphics.Enum, dst []byte) {
	gl.ReadPixels(x, y, width, height, format, xtype, ptr(dst))
}

func (g *GL) GetError() graphics.Enum { return gl.GetError() }

func (g *GL) GetString(name graphics.Enum) string {
	s := gl.GetString(name)
	if s == nil {
		return ""
	}
	return gl.GoStr(s)
}

// Destroy releases the vertex array object created by New.
func (g *GL) Destroy() {
	if g.vao != 0 {
		gl.DeleteVertexArrays(1, &g.vao)
		g.vao = 0
	}
}

var _ graphics.GL = (*GL)(nil)
