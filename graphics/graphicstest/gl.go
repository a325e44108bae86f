// Package graphicstest provides in-memory fakes of the graphics contracts so
// the framework can be exercised without a GPU.
package graphicstest

import (
	"fmt"
	"strings"

	"github.com/richinsley/glframework/graphics"
)

// Draw records one DrawElements call.
type Draw struct {
	Program uint32
	Mode    graphics.Enum
	Count   int32
	Type    graphics.Enum
	Offset  int
}

// AttribPointer records one VertexAttribPointer call.
type AttribPointer struct {
	Index      uint32
	Size       int32
	Type       graphics.Enum
	Normalized bool
	Stride     int32
	Offset     int
}

// TexImage records one texture upload.
type TexImage struct {
	Target          graphics.Enum
	Texture         uint32
	InternalFormat  int32
	Width, Height   int32
	Format          graphics.Enum
	Compressed      bool
	Data            []byte
	// UnpackAlignment is the UNPACK_ALIGNMENT in effect for the upload.
	UnpackAlignment int32
}

// GL is a recording fake of graphics.GL. Compile and link outcomes, uniform and
// attribute tables, and queued GL errors are configurable.
type GL struct {
	// FailCompile reports whether a shader source should fail to compile.
	FailCompile func(source string) bool
	// FailLink makes every LinkProgram call fail.
	FailLink bool
	// Uniforms and Attribs map names to the locations linked programs report.
	Uniforms map[string]int32
	Attribs  map[string]int32
	// Errors is drained by GetError, front first.
	Errors  []graphics.Enum
	Version string
	// FramebufferStatus is returned by CheckFramebufferStatus; zero means complete.
	FramebufferStatus graphics.Enum

	Calls []string

	nextID        uint32
	shaderSources map[uint32]string
	shaderKinds   map[uint32]graphics.Enum
	compiled      map[uint32]bool
	linked        map[uint32]bool
	attached      map[uint32][]uint32

	DeletedShaders  []uint32
	DeletedPrograms []uint32
	DeletedBuffers  []uint32
	DeletedTextures []uint32

	CurrentProgram uint32
	BoundBuffers   map[graphics.Enum]uint32
	BoundTextures  map[graphics.Enum]uint32
	ActiveUnit     graphics.Enum
	Buffers        map[uint32][]byte
	TexImages      []TexImage
	TexParams      map[uint32]map[graphics.Enum]int32
	EnabledAttribs map[uint32]bool
	Pointers       []AttribPointer
	Uniform1is     map[int32]int32
	Matrices       map[int32][16]float32
	Draws          []Draw
	Viewports      [][4]int32
	Clears         int
	Pixels         []byte

	UnpackAlignment int32
}

// NewGL returns a fake whose programs link and expose the given tables.
func NewGL() *GL {
	return &GL{
		Uniforms:        map[string]int32{},
		Attribs:         map[string]int32{},
		Version:         "4.1 fake",
		shaderSources:   map[uint32]string{},
		shaderKinds:     map[uint32]graphics.Enum{},
		compiled:        map[uint32]bool{},
		linked:          map[uint32]bool{},
		attached:        map[uint32][]uint32{},
		BoundBuffers:    map[graphics.Enum]uint32{},
		BoundTextures:   map[graphics.Enum]uint32{},
		Buffers:         map[uint32][]byte{},
		TexParams:       map[uint32]map[graphics.Enum]int32{},
		EnabledAttribs:  map[uint32]bool{},
		Uniform1is:      map[int32]int32{},
		Matrices:        map[int32][16]float32{},
		UnpackAlignment: 4,
	}
}

func (g *GL) record(format string, args ...any) {
	g.Calls = append(g.Calls, fmt.Sprintf(format, args...))
}

func (g *GL) newID() uint32 {
	g.nextID++
	return g.nextID
}

// Called reports how many recorded calls start with prefix.
func (g *GL) Called(prefix string) int {
	n := 0
	for _, c := range g.Calls {
		if strings.HasPrefix(c, prefix) {
			n++
		}
	}
	return n
}

func (g *GL) CreateShader(kind graphics.Enum) uint32 {
	id := g.newID()
	g.shaderKinds[id] = kind
	g.record("CreateShader %#x", kind)
	return id
}

func (g *GL) ShaderSource(shader uint32, source string) {
	g.shaderSources[shader] = source
	g.record("ShaderSource %d", shader)
}

func (g *GL) CompileShader(shader uint32) {
	ok := g.FailCompile == nil || !g.FailCompile(g.shaderSources[shader])
	g.compiled[shader] = ok
	g.record("CompileShader %d", shader)
}

func (g *GL) GetShaderi(shader uint32, pname graphics.Enum) int32 {
	if pname == graphics.COMPILE_STATUS && g.compiled[shader] {
		return 1
	}
	return 0
}

func (g *GL) GetShaderInfoLog(shader uint32) string {
	if g.compiled[shader] {
		return ""
	}
	return fmt.Sprintf("ERROR: 0:1: shader %d failed", shader)
}

func (g *GL) DeleteShader(shader uint32) {
	g.DeletedShaders = append(g.DeletedShaders, shader)
	g.record("DeleteShader %d", shader)
}

// ShaderSourceOf returns the source last given to a shader object.
func (g *GL) ShaderSourceOf(shader uint32) string { return g.shaderSources[shader] }

func (g *GL) CreateProgram() uint32 {
	id := g.newID()
	g.record("CreateProgram")
	return id
}

func (g *GL) AttachShader(program, shader uint32) {
	g.attached[program] = append(g.attached[program], shader)
	g.record("AttachShader %d %d", program, shader)
}

// Attached returns the shaders attached to a program.
func (g *GL) Attached(program uint32) []uint32 { return g.attached[program] }

func (g *GL) LinkProgram(program uint32) {
	ok := !g.FailLink
	for _, s := range g.attached[program] {
		ok = ok && g.compiled[s]
	}
	g.linked[program] = ok
	g.record("LinkProgram %d", program)
}

func (g *GL) GetProgrami(program uint32, pname graphics.Enum) int32 {
	if pname == graphics.LINK_STATUS && g.linked[program] {
		return 1
	}
	return 0
}

func (g *GL) GetProgramInfoLog(program uint32) string {
	if g.linked[program] {
		return ""
	}
	return fmt.Sprintf("program %d failed to link", program)
}

func (g *GL) UseProgram(program uint32) {
	g.CurrentProgram = program
	g.record("UseProgram %d", program)
}

func (g *GL) DeleteProgram(program uint32) {
	g.DeletedPrograms = append(g.DeletedPrograms, program)
	delete(g.linked, program)
	g.record("DeleteProgram %d", program)
}

func (g *GL) GetUniformLocation(program uint32, name string) int32 {
	if !g.linked[program] {
		return -1
	}
	if loc, ok := g.Uniforms[name]; ok {
		return loc
	}
	return -1
}

func (g *GL) GetAttribLocation(program uint32, name string) int32 {
	if !g.linked[program] {
		return -1
	}
	if loc, ok := g.Attribs[name]; ok {
		return loc
	}
	return -1
}

func (g *GL) CreateBuffer() uint32 {
	g.record("CreateBuffer")
	return g.newID()
}

func (g *GL) BindBuffer(target graphics.Enum, buffer uint32) {
	g.BoundBuffers[target] = buffer
	g.record("BindBuffer %#x %d", target, buffer)
}

func (g *GL) BufferData(target graphics.Enum, data []byte, usage graphics.Enum) {
	g.Buffers[g.BoundBuffers[target]] = append([]byte(nil), data...)
	g.record("BufferData %#x %d", target, len(data))
}

func (g *GL) DeleteBuffer(buffer uint32) {
	g.DeletedBuffers = append(g.DeletedBuffers, buffer)
	g.record("DeleteBuffer %d", buffer)
}

func (g *GL) CreateTexture() uint32 {
	g.record("CreateTexture")
	return g.newID()
}

func (g *GL) ActiveTexture(unit graphics.Enum) {
	g.ActiveUnit = unit
	g.record("ActiveTexture %#x", unit)
}

func (g *GL) BindTexture(target graphics.Enum, texture uint32) {
	g.BoundTextures[target] = texture
	g.record("BindTexture %#x %d", target, texture)
}

func (g *GL) boundFor(target graphics.Enum) uint32 {
	if target >= graphics.TEXTURE_CUBE_MAP_POSITIVE_X && target <= graphics.TEXTURE_CUBE_MAP_NEGATIVE_Z {
		return g.BoundTextures[graphics.TEXTURE_CUBE_MAP]
	}
	return g.BoundTextures[target]
}

func (g *GL) TexImage2D(target graphics.Enum, level, internalFormat, width, height int32, format, xtype graphics.Enum, pixels []byte) {
	g.TexImages = append(g.TexImages, TexImage{
		Target: target, Texture: g.boundFor(target), InternalFormat: internalFormat,
		Width: width, Height: height, Format: format, Data: pixels,
		UnpackAlignment: g.UnpackAlignment,
	})
	g.record("TexImage2D %#x %dx%d", target, width, height)
}

func (g *GL) PixelStorei(pname graphics.Enum, param int32) {
	if pname == graphics.UNPACK_ALIGNMENT {
		g.UnpackAlignment = param
	}
	g.record("PixelStorei %#x %d", pname, param)
}

func (g *GL) CompressedTexImage2D(target graphics.Enum, level int32, internalFormat graphics.Enum, width, height int32, data []byte) {
	g.TexImages = append(g.TexImages, TexImage{
		Target: target, Texture: g.boundFor(target), InternalFormat: int32(internalFormat),
		Width: width, Height: height, Compressed: true, Data: data,
	})
	g.record("CompressedTexImage2D %#x %dx%d", target, width, height)
}

func (g *GL) TexParameteri(target, pname graphics.Enum, param int32) {
	tex := g.BoundTextures[target]
	if g.TexParams[tex] == nil {
		g.TexParams[tex] = map[graphics.Enum]int32{}
	}
	g.TexParams[tex][pname] = param
	g.record("TexParameteri %#x %#x %#x", target, pname, param)
}

func (g *GL) GenerateMipmap(target graphics.Enum) { g.record("GenerateMipmap %#x", target) }

func (g *GL) DeleteTexture(texture uint32) {
	g.DeletedTextures = append(g.DeletedTextures, texture)
	g.record("DeleteTexture %d", texture)
}

func (g *GL) CreateFramebuffer() uint32 {
	g.record("CreateFramebuffer")
	return g.newID()
}

func (g *GL) BindFramebuffer(target graphics.Enum, framebuffer uint32) {
	g.record("BindFramebuffer %#x %d", target, framebuffer)
}

func (g *GL) FramebufferTexture2D(target, attachment, texTarget graphics.Enum, texture uint32, level int32) {
	g.record("FramebufferTexture2D %#x %d", attachment, texture)
}

func (g *GL) CheckFramebufferStatus(target graphics.Enum) graphics.Enum {
	if g.FramebufferStatus != 0 {
		return g.FramebufferStatus
	}
	return graphics.FRAMEBUFFER_COMPLETE
}

func (g *GL) DeleteFramebuffer(framebuffer uint32) { g.record("DeleteFramebuffer %d", framebuffer) }

func (g *GL) CreateRenderbuffer() uint32 {
	g.record("CreateRenderbuffer")
	return g.newID()
}

func (g *GL) BindRenderbuffer(target graphics.Enum, renderbuffer uint32) {
	g.record("BindRenderbuffer %d", renderbuffer)
}

func (g *GL) RenderbufferStorage(target, internalFormat graphics.Enum, width, height int32) {
	g.record("RenderbufferStorage %#x %dx%d", internalFormat, width, height)
}

func (g *GL) FramebufferRenderbuffer(target, attachment, rbTarget graphics.Enum, renderbuffer uint32) {
	g.record("FramebufferRenderbuffer %#x %d", attachment, renderbuffer)
}

func (g *GL) DeleteRenderbuffer(renderbuffer uint32) { g.record("DeleteRenderbuffer %d", renderbuffer) }

func (g *GL) EnableVertexAttribArray(index uint32) {
	g.EnabledAttribs[index] = true
	g.record("EnableVertexAttribArray %d", index)
}

func (g *GL) VertexAttribPointer(index uint32, size int32, xtype graphics.Enum, normalized bool, stride int32, offset int) {
	g.Pointers = append(g.Pointers, AttribPointer{index, size, xtype, normalized, stride, offset})
	g.record("VertexAttribPointer %d", index)
}

func (g *GL) Uniform1i(location int32, v int32) {
	g.Uniform1is[location] = v
	g.record("Uniform1i %d %d", location, v)
}

func (g *GL) Uniform1f(location int32, v float32) { g.record("Uniform1f %d %g", location, v) }

func (g *GL) UniformMatrix4fv(location int32, transpose bool, m *[16]float32) {
	g.Matrices[location] = *m
	g.record("UniformMatrix4fv %d", location)
}

func (g *GL) DrawElements(mode graphics.Enum, count int32, xtype graphics.Enum, offset int) {
	g.Draws = append(g.Draws, Draw{g.CurrentProgram, mode, count, xtype, offset})
	g.record("DrawElements %d", count)
}

func (g *GL) Viewport(x, y, width, height int32) {
	g.Viewports = append(g.Viewports, [4]int32{x, y, width, height})
	g.record("Viewport %d %d", width, height)
}

func (g *GL) ClearColor(r, gr, b, a float32) { g.record("ClearColor") }

func (g *GL) Clear(mask graphics.Enum) {
	g.Clears++
	g.record("Clear %#x", mask)
}

func (g *GL) Enable(capability graphics.Enum) { g.record("Enable %#x", capability) }

func (g *GL) ReadPixels(x, y, width, height int32, format, xtype graphics.Enum, dst []byte) {
	copy(dst, g.Pixels)
	g.record("ReadPixels %dx%d", width, height)
}

func (g *GL) GetError() graphics.Enum {
	if len(g.Errors) == 0 {
		return graphics.NO_ERROR
	}
	err := g.Errors[0]
	g.Errors = g.Errors[1:]
	return err
}

func (g *GL) GetString(name graphics.Enum) string {
	if name == graphics.VERSION {
		return g.Version
	}
	return ""
}

var _ graphics.GL = (*GL)(nil)
