package graphics

import "log"

// Enum carries GL enumerant values. The numeric values match GL and WebGL.
type Enum = uint32

const (
	NO_ERROR Enum = 0

	DEPTH_BUFFER_BIT Enum = 0x00000100
	COLOR_BUFFER_BIT Enum = 0x00004000

	TRIANGLES Enum = 0x0004

	DEPTH_TEST Enum = 0x0B71

	UNPACK_ALIGNMENT Enum = 0x0CF5

	UNSIGNED_BYTE  Enum = 0x1401
	UNSIGNED_SHORT Enum = 0x1403
	FLOAT          Enum = 0x1406

	DEPTH_COMPONENT Enum = 0x1902
	RGB             Enum = 0x1907
	RGBA            Enum = 0x1908

	VERSION Enum = 0x1F02

	NEAREST                Enum = 0x2600
	LINEAR                 Enum = 0x2601
	NEAREST_MIPMAP_NEAREST Enum = 0x2700
	LINEAR_MIPMAP_NEAREST  Enum = 0x2701
	NEAREST_MIPMAP_LINEAR  Enum = 0x2702
	LINEAR_MIPMAP_LINEAR   Enum = 0x2703
	TEXTURE_MAG_FILTER     Enum = 0x2800
	TEXTURE_MIN_FILTER     Enum = 0x2801
	TEXTURE_WRAP_S         Enum = 0x2802
	TEXTURE_WRAP_T         Enum = 0x2803
	REPEAT                 Enum = 0x2901
	CLAMP_TO_EDGE          Enum = 0x812F

	TEXTURE_2D                  Enum = 0x0DE1
	TEXTURE0                    Enum = 0x84C0
	TEXTURE_CUBE_MAP            Enum = 0x8513
	TEXTURE_CUBE_MAP_POSITIVE_X Enum = 0x8515
	TEXTURE_CUBE_MAP_NEGATIVE_X Enum = 0x8516
	TEXTURE_CUBE_MAP_POSITIVE_Y Enum = 0x8517
	TEXTURE_CUBE_MAP_NEGATIVE_Y Enum = 0x8518
	TEXTURE_CUBE_MAP_POSITIVE_Z Enum = 0x8519
	TEXTURE_CUBE_MAP_NEGATIVE_Z Enum = 0x851A

	ARRAY_BUFFER         Enum = 0x8892
	ELEMENT_ARRAY_BUFFER Enum = 0x8893
	STATIC_DRAW          Enum = 0x88E4

	FRAGMENT_SHADER Enum = 0x8B30
	VERTEX_SHADER   Enum = 0x8B31
	COMPILE_STATUS  Enum = 0x8B81
	LINK_STATUS     Enum = 0x8B82
	INFO_LOG_LENGTH Enum = 0x8B84

	DEPTH_COMPONENT16 Enum = 0x81A5

	FRAMEBUFFER          Enum = 0x8D40
	RENDERBUFFER         Enum = 0x8D41
	FRAMEBUFFER_COMPLETE Enum = 0x8CD5
	COLOR_ATTACHMENT0    Enum = 0x8CE0
	DEPTH_ATTACHMENT     Enum = 0x8D00

	// ETC1_RGB8_OES is the ETC1 compressed format from OES_compressed_ETC1_RGB8_texture.
	ETC1_RGB8_OES Enum = 0x8D64
)

// GL is the subset of the OpenGL / OpenGL ES API the framework uses.
// Object handles are 0 when absent; locations are -1 when not found.
type GL interface {
	CreateShader(kind Enum) uint32
	ShaderSource(shader uint32, source string)
	CompileShader(shader uint32)
	GetShaderi(shader uint32, pname Enum) int32
	GetShaderInfoLog(shader uint32) string
	DeleteShader(shader uint32)

	CreateProgram() uint32
	AttachShader(program, shader uint32)
	LinkProgram(program uint32)
	GetProgrami(program uint32, pname Enum) int32
	GetProgramInfoLog(program uint32) string
	UseProgram(program uint32)
	DeleteProgram(program uint32)
	GetUniformLocation(program uint32, name string) int32
	GetAttribLocation(program uint32, name string) int32

	CreateBuffer() uint32
	BindBuffer(target Enum, buffer uint32)
	BufferData(target Enum, data []byte, usage Enum)
	DeleteBuffer(buffer uint32)

	CreateTexture() uint32
	ActiveTexture(unit Enum)
	BindTexture(target Enum, texture uint32)
	TexImage2D(target Enum, level, internalFormat, width, height int32, format, xtype Enum, pixels []byte)
	CompressedTexImage2D(target Enum, level int32, internalFormat Enum, width, height int32, data []byte)
	TexParameteri(target, pname Enum, param int32)
	GenerateMipmap(target Enum)
	PixelStorei(pname Enum, param int32)
	DeleteTexture(texture uint32)

	CreateFramebuffer() uint32
	BindFramebuffer(target Enum, framebuffer uint32)
	FramebufferTexture2D(target, attachment, texTarget Enum, texture uint32, level int32)
	CheckFramebufferStatus(target Enum) Enum
	DeleteFramebuffer(framebuffer uint32)
	CreateRenderbuffer() uint32
	BindRenderbuffer(target Enum, renderbuffer uint32)
	RenderbufferStorage(target, internalFormat Enum, width, height int32)
	FramebufferRenderbuffer(target, attachment, rbTarget Enum, renderbuffer uint32)
	DeleteRenderbuffer(renderbuffer uint32)

	EnableVertexAttribArray(index uint32)
	VertexAttribPointer(index uint32, size int32, xtype Enum, normalized bool, stride int32, offset int)
	Uniform1i(location int32, v int32)
	Uniform1f(location int32, v float32)
	UniformMatrix4fv(location int32, transpose bool, m *[16]float32)

	DrawElements(mode Enum, count int32, xtype Enum, offset int)
	Viewport(x, y, width, height int32)
	ClearColor(r, g, b, a float32)
	Clear(mask Enum)
	Enable(capability Enum)
	ReadPixels(x, y, width, height int32, format, xtype Enum, dst []byte)

	GetError() Enum
	GetString(name Enum) string
}

// CheckError drains every pending GL error, logging each one against op. It
// reports whether any error was pending.
func CheckError(gl GL, op string) bool {
	found := false
	for e := gl.GetError(); e != NO_ERROR; e = gl.GetError() {
		log.Printf("%s: glError 0x%04x", op, e)
		found = true
	}
	return found
}
