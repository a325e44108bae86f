// Package shader owns GPU program lifecycle: compiling both stages, linking
// them, and resolving uniform and attribute locations.
package shader

import (
	"fmt"

	"github.com/richinsley/glframework/graphics"
)

// Compile creates and compiles one shader stage. On failure the shader object
// is deleted and the info log is carried in the error.
func Compile(gl graphics.GL, source string, kind graphics.Enum) (uint32, error) {
	shader := gl.CreateShader(kind)
	gl.ShaderSource(shader, source)
	gl.CompileShader(shader)

	if gl.GetShaderi(shader, graphics.COMPILE_STATUS) == 0 {
		logText := gl.GetShaderInfoLog(shader)
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("%w: %s shader: %s", ErrCompileFailed, stageName(kind), logText)
	}
	return shader, nil
}

// Link attaches both stages to a new program and links it. The stage objects
// are released either way.
func Link(gl graphics.GL, vertexShader, fragmentShader uint32) (uint32, error) {
	program := gl.CreateProgram()
	gl.AttachShader(program, vertexShader)
	gl.AttachShader(program, fragmentShader)
	gl.LinkProgram(program)

	ok := gl.GetProgrami(program, graphics.LINK_STATUS) != 0
	var logText string
	if !ok {
		logText = gl.GetProgramInfoLog(program)
	}

	gl.DeleteShader(vertexShader)
	gl.DeleteShader(fragmentShader)

	if !ok {
		gl.DeleteProgram(program)
		return 0, fmt.Errorf("%w: %s", ErrLinkFailed, logText)
	}
	return program, nil
}

func stageName(kind graphics.Enum) string {
	switch kind {
	case graphics.VERTEX_SHADER:
		return "vertex"
	case graphics.FRAGMENT_SHADER:
		return "fragment"
	}
	return fmt.Sprintf("0x%x", kind)
}
