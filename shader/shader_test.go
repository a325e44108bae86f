package shader

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/richinsley/glframework/graphics"
	"github.com/richinsley/glframework/graphics/graphicstest"
)

func testSource() Source {
	return Source{
		Name:       "TestShader",
		Vertex:     "void main() { gl_Position = vec4(0.0); }",
		Fragment:   "void main() {}",
		Uniforms:   []string{"view_proj_matrix"},
		Attributes: []string{"rm_Vertex"},
	}
}

func TestNewResolvesOnce(t *testing.T) {
	gl := graphicstest.NewGL()
	gl.Uniforms["view_proj_matrix"] = 3
	gl.Attribs["rm_Vertex"] = 1

	p := New(gl, testSource())
	require.NoError(t, p.Err())
	assert.True(t, p.Usable())
	assert.NotZero(t, p.ID())

	loc, ok := p.Uniform("view_proj_matrix")
	assert.True(t, ok)
	assert.Equal(t, int32(3), loc)
	loc, ok = p.Attribute("rm_Vertex")
	assert.True(t, ok)
	assert.Equal(t, int32(1), loc)

	assert.Equal(t, 1, gl.Called("LinkProgram"))
	assert.Equal(t, 2, gl.Called("CompileShader"))
	// both stage objects are released after linking
	assert.Len(t, gl.DeletedShaders, 2)
}

func TestCompileFailure(t *testing.T) {
	gl := graphicstest.NewGL()
	gl.FailCompile = func(src string) bool { return strings.Contains(src, "broken") }

	_, err := Compile(gl, "broken", graphics.FRAGMENT_SHADER)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCompileFailed))
	assert.Contains(t, err.Error(), "fragment")
	assert.Len(t, gl.DeletedShaders, 1)

	src := testSource()
	src.Vertex = "broken"
	p := New(gl, src)
	assert.ErrorIs(t, p.Err(), ErrCompileFailed)
	assert.False(t, p.Linked())
	assert.False(t, p.Usable())
	assert.Zero(t, gl.Called("LinkProgram"))
}

func TestLinkFailure(t *testing.T) {
	gl := graphicstest.NewGL()
	gl.FailLink = true

	p := New(gl, testSource())
	assert.ErrorIs(t, p.Err(), ErrLinkFailed)
	assert.False(t, p.Usable())
	assert.Len(t, gl.DeletedPrograms, 1)

	// a program that never linked is never made current again
	gl.CurrentProgram = 0
	p.Use()
	assert.Zero(t, gl.CurrentProgram)
}

func TestResolveUniform(t *testing.T) {
	gl := graphicstest.NewGL()
	gl.Uniforms["view_proj_matrix"] = 0
	gl.Attribs["rm_Vertex"] = 0
	p := New(gl, testSource())
	require.True(t, p.Usable())

	_, err := p.ResolveUniform("missing")
	assert.ErrorIs(t, err, ErrLookupNotFound)

	loc, err := p.ResolveUniform("view_proj_matrix")
	require.NoError(t, err)
	assert.Equal(t, int32(0), loc)
}

func TestResolveAttributeUnknownIsSentinel(t *testing.T) {
	gl := graphicstest.NewGL()
	gl.Uniforms["view_proj_matrix"] = 0
	p := New(gl, testSource())
	require.NoError(t, p.Err())

	loc, err := p.ResolveAttribute("rm_Normal")
	assert.NoError(t, err)
	assert.Equal(t, int32(-1), loc)
}

func TestLookupBeforeLink(t *testing.T) {
	gl := graphicstest.NewGL()
	gl.FailLink = true
	p := New(gl, testSource())

	_, err := p.ResolveUniform("view_proj_matrix")
	assert.ErrorIs(t, err, ErrLookupNotFound)
	_, err = p.ResolveAttribute("rm_Vertex")
	assert.ErrorIs(t, err, ErrLookupNotFound)
}

func TestMissingUniformMakesProgramUnusable(t *testing.T) {
	gl := graphicstest.NewGL()
	p := New(gl, testSource())
	assert.True(t, p.Linked())
	assert.False(t, p.Usable())
	assert.ErrorIs(t, p.Err(), ErrLookupNotFound)
}

func TestDestroyIdempotent(t *testing.T) {
	gl := graphicstest.NewGL()
	gl.Uniforms["view_proj_matrix"] = 0
	p := New(gl, testSource())
	id := p.ID()

	p.Destroy()
	p.Destroy()
	assert.Equal(t, []uint32{id}, gl.DeletedPrograms)
	assert.False(t, p.Linked())

	_, err := p.ResolveUniform("view_proj_matrix")
	assert.ErrorIs(t, err, ErrLookupNotFound)
}

func TestUseMakesCurrent(t *testing.T) {
	gl := graphicstest.NewGL()
	gl.Uniforms["view_proj_matrix"] = 0
	p := New(gl, testSource())
	gl.CurrentProgram = 0
	p.Use()
	assert.Equal(t, p.ID(), gl.CurrentProgram)
}

type renameTranslator struct {
	err error
}

func (r renameTranslator) Translate(source string, kind graphics.Enum) (string, map[string]string, error) {
	if r.err != nil {
		return "", nil, r.err
	}
	return "// translated\n" + source, map[string]string{"view_proj_matrix": "_uview_proj_matrix"}, nil
}

func TestWithTranslator(t *testing.T) {
	gl := graphicstest.NewGL()
	gl.Uniforms["_uview_proj_matrix"] = 5
	p := New(gl, testSource(), WithTranslator(renameTranslator{}))
	require.NoError(t, p.Err())

	loc, _ := p.Uniform("view_proj_matrix")
	assert.Equal(t, int32(5), loc)
	for _, s := range gl.Attached(p.ID()) {
		assert.True(t, strings.HasPrefix(gl.ShaderSourceOf(s), "// translated"))
	}
}

func TestTranslatorFailure(t *testing.T) {
	gl := graphicstest.NewGL()
	p := New(gl, testSource(), WithTranslator(renameTranslator{err: errors.New("bad token")}))
	assert.ErrorIs(t, p.Err(), ErrCompileFailed)
	assert.Zero(t, gl.Called("CreateShader"))
}
