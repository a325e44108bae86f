package shader

import (
	"errors"
	"fmt"
	"log"

	"github.com/richinsley/glframework/graphics"
)

var (
	ErrCompileFailed  = errors.New("shader compile failed")
	ErrLinkFailed     = errors.New("program link failed")
	ErrLookupNotFound = errors.New("shader lookup not found")
)

// Source is what a concrete shader supplies: its two stages and the names to
// resolve once the program is linked.
type Source struct {
	Name       string
	Vertex     string
	Fragment   string
	Uniforms   []string
	Attributes []string
}

// Translator rewrites stage source for the bound context's dialect. names maps
// declared identifiers to the identifiers used in the translated code.
type Translator interface {
	Translate(source string, kind graphics.Enum) (code string, names map[string]string, err error)
}

type Option func(*Program)

// WithTranslator translates both stages before compiling them.
func WithTranslator(t Translator) Option {
	return func(p *Program) { p.translator = t }
}

// Program is a linked GPU program plus the uniform and attribute locations
// resolved right after linking. Construction never panics; a program that
// failed to build reports the failure through Err and draws nothing.
type Program struct {
	gl         graphics.GL
	name       string
	id         uint32
	linked     bool
	err        error
	translator Translator
	names      map[string]string
	uniforms   map[string]int32
	attributes map[string]int32
}

// New compiles, links and resolves src exactly once.
func New(gl graphics.GL, src Source, opts ...Option) *Program {
	p := &Program{
		gl:         gl,
		name:       src.Name,
		names:      map[string]string{},
		uniforms:   make(map[string]int32, len(src.Uniforms)),
		attributes: make(map[string]int32, len(src.Attributes)),
	}
	for _, opt := range opts {
		opt(p)
	}

	if err := p.build(src); err != nil {
		p.err = err
		log.Printf("%s: Could not initialise shader: %v", p.name, err)
		return p
	}
	log.Printf("%s: Initialised shader", p.name)
	return p
}

func (p *Program) build(src Source) error {
	vertex, fragment := src.Vertex, src.Fragment
	if p.translator != nil {
		var err error
		if vertex, err = p.translate(vertex, graphics.VERTEX_SHADER); err != nil {
			return err
		}
		if fragment, err = p.translate(fragment, graphics.FRAGMENT_SHADER); err != nil {
			return err
		}
	}

	fs, err := Compile(p.gl, fragment, graphics.FRAGMENT_SHADER)
	if err != nil {
		return err
	}
	vs, err := Compile(p.gl, vertex, graphics.VERTEX_SHADER)
	if err != nil {
		p.gl.DeleteShader(fs)
		return err
	}

	id, err := Link(p.gl, vs, fs)
	if err != nil {
		return err
	}
	p.id = id
	p.linked = true
	p.gl.UseProgram(id)

	for _, name := range src.Uniforms {
		loc, err := p.ResolveUniform(name)
		if err != nil {
			return err
		}
		p.uniforms[name] = loc
	}
	for _, name := range src.Attributes {
		loc, err := p.ResolveAttribute(name)
		if err != nil {
			return err
		}
		p.attributes[name] = loc
	}
	return nil
}

func (p *Program) translate(source string, kind graphics.Enum) (string, error) {
	code, names, err := p.translator.Translate(source, kind)
	if err != nil {
		return "", fmt.Errorf("%w: translating %s stage: %v", ErrCompileFailed, stageName(kind), err)
	}
	for k, v := range names {
		p.names[k] = v
	}
	return code, nil
}

func (p *Program) mapped(name string) string {
	if n, ok := p.names[name]; ok {
		return n
	}
	return name
}

// ResolveUniform looks up a uniform location in the linked program.
func (p *Program) ResolveUniform(name string) (int32, error) {
	if !p.linked {
		return -1, fmt.Errorf("%w: no program for shader %s", ErrLookupNotFound, p.name)
	}
	loc := p.gl.GetUniformLocation(p.id, p.mapped(name))
	if loc < 0 {
		return -1, fmt.Errorf("%w: cannot get uniform %q", ErrLookupNotFound, name)
	}
	return loc, nil
}

// ResolveAttribute looks up an attribute location in the linked program. An
// unknown name yields -1 without an error, as GL reports it.
func (p *Program) ResolveAttribute(name string) (int32, error) {
	if !p.linked {
		return -1, fmt.Errorf("%w: no program for shader %s", ErrLookupNotFound, p.name)
	}
	return p.gl.GetAttribLocation(p.id, p.mapped(name)), nil
}

// Uniform returns a location resolved at construction.
func (p *Program) Uniform(name string) (int32, bool) {
	loc, ok := p.uniforms[name]
	return loc, ok
}

// Attribute returns a location resolved at construction.
func (p *Program) Attribute(name string) (int32, bool) {
	loc, ok := p.attributes[name]
	return loc, ok
}

// Use makes the program current. It does nothing for a program that never linked.
func (p *Program) Use() {
	if p.linked {
		p.gl.UseProgram(p.id)
	}
}

// Destroy deletes the GPU program. Further calls are no-ops.
func (p *Program) Destroy() {
	if p.id == 0 {
		return
	}
	p.gl.DeleteProgram(p.id)
	p.id = 0
	p.linked = false
}

func (p *Program) Name() string { return p.name }
func (p *Program) ID() uint32   { return p.id }
func (p *Program) Linked() bool { return p.linked }
func (p *Program) Err() error   { return p.err }
func (p *Program) Usable() bool { return p.linked && p.err == nil }
