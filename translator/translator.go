// Package translator rewrites WebGL2 shader sources into the GLSL dialect of
// the bound context using goshadertranslator.
package translator

import (
	"context"
	"errors"
	"fmt"
	"sync"

	gst "github.com/richinsley/goshadertranslator"

	"github.com/richinsley/glframework/graphics"
)

// Format is the output dialect.
type Format int

const (
	GLSL410 Format = iota
	GLSL330
	ESSL
	// ESSL100 is GLSL ES 1.00 for OpenGL ES 2 contexts. The translator has no
	// output for it, so shaders supply these sources themselves.
	ESSL100
)

var ErrUnsupportedFormat = errors.New("no translator output for format")

func (f Format) String() string {
	switch f {
	case GLSL410:
		return "glsl410"
	case GLSL330:
		return "glsl330"
	case ESSL:
		return "essl"
	case ESSL100:
		return "essl100"
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// FormatFor picks the dialect for a context level. GLES high capability
// contexts are ES 3 and take ESSL, GLES baseline contexts are ES 2 and take
// ESSL100; desktop high capability contexts are 4.1 core, baseline 3.3 core.
func FormatFor(level graphics.ContextLevel, gles bool) Format {
	switch {
	case gles && level == graphics.HighCapability:
		return ESSL
	case gles:
		return ESSL100
	case level == graphics.HighCapability:
		return GLSL410
	}
	return GLSL330
}

var (
	shared     *gst.ShaderTranslator
	sharedErr  error
	sharedOnce sync.Once
)

// GetTranslator returns the process wide translator, creating it on first use.
func GetTranslator() (*gst.ShaderTranslator, error) {
	sharedOnce.Do(func() {
		shared, sharedErr = gst.NewShaderTranslator(context.Background())
	})
	return shared, sharedErr
}

// Translator adapts the shared translator to shader.Translator for one
// output dialect.
type Translator struct {
	format    Format
	translate func(source, stage string) (string, map[string]string, error)
}

func New(format Format) (*Translator, error) {
	if format == ESSL100 {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
	t, err := GetTranslator()
	if err != nil {
		return nil, fmt.Errorf("creating shader translator: %w", err)
	}

	out := gst.OutputFormatGLSL410
	switch format {
	case GLSL330:
		out = gst.OutputFormatGLSL330
	case ESSL:
		out = gst.OutputFormatESSL
	}

	return &Translator{
		format: format,
		translate: func(source, stage string) (string, map[string]string, error) {
			res, err := t.TranslateShader(source, stage, gst.ShaderSpecWebGL2, out)
			if err != nil {
				return "", nil, err
			}
			names := make(map[string]string, len(res.Variables))
			for name, v := range res.Variables {
				names[name] = v.MappedName
			}
			return res.Code, names, nil
		},
	}, nil
}

func (t *Translator) Format() Format { return t.format }

// Translate returns the translated source and the mapping from declared
// variable names to the names used in the translated code.
func (t *Translator) Translate(source string, kind graphics.Enum) (string, map[string]string, error) {
	stage := "fragment"
	if kind == graphics.VERTEX_SHADER {
		stage = "vertex"
	}
	code, names, err := t.translate(source, stage)
	if err != nil {
		return "", nil, fmt.Errorf("%s shader translation failed: %w", stage, err)
	}
	return code, names, nil
}
