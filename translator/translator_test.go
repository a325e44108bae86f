package translator

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/richinsley/glframework/graphics"
)

func TestFormatFor(t *testing.T) {
	assert.Equal(t, ESSL, FormatFor(graphics.HighCapability, true))
	assert.Equal(t, ESSL100, FormatFor(graphics.Baseline, true))
	assert.Equal(t, GLSL410, FormatFor(graphics.HighCapability, false))
	assert.Equal(t, GLSL330, FormatFor(graphics.Baseline, false))
}

func TestFormatString(t *testing.T) {
	assert.Equal(t, "glsl410", GLSL410.String())
	assert.Equal(t, "essl", ESSL.String())
	assert.Equal(t, "essl100", ESSL100.String())
	assert.Equal(t, "Format(9)", Format(9).String())
}

func TestTranslateStage(t *testing.T) {
	var stages []string
	tr := &Translator{
		format: ESSL,
		translate: func(source, stage string) (string, map[string]string, error) {
			stages = append(stages, stage)
			return "#version 300 es\n" + source, map[string]string{"sTexture": "_usTexture"}, nil
		},
	}

	code, names, err := tr.Translate("void main(){}", graphics.VERTEX_SHADER)
	assert.NoError(t, err)
	assert.Equal(t, "#version 300 es\nvoid main(){}", code)
	assert.Equal(t, "_usTexture", names["sTexture"])

	_, _, err = tr.Translate("void main(){}", graphics.FRAGMENT_SHADER)
	assert.NoError(t, err)
	assert.Equal(t, []string{"vertex", "fragment"}, stages)
}

func TestNewRejectsESSL100(t *testing.T) {
	tr, err := New(ESSL100)
	assert.Nil(t, tr)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}
