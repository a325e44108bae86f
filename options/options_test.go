package options

import (
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "viewer.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadFileFlagsWin(t *testing.T) {
	fs := flag.NewFlagSet("viewer", flag.ContinueOnError)
	o := Register(fs)
	require.NoError(t, fs.Parse([]string{"-width", "800", "-model", "cli/teapot"}))

	path := writeConfig(t, `
model = "file/teapot"
texture = "https://example.com/wood.png"
width = 1920
height = 1080
record = true
codec = "hevc"
`)
	require.NoError(t, o.LoadFile(path, Explicit(fs)))

	assert.Equal(t, "cli/teapot", *o.Model)
	assert.Equal(t, 800, *o.Width)
	assert.Equal(t, 1080, *o.Height)
	assert.Equal(t, "https://example.com/wood.png", *o.Texture)
	assert.True(t, *o.Record)
	assert.Equal(t, "hevc", *o.Codec)
	assert.Equal(t, 600, *o.Frames)
	assert.NoError(t, o.Validate())
}

func TestLoadFileErrors(t *testing.T) {
	o := Register(flag.NewFlagSet("viewer", flag.ContinueOnError))

	assert.Error(t, o.LoadFile(filepath.Join(t.TempDir(), "missing.toml"), nil))
	assert.Error(t, o.LoadFile(writeConfig(t, `colour = "red"`), nil))
	assert.Error(t, o.LoadFile(writeConfig(t, `width = "wide"`), nil))
}

func TestValidate(t *testing.T) {
	fs := flag.NewFlagSet("viewer", flag.ContinueOnError)
	o := Register(fs)
	assert.Error(t, o.Validate())

	require.NoError(t, fs.Parse([]string{"-model", "m", "-codec", "vp9"}))
	assert.Error(t, o.Validate())

	*o.Codec = "h264"
	*o.Record = true
	*o.Frames = 0
	assert.Error(t, o.Validate())

	*o.Frames = 10
	assert.NoError(t, o.Validate())
}
