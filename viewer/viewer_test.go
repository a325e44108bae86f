package viewer

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"testing"
	"time"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/richinsley/glframework/fetch"
	"github.com/richinsley/glframework/graphics"
	"github.com/richinsley/glframework/graphics/graphicstest"
	"github.com/richinsley/glframework/renderer"
)

type frameLog struct{ sizes [][2]int }

func (f *frameLog) Capture(gl graphics.GL, width, height int) error {
	f.sizes = append(f.sizes, [2]int{width, height})
	return nil
}

func memFetcher(files map[string][]byte) fetch.Fetcher {
	return fetch.FetcherFunc(func(ctx context.Context, loc string) ([]byte, error) {
		if b, ok := files[loc]; ok {
			return b, nil
		}
		return nil, fetch.ErrFetchFailed
	})
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.White)
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func start(t *testing.T, v *Viewer) (*graphicstest.Surface, *renderer.Renderer) {
	t.Helper()
	s := graphicstest.NewSurface(64, 32)
	s.Fake.Uniforms["view_proj_matrix"] = 1
	s.Fake.Uniforms["sTexture"] = 2
	s.Fake.Attribs["rm_Vertex"] = 0
	s.Fake.Attribs["rm_TexCoord0"] = 1

	v.Translate = false
	r := renderer.New(v.Hooks())
	require.NoError(t, r.Initialize(context.Background(), s, true))
	return s, r
}

func TestViewerLoadsAndDraws(t *testing.T) {
	files := map[string][]byte{
		"cube-indices.bin": make([]byte, 12),
		"cube-strides.bin": make([]byte, 20*4),
		"wood.png":         pngBytes(t),
	}
	v := New(memFetcher(files), "cube", "wood.png", false)
	rec := &frameLog{}
	v.Recorder = rec
	s, r := start(t, v)

	require.True(t, v.Shader().Usable())
	assert.True(t, s.Fake.Called("Enable 0xb71") > 0)

	require.Eventually(t, func() bool {
		s.Step(1)
		return r.Pending() == 0
	}, 2*time.Second, time.Millisecond)
	s.Step(1)

	assert.True(t, v.Model().Loaded())
	assert.Equal(t, 2, v.Model().NumIndices())
	assert.True(t, v.Texture().Loaded())
	require.NotEmpty(t, s.Fake.Draws)
	assert.Equal(t, int32(6), s.Fake.Draws[len(s.Fake.Draws)-1].Count)
	assert.Equal(t, v.Texture().ID, s.Fake.BoundTextures[graphics.TEXTURE_2D])

	require.NotEmpty(t, rec.sizes)
	assert.Equal(t, [2]int{64, 32}, rec.sizes[0])
	assert.Len(t, rec.sizes, int(r.Frames()))
}

func TestViewerMissingModelDrawsNothing(t *testing.T) {
	v := New(memFetcher(nil), "missing", "", false)
	s, r := start(t, v)

	require.Eventually(t, func() bool {
		s.Step(1)
		return r.Pending() == 0
	}, 2*time.Second, time.Millisecond)
	s.Step(3)

	assert.False(t, v.Model().Loaded())
	assert.Empty(t, s.Fake.Draws)
	assert.Equal(t, renderer.Running, r.State())
}

func TestViewerSpinFollowsFrames(t *testing.T) {
	v := New(memFetcher(nil), "missing", "", false)
	v.FPS = 60
	s, _ := start(t, v)

	s.Step(1)
	assert.InDelta(t, 0, v.Rotation().Y(), 1e-6)

	// one second into a four second period
	s.Step(60)
	assert.InDelta(t, math32.Pi/2, v.Rotation().Y(), 1e-5)
}
