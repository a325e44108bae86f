// Package viewer spins one textured model on a renderer. It is the scene the
// command line tool shows and records.
package viewer

import (
	"context"
	"image"
	"log"
	"strings"
	"time"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/richinsley/glframework/anim"
	"github.com/richinsley/glframework/fetch"
	"github.com/richinsley/glframework/graphics"
	"github.com/richinsley/glframework/model"
	"github.com/richinsley/glframework/renderer"
	"github.com/richinsley/glframework/shader"
	"github.com/richinsley/glframework/shaders"
	"github.com/richinsley/glframework/texture"
	"github.com/richinsley/glframework/translator"
)

const spinPeriod = 4 * time.Second

// spinKeys are the Y rotations, in radians, the model passes through in one period.
var spinKeys = []float32{0, math32.Pi / 2, math32.Pi, 3 * math32.Pi / 2, 2 * math32.Pi}

// Capturer receives every finished frame.
type Capturer interface {
	Capture(gl graphics.GL, width, height int) error
}

type Viewer struct {
	fetcher    fetch.Fetcher
	modelURL   string
	textureURL string
	gles       bool

	// FPS > 0 advances the spin by frame count instead of wall time.
	FPS int
	// Translate builds shaders through the shader translator first.
	Translate bool
	Recorder  Capturer

	diffuse  *shaders.Diffuse
	model    *model.Model
	texture  texture.Texture
	spin     *anim.Segment
	rotation mgl32.Vec3
}

// New returns a viewer for the model at modelURL. textureURL may be empty.
// gles selects ESSL shaders for OpenGL ES contexts.
func New(f fetch.Fetcher, modelURL, textureURL string, gles bool) *Viewer {
	return &Viewer{
		fetcher:    f,
		modelURL:   modelURL,
		textureURL: textureURL,
		gles:       gles,
		Translate:  true,
		spin:       anim.NewSegment(len(spinKeys)),
	}
}

// Hooks wires the viewer into a renderer.
func (v *Viewer) Hooks() renderer.Hooks {
	return renderer.Hooks{
		AfterInit:   v.afterInit,
		InitError:   func(r *renderer.Renderer, err error) { log.Printf("Renderer failed to start: %v", err) },
		InitShaders: v.initShaders,
		LoadData:    v.loadData,
		Draw:        v.draw,
		Animate:     v.animate,
		FrameDone:   v.frameDone,
	}
}

func (v *Viewer) afterInit(r *renderer.Renderer) {
	r.GL().Enable(graphics.DEPTH_TEST)
	r.SetView(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 0, -1}, mgl32.Vec3{0, 1, 0})
}

// initShaders builds the diffuse program through the shader translator and
// falls back to the hand written dialect sources when translation is
// unavailable or fails.
func (v *Viewer) initShaders(r *renderer.Renderer) {
	format := translator.FormatFor(r.Level(), v.gles)
	if v.Translate {
		tr, err := translator.New(format)
		if err != nil {
			log.Printf("Shader translator unavailable, using %s sources: %v", format, err)
		} else {
			v.diffuse = shaders.NewDiffuse(r.GL(), format, shader.WithTranslator(tr))
			if v.diffuse.Usable() {
				return
			}
			v.diffuse.Destroy()
		}
	}
	v.diffuse = shaders.NewDiffuse(r.GL(), format)
}

func (v *Viewer) loadData(ctx context.Context, r *renderer.Renderer) error {
	renderer.Go(r, ctx, v.modelURL,
		func(ctx context.Context) (*model.Data, error) { return model.Fetch(ctx, v.fetcher, v.modelURL) },
		func(gl graphics.GL, d *model.Data) {
			v.model = model.Upload(gl, d)
			log.Printf("Loaded model %s: %d triangles", v.modelURL, v.model.NumIndices())
		})

	switch {
	case v.textureURL == "":
	case strings.HasSuffix(strings.ToLower(v.textureURL), ".pkm"):
		renderer.Go(r, ctx, v.textureURL,
			func(ctx context.Context) (*texture.Compressed, error) {
				return texture.FetchCompressed(ctx, v.fetcher, v.textureURL)
			},
			func(gl graphics.GL, c *texture.Compressed) { v.texture = texture.UploadCompressed(gl, c) })
	default:
		renderer.Go(r, ctx, v.textureURL,
			func(ctx context.Context) (*image.RGBA, error) { return texture.FetchImage(ctx, v.fetcher, v.textureURL) },
			func(gl graphics.GL, img *image.RGBA) { v.texture = texture.UploadImage(gl, img, texture.DefaultConfig()) })
	}
	return nil
}

func (v *Viewer) draw(r *renderer.Renderer) {
	if !v.model.Loaded() {
		return
	}
	w, h := r.Viewport()
	if h > 0 {
		r.SetPerspective(45, float32(w)/float32(h), 0.1, 100)
	}
	v.diffuse.SetTexture(r, 0, v.texture.ID)
	v.diffuse.Draw(r, v.model, mgl32.Vec3{0, 0, -4}, v.rotation, mgl32.Vec3{1, 1, 1}, nil)
}

// animate moves the spin to the current point of its period and interpolates
// the rotation between the two surrounding keys.
func (v *Viewer) animate(r *renderer.Renderer) {
	var elapsed float64
	if v.FPS > 0 {
		elapsed = float64(r.Frames()) / float64(v.FPS)
	} else {
		elapsed = r.Elapsed().Seconds()
	}
	coeff := float32(math32.Mod(float32(elapsed), float32(spinPeriod.Seconds())) / float32(spinPeriod.Seconds()))
	v.spin.Animate(coeff)
	a, b := spinKeys[v.spin.Start()], spinKeys[v.spin.End()]
	v.rotation[1] = a + (b-a)*v.spin.Weight()
}

func (v *Viewer) frameDone(r *renderer.Renderer) {
	if v.Recorder == nil {
		return
	}
	w, h := r.Viewport()
	if err := v.Recorder.Capture(r.GL(), w, h); err != nil {
		log.Printf("Capture failed on frame %d: %v", r.Frames(), err)
	}
}

func (v *Viewer) Model() *model.Model      { return v.model }
func (v *Viewer) Texture() texture.Texture { return v.texture }
func (v *Viewer) Shader() *shaders.Diffuse { return v.diffuse }
func (v *Viewer) Rotation() mgl32.Vec3     { return v.rotation }
