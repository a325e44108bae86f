// Package renderer drives a GL surface through its lifecycle and runs the
// per-frame tick: context acquisition, shader and resource initialization,
// then a frame loop paced by the surface's presentation callback.
package renderer

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"sync/atomic"
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/richinsley/glframework/drawable"
	"github.com/richinsley/glframework/graphics"
	"github.com/richinsley/glframework/matrix"
)

var ErrAlreadyInitialized = errors.New("renderer already initialized")

type Renderer struct {
	hooks      Hooks
	clearColor [4]float32
	queueSize  int

	state   State
	surface graphics.Surface
	gl      graphics.GL
	level   graphics.ContextLevel
	ctx     context.Context

	viewportWidth  int
	viewportHeight int

	modelMatrix mgl32.Mat4
	viewMatrix  mgl32.Mat4
	projMatrix  mgl32.Mat4
	mvpMatrix   mgl32.Mat4
	orthoMatrix mgl32.Mat4

	completed chan func()
	pending   atomic.Int32
	frames    int64
	started   time.Time
}

func New(hooks Hooks, opts ...Option) *Renderer {
	r := &Renderer{
		hooks:       hooks,
		clearColor:  [4]float32{0, 0, 0, 1},
		queueSize:   64,
		modelMatrix: mgl32.Ident4(),
		viewMatrix:  mgl32.Ident4(),
		projMatrix:  mgl32.Ident4(),
		mvpMatrix:   mgl32.Ident4(),
		orthoMatrix: mgl32.Ident4(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.completed = make(chan func(), r.queueSize)
	return r
}

func (r *Renderer) setState(s State) {
	from := r.state
	r.state = s
	if r.hooks.StateChanged != nil {
		r.hooks.StateChanged(r, from, s)
	}
}

// Initialize acquires a context from surface and starts the frame loop. When
// requestHigh is set a high capability context is tried first and the
// baseline context is the fallback. Failing to acquire any context runs the
// InitError hook and leaves the renderer in InitFailed.
func (r *Renderer) Initialize(ctx context.Context, surface graphics.Surface, requestHigh bool) error {
	if r.state != Uninitialized {
		return fmt.Errorf("%w: state %s", ErrAlreadyInitialized, r.state)
	}
	if r.hooks.BeforeInit != nil {
		r.hooks.BeforeInit(r)
	}

	r.ctx = ctx
	r.surface = surface
	r.viewportWidth, r.viewportHeight = surface.BackingSize()

	level, err := r.createContext(requestHigh)
	if err != nil {
		return r.fail(err)
	}
	r.level = level
	r.setState(ContextAcquired)

	gl, err := surface.GL()
	if err != nil {
		return r.fail(fmt.Errorf("%w: binding %s context: %v", graphics.ErrContextUnavailable, level, err))
	}
	r.gl = gl
	log.Printf("Initialised %s context: %s", level, gl.GetString(graphics.VERSION))

	r.resize()
	if r.hooks.AfterInit != nil {
		r.hooks.AfterInit(r)
	}

	if r.hooks.InitShaders != nil {
		r.hooks.InitShaders(r)
	}
	r.setState(ShadersReady)

	if r.hooks.LoadData != nil {
		if err := r.hooks.LoadData(ctx, r); err != nil {
			log.Printf("Error loading data: %v", err)
		}
	}
	r.setState(ResourcesLoaded)

	r.started = time.Now()
	r.setState(Running)
	surface.RequestFrame(r.tick)
	return nil
}

func (r *Renderer) createContext(requestHigh bool) (graphics.ContextLevel, error) {
	if requestHigh {
		err := r.surface.CreateContext(graphics.HighCapability)
		if err == nil {
			return graphics.HighCapability, nil
		}
		log.Printf("Could not initialise %s context, falling back to %s: %v", graphics.HighCapability, graphics.Baseline, err)
	}
	if err := r.surface.CreateContext(graphics.Baseline); err != nil {
		return 0, fmt.Errorf("%w: %v", graphics.ErrContextUnavailable, err)
	}
	return graphics.Baseline, nil
}

func (r *Renderer) fail(err error) error {
	log.Printf("Cannot initialize GL context: %v", err)
	r.setState(InitFailed)
	if r.hooks.InitError != nil {
		r.hooks.InitError(r, err)
	}
	return err
}

// tick is one frame. The next frame is requested first so a consumer hook
// never stalls pacing.
func (r *Renderer) tick() {
	r.surface.RequestFrame(r.tick)
	r.applyCompleted()
	r.resize()
	r.drawScene()
	if r.hooks.Animate != nil {
		r.hooks.Animate(r)
	}
	r.frames++
	if r.hooks.FrameDone != nil {
		r.hooks.FrameDone(r)
	}
}

func (r *Renderer) drawScene() {
	r.gl.Viewport(0, 0, int32(r.viewportWidth), int32(r.viewportHeight))
	r.gl.ClearColor(r.clearColor[0], r.clearColor[1], r.clearColor[2], r.clearColor[3])
	r.gl.Clear(graphics.COLOR_BUFFER_BIT | graphics.DEPTH_BUFFER_BIT)
	if r.hooks.Draw != nil {
		r.hooks.Draw(r)
	}
}

// resize matches the backing store to the display size in device pixels.
func (r *Renderer) resize() {
	ratio := r.surface.PixelRatio()
	if ratio <= 0 {
		ratio = 1
	}
	dw, dh := r.surface.DisplaySize()
	width := int(math.Floor(float64(dw) * ratio))
	height := int(math.Floor(float64(dh) * ratio))

	bw, bh := r.surface.BackingSize()
	if bw != width || bh != height {
		r.surface.SetBackingSize(width, height)
	}
	r.viewportWidth, r.viewportHeight = width, height
}

// ComputeMVP rebuilds the model matrix from translation, rotation (radians
// about X, then Y, then Z) and scale, and the MVP matrix from it.
func (r *Renderer) ComputeMVP(translation, rotation, scale mgl32.Vec3) {
	r.modelMatrix = matrix.Model(translation, rotation, scale)
	r.mvpMatrix = matrix.MVP(r.projMatrix, r.viewMatrix, r.modelMatrix)
}

// SetFOV writes a symmetric frustum for a vertical field of view in degrees into m.
func (r *Renderer) SetFOV(m *mgl32.Mat4, fovY, aspect, near, far float32) {
	*m = matrix.Perspective(fovY, aspect, near, far)
}

// SetPerspective sets the projection matrix from a vertical field of view.
func (r *Renderer) SetPerspective(fovY, aspect, near, far float32) {
	r.SetFOV(&r.projMatrix, fovY, aspect, near, far)
}

func (r *Renderer) SetProjection(m mgl32.Mat4) { r.projMatrix = m }
func (r *Renderer) SetViewMatrix(m mgl32.Mat4) { r.viewMatrix = m }

// SetView points the camera at center from eye.
func (r *Renderer) SetView(eye, center, up mgl32.Vec3) {
	r.viewMatrix = mgl32.LookAtV(eye, center, up)
}

// SetOrtho sets the orthographic matrix used for off-screen passes.
func (r *Renderer) SetOrtho(left, right, bottom, top, near, far float32) {
	r.orthoMatrix = matrix.Ortho(left, right, bottom, top, near, far)
}

func (r *Renderer) MVP() mgl32.Mat4              { return r.mvpMatrix }
func (r *Renderer) ModelMatrix() mgl32.Mat4      { return r.modelMatrix }
func (r *Renderer) ViewMatrix() mgl32.Mat4       { return r.viewMatrix }
func (r *Renderer) ProjectionMatrix() mgl32.Mat4 { return r.projMatrix }
func (r *Renderer) OrthoMatrix() mgl32.Mat4      { return r.orthoMatrix }

// SetTexture2D binds texture to unit and points uniform at the unit.
func (r *Renderer) SetTexture2D(unit int32, texture uint32, uniform int32) {
	r.gl.ActiveTexture(graphics.TEXTURE0 + graphics.Enum(unit))
	r.gl.BindTexture(graphics.TEXTURE_2D, texture)
	r.gl.Uniform1i(uniform, unit)
}

// SetTextureCubemap binds a cube texture to unit and points uniform at the unit.
func (r *Renderer) SetTextureCubemap(unit int32, texture uint32, uniform int32) {
	r.gl.ActiveTexture(graphics.TEXTURE0 + graphics.Enum(unit))
	r.gl.BindTexture(graphics.TEXTURE_CUBE_MAP, texture)
	r.gl.Uniform1i(uniform, unit)
}

// UnbindBuffers clears the array and element array buffer bindings.
func (r *Renderer) UnbindBuffers() {
	r.gl.BindBuffer(graphics.ARRAY_BUFFER, 0)
	r.gl.BindBuffer(graphics.ELEMENT_ARRAY_BUFFER, 0)
}

// CheckGLError logs every pending GL error against op.
func (r *Renderer) CheckGLError(op string) {
	graphics.CheckError(r.gl, op)
}

// LogGLError logs the oldest pending GL error, if any.
func (r *Renderer) LogGLError() {
	if e := r.gl.GetError(); e != graphics.NO_ERROR {
		log.Printf("GL error # 0x%04x", e)
	}
}

// GL is the bound context. It is nil until a context has been acquired.
func (r *Renderer) GL() graphics.GL { return r.gl }

func (r *Renderer) Surface() graphics.Surface     { return r.surface }
func (r *Renderer) State() State                  { return r.state }
func (r *Renderer) Level() graphics.ContextLevel  { return r.level }
func (r *Renderer) Viewport() (width, height int) { return r.viewportWidth, r.viewportHeight }

// Context is the context given to Initialize, for loads started after init.
func (r *Renderer) Context() context.Context {
	if r.ctx == nil {
		return context.Background()
	}
	return r.ctx
}

// Frames counts completed ticks.
func (r *Renderer) Frames() int64 { return r.frames }

// Elapsed is the time since the renderer entered Running.
func (r *Renderer) Elapsed() time.Duration {
	if r.started.IsZero() {
		return 0
	}
	return time.Since(r.started)
}

var _ drawable.Renderer = (*Renderer)(nil)
