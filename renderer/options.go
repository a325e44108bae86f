package renderer

import "context"

// Hooks are the consumer's callbacks into the lifecycle. Every field is
// optional. All of them run on the render thread.
type Hooks struct {
	// BeforeInit runs first, before a context exists.
	BeforeInit func(r *Renderer)
	// AfterInit runs once the context is bound and the surface sized.
	AfterInit func(r *Renderer)
	// InitError runs when no context could be acquired.
	InitError func(r *Renderer, err error)
	// InitShaders builds programs.
	InitShaders func(r *Renderer)
	// LoadData loads resources. Blocking loads finish before the first frame;
	// loads started with Go complete on later frames. A returned error is
	// logged and does not stop the loop.
	LoadData func(ctx context.Context, r *Renderer) error
	// Draw issues the frame's draw calls after the frame is cleared.
	Draw func(r *Renderer)
	// Animate advances timers and animation state after drawing.
	Animate func(r *Renderer)
	// FrameDone runs last in every tick.
	FrameDone func(r *Renderer)
	// StateChanged observes every lifecycle transition.
	StateChanged func(r *Renderer, from, to State)
}

type Option func(*Renderer)

// WithClearColor sets the color each frame is cleared to. The default is
// opaque black.
func WithClearColor(red, green, blue, alpha float32) Option {
	return func(r *Renderer) { r.clearColor = [4]float32{red, green, blue, alpha} }
}

// WithFrameQueue sets how many completed async loads can wait for the next
// tick before their loaders block.
func WithFrameQueue(n int) Option {
	return func(r *Renderer) {
		if n > 0 {
			r.queueSize = n
		}
	}
}
