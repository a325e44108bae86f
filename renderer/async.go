package renderer

import (
	"context"
	"log"

	"github.com/richinsley/glframework/graphics"
)

// Go runs fetch on its own goroutine and hands a successful result to apply
// on the render thread at the start of a later tick. fetch must not touch
// GL. A failed fetch is logged with label and apply never runs, so whatever
// apply would have populated stays in its unloaded state. Once ctx is done a
// result that cannot be queued is discarded.
func Go[T any](r *Renderer, ctx context.Context, label string, fetch func(ctx context.Context) (T, error), apply func(gl graphics.GL, v T)) {
	r.pending.Add(1)
	go func() {
		done := func() {}
		v, err := fetch(ctx)
		if err != nil {
			log.Printf("%s: %v", label, err)
		} else {
			done = func() { apply(r.gl, v) }
		}
		select {
		case r.completed <- done:
		case <-ctx.Done():
			// ticks may have stopped; the result is dropped
			r.pending.Add(-1)
		}
	}()
}

// Pending counts async loads that have not been applied yet.
func (r *Renderer) Pending() int {
	return int(r.pending.Load())
}

func (r *Renderer) applyCompleted() {
	for {
		select {
		case fn := <-r.completed:
			fn()
			r.pending.Add(-1)
		default:
			return
		}
	}
}
