package graphics

import "context"

// RunFrames calls present up to frames times and stops early when ctx is done
// or present reports that nothing was scheduled. It returns how many frames
// were presented.
func RunFrames(ctx context.Context, frames int, present func() bool) int {
	n := 0
	for n < frames && ctx.Err() == nil {
		if !present() {
			break
		}
		n++
	}
	return n
}
