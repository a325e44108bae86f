package graphics

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRunFramesCount(t *testing.T) {
	calls := 0
	n := RunFrames(context.Background(), 5, func() bool { calls++; return true })
	assert.Equal(t, 5, n)
	assert.Equal(t, 5, calls)
}

func TestRunFramesStopsWhenContextDone(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	n := RunFrames(ctx, 100, func() bool {
		calls++
		if calls == 3 {
			cancel()
		}
		return true
	})
	assert.Equal(t, 3, n)
	assert.Equal(t, 3, calls)

	assert.Equal(t, 0, RunFrames(ctx, 10, func() bool { t.Fatal("presented after cancel"); return true }))
}

func TestRunFramesStopsWhenNothingScheduled(t *testing.T) {
	calls := 0
	n := RunFrames(context.Background(), 10, func() bool { calls++; return calls < 4 })
	assert.Equal(t, 3, n)
}
