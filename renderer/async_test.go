package renderer

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/richinsley/glframework/graphics"
)

func TestGoDropsResultWhenQueueFullAndContextDone(t *testing.T) {
	r := New(Hooks{}, WithFrameQueue(1))
	var applied []string
	load := func(name string) (func(context.Context) (string, error), func(graphics.GL, string)) {
		return func(context.Context) (string, error) { return name, nil },
			func(_ graphics.GL, v string) { applied = append(applied, v) }
	}

	fetchA, applyA := load("a")
	Go(r, context.Background(), "a", fetchA, applyA)
	require.Eventually(t, func() bool { return len(r.completed) == 1 }, 2*time.Second, time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	fetchB, applyB := load("b")
	Go(r, ctx, "b", fetchB, applyB)
	require.Eventually(t, func() bool { return r.Pending() == 1 }, 2*time.Second, time.Millisecond)

	r.applyCompleted()
	assert.Equal(t, 0, r.Pending())
	assert.Equal(t, []string{"a"}, applied)
}
