package anim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSegmentBoundaries(t *testing.T) {
	s := NewSegment(5)

	s.Animate(0)
	assert.Equal(t, 0, s.Start())
	assert.Equal(t, 1, s.End())
	assert.Equal(t, float32(0), s.Weight())

	s.Animate(1)
	assert.Equal(t, 3, s.Start())
	assert.Equal(t, 4, s.End())
	assert.Equal(t, float32(1), s.Weight())
}

func TestSegmentClampsCoefficient(t *testing.T) {
	s := NewSegment(4)

	s.Animate(-3)
	assert.Equal(t, 0, s.Start())
	assert.Equal(t, float32(0), s.Weight())

	s.Animate(7)
	assert.Equal(t, 2, s.Start())
	assert.Equal(t, 3, s.End())
	assert.Equal(t, float32(1), s.Weight())
}

func TestSegmentMidpoint(t *testing.T) {
	s := NewSegment(3)
	s.Animate(0.75)
	assert.Equal(t, 1, s.Start())
	assert.Equal(t, 2, s.End())
	assert.InDelta(t, 0.5, s.Weight(), 1e-6)
	assert.Equal(t, 3, s.Frames())
}

func TestSegmentInvariants(t *testing.T) {
	for frames := 2; frames <= 40; frames++ {
		s := NewSegment(frames)
		for i := 0; i <= 1000; i++ {
			c := float32(i) / 1000
			s.Animate(c)
			assert.GreaterOrEqual(t, s.Start(), 0)
			assert.LessOrEqual(t, s.Start(), frames-2)
			assert.Equal(t, s.Start()+1, s.End())
			assert.GreaterOrEqual(t, s.Weight(), float32(0))
			if c < 1 {
				assert.Less(t, s.Weight(), float32(1), "frames=%d c=%v", frames, c)
			}
		}
	}
}
