// Package anim derives keyframe blending segments for combined animations.
package anim

import "github.com/chewxy/math32"

// Segment selects a pair of neighbouring keyframes and the blend weight between
// them for a normalized animation coefficient.
type Segment struct {
	frames int
	start  int
	end    int
	weight float32
}

// NewSegment returns a segment over frames keyframes. frames must be at least 2.
func NewSegment(frames int) *Segment {
	return &Segment{frames: frames}
}

// Animate positions the segment at coeff, clamped to [0, 1].
func (s *Segment) Animate(coeff float32) {
	c := math32.Max(math32.Min(coeff, 1), 0)
	if math32.IsNaN(coeff) {
		c = 0
	}

	last := float32(s.frames - 1)
	s.start = int(math32.Trunc(c * last))
	if s.start == s.frames-1 {
		s.start = s.frames - 2
	}
	s.end = s.start + 1
	s.weight = c*last - float32(s.start)
}

func (s *Segment) Start() int      { return s.start }
func (s *Segment) End() int        { return s.end }
func (s *Segment) Frames() int     { return s.frames }
func (s *Segment) Weight() float32 { return s.weight }
