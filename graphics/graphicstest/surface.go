package graphicstest

import (
	"errors"

	"github.com/richinsley/glframework/graphics"
)

// Surface is a fake graphics.Surface with a manual frame pump.
type Surface struct {
	// Levels lists the context levels CreateContext accepts.
	Levels map[graphics.ContextLevel]bool
	// BindErr is returned by GL when set.
	BindErr error
	Fake    *GL

	Display      [2]int
	Ratio        float64
	Backing      [2]int
	Attempts     []graphics.ContextLevel
	Created      graphics.ContextLevel
	ShutdownDone bool

	pending []func()
}

// NewSurface returns a surface that can create contexts of any level.
func NewSurface(width, height int) *Surface {
	return &Surface{
		Levels:  map[graphics.ContextLevel]bool{graphics.Baseline: true, graphics.HighCapability: true},
		Fake:    NewGL(),
		Display: [2]int{width, height},
		Ratio:   1,
		Backing: [2]int{width, height},
		Created: -1,
	}
}

func (s *Surface) CreateContext(level graphics.ContextLevel) error {
	s.Attempts = append(s.Attempts, level)
	if !s.Levels[level] {
		return errors.New("context level not supported")
	}
	s.Created = level
	return nil
}

func (s *Surface) GL() (graphics.GL, error) {
	if s.BindErr != nil {
		return nil, s.BindErr
	}
	if s.Created < 0 {
		return nil, graphics.ErrContextUnavailable
	}
	return s.Fake, nil
}

func (s *Surface) DisplaySize() (int, int)          { return s.Display[0], s.Display[1] }
func (s *Surface) PixelRatio() float64              { return s.Ratio }
func (s *Surface) BackingSize() (int, int)          { return s.Backing[0], s.Backing[1] }
func (s *Surface) SetBackingSize(width, height int) { s.Backing = [2]int{width, height} }
func (s *Surface) RequestFrame(fn func())           { s.pending = append(s.pending, fn) }
func (s *Surface) Shutdown()                        { s.ShutdownDone = true }

// Pending reports how many frame callbacks are waiting.
func (s *Surface) Pending() int { return len(s.pending) }

// Step presents n frames, running the callbacks scheduled before each one.
func (s *Surface) Step(n int) {
	for i := 0; i < n; i++ {
		callbacks := s.pending
		s.pending = nil
		for _, fn := range callbacks {
			fn()
		}
	}
}

var _ graphics.Surface = (*Surface)(nil)
