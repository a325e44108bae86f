//go:build !linux

package headless

import (
	"context"
	"fmt"

	"github.com/richinsley/glframework/graphics"
)

// Surface stands in for the EGL surface on platforms without it. Every
// context request fails.
type Surface struct {
	width, height int
	next          func()
}

func New(width, height int) *Surface {
	return &Surface{width: width, height: height}
}

func (s *Surface) CreateContext(level graphics.ContextLevel) error {
	return fmt.Errorf("%w: egl headless rendering is not supported on this platform", graphics.ErrContextUnavailable)
}

func (s *Surface) GL() (graphics.GL, error)          { return nil, graphics.ErrContextUnavailable }
func (s *Surface) DisplaySize() (int, int)          { return s.width, s.height }
func (s *Surface) PixelRatio() float64              { return 1 }
func (s *Surface) BackingSize() (int, int)          { return s.width, s.height }
func (s *Surface) SetBackingSize(width, height int) {}
func (s *Surface) RequestFrame(fn func())           { s.next = fn }
func (s *Surface) Shutdown()                        {}

func (s *Surface) Run(ctx context.Context, frames int) int { return 0 }

var _ graphics.Surface = (*Surface)(nil)
