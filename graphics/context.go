package graphics

import "errors"

// ErrContextUnavailable is returned when no GL context could be acquired from a surface.
var ErrContextUnavailable = errors.New("graphics context unavailable")

// ContextLevel selects which kind of context a surface should create.
type ContextLevel int

const (
	// Baseline is the lowest context level the framework can render with.
	Baseline ContextLevel = iota
	// HighCapability is the richer context tried first when requested.
	HighCapability
)

func (l ContextLevel) String() string {
	switch l {
	case Baseline:
		return "baseline"
	case HighCapability:
		return "high-capability"
	default:
		return "unknown"
	}
}

// Surface defines the interface for a drawable surface that owns a GL context.
type Surface interface {
	// CreateContext creates a context of the given level on this surface.
	CreateContext(level ContextLevel) error
	// GL makes the created context current and returns its function table.
	GL() (GL, error)

	// DisplaySize is the logical on-screen size of the surface.
	DisplaySize() (int, int)
	// PixelRatio converts logical display units to device pixels.
	PixelRatio() float64
	// BackingSize is the pixel size of the drawing buffer.
	BackingSize() (int, int)
	SetBackingSize(width, height int)

	// RequestFrame schedules fn to run once on the next presented frame.
	RequestFrame(fn func())
	Shutdown()
}
