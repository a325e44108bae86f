package renderer

import "fmt"

// State is the renderer's lifecycle position.
//
//	Uninitialized → ContextAcquired → ShadersReady → ResourcesLoaded → Running
//
// InitFailed is terminal and reachable from Uninitialized or ContextAcquired.
type State int

const (
	Uninitialized State = iota
	ContextAcquired
	ShadersReady
	ResourcesLoaded
	Running
	InitFailed
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "Uninitialized"
	case ContextAcquired:
		return "ContextAcquired"
	case ShadersReady:
		return "ShadersReady"
	case ResourcesLoaded:
		return "ResourcesLoaded"
	case Running:
		return "Running"
	case InitFailed:
		return "InitFailed"
	}
	return fmt.Sprintf("State(%d)", int(s))
}
