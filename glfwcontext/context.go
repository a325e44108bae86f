package glfwcontext

import (
	"context"
	"errors"
	"fmt"
	"log"
	"runtime"

	glfw "github.com/go-gl/glfw/v3.3/glfw"

	"github.com/richinsley/glframework/glbackend"
	"github.com/richinsley/glframework/graphics"
)

// Surface is a GLFW window that owns a desktop GL context. All methods must be
// called from the thread that called InitGraphics.
type Surface struct {
	window  *glfw.Window
	gl      *glbackend.GL
	title   string
	width   int
	height  int
	visible bool

	next func()

	// windowed geometry saved while fullscreen
	savedX, savedY, savedW, savedH int
	fullScreenListeners            []func()

	// A map to store functions to be called on key presses.
	keyCallbacks map[glfw.Key]func()
}

// New prepares a window of the given size. The window itself is created by
// CreateContext because the context hints depend on the requested level.
func New(width, height int, title string, visible bool) *Surface {
	return &Surface{
		title:        title,
		width:        width,
		height:       height,
		visible:      visible,
		keyCallbacks: make(map[glfw.Key]func()),
	}
}

func contextVersion(level graphics.ContextLevel) (int, int) {
	if level == graphics.HighCapability {
		return 4, 1
	}
	return 3, 3
}

// CreateContext creates the window with a core profile context of the version
// matching level. A previous window is destroyed first.
func (s *Surface) CreateContext(level graphics.ContextLevel) error {
	if s.window != nil {
		s.window.Destroy()
		s.window = nil
	}

	major, minor := contextVersion(level)
	glfw.DefaultWindowHints()
	glfw.WindowHint(glfw.ContextVersionMajor, major)
	glfw.WindowHint(glfw.ContextVersionMinor, minor)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	if s.visible {
		glfw.WindowHint(glfw.Resizable, glfw.True)
	} else {
		glfw.WindowHint(glfw.Visible, glfw.False)
	}

	win, err := glfw.CreateWindow(s.width, s.height, s.title, nil, nil)
	if err != nil {
		return fmt.Errorf("creating GL %d.%d window: %w", major, minor, err)
	}
	s.window = win
	win.SetKeyCallback(s.glfwKeyCallback)
	return nil
}

// GL makes the window's context current and binds the GL function table.
func (s *Surface) GL() (graphics.GL, error) {
	if s.window == nil {
		return nil, graphics.ErrContextUnavailable
	}
	s.window.MakeContextCurrent()
	glfw.SwapInterval(1)
	if s.gl == nil {
		g, err := glbackend.New()
		if err != nil {
			return nil, err
		}
		s.gl = g
	}
	return s.gl, nil
}

func (s *Surface) DisplaySize() (int, int) {
	if s.window == nil {
		return s.width, s.height
	}
	return s.window.GetSize()
}

// PixelRatio is the number of framebuffer pixels per window unit.
func (s *Surface) PixelRatio() float64 {
	if s.window == nil {
		return 1
	}
	fbWidth, _ := s.window.GetFramebufferSize()
	winWidth, _ := s.window.GetSize()
	if winWidth <= 0 {
		return 1
	}
	return float64(fbWidth) / float64(winWidth)
}

func (s *Surface) BackingSize() (int, int) {
	if s.window == nil {
		return s.width, s.height
	}
	return s.window.GetFramebufferSize()
}

// SetBackingSize is a no-op: GLFW resizes the default framebuffer with the window.
func (s *Surface) SetBackingSize(width, height int) {}

func (s *Surface) RequestFrame(fn func()) { s.next = fn }

// Run presents frames until the window is asked to close or ctx is done.
// Each iteration runs the callback requested for it, then swaps buffers and
// polls events.
func (s *Surface) Run(ctx context.Context) error {
	if s.window == nil {
		return errors.New("glfwcontext: no window")
	}
	for !s.window.ShouldClose() && ctx.Err() == nil {
		if fn := s.next; fn != nil {
			s.next = nil
			fn()
		}
		s.window.SwapBuffers()
		glfw.PollEvents()
	}
	return nil
}

// Shutdown destroys the window.
func (s *Surface) Shutdown() {
	if s.gl != nil {
		s.gl.Destroy()
		s.gl = nil
	}
	if s.window != nil {
		s.window.Destroy()
		s.window = nil
	}
}

// Close asks the run loop to stop after the current frame.
func (s *Surface) Close() {
	if s.window != nil {
		s.window.SetShouldClose(true)
	}
}

// RegisterKeyCallback allows the main application to register a function to be
// called when a specific key is pressed.
func (s *Surface) RegisterKeyCallback(key glfw.Key, f func()) {
	s.keyCallbacks[key] = f
}

func (s *Surface) glfwKeyCallback(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
	if action != glfw.Press {
		return
	}
	if key == glfw.KeyEscape {
		w.SetShouldClose(true)
	}
	if callback, ok := s.keyCallbacks[key]; ok {
		callback()
	}
}

// IsFullScreen reports whether the window covers a monitor.
func (s *Surface) IsFullScreen() bool {
	return s.window != nil && s.window.GetMonitor() != nil
}

// EnterFullScreen moves the window onto the primary monitor at its current
// video mode.
func (s *Surface) EnterFullScreen() {
	if s.window == nil || s.IsFullScreen() {
		return
	}
	monitor := glfw.GetPrimaryMonitor()
	if monitor == nil {
		log.Printf("EnterFullScreen: no primary monitor")
		return
	}
	mode := monitor.GetVideoMode()
	s.savedX, s.savedY = s.window.GetPos()
	s.savedW, s.savedH = s.window.GetSize()
	s.window.SetMonitor(monitor, 0, 0, mode.Width, mode.Height, mode.RefreshRate)
	s.fullScreenChanged()
}

// ExitFullScreen restores the windowed geometry saved on entry.
func (s *Surface) ExitFullScreen() {
	if !s.IsFullScreen() {
		return
	}
	s.window.SetMonitor(nil, s.savedX, s.savedY, s.savedW, s.savedH, 0)
	s.fullScreenChanged()
}

func (s *Surface) ToggleFullScreen() {
	if s.IsFullScreen() {
		s.ExitFullScreen()
	} else {
		s.EnterFullScreen()
	}
}

// AddFullScreenListener registers fn to run after every fullscreen change.
func (s *Surface) AddFullScreenListener(fn func()) {
	s.fullScreenListeners = append(s.fullScreenListeners, fn)
}

func (s *Surface) fullScreenChanged() {
	for _, fn := range s.fullScreenListeners {
		fn()
	}
}

func (s *Surface) Time() float64 {
	return glfw.GetTime()
}

// InitGraphics initializes the main graphics subsystem (GLFW). Must be called from the main thread.
func InitGraphics() error {
	runtime.LockOSThread()
	if err := glfw.Init(); err != nil {
		return err
	}
	log.Printf("GLFW Initialized")
	return nil
}

// TerminateGraphics shuts down the graphics subsystem. Must be called from the main thread.
func TerminateGraphics() {
	glfw.Terminate()
	log.Printf("GLFW Terminated")
}

var _ graphics.Surface = (*Surface)(nil)
