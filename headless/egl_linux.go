//go:build linux

package headless

import (
	"context"
	"fmt"
	"log"
	"unsafe"

	"github.com/richinsley/glframework/glbackend"
	"github.com/richinsley/glframework/graphics"
)

/*
#cgo LDFLAGS: -lEGL -lGLESv2
#include <EGL/egl.h>
#include <EGL/eglext.h>

// Go doesn't have a great way to call function pointers from C,
// so we'll create simple wrappers for the extension functions.
static PFNEGLQUERYDEVICESEXTPROC eglQueryDevicesEXT_ptr = NULL;
static PFNEGLGETPLATFORMDISPLAYEXTPROC eglGetPlatformDisplayEXT_ptr = NULL;

static void initialize_egl_extension_pointers() {
    eglQueryDevicesEXT_ptr = (PFNEGLQUERYDEVICESEXTPROC) eglGetProcAddress("eglQueryDevicesEXT");
    eglGetPlatformDisplayEXT_ptr = (PFNEGLGETPLATFORMDISPLAYEXTPROC) eglGetProcAddress("eglGetPlatformDisplayEXT");
}

static EGLDisplay get_platform_display(EGLenum platform, void *native_display, const EGLint *attrib_list) {
    if (eglGetPlatformDisplayEXT_ptr) {
        return eglGetPlatformDisplayEXT_ptr(platform, native_display, attrib_list);
    }
    return EGL_NO_DISPLAY;
}

static EGLBoolean query_devices(EGLint max_devices, EGLDeviceEXT *devices, EGLint *num_devices) {
    if (eglQueryDevicesEXT_ptr) {
        return eglQueryDevicesEXT_ptr(max_devices, devices, num_devices);
    }
    return EGL_FALSE;
}
*/
import "C"

// Surface renders into an off-screen EGL pbuffer. The calling goroutine must
// stay locked to its OS thread while the surface is in use.
type Surface struct {
	width, height int

	display     C.EGLDisplay
	context     C.EGLContext
	surface     C.EGLSurface
	initialized bool

	gl   *glbackend.GL
	next func()
}

// New returns a surface of the given pixel size. No EGL resources are
// acquired until CreateContext.
func New(width, height int) *Surface {
	return &Surface{
		width:   width,
		height:  height,
		display: C.EGLDisplay(C.EGL_NO_DISPLAY),
		context: C.EGLContext(C.EGL_NO_CONTEXT),
		surface: C.EGLSurface(C.EGL_NO_SURFACE),
	}
}

// getEGLDisplay tries the robust device enumeration method first,
// falling back to the default display.
func getEGLDisplay() (C.EGLDisplay, error) {
	C.initialize_egl_extension_pointers()

	var num_devices C.EGLint
	if C.query_devices(0, nil, &num_devices) == C.EGL_FALSE || num_devices == 0 {
		log.Println("Warning: EGL_EXT_device_query not supported or no devices found. Falling back to EGL_DEFAULT_DISPLAY.")
		display := C.eglGetDisplay(C.EGLNativeDisplayType(C.EGL_DEFAULT_DISPLAY))
		if display == C.EGLDisplay(C.EGL_NO_DISPLAY) {
			return C.EGLDisplay(C.EGL_NO_DISPLAY), fmt.Errorf("fallback to eglGetDisplay(EGL_DEFAULT_DISPLAY) failed")
		}
		return display, nil
	}

	log.Printf("Found %d EGL device(s).", num_devices)
	devices := make([]C.EGLDeviceEXT, num_devices)
	if C.query_devices(num_devices, &devices[0], &num_devices) == C.EGL_FALSE {
		return C.EGLDisplay(C.EGL_NO_DISPLAY), fmt.Errorf("failed to query EGL devices")
	}

	// First device that yields a display wins. In an NVIDIA container this is the GPU.
	for i := 0; i < int(num_devices); i++ {
		display := C.get_platform_display(C.EGL_PLATFORM_DEVICE_EXT, unsafe.Pointer(devices[i]), nil)
		if display != C.EGLDisplay(C.EGL_NO_DISPLAY) {
			log.Printf("Successfully got EGL display from device %d.", i)
			return display, nil
		}
	}

	return C.EGLDisplay(C.EGL_NO_DISPLAY), fmt.Errorf("could not get a valid EGL display from any available device")
}

func (s *Surface) initDisplay() error {
	if s.initialized {
		return nil
	}
	display, err := getEGLDisplay()
	if err != nil {
		return fmt.Errorf("failed to get EGL display: %w", err)
	}
	var major, minor C.EGLint
	if C.eglInitialize(display, &major, &minor) == C.EGL_FALSE {
		return fmt.Errorf("failed to initialize EGL")
	}
	log.Printf("EGL Initialized. Version: %d.%d", major, minor)
	s.display = display
	s.initialized = true
	return nil
}

// CreateContext creates an OpenGL ES 3 context for HighCapability and an
// OpenGL ES 2 context for Baseline, both on a pbuffer of the surface size.
func (s *Surface) CreateContext(level graphics.ContextLevel) error {
	if err := s.initDisplay(); err != nil {
		return err
	}
	s.releaseContext()

	renderable, clientVersion := C.EGLint(C.EGL_OPENGL_ES2_BIT), C.EGLint(2)
	if level == graphics.HighCapability {
		renderable, clientVersion = C.EGL_OPENGL_ES3_BIT, 3
	}

	configAttribs := []C.EGLint{
		C.EGL_SURFACE_TYPE, C.EGL_PBUFFER_BIT,
		C.EGL_RED_SIZE, 8,
		C.EGL_GREEN_SIZE, 8,
		C.EGL_BLUE_SIZE, 8,
		C.EGL_ALPHA_SIZE, 8,
		C.EGL_DEPTH_SIZE, 24,
		C.EGL_RENDERABLE_TYPE, renderable,
		C.EGL_NONE,
	}

	var config C.EGLConfig
	var numConfig C.EGLint
	if C.eglChooseConfig(s.display, &configAttribs[0], &config, 1, &numConfig) == C.EGL_FALSE || numConfig == 0 {
		return fmt.Errorf("failed to choose EGL config for ES %d", clientVersion)
	}

	pbufferAttribs := []C.EGLint{
		C.EGL_WIDTH, C.EGLint(s.width),
		C.EGL_HEIGHT, C.EGLint(s.height),
		C.EGL_NONE,
	}
	s.surface = C.eglCreatePbufferSurface(s.display, config, &pbufferAttribs[0])
	if s.surface == C.EGLSurface(C.EGL_NO_SURFACE) {
		return fmt.Errorf("failed to create Pbuffer surface")
	}

	contextAttribs := []C.EGLint{
		C.EGL_CONTEXT_CLIENT_VERSION, clientVersion,
		C.EGL_NONE,
	}
	s.context = C.eglCreateContext(s.display, config, C.EGLContext(C.EGL_NO_CONTEXT), &contextAttribs[0])
	if s.context == C.EGLContext(C.EGL_NO_CONTEXT) {
		C.eglDestroySurface(s.display, s.surface)
		s.surface = C.EGLSurface(C.EGL_NO_SURFACE)
		return fmt.Errorf("failed to create EGL ES %d context", clientVersion)
	}
	return nil
}

// GL makes the context current and binds the GL function table.
func (s *Surface) GL() (graphics.GL, error) {
	if s.context == C.EGLContext(C.EGL_NO_CONTEXT) {
		return nil, graphics.ErrContextUnavailable
	}
	if C.eglMakeCurrent(s.display, s.surface, s.surface, s.context) == C.EGL_FALSE {
		return nil, fmt.Errorf("failed to make EGL context current")
	}
	if s.gl == nil {
		g, err := glbackend.New()
		if err != nil {
			return nil, fmt.Errorf("failed to initialize OpenGL ES: %w", err)
		}
		s.gl = g
	}
	return s.gl, nil
}

func (s *Surface) DisplaySize() (int, int)          { return s.width, s.height }
func (s *Surface) PixelRatio() float64              { return 1 }
func (s *Surface) BackingSize() (int, int)          { return s.width, s.height }
func (s *Surface) SetBackingSize(width, height int) {}
func (s *Surface) RequestFrame(fn func())           { s.next = fn }

// Run presents up to frames frames, running the callback requested for each
// one. It stops early when ctx is done or no callback is pending, and returns
// the number of frames presented.
func (s *Surface) Run(ctx context.Context, frames int) int {
	return graphics.RunFrames(ctx, frames, func() bool {
		fn := s.next
		if fn == nil {
			return false
		}
		s.next = nil
		fn()
		C.eglSwapBuffers(s.display, s.surface)
		return true
	})
}

func (s *Surface) releaseContext() {
	if s.display == C.EGLDisplay(C.EGL_NO_DISPLAY) {
		return
	}
	C.eglMakeCurrent(s.display, C.EGLSurface(C.EGL_NO_SURFACE), C.EGLSurface(C.EGL_NO_SURFACE), C.EGLContext(C.EGL_NO_CONTEXT))
	if s.context != C.EGLContext(C.EGL_NO_CONTEXT) {
		C.eglDestroyContext(s.display, s.context)
		s.context = C.EGLContext(C.EGL_NO_CONTEXT)
	}
	if s.surface != C.EGLSurface(C.EGL_NO_SURFACE) {
		C.eglDestroySurface(s.display, s.surface)
		s.surface = C.EGLSurface(C.EGL_NO_SURFACE)
	}
}

func (s *Surface) Shutdown() {
	if s.gl != nil {
		s.gl.Destroy()
		s.gl = nil
	}
	s.releaseContext()
	if s.initialized {
		C.eglTerminate(s.display)
		s.display = C.EGLDisplay(C.EGL_NO_DISPLAY)
		s.initialized = false
	}
}

var _ graphics.Surface = (*Surface)(nil)
