//go:build glfw

package window

import (
	"fmt"
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/tinyrange/polydemo/internal/gl"
)

var glfwKeys = map[Key]glfw.Key{
	KeyEscape: glfw.KeyEscape,
	Key1:      glfw.Key1,
	Key2:      glfw.Key2,
	Key3:      glfw.Key3,
	KeyUp:     glfw.KeyUp,
	KeyDown:   glfw.KeyDown,
}

type glfwWindow struct {
	win *glfw.Window
}

// New creates a GLFW window. It must be called from the main goroutine
// with the OS thread locked.
func New(cfg Config) (Window, error) {
	runtime.LockOSThread()
	if err := glfw.Init(); err != nil {
		runtime.UnlockOSThread()
		return nil, fmt.Errorf("glfw init: %w", err)
	}

	glfw.WindowHint(glfw.ContextVersionMajor, cfg.GLMajor)
	glfw.WindowHint(glfw.ContextVersionMinor, cfg.GLMinor)
	if cfg.coreProfile() {
		glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
		glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	}
	glfw.WindowHint(glfw.DepthBits, 24)
	glfw.WindowHint(glfw.DoubleBuffer, glfw.True)

	win, err := glfw.CreateWindow(cfg.Width, cfg.Height, cfg.Title, nil, nil)
	if err != nil {
		glfw.Terminate()
		runtime.UnlockOSThread()
		return nil, fmt.Errorf("glfw create window: %w", err)
	}
	win.MakeContextCurrent()
	glfw.SwapInterval(1)
	glfw.SetTime(0)

	return &glfwWindow{win: win}, nil
}

func (w *glfwWindow) GL() (gl.OpenGL, error) {
	return gl.Load(func(name string) uintptr {
		return uintptr(glfw.GetProcAddress(name))
	})
}

func (w *glfwWindow) Close() {
	if w.win == nil {
		return
	}
	w.win.Destroy()
	w.win = nil
	glfw.Terminate()
	runtime.UnlockOSThread()
}

func (w *glfwWindow) Poll() bool {
	if w.win == nil {
		return false
	}
	glfw.PollEvents()
	return !w.win.ShouldClose()
}

func (w *glfwWindow) Swap() {
	if w.win != nil {
		w.win.SwapBuffers()
	}
}

func (w *glfwWindow) BackingSize() (int, int) {
	if w.win == nil {
		return 0, 0
	}
	return w.win.GetFramebufferSize()
}

func (w *glfwWindow) SetTitle(title string) {
	if w.win != nil {
		w.win.SetTitle(title)
	}
}

func (w *glfwWindow) Time() float64 {
	return glfw.GetTime()
}

func (w *glfwWindow) KeyDown(key Key) bool {
	k, ok := glfwKeys[key]
	if !ok || w.win == nil {
		return false
	}
	return w.win.GetKey(k) == glfw.Press
}
