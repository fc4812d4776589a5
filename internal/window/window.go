// Package window creates a native window with a current OpenGL context and
// exposes the small amount of event state the demo needs.
//
// Each platform implements New. The default Linux and macOS backends bind the
// system libraries at runtime through purego; building with the glfw tag
// replaces them with a GLFW backend that also works on Windows.
package window

import (
	"errors"

	"github.com/tinyrange/polydemo/internal/gl"
)

// ErrUnsupportedPlatform is returned by New when no backend exists for the
// current GOOS. Building with -tags glfw provides one.
var ErrUnsupportedPlatform = errors.New("window: no native backend for this platform (build with -tags glfw)")

// Config describes the window and GL context to create.
type Config struct {
	Title  string
	Width  int
	Height int

	// GLMajor and GLMinor are the minimum context version. Versions of 3.2 and
	// above request a core profile.
	GLMajor int
	GLMinor int
}

func (c Config) coreProfile() bool {
	return c.GLMajor > 3 || (c.GLMajor == 3 && c.GLMinor >= 2)
}

type Window interface {
	// GL loads the entry points for the window's context.
	GL() (gl.OpenGL, error)
	Close()
	// Poll drains pending events and reports whether the window is still open.
	Poll() bool
	Swap()
	BackingSize() (width, height int)
	SetTitle(title string)
	// Time returns the seconds elapsed since the window was created.
	Time() float64
	// KeyDown reports the key state as of the last Poll.
	KeyDown(key Key) bool
}
