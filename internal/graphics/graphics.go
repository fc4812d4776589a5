// Package graphics owns the GL context for the demo: the frame loop, indexed
// meshes and shader programs.
package graphics

import (
	"context"
	"errors"
	"log/slog"
	"time"

	glpkg "github.com/tinyrange/polydemo/internal/gl"
	"github.com/tinyrange/polydemo/internal/window"
)

// ErrStop may be returned from a Loop step to end the loop without error.
// The frame is not presented.
var ErrStop = errors.New("graphics: stop loop")

// Frame is the per-iteration view of the window handed to Loop steps.
type Frame interface {
	Size() (width, height int)
	// Time returns seconds since the window was created.
	Time() float64
	KeyDown(key window.Key) bool
	SetTitle(title string)
	// Clear clears the color and depth buffers to the context clear color.
	Clear()
}

type Context struct {
	platform window.Window
	gl       glpkg.OpenGL

	clearColor [4]float32
	frameDelay time.Duration
}

// New opens a window and loads GL for it.
func New(cfg window.Config) (*Context, error) {
	platform, err := window.New(cfg)
	if err != nil {
		return nil, err
	}
	c, err := NewForWindow(platform)
	if err != nil {
		platform.Close()
		return nil, err
	}

	slog.Info("OpenGL context",
		"vendor", c.gl.GetString(glpkg.Vendor),
		"renderer", c.gl.GetString(glpkg.Renderer),
		"version", c.gl.GetString(glpkg.Version),
		"glsl", c.gl.GetString(glpkg.ShadingLanguageVersion),
	)
	return c, nil
}

// NewForWindow wraps an already created window.
func NewForWindow(platform window.Window) (*Context, error) {
	gl, err := platform.GL()
	if err != nil {
		return nil, err
	}
	return &Context{
		platform:   platform,
		gl:         gl,
		clearColor: [4]float32{0, 0, 0, 1},
		frameDelay: time.Second / 120,
	}, nil
}

func (c *Context) GL() glpkg.OpenGL {
	return c.gl
}

func (c *Context) Platform() window.Window {
	return c.platform
}

func (c *Context) SetClearColor(r, g, b, a float32) {
	c.clearColor = [4]float32{r, g, b, a}
}

// SetFrameDelay sets the pause after each presented frame. Zero disables it.
func (c *Context) SetFrameDelay(d time.Duration) {
	c.frameDelay = d
}

// Close destroys the window and its context. GL objects must be released
// before calling it.
func (c *Context) Close() {
	c.platform.Close()
}

// Loop calls step once per frame until the window closes, ctx is done, or
// step returns an error. ErrStop ends the loop with a nil error.
func (c *Context) Loop(ctx context.Context, step func(f Frame) error) error {
	frame := glFrame{c: c}
	for ctx.Err() == nil && c.platform.Poll() {
		c.prepareFrame()

		if err := step(frame); err != nil {
			if errors.Is(err, ErrStop) {
				return nil
			}
			return err
		}

		c.platform.Swap()
		if c.frameDelay > 0 {
			time.Sleep(c.frameDelay)
		}
	}
	return nil
}

func (c *Context) prepareFrame() {
	bw, bh := c.platform.BackingSize()
	c.gl.Viewport(0, 0, int32(bw), int32(bh))
}

type glFrame struct {
	c *Context
}

func (f glFrame) Size() (int, int) {
	return f.c.platform.BackingSize()
}

func (f glFrame) Time() float64 {
	return f.c.platform.Time()
}

func (f glFrame) KeyDown(key window.Key) bool {
	return f.c.platform.KeyDown(key)
}

func (f glFrame) SetTitle(title string) {
	f.c.platform.SetTitle(title)
}

func (f glFrame) Clear() {
	cc := f.c.clearColor
	f.c.gl.ClearColor(cc[0], cc[1], cc[2], cc[3])
	f.c.gl.Clear(glpkg.ColorBufferBit | glpkg.DepthBufferBit)
}
