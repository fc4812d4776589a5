// Package demo wires shape selection, input and drawing into the render loop.
package demo

import (
	"fmt"
	"log/slog"

	"github.com/tinyrange/polydemo/internal/input"
	"github.com/tinyrange/polydemo/internal/mesh"
)

// Drawable is a GPU mesh the controller owns.
type Drawable interface {
	Draw()
	Destroy()
	IndexCount() int
}

// Uploader turns geometry into a Drawable.
type Uploader func(mesh.Geometry) Drawable

// Controller holds the selected mode and N-gon side count and owns one mesh
// per mode. The N-gon mesh is replaced whenever the side count changes.
type Controller struct {
	prefix   string
	mode     Mode
	sides    int
	upload   Uploader
	setTitle func(string)

	triangle Drawable
	quad     Drawable
	ngon     Drawable
}

// NewController builds the three meshes and publishes the initial title. The
// demo starts in triangle mode.
func NewController(prefix string, sides int, upload Uploader, setTitle func(string)) *Controller {
	c := &Controller{
		prefix:   prefix,
		mode:     ModeTriangle,
		sides:    mesh.ClampSides(sides),
		upload:   upload,
		setTitle: setTitle,
	}
	c.triangle = upload(mesh.Triangle())
	c.quad = upload(mesh.Quad())
	c.ngon = upload(mesh.NGon(c.sides))
	c.refreshTitle()
	return c
}

func (c *Controller) Mode() Mode {
	return c.mode
}

func (c *Controller) Sides() int {
	return c.sides
}

func (c *Controller) Title() string {
	return Title(c.prefix, c.mode, c.sides)
}

// Apply handles one frame of events and reports whether the user asked to
// quit. Side changes only apply in N-gon mode.
func (c *Controller) Apply(ev input.Events) (quit bool) {
	if ev.Has(input.ActionQuit) {
		return true
	}

	if ev.Has(input.ActionTriangle) {
		c.setMode(ModeTriangle)
	}
	if ev.Has(input.ActionQuad) {
		c.setMode(ModeQuad)
	}
	if ev.Has(input.ActionNGon) {
		c.setMode(ModeNGon)
	}

	if c.mode != ModeNGon {
		return false
	}
	sides := c.sides
	if ev.Has(input.ActionMoreSides) {
		sides = mesh.ClampSides(sides + 1)
	}
	if ev.Has(input.ActionFewerSides) {
		sides = mesh.ClampSides(sides - 1)
	}
	if sides != c.sides {
		c.setSides(sides)
	}
	return false
}

func (c *Controller) setMode(m Mode) {
	if m != c.mode {
		slog.Debug("mode changed", "from", c.mode, "to", m)
	}
	c.mode = m
	c.refreshTitle()
}

// setSides replaces the N-gon mesh with one of n sides.
func (c *Controller) setSides(n int) {
	c.ngon.Destroy()
	c.sides = n
	c.ngon = c.upload(mesh.NGon(n))
	slog.Debug("rebuilt n-gon", "sides", n, "indices", c.ngon.IndexCount())
	c.refreshTitle()
}

func (c *Controller) refreshTitle() {
	if c.setTitle != nil {
		c.setTitle(c.Title())
	}
}

// Current returns the mesh for the selected mode.
func (c *Controller) Current() Drawable {
	switch c.mode {
	case ModeTriangle:
		return c.triangle
	case ModeQuad:
		return c.quad
	case ModeNGon:
		return c.ngon
	}
	panic(fmt.Sprintf("demo: unknown mode %d", int(c.mode)))
}

// Close destroys every mesh. It is safe to call more than once.
func (c *Controller) Close() {
	for _, d := range []Drawable{c.triangle, c.quad, c.ngon} {
		if d != nil {
			d.Destroy()
		}
	}
}
