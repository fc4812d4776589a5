package demo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tinyrange/polydemo/internal/input"
	"github.com/tinyrange/polydemo/internal/mesh"
)

type fakeMesh struct {
	geom      mesh.Geometry
	draws     int
	destroyed int
}

func (m *fakeMesh) Draw() {
	if m.destroyed == 0 {
		m.draws++
	}
}

func (m *fakeMesh) Destroy() { m.destroyed++ }

func (m *fakeMesh) IndexCount() int {
	if m.destroyed > 0 {
		return 0
	}
	return len(m.geom.Indices)
}

type recorder struct {
	uploads []*fakeMesh
	titles  []string
}

func (r *recorder) upload(g mesh.Geometry) Drawable {
	m := &fakeMesh{geom: g}
	r.uploads = append(r.uploads, m)
	return m
}

func (r *recorder) setTitle(s string) { r.titles = append(r.titles, s) }

func (r *recorder) title() string { return r.titles[len(r.titles)-1] }

func newTestController(sides int) (*Controller, *recorder) {
	r := &recorder{}
	return NewController("Polygons", sides, r.upload, r.setTitle), r
}

func press(c *Controller, a input.Action, times int) {
	for i := 0; i < times; i++ {
		c.Apply(input.Of(a))
	}
}

func TestControllerScenario(t *testing.T) {
	c, r := newTestController(mesh.DefaultSides)

	assert.Equal(t, ModeTriangle, c.Mode())
	assert.Equal(t, "Polygons | Mode: Triangle", r.title())
	require.Len(t, r.uploads, 3)

	press(c, input.ActionNGon, 1)
	assert.Equal(t, ModeNGon, c.Mode())
	assert.Equal(t, "Polygons | Mode: N-gon (N=8)", r.title())

	press(c, input.ActionMoreSides, 6)
	assert.Equal(t, 14, c.Sides())
	ngon := c.Current().(*fakeMesh)
	assert.Equal(t, 15, ngon.geom.VertexCount())
	assert.Equal(t, 42, ngon.IndexCount())
	assert.Equal(t, "Polygons | Mode: N-gon (N=14)", r.title())

	press(c, input.ActionFewerSides, 12)
	assert.Equal(t, 3, c.Sides())
	ngon = c.Current().(*fakeMesh)
	assert.Equal(t, 4, ngon.geom.VertexCount())
	assert.Equal(t, 9, ngon.IndexCount())
	assert.Equal(t, "Polygons | Mode: N-gon (N=3)", r.title())

	// 3 initial meshes, 6 rebuilds up, 11 rebuilds down (14 -> 3).
	assert.Len(t, r.uploads, 3+6+11)
	for _, m := range r.uploads[2 : len(r.uploads)-1] {
		assert.Equal(t, 1, m.destroyed, "every replaced n-gon is destroyed once")
	}
}

func TestSidesSaturate(t *testing.T) {
	c, r := newTestController(mesh.MaxSides)
	press(c, input.ActionNGon, 1)
	uploads := len(r.uploads)
	titles := len(r.titles)

	press(c, input.ActionMoreSides, 3)
	assert.Equal(t, 64, c.Sides())
	assert.Len(t, r.uploads, uploads, "no rebuild when clamped")
	assert.Len(t, r.titles, titles)

	c2, r2 := newTestController(mesh.MinSides)
	press(c2, input.ActionNGon, 1)
	press(c2, input.ActionFewerSides, 2)
	assert.Equal(t, 3, c2.Sides())
	assert.Len(t, r2.uploads, 3)
}

func TestSidesIgnoredOutsideNGon(t *testing.T) {
	c, r := newTestController(8)

	press(c, input.ActionMoreSides, 2)
	press(c, input.ActionQuad, 1)
	press(c, input.ActionFewerSides, 2)

	assert.Equal(t, 8, c.Sides())
	assert.Len(t, r.uploads, 3)
	assert.Equal(t, "Polygons | Mode: Quad", r.title())
}

func TestUpAndDownSameFrame(t *testing.T) {
	c, r := newTestController(8)
	press(c, input.ActionNGon, 1)

	c.Apply(input.Of(input.ActionMoreSides, input.ActionFewerSides))
	assert.Equal(t, 8, c.Sides())
	assert.Len(t, r.uploads, 3)
}

func TestModeSelectAndCurrent(t *testing.T) {
	c, r := newTestController(5)
	tri, quad, ngon := r.uploads[0], r.uploads[1], r.uploads[2]

	assert.Same(t, tri, c.Current())
	press(c, input.ActionQuad, 1)
	assert.Same(t, quad, c.Current())
	press(c, input.ActionNGon, 1)
	assert.Same(t, ngon, c.Current())
	press(c, input.ActionTriangle, 1)
	assert.Same(t, tri, c.Current())

	// Reselecting the current mode still refreshes the title.
	n := len(r.titles)
	press(c, input.ActionTriangle, 1)
	assert.Len(t, r.titles, n+1)
}

func TestQuit(t *testing.T) {
	c, _ := newTestController(8)
	assert.True(t, c.Apply(input.Of(input.ActionQuit, input.ActionQuad)))
	assert.Equal(t, ModeTriangle, c.Mode(), "nothing else is applied once quit fires")
	assert.False(t, c.Apply(0))
}

func TestInitialSidesClamped(t *testing.T) {
	c, _ := newTestController(1)
	assert.Equal(t, 3, c.Sides())
}

func TestClose(t *testing.T) {
	c, r := newTestController(8)
	c.Close()
	c.Close()
	for _, m := range r.uploads {
		assert.Equal(t, 2, m.destroyed)
		assert.Zero(t, m.IndexCount())
	}
}

func TestModeColorAndTitle(t *testing.T) {
	colors := map[Mode][3]float32{
		ModeTriangle: {0.95, 0.55, 0.20},
		ModeQuad:     {0.35, 0.70, 1.00},
		ModeNGon:     {0.75, 0.85, 0.30},
	}
	for m, want := range colors {
		assert.Equal(t, want, [3]float32(m.Color()), m.String())
	}
	assert.Panics(t, func() { Mode(7).Color() })

	assert.Equal(t, "Lab | Mode: Quad", Title("Lab", ModeQuad, 9))
	assert.Equal(t, "Lab | Mode: N-gon (N=9)", Title("Lab", ModeNGon, 9))
	assert.Equal(t, "Mode(7)", Mode(7).String())
}
