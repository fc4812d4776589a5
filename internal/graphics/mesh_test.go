package graphics

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	glpkg "github.com/tinyrange/polydemo/internal/gl"
	"github.com/tinyrange/polydemo/internal/gl/gltest"
	"github.com/tinyrange/polydemo/internal/mesh"
)

func TestNewMeshUploads(t *testing.T) {
	fake := gltest.New()
	m := newMesh(fake, mesh.Quad())

	assert.Equal(t, 6, m.IndexCount())
	assert.Equal(t, []string{
		"GenVertexArrays", "BindVertexArray",
		"GenBuffers", "BindBuffer", "BufferData",
		"GenBuffers", "BindBuffer", "BufferData",
		"VertexAttribPointer", "EnableVertexAttribArray",
		"BindVertexArray",
	}, fake.Names())

	attrib, ok := fake.Last("VertexAttribPointer")
	require.True(t, ok)
	assert.Equal(t, []any{uint32(0), int32(3), uint32(glpkg.Float), false, int32(12), uintptr(0)}, attrib.Args)

	unbind, _ := fake.Last("BindVertexArray")
	assert.Equal(t, []any{uint32(0)}, unbind.Args)

	vertices := fake.Buffers[glpkg.ArrayBuffer]
	require.Len(t, vertices, 4*3*4)
	assert.Equal(t, float32(-0.6), math.Float32frombits(binary.NativeEndian.Uint32(vertices[0:4])))

	indices := fake.Buffers[glpkg.ElementArrayBuffer]
	require.Len(t, indices, 6*4)
	got := make([]uint32, 6)
	for i := range got {
		got[i] = binary.NativeEndian.Uint32(indices[i*4:])
	}
	assert.Equal(t, []uint32{0, 1, 2, 0, 2, 3}, got)

	buffers, arrays, _ := fake.Live()
	assert.Equal(t, 2, buffers)
	assert.Equal(t, 1, arrays)
}

func TestMeshDraw(t *testing.T) {
	fake := gltest.New()
	m := newMesh(fake, mesh.NGon(5))
	fake.Reset()

	m.Draw()

	assert.Equal(t, []string{"BindVertexArray", "DrawElements", "BindVertexArray"}, fake.Names())
	draw, _ := fake.Last("DrawElements")
	assert.Equal(t, []any{uint32(glpkg.Triangles), int32(15), uint32(glpkg.UnsignedInt), uintptr(0), m.vao}, draw.Args)
}

func TestMeshDestroyIdempotent(t *testing.T) {
	fake := gltest.New()
	m := newMesh(fake, mesh.Triangle())

	m.Destroy()
	assert.Zero(t, m.vao)
	assert.Zero(t, m.vbo)
	assert.Zero(t, m.ebo)
	assert.Zero(t, m.IndexCount())
	assert.Equal(t, 2, fake.Count("DeleteBuffers"))
	assert.Equal(t, 1, fake.Count("DeleteVertexArrays"))

	buffers, arrays, _ := fake.Live()
	assert.Zero(t, buffers)
	assert.Zero(t, arrays)

	fake.Reset()
	m.Destroy()
	m.Draw()
	assert.Empty(t, fake.Calls)
}

func TestZeroMeshIsInert(t *testing.T) {
	var m Mesh
	assert.NotPanics(t, func() {
		m.Destroy()
		m.Destroy()
		m.Draw()
	})
	assert.Zero(t, m.IndexCount())

	var nilMesh *Mesh
	assert.NotPanics(t, func() {
		nilMesh.Destroy()
		nilMesh.Draw()
	})
}

func TestNewMeshEmptyGeometry(t *testing.T) {
	fake := gltest.New()
	m := newMesh(fake, mesh.Geometry{})

	assert.Zero(t, m.IndexCount())
	assert.Nil(t, fake.Buffers[glpkg.ArrayBuffer])

	fake.Reset()
	m.Draw()
	assert.Empty(t, fake.Calls)
}
