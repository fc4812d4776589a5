package graphics

import (
	"unsafe"

	glpkg "github.com/tinyrange/polydemo/internal/gl"
	"github.com/tinyrange/polydemo/internal/mesh"
)

// positionAttrib is the vertex attribute slot for xyz positions.
const positionAttrib = 0

// Mesh is an indexed triangle list resident on the GPU: one VAO, one vertex
// buffer with tightly packed xyz floats, and one index buffer of uint32.
type Mesh struct {
	gl         glpkg.OpenGL
	vao        uint32
	vbo        uint32
	ebo        uint32
	indexCount int32
}

// NewMesh uploads g. It does not validate g; out-of-range indices are left to
// the driver.
func (c *Context) NewMesh(g mesh.Geometry) *Mesh {
	return newMesh(c.gl, g)
}

func newMesh(gl glpkg.OpenGL, g mesh.Geometry) *Mesh {
	m := &Mesh{gl: gl}

	gl.GenVertexArrays(1, &m.vao)
	gl.BindVertexArray(m.vao)

	gl.GenBuffers(1, &m.vbo)
	gl.BindBuffer(glpkg.ArrayBuffer, m.vbo)
	gl.BufferData(glpkg.ArrayBuffer, len(g.Positions)*4, slicePtr(g.Positions), glpkg.StaticDraw)

	gl.GenBuffers(1, &m.ebo)
	gl.BindBuffer(glpkg.ElementArrayBuffer, m.ebo)
	gl.BufferData(glpkg.ElementArrayBuffer, len(g.Indices)*4, slicePtr(g.Indices), glpkg.StaticDraw)

	gl.VertexAttribPointer(positionAttrib, 3, glpkg.Float, false, 3*4, 0)
	gl.EnableVertexAttribArray(positionAttrib)

	gl.BindVertexArray(0)

	m.indexCount = int32(len(g.Indices))
	return m
}

// IndexCount returns the number of indices drawn by Draw.
func (m *Mesh) IndexCount() int {
	if m == nil {
		return 0
	}
	return int(m.indexCount)
}

// Draw issues one indexed triangle draw for the whole mesh. A destroyed mesh
// draws nothing.
func (m *Mesh) Draw() {
	if m == nil || m.vao == 0 || m.indexCount == 0 {
		return
	}
	m.gl.BindVertexArray(m.vao)
	m.gl.DrawElements(glpkg.Triangles, m.indexCount, glpkg.UnsignedInt, 0)
	m.gl.BindVertexArray(0)
}

// Destroy releases the GPU objects and zeroes the mesh. It is safe to call
// more than once and on a zero Mesh.
func (m *Mesh) Destroy() {
	if m == nil {
		return
	}
	if m.ebo != 0 {
		m.gl.DeleteBuffers(1, &m.ebo)
	}
	if m.vbo != 0 {
		m.gl.DeleteBuffers(1, &m.vbo)
	}
	if m.vao != 0 {
		m.gl.DeleteVertexArrays(1, &m.vao)
	}
	m.vao, m.vbo, m.ebo = 0, 0, 0
	m.indexCount = 0
}

func slicePtr[T any](s []T) unsafe.Pointer {
	if len(s) == 0 {
		return nil
	}
	return unsafe.Pointer(&s[0])
}
