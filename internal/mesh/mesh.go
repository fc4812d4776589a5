// Package mesh builds the CPU-side geometry for the demo shapes.
//
// Every generator returns positions as packed xyz triples and indices that
// describe counter-clockwise triangles. Nothing here touches the GPU.
package mesh

import (
	"fmt"

	"github.com/chewxy/math32"
)

const (
	// MinSides and MaxSides bound the side count accepted by NGon callers.
	MinSides = 3
	MaxSides = 64

	// DefaultSides is the side count the demo starts with.
	DefaultSides = 8

	// NGonRadius is the circumradius of generated polygons.
	NGonRadius float32 = 0.65
)

// Geometry is an indexed triangle list.
type Geometry struct {
	Positions []float32
	Indices   []uint32
}

// VertexCount returns the number of xyz positions.
func (g Geometry) VertexCount() int {
	return len(g.Positions) / 3
}

// TriangleCount returns the number of triangles described by Indices.
func (g Geometry) TriangleCount() int {
	return len(g.Indices) / 3
}

// Vertex returns position i.
func (g Geometry) Vertex(i int) (x, y, z float32) {
	return g.Positions[i*3], g.Positions[i*3+1], g.Positions[i*3+2]
}

// Validate reports whether the positions are whole triples, the indices are
// whole triangles, and every index references an existing vertex.
func (g Geometry) Validate() error {
	if len(g.Positions)%3 != 0 {
		return fmt.Errorf("positions length %d is not a multiple of 3", len(g.Positions))
	}
	if len(g.Indices)%3 != 0 {
		return fmt.Errorf("indices length %d is not a multiple of 3", len(g.Indices))
	}
	n := uint32(g.VertexCount())
	for i, idx := range g.Indices {
		if idx >= n {
			return fmt.Errorf("index %d at %d out of range (%d vertices)", idx, i, n)
		}
	}
	return nil
}

// Triangle returns a single counter-clockwise triangle.
func Triangle() Geometry {
	return Geometry{
		Positions: []float32{
			-0.6, -0.5, 0.0,
			0.6, -0.5, 0.0,
			0.0, 0.6, 0.0,
		},
		Indices: []uint32{0, 1, 2},
	}
}

// Quad returns a rectangle split along the 0-2 diagonal.
func Quad() Geometry {
	return Geometry{
		Positions: []float32{
			-0.6, -0.5, 0.0, // 0
			0.6, -0.5, 0.0, // 1
			0.6, 0.5, 0.0, // 2
			-0.6, 0.5, 0.0, // 3
		},
		Indices: []uint32{
			0, 1, 2,
			0, 2, 3,
		},
	}
}

// NGon returns a regular polygon with n sides centred on the origin,
// triangulated as a fan around a centre vertex.
//
// Vertex 0 is the centre; ring vertex i (1..n) sits at angle 2*pi*(i-1)/n,
// so ring vertex 1 lies on the positive X axis. NGon panics if n < 3; use
// ClampSides on user input.
func NGon(n int) Geometry {
	if n < MinSides {
		panic(fmt.Sprintf("mesh: NGon needs at least %d sides, got %d", MinSides, n))
	}

	pos := make([]float32, 0, (n+1)*3)
	pos = append(pos, 0, 0, 0)
	for i := 0; i < n; i++ {
		a := 2 * math32.Pi * float32(i) / float32(n)
		pos = append(pos, NGonRadius*math32.Cos(a), NGonRadius*math32.Sin(a), 0)
	}

	idx := make([]uint32, 0, n*3)
	for i := 1; i <= n; i++ {
		// The last triangle wraps back to ring vertex 1.
		idx = append(idx, 0, uint32(i), uint32(i%n+1))
	}

	return Geometry{Positions: pos, Indices: idx}
}

// ClampSides saturates n to [MinSides, MaxSides].
func ClampSides(n int) int {
	return max(MinSides, min(MaxSides, n))
}
