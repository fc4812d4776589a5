package demo

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// Mode selects the shape on screen.
type Mode int

const (
	ModeTriangle Mode = iota
	ModeQuad
	ModeNGon
)

func (m Mode) String() string {
	switch m {
	case ModeTriangle:
		return "Triangle"
	case ModeQuad:
		return "Quad"
	case ModeNGon:
		return "N-gon"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// Color returns the solid fill colour for the mode.
func (m Mode) Color() mgl32.Vec3 {
	switch m {
	case ModeTriangle:
		return mgl32.Vec3{0.95, 0.55, 0.20}
	case ModeQuad:
		return mgl32.Vec3{0.35, 0.70, 1.00}
	case ModeNGon:
		return mgl32.Vec3{0.75, 0.85, 0.30}
	}
	panic(fmt.Sprintf("demo: unknown mode %d", int(m)))
}

// Title renders the window title for the mode. sides is shown only in N-gon
// mode.
func Title(prefix string, m Mode, sides int) string {
	if m == ModeNGon {
		return fmt.Sprintf("%s | Mode: %s (N=%d)", prefix, m, sides)
	}
	return fmt.Sprintf("%s | Mode: %s", prefix, m)
}
