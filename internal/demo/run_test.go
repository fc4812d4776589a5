package demo

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tinyrange/polydemo/internal/config"
	glpkg "github.com/tinyrange/polydemo/internal/gl"
	"github.com/tinyrange/polydemo/internal/gl/gltest"
	"github.com/tinyrange/polydemo/internal/graphics"
	"github.com/tinyrange/polydemo/internal/window"
	"github.com/tinyrange/polydemo/internal/window/windowtest"
)

func newRunContext(t *testing.T, script [][]window.Key) (*graphics.Context, *windowtest.Window, *gltest.GL) {
	t.Helper()
	fake := gltest.New()
	fake.Uniforms["uMVP"] = 0
	fake.Uniforms["uColor"] = 1
	win := &windowtest.Window{Script: script, OpenGL: fake, Width: 900, Height: 650, FrameTime: 1}
	gfx, err := graphics.NewForWindow(win)
	require.NoError(t, err)
	gfx.SetFrameDelay(0)
	return gfx, win, fake
}

func drawnIndexCounts(fake *gltest.GL) []int32 {
	var counts []int32
	for _, c := range fake.Calls {
		if c.Name == "DrawElements" {
			counts = append(counts, c.Args[1].(int32))
		}
	}
	return counts
}

func colors(fake *gltest.GL) []mgl32.Vec3 {
	var out []mgl32.Vec3
	for _, c := range fake.Calls {
		if c.Name == "Uniform3f" {
			out = append(out, mgl32.Vec3{c.Args[1].(float32), c.Args[2].(float32), c.Args[3].(float32)})
		}
	}
	return out
}

func TestRunScenario(t *testing.T) {
	var script [][]window.Key
	script = append(script, nil)
	script = append(script, windowtest.Tap(window.Key3)...)
	script = append(script, windowtest.Taps(window.KeyUp, 6)...)
	script = append(script, windowtest.Taps(window.KeyDown, 12)...)
	script = append(script, []window.Key{window.KeyEscape})

	gfx, win, fake := newRunContext(t, script)
	require.NoError(t, Run(context.Background(), gfx, config.Default()))

	assert.Equal(t, "Polygons | Mode: Triangle", win.Titles[0])
	assert.Contains(t, win.Titles, "Polygons | Mode: N-gon (N=8)")
	assert.Contains(t, win.Titles, "Polygons | Mode: N-gon (N=14)")
	assert.NotContains(t, win.Titles, "Polygons | Mode: N-gon (N=2)")
	assert.Equal(t, "Polygons | Mode: N-gon (N=3)", win.Title())

	counts := drawnIndexCounts(fake)
	require.Len(t, counts, len(script)-1, "every frame but the quitting one draws")
	assert.Equal(t, int32(3), counts[0], "starts on the triangle")
	assert.Equal(t, int32(24), counts[1], "8-gon after pressing 3")
	assert.Equal(t, int32(42), counts[2+2*6-1], "14-gon after six Up taps")
	assert.Equal(t, int32(9), counts[len(counts)-1], "clamped at a triangle n-gon")

	assert.Equal(t, len(script)-1, win.Swaps)
	assert.False(t, win.Closed, "the caller closes the window")

	buffers, arrays, programs := fake.Live()
	assert.Zero(t, buffers)
	assert.Zero(t, arrays)
	assert.Zero(t, programs)
}

func TestRunColorsFollowMode(t *testing.T) {
	script := [][]window.Key{nil, {window.Key2}, {window.Key3}, {window.Key1}}
	gfx, _, fake := newRunContext(t, script)
	require.NoError(t, Run(context.Background(), gfx, config.Default()))

	assert.Equal(t, []mgl32.Vec3{
		ModeTriangle.Color(),
		ModeQuad.Color(),
		ModeNGon.Color(),
		ModeTriangle.Color(),
	}, colors(fake))
}

func TestRunUploadsRotatingMVP(t *testing.T) {
	gfx, _, fake := newRunContext(t, [][]window.Key{nil, nil})
	cfg := config.Default()
	require.NoError(t, Run(context.Background(), gfx, cfg))

	last, ok := fake.Last("UniformMatrix4fv")
	require.True(t, ok)
	var got mgl32.Mat4
	copy(got[:], last.Args[3].([]float32))

	// Two polls at one second each.
	want := mgl32.Ortho(-1, 1, -1, 1, -1, 1).Mul4(mgl32.HomogRotate3DZ(cfg.RotationSpeed * 2))
	assert.True(t, want.ApproxEqual(got), "mvp %v, want %v", got, want)
}

func TestRunFrameOrder(t *testing.T) {
	gfx, _, fake := newRunContext(t, [][]window.Key{nil})
	require.NoError(t, Run(context.Background(), gfx, config.Default()))

	var frame []string
	started := false
	for _, name := range fake.Names() {
		if name == "Viewport" {
			started = true
		}
		if started && name != "DeleteBuffers" && name != "DeleteVertexArrays" && name != "DeleteProgram" {
			frame = append(frame, name)
		}
	}
	assert.Equal(t, []string{
		"Viewport", "ClearColor", "Clear", "UseProgram",
		"UniformMatrix4fv", "Uniform3f",
		"BindVertexArray", "DrawElements", "BindVertexArray",
		"UseProgram",
	}, frame)
}

func TestRunShaderFiles(t *testing.T) {
	dir := t.TempDir()
	vert := filepath.Join(dir, "a.vert")
	frag := filepath.Join(dir, "a.frag")
	require.NoError(t, os.WriteFile(vert, []byte("custom vert"), 0o644))
	require.NoError(t, os.WriteFile(frag, []byte("custom frag"), 0o644))

	gfx, _, fake := newRunContext(t, nil)
	cfg := config.Default()
	cfg.Shaders = config.ShaderConfig{Vertex: vert, Fragment: frag}
	require.NoError(t, Run(context.Background(), gfx, cfg))

	var sources []string
	for _, c := range fake.Calls {
		if c.Name == "ShaderSource" {
			sources = append(sources, c.Args[1].(string))
		}
	}
	assert.Equal(t, []string{"custom vert", "custom frag"}, sources)
}

func TestRunShaderError(t *testing.T) {
	gfx, win, fake := newRunContext(t, [][]window.Key{nil})
	fake.CompileFail[glpkg.VertexShader] = true

	err := Run(context.Background(), gfx, config.Default())
	var shaderErr *graphics.ShaderError
	require.ErrorAs(t, err, &shaderErr)
	assert.Equal(t, "vertex", shaderErr.Stage)
	assert.Equal(t, "basic.vert", shaderErr.Path)
	assert.Zero(t, win.Polls)
}

func TestRunCancelled(t *testing.T) {
	gfx, win, _ := newRunContext(t, make([][]window.Key, 10))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.NoError(t, Run(ctx, gfx, config.Default()))
	assert.Zero(t, win.Polls)
}
