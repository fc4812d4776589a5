package demo

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/tinyrange/polydemo/internal/config"
	"github.com/tinyrange/polydemo/internal/demo/shaders"
	"github.com/tinyrange/polydemo/internal/graphics"
	"github.com/tinyrange/polydemo/internal/input"
	"github.com/tinyrange/polydemo/internal/mesh"
)

const (
	uniformMVP   = "uMVP"
	uniformColor = "uColor"
)

// Run draws the selected shape every frame until the user quits, the window
// closes or ctx is cancelled. Meshes and the shader program are released
// before it returns; the caller still owns gfx.
func Run(ctx context.Context, gfx *graphics.Context, cfg config.Config) error {
	prog, err := loadProgram(gfx, cfg.Shaders)
	if err != nil {
		return err
	}
	defer prog.Delete()

	uMVP := prog.Uniform(uniformMVP)
	uColor := prog.Uniform(uniformColor)
	for name, loc := range map[string]int32{uniformMVP: uMVP, uniformColor: uColor} {
		if loc < 0 {
			slog.Warn("shader has no active uniform", "name", name)
		}
	}

	upload := func(g mesh.Geometry) Drawable { return gfx.NewMesh(g) }
	ctrl := NewController(cfg.Title, cfg.Sides, upload, gfx.Platform().SetTitle)
	defer ctrl.Close()

	tracker := input.NewTracker(input.DefaultBindings())

	proj := mgl32.Ortho(-1, 1, -1, 1, -1, 1)
	view := mgl32.Ident4()
	cc := cfg.ClearColor
	gfx.SetClearColor(cc[0], cc[1], cc[2], cc[3])

	return gfx.Loop(ctx, func(f graphics.Frame) error {
		if ctrl.Apply(tracker.Update(f.KeyDown)) {
			return graphics.ErrStop
		}

		f.Clear()
		prog.Use()

		model := mgl32.HomogRotate3DZ(cfg.RotationSpeed * float32(f.Time()))
		prog.SetMat4(uMVP, proj.Mul4(view).Mul4(model))
		prog.SetVec3(uColor, ctrl.Mode().Color())

		ctrl.Current().Draw()
		prog.Unuse()
		return nil
	})
}

func loadProgram(gfx *graphics.Context, sc config.ShaderConfig) (*graphics.Program, error) {
	var (
		prog *graphics.Program
		err  error
	)
	if sc.Embedded() {
		prog, err = gfx.LoadProgram(shaders.FS, shaders.Vertex, shaders.Fragment)
	} else {
		prog, err = gfx.LoadProgramFiles(sc.Vertex, sc.Fragment)
	}
	if err != nil {
		return nil, fmt.Errorf("load shaders: %w", err)
	}
	return prog, nil
}
