package graphics

import (
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	glpkg "github.com/tinyrange/polydemo/internal/gl"
)

// Program is a linked vertex + fragment shader program.
type Program struct {
	gl       glpkg.OpenGL
	id       uint32
	uniforms map[string]int32
}

// ShaderError reports a compile or link failure with the driver's log.
type ShaderError struct {
	Stage string // "vertex", "fragment" or "link"
	Path  string
	Log   string
}

func (e *ShaderError) Error() string {
	var b strings.Builder
	b.WriteString(e.Stage)
	if e.Stage == "link" {
		b.WriteString(" failed")
	} else {
		b.WriteString(" shader compile failed")
	}
	if e.Path != "" {
		fmt.Fprintf(&b, " (%s)", e.Path)
	}
	if log := strings.TrimSpace(e.Log); log != "" {
		b.WriteString(": ")
		b.WriteString(log)
	}
	return b.String()
}

// LoadProgram reads both shader stages from fsys and links them.
func (c *Context) LoadProgram(fsys fs.FS, vertPath, fragPath string) (*Program, error) {
	vert, err := fs.ReadFile(fsys, vertPath)
	if err != nil {
		return nil, fmt.Errorf("read vertex shader: %w", err)
	}
	frag, err := fs.ReadFile(fsys, fragPath)
	if err != nil {
		return nil, fmt.Errorf("read fragment shader: %w", err)
	}
	return newProgram(c.gl, source{vertPath, string(vert)}, source{fragPath, string(frag)})
}

// LoadProgramFiles reads both shader stages from the file system.
func (c *Context) LoadProgramFiles(vertPath, fragPath string) (*Program, error) {
	vert, err := os.ReadFile(vertPath)
	if err != nil {
		return nil, fmt.Errorf("read vertex shader: %w", err)
	}
	frag, err := os.ReadFile(fragPath)
	if err != nil {
		return nil, fmt.Errorf("read fragment shader: %w", err)
	}
	return newProgram(c.gl, source{vertPath, string(vert)}, source{fragPath, string(frag)})
}

// NewProgram compiles and links GLSL sources.
func (c *Context) NewProgram(vertSrc, fragSrc string) (*Program, error) {
	return newProgram(c.gl, source{text: vertSrc}, source{text: fragSrc})
}

type source struct {
	path string
	text string
}

func newProgram(gl glpkg.OpenGL, vert, frag source) (*Program, error) {
	vs, err := compileShader(gl, glpkg.VertexShader, "vertex", vert)
	if err != nil {
		return nil, err
	}
	defer gl.DeleteShader(vs)

	fsh, err := compileShader(gl, glpkg.FragmentShader, "fragment", frag)
	if err != nil {
		return nil, err
	}
	defer gl.DeleteShader(fsh)

	id := gl.CreateProgram()
	gl.AttachShader(id, vs)
	gl.AttachShader(id, fsh)
	gl.LinkProgram(id)

	var status int32
	gl.GetProgramiv(id, glpkg.LinkStatus, &status)
	if status == 0 {
		log := gl.GetProgramInfoLog(id)
		gl.DeleteProgram(id)
		return nil, &ShaderError{Stage: "link", Log: log}
	}

	return &Program{gl: gl, id: id, uniforms: map[string]int32{}}, nil
}

func compileShader(gl glpkg.OpenGL, kind uint32, stage string, src source) (uint32, error) {
	id := gl.CreateShader(kind)
	gl.ShaderSource(id, src.text)
	gl.CompileShader(id)

	var status int32
	gl.GetShaderiv(id, glpkg.CompileStatus, &status)
	if status == 0 {
		log := gl.GetShaderInfoLog(id)
		gl.DeleteShader(id)
		return 0, &ShaderError{Stage: stage, Path: src.path, Log: log}
	}
	return id, nil
}

// Uniform returns the location of the named uniform, or -1 if the program has
// no active uniform by that name. Lookups are cached.
func (p *Program) Uniform(name string) int32 {
	if loc, ok := p.uniforms[name]; ok {
		return loc
	}
	loc := p.gl.GetUniformLocation(p.id, name)
	p.uniforms[name] = loc
	return loc
}

// Use makes the program current.
func (p *Program) Use() {
	p.gl.UseProgram(p.id)
}

// Unuse clears the current program.
func (p *Program) Unuse() {
	p.gl.UseProgram(0)
}

// SetMat4 uploads m (column-major) to loc on the current program.
func (p *Program) SetMat4(loc int32, m mgl32.Mat4) {
	p.gl.UniformMatrix4fv(loc, 1, false, &m[0])
}

// SetVec3 uploads v to loc on the current program.
func (p *Program) SetVec3(loc int32, v mgl32.Vec3) {
	p.gl.Uniform3f(loc, v[0], v[1], v[2])
}

// Delete releases the program. It is safe to call more than once.
func (p *Program) Delete() {
	if p == nil || p.id == 0 {
		return
	}
	p.gl.DeleteProgram(p.id)
	p.id = 0
	clear(p.uniforms)
}
