// Package gltest provides a recording gl.OpenGL for tests that run without a
// GL context.
package gltest

import (
	"fmt"
	"unsafe"

	"github.com/tinyrange/polydemo/internal/gl"
)

// Call is one recorded entry point invocation.
type Call struct {
	Name string
	Args []any
}

func (c Call) String() string {
	return fmt.Sprintf("%s%v", c.Name, c.Args)
}

// GL records every call and hands out increasing object names. The zero
// value is not usable; call New.
type GL struct {
	Calls []Call

	// CompileFail and LinkFail make the corresponding status queries report
	// failure with InfoLog as the log.
	CompileFail map[uint32]bool // keyed by shader type
	LinkFail    bool
	InfoLog     string

	// Uniforms maps uniform names to locations; unknown names return -1.
	Uniforms map[string]int32

	// Buffers holds the last data uploaded to each buffer target.
	Buffers map[uint32][]byte

	Strings map[uint32]string

	next         uint32
	shaderTypes  map[uint32]uint32
	boundArray   uint32
	liveBuffers  map[uint32]bool
	liveArrays   map[uint32]bool
	livePrograms map[uint32]bool
}

var _ gl.OpenGL = (*GL)(nil)

func New() *GL {
	return &GL{
		CompileFail:  map[uint32]bool{},
		Uniforms:     map[string]int32{},
		Buffers:      map[uint32][]byte{},
		Strings:      map[uint32]string{},
		shaderTypes:  map[uint32]uint32{},
		liveBuffers:  map[uint32]bool{},
		liveArrays:   map[uint32]bool{},
		livePrograms: map[uint32]bool{},
	}
}

func (g *GL) record(name string, args ...any) {
	g.Calls = append(g.Calls, Call{Name: name, Args: args})
}

func (g *GL) gen() uint32 {
	g.next++
	return g.next
}

// Names returns the recorded entry point names in order.
func (g *GL) Names() []string {
	names := make([]string, len(g.Calls))
	for i, c := range g.Calls {
		names[i] = c.Name
	}
	return names
}

// Count returns how many times name was called.
func (g *GL) Count(name string) int {
	n := 0
	for _, c := range g.Calls {
		if c.Name == name {
			n++
		}
	}
	return n
}

// Last returns the most recent call to name.
func (g *GL) Last(name string) (Call, bool) {
	for i := len(g.Calls) - 1; i >= 0; i-- {
		if g.Calls[i].Name == name {
			return g.Calls[i], true
		}
	}
	return Call{}, false
}

// Reset forgets recorded calls but keeps object state.
func (g *GL) Reset() {
	g.Calls = nil
}

// Live reports the number of buffers, vertex arrays and programs that have
// been created and not deleted.
func (g *GL) Live() (buffers, arrays, programs int) {
	return len(g.liveBuffers), len(g.liveArrays), len(g.livePrograms)
}

func (g *GL) ClearColor(r, gr, b, a float32) { g.record("ClearColor", r, gr, b, a) }
func (g *GL) Clear(mask uint32)               { g.record("Clear", mask) }
func (g *GL) Viewport(x, y, w, h int32)       { g.record("Viewport", x, y, w, h) }
func (g *GL) Enable(cap uint32)               { g.record("Enable", cap) }
func (g *GL) Disable(cap uint32)              { g.record("Disable", cap) }

func (g *GL) GetString(name uint32) string {
	g.record("GetString", name)
	return g.Strings[name]
}

func (g *GL) GenBuffers(n int32, buffers *uint32) {
	ids := unsafe.Slice(buffers, n)
	for i := range ids {
		ids[i] = g.gen()
		g.liveBuffers[ids[i]] = true
	}
	g.record("GenBuffers", n)
}

func (g *GL) DeleteBuffers(n int32, buffers *uint32) {
	ids := unsafe.Slice(buffers, n)
	for _, id := range ids {
		delete(g.liveBuffers, id)
	}
	g.record("DeleteBuffers", append([]uint32(nil), ids...))
}

func (g *GL) BindBuffer(target, buffer uint32) { g.record("BindBuffer", target, buffer) }

func (g *GL) BufferData(target uint32, size int, data unsafe.Pointer, usage uint32) {
	var b []byte
	if data != nil && size > 0 {
		b = append([]byte(nil), unsafe.Slice((*byte)(data), size)...)
	}
	g.Buffers[target] = b
	g.record("BufferData", target, size, usage)
}

func (g *GL) GenVertexArrays(n int32, arrays *uint32) {
	ids := unsafe.Slice(arrays, n)
	for i := range ids {
		ids[i] = g.gen()
		g.liveArrays[ids[i]] = true
	}
	g.record("GenVertexArrays", n)
}

func (g *GL) DeleteVertexArrays(n int32, arrays *uint32) {
	ids := unsafe.Slice(arrays, n)
	for _, id := range ids {
		delete(g.liveArrays, id)
	}
	g.record("DeleteVertexArrays", append([]uint32(nil), ids...))
}

func (g *GL) BindVertexArray(array uint32) {
	g.boundArray = array
	g.record("BindVertexArray", array)
}

func (g *GL) VertexAttribPointer(index uint32, size int32, xtype uint32, normalized bool, stride int32, offset uintptr) {
	g.record("VertexAttribPointer", index, size, xtype, normalized, stride, offset)
}

func (g *GL) EnableVertexAttribArray(index uint32) { g.record("EnableVertexAttribArray", index) }

func (g *GL) CreateShader(xtype uint32) uint32 {
	id := g.gen()
	g.shaderTypes[id] = xtype
	g.record("CreateShader", xtype)
	return id
}

func (g *GL) ShaderSource(shader uint32, source string) { g.record("ShaderSource", shader, source) }
func (g *GL) CompileShader(shader uint32)               { g.record("CompileShader", shader) }

func (g *GL) GetShaderiv(shader, pname uint32, params *int32) {
	switch pname {
	case gl.CompileStatus:
		*params = 1
		if g.CompileFail[g.shaderTypes[shader]] {
			*params = 0
		}
	case gl.InfoLogLength:
		*params = int32(len(g.InfoLog))
	}
	g.record("GetShaderiv", shader, pname)
}

func (g *GL) GetShaderInfoLog(shader uint32) string {
	g.record("GetShaderInfoLog", shader)
	return g.InfoLog
}

func (g *GL) DeleteShader(shader uint32) {
	delete(g.shaderTypes, shader)
	g.record("DeleteShader", shader)
}

func (g *GL) CreateProgram() uint32 {
	id := g.gen()
	g.livePrograms[id] = true
	g.record("CreateProgram")
	return id
}

func (g *GL) AttachShader(program, shader uint32) { g.record("AttachShader", program, shader) }
func (g *GL) LinkProgram(program uint32)          { g.record("LinkProgram", program) }

func (g *GL) GetProgramiv(program, pname uint32, params *int32) {
	switch pname {
	case gl.LinkStatus:
		*params = 1
		if g.LinkFail {
			*params = 0
		}
	case gl.InfoLogLength:
		*params = int32(len(g.InfoLog))
	}
	g.record("GetProgramiv", program, pname)
}

func (g *GL) GetProgramInfoLog(program uint32) string {
	g.record("GetProgramInfoLog", program)
	return g.InfoLog
}

func (g *GL) UseProgram(program uint32) { g.record("UseProgram", program) }

func (g *GL) DeleteProgram(program uint32) {
	delete(g.livePrograms, program)
	g.record("DeleteProgram", program)
}

func (g *GL) GetUniformLocation(program uint32, name string) int32 {
	g.record("GetUniformLocation", program, name)
	if loc, ok := g.Uniforms[name]; ok {
		return loc
	}
	return -1
}

func (g *GL) Uniform3f(location int32, v0, v1, v2 float32) {
	g.record("Uniform3f", location, v0, v1, v2)
}

func (g *GL) UniformMatrix4fv(location int32, count int32, transpose bool, value *float32) {
	m := append([]float32(nil), unsafe.Slice(value, 16*int(count))...)
	g.record("UniformMatrix4fv", location, count, transpose, m)
}

func (g *GL) DrawElements(mode uint32, count int32, xtype uint32, offset uintptr) {
	g.record("DrawElements", mode, count, xtype, offset, g.boundArray)
}
