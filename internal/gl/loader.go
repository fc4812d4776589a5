package gl

import (
	"errors"
	"strings"
	"unsafe"

	"github.com/ebitengine/purego"
)

// ProcResolver returns the address of a GL entry point, or 0 if the current
// context does not provide it.
type ProcResolver func(name string) uintptr

// ErrNoResolver is returned by Load when it is given a nil resolver.
var ErrNoResolver = errors.New("gl: nil proc resolver")

// openGL binds the 3.3 core entry points through purego. The function fields
// are filled in by Load.
type openGL struct {
	clearColor func(float32, float32, float32, float32)
	clear      func(uint32)
	viewport   func(int32, int32, int32, int32)
	enable     func(uint32)
	disable    func(uint32)
	getString  func(uint32) *byte

	// Buffer operations
	genBuffers    func(int32, *uint32)
	deleteBuffers func(int32, *uint32)
	bindBuffer    func(uint32, uint32)
	bufferData    func(uint32, int, unsafe.Pointer, uint32)

	// VAO operations
	genVertexArrays         func(int32, *uint32)
	deleteVertexArrays      func(int32, *uint32)
	bindVertexArray         func(uint32)
	vertexAttribPointer     func(uint32, int32, uint32, bool, int32, uintptr)
	enableVertexAttribArray func(uint32)

	// Shader operations
	createShader     func(uint32) uint32
	shaderSource     func(uint32, int32, **byte, *int32)
	compileShader    func(uint32)
	getShaderiv      func(uint32, uint32, *int32)
	getShaderInfoLog func(uint32, int32, *int32, *byte)
	deleteShader     func(uint32)

	// Program operations
	createProgram     func() uint32
	attachShader      func(uint32, uint32)
	linkProgram       func(uint32)
	getProgramiv      func(uint32, uint32, *int32)
	getProgramInfoLog func(uint32, int32, *int32, *byte)
	useProgram        func(uint32)
	deleteProgram     func(uint32)

	// Uniform operations
	getUniformLocation func(uint32, *byte) int32
	uniform3f          func(int32, float32, float32, float32)
	uniformMatrix4fv   func(int32, int32, bool, *float32)

	// Drawing
	drawElements func(uint32, int32, uint32, uintptr)
}

func (gl *openGL) ClearColor(r, g, b, a float32) {
	gl.clearColor(r, g, b, a)
}

func (gl *openGL) Clear(mask uint32) {
	gl.clear(mask)
}

func (gl *openGL) Viewport(x, y, width, height int32) {
	gl.viewport(x, y, width, height)
}

func (gl *openGL) Enable(cap uint32) {
	gl.enable(cap)
}

func (gl *openGL) Disable(cap uint32) {
	gl.disable(cap)
}

func (gl *openGL) GetString(name uint32) string {
	return gostring(gl.getString(name))
}

func (gl *openGL) GenBuffers(n int32, buffers *uint32) {
	gl.genBuffers(n, buffers)
}

func (gl *openGL) DeleteBuffers(n int32, buffers *uint32) {
	gl.deleteBuffers(n, buffers)
}

func (gl *openGL) BindBuffer(target uint32, buffer uint32) {
	gl.bindBuffer(target, buffer)
}

func (gl *openGL) BufferData(target uint32, size int, data unsafe.Pointer, usage uint32) {
	gl.bufferData(target, size, data, usage)
}

func (gl *openGL) GenVertexArrays(n int32, arrays *uint32) {
	gl.genVertexArrays(n, arrays)
}

func (gl *openGL) DeleteVertexArrays(n int32, arrays *uint32) {
	gl.deleteVertexArrays(n, arrays)
}

func (gl *openGL) BindVertexArray(array uint32) {
	gl.bindVertexArray(array)
}

func (gl *openGL) VertexAttribPointer(index uint32, size int32, xtype uint32, normalized bool, stride int32, offset uintptr) {
	gl.vertexAttribPointer(index, size, xtype, normalized, stride, offset)
}

func (gl *openGL) EnableVertexAttribArray(index uint32) {
	gl.enableVertexAttribArray(index)
}

func (gl *openGL) CreateShader(xtype uint32) uint32 {
	return gl.createShader(xtype)
}

func (gl *openGL) ShaderSource(shader uint32, source string) {
	if source == "" {
		source = "\n"
	}
	srcBytes := []byte(source)
	srcPtr := &srcBytes[0]
	length := int32(len(srcBytes))
	gl.shaderSource(shader, 1, &srcPtr, &length)
}

func (gl *openGL) CompileShader(shader uint32) {
	gl.compileShader(shader)
}

func (gl *openGL) GetShaderiv(shader uint32, pname uint32, params *int32) {
	gl.getShaderiv(shader, pname, params)
}

func (gl *openGL) GetShaderInfoLog(shader uint32) string {
	var length int32
	gl.getShaderiv(shader, InfoLogLength, &length)
	if length == 0 {
		return ""
	}
	log := make([]byte, length)
	gl.getShaderInfoLog(shader, length, &length, &log[0])
	return string(log[:length])
}

func (gl *openGL) DeleteShader(shader uint32) {
	gl.deleteShader(shader)
}

func (gl *openGL) CreateProgram() uint32 {
	return gl.createProgram()
}

func (gl *openGL) AttachShader(program uint32, shader uint32) {
	gl.attachShader(program, shader)
}

func (gl *openGL) LinkProgram(program uint32) {
	gl.linkProgram(program)
}

func (gl *openGL) GetProgramiv(program uint32, pname uint32, params *int32) {
	gl.getProgramiv(program, pname, params)
}

func (gl *openGL) GetProgramInfoLog(program uint32) string {
	var length int32
	gl.getProgramiv(program, InfoLogLength, &length)
	if length == 0 {
		return ""
	}
	log := make([]byte, length)
	gl.getProgramInfoLog(program, length, &length, &log[0])
	return string(log[:length])
}

func (gl *openGL) UseProgram(program uint32) {
	gl.useProgram(program)
}

func (gl *openGL) DeleteProgram(program uint32) {
	gl.deleteProgram(program)
}

func (gl *openGL) GetUniformLocation(program uint32, name string) int32 {
	nameBytes := append([]byte(name), 0)
	return gl.getUniformLocation(program, &nameBytes[0])
}

func (gl *openGL) Uniform3f(location int32, v0, v1, v2 float32) {
	gl.uniform3f(location, v0, v1, v2)
}

func (gl *openGL) UniformMatrix4fv(location int32, count int32, transpose bool, value *float32) {
	gl.uniformMatrix4fv(location, count, transpose, value)
}

func (gl *openGL) DrawElements(mode uint32, count int32, xtype uint32, offset uintptr) {
	gl.drawElements(mode, count, xtype, offset)
}

// Load binds every entry point in OpenGL using resolve. A GL context must be
// current on the calling thread. All missing symbols are reported together.
func Load(resolve ProcResolver) (OpenGL, error) {
	if resolve == nil {
		return nil, ErrNoResolver
	}

	var missing []string
	register := func(dst interface{}, name string) {
		addr := resolve(name)
		if addr == 0 {
			missing = append(missing, name)
			return
		}
		purego.RegisterFunc(dst, addr)
	}

	gl := &openGL{}
	register(&gl.clearColor, "glClearColor")
	register(&gl.clear, "glClear")
	register(&gl.viewport, "glViewport")
	register(&gl.enable, "glEnable")
	register(&gl.disable, "glDisable")
	register(&gl.getString, "glGetString")

	register(&gl.genBuffers, "glGenBuffers")
	register(&gl.deleteBuffers, "glDeleteBuffers")
	register(&gl.bindBuffer, "glBindBuffer")
	register(&gl.bufferData, "glBufferData")
	register(&gl.genVertexArrays, "glGenVertexArrays")
	register(&gl.deleteVertexArrays, "glDeleteVertexArrays")
	register(&gl.bindVertexArray, "glBindVertexArray")
	register(&gl.vertexAttribPointer, "glVertexAttribPointer")
	register(&gl.enableVertexAttribArray, "glEnableVertexAttribArray")

	register(&gl.createShader, "glCreateShader")
	register(&gl.shaderSource, "glShaderSource")
	register(&gl.compileShader, "glCompileShader")
	register(&gl.getShaderiv, "glGetShaderiv")
	register(&gl.getShaderInfoLog, "glGetShaderInfoLog")
	register(&gl.deleteShader, "glDeleteShader")
	register(&gl.createProgram, "glCreateProgram")
	register(&gl.attachShader, "glAttachShader")
	register(&gl.linkProgram, "glLinkProgram")
	register(&gl.getProgramiv, "glGetProgramiv")
	register(&gl.getProgramInfoLog, "glGetProgramInfoLog")
	register(&gl.useProgram, "glUseProgram")
	register(&gl.deleteProgram, "glDeleteProgram")

	register(&gl.getUniformLocation, "glGetUniformLocation")
	register(&gl.uniform3f, "glUniform3f")
	register(&gl.uniformMatrix4fv, "glUniformMatrix4fv")

	register(&gl.drawElements, "glDrawElements")

	if len(missing) > 0 {
		return nil, &MissingProcsError{Names: missing}
	}
	return gl, nil
}

// MissingProcsError lists entry points the resolver could not find.
type MissingProcsError struct {
	Names []string
}

func (e *MissingProcsError) Error() string {
	return "gl: missing entry points: " + strings.Join(e.Names, ", ")
}
