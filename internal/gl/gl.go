package gl

import "unsafe"

const (
	// ColorBufferBit is a mask used with Clear to clear the color buffer.
	ColorBufferBit = 0x00004000
	// DepthBufferBit is a mask used with Clear to clear the depth buffer.
	DepthBufferBit = 0x00000100

	// Triangles is the primitive type for independent triangles.
	Triangles = 0x0004

	// Data types.
	UnsignedInt = 0x1405
	Float       = 0x1406

	// Buffer targets and usage.
	ArrayBuffer        = 0x8892
	ElementArrayBuffer = 0x8893
	StaticDraw         = 0x88E4

	// Shader stages.
	FragmentShader = 0x8B30
	VertexShader   = 0x8B31

	// Shader and program object parameters.
	CompileStatus = 0x8B81
	LinkStatus    = 0x8B82
	InfoLogLength = 0x8B84

	// DepthTest enables depth comparisons.
	DepthTest = 0x0B71

	// GetString parameters.
	//
	// Vendor returns the company responsible for the GL implementation.
	Vendor = 0x1F00
	// Renderer returns the name of the renderer.
	Renderer = 0x1F01
	// Version returns the GL version string of the current context.
	Version = 0x1F02
	// ShadingLanguageVersion returns the GLSL version string.
	ShadingLanguageVersion = 0x8B8C
)

// OpenGL describes the subset of OpenGL 3.3 core entry points used by this
// module.
//
// All methods operate on the context that is current for the calling thread.
type OpenGL interface {
	// ClearColor sets the clear color used by Clear when clearing the color buffer.
	ClearColor(r, g, b, a float32)

	// Clear clears buffers to preset values (e.g., ColorBufferBit).
	Clear(mask uint32)

	// Viewport sets the affine transformation of x and y from normalized device
	// coordinates to window coordinates.
	Viewport(x, y, width, height int32)

	// Enable enables a server-side GL capability.
	Enable(cap uint32)

	// Disable disables a server-side GL capability.
	Disable(cap uint32)

	// GetString returns a string describing a GL property for the current context.
	//
	// If the name is not recognized or no context is current, implementations
	// return the empty string.
	GetString(name uint32) string

	GenBuffers(n int32, buffers *uint32)
	DeleteBuffers(n int32, buffers *uint32)
	BindBuffer(target, buffer uint32)

	// BufferData creates and initializes the data store of the buffer bound
	// to target. size is in bytes.
	BufferData(target uint32, size int, data unsafe.Pointer, usage uint32)

	GenVertexArrays(n int32, arrays *uint32)
	DeleteVertexArrays(n int32, arrays *uint32)
	BindVertexArray(array uint32)

	// VertexAttribPointer describes the layout of attribute index in the
	// buffer currently bound to ArrayBuffer. offset is a byte offset.
	VertexAttribPointer(index uint32, size int32, xtype uint32, normalized bool, stride int32, offset uintptr)
	EnableVertexAttribArray(index uint32)

	CreateShader(xtype uint32) uint32
	ShaderSource(shader uint32, source string)
	CompileShader(shader uint32)
	GetShaderiv(shader, pname uint32, params *int32)
	GetShaderInfoLog(shader uint32) string
	DeleteShader(shader uint32)

	CreateProgram() uint32
	AttachShader(program, shader uint32)
	LinkProgram(program uint32)
	GetProgramiv(program, pname uint32, params *int32)
	GetProgramInfoLog(program uint32) string
	UseProgram(program uint32)
	DeleteProgram(program uint32)

	// GetUniformLocation returns -1 when name is not an active uniform.
	GetUniformLocation(program uint32, name string) int32
	Uniform3f(location int32, v0, v1, v2 float32)
	UniformMatrix4fv(location int32, count int32, transpose bool, value *float32)

	// DrawElements renders count indices from the bound element buffer,
	// starting at byte offset.
	DrawElements(mode uint32, count int32, xtype uint32, offset uintptr)
}

func gostring(ptr *byte) string {
	if ptr == nil {
		return ""
	}
	var bytes []byte
	for p := ptr; *p != 0; p = (*byte)(unsafe.Pointer(uintptr(unsafe.Pointer(p)) + 1)) {
		bytes = append(bytes, *p)
	}
	return string(bytes)
}
