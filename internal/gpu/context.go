package gpu

import "github.com/go-gl/mathgl/mgl32"

// Context is the capability surface of a stateful graphics device. The render
// pipeline talks to the GPU only through it. Implementations are not safe for
// concurrent use; every call happens on the frame loop's thread.
type Context interface {
	CreateBuffer() Handle
	DeleteBuffer(h Handle)
	BindBuffer(target BufferTarget, h Handle)
	// BufferData reallocates the bound buffer's storage.
	BufferData(target BufferTarget, data []byte, usage Usage)
	// BufferSubData overwrites part of the bound buffer's storage.
	BufferSubData(target BufferTarget, offset int, data []byte)

	CreateShader(stage ShaderStage) Handle
	ShaderSource(h Handle, source string)
	// CompileShader compiles the shader and returns the driver log on failure.
	CompileShader(h Handle) (ok bool, log string)
	DeleteShader(h Handle)

	CreateProgram() Handle
	AttachShader(program, shader Handle)
	DetachShader(program, shader Handle)
	LinkProgram(program Handle) (ok bool, log string)
	DeleteProgram(program Handle)
	UseProgram(program Handle)

	ActiveUniforms(program Handle) []ActiveInfo
	ActiveAttributes(program Handle) []ActiveInfo
	UniformLocation(program Handle, name string) Location
	AttribLocation(program Handle, name string) Location

	// UniformFloat uploads len(v)/components vectors of the given width.
	UniformFloat(loc Location, components int, v []float32)
	UniformInt(loc Location, components int, v []int32)
	// UniformMatrix uploads len(v)/(dim*dim) column-major matrices.
	UniformMatrix(loc Location, dim int, v []float32)

	EnableVertexAttrib(loc Location)
	DisableVertexAttrib(loc Location)
	VertexAttribPointer(loc Location, components int, typ ElementType, normalized bool, stride, offset int)
	VertexAttribDivisor(loc Location, divisor int)
	// VertexAttrib sets a constant value used while the array is disabled.
	VertexAttrib(loc Location, v []float32)

	CreateVertexArray() Handle
	BindVertexArray(h Handle)
	DeleteVertexArray(h Handle)

	CreateTexture() Handle
	DeleteTexture(h Handle)
	ActiveTexture(unit int)
	BindTexture(target TextureTarget, h Handle)
	// TexImage2D reallocates storage of the bound texture. face selects the
	// cube face and is ignored for 2D textures.
	TexImage2D(target TextureTarget, face, width, height int, format TextureFormat, pixels []byte)
	TexSubImage2D(target TextureTarget, face, width, height int, format TextureFormat, pixels []byte)
	TexParameters(target TextureTarget, min, mag Filter, wrap Wrap)
	MaxTextureUnits() int

	CreateFramebuffer() Handle
	DeleteFramebuffer(h Handle)
	BindFramebuffer(h Handle)
	FramebufferTexture(tex Handle)
	CreateRenderbuffer() Handle
	DeleteRenderbuffer(h Handle)
	// DepthStorage (re)allocates a depth renderbuffer.
	DepthStorage(rb Handle, width, height int)
	FramebufferDepth(rb Handle)
	// FramebufferStatus checks completeness of the bound framebuffer.
	FramebufferStatus() (complete bool, status uint32)
	ReadPixels(x, y, width, height int, dst []byte)

	SetCull(mode CullMode)
	SetDepth(fn DepthFunc)
	Viewport(r Rect)
	// Scissor enables the scissor test on r, or disables it when r is nil.
	Scissor(r *Rect)
	ClearColor(c mgl32.Vec4)
	Clear(color, depth bool)

	DrawArrays(mode Topology, first, count int)
	DrawArraysInstanced(mode Topology, first, count, instances int)
	DrawElements(mode Topology, count int, typ ElementType, offset int)
	DrawElementsInstanced(mode Topology, count int, typ ElementType, offset, instances int)
}
