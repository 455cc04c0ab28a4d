// Package glctx implements gpu.Context on OpenGL 4.1 core. A Context must be
// created and used on the thread owning the current GL context.
package glctx

import (
	"strings"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"scenegl/internal/gpu"
	"scenegl/internal/logging"
)

type Context struct {
	log   logging.Logger
	units int
}

// New initializes the GL bindings for the current context.
func New(log logging.Logger) (*Context, error) {
	if err := gl.Init(); err != nil {
		return nil, err
	}
	c := &Context{log: logging.OrNop(log)}
	var units int32
	gl.GetIntegerv(gl.MAX_COMBINED_TEXTURE_IMAGE_UNITS, &units)
	c.units = int(units)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.FrontFace(gl.CCW)
	c.log.Infof("OpenGL %s, %d texture units", gl.GoStr(gl.GetString(gl.VERSION)), c.units)
	return c, nil
}

var _ gpu.Context = (*Context)(nil)

// CheckError logs a pending GL error under label.
func (c *Context) CheckError(label string) {
	if err := gl.GetError(); err != gl.NO_ERROR {
		c.log.Errorf("gl error %s: 0x%x", label, err)
	}
}

func bytesPtr(b []byte) unsafe.Pointer {
	if len(b) == 0 {
		return nil
	}
	return gl.Ptr(&b[0])
}

func (c *Context) CreateBuffer() gpu.Handle {
	var h uint32
	gl.GenBuffers(1, &h)
	return gpu.Handle(h)
}

func (c *Context) DeleteBuffer(h gpu.Handle) {
	id := uint32(h)
	gl.DeleteBuffers(1, &id)
}

func (c *Context) BindBuffer(target gpu.BufferTarget, h gpu.Handle) {
	gl.BindBuffer(bufferTargets[target], uint32(h))
}

func (c *Context) BufferData(target gpu.BufferTarget, data []byte, usage gpu.Usage) {
	gl.BufferData(bufferTargets[target], len(data), bytesPtr(data), usages[usage])
}

func (c *Context) BufferSubData(target gpu.BufferTarget, offset int, data []byte) {
	gl.BufferSubData(bufferTargets[target], offset, len(data), bytesPtr(data))
}

func (c *Context) CreateShader(stage gpu.ShaderStage) gpu.Handle {
	return gpu.Handle(gl.CreateShader(stages[stage]))
}

func (c *Context) ShaderSource(h gpu.Handle, source string) {
	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(uint32(h), 1, csources, nil)
	free()
}

func (c *Context) CompileShader(h gpu.Handle) (bool, string) {
	shader := uint32(h)
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.TRUE {
		return true, ""
	}
	var logLength int32
	gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
	log := strings.Repeat("\x00", int(logLength+1))
	gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(log))
	return false, strings.TrimRight(log, "\x00")
}

func (c *Context) DeleteShader(h gpu.Handle) { gl.DeleteShader(uint32(h)) }

func (c *Context) CreateProgram() gpu.Handle { return gpu.Handle(gl.CreateProgram()) }

func (c *Context) AttachShader(program, shader gpu.Handle) {
	gl.AttachShader(uint32(program), uint32(shader))
}

func (c *Context) DetachShader(program, shader gpu.Handle) {
	gl.DetachShader(uint32(program), uint32(shader))
}

func (c *Context) LinkProgram(program gpu.Handle) (bool, string) {
	p := uint32(program)
	gl.LinkProgram(p)

	var status int32
	gl.GetProgramiv(p, gl.LINK_STATUS, &status)
	if status == gl.TRUE {
		return true, ""
	}
	var logLength int32
	gl.GetProgramiv(p, gl.INFO_LOG_LENGTH, &logLength)
	log := strings.Repeat("\x00", int(logLength+1))
	gl.GetProgramInfoLog(p, logLength, nil, gl.Str(log))
	return false, strings.TrimRight(log, "\x00")
}

func (c *Context) DeleteProgram(program gpu.Handle) { gl.DeleteProgram(uint32(program)) }

func (c *Context) UseProgram(program gpu.Handle) { gl.UseProgram(uint32(program)) }

type activeFunc func(program, index uint32, bufSize int32, length, size *int32, xtype *uint32, name *uint8)

func active(program gpu.Handle, count, maxLen uint32, get activeFunc) []gpu.ActiveInfo {
	p := uint32(program)
	var n, longest int32
	gl.GetProgramiv(p, count, &n)
	gl.GetProgramiv(p, maxLen, &longest)

	out := make([]gpu.ActiveInfo, 0, n)
	buf := make([]uint8, longest+1)
	for i := uint32(0); i < uint32(n); i++ {
		var length, size int32
		var xtype uint32
		get(p, i, int32(len(buf)), &length, &size, &xtype, &buf[0])
		out = append(out, gpu.ActiveInfo{
			Name: string(buf[:length]),
			Type: reflectedTypes[xtype],
			Size: int(size),
			Code: xtype,
		})
	}
	return out
}

func (c *Context) ActiveUniforms(program gpu.Handle) []gpu.ActiveInfo {
	return active(program, gl.ACTIVE_UNIFORMS, gl.ACTIVE_UNIFORM_MAX_LENGTH, gl.GetActiveUniform)
}

func (c *Context) ActiveAttributes(program gpu.Handle) []gpu.ActiveInfo {
	return active(program, gl.ACTIVE_ATTRIBUTES, gl.ACTIVE_ATTRIBUTE_MAX_LENGTH, gl.GetActiveAttrib)
}

func (c *Context) UniformLocation(program gpu.Handle, name string) gpu.Location {
	return gpu.Location(gl.GetUniformLocation(uint32(program), gl.Str(name+"\x00")))
}

func (c *Context) AttribLocation(program gpu.Handle, name string) gpu.Location {
	return gpu.Location(gl.GetAttribLocation(uint32(program), gl.Str(name+"\x00")))
}

func (c *Context) UniformFloat(loc gpu.Location, components int, v []float32) {
	if len(v) == 0 {
		return
	}
	n := int32(len(v) / components)
	switch components {
	case 1:
		gl.Uniform1fv(int32(loc), n, &v[0])
	case 2:
		gl.Uniform2fv(int32(loc), n, &v[0])
	case 3:
		gl.Uniform3fv(int32(loc), n, &v[0])
	case 4:
		gl.Uniform4fv(int32(loc), n, &v[0])
	}
}

func (c *Context) UniformInt(loc gpu.Location, components int, v []int32) {
	if len(v) == 0 {
		return
	}
	n := int32(len(v) / components)
	switch components {
	case 1:
		gl.Uniform1iv(int32(loc), n, &v[0])
	case 2:
		gl.Uniform2iv(int32(loc), n, &v[0])
	case 3:
		gl.Uniform3iv(int32(loc), n, &v[0])
	case 4:
		gl.Uniform4iv(int32(loc), n, &v[0])
	}
}

func (c *Context) UniformMatrix(loc gpu.Location, dim int, v []float32) {
	if len(v) == 0 {
		return
	}
	n := int32(len(v) / (dim * dim))
	switch dim {
	case 2:
		gl.UniformMatrix2fv(int32(loc), n, false, &v[0])
	case 3:
		gl.UniformMatrix3fv(int32(loc), n, false, &v[0])
	case 4:
		gl.UniformMatrix4fv(int32(loc), n, false, &v[0])
	}
}

func (c *Context) EnableVertexAttrib(loc gpu.Location)  { gl.EnableVertexAttribArray(uint32(loc)) }
func (c *Context) DisableVertexAttrib(loc gpu.Location) { gl.DisableVertexAttribArray(uint32(loc)) }

func (c *Context) VertexAttribPointer(loc gpu.Location, components int, typ gpu.ElementType, normalized bool, stride, offset int) {
	gl.VertexAttribPointerWithOffset(uint32(loc), int32(components), elementTypes[typ], normalized, int32(stride), uintptr(offset))
}

func (c *Context) VertexAttribDivisor(loc gpu.Location, divisor int) {
	gl.VertexAttribDivisor(uint32(loc), uint32(divisor))
}

func (c *Context) VertexAttrib(loc gpu.Location, v []float32) {
	if len(v) == 0 {
		return
	}
	switch len(v) {
	case 1:
		gl.VertexAttrib1fv(uint32(loc), &v[0])
	case 2:
		gl.VertexAttrib2fv(uint32(loc), &v[0])
	case 3:
		gl.VertexAttrib3fv(uint32(loc), &v[0])
	case 4:
		gl.VertexAttrib4fv(uint32(loc), &v[0])
	}
}

func (c *Context) CreateVertexArray() gpu.Handle {
	var h uint32
	gl.GenVertexArrays(1, &h)
	return gpu.Handle(h)
}

func (c *Context) BindVertexArray(h gpu.Handle) { gl.BindVertexArray(uint32(h)) }

func (c *Context) DeleteVertexArray(h gpu.Handle) {
	id := uint32(h)
	gl.DeleteVertexArrays(1, &id)
}

func (c *Context) CreateTexture() gpu.Handle {
	var h uint32
	gl.GenTextures(1, &h)
	return gpu.Handle(h)
}

func (c *Context) DeleteTexture(h gpu.Handle) {
	id := uint32(h)
	gl.DeleteTextures(1, &id)
}

func (c *Context) ActiveTexture(unit int) { gl.ActiveTexture(gl.TEXTURE0 + uint32(unit)) }

func (c *Context) BindTexture(target gpu.TextureTarget, h gpu.Handle) {
	gl.BindTexture(textureTargets[target], uint32(h))
}

func (c *Context) TexImage2D(target gpu.TextureTarget, face, width, height int, format gpu.TextureFormat, pixels []byte) {
	f := formats[format]
	gl.TexImage2D(textureTarget(target, face), 0, f.internal, int32(width), int32(height), 0, f.layout, gl.UNSIGNED_BYTE, bytesPtr(pixels))
}

func (c *Context) TexSubImage2D(target gpu.TextureTarget, face, width, height int, format gpu.TextureFormat, pixels []byte) {
	gl.TexSubImage2D(textureTarget(target, face), 0, 0, 0, int32(width), int32(height), formats[format].layout, gl.UNSIGNED_BYTE, bytesPtr(pixels))
}

func (c *Context) TexParameters(target gpu.TextureTarget, min, mag gpu.Filter, wrap gpu.Wrap) {
	t := textureTargets[target]
	gl.TexParameteri(t, gl.TEXTURE_MIN_FILTER, filters[min])
	gl.TexParameteri(t, gl.TEXTURE_MAG_FILTER, filters[mag])
	gl.TexParameteri(t, gl.TEXTURE_WRAP_S, wraps[wrap])
	gl.TexParameteri(t, gl.TEXTURE_WRAP_T, wraps[wrap])
	if target == gpu.TextureCube {
		gl.TexParameteri(t, gl.TEXTURE_WRAP_R, wraps[wrap])
	}
}

func (c *Context) MaxTextureUnits() int { return c.units }

func (c *Context) CreateFramebuffer() gpu.Handle {
	var h uint32
	gl.GenFramebuffers(1, &h)
	return gpu.Handle(h)
}

func (c *Context) DeleteFramebuffer(h gpu.Handle) {
	id := uint32(h)
	gl.DeleteFramebuffers(1, &id)
}

func (c *Context) BindFramebuffer(h gpu.Handle) { gl.BindFramebuffer(gl.FRAMEBUFFER, uint32(h)) }

func (c *Context) FramebufferTexture(tex gpu.Handle) {
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, uint32(tex), 0)
}

func (c *Context) CreateRenderbuffer() gpu.Handle {
	var h uint32
	gl.GenRenderbuffers(1, &h)
	return gpu.Handle(h)
}

func (c *Context) DeleteRenderbuffer(h gpu.Handle) {
	id := uint32(h)
	gl.DeleteRenderbuffers(1, &id)
}

func (c *Context) DepthStorage(rb gpu.Handle, width, height int) {
	gl.BindRenderbuffer(gl.RENDERBUFFER, uint32(rb))
	gl.RenderbufferStorage(gl.RENDERBUFFER, gl.DEPTH_COMPONENT24, int32(width), int32(height))
}

func (c *Context) FramebufferDepth(rb gpu.Handle) {
	gl.FramebufferRenderbuffer(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT, gl.RENDERBUFFER, uint32(rb))
}

func (c *Context) FramebufferStatus() (bool, uint32) {
	status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
	return status == gl.FRAMEBUFFER_COMPLETE, status
}

func (c *Context) ReadPixels(x, y, width, height int, dst []byte) {
	gl.ReadPixels(int32(x), int32(y), int32(width), int32(height), gl.RGBA, gl.UNSIGNED_BYTE, bytesPtr(dst))
}

func (c *Context) SetCull(mode gpu.CullMode) {
	if mode == gpu.CullOff {
		gl.Disable(gl.CULL_FACE)
		return
	}
	gl.Enable(gl.CULL_FACE)
	gl.CullFace(cullFaces[mode])
}

func (c *Context) SetDepth(fn gpu.DepthFunc) {
	if fn == gpu.DepthOff {
		gl.Disable(gl.DEPTH_TEST)
		return
	}
	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(depthFuncs[fn])
}

func (c *Context) Viewport(r gpu.Rect) {
	gl.Viewport(int32(r.X), int32(r.Y), int32(r.W), int32(r.H))
}

func (c *Context) Scissor(r *gpu.Rect) {
	if r == nil {
		gl.Disable(gl.SCISSOR_TEST)
		return
	}
	gl.Enable(gl.SCISSOR_TEST)
	gl.Scissor(int32(r.X), int32(r.Y), int32(r.W), int32(r.H))
}

func (c *Context) ClearColor(col mgl32.Vec4) { gl.ClearColor(col[0], col[1], col[2], col[3]) }

func (c *Context) Clear(color, depth bool) {
	var bits uint32
	if color {
		bits |= gl.COLOR_BUFFER_BIT
	}
	if depth {
		bits |= gl.DEPTH_BUFFER_BIT
	}
	if bits != 0 {
		gl.Clear(bits)
	}
}

func (c *Context) DrawArrays(mode gpu.Topology, first, count int) {
	gl.DrawArrays(topologies[mode], int32(first), int32(count))
}

func (c *Context) DrawArraysInstanced(mode gpu.Topology, first, count, instances int) {
	gl.DrawArraysInstanced(topologies[mode], int32(first), int32(count), int32(instances))
}

func (c *Context) DrawElements(mode gpu.Topology, count int, typ gpu.ElementType, offset int) {
	gl.DrawElementsWithOffset(topologies[mode], int32(count), elementTypes[typ], uintptr(offset))
}

func (c *Context) DrawElementsInstanced(mode gpu.Topology, count int, typ gpu.ElementType, offset, instances int) {
	gl.DrawElementsInstanced(topologies[mode], int32(count), elementTypes[typ], gl.PtrOffset(offset), int32(instances))
}
