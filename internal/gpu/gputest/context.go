// Package gputest provides a recording gpu.Context for tests. It keeps
// enough object state to answer reflection and completeness queries and to
// detect leaks, and counts every call by method name.
package gputest

import (
	"fmt"
	"strings"

	"scenegl/internal/gpu"

	"github.com/go-gl/mathgl/mgl32"
)

// Call is one recorded context call.
type Call struct {
	Name string
	Args []any
}

func (c Call) String() string {
	parts := make([]string, len(c.Args))
	for i, a := range c.Args {
		parts[i] = fmt.Sprint(a)
	}
	return c.Name + "(" + strings.Join(parts, ", ") + ")"
}

type shader struct {
	stage  gpu.ShaderStage
	source string
}

type program struct {
	shaders    []gpu.Handle
	linked     bool
	uniforms   []gpu.ActiveInfo
	attributes []gpu.ActiveInfo
	uLocs      map[string]gpu.Location
	aLocs      map[string]gpu.Location
	values     map[gpu.Location]any
}

type buffer struct {
	data  []byte
	usage gpu.Usage
}

type texture struct {
	width, height int
	format        gpu.TextureFormat
}

// Pointer is the recorded vertex attribute configuration of one location
// within a vertex array.
type Pointer struct {
	Buffer     gpu.Handle
	Components int
	Type       gpu.ElementType
	Normalized bool
	Stride     int
	Offset     int
	Divisor    int
	Enabled    bool
}

type vertexArray struct {
	pointers map[gpu.Location]*Pointer
	element  gpu.Handle
}

// Context is a fake gpu.Context.
type Context struct {
	// LinkLog makes every LinkProgram fail with this log when non-empty.
	LinkLog string
	// IncompleteStatus makes FramebufferStatus report incomplete.
	IncompleteStatus uint32
	// TextureUnits is reported by MaxTextureUnits.
	TextureUnits int
	// Fill is the color ReadPixels returns.
	Fill [4]byte

	Calls  []Call
	counts map[string]int

	next          gpu.Handle
	buffers       map[gpu.Handle]*buffer
	shaders       map[gpu.Handle]*shader
	programs      map[gpu.Handle]*program
	textures      map[gpu.Handle]*texture
	vertexArrays  map[gpu.Handle]*vertexArray
	framebuffers  map[gpu.Handle]gpu.Handle
	renderbuffers map[gpu.Handle][2]int

	boundBuffers [2]gpu.Handle
	current      gpu.Handle
	vao          gpu.Handle
	fbo          gpu.Handle
	unit         int
	units        map[int]gpu.Handle
	constants    map[gpu.Location][]float32
}

func New() *Context {
	return &Context{
		TextureUnits:  16,
		counts:        map[string]int{},
		buffers:       map[gpu.Handle]*buffer{},
		shaders:       map[gpu.Handle]*shader{},
		programs:      map[gpu.Handle]*program{},
		textures:      map[gpu.Handle]*texture{},
		vertexArrays:  map[gpu.Handle]*vertexArray{},
		framebuffers:  map[gpu.Handle]gpu.Handle{},
		renderbuffers: map[gpu.Handle][2]int{},
		units:         map[int]gpu.Handle{},
		constants:     map[gpu.Location][]float32{},
	}
}

var _ gpu.Context = (*Context)(nil)

func (c *Context) record(name string, args ...any) {
	c.Calls = append(c.Calls, Call{Name: name, Args: args})
	c.counts[name]++
}

// Count returns how many times the named method was called.
func (c *Context) Count(name string) int { return c.counts[name] }

// Uploads counts buffer and texture content uploads.
func (c *Context) Uploads() int {
	return c.counts["BufferData"] + c.counts["BufferSubData"] + c.counts["TexImage2D"] + c.counts["TexSubImage2D"]
}

// ResetCalls clears recorded calls but keeps object state.
func (c *Context) ResetCalls() {
	c.Calls = nil
	c.counts = map[string]int{}
}

// Names lists recorded call names in order.
func (c *Context) Names() []string {
	out := make([]string, len(c.Calls))
	for i, call := range c.Calls {
		out[i] = call.Name
	}
	return out
}

func (c *Context) alloc() gpu.Handle {
	c.next++
	return c.next
}

// Live counts objects that were created and not deleted.
func (c *Context) Live() int {
	return len(c.buffers) + len(c.shaders) + len(c.programs) + len(c.textures) +
		len(c.vertexArrays) + len(c.framebuffers) + len(c.renderbuffers)
}

func (c *Context) LivePrograms() int { return len(c.programs) }
func (c *Context) LiveShaders() int  { return len(c.shaders) }
func (c *Context) LiveBuffers() int  { return len(c.buffers) }

// BufferContent returns the stored bytes of a buffer.
func (c *Context) BufferContent(h gpu.Handle) []byte {
	if b := c.buffers[h]; b != nil {
		return b.data
	}
	return nil
}

// UniformValue returns the last value uploaded to a uniform of a program.
func (c *Context) UniformValue(prog gpu.Handle, name string) any {
	p := c.programs[prog]
	if p == nil {
		return nil
	}
	loc, ok := p.uLocs[name]
	if !ok {
		return nil
	}
	return p.values[loc]
}

// PointerOf returns the attribute configuration recorded in a vertex array.
func (c *Context) PointerOf(vao gpu.Handle, loc gpu.Location) *Pointer {
	if v := c.vertexArrays[vao]; v != nil {
		return v.pointers[loc]
	}
	return nil
}

// ElementBufferOf returns the index buffer captured by a vertex array.
func (c *Context) ElementBufferOf(vao gpu.Handle) gpu.Handle {
	if v := c.vertexArrays[vao]; v != nil {
		return v.element
	}
	return gpu.NoHandle
}

// TextureOnUnit returns the texture bound to a unit.
func (c *Context) TextureOnUnit(unit int) gpu.Handle { return c.units[unit] }

func (c *Context) TextureSize(h gpu.Handle) (int, int) {
	if t := c.textures[h]; t != nil {
		return t.width, t.height
	}
	return 0, 0
}

func (c *Context) RenderbufferSize(h gpu.Handle) (int, int) {
	s := c.renderbuffers[h]
	return s[0], s[1]
}

func (c *Context) CreateBuffer() gpu.Handle {
	h := c.alloc()
	c.buffers[h] = &buffer{}
	c.record("CreateBuffer", h)
	return h
}

func (c *Context) DeleteBuffer(h gpu.Handle) {
	delete(c.buffers, h)
	c.record("DeleteBuffer", h)
}

func (c *Context) BindBuffer(target gpu.BufferTarget, h gpu.Handle) {
	c.boundBuffers[target] = h
	if target == gpu.ElementArrayBuffer {
		if v := c.vertexArrays[c.vao]; v != nil {
			v.element = h
		}
	}
	c.record("BindBuffer", target, h)
}

func (c *Context) BufferData(target gpu.BufferTarget, data []byte, usage gpu.Usage) {
	if b := c.buffers[c.boundBuffers[target]]; b != nil {
		b.data = append([]byte(nil), data...)
		b.usage = usage
	}
	c.record("BufferData", target, len(data))
}

func (c *Context) BufferSubData(target gpu.BufferTarget, offset int, data []byte) {
	if b := c.buffers[c.boundBuffers[target]]; b != nil {
		copy(b.data[offset:], data)
	}
	c.record("BufferSubData", target, offset, len(data))
}

func (c *Context) CreateShader(stage gpu.ShaderStage) gpu.Handle {
	h := c.alloc()
	c.shaders[h] = &shader{stage: stage}
	c.record("CreateShader", stage, h)
	return h
}

func (c *Context) ShaderSource(h gpu.Handle, source string) {
	if s := c.shaders[h]; s != nil {
		s.source = source
	}
	c.record("ShaderSource", h)
}

func (c *Context) CompileShader(h gpu.Handle) (bool, string) {
	c.record("CompileShader", h)
	s := c.shaders[h]
	if s == nil {
		return false, "invalid shader"
	}
	log, ok := compileLog(s.source)
	return ok, log
}

func (c *Context) DeleteShader(h gpu.Handle) {
	delete(c.shaders, h)
	c.record("DeleteShader", h)
}

func (c *Context) CreateProgram() gpu.Handle {
	h := c.alloc()
	c.programs[h] = &program{values: map[gpu.Location]any{}}
	c.record("CreateProgram", h)
	return h
}

func (c *Context) AttachShader(prog, sh gpu.Handle) {
	if p := c.programs[prog]; p != nil {
		p.shaders = append(p.shaders, sh)
	}
	c.record("AttachShader", prog, sh)
}

func (c *Context) DetachShader(prog, sh gpu.Handle) {
	if p := c.programs[prog]; p != nil {
		for i, s := range p.shaders {
			if s == sh {
				p.shaders = append(p.shaders[:i], p.shaders[i+1:]...)
				break
			}
		}
	}
	c.record("DetachShader", prog, sh)
}

func (c *Context) LinkProgram(prog gpu.Handle) (bool, string) {
	c.record("LinkProgram", prog)
	p := c.programs[prog]
	if p == nil {
		return false, "invalid program"
	}
	if c.LinkLog != "" {
		return false, c.LinkLog
	}
	var vertex, fragment string
	for _, h := range p.shaders {
		s := c.shaders[h]
		if s == nil {
			return false, "attached shader was deleted"
		}
		if s.stage == gpu.VertexStage {
			vertex = s.source
		} else {
			fragment = s.source
		}
	}
	p.uniforms, p.attributes = reflectProgram(vertex, fragment)
	p.uLocs = map[string]gpu.Location{}
	p.aLocs = map[string]gpu.Location{}
	var loc gpu.Location
	for _, u := range p.uniforms {
		p.uLocs[u.Name] = loc
		p.uLocs[strings.TrimSuffix(u.Name, "[0]")] = loc
		loc += gpu.Location(u.Size)
	}
	loc = 0
	for _, a := range p.attributes {
		p.aLocs[a.Name] = loc
		rows := 1
		if a.Type.IsMatrix() {
			rows = a.Type.Dim()
		}
		loc += gpu.Location(rows)
	}
	p.linked = true
	return true, ""
}

func (c *Context) DeleteProgram(prog gpu.Handle) {
	delete(c.programs, prog)
	if c.current == prog {
		c.current = gpu.NoHandle
	}
	c.record("DeleteProgram", prog)
}

func (c *Context) UseProgram(prog gpu.Handle) {
	c.current = prog
	c.record("UseProgram", prog)
}

func (c *Context) ActiveUniforms(prog gpu.Handle) []gpu.ActiveInfo {
	c.record("ActiveUniforms", prog)
	if p := c.programs[prog]; p != nil {
		return p.uniforms
	}
	return nil
}

func (c *Context) ActiveAttributes(prog gpu.Handle) []gpu.ActiveInfo {
	c.record("ActiveAttributes", prog)
	if p := c.programs[prog]; p != nil {
		return p.attributes
	}
	return nil
}

func (c *Context) UniformLocation(prog gpu.Handle, name string) gpu.Location {
	if p := c.programs[prog]; p != nil {
		if loc, ok := p.uLocs[name]; ok {
			return loc
		}
	}
	return gpu.NoLocation
}

func (c *Context) AttribLocation(prog gpu.Handle, name string) gpu.Location {
	if p := c.programs[prog]; p != nil {
		if loc, ok := p.aLocs[name]; ok {
			return loc
		}
	}
	return gpu.NoLocation
}

func (c *Context) setUniform(loc gpu.Location, v any) {
	if p := c.programs[c.current]; p != nil {
		p.values[loc] = v
	}
}

func (c *Context) UniformFloat(loc gpu.Location, components int, v []float32) {
	c.setUniform(loc, append([]float32(nil), v...))
	c.record("UniformFloat", loc, components, len(v))
}

func (c *Context) UniformInt(loc gpu.Location, components int, v []int32) {
	c.setUniform(loc, append([]int32(nil), v...))
	c.record("UniformInt", loc, components, len(v))
}

func (c *Context) UniformMatrix(loc gpu.Location, dim int, v []float32) {
	c.setUniform(loc, append([]float32(nil), v...))
	c.record("UniformMatrix", loc, dim, len(v))
}

func (c *Context) pointer(loc gpu.Location) *Pointer {
	v := c.vertexArrays[c.vao]
	if v == nil {
		return &Pointer{}
	}
	p := v.pointers[loc]
	if p == nil {
		p = &Pointer{}
		v.pointers[loc] = p
	}
	return p
}

func (c *Context) EnableVertexAttrib(loc gpu.Location) {
	c.pointer(loc).Enabled = true
	c.record("EnableVertexAttrib", loc)
}

func (c *Context) DisableVertexAttrib(loc gpu.Location) {
	c.pointer(loc).Enabled = false
	c.record("DisableVertexAttrib", loc)
}

func (c *Context) VertexAttribPointer(loc gpu.Location, components int, typ gpu.ElementType, normalized bool, stride, offset int) {
	p := c.pointer(loc)
	p.Buffer = c.boundBuffers[gpu.ArrayBuffer]
	p.Components, p.Type, p.Normalized, p.Stride, p.Offset = components, typ, normalized, stride, offset
	c.record("VertexAttribPointer", loc, components, typ, stride, offset)
}

func (c *Context) VertexAttribDivisor(loc gpu.Location, divisor int) {
	c.pointer(loc).Divisor = divisor
	c.record("VertexAttribDivisor", loc, divisor)
}

func (c *Context) VertexAttrib(loc gpu.Location, v []float32) {
	c.constants[loc] = append([]float32(nil), v...)
	c.record("VertexAttrib", loc, len(v))
}

// Constant returns the constant value last set for an attribute location.
func (c *Context) Constant(loc gpu.Location) []float32 { return c.constants[loc] }

func (c *Context) CreateVertexArray() gpu.Handle {
	h := c.alloc()
	c.vertexArrays[h] = &vertexArray{pointers: map[gpu.Location]*Pointer{}}
	c.record("CreateVertexArray", h)
	return h
}

func (c *Context) BindVertexArray(h gpu.Handle) {
	c.vao = h
	if v := c.vertexArrays[h]; v != nil {
		c.boundBuffers[gpu.ElementArrayBuffer] = v.element
	} else {
		c.boundBuffers[gpu.ElementArrayBuffer] = gpu.NoHandle
	}
	c.record("BindVertexArray", h)
}

func (c *Context) DeleteVertexArray(h gpu.Handle) {
	delete(c.vertexArrays, h)
	if c.vao == h {
		c.vao = gpu.NoHandle
	}
	c.record("DeleteVertexArray", h)
}

func (c *Context) CreateTexture() gpu.Handle {
	h := c.alloc()
	c.textures[h] = &texture{}
	c.record("CreateTexture", h)
	return h
}

func (c *Context) DeleteTexture(h gpu.Handle) {
	delete(c.textures, h)
	for u, t := range c.units {
		if t == h {
			delete(c.units, u)
		}
	}
	c.record("DeleteTexture", h)
}

func (c *Context) ActiveTexture(unit int) {
	c.unit = unit
	c.record("ActiveTexture", unit)
}

func (c *Context) BindTexture(target gpu.TextureTarget, h gpu.Handle) {
	c.units[c.unit] = h
	c.record("BindTexture", target, h)
}

func (c *Context) TexImage2D(target gpu.TextureTarget, face, width, height int, format gpu.TextureFormat, pixels []byte) {
	if t := c.textures[c.units[c.unit]]; t != nil {
		t.width, t.height, t.format = width, height, format
	}
	c.record("TexImage2D", target, face, width, height)
}

func (c *Context) TexSubImage2D(target gpu.TextureTarget, face, width, height int, format gpu.TextureFormat, pixels []byte) {
	c.record("TexSubImage2D", target, face, width, height)
}

func (c *Context) TexParameters(target gpu.TextureTarget, min, mag gpu.Filter, wrap gpu.Wrap) {
	c.record("TexParameters", target, min, mag, wrap)
}

func (c *Context) MaxTextureUnits() int { return c.TextureUnits }

func (c *Context) CreateFramebuffer() gpu.Handle {
	h := c.alloc()
	c.framebuffers[h] = gpu.NoHandle
	c.record("CreateFramebuffer", h)
	return h
}

func (c *Context) DeleteFramebuffer(h gpu.Handle) {
	delete(c.framebuffers, h)
	if c.fbo == h {
		c.fbo = gpu.NoHandle
	}
	c.record("DeleteFramebuffer", h)
}

func (c *Context) BindFramebuffer(h gpu.Handle) {
	c.fbo = h
	c.record("BindFramebuffer", h)
}

// BoundFramebuffer returns the framebuffer currently bound.
func (c *Context) BoundFramebuffer() gpu.Handle { return c.fbo }

func (c *Context) FramebufferTexture(tex gpu.Handle) {
	if _, ok := c.framebuffers[c.fbo]; ok {
		c.framebuffers[c.fbo] = tex
	}
	c.record("FramebufferTexture", tex)
}

func (c *Context) CreateRenderbuffer() gpu.Handle {
	h := c.alloc()
	c.renderbuffers[h] = [2]int{}
	c.record("CreateRenderbuffer", h)
	return h
}

func (c *Context) DeleteRenderbuffer(h gpu.Handle) {
	delete(c.renderbuffers, h)
	c.record("DeleteRenderbuffer", h)
}

func (c *Context) DepthStorage(rb gpu.Handle, width, height int) {
	if _, ok := c.renderbuffers[rb]; ok {
		c.renderbuffers[rb] = [2]int{width, height}
	}
	c.record("DepthStorage", rb, width, height)
}

func (c *Context) FramebufferDepth(rb gpu.Handle) {
	c.record("FramebufferDepth", rb)
}

func (c *Context) FramebufferStatus() (bool, uint32) {
	c.record("FramebufferStatus")
	if c.IncompleteStatus != 0 {
		return false, c.IncompleteStatus
	}
	return true, 0
}

func (c *Context) ReadPixels(x, y, width, height int, dst []byte) {
	for i := 0; i+3 < len(dst); i += 4 {
		copy(dst[i:i+4], c.Fill[:])
	}
	c.record("ReadPixels", x, y, width, height)
}

func (c *Context) SetCull(mode gpu.CullMode) { c.record("SetCull", mode) }
func (c *Context) SetDepth(fn gpu.DepthFunc) { c.record("SetDepth", fn) }
func (c *Context) Viewport(r gpu.Rect)       { c.record("Viewport", r) }
func (c *Context) Scissor(r *gpu.Rect)       { c.record("Scissor", r) }
func (c *Context) ClearColor(col mgl32.Vec4) { c.record("ClearColor", col) }
func (c *Context) Clear(color, depth bool)   { c.record("Clear", color, depth) }

func (c *Context) DrawArrays(mode gpu.Topology, first, count int) {
	c.record("DrawArrays", mode, first, count)
}

func (c *Context) DrawArraysInstanced(mode gpu.Topology, first, count, instances int) {
	c.record("DrawArraysInstanced", mode, first, count, instances)
}

func (c *Context) DrawElements(mode gpu.Topology, count int, typ gpu.ElementType, offset int) {
	c.record("DrawElements", mode, count, typ, offset)
}

func (c *Context) DrawElementsInstanced(mode gpu.Topology, count int, typ gpu.ElementType, offset, instances int) {
	c.record("DrawElementsInstanced", mode, count, typ, offset, instances)
}

// Draws counts every draw call regardless of kind.
func (c *Context) Draws() int {
	return c.counts["DrawArrays"] + c.counts["DrawArraysInstanced"] + c.counts["DrawElements"] + c.counts["DrawElementsInstanced"]
}

// Last returns the most recent call with the given name.
func (c *Context) Last(name string) (Call, bool) {
	for i := len(c.Calls) - 1; i >= 0; i-- {
		if c.Calls[i].Name == name {
			return c.Calls[i], true
		}
	}
	return Call{}, false
}
