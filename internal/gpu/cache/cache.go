// Package cache maps logical resources to GPU handles. Entries are keyed by
// the logical object's identity, created on first use, refreshed when the
// object is dirty and destroyed only by explicit eviction.
package cache

import (
	"errors"
	"fmt"

	"scenegl/internal/buffer"
	"scenegl/internal/geometry"
	"scenegl/internal/gpu"
	"scenegl/internal/gpu/binding"
	"scenegl/internal/gpu/state"
	"scenegl/internal/graphics"
	"scenegl/internal/logging"
	"scenegl/internal/profiling"
	"scenegl/internal/resource"
)

// ErrProgramInvalid is returned for a material whose program never built.
// It stays invalid until its sources change or the material is evicted.
var ErrProgramInvalid = errors.New("cache: program is invalid")

type bufferEntry struct {
	handle   gpu.Handle
	target   gpu.BufferTarget
	capacity int
}

type shaderKey struct {
	material resource.ID
	stage    gpu.ShaderStage
}

type programEntry struct {
	program  *binding.Program
	vertex   gpu.Handle
	fragment gpu.Handle
}

type textureEntry struct {
	handle gpu.Handle
	target gpu.TextureTarget
	width  int
	height int
	format gpu.TextureFormat
}

type targetEntry struct {
	framebuffer gpu.Handle
	depth       gpu.Handle
	width       int
	height      int
	color       *graphics.Texture
}

type bindingKey struct {
	geometry resource.ID
	material resource.ID
}

type bindingEntry struct {
	vao     gpu.Handle
	layout  geometry.Layout
	program gpu.Handle
	buffers []resource.ID
}

// Cache owns every GPU object created for logical resources on one
// context. It is not safe for concurrent use.
type Cache struct {
	ctx     gpu.Context
	tracker *state.Tracker
	units   *binding.Units
	log     logging.Logger

	buffers  map[resource.ID]*bufferEntry
	shaders  map[shaderKey]gpu.Handle
	programs map[resource.ID]*programEntry
	failed   map[resource.ID]error
	textures map[resource.ID]*textureEntry
	targets  map[resource.ID]*targetEntry
	bindings map[bindingKey]*bindingEntry
}

func New(ctx gpu.Context, tracker *state.Tracker, units *binding.Units, log logging.Logger) *Cache {
	return &Cache{
		ctx:      ctx,
		tracker:  tracker,
		units:    units,
		log:      logging.OrNop(log),
		buffers:  map[resource.ID]*bufferEntry{},
		shaders:  map[shaderKey]gpu.Handle{},
		programs: map[resource.ID]*programEntry{},
		failed:   map[resource.ID]error{},
		textures: map[resource.ID]*textureEntry{},
		targets:  map[resource.ID]*targetEntry{},
		bindings: map[bindingKey]*bindingEntry{},
	}
}

// Len counts live entries of a kind.
func (c *Cache) Len(kind resource.Kind) int {
	switch kind {
	case resource.KindBuffer:
		return len(c.buffers)
	case resource.KindProgram:
		return len(c.programs)
	case resource.KindTexture:
		return len(c.textures)
	case resource.KindRenderTarget:
		return len(c.targets)
	case resource.KindVertexBinding:
		return len(c.bindings)
	}
	return 0
}

// Buffer resolves a vertex or index buffer, uploading its content when it is
// new or dirty. Content larger than the current storage reallocates it;
// anything else is written in place.
func (c *Cache) Buffer(src buffer.Source) (gpu.Handle, error) {
	id := src.ID()
	e, ok := c.buffers[id]
	if !ok {
		e = &bufferEntry{handle: c.ctx.CreateBuffer(), target: src.Target(), capacity: -1}
		c.buffers[id] = e
		c.log.Debugf("cache: created buffer %d for %s", e.handle, id)
	}
	if ok && !src.Dirty() {
		return e.handle, nil
	}

	if e.target == gpu.ElementArrayBuffer {
		// The element binding is vertex array state; keep it out of whatever
		// vertex array happens to be bound.
		c.tracker.BindVertexArray(gpu.NoHandle)
	}
	c.tracker.BindBuffer(e.target, e.handle)
	data := src.Bytes()
	if len(data) > e.capacity {
		if e.capacity >= 0 {
			c.log.Debugf("cache: reallocating buffer %d: %d -> %d bytes", e.handle, e.capacity, len(data))
		}
		c.ctx.BufferData(e.target, data, src.Usage())
		e.capacity = len(data)
	} else if len(data) > 0 {
		c.ctx.BufferSubData(e.target, 0, data)
	}
	profiling.Count("uploads", 1)
	src.ClearDirty()
	return e.handle, nil
}

// Geometry resolves every buffer of g.
func (c *Cache) Geometry(g *geometry.Geometry) error {
	for _, src := range geometrySources(g) {
		if _, err := c.Buffer(src); err != nil {
			return err
		}
	}
	return nil
}

func geometrySources(g *geometry.Geometry) []buffer.Source {
	var out []buffer.Source
	if g.Vertices != nil {
		out = append(out, g.Vertices)
	}
	if g.Index != nil {
		out = append(out, g.Index)
	}
	if g.Instances != nil {
		out = append(out, g.Instances)
	}
	return out
}

// Texture resolves a texture. Storage is reallocated when the size or format
// changed and updated in place otherwise.
func (c *Cache) Texture(t *graphics.Texture) (gpu.Handle, error) {
	id := t.ID()
	e, ok := c.textures[id]
	if ok && !t.Dirty() {
		return e.handle, nil
	}
	if !ok {
		e = &textureEntry{handle: c.ctx.CreateTexture(), target: t.Target}
		c.textures[id] = e
		c.log.Debugf("cache: created texture %d for %s", e.handle, id)
	}

	unit, err := c.units.Activate(e.target, e.handle)
	if err != nil {
		return gpu.NoHandle, fmt.Errorf("upload texture %s: %w", id, err)
	}
	c.tracker.SelectUnit(unit)
	w, h := t.Size()
	realloc := !ok || e.width != w || e.height != h || e.format != t.Format
	for face := 0; face < t.Faces(); face++ {
		px := t.Pixels(face)
		switch {
		case realloc:
			c.ctx.TexImage2D(e.target, face, w, h, t.Format, px)
		case px != nil:
			c.ctx.TexSubImage2D(e.target, face, w, h, t.Format, px)
		}
	}
	c.ctx.TexParameters(e.target, t.Min, t.Mag, t.Wrap)
	e.width, e.height, e.format = w, h, t.Format
	profiling.Count("uploads", 1)
	t.ClearDirty()
	return e.handle, nil
}

// RenderTarget resolves the framebuffer of rt, creating it with a depth
// attachment sized to the color texture. A resize reallocates the depth
// storage and the color texture but keeps the framebuffer object.
func (c *Cache) RenderTarget(rt *graphics.RenderTarget) (gpu.Handle, error) {
	id := rt.ID()
	color, err := c.Texture(rt.Color)
	if err != nil {
		return gpu.NoHandle, err
	}
	w, h := rt.Size()

	if e, ok := c.targets[id]; ok {
		if rt.Dirty() || e.width != w || e.height != h {
			c.tracker.BindFramebuffer(e.framebuffer)
			c.ctx.DepthStorage(e.depth, w, h)
			e.width, e.height = w, h
			c.log.Debugf("cache: resized render target %d to %dx%d", e.framebuffer, w, h)
		}
		rt.ClearDirty()
		return e.framebuffer, nil
	}

	fb := c.ctx.CreateFramebuffer()
	c.tracker.BindFramebuffer(fb)
	c.ctx.FramebufferTexture(color)
	depth := c.ctx.CreateRenderbuffer()
	c.ctx.DepthStorage(depth, w, h)
	c.ctx.FramebufferDepth(depth)
	if complete, status := c.ctx.FramebufferStatus(); !complete {
		c.tracker.Forget(resource.KindRenderTarget, fb)
		c.ctx.DeleteFramebuffer(fb)
		c.ctx.DeleteRenderbuffer(depth)
		return gpu.NoHandle, &gpu.IncompleteTargetError{Status: status}
	}
	c.targets[id] = &targetEntry{framebuffer: fb, depth: depth, width: w, height: h, color: rt.Color}
	c.log.Debugf("cache: created render target %d (%dx%d)", fb, w, h)
	rt.ClearDirty()
	return fb, nil
}

// VertexBinding resolves the vertex-binding set of g drawn with m and binds
// it. The set is rebuilt when the geometry layout or the program changed.
func (c *Cache) VertexBinding(g *geometry.Geometry, m *graphics.Material) (gpu.Handle, error) {
	prog, err := c.Program(m)
	if err != nil {
		return gpu.NoHandle, err
	}
	if err := c.Geometry(g); err != nil {
		return gpu.NoHandle, err
	}

	key := bindingKey{geometry: g.ID(), material: m.ID()}
	layout := g.Layout()
	if e, ok := c.bindings[key]; ok {
		if e.layout == layout && e.program == prog.Handle() {
			c.tracker.BindVertexArray(e.vao)
			return e.vao, nil
		}
		c.evictBinding(key)
	}

	vao := c.ctx.CreateVertexArray()
	c.tracker.BindVertexArray(vao)
	e := &bindingEntry{vao: vao, layout: layout, program: prog.Handle()}
	for _, src := range geometrySources(g) {
		e.buffers = append(e.buffers, src.ID())
	}
	c.bindings[key] = e

	for _, a := range prog.Attributes() {
		ch, comp := g.Channel(a.Name)
		if ch == nil {
			continue
		}
		_, err := prog.BindStream(a.Name, binding.Stream{
			Buffer:     c.buffers[comp.ID()].handle,
			Type:       comp.ElementType(),
			Components: ch.Step(),
			Stride:     ch.Stride(),
			Offset:     ch.Offset(),
			Divisor:    comp.Divisor(),
		})
		if err != nil {
			c.evictBinding(key)
			return gpu.NoHandle, err
		}
	}
	if g.Index != nil {
		c.tracker.BindBuffer(gpu.ElementArrayBuffer, c.buffers[g.Index.ID()].handle)
	}
	c.log.Debugf("cache: built vertex binding %d for %s/%s", vao, g.ID(), m.ID())
	return vao, nil
}

// Evict destroys the GPU objects of one logical resource. Handles are
// forgotten by the state tracker before deletion so a recycled handle is
// bound again.
func (c *Cache) Evict(kind resource.Kind, id resource.ID) {
	switch kind {
	case resource.KindBuffer:
		c.evictBuffer(id)
	case resource.KindProgram:
		c.evictProgram(id)
	case resource.KindTexture:
		c.evictTexture(id)
	case resource.KindRenderTarget:
		c.evictTarget(id)
	case resource.KindVertexBinding:
		for key := range c.bindings {
			if key.geometry == id || key.material == id {
				c.evictBinding(key)
			}
		}
	}
}

// EvictMaterial destroys the program of m and every vertex binding built
// for it. A failed program becomes resolvable again.
func (c *Cache) EvictMaterial(m *graphics.Material) {
	c.Evict(resource.KindProgram, m.ID())
}

// EvictGeometry destroys the buffers of g and its vertex bindings.
func (c *Cache) EvictGeometry(g *geometry.Geometry) {
	c.Evict(resource.KindVertexBinding, g.ID())
	for _, src := range geometrySources(g) {
		c.evictBuffer(src.ID())
	}
}

func (c *Cache) EvictTexture(t *graphics.Texture) {
	c.evictTexture(t.ID())
}

// EvictRenderTarget destroys the framebuffer, its depth buffer and its
// color texture.
func (c *Cache) EvictRenderTarget(rt *graphics.RenderTarget) {
	c.evictTarget(rt.ID())
	c.evictTexture(rt.Color.ID())
}

func (c *Cache) evictBuffer(id resource.ID) {
	e, ok := c.buffers[id]
	if !ok {
		return
	}
	for key, b := range c.bindings {
		for _, bid := range b.buffers {
			if bid == id {
				c.evictBinding(key)
				break
			}
		}
	}
	c.tracker.Forget(resource.KindBuffer, e.handle)
	c.ctx.DeleteBuffer(e.handle)
	delete(c.buffers, id)
	c.log.Debugf("cache: evicted buffer %d", e.handle)
}

func (c *Cache) evictProgram(id resource.ID) {
	delete(c.failed, id)
	c.Evict(resource.KindVertexBinding, id)
	e, ok := c.programs[id]
	if !ok {
		return
	}
	c.tracker.Forget(resource.KindProgram, e.program.Handle())
	c.ctx.DeleteProgram(e.program.Handle())
	c.deleteShader(shaderKey{id, gpu.VertexStage})
	c.deleteShader(shaderKey{id, gpu.FragmentStage})
	delete(c.programs, id)
	c.log.Debugf("cache: evicted program %d", e.program.Handle())
}

func (c *Cache) deleteShader(key shaderKey) {
	if h, ok := c.shaders[key]; ok {
		c.ctx.DeleteShader(h)
		delete(c.shaders, key)
	}
}

func (c *Cache) evictTexture(id resource.ID) {
	e, ok := c.textures[id]
	if !ok {
		return
	}
	c.units.Deactivate(e.handle)
	c.tracker.Forget(resource.KindTexture, e.handle)
	c.ctx.DeleteTexture(e.handle)
	delete(c.textures, id)
	c.log.Debugf("cache: evicted texture %d", e.handle)
}

func (c *Cache) evictTarget(id resource.ID) {
	e, ok := c.targets[id]
	if !ok {
		return
	}
	c.tracker.Forget(resource.KindRenderTarget, e.framebuffer)
	c.ctx.DeleteFramebuffer(e.framebuffer)
	c.ctx.DeleteRenderbuffer(e.depth)
	delete(c.targets, id)
	c.log.Debugf("cache: evicted render target %d", e.framebuffer)
}

func (c *Cache) evictBinding(key bindingKey) {
	e, ok := c.bindings[key]
	if !ok {
		return
	}
	c.tracker.Forget(resource.KindVertexBinding, e.vao)
	c.ctx.DeleteVertexArray(e.vao)
	delete(c.bindings, key)
}

// Destroy evicts everything.
func (c *Cache) Destroy() {
	for key := range c.bindings {
		c.evictBinding(key)
	}
	for id := range c.programs {
		c.evictProgram(id)
	}
	clear(c.failed)
	for id := range c.targets {
		c.evictTarget(id)
	}
	for id := range c.textures {
		c.evictTexture(id)
	}
	for id := range c.buffers {
		c.evictBuffer(id)
	}
}
