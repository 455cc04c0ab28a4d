// Package state tracks the pipeline state last issued to a graphics context
// and drops transitions to the value already in effect.
package state

import (
	"scenegl/internal/gpu"
	"scenegl/internal/resource"
)

// slot holds the current value of one state category. An unset slot always
// transitions, so the first frame performs real calls and forgotten handles
// are never skipped by a stale comparison.
type slot[T comparable] struct {
	v   T
	set bool
}

func (s *slot[T]) change(v T) bool {
	if s.set && s.v == v {
		return false
	}
	s.v, s.set = v, true
	return true
}

func (s *slot[T]) forget(v T) {
	if s.set && s.v == v {
		*s = slot[T]{}
	}
}

func (s *slot[T]) get() (T, bool) { return s.v, s.set }

type textureBinding struct {
	target gpu.TextureTarget
	tex    gpu.Handle
}

type scissor struct {
	on bool
	r  gpu.Rect
}

// Tracker is the single writer of bound state on its context.
type Tracker struct {
	ctx gpu.Context

	program     slot[gpu.Handle]
	buffers     [2]slot[gpu.Handle]
	vertexArray slot[gpu.Handle]
	activeUnit  slot[int]
	units       []slot[textureBinding]
	framebuffer slot[gpu.Handle]
	cull        slot[gpu.CullMode]
	depth       slot[gpu.DepthFunc]
	viewport    slot[gpu.Rect]
	scissor     slot[scissor]

	transitions int
	skipped     int
}

// New creates a tracker for ctx with the given number of texture units.
func New(ctx gpu.Context, units int) *Tracker {
	return &Tracker{
		ctx:   ctx,
		units: make([]slot[textureBinding], units),
	}
}

func (t *Tracker) count(changed bool) bool {
	if changed {
		t.transitions++
	} else {
		t.skipped++
	}
	return changed
}

// Units is the number of texture units tracked.
func (t *Tracker) Units() int { return len(t.units) }

func (t *Tracker) UseProgram(h gpu.Handle) bool {
	if !t.count(t.program.change(h)) {
		return false
	}
	t.ctx.UseProgram(h)
	return true
}

func (t *Tracker) BindBuffer(target gpu.BufferTarget, h gpu.Handle) bool {
	if !t.count(t.buffers[target].change(h)) {
		return false
	}
	t.ctx.BindBuffer(target, h)
	return true
}

// BindVertexArray binds a vertex-binding set. The element buffer binding is
// part of vertex array state, so it becomes unknown.
func (t *Tracker) BindVertexArray(h gpu.Handle) bool {
	if !t.count(t.vertexArray.change(h)) {
		return false
	}
	t.ctx.BindVertexArray(h)
	t.buffers[gpu.ElementArrayBuffer] = slot[gpu.Handle]{}
	return true
}

// BindTexture binds tex to a texture unit, switching the active unit only
// when a bind is needed.
func (t *Tracker) BindTexture(unit int, target gpu.TextureTarget, tex gpu.Handle) bool {
	if !t.count(t.units[unit].change(textureBinding{target, tex})) {
		return false
	}
	t.SelectUnit(unit)
	t.ctx.BindTexture(target, tex)
	return true
}

// SelectUnit makes unit the target of subsequent texture calls.
func (t *Tracker) SelectUnit(unit int) {
	if t.activeUnit.change(unit) {
		t.ctx.ActiveTexture(unit)
	}
}

func (t *Tracker) BindFramebuffer(h gpu.Handle) bool {
	if !t.count(t.framebuffer.change(h)) {
		return false
	}
	t.ctx.BindFramebuffer(h)
	return true
}

// SetCull sets the culled faces; CullOff disables culling.
func (t *Tracker) SetCull(mode gpu.CullMode) bool {
	if !t.count(t.cull.change(mode)) {
		return false
	}
	t.ctx.SetCull(mode)
	return true
}

// SetDepth sets the depth comparison; DepthOff disables the depth test.
func (t *Tracker) SetDepth(fn gpu.DepthFunc) bool {
	if !t.count(t.depth.change(fn)) {
		return false
	}
	t.ctx.SetDepth(fn)
	return true
}

func (t *Tracker) SetViewport(r gpu.Rect) bool {
	if !t.count(t.viewport.change(r)) {
		return false
	}
	t.ctx.Viewport(r)
	return true
}

// SetScissor enables the scissor test on r, or disables it for nil.
func (t *Tracker) SetScissor(r *gpu.Rect) bool {
	s := scissor{on: r != nil}
	if r != nil {
		s.r = *r
	}
	if !t.count(t.scissor.change(s)) {
		return false
	}
	t.ctx.Scissor(r)
	return true
}

// Forget clears every slot of the kind's category currently holding h. The
// cache calls it before destroying a handle.
func (t *Tracker) Forget(kind resource.Kind, h gpu.Handle) {
	switch kind {
	case resource.KindBuffer:
		t.buffers[gpu.ArrayBuffer].forget(h)
		t.buffers[gpu.ElementArrayBuffer].forget(h)
	case resource.KindProgram:
		t.program.forget(h)
	case resource.KindTexture:
		for i := range t.units {
			if b, ok := t.units[i].get(); ok && b.tex == h {
				t.units[i] = slot[textureBinding]{}
			}
		}
	case resource.KindRenderTarget:
		t.framebuffer.forget(h)
	case resource.KindVertexBinding:
		if t.vertexArray.set && t.vertexArray.v == h {
			t.vertexArray = slot[gpu.Handle]{}
			t.buffers[gpu.ElementArrayBuffer] = slot[gpu.Handle]{}
		}
	}
}

// Reset marks every category unset, e.g. after foreign code touched the
// context.
func (t *Tracker) Reset() {
	units := t.units
	for i := range units {
		units[i] = slot[textureBinding]{}
	}
	*t = Tracker{ctx: t.ctx, units: units, transitions: t.transitions, skipped: t.skipped}
}

// Bound reports the handle currently bound for a category. Texture units are
// reported through TextureAt.
func (t *Tracker) Bound(kind resource.Kind) (gpu.Handle, bool) {
	switch kind {
	case resource.KindBuffer:
		return t.buffers[gpu.ArrayBuffer].get()
	case resource.KindProgram:
		return t.program.get()
	case resource.KindRenderTarget:
		return t.framebuffer.get()
	case resource.KindVertexBinding:
		return t.vertexArray.get()
	}
	return gpu.NoHandle, false
}

func (t *Tracker) ElementBuffer() (gpu.Handle, bool) {
	return t.buffers[gpu.ElementArrayBuffer].get()
}

func (t *Tracker) TextureAt(unit int) (gpu.Handle, bool) {
	b, ok := t.units[unit].get()
	return b.tex, ok
}

func (t *Tracker) Viewport() (gpu.Rect, bool) { return t.viewport.get() }

// Transitions counts state changes issued to the context.
func (t *Tracker) Transitions() int { return t.transitions }

// Skipped counts requests that matched the current state.
func (t *Tracker) Skipped() int { return t.skipped }

func (t *Tracker) ResetCounters() {
	t.transitions, t.skipped = 0, 0
}
