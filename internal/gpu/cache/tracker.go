package cache

import (
	"scenegl/internal/geometry"
	"scenegl/internal/graphics"
	"scenegl/internal/resource"
	"scenegl/internal/scene"
)

// Tracker counts scene references to cached resources. Removing the last
// reference schedules an eviction that Flush carries out, so a subtree that
// is detached and re-inserted before the next frame keeps its GPU objects.
type Tracker struct {
	cache   *Cache
	refs    map[resource.ID]int
	objects map[resource.ID]any
	pending map[resource.ID]struct{}
}

// NewTracker observes root and counts the references already below it.
func NewTracker(c *Cache, root *scene.Node) *Tracker {
	t := &Tracker{
		cache:   c,
		refs:    map[resource.ID]int{},
		objects: map[resource.ID]any{},
		pending: map[resource.ID]struct{}{},
	}
	t.visit(root, 1)
	root.AddObserver(t)
	return t
}

func (t *Tracker) ChildInserted(_, child *scene.Node, _ int) { t.visit(child, 1) }

func (t *Tracker) ChildRemoved(_, child *scene.Node, _ int) { t.visit(child, -1) }

// Refs returns the reference count of a resource.
func (t *Tracker) Refs(id resource.ID) int { return t.refs[id] }

// Pending counts resources waiting for Flush.
func (t *Tracker) Pending() int { return len(t.pending) }

// Flush evicts resources that are still unreferenced.
func (t *Tracker) Flush() {
	for id := range t.pending {
		delete(t.pending, id)
		if t.refs[id] > 0 {
			continue
		}
		switch o := t.objects[id].(type) {
		case *graphics.Material:
			t.cache.EvictMaterial(o)
		case *geometry.Geometry:
			t.cache.EvictGeometry(o)
		case *graphics.Texture:
			t.cache.EvictTexture(o)
		case *graphics.RenderTarget:
			t.cache.EvictRenderTarget(o)
		}
		delete(t.objects, id)
		delete(t.refs, id)
	}
}

func (t *Tracker) visit(n *scene.Node, delta int) {
	n.Walk(func(n *scene.Node) bool {
		for _, tex := range n.Params.Textures() {
			t.ref(tex.ID(), tex, delta)
		}
		if e := n.Entry(); e != nil {
			t.refMaterial(e.Material, delta)
			if e.Geometry != nil {
				t.ref(e.Geometry.ID(), e.Geometry, delta)
			}
			for _, tex := range e.Params.Textures() {
				t.ref(tex.ID(), tex, delta)
			}
		}
		if l := n.Light(); l != nil && l.CastShadow {
			t.refMaterial(l.ShadowMaterial, delta)
			if rt := l.ShadowTarget; rt != nil {
				t.ref(rt.ID(), rt, delta)
				t.ref(rt.Color.ID(), rt.Color, delta)
			}
		}
		return true
	})
}

func (t *Tracker) refMaterial(m *graphics.Material, delta int) {
	if m == nil {
		return
	}
	t.ref(m.ID(), m, delta)
	for _, tex := range m.Textures() {
		t.ref(tex.ID(), tex, delta)
	}
}

func (t *Tracker) ref(id resource.ID, o any, delta int) {
	t.objects[id] = o
	t.refs[id] += delta
	if t.refs[id] <= 0 {
		t.refs[id] = 0
		t.pending[id] = struct{}{}
	}
}
