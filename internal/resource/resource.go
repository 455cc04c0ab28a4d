package resource

import "github.com/google/uuid"

// ID is the stable identity of a logical (CPU-side) object. GPU caches are
// keyed by it, so it must never change for the lifetime of the object.
type ID string

func NewID() ID {
	return ID(uuid.NewString())
}

// Kind is the closed set of GPU-backed resource categories.
type Kind int

const (
	KindBuffer Kind = iota
	KindProgram
	KindTexture
	KindRenderTarget
	KindVertexBinding
)

func (k Kind) String() string {
	switch k {
	case KindBuffer:
		return "buffer"
	case KindProgram:
		return "program"
	case KindTexture:
		return "texture"
	case KindRenderTarget:
		return "render-target"
	case KindVertexBinding:
		return "vertex-binding"
	}
	return "unknown"
}

// Object carries identity and the dirty flag shared by every logical object.
// New objects start dirty so the first resolution uploads their content.
type Object struct {
	id    ID
	dirty bool
}

func NewObject() Object {
	return Object{id: NewID(), dirty: true}
}

func (o *Object) ID() ID { return o.id }

// Dirty reports whether the GPU copy of the object is stale.
func (o *Object) Dirty() bool { return o.dirty }

func (o *Object) MarkDirty() { o.dirty = true }

func (o *Object) ClearDirty() { o.dirty = false }
