package graphics

import (
	"scenegl/internal/gpu"
	"scenegl/internal/resource"
)

// RenderTarget renders into a color texture with an attached depth buffer.
type RenderTarget struct {
	resource.Object

	Color *Texture
}

func NewRenderTarget(width, height int) *RenderTarget {
	color := NewTexture(width, height, gpu.RGBA8)
	color.Min, color.Mag = gpu.Linear, gpu.Linear
	return &RenderTarget{
		Object: resource.NewObject(),
		Color:  color,
	}
}

func (rt *RenderTarget) Size() (width, height int) { return rt.Color.Size() }

// Resize resizes the color texture; the depth attachment follows on the
// next bind.
func (rt *RenderTarget) Resize(width, height int) {
	w, h := rt.Size()
	if w == width && h == height {
		return
	}
	rt.Color.Resize(width, height)
	rt.MarkDirty()
}
