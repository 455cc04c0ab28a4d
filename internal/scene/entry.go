package scene

import (
	"scenegl/internal/geometry"
	"scenegl/internal/graphics"

	"github.com/go-gl/mathgl/mgl32"
)

// Entry pairs a material with a geometry at one point in the tree. Params
// override scene-level parameters of the same name.
type Entry struct {
	Material *graphics.Material
	Geometry *geometry.Geometry
	Params   graphics.Params

	// Inherited holds the parameter tables of the node and its ancestors as
	// of the last assembly. Params take precedence over it.
	Inherited graphics.Params

	node *Node
}

func (e *Entry) Node() *Node { return e.node }

// Drawable reports whether the entry has a material and vertices to draw.
func (e *Entry) Drawable() bool {
	return e.Material != nil && e.Geometry != nil &&
		e.Geometry.VertexCount() > 0 && e.Geometry.Count() > 0
}

// Overrides merges inherited and own parameters.
func (e *Entry) Overrides() graphics.Params {
	return graphics.MergeParams(e.Inherited, e.Params)
}

// Light contributes color and intensity to the scene and optionally renders
// a depth-only shadow pass into ShadowTarget.
type Light struct {
	Color       mgl32.Vec3
	Intensity   float32
	Directional bool

	CastShadow     bool
	ShadowTarget   *graphics.RenderTarget
	ShadowMaterial *graphics.Material
	// ShadowProjection maps light view space to clip space.
	ShadowProjection mgl32.Mat4
}

func NewPointLight(color mgl32.Vec3, intensity float32) *Light {
	return &Light{
		Color:            color,
		Intensity:        intensity,
		ShadowProjection: mgl32.Perspective(mgl32.DegToRad(90), 1, 0.1, 100),
	}
}

func NewDirectionalLight(color mgl32.Vec3, intensity float32) *Light {
	return &Light{
		Color:            color,
		Intensity:        intensity,
		Directional:      true,
		ShadowProjection: mgl32.Ortho(-10, 10, -10, 10, 0.1, 100),
	}
}

// EnableShadows makes the light render a depth pass with m into a size x size
// target.
func (l *Light) EnableShadows(m *graphics.Material, size int) {
	l.CastShadow = true
	l.ShadowMaterial = m
	if l.ShadowTarget == nil {
		l.ShadowTarget = graphics.NewRenderTarget(size, size)
	} else {
		l.ShadowTarget.Resize(size, size)
	}
}
