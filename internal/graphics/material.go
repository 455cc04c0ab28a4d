package graphics

import (
	"scenegl/internal/gpu"
	"scenegl/internal/resource"
)

// Material pairs a vertex and fragment shader source with static pipeline
// state and default shader parameters. Materials are shared by reference
// between render entries.
type Material struct {
	resource.Object

	Name   string
	Cull   gpu.CullMode
	Depth  gpu.DepthFunc
	Fog    bool
	Params Params

	vertex   string
	fragment string
}

func NewMaterial(vertex, fragment string) *Material {
	return &Material{
		Object:   resource.NewObject(),
		Cull:     gpu.CullBack,
		Depth:    gpu.DepthLEqual,
		Params:   Params{},
		vertex:   vertex,
		fragment: fragment,
	}
}

func (m *Material) Sources() (vertex, fragment string) {
	return m.vertex, m.fragment
}

// SetSources replaces the shader sources; the program is rebuilt on next use.
func (m *Material) SetSources(vertex, fragment string) {
	m.vertex, m.fragment = vertex, fragment
	m.MarkDirty()
}

// Textures lists the textures referenced by the material's parameters.
func (m *Material) Textures() []*Texture {
	return m.Params.Textures()
}
