package scene

import (
	"scenegl/internal/graphics"

	"github.com/go-gl/mathgl/mgl32"
)

// Parameter names written by the assembler.
const (
	ParamWorld               = "world"
	ParamNormalMatrix        = "normalMatrix"
	ParamView                = "view"
	ParamProjection          = "projection"
	ParamViewProjection      = "viewProjection"
	ParamCameraPosition      = "cameraPosition"
	ParamFogDistance         = "fogDistance"
	ParamBackground          = "background"
	ParamLightColor          = "lightColor"
	ParamLightIntensity      = "lightIntensity"
	ParamLightPosition       = "lightPosition"
	ParamLightDirection      = "lightDirection"
	ParamLightViewProjection = "lightViewProjection"
	ParamShadowMap           = "shadowMap"
)

// Scene is the flattened, per-frame view of a graph: draw entries in
// traversal order, the distinct materials they use and the merged
// scene-level parameters.
type Scene struct {
	Entries    []*Entry
	Materials  []*graphics.Material
	Params     graphics.Params
	Target     *graphics.RenderTarget
	Camera     *graphics.Camera
	Background mgl32.Vec4
	// Shadows are depth-only sub-scenes rendered before this one.
	Shadows []*Scene
}

func (s *Scene) addEntry(e *Entry) {
	s.Entries = append(s.Entries, e)
	for _, m := range s.Materials {
		if m == e.Material {
			return
		}
	}
	s.Materials = append(s.Materials, e.Material)
}

// Assembler builds scenes. The zero value assembles shadow passes every frame.
type Assembler struct {
	// Globals are the lowest-precedence scene parameters.
	Globals graphics.Params
	// DisableShadows skips shadow passes entirely.
	DisableShadows bool
	// ShadowInterval re-walks shadow passes every n frames; 0 and 1 mean
	// every frame.
	ShadowInterval int

	frame int
}

// Assemble flattens the graph below root using a default assembler.
func Assemble(root *Node, target *graphics.RenderTarget) *Scene {
	var a Assembler
	return a.Assemble(root, target)
}

type shadowCaster struct {
	light *Light
	world mgl32.Mat4
}

// Assemble walks root depth first, parent before children. Traversal order
// is draw order.
func (a *Assembler) Assemble(root *Node, target *graphics.RenderTarget) *Scene {
	sc := &Scene{
		Params:     a.Globals.Clone(),
		Target:     target,
		Background: mgl32.Vec4{0, 0, 0, 1},
	}
	var casters []shadowCaster
	contrib := graphics.Params{}

	a.walk(root, mgl32.Ident4(), nil, func(n *Node, world mgl32.Mat4, inherited graphics.Params) {
		switch n.kind {
		case KindMesh:
			e := n.entry
			if !e.Drawable() {
				return
			}
			e.Params[ParamWorld] = world
			e.Params[ParamNormalMatrix] = world.Mat3().Inv().Transpose()
			e.Inherited = inherited
			sc.addEntry(e)
		case KindCamera:
			cameraParams(n, world, contrib)
			sc.Camera = n.camera
			sc.Background = n.camera.Background
		case KindLight:
			lightParams(n, world, contrib)
			if l := n.light; l.CastShadow && l.ShadowTarget != nil && l.ShadowMaterial != nil {
				casters = append(casters, shadowCaster{light: l, world: world})
			}
		}
	})

	a.frame++
	if !a.DisableShadows && (a.ShadowInterval <= 1 || (a.frame-1)%a.ShadowInterval == 0) {
		for _, c := range casters {
			sc.Shadows = append(sc.Shadows, a.shadowScene(root, c))
		}
	}
	for _, c := range casters {
		contrib[ParamLightViewProjection] = c.light.ShadowProjection.Mul4(c.world.Inv())
		contrib[ParamShadowMap] = c.light.ShadowTarget.Color
	}

	sc.Params.Merge(contrib)
	return sc
}

// walk hands every visible node to visit with its transform relative to the
// walked root, whose parent counts as identity, and the parameter tables
// inherited from it and its ancestors.
func (a *Assembler) walk(n *Node, parentWorld mgl32.Mat4, inherited graphics.Params, visit func(*Node, mgl32.Mat4, graphics.Params)) {
	if !n.Visible {
		return
	}
	world := parentWorld.Mul4(n.local)
	if len(n.Params) > 0 {
		inherited = graphics.MergeParams(inherited, n.Params)
	}
	visit(n, world, inherited)
	for _, c := range n.children {
		a.walk(c, world, inherited, visit)
	}
}

// shadowScene re-walks the graph drawing every drawable entry with the
// light's depth material.
func (a *Assembler) shadowScene(root *Node, c shadowCaster) *Scene {
	view := c.world.Inv()
	sc := &Scene{
		Params: graphics.Params{
			ParamView:                view,
			ParamProjection:          c.light.ShadowProjection,
			ParamViewProjection:      c.light.ShadowProjection.Mul4(view),
			ParamLightViewProjection: c.light.ShadowProjection.Mul4(view),
		},
		Target:     c.light.ShadowTarget,
		Background: mgl32.Vec4{1, 1, 1, 1},
	}
	a.walk(root, mgl32.Ident4(), nil, func(n *Node, world mgl32.Mat4, inherited graphics.Params) {
		if n.kind != KindMesh || !n.entry.Drawable() {
			return
		}
		sc.addEntry(&Entry{
			Material:  c.light.ShadowMaterial,
			Geometry:  n.entry.Geometry,
			Params:    graphics.Params{ParamWorld: world},
			Inherited: inherited,
			node:      n,
		})
	})
	return sc
}

func cameraParams(n *Node, world mgl32.Mat4, p graphics.Params) {
	c := n.camera
	view := world.Inv()
	proj := c.GetProjectionMatrix()
	p[ParamView] = view
	p[ParamProjection] = proj
	p[ParamViewProjection] = proj.Mul4(view)
	p[ParamCameraPosition] = world.Col(3).Vec3()
	p[ParamFogDistance] = c.FogDistance
	p[ParamBackground] = c.Background
}

func lightParams(n *Node, world mgl32.Mat4, p graphics.Params) {
	l := n.light
	p[ParamLightColor] = l.Color
	p[ParamLightIntensity] = l.Intensity
	p[ParamLightPosition] = world.Col(3).Vec3()
	p[ParamLightDirection] = world.Col(2).Vec3().Mul(-1).Normalize()
}
