package scene

import (
	"testing"

	"scenegl/internal/buffer"
	"scenegl/internal/geometry"
	"scenegl/internal/gpu"
	"scenegl/internal/graphics"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const passVert = `in vec3 position;
uniform mat4 world;
uniform mat4 projection;
void main() { gl_Position = projection * world * vec4(position, 1.0); }`

const passFrag = `uniform vec4 background;
out vec4 color;
void main() { color = background; }`

func TestAssembleBoxUnderCamera(t *testing.T) {
	cam := graphics.NewCamera(1, 1)
	cam.Background = mgl32.Vec4{0.2, 0.3, 0.4, 1}
	root := NewCamera("camera", cam)
	box := NewMesh("box", geometry.Box(1, 1, 1), graphics.NewMaterial(passVert, passFrag))
	require.NoError(t, root.AddChild(box))

	sc := Assemble(root, nil)

	require.Len(t, sc.Entries, 1)
	e := sc.Entries[0]
	assert.Same(t, box.Entry(), e)
	assert.Equal(t, 36, e.Geometry.Count())
	assert.Equal(t, mgl32.Ident4(), e.Params[ParamWorld])
	assert.Equal(t, cam.GetProjectionMatrix(), sc.Params[ParamProjection])
	assert.Equal(t, cam.Background, sc.Params[ParamBackground])
	assert.Equal(t, cam.Background, sc.Background)
	assert.Len(t, sc.Materials, 1)
	assert.Same(t, cam, sc.Camera)
}

func TestAssembleExcludesEmptyGeometry(t *testing.T) {
	mat := graphics.NewMaterial(passVert, passFrag)
	root := NewNode("root")
	empty := geometry.New(buffer.NewComposite(gpu.Float32, gpu.StaticDraw), nil, gpu.Triangles)
	require.NoError(t, root.AddChild(NewMesh("empty", empty, mat)))
	require.NoError(t, root.AddChild(NewMesh("nomat", geometry.Box(1, 1, 1), nil)))
	require.NoError(t, root.AddChild(NewMesh("box", geometry.Box(1, 1, 1), mat)))

	sc := Assemble(root, nil)
	require.Len(t, sc.Entries, 1)
	assert.Equal(t, "box", sc.Entries[0].Node().Name)
}

func TestAssembleOrderAndMaterials(t *testing.T) {
	m1 := graphics.NewMaterial(passVert, passFrag)
	m2 := graphics.NewMaterial(passVert, passFrag)
	root := NewNode("root")
	a := NewMesh("a", geometry.Quad(1, 1), m1)
	a1 := NewMesh("a1", geometry.Quad(1, 1), m2)
	b := NewMesh("b", geometry.Quad(1, 1), m1)
	require.NoError(t, root.AddChild(a))
	require.NoError(t, a.AddChild(a1))
	require.NoError(t, root.AddChild(b))

	hidden := NewMesh("hidden", geometry.Quad(1, 1), m1)
	hidden.Visible = false
	require.NoError(t, root.AddChild(hidden))

	sc := Assemble(root, nil)
	var names []string
	for _, e := range sc.Entries {
		names = append(names, e.Node().Name)
	}
	assert.Equal(t, []string{"a", "a1", "b"}, names)
	assert.Equal(t, []*graphics.Material{m1, m2}, sc.Materials)
}

func TestAssembleWorldAndInheritedParams(t *testing.T) {
	root := NewNode("root")
	root.SetPosition(mgl32.Vec3{1, 0, 0})
	root.Params = graphics.Params{"tint": 1.0, "shade": 1.0}
	child := NewMesh("child", geometry.Quad(1, 1), graphics.NewMaterial(passVert, passFrag))
	child.SetPosition(mgl32.Vec3{0, 2, 0})
	child.Params = graphics.Params{"tint": 2.0}
	child.Entry().Params["shade"] = 3.0
	require.NoError(t, root.AddChild(child))

	sc := Assemble(root, nil)
	require.Len(t, sc.Entries, 1)
	world := sc.Entries[0].Params[ParamWorld].(mgl32.Mat4)
	assert.Equal(t, mgl32.Vec3{1, 2, 0}, world.Col(3).Vec3())

	over := sc.Entries[0].Overrides()
	assert.Equal(t, 2.0, over["tint"])
	assert.Equal(t, 3.0, over["shade"])
}

func TestAssembleSubtreeIgnoresParentTransform(t *testing.T) {
	outer := NewNode("outer")
	outer.SetPosition(mgl32.Vec3{10, 0, 0})
	inner := NewNode("inner")
	inner.SetPosition(mgl32.Vec3{0, 1, 0})
	mesh := NewMesh("mesh", geometry.Quad(1, 1), graphics.NewMaterial(passVert, passFrag))
	mesh.SetPosition(mgl32.Vec3{0, 0, 2})
	require.NoError(t, outer.AddChild(inner))
	require.NoError(t, inner.AddChild(mesh))

	sc := Assemble(inner, nil)
	require.Len(t, sc.Entries, 1)
	world := sc.Entries[0].Params[ParamWorld].(mgl32.Mat4)
	assert.Equal(t, mgl32.Vec3{0, 1, 2}, world.Col(3).Vec3())
	// The tree keeps its own transforms.
	assert.Equal(t, mgl32.Vec3{10, 1, 2}, mesh.World().Col(3).Vec3())
}

func TestAssembleGlobalsPrecedence(t *testing.T) {
	cam := graphics.NewCamera(1, 1)
	cam.FogDistance = 50
	root := NewCamera("camera", cam)
	a := Assembler{Globals: graphics.Params{ParamFogDistance: float32(10), "gamma": float32(2.2)}}

	sc := a.Assemble(root, nil)
	assert.Equal(t, float32(50), sc.Params[ParamFogDistance])
	assert.Equal(t, float32(2.2), sc.Params["gamma"])
}

func TestAssembleCameraView(t *testing.T) {
	root := NewNode("root")
	camNode := NewCamera("camera", graphics.NewCamera(1, 1))
	camNode.SetPosition(mgl32.Vec3{0, 0, 5})
	require.NoError(t, root.AddChild(camNode))

	sc := Assemble(root, nil)
	assert.Equal(t, mgl32.Vec3{0, 0, 5}, sc.Params[ParamCameraPosition])
	view := sc.Params[ParamView].(mgl32.Mat4)
	assert.True(t, view.ApproxEqual(mgl32.Translate3D(0, 0, -5)))
}

func shadowRig(t *testing.T) (*Node, *Light, *graphics.Material) {
	t.Helper()
	root := NewNode("root")
	depth := graphics.NewMaterial(passVert, "void main() {}")
	light := NewDirectionalLight(mgl32.Vec3{1, 1, 1}, 0.8)
	light.EnableShadows(depth, 256)
	lightNode := NewLight("sun", light)
	lightNode.SetPosition(mgl32.Vec3{0, 10, 0})
	require.NoError(t, root.AddChild(lightNode))
	mat := graphics.NewMaterial(passVert, passFrag)
	require.NoError(t, root.AddChild(NewMesh("a", geometry.Box(1, 1, 1), mat)))
	require.NoError(t, root.AddChild(NewMesh("b", geometry.Box(1, 1, 1), mat)))
	return root, light, depth
}

func TestAssembleShadowPass(t *testing.T) {
	root, light, depth := shadowRig(t)

	sc := Assemble(root, nil)
	assert.Equal(t, mgl32.Vec3{1, 1, 1}, sc.Params[ParamLightColor])
	assert.Equal(t, float32(0.8), sc.Params[ParamLightIntensity])
	assert.Same(t, light.ShadowTarget.Color, sc.Params[ParamShadowMap])

	require.Len(t, sc.Shadows, 1)
	sh := sc.Shadows[0]
	assert.Same(t, light.ShadowTarget, sh.Target)
	require.Len(t, sh.Entries, 2)
	for i, e := range sh.Entries {
		assert.Same(t, depth, e.Material)
		assert.Same(t, sc.Entries[i].Geometry, e.Geometry)
	}
	assert.Equal(t, []*graphics.Material{depth}, sh.Materials)
}

func TestAssembleShadowInterval(t *testing.T) {
	root, _, _ := shadowRig(t)
	a := Assembler{ShadowInterval: 3}

	var passes []int
	for i := 0; i < 6; i++ {
		passes = append(passes, len(a.Assemble(root, nil).Shadows))
	}
	assert.Equal(t, []int{1, 0, 0, 1, 0, 0}, passes)

	off := Assembler{DisableShadows: true}
	assert.Empty(t, off.Assemble(root, nil).Shadows)
}

func BenchmarkAssemble(b *testing.B) {
	root := NewNode("root")
	mat := graphics.NewMaterial(passVert, passFrag)
	g := geometry.Box(1, 1, 1)
	for i := 0; i < 1000; i++ {
		_ = root.AddChild(NewMesh("box", g, mat))
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Assemble(root, nil)
	}
}
