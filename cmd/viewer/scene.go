package main

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"scenegl/internal/config"
	"scenegl/internal/geometry"
	"scenegl/internal/gpu"
	"scenegl/internal/graphics"
	"scenegl/internal/scene"
)

// demo is the viewer's scene: a spinning box on a ground plane lit by a
// shadow casting light, a monitor quad showing the box through a second
// camera, and a text label.
type demo struct {
	root      *scene.Node
	box       *scene.Node
	camera    *graphics.Camera
	cameraPos *scene.Node

	// inner is rendered into screen before the main pass. Its box shares
	// geometry and material with the main box.
	inner    *scene.Node
	innerBox *scene.Node
	screen   *graphics.RenderTarget
}

func checker(size int) *graphics.Texture {
	pix := make([]byte, size*size*4)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			v := byte(200)
			if (x/8+y/8)%2 == 0 {
				v = 90
			}
			i := (y*size + x) * 4
			pix[i], pix[i+1], pix[i+2], pix[i+3] = v, v, v, 255
		}
	}
	tex := graphics.NewTexture(size, size, gpu.RGBA8)
	tex.Wrap = gpu.Repeat
	_ = tex.SetPixels(0, pix)
	return tex
}

// buildDemo assembles the demo graph. A nil lit material selects the
// built-in shaders.
func buildDemo(width, height int, lit *graphics.Material, label *graphics.Texture) *demo {
	if lit == nil {
		lit = graphics.NewMaterial(litVertex, litFragment)
		lit.Name = "lit"
	}
	lit.Fog = true
	lit.Params[scene.ParamShadowMap] = graphics.NewTexture(1, 1, gpu.RGBA8)
	lit.Params["tint"] = mgl32.Vec4{1, 1, 1, 1}
	lit.Params["albedo"] = checker(64)
	lit.Params[scene.ParamLightViewProjection] = mgl32.Ident4()

	depth := graphics.NewMaterial(depthVertex, depthFragment)
	depth.Name = "depth"

	root := scene.NewNode("root")

	cam := graphics.NewCamera(width, height)
	cam.Background = config.GetClearColor()
	cam.FogDistance = 40
	camNode := scene.NewCamera("camera", cam)
	_ = root.AddChild(camNode)

	sun := scene.NewDirectionalLight(mgl32.Vec3{1, 0.95, 0.9}, 0.9)
	// config.GetShadows toggles the pass; the target stays attached.
	sun.EnableShadows(depth, config.GetShadowMapSize())
	sunNode := scene.NewLight("sun", sun)
	sunNode.SetLocal(mgl32.LookAtV(mgl32.Vec3{6, 10, 4}, mgl32.Vec3{}, mgl32.Vec3{0, 1, 0}).Inv())
	_ = root.AddChild(sunNode)

	ground := scene.NewMesh("ground", geometry.Plane(20, 20), lit)
	ground.Entry().Params["tint"] = mgl32.Vec4{0.5, 0.8, 0.5, 1}
	_ = root.AddChild(ground)

	box := scene.NewMesh("box", geometry.Box(1, 1, 1), lit)
	box.SetPosition(mgl32.Vec3{0, 0.5, 0})
	_ = root.AddChild(box)

	// The monitor shows the box from above through its own camera.
	screen := graphics.NewRenderTarget(256, 256)
	inner := scene.NewNode("monitor-root")
	innerCam := graphics.NewCamera(256, 256)
	innerCam.Background = mgl32.Vec4{0.1, 0.1, 0.15, 1}
	innerCamNode := scene.NewCamera("monitor-camera", innerCam)
	innerCamNode.SetLocal(mgl32.LookAtV(mgl32.Vec3{0, 5, 0.01}, mgl32.Vec3{}, mgl32.Vec3{0, 1, 0}).Inv())
	_ = inner.AddChild(innerCamNode)
	fill := scene.NewLight("fill", scene.NewDirectionalLight(mgl32.Vec3{1, 1, 1}, 1))
	fill.SetLocal(sunNode.Local())
	_ = inner.AddChild(fill)
	innerBox := scene.NewMesh("box", box.Entry().Geometry, lit)
	innerBox.SetPosition(box.Position())
	_ = inner.AddChild(innerBox)

	monitor := scene.NewMesh("monitor", geometry.Quad(2, 2), lit)
	monitor.SetPosition(mgl32.Vec3{-2.5, 1.2, -1})
	monitor.Entry().Params["albedo"] = screen
	_ = root.AddChild(monitor)

	if label != nil {
		mat := graphics.NewMaterial(labelVertex, labelFragment)
		mat.Name = "label"
		mat.Cull = gpu.CullOff
		mat.Params["albedo"] = label
		mat.Params["tint"] = mgl32.Vec4{1, 0.9, 0.3, 1}
		w, h := label.Size()
		node := scene.NewMesh("label", geometry.Quad(float32(w)/float32(h)*0.4, 0.4), mat)
		node.SetPosition(mgl32.Vec3{0, 2, 0})
		_ = root.AddChild(node)
	}

	d := &demo{root: root, box: box, camera: cam, cameraPos: camNode, inner: inner, innerBox: innerBox, screen: screen}
	d.orbit(0.6, 7)
	return d
}

// orbit places the main camera on a circle around the box at the given
// angle and distance, looking at its center.
func (d *demo) orbit(angle, distance float32) {
	eye := mgl32.Vec3{
		distance * float32(math.Sin(float64(angle))),
		distance * 0.45,
		distance * float32(math.Cos(float64(angle))),
	}
	d.cameraPos.SetLocal(mgl32.LookAtV(eye, mgl32.Vec3{0, 0.5, 0}, mgl32.Vec3{0, 1, 0}).Inv())
}
