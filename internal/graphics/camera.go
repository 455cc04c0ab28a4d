package graphics

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Camera holds projection settings plus the frame-wide values a camera
// contributes to a scene: background color and fog distance.
type Camera struct {
	AspectRatio float32
	FOV         float32
	NearPlane   float32
	FarPlane    float32

	// Ortho switches to an orthographic projection of OrthoHeight world
	// units vertically.
	Ortho       bool
	OrthoHeight float32

	Background  mgl32.Vec4
	FogDistance float32
}

func NewCamera(width, height int) *Camera {
	return &Camera{
		AspectRatio: float32(width) / float32(height),
		FOV:         60.0,
		NearPlane:   0.1,
		FarPlane:    1000.0,
		OrthoHeight: 2,
		Background:  mgl32.Vec4{0, 0, 0, 1},
	}
}

func (c *Camera) SetViewport(width, height int) {
	if height == 0 {
		return
	}
	c.AspectRatio = float32(width) / float32(height)
}

func (c *Camera) GetProjectionMatrix() mgl32.Mat4 {
	if c.Ortho {
		h := c.OrthoHeight / 2
		w := h * c.AspectRatio
		return mgl32.Ortho(-w, w, -h, h, c.NearPlane, c.FarPlane)
	}
	return mgl32.Perspective(mgl32.DegToRad(c.FOV), c.AspectRatio, c.NearPlane, c.FarPlane)
}
