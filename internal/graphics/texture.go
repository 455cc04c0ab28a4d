package graphics

import (
	"fmt"

	"scenegl/internal/gpu"
	"scenegl/internal/resource"
)

// Texture is CPU-side image data. Nil pixels allocate storage without
// content, which is how render target color textures start.
type Texture struct {
	resource.Object

	Target gpu.TextureTarget
	Format gpu.TextureFormat
	Min    gpu.Filter
	Mag    gpu.Filter
	Wrap   gpu.Wrap

	width  int
	height int
	faces  [][]byte
}

func NewTexture(width, height int, format gpu.TextureFormat) *Texture {
	return &Texture{
		Object: resource.NewObject(),
		Target: gpu.Texture2D,
		Format: format,
		width:  width,
		height: height,
		faces:  make([][]byte, 1),
	}
}

// NewCubeTexture creates a cube map with six square faces.
func NewCubeTexture(size int, format gpu.TextureFormat) *Texture {
	t := NewTexture(size, size, format)
	t.Target = gpu.TextureCube
	t.faces = make([][]byte, 6)
	return t
}

func (t *Texture) Size() (width, height int) { return t.width, t.height }

func (t *Texture) Faces() int { return len(t.faces) }

func (t *Texture) Pixels(face int) []byte { return t.faces[face] }

// SetPixels replaces the content of one face.
func (t *Texture) SetPixels(face int, pixels []byte) error {
	if face < 0 || face >= len(t.faces) {
		return fmt.Errorf("texture face %d out of range", face)
	}
	if want := t.width * t.height * t.Format.Channels(); pixels != nil && len(pixels) != want {
		return fmt.Errorf("texture face %d: got %d bytes, want %d", face, len(pixels), want)
	}
	t.faces[face] = pixels
	t.MarkDirty()
	return nil
}

// Resize changes the dimensions and drops the old content.
func (t *Texture) Resize(width, height int) {
	if width == t.width && height == t.height {
		return
	}
	t.width, t.height = width, height
	for i := range t.faces {
		t.faces[i] = nil
	}
	t.MarkDirty()
}
