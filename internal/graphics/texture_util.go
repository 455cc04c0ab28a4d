package graphics

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"scenegl/internal/gpu"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// LoadTexture decodes an image file into an RGBA texture
func LoadTexture(path string) (*Texture, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open texture file: %w", err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	return NewTextureFromImage(img), nil
}

// NewTextureFromImage copies an image into a new RGBA texture
func NewTextureFromImage(img image.Image) *Texture {
	rgba := ToRGBA(img)
	size := rgba.Rect.Size()

	tex := NewTexture(size.X, size.Y, gpu.RGBA8)
	tex.Min, tex.Mag = gpu.Nearest, gpu.Nearest
	tex.faces[0] = rgba.Pix
	return tex
}

// ToRGBA returns img as a tightly packed *image.RGBA anchored at the origin
func ToRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Rect.Min == (image.Point{}) && rgba.Stride == rgba.Rect.Dx()*4 {
		return rgba
	}
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	return rgba
}

// ScaleTo resamples img to the given size, used when a texture must match
// the dimensions of an existing one
func ScaleTo(img image.Image, width, height int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dst
}
