package graphics

import (
	"fmt"
	"image"
	"image/draw"
	"os"

	"scenegl/internal/gpu"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// Font rasterizes text into single-channel textures.
type Font struct {
	face font.Face
}

// LoadFont parses a TrueType or OpenType file. An empty path selects the
// embedded Go Regular face.
func LoadFont(path string, pixels float64) (*Font, error) {
	data := goregular.TTF
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read font: %w", err)
		}
		data = b
	}
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{Size: pixels, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		return nil, fmt.Errorf("new face: %w", err)
	}
	return &Font{face: face}, nil
}

func (f *Font) Close() error { return f.face.Close() }

// Measure returns the pixel size of a single line of text.
func (f *Font) Measure(text string) (width, height int) {
	m := f.face.Metrics()
	adv := font.MeasureString(f.face, text)
	return adv.Ceil(), (m.Ascent + m.Descent).Ceil()
}

// Rasterize draws text into a new R8 texture with the first row at the
// bottom, matching the texture coordinate origin. Missing glyphs advance by
// the width of a space.
func (f *Font) Rasterize(text string) (*Texture, error) {
	w, h := f.Measure(text)
	if w == 0 || h == 0 {
		return nil, fmt.Errorf("rasterize %q: empty extent", text)
	}
	canvas := image.NewAlpha(image.Rect(0, 0, w, h))
	dot := fixed.P(0, f.face.Metrics().Ascent.Ceil())
	space, _ := f.face.GlyphAdvance(' ')
	prev := rune(-1)
	for _, r := range text {
		if prev >= 0 {
			dot.X += f.face.Kern(prev, r)
		}
		dr, mask, maskp, advance, ok := f.face.Glyph(dot, r)
		if !ok {
			dot.X += space
			prev = -1
			continue
		}
		if mask != nil && !dr.Empty() {
			draw.Draw(canvas, dr, mask, maskp, draw.Over)
		}
		dot.X += advance
		prev = r
	}

	pixels := make([]byte, w*h)
	for y := 0; y < h; y++ {
		copy(pixels[(h-1-y)*w:(h-y)*w], canvas.Pix[y*canvas.Stride:y*canvas.Stride+w])
	}
	tex := NewTexture(w, h, gpu.R8)
	tex.Wrap = gpu.ClampToEdge
	if err := tex.SetPixels(0, pixels); err != nil {
		return nil, err
	}
	return tex, nil
}
