package graphics

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"scenegl/internal/gpu"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaterialSetSourcesMarksDirty(t *testing.T) {
	m := NewMaterial("v", "f")
	m.ClearDirty()
	m.SetSources("v2", "f2")
	assert.True(t, m.Dirty())
	vs, fs := m.Sources()
	assert.Equal(t, "v2", vs)
	assert.Equal(t, "f2", fs)
}

func TestMergeParamsPrecedence(t *testing.T) {
	global := Params{"a": 1, "b": 1}
	camera := Params{"b": 2, "c": 2}
	entry := Params{"c": 3}

	got := MergeParams(global, camera, entry)
	assert.Equal(t, Params{"a": 1, "b": 2, "c": 3}, got)
	assert.Equal(t, 1, global["b"], "inputs are not modified")
}

func TestParamsTextures(t *testing.T) {
	a, b := NewTexture(1, 1, gpu.RGBA8), NewTexture(1, 1, gpu.RGBA8)
	p := Params{"tex": a, "many": []*Texture{b, nil}, "x": 1.0}
	assert.ElementsMatch(t, []*Texture{a, b}, p.Textures())
}

func TestTexturePixelsAndResize(t *testing.T) {
	tex := NewTexture(2, 2, gpu.RGBA8)
	assert.Error(t, tex.SetPixels(0, make([]byte, 3)))
	assert.Error(t, tex.SetPixels(1, make([]byte, 16)))
	require.NoError(t, tex.SetPixels(0, make([]byte, 16)))

	tex.ClearDirty()
	tex.Resize(2, 2)
	assert.False(t, tex.Dirty(), "same size is a no-op")

	tex.Resize(4, 4)
	assert.True(t, tex.Dirty())
	assert.Nil(t, tex.Pixels(0))
	w, h := tex.Size()
	assert.Equal(t, 4, w)
	assert.Equal(t, 4, h)
}

func TestCubeTexture(t *testing.T) {
	cube := NewCubeTexture(8, gpu.RGB8)
	assert.Equal(t, gpu.TextureCube, cube.Target)
	assert.Equal(t, 6, cube.Faces())
	require.NoError(t, cube.SetPixels(5, make([]byte, 8*8*3)))
}

func TestRenderTargetResize(t *testing.T) {
	rt := NewRenderTarget(256, 256)
	rt.ClearDirty()
	rt.Color.ClearDirty()

	rt.Resize(512, 512)
	assert.True(t, rt.Dirty())
	assert.True(t, rt.Color.Dirty())
	w, h := rt.Size()
	assert.Equal(t, 512, w)
	assert.Equal(t, 512, h)
}

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.NRGBA{R: 255, A: 255})
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

func TestLoadTexture(t *testing.T) {
	path := filepath.Join(t.TempDir(), "red.png")
	writePNG(t, path, 3, 2)

	tex, err := LoadTexture(path)
	require.NoError(t, err)
	w, h := tex.Size()
	assert.Equal(t, 3, w)
	assert.Equal(t, 2, h)
	assert.Equal(t, []byte{255, 0, 0, 255}, tex.Pixels(0)[:4])

	_, err = LoadTexture(filepath.Join(t.TempDir(), "missing.png"))
	assert.Error(t, err)
}

func TestScaleTo(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 2, 2))
	dst := ScaleTo(src, 8, 4)
	assert.Equal(t, image.Pt(8, 4), dst.Rect.Size())
}

func TestLibraryCachesByPath(t *testing.T) {
	loads := 0
	lib := NewLibrary()
	lib.load = func(path string) (*Texture, error) {
		loads++
		return NewTexture(1, 1, gpu.RGBA8), nil
	}

	a, err := lib.Get("a.png")
	require.NoError(t, err)
	again, err := lib.Get("a.png")
	require.NoError(t, err)
	assert.Same(t, a, again)
	assert.Equal(t, 1, loads)

	assert.Same(t, a, lib.Forget("a.png"))
	assert.Zero(t, lib.Len())
}

func TestLoadMaterial(t *testing.T) {
	dir := t.TempDir()
	vp, fp := filepath.Join(dir, "basic.vert"), filepath.Join(dir, "basic.frag")
	require.NoError(t, os.WriteFile(vp, []byte("vertex"), 0o644))
	require.NoError(t, os.WriteFile(fp, []byte("fragment"), 0o644))

	m, err := LoadMaterial(vp, fp)
	require.NoError(t, err)
	vs, fs := m.Sources()
	assert.Equal(t, "vertex", vs)
	assert.Equal(t, "fragment", fs)
	assert.Equal(t, "basic.vert", m.Name)

	require.NoError(t, os.WriteFile(fp, []byte("fragment2"), 0o644))
	m.ClearDirty()
	require.NoError(t, ReloadSources(m, vp, fp))
	assert.True(t, m.Dirty())

	_, err = LoadMaterial(filepath.Join(dir, "nope.vert"), fp)
	assert.Error(t, err)
}

func TestCameraProjection(t *testing.T) {
	c := NewCamera(800, 400)
	assert.InDelta(t, 2.0, c.AspectRatio, 1e-6)
	assert.Equal(t, mgl32.Perspective(mgl32.DegToRad(60), 2, 0.1, 1000), c.GetProjectionMatrix())

	c.Ortho = true
	c.SetViewport(100, 100)
	assert.Equal(t, mgl32.Ortho(-1, 1, -1, 1, 0.1, 1000), c.GetProjectionMatrix())
}

func TestFontRasterize(t *testing.T) {
	f, err := LoadFont("", 24)
	require.NoError(t, err)
	defer f.Close()

	w, h := f.Measure("Hi")
	tex, err := f.Rasterize("Hi")
	require.NoError(t, err)
	tw, th := tex.Size()
	assert.Equal(t, w, tw)
	assert.Equal(t, h, th)
	assert.Equal(t, gpu.R8, tex.Format)
	assert.Len(t, tex.Pixels(0), w*h)

	var lit int
	for _, p := range tex.Pixels(0) {
		if p > 0 {
			lit++
		}
	}
	assert.Positive(t, lit)

	_, err = f.Rasterize("")
	assert.Error(t, err)

	_, err = LoadFont(filepath.Join(t.TempDir(), "missing.ttf"), 12)
	assert.Error(t, err)
}
