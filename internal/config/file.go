package config

import (
	"bufio"
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pelletier/go-toml/v2"
)

// File is the on-disk form of the render settings. Keys missing from a
// file keep their current value.
type File struct {
	FPSLimit        int        `toml:"fps_limit"`
	MaxTextureUnits int        `toml:"max_texture_units"`
	ShadowMapSize   int        `toml:"shadow_map_size"`
	Shadows         bool       `toml:"shadows"`
	ShadowInterval  int        `toml:"shadow_interval"`
	ClearColor      [4]float32 `toml:"clear_color"`
	Debug           bool       `toml:"debug"`
	Window          Window     `toml:"window"`
}

type Window struct {
	Width  int `toml:"width"`
	Height int `toml:"height"`
}

// Current captures the active settings.
func Current() File {
	w, h := GetWindowSize()
	return File{
		FPSLimit:        GetFPSLimit(),
		MaxTextureUnits: GetMaxTextureUnits(),
		ShadowMapSize:   GetShadowMapSize(),
		Shadows:         GetShadows(),
		ShadowInterval:  GetShadowInterval(),
		ClearColor:      GetClearColor(),
		Debug:           GetDebug(),
		Window:          Window{Width: w, Height: h},
	}
}

// Apply installs f through the clamping setters.
func (f File) Apply() {
	SetFPSLimit(f.FPSLimit)
	SetMaxTextureUnits(f.MaxTextureUnits)
	SetShadowMapSize(f.ShadowMapSize)
	SetShadows(f.Shadows)
	SetShadowInterval(f.ShadowInterval)
	SetClearColor(mgl32.Vec4(f.ClearColor))
	SetDebug(f.Debug)
	SetWindowSize(f.Window.Width, f.Window.Height)
}

// Load reads a TOML settings file and applies it.
func Load(path string) (File, error) {
	fp, err := os.Open(path)
	if err != nil {
		return File{}, err
	}
	defer fp.Close()

	f := Current()
	if err := toml.NewDecoder(bufio.NewReader(fp)).Decode(&f); err != nil {
		return File{}, fmt.Errorf("config %s: %w", path, err)
	}
	f.Apply()
	return Current(), nil
}

// Save writes the active settings to path.
func Save(path string) error {
	data, err := toml.Marshal(Current())
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
