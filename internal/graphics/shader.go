package graphics

import (
	"fmt"
	"os"
	"path/filepath"
)

// LoadMaterial creates a material from vertex and fragment shader source files
func LoadMaterial(vertexPath, fragmentPath string) (*Material, error) {
	vertexSource, err := os.ReadFile(vertexPath)
	if err != nil {
		return nil, fmt.Errorf("could not read vertex shader file: %w", err)
	}

	fragmentSource, err := os.ReadFile(fragmentPath)
	if err != nil {
		return nil, fmt.Errorf("could not read fragment shader file: %w", err)
	}

	m := NewMaterial(string(vertexSource), string(fragmentSource))
	m.Name = filepath.Base(vertexPath)
	return m, nil
}

// ReloadSources re-reads both shader files into an existing material
func ReloadSources(m *Material, vertexPath, fragmentPath string) error {
	vertexSource, err := os.ReadFile(vertexPath)
	if err != nil {
		return fmt.Errorf("could not read vertex shader file: %w", err)
	}
	fragmentSource, err := os.ReadFile(fragmentPath)
	if err != nil {
		return fmt.Errorf("could not read fragment shader file: %w", err)
	}
	m.SetSources(string(vertexSource), string(fragmentSource))
	return nil
}
