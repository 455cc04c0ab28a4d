package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettersClamp(t *testing.T) {
	t.Cleanup(Reset)

	SetShadowInterval(0)
	assert.Equal(t, 1, GetShadowInterval())
	SetShadowMapSize(1 << 20)
	assert.Equal(t, 8192, GetShadowMapSize())
	SetFPSLimit(-5)
	assert.Equal(t, 0, GetFPSLimit())
	SetFPSLimit(3)
	assert.Equal(t, 10, GetFPSLimit())
	SetClearColor(mgl32.Vec4{2, -1, 0.5, 1})
	assert.Equal(t, mgl32.Vec4{1, 0, 0.5, 1}, GetClearColor())
}

func TestLoadKeepsMissingKeys(t *testing.T) {
	t.Cleanup(Reset)
	path := filepath.Join(t.TempDir(), "render.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
shadow_interval = 4
debug = true

[window]
width = 1280
height = 720
`), 0o644))

	f, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 4, f.ShadowInterval)
	assert.True(t, GetDebug())
	w, h := GetWindowSize()
	assert.Equal(t, []int{1280, 720}, []int{w, h})
	assert.True(t, GetShadows())
	assert.Equal(t, 1024, GetShadowMapSize())
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	t.Cleanup(Reset)
	path := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte("shadow_interval = \"often\""), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
	assert.Equal(t, 1, GetShadowInterval())
}

func TestSaveRoundTrip(t *testing.T) {
	t.Cleanup(Reset)
	path := filepath.Join(t.TempDir(), "out.toml")
	SetShadowMapSize(2048)
	require.NoError(t, Save(path))

	Reset()
	_, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2048, GetShadowMapSize())
}
