package input

import (
	"testing"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/stretchr/testify/assert"
)

func TestPressAndRelease(t *testing.T) {
	m := NewManager()

	m.HandleKey(glfw.KeyF5, glfw.Press)
	assert.True(t, m.Active(ActionToggleShadows))
	assert.True(t, m.JustPressed(ActionToggleShadows))

	m.EndFrame()
	m.HandleKey(glfw.KeyF5, glfw.Repeat)
	assert.True(t, m.Active(ActionToggleShadows))
	assert.False(t, m.JustPressed(ActionToggleShadows), "repeat is not a new press")

	m.HandleKey(glfw.KeyF5, glfw.Release)
	assert.False(t, m.Active(ActionToggleShadows))
	assert.True(t, m.JustReleased(ActionToggleShadows))

	m.EndFrame()
	assert.False(t, m.JustReleased(ActionToggleShadows))
}

func TestSeveralKeysOneAction(t *testing.T) {
	m := NewManager()
	m.HandleKey(glfw.KeyLeft, glfw.Press)
	assert.True(t, m.Active(ActionOrbitLeft))
	m.HandleKey(glfw.KeyA, glfw.Press)
	assert.True(t, m.Active(ActionOrbitLeft))
}

func TestBindAndUnbind(t *testing.T) {
	m := NewManager()
	m.Bind(glfw.KeyQ, ActionQuit)
	m.HandleKey(glfw.KeyQ, glfw.Press)
	assert.True(t, m.JustPressed(ActionQuit))

	m.EndFrame()
	m.HandleKey(glfw.KeyQ, glfw.Release)
	m.Unbind(glfw.KeyQ)
	m.HandleKey(glfw.KeyQ, glfw.Press)
	assert.False(t, m.Active(ActionQuit))

	m.Bind(glfw.KeyQ, ActionCount)
	m.HandleKey(glfw.KeyQ, glfw.Press)
	assert.False(t, m.Active(ActionCount))
}
