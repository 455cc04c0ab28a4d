// Package input maps GLFW key events to viewer actions with per-frame edge
// detection.
package input

import (
	"sync"

	"github.com/go-gl/glfw/v3.3/glfw"
)

// Action is a logical viewer command, not a physical key.
type Action int

const (
	ActionQuit Action = iota
	ActionPause
	ActionToggleShadows
	ActionScreenshot
	ActionOrbitLeft
	ActionOrbitRight
	ActionZoomIn
	ActionZoomOut
	ActionCount
)

// Manager tracks which actions are held and which changed this frame.
// Event handlers run on the GLFW thread; the lock lets tests and helpers
// query state from elsewhere.
type Manager struct {
	mu sync.RWMutex

	keyToActions map[glfw.Key][]Action

	current      [ActionCount]bool
	justPressed  [ActionCount]bool
	justReleased [ActionCount]bool
}

// NewManager returns a manager with the default bindings.
func NewManager() *Manager {
	m := &Manager{keyToActions: make(map[glfw.Key][]Action)}
	m.Bind(glfw.KeyEscape, ActionQuit)
	m.Bind(glfw.KeySpace, ActionPause)
	m.Bind(glfw.KeyF5, ActionToggleShadows)
	m.Bind(glfw.KeyF12, ActionScreenshot)
	m.Bind(glfw.KeyA, ActionOrbitLeft)
	m.Bind(glfw.KeyLeft, ActionOrbitLeft)
	m.Bind(glfw.KeyD, ActionOrbitRight)
	m.Bind(glfw.KeyRight, ActionOrbitRight)
	m.Bind(glfw.KeyW, ActionZoomIn)
	m.Bind(glfw.KeyUp, ActionZoomIn)
	m.Bind(glfw.KeyS, ActionZoomOut)
	m.Bind(glfw.KeyDown, ActionZoomOut)
	return m
}

// Bind adds action to key. A key may drive several actions and an action
// may have several keys.
func (m *Manager) Bind(key glfw.Key, action Action) {
	if action < 0 || action >= ActionCount {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.keyToActions[key] = append(m.keyToActions[key], action)
}

func (m *Manager) Unbind(key glfw.Key) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.keyToActions, key)
}

// HandleKey records a key event. Repeat counts as held.
func (m *Manager) HandleKey(key glfw.Key, action glfw.Action) {
	m.mu.Lock()
	defer m.mu.Unlock()

	pressed := action == glfw.Press || action == glfw.Repeat
	for _, act := range m.keyToActions[key] {
		if pressed && !m.current[act] {
			m.justPressed[act] = true
		}
		if !pressed && m.current[act] {
			m.justReleased[act] = true
		}
		m.current[act] = pressed
	}
}

// Attach installs the manager as the window's key callback.
func (m *Manager) Attach(window *glfw.Window) {
	window.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		m.HandleKey(key, action)
	})
}

// EndFrame clears the edge flags. Call it once per frame after all queries.
func (m *Manager) EndFrame() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.justPressed = [ActionCount]bool{}
	m.justReleased = [ActionCount]bool{}
}

func (m *Manager) Active(action Action) bool {
	if action < 0 || action >= ActionCount {
		return false
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current[action]
}

func (m *Manager) JustPressed(action Action) bool {
	if action < 0 || action >= ActionCount {
		return false
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.justPressed[action]
}

func (m *Manager) JustReleased(action Action) bool {
	if action < 0 || action >= ActionCount {
		return false
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.justReleased[action]
}
