package config

import (
	"sync"

	"github.com/go-gl/mathgl/mgl32"
)

// RenderSettings holds render configuration shared by the renderer and the
// viewer loop.
type RenderSettings struct {
	mu              sync.RWMutex
	fpsLimit        int
	maxTextureUnits int
	shadowMapSize   int
	shadows         bool
	shadowInterval  int
	clearColor      mgl32.Vec4
	debug           bool
	windowWidth     int
	windowHeight    int
}

func defaults() *RenderSettings {
	return &RenderSettings{
		fpsLimit:       60,
		shadowMapSize:  1024,
		shadows:        true,
		shadowInterval: 1,
		clearColor:     mgl32.Vec4{0.53, 0.81, 0.92, 1},
		windowWidth:    900,
		windowHeight:   600,
	}
}

var globalRenderSettings = defaults()

// Reset restores every setting to its default.
func Reset() {
	d := defaults()
	globalRenderSettings.mu.Lock()
	defer globalRenderSettings.mu.Unlock()
	globalRenderSettings.fpsLimit = d.fpsLimit
	globalRenderSettings.maxTextureUnits = d.maxTextureUnits
	globalRenderSettings.shadowMapSize = d.shadowMapSize
	globalRenderSettings.shadows = d.shadows
	globalRenderSettings.shadowInterval = d.shadowInterval
	globalRenderSettings.clearColor = d.clearColor
	globalRenderSettings.debug = d.debug
	globalRenderSettings.windowWidth = d.windowWidth
	globalRenderSettings.windowHeight = d.windowHeight
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}

// GetFPSLimit returns the frame cap; 0 means unlimited.
func GetFPSLimit() int {
	globalRenderSettings.mu.RLock()
	defer globalRenderSettings.mu.RUnlock()
	return globalRenderSettings.fpsLimit
}

func SetFPSLimit(fps int) {
	globalRenderSettings.mu.Lock()
	defer globalRenderSettings.mu.Unlock()
	if fps <= 0 {
		globalRenderSettings.fpsLimit = 0
		return
	}
	globalRenderSettings.fpsLimit = clamp(fps, 10, 1000)
}

// GetMaxTextureUnits returns the texture unit cap; 0 means whatever the
// driver reports.
func GetMaxTextureUnits() int {
	globalRenderSettings.mu.RLock()
	defer globalRenderSettings.mu.RUnlock()
	return globalRenderSettings.maxTextureUnits
}

func SetMaxTextureUnits(n int) {
	globalRenderSettings.mu.Lock()
	defer globalRenderSettings.mu.Unlock()
	globalRenderSettings.maxTextureUnits = clamp(n, 0, 32)
}

// GetShadowMapSize returns the edge length of shadow targets in pixels.
func GetShadowMapSize() int {
	globalRenderSettings.mu.RLock()
	defer globalRenderSettings.mu.RUnlock()
	return globalRenderSettings.shadowMapSize
}

func SetShadowMapSize(size int) {
	globalRenderSettings.mu.Lock()
	defer globalRenderSettings.mu.Unlock()
	globalRenderSettings.shadowMapSize = clamp(size, 64, 8192)
}

func GetShadows() bool {
	globalRenderSettings.mu.RLock()
	defer globalRenderSettings.mu.RUnlock()
	return globalRenderSettings.shadows
}

func SetShadows(enabled bool) {
	globalRenderSettings.mu.Lock()
	defer globalRenderSettings.mu.Unlock()
	globalRenderSettings.shadows = enabled
}

// GetShadowInterval returns how many frames pass between shadow re-walks.
func GetShadowInterval() int {
	globalRenderSettings.mu.RLock()
	defer globalRenderSettings.mu.RUnlock()
	return globalRenderSettings.shadowInterval
}

func SetShadowInterval(frames int) {
	globalRenderSettings.mu.Lock()
	defer globalRenderSettings.mu.Unlock()
	globalRenderSettings.shadowInterval = clamp(frames, 1, 120)
}

// GetClearColor returns the background used when no camera sets one.
func GetClearColor() mgl32.Vec4 {
	globalRenderSettings.mu.RLock()
	defer globalRenderSettings.mu.RUnlock()
	return globalRenderSettings.clearColor
}

func SetClearColor(c mgl32.Vec4) {
	for i := range c {
		c[i] = mgl32.Clamp(c[i], 0, 1)
	}
	globalRenderSettings.mu.Lock()
	defer globalRenderSettings.mu.Unlock()
	globalRenderSettings.clearColor = c
}

func GetDebug() bool {
	globalRenderSettings.mu.RLock()
	defer globalRenderSettings.mu.RUnlock()
	return globalRenderSettings.debug
}

func SetDebug(enabled bool) {
	globalRenderSettings.mu.Lock()
	defer globalRenderSettings.mu.Unlock()
	globalRenderSettings.debug = enabled
}

// GetWindowSize returns the initial window size of the viewer.
func GetWindowSize() (width, height int) {
	globalRenderSettings.mu.RLock()
	defer globalRenderSettings.mu.RUnlock()
	return globalRenderSettings.windowWidth, globalRenderSettings.windowHeight
}

func SetWindowSize(width, height int) {
	globalRenderSettings.mu.Lock()
	defer globalRenderSettings.mu.Unlock()
	globalRenderSettings.windowWidth = clamp(width, 64, 16384)
	globalRenderSettings.windowHeight = clamp(height, 64, 16384)
}
