package renderer

import (
	"time"

	"scenegl/internal/logging"
)

// Options configure a Renderer.
type Options struct {
	// Width and Height size the default surface.
	Width  int
	Height int
	// MaxTextureUnits caps the unit pool below the driver limit; 0 uses
	// config.GetMaxTextureUnits, then the driver limit.
	MaxTextureUnits int
	Logger          logging.Logger
	// SlowFrame logs frames slower than this at WARN; 0 disables it.
	SlowFrame time.Duration
}

// Stats describe the work of the last frame.
type Stats struct {
	Entries      int
	ShadowPasses int
	Draws        int
	Uploads      int
	StateChanges int
	Skipped      int
	Frame        time.Duration
}
