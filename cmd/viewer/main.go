// Command viewer opens a window and renders a demo scene through the
// retained-mode pipeline.
package main

import (
	"flag"
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/xlab/closer"

	"scenegl/internal/config"
	"scenegl/internal/frameclock"
	"scenegl/internal/gpu/glctx"
	"scenegl/internal/graphics"
	"scenegl/internal/graphics/renderer"
	"scenegl/internal/input"
	"scenegl/internal/logging"
	"scenegl/internal/reload"
)

func init() {
	runtime.LockOSThread()
}

func main() {
	defer closer.Close()

	configPath := flag.String("config", "", "TOML settings file")
	shaderDir := flag.String("shaders", "", "directory with lit.vert and lit.frag, reloaded on change")
	flag.Parse()
	if *configPath != "" {
		if _, err := config.Load(*configPath); err != nil {
			panic(err)
		}
	}

	log := logging.New("viewer", config.GetDebug())
	closer.Bind(func() {
		log.Infof("shutting down")
	})

	if err := glfw.Init(); err != nil {
		panic(err)
	}
	defer glfw.Terminate()

	width, height := config.GetWindowSize()
	window, err := setupWindow(width, height)
	if err != nil {
		panic(err)
	}
	// The framebuffer can be larger than the window on HiDPI displays.
	width, height = window.GetFramebufferSize()

	ctx, err := glctx.New(log)
	if err != nil {
		panic(err)
	}
	r := renderer.New(ctx, renderer.Options{
		Width:     width,
		Height:    height,
		Logger:    log,
		SlowFrame: 50 * time.Millisecond,
	})
	defer r.Dispose()

	font, err := graphics.LoadFont("", 48)
	if err != nil {
		panic(err)
	}
	defer font.Close()
	label, err := font.Rasterize("scenegl")
	if err != nil {
		panic(err)
	}

	var lit *graphics.Material
	var watcher *reload.Watcher
	if *shaderDir != "" {
		vp, fp := filepath.Join(*shaderDir, "lit.vert"), filepath.Join(*shaderDir, "lit.frag")
		if lit, err = graphics.LoadMaterial(vp, fp); err != nil {
			panic(err)
		}
		if watcher, err = reload.New(log); err != nil {
			panic(err)
		}
		defer watcher.Close()
		if err := watcher.Watch(lit, vp, fp); err != nil {
			panic(err)
		}
	}

	d := buildDemo(width, height, lit, label)
	r.Track(d.root)

	window.SetFramebufferSizeCallback(func(_ *glfw.Window, w, h int) {
		if w == 0 || h == 0 {
			return
		}
		r.SetViewport(w, h)
		d.camera.SetViewport(w, h)
	})
	keys := input.NewManager()
	keys.Attach(window)

	runLoop(window, r, d, keys, watcher, log)
	ctx.CheckError("shutdown")
}

func setupWindow(width, height int) (*glfw.Window, error) {
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)

	window, err := glfw.CreateWindow(width, height, "scenegl", nil, nil)
	if err != nil {
		return nil, err
	}
	window.MakeContextCurrent()

	// Disable V-Sync; the frame clock paces the loop
	glfw.SwapInterval(0)
	return window, nil
}

func screenshot(r *renderer.Renderer, path string) error {
	img, err := r.ReadPixels(nil)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}

// handleActions applies this frame's one-shot viewer commands.
func handleActions(window *glfw.Window, r *renderer.Renderer, keys *input.Manager, log logging.Logger) {
	if keys.JustPressed(input.ActionQuit) {
		window.SetShouldClose(true)
	}
	if keys.JustPressed(input.ActionToggleShadows) {
		config.SetShadows(!config.GetShadows())
		log.Infof("shadows: %v", config.GetShadows())
	}
	if keys.JustPressed(input.ActionScreenshot) {
		path := fmt.Sprintf("screenshot-%d.png", time.Now().Unix())
		if err := screenshot(r, path); err != nil {
			log.Errorf("screenshot: %v", err)
		} else {
			log.Infof("saved %s", path)
		}
	}
}

func runLoop(window *glfw.Window, r *renderer.Renderer, d *demo, keys *input.Manager, watcher *reload.Watcher, log logging.Logger) {
	limiter := frameclock.New()
	frames := 0
	lastFPSCheck := time.Now()

	var spin float32
	angle, distance := float32(0.6), float32(7)
	paused := false

	for !window.ShouldClose() {
		dt := float32(limiter.Wait().Seconds())

		handleActions(window, r, keys, log)
		if keys.JustPressed(input.ActionPause) {
			paused = !paused
		}
		if keys.Active(input.ActionOrbitLeft) {
			angle -= dt * 1.5
		}
		if keys.Active(input.ActionOrbitRight) {
			angle += dt * 1.5
		}
		if keys.Active(input.ActionZoomIn) {
			distance = max(distance-dt*4, 2)
		}
		if keys.Active(input.ActionZoomOut) {
			distance = min(distance+dt*4, 30)
		}
		d.orbit(angle, distance)
		keys.EndFrame()

		if !paused {
			spin += dt * 0.8
		}
		rot := mgl32.Vec3{0, spin, 0}
		d.box.SetRotation(rot)
		d.innerBox.SetRotation(rot)

		if watcher != nil {
			watcher.Apply()
		}
		// A broken shader is logged and retried after the next reload.
		if err := r.Render(d.inner, d.screen); err != nil {
			logOnce(log, err)
		}
		if err := r.Render(d.root, nil); err != nil {
			logOnce(log, err)
		}
		frames++

		window.SwapBuffers()
		glfw.PollEvents()

		if time.Since(lastFPSCheck) >= time.Second {
			s := r.Stats()
			log.Debugf("fps %d, draws %d, uploads %d, state changes %d (skipped %d)",
				frames, s.Draws, s.Uploads, s.StateChanges, s.Skipped)
			frames = 0
			lastFPSCheck = time.Now()
		}
	}
}

var lastErr string

// logOnce logs err unless it repeats the previous render error.
func logOnce(log logging.Logger, err error) {
	if msg := err.Error(); msg != lastErr {
		lastErr = msg
		log.Errorf("render: %s", msg)
	}
}
