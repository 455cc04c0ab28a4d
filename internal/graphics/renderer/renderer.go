// Package renderer turns a scene graph into draw calls: it assembles the
// frame, resolves GPU resources through the cache, pushes parameters and
// issues draws with redundant state changes removed.
package renderer

import (
	"fmt"
	"image"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"scenegl/internal/config"
	"scenegl/internal/geometry"
	"scenegl/internal/gpu"
	"scenegl/internal/gpu/binding"
	"scenegl/internal/gpu/cache"
	"scenegl/internal/gpu/state"
	"scenegl/internal/graphics"
	"scenegl/internal/logging"
	"scenegl/internal/profiling"
	"scenegl/internal/scene"
)

// ParamFog carries Material.Fog to the program.
const ParamFog = "fog"

// Renderer owns the GPU side of one context. It is not safe for concurrent
// use; call it from the thread that owns the context.
type Renderer struct {
	ctx       gpu.Context
	tracker   *state.Tracker
	units     *binding.Units
	cache     *cache.Cache
	refs      *cache.Tracker
	assembler scene.Assembler
	log       logging.Logger

	width     int
	height    int
	scissor   *gpu.Rect
	slowFrame time.Duration

	stats Stats
}

func New(ctx gpu.Context, opts Options) *Renderer {
	units := ctx.MaxTextureUnits()
	limit := opts.MaxTextureUnits
	if limit <= 0 {
		limit = config.GetMaxTextureUnits()
	}
	if limit > 0 && limit < units {
		units = limit
	}
	tracker := state.New(ctx, units)
	pool := binding.NewUnits(tracker)
	log := logging.OrNop(opts.Logger)
	return &Renderer{
		ctx:       ctx,
		tracker:   tracker,
		units:     pool,
		cache:     cache.New(ctx, tracker, pool, log),
		log:       log,
		width:     opts.Width,
		height:    opts.Height,
		slowFrame: opts.SlowFrame,
	}
}

func (r *Renderer) Cache() *cache.Cache { return r.cache }

// State exposes the state tracker, e.g. to Reset it after foreign code
// touched the context.
func (r *Renderer) State() *state.Tracker { return r.tracker }

// Track counts references below root so resources of removed subtrees are
// evicted at the start of the next Render.
func (r *Renderer) Track(root *scene.Node) *cache.Tracker {
	r.refs = cache.NewTracker(r.cache, root)
	return r.refs
}

// SetViewport resizes the default surface.
func (r *Renderer) SetViewport(width, height int) {
	r.width, r.height = width, height
}

// SetScissor restricts drawing to the default surface to rect; nil disables
// the scissor test.
func (r *Renderer) SetScissor(rect *gpu.Rect) {
	r.scissor = rect
}

// Stats returns the statistics of the last Render.
func (r *Renderer) Stats() Stats { return r.stats }

// Render assembles root and draws it into target, or the default surface
// when target is nil.
func (r *Renderer) Render(root *scene.Node, target *graphics.RenderTarget) error {
	start := time.Now()
	profiling.ResetFrame()
	r.tracker.ResetCounters()
	if r.refs != nil {
		r.refs.Flush()
	}

	r.assembler.DisableShadows = !config.GetShadows()
	r.assembler.ShadowInterval = config.GetShadowInterval()
	r.assembler.Globals = graphics.Params{scene.ParamBackground: config.GetClearColor()}

	stop := profiling.Track("scene.Assemble")
	sc := r.assembler.Assemble(root, target)
	stop()

	err := r.RenderScene(sc)

	r.stats = Stats{
		Entries:      len(sc.Entries),
		ShadowPasses: len(sc.Shadows),
		Draws:        profiling.Counter("draws"),
		Uploads:      profiling.Counter("uploads"),
		StateChanges: r.tracker.Transitions(),
		Skipped:      r.tracker.Skipped(),
		Frame:        time.Since(start),
	}
	if r.slowFrame > 0 && r.stats.Frame > r.slowFrame {
		r.log.Warnf("slow frame %s: %s", r.stats.Frame, profiling.TopN(3))
	}
	return err
}

// RenderScene draws an assembled scene: shadow passes first, then the scene
// itself.
func (r *Renderer) RenderScene(sc *scene.Scene) error {
	defer profiling.Track("renderer.RenderScene")()
	for _, sh := range sc.Shadows {
		if err := r.pass(sh); err != nil {
			return fmt.Errorf("shadow pass: %w", err)
		}
	}
	return r.pass(sc)
}

func (r *Renderer) bindTarget(target *graphics.RenderTarget) error {
	if target == nil {
		r.tracker.BindFramebuffer(gpu.NoHandle)
		r.tracker.SetViewport(gpu.Rect{W: r.width, H: r.height})
		r.tracker.SetScissor(r.scissor)
		return nil
	}
	fb, err := r.cache.RenderTarget(target)
	if err != nil {
		return err
	}
	w, h := target.Size()
	r.tracker.BindFramebuffer(fb)
	r.tracker.SetViewport(gpu.Rect{W: w, H: h})
	r.tracker.SetScissor(nil)
	return nil
}

func (r *Renderer) pass(sc *scene.Scene) error {
	if err := r.bindTarget(sc.Target); err != nil {
		return err
	}
	// Off-screen passes always hand the default surface back.
	if sc.Target != nil {
		defer r.tracker.BindFramebuffer(gpu.NoHandle)
	}

	background := sc.Background
	if v, ok := sc.Params[scene.ParamBackground].(mgl32.Vec4); ok && sc.Camera == nil {
		background = v
	}
	r.ctx.ClearColor(background)
	r.ctx.Clear(true, true)

	var self *graphics.Texture
	if sc.Target != nil {
		self = sc.Target.Color
		h, err := r.cache.Texture(self)
		if err != nil {
			return err
		}
		r.units.Unbind(self.Target, h)
	}
	for _, e := range sc.Entries {
		if err := r.draw(sc, e, self); err != nil {
			name := ""
			if n := e.Node(); n != nil {
				name = n.Name
			}
			return fmt.Errorf("draw %q: %w", name, err)
		}
	}
	return nil
}

func (r *Renderer) draw(sc *scene.Scene, e *scene.Entry, self *graphics.Texture) error {
	r.units.BeginDraw()
	m, g := e.Material, e.Geometry

	if _, err := r.cache.VertexBinding(g, m); err != nil {
		return err
	}
	prog, err := r.cache.Program(m)
	if err != nil {
		return err
	}
	prog.Use()
	r.tracker.SetCull(m.Cull)
	r.tracker.SetDepth(m.Depth)

	params := graphics.MergeParams(m.Params, graphics.Params{ParamFog: m.Fog}, sc.Params, e.Overrides())
	names := maps.Keys(params)
	slices.Sort(names)
	for _, name := range names {
		if !prog.Has(name) {
			continue
		}
		// Streamed attributes are fed by the vertex binding.
		if ch, _ := g.Channel(name); ch != nil {
			continue
		}
		if err := prog.Set(name, maskTexture(params[name], self)); err != nil {
			return err
		}
	}

	issue(r.ctx, g)
	profiling.Count("draws", 1)
	return nil
}

func issue(ctx gpu.Context, g *geometry.Geometry) {
	count := g.Count()
	switch {
	case g.Index != nil && g.Instanced():
		ctx.DrawElementsInstanced(g.Topology, count, g.Index.Type(), 0, g.InstanceCount)
	case g.Index != nil:
		ctx.DrawElements(g.Topology, count, g.Index.Type(), 0)
	case g.Instanced():
		ctx.DrawArraysInstanced(g.Topology, 0, count, g.InstanceCount)
	default:
		ctx.DrawArrays(g.Topology, 0, count)
	}
}

// maskTexture replaces self in a sampler value with a nil texture, which
// binds to an empty unit, so a target is never sampled while it is being
// drawn into. Array slots keep their positions.
func maskTexture(v any, self *graphics.Texture) any {
	if self == nil {
		return v
	}
	switch x := v.(type) {
	case *graphics.Texture:
		if x == self {
			return (*graphics.Texture)(nil)
		}
	case *graphics.RenderTarget:
		if x != nil && x.Color == self {
			return (*graphics.Texture)(nil)
		}
	case []*graphics.Texture:
		if !slices.Contains(x, self) {
			return x
		}
		out := slices.Clone(x)
		for i, t := range out {
			if t == self {
				out[i] = nil
			}
		}
		return out
	}
	return v
}

// ReadPixels reads the content of target, or of the default surface when
// target is nil, as a top-down RGBA image.
func (r *Renderer) ReadPixels(target *graphics.RenderTarget) (*image.RGBA, error) {
	w, h := r.width, r.height
	if target != nil {
		w, h = target.Size()
	}
	if err := r.bindTarget(target); err != nil {
		return nil, err
	}
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	r.ctx.ReadPixels(0, 0, w, h, img.Pix)
	r.tracker.BindFramebuffer(gpu.NoHandle)

	// Rows arrive bottom-up.
	row := make([]byte, img.Stride)
	for y := 0; y < h/2; y++ {
		top := img.Pix[y*img.Stride : (y+1)*img.Stride]
		bottom := img.Pix[(h-1-y)*img.Stride : (h-y)*img.Stride]
		copy(row, top)
		copy(top, bottom)
		copy(bottom, row)
	}
	return img, nil
}

// Dispose releases every GPU object the renderer created.
func (r *Renderer) Dispose() {
	r.cache.Destroy()
}
