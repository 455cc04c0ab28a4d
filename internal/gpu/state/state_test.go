package state

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"scenegl/internal/gpu"
	"scenegl/internal/gpu/gputest"
	"scenegl/internal/resource"
)

func TestRedundantTransitionsAreSkipped(t *testing.T) {
	ctx := gputest.New()
	tr := New(ctx, 4)

	assert.True(t, tr.UseProgram(3))
	assert.False(t, tr.UseProgram(3))
	assert.True(t, tr.UseProgram(4))
	assert.Equal(t, 2, ctx.Count("UseProgram"))
	assert.Equal(t, 2, tr.Transitions())
	assert.Equal(t, 1, tr.Skipped())

	tr.SetCull(gpu.CullBack)
	tr.SetCull(gpu.CullBack)
	tr.SetDepth(gpu.DepthLess)
	tr.SetDepth(gpu.DepthLess)
	assert.Equal(t, 1, ctx.Count("SetCull"))
	assert.Equal(t, 1, ctx.Count("SetDepth"))
}

func TestFirstRequestAlwaysIssues(t *testing.T) {
	ctx := gputest.New()
	tr := New(ctx, 2)

	// Zero values must still reach the context on an unset slot.
	assert.True(t, tr.BindFramebuffer(gpu.NoHandle))
	assert.True(t, tr.SetCull(gpu.CullOff))
	assert.Equal(t, 1, ctx.Count("BindFramebuffer"))
	assert.Equal(t, 1, ctx.Count("SetCull"))
}

func TestVertexArrayInvalidatesElementBuffer(t *testing.T) {
	ctx := gputest.New()
	tr := New(ctx, 2)

	tr.BindBuffer(gpu.ElementArrayBuffer, 7)
	_, ok := tr.ElementBuffer()
	assert.True(t, ok)

	tr.BindVertexArray(2)
	_, ok = tr.ElementBuffer()
	assert.False(t, ok)

	tr.BindBuffer(gpu.ElementArrayBuffer, 7)
	assert.Equal(t, 2, ctx.Count("BindBuffer"))
}

func TestTextureUnitsTrackedIndependently(t *testing.T) {
	ctx := gputest.New()
	tr := New(ctx, 4)

	tr.BindTexture(0, gpu.Texture2D, 10)
	tr.BindTexture(1, gpu.Texture2D, 11)
	tr.BindTexture(0, gpu.Texture2D, 10)
	tr.BindTexture(1, gpu.Texture2D, 11)

	assert.Equal(t, 2, ctx.Count("BindTexture"))
	assert.Equal(t, 2, ctx.Count("ActiveTexture"))
	tex, ok := tr.TextureAt(1)
	assert.True(t, ok)
	assert.Equal(t, gpu.Handle(11), tex)
	assert.Equal(t, gpu.Handle(11), ctx.TextureOnUnit(1))

	// Same handle under a different target is a different binding.
	assert.True(t, tr.BindTexture(1, gpu.TextureCube, 11))
}

func TestForgetForcesRebind(t *testing.T) {
	ctx := gputest.New()
	tr := New(ctx, 2)

	tr.UseProgram(5)
	tr.Forget(resource.KindProgram, 5)
	_, ok := tr.Bound(resource.KindProgram)
	assert.False(t, ok)

	// A recycled handle with the same value must be bound again.
	assert.True(t, tr.UseProgram(5))
	assert.Equal(t, 2, ctx.Count("UseProgram"))

	tr.BindTexture(0, gpu.Texture2D, 9)
	tr.Forget(resource.KindTexture, 9)
	assert.True(t, tr.BindTexture(0, gpu.Texture2D, 9))

	tr.BindVertexArray(3)
	tr.BindBuffer(gpu.ElementArrayBuffer, 4)
	tr.Forget(resource.KindVertexBinding, 3)
	_, ok = tr.ElementBuffer()
	assert.False(t, ok)
	assert.True(t, tr.BindVertexArray(3))
}

func TestForgetIgnoresOtherHandles(t *testing.T) {
	ctx := gputest.New()
	tr := New(ctx, 2)

	tr.BindBuffer(gpu.ArrayBuffer, 1)
	tr.Forget(resource.KindBuffer, 2)
	assert.False(t, tr.BindBuffer(gpu.ArrayBuffer, 1))

	tr.BindFramebuffer(6)
	tr.Forget(resource.KindRenderTarget, 6)
	h, ok := tr.Bound(resource.KindRenderTarget)
	assert.False(t, ok)
	assert.Equal(t, gpu.NoHandle, h)
}

func TestForgetClearsReportedHandle(t *testing.T) {
	ctx := gputest.New()
	tr := New(ctx, 2)

	tr.BindBuffer(gpu.ArrayBuffer, 4)
	tr.UseProgram(9)
	tr.Forget(resource.KindBuffer, 4)
	tr.Forget(resource.KindProgram, 9)

	for _, kind := range []resource.Kind{resource.KindBuffer, resource.KindProgram} {
		h, ok := tr.Bound(kind)
		assert.False(t, ok, kind.String())
		assert.Equal(t, gpu.NoHandle, h, kind.String())
	}
	assert.True(t, tr.UseProgram(9))
}

func TestViewportAndScissor(t *testing.T) {
	ctx := gputest.New()
	tr := New(ctx, 1)

	r := gpu.Rect{W: 640, H: 480}
	assert.True(t, tr.SetViewport(r))
	assert.False(t, tr.SetViewport(r))
	vp, ok := tr.Viewport()
	assert.True(t, ok)
	assert.Equal(t, r, vp)

	assert.True(t, tr.SetScissor(&gpu.Rect{W: 10, H: 10}))
	assert.False(t, tr.SetScissor(&gpu.Rect{W: 10, H: 10}))
	assert.True(t, tr.SetScissor(nil))
	assert.False(t, tr.SetScissor(nil))
	assert.Equal(t, 2, ctx.Count("Scissor"))
}

func TestResetKeepsCounters(t *testing.T) {
	ctx := gputest.New()
	tr := New(ctx, 2)

	tr.UseProgram(1)
	tr.UseProgram(1)
	tr.BindTexture(0, gpu.Texture2D, 3)
	tr.Reset()

	assert.Equal(t, 2, tr.Units())
	assert.True(t, tr.UseProgram(1))
	assert.True(t, tr.BindTexture(0, gpu.Texture2D, 3))
	assert.Equal(t, 4, tr.Transitions())
	assert.Equal(t, 1, tr.Skipped())

	tr.ResetCounters()
	assert.Zero(t, tr.Transitions())
	assert.Zero(t, tr.Skipped())
}

func BenchmarkRedundantUseProgram(b *testing.B) {
	tr := New(gputest.New(), 1)
	tr.UseProgram(1)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		tr.UseProgram(1)
	}
}
