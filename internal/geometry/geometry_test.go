package geometry

import (
	"testing"

	"scenegl/internal/buffer"
	"scenegl/internal/gpu"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBox(t *testing.T) {
	g := Box(1, 1, 1)
	assert.Equal(t, gpu.Triangles, g.Topology)
	assert.Equal(t, 24, g.VertexCount())
	assert.Equal(t, 36, g.Count())
	assert.Equal(t, gpu.Uint16, g.Index.Type())
	assert.Equal(t, 32, g.Vertices.Stride())
	assert.False(t, g.Instanced())
}

func TestCountWithoutIndex(t *testing.T) {
	v := buffer.NewComposite(gpu.Float32, gpu.StaticDraw)
	require.NoError(t, v.SetPosition(buffer.NewArray[float32](0, 0, 0, 1, 0, 0, 0, 1, 0)))
	g := New(v, nil, gpu.Triangles)
	assert.Equal(t, 3, g.Count())

	empty := New(buffer.NewComposite(gpu.Float32, gpu.StaticDraw), nil, gpu.Triangles)
	assert.Zero(t, empty.Count())
}

func TestInstancesAndLayout(t *testing.T) {
	g := Quad(1, 1)
	before := g.Layout()

	inst := buffer.NewComposite(gpu.Float32, gpu.DynamicDraw)
	_, err := inst.Set("offset", buffer.NewArray[float32](0, 0, 0, 1, 1, 1), 3)
	require.NoError(t, err)
	g.SetInstances(inst, 2)

	assert.True(t, g.Instanced())
	assert.Equal(t, 1, inst.Divisor())
	assert.NotEqual(t, before, g.Layout())

	ch, owner := g.Channel("offset")
	require.NotNil(t, ch)
	assert.Same(t, inst, owner)

	ch, owner = g.Channel(buffer.Position)
	require.NotNil(t, ch)
	assert.Same(t, g.Vertices, owner)
}
