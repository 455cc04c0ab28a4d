package buffer

import (
	"math/rand"
	"testing"

	"scenegl/internal/gpu"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBufferCountAndStride(t *testing.T) {
	b, err := New(NewArray[float32](0, 0, 0, 1, 1, 1), 3, gpu.StaticDraw)
	require.NoError(t, err)
	assert.Equal(t, 6, b.Len())
	assert.Equal(t, 2, b.Count())
	assert.Equal(t, 12, b.Stride())
	assert.Equal(t, 0, b.Offset())
	assert.Len(t, b.Bytes(), 24)
}

func TestBufferArity(t *testing.T) {
	_, err := New(NewArray[float32](1, 2, 3, 4), 3, gpu.StaticDraw)
	assert.ErrorIs(t, err, ErrArity)

	b, err := New(NewArray[float32](1, 2, 3), 3, gpu.StaticDraw)
	require.NoError(t, err)
	assert.ErrorIs(t, b.Set(NewArray[float32](1, 2)), ErrArity)
}

func TestBufferSetConvertsAndMarksDirty(t *testing.T) {
	b, err := New(NewArray[float32](1, 2), 2, gpu.DynamicDraw)
	require.NoError(t, err)
	b.ClearDirty()

	require.NoError(t, b.Set(NewArray[int32](3, 4, 5, 6)))
	assert.True(t, b.Dirty())
	assert.Equal(t, gpu.Float32, b.Data().Type())
	assert.Equal(t, Array[float32]{3, 4, 5, 6}, b.Data())
}

func TestFromSlicePromotes(t *testing.T) {
	d := FromSlice([]float64{1.5, 2, 3}, gpu.Float32)
	assert.Equal(t, Array[float32]{1.5, 2, 3}, d)

	ints := FromSlice([]int{7, 8}, gpu.Uint16)
	assert.Equal(t, Array[uint16]{7, 8}, ints)
}

func TestNewIndex(t *testing.T) {
	idx, err := NewIndex(NewArray[uint16](0, 1, 2))
	require.NoError(t, err)
	assert.Equal(t, gpu.ElementArrayBuffer, idx.Target())
	assert.Equal(t, 3, idx.Count())
	assert.Equal(t, gpu.Uint16, idx.Type())

	signed, err := NewIndex(NewArray[int32](0, 1, 2))
	require.NoError(t, err)
	assert.Equal(t, gpu.Uint32, signed.Type())

	_, err = NewIndex(nil)
	assert.ErrorIs(t, err, ErrElementType)
}

func TestCompositeLayout(t *testing.T) {
	c := NewComposite(gpu.Float32, gpu.StaticDraw)
	require.NoError(t, c.SetPosition(NewArray[float32](0, 0, 0, 1, 1, 1)))
	require.NoError(t, c.SetNormal(NewArray[float32](0, 0, 1, 0, 0, 1)))
	require.NoError(t, c.SetUV(NewArray[float32](0, 0, 1, 1)))

	assert.Equal(t, 32, c.Stride())
	assert.Equal(t, 0, c.Channel(Position).Offset())
	assert.Equal(t, 12, c.Channel(Normal).Offset())
	assert.Equal(t, 24, c.Channel(UV).Offset())
	assert.Equal(t, 32, c.Channel(UV).Stride())
	assert.Equal(t, 2, c.Count())
	assert.Equal(t, 16, c.Len())
}

func TestCompositeReplaceKeepsPosition(t *testing.T) {
	c := NewComposite(gpu.Float32, gpu.StaticDraw)
	require.NoError(t, c.SetPosition(NewArray[float32](0, 0, 0)))
	require.NoError(t, c.SetColor(NewArray[float32](1, 1, 1, 1)))
	version := c.LayoutVersion()

	require.NoError(t, c.SetPosition(FromSlice([]float64{5, 5, 5}, gpu.Float32)))
	assert.Equal(t, version, c.LayoutVersion())
	assert.Equal(t, Position, c.Channels()[0].Name())
	assert.Equal(t, 12, c.Channel(Color).Offset())

	_, err := c.Set(Position, NewArray[float32](1, 2), 2)
	assert.ErrorIs(t, err, ErrArity)
}

func TestCompositeInterleaves(t *testing.T) {
	c := NewComposite(gpu.Uint8, gpu.StaticDraw)
	_, err := c.Set("a", NewArray[uint8](1, 2, 3, 4), 2)
	require.NoError(t, err)
	_, err = c.Set("b", NewArray[uint8](9, 8), 1)
	require.NoError(t, err)

	assert.Equal(t, []byte{1, 2, 9, 3, 4, 8}, c.Bytes())
}

func TestCompositeChildSetMarksParentDirty(t *testing.T) {
	c := NewComposite(gpu.Float32, gpu.StaticDraw)
	require.NoError(t, c.SetUV(NewArray[float32](0, 0)))
	c.ClearDirty()

	require.NoError(t, c.Channel(UV).Set(NewArray[float32](1, 1)))
	assert.True(t, c.Dirty())
}

// Offsets must equal the sum of the strides of earlier channels after any
// sequence of insertions, replacements and removals.
func TestCompositeOffsetInvariant(t *testing.T) {
	names := []string{Position, Normal, Color, UV}
	steps := map[string]int{Position: 3, Normal: 3, Color: 4, UV: 2}
	rng := rand.New(rand.NewSource(7))

	for run := 0; run < 200; run++ {
		c := NewComposite(gpu.Float32, gpu.StaticDraw)
		for op := 0; op < 12; op++ {
			name := names[rng.Intn(len(names))]
			if rng.Intn(4) == 0 {
				c.Remove(name)
			} else {
				data := make([]float64, steps[name]*(1+rng.Intn(3)))
				_, err := c.Set(name, FromSlice(data, gpu.Float32), steps[name])
				require.NoError(t, err)
			}

			want, total := 0, 0
			for _, ch := range c.Channels() {
				assert.Equal(t, want, ch.Offset())
				width := ch.Step() * gpu.Float32.Size()
				want += width
				total += width
			}
			assert.Equal(t, total, c.Stride())
		}
	}
}
