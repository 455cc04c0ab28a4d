package resource

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewObjectStartsDirty(t *testing.T) {
	o := NewObject()
	assert.True(t, o.Dirty())
	assert.NotEmpty(t, o.ID())

	o.ClearDirty()
	assert.False(t, o.Dirty())
	o.MarkDirty()
	assert.True(t, o.Dirty())
}

func TestIDsAreDistinct(t *testing.T) {
	a, b := NewObject(), NewObject()
	assert.NotEqual(t, a.ID(), b.ID())
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "program", KindProgram.String())
	assert.Equal(t, "vertex-binding", KindVertexBinding.String())
	assert.Equal(t, "unknown", Kind(42).String())
}
