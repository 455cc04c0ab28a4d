package glctx

import (
	"testing"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/stretchr/testify/assert"

	"scenegl/internal/gpu"
)

// The tables are indexed by gpu enums; a missing trailing entry would panic
// at draw time.
func TestEnumTablesCoverEveryValue(t *testing.T) {
	assert.Len(t, elementTypes, int(gpu.Float32)+1)
	assert.Len(t, usages, int(gpu.StreamDraw)+1)
	assert.Len(t, bufferTargets, int(gpu.ElementArrayBuffer)+1)
	assert.Len(t, stages, int(gpu.FragmentStage)+1)
	assert.Len(t, topologies, int(gpu.Points)+1)
	assert.Len(t, cullFaces, int(gpu.CullFrontAndBack)+1)
	assert.Len(t, depthFuncs, int(gpu.DepthNever)+1)
	assert.Len(t, textureTargets, int(gpu.TextureCube)+1)
	assert.Len(t, filters, int(gpu.Nearest)+1)
	assert.Len(t, wraps, int(gpu.MirroredRepeat)+1)
	assert.Len(t, formats, int(gpu.R8)+1)
}

func TestEnumMapping(t *testing.T) {
	tests := []struct {
		name string
		got  uint32
		want uint32
	}{
		{"uint16 indices", elementTypes[gpu.Uint16], gl.UNSIGNED_SHORT},
		{"float", elementTypes[gpu.Float32], gl.FLOAT},
		{"element buffer", bufferTargets[gpu.ElementArrayBuffer], gl.ELEMENT_ARRAY_BUFFER},
		{"triangles", topologies[gpu.Triangles], gl.TRIANGLES},
		{"points", topologies[gpu.Points], gl.POINTS},
		{"cull back", cullFaces[gpu.CullBack], gl.BACK},
		{"lequal", depthFuncs[gpu.DepthLEqual], gl.LEQUAL},
		{"red layout", formats[gpu.R8].layout, gl.RED},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.got)
		})
	}
	assert.Equal(t, int32(gl.RGBA8), formats[gpu.RGBA8].internal)
	assert.Equal(t, int32(gl.REPEAT), wraps[gpu.Repeat])
}

func TestTextureTargetFaces(t *testing.T) {
	assert.Equal(t, uint32(gl.TEXTURE_2D), textureTarget(gpu.Texture2D, 3))
	assert.Equal(t, uint32(gl.TEXTURE_CUBE_MAP_POSITIVE_X), textureTarget(gpu.TextureCube, 0))
	assert.Equal(t, uint32(gl.TEXTURE_CUBE_MAP_NEGATIVE_Z), textureTarget(gpu.TextureCube, 5))
}

func TestReflectedSamplers(t *testing.T) {
	assert.Equal(t, gpu.Sampler2D, reflectedTypes[gl.SAMPLER_2D])
	assert.Equal(t, gpu.SamplerCube, reflectedTypes[gl.SAMPLER_CUBE])
	_, ok := reflectedTypes[gl.DOUBLE]
	assert.False(t, ok)
}
