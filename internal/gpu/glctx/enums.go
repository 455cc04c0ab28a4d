package glctx

import (
	"github.com/go-gl/gl/v4.1-core/gl"

	"scenegl/internal/gpu"
)

var elementTypes = [...]uint32{
	gpu.Int8:    gl.BYTE,
	gpu.Uint8:   gl.UNSIGNED_BYTE,
	gpu.Int16:   gl.SHORT,
	gpu.Uint16:  gl.UNSIGNED_SHORT,
	gpu.Int32:   gl.INT,
	gpu.Uint32:  gl.UNSIGNED_INT,
	gpu.Float32: gl.FLOAT,
}

var usages = [...]uint32{
	gpu.StaticDraw:  gl.STATIC_DRAW,
	gpu.DynamicDraw: gl.DYNAMIC_DRAW,
	gpu.StreamDraw:  gl.STREAM_DRAW,
}

var bufferTargets = [...]uint32{
	gpu.ArrayBuffer:        gl.ARRAY_BUFFER,
	gpu.ElementArrayBuffer: gl.ELEMENT_ARRAY_BUFFER,
}

var stages = [...]uint32{
	gpu.VertexStage:   gl.VERTEX_SHADER,
	gpu.FragmentStage: gl.FRAGMENT_SHADER,
}

var topologies = [...]uint32{
	gpu.Triangles:     gl.TRIANGLES,
	gpu.TriangleStrip: gl.TRIANGLE_STRIP,
	gpu.TriangleFan:   gl.TRIANGLE_FAN,
	gpu.Lines:         gl.LINES,
	gpu.LineStrip:     gl.LINE_STRIP,
	gpu.LineLoop:      gl.LINE_LOOP,
	gpu.Points:        gl.POINTS,
}

var cullFaces = [...]uint32{
	gpu.CullBack:         gl.BACK,
	gpu.CullFront:        gl.FRONT,
	gpu.CullFrontAndBack: gl.FRONT_AND_BACK,
}

var depthFuncs = [...]uint32{
	gpu.DepthLess:     gl.LESS,
	gpu.DepthLEqual:   gl.LEQUAL,
	gpu.DepthEqual:    gl.EQUAL,
	gpu.DepthGreater:  gl.GREATER,
	gpu.DepthGEqual:   gl.GEQUAL,
	gpu.DepthNotEqual: gl.NOTEQUAL,
	gpu.DepthAlways:   gl.ALWAYS,
	gpu.DepthNever:    gl.NEVER,
}

var textureTargets = [...]uint32{
	gpu.Texture2D:   gl.TEXTURE_2D,
	gpu.TextureCube: gl.TEXTURE_CUBE_MAP,
}

var filters = [...]int32{
	gpu.Linear:  gl.LINEAR,
	gpu.Nearest: gl.NEAREST,
}

var wraps = [...]int32{
	gpu.ClampToEdge:    gl.CLAMP_TO_EDGE,
	gpu.Repeat:         gl.REPEAT,
	gpu.MirroredRepeat: gl.MIRRORED_REPEAT,
}

// formats maps a texture format to its internal format and pixel layout.
var formats = [...]struct {
	internal int32
	layout   uint32
}{
	gpu.RGBA8: {gl.RGBA8, gl.RGBA},
	gpu.RGB8:  {gl.RGB8, gl.RGB},
	gpu.R8:    {gl.R8, gl.RED},
}

var reflectedTypes = map[uint32]gpu.Type{
	gl.FLOAT:        gpu.Float,
	gl.FLOAT_VEC2:   gpu.FloatVec2,
	gl.FLOAT_VEC3:   gpu.FloatVec3,
	gl.FLOAT_VEC4:   gpu.FloatVec4,
	gl.INT:          gpu.Int,
	gl.INT_VEC2:     gpu.IntVec2,
	gl.INT_VEC3:     gpu.IntVec3,
	gl.INT_VEC4:     gpu.IntVec4,
	gl.BOOL:         gpu.Bool,
	gl.BOOL_VEC2:    gpu.BoolVec2,
	gl.BOOL_VEC3:    gpu.BoolVec3,
	gl.BOOL_VEC4:    gpu.BoolVec4,
	gl.FLOAT_MAT2:   gpu.FloatMat2,
	gl.FLOAT_MAT3:   gpu.FloatMat3,
	gl.FLOAT_MAT4:   gpu.FloatMat4,
	gl.SAMPLER_2D:   gpu.Sampler2D,
	gl.SAMPLER_CUBE: gpu.SamplerCube,
}

// textureTarget picks the upload target: cube maps address one face.
func textureTarget(target gpu.TextureTarget, face int) uint32 {
	if target == gpu.TextureCube {
		return gl.TEXTURE_CUBE_MAP_POSITIVE_X + uint32(face)
	}
	return gl.TEXTURE_2D
}
