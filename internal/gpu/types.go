package gpu

import "fmt"

// Handle is an opaque driver-allocated object name.
type Handle uint32

// NoHandle unbinds a category (and names the default framebuffer). It is a
// value passed to the context, never a marker for "not created yet".
const NoHandle Handle = 0

// Location is a reflected uniform or attribute slot.
type Location int32

const NoLocation Location = -1

// ElementType is the numeric type of buffer elements.
type ElementType int

const (
	Int8 ElementType = iota
	Uint8
	Int16
	Uint16
	Int32
	Uint32
	Float32
)

// Size returns the byte size of one element.
func (e ElementType) Size() int {
	switch e {
	case Int8, Uint8:
		return 1
	case Int16, Uint16:
		return 2
	default:
		return 4
	}
}

func (e ElementType) String() string {
	switch e {
	case Int8:
		return "int8"
	case Uint8:
		return "uint8"
	case Int16:
		return "int16"
	case Uint16:
		return "uint16"
	case Int32:
		return "int32"
	case Uint32:
		return "uint32"
	case Float32:
		return "float32"
	}
	return fmt.Sprintf("ElementType(%d)", int(e))
}

// Usage is the upload frequency hint of a buffer.
type Usage int

const (
	StaticDraw Usage = iota
	DynamicDraw
	StreamDraw
)

type BufferTarget int

const (
	ArrayBuffer BufferTarget = iota
	ElementArrayBuffer
)

type ShaderStage int

const (
	VertexStage ShaderStage = iota
	FragmentStage
)

func (s ShaderStage) String() string {
	if s == VertexStage {
		return "vertex"
	}
	return "fragment"
}

// Topology is the primitive assembly mode of a draw.
type Topology int

const (
	Triangles Topology = iota
	TriangleStrip
	TriangleFan
	Lines
	LineStrip
	LineLoop
	Points
)

// CullMode selects the faces discarded by the rasterizer. CullOff disables
// culling entirely.
type CullMode int

const (
	CullOff CullMode = iota
	CullBack
	CullFront
	CullFrontAndBack
)

// DepthFunc is the depth comparison. DepthOff disables the depth test.
type DepthFunc int

const (
	DepthOff DepthFunc = iota
	DepthLess
	DepthLEqual
	DepthEqual
	DepthGreater
	DepthGEqual
	DepthNotEqual
	DepthAlways
	DepthNever
)

type TextureTarget int

const (
	Texture2D TextureTarget = iota
	TextureCube
)

type TextureFormat int

const (
	RGBA8 TextureFormat = iota
	RGB8
	R8
)

// Channels returns bytes per pixel.
func (f TextureFormat) Channels() int {
	switch f {
	case RGB8:
		return 3
	case R8:
		return 1
	}
	return 4
}

type Filter int

const (
	Linear Filter = iota
	Nearest
)

type Wrap int

const (
	ClampToEdge Wrap = iota
	Repeat
	MirroredRepeat
)

// Rect is a pixel rectangle with a bottom-left origin.
type Rect struct {
	X, Y, W, H int
}

// Type is the reflected type of an active uniform or attribute.
type Type int

const (
	UnknownType Type = iota
	Float
	FloatVec2
	FloatVec3
	FloatVec4
	Int
	IntVec2
	IntVec3
	IntVec4
	Bool
	BoolVec2
	BoolVec3
	BoolVec4
	FloatMat2
	FloatMat3
	FloatMat4
	Sampler2D
	SamplerCube
)

// Components returns the number of scalars in one value of the type.
func (t Type) Components() int {
	switch t {
	case Float, Int, Bool, Sampler2D, SamplerCube:
		return 1
	case FloatVec2, IntVec2, BoolVec2:
		return 2
	case FloatVec3, IntVec3, BoolVec3:
		return 3
	case FloatVec4, IntVec4, BoolVec4, FloatMat2:
		return 4
	case FloatMat3:
		return 9
	case FloatMat4:
		return 16
	}
	return 0
}

// Dim returns the vector width or matrix order of the type.
func (t Type) Dim() int {
	switch t {
	case FloatMat2:
		return 2
	case FloatMat3:
		return 3
	case FloatMat4:
		return 4
	}
	return t.Components()
}

func (t Type) IsMatrix() bool { return t == FloatMat2 || t == FloatMat3 || t == FloatMat4 }

func (t Type) IsSampler() bool { return t == Sampler2D || t == SamplerCube }

// IsFloat reports whether values are uploaded through the float entry points.
func (t Type) IsFloat() bool {
	switch t {
	case Float, FloatVec2, FloatVec3, FloatVec4, FloatMat2, FloatMat3, FloatMat4:
		return true
	}
	return false
}

func (t Type) String() string {
	switch t {
	case Float:
		return "float"
	case FloatVec2:
		return "vec2"
	case FloatVec3:
		return "vec3"
	case FloatVec4:
		return "vec4"
	case Int:
		return "int"
	case IntVec2:
		return "ivec2"
	case IntVec3:
		return "ivec3"
	case IntVec4:
		return "ivec4"
	case Bool:
		return "bool"
	case BoolVec2:
		return "bvec2"
	case BoolVec3:
		return "bvec3"
	case BoolVec4:
		return "bvec4"
	case FloatMat2:
		return "mat2"
	case FloatMat3:
		return "mat3"
	case FloatMat4:
		return "mat4"
	case Sampler2D:
		return "sampler2D"
	case SamplerCube:
		return "samplerCube"
	}
	return "unknown"
}

// ActiveInfo describes one reflected uniform or attribute. Code is the raw
// driver type enum, kept for diagnostics when Type is UnknownType.
type ActiveInfo struct {
	Name string
	Type Type
	Size int
	Code uint32
}
