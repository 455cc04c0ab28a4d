package binding

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
)

// floats flattens a parameter value into the scalar layout float uniforms
// and attributes are uploaded from. Matrices are column-major.
func floats(v any) ([]float32, bool) {
	switch x := v.(type) {
	case float32:
		return []float32{x}, true
	case float64:
		return []float32{float32(x)}, true
	case int:
		return []float32{float32(x)}, true
	case mgl32.Vec2:
		return x[:], true
	case mgl32.Vec3:
		return x[:], true
	case mgl32.Vec4:
		return x[:], true
	case mgl32.Mat2:
		return x[:], true
	case mgl32.Mat3:
		return x[:], true
	case mgl32.Mat4:
		return x[:], true
	case mgl64.Vec3:
		return narrow(x[:]), true
	case mgl64.Vec4:
		return narrow(x[:]), true
	case mgl64.Mat4:
		return narrow(x[:]), true
	case []float32:
		return x, true
	case []float64:
		return narrow(x), true
	case []mgl32.Vec2:
		return flatten(x), true
	case []mgl32.Vec3:
		return flatten(x), true
	case []mgl32.Vec4:
		return flatten(x), true
	case []mgl32.Mat3:
		return flatten(x), true
	case []mgl32.Mat4:
		return flatten(x), true
	}
	return nil, false
}

func narrow(v []float64) []float32 {
	out := make([]float32, len(v))
	for i, f := range v {
		out[i] = float32(f)
	}
	return out
}

func flatten[A interface {
	~[2]float32 | ~[3]float32 | ~[4]float32 | ~[9]float32 | ~[16]float32
}](v []A) []float32 {
	var out []float32
	for _, a := range v {
		switch x := any(a).(type) {
		case mgl32.Vec2:
			out = append(out, x[:]...)
		case mgl32.Vec3:
			out = append(out, x[:]...)
		case mgl32.Vec4:
			out = append(out, x[:]...)
		case mgl32.Mat3:
			out = append(out, x[:]...)
		case mgl32.Mat4:
			out = append(out, x[:]...)
		}
	}
	return out
}

// ints flattens integer and boolean values. Booleans become 0 or 1.
func ints(v any) ([]int32, bool) {
	switch x := v.(type) {
	case int:
		return []int32{int32(x)}, true
	case int32:
		return []int32{x}, true
	case int64:
		return []int32{int32(x)}, true
	case uint32:
		return []int32{int32(x)}, true
	case bool:
		return []int32{boolInt(x)}, true
	case [2]int32:
		return x[:], true
	case [3]int32:
		return x[:], true
	case [4]int32:
		return x[:], true
	case []int32:
		return x, true
	case []int:
		out := make([]int32, len(x))
		for i, n := range x {
			out[i] = int32(n)
		}
		return out, true
	case []bool:
		out := make([]int32, len(x))
		for i, b := range x {
			out[i] = boolInt(b)
		}
		return out, true
	}
	return nil, false
}

func boolInt(b bool) int32 {
	if b {
		return 1
	}
	return 0
}
