package buffer

import (
	"unsafe"

	"scenegl/internal/gpu"

	"golang.org/x/exp/constraints"
)

// Element is the set of Go types that can back GPU buffer data.
type Element interface {
	int8 | uint8 | int16 | uint16 | int32 | uint32 | float32
}

// Data is typed numeric storage that can be uploaded as-is.
type Data interface {
	Len() int
	Type() gpu.ElementType
	// Bytes views the storage without copying.
	Bytes() []byte
	At(i int) float64
}

// Array is a typed slice implementing Data.
type Array[T Element] []T

func NewArray[T Element](v ...T) Array[T] { return Array[T](v) }

func (a Array[T]) Len() int { return len(a) }

func (a Array[T]) Type() gpu.ElementType { return elementType[T]() }

func (a Array[T]) Bytes() []byte {
	if len(a) == 0 {
		return nil
	}
	var zero T
	return unsafe.Slice((*byte)(unsafe.Pointer(&a[0])), len(a)*int(unsafe.Sizeof(zero)))
}

func (a Array[T]) At(i int) float64 { return float64(a[i]) }

func elementType[T Element]() gpu.ElementType {
	var zero T
	switch any(zero).(type) {
	case int8:
		return gpu.Int8
	case uint8:
		return gpu.Uint8
	case int16:
		return gpu.Int16
	case uint16:
		return gpu.Uint16
	case int32:
		return gpu.Int32
	case uint32:
		return gpu.Uint32
	}
	return gpu.Float32
}

// Convert returns d as the given element type. The element count is always
// preserved; values are converted with Go conversion rules.
func Convert(d Data, to gpu.ElementType) Data {
	if d == nil {
		return nil
	}
	if d.Type() == to {
		return d
	}
	switch to {
	case gpu.Int8:
		return convert[int8](d)
	case gpu.Uint8:
		return convert[uint8](d)
	case gpu.Int16:
		return convert[int16](d)
	case gpu.Uint16:
		return convert[uint16](d)
	case gpu.Int32:
		return convert[int32](d)
	case gpu.Uint32:
		return convert[uint32](d)
	}
	return convert[float32](d)
}

func convert[T Element](d Data) Array[T] {
	out := make(Array[T], d.Len())
	for i := range out {
		out[i] = T(d.At(i))
	}
	return out
}

// FromSlice promotes a plain Go slice to typed storage of the given element type.
func FromSlice[S constraints.Integer | constraints.Float](s []S, to gpu.ElementType) Data {
	return Convert(plain[S](s), to)
}

// plain adapts an arbitrary numeric slice to Data for conversion only. Its
// type never matches a real element type, so Convert always copies it.
type plain[S constraints.Integer | constraints.Float] []S

func (p plain[S]) Len() int              { return len(p) }
func (p plain[S]) Type() gpu.ElementType { return -1 }
func (p plain[S]) Bytes() []byte         { return nil }
func (p plain[S]) At(i int) float64      { return float64(p[i]) }
