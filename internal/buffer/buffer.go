package buffer

import (
	"errors"
	"fmt"

	"scenegl/internal/gpu"
	"scenegl/internal/resource"
)

var (
	// ErrArity is returned when data does not divide into whole vertices of
	// the channel's declared step, or when a channel is re-declared with a
	// different step.
	ErrArity = errors.New("buffer: data arity does not match channel step")
	// ErrElementType is returned for index data that is not unsigned.
	ErrElementType = errors.New("buffer: unsupported element type")
)

// Source is anything the GPU cache can upload as a single buffer object.
type Source interface {
	ID() resource.ID
	Dirty() bool
	ClearDirty()
	Bytes() []byte
	Usage() gpu.Usage
	Target() gpu.BufferTarget
}

// Buffer is a block of typed data read step elements at a time. It is either
// standalone or a channel of a Composite.
type Buffer struct {
	resource.Object

	name   string
	data   Data
	step   int
	usage  gpu.Usage
	target gpu.BufferTarget
	parent *Composite
}

// New creates a standalone vertex buffer.
func New(data Data, step int, usage gpu.Usage) (*Buffer, error) {
	if err := checkArity(data, step); err != nil {
		return nil, err
	}
	return &Buffer{
		Object: resource.NewObject(),
		data:   data,
		step:   step,
		usage:  usage,
		target: gpu.ArrayBuffer,
	}, nil
}

// NewIndex creates an index buffer. Data of a signed or float type is
// converted to uint32.
func NewIndex(data Data) (*Buffer, error) {
	data, err := indexData(data)
	if err != nil {
		return nil, err
	}
	return &Buffer{
		Object: resource.NewObject(),
		data:   data,
		step:   1,
		usage:  gpu.StaticDraw,
		target: gpu.ElementArrayBuffer,
	}, nil
}

func indexData(d Data) (Data, error) {
	if d == nil {
		return nil, fmt.Errorf("%w: nil index data", ErrElementType)
	}
	switch d.Type() {
	case gpu.Uint8, gpu.Uint16, gpu.Uint32:
		return d, nil
	}
	return Convert(d, gpu.Uint32), nil
}

func checkArity(d Data, step int) error {
	if step <= 0 {
		return fmt.Errorf("%w: step %d", ErrArity, step)
	}
	if d != nil && d.Len()%step != 0 {
		return fmt.Errorf("%w: %d elements, step %d", ErrArity, d.Len(), step)
	}
	return nil
}

func (b *Buffer) Name() string { return b.name }

func (b *Buffer) Data() Data { return b.data }

func (b *Buffer) Type() gpu.ElementType {
	if b.parent != nil {
		return b.parent.elem
	}
	if b.data == nil {
		return gpu.Float32
	}
	return b.data.Type()
}

// Len is the total element count.
func (b *Buffer) Len() int {
	if b.data == nil {
		return 0
	}
	return b.data.Len()
}

// Step is the number of elements per vertex.
func (b *Buffer) Step() int { return b.step }

// Count is the number of vertices (or indices for an index buffer).
func (b *Buffer) Count() int { return b.Len() / b.step }

// Stride is the byte distance between consecutive vertices. Channels of a
// composite share the composite's stride.
func (b *Buffer) Stride() int {
	if b.parent != nil {
		return b.parent.Stride()
	}
	return b.step * b.Type().Size()
}

// Offset is the byte offset of the first vertex relative to the start of the
// enclosing composite. Standalone buffers have offset zero.
func (b *Buffer) Offset() int {
	if b.parent != nil {
		return b.parent.offsetOf(b)
	}
	return 0
}

func (b *Buffer) Parent() *Composite { return b.parent }

func (b *Buffer) Usage() gpu.Usage {
	if b.parent != nil {
		return b.parent.usage
	}
	return b.usage
}

func (b *Buffer) Target() gpu.BufferTarget { return b.target }

func (b *Buffer) Bytes() []byte {
	if b.data == nil {
		return nil
	}
	return b.data.Bytes()
}

// Set replaces the buffer content in place. Data of another element type is
// converted; the step is kept, so data must divide into whole vertices.
func (b *Buffer) Set(d Data) error {
	switch {
	case b.target == gpu.ElementArrayBuffer:
		var err error
		if d, err = indexData(d); err != nil {
			return err
		}
	default:
		d = Convert(d, b.Type())
		if err := checkArity(d, b.step); err != nil {
			return err
		}
	}
	b.data = d
	b.MarkDirty()
	if b.parent != nil {
		b.parent.MarkDirty()
	}
	return nil
}
