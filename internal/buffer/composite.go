package buffer

import (
	"fmt"

	"scenegl/internal/gpu"
	"scenegl/internal/resource"
)

// Standard channel names. They double as vertex attribute names.
const (
	Position = "position"
	Normal   = "normal"
	Color    = "color"
	UV       = "uv"
)

// Composite groups named channels of one element type into a tightly
// interleaved vertex layout. A channel's offset is the sum of the steps of
// the channels before it; the stride is the sum of all steps.
type Composite struct {
	resource.Object

	elem     gpu.ElementType
	usage    gpu.Usage
	divisor  int
	channels []*Buffer
	layout   int
}

func NewComposite(elem gpu.ElementType, usage gpu.Usage) *Composite {
	return &Composite{
		Object: resource.NewObject(),
		elem:   elem,
		usage:  usage,
	}
}

// Set assigns a channel. The first assignment appends a new channel; later
// assignments replace the data in place, keeping the channel's position.
func (c *Composite) Set(name string, d Data, step int) (*Buffer, error) {
	d = Convert(d, c.elem)
	if ch := c.Channel(name); ch != nil {
		if step != ch.step {
			return nil, fmt.Errorf("%w: channel %q declared with step %d, got %d", ErrArity, name, ch.step, step)
		}
		return ch, ch.Set(d)
	}
	if err := checkArity(d, step); err != nil {
		return nil, fmt.Errorf("channel %q: %w", name, err)
	}
	ch := &Buffer{
		Object: resource.NewObject(),
		name:   name,
		data:   d,
		step:   step,
		usage:  c.usage,
		target: gpu.ArrayBuffer,
		parent: c,
	}
	c.channels = append(c.channels, ch)
	c.layout++
	c.MarkDirty()
	return ch, nil
}

func (c *Composite) SetPosition(d Data) error {
	_, err := c.Set(Position, d, 3)
	return err
}

func (c *Composite) SetNormal(d Data) error {
	_, err := c.Set(Normal, d, 3)
	return err
}

func (c *Composite) SetColor(d Data) error {
	_, err := c.Set(Color, d, 4)
	return err
}

func (c *Composite) SetUV(d Data) error {
	_, err := c.Set(UV, d, 2)
	return err
}

func (c *Composite) Channel(name string) *Buffer {
	for _, ch := range c.channels {
		if ch.name == name {
			return ch
		}
	}
	return nil
}

// Channels returns the channels in layout order.
func (c *Composite) Channels() []*Buffer {
	out := make([]*Buffer, len(c.channels))
	copy(out, c.channels)
	return out
}

// Remove drops a channel; later channels shift down by its step.
func (c *Composite) Remove(name string) bool {
	for i, ch := range c.channels {
		if ch.name != name {
			continue
		}
		c.channels = append(c.channels[:i], c.channels[i+1:]...)
		ch.parent = nil
		c.layout++
		c.MarkDirty()
		return true
	}
	return false
}

func (c *Composite) ElementType() gpu.ElementType { return c.elem }

func (c *Composite) Usage() gpu.Usage { return c.usage }

func (c *Composite) Target() gpu.BufferTarget { return gpu.ArrayBuffer }

// Divisor is the instancing rate: 0 for per-vertex data, n to advance once
// every n instances.
func (c *Composite) Divisor() int { return c.divisor }

func (c *Composite) SetDivisor(n int) {
	c.divisor = n
	c.layout++
}

// LayoutVersion changes whenever channels are added or removed, or the
// divisor changes. Vertex-binding sets built on an older layout are stale.
func (c *Composite) LayoutVersion() int { return c.layout }

// Stride is the byte size of one interleaved vertex.
func (c *Composite) Stride() int {
	n := 0
	for _, ch := range c.channels {
		n += ch.step
	}
	return n * c.elem.Size()
}

func (c *Composite) offsetOf(b *Buffer) int {
	n := 0
	for _, ch := range c.channels {
		if ch == b {
			return n * c.elem.Size()
		}
		n += ch.step
	}
	return 0
}

// Count is the number of whole vertices present in every channel.
func (c *Composite) Count() int {
	if len(c.channels) == 0 {
		return 0
	}
	n := c.channels[0].Count()
	for _, ch := range c.channels[1:] {
		n = min(n, ch.Count())
	}
	return n
}

// Len is the total element count of the interleaved data.
func (c *Composite) Len() int {
	return c.Count() * c.Stride() / c.elem.Size()
}

// Bytes returns the interleaved vertex data.
func (c *Composite) Bytes() []byte {
	count, stride := c.Count(), c.Stride()
	out := make([]byte, count*stride)
	for _, ch := range c.channels {
		src := ch.Bytes()
		width := ch.step * c.elem.Size()
		off := c.offsetOf(ch)
		for v := 0; v < count; v++ {
			copy(out[v*stride+off:v*stride+off+width], src[v*width:(v+1)*width])
		}
	}
	return out
}
