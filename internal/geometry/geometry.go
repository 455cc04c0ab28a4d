package geometry

import (
	"scenegl/internal/buffer"
	"scenegl/internal/gpu"
	"scenegl/internal/resource"
)

// Geometry is drawable vertex data: an interleaved vertex composite, an
// optional index buffer and an optional per-instance composite.
type Geometry struct {
	resource.Object

	Vertices *buffer.Composite
	Index    *buffer.Buffer
	Topology gpu.Topology

	Instances     *buffer.Composite
	InstanceCount int
}

func New(vertices *buffer.Composite, index *buffer.Buffer, topology gpu.Topology) *Geometry {
	return &Geometry{
		Object:   resource.NewObject(),
		Vertices: vertices,
		Index:    index,
		Topology: topology,
	}
}

// Count is the number of elements a draw consumes: the index length when
// indexed, else the vertex count.
func (g *Geometry) Count() int {
	if g.Index != nil {
		return g.Index.Count()
	}
	return g.VertexCount()
}

func (g *Geometry) VertexCount() int {
	if g.Vertices == nil {
		return 0
	}
	return g.Vertices.Count()
}

// SetInstances attaches per-instance data drawn count times. A composite
// without a divisor advances once per instance.
func (g *Geometry) SetInstances(c *buffer.Composite, count int) {
	if c != nil && c.Divisor() == 0 {
		c.SetDivisor(1)
	}
	g.Instances = c
	g.InstanceCount = count
}

func (g *Geometry) Instanced() bool {
	return g.Instances != nil && g.Instances.Divisor() > 0 && g.InstanceCount > 0
}

// Layout identifies the attribute layout; a vertex-binding set must be
// rebuilt when it changes.
type Layout struct {
	Vertices    int
	VerticesID  resource.ID
	Instances   int
	InstancesID resource.ID
	Index       resource.ID
}

func (g *Geometry) Layout() Layout {
	var l Layout
	if g.Vertices != nil {
		l.Vertices, l.VerticesID = g.Vertices.LayoutVersion(), g.Vertices.ID()
	}
	if g.Instances != nil {
		l.Instances, l.InstancesID = g.Instances.LayoutVersion(), g.Instances.ID()
	}
	if g.Index != nil {
		l.Index = g.Index.ID()
	}
	return l
}

// Channel finds a named stream in the vertex or instance composite.
func (g *Geometry) Channel(name string) (*buffer.Buffer, *buffer.Composite) {
	if g.Vertices != nil {
		if ch := g.Vertices.Channel(name); ch != nil {
			return ch, g.Vertices
		}
	}
	if g.Instances != nil {
		if ch := g.Instances.Channel(name); ch != nil {
			return ch, g.Instances
		}
	}
	return nil, nil
}
