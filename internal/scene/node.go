package scene

import (
	"errors"
	"fmt"

	"scenegl/internal/geometry"
	"scenegl/internal/graphics"

	"github.com/go-gl/mathgl/mgl32"
)

// ErrInvalidHierarchy rejects parenting a node under itself or one of its
// descendants, and removing a node that is not a child.
var ErrInvalidHierarchy = errors.New("scene: invalid hierarchy operation")

// Observer is notified synchronously by the mutation methods, after the tree
// has been updated. Observers registered on a node see mutations anywhere in
// its subtree.
type Observer interface {
	ChildInserted(parent, child *Node, index int)
	ChildRemoved(parent, child *Node, index int)
}

// Kind discriminates node payloads.
type Kind int

const (
	KindGroup Kind = iota
	KindMesh
	KindCamera
	KindLight
)

// Node is an element of the spatial tree.
type Node struct {
	Name    string
	Visible bool
	// Params carries shader inputs down the tree to every entry below.
	Params graphics.Params

	kind     Kind
	parent   *Node
	children []*Node

	local    mgl32.Mat4
	position mgl32.Vec3
	rotation mgl32.Vec3
	scale    mgl32.Vec3
	world    mgl32.Mat4

	entry  *Entry
	camera *graphics.Camera
	light  *Light

	observers []Observer
}

func NewNode(name string) *Node {
	return &Node{
		Name:    name,
		Visible: true,
		kind:    KindGroup,
		local:   mgl32.Ident4(),
		world:   mgl32.Ident4(),
		scale:   mgl32.Vec3{1, 1, 1},
	}
}

// NewMesh creates a node carrying a render entry.
func NewMesh(name string, g *geometry.Geometry, m *graphics.Material) *Node {
	n := NewNode(name)
	n.kind = KindMesh
	n.entry = &Entry{Material: m, Geometry: g, Params: graphics.Params{}, node: n}
	return n
}

func NewCamera(name string, c *graphics.Camera) *Node {
	n := NewNode(name)
	n.kind = KindCamera
	n.camera = c
	return n
}

func NewLight(name string, l *Light) *Node {
	n := NewNode(name)
	n.kind = KindLight
	n.light = l
	return n
}

func (n *Node) Kind() Kind { return n.kind }

func (n *Node) Parent() *Node { return n.parent }

// Children returns a copy of the ordered child list.
func (n *Node) Children() []*Node {
	out := make([]*Node, len(n.children))
	copy(out, n.children)
	return out
}

func (n *Node) Entry() *Entry { return n.entry }

func (n *Node) Camera() *graphics.Camera { return n.camera }

func (n *Node) Light() *Light { return n.light }

func (n *Node) AddObserver(o Observer) {
	n.observers = append(n.observers, o)
}

func (n *Node) RemoveObserver(o Observer) {
	for i, x := range n.observers {
		if x == o {
			n.observers = append(n.observers[:i], n.observers[i+1:]...)
			return
		}
	}
}

// IsAncestorOf reports whether n is other or one of other's ancestors.
func (n *Node) IsAncestorOf(other *Node) bool {
	for p := other; p != nil; p = p.parent {
		if p == n {
			return true
		}
	}
	return false
}

func (n *Node) AddChild(child *Node) error {
	return n.InsertChild(child, len(n.children))
}

// InsertChild inserts child at index, detaching it from its previous parent
// first. Index is clamped to the child count.
func (n *Node) InsertChild(child *Node, index int) error {
	if child == nil {
		return fmt.Errorf("%w: nil child", ErrInvalidHierarchy)
	}
	if child.IsAncestorOf(n) {
		return fmt.Errorf("%w: %q cannot be parented under %q", ErrInvalidHierarchy, child.Name, n.Name)
	}
	if child.parent != nil {
		if err := child.parent.RemoveChild(child); err != nil {
			return err
		}
	}
	index = max(0, min(index, len(n.children)))
	n.children = append(n.children, nil)
	copy(n.children[index+1:], n.children[index:])
	n.children[index] = child
	child.parent = n
	child.updateWorld(n.world)

	for p := n; p != nil; p = p.parent {
		for _, o := range p.observers {
			o.ChildInserted(n, child, index)
		}
	}
	return nil
}

func (n *Node) RemoveChild(child *Node) error {
	index := -1
	for i, c := range n.children {
		if c == child {
			index = i
			break
		}
	}
	if index < 0 {
		name := "<nil>"
		if child != nil {
			name = child.Name
		}
		return fmt.Errorf("%w: %q is not a child of %q", ErrInvalidHierarchy, name, n.Name)
	}
	n.children = append(n.children[:index], n.children[index+1:]...)
	child.parent = nil
	child.updateWorld(mgl32.Ident4())

	for p := n; p != nil; p = p.parent {
		for _, o := range p.observers {
			o.ChildRemoved(n, child, index)
		}
	}
	return nil
}

// Detach removes n from its parent, if any.
func (n *Node) Detach() error {
	if n.parent == nil {
		return nil
	}
	return n.parent.RemoveChild(n)
}

// Walk visits n and its descendants depth first, parent before children.
// Returning false from fn skips the node's children.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.children {
		c.Walk(fn)
	}
}
