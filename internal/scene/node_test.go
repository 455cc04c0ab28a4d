package scene

import (
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type event struct {
	inserted      bool
	parent, child string
	index         int
}

type recorder struct{ events []event }

func (r *recorder) ChildInserted(parent, child *Node, index int) {
	r.events = append(r.events, event{true, parent.Name, child.Name, index})
}

func (r *recorder) ChildRemoved(parent, child *Node, index int) {
	r.events = append(r.events, event{false, parent.Name, child.Name, index})
}

func TestAddChildRejectsCycles(t *testing.T) {
	root, child, grandchild := NewNode("root"), NewNode("child"), NewNode("grandchild")
	require.NoError(t, root.AddChild(child))
	require.NoError(t, child.AddChild(grandchild))

	rec := &recorder{}
	root.AddObserver(rec)

	assert.ErrorIs(t, root.AddChild(root), ErrInvalidHierarchy)
	assert.ErrorIs(t, grandchild.AddChild(root), ErrInvalidHierarchy)
	assert.ErrorIs(t, root.AddChild(nil), ErrInvalidHierarchy)
	assert.ErrorIs(t, root.RemoveChild(grandchild), ErrInvalidHierarchy)
	assert.Empty(t, rec.events, "rejected operations must not notify")
	assert.Same(t, child, grandchild.Parent())
}

func TestReparentDetachesFirst(t *testing.T) {
	root, a, b, x := NewNode("root"), NewNode("a"), NewNode("b"), NewNode("x")
	require.NoError(t, root.AddChild(a))
	require.NoError(t, root.AddChild(b))
	require.NoError(t, a.AddChild(x))

	rec := &recorder{}
	root.AddObserver(rec)
	require.NoError(t, b.AddChild(x))

	assert.Equal(t, []event{
		{false, "a", "x", 0},
		{true, "b", "x", 0},
	}, rec.events)
	assert.Empty(t, a.Children())
	assert.Equal(t, []*Node{x}, b.Children())
	assert.Same(t, b, x.Parent())
}

func TestInsertChildAtIndex(t *testing.T) {
	root := NewNode("root")
	a, b, c := NewNode("a"), NewNode("b"), NewNode("c")
	require.NoError(t, root.AddChild(a))
	require.NoError(t, root.AddChild(c))
	require.NoError(t, root.InsertChild(b, 1))
	assert.Equal(t, []*Node{a, b, c}, root.Children())

	require.NoError(t, c.Detach())
	assert.Nil(t, c.Parent())
	require.NoError(t, c.Detach())
	assert.Equal(t, []*Node{a, b}, root.Children())
}

func TestObserverRemoved(t *testing.T) {
	root, a := NewNode("root"), NewNode("a")
	rec := &recorder{}
	root.AddObserver(rec)
	root.RemoveObserver(rec)
	require.NoError(t, root.AddChild(a))
	assert.Empty(t, rec.events)
}

func TestWalkOrder(t *testing.T) {
	root, a, b, a1 := NewNode("root"), NewNode("a"), NewNode("b"), NewNode("a1")
	require.NoError(t, root.AddChild(a))
	require.NoError(t, root.AddChild(b))
	require.NoError(t, a.AddChild(a1))

	var names []string
	root.Walk(func(n *Node) bool {
		names = append(names, n.Name)
		return n != b
	})
	assert.Equal(t, []string{"root", "a", "a1", "b"}, names)
}

func randomVec(rng *rand.Rand) mgl32.Vec3 {
	return mgl32.Vec3{rng.Float32()*4 - 2, rng.Float32()*4 - 2, rng.Float32()*4 - 2}
}

// world(node) == world(parent) * local(node), world(root) == local(root).
func TestWorldTransformComposition(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	root := NewNode("root")
	nodes := []*Node{root}
	for i := 0; i < 30; i++ {
		n := NewNode("n")
		require.NoError(t, nodes[rng.Intn(len(nodes))].AddChild(n))
		nodes = append(nodes, n)
	}
	for _, n := range nodes {
		n.SetPosition(randomVec(rng))
		n.SetRotation(randomVec(rng))
		n.SetScale(mgl32.Vec3{1, 2, 1})
	}

	assert.True(t, root.World().ApproxEqual(root.Local()))
	for _, n := range nodes[1:] {
		want := n.Parent().World().Mul4(n.Local())
		assert.True(t, n.World().ApproxEqualThreshold(want, 1e-3), "world mismatch for node")
	}

	// Assembly leaves tree transforms alone.
	Assemble(root, nil)
	for _, n := range nodes[1:] {
		want := n.Parent().World().Mul4(n.Local())
		assert.True(t, n.World().ApproxEqualThreshold(want, 1e-3))
	}
}

func TestDetachResetsWorld(t *testing.T) {
	root, child := NewNode("root"), NewNode("child")
	root.SetPosition(mgl32.Vec3{5, 0, 0})
	require.NoError(t, root.AddChild(child))
	assert.Equal(t, float32(5), child.World().Col(3).X())

	require.NoError(t, child.Detach())
	assert.Equal(t, child.Local(), child.World())
}
