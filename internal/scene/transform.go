package scene

import "github.com/go-gl/mathgl/mgl32"

// Local returns the node's transform relative to its parent.
func (n *Node) Local() mgl32.Mat4 { return n.local }

// SetLocal replaces the local transform with an arbitrary matrix.
func (n *Node) SetLocal(m mgl32.Mat4) {
	n.local = m
	n.refresh()
}

func (n *Node) SetPosition(p mgl32.Vec3) {
	n.position = p
	n.compose()
}

// SetRotation sets Euler angles in radians, applied X then Y then Z.
func (n *Node) SetRotation(r mgl32.Vec3) {
	n.rotation = r
	n.compose()
}

func (n *Node) SetScale(s mgl32.Vec3) {
	n.scale = s
	n.compose()
}

func (n *Node) Position() mgl32.Vec3 { return n.position }

func (n *Node) compose() {
	r := mgl32.HomogRotate3DZ(n.rotation.Z()).
		Mul4(mgl32.HomogRotate3DY(n.rotation.Y())).
		Mul4(mgl32.HomogRotate3DX(n.rotation.X()))
	n.local = mgl32.Translate3D(n.position.X(), n.position.Y(), n.position.Z()).
		Mul4(r).
		Mul4(mgl32.Scale3D(n.scale.X(), n.scale.Y(), n.scale.Z()))
	n.refresh()
}

func (n *Node) refresh() {
	parent := mgl32.Ident4()
	if n.parent != nil {
		parent = n.parent.world
	}
	n.updateWorld(parent)
}

// World returns parent world composed with the local transform.
func (n *Node) World() mgl32.Mat4 { return n.world }

func (n *Node) updateWorld(parent mgl32.Mat4) {
	n.world = parent.Mul4(n.local)
	for _, c := range n.children {
		c.updateWorld(n.world)
	}
}
