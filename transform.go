package showroom

import (
	"github.com/go-gl/mathgl/mgl32"
)

// computeLocalTransform computes the local matrix from the node's transform
// properties.
//
// Composition order:
//
//	Scale -> RotateZ -> RotateX -> RotateY -> Translate
func computeLocalTransform(n *Node) mgl32.Mat4 {
	m := mgl32.Translate3D(n.Position[0], n.Position[1], n.Position[2])
	if n.Rotation != (mgl32.Vec3{}) {
		m = m.Mul4(mgl32.HomogRotate3DY(n.Rotation[1]))
		m = m.Mul4(mgl32.HomogRotate3DX(n.Rotation[0]))
		m = m.Mul4(mgl32.HomogRotate3DZ(n.Rotation[2]))
	}
	return m.Mul4(mgl32.Scale3D(n.Scale[0], n.Scale[1], n.Scale[2]))
}

// updateWorldTransform recomputes a node's world matrix and its inverse.
// parentRecomputed indicates whether the parent was recomputed this frame,
// which forces recomputation of this node even if it's not dirty.
func updateWorldTransform(n *Node, parent mgl32.Mat4, parentRecomputed bool) {
	recompute := n.transformDirty || parentRecomputed
	if recompute {
		n.worldMatrix = parent.Mul4(computeLocalTransform(n))
		n.invertible = n.worldMatrix.Det() != 0
		if n.invertible {
			n.invWorldMatrix = n.worldMatrix.Inv()
		}
		n.transformDirty = false
	}

	for _, child := range n.children {
		updateWorldTransform(child, n.worldMatrix, recompute)
	}
}

// UpdateTransforms recomputes dirty world matrices for n and its subtree.
// n is treated as a root.
func (n *Node) UpdateTransforms() {
	updateWorldTransform(n, mgl32.Ident4(), false)
}

// --- Transform property setters ---

// SetPosition sets the local position and marks the subtree dirty.
func (n *Node) SetPosition(x, y, z float32) {
	n.Position = mgl32.Vec3{x, y, z}
	n.transformDirty = true
}

// SetRotation sets the local Euler rotation (in radians) and marks it dirty.
func (n *Node) SetRotation(x, y, z float32) {
	n.Rotation = mgl32.Vec3{x, y, z}
	n.transformDirty = true
}

// SetScale sets the local scale and marks it dirty.
func (n *Node) SetScale(x, y, z float32) {
	n.Scale = mgl32.Vec3{x, y, z}
	n.transformDirty = true
}

// MarkDirty marks the node's transform as dirty, forcing recomputation
// on the next frame. Useful after bulk-setting fields directly.
func (n *Node) MarkDirty() {
	n.transformDirty = true
}

// WorldMatrix returns the cached world matrix.
func (n *Node) WorldMatrix() mgl32.Mat4 {
	return n.worldMatrix
}

// WorldPosition returns the node origin in world space.
func (n *Node) WorldPosition() mgl32.Vec3 {
	return n.worldMatrix.Col(3).Vec3()
}

// --- Coordinate conversion ---

// WorldToLocal converts a world-space point to this node's local coordinate space.
func (n *Node) WorldToLocal(p mgl32.Vec3) mgl32.Vec3 {
	return mgl32.TransformCoordinate(p, n.invWorldMatrix)
}

// LocalToWorld converts a local-space point to world-space.
func (n *Node) LocalToWorld(p mgl32.Vec3) mgl32.Vec3 {
	return mgl32.TransformCoordinate(p, n.worldMatrix)
}
