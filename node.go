package showroom

import (
	"github.com/go-gl/mathgl/mgl32"
)

// HitShape is a local-space intersection volume. IntersectRay reports the
// ray parameter t (in the ray's own units) of the nearest hit at or in front
// of the origin.
type HitShape interface {
	IntersectRay(r Ray) (t float32, ok bool)
}

// lastNodeID hands out node generations. Scenes are updated from a single
// goroutine, so no atomics.
var lastNodeID uint32

func nextNodeID() uint32 {
	lastNodeID++
	return lastNodeID
}

// --- Node ---

// Node is the fundamental scene graph element: a transform in a hierarchy
// with an optional hit shape. A single flat struct is used for every kind of
// object.
type Node struct {
	// Identity. ID is zeroed when the node is disposed, which invalidates
	// every handle that captured the old value.
	ID     uint32
	Target TargetID
	Label  string

	// Hierarchy
	Parent   *Node
	children []*Node

	// Transform (local). Rotation holds Euler angles in radians applied in
	// Y, X, Z order.
	Position mgl32.Vec3
	Rotation mgl32.Vec3
	Scale    mgl32.Vec3

	// Computed
	worldMatrix    mgl32.Mat4
	invWorldMatrix mgl32.Mat4
	invertible     bool
	transformDirty bool

	// Visibility & interaction
	Visible      bool
	Interactable bool

	// Hit testing. Nodes without a shape are never hit but their children
	// still are.
	HitShape HitShape

	// Wireframe color used by the debug renderer.
	Color Color

	// Metadata
	UserData any
	EntityID uint32

	disposed bool
}

// nodeDefaults sets the common default field values shared by all constructors.
func nodeDefaults(n *Node) {
	n.ID = nextNodeID()
	n.Scale = mgl32.Vec3{1, 1, 1}
	n.Color = ColorWhite
	n.Visible = true
	n.Interactable = true
	n.worldMatrix = mgl32.Ident4()
	n.invWorldMatrix = mgl32.Ident4()
	n.invertible = true
	n.transformDirty = true
}

// NewGroup creates a node with no hit shape, used to group children.
func NewGroup(target TargetID) *Node {
	n := &Node{Target: target}
	nodeDefaults(n)
	return n
}

// NewBox creates a node with a box hit shape of the given size centered on
// the node's origin.
func NewBox(target TargetID, width, height, depth float32) *Node {
	n := &Node{Target: target, HitShape: BoxShape(width, height, depth)}
	nodeDefaults(n)
	return n
}

// NewSphere creates a node with a sphere hit shape centered on the node's origin.
func NewSphere(target TargetID, radius float32) *Node {
	n := &Node{Target: target, HitShape: HitSphere{Radius: radius}}
	nodeDefaults(n)
	return n
}

// NewMeshNode creates a node whose hit shape is an explicit triangle list.
func NewMeshNode(target TargetID, triangles []Triangle) *Node {
	n := &Node{Target: target, HitShape: HitTriangles(triangles)}
	nodeDefaults(n)
	return n
}

// String returns the label if set, otherwise the target.
func (n *Node) String() string {
	if n.Label != "" {
		return n.Label
	}
	return string(n.Target)
}

// --- Tree manipulation ---

// checkTreeOp runs the debug-mode disposal checks for a parent/child pair.
func checkTreeOp(op string, parent, child *Node) {
	debugCheckDisposed(parent, op+" (parent)")
	debugCheckDisposed(child, op+" (child)")
}

// AddChild attaches child as the last child of n, detaching it from any
// previous parent. The child's world transform is recomputed on the next
// update, so it becomes pickable from the next dispatch on. Panics on a nil
// child or when child is n or one of its ancestors.
func (n *Node) AddChild(child *Node) {
	if child == nil {
		panic("showroom: cannot add nil child")
	}
	if globalDebug {
		checkTreeOp("AddChild", n, child)
	}
	if isAncestor(child, n) {
		panic("showroom: adding child would create a cycle")
	}
	if old := child.Parent; old != nil {
		old.removeChildByPtr(child)
	}
	child.Parent = n
	n.children = append(n.children, child)
	markSubtreeDirty(child)
	if globalDebug {
		debugCheckTreeDepth(child)
		debugCheckChildCount(n)
	}
}

// RemoveChild detaches child from n. Panics if n is not child's parent.
func (n *Node) RemoveChild(child *Node) {
	if globalDebug {
		checkTreeOp("RemoveChild", n, child)
	}
	if child.Parent != n {
		panic("showroom: child's parent is not this node")
	}
	n.detach(child)
}

// RemoveFromParent detaches n from its parent, if it has one.
func (n *Node) RemoveFromParent() {
	if p := n.Parent; p != nil {
		p.RemoveChild(n)
	}
}

// RemoveChildren detaches every child of n without disposing them.
func (n *Node) RemoveChildren() {
	for i, child := range n.children {
		child.Parent = nil
		markSubtreeDirty(child)
		n.children[i] = nil
	}
	n.children = n.children[:0]
}

// detach unlinks child and marks its subtree for a transform refresh.
func (n *Node) detach(child *Node) {
	n.removeChildByPtr(child)
	child.Parent = nil
	markSubtreeDirty(child)
}

// Children returns the children in insertion order. Callers must not modify
// the returned slice.
func (n *Node) Children() []*Node {
	return n.children
}

// NumChildren returns len(Children()).
func (n *Node) NumChildren() int {
	return len(n.children)
}

// ChildAt returns the i-th child. It panics when i is out of range.
func (n *Node) ChildAt(i int) *Node {
	return n.children[i]
}

// FindByTarget returns the first node in depth-first order (including n
// itself) whose Target equals target, or nil.
func (n *Node) FindByTarget(target TargetID) *Node {
	if n.Target == target {
		return n
	}
	for _, child := range n.children {
		if found := child.FindByTarget(target); found != nil {
			return found
		}
	}
	return nil
}

// Walk calls fn for n and every descendant in depth-first order. Returning
// false from fn skips that node's subtree.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, child := range n.children {
		child.Walk(fn)
	}
}

// --- Disposal ---

// Dispose detaches n and releases it and its whole subtree. Disposed nodes
// get ID 0, so hover and press handles that point at them stop resolving.
func (n *Node) Dispose() {
	if n.disposed {
		return
	}
	n.RemoveFromParent()
	n.dispose()
}

func (n *Node) dispose() {
	n.disposed = true
	n.ID = 0
	for _, child := range n.children {
		child.Parent = nil
		child.dispose()
	}
	n.children = nil
	n.Parent = nil
	n.HitShape = nil
	n.UserData = nil
}

// IsDisposed reports whether Dispose has been called on n or an ancestor.
func (n *Node) IsDisposed() bool {
	return n.disposed
}

// --- Helpers ---

// isAncestor reports whether candidate is an ancestor of node.
func isAncestor(candidate, node *Node) bool {
	for p := node; p != nil; p = p.Parent {
		if p == candidate {
			return true
		}
	}
	return false
}

// removeChildByPtr removes child from n.children without clearing child.Parent.
// Uses copy+nil to avoid retaining a dangling pointer in the backing array.
func (n *Node) removeChildByPtr(child *Node) {
	for i, c := range n.children {
		if c == child {
			copy(n.children[i:], n.children[i+1:])
			n.children[len(n.children)-1] = nil
			n.children = n.children[:len(n.children)-1]
			return
		}
	}
}

// markSubtreeDirty sets transformDirty on node and all its descendants.
func markSubtreeDirty(node *Node) {
	node.transformDirty = true
	for _, child := range node.children {
		markSubtreeDirty(child)
	}
}

// --- Handles ---

// objectRef is a non-owning, generation-checked handle to a node. It stays
// safe to hold after the node is removed or disposed: a disposed node's ID
// no longer matches, so the handle simply stops resolving. The target is
// captured at creation so the last known identity survives disposal.
type objectRef struct {
	node   *Node
	id     uint32
	target TargetID
}

func refTo(n *Node) objectRef {
	return objectRef{node: n, id: n.ID, target: n.Target}
}

// valid reports whether the handle is set.
func (r objectRef) valid() bool {
	return r.node != nil
}

// is reports whether the handle still resolves to n.
func (r objectRef) is(n *Node) bool {
	return r.node != nil && n != nil && r.node == n && r.id != 0 && n.ID == r.id
}
