package showroom

import (
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl32"
)

// Intersection is a single ray hit against a node.
type Intersection struct {
	Node *Node
	// Distance is measured in world units from the ray origin.
	Distance float32
	// Point is the hit position in world space.
	Point mgl32.Vec3
}

// HitTester resolves a normalized device coordinate to the nearest object
// under it. nx and ny are in [-1, 1] with +y up.
type HitTester interface {
	NearestHit(nx, ny float32) (Intersection, bool)
}

// Raycaster casts a picking ray into a node tree.
type Raycaster struct {
	Ray Ray
	// Near and Far bound accepted hit distances. Far <= 0 means unbounded.
	Near, Far float32

	hits []Intersection
}

// SetFromCamera builds a picking ray through the normalized device
// coordinate (nx, ny) by unprojecting the near and far clip points.
// Returns false if the camera matrices are degenerate.
func (rc *Raycaster) SetFromCamera(cam *Camera, nx, ny float32) bool {
	near, ok := cam.unproject(mgl32.Vec3{nx, ny, -1})
	if !ok {
		return false
	}
	far, ok := cam.unproject(mgl32.Vec3{nx, ny, 1})
	if !ok {
		return false
	}
	dir := far.Sub(near)
	l := dir.Len()
	if l == 0 || !finiteVec(near) || !finiteVec(dir) {
		return false
	}
	rc.Ray = Ray{Origin: cam.Position, Direction: dir.Mul(1 / l)}
	rc.Near = 0
	rc.Far = cam.Far
	return true
}

// IntersectObject tests a single node, and its descendants when recursive
// is true. Results are sorted by ascending distance. The returned slice is
// reused by the next call.
func (rc *Raycaster) IntersectObject(node *Node, recursive bool) []Intersection {
	rc.hits = rc.hits[:0]
	rc.collect(node, recursive)
	rc.sortHits()
	return rc.hits
}

// IntersectObjects tests each child of root (root itself is a container),
// recursing into descendants when recursive is true. Results are sorted by
// ascending distance. The returned slice is reused by the next call.
func (rc *Raycaster) IntersectObjects(root *Node, recursive bool) []Intersection {
	rc.hits = rc.hits[:0]
	if root != nil && root.Visible && root.Interactable {
		for _, child := range root.children {
			rc.collect(child, recursive)
		}
	}
	rc.sortHits()
	return rc.hits
}

func (rc *Raycaster) sortHits() {
	sort.SliceStable(rc.hits, func(i, j int) bool {
		return rc.hits[i].Distance < rc.hits[j].Distance
	})
}

// collect appends hits for n (and its subtree). Invisible or
// non-interactable nodes prune their whole subtree.
func (rc *Raycaster) collect(n *Node, recursive bool) {
	if n == nil || n.disposed || !n.Visible || !n.Interactable {
		return
	}
	if n.HitShape != nil && n.invertible {
		local := rc.Ray.Transform(n.invWorldMatrix)
		if t, ok := n.HitShape.IntersectRay(local); ok {
			p := mgl32.TransformCoordinate(local.At(t), n.worldMatrix)
			d := p.Sub(rc.Ray.Origin).Len()
			if d >= rc.Near && (rc.Far <= 0 || d <= rc.Far) {
				rc.hits = append(rc.hits, Intersection{Node: n, Distance: d, Point: p})
			}
		}
	}
	if recursive {
		for _, child := range n.children {
			rc.collect(child, recursive)
		}
	}
}

func finiteVec(v mgl32.Vec3) bool {
	for _, c := range v {
		f := float64(c)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
	}
	return true
}

// cameraHitTester adapts a camera and a node tree to HitTester.
type cameraHitTester struct {
	camera *Camera
	root   *Node
	rc     Raycaster
}

// NearestHit implements HitTester.
func (h *cameraHitTester) NearestHit(nx, ny float32) (Intersection, bool) {
	if h.camera == nil || h.root == nil {
		return Intersection{}, false
	}
	if !h.rc.SetFromCamera(h.camera, nx, ny) {
		return Intersection{}, false
	}
	hits := h.rc.IntersectObjects(h.root, true)
	if len(hits) == 0 {
		return Intersection{}, false
	}
	return hits[0], true
}
