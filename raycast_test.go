package showroom

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

// testCamera looks down -Z from (0, 0, 10) at the origin.
func testCamera() *Camera {
	return NewCamera(60, 1, 0.1, 100, mgl32.Vec3{0, 0, 10})
}

func TestSetFromCameraCenterRay(t *testing.T) {
	var rc Raycaster
	if !rc.SetFromCamera(testCamera(), 0, 0) {
		t.Fatal("SetFromCamera should succeed")
	}
	assertVec3(t, "Origin", rc.Ray.Origin, mgl32.Vec3{0, 0, 10})
	assertVec3(t, "Direction", rc.Ray.Direction, mgl32.Vec3{0, 0, -1})
}

func TestSetFromCameraOffCenter(t *testing.T) {
	var rc Raycaster
	rc.SetFromCamera(testCamera(), 1, 0)
	if rc.Ray.Direction.X() <= 0 {
		t.Errorf("Direction = %v, want positive X for nx=1", rc.Ray.Direction)
	}
	assertNear(t, "length", rc.Ray.Direction.Len(), 1)
}

func TestSetFromCameraDegenerate(t *testing.T) {
	tests := []struct {
		name string
		cam  *Camera
	}{
		{"position equals target", NewCamera(60, 1, 0.1, 100, mgl32.Vec3{})},
		{"zero aspect", NewCamera(60, 0, 0.1, 100, mgl32.Vec3{0, 0, 10})},
		{"near equals far", NewCamera(60, 1, 1, 1, mgl32.Vec3{0, 0, 10})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var rc Raycaster
			if rc.SetFromCamera(tt.cam, 0, 0) {
				t.Error("SetFromCamera should fail for degenerate camera")
			}
		})
	}
}

func TestIntersectObjectsSortedByDistance(t *testing.T) {
	root := NewGroup("root")
	far := NewBox("far", 2, 2, 2)
	far.SetPosition(0, 0, -5)
	near := NewBox("near", 2, 2, 2)
	root.AddChild(far)
	root.AddChild(near)
	root.UpdateTransforms()

	var rc Raycaster
	rc.SetFromCamera(testCamera(), 0, 0)
	hits := rc.IntersectObjects(root, true)
	if len(hits) != 2 {
		t.Fatalf("hits = %d, want 2", len(hits))
	}
	if hits[0].Node != near || hits[1].Node != far {
		t.Errorf("order = [%v %v], want [near far]", hits[0].Node, hits[1].Node)
	}
	assertNear(t, "near distance", hits[0].Distance, 9)
	assertNear(t, "far distance", hits[1].Distance, 14)
	assertVec3(t, "near point", hits[0].Point, mgl32.Vec3{0, 0, 1})
}

func TestIntersectObjectsWorldDistanceUnderScale(t *testing.T) {
	root := NewGroup("root")
	group := NewGroup("group")
	group.SetScale(4, 4, 4)
	box := NewBox("box", 1, 1, 1)
	root.AddChild(group)
	group.AddChild(box)
	root.UpdateTransforms()

	var rc Raycaster
	rc.SetFromCamera(testCamera(), 0, 0)
	hits := rc.IntersectObjects(root, true)
	if len(hits) != 1 {
		t.Fatalf("hits = %d, want 1", len(hits))
	}
	// Scaled box spans z in [-2, 2].
	assertNear(t, "distance", hits[0].Distance, 8)
}

func TestIntersectObjectsRecursion(t *testing.T) {
	root := NewGroup("root")
	group := NewGroup("group")
	child := NewBox("child", 1, 1, 1)
	root.AddChild(group)
	group.AddChild(child)
	root.UpdateTransforms()

	var rc Raycaster
	rc.SetFromCamera(testCamera(), 0, 0)
	if hits := rc.IntersectObjects(root, false); len(hits) != 0 {
		t.Errorf("non-recursive hits = %d, want 0", len(hits))
	}
	if hits := rc.IntersectObjects(root, true); len(hits) != 1 || hits[0].Node != child {
		t.Errorf("recursive hits = %v, want [child]", hits)
	}
}

func TestIntersectObjectsSkips(t *testing.T) {
	tests := []struct {
		name  string
		setup func(group, child *Node)
	}{
		{"invisible node", func(g, c *Node) { c.Visible = false }},
		{"non-interactable node", func(g, c *Node) { c.Interactable = false }},
		{"invisible subtree", func(g, c *Node) { g.Visible = false }},
		{"non-interactable subtree", func(g, c *Node) { g.Interactable = false }},
		{"zero scale", func(g, c *Node) { c.SetScale(0, 0, 0) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := NewGroup("root")
			group := NewGroup("group")
			child := NewBox("child", 1, 1, 1)
			root.AddChild(group)
			group.AddChild(child)
			tt.setup(group, child)
			root.UpdateTransforms()

			var rc Raycaster
			rc.SetFromCamera(testCamera(), 0, 0)
			if hits := rc.IntersectObjects(root, true); len(hits) != 0 {
				t.Errorf("hits = %d, want 0", len(hits))
			}
		})
	}
}

func TestIntersectObjectsPassesThroughSkipped(t *testing.T) {
	root := NewGroup("root")
	front := NewBox("front", 2, 2, 2)
	front.Interactable = false
	back := NewBox("back", 2, 2, 2)
	back.SetPosition(0, 0, -5)
	root.AddChild(front)
	root.AddChild(back)
	root.UpdateTransforms()

	var rc Raycaster
	rc.SetFromCamera(testCamera(), 0, 0)
	hits := rc.IntersectObjects(root, true)
	if len(hits) != 1 || hits[0].Node != back {
		t.Errorf("hits = %v, want [back]", hits)
	}
}

func TestIntersectObjectsFarLimit(t *testing.T) {
	root := NewGroup("root")
	box := NewBox("box", 1, 1, 1)
	box.SetPosition(0, 0, -200)
	root.AddChild(box)
	root.UpdateTransforms()

	var rc Raycaster
	rc.SetFromCamera(testCamera(), 0, 0)
	if hits := rc.IntersectObjects(root, true); len(hits) != 0 {
		t.Errorf("hits beyond far plane = %d, want 0", len(hits))
	}
}

func TestCameraHitTesterNearest(t *testing.T) {
	root := NewGroup("root")
	a := NewBox("a", 2, 2, 2)
	b := NewBox("b", 2, 2, 2)
	b.SetPosition(0, 0, 3)
	root.AddChild(a)
	root.AddChild(b)
	root.UpdateTransforms()

	h := &cameraHitTester{camera: testCamera(), root: root}
	hit, ok := h.NearestHit(0, 0)
	if !ok || hit.Node != b {
		t.Errorf("NearestHit = %v, %v; want b", hit.Node, ok)
	}
	if _, ok := h.NearestHit(0.99, 0.99); ok {
		t.Error("corner ray should miss")
	}
}
