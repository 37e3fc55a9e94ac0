package showroom

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// segment is a world-space line.
type segment [2]mgl32.Vec3

const sphereRingSteps = 24

// boxEdges lists corner index pairs of a box; corner i has bit 0 for X, bit 1
// for Y and bit 2 for Z.
var boxEdges = [12][2]int{
	{0, 1}, {2, 3}, {4, 5}, {6, 7},
	{0, 2}, {1, 3}, {4, 6}, {5, 7},
	{0, 4}, {1, 5}, {2, 6}, {3, 7},
}

// wireframe returns n's hit shape outline in world space. Nodes without a
// shape have no outline.
func wireframe(n *Node, dst []segment) []segment {
	m := n.worldMatrix
	world := func(p mgl32.Vec3) mgl32.Vec3 { return mgl32.TransformCoordinate(p, m) }

	switch shape := n.HitShape.(type) {
	case HitBox:
		var c [8]mgl32.Vec3
		for i := range c {
			p := shape.Min
			if i&1 != 0 {
				p[0] = shape.Max[0]
			}
			if i&2 != 0 {
				p[1] = shape.Max[1]
			}
			if i&4 != 0 {
				p[2] = shape.Max[2]
			}
			c[i] = world(p)
		}
		for _, e := range boxEdges {
			dst = append(dst, segment{c[e[0]], c[e[1]]})
		}
	case HitSphere:
		r := shape.Radius
		for axis := 0; axis < 3; axis++ {
			prev := world(ringPoint(axis, r, 0))
			for i := 1; i <= sphereRingSteps; i++ {
				p := world(ringPoint(axis, r, float64(i)/sphereRingSteps*2*math.Pi))
				dst = append(dst, segment{prev, p})
				prev = p
			}
		}
	case HitTriangles:
		for _, tri := range shape {
			a, b, c := world(tri[0]), world(tri[1]), world(tri[2])
			dst = append(dst, segment{a, b}, segment{b, c}, segment{c, a})
		}
	}
	return dst
}

// ringPoint returns a point on the circle of radius r perpendicular to axis.
func ringPoint(axis int, r float32, angle float64) mgl32.Vec3 {
	s, c := float32(math.Sin(angle))*r, float32(math.Cos(angle))*r
	switch axis {
	case 0:
		return mgl32.Vec3{0, c, s}
	case 1:
		return mgl32.Vec3{c, 0, s}
	default:
		return mgl32.Vec3{c, s, 0}
	}
}

// projectSegment maps a world segment to screen pixels. ok is false when
// either end is behind the camera.
func projectSegment(cam *Camera, sg segment, w, h float64) (x0, y0, x1, y1 float32, ok bool) {
	ax, ay, ok0 := cam.WorldToScreen(sg[0], w, h)
	bx, by, ok1 := cam.WorldToScreen(sg[1], w, h)
	if !ok0 || !ok1 {
		return 0, 0, 0, 0, false
	}
	return float32(ax), float32(ay), float32(bx), float32(by), true
}

// Draw renders every visible node's hit shape as a wireframe in its Color and
// labels the hovered node. Hidden subtrees and nodes scaled to nothing are
// skipped. Queued screenshots are captured after drawing.
func (s *Scene) Draw(screen *ebiten.Image) {
	w, h := s.viewportW, s.viewportH
	hovered := s.dispatcher.HoverNode()
	var segs []segment

	s.root.Walk(func(n *Node) bool {
		if !n.Visible || !n.invertible {
			return false
		}
		if n.HitShape == nil {
			return true
		}
		segs = wireframe(n, segs[:0])
		width := float32(1)
		if n == hovered {
			width = 2
		}
		clr := n.Color.RGBA()
		for _, sg := range segs {
			x0, y0, x1, y1, ok := projectSegment(s.camera, sg, w, h)
			if !ok {
				continue
			}
			vector.StrokeLine(screen, x0, y0, x1, y1, width, clr, true)
		}
		return true
	})

	if hovered != nil {
		if x, y, ok := s.camera.WorldToScreen(hovered.WorldPosition(), w, h); ok {
			ebitenutil.DebugPrintAt(screen, hovered.String(), int(x)+8, int(y)-16)
		}
	}

	s.flushScreenshots(screen)
}
