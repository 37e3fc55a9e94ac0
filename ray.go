package showroom

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Ray is a half-line P(t) = Origin + t*Direction for t >= 0.
// Direction is normalized for picking rays but is not required to be;
// a ray transformed into a scaled local space keeps its t parametrization.
type Ray struct {
	Origin    mgl32.Vec3
	Direction mgl32.Vec3
}

// At returns the point at parameter t along the ray.
func (r Ray) At(t float32) mgl32.Vec3 {
	return r.Origin.Add(r.Direction.Mul(t))
}

// Transform returns the ray mapped through m. The direction is not
// renormalized, so a parameter t on the result names the same point as t on r.
func (r Ray) Transform(m mgl32.Mat4) Ray {
	return Ray{
		Origin:    mgl32.TransformCoordinate(r.Origin, m),
		Direction: mgl32.TransformNormal(r.Direction, m),
	}
}

// --- Box ---

// HitBox is an axis-aligned box in local space.
type HitBox struct {
	Min, Max mgl32.Vec3
}

// BoxShape returns a HitBox of the given size centered on the origin.
func BoxShape(width, height, depth float32) HitBox {
	h := mgl32.Vec3{width / 2, height / 2, depth / 2}
	return HitBox{Min: h.Mul(-1), Max: h}
}

// IntersectRay implements HitShape with a slab test. If the ray starts
// inside the box, the exit distance is returned.
func (b HitBox) IntersectRay(r Ray) (float32, bool) {
	tmin := float32(-math.MaxFloat32)
	tmax := float32(math.MaxFloat32)

	for axis := 0; axis < 3; axis++ {
		o, d := r.Origin[axis], r.Direction[axis]
		if d == 0 {
			if o < b.Min[axis] || o > b.Max[axis] {
				return 0, false
			}
			continue
		}
		t1 := (b.Min[axis] - o) / d
		t2 := (b.Max[axis] - o) / d
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		if t1 > tmin {
			tmin = t1
		}
		if t2 < tmax {
			tmax = t2
		}
	}

	if tmax < tmin || tmax < 0 {
		return 0, false
	}
	if tmin < 0 {
		return tmax, true
	}
	return tmin, true
}

// --- Sphere ---

// HitSphere is a sphere centered on the local origin.
type HitSphere struct {
	Radius float32
}

// IntersectRay implements HitShape. If the ray starts inside the sphere,
// the exit distance is returned.
func (s HitSphere) IntersectRay(r Ray) (float32, bool) {
	a := r.Direction.Dot(r.Direction)
	if a == 0 {
		return 0, false
	}
	b := 2 * r.Origin.Dot(r.Direction)
	c := r.Origin.Dot(r.Origin) - s.Radius*s.Radius
	disc := b*b - 4*a*c
	if disc < 0 {
		return 0, false
	}
	sq := float32(math.Sqrt(float64(disc)))
	t0 := (-b - sq) / (2 * a)
	t1 := (-b + sq) / (2 * a)
	if t0 >= 0 {
		return t0, true
	}
	if t1 >= 0 {
		return t1, true
	}
	return 0, false
}

// --- Triangles ---

// Triangle is three vertices in local space.
type Triangle [3]mgl32.Vec3

// HitTriangles is an explicit triangle list, tested face by face.
type HitTriangles []Triangle

const triangleEpsilon = 1e-6

// IntersectRay implements HitShape, returning the nearest face hit.
func (ts HitTriangles) IntersectRay(r Ray) (float32, bool) {
	best := float32(math.MaxFloat32)
	found := false
	for i := range ts {
		if t, ok := intersectTriangle(r, ts[i]); ok && t < best {
			best = t
			found = true
		}
	}
	return best, found
}

// intersectTriangle is the Möller–Trumbore test. Both faces count as hits.
func intersectTriangle(r Ray, tri Triangle) (float32, bool) {
	edge1 := tri[1].Sub(tri[0])
	edge2 := tri[2].Sub(tri[0])

	h := r.Direction.Cross(edge2)
	a := edge1.Dot(h)
	if a > -triangleEpsilon && a < triangleEpsilon {
		return 0, false // parallel
	}

	f := 1 / a
	s := r.Origin.Sub(tri[0])
	u := f * s.Dot(h)
	if u < 0 || u > 1 {
		return 0, false
	}

	q := s.Cross(edge1)
	v := f * r.Direction.Dot(q)
	if v < 0 || u+v > 1 {
		return 0, false
	}

	t := f * edge2.Dot(q)
	if t > triangleEpsilon {
		return t, true
	}
	return 0, false
}

// QuadTriangles returns the two triangles of a width×height rectangle in the
// XY plane centered on the origin.
func QuadTriangles(width, height float32) []Triangle {
	w, h := width/2, height/2
	a := mgl32.Vec3{-w, -h, 0}
	b := mgl32.Vec3{w, -h, 0}
	c := mgl32.Vec3{w, h, 0}
	d := mgl32.Vec3{-w, h, 0}
	return []Triangle{{a, b, c}, {a, c, d}}
}
