package showroom

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// polarEpsilon keeps the camera off the poles, where the view direction and
// Up are parallel. It is well above float32 resolution for typical radii.
const polarEpsilon = 1e-4

// spherical holds coordinates around a target: Radius from the target,
// Theta (azimuth) around +Y measured from +Z toward +X, and Phi (polar) from +Y.
type spherical struct {
	Radius, Theta, Phi float32
}

func sphericalFromOffset(v mgl32.Vec3) spherical {
	r := v.Len()
	if r == 0 {
		return spherical{}
	}
	// atan2 for Phi stays accurate near the poles, where acos(y/r) rounds to 0.
	x, y, z := float64(v.X()), float64(v.Y()), float64(v.Z())
	return spherical{
		Radius: r,
		Theta:  float32(math.Atan2(x, z)),
		Phi:    float32(math.Atan2(math.Hypot(x, z), y)),
	}
}

func (s spherical) offset() mgl32.Vec3 {
	sinPhi := float32(math.Sin(float64(s.Phi)))
	return mgl32.Vec3{
		s.Radius * sinPhi * float32(math.Sin(float64(s.Theta))),
		s.Radius * float32(math.Cos(float64(s.Phi))),
		s.Radius * sinPhi * float32(math.Cos(float64(s.Theta))),
	}
}

func clampf(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// OrbitControls orbits a camera around a target point. Rotate, Dolly and Pan
// queue deltas; Update applies them, clamps the result and writes the camera
// position. Update re-reads the camera position every call, so other code
// (tweens, handlers, a character controller) may move the camera freely.
type OrbitControls struct {
	Camera *Camera
	Target mgl32.Vec3

	Enabled bool

	MinDistance, MaxDistance     float32
	MinPolarAngle, MaxPolarAngle float32

	EnableRotate bool
	EnableZoom   bool
	EnablePan    bool

	// RotateSpeed scales pointer-drag rotation, in radians per pixel of a
	// viewport-height drag times 2π.
	RotateSpeed float32
	// ZoomSpeed scales the dolly factor applied per wheel step.
	ZoomSpeed float32
	// PanSpeed scales pointer-drag panning.
	PanSpeed float32

	// EnableDamping eases deltas out over several frames; DampingFactor is the
	// fraction applied per Update.
	EnableDamping bool
	DampingFactor float32

	deltaTheta, deltaPhi float32
	scale                float32
	panOffset            mgl32.Vec3
}

// NewOrbitControls creates controls for cam orbiting cam.Target, with no
// distance limits and the full polar range.
func NewOrbitControls(cam *Camera) *OrbitControls {
	return &OrbitControls{
		Camera:        cam,
		Target:        cam.Target,
		Enabled:       true,
		MinDistance:   0,
		MaxDistance:   float32(math.Inf(1)),
		MinPolarAngle: 0,
		MaxPolarAngle: math.Pi,
		EnableRotate:  true,
		EnableZoom:    true,
		EnablePan:     true,
		RotateSpeed:   1,
		ZoomSpeed:     1,
		PanSpeed:      1,
		DampingFactor: 0.05,
		scale:         1,
	}
}

// Rotate queues an orbit of dAzimuth radians around the target's up axis and
// dPolar radians toward the pole.
func (c *OrbitControls) Rotate(dAzimuth, dPolar float32) {
	if !c.Enabled || !c.EnableRotate {
		return
	}
	c.deltaTheta += dAzimuth
	c.deltaPhi += dPolar
}

// Dolly queues a distance change: factor > 1 moves away from the target,
// factor < 1 toward it.
func (c *OrbitControls) Dolly(factor float32) {
	if !c.Enabled || !c.EnableZoom || factor <= 0 {
		return
	}
	c.scale *= factor
}

// Pan queues a translation of both camera and target by dx along the camera's
// right axis and dy along its up axis, in world units.
func (c *OrbitControls) Pan(dx, dy float32) {
	if !c.Enabled || !c.EnablePan {
		return
	}
	forward := c.Target.Sub(c.Camera.Position)
	if forward.Len() == 0 {
		return
	}
	forward = forward.Normalize()
	right := forward.Cross(c.Camera.Up)
	if right.Len() == 0 {
		return
	}
	right = right.Normalize()
	up := right.Cross(forward)
	c.panOffset = c.panOffset.Add(right.Mul(dx)).Add(up.Mul(dy))
}

// MoveTarget shifts the target (and the camera with it) by delta immediately.
func (c *OrbitControls) MoveTarget(delta mgl32.Vec3) {
	c.Target = c.Target.Add(delta)
	c.Camera.Position = c.Camera.Position.Add(delta)
	c.Camera.Target = c.Target
	c.Camera.MarkDirty()
}

// Distance returns the current camera distance from the target.
func (c *OrbitControls) Distance() float32 {
	return c.Camera.Position.Sub(c.Target).Len()
}

// Update applies pending deltas and the configured limits, and writes the
// camera position. Returns true if the camera moved.
func (c *OrbitControls) Update() bool {
	if c.Camera == nil {
		return false
	}
	before := c.Camera.Position
	s := sphericalFromOffset(c.Camera.Position.Sub(c.Target))

	if c.EnableDamping {
		s.Theta += c.deltaTheta * c.DampingFactor
		s.Phi += c.deltaPhi * c.DampingFactor
		c.Target = c.Target.Add(c.panOffset.Mul(c.DampingFactor))
	} else {
		s.Theta += c.deltaTheta
		s.Phi += c.deltaPhi
		c.Target = c.Target.Add(c.panOffset)
	}

	s.Phi = clampf(s.Phi, c.MinPolarAngle, c.MaxPolarAngle)
	s.Phi = clampf(s.Phi, polarEpsilon, math.Pi-polarEpsilon)

	s.Radius = clampf(s.Radius*c.scale, c.MinDistance, c.MaxDistance)

	c.Camera.Position = c.Target.Add(s.offset())
	c.Camera.Target = c.Target
	c.Camera.MarkDirty()

	if c.EnableDamping {
		c.deltaTheta *= 1 - c.DampingFactor
		c.deltaPhi *= 1 - c.DampingFactor
		c.panOffset = c.panOffset.Mul(1 - c.DampingFactor)
	} else {
		c.deltaTheta, c.deltaPhi = 0, 0
		c.panOffset = mgl32.Vec3{}
	}
	c.scale = 1

	return c.Camera.Position.Sub(before).Len() > 1e-4
}

// Azimuth returns the current azimuth angle in radians.
func (c *OrbitControls) Azimuth() float32 {
	return sphericalFromOffset(c.Camera.Position.Sub(c.Target)).Theta
}

// Polar returns the current polar angle in radians.
func (c *OrbitControls) Polar() float32 {
	return sphericalFromOffset(c.Camera.Position.Sub(c.Target)).Phi
}
