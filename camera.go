package showroom

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// moveAnim holds active move-to tweens for the camera position, one per axis.
type moveAnim struct {
	tweens [3]*gween.Tween
	done   [3]bool
}

func newMoveAnim(from, to mgl32.Vec3, duration float32, easeFn ease.TweenFunc) *moveAnim {
	a := &moveAnim{}
	for i := range a.tweens {
		a.tweens[i] = gween.New(from[i], to[i], duration, easeFn)
	}
	return a
}

// step advances every unfinished axis and writes it into v.
// Returns true once all three axes have finished.
func (a *moveAnim) step(v *mgl32.Vec3, dt float32) bool {
	all := true
	for i, tw := range a.tweens {
		if a.done[i] {
			continue
		}
		val, done := tw.Update(dt)
		v[i] = val
		a.done[i] = done
		if !done {
			all = false
		}
	}
	return all
}

// Camera is a perspective camera looking from Position at Target.
type Camera struct {
	// FOV is the vertical field of view in degrees.
	FOV float32
	// Aspect is the viewport width divided by its height.
	Aspect    float32
	Near, Far float32

	Position mgl32.Vec3
	Target   mgl32.Vec3
	Up       mgl32.Vec3

	view, proj, viewProj, invViewProj mgl32.Mat4
	invertible                        bool
	dirty                             bool

	// last written values, to detect direct field edits
	lastPos, lastTarget, lastUp mgl32.Vec3
	lastFOV, lastAspect         float32
	lastNear, lastFar           float32

	moveTween *moveAnim
}

// NewCamera creates a perspective camera at position looking at the origin.
func NewCamera(fov, aspect, near, far float32, position mgl32.Vec3) *Camera {
	return &Camera{
		FOV:      fov,
		Aspect:   aspect,
		Near:     near,
		Far:      far,
		Position: position,
		Up:       mgl32.Vec3{0, 1, 0},
		dirty:    true,
	}
}

// SetAspect updates the aspect ratio, typically after a viewport resize.
// Non-positive sizes are ignored.
func (c *Camera) SetAspect(width, height float64) {
	if width <= 0 || height <= 0 {
		return
	}
	c.Aspect = float32(width / height)
	c.dirty = true
}

// LookAt points the camera at target.
func (c *Camera) LookAt(target mgl32.Vec3) {
	c.Target = target
	c.dirty = true
}

// MoveTo animates the camera position to pos over duration seconds. A
// duration of zero or less moves immediately. A new call replaces any move
// in progress.
func (c *Camera) MoveTo(pos mgl32.Vec3, duration float32, easeFn ease.TweenFunc) {
	if duration <= 0 {
		c.moveTween = nil
		c.Position = pos
		c.dirty = true
		return
	}
	if easeFn == nil {
		easeFn = ease.Linear
	}
	c.moveTween = newMoveAnim(c.Position, pos, duration, easeFn)
}

// Moving reports whether a MoveTo animation is in progress.
func (c *Camera) Moving() bool {
	return c.moveTween != nil
}

// StopMove cancels a MoveTo animation, leaving the camera where it is.
func (c *Camera) StopMove() {
	c.moveTween = nil
}

// update advances the move animation. Called from Scene.Update().
func (c *Camera) update(dt float32) {
	if c.moveTween != nil {
		if c.moveTween.step(&c.Position, dt) {
			c.moveTween = nil
		}
		c.dirty = true
	}
}

// MarkDirty forces a recomputation of the cached matrices.
func (c *Camera) MarkDirty() {
	c.dirty = true
}

// computeMatrices recomputes the cached view and projection matrices if dirty
// or if any exported field was written since the last computation.
func (c *Camera) computeMatrices() {
	if !c.dirty && c.Position == c.lastPos && c.Target == c.lastTarget && c.Up == c.lastUp &&
		c.FOV == c.lastFOV && c.Aspect == c.lastAspect && c.Near == c.lastNear && c.Far == c.lastFar {
		return
	}
	c.dirty = false
	c.lastPos, c.lastTarget, c.lastUp = c.Position, c.Target, c.Up
	c.lastFOV, c.lastAspect, c.lastNear, c.lastFar = c.FOV, c.Aspect, c.Near, c.Far

	c.view = mgl32.LookAtV(c.Position, c.Target, c.Up)
	c.proj = mgl32.Perspective(mgl32.DegToRad(c.FOV), c.Aspect, c.Near, c.Far)
	c.viewProj = c.proj.Mul4(c.view)
	det := c.viewProj.Det()
	c.invertible = det != 0 && !math.IsNaN(float64(det)) && !math.IsInf(float64(det), 0)
	if c.invertible {
		c.invViewProj = c.viewProj.Inv()
	}
}

// ViewMatrix returns the world-to-camera matrix.
func (c *Camera) ViewMatrix() mgl32.Mat4 {
	c.computeMatrices()
	return c.view
}

// ProjectionMatrix returns the perspective projection matrix.
func (c *Camera) ProjectionMatrix() mgl32.Mat4 {
	c.computeMatrices()
	return c.proj
}

// Forward returns the normalized view direction. Falls back to -Z when
// Position and Target coincide.
func (c *Camera) Forward() mgl32.Vec3 {
	d := c.Target.Sub(c.Position)
	if d.Len() == 0 {
		return mgl32.Vec3{0, 0, -1}
	}
	return d.Normalize()
}

// Project converts a world-space point to normalized device coordinates.
// ok is false when the point is behind the camera.
func (c *Camera) Project(p mgl32.Vec3) (ndc mgl32.Vec3, ok bool) {
	c.computeMatrices()
	clip := c.viewProj.Mul4x1(p.Vec4(1))
	if clip[3] <= 0 {
		return mgl32.Vec3{}, false
	}
	return clip.Vec3().Mul(1 / clip[3]), true
}

// WorldToScreen converts a world-space point to pixel coordinates in a
// viewport of the given size.
func (c *Camera) WorldToScreen(p mgl32.Vec3, width, height float64) (sx, sy float64, ok bool) {
	ndc, ok := c.Project(p)
	if !ok {
		return 0, 0, false
	}
	sx = (float64(ndc[0]) + 1) / 2 * width
	sy = (1 - float64(ndc[1])) / 2 * height
	return sx, sy, true
}

// unproject maps an NDC point back to world space through inverse(proj·view).
func (c *Camera) unproject(ndc mgl32.Vec3) (mgl32.Vec3, bool) {
	c.computeMatrices()
	if !c.invertible {
		return mgl32.Vec3{}, false
	}
	w := c.invViewProj.Mul4x1(ndc.Vec4(1))
	if w[3] == 0 {
		return mgl32.Vec3{}, false
	}
	return w.Vec3().Mul(1 / w[3]), true
}
