package showroom

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// KeySet is the set of currently held keys, by lower-case key name.
type KeySet map[string]bool

// Has reports whether key is held.
func (k KeySet) Has(key string) bool {
	return k[key]
}

// Set records key as held or released.
func (k KeySet) Set(key string, down bool) {
	if down {
		k[key] = true
		return
	}
	delete(k, key)
}

// Any reports whether at least one of keys is held.
func (k KeySet) Any(keys ...string) bool {
	for _, key := range keys {
		if k[key] {
			return true
		}
	}
	return false
}

// Clear releases every key.
func (k KeySet) Clear() {
	for key := range k {
		delete(k, key)
	}
}

// CharacterController moves a character from keyboard state. Scene.Update
// calls Update once per frame before the orbit controls and the dispatcher.
type CharacterController interface {
	Update(dt float32, keys KeySet)
	SwitchRunToggle()
}

// Animator blends named animation clips, usually a skeletal mixer supplied by
// the host application.
type Animator interface {
	SetWeight(clip string, weight float32)
	Update(dt float32)
}

// Clip names driven by WalkController.
const (
	ClipIdle = "Idle"
	ClipWalk = "Walk"
	ClipRun  = "Run"
)

type locomotion uint8

const (
	stateIdle locomotion = iota
	stateWalk
	stateRun
	locomotionCount
)

var locomotionClips = [locomotionCount]string{ClipIdle, ClipWalk, ClipRun}

var movementKeys = []string{"w", "a", "s", "d"}

// WalkController walks a model with WASD relative to the camera's view
// direction. The camera and orbit target move with the model. Models face +Z
// at zero rotation.
type WalkController struct {
	Model    *Node
	Camera   *Camera
	Controls *OrbitControls
	Animator Animator

	WalkSpeed float32
	RunSpeed  float32
	// FadeDuration is the cross-fade time between clips, in seconds.
	FadeDuration float32
	// TurnRate is the fraction of the remaining turn applied per frame.
	TurnRate float32
	// TargetHeight lifts the orbit target above the model's origin.
	TargetHeight float32

	running bool
	state   locomotion
	weights [locomotionCount]float32
	fades   tweenList
}

// NewWalkController creates a controller that starts idle with running
// toggled on.
func NewWalkController(model *Node, cam *Camera, controls *OrbitControls, anim Animator) *WalkController {
	c := &WalkController{
		Model:        model,
		Camera:       cam,
		Controls:     controls,
		Animator:     anim,
		WalkSpeed:    2,
		RunSpeed:     5,
		FadeDuration: 0.2,
		TurnRate:     0.2,
		TargetHeight: 1,
		running:      true,
		state:        stateIdle,
	}
	c.weights[stateIdle] = 1
	return c
}

// SwitchRunToggle flips between walking and running.
func (c *WalkController) SwitchRunToggle() {
	c.running = !c.running
}

// Running reports whether the run toggle is on.
func (c *WalkController) Running() bool {
	return c.running
}

// Clip returns the name of the clip currently faded in.
func (c *WalkController) Clip() string {
	return locomotionClips[c.state]
}

// Weight returns the current blend weight of clip, or 0 for unknown clips.
func (c *WalkController) Weight(clip string) float32 {
	for i, name := range locomotionClips {
		if name == clip {
			return c.weights[i]
		}
	}
	return 0
}

// Update advances the cross-fade, moves and turns the model, and carries the
// camera along.
func (c *WalkController) Update(dt float32, keys KeySet) {
	if c.Model == nil || c.Model.IsDisposed() {
		return
	}

	moving := keys.Any(movementKeys...)
	next := stateIdle
	if moving {
		next = stateWalk
		if c.running {
			next = stateRun
		}
	}
	if next != c.state {
		c.fadeTo(next)
	}

	c.fades.update(dt)
	if c.Animator != nil {
		for i, clip := range locomotionClips {
			c.Animator.SetWeight(clip, c.weights[i])
		}
		c.Animator.Update(dt)
	}

	if c.state == stateIdle || c.Camera == nil {
		return
	}
	offset, ok := directionOffset(keys)
	if !ok {
		return
	}

	forward := c.Camera.Forward()
	forward[1] = 0
	if forward.Len() == 0 {
		return
	}
	dir := mgl32.Rotate3DY(offset).Mul3x1(forward.Normalize())

	facing := float32(math.Atan2(float64(dir.X()), float64(dir.Z())))
	c.Model.Rotation[1] += shortestAngle(c.Model.Rotation[1], facing) * clampf(c.TurnRate, 0, 1)

	speed := c.WalkSpeed
	if c.state == stateRun {
		speed = c.RunSpeed
	}
	move := dir.Mul(speed * dt)
	c.Model.Position = c.Model.Position.Add(move)
	c.Model.MarkDirty()

	c.Camera.Position = c.Camera.Position.Add(move)
	target := c.Model.Position.Add(mgl32.Vec3{0, c.TargetHeight, 0})
	c.Camera.Target = target
	if c.Controls != nil {
		c.Controls.Target = target
	}
	c.Camera.MarkDirty()
}

func (c *WalkController) fadeTo(next locomotion) {
	c.fades = tweenList{}
	for i := range c.weights {
		to := float32(0)
		if locomotion(i) == next {
			to = 1
		}
		if c.FadeDuration <= 0 {
			c.weights[i] = to
			continue
		}
		c.fades.add(TweenValue(&c.weights[i], to, c.FadeDuration, nil))
	}
	c.state = next
}

// directionOffset returns the yaw, relative to the view direction, for the
// held movement keys. ok is false when opposing keys cancel out.
func directionOffset(keys KeySet) (float32, bool) {
	w, a, s, d := keys.Has("w"), keys.Has("a"), keys.Has("s"), keys.Has("d")
	if w && s {
		w, s = false, false
	}
	if a && d {
		a, d = false, false
	}
	switch {
	case w && a:
		return math.Pi / 4, true
	case w && d:
		return -math.Pi / 4, true
	case w:
		return 0, true
	case s && a:
		return math.Pi/4 + math.Pi/2, true
	case s && d:
		return -math.Pi/4 - math.Pi/2, true
	case s:
		return math.Pi, true
	case a:
		return math.Pi / 2, true
	case d:
		return -math.Pi / 2, true
	}
	return 0, false
}

// shortestAngle returns the signed turn from a to b in (-π, π].
func shortestAngle(a, b float32) float32 {
	d := math.Mod(float64(b-a), 2*math.Pi)
	if d > math.Pi {
		d -= 2 * math.Pi
	} else if d <= -math.Pi {
		d += 2 * math.Pi
	}
	return float32(d)
}
