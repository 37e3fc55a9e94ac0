package showroom

import (
	"math"
	"strings"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Default double-click window.
const (
	DefaultDoubleClickInterval = 400 * time.Millisecond
	DefaultDoubleClickDistance = 4.0
)

// clickTracker counts clicks that land close together in time and space.
type clickTracker struct {
	maxTime     time.Duration
	maxDistance float64

	lastX, lastY float64
	lastTime     time.Time
	lastCount    int
}

func newClickTracker(maxTime time.Duration, maxDistance float64) clickTracker {
	return clickTracker{maxTime: maxTime, maxDistance: maxDistance}
}

// record registers a click and returns its position in the sequence (1, 2 or
// 3). The count wraps back to 1 after 3.
func (t *clickTracker) record(x, y float64, now time.Time) int {
	if t.partOfSequence(x, y, now) {
		t.lastCount++
		if t.lastCount > 3 {
			t.lastCount = 1
		}
	} else {
		t.lastCount = 1
	}
	t.lastX, t.lastY = x, y
	t.lastTime = now
	return t.lastCount
}

func (t *clickTracker) partOfSequence(x, y float64, now time.Time) bool {
	if t.lastCount == 0 || t.lastTime.IsZero() {
		return false
	}
	elapsed := now.Sub(t.lastTime)
	if elapsed < 0 || elapsed > t.maxTime {
		return false
	}
	// Manhattan distance
	return math.Abs(x-t.lastX)+math.Abs(y-t.lastY) <= t.maxDistance
}

func (t *clickTracker) reset() {
	t.lastCount = 0
	t.lastTime = time.Time{}
}

// pointerFrame is one tick of mouse state.
type pointerFrame struct {
	x, y      int
	leftDown  bool // left button went down this tick
	leftUp    bool // left button went up this tick
	rightDown bool
	now       time.Time
}

// ebitenInput polls ebiten once per tick and feeds the scene: pointer events
// to the dispatcher, drags and wheel to the orbit controls, and keys to the
// character.
type ebitenInput struct {
	clicks clickTracker

	seen         bool
	lastX, lastY int

	leftHeld, rightHeld bool

	keyBuf []ebiten.Key
}

func newEbitenInput(interval time.Duration, distance float64) *ebitenInput {
	if interval <= 0 {
		interval = DefaultDoubleClickInterval
	}
	if distance <= 0 {
		distance = DefaultDoubleClickDistance
	}
	return &ebitenInput{clicks: newClickTracker(interval, distance)}
}

// events converts a tick of pointer state into raw events in the order a
// browser reports them: motion, press, click, double click, context menu.
func (in *ebitenInput) events(f pointerFrame, w, h float64) []RawEvent {
	var out []RawEvent
	x, y := float64(f.x), float64(f.y)
	if !in.seen || f.x != in.lastX || f.y != in.lastY {
		in.seen = true
		in.lastX, in.lastY = f.x, f.y
		out = append(out, RawEvent{Kind: RawMotion, X: x, Y: y, ViewportW: w, ViewportH: h})
	}
	if f.leftDown {
		out = append(out, RawEvent{Kind: RawPress, X: x, Y: y, ViewportW: w, ViewportH: h})
	}
	if f.leftUp {
		out = append(out, RawEvent{Kind: RawClick, X: x, Y: y, ViewportW: w, ViewportH: h})
		if in.clicks.record(x, y, f.now) == 2 {
			out = append(out, RawEvent{Kind: RawDoubleClick, X: x, Y: y, ViewportW: w, ViewportH: h})
		}
	}
	if f.rightDown {
		in.clicks.reset()
		out = append(out, RawEvent{Kind: RawContextMenu, X: x, Y: y, ViewportW: w, ViewportH: h})
	}
	return out
}

func (in *ebitenInput) poll(s *Scene) {
	mx, my := ebiten.CursorPosition()
	prevX, prevY, hadPos := in.lastX, in.lastY, in.seen

	f := pointerFrame{
		x:         mx,
		y:         my,
		leftDown:  inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft),
		leftUp:    inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft),
		rightDown: inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight),
		now:       time.Now(),
	}
	for _, ev := range in.events(f, s.viewportW, s.viewportH) {
		s.dispatcher.CaptureInput(ev)
	}

	if c := s.controls; c != nil && hadPos {
		dx, dy := float64(mx-prevX), float64(my-prevY)
		in.drag(c, dx, dy, s.viewportH)
		if _, wy := ebiten.Wheel(); wy != 0 {
			c.Dolly(zoomScale(c.ZoomSpeed, wy))
		}
	}
	in.leftHeld = ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	in.rightHeld = ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight)

	in.pollKeys(s)
}

// drag rotates on a held left button and pans on a held right button.
func (in *ebitenInput) drag(c *OrbitControls, dx, dy, viewportH float64) {
	if (dx == 0 && dy == 0) || viewportH <= 0 {
		return
	}
	switch {
	case in.leftHeld:
		k := 2 * math.Pi / viewportH * float64(c.RotateSpeed)
		c.Rotate(float32(-dx*k), float32(-dy*k))
	case in.rightHeld:
		cam := c.Camera
		half := math.Tan(float64(mgl32.DegToRad(cam.FOV)) / 2)
		k := 2 * float64(c.Distance()) * half / viewportH * float64(c.PanSpeed)
		c.Pan(float32(-dx*k), float32(dy*k))
	}
}

// zoomScale returns the dolly factor for a wheel offset; scrolling up moves
// closer.
func zoomScale(speed float32, wheelY float64) float32 {
	step := math.Pow(0.95, float64(speed))
	return float32(math.Pow(step, wheelY))
}

func (in *ebitenInput) pollKeys(s *Scene) {
	in.keyBuf = inpututil.AppendJustPressedKeys(in.keyBuf[:0])
	shift := ebiten.IsKeyPressed(ebiten.KeyShift)
	for _, k := range in.keyBuf {
		if shift {
			if s.character != nil {
				s.character.SwitchRunToggle()
			}
			continue
		}
		s.keys.Set(keyName(k), true)
	}
	in.keyBuf = inpututil.AppendJustReleasedKeys(in.keyBuf[:0])
	for _, k := range in.keyBuf {
		s.keys.Set(keyName(k), false)
	}
}

// keyName returns the lower-case name of k: "w", "arrowup", "shiftleft".
// Digit keys map to the digit alone.
func keyName(k ebiten.Key) string {
	return strings.TrimPrefix(strings.ToLower(k.String()), "digit")
}
