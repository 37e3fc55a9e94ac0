package showroom

import (
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/tanema/gween/ease"
)

// EntityStore is the interface for optional ECS integration.
// When set on a Scene, interaction events are forwarded to the ECS.
type EntityStore interface {
	EmitEvent(event InteractionEvent)
}

// InteractionEvent carries interaction data for the ECS bridge.
type InteractionEvent struct {
	Type     EventKind
	EntityID uint32
	Target   TargetID
	Distance float32
	Point    mgl32.Vec3
	NX, NY   float32
}

// inputSource feeds real device input into a scene once per frame.
type inputSource interface {
	poll(s *Scene)
}

const (
	defaultViewportW = 800.0
	defaultViewportH = 600.0
)

// Scene is the top-level object that owns the node tree, the camera and its
// controls, the interaction dispatcher and the per-frame animation state.
type Scene struct {
	root       *Node
	store      EntityStore
	debug      bool
	camera     *Camera
	controls   *OrbitControls
	dispatcher *Dispatcher
	hitTester  *cameraHitTester

	character CharacterController
	keys      KeySet

	tweens tweenList

	viewportW, viewportH float64

	input       inputSource
	injectQueue []syntheticPointerEvent
	testRunner  *TestRunner

	// ScreenshotDir is where Screenshot writes PNG files.
	ScreenshotDir   string
	screenshotQueue []string

	lastStats debugStats
}

// NewScene creates a new scene with a pre-created root group, a perspective
// camera and a dispatcher that hit-tests the tree through that camera.
func NewScene() *Scene {
	root := NewGroup("")
	cam := NewCamera(75, defaultViewportW/defaultViewportH, 0.1, 1000, mgl32.Vec3{5, 5, 0})
	ht := &cameraHitTester{camera: cam, root: root}
	return &Scene{
		root:          root,
		camera:        cam,
		hitTester:     ht,
		dispatcher:    NewDispatcher(ht),
		keys:          KeySet{},
		viewportW:     defaultViewportW,
		viewportH:     defaultViewportH,
		ScreenshotDir: "screenshots",
	}
}

// Root returns the scene's root node.
func (s *Scene) Root() *Node {
	return s.root
}

// Camera returns the scene camera.
func (s *Scene) Camera() *Camera {
	return s.camera
}

// Dispatcher returns the scene's interaction dispatcher.
func (s *Scene) Dispatcher() *Dispatcher {
	return s.dispatcher
}

// Keys returns the set of currently pressed keys.
func (s *Scene) Keys() KeySet {
	return s.keys
}

// SetOrbitControls attaches orbit controls, which are updated every frame
// before the dispatcher runs.
func (s *Scene) SetOrbitControls(c *OrbitControls) {
	s.controls = c
}

// OrbitControls returns the attached orbit controls, or nil.
func (s *Scene) OrbitControls() *OrbitControls {
	return s.controls
}

// SetCharacter attaches a character controller.
func (s *Scene) SetCharacter(c CharacterController) {
	s.character = c
}

// Character returns the attached character controller, or nil.
func (s *Scene) Character() CharacterController {
	return s.character
}

// SetViewport sets the viewport size in pixels used to normalize pointer
// input, and updates the camera aspect ratio.
func (s *Scene) SetViewport(width, height float64) {
	if width <= 0 || height <= 0 {
		return
	}
	s.viewportW, s.viewportH = width, height
	s.camera.SetAspect(width, height)
}

// Viewport returns the viewport size in pixels.
func (s *Scene) Viewport() (width, height float64) {
	return s.viewportW, s.viewportH
}

// CaptureInput forwards a raw pointer event to the dispatcher.
func (s *Scene) CaptureInput(ev RawEvent) {
	s.dispatcher.CaptureInput(ev)
}

// On registers a handler on the scene's dispatcher.
func (s *Scene) On(target TargetID, kind EventKind, fn Handler) {
	s.dispatcher.On(target, kind, fn)
}

// AddTween runs g every frame until it finishes.
func (s *Scene) AddTween(g *TweenGroup) {
	if g != nil {
		s.tweens.add(g)
	}
}

// CancelTweens stops every running tween that animates node.
func (s *Scene) CancelTweens(node *Node) {
	s.tweens.cancel(node)
}

// MoveCameraTo animates the camera to pos. A duration of zero or less moves
// immediately.
func (s *Scene) MoveCameraTo(pos mgl32.Vec3, duration float32, fn ease.TweenFunc) {
	s.camera.MoveTo(pos, duration, fn)
}

// Update advances one frame: scripted and real input, character, orbit
// controls, camera and node tweens, world transforms and finally the
// interaction dispatch, so hit testing sees the frame's final camera.
func (s *Scene) Update(dt float32) {
	var stats debugStats
	var t0 time.Time
	if s.debug {
		t0 = time.Now()
	}

	if s.testRunner != nil {
		s.testRunner.step(s)
	}
	if !s.processInjectedInput() && s.input != nil {
		s.input.poll(s)
	}

	if s.debug {
		stats.inputTime = time.Since(t0)
		t0 = time.Now()
	}

	if s.character != nil {
		s.character.Update(dt, s.keys)
	}
	if s.controls != nil {
		s.controls.Update()
	}
	s.camera.update(dt)
	s.tweens.update(dt)

	if s.debug {
		stats.animateTime = time.Since(t0)
		t0 = time.Now()
	}

	s.root.UpdateTransforms()

	if s.debug {
		stats.transformTime = time.Since(t0)
		t0 = time.Now()
	}

	before := s.dispatcher.dispatched
	s.dispatcher.Update()

	if s.debug {
		stats.dispatchTime = time.Since(t0)
		stats.dispatched = s.dispatcher.dispatched - before
		s.lastStats = stats
		if stats.dispatched > 0 {
			s.debugLog(stats)
		}
	}
}

// HoveredNode returns the node currently hovered by the pointer, or nil.
func (s *Scene) HoveredNode() *Node {
	return s.dispatcher.HoverNode()
}

// SetEntityStore sets the optional ECS bridge.
func (s *Scene) SetEntityStore(store EntityStore) {
	s.store = store
	s.dispatcher.SetEntityStore(store)
}

// SetDebugMode enables or disables debug mode. When enabled, disposed-node
// access panics, tree depth and child count warnings are printed, and
// dispatches and per-frame timing are logged to stderr.
func (s *Scene) SetDebugMode(enabled bool) {
	s.debug = enabled
	s.dispatcher.SetDebug(enabled)
	globalDebug = enabled
}

// globalDebug mirrors the most recently set Scene debug flag so that node
// operations (which lack a Scene pointer) can check it cheaply. Only valid
// with a single Scene; multiple Scenes with differing debug modes will
// reflect whichever called SetDebugMode last.
var globalDebug bool
