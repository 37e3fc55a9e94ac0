package showroom

import (
	"github.com/go-gl/mathgl/mgl32"
)

// --- Handler registry ---

// Handler is a callback invoked when an interaction event resolves to the
// handler's target.
type Handler func(ctx EventContext)

// EventContext carries the data for a dispatched interaction event.
type EventContext struct {
	Kind EventKind
	// Node is the resolved scene node. It is nil for a HoverLeave whose node
	// was disposed since it was hovered; Target still names it.
	Node     *Node
	Target   TargetID
	Distance float32
	Point    mgl32.Vec3
	// NX and NY are the normalized pointer coordinates of the sample.
	NX, NY   float32
	EntityID uint32
	UserData any
}

// HandlerEntry binds a handler to a target and event kind.
type HandlerEntry struct {
	Target TargetID
	Kind   EventKind
	Fn     Handler
}

// handlerRegistry holds one ordered, append-only slice per event kind.
// Dispatch ranges over the slice header taken at the start of the scan, so
// entries appended from inside a handler are not seen until the next scan.
type handlerRegistry struct {
	entries [eventKindCount][]HandlerEntry
}

func (r *handlerRegistry) add(e HandlerEntry) {
	r.entries[e.Kind] = append(r.entries[e.Kind], e)
}

// first returns the first entry of kind registered for target.
// The empty target never matches.
func (r *handlerRegistry) first(kind EventKind, target TargetID) (HandlerEntry, bool) {
	if target == "" {
		return HandlerEntry{}, false
	}
	for _, e := range r.entries[kind] {
		if e.Target == target {
			return e, true
		}
	}
	return HandlerEntry{}, false
}

// --- Pointer sample ---

// PointerSample is the single pending input slot. Later captures overwrite
// earlier ones.
type PointerSample struct {
	Kind   RawEventKind
	NX, NY float32
}

// --- Dispatcher ---

// Dispatcher turns raw pointer input into object-level interaction events.
// CaptureInput may be called any number of times per frame; Update must be
// called once per frame after the camera has moved for that frame.
type Dispatcher struct {
	tester   HitTester
	handlers handlerRegistry

	sample  PointerSample
	pending bool

	hover objectRef
	press objectRef

	store EntityStore
	debug bool

	dispatched int
}

// NewDispatcher creates a dispatcher that resolves pointer samples with tester.
func NewDispatcher(tester HitTester) *Dispatcher {
	return &Dispatcher{tester: tester}
}

// SetHitTester replaces the hit tester.
func (d *Dispatcher) SetHitTester(tester HitTester) {
	d.tester = tester
}

// SetEntityStore sets the ECS bridge. Dispatches on nodes with a non-zero
// EntityID are forwarded to it.
func (d *Dispatcher) SetEntityStore(store EntityStore) {
	d.store = store
}

// SetDebug enables dispatch logging to stderr.
func (d *Dispatcher) SetDebug(enabled bool) {
	d.debug = enabled
}

// --- Registration ---

// On registers fn for events of kind on target. Targets need not exist yet.
// Entries are never deduplicated; when several share a target and kind, only
// the first registered one fires.
func (d *Dispatcher) On(target TargetID, kind EventKind, fn Handler) {
	if kind >= eventKindCount || fn == nil {
		return
	}
	d.handlers.add(HandlerEntry{Target: target, Kind: kind, Fn: fn})
}

// OnClick registers a Click handler for target.
func (d *Dispatcher) OnClick(target TargetID, fn Handler) { d.On(target, EventClick, fn) }

// OnDoubleClick registers a DoubleClick handler for target.
func (d *Dispatcher) OnDoubleClick(target TargetID, fn Handler) { d.On(target, EventDoubleClick, fn) }

// OnContextMenu registers a ContextMenu handler for target.
func (d *Dispatcher) OnContextMenu(target TargetID, fn Handler) { d.On(target, EventContextMenu, fn) }

// OnPress registers a Press handler for target.
func (d *Dispatcher) OnPress(target TargetID, fn Handler) { d.On(target, EventPress, fn) }

// OnRelease registers a Release handler for target. Release fires only when a
// Click lands on the object that was last pressed.
func (d *Dispatcher) OnRelease(target TargetID, fn Handler) { d.On(target, EventRelease, fn) }

// OnHoverEnter registers a HoverEnter handler for target.
func (d *Dispatcher) OnHoverEnter(target TargetID, fn Handler) { d.On(target, EventHoverEnter, fn) }

// OnHoverLeave registers a HoverLeave handler for target.
func (d *Dispatcher) OnHoverLeave(target TargetID, fn Handler) { d.On(target, EventHoverLeave, fn) }

// HandlerCount returns the number of entries registered for kind.
func (d *Dispatcher) HandlerCount(kind EventKind) int {
	if kind >= eventKindCount {
		return 0
	}
	return len(d.handlers.entries[kind])
}

// --- State accessors ---

// HoverTarget returns the last known target of the hovered object.
func (d *Dispatcher) HoverTarget() (TargetID, bool) {
	return d.hover.target, d.hover.valid()
}

// PressTarget returns the last known target of the armed press.
func (d *Dispatcher) PressTarget() (TargetID, bool) {
	return d.press.target, d.press.valid()
}

// HoverNode returns the hovered node while it is still live, or nil.
func (d *Dispatcher) HoverNode() *Node {
	if d.hover.valid() && d.hover.is(d.hover.node) {
		return d.hover.node
	}
	return nil
}

// Pending returns the pending sample, if any.
func (d *Dispatcher) Pending() (PointerSample, bool) {
	return d.sample, d.pending
}

// --- Capture ---

// CaptureInput records a raw event in the pending slot. Motion replaces the
// coordinates; discrete kinds replace only the kind and reuse the last known
// position. Unrecognized kinds, and motion against an empty viewport, are
// ignored.
func (d *Dispatcher) CaptureInput(ev RawEvent) {
	switch ev.Kind {
	case RawMotion:
		if ev.ViewportW <= 0 || ev.ViewportH <= 0 {
			return
		}
		d.sample.NX = float32(ev.X/ev.ViewportW*2 - 1)
		d.sample.NY = float32(-(ev.Y/ev.ViewportH)*2 + 1)
	case RawClick, RawDoubleClick, RawContextMenu, RawPress:
	default:
		return
	}
	d.sample.Kind = ev.Kind
	d.pending = true
}

// --- Update ---

// Update runs one dispatch pass over the pending sample and clears it.
// It is a no-op when nothing is pending. Handler panics propagate to the
// caller; the pending slot is still cleared.
func (d *Dispatcher) Update() {
	if !d.pending {
		return
	}
	sample := d.sample
	defer func() { d.pending = false }()

	hit, ok := d.nearestHit(sample.NX, sample.NY)

	if sample.Kind == RawMotion {
		d.updateHover(sample, hit, ok)
		return
	}

	kind, _ := sample.Kind.eventKind()
	if !ok {
		if d.debug {
			debugf("%s at (%.3f, %.3f): no hit", kind, sample.NX, sample.NY)
		}
		return
	}

	if kind == EventClick && d.press.is(hit.Node) {
		d.press = objectRef{}
		d.dispatch(EventRelease, hit.Node.Target, hit.Node, hit, sample)
	}
	if kind == EventPress {
		d.press = refTo(hit.Node)
	}
	if !d.dispatch(kind, hit.Node.Target, hit.Node, hit, sample) && d.debug {
		debugf("%s on %q: no handler", kind, hit.Node.String())
	}
}

// updateHover runs the leave check and then the enter check.
func (d *Dispatcher) updateHover(sample PointerSample, hit Intersection, ok bool) {
	if d.hover.valid() && (!ok || !d.hover.is(hit.Node)) {
		prev := d.hover
		d.hover = objectRef{}
		var node *Node
		if prev.is(prev.node) {
			node = prev.node
		}
		d.dispatch(EventHoverLeave, prev.target, node, Intersection{Node: node}, sample)
	}
	if ok && !d.hover.is(hit.Node) {
		if d.dispatch(EventHoverEnter, hit.Node.Target, hit.Node, hit, sample) {
			d.hover = refTo(hit.Node)
		}
	}
}

// nearestHit queries the hit tester. A panic inside the tester is reported
// as no hit.
func (d *Dispatcher) nearestHit(nx, ny float32) (hit Intersection, ok bool) {
	if d.tester == nil {
		return Intersection{}, false
	}
	defer func() {
		if r := recover(); r != nil {
			if d.debug {
				debugf("hit test failed: %v", r)
			}
			hit, ok = Intersection{}, false
		}
	}()
	hit, ok = d.tester.NearestHit(nx, ny)
	if ok && hit.Node == nil {
		return Intersection{}, false
	}
	return hit, ok
}

// dispatch invokes the first handler of kind registered for target.
// Returns whether a handler ran.
func (d *Dispatcher) dispatch(kind EventKind, target TargetID, node *Node, hit Intersection, sample PointerSample) bool {
	e, ok := d.handlers.first(kind, target)
	if !ok {
		return false
	}
	ctx := EventContext{
		Kind:     kind,
		Node:     node,
		Target:   target,
		Distance: hit.Distance,
		Point:    hit.Point,
		NX:       sample.NX,
		NY:       sample.NY,
	}
	if node != nil {
		ctx.EntityID = node.EntityID
		ctx.UserData = node.UserData
	}
	if d.debug {
		debugf("%s -> %q (distance %.3f)", kind, target, hit.Distance)
	}
	d.dispatched++
	d.emitInteractionEvent(ctx)
	e.Fn(ctx)
	return true
}

// --- ECS bridge ---

func (d *Dispatcher) emitInteractionEvent(ctx EventContext) {
	if d.store == nil || ctx.EntityID == 0 {
		return
	}
	d.store.EmitEvent(InteractionEvent{
		Type:     ctx.Kind,
		EntityID: ctx.EntityID,
		Target:   ctx.Target,
		Distance: ctx.Distance,
		Point:    ctx.Point,
		NX:       ctx.NX,
		NY:       ctx.NY,
	})
}
