package showroom

import (
	"math"
	"testing"
)

// --- Test helpers ---

// stubHitTester returns hit (or no hit when nil) for every query.
type stubHitTester struct {
	hit       *Node
	dist      float32
	pick      func(nx, ny float32) *Node
	panicWith any
	calls     int
	lastNX    float32
	lastNY    float32
}

func (s *stubHitTester) NearestHit(nx, ny float32) (Intersection, bool) {
	s.calls++
	s.lastNX, s.lastNY = nx, ny
	if s.panicWith != nil {
		panic(s.panicWith)
	}
	n := s.hit
	if s.pick != nil {
		n = s.pick(nx, ny)
	}
	if n == nil {
		return Intersection{}, false
	}
	return Intersection{Node: n, Distance: s.dist}, true
}

// recorder collects handler invocations in order.
type recorder struct {
	log []string
}

func (r *recorder) fn(label string) Handler {
	return func(ctx EventContext) {
		r.log = append(r.log, label)
	}
}

func (r *recorder) reset() { r.log = r.log[:0] }

func assertLog(t *testing.T, got []string, want ...string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("log = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("log = %v, want %v", got, want)
		}
	}
}

func motion(d *Dispatcher) {
	d.CaptureInput(RawEvent{Kind: RawMotion, X: 400, Y: 300, ViewportW: 800, ViewportH: 600})
}

func discrete(d *Dispatcher, kind RawEventKind) {
	d.CaptureInput(RawEvent{Kind: kind})
}

// --- Capture ---

func TestCaptureInput_Normalization(t *testing.T) {
	tests := []struct {
		name   string
		x, y   float64
		w, h   float64
		nx, ny float32
	}{
		{"center", 400, 300, 800, 600, 0, 0},
		{"top-left", 0, 0, 800, 600, -1, 1},
		{"bottom-right", 800, 600, 800, 600, 1, -1},
		{"quarter", 200, 450, 800, 600, -0.5, -0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDispatcher(nil)
			d.CaptureInput(RawEvent{Kind: RawMotion, X: tt.x, Y: tt.y, ViewportW: tt.w, ViewportH: tt.h})
			s, ok := d.Pending()
			if !ok {
				t.Fatal("sample should be pending")
			}
			if math.Abs(float64(s.NX-tt.nx)) > 1e-6 || math.Abs(float64(s.NY-tt.ny)) > 1e-6 {
				t.Errorf("normalized = (%v, %v), want (%v, %v)", s.NX, s.NY, tt.nx, tt.ny)
			}
		})
	}
}

func TestCaptureInput_DiscreteReusesPosition(t *testing.T) {
	d := NewDispatcher(nil)
	d.CaptureInput(RawEvent{Kind: RawMotion, X: 0, Y: 0, ViewportW: 100, ViewportH: 100})
	d.CaptureInput(RawEvent{Kind: RawClick, X: 100, Y: 100, ViewportW: 100, ViewportH: 100})
	s, _ := d.Pending()
	if s.Kind != RawClick {
		t.Errorf("Kind = %v, want click", s.Kind)
	}
	if s.NX != -1 || s.NY != 1 {
		t.Errorf("position = (%v, %v), want (-1, 1)", s.NX, s.NY)
	}
}

func TestCaptureInput_Ignored(t *testing.T) {
	tests := []struct {
		name string
		ev   RawEvent
	}{
		{"zero kind", RawEvent{}},
		{"unknown kind", RawEvent{Kind: RawEventKind(99)}},
		{"zero viewport", RawEvent{Kind: RawMotion, X: 1, Y: 1}},
		{"negative viewport", RawEvent{Kind: RawMotion, X: 1, Y: 1, ViewportW: -5, ViewportH: 10}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDispatcher(nil)
			d.CaptureInput(tt.ev)
			if _, ok := d.Pending(); ok {
				t.Error("event should be ignored")
			}
		})
	}
}

// --- Update ---

func TestUpdate_NoPendingIsNoop(t *testing.T) {
	st := &stubHitTester{hit: NewBox("a", 1, 1, 1)}
	d := NewDispatcher(st)
	d.Update()
	if st.calls != 0 {
		t.Errorf("hit tester called %d times, want 0", st.calls)
	}
}

func TestUpdate_OneHitTestPerFrame(t *testing.T) {
	st := &stubHitTester{hit: NewBox("a", 1, 1, 1)}
	d := NewDispatcher(st)
	motion(d)
	discrete(d, RawPress)
	d.Update()
	d.Update()
	if st.calls != 1 {
		t.Errorf("hit tester called %d times, want 1", st.calls)
	}
	if _, ok := d.Pending(); ok {
		t.Error("sample should be cleared after Update")
	}
}

func TestFirstMatchPrecedence(t *testing.T) {
	a := NewBox("a", 1, 1, 1)
	d := NewDispatcher(&stubHitTester{hit: a})
	rec := &recorder{}
	d.OnClick("other", rec.fn("other"))
	d.OnClick("a", rec.fn("A"))
	d.OnClick("a", rec.fn("B"))

	discrete(d, RawClick)
	d.Update()
	assertLog(t, rec.log, "A")
}

func TestDiscreteKinds_DispatchOwnKind(t *testing.T) {
	tests := []struct {
		raw  RawEventKind
		want string
	}{
		{RawClick, "click"},
		{RawDoubleClick, "dblclick"},
		{RawContextMenu, "contextmenu"},
		{RawPress, "press"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			a := NewBox("a", 1, 1, 1)
			d := NewDispatcher(&stubHitTester{hit: a})
			rec := &recorder{}
			for k := EventClick; k < eventKindCount; k++ {
				d.On("a", k, rec.fn(k.String()))
			}
			discrete(d, tt.raw)
			d.Update()
			assertLog(t, rec.log, tt.want)
		})
	}
}

func TestNoHitDiscreteInput(t *testing.T) {
	d := NewDispatcher(&stubHitTester{})
	rec := &recorder{}
	for k := EventClick; k < eventKindCount; k++ {
		d.On("a", k, rec.fn(k.String()))
	}
	for _, raw := range []RawEventKind{RawClick, RawDoubleClick, RawContextMenu, RawPress} {
		discrete(d, raw)
		d.Update()
	}
	assertLog(t, rec.log)
	if _, armed := d.PressTarget(); armed {
		t.Error("press should not be armed without a hit")
	}
}

func TestEmptyTargetNeverMatches(t *testing.T) {
	anon := NewBox("", 1, 1, 1)
	d := NewDispatcher(&stubHitTester{hit: anon})
	rec := &recorder{}
	d.OnClick("", rec.fn("empty"))
	d.OnHoverEnter("", rec.fn("enter"))

	motion(d)
	d.Update()
	discrete(d, RawClick)
	d.Update()
	assertLog(t, rec.log)
}

// --- Hover ---

func TestHoverTransitions(t *testing.T) {
	x := NewBox("x", 1, 1, 1)
	y := NewBox("y", 1, 1, 1)
	st := &stubHitTester{hit: x}
	d := NewDispatcher(st)
	rec := &recorder{}
	for _, n := range []*Node{x, y} {
		name := string(n.Target)
		d.OnHoverEnter(n.Target, rec.fn("enter "+name))
		d.OnHoverLeave(n.Target, rec.fn("leave "+name))
	}

	motion(d)
	d.Update()
	assertLog(t, rec.log, "enter x")

	// Same object again: nothing fires.
	rec.reset()
	motion(d)
	d.Update()
	assertLog(t, rec.log)

	// X to Y: leave first, then enter.
	rec.reset()
	st.hit = y
	motion(d)
	d.Update()
	assertLog(t, rec.log, "leave x", "enter y")

	// Y to nothing: leave and clear.
	rec.reset()
	st.hit = nil
	motion(d)
	d.Update()
	assertLog(t, rec.log, "leave y")
	if _, ok := d.HoverTarget(); ok {
		t.Error("hover should be cleared")
	}

	// Still nothing: no repeat leave.
	rec.reset()
	motion(d)
	d.Update()
	assertLog(t, rec.log)
}

func TestHoverEnter_UnhandledDoesNotSetHover(t *testing.T) {
	x := NewBox("x", 1, 1, 1)
	d := NewDispatcher(&stubHitTester{hit: x})
	rec := &recorder{}
	d.OnHoverLeave("x", rec.fn("leave x"))

	motion(d)
	d.Update()
	if _, ok := d.HoverTarget(); ok {
		t.Error("hover should stay unset without a HoverEnter handler")
	}
	assertLog(t, rec.log)
}

func TestHoverLeave_ClearsWithoutHandler(t *testing.T) {
	x := NewBox("x", 1, 1, 1)
	st := &stubHitTester{hit: x}
	d := NewDispatcher(st)
	d.OnHoverEnter("x", func(EventContext) {})

	motion(d)
	d.Update()
	st.hit = nil
	motion(d)
	d.Update()
	if _, ok := d.HoverTarget(); ok {
		t.Error("hover should be cleared even without a HoverLeave handler")
	}
}

func TestHoverIgnoresDiscreteSamples(t *testing.T) {
	x := NewBox("x", 1, 1, 1)
	d := NewDispatcher(&stubHitTester{hit: x})
	rec := &recorder{}
	d.OnHoverEnter("x", rec.fn("enter"))

	discrete(d, RawClick)
	d.Update()
	assertLog(t, rec.log)
}

func TestStaleHoverTargetSafety(t *testing.T) {
	root := NewGroup("root")
	x := NewBox("x", 1, 1, 1)
	root.AddChild(x)
	st := &stubHitTester{hit: x}
	d := NewDispatcher(st)

	var leaveCtx EventContext
	leaves := 0
	d.OnHoverEnter("x", func(EventContext) {})
	d.OnHoverLeave("x", func(ctx EventContext) {
		leaves++
		leaveCtx = ctx
	})

	motion(d)
	d.Update()

	x.Dispose()
	st.hit = nil
	motion(d)
	d.Update()

	if leaves != 1 {
		t.Fatalf("HoverLeave fired %d times, want 1", leaves)
	}
	if leaveCtx.Target != "x" {
		t.Errorf("Target = %q, want x", leaveCtx.Target)
	}
	if leaveCtx.Node != nil {
		t.Error("Node should be nil for a disposed object")
	}
}

func TestStaleHover_ReplacementWithSameTarget(t *testing.T) {
	x := NewBox("x", 1, 1, 1)
	st := &stubHitTester{hit: x}
	d := NewDispatcher(st)
	rec := &recorder{}
	d.OnHoverEnter("x", rec.fn("enter"))
	d.OnHoverLeave("x", rec.fn("leave"))

	motion(d)
	d.Update()

	// A new object reusing the target is a different object.
	x.Dispose()
	st.hit = NewBox("x", 1, 1, 1)
	rec.reset()
	motion(d)
	d.Update()
	assertLog(t, rec.log, "leave", "enter")
}

// --- Press / Release ---

func TestPressReleaseCorrelation(t *testing.T) {
	p := NewBox("p", 1, 1, 1)
	q := NewBox("q", 1, 1, 1)
	st := &stubHitTester{hit: p}
	d := NewDispatcher(st)
	rec := &recorder{}
	for _, n := range []*Node{p, q} {
		name := string(n.Target)
		d.OnPress(n.Target, rec.fn("press "+name))
		d.OnRelease(n.Target, rec.fn("release "+name))
		d.OnClick(n.Target, rec.fn("click "+name))
	}

	discrete(d, RawPress)
	d.Update()
	assertLog(t, rec.log, "press p")
	if target, ok := d.PressTarget(); !ok || target != "p" {
		t.Fatalf("PressTarget = %q, %v; want p, true", target, ok)
	}

	rec.reset()
	discrete(d, RawClick)
	d.Update()
	assertLog(t, rec.log, "release p", "click p")
	if _, ok := d.PressTarget(); ok {
		t.Error("press should be cleared after a correlated click")
	}

	// A second click without a press fires no release.
	rec.reset()
	discrete(d, RawClick)
	d.Update()
	assertLog(t, rec.log, "click p")
}

func TestPressReleaseDifferentObject(t *testing.T) {
	p := NewBox("p", 1, 1, 1)
	q := NewBox("q", 1, 1, 1)
	st := &stubHitTester{hit: p}
	d := NewDispatcher(st)
	rec := &recorder{}
	d.OnRelease("p", rec.fn("release p"))
	d.OnRelease("q", rec.fn("release q"))

	discrete(d, RawPress)
	d.Update()
	st.hit = q
	discrete(d, RawClick)
	d.Update()
	assertLog(t, rec.log)
	if target, ok := d.PressTarget(); !ok || target != "p" {
		t.Errorf("press should stay armed on p, got %q, %v", target, ok)
	}
}

func TestPressClearedWithoutReleaseHandler(t *testing.T) {
	p := NewBox("p", 1, 1, 1)
	d := NewDispatcher(&stubHitTester{hit: p})

	discrete(d, RawPress)
	d.Update()
	discrete(d, RawClick)
	d.Update()
	if _, ok := d.PressTarget(); ok {
		t.Error("press should be cleared even when no Release handler matched")
	}
}

func TestPressRearm(t *testing.T) {
	p := NewBox("p", 1, 1, 1)
	q := NewBox("q", 1, 1, 1)
	st := &stubHitTester{hit: p}
	d := NewDispatcher(st)
	rec := &recorder{}
	d.OnRelease("p", rec.fn("release p"))
	d.OnRelease("q", rec.fn("release q"))

	discrete(d, RawPress)
	d.Update()
	st.hit = q
	discrete(d, RawPress)
	d.Update()
	discrete(d, RawClick)
	d.Update()
	assertLog(t, rec.log, "release q")
}

func TestStalePressTargetSafety(t *testing.T) {
	p := NewBox("p", 1, 1, 1)
	st := &stubHitTester{hit: p}
	d := NewDispatcher(st)
	rec := &recorder{}
	d.OnRelease("p", rec.fn("release"))

	discrete(d, RawPress)
	d.Update()
	p.Dispose()
	st.hit = NewBox("p", 1, 1, 1)
	discrete(d, RawClick)
	d.Update()
	assertLog(t, rec.log)
}

// --- Coalescing ---

func TestCoalescing(t *testing.T) {
	left := NewBox("left", 1, 1, 1)
	right := NewBox("right", 1, 1, 1)
	st := &stubHitTester{pick: func(nx, ny float32) *Node {
		if nx < 0 {
			return left
		}
		return right
	}}
	d := NewDispatcher(st)
	rec := &recorder{}
	d.OnHoverEnter("left", rec.fn("enter left"))
	d.OnHoverEnter("right", rec.fn("enter right"))

	d.CaptureInput(RawEvent{Kind: RawMotion, X: 10, Y: 50, ViewportW: 100, ViewportH: 100})
	d.CaptureInput(RawEvent{Kind: RawMotion, X: 90, Y: 50, ViewportW: 100, ViewportH: 100})
	d.Update()

	assertLog(t, rec.log, "enter right")
	if st.calls != 1 {
		t.Errorf("hit tester called %d times, want 1", st.calls)
	}
}

func TestCoalescing_DiscreteOverwritesMotion(t *testing.T) {
	x := NewBox("x", 1, 1, 1)
	d := NewDispatcher(&stubHitTester{hit: x})
	rec := &recorder{}
	d.OnHoverEnter("x", rec.fn("enter"))
	d.OnClick("x", rec.fn("click"))

	motion(d)
	discrete(d, RawClick)
	d.Update()
	assertLog(t, rec.log, "click")
}

// --- At most one dispatch per kind ---

func TestAtMostOneDispatchPerKind(t *testing.T) {
	p := NewBox("p", 1, 1, 1)
	d := NewDispatcher(&stubHitTester{hit: p})
	counts := map[EventKind]int{}
	for i := 0; i < 3; i++ {
		for k := EventClick; k < eventKindCount; k++ {
			kind := k
			d.On("p", kind, func(EventContext) { counts[kind]++ })
		}
	}

	discrete(d, RawPress)
	d.Update()
	discrete(d, RawClick)
	d.Update()

	if counts[EventPress] != 1 || counts[EventRelease] != 1 || counts[EventClick] != 1 {
		t.Errorf("counts = %v, want one each of press, release and click", counts)
	}
}

// --- Failure handling ---

func TestHitTesterPanicIsNoHit(t *testing.T) {
	st := &stubHitTester{panicWith: "degenerate camera"}
	d := NewDispatcher(st)
	rec := &recorder{}
	d.OnClick("a", rec.fn("click"))

	discrete(d, RawClick)
	d.Update()
	assertLog(t, rec.log)
	if _, ok := d.Pending(); ok {
		t.Error("sample should be cleared")
	}
}

func TestHitWithNilNodeIsNoHit(t *testing.T) {
	d := NewDispatcher(nilNodeTester{})
	rec := &recorder{}
	d.OnClick("", rec.fn("click"))
	discrete(d, RawClick)
	d.Update()
	assertLog(t, rec.log)
}

type nilNodeTester struct{}

func (nilNodeTester) NearestHit(nx, ny float32) (Intersection, bool) {
	return Intersection{Distance: 1}, true
}

func TestHandlerPanicPropagates(t *testing.T) {
	a := NewBox("a", 1, 1, 1)
	d := NewDispatcher(&stubHitTester{hit: a})
	d.OnClick("a", func(EventContext) { panic("boom") })

	func() {
		defer func() {
			if r := recover(); r == nil {
				t.Error("expected handler panic to propagate")
			}
		}()
		discrete(d, RawClick)
		d.Update()
	}()

	if _, ok := d.Pending(); ok {
		t.Error("sample should be cleared after a handler panic")
	}
}

// --- Registry mutation ---

func TestRegisterFromHandler(t *testing.T) {
	a := NewBox("a", 1, 1, 1)
	d := NewDispatcher(&stubHitTester{hit: a})
	rec := &recorder{}
	d.OnClick("a", func(EventContext) {
		rec.log = append(rec.log, "first")
		d.OnClick("a", rec.fn("added"))
		d.OnClick("b", rec.fn("added b"))
	})

	discrete(d, RawClick)
	d.Update()
	assertLog(t, rec.log, "first")
	if n := d.HandlerCount(EventClick); n != 3 {
		t.Errorf("HandlerCount = %d, want 3", n)
	}
}

func TestOnIgnoresInvalid(t *testing.T) {
	d := NewDispatcher(nil)
	d.On("a", eventKindCount, func(EventContext) {})
	d.On("a", EventClick, nil)
	if n := d.HandlerCount(EventClick); n != 0 {
		t.Errorf("HandlerCount = %d, want 0", n)
	}
}

func TestEventContextFields(t *testing.T) {
	a := NewBox("a", 1, 1, 1)
	a.EntityID = 7
	a.UserData = "payload"
	d := NewDispatcher(&stubHitTester{hit: a, dist: 4.5})
	var got EventContext
	d.OnClick("a", func(ctx EventContext) { got = ctx })

	d.CaptureInput(RawEvent{Kind: RawMotion, X: 0, Y: 0, ViewportW: 10, ViewportH: 10})
	discrete(d, RawClick)
	d.Update()

	if got.Kind != EventClick || got.Node != a || got.Target != "a" {
		t.Errorf("ctx = %+v", got)
	}
	if got.Distance != 4.5 || got.EntityID != 7 || got.UserData != "payload" {
		t.Errorf("ctx = %+v", got)
	}
	if got.NX != -1 || got.NY != 1 {
		t.Errorf("ctx position = (%v, %v), want (-1, 1)", got.NX, got.NY)
	}
}

// --- ECS bridge test ---

type mockStore struct {
	events []InteractionEvent
}

func (m *mockStore) EmitEvent(e InteractionEvent) {
	m.events = append(m.events, e)
}

func TestECSBridge(t *testing.T) {
	a := NewBox("a", 1, 1, 1)
	a.EntityID = 42
	d := NewDispatcher(&stubHitTester{hit: a})
	store := &mockStore{}
	d.SetEntityStore(store)
	d.OnClick("a", func(EventContext) {})

	discrete(d, RawClick)
	d.Update()

	if len(store.events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(store.events))
	}
	e := store.events[0]
	if e.Type != EventClick || e.EntityID != 42 || e.Target != "a" {
		t.Errorf("unexpected event: %+v", e)
	}
}

func TestECSBridge_NoEntity(t *testing.T) {
	a := NewBox("a", 1, 1, 1)
	d := NewDispatcher(&stubHitTester{hit: a})
	store := &mockStore{}
	d.SetEntityStore(store)
	d.OnClick("a", func(EventContext) {})

	discrete(d, RawClick)
	d.Update()
	if len(store.events) != 0 {
		t.Errorf("expected 0 events for node without EntityID, got %d", len(store.events))
	}
}

func TestECSBridge_OnlyDispatchedEvents(t *testing.T) {
	a := NewBox("a", 1, 1, 1)
	a.EntityID = 1
	d := NewDispatcher(&stubHitTester{hit: a})
	store := &mockStore{}
	d.SetEntityStore(store)

	discrete(d, RawClick)
	d.Update()
	if len(store.events) != 0 {
		t.Errorf("expected 0 events without a matching handler, got %d", len(store.events))
	}
}

// --- Benchmarks ---

func BenchmarkDispatch_100Handlers(b *testing.B) {
	a := NewBox("a", 1, 1, 1)
	d := NewDispatcher(&stubHitTester{hit: a})
	for i := 0; i < 99; i++ {
		d.OnClick(TargetID("other"), func(EventContext) {})
	}
	d.OnClick("a", func(EventContext) {})

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		discrete(d, RawClick)
		d.Update()
	}
}
