package showroom

// syntheticPointerEvent represents a single injected pointer event.
// Screen coordinates are used (matching what is seen in screenshots) and are
// normalized against the scene viewport at delivery time, identical to real
// mouse input.
type syntheticPointerEvent struct {
	kind             RawEventKind
	screenX, screenY float64
}

func (s *Scene) inject(kind RawEventKind, x, y float64) {
	s.injectQueue = append(s.injectQueue, syntheticPointerEvent{kind: kind, screenX: x, screenY: y})
}

// InjectMotion queues a pointer move to the given screen coordinates.
// The event is consumed on the next frame's Update call.
func (s *Scene) InjectMotion(x, y float64) {
	s.inject(RawMotion, x, y)
}

// InjectPress queues a primary button press. Like real input, a discrete
// event reuses the last pointer position; the coordinates are recorded for
// screenshots and logs only. Use InjectMotion first to aim.
func (s *Scene) InjectPress(x, y float64) {
	s.inject(RawPress, x, y)
}

// InjectClick queues a primary button click.
func (s *Scene) InjectClick(x, y float64) {
	s.inject(RawClick, x, y)
}

// InjectDoubleClick queues a double click.
func (s *Scene) InjectDoubleClick(x, y float64) {
	s.inject(RawDoubleClick, x, y)
}

// InjectContextMenu queues a context menu request.
func (s *Scene) InjectContextMenu(x, y float64) {
	s.inject(RawContextMenu, x, y)
}

// InjectTap queues the full browser sequence for a click at (x, y):
// a move, a press and a click. Consumes three frames.
func (s *Scene) InjectTap(x, y float64) {
	s.InjectMotion(x, y)
	s.InjectPress(x, y)
	s.InjectClick(x, y)
}

// PendingInjections returns the number of queued synthetic events.
func (s *Scene) PendingInjections() int {
	return len(s.injectQueue)
}

// processInjectedInput pops one event from the inject queue and feeds it to
// the dispatcher. Returns true if an event was consumed (real input should
// be skipped this frame).
func (s *Scene) processInjectedInput() bool {
	if len(s.injectQueue) == 0 {
		return false
	}
	evt := s.injectQueue[0]
	copy(s.injectQueue, s.injectQueue[1:])
	s.injectQueue = s.injectQueue[:len(s.injectQueue)-1]

	s.dispatcher.CaptureInput(RawEvent{
		Kind:      evt.kind,
		X:         evt.screenX,
		Y:         evt.screenY,
		ViewportW: s.viewportW,
		ViewportH: s.viewportH,
	})
	return true
}
