package showroom

import (
	"image/color"
	"math"
)

// TargetID is the stable identifier handlers are matched against. It is kept
// separate from a node's display Label so relabelling an object never breaks
// handler matching. The empty TargetID is unaddressable.
type TargetID string

// String returns the identifier as a plain string.
func (t TargetID) String() string {
	return string(t)
}

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
type Color struct {
	R, G, B, A float64
}

// ColorWhite is the default wireframe color.
var ColorWhite = Color{1, 1, 1, 1}

// RGBA converts the color to an 8-bit color.RGBA, premultiplying alpha.
func (c Color) RGBA() color.RGBA {
	a := clamp01(c.A)
	return color.RGBA{
		R: uint8(math.Round(clamp01(c.R) * a * 255)),
		G: uint8(math.Round(clamp01(c.G) * a * 255)),
		B: uint8(math.Round(clamp01(c.B) * a * 255)),
		A: uint8(math.Round(a * 255)),
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// EventKind identifies a kind of semantic interaction event.
type EventKind uint8

const (
	EventClick       EventKind = iota // press and release on the same object
	EventDoubleClick                  // second click within the double-click window
	EventContextMenu                  // secondary button press
	EventPress                        // primary button pressed over an object
	EventRelease                      // a click on the object that was last pressed
	EventHoverEnter                   // pointer moved onto an object
	EventHoverLeave                   // pointer moved off the hovered object
	eventKindCount
)

var eventKindNames = [eventKindCount]string{
	"click", "dblclick", "contextmenu", "press", "release", "hoverenter", "hoverleave",
}

// String returns the lower-case name of the event kind.
func (k EventKind) String() string {
	if k < eventKindCount {
		return eventKindNames[k]
	}
	return "unknown"
}

// RawEventKind identifies a raw pointer event delivered by the host.
// There is deliberately no raw release: releases are only observed through
// the click that follows them.
type RawEventKind uint8

const (
	RawMotion      RawEventKind = iota + 1 // pointer moved
	RawClick                               // primary button clicked
	RawDoubleClick                         // primary button double-clicked
	RawContextMenu                         // context menu requested
	RawPress                               // primary button pressed
)

// String returns the lower-case name of the raw event kind.
func (k RawEventKind) String() string {
	switch k {
	case RawMotion:
		return "motion"
	case RawClick:
		return "click"
	case RawDoubleClick:
		return "dblclick"
	case RawContextMenu:
		return "contextmenu"
	case RawPress:
		return "press"
	default:
		return "unknown"
	}
}

// eventKind maps a discrete raw kind to the semantic kind it dispatches as.
func (k RawEventKind) eventKind() (EventKind, bool) {
	switch k {
	case RawClick:
		return EventClick, true
	case RawDoubleClick:
		return EventDoubleClick, true
	case RawContextMenu:
		return EventContextMenu, true
	case RawPress:
		return EventPress, true
	default:
		return 0, false
	}
}

// RawEvent is a pointer event as delivered by the host input layer.
// X and Y are pixel coordinates with the origin at the top-left of the
// viewport; ViewportW and ViewportH are the viewport size in pixels.
type RawEvent struct {
	Kind                 RawEventKind
	X, Y                 float64
	ViewportW, ViewportH float64
}
