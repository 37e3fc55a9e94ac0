package showroom

import (
	"fmt"
	"os"
	"time"
)

// debugStats holds per-frame timing and dispatch metrics.
// Only populated when Scene.debug is true.
type debugStats struct {
	inputTime     time.Duration
	animateTime   time.Duration
	transformTime time.Duration
	dispatchTime  time.Duration
	dispatched    int
}

// debugLog prints timing and dispatch stats to stderr.
func (s *Scene) debugLog(stats debugStats) {
	if !s.debug {
		return
	}
	total := stats.inputTime + stats.animateTime + stats.transformTime + stats.dispatchTime
	_, _ = fmt.Fprintf(os.Stderr,
		"[showroom] input: %v | animate: %v | transform: %v | dispatch: %v | total: %v\n",
		stats.inputTime, stats.animateTime, stats.transformTime, stats.dispatchTime, total)
	if stats.dispatched > 0 {
		_, _ = fmt.Fprintf(os.Stderr, "[showroom] dispatched: %d\n", stats.dispatched)
	}
}

// debugf prints a prefixed diagnostic line to stderr.
func debugf(format string, args ...any) {
	_, _ = fmt.Fprintf(os.Stderr, "[showroom] "+format+"\n", args...)
}

// debugCheckDisposed panics with a descriptive message when a disposed node is
// used in a tree operation. Only called when the scene is in debug mode.
func debugCheckDisposed(n *Node, op string) {
	if n.disposed {
		panic(fmt.Sprintf("showroom debug: %s on disposed node %q", op, n.String()))
	}
}

// debugCheckTreeDepth warns on stderr if tree depth exceeds the threshold.
const debugMaxTreeDepth = 32

func debugCheckTreeDepth(n *Node) {
	depth := 0
	for p := n; p != nil; p = p.Parent {
		depth++
	}
	if depth > debugMaxTreeDepth {
		debugf("warning: tree depth %d exceeds %d (node %q)", depth, debugMaxTreeDepth, n.String())
	}
}

// debugCheckChildCount warns on stderr if a node has more than 1000 children.
const debugMaxChildCount = 1000

func debugCheckChildCount(n *Node) {
	if len(n.children) > debugMaxChildCount {
		debugf("warning: node %q has %d children (threshold %d)",
			n.String(), len(n.children), debugMaxChildCount)
	}
}

// countInteractable counts visible, interactable nodes that carry a hit shape.
func countInteractable(root *Node) int {
	count := 0
	root.Walk(func(n *Node) bool {
		if !n.Visible || !n.Interactable {
			return false
		}
		if n.HitShape != nil {
			count++
		}
		return true
	})
	return count
}
