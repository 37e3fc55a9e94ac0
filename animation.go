package showroom

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// TweenGroup animates up to 3 float32 fields on a Node simultaneously.
// Create one via the convenience constructors (TweenPosition, TweenScale,
// TweenRotation) and either call Update(dt) each frame or hand it to
// Scene.AddTween. The group auto-applies values and marks the node dirty.
// If the target node is disposed, the group stops immediately.
type TweenGroup struct {
	tweens [3]*gween.Tween
	count  int
	fields [3]*float32
	target *Node
	Done   bool

	// OnDone is called once, on the frame the group finishes.
	OnDone func()
}

// Update advances all tweens by dt seconds, writes values to the target fields,
// and marks the node dirty. If the target node has been disposed, Done is set
// to true and no writes occur.
func (g *TweenGroup) Update(dt float32) {
	if g.Done {
		return
	}

	if g.target != nil && g.target.IsDisposed() {
		g.Done = true
		return
	}

	allDone := true
	for i := 0; i < g.count; i++ {
		val, finished := g.tweens[i].Update(dt)
		*g.fields[i] = val
		if !finished {
			allDone = false
		}
	}
	g.Done = allDone

	if g.target != nil {
		g.target.MarkDirty()
	}
	if g.Done && g.OnDone != nil {
		fn := g.OnDone
		g.OnDone = nil
		fn()
	}
}

func tweenVec3(node *Node, field *mgl32.Vec3, to mgl32.Vec3, duration float32, fn ease.TweenFunc) *TweenGroup {
	if fn == nil {
		fn = ease.Linear
	}
	g := &TweenGroup{count: 3, target: node}
	for i := 0; i < 3; i++ {
		g.tweens[i] = gween.New(field[i], to[i], duration, fn)
		g.fields[i] = &field[i]
	}
	return g
}

// TweenPosition creates a TweenGroup that animates node.Position to the given
// target over the specified duration using the easing function.
func TweenPosition(node *Node, to mgl32.Vec3, duration float32, fn ease.TweenFunc) *TweenGroup {
	return tweenVec3(node, &node.Position, to, duration, fn)
}

// TweenScale creates a TweenGroup that animates node.Scale to the given
// target over the specified duration using the easing function.
func TweenScale(node *Node, to mgl32.Vec3, duration float32, fn ease.TweenFunc) *TweenGroup {
	return tweenVec3(node, &node.Scale, to, duration, fn)
}

// TweenRotation creates a TweenGroup that animates the Euler angles of
// node.Rotation to the given target over the specified duration.
func TweenRotation(node *Node, to mgl32.Vec3, duration float32, fn ease.TweenFunc) *TweenGroup {
	return tweenVec3(node, &node.Rotation, to, duration, fn)
}

// TweenValue creates a TweenGroup that animates a single float32 not owned
// by a node, such as an animation weight.
func TweenValue(field *float32, to float32, duration float32, fn ease.TweenFunc) *TweenGroup {
	if fn == nil {
		fn = ease.Linear
	}
	g := &TweenGroup{count: 1}
	g.tweens[0] = gween.New(*field, to, duration, fn)
	g.fields[0] = field
	return g
}

// tweenList runs a set of groups and drops finished ones.
type tweenList struct {
	groups []*TweenGroup
}

func (l *tweenList) add(g *TweenGroup) {
	l.groups = append(l.groups, g)
}

// cancel stops and removes every group animating node.
func (l *tweenList) cancel(node *Node) {
	kept := l.groups[:0]
	for _, g := range l.groups {
		if g.target == node {
			g.Done = true
			continue
		}
		kept = append(kept, g)
	}
	for i := len(kept); i < len(l.groups); i++ {
		l.groups[i] = nil
	}
	l.groups = kept
}

// update advances every group. Groups added while updating start next frame.
// A cancel from inside an OnDone callback may shrink the list mid-pass.
func (l *tweenList) update(dt float32) {
	n := len(l.groups)
	for i := 0; i < n && i < len(l.groups); i++ {
		l.groups[i].Update(dt)
	}
	kept := l.groups[:0]
	for _, g := range l.groups {
		if !g.Done {
			kept = append(kept, g)
		}
	}
	for i := len(kept); i < len(l.groups); i++ {
		l.groups[i] = nil
	}
	l.groups = kept
}

func (l *tweenList) len() int {
	return len(l.groups)
}
