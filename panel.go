package showroom

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/tanema/gween/ease"
)

// Pose is a node transform that a panel animates between.
type Pose struct {
	Position mgl32.Vec3
	Rotation mgl32.Vec3
	Scale    mgl32.Vec3
}

func (p Pose) apply(n *Node) {
	n.Position, n.Rotation, n.Scale = p.Position, p.Rotation, p.Scale
	n.MarkDirty()
}

// Panel is an information board that opens when its trigger object is clicked
// and closes through a close button it spawns while open. A closed panel is
// scaled to zero, so ray casts skip it.
type Panel struct {
	Name        string
	Node        *Node
	Trigger     TargetID
	CloseTarget TargetID

	OpenPose   Pose
	ClosedPose Pose

	// CloseButtonSize and CloseButtonOffset describe the close button box, in
	// the panel's local space.
	CloseButtonSize   mgl32.Vec3
	CloseButtonOffset mgl32.Vec3
	CloseButtonColor  Color

	// FocusCamera is where the camera moves when the panel opens; ReturnCamera
	// is where it goes back to on close.
	FocusCamera  mgl32.Vec3
	ReturnCamera mgl32.Vec3

	Duration float32
	Ease     ease.TweenFunc

	// OnOpen and OnClose are called after the panel changes state.
	OnOpen, OnClose func(p *Panel)

	scene       *Scene
	closeButton *Node
	open        bool
}

// NewPanel creates a closed panel around node and adds node to the scene root.
func NewPanel(s *Scene, name string, node *Node, trigger, closeTarget TargetID) *Panel {
	p := &Panel{
		Name:              name,
		Node:              node,
		Trigger:           trigger,
		CloseTarget:       closeTarget,
		OpenPose:          Pose{Scale: mgl32.Vec3{1, 1, 1}},
		CloseButtonSize:   mgl32.Vec3{0.1, 0.1, 0.02},
		CloseButtonOffset: mgl32.Vec3{0.5, 0.5, 0.02},
		CloseButtonColor:  Color{0.9, 0.2, 0.2, 1},
		FocusCamera:       s.camera.Position,
		ReturnCamera:      s.camera.Position,
		Duration:          0.4,
		Ease:              ease.OutCubic,
		scene:             s,
	}
	p.ClosedPose.apply(node)
	s.root.AddChild(node)
	return p
}

// IsOpen reports whether the panel is open.
func (p *Panel) IsOpen() bool {
	return p.open
}

// CloseButton returns the close button while the panel is open, or nil.
func (p *Panel) CloseButton() *Node {
	return p.closeButton
}

// Open animates the panel to its open pose, adds the close button and moves
// the camera to the focus position. Opening an open panel does nothing.
func (p *Panel) Open() {
	if p.open || p.Node.IsDisposed() {
		return
	}
	p.open = true
	p.animateTo(p.OpenPose)

	btn := NewBox(p.CloseTarget, p.CloseButtonSize.X(), p.CloseButtonSize.Y(), p.CloseButtonSize.Z())
	btn.Label = p.Name + " close"
	btn.Position = p.CloseButtonOffset
	btn.Color = p.CloseButtonColor
	p.Node.AddChild(btn)
	p.closeButton = btn

	p.scene.MoveCameraTo(p.FocusCamera, p.Duration, p.Ease)
	if p.scene.debug {
		debugf("panel %q open", p.Name)
	}
	if p.OnOpen != nil {
		p.OnOpen(p)
	}
}

// Close animates the panel back to its closed pose, removes the close button
// and returns the camera. Closing a closed panel does nothing.
func (p *Panel) Close() {
	if !p.open {
		return
	}
	p.open = false
	if p.closeButton != nil {
		p.closeButton.Dispose()
		p.closeButton = nil
	}
	if !p.Node.IsDisposed() {
		p.animateTo(p.ClosedPose)
	}

	p.scene.MoveCameraTo(p.ReturnCamera, p.Duration, p.Ease)
	if p.scene.debug {
		debugf("panel %q closed", p.Name)
	}
	if p.OnClose != nil {
		p.OnClose(p)
	}
}

// Toggle opens a closed panel and closes an open one.
func (p *Panel) Toggle() {
	if p.open {
		p.Close()
		return
	}
	p.Open()
}

func (p *Panel) animateTo(pose Pose) {
	p.scene.CancelTweens(p.Node)
	if p.Duration <= 0 {
		pose.apply(p.Node)
		return
	}
	p.scene.AddTween(TweenPosition(p.Node, pose.Position, p.Duration, p.Ease))
	p.scene.AddTween(TweenRotation(p.Node, pose.Rotation, p.Duration, p.Ease))
	p.scene.AddTween(TweenScale(p.Node, pose.Scale, p.Duration, p.Ease))
}

// Wire registers the panel's handlers: a click on the trigger opens it and a
// click on the close button closes it.
func (p *Panel) Wire(d *Dispatcher) {
	d.OnClick(p.Trigger, func(EventContext) { p.Open() })
	d.OnClick(p.CloseTarget, func(EventContext) { p.Close() })
}
