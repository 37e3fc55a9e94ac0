package showroom

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

// Showroom is a scene assembled from a Config, with its panels wired to the
// objects that open them.
type Showroom struct {
	Scene     *Scene
	Config    Config
	Controls  *OrbitControls
	Character *WalkController
	Panels    []*Panel

	// HoverColor tints an object while the pointer is over it.
	HoverColor Color

	baseColors map[TargetID]Color
}

// BuildShowroom validates cfg and builds the scene it describes.
func BuildShowroom(cfg Config) (*Showroom, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "build showroom")
	}

	s := NewScene()
	s.SetViewport(float64(cfg.Window.Width), float64(cfg.Window.Height))

	cam := s.Camera()
	cam.FOV, cam.Near, cam.Far = cfg.Camera.FOV, cfg.Camera.Near, cfg.Camera.Far
	cam.Position = cfg.Camera.Position
	cam.LookAt(cfg.Camera.Target)

	sr := &Showroom{
		Scene:      s,
		Config:     cfg,
		HoverColor: Color{1, 0.85, 0.3, 1},
		baseColors: map[TargetID]Color{},
	}

	if cfg.Orbit.Enabled {
		c := NewOrbitControls(cam)
		c.MinDistance, c.MaxDistance = cfg.Orbit.MinDistance, cfg.Orbit.MaxDistance
		c.MinPolarAngle, c.MaxPolarAngle = cfg.Orbit.MinPolarAngle, cfg.Orbit.MaxPolarAngle
		c.EnablePan = cfg.Orbit.EnablePan
		c.EnableDamping = cfg.Orbit.EnableDamping
		c.DampingFactor = cfg.Orbit.DampingFactor
		if cfg.Orbit.RotateSpeed > 0 {
			c.RotateSpeed = cfg.Orbit.RotateSpeed
		}
		if cfg.Orbit.ZoomSpeed > 0 {
			c.ZoomSpeed = cfg.Orbit.ZoomSpeed
		}
		s.SetOrbitControls(c)
		sr.Controls = c
	}

	for _, oc := range cfg.Objects {
		n := newObjectNode(oc)
		s.Root().AddChild(n)
		if n.Target != "" {
			if _, seen := sr.baseColors[n.Target]; !seen {
				sr.baseColors[n.Target] = n.Color
			}
		}
	}

	for _, pc := range cfg.Panels {
		sr.Panels = append(sr.Panels, newConfigPanel(s, pc))
	}

	if cfg.Character.Enabled {
		sz := cfg.Character.Size
		if !positive(sz) {
			sz = mgl32.Vec3{0.5, 1.8, 0.5}
		}
		model := NewBox("", sz.X(), sz.Y(), sz.Z())
		model.Label = "character"
		model.Position = cfg.Character.Position
		model.Interactable = false
		model.Color = Color{0.9, 0.5, 0.2, 1}
		s.Root().AddChild(model)

		wc := NewWalkController(model, cam, sr.Controls, nil)
		wc.WalkSpeed = cfg.Character.WalkSpeed
		wc.RunSpeed = cfg.Character.RunSpeed
		wc.FadeDuration = cfg.Character.FadeDuration
		s.SetCharacter(wc)
		sr.Character = wc
	}

	sr.Wire()
	return sr, nil
}

func newObjectNode(oc ObjectConfig) *Node {
	target := TargetID(oc.Target)
	var n *Node
	switch oc.Shape {
	case ShapeSphere:
		n = NewSphere(target, oc.Radius)
	case ShapeQuad:
		n = NewMeshNode(target, QuadTriangles(oc.Size.X(), oc.Size.Y()))
	default:
		n = NewBox(target, oc.Size.X(), oc.Size.Y(), oc.Size.Z())
	}
	n.Label = oc.Label
	n.Position = oc.Position
	n.Rotation = oc.Rotation
	if oc.Color != ([4]float64{}) {
		n.Color = colorOf(oc.Color)
	}
	n.Interactable = !oc.Passive
	return n
}

func newConfigPanel(s *Scene, pc PanelConfig) *Panel {
	body := NewBox("", pc.Size.X(), pc.Size.Y(), pc.Size.Z())
	body.Label = pc.Name
	if pc.Color != ([4]float64{}) {
		body.Color = colorOf(pc.Color)
	}
	p := NewPanel(s, pc.Name, body, TargetID(pc.Trigger), TargetID(pc.Close))
	scale := pc.OpenScale
	if scale <= 0 {
		scale = 1
	}
	p.OpenPose = Pose{
		Position: pc.OpenPosition,
		Rotation: pc.OpenRotation,
		Scale:    mgl32.Vec3{scale, scale, scale},
	}
	p.ClosedPose = Pose{Position: pc.ClosedPosition}
	p.ClosedPose.apply(body)
	p.CloseButtonSize = pc.CloseButtonSize
	p.CloseButtonOffset = pc.CloseButtonOffset
	p.FocusCamera = pc.FocusCamera
	p.ReturnCamera = pc.ReturnCamera
	p.Duration = pc.Duration
	return p
}

// Wire registers the showroom's handlers: each panel's open and close clicks,
// and hover highlighting for every addressable object and close button.
// BuildShowroom calls it once.
func (sr *Showroom) Wire() {
	d := sr.Scene.Dispatcher()
	for _, p := range sr.Panels {
		p.Wire(d)
		sr.baseColors[p.CloseTarget] = p.CloseButtonColor
	}
	for target, base := range sr.baseColors {
		d.OnHoverEnter(target, func(ctx EventContext) {
			if ctx.Node != nil {
				ctx.Node.Color = sr.HoverColor
			}
		})
		d.OnHoverLeave(target, func(ctx EventContext) {
			if ctx.Node != nil {
				ctx.Node.Color = base
			}
		})
	}
	if sr.Scene.debug {
		debugf("wired %d panels, %d hover targets, %d interactable nodes",
			len(sr.Panels), len(sr.baseColors), countInteractable(sr.Scene.Root()))
	}
}

// Panel returns the panel with the given name, or nil.
func (sr *Showroom) Panel(name string) *Panel {
	for _, p := range sr.Panels {
		if p.Name == name {
			return p
		}
	}
	return nil
}
