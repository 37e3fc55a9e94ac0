package showroom

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config describes a showroom: window, camera and controls, the clickable
// objects and the panels they open. Load one with LoadConfig or start from
// DefaultConfig.
type Config struct {
	Window    WindowConfig    `toml:"window" yaml:"window"`
	Camera    CameraConfig    `toml:"camera" yaml:"camera"`
	Orbit     OrbitConfig     `toml:"orbit" yaml:"orbit"`
	Character CharacterConfig `toml:"character" yaml:"character"`
	Input     InputConfig     `toml:"input" yaml:"input"`
	Objects   []ObjectConfig  `toml:"objects" yaml:"objects"`
	Panels    []PanelConfig   `toml:"panels" yaml:"panels"`
}

// WindowConfig sets the window title, size, background and FPS overlay.
type WindowConfig struct {
	Title   string `toml:"title" yaml:"title"`
	Width   int    `toml:"width" yaml:"width"`
	Height  int    `toml:"height" yaml:"height"`
	ShowFPS bool   `toml:"show_fps" yaml:"show_fps"`
	// Background is an RGB triple in [0, 1].
	Background [3]float64 `toml:"background" yaml:"background"`
}

// CameraConfig places the perspective camera. FOV is in degrees.
type CameraConfig struct {
	FOV      float32    `toml:"fov" yaml:"fov"`
	Near     float32    `toml:"near" yaml:"near"`
	Far      float32    `toml:"far" yaml:"far"`
	Position mgl32.Vec3 `toml:"position" yaml:"position"`
	Target   mgl32.Vec3 `toml:"target" yaml:"target"`
}

// OrbitConfig tunes the orbit controls. Angles are in radians.
type OrbitConfig struct {
	Enabled       bool    `toml:"enabled" yaml:"enabled"`
	MinDistance   float32 `toml:"min_distance" yaml:"min_distance"`
	MaxDistance   float32 `toml:"max_distance" yaml:"max_distance"`
	MinPolarAngle float32 `toml:"min_polar_angle" yaml:"min_polar_angle"`
	MaxPolarAngle float32 `toml:"max_polar_angle" yaml:"max_polar_angle"`
	EnablePan     bool    `toml:"enable_pan" yaml:"enable_pan"`
	EnableDamping bool    `toml:"enable_damping" yaml:"enable_damping"`
	DampingFactor float32 `toml:"damping_factor" yaml:"damping_factor"`
	RotateSpeed   float32 `toml:"rotate_speed" yaml:"rotate_speed"`
	ZoomSpeed     float32 `toml:"zoom_speed" yaml:"zoom_speed"`
}

// CharacterConfig places the walking character and sets its speeds.
type CharacterConfig struct {
	Enabled      bool       `toml:"enabled" yaml:"enabled"`
	Position     mgl32.Vec3 `toml:"position" yaml:"position"`
	Size         mgl32.Vec3 `toml:"size" yaml:"size"`
	WalkSpeed    float32    `toml:"walk_speed" yaml:"walk_speed"`
	RunSpeed     float32    `toml:"run_speed" yaml:"run_speed"`
	FadeDuration float32    `toml:"fade_duration" yaml:"fade_duration"`
}

// InputConfig sets the double-click window used by the ebiten input adapter.
type InputConfig struct {
	// DoubleClickMillis is the longest gap between two clicks of a double click.
	DoubleClickMillis int `toml:"double_click_ms" yaml:"double_click_ms"`
	// DoubleClickDistance is the farthest the pointer may move between them, in pixels.
	DoubleClickDistance float64 `toml:"double_click_distance" yaml:"double_click_distance"`
}

// Object shapes.
const (
	ShapeBox    = "box"
	ShapeSphere = "sphere"
	ShapeQuad   = "quad"
)

// ObjectConfig places one object. Objects sharing a target all trigger the
// same handlers. An empty target makes the object unaddressable.
type ObjectConfig struct {
	Target   string     `toml:"target" yaml:"target"`
	Label    string     `toml:"label" yaml:"label"`
	Shape    string     `toml:"shape" yaml:"shape"`
	Size     mgl32.Vec3 `toml:"size" yaml:"size"`
	Radius   float32    `toml:"radius" yaml:"radius"`
	Position mgl32.Vec3 `toml:"position" yaml:"position"`
	Rotation mgl32.Vec3 `toml:"rotation" yaml:"rotation"`
	Color    [4]float64 `toml:"color" yaml:"color"`
	// Passive objects are drawn but never hit.
	Passive bool `toml:"passive" yaml:"passive"`
}

// PanelConfig describes a panel opened by clicking Trigger.
type PanelConfig struct {
	Name              string     `toml:"name" yaml:"name"`
	Trigger           string     `toml:"trigger" yaml:"trigger"`
	Close             string     `toml:"close" yaml:"close"`
	Size              mgl32.Vec3 `toml:"size" yaml:"size"`
	OpenPosition      mgl32.Vec3 `toml:"open_position" yaml:"open_position"`
	OpenRotation      mgl32.Vec3 `toml:"open_rotation" yaml:"open_rotation"`
	OpenScale         float32    `toml:"open_scale" yaml:"open_scale"`
	ClosedPosition    mgl32.Vec3 `toml:"closed_position" yaml:"closed_position"`
	CloseButtonSize   mgl32.Vec3 `toml:"close_button_size" yaml:"close_button_size"`
	CloseButtonOffset mgl32.Vec3 `toml:"close_button_offset" yaml:"close_button_offset"`
	FocusCamera       mgl32.Vec3 `toml:"focus_camera" yaml:"focus_camera"`
	ReturnCamera      mgl32.Vec3 `toml:"return_camera" yaml:"return_camera"`
	Duration          float32    `toml:"duration" yaml:"duration"`
	Color             [4]float64 `toml:"color" yaml:"color"`
}

// DefaultConfig returns the stock showroom: four menu signs that open the
// about and demo panels, two employee stands that open the employee card, and
// a walkable character.
func DefaultConfig() Config {
	sign := mgl32.Vec3{1, 1, 0.1}
	signColor := [4]float64{0.35, 0.6, 0.95, 1}
	standColor := [4]float64{1, 1, 1, 1}
	return Config{
		Window: WindowConfig{
			Title:      "Showroom",
			Width:      1280,
			Height:     720,
			ShowFPS:    true,
			Background: [3]float64{0.53, 0.81, 0.92},
		},
		Camera: CameraConfig{
			FOV:      75,
			Near:     0.1,
			Far:      1000,
			Position: mgl32.Vec3{5, 5, 0},
		},
		Orbit: OrbitConfig{
			Enabled:       true,
			MinDistance:   5,
			MaxDistance:   15,
			MaxPolarAngle: math.Pi/2 - 0.05,
			EnableDamping: true,
			DampingFactor: 0.05,
			RotateSpeed:   1,
			ZoomSpeed:     1,
		},
		Character: CharacterConfig{
			Enabled:      true,
			Size:         mgl32.Vec3{0.5, 1.8, 0.5},
			WalkSpeed:    2,
			RunSpeed:     5,
			FadeDuration: 0.2,
		},
		Input: InputConfig{
			DoubleClickMillis:   400,
			DoubleClickDistance: 4,
		},
		Objects: []ObjectConfig{
			{Label: "floor", Shape: ShapeQuad, Size: mgl32.Vec3{40, 40, 0}, Rotation: mgl32.Vec3{-math.Pi / 2, 0, 0}, Color: [4]float64{0.4, 0.4, 0.4, 1}, Passive: true},
			{Target: "bulb1", Label: "about", Shape: ShapeBox, Size: sign, Position: mgl32.Vec3{4, 0.5, 4}, Color: signColor},
			{Target: "bulb2", Label: "services", Shape: ShapeBox, Size: sign, Position: mgl32.Vec3{4.5, 1.5, 4}, Color: signColor},
			{Target: "bulb3", Label: "demo", Shape: ShapeBox, Size: sign, Position: mgl32.Vec3{4.1, 2.5, 4}, Color: signColor},
			{Target: "bulb4", Label: "demo 2", Shape: ShapeBox, Size: sign, Position: mgl32.Vec3{3.7, 3.5, 4}, Color: signColor},
			{Target: "employeeView", Label: "employee 1", Shape: ShapeBox, Size: mgl32.Vec3{1, 1, 1}, Position: mgl32.Vec3{5, 0.4, 0}, Color: standColor},
			{Target: "employeeView", Label: "employee 2", Shape: ShapeBox, Size: mgl32.Vec3{1, 1, 1}, Position: mgl32.Vec3{5, 0.4, -3}, Color: standColor},
		},
		Panels: []PanelConfig{
			{
				Name:              "about",
				Trigger:           "bulb1",
				Close:             "close",
				Size:              mgl32.Vec3{1.2, 1.2, 0.02},
				OpenPosition:      mgl32.Vec3{1, 1.5, 2},
				OpenScale:         2,
				ClosedPosition:    mgl32.Vec3{-1, -1, -1},
				CloseButtonSize:   mgl32.Vec3{0.1, 0.1, 0.02},
				CloseButtonOffset: mgl32.Vec3{0.55, 0.55, 0.03},
				FocusCamera:       mgl32.Vec3{0, 0.1, 6},
				ReturnCamera:      mgl32.Vec3{0, 5, 5},
				Duration:          0.4,
				Color:             [4]float64{0, 0, 0, 0.7},
			},
			{
				Name:              "demo",
				Trigger:           "bulb2",
				Close:             "close2",
				Size:              mgl32.Vec3{1.2, 1.2, 0.02},
				OpenPosition:      mgl32.Vec3{1, 1.5, 2},
				OpenScale:         2,
				ClosedPosition:    mgl32.Vec3{-1, -1, -1},
				CloseButtonSize:   mgl32.Vec3{0.1, 0.1, 0.02},
				CloseButtonOffset: mgl32.Vec3{0.48, 0.55, 0.03},
				FocusCamera:       mgl32.Vec3{0, 0.1, 6},
				ReturnCamera:      mgl32.Vec3{0, 5, 5},
				Duration:          0.4,
				Color:             [4]float64{0, 0, 0, 0.7},
			},
			{
				Name:              "employee",
				Trigger:           "employeeView",
				Close:             "close3",
				Size:              mgl32.Vec3{1.6, 1, 0.02},
				OpenPosition:      mgl32.Vec3{6, 1.75, -3},
				OpenRotation:      mgl32.Vec3{0, math.Pi / 2, 0},
				OpenScale:         1,
				CloseButtonSize:   mgl32.Vec3{0.1, 0.1, 0.04},
				CloseButtonOffset: mgl32.Vec3{0.75, 0.45, 0.04},
				FocusCamera:       mgl32.Vec3{8, 1.75, -3},
				ReturnCamera:      mgl32.Vec3{0, 5, 5},
				Duration:          0.4,
				Color:             [4]float64{0.1, 0.1, 0.1, 0.9},
			},
		},
	}
}

// LoadConfig reads a TOML (.toml) or YAML (.yaml, .yml) config file. Fields
// missing from the file keep their DefaultConfig values; a list present in the
// file replaces the default list.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrap(err, "load config")
	}
	cfg, err := ParseConfig(data, filepath.Ext(path))
	if err != nil {
		return Config{}, errors.Wrapf(err, "load config %s", path)
	}
	return cfg, nil
}

// ParseConfig decodes data in the given format ("toml", "yaml" or "yml", with
// or without a leading dot) over DefaultConfig and validates the result.
func ParseConfig(data []byte, format string) (Config, error) {
	def := DefaultConfig()
	cfg := def
	// Decoders may append to existing slices; lists start empty and fall back
	// to the defaults only when the file has none.
	cfg.Objects, cfg.Panels = nil, nil
	switch strings.ToLower(strings.TrimPrefix(format, ".")) {
	case "toml":
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return Config{}, errors.Wrap(err, "parse toml")
		}
	case "yaml", "yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, errors.Wrap(err, "parse yaml")
		}
	default:
		return Config{}, errors.Errorf("unsupported config format %q", format)
	}
	if cfg.Objects == nil {
		cfg.Objects = def.Objects
	}
	if cfg.Panels == nil {
		cfg.Panels = def.Panels
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return errors.Errorf("window: size %dx%d must be positive", c.Window.Width, c.Window.Height)
	}
	if c.Camera.FOV <= 0 || c.Camera.FOV >= 180 {
		return errors.Errorf("camera: fov %v out of range (0, 180)", c.Camera.FOV)
	}
	if c.Camera.Near <= 0 || c.Camera.Far <= c.Camera.Near {
		return errors.Errorf("camera: need 0 < near < far, got near %v far %v", c.Camera.Near, c.Camera.Far)
	}
	if c.Orbit.Enabled {
		if c.Orbit.MinDistance < 0 || c.Orbit.MaxDistance < c.Orbit.MinDistance {
			return errors.Errorf("orbit: distance range [%v, %v] invalid", c.Orbit.MinDistance, c.Orbit.MaxDistance)
		}
		if c.Orbit.MinPolarAngle < 0 || c.Orbit.MaxPolarAngle > math.Pi || c.Orbit.MaxPolarAngle < c.Orbit.MinPolarAngle {
			return errors.Errorf("orbit: polar range [%v, %v] invalid", c.Orbit.MinPolarAngle, c.Orbit.MaxPolarAngle)
		}
		if c.Orbit.EnableDamping && (c.Orbit.DampingFactor <= 0 || c.Orbit.DampingFactor > 1) {
			return errors.Errorf("orbit: damping factor %v out of range (0, 1]", c.Orbit.DampingFactor)
		}
	}
	if c.Character.Enabled {
		if c.Character.WalkSpeed < 0 || c.Character.RunSpeed < 0 || c.Character.FadeDuration < 0 {
			return errors.New("character: speeds and fade duration must not be negative")
		}
	}
	if c.Input.DoubleClickMillis < 0 || c.Input.DoubleClickDistance < 0 {
		return errors.New("input: double click window must not be negative")
	}
	for i, o := range c.Objects {
		if err := o.validate(); err != nil {
			return errors.Wrapf(err, "objects[%d]", i)
		}
	}
	names := map[string]bool{}
	for i, p := range c.Panels {
		if p.Name == "" {
			return errors.Errorf("panels[%d]: missing name", i)
		}
		if names[p.Name] {
			return errors.Errorf("panels[%d]: duplicate name %q", i, p.Name)
		}
		names[p.Name] = true
		if p.Trigger == "" || p.Close == "" {
			return errors.Errorf("panels[%d] %q: trigger and close targets are required", i, p.Name)
		}
		if p.Trigger == p.Close {
			return errors.Errorf("panels[%d] %q: trigger and close target must differ", i, p.Name)
		}
		if p.Duration < 0 {
			return errors.Errorf("panels[%d] %q: negative duration", i, p.Name)
		}
		if !positive(p.Size) || !positive(p.CloseButtonSize) {
			return errors.Errorf("panels[%d] %q: sizes must be positive", i, p.Name)
		}
	}
	return nil
}

// Warnings lists settings that are valid but probably unintended: panels
// whose trigger names no object.
func (c Config) Warnings() []string {
	targets := map[string]bool{}
	for _, o := range c.Objects {
		if o.Target != "" && !o.Passive {
			targets[o.Target] = true
		}
	}
	var out []string
	for _, p := range c.Panels {
		if !targets[p.Trigger] {
			out = append(out, fmt.Sprintf("panel %q: trigger %q matches no clickable object", p.Name, p.Trigger))
		}
	}
	return out
}

func (o ObjectConfig) validate() error {
	switch o.Shape {
	case ShapeBox:
		if !positive(o.Size) {
			return errors.Errorf("box size %v must be positive", o.Size)
		}
	case ShapeSphere:
		if o.Radius <= 0 {
			return errors.Errorf("sphere radius %v must be positive", o.Radius)
		}
	case ShapeQuad:
		if o.Size.X() <= 0 || o.Size.Y() <= 0 {
			return errors.Errorf("quad size %v must be positive", o.Size)
		}
	default:
		return errors.Errorf("unknown shape %q", o.Shape)
	}
	return nil
}

func positive(v mgl32.Vec3) bool {
	return v.X() > 0 && v.Y() > 0 && v.Z() > 0
}

func colorOf(c [4]float64) Color {
	return Color{c[0], c[1], c[2], c[3]}
}
