package showroom

import (
	"encoding/json"

	"github.com/pkg/errors"
)

// testStep represents a single action in a test script.
type testStep struct {
	Action string  `json:"action"`
	Label  string  `json:"label,omitempty"`
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	Frames int     `json:"frames,omitempty"`
}

// testScript is the top-level JSON structure for a test script.
type testScript struct {
	Steps []testStep `json:"steps"`
}

// pointerActions maps script actions to the injector they queue. "tap"
// expands to three events, so it spans three frames.
var pointerActions = map[string]func(s *Scene, x, y float64){
	"move":        (*Scene).InjectMotion,
	"press":       (*Scene).InjectPress,
	"click":       (*Scene).InjectClick,
	"tap":         (*Scene).InjectTap,
	"dblclick":    (*Scene).InjectDoubleClick,
	"contextmenu": (*Scene).InjectContextMenu,
}

func validAction(action string) bool {
	_, ok := pointerActions[action]
	return ok || action == "wait" || action == "screenshot"
}

// TestRunner sequences injected input events and screenshots across frames
// for automated visual testing. Attach to a Scene via SetTestRunner.
type TestRunner struct {
	steps     []testStep
	cursor    int
	waitCount int
	done      bool
}

// LoadTestScript parses a JSON test script and returns a TestRunner ready
// to be attached to a Scene via SetTestRunner.
func LoadTestScript(jsonData []byte) (*TestRunner, error) {
	var script testScript
	if err := json.Unmarshal(jsonData, &script); err != nil {
		return nil, errors.Wrap(err, "parse test script")
	}
	if len(script.Steps) == 0 {
		return nil, errors.New("parse test script: no steps")
	}
	for i, st := range script.Steps {
		if !validAction(st.Action) {
			return nil, errors.Errorf("parse test script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &TestRunner{steps: script.Steps}, nil
}

// SetTestRunner attaches a TestRunner to the scene. The runner's step method
// is called from Scene.Update before input is processed each frame.
func (s *Scene) SetTestRunner(runner *TestRunner) {
	s.testRunner = runner
}

// Done reports whether all steps in the test script have been executed.
func (r *TestRunner) Done() bool {
	return r.done
}

// step runs at the start of every Scene.Update. It holds while injected
// events are still queued or a wait is counting down, then executes at most
// one script step.
func (r *TestRunner) step(s *Scene) {
	if r.done || len(s.injectQueue) > 0 {
		return
	}
	if r.waitCount > 0 {
		r.waitCount--
		return
	}
	if r.cursor == len(r.steps) {
		r.done = true
		return
	}

	st := r.steps[r.cursor]
	r.cursor++
	switch {
	case st.Action == "screenshot":
		s.Screenshot(st.Label)
	case st.Action == "wait":
		// The frame that reads the step is the first waited frame.
		r.waitCount = max(st.Frames-1, 0)
	default:
		pointerActions[st.Action](s, st.X, st.Y)
	}

	r.done = r.cursor == len(r.steps) && r.waitCount == 0 && len(s.injectQueue) == 0
}
