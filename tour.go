package thicket

import (
	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/segmentio/encoding/json"
	"github.com/tanema/gween/ease"
)

// tourStep is a single action in a tour script.
type tourStep struct {
	Action string `json:"action"`
	Camera string `json:"camera,omitempty"`
	Label  string `json:"label,omitempty"`

	X float64 `json:"x,omitempty"`
	Y float64 `json:"y,omitempty"`
	Z float64 `json:"z,omitempty"`

	Duration float32 `json:"duration,omitempty"`
	Ease     string  `json:"ease,omitempty"`
	Frames   int     `json:"frames,omitempty"`
	Enabled  bool    `json:"enabled,omitempty"`
}

// tourScript is the top-level JSON structure for a tour script.
type tourScript struct {
	Steps []tourStep `json:"steps"`
}

// Tour sequences camera moves and screenshots across frames, for demos and
// automated visual checks. Attach one through RunConfig.Tour.
//
// Actions: fly_to, look_at, wait, screenshot, cull.
type Tour struct {
	steps     []tourStep
	cursor    int
	waitCount int
	flying    *Camera
	done      bool
}

var tourEasings = map[string]ease.TweenFunc{
	"":            ease.InOutSine,
	"linear":      ease.Linear,
	"in_out_sine": ease.InOutSine,
	"in_out_quad": ease.InOutQuad,
	"out_cubic":   ease.OutCubic,
	"out_bounce":  ease.OutBounce,
}

// LoadTour parses a JSON tour script.
func LoadTour(data []byte) (*Tour, error) {
	var script tourScript
	if err := json.Unmarshal(data, &script); err != nil {
		return nil, errors.New("parsing tour script failed").Wrap(err)
	}
	if len(script.Steps) == 0 {
		return nil, errors.New("tour script has no steps")
	}
	for i, st := range script.Steps {
		switch st.Action {
		case "fly_to", "look_at", "wait", "screenshot", "cull":
		default:
			return nil, errors.New("unknown tour action").
				WithTag("step", i).
				WithTag("action", st.Action)
		}
		if _, ok := tourEasings[st.Ease]; !ok {
			return nil, errors.New("unknown easing").
				WithTag("step", i).
				WithTag("ease", st.Ease)
		}
	}
	return &Tour{steps: script.Steps}, nil
}

// Done reports whether all steps in the tour have been executed.
func (t *Tour) Done() bool {
	return t.done
}

// step advances the tour by one frame. Called from Viewer.Update.
func (t *Tour) step(v *Viewer) {
	if t.done {
		return
	}
	// Wait for a flight to land before advancing.
	if t.flying != nil {
		if t.flying.Flying() {
			return
		}
		t.flying = nil
	}
	if t.waitCount > 0 {
		t.waitCount--
		return
	}
	if t.cursor >= len(t.steps) {
		t.done = true
		return
	}

	st := t.steps[t.cursor]
	t.cursor++

	switch st.Action {
	case "screenshot":
		v.Screenshot(st.Label)
	case "wait":
		if st.Frames > 0 {
			t.waitCount = st.Frames - 1 // this frame counts as one
		}
	case "fly_to":
		if cam := t.camera(v.scene, st.Camera); cam != nil {
			cam.FlyTo(v.scene, mgl64.Vec3{st.X, st.Y, st.Z}, st.Duration, tourEasings[st.Ease])
			t.flying = cam
		}
	case "look_at":
		if cam := t.camera(v.scene, st.Camera); cam != nil {
			cam.LookAt(mgl64.Vec3{st.X, st.Y, st.Z})
		}
	case "cull":
		if cam := t.camera(v.scene, st.Camera); cam != nil {
			cam.CullEnabled = st.Enabled
		}
	}

	if t.cursor >= len(t.steps) && t.waitCount == 0 && t.flying == nil {
		t.done = true
	}
}

// camera resolves a step's camera, defaulting to the scene's first one.
func (t *Tour) camera(s *Scene, name string) *Camera {
	if name != "" {
		return s.Camera(name)
	}
	if cams := s.Cameras(); len(cams) > 0 {
		return cams[0]
	}
	return nil
}
