package scene

import (
	"errors"
	"math"
	"path/filepath"
	"testing"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Scene)
		wantErr error
	}{
		{"no bodies", func(s *Scene) { s.Bodies = nil }, ErrNoBodies},
		{"zero step size", func(s *Scene) { s.StepSize = 0 }, ErrBadTiming},
		{"negative fps", func(s *Scene) { s.FPS = -60 }, ErrBadTiming},
		{"negative max steps", func(s *Scene) { s.MaxSteps = -5 }, ErrBadTiming},
		{"unknown force", func(s *Scene) {
			s.Forces = []ForceSpec{{Type: "warp"}}
		}, ErrUnknownForce},
		{"spring index out of range", func(s *Scene) {
			s.Forces = []ForceSpec{{Type: "spring", A: 0, B: 9}}
		}, ErrBodyIndex},
		{"anchor index out of range", func(s *Scene) {
			s.Forces = []ForceSpec{{Type: "anchor", A: -1}}
		}, ErrBodyIndex},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Default()
			s.Bodies = []BodySpec{{Mass: 1}}
			tt.mutate(s)
			if err := s.Validate(); !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate: got %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestBuildWiresForces(t *testing.T) {
	s := Default()
	s.Bodies = []BodySpec{
		{Pos: [2]float64{0, 0}, Mass: 10},
		{Pos: [2]float64{50, 0}},
	}
	s.Forces = []ForceSpec{
		{Type: "gravity", G: 1, Softening: 1},
		{Type: "drag", Coefficient: 0.01},
	}

	w, err := s.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(w.Bodies) != 2 {
		t.Fatalf("bodies: got %d", len(w.Bodies))
	}
	// Unset mass defaults to 1.
	if w.Bodies[1].Mass != 1 {
		t.Errorf("default mass: got %v", w.Bodies[1].Mass)
	}

	before := w.Bodies[1].Pos
	w.Integrator.Step(100)
	if w.Bodies[1].Pos == before {
		t.Error("gravity did not move the satellite")
	}
}

func TestAutoOrbitSeedsCircularSpeed(t *testing.T) {
	s := Default()
	s.AutoOrbit = true
	s.Bodies = []BodySpec{
		{Pos: [2]float64{0, 0}, Mass: 1000},
		{Pos: [2]float64{100, 0}, Mass: 1},
		{Pos: [2]float64{0, 50}, Vel: [2]float64{3, 0}, Mass: 1}, // pre-set, left alone
	}
	s.Forces = []ForceSpec{{Type: "gravity", G: 0.1, Softening: 0}}

	w, err := s.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	want := math.Sqrt(0.1 * 1000 / 100)
	sat := w.Bodies[1]
	if got := sat.Vel.Norm(); math.Abs(got-want) > 1e-12 {
		t.Errorf("orbital speed: got %v, want %v", got, want)
	}
	// Perpendicular to the radius.
	if dot := sat.Vel.Dot(sat.Pos); math.Abs(dot) > 1e-9 {
		t.Errorf("orbital velocity not tangential: dot %v", dot)
	}
	// Explicit velocities are not overwritten.
	if w.Bodies[2].Vel.X != 3 {
		t.Errorf("pre-set velocity overwritten: %v", w.Bodies[2].Vel)
	}
}

func TestLoadSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.yaml")

	s, err := Preset("springs")
	if err != nil {
		t.Fatalf("Preset: %v", err)
	}
	if err := Save(path, s); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Name != s.Name || len(loaded.Bodies) != len(s.Bodies) || len(loaded.Forces) != len(s.Forces) {
		t.Errorf("round trip mismatch: %+v vs %+v", loaded, s)
	}
	if loaded.StepSize != s.StepSize {
		t.Errorf("step size: got %v, want %v", loaded.StepSize, s.StepSize)
	}
}

func TestPresetsBuild(t *testing.T) {
	for _, name := range PresetNames {
		s, err := Preset(name)
		if err != nil {
			t.Fatalf("Preset(%s): %v", name, err)
		}
		if _, err := s.Build(); err != nil {
			t.Errorf("Build(%s): %v", name, err)
		}
	}

	if _, err := Preset("nope"); !errors.Is(err, ErrUnknownPreset) {
		t.Errorf("unknown preset: got %v", err)
	}
}
