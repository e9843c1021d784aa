// Package scene loads and builds simulation scenes: a set of bodies, the
// forces acting on them, and the timing parameters of the integrator.
package scene

import (
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/devfmo/physkit/internal/forces"
	"github.com/devfmo/physkit/internal/vec"
	"github.com/devfmo/physkit/internal/verlet"
)

const (
	DefaultStepSize  = 8.0 // ms
	DefaultMaxSteps  = 20
	DefaultTimeScale = 1.0
	DefaultFPS       = 60.0
)

var (
	// ErrNoBodies indicates a scene without any bodies.
	ErrNoBodies = errors.New("scene: at least one body required")

	// ErrBadTiming indicates an invalid timing parameter: non-positive step
	// size or fps, or a negative sub-step cap.
	ErrBadTiming = errors.New("scene: invalid timing parameters")

	// ErrUnknownForce indicates an unrecognized force type.
	ErrUnknownForce = errors.New("scene: unknown force type")

	// ErrBodyIndex indicates a force referencing a body out of range.
	ErrBodyIndex = errors.New("scene: force references body out of range")

	// ErrUnknownPreset indicates an unrecognized preset name.
	ErrUnknownPreset = errors.New("scene: unknown preset")
)

// Scene is the YAML description of a demo.
type Scene struct {
	Name      string      `yaml:"name"`
	StepSize  float64     `yaml:"step_size"`  // ms
	MaxSteps  int         `yaml:"max_steps"`  // sub-step cap per frame
	TimeScale float64     `yaml:"time_scale"` // 0 pauses
	FPS       float64     `yaml:"fps"`
	AutoOrbit bool        `yaml:"auto_orbit,omitempty"`
	Bodies    []BodySpec  `yaml:"bodies"`
	Forces    []ForceSpec `yaml:"forces"`
}

// BodySpec describes one body.
type BodySpec struct {
	Pos  [2]float64 `yaml:"pos"`
	Vel  [2]float64 `yaml:"vel"`
	Mass float64    `yaml:"mass"`
}

// ForceSpec describes one force. Type selects the interaction; the other
// fields apply per type.
type ForceSpec struct {
	Type string `yaml:"type"` // gravity, uniform, drag, spring, anchor

	G           float64    `yaml:"g,omitempty"`
	Softening   float64    `yaml:"softening,omitempty"`
	Field       [2]float64 `yaml:"field,omitempty"`
	Coefficient float64    `yaml:"coefficient,omitempty"`
	A           int        `yaml:"a,omitempty"`
	B           int        `yaml:"b,omitempty"`
	Point       [2]float64 `yaml:"point,omitempty"`
	Stiffness   float64    `yaml:"stiffness,omitempty"`
	Rest        float64    `yaml:"rest,omitempty"`
}

// World is a built scene: bodies plus an integrator wired with the scene's
// forces, ready to be driven by a frame clock.
type World struct {
	Scene      *Scene
	Bodies     []*verlet.Body
	Integrator *verlet.Integrator
}

// Default returns an empty scene with the standard timing parameters.
func Default() *Scene {
	return &Scene{
		Name:      "scene",
		StepSize:  DefaultStepSize,
		MaxSteps:  DefaultMaxSteps,
		TimeScale: DefaultTimeScale,
		FPS:       DefaultFPS,
	}
}

// Load reads a scene from a YAML file, filling unset timing fields with
// defaults.
func Load(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s := Default()
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("scene: parsing %s: %w", path, err)
	}
	return s, nil
}

// Save writes the scene as YAML.
func Save(path string, s *Scene) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks the scene's structural invariants.
func (s *Scene) Validate() error {
	if len(s.Bodies) == 0 {
		return ErrNoBodies
	}
	if s.StepSize <= 0 || s.FPS <= 0 {
		return fmt.Errorf("%w: step_size=%v fps=%v", ErrBadTiming, s.StepSize, s.FPS)
	}
	if s.MaxSteps < 0 {
		return fmt.Errorf("%w: max_steps=%d", ErrBadTiming, s.MaxSteps)
	}
	for i, f := range s.Forces {
		switch f.Type {
		case "gravity", "uniform", "drag":
		case "spring":
			if !s.bodyIndexOK(f.A) || !s.bodyIndexOK(f.B) {
				return fmt.Errorf("%w: force %d (%s)", ErrBodyIndex, i, f.Type)
			}
		case "anchor":
			if !s.bodyIndexOK(f.A) {
				return fmt.Errorf("%w: force %d (%s)", ErrBodyIndex, i, f.Type)
			}
		default:
			return fmt.Errorf("%w: %q", ErrUnknownForce, f.Type)
		}
	}
	return nil
}

func (s *Scene) bodyIndexOK(i int) bool {
	return i >= 0 && i < len(s.Bodies)
}

// Build validates the scene and assembles its world. Auto-orbit seeding, if
// enabled, runs before bodies are created.
func (s *Scene) Build() (*World, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	if s.AutoOrbit {
		s.seedOrbits()
	}

	bodies := make([]*verlet.Body, len(s.Bodies))
	for i, spec := range s.Bodies {
		mass := spec.Mass
		if mass == 0 {
			mass = 1
		}
		b := verlet.NewBodyWithMass(vec.New(spec.Pos[0], spec.Pos[1]), mass)
		b.Vel = vec.New(spec.Vel[0], spec.Vel[1])
		bodies[i] = b
	}

	it, err := verlet.New(bodies, s.StepSize)
	if err != nil {
		return nil, err
	}
	if s.MaxSteps > 0 {
		if err := it.SetMaxSteps(s.MaxSteps); err != nil {
			return nil, err
		}
	}

	for _, f := range s.Forces {
		switch f.Type {
		case "gravity":
			it.OnInteraction(forces.Gravity(f.G, f.Softening))
		case "uniform":
			it.OnInteraction(forces.Uniform(vec.New(f.Field[0], f.Field[1])))
		case "drag":
			it.OnInteraction(forces.Drag(f.Coefficient))
		case "spring":
			it.OnInteraction(forces.Spring(f.A, f.B, f.Stiffness, f.Rest))
		case "anchor":
			it.OnInteraction(forces.Anchor(f.A, vec.New(f.Point[0], f.Point[1]), f.Stiffness, f.Rest))
		}
	}

	return &World{Scene: s, Bodies: bodies, Integrator: it}, nil
}

// seedOrbits gives every zero-velocity satellite the circular orbital speed
// around the first body, perpendicular to the radius. Uses the G of the
// first gravity force, defaulting to 1.
func (s *Scene) seedOrbits() {
	if len(s.Bodies) == 0 {
		return
	}
	g := 1.0
	for _, f := range s.Forces {
		if f.Type == "gravity" {
			g = f.G
			break
		}
	}

	central := s.Bodies[0]
	centralMass := central.Mass
	if centralMass == 0 {
		centralMass = 1
	}

	for i := 1; i < len(s.Bodies); i++ {
		b := &s.Bodies[i]
		if b.Vel[0] != 0 || b.Vel[1] != 0 {
			continue
		}
		dx := b.Pos[0] - central.Pos[0]
		dy := b.Pos[1] - central.Pos[1]
		r := math.Hypot(dx, dy)
		if r == 0 {
			continue
		}
		v := math.Sqrt(g * centralMass / r)
		b.Vel[0] = -dy / r * v
		b.Vel[1] = dx / r * v
	}
}
