package scene

import (
	"fmt"
	"math"
)

// PresetNames lists the built-in scenes in display order.
var PresetNames = []string{"orbit", "springs", "cloud"}

// Preset returns a built-in scene by name.
func Preset(name string) (*Scene, error) {
	switch name {
	case "orbit":
		return orbitPreset(), nil
	case "springs":
		return springsPreset(), nil
	case "cloud":
		return cloudPreset(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownPreset, name)
	}
}

// orbitPreset is a heavy central mass with three satellites on seeded
// circular orbits.
func orbitPreset() *Scene {
	s := Default()
	s.Name = "orbit"
	s.AutoOrbit = true
	s.Bodies = []BodySpec{
		{Pos: [2]float64{0, 0}, Mass: 1000},
		{Pos: [2]float64{120, 0}, Mass: 1},
		{Pos: [2]float64{0, 200}, Mass: 1},
		{Pos: [2]float64{-280, 0}, Mass: 2},
	}
	s.Forces = []ForceSpec{
		{Type: "gravity", G: 0.05, Softening: 2},
	}
	return s
}

// springsPreset is a three-mass chain anchored at both ends, with light
// drag and a downward field.
func springsPreset() *Scene {
	s := Default()
	s.Name = "springs"
	s.Bodies = []BodySpec{
		{Pos: [2]float64{-60, 0}, Mass: 1},
		{Pos: [2]float64{0, 20}, Mass: 2},
		{Pos: [2]float64{60, 0}, Mass: 1},
	}
	s.Forces = []ForceSpec{
		{Type: "anchor", A: 0, Point: [2]float64{-120, 0}, Stiffness: 0.002, Rest: 40},
		{Type: "spring", A: 0, B: 1, Stiffness: 0.002, Rest: 50},
		{Type: "spring", A: 1, B: 2, Stiffness: 0.002, Rest: 50},
		{Type: "anchor", A: 2, Point: [2]float64{120, 0}, Stiffness: 0.002, Rest: 40},
		{Type: "uniform", Field: [2]float64{0, 0.0002}},
		{Type: "drag", Coefficient: 0.0005},
	}
	return s
}

// cloudPreset is a ring of equal masses collapsing under mutual gravity.
func cloudPreset() *Scene {
	s := Default()
	s.Name = "cloud"
	s.Bodies = ringBodies(12, 150)
	s.Forces = []ForceSpec{
		{Type: "gravity", G: 0.5, Softening: 5},
	}
	return s
}

func ringBodies(n int, radius float64) []BodySpec {
	bodies := make([]BodySpec, n)
	for i := range bodies {
		angle := float64(i) * 2 * math.Pi / float64(n)
		bodies[i] = BodySpec{
			Pos:  [2]float64{radius * math.Cos(angle), radius * math.Sin(angle)},
			Mass: 1,
		}
	}
	return bodies
}
