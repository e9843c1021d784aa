// Package forces provides the canonical interaction functions for the
// integrator: gravity, springs, drag, and uniform fields.
//
// Every constructor returns a verlet.Interaction that only adds
// acceleration contributions, as the integrator contract requires.
package forces

import (
	"math"

	"github.com/devfmo/physkit/internal/vec"
	"github.com/devfmo/physkit/internal/verlet"
)

// Gravity returns pairwise n-body attraction with gravitational constant g
// and Plummer softening. The kernel is symmetric, so total momentum is
// conserved exactly.
func Gravity(g, softening float64) verlet.Interaction {
	eps2 := softening * softening
	return func(bodies []*verlet.Body, dt float64) {
		for i := 0; i < len(bodies); i++ {
			bi := bodies[i]
			for j := i + 1; j < len(bodies); j++ {
				bj := bodies[j]

				r := bj.Pos.Minus(bi.Pos)
				r2 := r.NormSq() + eps2
				inv := 1 / math.Sqrt(r2)
				inv3 := inv * inv * inv

				bi.Acc.Add(r.Scaled(g * bj.Mass * inv3))
				bj.Acc.Add(r.Scaled(-g * bi.Mass * inv3))
			}
		}
	}
}

// Uniform returns a constant acceleration field applied to every body,
// e.g. downward gravity for projectile demos.
func Uniform(field vec.Vec2) verlet.Interaction {
	return func(bodies []*verlet.Body, dt float64) {
		for _, b := range bodies {
			b.Acc.Add(field)
		}
	}
}

// Drag returns linear velocity damping with coefficient k: the drag force
// is -k·v, so lighter bodies decelerate faster.
func Drag(k float64) verlet.Interaction {
	return func(bodies []*verlet.Body, dt float64) {
		for _, b := range bodies {
			b.Acc.Add(b.Vel.Scaled(-k / b.Mass))
		}
	}
}

// Spring returns a Hooke spring of the given stiffness and rest length
// between bodies i and j. Indices are into the collection handed to the
// integrator; out-of-range indices are the caller's bug and will panic.
func Spring(i, j int, stiffness, rest float64) verlet.Interaction {
	return func(bodies []*verlet.Body, dt float64) {
		bi, bj := bodies[i], bodies[j]

		d := bj.Pos.Minus(bi.Pos)
		// Normalized snaps coincident bodies to +x, keeping the force
		// finite.
		dir := d.Normalized()
		f := stiffness * (d.Norm() - rest)

		bi.Acc.Add(dir.Scaled(f / bi.Mass))
		bj.Acc.Add(dir.Scaled(-f / bj.Mass))
	}
}

// Anchor returns a Hooke spring tying body i to a fixed point.
func Anchor(i int, point vec.Vec2, stiffness, rest float64) verlet.Interaction {
	return func(bodies []*verlet.Body, dt float64) {
		b := bodies[i]

		d := point.Minus(b.Pos)
		dir := d.Normalized()
		f := stiffness * (d.Norm() - rest)

		b.Acc.Add(dir.Scaled(f / b.Mass))
	}
}
