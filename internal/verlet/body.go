package verlet

import "github.com/devfmo/physkit/internal/vec"

// Body is a point mass advanced by the integrator. Bodies are owned by the
// caller; the integrator borrows them by pointer and never copies or frees
// them.
type Body struct {
	Pos  vec.Vec2
	Vel  vec.Vec2
	Acc  vec.Vec2
	Mass float64

	// prevAcc caches the acceleration from the start of the current
	// sub-step for the velocity half-step.
	prevAcc vec.Vec2
}

// NewBody returns a body at pos with unit mass and zero velocity.
func NewBody(pos vec.Vec2) *Body {
	return &Body{Pos: pos, Mass: 1}
}

// NewBodyWithMass returns a body at pos with the given mass. A zero mass is
// accepted and propagates Inf/NaN through force divisions; that is the
// caller's obligation.
func NewBodyWithMass(pos vec.Vec2, mass float64) *Body {
	return &Body{Pos: pos, Mass: mass}
}

// KineticEnergy returns ½·m·|v|² for this body.
func (b *Body) KineticEnergy() float64 {
	return 0.5 * b.Mass * b.Vel.NormSq()
}

// Clone returns a copy of the body's kinematic state. The integrator never
// calls this; it exists for snapshots and tests.
func (b *Body) Clone() *Body {
	c := *b
	return &c
}
