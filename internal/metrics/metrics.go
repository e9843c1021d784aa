// Package metrics observes conserved quantities of a running simulation.
package metrics

import (
	"math"

	"github.com/devfmo/physkit/internal/verlet"
)

// Metric accumulates one observable over the course of a run.
type Metric interface {
	Name() string
	Observe(bodies []*verlet.Body, t float64)
	Value() float64
	Reset()
}

// KineticDrift tracks the worst relative drift of total kinetic energy
// against the first observation.
type KineticDrift struct {
	initial  float64
	maxDrift float64
	samples  int
}

func NewKineticDrift() *KineticDrift {
	return &KineticDrift{}
}

func (k *KineticDrift) Name() string { return "kinetic_drift" }

func (k *KineticDrift) Observe(bodies []*verlet.Body, t float64) {
	total := 0.0
	for _, b := range bodies {
		total += b.KineticEnergy()
	}

	if k.samples == 0 {
		k.initial = total
	}
	k.samples++

	if k.initial != 0 {
		drift := math.Abs(total-k.initial) / math.Abs(k.initial)
		k.maxDrift = math.Max(k.maxDrift, drift)
	}
}

func (k *KineticDrift) Value() float64 { return k.maxDrift }

func (k *KineticDrift) Reset() {
	k.initial = 0
	k.maxDrift = 0
	k.samples = 0
}

// Momentum reports the magnitude of the current total linear momentum.
type Momentum struct {
	px, py float64
}

func NewMomentum() *Momentum { return &Momentum{} }

func (m *Momentum) Name() string { return "momentum" }

func (m *Momentum) Observe(bodies []*verlet.Body, t float64) {
	m.px, m.py = 0, 0
	for _, b := range bodies {
		m.px += b.Mass * b.Vel.X
		m.py += b.Mass * b.Vel.Y
	}
}

func (m *Momentum) Value() float64 { return math.Hypot(m.px, m.py) }

func (m *Momentum) Reset() { m.px, m.py = 0, 0 }

// AngularMomentum reports the current total angular momentum about the
// origin, m·(x·vy − y·vx) summed over bodies.
type AngularMomentum struct {
	l float64
}

func NewAngularMomentum() *AngularMomentum { return &AngularMomentum{} }

func (a *AngularMomentum) Name() string { return "angular_momentum" }

func (a *AngularMomentum) Observe(bodies []*verlet.Body, t float64) {
	a.l = 0
	for _, b := range bodies {
		a.l += b.Mass * (b.Pos.X*b.Vel.Y - b.Pos.Y*b.Vel.X)
	}
}

func (a *AngularMomentum) Value() float64 { return a.l }

func (a *AngularMomentum) Reset() { a.l = 0 }
