// Package verlet implements a fixed-substep velocity-Verlet integrator over
// collections of 2-D point masses.
//
// An elapsed interval handed to Step is cut into whole sub-steps of a fixed
// size plus one fractional remainder, so simulation time always lands
// exactly on the requested target while each sub-step keeps a stable size.
// Sub-steps per call are capped: sustained slow frames cost bounded work and
// silently lose simulated time instead of spiraling.
package verlet

import (
	"errors"
	"fmt"
)

// DefaultMaxSteps caps the number of whole sub-steps a single Step call may
// run before excess elapsed time is discarded.
const DefaultMaxSteps = 20

var (
	// ErrStepSize indicates a non-positive sub-step size.
	ErrStepSize = errors.New("verlet: step size must be positive")

	// ErrMaxSteps indicates a non-positive sub-step cap.
	ErrMaxSteps = errors.New("verlet: max steps must be positive")
)

// Interaction computes forces for one sub-step. It receives the full body
// collection and the sub-step duration, and must only add acceleration
// contributions to bodies; velocity and position belong to the integrator.
// Interactions run once per sub-step in registration order, and must be pure
// functions of body state and dt for runs to be reproducible.
type Interaction func(bodies []*Body, dt float64)

// Integrator advances a set of bodies with the velocity-Verlet scheme.
type Integrator struct {
	bodies       []*Body
	interactions []Interaction

	stepSize float64
	maxSteps int

	simTime float64
	kinetic float64
	dropped float64
}

// New returns an integrator over bodies with the given fixed sub-step size
// (in the same time unit as the deltas later passed to Step). The sub-step
// cap defaults to DefaultMaxSteps.
func New(bodies []*Body, stepSize float64) (*Integrator, error) {
	if stepSize <= 0 {
		return nil, fmt.Errorf("%w: got %v", ErrStepSize, stepSize)
	}
	return &Integrator{
		bodies:       bodies,
		interactions: make([]Interaction, 0),
		stepSize:     stepSize,
		maxSteps:     DefaultMaxSteps,
	}, nil
}

// SetMaxSteps changes the per-call sub-step cap.
func (it *Integrator) SetMaxSteps(n int) error {
	if n <= 0 {
		return fmt.Errorf("%w: got %d", ErrMaxSteps, n)
	}
	it.maxSteps = n
	return nil
}

// OnInteraction appends fn to the interaction list and returns the
// integrator for chaining. Interactions cannot be removed; execution order
// is the registration order.
func (it *Integrator) OnInteraction(fn Interaction) *Integrator {
	it.interactions = append(it.interactions, fn)
	return it
}

// Bodies returns the borrowed body collection.
func (it *Integrator) Bodies() []*Body { return it.bodies }

// Time returns the accumulated simulation time.
func (it *Integrator) Time() float64 { return it.simTime }

// StepSize returns the fixed sub-step duration.
func (it *Integrator) StepSize() float64 { return it.stepSize }

// KineticEnergy returns the total kinetic energy computed during the most
// recent sub-step.
func (it *Integrator) KineticEnergy() float64 { return it.kinetic }

// DroppedTime returns the total simulated time discarded by the sub-step
// cap so far. Simulation time still reaches every Step target; this counts
// how much motion was skipped over to get there.
func (it *Integrator) DroppedTime() float64 { return it.dropped }

// Step advances the simulation by dt of elapsed time: whole sub-steps of
// StepSize while they fit, then one fractional remainder so Time lands
// exactly on the target. When dt exceeds maxSteps whole sub-steps the
// overshoot is discarded (and counted in DroppedTime) rather than simulated.
func (it *Integrator) Step(dt float64) {
	if dt <= 0 {
		return
	}
	target := it.simTime + dt

	if maxTime := float64(it.maxSteps) * it.stepSize; dt > maxTime {
		it.dropped += dt - maxTime
		it.simTime = target - maxTime
	}

	for target-it.simTime > it.stepSize {
		it.Integrate(it.stepSize)
	}
	if rem := target - it.simTime; rem > 0 {
		it.Integrate(rem)
	}
	it.simTime = target
}

// Integrate runs one Verlet sub-step of duration dt. The three stages each
// sweep all bodies before the next begins, so no body observes another
// body's half-advanced state out of order:
//
//  1. positions advance by (½·a·dt + v)·dt, accelerations reset to zero;
//  2. interactions accumulate fresh accelerations, in registration order;
//  3. velocities advance by ½·(a₀+a₁)·dt and kinetic energy is totalled.
func (it *Integrator) Integrate(dt float64) {
	for _, b := range it.bodies {
		b.prevAcc = b.Acc
		displacement := b.Acc.Scaled(0.5 * dt).Plus(b.Vel).Scaled(dt)
		b.Pos.Add(displacement)
		b.Acc.Set(0, 0)
	}

	for _, fn := range it.interactions {
		fn(it.bodies, dt)
	}

	it.kinetic = 0
	for _, b := range it.bodies {
		b.Vel.Add(b.prevAcc.Plus(b.Acc).Scaled(0.5 * dt))
		it.kinetic += b.KineticEnergy()
	}

	it.simTime += dt
}
