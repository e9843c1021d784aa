// Package vec implements 2-D vector algebra for the simulation core.
//
// Every operation comes in two flavors: a pure combinator on the value
// receiver that returns a new vector (Plus, Scaled, Normalized, ...) and an
// in-place mutator on the pointer receiver that returns the receiver for
// chaining (Add, Scale, Normalize, ...). Call sites pick whichever makes
// ownership obvious.
package vec

import (
	"math"
	"math/rand"
)

// Vec2 is a 2-D vector. The zero value is the zero vector.
type Vec2 struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// New returns the vector (x, y).
func New(x, y float64) Vec2 {
	return Vec2{X: x, Y: y}
}

// Polar angle/norm operations on a zero-length vector snap to this canonical
// direction first, so they stay defined instead of yielding NaN.
var unitX = Vec2{X: 1, Y: 0}

// Set overwrites the components and returns the receiver.
func (v *Vec2) Set(x, y float64) *Vec2 {
	v.X = x
	v.Y = y
	return v
}

// Copy overwrites the receiver with o and returns the receiver.
func (v *Vec2) Copy(o Vec2) *Vec2 {
	v.X = o.X
	v.Y = o.Y
	return v
}

// Add accumulates o into the receiver.
func (v *Vec2) Add(o Vec2) *Vec2 {
	v.X += o.X
	v.Y += o.Y
	return v
}

// Plus returns v + o.
func (v Vec2) Plus(o Vec2) Vec2 {
	return Vec2{X: v.X + o.X, Y: v.Y + o.Y}
}

// Sub subtracts o from the receiver.
func (v *Vec2) Sub(o Vec2) *Vec2 {
	v.X -= o.X
	v.Y -= o.Y
	return v
}

// Minus returns v - o.
func (v Vec2) Minus(o Vec2) Vec2 {
	return Vec2{X: v.X - o.X, Y: v.Y - o.Y}
}

// Scale multiplies the receiver by s.
func (v *Vec2) Scale(s float64) *Vec2 {
	v.X *= s
	v.Y *= s
	return v
}

// Scaled returns v * s.
func (v Vec2) Scaled(s float64) Vec2 {
	return Vec2{X: v.X * s, Y: v.Y * s}
}

// Div divides the receiver by s. Division by zero propagates Inf/NaN.
func (v *Vec2) Div(s float64) *Vec2 {
	v.X /= s
	v.Y /= s
	return v
}

// Divided returns v / s. Division by zero propagates Inf/NaN.
func (v Vec2) Divided(s float64) Vec2 {
	return Vec2{X: v.X / s, Y: v.Y / s}
}

// NormSq returns the squared length.
func (v Vec2) NormSq() float64 {
	return v.X*v.X + v.Y*v.Y
}

// Norm returns the length.
func (v Vec2) Norm() float64 {
	return math.Hypot(v.X, v.Y)
}

// Dot returns the dot product with o.
func (v Vec2) Dot(o Vec2) float64 {
	return v.X*o.X + v.Y*o.Y
}

// Angle returns the polar angle in radians, atan2(y, x).
func (v Vec2) Angle() float64 {
	return math.Atan2(v.Y, v.X)
}

// IsZero reports whether both components are exactly zero.
func (v Vec2) IsZero() bool {
	return v.X == 0 && v.Y == 0
}

// Normalize scales the receiver to length 1. A zero vector snaps to (1, 0).
func (v *Vec2) Normalize() *Vec2 {
	if v.IsZero() {
		*v = unitX
		return v
	}
	return v.Div(v.Norm())
}

// Normalized returns the unit vector in v's direction, or (1, 0) when v is
// the zero vector.
func (v Vec2) Normalized() Vec2 {
	n := &v
	return *n.Normalize()
}

// SetNorm rebuilds the receiver with the same direction and length n. A zero
// vector is treated as pointing along +x first.
func (v *Vec2) SetNorm(n float64) *Vec2 {
	return v.Normalize().Scale(n)
}

// WithNorm returns a vector in v's direction with length n, snapping a zero
// input to the +x axis first.
func (v Vec2) WithNorm(n float64) Vec2 {
	return v.Normalized().Scaled(n)
}

// SetAngle rebuilds the receiver from polar form, keeping its length and
// pointing it at angle a radians. A zero vector is given unit length first.
func (v *Vec2) SetAngle(a float64) *Vec2 {
	n := v.Norm()
	if v.IsZero() {
		n = 1
	}
	v.X = n * math.Cos(a)
	v.Y = n * math.Sin(a)
	return v
}

// WithAngle returns a vector with v's length pointing at angle a radians. A
// zero input yields a unit vector at that angle.
func (v Vec2) WithAngle(a float64) Vec2 {
	p := &v
	return *p.SetAngle(a)
}

// Rotate rotates the receiver by a radians.
func (v *Vec2) Rotate(a float64) *Vec2 {
	sin, cos := math.Sincos(a)
	x := v.X*cos - v.Y*sin
	v.Y = v.X*sin + v.Y*cos
	v.X = x
	return v
}

// Rotated returns v rotated by a radians.
func (v Vec2) Rotated(a float64) Vec2 {
	p := &v
	return *p.Rotate(a)
}

// ScalarProj returns the scalar projection of v onto u, v·û. A zero-length u
// propagates NaN; callers own that check.
func (v Vec2) ScalarProj(u Vec2) float64 {
	return v.Dot(u) / u.Norm()
}

// Proj returns the projection of v onto u. A zero-length u propagates NaN.
func (v Vec2) Proj(u Vec2) Vec2 {
	return u.Normalized().Scaled(v.ScalarProj(u))
}

// ClampedProj returns the projection of v onto u with the scalar projection
// clamped to [0, |u|], so the result never points against u and never
// overshoots it. A zero-length u propagates NaN.
func (v Vec2) ClampedProj(u Vec2) Vec2 {
	s := v.ScalarProj(u)
	if s < 0 {
		s = 0
	} else if n := u.Norm(); s > n {
		s = n
	}
	return u.Normalized().Scaled(s)
}

// Clamp limits each component of the receiver to [lo, hi], component-wise.
func (v *Vec2) Clamp(lo, hi Vec2) *Vec2 {
	v.X = clamp(v.X, lo.X, hi.X)
	v.Y = clamp(v.Y, lo.Y, hi.Y)
	return v
}

// Clamped returns v with each component limited to [lo, hi].
func (v Vec2) Clamped(lo, hi Vec2) Vec2 {
	p := &v
	return *p.Clamp(lo, hi)
}

// Reflect mirrors the receiver about the plane with normal n. A zero-length
// normal divides by zero; callers own that check.
func (v *Vec2) Reflect(n Vec2) *Vec2 {
	return v.Sub(n.Scaled(2 * v.Dot(n) / n.NormSq()))
}

// Reflected returns v mirrored about the plane with normal n. A zero-length
// normal divides by zero; callers own that check.
func (v Vec2) Reflected(n Vec2) Vec2 {
	p := &v
	return *p.Reflect(n)
}

// Randomize points the receiver at a uniformly random angle with length
// norm, drawing from rng so runs stay seedable.
func (v *Vec2) Randomize(norm float64, rng *rand.Rand) *Vec2 {
	a := rng.Float64() * 2 * math.Pi
	v.X = norm * math.Cos(a)
	v.Y = norm * math.Sin(a)
	return v
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
