package vec_test

import (
	"math"
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/devfmo/physkit/internal/vec"
)

var _ = Describe("Vec2 properties", func() {
	var rng *rand.Rand

	BeforeEach(func() {
		rng = rand.New(rand.NewSource(1))
	})

	randomVec := func() vec.Vec2 {
		return vec.New(rng.Float64()*20-10, rng.Float64()*20-10)
	}

	It("normalizes every nonzero vector to unit length", func() {
		for i := 0; i < 200; i++ {
			v := randomVec()
			if v.IsZero() {
				continue
			}
			Expect(v.Normalized().Norm()).To(BeNumerically("~", 1, 1e-12))
		}
	})

	It("normalizes the zero vector to exactly (1, 0)", func() {
		Expect(vec.Vec2{}.Normalized()).To(Equal(vec.New(1, 0)))
	})

	It("treats reflection as an involution", func() {
		for i := 0; i < 200; i++ {
			v, n := randomVec(), randomVec()
			if n.IsZero() {
				continue
			}
			twice := v.Reflected(n).Reflected(n)
			Expect(twice.X).To(BeNumerically("~", v.X, 1e-9))
			Expect(twice.Y).To(BeNumerically("~", v.Y, 1e-9))
		}
	})

	It("preserves the component along the target under projection", func() {
		for i := 0; i < 200; i++ {
			v, u := randomVec(), randomVec()
			if u.IsZero() {
				continue
			}
			Expect(v.Proj(u).Dot(u)).To(BeNumerically("~", v.Dot(u), 1e-9))
		}
	})

	It("keeps clamped projections within [0, |u|]", func() {
		for i := 0; i < 200; i++ {
			v, u := randomVec(), randomVec()
			if u.IsZero() {
				continue
			}
			n := v.ClampedProj(u).Norm()
			Expect(n).To(BeNumerically(">=", 0))
			Expect(n).To(BeNumerically("<=", u.Norm()+1e-12))
		}
	})

	It("preserves length under rotation", func() {
		for i := 0; i < 200; i++ {
			v := randomVec()
			a := rng.Float64() * 2 * math.Pi
			Expect(v.Rotated(a).Norm()).To(BeNumerically("~", v.Norm(), 1e-9))
		}
	})
})
