package viz

import (
	"github.com/devfmo/physkit/internal/vec"
	"github.com/devfmo/physkit/internal/verlet"
)

// Viewport maps world coordinates onto a canvas's sub-pixel grid. World y
// grows upward; screen y grows downward.
type Viewport struct {
	Min, Max vec.Vec2
}

// FitBodies returns a viewport covering all bodies with a margin, never
// collapsing to zero extent.
func FitBodies(bodies []*verlet.Body, margin float64) Viewport {
	if len(bodies) == 0 {
		return Viewport{Min: vec.New(-1, -1), Max: vec.New(1, 1)}
	}
	min, max := bodies[0].Pos, bodies[0].Pos
	for _, b := range bodies[1:] {
		if b.Pos.X < min.X {
			min.X = b.Pos.X
		}
		if b.Pos.Y < min.Y {
			min.Y = b.Pos.Y
		}
		if b.Pos.X > max.X {
			max.X = b.Pos.X
		}
		if b.Pos.Y > max.Y {
			max.Y = b.Pos.Y
		}
	}
	if max.X-min.X < 1 {
		min.X--
		max.X++
	}
	if max.Y-min.Y < 1 {
		min.Y--
		max.Y++
	}
	min.Sub(vec.New(margin, margin))
	max.Add(vec.New(margin, margin))
	return Viewport{Min: min, Max: max}
}

// ToScreen projects a world point to sub-pixel coordinates on c.
func (vp Viewport) ToScreen(p vec.Vec2, c *Canvas) (int, int) {
	w := float64(c.Width * 2)
	h := float64(c.Height * 4)
	x := (p.X - vp.Min.X) / (vp.Max.X - vp.Min.X) * w
	y := (1 - (p.Y-vp.Min.Y)/(vp.Max.Y-vp.Min.Y)) * h
	return int(x), int(y)
}

// PlotBodies draws every body as a dot cluster.
func PlotBodies(c *Canvas, vp Viewport, bodies []*verlet.Body) {
	for _, b := range bodies {
		x, y := vp.ToScreen(b.Pos, c)
		c.Dot(x, y)
	}
}

// PlotTrail draws a polyline through the given world points.
func PlotTrail(c *Canvas, vp Viewport, points []vec.Vec2) {
	for i := 1; i < len(points); i++ {
		x0, y0 := vp.ToScreen(points[i-1], c)
		x1, y1 := vp.ToScreen(points[i], c)
		c.Line(x0, y0, x1, y1)
	}
}
