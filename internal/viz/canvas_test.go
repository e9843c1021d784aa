package viz

import (
	"strings"
	"testing"

	"github.com/devfmo/physkit/internal/vec"
	"github.com/devfmo/physkit/internal/verlet"
)

func TestCanvasSetAndClear(t *testing.T) {
	c := NewCanvas(4, 2)

	c.Set(0, 0)
	if c.cells[0][0] == brailleBase {
		t.Error("Set(0,0) left the cell empty")
	}

	// Out of range is a no-op, not a panic.
	c.Set(-1, 0)
	c.Set(0, -4)
	c.Set(100, 100)

	c.Clear()
	for _, row := range c.cells {
		for _, cell := range row {
			if cell != brailleBase {
				t.Fatal("Clear left dots behind")
			}
		}
	}
}

func TestCanvasString(t *testing.T) {
	c := NewCanvas(3, 2)
	s := c.String()
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("lines: got %d", len(lines))
	}
	for _, line := range lines {
		if len([]rune(line)) != 3 {
			t.Errorf("line width: got %d", len([]rune(line)))
		}
	}
}

func TestLineEndpoints(t *testing.T) {
	c := NewCanvas(10, 10)
	c.Line(0, 0, 19, 39)

	if c.cells[0][0] == brailleBase {
		t.Error("line start not drawn")
	}
	if c.cells[9][9] == brailleBase {
		t.Error("line end not drawn")
	}
}

func TestViewportProjection(t *testing.T) {
	c := NewCanvas(10, 10)
	vp := Viewport{Min: vec.New(-1, -1), Max: vec.New(1, 1)}

	// World origin lands mid-canvas; +y is up so it maps to the upper half
	// boundary of the flipped axis.
	x, y := vp.ToScreen(vec.New(0, 0), c)
	if x != 10 || y != 20 {
		t.Errorf("origin projection: got (%d,%d), want (10,20)", x, y)
	}

	// Top-left world corner.
	x, y = vp.ToScreen(vec.New(-1, 1), c)
	if x != 0 || y != 0 {
		t.Errorf("corner projection: got (%d,%d), want (0,0)", x, y)
	}
}

func TestFitBodies(t *testing.T) {
	bodies := []*verlet.Body{
		verlet.NewBody(vec.New(-5, 2)),
		verlet.NewBody(vec.New(7, -3)),
	}
	vp := FitBodies(bodies, 1)

	if vp.Min.X != -6 || vp.Max.X != 8 {
		t.Errorf("x bounds: got [%v, %v]", vp.Min.X, vp.Max.X)
	}
	if vp.Min.Y != -4 || vp.Max.Y != 3 {
		t.Errorf("y bounds: got [%v, %v]", vp.Min.Y, vp.Max.Y)
	}

	// A single body must still yield a usable extent.
	vp = FitBodies(bodies[:1], 0)
	if vp.Max.X <= vp.Min.X || vp.Max.Y <= vp.Min.Y {
		t.Errorf("degenerate viewport: %+v", vp)
	}
}
