package export

import (
	"fmt"
	"os"
	"strings"

	"github.com/devfmo/physkit/internal/viz"
)

// Braille dot bits, mirroring the canvas layout.
var svgDotBits = [4][2]int{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

// CanvasSVG renders a braille canvas as an SVG document, one circle per lit
// dot. Scale is the pixel size of one sub-pixel.
func CanvasSVG(c *viz.Canvas, scale float64) string {
	width := float64(c.Width) * scale * 2
	height := float64(c.Height) * scale * 4

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<g fill="#6fe3a1">
`, width, height, width, height))

	radius := scale * 0.4
	for row, cells := range c.Cells() {
		for col, cell := range cells {
			pattern := int(cell - 0x2800)
			if pattern == 0 {
				continue
			}
			baseX := float64(col) * scale * 2
			baseY := float64(row) * scale * 4
			for dy := 0; dy < 4; dy++ {
				for dx := 0; dx < 2; dx++ {
					if pattern&svgDotBits[dy][dx] != 0 {
						cx := baseX + float64(dx)*scale + scale/2
						cy := baseY + float64(dy)*scale + scale/2
						sb.WriteString(fmt.Sprintf("<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\"/>\n", cx, cy, radius))
					}
				}
			}
		}
	}

	sb.WriteString("</g>\n</svg>\n")
	return sb.String()
}

// WriteSVG writes the canvas SVG to path.
func WriteSVG(path string, c *viz.Canvas, scale float64) error {
	return os.WriteFile(path, []byte(CanvasSVG(c, scale)), 0644)
}
