// Package export writes runs and scene frames as standalone SVG documents.
package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/buoysim/internal/viz"
)

// Palette cycles over chart series.
var Palette = []string{"#4fc3f7", "#ffb74d", "#ba68c8", "#81c784", "#e57373", "#fff176"}

// Series is one named line of a chart.
type Series struct {
	Name   string
	Values []float64
}

// CanvasToSVG converts a braille canvas to dots.
func CanvasToSVG(canvas *viz.Canvas, scale float64, color string) string {
	if canvas == nil {
		return ""
	}

	width := float64(canvas.Width) * scale * 2
	height := float64(canvas.Height) * scale * 4

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<g fill="%s">
`, width, height, width, height, color)

	pixelMap := [4][2]rune{
		{0x01, 0x08},
		{0x02, 0x10},
		{0x04, 0x20},
		{0x40, 0x80},
	}
	dotRadius := scale * 0.4

	for row := 0; row < canvas.Height; row++ {
		for col := 0; col < canvas.Width; col++ {
			r := canvas.Grid[row][col]
			if r <= 0x2800 {
				continue
			}
			pattern := r - 0x2800

			baseX := float64(col) * scale * 2
			baseY := float64(row) * scale * 4
			for dy := 0; dy < 4; dy++ {
				for dx := 0; dx < 2; dx++ {
					if pattern&pixelMap[dy][dx] != 0 {
						cx := baseX + float64(dx)*scale + scale/2
						cy := baseY + float64(dy)*scale + scale/2
						fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\"/>\n", cx, cy, dotRadius)
					}
				}
			}
		}
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// ChartSVG draws every series against times on shared axes, with a legend.
// Series shorter than times are drawn up to their length.
func ChartSVG(title string, times []float64, series []Series, width, height int) string {
	if len(times) < 2 || len(series) == 0 {
		return ""
	}

	minX, maxX := times[0], times[len(times)-1]
	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, s := range series {
		for _, v := range s.Values {
			minY = math.Min(minY, v)
			maxY = math.Max(maxY, v)
		}
	}
	if math.IsInf(minY, 0) {
		return ""
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeY = maxY - minY

	const margin = 40
	plotW := float64(width - 2*margin)
	plotH := float64(height - 2*margin)
	px := func(x float64) float64 { return margin + (x-minX)/rangeX*plotW }
	py := func(y float64) float64 { return margin + plotH - (y-minY)/rangeY*plotH }

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<text x="%d" y="24" fill="#cccccc" font-family="monospace" font-size="14">%s</text>
<rect x="%d" y="%d" width="%.0f" height="%.0f" fill="none" stroke="#444444"/>
`, width, height, width, height, margin, title, margin, margin, plotW, plotH)

	fmt.Fprintf(&sb, "<text x=\"4\" y=\"%.1f\" fill=\"#888888\" font-family=\"monospace\" font-size=\"10\">%.3g</text>\n", py(maxY-rangeY*0.1)+4, maxY-rangeY*0.1)
	fmt.Fprintf(&sb, "<text x=\"4\" y=\"%.1f\" fill=\"#888888\" font-family=\"monospace\" font-size=\"10\">%.3g</text>\n", py(minY+rangeY*0.1)+4, minY+rangeY*0.1)
	fmt.Fprintf(&sb, "<text x=\"%.1f\" y=\"%d\" fill=\"#888888\" font-family=\"monospace\" font-size=\"10\">%.2fs</text>\n", px(maxX)-30, height-margin/2, maxX)

	for i, s := range series {
		color := Palette[i%len(Palette)]
		n := min(len(s.Values), len(times))
		if n < 2 {
			continue
		}

		fmt.Fprintf(&sb, `<path fill="none" stroke="%s" stroke-width="1.5" d="M`, color)
		for j := 0; j < n; j++ {
			if j == 0 {
				fmt.Fprintf(&sb, "%.1f,%.1f", px(times[j]), py(s.Values[j]))
			} else {
				fmt.Fprintf(&sb, " L%.1f,%.1f", px(times[j]), py(s.Values[j]))
			}
		}
		sb.WriteString("\"/>\n")

		fmt.Fprintf(&sb, "<text x=\"%.1f\" y=\"%d\" fill=\"%s\" font-family=\"monospace\" font-size=\"11\">%s</text>\n",
			float64(margin)+float64(i)*plotW/float64(len(series)), height-margin/2+12, color, s.Name)
	}

	sb.WriteString("</svg>")
	return sb.String()
}
