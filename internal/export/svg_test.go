package export

import (
	"strings"
	"testing"

	"github.com/san-kum/buoysim/internal/viz"
)

func TestCanvasToSVG(t *testing.T) {
	c := viz.NewCanvas(2, 1)
	c.Set(0, 0)
	c.Set(3, 3)

	svg := CanvasToSVG(c, 10, "#00ff00")
	if got := strings.Count(svg, "<circle"); got != 2 {
		t.Errorf("expected 2 dots, got %d", got)
	}
	if !strings.Contains(svg, `width="40" height="40"`) {
		t.Errorf("unexpected size in %q", svg[:120])
	}
	if CanvasToSVG(nil, 1, "#fff") != "" {
		t.Error("expected empty output for nil canvas")
	}
}

func TestChartSVG(t *testing.T) {
	times := []float64{0, 0.5, 1}
	svg := ChartSVG("cube", times, []Series{
		{Name: "cube_y", Values: []float64{-0.3, -0.4, -0.45}},
		{Name: "tank_height", Values: []float64{-0.5, -0.49, -0.48}},
	}, 400, 200)

	if got := strings.Count(svg, "<path"); got != 2 {
		t.Errorf("expected 2 paths, got %d", got)
	}
	for _, want := range []string{"cube_y", "tank_height", Palette[0], Palette[1], ">cube<"} {
		if !strings.Contains(svg, want) {
			t.Errorf("missing %q", want)
		}
	}
	if !strings.HasSuffix(svg, "</svg>") {
		t.Error("unterminated document")
	}
}

func TestChartSVGNeedsData(t *testing.T) {
	if ChartSVG("x", []float64{0}, []Series{{Name: "a", Values: []float64{1}}}, 100, 100) != "" {
		t.Error("expected empty chart for one sample")
	}
	if ChartSVG("x", []float64{0, 1}, nil, 100, 100) != "" {
		t.Error("expected empty chart without series")
	}
}
