package viz

import (
	"math"

	"github.com/san-kum/buoysim/internal/fluid"
)

// projection maps the x/y plane of the scene onto canvas sub-pixels.
type projection struct {
	minX, maxX float64
	minY, maxY float64
	cw, ch     int
}

func newProjection(model *fluid.Model, c *Canvas) projection {
	p := projection{
		minX: math.Inf(1), maxX: math.Inf(-1),
		minY: math.Inf(1), maxY: math.Inf(-1),
		cw: c.Width * 2, ch: c.Height * 4,
	}
	for _, b := range model.Basins() {
		if b.Kind() != fluid.Pool {
			continue
		}
		lo, hi := b.Box()
		p.minX, p.maxX = math.Min(p.minX, lo.X()), math.Max(p.maxX, hi.X())
		p.minY, p.maxY = math.Min(p.minY, lo.Y()), math.Max(p.maxY, hi.Y())
	}
	if math.IsInf(p.minX, 0) {
		p.minX, p.maxX, p.minY, p.maxY = -1, 1, -1, 0
	}
	// headroom for bodies dropped from above the rim
	pad := 0.05 * (p.maxX - p.minX)
	p.minX -= pad
	p.maxX += pad
	p.maxY += 0.25 * (p.maxY - p.minY)
	return p
}

func (p projection) point(x, y float64) (int, int) {
	sx := (x - p.minX) / (p.maxX - p.minX) * float64(p.cw-1)
	sy := (p.maxY - y) / (p.maxY - p.minY) * float64(p.ch-1)
	return int(math.Round(sx)), int(math.Round(sy))
}

// drawScene renders pools, holds and bodies. levels holds the displayed
// surface height per basin; selected is a mass index or -1.
func drawScene(c *Canvas, p projection, model *fluid.Model, snap *fluid.Snapshot, levels []float64, selected int) {
	c.Clear()

	basins := model.Basins()
	for i, b := range basins {
		if b.Kind() != fluid.Pool {
			continue
		}
		lo, hi := b.Box()
		x0, y0 := p.point(lo.X(), lo.Y())
		x1, ys := p.point(hi.X(), levels[i])
		_, yTop := p.point(0, hi.Y())
		if levels[i] > lo.Y() {
			c.Fill(x0, ys, x1, y0, Ripple)
		}
		c.DrawLine(x0, yTop, x0, y0)
		c.DrawLine(x0, y0, x1, y0)
		c.DrawLine(x1, y0, x1, yTop)
	}

	holds := make(map[int]int)
	for i, b := range basins {
		if b.Kind() == fluid.Hold {
			holds[b.Hull()] = i
		}
	}

	for i, m := range model.Masses() {
		if !m.Visible() || i >= len(snap.Masses) {
			continue
		}
		pos := snap.Masses[i].Position
		s := m.Shape()
		x0, y0 := p.point(pos.X()-s.Width/2, pos.Y()-s.Height/2)
		x1, y1 := p.point(pos.X()+s.Width/2, pos.Y()+s.Height/2)
		c.Erase(x0, y1, x1, y0)
		c.Rect(x0, y1, x1, y0)

		if bi, ok := holds[i]; ok {
			in := basins[bi].Interior()
			bottom := pos.Y() - s.Height/2 + (s.Height - in.Height)
			if levels[bi] > bottom {
				hx0, hy0 := p.point(pos.X()-in.Width/2, bottom)
				hx1, hy1 := p.point(pos.X()+in.Width/2, math.Min(levels[bi], pos.Y()+s.Height/2))
				c.Fill(hx0+1, hy1, hx1-1, hy0-1, Ripple)
			}
		}
		if i == selected {
			cx, cy := p.point(pos.X(), pos.Y())
			c.Fill(cx-1, cy-1, cx+1, cy+1, Solid)
		}
	}
}

// Frame draws the model's current state on a fresh w x h canvas.
func Frame(model *fluid.Model, w, h int) *Canvas {
	c := NewCanvas(w, h)
	snap := model.Snapshot()
	levels := make([]float64, len(snap.Basins))
	for i, b := range snap.Basins {
		levels[i] = b.Height
	}
	drawScene(c, newProjection(model, c), model, snap, levels, -1)
	return c
}
