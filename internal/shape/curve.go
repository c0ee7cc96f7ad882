package shape

import (
	"math"

	"github.com/san-kum/buoysim/internal/mathx"
)

// DefaultCurveSamples gives a ratio resolution of ~0.004, fine enough that the
// interpolated area stays smooth for the equilibrium solver.
const DefaultCurveSamples = 256

// Curve is a precomputed dimensionless displacement table. Areas are fractions
// of the bounding rectangle (width*depth) and volumes are fractions of the
// bounding box (width*depth*height), both indexed by submersion ratio.
// Values between samples are linearly interpolated.
type Curve struct {
	area   []float64
	volume []float64
	n      int
}

// NewCurve samples profile at n+1 evenly spaced ratios and integrates it with
// the trapezoid rule. profile must return an area fraction in [0, 1].
func NewCurve(n int, profile func(t float64) float64) *Curve {
	if n < 1 {
		n = 1
	}
	c := &Curve{
		area:   make([]float64, n+1),
		volume: make([]float64, n+1),
		n:      n,
	}

	dt := 1 / float64(n)
	for i := 0; i <= n; i++ {
		c.area[i] = mathx.Clamp01(profile(float64(i) * dt))
		if i > 0 {
			c.volume[i] = c.volume[i-1] + 0.5*(c.area[i-1]+c.area[i])*dt
		}
	}

	return c
}

// Samples returns the number of intervals in the table.
func (c *Curve) Samples() int { return c.n }

func (c *Curve) locate(t float64) (int, float64) {
	t = mathx.Clamp01(t)
	idx := t * float64(c.n)
	i := int(idx)
	if i >= c.n {
		return c.n - 1, 1
	}
	return i, idx - float64(i)
}

// Area returns the interpolated area fraction at ratio t.
func (c *Curve) Area(t float64) float64 {
	i, frac := c.locate(t)
	return c.area[i]*(1-frac) + c.area[i+1]*frac
}

// Volume returns the interpolated cumulative volume fraction at ratio t.
func (c *Curve) Volume(t float64) float64 {
	i, frac := c.locate(t)
	return c.volume[i]*(1-frac) + c.volume[i+1]*frac
}

// TotalVolume returns the volume fraction of the full table.
func (c *Curve) TotalVolume() float64 {
	return c.volume[c.n]
}

// MaxArea returns the largest sampled area fraction.
func (c *Curve) MaxArea() float64 {
	m := 0.0
	for _, a := range c.area {
		m = math.Max(m, a)
	}
	return m
}

// Hull profiles. The boat widens from a flat keel toward the gunwale; the
// bottle is a round body with a shoulder tapering into a neck.
var (
	BoatCurve   = NewCurve(DefaultCurveSamples, boatProfile)
	BottleCurve = NewCurve(DefaultCurveSamples, bottleProfile)
)

const (
	boatKeelFraction = 0.35
	roundFraction    = math.Pi / 4
	bottleShoulder   = 0.6
	bottleNeck       = 0.8
	bottleNeckScale  = 0.15
)

func boatProfile(t float64) float64 {
	return boatKeelFraction + (1-boatKeelFraction)*math.Sqrt(t)
}

func bottleProfile(t float64) float64 {
	switch {
	case t < bottleShoulder:
		return roundFraction
	case t < bottleNeck:
		s := (t - bottleShoulder) / (bottleNeck - bottleShoulder)
		return roundFraction * mathx.Lerp(1, bottleNeckScale, s)
	default:
		return roundFraction * bottleNeckScale
	}
}
