package optim

import (
	"context"
	"fmt"

	"github.com/san-kum/buoysim/internal/config"
	"github.com/san-kum/buoysim/internal/experiment"
	"github.com/san-kum/buoysim/internal/mathx"
)

// SweepPoint is the settled state of one body at one density.
type SweepPoint struct {
	Density  float64
	Fraction float64 // mean submerged fraction over the last second
	// Archimedes is density over fluid density, clamped to [0, 1]. It is the
	// exact equilibrium fraction for prismatic shapes.
	Archimedes float64
	Settled    float64 // settling time, -1 if still moving
}

// DensitySweep varies the density of one mass and records where it floats.
type DensitySweep struct {
	Mass     string
	From, To float64
	Steps    int
	Parallel int
}

func (d *DensitySweep) Run(ctx context.Context, reg *experiment.Registry, base *config.Config) ([]SweepPoint, error) {
	found := false
	for _, m := range base.Masses {
		found = found || m.ID == d.Mass
	}
	if !found {
		return nil, fmt.Errorf("%w: mass %q not in scene %s", ErrUnknownParam, d.Mass, base.Name)
	}

	param := "mass." + d.Mass + ".density"
	values := Linspace(d.From, d.To, d.Steps)
	g := NewGridSearch([]string{param}, [][]float64{values})
	g.Parallel = d.Parallel

	points, err := g.Evaluate(ctx, reg, base)
	if err != nil {
		return nil, err
	}

	fluidDensity := base.Fluid.Density
	out := make([]SweepPoint, len(points))
	for i, p := range points {
		rho := p.Params[param]
		out[i] = SweepPoint{
			Density:    rho,
			Fraction:   p.Metrics["submersion_"+d.Mass],
			Archimedes: mathx.Clamp01(rho / fluidDensity),
			Settled:    p.Metrics["settling_"+d.Mass],
		}
	}
	return out, nil
}
