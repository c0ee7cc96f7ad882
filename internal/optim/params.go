package optim

import (
	"errors"
	"fmt"
	"strings"

	"github.com/san-kum/buoysim/internal/config"
)

var ErrUnknownParam = errors.New("optim: unknown parameter")

// SetParam writes one tunable value into cfg. Names are dotted paths:
//
//	gravity
//	fluid.density, fluid.viscosity, fluid.viscosity_scale
//	limits.fill_rate, limits.spill_threshold, limits.max_velocity
//	mass.<id>.density, mass.<id>.mass
//	boat.<id>.mass, boat.<id>.volume
//	pool.<id>.volume
func SetParam(cfg *config.Config, name string, v float64) error {
	switch name {
	case "gravity":
		cfg.Gravity = v
		return nil
	case "fluid.density":
		cfg.Fluid.Density = v
		return nil
	case "fluid.viscosity":
		cfg.Fluid.Viscosity = v
		return nil
	case "fluid.viscosity_scale":
		cfg.Fluid.ViscosityScale = v
		return nil
	case "limits.fill_rate":
		cfg.Limits.FillRate = v
		return nil
	case "limits.spill_threshold":
		cfg.Limits.SpillThreshold = v
		return nil
	case "limits.max_velocity":
		cfg.Limits.MaxVelocity = v
		return nil
	}

	parts := strings.Split(name, ".")
	if len(parts) != 3 {
		return fmt.Errorf("%w: %s", ErrUnknownParam, name)
	}
	group, id, field := parts[0], parts[1], parts[2]

	switch group {
	case "mass":
		for i := range cfg.Masses {
			if cfg.Masses[i].ID != id {
				continue
			}
			switch field {
			case "density":
				cfg.Masses[i].Density = v
				cfg.Masses[i].Mass = 0
				return nil
			case "mass":
				cfg.Masses[i].Mass = v
				return nil
			}
		}
	case "boat":
		for i := range cfg.Boats {
			if cfg.Boats[i].ID != id {
				continue
			}
			switch field {
			case "mass":
				cfg.Boats[i].Mass = v
				return nil
			case "volume":
				cfg.Boats[i].Volume = v
				return nil
			}
		}
	case "pool":
		for i := range cfg.Pools {
			if cfg.Pools[i].ID == id && field == "volume" {
				cfg.Pools[i].Volume = v
				return nil
			}
		}
	}
	return fmt.Errorf("%w: %s", ErrUnknownParam, name)
}

// Apply returns a copy of base with every parameter set.
func Apply(base *config.Config, params map[string]float64) (*config.Config, error) {
	cfg := base.Clone()
	for name, v := range params {
		if err := SetParam(cfg, name, v); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// Linspace returns n evenly spaced values from lo to hi inclusive.
func Linspace(lo, hi float64, n int) []float64 {
	if n <= 1 {
		return []float64{lo}
	}
	out := make([]float64, n)
	step := (hi - lo) / float64(n-1)
	for i := range out {
		out[i] = lo + float64(i)*step
	}
	out[n-1] = hi
	return out
}
