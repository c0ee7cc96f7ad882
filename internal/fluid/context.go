package fluid

import (
	"fmt"
	"io"
	"math"

	"github.com/charmbracelet/log"
	"github.com/san-kum/buoysim/internal/mathx"
	"github.com/san-kum/buoysim/internal/solver"
)

const (
	DefaultGravity        = 9.8
	DefaultDensity        = 1000.0
	DefaultViscosity      = 8.9e-4
	DefaultViscosityScale = 3000.0
	DefaultMaxVelocity    = 5.0
	DefaultSlip           = 0.01
	DefaultFillRate       = 0.01
	DefaultSpillThreshold = 0.9

	// ReferenceDensity is the density at which Viscosity applies unscaled.
	ReferenceDensity = 1000.0
)

// Context bundles the physical constants and numerical limits of a model.
type Context struct {
	Gravity float64
	Density float64

	// Viscosity is the dynamic viscosity of the fluid at ReferenceDensity.
	// ViscosityScale exaggerates it so that settling is visible.
	Viscosity      float64
	ViscosityScale float64

	MaxVelocity float64
	Solver      solver.Options

	// Slip widens containment tests so that a body resting on a wall does
	// not flicker in and out of a basin.
	Slip float64

	// FillRate caps fluid moved between a pool and its boat per tick, as a
	// fraction of the hull's displacement volume.
	FillRate float64

	// SpillThreshold is the fraction of hull height that must stand above
	// the surrounding surface before a boat drains.
	SpillThreshold float64

	// Debug turns invariant clamps and guard violations into log entries.
	Debug  bool
	Logger *log.Logger
}

func DefaultContext() Context {
	return Context{
		Gravity:        DefaultGravity,
		Density:        DefaultDensity,
		Viscosity:      DefaultViscosity,
		ViscosityScale: DefaultViscosityScale,
		MaxVelocity:    DefaultMaxVelocity,
		Solver:         solver.DefaultOptions(),
		Slip:           DefaultSlip,
		FillRate:       DefaultFillRate,
		SpillThreshold: DefaultSpillThreshold,
	}
}

// Validate rejects non-physical constants.
func (c Context) Validate() error {
	checks := []struct {
		name string
		v    float64
		ok   bool
	}{
		{"gravity", c.Gravity, c.Gravity >= 0},
		{"density", c.Density, c.Density > 0},
		{"viscosity", c.Viscosity, c.Viscosity >= 0},
		{"viscosity_scale", c.ViscosityScale, c.ViscosityScale >= 0},
		{"max_velocity", c.MaxVelocity, c.MaxVelocity > 0},
		{"slip", c.Slip, c.Slip >= 0},
		{"fill_rate", c.FillRate, c.FillRate > 0 && c.FillRate <= 1},
		{"spill_threshold", c.SpillThreshold, c.SpillThreshold > 0 && c.SpillThreshold <= 1},
	}
	for _, ch := range checks {
		if !mathx.Finite(ch.v) || !ch.ok {
			return fmt.Errorf("%w: %s = %g", ErrInvalidContext, ch.name, ch.v)
		}
	}
	return nil
}

func (c Context) logger() *log.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return log.New(io.Discard)
}

// viscousCoefficient is the Stokes drag factor for a sphere of the body's
// volume, scaled by fluid density.
func (c Context) viscousCoefficient(radius float64) float64 {
	return 6 * math.Pi * c.Viscosity * c.ViscosityScale * radius * c.Density / ReferenceDensity
}
