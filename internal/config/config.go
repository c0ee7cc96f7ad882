package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/buoysim/internal/fluid"
	"github.com/san-kum/buoysim/internal/mathx"
	"github.com/san-kum/buoysim/internal/shape"
	"github.com/san-kum/buoysim/internal/solver"
)

const (
	DefaultDt         = 1.0 / 60.0
	DefaultFixedStep  = 1.0 / 120.0
	DefaultDuration   = 10.0
	DefaultEngine     = "simple"
	DefaultIntegrator = "symplectic"
)

var ErrInvalidConfig = errors.New("config: invalid scene")

// Vec is a yaml triple [x, y, z].
type Vec [3]float64

func (v Vec) Vec3() mgl64.Vec3 { return mgl64.Vec3(v) }

type Config struct {
	Name       string        `yaml:"name"`
	Engine     string        `yaml:"engine"`
	Integrator string        `yaml:"integrator"`
	Dt         float64       `yaml:"dt"`
	FixedStep  float64       `yaml:"fixed_step"`
	Duration   float64       `yaml:"duration"`
	Gravity    float64       `yaml:"gravity"`
	Debug      bool          `yaml:"debug"`
	Fluid      FluidConfig   `yaml:"fluid"`
	Limits     LimitsConfig  `yaml:"limits"`
	Pools      []PoolConfig  `yaml:"pools"`
	Boats      []BoatConfig  `yaml:"boats,omitempty"`
	Masses     []MassConfig  `yaml:"masses,omitempty"`
}

type FluidConfig struct {
	Density        float64 `yaml:"density"`
	Viscosity      float64 `yaml:"viscosity"`
	ViscosityScale float64 `yaml:"viscosity_scale"`
}

// LimitsConfig holds numerical limits. Zero values fall back to defaults.
type LimitsConfig struct {
	MaxVelocity      float64 `yaml:"max_velocity,omitempty"`
	SolverTolerance  float64 `yaml:"solver_tolerance,omitempty"`
	SolverIterations int     `yaml:"solver_iterations,omitempty"`
	Slip             float64 `yaml:"slip,omitempty"`
	FillRate         float64 `yaml:"fill_rate,omitempty"`
	SpillThreshold   float64 `yaml:"spill_threshold,omitempty"`
}

type PoolConfig struct {
	ID     string  `yaml:"id"`
	Min    Vec     `yaml:"min,flow"`
	Max    Vec     `yaml:"max,flow"`
	Volume float64 `yaml:"volume"`
}

type BoatConfig struct {
	ID        string  `yaml:"id"`
	Pool      string  `yaml:"pool"`
	Size      Vec     `yaml:"size,flow"`
	Thickness float64 `yaml:"thickness"`
	Mass      float64 `yaml:"mass"`
	Position  Vec     `yaml:"position,flow"`
	Volume    float64 `yaml:"volume"`
	Movable   *bool   `yaml:"movable,omitempty"`
}

// MassConfig describes one body. Box, ellipsoid, duck and boat shapes use
// Size; a cube uses Size[0]; cone and bottle use Radius and Height. Mass
// wins over Density when both are set.
type MassConfig struct {
	ID       string  `yaml:"id"`
	Shape    string  `yaml:"shape"`
	Size     Vec     `yaml:"size,flow,omitempty"`
	Radius   float64 `yaml:"radius,omitempty"`
	Height   float64 `yaml:"height,omitempty"`
	VertexUp bool    `yaml:"vertex_up,omitempty"`
	Mass     float64 `yaml:"mass,omitempty"`
	Density  float64 `yaml:"density,omitempty"`
	Position Vec     `yaml:"position,flow"`
	Velocity Vec     `yaml:"velocity,flow,omitempty"`
	Movable  *bool   `yaml:"movable,omitempty"`
	Visible  *bool   `yaml:"visible,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Name:       "scene",
		Engine:     DefaultEngine,
		Integrator: DefaultIntegrator,
		Dt:         DefaultDt,
		FixedStep:  DefaultFixedStep,
		Duration:   DefaultDuration,
		Gravity:    fluid.DefaultGravity,
		Fluid: FluidConfig{
			Density:        fluid.DefaultDensity,
			Viscosity:      fluid.DefaultViscosity,
			ViscosityScale: fluid.DefaultViscosityScale,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	out := *c
	out.Pools = append([]PoolConfig(nil), c.Pools...)
	out.Boats = append([]BoatConfig(nil), c.Boats...)
	out.Masses = append([]MassConfig(nil), c.Masses...)
	return &out
}

func flag(b *bool, def bool) bool {
	if b == nil {
		return def
	}
	return *b
}

func (b BoatConfig) IsMovable() bool { return flag(b.Movable, true) }
func (m MassConfig) IsMovable() bool { return flag(m.Movable, true) }
func (m MassConfig) IsVisible() bool { return flag(m.Visible, true) }

// BuildShape resolves the shape name and dimensions.
func (m MassConfig) BuildShape() (shape.Shape, error) {
	kind, err := shape.ParseKind(m.Shape)
	if err != nil {
		return shape.Shape{}, err
	}
	var s shape.Shape
	switch kind {
	case shape.Cone:
		s = shape.NewCone(m.Radius, m.Height, m.VertexUp)
	case shape.Bottle:
		s = shape.NewBottle(m.Radius, m.Height)
	case shape.Box:
		if m.Size[1] == 0 && m.Size[2] == 0 {
			s = shape.NewCube(m.Size[0])
		} else {
			s = shape.NewBox(m.Size[0], m.Size[1], m.Size[2])
		}
	default:
		s = shape.Shape{Kind: kind, Width: m.Size[0], Height: m.Size[1], Depth: m.Size[2]}
	}
	return s, s.Validate()
}

// MassValue resolves the body's mass from Mass or Density.
func (m MassConfig) MassValue(s shape.Shape) float64 {
	if m.Mass > 0 {
		return m.Mass
	}
	return m.Density * s.MaxVolume()
}

// Context converts the physical settings. Unset limits take the fluid
// package defaults.
func (c *Config) Context(logger *log.Logger) fluid.Context {
	ctx := fluid.DefaultContext()
	ctx.Gravity = c.Gravity
	ctx.Density = c.Fluid.Density
	ctx.Viscosity = c.Fluid.Viscosity
	ctx.ViscosityScale = c.Fluid.ViscosityScale
	ctx.Debug = c.Debug
	ctx.Logger = logger

	l := c.Limits
	if l.MaxVelocity > 0 {
		ctx.MaxVelocity = l.MaxVelocity
	}
	if l.SolverTolerance > 0 || l.SolverIterations > 0 {
		ctx.Solver = solver.Options{Tolerance: l.SolverTolerance, MaxIterations: l.SolverIterations}
		if ctx.Solver.Tolerance <= 0 {
			ctx.Solver.Tolerance = solver.DefaultTolerance
		}
		if ctx.Solver.MaxIterations <= 0 {
			ctx.Solver.MaxIterations = solver.DefaultMaxIterations
		}
	}
	if l.Slip > 0 {
		ctx.Slip = l.Slip
	}
	if l.FillRate > 0 {
		ctx.FillRate = l.FillRate
	}
	if l.SpillThreshold > 0 {
		ctx.SpillThreshold = l.SpillThreshold
	}
	return ctx
}

// Scene converts the bodies and basins.
func (c *Config) Scene() (fluid.Scene, error) {
	var sc fluid.Scene
	for _, p := range c.Pools {
		sc.Pools = append(sc.Pools, fluid.PoolSpec{ID: p.ID, Min: p.Min.Vec3(), Max: p.Max.Vec3(), Volume: p.Volume})
	}
	for _, b := range c.Boats {
		sc.Boats = append(sc.Boats, fluid.BoatSpec{
			ID: b.ID, Pool: b.Pool,
			Width: b.Size[0], Height: b.Size[1], Depth: b.Size[2],
			Thickness: b.Thickness,
			Mass:      b.Mass,
			Position:  b.Position.Vec3(),
			Volume:    b.Volume,
			Movable:   b.IsMovable(),
		})
	}
	for _, m := range c.Masses {
		s, err := m.BuildShape()
		if err != nil {
			return fluid.Scene{}, fmt.Errorf("%w: mass %q: %w", ErrInvalidConfig, m.ID, err)
		}
		sc.Masses = append(sc.Masses, fluid.MassSpec{
			ID:       m.ID,
			Shape:    s,
			Mass:     m.MassValue(s),
			Position: m.Position.Vec3(),
			Velocity: m.Velocity.Vec3(),
			Movable:  m.IsMovable(),
			Hidden:   !m.IsVisible(),
		})
	}
	return sc, nil
}

// Validate fails fast on anything NewModel would reject.
func (c *Config) Validate() error {
	if !mathx.Finite(c.Dt) || !mathx.Finite(c.Duration) || c.Dt <= 0 || c.Duration <= 0 {
		return fmt.Errorf("%w: dt %g duration %g", ErrInvalidConfig, c.Dt, c.Duration)
	}
	if !mathx.Finite(c.FixedStep) || c.FixedStep < 0 {
		return fmt.Errorf("%w: fixed_step %g", ErrInvalidConfig, c.FixedStep)
	}
	if err := c.Context(nil).Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	sc, err := c.Scene()
	if err != nil {
		return err
	}
	if err := sc.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}
