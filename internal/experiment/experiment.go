// Package experiment turns a scene configuration into a runnable simulation.
package experiment

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/san-kum/buoysim/internal/config"
	"github.com/san-kum/buoysim/internal/engine"
	"github.com/san-kum/buoysim/internal/fluid"
	"github.com/san-kum/buoysim/internal/sim"
)

type Experiment struct {
	cfg       *config.Config
	logger    *log.Logger
	model     *fluid.Model
	simulator *sim.Simulator
}

func New(cfg *config.Config, logger *log.Logger) *Experiment {
	return &Experiment{cfg: cfg, logger: logger}
}

// Build validates the configuration and creates the engine and model.
func Build(reg *Registry, cfg *config.Config, logger *log.Logger) (*fluid.Model, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	timing := engine.DefaultTiming()
	if cfg.FixedStep > 0 {
		timing.FixedStep = cfg.FixedStep
	}
	eng, err := reg.GetEngine(cfg.Engine, cfg.Integrator, timing)
	if err != nil {
		return nil, err
	}

	scene, err := cfg.Scene()
	if err != nil {
		return nil, err
	}
	return fluid.NewModel(cfg.Context(logger), eng, scene)
}

// Setup builds the model and attaches the given metrics, or the registry
// defaults when none are given.
func (e *Experiment) Setup(reg *Registry, ms ...sim.Metric) error {
	model, err := Build(reg, e.cfg, e.logger)
	if err != nil {
		return err
	}
	if len(ms) == 0 {
		ms = reg.DefaultMetrics(model)
	}

	e.model = model
	e.simulator = sim.New(model)
	for _, m := range ms {
		e.simulator.AddMetric(m)
	}
	return nil
}

func (e *Experiment) SimConfig() sim.Config {
	return sim.Config{
		Dt:            e.cfg.Dt,
		Duration:      e.cfg.Duration,
		ValidateState: true,
	}
}

func (e *Experiment) Run(ctx context.Context) (*sim.Result, error) {
	if e.simulator == nil {
		return nil, fmt.Errorf("experiment not setup")
	}
	return e.simulator.Run(ctx, e.SimConfig())
}

// GetSimulator returns the underlying simulator for adding observers
func (e *Experiment) GetSimulator() *sim.Simulator {
	return e.simulator
}

func (e *Experiment) Model() *fluid.Model { return e.model }
