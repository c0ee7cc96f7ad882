package sim

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/buoysim/internal/fluid"
)

type Simulator struct {
	model     Stepper
	metrics   []Metric
	observers []Observer
}

func New(model Stepper) *Simulator {
	return &Simulator{
		model:     model,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// Steps is the number of frames a run of cfg takes.
func Steps(cfg Config) int {
	return int(cfg.Duration/cfg.Dt + 1e-9)
}

func (s *Simulator) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	steps := Steps(cfg)
	every := max(cfg.SampleEvery, 1)
	capacity := min(steps/every+2, 4096)
	result := &Result{
		Snapshots: make([]*fluid.Snapshot, 0, capacity),
		Times:     make([]float64, 0, capacity),
		Metrics:   make(map[string]float64),
		Errors:    make([]error, 0),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	first := s.model.Snapshot()
	last := first
	result.Snapshots = append(result.Snapshots, first)
	result.Times = append(result.Times, first.Time)

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			s.finish(result, first, last)
			return result, ctx.Err()
		default:
		}

		snap, err := s.model.Step(cfg.Dt)
		if err != nil {
			s.finish(result, first, last)
			return result, err
		}

		if cfg.ValidateState && !snap.Finite() {
			result.Errors = append(result.Errors, SimError{Time: snap.Time, Step: i, Message: "non-finite snapshot"})
			break
		}

		for _, m := range s.metrics {
			m.Observe(snap)
		}
		for _, obs := range s.observers {
			obs.OnStep(snap)
		}

		last = snap
		result.StepsTaken++
		if result.StepsTaken%every == 0 || i == steps-1 {
			result.Snapshots = append(result.Snapshots, snap)
			result.Times = append(result.Times, snap.Time)
		}
	}

	s.finish(result, first, last)
	return result, nil
}

func (s *Simulator) finish(result *Result, first, last *fluid.Snapshot) {
	v0 := first.TotalVolume() + first.Discarded
	v1 := last.TotalVolume() + last.Discarded
	if v0 != 0 {
		result.VolumeDrift = math.Abs(v1-v0) / math.Abs(v0)
	}
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}

// maxSteps bounds a single run so the step count always fits an int.
const maxSteps = 1 << 30

func validateConfig(cfg Config) error {
	if cfg.Dt <= 0 || math.IsNaN(cfg.Dt) || math.IsInf(cfg.Dt, 0) {
		return fmt.Errorf("dt must be positive, got %f", cfg.Dt)
	}
	if cfg.Duration <= 0 || math.IsNaN(cfg.Duration) || math.IsInf(cfg.Duration, 0) {
		return fmt.Errorf("duration must be positive and finite, got %f", cfg.Duration)
	}
	if cfg.Duration/cfg.Dt > maxSteps {
		return fmt.Errorf("duration %g at dt %g exceeds %d steps", cfg.Duration, cfg.Dt, maxSteps)
	}
	if cfg.SampleEvery < 0 {
		return fmt.Errorf("sample interval must not be negative, got %d", cfg.SampleEvery)
	}
	return nil
}

// RunWithCallback steps until the duration elapses, the callback returns
// false or ctx is cancelled. Metrics and observers are not invoked.
func (s *Simulator) RunWithCallback(ctx context.Context, cfg Config, callback func(*fluid.Snapshot) bool) error {
	if err := validateConfig(cfg); err != nil {
		return err
	}

	snap := s.model.Snapshot()
	for i := 0; i < Steps(cfg); i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if !callback(snap) {
			return nil
		}

		var err error
		snap, err = s.model.Step(cfg.Dt)
		if err != nil {
			return err
		}

		if cfg.ValidateState && !snap.Finite() {
			return fmt.Errorf("invalid snapshot at t=%.4f", snap.Time)
		}
	}
	callback(snap)

	return nil
}
