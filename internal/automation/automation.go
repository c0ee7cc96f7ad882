// Package automation runs scripted batches of scenes from yaml.
package automation

import (
	"context"
	"fmt"
	"math/rand"
	"os"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/buoysim/internal/config"
	"github.com/san-kum/buoysim/internal/experiment"
	"github.com/san-kum/buoysim/internal/optim"
	"github.com/san-kum/buoysim/internal/sim"
	"github.com/san-kum/buoysim/internal/storage"
)

// Script defines a sequence of runs.
type Script struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Steps       []Step `yaml:"steps"`
}

// Step is one run. Preset and Config are alternatives; Config wins. Zero
// fields keep the scene's own values.
type Step struct {
	Preset     string             `yaml:"preset"`
	Config     string             `yaml:"config"`
	Engine     string             `yaml:"engine"`
	Integrator string             `yaml:"integrator"`
	Duration   float64            `yaml:"duration"`
	Dt         float64            `yaml:"dt"`
	Set        map[string]float64 `yaml:"set"`
	SaveAs     string             `yaml:"save_as"`
}

// Outcome pairs a step with its result and, if stored, its run id.
type Outcome struct {
	Step   Step
	Scene  string
	Result *sim.Result
	RunID  string
}

func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var script Script
	if err := yaml.Unmarshal(data, &script); err != nil {
		return nil, err
	}

	return &script, nil
}

// Resolve builds the scene configuration of one step.
func (s Step) Resolve() (*config.Config, error) {
	var cfg *config.Config
	switch {
	case s.Config != "":
		c, err := config.Load(s.Config)
		if err != nil {
			return nil, err
		}
		cfg = c
	case s.Preset != "":
		cfg = config.GetPreset(s.Preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s", s.Preset)
		}
	default:
		return nil, fmt.Errorf("step needs a preset or a config")
	}

	if s.Engine != "" {
		cfg.Engine = s.Engine
	}
	if s.Integrator != "" {
		cfg.Integrator = s.Integrator
	}
	if s.Duration > 0 {
		cfg.Duration = s.Duration
	}
	if s.Dt > 0 {
		cfg.Dt = s.Dt
	}
	if s.SaveAs != "" {
		cfg.Name = s.SaveAs
	}
	return optim.Apply(cfg, s.Set)
}

// RunScript executes the steps in order. Steps with SaveAs are written to
// the store when one is given.
func RunScript(ctx context.Context, script *Script, reg *experiment.Registry, store *storage.Store, logger *log.Logger) ([]Outcome, error) {
	outcomes := make([]Outcome, 0, len(script.Steps))

	for i, step := range script.Steps {
		cfg, err := step.Resolve()
		if err != nil {
			return outcomes, fmt.Errorf("step %d: %w", i+1, err)
		}
		if logger != nil {
			logger.Info("running step", "step", i+1, "of", len(script.Steps), "scene", cfg.Name)
		}

		exp := experiment.New(cfg, logger)
		if err := exp.Setup(reg); err != nil {
			return outcomes, fmt.Errorf("step %d setup: %w", i+1, err)
		}

		result, err := exp.Run(ctx)
		if err != nil {
			return outcomes, fmt.Errorf("step %d run: %w", i+1, err)
		}

		out := Outcome{Step: step, Scene: cfg.Name, Result: result}
		if step.SaveAs != "" && store != nil {
			out.RunID, err = store.Save(RunInfo(cfg), result)
			if err != nil {
				return outcomes, fmt.Errorf("step %d save: %w", i+1, err)
			}
		}
		outcomes = append(outcomes, out)
	}

	return outcomes, nil
}

// RunInfo describes cfg for the store.
func RunInfo(cfg *config.Config) storage.RunInfo {
	return storage.RunInfo{
		Scene:      cfg.Name,
		Engine:     cfg.Engine,
		Integrator: cfg.Integrator,
		Dt:         cfg.Dt,
		Duration:   cfg.Duration,
	}
}

// MonteCarloConfig perturbs the start height of every movable mass.
type MonteCarloConfig struct {
	Base         *config.Config
	Perturbation float64
	NumTrials    int
	Seed         int64
	Parallel     int
}

// MonteCarloResult holds one trial.
type MonteCarloResult struct {
	TrialID int
	Offsets []float64
	// Stable is false if the run produced an error or a body ended up
	// moving faster than the velocity limit allows.
	Stable bool
	Drift  float64
}

// RunMonteCarlo runs the trials concurrently. The same seed gives the same
// offsets.
func RunMonteCarlo(ctx context.Context, cfg *MonteCarloConfig, reg *experiment.Registry) ([]MonteCarloResult, error) {
	rng := rand.New(rand.NewSource(cfg.Seed))

	offsets := make([][]float64, cfg.NumTrials)
	jobs := make([]sim.Job, cfg.NumTrials)
	for trial := range jobs {
		scene := cfg.Base.Clone()
		offsets[trial] = make([]float64, len(scene.Masses))
		for i := range scene.Masses {
			if !scene.Masses[i].IsMovable() {
				continue
			}
			d := (rng.Float64() - 0.5) * 2 * cfg.Perturbation
			offsets[trial][i] = d
			scene.Masses[i].Position[1] += d
		}

		jobs[trial] = func() (*sim.Simulator, error) {
			exp := experiment.New(scene, nil)
			if err := exp.Setup(reg); err != nil {
				return nil, err
			}
			return exp.GetSimulator(), nil
		}
	}

	results, err := sim.NewEnsemble(cfg.Parallel, jobs...).Run(ctx, sim.Config{
		Dt:            cfg.Base.Dt,
		Duration:      cfg.Base.Duration,
		SampleEvery:   max(1, int(0.1/cfg.Base.Dt)),
		ValidateState: true,
	})
	if err != nil {
		return nil, err
	}

	limit := cfg.Base.Context(nil).MaxVelocity
	out := make([]MonteCarloResult, len(results))
	for trial, r := range results {
		stable := len(r.Errors) == 0
		if final := r.Final(); final != nil {
			for _, m := range final.Masses {
				if m.Velocity.Len() > limit*(1+1e-9) {
					stable = false
				}
			}
		}
		out[trial] = MonteCarloResult{
			TrialID: trial,
			Offsets: offsets[trial],
			Stable:  stable,
			Drift:   r.VolumeDrift,
		}
	}
	return out, nil
}

// MonteCarloStats counts stable and unstable trials.
func MonteCarloStats(results []MonteCarloResult) (stableCount int, unstableCount int) {
	for _, r := range results {
		if r.Stable {
			stableCount++
		} else {
			unstableCount++
		}
	}
	return
}
