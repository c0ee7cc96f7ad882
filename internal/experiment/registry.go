package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/buoysim/internal/config"
	"github.com/san-kum/buoysim/internal/engine"
	"github.com/san-kum/buoysim/internal/engine/chipmunk"
	"github.com/san-kum/buoysim/internal/fluid"
	"github.com/san-kum/buoysim/internal/integrators"
	"github.com/san-kum/buoysim/internal/metrics"
	"github.com/san-kum/buoysim/internal/sim"
)

// EngineFactory builds a fresh rigid-body engine. Engines that bring their
// own solver ignore the integrator name.
type EngineFactory func(integrator string, timing engine.Timing) (engine.Engine, error)

const (
	settleSpeed      = 0.01
	submersionWindow = 60
)

type Registry struct {
	engines map[string]EngineFactory
}

func NewRegistry() *Registry {
	r := &Registry{
		engines: make(map[string]EngineFactory),
	}

	r.engines["simple"] = func(integrator string, timing engine.Timing) (engine.Engine, error) {
		return engine.NewSimple(integrator, timing)
	}
	r.engines["chipmunk"] = func(_ string, timing engine.Timing) (engine.Engine, error) {
		return chipmunk.New(timing), nil
	}

	return r
}

// Register adds or replaces an engine.
func (r *Registry) Register(name string, fn EngineFactory) {
	r.engines[name] = fn
}

func (r *Registry) GetEngine(name, integrator string, timing engine.Timing) (engine.Engine, error) {
	if name == "" {
		name = config.DefaultEngine
	}
	fn, ok := r.engines[name]
	if !ok {
		return nil, fmt.Errorf("unknown engine: %s", name)
	}
	return fn(integrator, timing)
}

func (r *Registry) ListEngines() []string {
	names := make([]string, 0, len(r.engines))
	for name := range r.engines {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) ListIntegrators() []string { return integrators.Names() }

// DefaultMetrics tracks conservation and overflow for the whole scene plus
// submersion and settling for every visible body that is not a hull.
func (r *Registry) DefaultMetrics(model *fluid.Model) []sim.Metric {
	ms := []sim.Metric{
		metrics.NewVolumeDrift(),
		metrics.NewOverflow(),
		metrics.NewStability(model.Context().MaxVelocity),
	}
	for _, m := range model.Masses() {
		if !m.Visible() || m.IsBoat() {
			continue
		}
		ms = append(ms,
			metrics.NewSubmersion(m.ID(), submersionWindow),
			metrics.NewSettling(m.ID(), settleSpeed),
		)
	}
	return ms
}
