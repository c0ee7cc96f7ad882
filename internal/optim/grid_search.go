package optim

import (
	"context"
	"math"
	"runtime"

	"github.com/charmbracelet/log"

	"github.com/san-kum/buoysim/internal/config"
	"github.com/san-kum/buoysim/internal/experiment"
	"github.com/san-kum/buoysim/internal/sim"
)

type GridSearch struct {
	paramNames []string
	ranges     [][]float64
	// Parallel bounds concurrent runs; 0 uses GOMAXPROCS.
	Parallel int
	Logger   *log.Logger
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges}
}

// Point is one evaluated parameter combination.
type Point struct {
	Params  map[string]float64
	Metrics map[string]float64
	Result  *sim.Result
}

// Evaluate runs every combination of the parameter ranges on top of base.
// Each combination gets its own model, so runs proceed concurrently.
func (g *GridSearch) Evaluate(ctx context.Context, reg *experiment.Registry, base *config.Config) ([]Point, error) {
	var combos []map[string]float64
	g.combine(0, map[string]float64{}, &combos)

	jobs := make([]sim.Job, len(combos))
	for i, params := range combos {
		jobs[i] = func() (*sim.Simulator, error) {
			cfg, err := Apply(base, params)
			if err != nil {
				return nil, err
			}
			exp := experiment.New(cfg, g.Logger)
			if err := exp.Setup(reg); err != nil {
				return nil, err
			}
			return exp.GetSimulator(), nil
		}
	}

	limit := g.Parallel
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}
	results, err := sim.NewEnsemble(limit, jobs...).Run(ctx, sim.Config{
		Dt:            base.Dt,
		Duration:      base.Duration,
		SampleEvery:   max(1, int(0.1/base.Dt)),
		ValidateState: true,
	})
	if err != nil {
		return nil, err
	}

	points := make([]Point, len(combos))
	for i, r := range results {
		points[i] = Point{Params: combos[i], Metrics: r.Metrics, Result: r}
	}
	return points, nil
}

// Search returns the combination with the smallest value of metricName.
func (g *GridSearch) Search(ctx context.Context, reg *experiment.Registry, base *config.Config, metricName string) (map[string]float64, float64, error) {
	points, err := g.Evaluate(ctx, reg, base)
	if err != nil {
		return nil, 0, err
	}

	best := math.Inf(1)
	var bestParams map[string]float64
	for _, p := range points {
		val, ok := p.Metrics[metricName]
		if !ok || math.IsNaN(val) {
			continue
		}
		if val < best {
			best = val
			bestParams = p.Params
		}
	}
	return bestParams, best, nil
}

func (g *GridSearch) combine(depth int, current map[string]float64, out *[]map[string]float64) {
	if depth == len(g.paramNames) {
		params := make(map[string]float64, len(current))
		for k, v := range current {
			params[k] = v
		}
		*out = append(*out, params)
		return
	}

	name := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		current[name] = val
		g.combine(depth+1, current, out)
	}
	delete(current, name)
}
