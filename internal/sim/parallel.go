package sim

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Job builds one independent run. Each job owns its own model so runs never
// share state.
type Job func() (*Simulator, error)

// Ensemble runs independent jobs concurrently, at most limit at a time.
type Ensemble struct {
	jobs  []Job
	limit int
}

func NewEnsemble(limit int, jobs ...Job) *Ensemble {
	return &Ensemble{jobs: jobs, limit: limit}
}

// Run returns results in job order. The first failing job cancels the rest.
func (e *Ensemble) Run(ctx context.Context, cfg Config) ([]*Result, error) {
	results := make([]*Result, len(e.jobs))

	g, ctx := errgroup.WithContext(ctx)
	if e.limit > 0 {
		g.SetLimit(e.limit)
	}
	for i, job := range e.jobs {
		g.Go(func() error {
			s, err := job()
			if err != nil {
				return err
			}
			r, err := s.Run(ctx, cfg)
			if err != nil {
				return err
			}
			results[i] = r
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
