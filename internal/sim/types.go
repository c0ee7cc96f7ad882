package sim

import (
	"fmt"

	"github.com/san-kum/buoysim/internal/fluid"
)

// Stepper advances a scene by one host frame. *fluid.Model satisfies it.
type Stepper interface {
	Step(dt float64) (*fluid.Snapshot, error)
	Snapshot() *fluid.Snapshot
}

type Metric interface {
	Name() string
	Observe(s *fluid.Snapshot)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(s *fluid.Snapshot)
}

type Config struct {
	Dt       float64
	Duration float64
	// SampleEvery keeps every n-th snapshot in the result; 0 or 1 keeps all.
	SampleEvery   int
	ValidateState bool
}

type Result struct {
	Snapshots  []*fluid.Snapshot
	Times      []float64
	Metrics    map[string]float64
	Errors     []error
	StepsTaken int
	// VolumeDrift is the relative change of held plus discarded fluid.
	VolumeDrift float64
}

// Final returns the last recorded snapshot.
func (r *Result) Final() *fluid.Snapshot {
	if len(r.Snapshots) == 0 {
		return nil
	}
	return r.Snapshots[len(r.Snapshots)-1]
}

type SimError struct {
	Time    float64
	Step    int
	Message string
}

func (e SimError) Error() string {
	return fmt.Sprintf("simulation error at t=%.4f (step %d): %s", e.Time, e.Step, e.Message)
}
