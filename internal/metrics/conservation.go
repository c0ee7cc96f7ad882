package metrics

import (
	"math"

	"github.com/san-kum/buoysim/internal/fluid"
)

// VolumeDrift is the largest relative change of held plus discarded fluid
// seen during a run. Transfers between a boat and its pool must not move it.
type VolumeDrift struct {
	name     string
	initial  float64
	maxDrift float64
	samples  int
}

func NewVolumeDrift() *VolumeDrift {
	return &VolumeDrift{name: "volume_drift"}
}

func (v *VolumeDrift) Name() string { return v.name }

func (v *VolumeDrift) Observe(s *fluid.Snapshot) {
	total := s.TotalVolume() + s.Discarded
	if v.samples == 0 {
		v.initial = total
	}
	v.samples++

	if v.initial != 0 {
		drift := math.Abs(total-v.initial) / math.Abs(v.initial)
		v.maxDrift = math.Max(v.maxDrift, drift)
	}
}

func (v *VolumeDrift) Value() float64 { return v.maxDrift }

func (v *VolumeDrift) Reset() {
	v.initial = 0
	v.maxDrift = 0
	v.samples = 0
}

// Overflow reports the pool volume discarded by the end of the run.
type Overflow struct {
	name      string
	discarded float64
}

func NewOverflow() *Overflow {
	return &Overflow{name: "overflow"}
}

func (o *Overflow) Name() string { return o.name }

func (o *Overflow) Observe(s *fluid.Snapshot) { o.discarded = s.Discarded }

func (o *Overflow) Value() float64 { return o.discarded }

func (o *Overflow) Reset() { o.discarded = 0 }
