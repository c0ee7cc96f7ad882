package metrics

import (
	"github.com/san-kum/buoysim/internal/fluid"
)

// Submersion averages the submerged fraction of one mass over the trailing
// window of ticks, which damps the oscillation around equilibrium.
type Submersion struct {
	name   string
	id     string
	window int
	ring   []float64
	next   int
}

func NewSubmersion(id string, window int) *Submersion {
	return &Submersion{
		name:   "submersion_" + id,
		id:     id,
		window: max(window, 1),
	}
}

func (s *Submersion) Name() string { return s.name }

func (s *Submersion) Observe(snap *fluid.Snapshot) {
	m, ok := snap.Mass(s.id)
	if !ok {
		return
	}
	if len(s.ring) < s.window {
		s.ring = append(s.ring, m.SubmergedFraction)
		return
	}
	s.ring[s.next] = m.SubmergedFraction
	s.next = (s.next + 1) % s.window
}

func (s *Submersion) Value() float64 {
	if len(s.ring) == 0 {
		return 0
	}
	var sum float64
	for _, f := range s.ring {
		sum += f
	}
	return sum / float64(len(s.ring))
}

func (s *Submersion) Reset() {
	s.ring = s.ring[:0]
	s.next = 0
}

// Settling is the time after which a mass stayed slower than threshold for
// the rest of the run. It is -1 if the mass was still moving at the end.
type Settling struct {
	name      string
	id        string
	threshold float64
	since     float64
	settled   bool
}

func NewSettling(id string, threshold float64) *Settling {
	return &Settling{
		name:      "settling_" + id,
		id:        id,
		threshold: threshold,
	}
}

func (s *Settling) Name() string { return s.name }

func (s *Settling) Observe(snap *fluid.Snapshot) {
	m, ok := snap.Mass(s.id)
	if !ok {
		return
	}
	if m.Velocity.Len() > s.threshold {
		s.settled = false
		return
	}
	if !s.settled {
		s.settled = true
		s.since = snap.Time
	}
}

func (s *Settling) Value() float64 {
	if !s.settled {
		return -1
	}
	return s.since
}

func (s *Settling) Reset() {
	s.since = 0
	s.settled = false
}
