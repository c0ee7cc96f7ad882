package viz

import "github.com/charmbracelet/harmonica"

// springField smooths a set of displayed values toward their targets.
type springField struct {
	spring harmonica.Spring
	pos    []float64
	vel    []float64
	primed bool
}

func newSpringField(fps int, frequency, damping float64) springField {
	return springField{spring: harmonica.NewSpring(harmonica.FPS(fps), frequency, damping)}
}

func (s *springField) resize(n int) {
	if len(s.pos) == n {
		return
	}
	s.pos = make([]float64, n)
	s.vel = make([]float64, n)
	s.primed = false
}

// update moves every value one frame toward targets. The first frame after
// a resize or reset jumps straight to the targets.
func (s *springField) update(targets []float64) []float64 {
	s.resize(len(targets))
	if !s.primed {
		copy(s.pos, targets)
		clear(s.vel)
		s.primed = true
		return s.pos
	}
	for i, t := range targets {
		s.pos[i], s.vel[i] = s.spring.Update(s.pos[i], s.vel[i], t)
	}
	return s.pos
}

func (s *springField) reset() { s.primed = false }
