package fluid

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/buoysim/internal/engine"
	"github.com/san-kum/buoysim/internal/mathx"
	"github.com/san-kum/buoysim/internal/shape"
	"github.com/san-kum/buoysim/internal/solver"
)

// Model is the buoyancy simulation of one scene on one engine.
type Model struct {
	ctx Context
	eng engine.Engine
	log *log.Logger

	masses     []*Mass
	basins     []*Basin
	containers []engine.Handle

	// probeOrder lists holds before pools, solveOrder pools before holds.
	probeOrder []int
	solveOrder []int

	tick      int
	time      float64
	discarded float64

	guard      *guard
	prev, curr *Snapshot
}

// Step advances the model by dt and returns the new snapshot. It only fails
// on a non-positive or non-finite dt; physical edge cases are clamped.
func (m *Model) Step(dt float64) (*Snapshot, error) {
	if !mathx.Finite(dt) || dt <= 0 {
		return nil, fmt.Errorf("%w: %g", ErrInvalidTimeStep, dt)
	}
	if m.guard.locked {
		return nil, ErrStepInProgress
	}
	m.guard.lock()

	m.refresh()
	m.assign()
	m.transfer()
	m.clampOverflow()
	m.computeHeights()
	m.submerge()
	m.applyForces(dt)
	m.eng.Step(dt)
	m.readBack(dt)

	m.tick++
	m.time += dt
	m.guard.unlock()

	m.prev, m.curr = m.curr, m.snapshot()
	return m.curr, nil
}

func (m *Model) refresh() {
	for _, ms := range m.masses {
		if !ms.visible {
			continue
		}
		p := m.eng.Position(ms.body)
		if !finiteVec(p) {
			m.assert("non-finite position from engine", "mass", ms.id)
			p = ms.position
			m.eng.SetPosition(ms.body, p)
		}
		v := m.eng.Velocity(ms.body)
		if !finiteVec(v) {
			m.assert("non-finite velocity from engine", "mass", ms.id)
			v = mgl64.Vec3{}
			m.eng.SetVelocity(ms.body, v)
		}
		ms.position, ms.velocity = p, v
		ms.bounds = ms.shape.BoundsAt(p.Y())
		ms.maxVolume = ms.shape.MaxVolume()
	}
	for _, b := range m.basins {
		if b.kind != Hold {
			continue
		}
		hull := m.masses[b.hull]
		b.bounds = shape.Bounds{Bottom: hull.bounds.Bottom + b.thickness, Top: hull.bounds.Top}
	}
}

// assign gives every visible mass its innermost containing basin. A hull
// only probes its own pool.
func (m *Model) assign() {
	for _, b := range m.basins {
		b.members = b.members[:0]
	}
	for _, ms := range m.masses {
		ms.basin = -1
		if !ms.visible {
			continue
		}
		for _, i := range m.probeOrder {
			b := m.basins[i]
			if ms.hull >= 0 && (b.kind == Hold || b.index != m.basins[ms.hull].parent) {
				continue
			}
			if b.contains(ms, m.masses, m.ctx.Slip) {
				ms.basin = i
				b.members = append(b.members, ms.index)
				break
			}
		}
	}
}

// clampOverflow discards pool fluid above the rim.
func (m *Model) clampOverflow() {
	for _, b := range m.basins {
		if !mathx.Finite(b.volume) || b.volume < 0 {
			m.assert("invalid basin volume", "basin", b.id, "volume", b.volume)
			b.volume = 0
		}
		if b.kind != Pool {
			continue
		}
		b.overflow = 0
		b.regime = Steady
		rim := b.emptyVolume(m.masses, b.bounds.Top)
		if b.volume > rim {
			b.overflow = b.volume - rim
			b.volume = rim
			b.regime = Overflowing
			m.discarded += b.overflow
		}
	}
}

func (m *Model) computeHeights() {
	for _, i := range m.solveOrder {
		b := m.basins[i]
		b.height = m.ComputeHeight(b)
		b.filled = b.volume + b.displacedBelow(m.masses, b.height)
	}
}

// ComputeHeight solves emptyVolume(y) = volume for the basin's current
// members and volume. It does not modify the model.
func (m *Model) ComputeHeight(b *Basin) float64 {
	lo, hi := b.bounds.Bottom, b.bounds.Top
	if b.volume <= 0 {
		return lo
	}
	if b.volume >= b.emptyVolume(m.masses, hi) {
		return hi
	}
	res, err := solver.FindRoot(lo, hi,
		func(y float64) float64 { return b.emptyVolume(m.masses, y) - b.volume },
		func(y float64) float64 { return b.emptyArea(m.masses, y) },
		m.ctx.Solver)
	if err != nil {
		m.assert("height solver did not converge", "basin", b.id, "residual", res.Residual, "iterations", res.Iterations)
	}
	return res.Y
}

// EmptyVolume is the fluid the basin can hold below y with its current
// members.
func (m *Model) EmptyVolume(b *Basin, y float64) float64 {
	return b.emptyVolume(m.masses, y)
}

func (m *Model) readBack(dt float64) {
	g := m.ctx.Gravity
	for _, ms := range m.masses {
		if !ms.visible {
			continue
		}
		c := m.eng.ContactForce(ms.body)
		if !finiteVec(c) {
			m.assert("non-finite contact force", "mass", ms.id)
			c = mgl64.Vec3{}
		}
		ms.forces.Contact = c
		m.eng.ResetContactForce(ms.body)

		before := ms.velocity
		if p := m.eng.Position(ms.body); finiteVec(p) {
			ms.position = p
		}
		if v := m.eng.Velocity(ms.body); finiteVec(v) {
			ms.velocity = v
		}
		if ms.hull >= 0 {
			a := (ms.velocity.Y() - before.Y()) / dt
			m.basins[ms.hull].accel = mathx.Clamp(mathx.FiniteOr(a, 0), -g, g)
		}
	}
}

func (m *Model) snapshot() *Snapshot {
	s := &Snapshot{
		Tick:      m.tick,
		Time:      m.time,
		Masses:    make([]MassState, len(m.masses)),
		Basins:    make([]BasinState, len(m.basins)),
		Discarded: m.discarded,
	}
	for i, ms := range m.masses {
		st := MassState{
			ID:                ms.id,
			Position:          ms.position,
			Velocity:          ms.velocity,
			Forces:            ms.forces,
			Submerged:         ms.submerged,
			SubmergedFraction: ms.fraction(),
		}
		if ms.basin >= 0 {
			st.Basin = m.basins[ms.basin].id
		}
		s.Masses[i] = st
	}
	for i, b := range m.basins {
		s.Basins[i] = BasinState{
			ID:           b.id,
			Kind:         b.kind,
			Height:       b.height,
			Volume:       b.volume,
			FilledVolume: b.filled,
			Overflow:     b.overflow,
			Regime:       b.regime,
			Members:      len(b.members),
		}
	}
	return s
}

func (m *Model) assert(msg string, keyvals ...any) {
	if m.ctx.Debug {
		m.log.Debug(msg, keyvals...)
	}
}

func finiteVec(v mgl64.Vec3) bool {
	return mathx.Finite(v[0]) && mathx.Finite(v[1]) && mathx.Finite(v[2])
}
