package fluid

import (
	"github.com/charmbracelet/log"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/buoysim/internal/mathx"
)

// guard brackets a step. Reads through the exported accessors while it is
// locked are a usage bug; they are only detected in debug mode and never
// blocked.
type guard struct {
	locked     bool
	debug      bool
	violations int
	log        *log.Logger
}

func (g *guard) lock()   { g.locked = true }
func (g *guard) unlock() { g.locked = false }

func (g *guard) check(what, id string) {
	if g == nil || !g.locked || !g.debug {
		return
	}
	g.violations++
	g.log.Warn("read during step", "field", what, "id", id)
}

// MassState is the observable state of one mass after a tick.
type MassState struct {
	ID                string     `json:"id"`
	Position          mgl64.Vec3 `json:"position"`
	Velocity          mgl64.Vec3 `json:"velocity"`
	Forces            Forces     `json:"forces"`
	Submerged         float64    `json:"submerged"`
	SubmergedFraction float64    `json:"submerged_fraction"`
	Basin             string     `json:"basin,omitempty"`
}

// BasinState is the observable state of one basin after a tick.
type BasinState struct {
	ID           string    `json:"id"`
	Kind         BasinKind `json:"kind"`
	Height       float64   `json:"height"`
	Volume       float64   `json:"volume"`
	FilledVolume float64   `json:"filled_volume"`
	Overflow     float64   `json:"overflow"`
	Regime       Regime    `json:"regime"`
	Members      int       `json:"members"`
}

// Snapshot is a value copy of everything a view needs after a tick.
type Snapshot struct {
	Tick      int          `json:"tick"`
	Time      float64      `json:"time"`
	Masses    []MassState  `json:"masses"`
	Basins    []BasinState `json:"basins"`
	Discarded float64      `json:"discarded"`
}

// TotalVolume is the fluid held by all basins.
func (s *Snapshot) TotalVolume() float64 {
	var v float64
	for _, b := range s.Basins {
		v += b.Volume
	}
	return v
}

func (s *Snapshot) Mass(id string) (MassState, bool) {
	for _, m := range s.Masses {
		if m.ID == id {
			return m, true
		}
	}
	return MassState{}, false
}

func (s *Snapshot) Basin(id string) (BasinState, bool) {
	for _, b := range s.Basins {
		if b.ID == id {
			return b, true
		}
	}
	return BasinState{}, false
}

// Finite reports whether every number in the snapshot is finite.
func (s *Snapshot) Finite() bool {
	vec := func(v mgl64.Vec3) bool {
		return mathx.Finite(v[0]) && mathx.Finite(v[1]) && mathx.Finite(v[2])
	}
	for _, m := range s.Masses {
		f := m.Forces
		if !vec(m.Position) || !vec(m.Velocity) || !vec(f.Buoyancy) || !vec(f.Gravity) ||
			!vec(f.Viscous) || !vec(f.Contact) || !vec(f.Load) || !mathx.Finite(m.Submerged) {
			return false
		}
	}
	for _, b := range s.Basins {
		if !mathx.Finite(b.Height) || !mathx.Finite(b.Volume) {
			return false
		}
	}
	return true
}

// Interpolate blends two snapshots of the same model. Continuous quantities
// are blended by t; discrete ones come from b.
func Interpolate(a, b *Snapshot, t float64) *Snapshot {
	if a == nil || len(a.Masses) != len(b.Masses) || len(a.Basins) != len(b.Basins) {
		return b
	}
	t = mathx.Clamp01(t)
	lerp := func(x, y mgl64.Vec3) mgl64.Vec3 { return x.Add(y.Sub(x).Mul(t)) }

	out := &Snapshot{
		Tick:      b.Tick,
		Time:      mathx.Lerp(a.Time, b.Time, t),
		Masses:    make([]MassState, len(b.Masses)),
		Basins:    make([]BasinState, len(b.Basins)),
		Discarded: b.Discarded,
	}
	for i := range b.Masses {
		ma, mb := a.Masses[i], b.Masses[i]
		mb.Position = lerp(ma.Position, mb.Position)
		mb.Velocity = lerp(ma.Velocity, mb.Velocity)
		mb.Forces = Forces{
			Buoyancy: lerp(ma.Forces.Buoyancy, mb.Forces.Buoyancy),
			Gravity:  lerp(ma.Forces.Gravity, mb.Forces.Gravity),
			Viscous:  lerp(ma.Forces.Viscous, mb.Forces.Viscous),
			Contact:  lerp(ma.Forces.Contact, mb.Forces.Contact),
			Load:     lerp(ma.Forces.Load, mb.Forces.Load),
		}
		mb.Submerged = mathx.Lerp(ma.Submerged, mb.Submerged, t)
		mb.SubmergedFraction = mathx.Lerp(ma.SubmergedFraction, mb.SubmergedFraction, t)
		out.Masses[i] = mb
	}
	for i := range b.Basins {
		ba, bb := a.Basins[i], b.Basins[i]
		bb.Height = mathx.Lerp(ba.Height, bb.Height, t)
		bb.Volume = mathx.Lerp(ba.Volume, bb.Volume, t)
		bb.FilledVolume = mathx.Lerp(ba.FilledVolume, bb.FilledVolume, t)
		out.Basins[i] = bb
	}
	return out
}
