package fluid

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/buoysim/internal/engine"
	"github.com/san-kum/buoysim/internal/mathx"
	"github.com/san-kum/buoysim/internal/shape"
)

// PoolSpec is an open box of fluid. Volume may exceed what fits; the excess
// is discarded on the first tick.
type PoolSpec struct {
	ID     string
	Min    mgl64.Vec3
	Max    mgl64.Vec3
	Volume float64
}

// BoatSpec is a hollow hull floating in Pool. Its hold starts with Volume.
type BoatSpec struct {
	ID        string
	Pool      string
	Width     float64
	Height    float64
	Depth     float64
	Thickness float64
	Mass      float64
	Position  mgl64.Vec3
	Volume    float64
	Movable   bool
}

// Hull is the outer displacing shape of the boat.
func (b BoatSpec) Hull() shape.Shape {
	return shape.NewBoatHull(b.Width, b.Height, b.Depth)
}

// Interior is the shape of the hold inside the walls and keel.
func (b BoatSpec) Interior() shape.Shape {
	t := b.Thickness
	return shape.NewBoatHull(b.Width-2*t, b.Height-t, b.Depth-2*t)
}

// MassSpec is a solid body. Hidden masses take no part in the step.
type MassSpec struct {
	ID       string
	Shape    shape.Shape
	Mass     float64
	Position mgl64.Vec3
	Velocity mgl64.Vec3
	Movable  bool
	Hidden   bool
}

// Scene is everything NewModel needs besides the context and engine.
type Scene struct {
	Pools  []PoolSpec
	Boats  []BoatSpec
	Masses []MassSpec
}

// Validate checks the scene without touching an engine.
func (s Scene) Validate() error {
	seen := make(map[string]bool)
	unique := func(kind, id string) error {
		if id == "" {
			return setupErr(kind, id, fmt.Errorf("%w: empty id", ErrDuplicateID))
		}
		if seen[id] {
			return setupErr(kind, id, ErrDuplicateID)
		}
		seen[id] = true
		return nil
	}

	pools := make(map[string]bool)
	for _, p := range s.Pools {
		if err := unique("pool", p.ID); err != nil {
			return err
		}
		pools[p.ID] = true
		for k := 0; k < 3; k++ {
			if !mathx.Finite(p.Min[k]) || !mathx.Finite(p.Max[k]) || p.Min[k] >= p.Max[k] {
				return setupErr("pool", p.ID, fmt.Errorf("%w: %v > %v", ErrInvalidBasin, p.Min, p.Max))
			}
		}
		if !mathx.Finite(p.Volume) || p.Volume < 0 {
			return setupErr("pool", p.ID, fmt.Errorf("%w: %g", ErrInvalidVolume, p.Volume))
		}
	}

	boats := make(map[string]bool)
	children := make(map[string]string)
	for _, b := range s.Boats {
		if err := unique("boat", b.ID); err != nil {
			return err
		}
		boats[b.ID] = true
	}
	for _, b := range s.Boats {
		switch {
		case b.Pool == b.ID:
			return setupErr("boat", b.ID, ErrSelfChild)
		case boats[b.Pool]:
			return setupErr("boat", b.ID, fmt.Errorf("%w: boat %q inside boat %q", ErrNestingDepth, b.ID, b.Pool))
		case !pools[b.Pool]:
			return setupErr("boat", b.ID, fmt.Errorf("%w: %q", ErrUnknownBasin, b.Pool))
		}
		if other, ok := children[b.Pool]; ok {
			return setupErr("boat", b.ID, fmt.Errorf("%w: pool %q already holds %q", ErrNestingDepth, b.Pool, other))
		}
		children[b.Pool] = b.ID

		if err := b.Hull().Validate(); err != nil {
			return setupErr("boat", b.ID, err)
		}
		if b.Thickness <= 0 || 2*b.Thickness >= b.Width || 2*b.Thickness >= b.Depth || b.Thickness >= b.Height {
			return setupErr("boat", b.ID, fmt.Errorf("%w: thickness %g", shape.ErrInvalidDimensions, b.Thickness))
		}
		if !mathx.Finite(b.Mass) || b.Mass <= 0 {
			return setupErr("boat", b.ID, fmt.Errorf("%w: %g", ErrInvalidMass, b.Mass))
		}
		if !mathx.Finite(b.Volume) || b.Volume < 0 {
			return setupErr("boat", b.ID, fmt.Errorf("%w: %g", ErrInvalidVolume, b.Volume))
		}
	}

	for _, m := range s.Masses {
		if err := unique("mass", m.ID); err != nil {
			return err
		}
		if err := m.Shape.Validate(); err != nil {
			return setupErr("mass", m.ID, err)
		}
		if !mathx.Finite(m.Mass) || m.Mass <= 0 {
			return setupErr("mass", m.ID, fmt.Errorf("%w: %g", ErrInvalidMass, m.Mass))
		}
	}
	return nil
}

// NewModel validates the context and scene, creates every engine body and
// solves the initial surface heights. Configuration errors are returned as
// *SetupError.
func NewModel(ctx Context, eng engine.Engine, scene Scene) (*Model, error) {
	if err := ctx.Validate(); err != nil {
		return nil, setupErr("context", "", err)
	}
	if err := scene.Validate(); err != nil {
		return nil, err
	}

	lg := ctx.logger()
	m := &Model{
		ctx:   ctx,
		eng:   eng,
		log:   lg,
		guard: &guard{debug: ctx.Debug, log: lg},
	}

	poolIndex := make(map[string]int)
	for _, p := range scene.Pools {
		b := &Basin{
			id:     p.ID,
			index:  len(m.basins),
			kind:   Pool,
			parent: -1,
			child:  -1,
			hull:   -1,
			min:    p.Min,
			max:    p.Max,
			bounds: shape.Bounds{Bottom: p.Min.Y(), Top: p.Max.Y()},
			volume: p.Volume,
			guard:  m.guard,
		}
		h, err := eng.CreateBody(containerDescriptor(p.Min, p.Max), true)
		if err != nil {
			return nil, setupErr("pool", p.ID, err)
		}
		m.containers = append(m.containers, h)
		poolIndex[p.ID] = b.index
		m.basins = append(m.basins, b)
	}

	for _, bs := range scene.Boats {
		pool := m.basins[poolIndex[bs.Pool]]
		hold := &Basin{
			id:        bs.ID,
			index:     len(m.basins),
			kind:      Hold,
			parent:    pool.index,
			child:     -1,
			thickness: bs.Thickness,
			interior:  bs.Interior(),
			volume:    bs.Volume,
			guard:     m.guard,
		}
		pool.child = hold.index
		m.basins = append(m.basins, hold)

		hull, err := m.addMass(MassSpec{
			ID:       bs.ID,
			Shape:    bs.Hull(),
			Mass:     bs.Mass,
			Position: bs.Position,
			Movable:  bs.Movable,
		}, hullDescriptor(bs.Hull(), bs.Thickness, bs.Mass), hold.index)
		if err != nil {
			return nil, setupErr("boat", bs.ID, err)
		}
		hold.hull = hull.index
	}

	for _, ms := range scene.Masses {
		if _, err := m.addMass(ms, massDescriptor(ms.Shape, ms.Mass), -1); err != nil {
			return nil, setupErr("mass", ms.ID, err)
		}
	}

	// Probe holds before pools; solve pools before holds.
	for _, b := range m.basins {
		if b.kind == Hold {
			m.probeOrder = append(m.probeOrder, b.index)
		} else {
			m.solveOrder = append(m.solveOrder, b.index)
		}
	}
	for _, b := range m.basins {
		if b.kind == Hold {
			m.solveOrder = append(m.solveOrder, b.index)
		} else {
			m.probeOrder = append(m.probeOrder, b.index)
		}
	}

	m.refresh()
	m.assign()
	m.computeHeights()
	m.submerge()
	m.curr = m.snapshot()
	return m, nil
}

func (m *Model) addMass(ms MassSpec, desc engine.BodyDescriptor, hull int) (*Mass, error) {
	mass := &Mass{
		id:       ms.ID,
		index:    len(m.masses),
		shape:    ms.Shape,
		mass:     ms.Mass,
		movable:  ms.Movable,
		visible:  !ms.Hidden,
		body:     -1,
		hull:     hull,
		position: ms.Position,
		velocity: ms.Velocity,
		basin:    -1,
		guard:    m.guard,
	}
	if mass.visible {
		h, err := m.eng.CreateBody(desc, !ms.Movable)
		if err != nil {
			return nil, err
		}
		m.eng.SetPosition(h, ms.Position)
		m.eng.SetVelocity(h, ms.Velocity)
		mass.body = h
	}
	mass.bounds = mass.shape.BoundsAt(ms.Position.Y())
	mass.maxVolume = mass.shape.MaxVolume()
	m.masses = append(m.masses, mass)
	return mass, nil
}

func massDescriptor(s shape.Shape, kg float64) engine.BodyDescriptor {
	return engine.BoxDescriptor(kg, mgl64.Vec3{s.Width, s.Height, s.Depth})
}

// hullDescriptor is a keel slab with a wall on either side; the hold between
// them is open at the top.
func hullDescriptor(s shape.Shape, thickness, kg float64) engine.BodyDescriptor {
	w, h, d, t := s.Width, s.Height, s.Depth, thickness
	wallY := t / 2
	return engine.BodyDescriptor{
		Mass: kg,
		Parts: []engine.Part{
			{Center: mgl64.Vec3{0, -h/2 + t/2, 0}, Size: mgl64.Vec3{w, t, d}},
			{Center: mgl64.Vec3{-w/2 + t/2, wallY, 0}, Size: mgl64.Vec3{t, h - t, d}},
			{Center: mgl64.Vec3{w/2 - t/2, wallY, 0}, Size: mgl64.Vec3{t, h - t, d}},
		},
	}
}

// containerDescriptor builds the floor and side walls of a pool in world
// coordinates. The walls rise half a pool height above the rim so that
// bodies riding the surface stay inside.
func containerDescriptor(lo, hi mgl64.Vec3) engine.BodyDescriptor {
	size := hi.Sub(lo)
	t := 0.25 * size.X()
	cx, cz := (lo.X()+hi.X())/2, (lo.Z()+hi.Z())/2
	depth := size.Z() + 2*t
	wallBottom, wallTop := lo.Y()-t, hi.Y()+size.Y()/2
	wallH := wallTop - wallBottom
	wallY := (wallTop + wallBottom) / 2
	return engine.BodyDescriptor{
		Parts: []engine.Part{
			{Center: mgl64.Vec3{cx, lo.Y() - t/2, cz}, Size: mgl64.Vec3{size.X() + 2*t, t, depth}},
			{Center: mgl64.Vec3{lo.X() - t/2, wallY, cz}, Size: mgl64.Vec3{t, wallH, depth}},
			{Center: mgl64.Vec3{hi.X() + t/2, wallY, cz}, Size: mgl64.Vec3{t, wallH, depth}},
		},
	}
}
