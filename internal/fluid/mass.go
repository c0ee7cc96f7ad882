package fluid

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/buoysim/internal/engine"
	"github.com/san-kum/buoysim/internal/shape"
)

// Forces are the separately tracked force components on a mass for the last
// tick. Contact is read back from the engine after it stepped; the others
// were applied before it stepped.
type Forces struct {
	Buoyancy mgl64.Vec3 `json:"buoyancy"`
	Gravity  mgl64.Vec3 `json:"gravity"`
	Viscous  mgl64.Vec3 `json:"viscous"`
	Contact  mgl64.Vec3 `json:"contact"`

	// Load is the weight of the fluid and floaters a boat carries. It is zero
	// for every other mass.
	Load mgl64.Vec3 `json:"load"`
}

// Applied is the force pushed into the engine.
func (f Forces) Applied() mgl64.Vec3 {
	return f.Buoyancy.Add(f.Gravity).Add(f.Viscous).Add(f.Load)
}

// Net includes the contact force.
func (f Forces) Net() mgl64.Vec3 {
	return f.Applied().Add(f.Contact)
}

// Mass is a floating or sinking body. Its position and velocity are owned by
// the engine; the fields here are the per-tick cache the step works from.
type Mass struct {
	id      string
	index   int
	shape   shape.Shape
	mass    float64
	movable bool
	visible bool
	body    engine.Handle

	// hull is the index of the boat basin this mass is the hull of, or -1.
	hull int

	bounds    shape.Bounds
	position  mgl64.Vec3
	velocity  mgl64.Vec3
	maxVolume float64
	basin     int
	submerged float64
	forces    Forces

	guard *guard
}

func (m *Mass) ID() string          { return m.id }
func (m *Mass) Index() int          { return m.index }
func (m *Mass) Shape() shape.Shape  { return m.shape }
func (m *Mass) MassValue() float64  { return m.mass }
func (m *Mass) Movable() bool       { return m.movable }
func (m *Mass) Visible() bool       { return m.visible }
func (m *Mass) IsBoat() bool        { return m.hull >= 0 }
func (m *Mass) Body() engine.Handle { return m.body }

// Volume is the fully submerged displacement.
func (m *Mass) Volume() float64 { return m.shape.MaxVolume() }

// Density is mass over volume; zero for a degenerate shape.
func (m *Mass) Density() float64 {
	v := m.Volume()
	if v <= 0 {
		return 0
	}
	return m.mass / v
}

// Bounds is the vertical extent used by the last tick.
func (m *Mass) Bounds() shape.Bounds {
	m.guard.check("mass.bounds", m.id)
	return m.bounds
}

func (m *Mass) Position() mgl64.Vec3 {
	m.guard.check("mass.position", m.id)
	return m.position
}

func (m *Mass) Velocity() mgl64.Vec3 {
	m.guard.check("mass.velocity", m.id)
	return m.velocity
}

func (m *Mass) Forces() Forces {
	m.guard.check("mass.forces", m.id)
	return m.forces
}

func (m *Mass) Buoyancy() mgl64.Vec3 { return m.Forces().Buoyancy }
func (m *Mass) Gravity() mgl64.Vec3  { return m.Forces().Gravity }
func (m *Mass) Viscous() mgl64.Vec3  { return m.Forces().Viscous }
func (m *Mass) Contact() mgl64.Vec3  { return m.Forces().Contact }

// Basin is the index of the containing basin, or -1.
func (m *Mass) Basin() int {
	m.guard.check("mass.basin", m.id)
	return m.basin
}

func (m *Mass) SubmergedVolume() float64 {
	m.guard.check("mass.submerged", m.id)
	return m.submerged
}

// SubmergedFraction is the submerged share of the body's volume in [0, 1].
func (m *Mass) SubmergedFraction() float64 {
	m.guard.check("mass.submerged_fraction", m.id)
	return m.fraction()
}

func (m *Mass) fraction() float64 {
	if m.maxVolume <= 0 {
		return 0
	}
	return math.Min(1, m.submerged/m.maxVolume)
}

func (m *Mass) displacedVolume(y float64) float64 {
	return m.shape.DisplacedVolume(m.bounds, y)
}

func (m *Mass) displacedArea(y float64) float64 {
	return m.shape.DisplacedArea(m.bounds, y)
}

// equivalentRadius is the radius of a sphere with the body's volume.
func (m *Mass) equivalentRadius() float64 {
	return math.Cbrt(3 * m.maxVolume / (4 * math.Pi))
}
