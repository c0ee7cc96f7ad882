package fluid

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/buoysim/internal/mathx"
	"github.com/san-kum/buoysim/internal/shape"
)

type BasinKind int

const (
	// Pool is a fixed open box.
	Pool BasinKind = iota
	// Hold is the cavity of a boat floating in a pool.
	Hold
)

func (k BasinKind) String() string {
	if k == Hold {
		return "hold"
	}
	return "pool"
}

func (k BasinKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// Regime is the fluid exchange a basin saw in the last tick.
type Regime int

const (
	Steady Regime = iota
	Filling
	Spilling
	Overflowing
)

var regimeNames = [...]string{"steady", "filling", "spilling", "overflowing"}

func (r Regime) String() string {
	if r < 0 || int(r) >= len(regimeNames) {
		return "unknown"
	}
	return regimeNames[r]
}

func (r Regime) MarshalText() ([]byte, error) { return []byte(r.String()), nil }

// Basin holds fluid. A pool may have one child hold; a hold always has a
// parent pool and a hull mass whose motion it follows.
type Basin struct {
	id     string
	index  int
	kind   BasinKind
	parent int
	child  int

	// pool geometry
	min, max mgl64.Vec3

	// hold geometry
	hull      int
	thickness float64
	interior  shape.Shape

	bounds   shape.Bounds
	volume   float64
	height   float64
	filled   float64
	members  []int
	regime   Regime
	overflow float64
	accel    float64

	guard *guard
}

func (b *Basin) ID() string      { return b.id }
func (b *Basin) Index() int      { return b.index }
func (b *Basin) Kind() BasinKind { return b.kind }

// Parent is the index of the enclosing pool, or -1.
func (b *Basin) Parent() int { return b.parent }

// Child is the index of the nested hold, or -1.
func (b *Basin) Child() int { return b.child }

// Hull is the mass index of a hold's boat, or -1 for pools.
func (b *Basin) Hull() int { return b.hull }

// Box is the fixed extent of a pool; zero for holds.
func (b *Basin) Box() (mgl64.Vec3, mgl64.Vec3) { return b.min, b.max }

// Interior is the cavity shape of a hold.
func (b *Basin) Interior() shape.Shape { return b.interior }

// Height is the fluid surface level.
func (b *Basin) Height() float64 {
	b.guard.check("basin.height", b.id)
	return b.height
}

// Volume is the fluid volume held.
func (b *Basin) Volume() float64 {
	b.guard.check("basin.volume", b.id)
	return b.volume
}

// FilledVolume is everything below the surface: fluid plus the volume its
// members displace there.
func (b *Basin) FilledVolume() float64 {
	b.guard.check("basin.filled", b.id)
	return b.filled
}

// Overflow is the volume that left the basin over its rim last tick.
func (b *Basin) Overflow() float64 {
	b.guard.check("basin.overflow", b.id)
	return b.overflow
}

func (b *Basin) Regime() Regime {
	b.guard.check("basin.regime", b.id)
	return b.regime
}

func (b *Basin) Bounds() shape.Bounds {
	b.guard.check("basin.bounds", b.id)
	return b.bounds
}

// Acceleration is the vertical acceleration of a hold's boat.
func (b *Basin) Acceleration() float64 {
	b.guard.check("basin.acceleration", b.id)
	return b.accel
}

// Members lists the indices of masses inside the basin.
func (b *Basin) Members() []int {
	b.guard.check("basin.members", b.id)
	return append([]int(nil), b.members...)
}

func (b *Basin) footprint() float64 {
	return (b.max.X() - b.min.X()) * (b.max.Z() - b.min.Z())
}

func (b *Basin) capacityVolume(y float64) float64 {
	if b.kind == Hold {
		return b.interior.DisplacedVolume(b.bounds, y)
	}
	d := mathx.Clamp(y-b.bounds.Bottom, 0, b.bounds.Top-b.bounds.Bottom)
	return b.footprint() * d
}

func (b *Basin) capacityArea(y float64) float64 {
	if b.kind == Hold {
		return b.interior.DisplacedArea(b.bounds, y)
	}
	if y < b.bounds.Bottom || y > b.bounds.Top {
		return 0
	}
	return b.footprint()
}

// emptyVolume is the capacity below y minus what the members displace there.
// A boat hull is a member of its pool, so the pool subtracts the hull's
// outer displacement and never sees the hold's fluid.
func (b *Basin) emptyVolume(masses []*Mass, y float64) float64 {
	v := b.capacityVolume(y)
	for _, i := range b.members {
		v -= masses[i].displacedVolume(y)
	}
	return mathx.NonNegative(v)
}

func (b *Basin) emptyArea(masses []*Mass, y float64) float64 {
	a := b.capacityArea(y)
	for _, i := range b.members {
		a -= masses[i].displacedArea(y)
	}
	return mathx.NonNegative(a)
}

func (b *Basin) displacedBelow(masses []*Mass, y float64) float64 {
	var v float64
	for _, i := range b.members {
		v += masses[i].displacedVolume(y)
	}
	return v
}

// contains tests whether m sits inside the basin. Horizontal tests use the
// mass's center; the vertical test needs the extents to overlap. Both are
// widened by slip.
func (b *Basin) contains(m *Mass, masses []*Mass, slip float64) bool {
	x, z := m.position.X(), m.position.Z()
	if b.kind == Hold {
		hull := masses[b.hull]
		c := hull.position
		if math.Abs(x-c.X()) > b.interior.Width/2+slip || math.Abs(z-c.Z()) > b.interior.Depth/2+slip {
			return false
		}
		return m.bounds.Bottom >= b.bounds.Bottom-slip && m.bounds.Bottom < b.bounds.Top+slip
	}
	if x < b.min.X()-slip || x > b.max.X()+slip || z < b.min.Z()-slip || z > b.max.Z()+slip {
		return false
	}
	return m.bounds.Top > b.bounds.Bottom-slip && m.bounds.Bottom < b.bounds.Top+slip
}
