package fluid_test

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/buoysim/internal/engine"
	"github.com/san-kum/buoysim/internal/fluid"
	"github.com/san-kum/buoysim/internal/shape"
)

const dt = 1.0 / 60

func build(scene fluid.Scene) *fluid.Model {
	eng, err := engine.NewSimple("symplectic", engine.Timing{FixedStep: 1.0 / 120, MaxSubSteps: 8})
	Expect(err).NotTo(HaveOccurred())
	m, err := fluid.NewModel(fluid.DefaultContext(), eng, scene)
	Expect(err).NotTo(HaveOccurred())
	return m
}

func run(m *fluid.Model, ticks int) *fluid.Snapshot {
	var snap *fluid.Snapshot
	for i := 0; i < ticks; i++ {
		var err error
		snap, err = m.Step(dt)
		Expect(err).NotTo(HaveOccurred())
	}
	return snap
}

// harbour is a 2 x 1 x 1 pool holding 0.6 m3, so its surface sits near -0.7.
func harbour() fluid.PoolSpec {
	return fluid.PoolSpec{ID: "harbour", Min: mgl64.Vec3{-1, -1, -0.5}, Max: mgl64.Vec3{1, 0, 0.5}, Volume: 0.6}
}

func dinghy(y, volume float64) fluid.BoatSpec {
	return fluid.BoatSpec{
		ID: "dinghy", Pool: "harbour",
		Width: 0.4, Height: 0.2, Depth: 0.3, Thickness: 0.02, Mass: 2,
		Position: mgl64.Vec3{0, y, 0},
		Volume:   volume,
	}
}

var _ = Describe("Buoyancy scenarios", func() {
	Describe("a cube of density 500", func() {
		It("floats half submerged at rest", func() {
			m := build(fluid.Scene{
				Pools: []fluid.PoolSpec{{ID: "tank", Min: mgl64.Vec3{-0.5, -1, -0.15}, Max: mgl64.Vec3{0.5, 0, 0.15}, Volume: 0.15}},
				Masses: []fluid.MassSpec{{
					ID: "cube", Shape: shape.NewCube(0.1), Mass: 0.5, Movable: true,
					Position: mgl64.Vec3{0, -0.45, 0},
				}},
			})
			snap := run(m, 1200)
			cube, ok := snap.Mass("cube")
			Expect(ok).To(BeTrue())
			Expect(cube.Basin).To(Equal("tank"))
			Expect(cube.SubmergedFraction).To(BeNumerically("~", 0.5, 0.01))
			Expect(cube.Velocity.Len()).To(BeNumerically("<", 1e-3))
			Expect(cube.Forces.Buoyancy.Y()).To(BeNumerically("~", -cube.Forces.Gravity.Y(), 0.05))
		})
	})

	Describe("a vertex-down cone", func() {
		It("displaces the closed-form volume at half height", func() {
			cone := shape.NewCone(1, 1, false)
			half := cone.VolumeAt(0.5)
			Expect(half).To(BeNumerically("~", math.Pi/3*0.125, 1e-6))

			m := build(fluid.Scene{
				Pools: []fluid.PoolSpec{{ID: "lake", Min: mgl64.Vec3{-2, -2, -2}, Max: mgl64.Vec3{2, 0, 2}, Volume: 16 - half}},
				Masses: []fluid.MassSpec{{
					ID: "cone", Shape: cone, Mass: 100, Position: mgl64.Vec3{0, -1, 0},
				}},
			})
			lake, _ := m.Basin("lake")
			Expect(lake.Height()).To(BeNumerically("~", -1, 1e-6))
			c, _ := m.Mass("cone")
			Expect(c.SubmergedVolume()).To(BeNumerically("~", half, 1e-5))
		})
	})

	Describe("a brim-full pool", func() {
		It("discards the overflow when a body sinks into it", func() {
			m := build(fluid.Scene{
				Pools: []fluid.PoolSpec{{ID: "tank", Min: mgl64.Vec3{-0.5, -0.5, -0.15}, Max: mgl64.Vec3{0.5, 0, 0.15}, Volume: 0.15}},
				Masses: []fluid.MassSpec{{
					ID: "anchor", Shape: shape.NewBox(0.2, 0.25, 0.2), Mass: 30, Movable: true,
					Position: mgl64.Vec3{0, -0.375, 0},
				}},
			})
			snap := run(m, 1)
			tank, _ := snap.Basin("tank")
			Expect(tank.Volume).To(BeNumerically("~", 0.14, 1e-9))
			Expect(tank.FilledVolume).To(BeNumerically("~", 0.15, 1e-9))
			Expect(tank.FilledVolume).NotTo(BeNumerically("~", 0.16, 1e-3))
			Expect(snap.Discarded).To(BeNumerically("~", 0.01, 1e-9))
		})
	})

	Describe("a boat standing clear of the surface", func() {
		It("spills its hold back at the fill rate until empty", func() {
			m := build(fluid.Scene{
				Pools: []fluid.PoolSpec{harbour()},
				Boats: []fluid.BoatSpec{dinghy(-0.605, 0.01)},
			})
			hull, _ := m.Mass("dinghy")
			limit := m.Context().FillRate * hull.Volume()
			total := m.TotalVolume()

			prev := 0.01
			ticks := 0
			for prev > 0 {
				Expect(ticks).To(BeNumerically("<", 200))
				snap := run(m, 1)
				hold := snap.Basins[1]
				Expect(hold.Regime).To(Equal(fluid.Spilling))
				Expect(prev - hold.Volume).To(BeNumerically("~", math.Min(limit, prev), 1e-12))
				Expect(snap.TotalVolume() + snap.Discarded).To(BeNumerically("~", total, 1e-12))
				prev = hold.Volume
				ticks++
			}
			Expect(ticks).To(Equal(int(math.Ceil(0.01/limit - 1e-9))))

			snap := run(m, 1)
			Expect(snap.Basins[1].Regime).To(Equal(fluid.Steady))
			Expect(snap.Basins[1].Volume).To(BeZero())
		})
	})

	Describe("a boat sunk below the surface and lifted out again", func() {
		It("conserves the fluid across fill and spill", func() {
			m := build(fluid.Scene{
				Pools: []fluid.PoolSpec{harbour()},
				Boats: []fluid.BoatSpec{dinghy(-0.85, 0)},
			})
			total := m.TotalVolume()

			snap := run(m, 1)
			Expect(snap.Basins[1].Regime).To(Equal(fluid.Filling))
			snap = run(m, 200)
			Expect(snap.TotalVolume()).To(BeNumerically("~", total, 1e-9))
			hold, _ := m.Basin("dinghy")
			Expect(hold.Volume()).To(BeNumerically("~", m.EmptyVolume(hold, hold.Bounds().Top), 1e-9))
			filled := hold.Volume()
			Expect(filled).To(BeNumerically(">", 0.01))

			Expect(m.SetPosition("dinghy", mgl64.Vec3{0, -0.605, 0})).To(Succeed())
			snap = run(m, 1)
			Expect(snap.Basins[1].Regime).To(Equal(fluid.Spilling))
			snap = run(m, 300)
			Expect(snap.Basins[1].Volume).To(BeZero())
			Expect(snap.TotalVolume()).To(BeNumerically("~", total, 1e-9))
			Expect(snap.Discarded).To(BeZero())
		})
	})

	Describe("a duck floating in a boat's hold", func() {
		It("floats on the hold's surface and loads the hull", func() {
			duck := shape.NewDuck(0.1, 0.08, 0.1)
			m := build(fluid.Scene{
				Pools: []fluid.PoolSpec{harbour()},
				Boats: []fluid.BoatSpec{dinghy(-0.7, 0.008)},
				Masses: []fluid.MassSpec{{
					ID: "duck", Shape: duck, Mass: 500 * duck.MaxVolume(), Movable: true,
					Position: mgl64.Vec3{0, -0.64, 0},
				}},
			})
			snap := run(m, 600)
			d, _ := snap.Mass("duck")
			hold, _ := snap.Basin("dinghy")
			Expect(d.Basin).To(Equal("dinghy"))
			Expect(hold.Regime).To(Equal(fluid.Steady))
			Expect(d.SubmergedFraction).To(BeNumerically("~", 0.5, 0.01))

			hull, _ := snap.Mass("dinghy")
			g, rho := fluid.DefaultGravity, fluid.DefaultDensity
			Expect(hull.Basin).To(Equal("harbour"))
			Expect(hull.Forces.Load.Y()).To(BeNumerically("~", -rho*g*(hold.Volume+d.Submerged), 1e-9))
		})
	})
})
