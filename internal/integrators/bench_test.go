package integrators

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func benchmarkIntegrator(b *testing.B, integ Integrator) {
	body := Body{Velocity: mgl64.Vec3{0, 1, 0}}
	acc := mgl64.Vec3{0, -9.8, 0}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		body = integ.Step(body, acc, 0.01)
	}
}

func BenchmarkEuler(b *testing.B)      { benchmarkIntegrator(b, NewEuler()) }
func BenchmarkSymplectic(b *testing.B) { benchmarkIntegrator(b, NewSymplecticEuler()) }
func BenchmarkVerlet(b *testing.B)     { benchmarkIntegrator(b, NewVerlet()) }
