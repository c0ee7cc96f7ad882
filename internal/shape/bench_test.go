package shape

import "testing"

func benchmarkVolume(b *testing.B, s Shape) {
	bounds := s.BoundsAt(0)
	y := bounds.Bottom + 0.37*(bounds.Top-bounds.Bottom)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = s.DisplacedVolume(bounds, y)
	}
}

func BenchmarkBoxVolume(b *testing.B)       { benchmarkVolume(b, NewCube(0.1)) }
func BenchmarkConeVolume(b *testing.B)      { benchmarkVolume(b, NewCone(0.1, 0.2, false)) }
func BenchmarkEllipsoidVolume(b *testing.B) { benchmarkVolume(b, NewEllipsoid(0.1, 0.2, 0.1)) }
func BenchmarkBoatVolume(b *testing.B)      { benchmarkVolume(b, NewBoatHull(0.4, 0.15, 0.3)) }
