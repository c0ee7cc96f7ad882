package shape

import (
	"fmt"
	"math"

	"github.com/san-kum/buoysim/internal/mathx"
)

// VolumeRounding is the grain applied to cone volumes so repeated queries at
// the same level cannot accumulate floating-point drift.
const VolumeRounding = 1e-7

// Shape is the geometry of a body. Width is the x extent, Height the vertical
// extent and Depth the z extent. A cone uses Width as its base diameter and
// Depth == Width.
type Shape struct {
	Kind     Kind
	Width    float64
	Height   float64
	Depth    float64
	VertexUp bool
}

// Bounds is the absolute vertical extent of a body at the current tick.
type Bounds struct {
	Bottom float64
	Top    float64
}

// Validate fails on inverted bounds.
func (b Bounds) Validate() error {
	if !mathx.Finite(b.Bottom) || !mathx.Finite(b.Top) {
		return fmt.Errorf("%w: non-finite bounds", ErrInvertedBounds)
	}
	if b.Bottom > b.Top {
		return fmt.Errorf("%w: %g > %g", ErrInvertedBounds, b.Bottom, b.Top)
	}
	return nil
}

// Ratio maps an absolute level onto [0, 1] within the bounds.
func (b Bounds) Ratio(y float64) float64 {
	h := b.Top - b.Bottom
	if h <= 0 {
		if y >= b.Top {
			return 1
		}
		return 0
	}
	return mathx.Clamp01((y - b.Bottom) / h)
}

func NewBox(width, height, depth float64) Shape {
	return Shape{Kind: Box, Width: width, Height: height, Depth: depth}
}

func NewCube(side float64) Shape {
	return NewBox(side, side, side)
}

func NewCone(radius, height float64, vertexUp bool) Shape {
	return Shape{Kind: Cone, Width: 2 * radius, Height: height, Depth: 2 * radius, VertexUp: vertexUp}
}

func NewEllipsoid(width, height, depth float64) Shape {
	return Shape{Kind: Ellipsoid, Width: width, Height: height, Depth: depth}
}

func NewDuck(width, height, depth float64) Shape {
	return Shape{Kind: Duck, Width: width, Height: height, Depth: depth}
}

func NewBottle(radius, height float64) Shape {
	return Shape{Kind: Bottle, Width: 2 * radius, Height: height, Depth: 2 * radius}
}

func NewBoatHull(width, height, depth float64) Shape {
	return Shape{Kind: Boat, Width: width, Height: height, Depth: depth}
}

// Validate checks the kind and dimensions.
func (s Shape) Validate() error {
	if s.Kind < 0 || s.Kind >= numKinds {
		return fmt.Errorf("%w: %s", ErrUnknownKind, s.Kind)
	}
	for _, d := range []float64{s.Width, s.Height, s.Depth} {
		if !mathx.Finite(d) || d <= 0 {
			return fmt.Errorf("%w: %s %gx%gx%g", ErrInvalidDimensions, s.Kind, s.Width, s.Height, s.Depth)
		}
	}
	return nil
}

// Radius returns the half width, the base radius for cones and bottles.
func (s Shape) Radius() float64 { return s.Width / 2 }

// Scaled returns the shape uniformly scaled by factor.
func (s Shape) Scaled(factor float64) Shape {
	s.Width *= factor
	s.Height *= factor
	s.Depth *= factor
	return s
}

// WithVolume returns the shape uniformly rescaled so that MaxVolume is v.
func (s Shape) WithVolume(v float64) Shape {
	cur := s.MaxVolume()
	if cur <= 0 || v <= 0 {
		return s
	}
	return s.Scaled(math.Cbrt(v / cur))
}

// MaxVolume is the displaced volume of the fully submerged body.
func (s Shape) MaxVolume() float64 {
	return table[s.Kind].volume(s, 1)
}

// MaxArea is the largest horizontal cross-section of the body.
func (s Shape) MaxArea() float64 {
	return table[s.Kind].maxArea(s)
}

// AreaAt returns the cross-section at submersion ratio t.
func (s Shape) AreaAt(t float64) float64 {
	return mathx.NonNegative(table[s.Kind].area(s, mathx.Clamp01(t)))
}

// VolumeAt returns the displaced volume at submersion ratio t.
func (s Shape) VolumeAt(t float64) float64 {
	return mathx.NonNegative(table[s.Kind].volume(s, mathx.Clamp01(t)))
}

// DisplacedArea returns the cross-section the body excludes at level y.
// It is zero outside [b.Bottom, b.Top]: area is the derivative of
// DisplacedVolume, which stops growing once the body is fully submerged, so
// a surface above the top cuts no cross-section of the body.
func (s Shape) DisplacedArea(b Bounds, y float64) float64 {
	if y < b.Bottom || y > b.Top {
		return 0
	}
	return s.AreaAt(b.Ratio(y))
}

// DisplacedVolume returns the volume the body excludes at or below level y.
func (s Shape) DisplacedVolume(b Bounds, y float64) float64 {
	if y <= b.Bottom {
		return 0
	}
	if y >= b.Top {
		return s.MaxVolume()
	}
	return s.VolumeAt(b.Ratio(y))
}

// BoundsAt places the shape with its vertical center at cy.
func (s Shape) BoundsAt(cy float64) Bounds {
	return Bounds{Bottom: cy - s.Height/2, Top: cy + s.Height/2}
}

func (s Shape) String() string {
	return fmt.Sprintf("%s(%.3gx%.3gx%.3g)", s.Kind, s.Width, s.Height, s.Depth)
}
