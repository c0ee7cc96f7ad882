package shape

import (
	"math"

	"github.com/san-kum/buoysim/internal/mathx"
)

type volumeFuncs struct {
	area    func(s Shape, t float64) float64
	volume  func(s Shape, t float64) float64
	maxArea func(s Shape) float64
}

var table = [numKinds]volumeFuncs{
	Box:       {area: boxArea, volume: boxVolume, maxArea: boxMaxArea},
	Cone:      {area: coneArea, volume: coneVolume, maxArea: coneMaxArea},
	Ellipsoid: {area: ellipsoidArea, volume: ellipsoidVolume, maxArea: ellipsoidMaxArea},
	Duck:      {area: ellipsoidArea, volume: ellipsoidVolume, maxArea: ellipsoidMaxArea},
	Bottle:    curveFuncs(BottleCurve),
	Boat:      curveFuncs(BoatCurve),
}

func boxArea(s Shape, _ float64) float64 {
	return s.Width * s.Depth
}

func boxVolume(s Shape, t float64) float64 {
	return s.Width * s.Depth * s.Height * t
}

func boxMaxArea(s Shape) float64 {
	return s.Width * s.Depth
}

func coneBase(s Shape) float64 {
	r := s.Radius()
	return math.Pi * r * r
}

func coneArea(s Shape, t float64) float64 {
	if s.VertexUp {
		u := 1 - t
		return coneBase(s) * u * u
	}
	return coneBase(s) * t * t
}

// Volume is the integral of the area law: t³ with the vertex down and
// 1-(1-t)³ = t(3-3t+t²) with the vertex up.
func coneVolume(s Shape, t float64) float64 {
	full := coneBase(s) * s.Height / 3
	var frac float64
	if s.VertexUp {
		frac = t * (3 - 3*t + t*t)
	} else {
		frac = t * t * t
	}
	return mathx.RoundTo(full*frac, VolumeRounding)
}

func coneMaxArea(s Shape) float64 {
	return coneBase(s)
}

func ellipsoidArea(s Shape, t float64) float64 {
	return math.Pi * s.Width / 2 * s.Depth / 2 * 4 * (t - t*t)
}

func ellipsoidVolume(s Shape, t float64) float64 {
	full := 4.0 / 3.0 * math.Pi * s.Width / 2 * s.Height / 2 * s.Depth / 2
	return full * t * t * (3 - 2*t)
}

func ellipsoidMaxArea(s Shape) float64 {
	return math.Pi * s.Width / 2 * s.Depth / 2
}

func curveFuncs(c *Curve) volumeFuncs {
	return volumeFuncs{
		area: func(s Shape, t float64) float64 {
			return c.Area(t) * s.Width * s.Depth
		},
		volume: func(s Shape, t float64) float64 {
			return c.Volume(t) * s.Width * s.Depth * s.Height
		},
		maxArea: func(s Shape) float64 {
			return c.MaxArea() * s.Width * s.Depth
		},
	}
}
