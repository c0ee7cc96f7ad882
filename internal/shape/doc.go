// Package shape provides the displaced-area and displaced-volume functions of
// the floating body families.
//
// A [Shape] is a closed tagged variant: its [Kind] selects an entry of a
// function table, and the entry maps a vertical submersion ratio t in [0, 1]
// to a cross-sectional area and a cumulative volume:
//
//   - [Box]: constant area, linear volume
//   - [Cone]: area ∝ t² (or (1-t)² with the vertex up), cubic volume
//   - [Ellipsoid] and [Duck]: area ∝ t-t², volume ∝ t²(3-2t)
//   - [Bottle] and [Boat]: piecewise-linear lookup [Curve] tables
//
// The absolute-coordinate entry points [Shape.DisplacedArea] and
// [Shape.DisplacedVolume] take the per-tick [Bounds] of the body. Area is the
// derivative of volume with respect to height, so area is zero outside the
// bounds while volume saturates at [Shape.MaxVolume] above the top.
//
// A duck is approximated as its bounding ellipsoid for displacement.
package shape
