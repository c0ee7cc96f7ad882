// Package viz provides terminal views of a running scene.
//
// The package implements a live readout using the Bubble Tea framework:
//
//   - [Live]: side view of the basins and bodies with a stats panel
//   - [Picker]: preset menu that launches a [Live] view
//   - [Canvas]: Braille-based pixel canvas the side view is drawn on
//   - [Plot]: asciigraph rendering of recorded series
//
// The view only reads the model between ticks. Displayed surface heights
// are smoothed with critically damped springs so fill and spill transfers
// animate instead of stepping.
//
// # Key Bindings
//
//	Space - Pause/Resume simulation
//	R     - Rebuild the scene
//	Tab   - Select next body
//	Up/Dn - Lift or lower the selected body
//	+/-   - Make the selected body heavier or lighter
//	T     - Cycle color themes
//	?     - Show help overlay
package viz
