// Package analysis inspects the recorded motion of a floating body.
//
//   - [PowerSpectrum]: magnitude spectrum of a power-of-two series
//   - [Heave]: dominant frequency, amplitude and damping of a vertical trace
//
// A body released above its equilibrium bobs with a decaying oscillation;
// the damping ratio comes from the logarithmic decrement of its peaks:
//
//	h := analysis.Heave(ys, dt)
//	fmt.Printf("%.2f Hz, zeta %.3f\n", h.Frequency, h.Damping)
package analysis
