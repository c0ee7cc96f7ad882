package analysis

import (
	"math"
)

// HeaveStats summarizes a vertical position trace.
type HeaveStats struct {
	Frequency float64 // dominant frequency in Hz, 0 if there is none
	Period    float64
	Amplitude float64 // half the peak-to-peak range
	Mean      float64
	Damping   float64 // damping ratio from peak decay, 0 with fewer than two peaks
	Peaks     int
}

// Heave analyses ys sampled every dt seconds.
func Heave(ys []float64, dt float64) HeaveStats {
	var h HeaveStats
	if len(ys) == 0 || dt <= 0 {
		return h
	}

	lo, hi := ys[0], ys[0]
	for _, y := range ys {
		h.Mean += y
		lo = math.Min(lo, y)
		hi = math.Max(hi, y)
	}
	h.Mean /= float64(len(ys))
	h.Amplitude = (hi - lo) / 2

	h.Frequency = DominantFrequency(ys, dt)
	if h.Frequency > 0 {
		h.Period = 1 / h.Frequency
	}

	peaks := Peaks(ys)
	h.Peaks = len(peaks)
	h.Damping = DampingRatio(ys, peaks, h.Mean)
	return h
}

// DominantFrequency returns the frequency of the largest non-DC bin of the
// mean-removed series, truncated to a power of two.
func DominantFrequency(ys []float64, dt float64) float64 {
	n := 1
	for n*2 <= len(ys) {
		n *= 2
	}
	if n < 4 || dt <= 0 {
		return 0
	}

	data := Detrend(ys[:n])
	ps := PowerSpectrum(data)

	best, bin := 0.0, 0
	for k := 1; k < len(ps); k++ {
		if ps[k] > best {
			best, bin = ps[k], k
		}
	}
	if bin == 0 || best < 1e-12 {
		return 0
	}
	return float64(bin) / (float64(n) * dt)
}

// Detrend returns ys with its mean removed.
func Detrend(ys []float64) []float64 {
	var mean float64
	for _, y := range ys {
		mean += y
	}
	mean /= float64(len(ys))

	out := make([]float64, len(ys))
	for i, y := range ys {
		out[i] = y - mean
	}
	return out
}

// Peaks returns the indices of strict local maxima.
func Peaks(ys []float64) []int {
	var idx []int
	for i := 1; i+1 < len(ys); i++ {
		if ys[i] > ys[i-1] && ys[i] >= ys[i+1] {
			idx = append(idx, i)
		}
	}
	return idx
}

// DampingRatio estimates zeta from the mean logarithmic decrement of the
// peak heights above mean.
func DampingRatio(ys []float64, peaks []int, mean float64) float64 {
	var sum float64
	var n int
	for i := 1; i < len(peaks); i++ {
		a := ys[peaks[i-1]] - mean
		b := ys[peaks[i]] - mean
		if a <= 0 || b <= 0 {
			continue
		}
		sum += math.Log(a / b)
		n++
	}
	if n == 0 {
		return 0
	}
	delta := sum / float64(n)
	return delta / math.Sqrt(4*math.Pi*math.Pi+delta*delta)
}
