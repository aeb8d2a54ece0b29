// Package mouth drives the jaw servo from a live speech audio stream:
// RMS loudness analysis with spike smoothing, and an animator with
// asymmetric open/close dynamics and silence-triggered forced close.
package mouth

import "math"

// Analyzer converts raw PCM16 chunks into normalized loudness.
// It keeps a small ring of recent RMS values and reports their mean,
// so a single plosive or click cannot twitch the jaw.
type Analyzer struct {
	window []float64
	idx    int
	count  int
}

// NewAnalyzer creates an analyzer with the given smoothing window size.
// A window of 1 disables smoothing.
func NewAnalyzer(window int) *Analyzer {
	if window < 1 {
		window = 1
	}
	return &Analyzer{window: make([]float64, window)}
}

// Process computes the chunk's normalized RMS amplitude in [0, 1] and
// the smoothed mean over the sliding window. A zero-length chunk is
// silence, not an error.
func (a *Analyzer) Process(samples []int16) (raw, smoothed float64) {
	raw = rms(samples)

	a.window[a.idx] = raw
	a.idx = (a.idx + 1) % len(a.window)
	if a.count < len(a.window) {
		a.count++
	}

	var sum float64
	for i := 0; i < a.count; i++ {
		sum += a.window[i]
	}
	return raw, sum / float64(a.count)
}

// Reset clears the smoothing window.
func (a *Analyzer) Reset() {
	for i := range a.window {
		a.window[i] = 0
	}
	a.idx = 0
	a.count = 0
}

// rms returns the root-mean-square amplitude of the samples,
// normalized against full-scale 16-bit audio.
func rms(samples []int16) float64 {
	if len(samples) == 0 {
		return 0
	}
	var sum float64
	for _, s := range samples {
		f := float64(s)
		sum += f * f
	}
	return math.Sqrt(sum/float64(len(samples))) / 32768.0
}
