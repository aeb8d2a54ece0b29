// Package eyes drives the eye and eyelid servos: face-position
// mapping onto the X/Y axes and the autonomous blink state machine.
// The two producers own disjoint channels; the mapper never writes a
// lid and the blink scheduler never writes an axis.
package eyes

import "time"

// Config holds the eye animation tuning.
type Config struct {
	// FaceLostTimeout is how long to hold the last tracked position
	// after the detector stops reporting a face before the eyes
	// return to neutral center.
	FaceLostTimeout time.Duration

	// MinChange suppresses axis commands whose delta is smaller than
	// this many degrees, so frame-to-frame detector noise cannot
	// tremor the eyes.
	MinChange float64

	// Blink cadence: the next-blink deadline is drawn uniformly from
	// [BlinkIntervalMin, BlinkIntervalMax].
	BlinkIntervalMin time.Duration
	BlinkIntervalMax time.Duration

	// Blink phase durations.
	BlinkClose time.Duration
	BlinkHold  time.Duration
	BlinkOpen  time.Duration
}

// DefaultConfig returns a natural human-like blink cadence and the
// reference tracking tuning.
func DefaultConfig() Config {
	return Config{
		FaceLostTimeout:  2 * time.Second,
		MinChange:        1,
		BlinkIntervalMin: 3 * time.Second,
		BlinkIntervalMax: 8 * time.Second,
		BlinkClose:       100 * time.Millisecond,
		BlinkHold:        150 * time.Millisecond,
		BlinkOpen:        150 * time.Millisecond,
	}
}
