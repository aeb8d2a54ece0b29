package mouth

import "time"

// Config holds the jaw animation tuning.
type Config struct {
	// MinThreshold is the loudness at or below which the mouth is
	// considered closed; MaxThreshold maps to fully open. Loudness in
	// between maps linearly.
	MinThreshold float64
	MaxThreshold float64

	// OpenAngle and CloseAngle are the jaw servo positions for fully
	// open and fully closed. Either may be the larger angle.
	OpenAngle  float64
	CloseAngle float64

	// MinChange suppresses servo commands whose angle delta is smaller
	// than this, in degrees.
	MinChange float64

	// OpenStep is how far the opening percentage may move toward its
	// target per audio chunk. Closing moves faster by 1/CloseRatio,
	// so the jaw snaps shut quicker than it opens.
	OpenStep   float64
	CloseRatio float64

	// SilenceTimeout forces the jaw shut after the raw loudness has
	// stayed at or below MinThreshold for this long.
	SilenceTimeout time.Duration
}

// DefaultConfig returns the reference tuning for 24 kHz speech audio.
func DefaultConfig() Config {
	return Config{
		MinThreshold:   0.015,
		MaxThreshold:   0.25,
		OpenAngle:      100,
		CloseAngle:     0,
		MinChange:      2,
		OpenStep:       20,
		CloseRatio:     0.7,
		SilenceTimeout: 500 * time.Millisecond,
	}
}
