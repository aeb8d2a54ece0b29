package mouth

import (
	"time"

	"github.com/elicazer/AIRobotAssistant/pkg/servo"
)

// Viseme buckets for the current mouth opening, used by the
// visualizer and for debug logging.
const (
	VisemeClosed     = "CLOSED"
	VisemeNarrow     = "NARROW"
	VisemeRounded    = "ROUNDED"
	VisemeMedium     = "MEDIUM"
	VisemeMediumOpen = "MEDIUM_OPEN"
	VisemeWide       = "WIDE"
)

// speakingFloor is the opening percentage above which the animator
// considers the assistant to be audibly speaking.
const speakingFloor = 3.0

// Animator turns smoothed loudness into jaw servo angles.
//
// Opening percentage chases the loudness-derived target at OpenStep
// per chunk when opening and OpenStep/CloseRatio when closing. Raw
// (unsmoothed) loudness drives silence detection, so the smoothing
// window cannot delay the forced close at the end of an utterance.
//
// State is owned exclusively by the mouth loop; Update is not safe for
// concurrent use.
type Animator struct {
	cfg Config

	opening   float64 // 0-100, current jaw opening
	speaking  bool
	silentFor time.Duration
	forced    bool // forced close already emitted for this silence

	// OnSpeech, when set, is called once per speech edge:
	// true when speech starts, false when the silence timeout closes
	// the jaw. Must not block.
	OnSpeech func(speaking bool)
}

// NewAnimator creates a jaw animator starting closed.
func NewAnimator(cfg Config) *Animator {
	return &Animator{cfg: cfg}
}

// Update advances the jaw by one audio chunk and returns the servo
// angle to command plus whether it should be emitted. dt is the chunk
// duration. Deltas below MinChange are suppressed, except for the
// silence-triggered forced close which always emits one closing
// command and bypasses the rate limit.
func (a *Animator) Update(raw, smoothed float64, dt time.Duration) (float64, bool) {
	if raw <= a.cfg.MinThreshold {
		a.silentFor += dt
	} else {
		a.silentFor = 0
		a.forced = false
	}

	target := a.targetOpening(smoothed)

	if target > speakingFloor && !a.speaking {
		a.speaking = true
		if a.OnSpeech != nil {
			a.OnSpeech(true)
		}
	}

	// Silence ran out: snap shut regardless of rate limit or delta.
	if a.silentFor >= a.cfg.SilenceTimeout {
		if a.forced {
			return a.angle(), false
		}
		a.forced = true
		a.opening = 0
		if a.speaking {
			a.speaking = false
			if a.OnSpeech != nil {
				a.OnSpeech(false)
			}
		}
		return a.cfg.CloseAngle, true
	}

	step := a.cfg.OpenStep
	if target < a.opening {
		step = a.cfg.OpenStep / a.cfg.CloseRatio
	}
	next := servo.StepToward(a.opening, target, step)

	if !servo.Significant(a.angleFor(a.opening), a.angleFor(next), a.cfg.MinChange) {
		return a.angle(), false
	}

	a.opening = next
	return a.angle(), true
}

// targetOpening maps smoothed loudness to a target opening percentage:
// 0 at or below MinThreshold, 100 at or above MaxThreshold, linear in
// between.
func (a *Animator) targetOpening(smoothed float64) float64 {
	if smoothed <= a.cfg.MinThreshold {
		return 0
	}
	t := (smoothed - a.cfg.MinThreshold) / (a.cfg.MaxThreshold - a.cfg.MinThreshold)
	return servo.Clamp(t, 0, 1) * 100
}

// Opening returns the current jaw opening percentage.
func (a *Animator) Opening() float64 {
	return a.opening
}

// Speaking reports whether speech is currently detected.
func (a *Animator) Speaking() bool {
	return a.speaking
}

// Angle returns the servo angle for the current opening.
func (a *Animator) angle() float64 {
	return a.angleFor(a.opening)
}

func (a *Animator) angleFor(opening float64) float64 {
	return servo.Lerp(a.cfg.CloseAngle, a.cfg.OpenAngle, opening/100)
}

// Reset closes the jaw and clears speech state without emitting.
func (a *Animator) Reset() {
	a.opening = 0
	a.speaking = false
	a.silentFor = 0
	a.forced = false
}

// Viseme classifies an opening percentage into a mouth shape bucket.
func Viseme(opening float64) string {
	switch {
	case opening < 5:
		return VisemeClosed
	case opening < 20:
		return VisemeNarrow
	case opening < 35:
		return VisemeRounded
	case opening < 50:
		return VisemeMedium
	case opening < 70:
		return VisemeMediumOpen
	default:
		return VisemeWide
	}
}
