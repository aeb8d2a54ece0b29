// Package head runs the animatronic control core: three concurrent
// producer loops (mouth, eyes, blink) sharing one actuator sink.
package head

import "time"

// EventKind identifies an observable lifecycle event.
type EventKind int

const (
	SpeechStarted EventKind = iota
	SpeechEnded
	BlinkStarted
	BlinkEnded
	FaceAcquired
	FaceLost
)

func (k EventKind) String() string {
	switch k {
	case SpeechStarted:
		return "speech_started"
	case SpeechEnded:
		return "speech_ended"
	case BlinkStarted:
		return "blink_started"
	case BlinkEnded:
		return "blink_ended"
	case FaceAcquired:
		return "face_acquired"
	case FaceLost:
		return "face_lost"
	}
	return "unknown"
}

// Event is a lifecycle notification for external logging and UI.
type Event struct {
	Kind EventKind `json:"kind"`
	At   time.Time `json:"at"`
}
