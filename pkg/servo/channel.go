// Package servo models the actuator surface of the animatronic head:
// logical channels, servo layout profiles, angle math, and the sink
// that serializes every angle command onto the physical bus.
package servo

import "time"

// Channel identifies one logical actuator on the head.
// Profiles map channels to physical PWM pins; a channel absent from
// the active profile is simply not wired on that rig.
type Channel int

const (
	LeftEyeX Channel = iota
	LeftEyeY
	LeftUpperLid
	LeftLowerLid
	RightEyeX
	RightEyeY
	RightUpperLid
	RightLowerLid
	Jaw

	// Shared axes used by the reduced rigs where one servo drives
	// both eyes on an axis.
	EyesX
	EyesY
)

var channelNames = map[Channel]string{
	LeftEyeX:      "left_eye_x",
	LeftEyeY:      "left_eye_y",
	LeftUpperLid:  "left_upper_lid",
	LeftLowerLid:  "left_lower_lid",
	RightEyeX:     "right_eye_x",
	RightEyeY:     "right_eye_y",
	RightUpperLid: "right_upper_lid",
	RightLowerLid: "right_lower_lid",
	Jaw:           "jaw",
	EyesX:         "eyes_x",
	EyesY:         "eyes_y",
}

func (c Channel) String() string {
	if name, ok := channelNames[c]; ok {
		return name
	}
	return "unknown"
}

// IsLid reports whether the channel is an eyelid.
// Lid channels are owned by the blink scheduler; the eye mapper and
// mouth animator never write them.
func (c Channel) IsLid() bool {
	switch c {
	case LeftUpperLid, LeftLowerLid, RightUpperLid, RightLowerLid:
		return true
	}
	return false
}

// IsEyeAxis reports whether the channel is an eye X/Y axis
// (per-eye or shared).
func (c Channel) IsEyeAxis() bool {
	switch c {
	case LeftEyeX, LeftEyeY, RightEyeX, RightEyeY, EyesX, EyesY:
		return true
	}
	return false
}

// AngleCommand is one timestamped target-angle instruction for a channel.
// Angles are whole degrees; by the time a command reaches the sink the
// angle has already been clamped into the channel's configured range.
type AngleCommand struct {
	Channel Channel   `json:"channel"`
	Angle   int       `json:"angle"`
	At      time.Time `json:"at"`
}
