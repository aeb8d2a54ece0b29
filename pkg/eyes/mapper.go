package eyes

import (
	"time"

	"github.com/elicazer/AIRobotAssistant/pkg/servo"
	"github.com/elicazer/AIRobotAssistant/pkg/vision"
)

// Mapper converts face positions into eye axis angle commands.
//
// When several faces are visible it always follows the one with the
// largest bounding box (the closest), a deterministic rule that keeps
// the target stable across frames. When no face has been seen for the
// configured timeout the eyes return to the center of each axis range
// instead of staring at the last known position.
//
// The mapper only ever emits commands for axis channels wired on the
// active profile; eyelids belong to the blink scheduler.
type Mapper struct {
	profile servo.Profile
	cfg     Config

	lastSeen time.Time
	tracking bool
	centered bool
	last     map[servo.Channel]float64

	// OnFace, when set, is called with true when a face is acquired
	// and false when tracking times out. Must not block.
	OnFace func(acquired bool)
}

// NewMapper creates a mapper for the given layout.
func NewMapper(profile servo.Profile, cfg Config) *Mapper {
	return &Mapper{
		profile: profile,
		cfg:     cfg,
		last:    make(map[servo.Channel]float64),
	}
}

// Observe consumes one frame observation and returns the axis commands
// to emit, if any.
func (m *Mapper) Observe(obs vision.Observation) []servo.AngleCommand {
	now := obs.At
	if now.IsZero() {
		now = time.Now()
	}

	face := vision.SelectLargest(obs.Faces)
	if face == nil {
		return m.noFace(now)
	}

	if !m.tracking {
		m.tracking = true
		if m.OnFace != nil {
			m.OnFace(true)
		}
	}
	m.lastSeen = now
	m.centered = false

	x, y := face.Center()
	var cmds []servo.AngleCommand
	for _, ch := range m.profile.Axes() {
		limit, _ := m.profile.Limit(ch)
		angle := axisAngle(ch, limit, x, y)
		if prev, ok := m.last[ch]; ok && !servo.Significant(prev, angle, m.cfg.MinChange) {
			continue
		}
		m.last[ch] = angle
		cmds = append(cmds, servo.AngleCommand{Channel: ch, Angle: int(angle + 0.5), At: now})
	}
	return cmds
}

// noFace handles a faceless frame: hold position until the timeout,
// then drive every axis to its neutral center exactly once.
func (m *Mapper) noFace(now time.Time) []servo.AngleCommand {
	if m.lastSeen.IsZero() {
		m.lastSeen = now
	}
	if now.Sub(m.lastSeen) < m.cfg.FaceLostTimeout {
		return nil
	}

	if m.tracking {
		m.tracking = false
		if m.OnFace != nil {
			m.OnFace(false)
		}
	}
	if m.centered {
		return nil
	}
	m.centered = true

	var cmds []servo.AngleCommand
	for _, ch := range m.profile.Axes() {
		limit, _ := m.profile.Limit(ch)
		center := limit.Center()
		m.last[ch] = center
		cmds = append(cmds, servo.AngleCommand{Channel: ch, Angle: int(center + 0.5), At: now})
	}
	return cmds
}

// Tracking reports whether a face is currently being followed.
func (m *Mapper) Tracking() bool {
	return m.tracking
}

// axisAngle maps a normalized face coordinate onto one axis's servo
// range, honoring the profile's inversion flag so mirrored channels
// converge on the same point.
func axisAngle(ch servo.Channel, limit servo.Limit, x, y float64) float64 {
	v := x
	switch ch {
	case servo.LeftEyeY, servo.RightEyeY, servo.EyesY:
		v = y
	}
	if limit.Invert {
		return servo.MapRange(v, 0, 1, limit.Max, limit.Min)
	}
	return servo.MapRange(v, 0, 1, limit.Min, limit.Max)
}
