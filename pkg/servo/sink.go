package servo

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/elicazer/AIRobotAssistant/internal/log"
)

// Sink serializes angle commands from all producers onto the actuator
// surface. It owns the last-written angle per channel: equal repeats
// are dropped before they reach the bus, and a failed write leaves the
// table untouched so the value is re-sent the next time it changes.
//
// Producers write disjoint channel sets (mouth: jaw; eye mapper: X/Y
// axes; blink scheduler: lids), so the mutex only has to make each
// physical write atomic, never arbitrate between writers.
type Sink struct {
	profile Profile
	writer  Writer

	mu       sync.Mutex
	last     map[Channel]int
	observer func(AngleCommand)

	errorCount  uint64
	lastErrorAt time.Time
}

// NewSink creates a sink for the given layout and actuator writer.
func NewSink(profile Profile, writer Writer) *Sink {
	return &Sink{
		profile: profile,
		writer:  writer,
		last:    make(map[Channel]int),
	}
}

// Profile returns the active servo layout.
func (s *Sink) Profile() Profile {
	return s.profile
}

// OnCommand registers an observer called with every angle command that
// reaches the bus. Used by the pose broadcaster; must not block.
func (s *Sink) OnCommand(fn func(AngleCommand)) {
	s.mu.Lock()
	s.observer = fn
	s.mu.Unlock()
}

// SetAngle clamps the angle into the channel's configured range and
// forwards it to the actuator surface. Writes equal to the last
// successful write for the channel are dropped. A channel not wired on
// the active profile is an error; a bus failure is returned to the
// caller but never halts other channels.
func (s *Sink) SetAngle(ch Channel, angle float64) error {
	limit, ok := s.profile.Limit(ch)
	if !ok {
		return fmt.Errorf("channel %s not wired on profile %s", ch, s.profile.Name)
	}

	deg := int(math.Round(Clamp(angle, limit.Min, limit.Max)))

	s.mu.Lock()
	defer s.mu.Unlock()

	if prev, written := s.last[ch]; written && prev == deg {
		return nil
	}

	if err := s.writer.Write(limit.Pin, deg); err != nil {
		s.errorCount++
		if time.Since(s.lastErrorAt) > 5*time.Second {
			log.Warn("actuator write failed",
				"channel", ch.String(), "pin", limit.Pin, "angle", deg,
				"errors", s.errorCount, "err", err)
			s.lastErrorAt = time.Now()
		}
		return fmt.Errorf("write %s: %w", ch, err)
	}

	s.last[ch] = deg
	if s.observer != nil {
		s.observer(AngleCommand{Channel: ch, Angle: deg, At: time.Now()})
	}
	return nil
}

// LastAngle returns the last successfully written angle for a channel.
func (s *Sink) LastAngle(ch Channel) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.last[ch]
	return a, ok
}

// Snapshot returns a copy of the last-written angle table, keyed by
// channel name. Used by the status API.
func (s *Sink) Snapshot() map[string]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]int, len(s.last))
	for ch, a := range s.last {
		out[ch.String()] = a
	}
	return out
}

// Rest drives every wired channel to its resting angle: jaw closed,
// eyes centered, lids open. Called on shutdown so the head is left in
// a defined pose. Individual write failures are logged and skipped.
func (s *Sink) Rest() {
	for _, ch := range s.profile.Channels() {
		limit, _ := s.profile.Limit(ch)
		if err := s.SetAngle(ch, limit.Default); err != nil {
			log.Warn("rest pose write failed", "channel", ch.String(), "err", err)
		}
	}
}

// ErrorCount returns the number of failed physical writes since start.
func (s *Sink) ErrorCount() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errorCount
}
