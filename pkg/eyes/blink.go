package eyes

import (
	"math/rand"
	"sync"
	"time"

	"github.com/elicazer/AIRobotAssistant/pkg/servo"
)

// BlinkState is the current phase of the blink cycle.
type BlinkState int

const (
	BlinkIdle BlinkState = iota
	BlinkClosing
	BlinkClosed
	BlinkOpening
)

func (s BlinkState) String() string {
	switch s {
	case BlinkIdle:
		return "idle"
	case BlinkClosing:
		return "closing"
	case BlinkClosed:
		return "closed"
	case BlinkOpening:
		return "opening"
	}
	return "unknown"
}

// Scheduler is the autonomous blink state machine. Both eyes blink
// together: Idle waits for a randomized deadline, Closing interpolates
// the lids shut, Closed dwells briefly, Opening interpolates back and
// redraws the next deadline. A full cycle always completes before the
// next one can start, so blinks never overlap.
//
// The scheduler writes only eyelid channels. On a rig without lids
// (the simple layout) every tick is a no-op.
type Scheduler struct {
	profile servo.Profile
	cfg     Config
	rng     *rand.Rand

	mu         sync.Mutex
	state      BlinkState
	deadline   time.Time
	phaseStart time.Time

	// OnBlink, when set, is called with true when the lids start
	// closing and false when they are fully open again. Must not block.
	OnBlink func(started bool)
}

// NewScheduler creates a blink scheduler with the first deadline drawn.
func NewScheduler(profile servo.Profile, cfg Config) *Scheduler {
	s := &Scheduler{
		profile: profile,
		cfg:     cfg,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	s.deadline = time.Now().Add(s.nextInterval())
	return s
}

// Tick advances the state machine to now and returns the eyelid
// commands for this instant, if any.
func (s *Scheduler) Tick(now time.Time) []servo.AngleCommand {
	lids := s.profile.Lids()
	if len(lids) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case BlinkIdle:
		if now.Before(s.deadline) {
			return nil
		}
		s.state = BlinkClosing
		s.phaseStart = now
		if s.OnBlink != nil {
			s.OnBlink(true)
		}
		return s.closingFrame(now, lids)

	case BlinkClosing:
		return s.closingFrame(now, lids)

	case BlinkClosed:
		if now.Sub(s.phaseStart) >= s.cfg.BlinkHold {
			s.state = BlinkOpening
			s.phaseStart = now
			return s.openingFrame(now, lids)
		}
		return s.lidFrame(now, lids, 1)

	case BlinkOpening:
		return s.openingFrame(now, lids)
	}
	return nil
}

// ForceClose triggers an immediate Closing transition from any
// non-Closed state, e.g. on an explicit "close eyes" command.
func (s *Scheduler) ForceClose(now time.Time) {
	if len(s.profile.Lids()) == 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == BlinkClosed || s.state == BlinkClosing {
		return
	}
	wasIdle := s.state == BlinkIdle
	s.state = BlinkClosing
	s.phaseStart = now
	if wasIdle && s.OnBlink != nil {
		s.OnBlink(true)
	}
}

// State returns the current blink phase.
func (s *Scheduler) State() BlinkState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// closingFrame interpolates open -> closed; at full progress the
// machine enters Closed.
func (s *Scheduler) closingFrame(now time.Time, lids []servo.Channel) []servo.AngleCommand {
	p := phaseProgress(now.Sub(s.phaseStart), s.cfg.BlinkClose)
	if p >= 1 {
		s.state = BlinkClosed
		s.phaseStart = now
	}
	return s.lidFrame(now, lids, p)
}

// openingFrame interpolates closed -> open; at full progress the
// machine returns to Idle and redraws the next deadline.
func (s *Scheduler) openingFrame(now time.Time, lids []servo.Channel) []servo.AngleCommand {
	p := phaseProgress(now.Sub(s.phaseStart), s.cfg.BlinkOpen)
	cmds := s.lidFrame(now, lids, 1-p)
	if p >= 1 {
		s.state = BlinkIdle
		s.deadline = now.Add(s.nextInterval())
		if s.OnBlink != nil {
			s.OnBlink(false)
		}
	}
	return cmds
}

// lidFrame returns every lid at interpolation position p, where 0 is
// fully open (resting angle) and 1 is fully closed (blink angle).
func (s *Scheduler) lidFrame(now time.Time, lids []servo.Channel, p float64) []servo.AngleCommand {
	cmds := make([]servo.AngleCommand, 0, len(lids))
	for _, ch := range lids {
		limit, _ := s.profile.Limit(ch)
		angle := servo.Lerp(limit.Default, limit.Blink, p)
		cmds = append(cmds, servo.AngleCommand{Channel: ch, Angle: int(angle + 0.5), At: now})
	}
	return cmds
}

// nextInterval draws the time until the next blink.
func (s *Scheduler) nextInterval() time.Duration {
	span := s.cfg.BlinkIntervalMax - s.cfg.BlinkIntervalMin
	if span <= 0 {
		return s.cfg.BlinkIntervalMin
	}
	return s.cfg.BlinkIntervalMin + time.Duration(s.rng.Int63n(int64(span)))
}

func phaseProgress(elapsed, total time.Duration) float64 {
	if total <= 0 {
		return 1
	}
	p := float64(elapsed) / float64(total)
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}
