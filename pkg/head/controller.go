package head

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/elicazer/AIRobotAssistant/internal/log"
	"github.com/elicazer/AIRobotAssistant/pkg/audioio"
	"github.com/elicazer/AIRobotAssistant/pkg/eyes"
	"github.com/elicazer/AIRobotAssistant/pkg/mouth"
	"github.com/elicazer/AIRobotAssistant/pkg/servo"
	"github.com/elicazer/AIRobotAssistant/pkg/vision"
)

// fallbackChunkPeriod stands in for the duration of a zero-length
// audio chunk so silence still accumulates toward the forced close.
const fallbackChunkPeriod = 20 * time.Millisecond

// Options wires a Controller.
type Options struct {
	// Sink is the shared actuator output surface. Required.
	Sink *servo.Sink

	// Audio is the speech audio input. Required.
	Audio audioio.Source

	// Faces is the face observation input. Nil disables face
	// tracking; the eyes hold neutral and only the blink loop runs.
	Faces vision.Source

	// Component tuning.
	Mouth           mouth.Config
	Eyes            eyes.Config
	SmoothingWindow int

	// BlinkTick is the blink state machine update period.
	BlinkTick time.Duration

	// OnEvent receives lifecycle events. Optional; must not block.
	OnEvent func(Event)
}

// Controller owns the three producer loops. Producers never block each
// other and write disjoint channel sets: the mouth loop owns the jaw,
// the eye loop owns the X/Y axes, the blink loop owns the lids.
type Controller struct {
	opts Options

	analyzer *mouth.Analyzer
	animator *mouth.Animator
	mapper   *eyes.Mapper
	blink    *eyes.Scheduler

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New builds a controller and wires component callbacks into the
// event stream.
func New(opts Options) (*Controller, error) {
	if opts.Sink == nil {
		return nil, fmt.Errorf("head controller needs a sink")
	}
	if opts.Audio == nil {
		return nil, fmt.Errorf("head controller needs an audio source")
	}
	if opts.SmoothingWindow < 1 {
		opts.SmoothingWindow = 3
	}
	if opts.BlinkTick <= 0 {
		opts.BlinkTick = 20 * time.Millisecond
	}

	profile := opts.Sink.Profile()
	c := &Controller{
		opts:     opts,
		analyzer: mouth.NewAnalyzer(opts.SmoothingWindow),
		animator: mouth.NewAnimator(opts.Mouth),
		mapper:   eyes.NewMapper(profile, opts.Eyes),
		blink:    eyes.NewScheduler(profile, opts.Eyes),
	}

	c.animator.OnSpeech = func(speaking bool) {
		if speaking {
			c.emit(SpeechStarted)
		} else {
			c.emit(SpeechEnded)
		}
	}
	c.mapper.OnFace = func(acquired bool) {
		if acquired {
			c.emit(FaceAcquired)
		} else {
			c.emit(FaceLost)
		}
	}
	c.blink.OnBlink = func(started bool) {
		if started {
			c.emit(BlinkStarted)
		} else {
			c.emit(BlinkEnded)
		}
	}
	return c, nil
}

// Run starts the producer loops and blocks until the context is
// cancelled or an input stream terminates. On the way out it releases
// both input streams and leaves the head in the rest pose: jaw closed,
// eyes centered, lids open.
func (c *Controller) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	defer cancel()

	if err := c.opts.Audio.Start(ctx); err != nil {
		return fmt.Errorf("start audio source: %w", err)
	}

	log.Info("head controller started",
		"profile", c.opts.Sink.Profile().Name,
		"face_tracking", c.opts.Faces != nil)

	c.wg.Add(2)
	go c.mouthLoop(ctx)
	go c.blinkLoop(ctx)
	if c.opts.Faces != nil {
		c.wg.Add(1)
		go c.eyeLoop(ctx)
	}

	c.wg.Wait()

	c.opts.Audio.Stop()
	if c.opts.Faces != nil {
		c.opts.Faces.Close()
	}

	c.opts.Sink.Rest()
	log.Info("head controller stopped, rest pose applied")
	return nil
}

// Stop cancels the running loops. Safe to call from any goroutine.
func (c *Controller) Stop() {
	if c.cancel != nil {
		c.cancel()
	}
}

// ForceCloseEyes triggers an immediate blink Closing transition, the
// manual "close eyes" override from the control surface.
func (c *Controller) ForceCloseEyes() {
	c.blink.ForceClose(time.Now())
}

// Speaking reports whether speech is currently detected on the audio
// stream.
func (c *Controller) Speaking() bool {
	return c.animator.Speaking()
}

// mouthLoop consumes audio chunks and drives the jaw channel.
func (c *Controller) mouthLoop(ctx context.Context) {
	defer c.wg.Done()

	for {
		chunk, err := c.opts.Audio.Read(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) {
				log.Info("audio stream ended, shutting down")
				c.cancel()
			}
			return
		}

		dt := chunk.Duration()
		if dt <= 0 {
			dt = fallbackChunkPeriod
		}

		raw, smoothed := c.analyzer.Process(chunk.Samples)
		if angle, emit := c.animator.Update(raw, smoothed, dt); emit {
			// Write failures are logged by the sink and re-sent on
			// the next change; the loop never stops for them.
			_ = c.opts.Sink.SetAngle(servo.Jaw, angle)
		}
	}
}

// eyeLoop consumes face observations and drives the eye axis channels.
func (c *Controller) eyeLoop(ctx context.Context) {
	defer c.wg.Done()

	for {
		obs, err := c.opts.Faces.Next(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) {
				log.Info("face stream ended, shutting down")
				c.cancel()
			}
			return
		}

		for _, cmd := range c.mapper.Observe(obs) {
			_ = c.opts.Sink.SetAngle(cmd.Channel, float64(cmd.Angle))
		}
	}
}

// blinkLoop ticks the blink state machine and drives the lid channels.
func (c *Controller) blinkLoop(ctx context.Context) {
	defer c.wg.Done()

	ticker := time.NewTicker(c.opts.BlinkTick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			for _, cmd := range c.blink.Tick(now) {
				_ = c.opts.Sink.SetAngle(cmd.Channel, float64(cmd.Angle))
			}
		}
	}
}

// emit forwards a lifecycle event to the configured listener.
func (c *Controller) emit(kind EventKind) {
	log.Debug("lifecycle event", "kind", kind.String())
	if c.opts.OnEvent != nil {
		c.opts.OnEvent(Event{Kind: kind, At: time.Now()})
	}
}
