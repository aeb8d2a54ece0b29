package head

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/elicazer/AIRobotAssistant/pkg/audioio"
	"github.com/elicazer/AIRobotAssistant/pkg/eyes"
	"github.com/elicazer/AIRobotAssistant/pkg/mouth"
	"github.com/elicazer/AIRobotAssistant/pkg/servo"
	"github.com/elicazer/AIRobotAssistant/pkg/vision"
)

// eventRecorder collects lifecycle events across producer goroutines.
type eventRecorder struct {
	mu    sync.Mutex
	kinds []EventKind
}

func (r *eventRecorder) record(ev Event) {
	r.mu.Lock()
	r.kinds = append(r.kinds, ev.Kind)
	r.mu.Unlock()
}

func (r *eventRecorder) saw(kind EventKind) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, k := range r.kinds {
		if k == kind {
			return true
		}
	}
	return false
}

func loudChunk() audioio.Chunk {
	samples := make([]int16, 480) // 20ms at 24kHz
	for i := range samples {
		samples[i] = 16384
	}
	return audioio.Chunk{Samples: samples, SampleRate: 24000}
}

func testMouthConfig() mouth.Config {
	cfg := mouth.DefaultConfig()
	cfg.OpenStep = 100 // full traverse per chunk, keeps the script short
	cfg.SilenceTimeout = time.Hour
	return cfg
}

func testEyesConfig() eyes.Config {
	cfg := eyes.DefaultConfig()
	// Blinks stay out of the way unless forced.
	cfg.BlinkIntervalMin = time.Hour
	cfg.BlinkIntervalMax = time.Hour
	return cfg
}

func TestNewValidation(t *testing.T) {
	profile, _ := servo.ProfileByName("inmoov")
	sink := servo.NewSink(profile, servo.NewMockWriter())

	if _, err := New(Options{Audio: audioio.NewMockSource(nil, false)}); err == nil {
		t.Error("expected error without a sink")
	}
	if _, err := New(Options{Sink: sink}); err == nil {
		t.Error("expected error without an audio source")
	}
}

func TestControllerRunToRestPose(t *testing.T) {
	profile, _ := servo.ProfileByName("inmoov")
	writer := servo.NewMockWriter()
	sink := servo.NewSink(profile, writer)

	// Real-time pacing keeps the audio script alive long enough for the
	// 1ms face frame to be observed before EOF tears everything down.
	audio := audioio.NewMockSource([]audioio.Chunk{loudChunk(), loudChunk()}, true)
	// The face script loops so only the audio EOF ends the run.
	faces := vision.NewMockSource([]vision.Observation{
		{Faces: []vision.Detection{{X: 0.1, Y: 0.4, W: 0.2, H: 0.2, Confidence: 0.9}}},
	}, time.Millisecond, true)

	rec := &eventRecorder{}
	ctrl, err := New(Options{
		Sink:            sink,
		Audio:           audio,
		Faces:           faces,
		Mouth:           testMouthConfig(),
		Eyes:            testEyesConfig(),
		SmoothingWindow: 1,
		BlinkTick:       5 * time.Millisecond,
		OnEvent:         rec.record,
	})
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Both scripts are finite; their EOF shuts the whole controller down.
	if err := ctrl.Run(ctx); err != nil {
		t.Fatal(err)
	}

	if !rec.saw(SpeechStarted) {
		t.Error("loud audio never raised a speech started event")
	}
	if !rec.saw(FaceAcquired) {
		t.Error("face frame never raised a face acquired event")
	}

	// Rest pose: jaw closed, eyes at their resting angles, lids open.
	if got, _ := sink.LastAngle(servo.Jaw); got != 0 {
		t.Errorf("jaw after shutdown = %d, want 0", got)
	}
	if got, _ := sink.LastAngle(servo.LeftEyeX); got != 90 {
		t.Errorf("left eye x after shutdown = %d, want resting 90", got)
	}
	if got, _ := sink.LastAngle(servo.LeftUpperLid); got != 70 {
		t.Errorf("left upper lid after shutdown = %d, want open 70", got)
	}

	// The jaw must have been driven open before the rest pose closed it.
	opened := false
	for _, w := range writer.WritesTo(8) {
		if w.Angle > 0 {
			opened = true
		}
	}
	if !opened {
		t.Error("jaw never opened during the loud script")
	}
}

func TestControllerWithoutFaceTracking(t *testing.T) {
	profile, _ := servo.ProfileByName("simple")
	sink := servo.NewSink(profile, servo.NewMockWriter())

	ctrl, err := New(Options{
		Sink:      sink,
		Audio:     audioio.NewMockSource(nil, false), // immediate EOF
		Mouth:     testMouthConfig(),
		Eyes:      testEyesConfig(),
		BlinkTick: 5 * time.Millisecond,
	})
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := ctrl.Run(ctx); err != nil {
		t.Fatal(err)
	}

	if got, _ := sink.LastAngle(servo.Jaw); got != 0 {
		t.Errorf("jaw after shutdown = %d, want 0", got)
	}
}

func TestControllerForceCloseEyes(t *testing.T) {
	profile, _ := servo.ProfileByName("inmoov")
	sink := servo.NewSink(profile, servo.NewMockWriter())

	rec := &eventRecorder{}
	ctrl, err := New(Options{
		Sink:    sink,
		Audio:   audioio.NewMockSource(nil, false),
		Mouth:   testMouthConfig(),
		Eyes:    testEyesConfig(),
		OnEvent: rec.record,
	})
	if err != nil {
		t.Fatal(err)
	}

	ctrl.ForceCloseEyes()
	if !rec.saw(BlinkStarted) {
		t.Error("forced eye close never raised a blink started event")
	}
}

func TestEventKindString(t *testing.T) {
	kinds := []EventKind{SpeechStarted, SpeechEnded, BlinkStarted, BlinkEnded, FaceAcquired, FaceLost}
	seen := map[string]bool{}
	for _, k := range kinds {
		s := k.String()
		if s == "" || s == "unknown" || seen[s] {
			t.Errorf("EventKind %d has bad name %q", k, s)
		}
		seen[s] = true
	}
}
