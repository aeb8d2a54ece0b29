// Animatronic head controller: speech-synchronized jaw, face-following
// eyes, and autonomous blinking over one actuator bus.
package main

import (
	"context"
	"flag"
	"os/signal"
	"syscall"
	"time"

	"github.com/elicazer/AIRobotAssistant/internal/config"
	"github.com/elicazer/AIRobotAssistant/internal/log"
	"github.com/elicazer/AIRobotAssistant/pkg/audioio"
	"github.com/elicazer/AIRobotAssistant/pkg/eyes"
	"github.com/elicazer/AIRobotAssistant/pkg/head"
	"github.com/elicazer/AIRobotAssistant/pkg/mouth"
	"github.com/elicazer/AIRobotAssistant/pkg/servo"
	"github.com/elicazer/AIRobotAssistant/pkg/vision"
	"github.com/elicazer/AIRobotAssistant/pkg/web"
)

func main() {
	settingsPath := flag.String("settings", "config/voice_assistant_settings.json", "Settings file path")
	audioURL := flag.String("audio-url", "", "Websocket URL of the speech audio stream (overrides settings)")
	modelPath := flag.String("face-model", "", "Path to the YuNet ONNX face model (overrides default)")
	flag.Parse()

	settings, err := config.Load(*settingsPath)
	if err != nil {
		log.Fatal("configuration error", "err", err)
	}
	log.Init(settings.LogLevel)

	if *audioURL != "" {
		settings.AudioURL = *audioURL
	}

	profile, err := servo.ProfileByName(settings.ServoConfig)
	if err != nil {
		log.Fatal("configuration error", "err", err)
	}

	// No hardware bus in this build: the virtual writer accepts every
	// command and the control panel renders the pose stream.
	sink := servo.NewSink(profile, servo.VirtualWriter{})

	audio := buildAudioSource(settings)
	faces := buildFaceSource(settings, *modelPath)

	panel := web.NewServer(settings.WebPort, sink)
	sink.OnCommand(panel.PublishCommand)

	controller, err := head.New(head.Options{
		Sink:            sink,
		Audio:           audio,
		Faces:           faces,
		Mouth:           mouthConfig(settings),
		Eyes:            eyesConfig(settings),
		SmoothingWindow: settings.SmoothingWindow,
		OnEvent:         panel.PublishEvent,
	})
	if err != nil {
		log.Fatal("wiring error", "err", err)
	}
	panel.OnCloseEyes = controller.ForceCloseEyes

	go func() {
		if err := panel.Start(); err != nil {
			log.Error("control panel stopped", "err", err)
		}
	}()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := controller.Run(ctx); err != nil {
		log.Error("controller error", "err", err)
	}
	panel.Shutdown()
}

// buildAudioSource connects the websocket speech stream, or falls back
// to a silent mock source when no URL is configured.
func buildAudioSource(s config.Settings) audioio.Source {
	if s.AudioURL == "" {
		log.Warn("no audio_url configured, using silent mock audio")
		return audioio.NewMockSource(silence(s.SampleRate, time.Hour), true)
	}
	src, err := audioio.NewWSSource(audioio.WSConfig{
		URL:              s.AudioURL,
		SampleRate:       s.SampleRate,
		Codec:            audioio.CodecPCM16,
		HandshakeTimeout: 10 * time.Second,
	})
	if err != nil {
		log.Fatal("audio source error", "err", err)
	}
	return src
}

// buildFaceSource opens the camera and face detector when tracking is
// enabled. A missing camera or model degrades to no tracking.
func buildFaceSource(s config.Settings, modelPath string) vision.Source {
	if !s.FaceTrackingEnabled {
		return nil
	}

	detCfg := vision.DefaultYuNetConfig()
	if modelPath != "" {
		detCfg.ModelPath = modelPath
	}
	detector, err := vision.NewYuNet(detCfg)
	if err != nil {
		log.Warn("face detector unavailable, tracking disabled", "err", err)
		return nil
	}

	cam, err := vision.OpenCamera(s.CameraIndex, detector, 33*time.Millisecond)
	if err != nil {
		detector.Close()
		log.Warn("camera unavailable, tracking disabled", "err", err)
		return nil
	}
	return cam
}

func mouthConfig(s config.Settings) mouth.Config {
	cfg := mouth.DefaultConfig()
	cfg.MinThreshold = s.MinThreshold
	cfg.MaxThreshold = s.MaxThreshold
	cfg.OpenAngle = s.JawOpenAngle
	cfg.CloseAngle = s.JawCloseAngle
	cfg.MinChange = s.JawServoMinChange
	cfg.SilenceTimeout = s.SilenceTimeout.Duration()
	return cfg
}

func eyesConfig(s config.Settings) eyes.Config {
	cfg := eyes.DefaultConfig()
	cfg.FaceLostTimeout = s.FaceLostTimeout.Duration()
	cfg.MinChange = s.EyeMinChange
	cfg.BlinkIntervalMin = s.BlinkIntervalMin.Duration()
	cfg.BlinkIntervalMax = s.BlinkIntervalMax.Duration()
	cfg.BlinkClose = s.BlinkCloseDuration.Duration()
	cfg.BlinkHold = s.BlinkHoldDuration.Duration()
	cfg.BlinkOpen = s.BlinkOpenDuration.Duration()
	return cfg
}

// silence produces realtime-paced empty chunks so the mouth loop keeps
// ticking (and the jaw stays closed) without a live stream.
func silence(sampleRate int, total time.Duration) []audioio.Chunk {
	chunk := audioio.Chunk{Samples: make([]int16, sampleRate/50), SampleRate: sampleRate}
	n := int(total / chunk.Duration())
	chunks := make([]audioio.Chunk, n)
	for i := range chunks {
		chunks[i] = chunk
	}
	return chunks
}
