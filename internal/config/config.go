// Package config loads and validates the head controller settings.
//
// Settings live in a JSON file (historically voice_assistant_settings.json)
// merged over compiled-in defaults. Validation happens once at load time:
// a bad angle range or an unknown servo profile refuses to start rather
// than animate with undefined limits.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Settings holds every tunable the control loops read.
// All fields are read-only after Load returns.
type Settings struct {
	LogLevel string `json:"log_level"`

	// Servo layout
	ServoConfig string `json:"servo_config"` // inmoov, original or simple

	// Jaw animation
	JawOpenAngle      float64 `json:"jaw_open_angle"`
	JawCloseAngle     float64 `json:"jaw_close_angle"`
	JawServoMinChange float64 `json:"jaw_servo_min_change"`

	// Audio analysis
	SampleRate      int     `json:"sample_rate"`
	SmoothingWindow int     `json:"smoothing_window"`
	MinThreshold    float64 `json:"min_threshold"`
	MaxThreshold    float64 `json:"max_threshold"`
	SilenceTimeout  Millis  `json:"silence_timeout_ms"`

	// Face tracking
	FaceTrackingEnabled bool   `json:"face_tracking_enabled"`
	CameraIndex         int    `json:"camera_index"`
	FaceLostTimeout     Millis `json:"face_lost_timeout_ms"`
	EyeMinChange        float64 `json:"eye_min_change"`

	// Blinking
	BlinkIntervalMin   Millis `json:"blink_interval_min_ms"`
	BlinkIntervalMax   Millis `json:"blink_interval_max_ms"`
	BlinkCloseDuration Millis `json:"blink_close_ms"`
	BlinkHoldDuration  Millis `json:"blink_hold_ms"`
	BlinkOpenDuration  Millis `json:"blink_open_ms"`

	// External surfaces
	WebPort  string `json:"web_port"`
	AudioURL string `json:"audio_url"` // websocket source of speech audio, empty = mock
}

// Millis is a duration stored as integer milliseconds in JSON.
type Millis int

// Duration converts the setting to a time.Duration.
func (m Millis) Duration() time.Duration {
	return time.Duration(m) * time.Millisecond
}

// Defaults returns the compiled-in settings, matching the reference
// tuning for a 24 kHz speech stream and an InMoov head.
func Defaults() Settings {
	return Settings{
		LogLevel: "info",

		ServoConfig: "inmoov",

		JawOpenAngle:      100,
		JawCloseAngle:     0,
		JawServoMinChange: 2,

		SampleRate:      24000,
		SmoothingWindow: 3,
		MinThreshold:    0.015,
		MaxThreshold:    0.25,
		SilenceTimeout:  500,

		FaceTrackingEnabled: true,
		CameraIndex:         0,
		FaceLostTimeout:     2000,
		EyeMinChange:        1,

		BlinkIntervalMin:   3000,
		BlinkIntervalMax:   8000,
		BlinkCloseDuration: 100,
		BlinkHoldDuration:  150,
		BlinkOpenDuration:  150,

		WebPort: "8080",
	}
}

// Load reads settings from path, merging over Defaults.
// A missing file is not an error; an unreadable or invalid one is.
func Load(path string) (Settings, error) {
	s := Defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return s, fmt.Errorf("read settings: %w", err)
			}
		} else if err := json.Unmarshal(data, &s); err != nil {
			return s, fmt.Errorf("parse settings %s: %w", path, err)
		}
	}

	if err := s.Validate(); err != nil {
		return s, err
	}
	return s, nil
}

// Validate checks every range the animation loops depend on.
func (s Settings) Validate() error {
	switch s.ServoConfig {
	case "inmoov", "original", "simple":
	default:
		return fmt.Errorf("unknown servo_config %q (want inmoov, original or simple)", s.ServoConfig)
	}

	if s.JawOpenAngle < 0 || s.JawOpenAngle > 180 {
		return fmt.Errorf("jaw_open_angle %.1f outside 0-180", s.JawOpenAngle)
	}
	if s.JawCloseAngle < 0 || s.JawCloseAngle > 180 {
		return fmt.Errorf("jaw_close_angle %.1f outside 0-180", s.JawCloseAngle)
	}
	if s.JawOpenAngle == s.JawCloseAngle {
		return fmt.Errorf("jaw_open_angle and jaw_close_angle are both %.1f", s.JawOpenAngle)
	}
	if s.JawServoMinChange < 0 {
		return fmt.Errorf("jaw_servo_min_change %.1f is negative", s.JawServoMinChange)
	}

	if s.SampleRate <= 0 {
		return fmt.Errorf("sample_rate must be positive, got %d", s.SampleRate)
	}
	if s.SmoothingWindow < 1 {
		return fmt.Errorf("smoothing_window must be at least 1, got %d", s.SmoothingWindow)
	}
	if s.MinThreshold < 0 || s.MaxThreshold > 1 || s.MinThreshold >= s.MaxThreshold {
		return fmt.Errorf("amplitude thresholds %.3f-%.3f invalid (want 0 <= min < max <= 1)",
			s.MinThreshold, s.MaxThreshold)
	}
	if s.SilenceTimeout <= 0 {
		return fmt.Errorf("silence_timeout_ms must be positive, got %d", s.SilenceTimeout)
	}

	if s.FaceLostTimeout <= 0 {
		return fmt.Errorf("face_lost_timeout_ms must be positive, got %d", s.FaceLostTimeout)
	}
	if s.EyeMinChange < 0 {
		return fmt.Errorf("eye_min_change %.1f is negative", s.EyeMinChange)
	}

	if s.BlinkIntervalMin <= 0 || s.BlinkIntervalMax < s.BlinkIntervalMin {
		return fmt.Errorf("blink interval %d-%d ms invalid", s.BlinkIntervalMin, s.BlinkIntervalMax)
	}
	if s.BlinkCloseDuration <= 0 || s.BlinkHoldDuration <= 0 || s.BlinkOpenDuration <= 0 {
		return fmt.Errorf("blink transition durations must be positive")
	}

	return nil
}
