package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultsAreValid(t *testing.T) {
	if err := Defaults().Validate(); err != nil {
		t.Fatal(err)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	if err != nil {
		t.Fatal(err)
	}
	if s.ServoConfig != "inmoov" || s.SampleRate != 24000 {
		t.Errorf("missing file gave %q/%d, want defaults", s.ServoConfig, s.SampleRate)
	}
}

func TestLoadMergesOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	body := `{"servo_config": "simple", "silence_timeout_ms": 750}`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if s.ServoConfig != "simple" {
		t.Errorf("servo_config = %q, want simple", s.ServoConfig)
	}
	if s.SilenceTimeout.Duration() != 750*time.Millisecond {
		t.Errorf("silence timeout = %v, want 750ms", s.SilenceTimeout.Duration())
	}
	// Untouched fields keep their defaults.
	if s.MaxThreshold != 0.25 {
		t.Errorf("max_threshold = %v, want default 0.25", s.MaxThreshold)
	}
}

func TestLoadRejectsMalformedJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	if err := os.WriteFile(path, []byte(`{"servo_config": `), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestValidate(t *testing.T) {
	cases := map[string]func(*Settings){
		"unknown profile":        func(s *Settings) { s.ServoConfig = "deluxe" },
		"jaw angle out of range": func(s *Settings) { s.JawOpenAngle = 200 },
		"jaw angles equal":       func(s *Settings) { s.JawCloseAngle = s.JawOpenAngle },
		"negative min change":    func(s *Settings) { s.JawServoMinChange = -1 },
		"zero sample rate":       func(s *Settings) { s.SampleRate = 0 },
		"zero smoothing window":  func(s *Settings) { s.SmoothingWindow = 0 },
		"inverted thresholds":    func(s *Settings) { s.MinThreshold = 0.5; s.MaxThreshold = 0.1 },
		"zero silence timeout":   func(s *Settings) { s.SilenceTimeout = 0 },
		"zero lost timeout":      func(s *Settings) { s.FaceLostTimeout = 0 },
		"inverted blink range":   func(s *Settings) { s.BlinkIntervalMin = 5000; s.BlinkIntervalMax = 1000 },
		"zero blink transition":  func(s *Settings) { s.BlinkCloseDuration = 0 },
	}
	for name, mutate := range cases {
		s := Defaults()
		mutate(&s)
		if err := s.Validate(); err == nil {
			t.Errorf("%s: expected validation error", name)
		}
	}
}

func TestMillisDuration(t *testing.T) {
	if got := Millis(1500).Duration(); got != 1500*time.Millisecond {
		t.Errorf("Duration() = %v, want 1.5s", got)
	}
}
