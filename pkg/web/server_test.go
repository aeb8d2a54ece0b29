package web

import (
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/elicazer/AIRobotAssistant/pkg/head"
	"github.com/elicazer/AIRobotAssistant/pkg/servo"
)

func newTestServer(t *testing.T) (*Server, *servo.Sink) {
	t.Helper()
	profile, err := servo.ProfileByName("inmoov")
	if err != nil {
		t.Fatal(err)
	}
	sink := servo.NewSink(profile, servo.NewMockWriter())
	return NewServer("0", sink), sink
}

func TestSnapshot(t *testing.T) {
	s, sink := newTestServer(t)
	sink.SetAngle(servo.Jaw, 42)

	snap := s.Snapshot()
	if snap.Profile != "inmoov" {
		t.Errorf("profile = %q, want inmoov", snap.Profile)
	}
	if snap.Pose["jaw"] != 42 {
		t.Errorf("pose jaw = %d, want 42", snap.Pose["jaw"])
	}
	if snap.Speaking {
		t.Error("speaking before any event")
	}
	if snap.Clients != 0 {
		t.Errorf("clients = %d, want 0", snap.Clients)
	}
}

func TestPublishEventTracksSpeaking(t *testing.T) {
	s, _ := newTestServer(t)
	now := time.Now()

	s.PublishEvent(head.Event{Kind: head.SpeechStarted, At: now})
	if !s.Snapshot().Speaking {
		t.Error("speaking not set after speech started")
	}

	// Unrelated events leave the flag alone.
	s.PublishEvent(head.Event{Kind: head.BlinkStarted, At: now})
	if !s.Snapshot().Speaking {
		t.Error("blink event cleared the speaking flag")
	}

	s.PublishEvent(head.Event{Kind: head.SpeechEnded, At: now})
	if s.Snapshot().Speaking {
		t.Error("speaking still set after speech ended")
	}
}

func TestStatusEndpoint(t *testing.T) {
	s, sink := newTestServer(t)
	sink.SetAngle(servo.Jaw, 30)

	resp, err := s.app.Test(httptest.NewRequest("GET", "/api/status", nil))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != 200 {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var status Status
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		t.Fatal(err)
	}
	if status.Profile != "inmoov" || status.Pose["jaw"] != 30 {
		t.Errorf("status = %+v, want inmoov with jaw 30", status)
	}
}

func TestCloseEyesEndpoint(t *testing.T) {
	s, _ := newTestServer(t)

	// Not wired yet: the override is unavailable.
	resp, err := s.app.Test(httptest.NewRequest("POST", "/api/eyes/close", nil))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != 503 {
		t.Errorf("unwired override status = %d, want 503", resp.StatusCode)
	}

	called := false
	s.OnCloseEyes = func() { called = true }
	resp, err = s.app.Test(httptest.NewRequest("POST", "/api/eyes/close", nil))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != 200 || !called {
		t.Errorf("override status = %d, called = %v", resp.StatusCode, called)
	}
}

func TestMessageEncode(t *testing.T) {
	msg := Message{Type: "angle", Data: servo.AngleCommand{Channel: servo.Jaw, Angle: 45}}
	payload, err := msg.Encode()
	if err != nil {
		t.Fatal(err)
	}

	var decoded struct {
		Type string `json:"type"`
		Data struct {
			Channel servo.Channel `json:"channel"`
			Angle   int           `json:"angle"`
		} `json:"data"`
	}
	if err := json.Unmarshal(payload, &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded.Type != "angle" || decoded.Data.Angle != 45 {
		t.Errorf("decoded %+v, want angle 45", decoded)
	}
}
