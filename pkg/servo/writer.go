package servo

import (
	"fmt"
	"sync"
)

// Writer is the single interface to the external actuator surface.
// Implementations drive a physical PWM bus or a simulated pose; the
// sink is the only caller.
type Writer interface {
	// Write commands one servo pin to an angle in degrees.
	Write(pin int, angle int) error
}

// VirtualWriter is the simulated actuator surface: every write
// succeeds and the pose is observable through the sink's command
// observer. Used when no hardware bus is attached.
type VirtualWriter struct{}

// Write accepts the command without side effects.
func (VirtualWriter) Write(pin int, angle int) error { return nil }

// PinAngle records one physical write for inspection in tests.
type PinAngle struct {
	Pin   int
	Angle int
}

// MockWriter records every write and can simulate bus failures.
type MockWriter struct {
	mu       sync.Mutex
	writes   []PinAngle
	failures map[int]int // pin -> remaining injected failures
}

// NewMockWriter creates an empty mock writer.
func NewMockWriter() *MockWriter {
	return &MockWriter{failures: make(map[int]int)}
}

// Write records the command, or fails if a failure was injected for the pin.
func (w *MockWriter) Write(pin int, angle int) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if n := w.failures[pin]; n > 0 {
		w.failures[pin] = n - 1
		return fmt.Errorf("mock bus failure on pin %d", pin)
	}

	w.writes = append(w.writes, PinAngle{Pin: pin, Angle: angle})
	return nil
}

// FailNext makes the next n writes to pin fail.
func (w *MockWriter) FailNext(pin, n int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.failures[pin] = n
}

// Writes returns a copy of all recorded writes in order.
func (w *MockWriter) Writes() []PinAngle {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]PinAngle, len(w.writes))
	copy(out, w.writes)
	return out
}

// WritesTo returns the recorded writes for one pin, in order.
func (w *MockWriter) WritesTo(pin int) []PinAngle {
	w.mu.Lock()
	defer w.mu.Unlock()
	var out []PinAngle
	for _, pa := range w.writes {
		if pa.Pin == pin {
			out = append(out, pa)
		}
	}
	return out
}

// LastTo returns the last angle written to pin, or -1 if none.
func (w *MockWriter) LastTo(pin int) int {
	writes := w.WritesTo(pin)
	if len(writes) == 0 {
		return -1
	}
	return writes[len(writes)-1].Angle
}
