package vision

import (
	"context"
	"io"
	"sync"
	"time"
)

// Source delivers face observations to the eye loop, one per frame.
type Source interface {
	// Next blocks until the next observation is available.
	// Returns io.EOF when the stream has terminated.
	Next(ctx context.Context) (Observation, error)

	// Close releases the underlying camera or stream.
	Close() error
}

// MockSource replays scripted observations at a fixed frame interval.
// Used in tests and by the virtual robot when no camera is attached.
type MockSource struct {
	mu       sync.Mutex
	frames   []Observation
	idx      int
	interval time.Duration
	loop     bool
	closed   chan struct{}
	once     sync.Once
}

// NewMockSource creates a source replaying the given frames.
// If loop is true the script repeats forever; otherwise Next returns
// io.EOF after the last frame.
func NewMockSource(frames []Observation, interval time.Duration, loop bool) *MockSource {
	return &MockSource{
		frames:   frames,
		interval: interval,
		loop:     loop,
		closed:   make(chan struct{}),
	}
}

// Next returns the next scripted observation after the frame interval.
func (m *MockSource) Next(ctx context.Context) (Observation, error) {
	select {
	case <-ctx.Done():
		return Observation{}, ctx.Err()
	case <-m.closed:
		return Observation{}, io.EOF
	case <-time.After(m.interval):
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.idx >= len(m.frames) {
		if !m.loop || len(m.frames) == 0 {
			return Observation{}, io.EOF
		}
		m.idx = 0
	}
	obs := m.frames[m.idx]
	m.idx++
	if obs.At.IsZero() {
		obs.At = time.Now()
	}
	return obs, nil
}

// Close stops the source; pending and future Next calls return io.EOF.
func (m *MockSource) Close() error {
	m.once.Do(func() { close(m.closed) })
	return nil
}
