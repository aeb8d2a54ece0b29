package audioio

import (
	"context"
	"io"
	"sync"
	"time"
)

// Source delivers speech audio chunks to the mouth loop.
type Source interface {
	// Start begins delivery. Must be called before Read.
	Start(ctx context.Context) error

	// Read blocks until the next chunk is available.
	// Returns io.EOF when the stream has terminated.
	Read(ctx context.Context) (Chunk, error)

	// Stop halts delivery and releases the stream.
	// Safe to call more than once.
	Stop() error
}

// MockSource replays scripted chunks at their real-time pace (or as
// fast as the reader can take them when realtime is off).
type MockSource struct {
	mu       sync.Mutex
	chunks   []Chunk
	idx      int
	realtime bool
	closed   chan struct{}
	once     sync.Once
}

// NewMockSource creates a source replaying the given chunks in order.
func NewMockSource(chunks []Chunk, realtime bool) *MockSource {
	return &MockSource{
		chunks:   chunks,
		realtime: realtime,
		closed:   make(chan struct{}),
	}
}

// Start is a no-op for the mock.
func (m *MockSource) Start(ctx context.Context) error { return nil }

// Read returns the next scripted chunk, pacing to its duration when
// realtime is enabled, and io.EOF once the script is exhausted.
func (m *MockSource) Read(ctx context.Context) (Chunk, error) {
	m.mu.Lock()
	if m.idx >= len(m.chunks) {
		m.mu.Unlock()
		return Chunk{}, io.EOF
	}
	chunk := m.chunks[m.idx]
	m.idx++
	m.mu.Unlock()

	if m.realtime {
		select {
		case <-ctx.Done():
			return Chunk{}, ctx.Err()
		case <-m.closed:
			return Chunk{}, io.EOF
		case <-time.After(chunk.Duration()):
		}
	} else {
		select {
		case <-ctx.Done():
			return Chunk{}, ctx.Err()
		case <-m.closed:
			return Chunk{}, io.EOF
		default:
		}
	}
	return chunk, nil
}

// Stop ends the script early.
func (m *MockSource) Stop() error {
	m.once.Do(func() { close(m.closed) })
	return nil
}
