package audioio

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"gopkg.in/hraban/opus.v2"

	"github.com/elicazer/AIRobotAssistant/internal/log"
)

// Codec identifies the payload format of websocket audio frames.
type Codec string

const (
	CodecPCM16 Codec = "pcm16"
	CodecOpus  Codec = "opus"
)

// WSConfig configures the websocket audio source.
type WSConfig struct {
	// URL of the speech-synthesis client's audio stream.
	URL string

	// SampleRate of the decoded PCM stream.
	SampleRate int

	// Codec of incoming binary frames.
	Codec Codec

	// HandshakeTimeout bounds the initial dial.
	HandshakeTimeout time.Duration
}

// DefaultWSConfig returns defaults for a 24 kHz PCM16 stream.
func DefaultWSConfig(url string) WSConfig {
	return WSConfig{
		URL:              url,
		SampleRate:       24000,
		Codec:            CodecPCM16,
		HandshakeTimeout: 10 * time.Second,
	}
}

// WSSource receives speech audio over a websocket. Each binary message
// is one audio frame: raw little-endian PCM16, or an opus packet
// decoded to PCM16. Text messages are ignored. The connection closing
// is stream termination, reported to the reader as io.EOF.
type WSSource struct {
	cfg    WSConfig
	conn   *websocket.Conn
	dec    *opus.Decoder
	chunks chan Chunk
	done   chan struct{}
	once   sync.Once
}

// NewWSSource creates an unconnected websocket source.
func NewWSSource(cfg WSConfig) (*WSSource, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("websocket audio source needs a URL")
	}
	if cfg.SampleRate <= 0 {
		return nil, fmt.Errorf("sample rate must be positive, got %d", cfg.SampleRate)
	}

	s := &WSSource{
		cfg:    cfg,
		chunks: make(chan Chunk, 16),
		done:   make(chan struct{}),
	}
	if cfg.Codec == CodecOpus {
		dec, err := opus.NewDecoder(cfg.SampleRate, 1)
		if err != nil {
			return nil, fmt.Errorf("opus decoder: %w", err)
		}
		s.dec = dec
	}
	return s, nil
}

// Start dials the stream and begins reading frames.
func (s *WSSource) Start(ctx context.Context) error {
	dialer := websocket.Dialer{HandshakeTimeout: s.cfg.HandshakeTimeout}
	conn, _, err := dialer.DialContext(ctx, s.cfg.URL, nil)
	if err != nil {
		return fmt.Errorf("dial audio stream %s: %w", s.cfg.URL, err)
	}
	s.conn = conn

	log.Info("audio stream connected", "url", s.cfg.URL, "codec", string(s.cfg.Codec))
	go s.readLoop()
	return nil
}

// readLoop pushes decoded chunks until the connection drops.
func (s *WSSource) readLoop() {
	defer close(s.chunks)

	// Scratch buffer for opus; 120ms is the longest legal frame.
	var frame []int16
	if s.dec != nil {
		frame = make([]int16, s.cfg.SampleRate*120/1000)
	}

	for {
		msgType, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn("audio stream closed unexpectedly", "err", err)
			}
			return
		}
		if msgType != websocket.BinaryMessage || len(data) == 0 {
			continue
		}

		var chunk Chunk
		if s.dec != nil {
			n, err := s.dec.Decode(data, frame)
			if err != nil {
				log.Debug("opus decode failed, dropping frame", "err", err)
				continue
			}
			samples := make([]int16, n)
			copy(samples, frame[:n])
			chunk = Chunk{Samples: samples, SampleRate: s.cfg.SampleRate}
		} else {
			chunk = FromBytes(data, s.cfg.SampleRate)
		}

		select {
		case s.chunks <- chunk:
		case <-s.done:
			return
		}
	}
}

// Read returns the next decoded chunk, or io.EOF on stream end.
func (s *WSSource) Read(ctx context.Context) (Chunk, error) {
	select {
	case <-ctx.Done():
		return Chunk{}, ctx.Err()
	case <-s.done:
		return Chunk{}, io.EOF
	case chunk, ok := <-s.chunks:
		if !ok {
			return Chunk{}, io.EOF
		}
		return chunk, nil
	}
}

// Stop closes the connection and releases the stream.
func (s *WSSource) Stop() error {
	s.once.Do(func() {
		close(s.done)
		if s.conn != nil {
			s.conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			s.conn.Close()
		}
	})
	return nil
}
