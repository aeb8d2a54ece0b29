// Package audioio provides the speech audio input boundary: PCM16
// chunks, the source interface, a websocket source fed by the
// speech-synthesis client, and a mock source for tests.
package audioio

import "time"

// Chunk is one fixed-size buffer of mono PCM16 audio.
type Chunk struct {
	Samples    []int16
	SampleRate int
}

// Duration returns the playback duration of the chunk.
func (c Chunk) Duration() time.Duration {
	if c.SampleRate <= 0 {
		return 0
	}
	return time.Duration(float64(len(c.Samples)) / float64(c.SampleRate) * float64(time.Second))
}

// FromBytes decodes little-endian PCM16 bytes into a chunk.
// A trailing odd byte is dropped; a malformed buffer therefore
// degrades to silence rather than erroring.
func FromBytes(data []byte, sampleRate int) Chunk {
	samples := make([]int16, len(data)/2)
	for i := range samples {
		samples[i] = int16(data[i*2]) | int16(data[i*2+1])<<8
	}
	return Chunk{Samples: samples, SampleRate: sampleRate}
}

// Bytes encodes the chunk as little-endian PCM16.
func (c Chunk) Bytes() []byte {
	buf := make([]byte, len(c.Samples)*2)
	for i, s := range c.Samples {
		buf[i*2] = byte(s)
		buf[i*2+1] = byte(s >> 8)
	}
	return buf
}
