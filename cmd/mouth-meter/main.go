// Console amplitude meter: feeds a speech audio stream through the
// mouth analyzer/animator and prints the live opening bar and viseme.
// Useful for tuning thresholds without a servo rig attached.
package main

import (
	"context"
	"flag"
	"fmt"
	"math"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/elicazer/AIRobotAssistant/internal/log"
	"github.com/elicazer/AIRobotAssistant/pkg/audioio"
	"github.com/elicazer/AIRobotAssistant/pkg/mouth"
)

func main() {
	audioURL := flag.String("audio-url", "", "Websocket URL of the speech audio stream (empty = synthetic sweep)")
	sampleRate := flag.Int("sample-rate", 24000, "Sample rate of the stream")
	flag.Parse()

	log.Init("warn")

	var source audioio.Source
	if *audioURL != "" {
		src, err := audioio.NewWSSource(audioio.WSConfig{
			URL:              *audioURL,
			SampleRate:       *sampleRate,
			Codec:            audioio.CodecPCM16,
			HandshakeTimeout: 10 * time.Second,
		})
		if err != nil {
			log.Fatal("audio source error", "err", err)
		}
		source = src
	} else {
		source = audioio.NewMockSource(sweep(*sampleRate), true)
	}

	analyzer := mouth.NewAnalyzer(3)
	animator := mouth.NewAnimator(mouth.DefaultConfig())

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := source.Start(ctx); err != nil {
		log.Fatal("start audio", "err", err)
	}
	defer source.Stop()

	fmt.Println("Listening... Ctrl+C to stop")
	for {
		chunk, err := source.Read(ctx)
		if err != nil {
			fmt.Println()
			return
		}
		raw, smoothed := analyzer.Process(chunk.Samples)
		animator.Update(raw, smoothed, chunk.Duration())

		opening := animator.Opening()
		bar := strings.Repeat("#", int(opening/5))
		fmt.Printf("\ramp %.3f  open %5.1f%% [%-20s] %-11s", smoothed, opening, bar, mouth.Viseme(opening))
	}
}

// sweep generates 10 seconds of loudness ramping up and down, enough
// to watch every viseme bucket go by.
func sweep(sampleRate int) []audioio.Chunk {
	const chunks = 250
	size := sampleRate / 25 // 40ms per chunk
	out := make([]audioio.Chunk, chunks)
	for i := range out {
		// Triangle loudness envelope over the run.
		phase := float64(i) / chunks
		level := 1 - math.Abs(2*phase-1)
		amp := level * 0.3 * 32767

		samples := make([]int16, size)
		for j := range samples {
			samples[j] = int16(amp * math.Sin(2*math.Pi*220*float64(j)/float64(sampleRate)))
		}
		out[i] = audioio.Chunk{Samples: samples, SampleRate: sampleRate}
	}
	return out
}
