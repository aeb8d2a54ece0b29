package vision

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"gocv.io/x/gocv"

	"github.com/elicazer/AIRobotAssistant/internal/log"
)

// CameraSource captures frames from a local camera and runs the face
// detector on each one, producing one Observation per frame.
//
// A frame with no faces, a capture hiccup, or a detector error all
// degrade to an empty observation; the eye loop falls back to its
// neutral pose, it never crashes.
type CameraSource struct {
	cap      *gocv.VideoCapture
	detector Detector
	interval time.Duration

	mu     sync.Mutex
	frame  gocv.Mat
	closed bool
}

// OpenCamera opens the camera at index and pairs it with a detector.
// interval is the frame period (e.g. 33ms for ~30 FPS).
func OpenCamera(index int, detector Detector, interval time.Duration) (*CameraSource, error) {
	cap, err := gocv.OpenVideoCapture(index)
	if err != nil {
		return nil, fmt.Errorf("open camera %d: %w", index, err)
	}
	cap.Set(gocv.VideoCaptureFrameWidth, 640)
	cap.Set(gocv.VideoCaptureFrameHeight, 480)

	log.Info("camera opened", "index", index, "interval", interval)
	return &CameraSource{
		cap:      cap,
		detector: detector,
		interval: interval,
		frame:    gocv.NewMat(),
	}, nil
}

// Next captures one frame, detects faces and returns the observation.
func (c *CameraSource) Next(ctx context.Context) (Observation, error) {
	select {
	case <-ctx.Done():
		return Observation{}, ctx.Err()
	case <-time.After(c.interval):
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return Observation{}, io.EOF
	}

	now := time.Now()
	if ok := c.cap.Read(&c.frame); !ok || c.frame.Empty() {
		// Dropped frame: valid input degradation, not an error.
		return Observation{At: now}, nil
	}

	buf, err := gocv.IMEncode(gocv.JPEGFileExt, c.frame)
	if err != nil {
		return Observation{At: now}, nil
	}
	defer buf.Close()

	faces, err := c.detector.Detect(buf.GetBytes())
	if err != nil {
		log.Debug("face detection failed", "err", err)
		return Observation{At: now}, nil
	}
	return Observation{Faces: faces, At: now}, nil
}

// Close releases the camera and the detector.
func (c *CameraSource) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	c.frame.Close()
	err := c.cap.Close()
	if c.detector != nil {
		if derr := c.detector.Close(); err == nil {
			err = derr
		}
	}
	return err
}
