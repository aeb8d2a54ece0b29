// Package vision provides the face input boundary: a detector
// interface, frame observations, and the camera capture loop.
package vision

import "time"

// Detection is one detected face, normalized to frame dimensions.
type Detection struct {
	X, Y       float64 // Top-left corner (0-1)
	W, H       float64 // Width and height (0-1)
	Confidence float64 // Detector confidence (0-1)
}

// Center returns the normalized center point of the bounding box.
func (d Detection) Center() (x, y float64) {
	return d.X + d.W/2, d.Y + d.H/2
}

// Area returns the normalized bounding-box area.
func (d Detection) Area() float64 {
	return d.W * d.H
}

// SelectLargest picks the detection with the largest bounding-box area,
// i.e. the closest face. Ties keep the earliest entry so the choice is
// stable across frames and the eyes do not jitter between targets.
func SelectLargest(dets []Detection) *Detection {
	if len(dets) == 0 {
		return nil
	}
	best := 0
	for i := 1; i < len(dets); i++ {
		if dets[i].Area() > dets[best].Area() {
			best = i
		}
	}
	return &dets[best]
}

// Observation is what the eye loop consumes once per frame: zero or
// more face detections and the capture time. An empty Faces slice is a
// valid observation, not an error.
type Observation struct {
	Faces []Detection
	At    time.Time
}

// Detector finds faces in an encoded frame.
type Detector interface {
	Detect(jpeg []byte) ([]Detection, error)
	Close() error
}
