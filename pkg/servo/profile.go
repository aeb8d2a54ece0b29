package servo

import (
	"fmt"
	"sort"
)

// Limit describes one channel in a servo layout: its physical PWM pin,
// the mechanical angle range, the resting angle, the closed-lid angle
// (lids only), and whether the axis is inverted relative to the camera
// frame. Inverted channels map normalized coordinate 0 to Max so both
// eyes converge on the same real-world point.
type Limit struct {
	Pin     int
	Min     float64
	Max     float64
	Default float64
	Blink   float64
	Invert  bool
}

// Center returns the midpoint of the channel's range, the neutral
// position used when no tracking target is available.
func (l Limit) Center() float64 {
	return (l.Min + l.Max) / 2
}

// Profile is a named, immutable servo layout: which channels exist on
// the rig and their per-channel limits. Selected once at startup.
type Profile struct {
	Name   string
	servos map[Channel]Limit
}

// Has reports whether the channel is wired on this rig.
func (p Profile) Has(ch Channel) bool {
	_, ok := p.servos[ch]
	return ok
}

// Limit returns the channel's limits and whether it exists.
func (p Profile) Limit(ch Channel) (Limit, bool) {
	l, ok := p.servos[ch]
	return l, ok
}

// Channels returns every wired channel in stable pin order.
func (p Profile) Channels() []Channel {
	chs := make([]Channel, 0, len(p.servos))
	for ch := range p.servos {
		chs = append(chs, ch)
	}
	sort.Slice(chs, func(i, j int) bool {
		return p.servos[chs[i]].Pin < p.servos[chs[j]].Pin
	})
	return chs
}

// Lids returns the eyelid channels wired on this rig, if any.
func (p Profile) Lids() []Channel {
	var lids []Channel
	for _, ch := range p.Channels() {
		if ch.IsLid() {
			lids = append(lids, ch)
		}
	}
	return lids
}

// Axes returns the eye X/Y axis channels wired on this rig.
func (p Profile) Axes() []Channel {
	var axes []Channel
	for _, ch := range p.Channels() {
		if ch.IsEyeAxis() {
			axes = append(axes, ch)
		}
	}
	return axes
}

// Built-in layouts. Angle data matches the physical rigs this head has
// shipped on; the jaw servo sits on pin 8 in every layout.
//
// inmoov:   4 servos per eye (X, Y, upper lid, lower lid) + jaw
// original: shared X/Y axes for both eyes, 4 lids + jaw
// simple:   shared X/Y only, no lids + jaw
var profiles = map[string]Profile{
	"inmoov": {
		Name: "inmoov",
		servos: map[Channel]Limit{
			LeftEyeX:      {Pin: 0, Min: 57, Max: 145, Default: 90, Invert: true},
			LeftEyeY:      {Pin: 1, Min: 52, Max: 112, Default: 90},
			LeftUpperLid:  {Pin: 2, Min: 70, Max: 180, Default: 70, Blink: 180},
			LeftLowerLid:  {Pin: 3, Min: 10, Max: 100, Default: 100, Blink: 10},
			RightEyeX:     {Pin: 4, Min: 57, Max: 145, Default: 90, Invert: true},
			RightEyeY:     {Pin: 5, Min: 52, Max: 112, Default: 90, Invert: true},
			RightUpperLid: {Pin: 6, Min: 10, Max: 120, Default: 120, Blink: 10},
			RightLowerLid: {Pin: 7, Min: 90, Max: 180, Default: 90, Blink: 180},
			Jaw:           {Pin: 8, Min: 0, Max: 180, Default: 0},
		},
	},
	"original": {
		Name: "original",
		servos: map[Channel]Limit{
			EyesX:         {Pin: 0, Min: 57, Max: 145, Default: 100, Invert: true},
			EyesY:         {Pin: 1, Min: 52, Max: 112, Default: 80, Invert: true},
			LeftUpperLid:  {Pin: 2, Min: 70, Max: 180, Default: 70, Blink: 180},
			RightUpperLid: {Pin: 3, Min: 10, Max: 120, Default: 120, Blink: 10},
			LeftLowerLid:  {Pin: 4, Min: 10, Max: 100, Default: 100, Blink: 10},
			RightLowerLid: {Pin: 5, Min: 90, Max: 180, Default: 90, Blink: 180},
			Jaw:           {Pin: 8, Min: 0, Max: 180, Default: 0},
		},
	},
	"simple": {
		Name: "simple",
		servos: map[Channel]Limit{
			EyesX: {Pin: 0, Min: 0, Max: 180, Default: 90, Invert: true},
			EyesY: {Pin: 1, Min: 0, Max: 180, Default: 90, Invert: true},
			Jaw:   {Pin: 8, Min: 0, Max: 180, Default: 0},
		},
	},
}

// ProfileByName returns a built-in layout. An unknown name is a
// configuration error, caught before any control loop starts.
func ProfileByName(name string) (Profile, error) {
	p, ok := profiles[name]
	if !ok {
		return Profile{}, fmt.Errorf("unknown servo profile %q (want inmoov, original or simple)", name)
	}
	return p, nil
}
