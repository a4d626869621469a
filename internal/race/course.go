package race

import (
	"time"

	"github.com/JPM1118/harerace/internal/sprites"
)

// Track layout on the 700 x 400 canvas.
const (
	FinishX   = 250.0
	BaselineY = -130.0

	TickInterval = 60 * time.Millisecond
	CueHold      = time.Second
	GoHold       = 800 * time.Millisecond
	RestartHold  = 1500 * time.Millisecond
)

// NewTurtle returns the slow, steady racer.
func NewTurtle(frames sprites.Set) *Racer {
	r := &Racer{
		Name:   "turtle",
		Label:  "Turtle 🐢",
		Start:  Point{X: -250, Y: BaselineY},
		Speed:  Speed{Min: 2.2, Max: 2.7},
		Frames: frames,
	}
	r.Reset()
	return r
}

// NewBunny returns the fast racer that naps once past x = 100.
func NewBunny(frames sprites.Set) *Racer {
	r := &Racer{
		Name:  "bunny",
		Label: "Bunny 🐇",
		Start: Point{X: -255, Y: BaselineY},
		Speed: Speed{Min: 3.7, Max: 4.2},
		Drowsy: &Drowsiness{
			Threshold: 100,
			Nap:       Span{Min: 8500 * time.Millisecond, Max: 9500 * time.Millisecond},
			WakeSpeed: Speed{Min: 3.9, Max: 4.4},
		},
		Frames: frames,
	}
	r.Reset()
	return r
}

// Countdown returns the "3, 2, 1, Go!" cue sequence.
func Countdown(step, goHold time.Duration) []Cue {
	return []Cue{
		{Text: "3", Hold: step},
		{Text: "2", Hold: step},
		{Text: "1", Hold: step},
		{Text: "Go!", Hold: goHold},
	}
}

// DefaultConfig returns the standard race timing and layout.
func DefaultConfig() Config {
	return Config{
		FinishX:      FinishX,
		TickInterval: TickInterval,
		Cues:         Countdown(CueHold, GoHold),
		CueAt:        Point{X: 0, Y: 40},
		ResultAt:     Point{X: 0, Y: 0},
		MarkerOffset: Point{X: 15, Y: 30},
		RestartHold:  RestartHold,
	}
}
