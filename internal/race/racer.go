package race

import (
	"math/rand/v2"
	"time"

	"github.com/JPM1118/harerace/internal/sprites"
)

// Point is a position in canvas units.
type Point struct {
	X, Y float64
}

// Speed is a uniform per-tick displacement range [Min, Max).
type Speed struct {
	Min, Max float64
}

func (s Speed) draw(rng *rand.Rand) float64 {
	if s.Max <= s.Min {
		return s.Min
	}
	return s.Min + rng.Float64()*(s.Max-s.Min)
}

// Span is a uniform duration range [Min, Max).
type Span struct {
	Min, Max time.Duration
}

func (s Span) draw(rng *rand.Rand) time.Duration {
	if s.Max <= s.Min {
		return s.Min
	}
	return s.Min + time.Duration(rng.Int64N(int64(s.Max-s.Min)))
}

// Drowsiness makes a racer nap once per race after passing Threshold.
type Drowsiness struct {
	Threshold float64
	Nap       Span
	// WakeSpeed replaces the racer's speed after the nap.
	WakeSpeed Speed
}

// Event reports what changed during a tick.
type Event int

const (
	EventNone Event = iota
	EventFellAsleep
	EventWokeUp
)

// Racer is one competitor. It is owned and mutated by a Controller only.
type Racer struct {
	Name   string
	Label  string
	Start  Point
	Speed  Speed
	Drowsy *Drowsiness
	Frames sprites.Set

	pos        Point
	frame      int
	asleep     bool
	napped     bool
	sleepStart time.Time
	sleepFor   time.Duration
}

// Reset puts the racer back on its start line, awake, on frame 0.
func (r *Racer) Reset() {
	r.pos = r.Start
	r.frame = 0
	r.asleep = false
	r.napped = false
	r.sleepStart = time.Time{}
	r.sleepFor = 0
}

// Tick advances the racer by one simulation step at time now.
//
// A drowsy racer falls asleep at the start of the first tick that finds it
// past the threshold and neither moves nor animates on that tick, so the
// frame shown during the nap is the one from its last moving tick. Once
// the drawn nap duration has elapsed it wakes, animates and moves on the
// same tick, at its wake speed.
func (r *Racer) Tick(now time.Time, rng *rand.Rand) Event {
	ev := EventNone
	if r.asleep {
		if now.Sub(r.sleepStart) < r.sleepFor {
			return EventNone
		}
		r.asleep = false
		ev = EventWokeUp
	}

	if r.Drowsy != nil && !r.napped && r.pos.X > r.Drowsy.Threshold {
		r.asleep = true
		r.napped = true
		r.sleepStart = now
		r.sleepFor = r.Drowsy.Nap.draw(rng)
		return EventFellAsleep
	}

	r.advanceFrame()
	speed := r.Speed
	if r.napped && r.Drowsy != nil {
		speed = r.Drowsy.WakeSpeed
	}
	r.pos.X += speed.draw(rng)
	return ev
}

func (r *Racer) advanceFrame() {
	if n := r.Frames.Len(); n > 0 {
		r.frame = (r.frame + 1) % n
	}
}

// CurrentHandle returns the sprite for the current animation frame.
// It reports false when the racer has no frames.
func (r *Racer) CurrentHandle() (sprites.Handle, bool) {
	return r.Frames.HandleAt(r.frame)
}

// FrameIndex returns the animation cursor.
func (r *Racer) FrameIndex() int { return r.frame }

// Position returns the racer's position.
func (r *Racer) Position() Point { return r.pos }

// Asleep reports whether the racer is napping.
func (r *Racer) Asleep() bool { return r.asleep }

// NapDuration returns the duration drawn for the current or last nap.
func (r *Racer) NapDuration() time.Duration { return r.sleepFor }

// HasFinished reports whether the racer reached finishX.
func (r *Racer) HasFinished(finishX float64) bool {
	return r.pos.X >= finishX
}

// clampTo pins the racer on the finish line so it never overshoots.
func (r *Racer) clampTo(finishX float64) {
	if r.pos.X > finishX {
		r.pos.X = finishX
	}
}
