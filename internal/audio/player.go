// Package audio plays short synthesized cues for the race.
package audio

import (
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
)

// Cue identifies a race sound.
type Cue int

const (
	CueCount Cue = iota
	CueGo
	CueSnore
	CueFinish
)

func (c Cue) String() string {
	switch c {
	case CueCount:
		return "count"
	case CueGo:
		return "go"
	case CueSnore:
		return "snore"
	case CueFinish:
		return "finish"
	default:
		return "unknown"
	}
}

// Streamer returns the sound for cue at the given rate and volume.
func Streamer(cue Cue, sr beep.SampleRate, volume float64) beep.Streamer {
	switch cue {
	case CueCount:
		return NewTone(sr, 440, 120*time.Millisecond, volume)
	case CueGo:
		return NewTone(sr, 880, 300*time.Millisecond, volume)
	case CueSnore:
		return beep.Seq(
			NewTone(sr, 110, 250*time.Millisecond, volume*0.6),
			beep.Silence(sr.N(80*time.Millisecond)),
			NewTone(sr, 98, 350*time.Millisecond, volume*0.6),
		)
	case CueFinish:
		return beep.Seq(
			NewTone(sr, 523.25, 150*time.Millisecond, volume),
			NewTone(sr, 659.25, 150*time.Millisecond, volume),
			NewTone(sr, 783.99, 300*time.Millisecond, volume),
		)
	default:
		return beep.Silence(0)
	}
}

// Player mixes cues onto the speaker. A Player that is not initialized
// ignores Play.
type Player struct {
	mu          sync.Mutex
	sr          beep.SampleRate
	volume      float64
	mixer       *beep.Mixer
	initialized bool
}

// NewPlayer creates a player. Call Init before Play.
func NewPlayer(sampleRate int, volume float64) *Player {
	return &Player{
		sr:     beep.SampleRate(sampleRate),
		volume: volume,
		mixer:  &beep.Mixer{},
	}
}

// Init opens the speaker. On failure the player stays silent.
func (p *Player) Init() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized {
		return nil
	}
	if err := speaker.Init(p.sr, p.sr.N(100*time.Millisecond)); err != nil {
		return err
	}
	speaker.Play(p.mixer)
	p.initialized = true
	return nil
}

// Play queues cue on the mixer.
func (p *Player) Play(cue Cue) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return
	}
	s := Streamer(cue, p.sr, p.volume)
	speaker.Lock()
	p.mixer.Add(s)
	speaker.Unlock()
}

// Close silences pending cues and closes the speaker.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return
	}
	speaker.Lock()
	p.mixer.Clear()
	speaker.Unlock()
	speaker.Close()
	p.initialized = false
}
