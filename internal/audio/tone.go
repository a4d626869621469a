package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
)

// Tone is a sine generator with a short linear attack and release so cues
// do not click.
type Tone struct {
	sr     beep.SampleRate
	freq   float64
	volume float64
	pos    int
	total  int
	fade   int
}

// NewTone creates a tone of freq Hz lasting d.
func NewTone(sr beep.SampleRate, freq float64, d time.Duration, volume float64) *Tone {
	total := sr.N(d)
	fade := sr.N(5 * time.Millisecond)
	if fade*2 > total {
		fade = total / 2
	}
	return &Tone{
		sr:     sr,
		freq:   freq,
		volume: volume,
		total:  total,
		fade:   fade,
	}
}

func (g *Tone) Stream(samples [][2]float64) (n int, ok bool) {
	if g.pos >= g.total {
		return 0, false
	}
	for i := range samples {
		if g.pos >= g.total {
			return i, true
		}
		t := float64(g.pos) / float64(g.sr)
		sample := g.volume * g.envelope() * math.Sin(2*math.Pi*g.freq*t)
		samples[i][0] = sample
		samples[i][1] = sample
		g.pos++
	}
	return len(samples), true
}

func (g *Tone) Err() error {
	return nil
}

func (g *Tone) envelope() float64 {
	switch {
	case g.fade == 0:
		return 1
	case g.pos < g.fade:
		return float64(g.pos) / float64(g.fade)
	case g.pos >= g.total-g.fade:
		return float64(g.total-g.pos) / float64(g.fade)
	default:
		return 1
	}
}
