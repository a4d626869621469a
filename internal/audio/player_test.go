package audio

import (
	"testing"
	"time"

	"github.com/gopxl/beep"
)

func drain(t *testing.T, s beep.Streamer) int {
	t.Helper()
	buf := make([][2]float64, 512)
	total := 0
	for i := 0; ; i++ {
		if i > 10000 {
			t.Fatal("streamer never ended")
		}
		n, ok := s.Stream(buf)
		for j := 0; j < n; j++ {
			if buf[j][0] < -1 || buf[j][0] > 1 {
				t.Fatalf("sample %d out of range: %f", total+j, buf[j][0])
			}
		}
		total += n
		if !ok {
			return total
		}
	}
}

func TestTone_Length(t *testing.T) {
	sr := beep.SampleRate(44100)
	tone := NewTone(sr, 440, 100*time.Millisecond, 0.5)

	if got, want := drain(t, tone), sr.N(100*time.Millisecond); got != want {
		t.Errorf("streamed %d samples, want %d", got, want)
	}
	if tone.Err() != nil {
		t.Errorf("Err() = %v", tone.Err())
	}
}

func TestTone_FadesInFromSilence(t *testing.T) {
	tone := NewTone(beep.SampleRate(8000), 440, 50*time.Millisecond, 1)
	buf := make([][2]float64, 1)
	tone.Stream(buf)
	if buf[0][0] != 0 {
		t.Errorf("first sample = %f, want 0", buf[0][0])
	}
}

func TestStreamer_CueLengths(t *testing.T) {
	sr := beep.SampleRate(8000)
	tests := []struct {
		cue  Cue
		want time.Duration
	}{
		{CueCount, 120 * time.Millisecond},
		{CueGo, 300 * time.Millisecond},
		{CueSnore, 680 * time.Millisecond},
		{CueFinish, 600 * time.Millisecond},
	}

	for _, tt := range tests {
		t.Run(tt.cue.String(), func(t *testing.T) {
			if got, want := drain(t, Streamer(tt.cue, sr, 0.3)), sr.N(tt.want); got != want {
				t.Errorf("streamed %d samples, want %d", got, want)
			}
		})
	}
}

func TestPlayer_SilentBeforeInit(t *testing.T) {
	p := NewPlayer(44100, 0.3)
	// Neither call may touch the speaker.
	p.Play(CueGo)
	p.Close()
}
