package tui

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/JPM1118/harerace/internal/audio"
	"github.com/JPM1118/harerace/internal/notify"
	"github.com/JPM1118/harerace/internal/race"
)

// Bell event names.
const (
	EventFinish = "finish"
	EventSleep  = "sleep"
)

// BellEvents returns every event the reporter rings the bell for.
func BellEvents() []string {
	return []string{EventFinish, EventSleep}
}

// Sounder plays audio cues.
type Sounder interface {
	Play(cue audio.Cue)
}

// Reporter turns race notices into log lines, bell rings, sounds and
// notification bar entries. Any of its outputs may be nil.
type Reporter struct {
	logger *log.Logger
	bell   *notify.Bell
	sound  Sounder
	bar    *notify.Bar
	raceID string
}

// NewReporter creates a Reporter.
func NewReporter(logger *log.Logger, bell *notify.Bell, sound Sounder, bar *notify.Bar) *Reporter {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Reporter{logger: logger, bell: bell, sound: sound, bar: bar}
}

// RaceID returns the id of the current race.
func (r *Reporter) RaceID() string { return r.raceID }

// Notify implements race.Observer.
func (r *Reporter) Notify(n race.Notice) {
	switch n.Kind {
	case race.NoticeStarted:
		r.raceID = uuid.NewString()
		r.logger.Info("race started", "race", r.raceID, "round", n.Round)
		if r.bar != nil {
			r.bar.ClearSubject(subjectRestart)
		}

	case race.NoticeCue:
		r.logger.Debug("countdown", "race", r.raceID, "cue", n.Text)
		r.play(audio.CueCount)

	case race.NoticeRunning:
		r.play(audio.CueGo)

	case race.NoticeFellAsleep:
		r.logger.Info("racer asleep", "race", r.raceID, "racer", n.Racer.Name,
			"tick", n.Ticks, "x", n.Racer.Position().X, "nap", n.Racer.NapDuration())
		r.bell.Ring(EventSleep, n.At)
		r.play(audio.CueSnore)
		r.push(n.Racer.Label, "fell asleep", notify.LevelInfo, n.At)

	case race.NoticeWokeUp:
		r.logger.Debug("racer awake", "race", r.raceID, "racer", n.Racer.Name, "tick", n.Ticks)

	case race.NoticeFinished:
		r.logger.Info("race finished", "race", r.raceID, "round", n.Round,
			"winner", n.Racer.Name, "ticks", n.Ticks)
		r.bell.Ring(EventFinish, n.At)
		r.play(audio.CueFinish)
		r.push(fmt.Sprintf("race %d", n.Round), n.Text, notify.LevelInfo, n.At)

	case race.NoticeRestartDeferred:
		r.logger.Debug("restart deferred", "race", r.raceID)
		r.push(subjectRestart, "queued until the race ends", notify.LevelInfo, n.At)
	}
}

const subjectRestart = "restart"

func (r *Reporter) play(cue audio.Cue) {
	if r.sound != nil {
		r.sound.Play(cue)
	}
}

func (r *Reporter) push(subject, msg string, level notify.Level, at time.Time) {
	if r.bar == nil {
		return
	}
	if at.IsZero() {
		at = time.Now()
	}
	r.bar.Push(notify.Notification{Subject: subject, Message: msg, Level: level, Timestamp: at})
}
