package cmd

import (
	"github.com/JPM1118/harerace/internal/assets"
	"github.com/JPM1118/harerace/internal/config"
	"github.com/JPM1118/harerace/internal/race"
)

// raceConfig applies the race section of the config file to the standard
// course.
func raceConfig(c config.RaceConfig) race.Config {
	rc := race.DefaultConfig()
	rc.TickInterval = c.TickInterval.Duration
	rc.Cues = race.Countdown(c.CueHold.Duration, c.GoHold.Duration)
	rc.RestartHold = c.RestartHold.Duration
	rc.PreemptRestart = c.PreemptRestart
	return rc
}

// newRacers returns the turtle (racer A) and the bunny (racer B).
func newRacers(s assets.Sprites) (*race.Racer, *race.Racer) {
	return race.NewTurtle(s.Turtle), race.NewBunny(s.Bunny)
}
