// Package race simulates the turtle-and-bunny race: a countdown, a fixed
// pace of ticks moving both racers, a one-off nap for the drowsy racer, a
// deterministic finish check and restart.
//
// The controller never sleeps or starts goroutines. Every call returns a
// Step telling the host how long to wait before calling Advance again, so
// an event loop can drive it with timers and a test can drive it with a
// virtual clock.
package race

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/JPM1118/harerace/internal/sprites"
)

// Text overlay ids.
const (
	TextIDCue    = "countdown"
	TextIDResult = "result"
)

// State is the race phase.
type State int

const (
	StateIdle State = iota
	StateCountdown
	StateRunning
	StateFinished
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateCountdown:
		return "countdown"
	case StateRunning:
		return "running"
	case StateFinished:
		return "finished"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Winner identifies the outcome of a race.
type Winner int

const (
	WinnerNone Winner = iota
	WinnerA
	WinnerB
	// WinnerTie is never produced: racer A is checked first, so a shared
	// finishing tick goes to A. It is kept for result rendering only.
	WinnerTie
)

// Cue is one countdown step.
type Cue struct {
	Text string
	Hold time.Duration
}

// Config holds race timing and layout.
type Config struct {
	FinishX      float64
	TickInterval time.Duration
	Cues         []Cue
	CueAt        Point
	ResultAt     Point
	// MarkerOffset places the sleep marker relative to the napping racer.
	MarkerOffset Point
	// RestartHold is how long a result stays up before a deferred restart.
	RestartHold time.Duration
	// PreemptRestart resets immediately on a restart request during
	// Countdown or Running instead of deferring it until Finished.
	PreemptRestart bool
}

// Step tells the host when to call Advance next. A Step with Wait false
// means the controller is idle until the next Start or Restart.
type Step struct {
	Gen   uint64
	Delay time.Duration
	Wait  bool
}

// NoticeKind classifies controller notices.
type NoticeKind int

const (
	NoticeStarted NoticeKind = iota
	NoticeCue
	NoticeRunning
	NoticeFellAsleep
	NoticeWokeUp
	NoticeFinished
	NoticeRestartDeferred
)

// Notice describes something that happened during the race.
type Notice struct {
	Kind   NoticeKind
	Round  int
	Text   string
	Racer  *Racer
	Winner Winner
	Ticks  int
	At     time.Time
}

// Observer receives notices synchronously on the control thread.
type Observer interface {
	Notify(n Notice)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Notice)

// Notify calls f(n).
func (f ObserverFunc) Notify(n Notice) { f(n) }

// Option configures a Controller.
type Option func(*Controller)

// WithRand sets the random source for speeds and nap durations.
func WithRand(rng *rand.Rand) Option {
	return func(c *Controller) { c.rng = rng }
}

// WithObserver registers an observer for race notices.
func WithObserver(o Observer) Option {
	return func(c *Controller) { c.observers = append(c.observers, o) }
}

// WithSleepMarker sets the shape shown above a napping racer. An empty set
// disables the marker.
func WithSleepMarker(set sprites.Set) Option {
	return func(c *Controller) { c.markerSet = set }
}

// Controller owns both racers and drives the race state machine.
// It is not safe for concurrent use.
type Controller struct {
	cfg   Config
	scene Scene
	a, b  *Racer

	entA, entB, marker Entity
	markerSet          sprites.Set

	rng       *rand.Rand
	observers []Observer

	state   State
	winner  Winner
	cue     int
	ticks   int
	gen     uint64
	round   int
	pending bool
}

// New creates a controller for racers a and b on scene. Racer a is
// updated and checked first on every tick.
func New(scene Scene, a, b *Racer, cfg Config, opts ...Option) *Controller {
	c := &Controller{
		cfg:   cfg,
		scene: scene,
		a:     a,
		b:     b,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.rng == nil {
		c.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	c.entA = scene.NewEntity()
	c.entB = scene.NewEntity()
	c.marker = scene.NewEntity()
	if h, ok := c.markerSet.HandleAt(0); ok {
		c.marker.SetShape(h)
	}
	return c
}

// State returns the current race phase.
func (c *Controller) State() State { return c.state }

// Winner returns the winner of the current or last race.
func (c *Controller) Winner() Winner { return c.winner }

// Ticks returns the number of race ticks run in the current race.
func (c *Controller) Ticks() int { return c.ticks }

// Round returns how many races have been started.
func (c *Controller) Round() int { return c.round }

// Generation returns the generation of the current race. Steps carry it
// so that timers scheduled before a restart are ignored.
func (c *Controller) Generation() uint64 { return c.gen }

// RestartPending reports whether a deferred restart is queued.
func (c *Controller) RestartPending() bool { return c.pending }

// Racers returns racer A and racer B.
func (c *Controller) Racers() (*Racer, *Racer) { return c.a, c.b }

// WinnerRacer returns the winning racer, or nil.
func (c *Controller) WinnerRacer() *Racer {
	switch c.winner {
	case WinnerA:
		return c.a
	case WinnerB:
		return c.b
	default:
		return nil
	}
}

// Start requests a race. It behaves like Restart.
func (c *Controller) Start(now time.Time) Step {
	return c.Restart(now)
}

// Restart begins a new race from Idle or Finished. During Countdown or
// Running the request is deferred until the race finishes, unless the
// controller is configured to preempt.
func (c *Controller) Restart(now time.Time) Step {
	switch c.state {
	case StateIdle, StateFinished:
		return c.begin(now)
	}
	if c.cfg.PreemptRestart {
		return c.begin(now)
	}
	if !c.pending {
		c.pending = true
		c.notify(Notice{Kind: NoticeRestartDeferred, At: now})
	}
	return Step{}
}

// Advance runs the step scheduled by the previous Step with the same
// generation. Steps from before a restart are ignored.
func (c *Controller) Advance(now time.Time, gen uint64) Step {
	if gen != c.gen {
		return Step{}
	}

	switch c.state {
	case StateCountdown:
		c.cue++
		if c.cue < len(c.cfg.Cues) {
			return c.showCue(now)
		}
		c.scene.ClearText(TextIDCue)
		c.state = StateRunning
		c.notify(Notice{Kind: NoticeRunning, At: now})
		return c.tick(now)
	case StateRunning:
		return c.tick(now)
	case StateFinished:
		if c.pending {
			return c.begin(now)
		}
	}
	return Step{}
}

func (c *Controller) begin(now time.Time) Step {
	c.gen++
	c.round++
	c.state = StateCountdown
	c.winner = WinnerNone
	c.cue = 0
	c.ticks = 0
	c.pending = false

	c.a.Reset()
	c.b.Reset()
	c.place(c.a, c.entA)
	c.place(c.b, c.entB)
	c.entA.Show()
	c.entB.Show()
	c.marker.Hide()
	c.scene.ClearText(TextIDResult)
	c.notify(Notice{Kind: NoticeStarted, At: now})

	if len(c.cfg.Cues) == 0 {
		c.state = StateRunning
		c.notify(Notice{Kind: NoticeRunning, At: now})
		return c.tick(now)
	}
	return c.showCue(now)
}

func (c *Controller) showCue(now time.Time) Step {
	cue := c.cfg.Cues[c.cue]
	c.scene.WriteText(TextIDCue, c.cfg.CueAt, cue.Text, TextCue)
	c.scene.Flush()
	c.notify(Notice{Kind: NoticeCue, Text: cue.Text, At: now})
	return c.wait(cue.Hold)
}

func (c *Controller) tick(now time.Time) Step {
	c.ticks++
	c.handle(c.a, c.a.Tick(now, c.rng), now)
	c.handle(c.b, c.b.Tick(now, c.rng), now)
	c.place(c.a, c.entA)
	c.place(c.b, c.entB)
	c.scene.Flush()

	switch {
	case c.a.HasFinished(c.cfg.FinishX):
		return c.finish(WinnerA, c.a, c.entA, now)
	case c.b.HasFinished(c.cfg.FinishX):
		return c.finish(WinnerB, c.b, c.entB, now)
	}
	return c.wait(c.cfg.TickInterval)
}

func (c *Controller) handle(r *Racer, ev Event, now time.Time) {
	switch ev {
	case EventFellAsleep:
		pos := r.Position()
		c.marker.MoveTo(pos.X+c.cfg.MarkerOffset.X, pos.Y+c.cfg.MarkerOffset.Y)
		if !c.markerSet.Empty() {
			c.marker.Show()
		}
		c.notify(Notice{Kind: NoticeFellAsleep, Racer: r, Ticks: c.ticks, At: now})
	case EventWokeUp:
		c.marker.Hide()
		c.notify(Notice{Kind: NoticeWokeUp, Racer: r, Ticks: c.ticks, At: now})
	}
}

func (c *Controller) finish(w Winner, r *Racer, e Entity, now time.Time) Step {
	c.state = StateFinished
	c.winner = w
	r.clampTo(c.cfg.FinishX)
	c.place(r, e)
	c.marker.Hide()
	c.scene.WriteText(TextIDResult, c.cfg.ResultAt, c.ResultText(), TextResult)
	c.scene.Flush()
	c.notify(Notice{Kind: NoticeFinished, Racer: r, Winner: w, Text: c.ResultText(), Ticks: c.ticks, At: now})

	if c.pending {
		return c.wait(c.cfg.RestartHold)
	}
	return Step{}
}

// ResultText returns the announcement for the current winner.
func (c *Controller) ResultText() string {
	switch c.winner {
	case WinnerA:
		return fmt.Sprintf("The %s wins!", c.a.Label)
	case WinnerB:
		return fmt.Sprintf("The %s wins!", c.b.Label)
	case WinnerTie:
		return "It's a tie!"
	default:
		return ""
	}
}

// place moves e to r and shows r's current frame. Racers without frames
// keep no shape.
func (c *Controller) place(r *Racer, e Entity) {
	pos := r.Position()
	e.MoveTo(pos.X, pos.Y)
	if h, ok := r.CurrentHandle(); ok {
		e.SetShape(h)
	}
}

func (c *Controller) wait(d time.Duration) Step {
	return Step{Gen: c.gen, Delay: d, Wait: true}
}

func (c *Controller) notify(n Notice) {
	n.Round = c.round
	for _, o := range c.observers {
		o.Notify(n)
	}
}
