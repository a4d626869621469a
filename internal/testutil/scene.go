package testutil

import (
	"sync"

	"github.com/JPM1118/harerace/internal/race"
	"github.com/JPM1118/harerace/internal/sprites"
)

// TextOp records one WriteText or ClearText call.
type TextOp struct {
	ID      string
	At      race.Point
	Content string
	Kind    race.TextKind
	Cleared bool
}

// RecordingScene implements race.Scene for testing.
type RecordingScene struct {
	mu       sync.Mutex
	Entities []*RecordingEntity
	Texts    map[string]TextOp
	TextLog  []TextOp
	Flushes  int
}

// NewRecordingScene returns an empty recording scene.
func NewRecordingScene() *RecordingScene {
	return &RecordingScene{Texts: make(map[string]TextOp)}
}

func (s *RecordingScene) NewEntity() race.Entity {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := &RecordingEntity{}
	s.Entities = append(s.Entities, e)
	return e
}

func (s *RecordingScene) WriteText(id string, at race.Point, content string, kind race.TextKind) {
	s.mu.Lock()
	defer s.mu.Unlock()
	op := TextOp{ID: id, At: at, Content: content, Kind: kind}
	s.Texts[id] = op
	s.TextLog = append(s.TextLog, op)
}

func (s *RecordingScene) ClearText(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.Texts, id)
	s.TextLog = append(s.TextLog, TextOp{ID: id, Cleared: true})
}

func (s *RecordingScene) Flush() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Flushes++
}

// Text returns the content currently shown under id.
func (s *RecordingScene) Text(id string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	op, ok := s.Texts[id]
	return op.Content, ok
}

// Written returns the content of every WriteText call for id, in order.
func (s *RecordingScene) Written(id string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []string
	for _, op := range s.TextLog {
		if op.ID == id && !op.Cleared {
			out = append(out, op.Content)
		}
	}
	return out
}

// RecordingEntity implements race.Entity for testing.
type RecordingEntity struct {
	Shape     sprites.Handle
	Shapes    []sprites.Handle
	X, Y      float64
	Visible   bool
	ShowCalls int
	HideCalls int
}

func (e *RecordingEntity) SetShape(h sprites.Handle) {
	e.Shape = h
	e.Shapes = append(e.Shapes, h)
}

func (e *RecordingEntity) MoveTo(x, y float64) {
	e.X, e.Y = x, y
}

func (e *RecordingEntity) Show() {
	e.Visible = true
	e.ShowCalls++
}

func (e *RecordingEntity) Hide() {
	e.Visible = false
	e.HideCalls++
}
