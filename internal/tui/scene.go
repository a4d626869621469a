package tui

import (
	"github.com/JPM1118/harerace/internal/canvas"
	"github.com/JPM1118/harerace/internal/race"
)

// surfaceScene draws the race on a canvas.Surface.
type surfaceScene struct {
	s *canvas.Surface
}

// NewScene adapts s to race.Scene.
func NewScene(s *canvas.Surface) race.Scene {
	return surfaceScene{s: s}
}

func (sc surfaceScene) NewEntity() race.Entity {
	return sc.s.NewEntity()
}

func (sc surfaceScene) WriteText(id string, at race.Point, content string, kind race.TextKind) {
	sc.s.WriteText(id, canvas.Point{X: at.X, Y: at.Y}, content, textStyle(kind))
}

func (sc surfaceScene) ClearText(id string) {
	sc.s.ClearText(id)
}

func (sc surfaceScene) Flush() {
	sc.s.Flush()
}
