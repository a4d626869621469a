package race

import "github.com/JPM1118/harerace/internal/sprites"

// Entity is a displayed sprite instance the controller positions.
type Entity interface {
	SetShape(h sprites.Handle)
	MoveTo(x, y float64)
	Show()
	Hide()
}

// TextKind selects how a text overlay is styled.
type TextKind int

const (
	TextCue TextKind = iota
	TextResult
)

// Scene is the rendering surface the controller draws on. Mutations must
// not become visible before Flush.
type Scene interface {
	NewEntity() Entity
	WriteText(id string, at Point, content string, kind TextKind)
	ClearText(id string)
	Flush()
}

// NopScene returns a Scene that draws nothing, for headless simulation.
func NopScene() Scene { return nopScene{} }

type nopScene struct{}

func (nopScene) NewEntity() Entity                         { return nopEntity{} }
func (nopScene) WriteText(string, Point, string, TextKind) {}
func (nopScene) ClearText(string)                          {}
func (nopScene) Flush()                                    {}

type nopEntity struct{}

func (nopEntity) SetShape(sprites.Handle) {}
func (nopEntity) MoveTo(float64, float64) {}
func (nopEntity) Show()                   {}
func (nopEntity) Hide()                   {}
