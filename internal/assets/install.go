package assets

import (
	"github.com/JPM1118/harerace/internal/sprites"
)

// Surface is the part of the canvas assets are installed on.
type Surface interface {
	sprites.Registrar
	SetBackground(f sprites.Frame)
}

// Sprites holds the registered animation sets for one race.
type Sprites struct {
	Turtle sprites.Set
	Bunny  sprites.Set
	Marker sprites.Set
}

// Install registers the prepared frames on s and sets the background.
// Rejected frames are skipped and returned as warnings.
func Install(s Surface, results []Result) (Sprites, []error) {
	var (
		out      Sprites
		warnings []error
	)
	for _, r := range results {
		if len(r.Frames) == 0 {
			continue
		}
		if r.Background {
			s.SetBackground(r.Frames[0])
			continue
		}

		set, skipped := sprites.Register(s, r.Name, r.Frames)
		warnings = append(warnings, skipped...)
		switch r.Name {
		case NameTurtle:
			out.Turtle = set
		case NameBunny:
			out.Bunny = set
		case NameMarker:
			out.Marker = set
		}
	}
	return out, warnings
}
