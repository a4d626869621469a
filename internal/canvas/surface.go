// Package canvas is a retained-mode 2D surface drawn with terminal cells.
//
// The surface keeps a logical coordinate system (origin at the centre, y up)
// and projects it onto a grid of columns x rows cells, each showing two
// stacked pixels with the upper-half-block glyph. Mutations are buffered:
// nothing becomes visible until Flush composes a new frame.
package canvas

import (
	"image"
	"image/color"
	"math"

	apperr "github.com/JPM1118/harerace/internal/errors"
	"github.com/JPM1118/harerace/internal/sprites"
	"github.com/charmbracelet/lipgloss"
)

const (
	// LogicalWidth and LogicalHeight are the canvas size in world units.
	LogicalWidth  = 700.0
	LogicalHeight = 400.0

	upperHalf = "▀"
)

// DefaultBackdrop fills pixels no background image covers.
var DefaultBackdrop = color.NRGBA{R: 0x3a, G: 0x7d, B: 0x44, A: 0xff}

// Point is a position in logical canvas units.
type Point struct {
	X, Y float64
}

// Surface is the rendering target shared by every entity on screen.
type Surface struct {
	cols, rows int
	backdrop   color.NRGBA
	background *sprites.Frame

	shapes   map[sprites.Handle]sprites.Frame
	entities []*Entity
	lines    []line
	texts    map[string]label
	order    []string

	pixels *image.NRGBA
	frame  string
}

type line struct {
	from, to Point
	width    float64
	color    color.NRGBA
}

type label struct {
	at      Point
	content string
	style   lipgloss.Style
}

// New creates a surface of cols x rows terminal cells. A non-positive size
// is the one unrecoverable rendering error.
func New(cols, rows int) (*Surface, error) {
	if cols <= 0 || rows <= 0 {
		return nil, apperr.New(apperr.ErrCodeSurface, "invalid surface size %dx%d", cols, rows)
	}
	return &Surface{
		cols:     cols,
		rows:     rows,
		backdrop: DefaultBackdrop,
		shapes:   make(map[sprites.Handle]sprites.Frame),
		texts:    make(map[string]label),
		pixels:   image.NewNRGBA(image.Rectangle{Max: PixelGrid(cols, rows)}),
	}, nil
}

// PixelGrid returns the pixel grid of a cols x rows cell surface: one
// pixel per column, two per row.
func PixelGrid(cols, rows int) image.Point {
	return image.Pt(cols, rows*2)
}

// PixelSize returns the pixel grid size.
func (s *Surface) PixelSize() image.Point {
	return PixelGrid(s.cols, s.rows)
}

// Size returns the grid size in cells.
func (s *Surface) Size() (cols, rows int) {
	return s.cols, s.rows
}

// SetBackground draws f behind everything else, anchored at the top-left
// pixel. Prepare it at PixelSize to cover the whole canvas.
func (s *Surface) SetBackground(f sprites.Frame) {
	if f.Empty() {
		s.background = nil
		return
	}
	s.background = &f
}

// SetBackdrop sets the colour shown where no background pixel exists.
func (s *Surface) SetBackdrop(c color.Color) {
	s.backdrop = color.NRGBAModel.Convert(c).(color.NRGBA)
}

// RegisterSprite makes f available as an entity shape under name.
func (s *Surface) RegisterSprite(name string, f sprites.Frame) (sprites.Handle, error) {
	h := sprites.Handle(name)
	if name == "" {
		return "", apperr.New(apperr.ErrCodeSpriteRegistration, "empty sprite name")
	}
	if _, dup := s.shapes[h]; dup {
		return "", apperr.New(apperr.ErrCodeSpriteRegistration, "sprite %q already registered", name)
	}
	if f.Image == nil || f.Empty() {
		return "", apperr.New(apperr.ErrCodeSpriteRegistration, "sprite %q has no pixels", name)
	}
	s.shapes[h] = f
	return h, nil
}

// Registered reports whether h names a registered sprite.
func (s *Surface) Registered(h sprites.Handle) bool {
	_, ok := s.shapes[h]
	return ok
}

// NewEntity adds a hidden, shapeless entity. Entities are drawn in
// creation order.
func (s *Surface) NewEntity() *Entity {
	e := &Entity{}
	s.entities = append(s.entities, e)
	return e
}

// DrawLine adds a static line segment of the given width in logical units.
func (s *Surface) DrawLine(from, to Point, width float64, c color.Color) {
	s.lines = append(s.lines, line{
		from:  from,
		to:    to,
		width: width,
		color: color.NRGBAModel.Convert(c).(color.NRGBA),
	})
}

// WriteText places content centred at the given point, replacing any text
// previously written under id.
func (s *Surface) WriteText(id string, at Point, content string, style lipgloss.Style) {
	if _, ok := s.texts[id]; !ok {
		s.order = append(s.order, id)
	}
	s.texts[id] = label{at: at, content: content, style: style}
}

// ClearText removes the text written under id.
func (s *Surface) ClearText(id string) {
	if _, ok := s.texts[id]; !ok {
		return
	}
	delete(s.texts, id)
	for i, o := range s.order {
		if o == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// Text returns the content currently written under id.
func (s *Surface) Text(id string) (string, bool) {
	l, ok := s.texts[id]
	return l.content, ok
}

// Flush composes the current scene into a new frame.
func (s *Surface) Flush() {
	s.composePixels()
	s.frame = s.renderCells()
}

// Frame returns the most recently flushed frame.
func (s *Surface) Frame() string {
	return s.frame
}

// PixelAt returns the pixel at (x, y) of the most recently flushed frame.
func (s *Surface) PixelAt(x, y int) color.NRGBA {
	return s.pixels.NRGBAAt(x, y)
}

// ToPixel projects a logical point onto the pixel grid.
func (s *Surface) ToPixel(p Point) image.Point {
	size := s.PixelSize()
	x := (p.X + LogicalWidth/2) / LogicalWidth * float64(size.X)
	y := (LogicalHeight/2 - p.Y) / LogicalHeight * float64(size.Y)
	return image.Pt(int(math.Floor(x)), int(math.Floor(y)))
}

func (s *Surface) composePixels() {
	b := s.pixels.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			s.pixels.SetNRGBA(x, y, s.backdrop)
		}
	}

	if s.background != nil {
		s.blit(*s.background, image.Point{})
	}
	for _, l := range s.lines {
		s.drawLine(l)
	}
	for _, e := range s.entities {
		if !e.visible || e.shape == "" {
			continue
		}
		f, ok := s.shapes[e.shape]
		if !ok {
			continue
		}
		centre := s.ToPixel(e.pos)
		size := f.Size()
		s.blit(f, centre.Sub(image.Pt(size.X/2, size.Y/2)))
	}
}

// blit copies the opaque pixels of f with its top-left corner at origin.
func (s *Surface) blit(f sprites.Frame, origin image.Point) {
	size := f.Size()
	bounds := s.pixels.Bounds()
	for y := 0; y < size.Y; y++ {
		for x := 0; x < size.X; x++ {
			p := origin.Add(image.Pt(x, y))
			if !p.In(bounds) || f.Transparent(x, y) {
				continue
			}
			s.pixels.SetNRGBA(p.X, p.Y, f.At(x, y))
		}
	}
}

func (s *Surface) drawLine(l line) {
	from, to := s.ToPixel(l.from), s.ToPixel(l.to)
	half := int(math.Round(l.width / LogicalWidth * float64(s.cols) / 2))
	steps := max(abs(to.X-from.X), abs(to.Y-from.Y))
	bounds := s.pixels.Bounds()
	for i := 0; i <= steps; i++ {
		t := 0.0
		if steps > 0 {
			t = float64(i) / float64(steps)
		}
		cx := from.X + int(math.Round(t*float64(to.X-from.X)))
		cy := from.Y + int(math.Round(t*float64(to.Y-from.Y)))
		for dx := -half; dx <= half; dx++ {
			p := image.Pt(cx+dx, cy)
			if p.In(bounds) {
				s.pixels.SetNRGBA(p.X, p.Y, l.color)
			}
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Entity is a movable, showable sprite instance on a Surface.
type Entity struct {
	pos     Point
	shape   sprites.Handle
	visible bool
}

// SetShape selects the sprite the entity displays.
func (e *Entity) SetShape(h sprites.Handle) { e.shape = h }

// Shape returns the current sprite handle.
func (e *Entity) Shape() sprites.Handle { return e.shape }

// MoveTo places the entity centre at (x, y).
func (e *Entity) MoveTo(x, y float64) { e.pos = Point{X: x, Y: y} }

// Position returns the entity centre.
func (e *Entity) Position() Point { return e.pos }

// Show makes the entity visible from the next flush.
func (e *Entity) Show() { e.visible = true }

// Hide removes the entity from the next flush.
func (e *Entity) Hide() { e.visible = false }

// Visible reports whether the entity is drawn.
func (e *Entity) Visible() bool { return e.visible }

var _ sprites.Registrar = (*Surface)(nil)
