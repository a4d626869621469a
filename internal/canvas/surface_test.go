package canvas

import (
	"image"
	"image/color"
	"strings"
	"testing"

	apperr "github.com/JPM1118/harerace/internal/errors"
	"github.com/JPM1118/harerace/internal/sprites"
	"github.com/charmbracelet/lipgloss"
)

var (
	white  = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	orange = color.NRGBA{R: 0xff, G: 0x80, A: 0xff}
)

// solidFrame returns a w x h keyed frame filled with c whose first column is
// transparent.
func solidFrame(w, h int, c color.NRGBA) sprites.Frame {
	img := image.NewPaletted(image.Rect(0, 0, w, h), color.Palette{c, color.NRGBA{}})
	for y := 0; y < h; y++ {
		img.SetColorIndex(0, y, 1)
	}
	return sprites.Frame{Image: img, Key: 1}
}

func newSurface(t *testing.T) *Surface {
	t.Helper()
	s, err := New(70, 20)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	return s
}

func TestNew_InvalidSize(t *testing.T) {
	for _, size := range [][2]int{{0, 10}, {10, 0}, {-1, -1}} {
		if _, err := New(size[0], size[1]); !apperr.Is(err, apperr.ErrCodeSurface) {
			t.Errorf("New(%d, %d) err = %v, want SURFACE", size[0], size[1], err)
		}
	}
}

func TestToPixel(t *testing.T) {
	s := newSurface(t)

	tests := []struct {
		p    Point
		want image.Point
	}{
		{Point{-350, 200}, image.Pt(0, 0)},
		{Point{0, 0}, image.Pt(35, 20)},
		{Point{250, -130}, image.Pt(60, 33)},
	}
	for _, tt := range tests {
		if got := s.ToPixel(tt.p); got != tt.want {
			t.Errorf("ToPixel(%v) = %v, want %v", tt.p, got, tt.want)
		}
	}
}

func TestRegisterSprite_Rejections(t *testing.T) {
	s := newSurface(t)

	if _, err := s.RegisterSprite("turtle_frame_0", solidFrame(3, 3, orange)); err != nil {
		t.Fatalf("first registration failed: %v", err)
	}
	if _, err := s.RegisterSprite("turtle_frame_0", solidFrame(3, 3, orange)); !apperr.Is(err, apperr.ErrCodeSpriteRegistration) {
		t.Errorf("duplicate err = %v, want SPRITE_REGISTRATION", err)
	}
	if _, err := s.RegisterSprite("empty", sprites.Frame{}); !apperr.Is(err, apperr.ErrCodeSpriteRegistration) {
		t.Errorf("empty frame err = %v, want SPRITE_REGISTRATION", err)
	}
	if _, err := s.RegisterSprite("", solidFrame(1, 1, orange)); err == nil {
		t.Error("empty name should be rejected")
	}
}

func TestFlush_DoubleBuffered(t *testing.T) {
	s := newSurface(t)
	s.Flush()
	before := s.Frame()

	h, err := s.RegisterSprite("dot", solidFrame(4, 4, orange))
	if err != nil {
		t.Fatal(err)
	}
	e := s.NewEntity()
	e.SetShape(h)
	e.MoveTo(0, 0)
	e.Show()

	if s.Frame() != before {
		t.Fatal("Frame() changed before Flush")
	}
	centre := s.ToPixel(Point{})
	if s.PixelAt(centre.X, centre.Y) != DefaultBackdrop {
		t.Fatal("pixels changed before Flush")
	}

	s.Flush()
	if s.PixelAt(centre.X, centre.Y) != orange {
		t.Errorf("centre pixel = %v, want sprite colour", s.PixelAt(centre.X, centre.Y))
	}
	// Sprite is anchored on its centre: columns 33..36, column 33 keyed.
	if s.PixelAt(centre.X-2, centre.Y) != DefaultBackdrop {
		t.Error("transparent sprite column should show the backdrop")
	}
}

func TestFlush_HiddenAndShapeless(t *testing.T) {
	s := newSurface(t)
	h, _ := s.RegisterSprite("dot", solidFrame(4, 4, orange))

	hidden := s.NewEntity()
	hidden.SetShape(h)
	hidden.MoveTo(0, 0)

	shapeless := s.NewEntity()
	shapeless.MoveTo(0, 0)
	shapeless.Show()

	s.Flush()
	centre := s.ToPixel(Point{})
	if s.PixelAt(centre.X, centre.Y) != DefaultBackdrop {
		t.Error("hidden or shapeless entities must not draw")
	}
}

func TestFlush_LaterEntitiesOnTop(t *testing.T) {
	s := newSurface(t)
	under, _ := s.RegisterSprite("under", solidFrame(4, 4, orange))
	over, _ := s.RegisterSprite("over", solidFrame(4, 4, white))

	for _, h := range []sprites.Handle{under, over} {
		e := s.NewEntity()
		e.SetShape(h)
		e.Show()
	}
	s.Flush()

	centre := s.ToPixel(Point{})
	if s.PixelAt(centre.X, centre.Y) != white {
		t.Error("later entity should be drawn over earlier one")
	}
}

func TestFlush_BackgroundAndLine(t *testing.T) {
	s := newSurface(t)
	bg := sprites.Frame{Image: image.NewPaletted(image.Rect(0, 0, 70, 40), color.Palette{color.NRGBA{B: 0xff, A: 0xff}}), Key: sprites.NoKey}
	s.SetBackground(bg)
	s.DrawLine(Point{250, -150}, Point{250, 150}, 3, color.White)
	s.Flush()

	if got := s.PixelAt(5, 5); got != (color.NRGBA{B: 0xff, A: 0xff}) {
		t.Errorf("background pixel = %v", got)
	}
	p := s.ToPixel(Point{250, 0})
	if got := s.PixelAt(p.X, p.Y); got != white {
		t.Errorf("finish line pixel = %v, want white", got)
	}
}

func TestWriteText(t *testing.T) {
	s := newSurface(t)
	style := lipgloss.NewStyle().Bold(true)

	s.WriteText("countdown", Point{0, 40}, "3", style)
	s.Flush()
	if !strings.Contains(s.Frame(), "3") {
		t.Error("frame should contain countdown text")
	}

	s.WriteText("countdown", Point{0, 40}, "Go!", style)
	s.Flush()
	if !strings.Contains(s.Frame(), "Go!") {
		t.Error("frame should contain replaced text")
	}
	if got, _ := s.Text("countdown"); got != "Go!" {
		t.Errorf("Text() = %q, want Go!", got)
	}

	s.ClearText("countdown")
	s.Flush()
	if strings.Contains(s.Frame(), "Go!") {
		t.Error("cleared text should disappear after flush")
	}
	if _, ok := s.Text("countdown"); ok {
		t.Error("Text() should report cleared label as absent")
	}
}

func TestWriteText_AboveTopEdgeIsSkipped(t *testing.T) {
	s := newSurface(t)
	at := Point{0, LogicalHeight/2 + 5}
	if p := s.ToPixel(at); p.Y != -1 {
		t.Fatalf("ToPixel(%v).Y = %d, want -1", at, p.Y)
	}

	s.WriteText("result", at, "offscreen", lipgloss.NewStyle())
	s.Flush()
	if strings.Contains(s.Frame(), "offscreen") {
		t.Error("label above the top edge should not be drawn")
	}
}

func TestWriteText_WideRunes(t *testing.T) {
	s := newSurface(t)
	s.WriteText("result", Point{}, "The Turtle 🐢 wins!", lipgloss.NewStyle())
	s.Flush()

	if !strings.Contains(s.Frame(), "The Turtle 🐢 wins!") {
		t.Errorf("frame should contain the result text, got:\n%s", s.Frame())
	}
	for i, row := range strings.Split(s.Frame(), "\n") {
		if w := lipgloss.Width(row); w != 70 {
			t.Errorf("row %d width = %d, want 70", i, w)
		}
	}
}
