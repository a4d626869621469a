package canvas

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// cell is one terminal cell of a composed frame. A text cell with an empty
// glyph is the trailing half of a wide rune and prints nothing.
type cell struct {
	glyph  string
	fg, bg color.NRGBA
	text   string
}

func (s *Surface) renderCells() string {
	grid := make([][]cell, s.rows)
	for r := range grid {
		grid[r] = make([]cell, s.cols)
		for c := range grid[r] {
			grid[r][c] = s.pixelCell(c, r)
		}
	}

	for _, id := range s.order {
		s.placeText(grid, id, s.texts[id])
	}

	lines := make([]string, s.rows)
	for r, row := range grid {
		lines[r] = s.renderRow(row)
	}
	return strings.Join(lines, "\n")
}

func (s *Surface) pixelCell(col, row int) cell {
	return cell{
		glyph: upperHalf,
		fg:    s.pixels.NRGBAAt(col, row*2),
		bg:    s.pixels.NRGBAAt(col, row*2+1),
	}
}

func (s *Surface) placeText(grid [][]cell, id string, l label) {
	p := s.ToPixel(l.at)
	if p.Y < 0 {
		return
	}
	row := p.Y / 2
	if row >= s.rows {
		return
	}

	col := p.X - runewidth.StringWidth(l.content)/2
	last := -1
	for _, r := range l.content {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			// Combining marks and variation selectors join the previous glyph.
			if last >= 0 {
				grid[row][last].glyph += string(r)
			}
			continue
		}
		if col >= 0 && col+w <= s.cols {
			s.clearWide(grid[row], col)
			grid[row][col] = cell{glyph: string(r), bg: grid[row][col].bg, text: id}
			if w == 2 {
				s.clearWide(grid[row], col+1)
				grid[row][col+1] = cell{bg: grid[row][col].bg, text: id}
			}
			last = col
		}
		col += w
	}
}

// clearWide restores the partner cell when a wide rune is partly overwritten.
func (s *Surface) clearWide(row []cell, col int) {
	c := row[col]
	if c.text == "" {
		return
	}
	if c.glyph == "" && col > 0 {
		row[col-1].glyph = " "
	}
	if c.glyph != "" && col+1 < len(row) && row[col+1].text != "" && row[col+1].glyph == "" {
		row[col+1].glyph = " "
	}
}

// renderRow prints runs of identically styled cells with one style each.
func (s *Surface) renderRow(row []cell) string {
	var b strings.Builder
	start := 0
	for i := 1; i <= len(row); i++ {
		if i < len(row) && sameRun(row[start], row[i]) {
			continue
		}
		b.WriteString(s.renderRun(row[start:i]))
		start = i
	}
	return b.String()
}

func sameRun(a, b cell) bool {
	if a.text != b.text {
		return false
	}
	if a.text != "" {
		return a.bg == b.bg
	}
	return a.fg == b.fg && a.bg == b.bg
}

func (s *Surface) renderRun(run []cell) string {
	var content strings.Builder
	for _, c := range run {
		content.WriteString(c.glyph)
	}

	first := run[0]
	if first.text != "" {
		return s.texts[first.text].style.Background(hexColor(first.bg)).Render(content.String())
	}
	return lipgloss.NewStyle().
		Foreground(hexColor(first.fg)).
		Background(hexColor(first.bg)).
		Render(content.String())
}

func hexColor(c color.NRGBA) lipgloss.Color {
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B))
}
