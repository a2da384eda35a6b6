package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"stash/geom"
	"stash/host"
)

type cell struct {
	r    rune
	fg   host.Color
	bg   host.Color
	cont bool // right half of a wide rune
}

// cellSurface is a host.Surface over a terminal cell grid. One unit is one
// cell.
type cellSurface struct {
	w, h  int
	cells []cell
}

func newCellSurface(w, h int) *cellSurface {
	s := &cellSurface{w: max(w, 0), h: max(h, 0)}
	s.cells = make([]cell, s.w*s.h)
	for i := range s.cells {
		s.cells[i] = cell{r: ' ', fg: host.ColorWhite}
	}
	return s
}

func (s *cellSurface) at(x, y int) *cell {
	if x < 0 || y < 0 || x >= s.w || y >= s.h {
		return nil
	}
	return &s.cells[y*s.w+x]
}

func (s *cellSurface) FillRect(r geom.Rect, c host.Color) {
	clip := r.Intersect(geom.R(0, 0, s.w, s.h))
	for y := clip.Y; y < clip.Bottom(); y++ {
		for x := clip.X; x < clip.Right(); x++ {
			*s.at(x, y) = cell{r: ' ', fg: host.ColorWhite, bg: c}
		}
	}
}

func (s *cellSurface) DrawText(text string, x, y int, c host.Color) {
	for _, r := range text {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		s.put(r, x, y, c, w)
		x += w
	}
}

func (s *cellSurface) DrawIcon(icon host.Icon, x, y, _ int) {
	g := icon.Glyph
	if g == 0 {
		g = '?'
	}
	s.put(g, x, y, icon.Color, runewidth.RuneWidth(g))
}

func (s *cellSurface) put(r rune, x, y int, fg host.Color, width int) {
	c := s.at(x, y)
	if c == nil {
		return
	}
	c.r, c.fg, c.cont = r, fg, false
	if width == 2 {
		if next := s.at(x+1, y); next != nil {
			next.cont, next.bg = true, c.bg
		} else {
			c.r = ' '
		}
	}
}

func (s *cellSurface) TextWidth(text string) int { return runewidth.StringWidth(text) }

func (s *cellSurface) LineHeight() int { return 1 }

// Lines returns the plain text of each row.
func (s *cellSurface) Lines() []string {
	out := make([]string, s.h)
	for y := range s.h {
		var b strings.Builder
		for x := range s.w {
			if c := s.at(x, y); !c.cont {
				b.WriteRune(c.r)
			}
		}
		out[y] = b.String()
	}
	return out
}

// Render returns the styled grid, one run of equal colors per style.
func (s *cellSurface) Render() string {
	lines := make([]string, s.h)
	for y := range s.h {
		var (
			b      strings.Builder
			run    strings.Builder
			fg, bg host.Color
		)
		flush := func() {
			if run.Len() > 0 {
				b.WriteString(cellStyle(fg, bg).Render(run.String()))
				run.Reset()
			}
		}
		for x := range s.w {
			c := s.at(x, y)
			if c.cont {
				continue
			}
			if c.fg != fg || c.bg != bg {
				flush()
				fg, bg = c.fg, c.bg
			}
			run.WriteRune(c.r)
		}
		flush()
		lines[y] = b.String()
	}
	return strings.Join(lines, "\n")
}

var styleCache = make(map[[2]host.Color]lipgloss.Style)

func cellStyle(fg, bg host.Color) lipgloss.Style {
	key := [2]host.Color{fg, bg}
	if st, ok := styleCache[key]; ok {
		return st
	}
	st := lipgloss.NewStyle()
	if fg>>24 != 0 {
		st = st.Foreground(hexColor(fg))
	}
	if bg>>24 != 0 {
		st = st.Background(hexColor(bg))
	}
	styleCache[key] = st
	return st
}

func hexColor(c host.Color) lipgloss.Color {
	return lipgloss.Color(fmt.Sprintf("#%06X", uint32(c)&0xFFFFFF))
}
