package sim

import (
	"sync"

	"stash/geom"
	"stash/host"
)

// DefaultSlotSize is the simulated viewers' list cell size.
const DefaultSlotSize = 18

// listGrid is the ingredient list every simulated viewer draws on the right
// side of the screen, pushed right by exclusion zones.
type listGrid[T any] struct {
	slot    int
	entries []T
}

func (g listGrid[T]) area(screen host.Screen, exclusions []geom.Rect) geom.Rect {
	if screen == nil {
		return geom.Rect{}
	}
	w, h := screen.Size()
	width := (w / 3 / g.slot) * g.slot
	if width < g.slot {
		width = g.slot
	}
	area := geom.R(w-width, 0, width, h)
	for _, ex := range exclusions {
		if ex.Intersects(area) && ex.Right() > area.X {
			right := area.Right()
			area.X = ex.Right()
			area.W = right - area.X
		}
	}
	if area.W < g.slot {
		return geom.Rect{}
	}
	return area
}

func (g listGrid[T]) columns(area geom.Rect) int {
	return area.W / g.slot
}

// at returns the entry whose cell contains (x, y).
func (g listGrid[T]) at(area geom.Rect, x, y int) (T, bool) {
	var zero T
	if area.Empty() || !area.Contains(x, y) {
		return zero, false
	}
	cols := g.columns(area)
	col := (x - area.X) / g.slot
	row := (y - area.Y) / g.slot
	i := row*cols + col
	if col >= cols || i >= len(g.entries) {
		return zero, false
	}
	return g.entries[i], true
}

// cells calls fn for every visible entry with its top-left corner.
func (g listGrid[T]) cells(area geom.Rect, fn func(e T, x, y int)) {
	cols := g.columns(area)
	if cols == 0 {
		return
	}
	rows := area.H / g.slot
	for i, e := range g.entries {
		row := i / cols
		if row >= rows {
			return
		}
		fn(e, area.X+(i%cols)*g.slot, area.Y+row*g.slot)
	}
}

type exclusionFuncs []func(host.Screen) []geom.Rect

func (fs exclusionFuncs) collect(screen host.Screen) []geom.Rect {
	var out []geom.Rect
	for _, f := range fs {
		out = append(out, f(screen)...)
	}
	return out
}

// faultSet injects panics into simulated viewer calls.
type faultSet struct {
	name string
	mu   sync.Mutex
	ops  map[string]bool
}

// Fail makes op panic from now on.
func (f *faultSet) Fail(op string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ops == nil {
		f.ops = make(map[string]bool)
	}
	f.ops[op] = true
}

func (f *faultSet) check(op string) {
	f.mu.Lock()
	fail := f.ops[op]
	f.mu.Unlock()
	if fail {
		panic("simulated " + f.name + " failure in " + op)
	}
}

func drawInfo(s host.Surface, info host.ItemInfo, x, y, size int) {
	s.DrawIcon(info.Icon, x, y, size)
}
