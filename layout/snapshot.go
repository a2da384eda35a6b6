package layout

import (
	"maps"
	"strconv"

	"stash/geom"
)

// ControlID names a rectangle in a Snapshot.
type ControlID string

const (
	ControlAddButton     ControlID = "add"
	ControlAddInput      ControlID = "add_input"
	ControlContentHeader ControlID = "content_header"
	// ControlDropArea covers the whole content block; dropping there adds to the active folder.
	ControlDropArea  ControlID = "drop_area"
	ControlGrid      ControlID = "grid"
	ControlPrevPage  ControlID = "prev_page"
	ControlNextPage  ControlID = "next_page"
	ControlPageLabel ControlID = "page_label"
)

// FolderButton is the control id of the i-th folder button.
func FolderButton(i int) ControlID {
	return ControlID("folder:" + strconv.Itoa(i))
}

// Slot is one ingredient cell of the current page.
type Slot struct {
	// Index is the position in the active folder's ingredient list.
	Index int
	Rect  geom.Rect
}

// Snapshot is an immutable computed layout.
type Snapshot struct {
	Panel      geom.Rect
	FolderRows int

	Columns int
	// Rows is the number of grid rows displayed, including the padding row.
	Rows    int
	MaxRows int
	PerPage int

	Page       int
	TotalPages int
	ItemCount  int

	// Content is the ingredient grid area; empty without an active folder.
	Content geom.Rect

	controls    map[ControlID]geom.Rect
	folderCount int
	slots       []Slot
}

// Control returns the rectangle of a control present in this layout.
func (s Snapshot) Control(id ControlID) (geom.Rect, bool) {
	r, ok := s.controls[id]
	return r, ok
}

// Controls returns a copy of every control rectangle.
func (s Snapshot) Controls() map[ControlID]geom.Rect {
	return maps.Clone(s.controls)
}

// FolderButtons returns the folder button rectangles in folder order.
func (s Snapshot) FolderButtons() []geom.Rect {
	out := make([]geom.Rect, 0, s.folderCount)
	for i := range s.folderCount {
		out = append(out, s.controls[FolderButton(i)])
	}
	return out
}

// FolderAt returns the index of the folder button containing (x, y).
func (s Snapshot) FolderAt(x, y int) (int, bool) {
	for i := range s.folderCount {
		if s.controls[FolderButton(i)].Contains(x, y) {
			return i, true
		}
	}
	return 0, false
}

// Slots returns the current page's ingredient cells.
func (s Snapshot) Slots() []Slot {
	return append([]Slot(nil), s.slots...)
}

// SlotAt returns the ingredient cell containing (x, y).
func (s Snapshot) SlotAt(x, y int) (Slot, bool) {
	for _, sl := range s.slots {
		if sl.Rect.Contains(x, y) {
			return sl, true
		}
	}
	return Slot{}, false
}

// PageRange is the half-open index range [start, end) shown on the current page.
func (s Snapshot) PageRange() (start, end int) {
	start = s.Page * s.PerPage
	end = min(start+s.PerPage, s.ItemCount)
	if start > end {
		start = end
	}
	return start, end
}

// HasActiveFolder reports whether the content block is laid out.
func (s Snapshot) HasActiveFolder() bool {
	_, ok := s.controls[ControlDropArea]
	return ok
}
