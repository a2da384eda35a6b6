package layout

import (
	"slices"

	"stash/geom"
)

// Inputs are everything the layout depends on.
type Inputs struct {
	// X, Y is the preferred top-left corner; MaxWidth and MaxHeight bound the panel.
	X, Y      int
	MaxWidth  int
	MaxHeight int

	// Exclusions are areas reserved by other panels.
	Exclusions []geom.Rect

	FolderCount  int
	AddMode      bool
	ActiveFolder bool
	ItemCount    int
	Page         int
}

// Compute lays out the panel. It has no side effects and equal inputs give
// equal snapshots.
func Compute(m Metrics, in Inputs) Snapshot {
	m = m.Sanitize()
	s := Snapshot{controls: make(map[ControlID]geom.Rect), folderCount: max(in.FolderCount, 0)}

	x, width := horizontalBounds(in)
	avail := max(width-2*m.Margin, 0)
	left := x + m.Margin

	// Folder rows.
	firstCap, laterCap := rowCapacities(m, avail)
	s.FolderRows = folderRows(s.folderCount, firstCap, laterCap)

	top := in.Y + m.TopPadding
	s.controls[ControlAddButton] = geom.R(left, top, min(m.FolderButtonWidth, avail), m.FolderButtonHeight)
	for i := range s.folderCount {
		row, col := folderCell(i, firstCap, laterCap)
		bx := left + col*m.FolderStep()
		if row == 0 {
			bx += m.AddReserve
		}
		by := top + row*m.HeaderRowHeight
		s.controls[FolderButton(i)] = geom.R(bx, by, m.FolderButtonWidth, m.FolderButtonHeight)
	}
	y := top + s.FolderRows*m.HeaderRowHeight

	if in.AddMode {
		s.controls[ControlAddInput] = geom.R(left, y, avail, m.AddInputHeight)
		y += m.AddInputHeight
	}

	if !in.ActiveFolder {
		s.ItemCount = max(in.ItemCount, 0)
		s.Columns = gridColumns(m, avail)
		s.TotalPages = 1
		y += m.BottomPadding
		s.Panel = geom.R(x, in.Y, width, y-in.Y)
		return s
	}

	// Ingredient grid.
	step := m.SlotStep()
	s.Columns = gridColumns(m, avail)
	s.MaxRows = m.MaxGridRows
	if s.MaxRows == 0 {
		fixed := (y - in.Y) + m.ContentHeaderHeight + m.PaginationHeight + m.BottomPadding
		s.MaxRows = max((in.MaxHeight-fixed)/step, 1)
	}
	s.PerPage = s.Columns * s.MaxRows
	s.ItemCount = max(in.ItemCount, 0)
	s.TotalPages = TotalPages(s.ItemCount, s.PerPage)
	s.Page = ClampPage(in.Page, s.TotalPages)

	start, end := s.PageRange()
	onPage := end - start
	needed := (onPage + s.Columns - 1) / s.Columns
	s.Rows = needed
	if needed < s.MaxRows {
		s.Rows = needed + 1
	}

	dropTop := y
	s.controls[ControlContentHeader] = geom.R(left, y, avail, m.ContentHeaderHeight)
	y += m.ContentHeaderHeight

	s.Content = geom.R(left, y, avail, s.Rows*step)
	s.controls[ControlGrid] = s.Content
	s.slots = make([]Slot, 0, onPage)
	for i := start; i < end; i++ {
		k := i - start
		s.slots = append(s.slots, Slot{
			Index: i,
			Rect:  geom.R(left+(k%s.Columns)*step, y+(k/s.Columns)*step, m.SlotSize, m.SlotSize),
		})
	}
	y += s.Content.H

	buttonW := min(m.PaginationHeight, avail/3)
	s.controls[ControlPrevPage] = geom.R(left, y, buttonW, m.PaginationHeight)
	s.controls[ControlNextPage] = geom.R(left+avail-buttonW, y, buttonW, m.PaginationHeight)
	s.controls[ControlPageLabel] = geom.R(left+buttonW, y, max(avail-2*buttonW, 0), m.PaginationHeight)
	y += m.PaginationHeight

	s.controls[ControlDropArea] = geom.R(left, dropTop, avail, y-dropTop)
	y += m.BottomPadding

	s.Panel = geom.R(x, in.Y, width, y-in.Y)
	return s
}

// horizontalBounds moves the panel start past exclusions covering it and
// stops it at the nearest exclusion to its right.
func horizontalBounds(in Inputs) (x, width int) {
	x, right := in.X, in.X+max(in.MaxWidth, 0)
	band := geom.R(in.X, in.Y, max(in.MaxWidth, 0), max(in.MaxHeight, 1))

	exs := slices.Clone(in.Exclusions)
	slices.SortStableFunc(exs, func(a, b geom.Rect) int { return a.X - b.X })
	for _, ex := range exs {
		if ex.Empty() || ex.Y >= band.Bottom() || ex.Bottom() <= band.Y {
			continue
		}
		switch {
		case ex.X <= x && ex.Right() > x:
			x = ex.Right()
		case ex.X > x && ex.X < right:
			right = ex.X
		}
	}
	return x, max(right-x, 0)
}

func rowCapacities(m Metrics, avail int) (first, later int) {
	step := m.FolderStep()
	first = max((avail-m.AddReserve)/step, 0)
	later = max(avail/step, 1)
	return first, later
}

func folderRows(count, firstCap, laterCap int) int {
	if count <= firstCap {
		return 1
	}
	rest := count - firstCap
	return 1 + (rest+laterCap-1)/laterCap
}

func folderCell(i, firstCap, laterCap int) (row, col int) {
	if i < firstCap {
		return 0, i
	}
	i -= firstCap
	return 1 + i/laterCap, i % laterCap
}

func gridColumns(m Metrics, avail int) int {
	return max(avail/m.SlotStep(), 1)
}
