package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stash/geom"
)

func TestFolderRows(t *testing.T) {
	m := DefaultMetrics()

	tests := []struct {
		name    string
		width   int
		folders int
		want    int
	}{
		{name: "no folders", width: 400, folders: 0, want: 1},
		{name: "three folders", width: 400, folders: 3, want: 1},
		{name: "seven folders", width: 400, folders: 7, want: 1},
		{name: "first row exactly full", width: 400, folders: 16, want: 1},
		{name: "one past first row", width: 400, folders: 17, want: 2},
		{name: "second row exactly full", width: 400, folders: 16 + 17, want: 2},
		{name: "third row", width: 400, folders: 16 + 17 + 1, want: 3},
		{name: "too narrow for first row", width: 40, folders: 2, want: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Compute(m, Inputs{MaxWidth: tt.width, MaxHeight: 300, FolderCount: tt.folders})
			assert.Equal(t, tt.want, s.FolderRows)
			assert.Len(t, s.FolderButtons(), tt.folders)
		})
	}
}

func TestFirstRowCapacityScenario(t *testing.T) {
	m := DefaultMetrics()
	first, later := rowCapacities(m, 400-2*m.Margin)
	assert.Equal(t, 16, first)
	assert.Equal(t, 17, later)

	seven := Compute(m, Inputs{MaxWidth: 400, MaxHeight: 300, FolderCount: 7, ActiveFolder: true})
	assert.Equal(t, 1, seven.FolderRows)

	three := Compute(m, Inputs{MaxWidth: 400, MaxHeight: 300, FolderCount: 3, ActiveFolder: true})
	assert.Equal(t, 1, three.FolderRows)
	header, ok := three.Control(ControlContentHeader)
	require.True(t, ok)
	assert.Equal(t, m.TopPadding+m.HeaderRowHeight, header.Y, "content starts right below the single folder row")
}

func TestFolderButtonsDoNotOverlap(t *testing.T) {
	m := DefaultMetrics()
	s := Compute(m, Inputs{X: 10, Y: 20, MaxWidth: 200, MaxHeight: 300, FolderCount: 20})
	add, _ := s.Control(ControlAddButton)
	buttons := s.FolderButtons()
	for i, a := range buttons {
		assert.False(t, a.Intersects(add), "button %d overlaps add", i)
		assert.GreaterOrEqual(t, a.X, s.Panel.X+m.Margin)
		assert.LessOrEqual(t, a.Right(), s.Panel.Right()-m.Margin, "button %d", i)
		for j := i + 1; j < len(buttons); j++ {
			assert.False(t, a.Intersects(buttons[j]), "buttons %d and %d", i, j)
		}
	}
	idx, ok := s.FolderAt(buttons[5].X+1, buttons[5].Y+1)
	require.True(t, ok)
	assert.Equal(t, 5, idx)
}

func TestPaginationScenario(t *testing.T) {
	m := DefaultMetrics()
	m.MaxGridRows = 4
	// 5 columns of 20 units.
	in := Inputs{MaxWidth: 5*m.SlotStep() + 2*m.Margin, MaxHeight: 400, FolderCount: 1, ActiveFolder: true, ItemCount: 37}

	s := Compute(m, in)
	assert.Equal(t, 5, s.Columns)
	assert.Equal(t, 20, s.PerPage)
	assert.Equal(t, 2, s.TotalPages)

	start, end := s.PageRange()
	assert.Equal(t, 0, start)
	assert.Equal(t, 20, end)
	slots := s.Slots()
	require.Len(t, slots, 20)
	assert.Equal(t, 0, slots[0].Index)
	assert.Equal(t, 19, slots[19].Index)
	assert.Equal(t, 4, s.Rows, "a full page uses the max rows without padding")

	in.Page = 1
	s = Compute(m, in)
	start, end = s.PageRange()
	assert.Equal(t, 20, start)
	assert.Equal(t, 37, end)
	slots = s.Slots()
	require.Len(t, slots, 17)
	assert.Equal(t, 20, slots[0].Index)
	assert.Equal(t, 36, slots[16].Index)
	assert.Equal(t, 4, s.Rows, "17 items need 4 rows, already the maximum")
}

func TestGridPaddingRow(t *testing.T) {
	m := DefaultMetrics()
	m.MaxGridRows = 6
	in := Inputs{MaxWidth: 5*m.SlotStep() + 2*m.Margin, MaxHeight: 400, ActiveFolder: true}

	tests := []struct {
		items int
		rows  int
	}{
		{items: 0, rows: 1},
		{items: 1, rows: 2},
		{items: 5, rows: 2},
		{items: 6, rows: 3},
		{items: 26, rows: 6},
		{items: 30, rows: 6},
	}
	for _, tt := range tests {
		in.ItemCount = tt.items
		s := Compute(m, in)
		assert.Equal(t, tt.rows, s.Rows, "items=%d", tt.items)
		assert.Equal(t, tt.rows*m.SlotStep(), s.Content.H)
	}
}

func TestMaxRowsFromHeight(t *testing.T) {
	m := DefaultMetrics()
	in := Inputs{MaxWidth: 200, MaxHeight: 200, ActiveFolder: true, ItemCount: 500}
	s := Compute(m, in)

	fixed := m.TopPadding + m.HeaderRowHeight + m.ContentHeaderHeight + m.PaginationHeight + m.BottomPadding
	assert.Equal(t, (200-fixed)/m.SlotStep(), s.MaxRows)
	assert.LessOrEqual(t, s.Panel.H, 200)

	tiny := Compute(m, Inputs{MaxWidth: 200, MaxHeight: 10, ActiveFolder: true, ItemCount: 3})
	assert.Equal(t, 1, tiny.MaxRows)
}

func TestPanelHeight(t *testing.T) {
	m := DefaultMetrics()
	base := Inputs{MaxWidth: 300, MaxHeight: 400, FolderCount: 2}

	collapsed := Compute(m, base)
	assert.Equal(t, m.TopPadding+m.HeaderRowHeight+m.BottomPadding, collapsed.Panel.H)
	assert.False(t, collapsed.HasActiveFolder())
	assert.True(t, collapsed.Content.Empty())
	_, ok := collapsed.Control(ControlDropArea)
	assert.False(t, ok)

	withInput := base
	withInput.AddMode = true
	adding := Compute(m, withInput)
	assert.Equal(t, collapsed.Panel.H+m.AddInputHeight, adding.Panel.H)
	input, ok := adding.Control(ControlAddInput)
	require.True(t, ok)
	assert.Equal(t, m.TopPadding+m.HeaderRowHeight, input.Y)

	active := base
	active.ActiveFolder = true
	active.ItemCount = 3
	open := Compute(m, active)
	want := m.TopPadding + m.HeaderRowHeight + m.ContentHeaderHeight + open.Rows*m.SlotStep() + m.PaginationHeight + m.BottomPadding
	assert.Equal(t, want, open.Panel.H)

	drop, ok := open.Control(ControlDropArea)
	require.True(t, ok)
	assert.True(t, drop.Contains(open.Content.X, open.Content.Y))
	prev, _ := open.Control(ControlPrevPage)
	next, _ := open.Control(ControlNextPage)
	assert.Less(t, prev.X, next.X)
}

func TestExclusions(t *testing.T) {
	m := DefaultMetrics()

	t.Run("covering the start moves the panel", func(t *testing.T) {
		s := Compute(m, Inputs{X: 0, Y: 0, MaxWidth: 300, MaxHeight: 200, Exclusions: []geom.Rect{geom.R(0, 50, 40, 30)}})
		assert.Equal(t, 40, s.Panel.X)
		assert.Equal(t, 260, s.Panel.W)
	})

	t.Run("exclusion on the right shrinks the panel", func(t *testing.T) {
		s := Compute(m, Inputs{X: 0, Y: 0, MaxWidth: 300, MaxHeight: 200, Exclusions: []geom.Rect{geom.R(250, 0, 70, 200), geom.R(200, 0, 10, 10)}})
		assert.Equal(t, 0, s.Panel.X)
		assert.Equal(t, 200, s.Panel.W)
	})

	t.Run("outside the vertical band is ignored", func(t *testing.T) {
		s := Compute(m, Inputs{X: 0, Y: 0, MaxWidth: 300, MaxHeight: 200, Exclusions: []geom.Rect{geom.R(0, 250, 100, 10)}})
		assert.Equal(t, 300, s.Panel.W)
	})

	t.Run("fully covered collapses to zero width", func(t *testing.T) {
		s := Compute(m, Inputs{X: 0, Y: 0, MaxWidth: 300, MaxHeight: 200, ActiveFolder: true, ItemCount: 4, Exclusions: []geom.Rect{geom.R(0, 0, 400, 400)}})
		assert.Equal(t, 0, s.Panel.W)
		assert.Equal(t, 1, s.Columns)
	})
}

func TestComputeIsDeterministic(t *testing.T) {
	m := DefaultMetrics()
	in := Inputs{X: 3, Y: 7, MaxWidth: 333, MaxHeight: 250, FolderCount: 19, AddMode: true, ActiveFolder: true, ItemCount: 101, Page: 2,
		Exclusions: []geom.Rect{geom.R(300, 0, 50, 50)}}

	first := Compute(m, in)
	for range 10 {
		assert.Equal(t, first, Compute(m, in))
	}
}

func TestPageClampedInSnapshot(t *testing.T) {
	m := DefaultMetrics()
	m.MaxGridRows = 2
	in := Inputs{MaxWidth: 5*m.SlotStep() + 2*m.Margin, MaxHeight: 400, ActiveFolder: true, ItemCount: 25, Page: 7}
	s := Compute(m, in)
	assert.Equal(t, 3, s.TotalPages)
	assert.Equal(t, 2, s.Page)
}

func TestSanitize(t *testing.T) {
	m := Metrics{}.Sanitize()
	assert.Equal(t, DefaultMetrics().SlotSize, m.SlotSize)
	assert.Equal(t, 0, m.Margin)
	assert.NotPanics(t, func() { Compute(Metrics{}, Inputs{MaxWidth: 100, MaxHeight: 100, ActiveFolder: true, ItemCount: 10}) })
}
