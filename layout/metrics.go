// Package layout computes the overlay panel's geometry.
//
// Compute is a pure function from Inputs to an immutable Snapshot. Engine
// owns the current Inputs, recomputes the whole Snapshot on every change and
// publishes it to listeners. Listeners only re-apply the snapshot; asking the
// engine for a new layout while it is publishing is rejected.
package layout

// Metrics are the fixed sizes the layout is built from. All values are in
// host units (GUI pixels in game, cells in the terminal demo).
type Metrics struct {
	// Margin is the horizontal padding on each side of the panel.
	Margin int `toml:"margin"`

	FolderButtonWidth  int `toml:"folder_button_width"`
	FolderButtonHeight int `toml:"folder_button_height"`
	FolderSpacing      int `toml:"folder_spacing"`
	// AddReserve is the width kept free on the first folder row for the add button.
	AddReserve int `toml:"add_reserve"`

	SlotSize    int `toml:"slot_size"`
	SlotSpacing int `toml:"slot_spacing"`

	TopPadding          int `toml:"top_padding"`
	HeaderRowHeight     int `toml:"header_row_height"`
	AddInputHeight      int `toml:"add_input_height"`
	ContentHeaderHeight int `toml:"content_header_height"`
	PaginationHeight    int `toml:"pagination_height"`
	BottomPadding       int `toml:"bottom_padding"`

	// MaxGridRows caps the grid. Zero derives it from the height constraint.
	MaxGridRows int `toml:"max_grid_rows"`
}

// DefaultMetrics are the in-game pixel sizes.
func DefaultMetrics() Metrics {
	return Metrics{
		Margin:              5,
		FolderButtonWidth:   20,
		FolderButtonHeight:  20,
		FolderSpacing:       2,
		AddReserve:          23,
		SlotSize:            18,
		SlotSpacing:         2,
		TopPadding:          5,
		HeaderRowHeight:     22,
		AddInputHeight:      20,
		ContentHeaderHeight: 14,
		PaginationHeight:    16,
		BottomPadding:       4,
	}
}

// FolderStep is the horizontal distance between folder buttons.
func (m Metrics) FolderStep() int { return m.FolderButtonWidth + m.FolderSpacing }

// SlotStep is the distance between ingredient slots.
func (m Metrics) SlotStep() int { return m.SlotSize + m.SlotSpacing }

// Sanitize replaces non-positive sizes with the defaults so a bad config
// cannot produce a division by zero.
func (m Metrics) Sanitize() Metrics {
	d := DefaultMetrics()
	fix := func(v *int, def int, allowZero bool) {
		if *v < 0 || (*v == 0 && !allowZero) {
			*v = def
		}
	}
	fix(&m.Margin, d.Margin, true)
	fix(&m.FolderButtonWidth, d.FolderButtonWidth, false)
	fix(&m.FolderButtonHeight, d.FolderButtonHeight, false)
	fix(&m.FolderSpacing, d.FolderSpacing, true)
	fix(&m.AddReserve, d.AddReserve, true)
	fix(&m.SlotSize, d.SlotSize, false)
	fix(&m.SlotSpacing, d.SlotSpacing, true)
	fix(&m.TopPadding, d.TopPadding, true)
	fix(&m.HeaderRowHeight, d.HeaderRowHeight, false)
	fix(&m.AddInputHeight, d.AddInputHeight, false)
	fix(&m.ContentHeaderHeight, d.ContentHeaderHeight, true)
	fix(&m.PaginationHeight, d.PaginationHeight, true)
	fix(&m.BottomPadding, d.BottomPadding, true)
	fix(&m.MaxGridRows, 0, true)
	return m
}
