package ui

import "stash/layout"

// CellMetrics size the panel in terminal cells.
func CellMetrics() layout.Metrics {
	return layout.Metrics{
		Margin:              1,
		FolderButtonWidth:   8,
		FolderButtonHeight:  1,
		FolderSpacing:       1,
		AddReserve:          4,
		SlotSize:            1,
		SlotSpacing:         1,
		TopPadding:          1,
		HeaderRowHeight:     2,
		AddInputHeight:      1,
		ContentHeaderHeight: 2,
		PaginationHeight:    1,
		BottomPadding:       1,
	}
}

// CellSlotSize is the simulated viewers' list cell size in the terminal.
const CellSlotSize = 2
