package layout

// Placement derives the panel bounds from the screen size.
type Placement struct {
	Left   int `toml:"left"`
	Top    int `toml:"top"`
	Bottom int `toml:"bottom"`
	// Width is the maximum panel width; zero uses a third of the screen.
	Width int `toml:"width"`
}

// DefaultPlacement docks the panel to the top-left corner.
func DefaultPlacement() Placement {
	return Placement{Left: 0, Top: 0, Bottom: 0}
}

// Bounds returns x, y, max width and max height for a screen of w x h.
func (p Placement) Bounds(w, h int) (x, y, maxWidth, maxHeight int) {
	maxWidth = p.Width
	if maxWidth <= 0 {
		maxWidth = w / 3
	}
	maxWidth = max(min(maxWidth, w-p.Left), 0)
	maxHeight = max(h-p.Top-p.Bottom, 0)
	return p.Left, p.Top, maxWidth, maxHeight
}

// Fit returns in with its bounds replaced for a screen of w x h.
func (p Placement) Fit(in Inputs, w, h int) Inputs {
	in.X, in.Y, in.MaxWidth, in.MaxHeight = p.Bounds(w, h)
	return in
}
