package panel

import (
	"fmt"

	"stash/backend"
	"stash/drag"
	"stash/geom"
	"stash/host"
	"stash/ingredient"
	"stash/layout"
)

// Render draws the panel, the hovered tooltip and any drag ghost.
func (p *Panel) Render(s host.Surface, mouseX, mouseY int) {
	p.sync()
	p.mouseX, p.mouseY = mouseX, mouseY
	if p.hidden {
		return
	}
	snap := p.snap
	s.FillRect(snap.Panel, host.ColorDark)

	if r, ok := snap.Control(layout.ControlAddButton); ok {
		label, c := "+", host.ColorGreen
		if p.mode == inputAdd {
			label, c = "x", host.ColorRed
		}
		drawButton(s, r, label, c)
	}
	for i, f := range p.visible {
		r, ok := snap.Control(layout.FolderButton(i))
		if !ok {
			continue
		}
		c := host.ColorGray
		if f.Active {
			c = host.ColorAccent
		}
		drawButton(s, r, f.Name, c)
	}
	if r, ok := snap.Control(layout.ControlAddInput); ok {
		p.drawInput(s, r)
	}
	if p.hasActive {
		p.drawContent(s, snap)
	}
	p.drawTooltip(s)
	p.drawGhost(s)
}

func (p *Panel) drawInput(s host.Surface, r geom.Rect) {
	prompt := "New folder: "
	switch p.mode {
	case inputRename:
		prompt = "Rename: "
	case inputFilter:
		prompt = "Filter: "
	}
	s.FillRect(r, host.ColorDark)
	drawText(s, r, prompt+string(p.text)+"_", host.ColorWhite)
}

func (p *Panel) drawContent(s host.Surface, snap layout.Snapshot) {
	if r, ok := snap.Control(layout.ControlContentHeader); ok {
		drawText(s, r, fmt.Sprintf("%s (%d)", p.active.Name, len(p.activeRefs)), host.ColorGold)
	}
	m := p.engine.Metrics()
	for _, slot := range snap.Slots() {
		if slot.Index >= len(p.activeRefs) {
			continue
		}
		if slot.Rect.Contains(p.mouseX, p.mouseY) {
			s.FillRect(slot.Rect, host.ColorGray)
		}
		p.drawRef(s, p.activeRefs[slot.Index], slot.Rect.X, slot.Rect.Y, m.SlotSize)
	}
	if snap.TotalPages > 1 {
		if r, ok := snap.Control(layout.ControlPrevPage); ok {
			drawButton(s, r, "<", host.ColorWhite)
		}
		if r, ok := snap.Control(layout.ControlNextPage); ok {
			drawButton(s, r, ">", host.ColorWhite)
		}
		if r, ok := snap.Control(layout.ControlPageLabel); ok {
			drawText(s, r, fmt.Sprintf("%d/%d", snap.Page+1, snap.TotalPages), host.ColorWhite)
		}
	}
}

func (p *Panel) drawRef(s host.Surface, ref ingredient.Ref, x, y, size int) {
	if a, n, ok := p.resolve(ref); ok {
		a.Render(s, n, x, y, size)
		return
	}
	s.DrawIcon(host.MissingIcon, x, y, size)
}

// Describe returns the visual for a stored ingredient, falling back to a
// placeholder when no backend recognizes it.
func (p *Panel) Describe(ref ingredient.Ref) backend.Displayable {
	a, n, ok := p.resolve(ref)
	if !ok {
		return backend.Placeholder(ref.Key)
	}
	d, err := a.DisplayStackFor(n)
	if err != nil {
		p.log.WithError(err).WithField("ref", ref.String()).Debug("display fallback")
	}
	return d
}

func (p *Panel) drawTooltip(s host.Surface) {
	if p.drag.State() != drag.Idle {
		return
	}
	var lines []string
	if ref, ok := p.HoveredRef(); ok {
		d := p.Describe(ref)
		lines = d.Tooltip
		if len(lines) == 0 {
			lines = []string{d.Name}
		}
		lines = append(lines, ref.String())
	} else if f, ok := p.hoveredFolder(); ok {
		lines = []string{f.Name, fmt.Sprintf("%d ingredients", len(f.Ingredients))}
	}
	if len(lines) == 0 {
		return
	}
	w := 0
	for _, l := range lines {
		w = max(w, s.TextWidth(l))
	}
	lh := s.LineHeight()
	box := geom.R(p.mouseX+1, p.mouseY+1, w+2, lh*len(lines)+2)
	s.FillRect(box, host.ColorDark)
	for i, l := range lines {
		c := host.ColorWhite
		if i > 0 {
			c = host.ColorGray
		}
		s.DrawText(l, box.X+1, box.Y+1+i*lh, c)
	}
}

func (p *Panel) drawGhost(s host.Surface) {
	payload, ok := p.drag.Payload()
	if !ok {
		return
	}
	x, y := p.drag.Cursor()
	size := p.engine.Metrics().SlotSize
	for _, t := range p.FolderButtonTargets() {
		if t.Rect.Contains(x, y) {
			s.FillRect(t.Rect, host.ColorGold)
			drawText(s, t.Rect, t.Name, host.ColorDark)
		}
	}
	if payload.Native != nil {
		if a, err := p.reg.Get(payload.Backend); err == nil {
			a.Render(s, payload.Native, x, y, size)
			return
		}
	}
	p.drawRef(s, payload.Ref, x, y, size)
}

func drawButton(s host.Surface, r geom.Rect, label string, c host.Color) {
	s.FillRect(r, host.ColorDark)
	drawText(s, r, label, c)
}

// drawText writes text into r, truncated to fit.
func drawText(s host.Surface, r geom.Rect, text string, c host.Color) {
	text = truncate(s, text, r.W)
	if text == "" {
		return
	}
	y := r.Y + max(r.H-s.LineHeight(), 0)/2
	s.DrawText(text, r.X, y, c)
}

func truncate(s host.Surface, text string, width int) string {
	if s.TextWidth(text) <= width {
		return text
	}
	runes := []rune(text)
	for n := len(runes) - 1; n > 0; n-- {
		t := string(runes[:n]) + "…"
		if s.TextWidth(t) <= width {
			return t
		}
	}
	return ""
}
