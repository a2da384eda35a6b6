package sim

import (
	"sync"

	"stash/backend/rei"
	"stash/geom"
	"stash/host"
)

// REIScreen is the id of REI's recipe view.
const REIScreen = "rei:recipes"

// REI simulates REI. Its runtime is nil until Reload.
type REI struct {
	*faultSet
	host *Host

	mu      sync.Mutex
	loaded  bool
	hidden  bool
	zones   exclusionFuncs
	views   []rei.ViewRequest
	decline bool
}

func NewREI(h *Host) *REI {
	return &REI{faultSet: &faultSet{name: "rei"}, host: h}
}

// Reload finishes REI's plugin reload.
func (r *REI) Reload() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loaded = true
}

func (r *REI) SetHidden(hidden bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hidden = hidden
}

// DeclineViews makes OpenView refuse every request.
func (r *REI) DeclineViews(decline bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.decline = decline
}

// Views returns every accepted view request.
func (r *REI) Views() []rei.ViewRequest {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]rei.ViewRequest(nil), r.views...)
}

func (r *REI) Runtime() rei.Runtime {
	r.check("runtime")
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.loaded {
		return nil
	}
	return r
}

func (r *REI) RegisterExclusionZones(fn func(host.Screen) []geom.Rect) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.zones = append(r.zones, fn)
}

func (r *REI) Entries() rei.EntryRegistry { return reiEntries{r} }
func (r *REI) Overlay() rei.Overlay       { return reiOverlay{r} }

func (r *REI) info(e rei.Entry) (host.ItemInfo, bool) {
	switch v := e.(type) {
	case rei.ItemEntry:
		return r.host.Catalog.Item(v.ID)
	case rei.FluidEntry:
		return r.host.Catalog.Fluid(v.ID)
	}
	return host.ItemInfo{}, false
}

func (r *REI) OpenView(req rei.ViewRequest) bool {
	r.check("openView")
	r.mu.Lock()
	if r.decline {
		r.mu.Unlock()
		return false
	}
	r.views = append(r.views, req)
	r.mu.Unlock()
	info, _ := r.info(req.Entry)
	title := "REI Recipes"
	if req.Mode == rei.ViewUsages {
		title = "REI Usages"
	}
	r.host.Open(Screen{ID: REIScreen, Title: title, Focus: info.ID})
	return true
}

func (r *REI) IsRecipeScreen(screen host.Screen) bool {
	return screen != nil && screen.ScreenID() == REIScreen
}

func (r *REI) Render(s host.Surface, e rei.Entry, x, y, size int) {
	r.check("render")
	info, ok := r.info(e)
	if !ok {
		s.DrawIcon(host.MissingIcon, x, y, size)
		return
	}
	drawInfo(s, info, x, y, size)
}

func (r *REI) Describe(e rei.Entry) (string, host.Icon, []string) {
	r.check("describe")
	info, ok := r.info(e)
	if !ok {
		return "", host.MissingIcon, nil
	}
	return info.DisplayName, info.Icon, []string{info.DisplayName, info.ID, "REI"}
}

func (r *REI) list() listGrid[rei.Entry] {
	g := listGrid[rei.Entry]{slot: r.host.slot()}
	for _, info := range r.host.Catalog.Items() {
		g.entries = append(g.entries, rei.ItemEntry{ID: info.ID, Count: 1})
	}
	for _, info := range r.host.Catalog.Fluids() {
		g.entries = append(g.entries, rei.FluidEntry{ID: info.ID, Amount: 1000})
	}
	return g
}

func (r *REI) bounds(screen host.Screen) (geom.Rect, bool) {
	r.mu.Lock()
	visible := r.loaded && !r.hidden
	zones := append(exclusionFuncs(nil), r.zones...)
	r.mu.Unlock()
	if !visible {
		return geom.Rect{}, false
	}
	area := r.list().area(screen, zones.collect(screen))
	return area, !area.Empty()
}

// DrawList renders REI's entry list for the current screen.
func (r *REI) DrawList(s host.Surface) {
	area, ok := r.bounds(r.host.CurrentScreen())
	if !ok {
		return
	}
	g := r.list()
	g.cells(area, func(e rei.Entry, x, y int) { r.Render(s, e, x, y, g.slot) })
}

type reiEntries struct{ r *REI }

func (e reiEntries) Item(id, components string) (rei.ItemEntry, bool) {
	e.r.check("lookup")
	if _, ok := e.r.host.Catalog.Item(id); !ok {
		return rei.ItemEntry{}, false
	}
	return rei.ItemEntry{ID: id, Components: components, Count: 1}, true
}

type reiOverlay struct{ r *REI }

func (o reiOverlay) Visible() bool {
	o.r.mu.Lock()
	defer o.r.mu.Unlock()
	return o.r.loaded && !o.r.hidden
}

func (o reiOverlay) FocusedStack(x, y int) (rei.Entry, bool) {
	o.r.check("focused")
	area, ok := o.r.bounds(o.r.host.CurrentScreen())
	if !ok {
		return nil, false
	}
	return o.r.list().at(area, x, y)
}

func (o reiOverlay) Bounds(screen host.Screen) (geom.Rect, bool) {
	return o.r.bounds(screen)
}
