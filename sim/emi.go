package sim

import (
	"sync"

	"stash/backend/emi"
	"stash/geom"
	"stash/host"
)

// EMIScreen is the id of EMI's recipe screen.
const EMIScreen = "emi:recipes"

// EMI simulates EMI. Its runtime is nil until Reload.
type EMI struct {
	*faultSet
	host *Host

	mu       sync.Mutex
	loaded   bool
	hidden   bool
	areas    exclusionFuncs
	requests []string
}

func NewEMI(h *Host) *EMI {
	return &EMI{faultSet: &faultSet{name: "emi"}, host: h}
}

// Reload finishes EMI's reload; Runtime is non-nil afterwards.
func (e *EMI) Reload() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.loaded = true
}

// SetHidden toggles the sidebar.
func (e *EMI) SetHidden(hidden bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.hidden = hidden
}

// Requests returns "recipes:<id>" / "uses:<id>" for every display request.
func (e *EMI) Requests() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.requests...)
}

func (e *EMI) Runtime() emi.Runtime {
	e.check("runtime")
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.loaded {
		return nil
	}
	return e
}

func (e *EMI) AddExclusionArea(fn func(host.Screen) []geom.Rect) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.areas = append(e.areas, fn)
}

func (e *EMI) ItemStack(id, components string) (emi.ItemStack, bool) {
	e.check("lookup")
	if _, ok := e.host.Catalog.Item(id); !ok {
		return emi.ItemStack{}, false
	}
	return emi.ItemStack{ID: id, Components: components, Amount: 1}, true
}

func (e *EMI) info(st emi.Stack) (host.ItemInfo, bool) {
	switch v := st.(type) {
	case emi.ItemStack:
		return e.host.Catalog.Item(v.ID)
	case emi.FluidStack:
		return e.host.Catalog.Fluid(v.ID)
	case emi.TagIngredient:
		return host.ItemInfo{ID: "#" + v.Tag, DisplayName: "Tag: " + v.Tag, Icon: host.Icon{Glyph: '#', Color: host.ColorGray}}, true
	}
	return host.ItemInfo{}, false
}

func (e *EMI) Describe(st emi.Stack) (string, host.Icon, []string) {
	e.check("describe")
	info, ok := e.info(st)
	if !ok {
		return "", host.MissingIcon, nil
	}
	return info.DisplayName, info.Icon, []string{info.DisplayName, info.ID, "EMI"}
}

func (e *EMI) Render(s host.Surface, st emi.Stack, x, y, size int) {
	e.check("render")
	info, ok := e.info(st)
	if !ok {
		s.DrawIcon(host.MissingIcon, x, y, size)
		return
	}
	drawInfo(s, info, x, y, size)
}

func (e *EMI) open(kind string, st emi.Stack) {
	info, _ := e.info(st)
	e.mu.Lock()
	e.requests = append(e.requests, kind+":"+info.ID)
	e.mu.Unlock()
	e.host.Open(Screen{ID: EMIScreen, Title: "EMI " + kind, Focus: info.ID})
}

func (e *EMI) DisplayRecipes(st emi.Stack) {
	e.check("display")
	e.open("recipes", st)
}

func (e *EMI) DisplayUses(st emi.Stack) {
	e.check("display")
	e.open("uses", st)
}

func (e *EMI) IsRecipeScreen(screen host.Screen) bool {
	return screen != nil && screen.ScreenID() == EMIScreen
}

func (e *EMI) list() listGrid[emi.Stack] {
	g := listGrid[emi.Stack]{slot: e.host.slot()}
	for _, info := range e.host.Catalog.Items() {
		g.entries = append(g.entries, emi.ItemStack{ID: info.ID, Amount: 1})
	}
	for _, info := range e.host.Catalog.Fluids() {
		g.entries = append(g.entries, emi.FluidStack{ID: info.ID, Amount: 1000})
	}
	g.entries = append(g.entries, emi.TagIngredient{Tag: "minecraft:logs"})
	return g
}

func (e *EMI) SidebarVisible() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.loaded && !e.hidden
}

func (e *EMI) SidebarBounds(screen host.Screen) (geom.Rect, bool) {
	if !e.SidebarVisible() {
		return geom.Rect{}, false
	}
	e.mu.Lock()
	areas := append(exclusionFuncs(nil), e.areas...)
	e.mu.Unlock()
	area := e.list().area(screen, areas.collect(screen))
	return area, !area.Empty()
}

func (e *EMI) HoveredStack(x, y int) (emi.Stack, bool) {
	e.check("hovered")
	area, ok := e.SidebarBounds(e.host.CurrentScreen())
	if !ok {
		return nil, false
	}
	return e.list().at(area, x, y)
}

// DrawList renders the sidebar for the current screen.
func (e *EMI) DrawList(s host.Surface) {
	area, ok := e.SidebarBounds(e.host.CurrentScreen())
	if !ok {
		return
	}
	g := e.list()
	g.cells(area, func(st emi.Stack, x, y int) { e.Render(s, st, x, y, g.slot) })
}
