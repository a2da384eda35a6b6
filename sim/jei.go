package sim

import (
	"sync"

	"stash/backend/jei"
	"stash/geom"
	"stash/host"
)

// JEIScreen is the id of JEI's recipes screen.
const JEIScreen = "jei:recipes"

// JEI simulates JEI's plugin and runtime. The runtime is delivered by Start.
type JEI struct {
	*faultSet
	host *Host

	mu        sync.Mutex
	started   bool
	hidden    bool
	callbacks []func(jei.Runtime)
	extra     exclusionFuncs
	shown     []jei.Focus
}

func NewJEI(h *Host) *JEI {
	return &JEI{faultSet: &faultSet{name: "jei"}, host: h}
}

// Start finishes JEI's startup and hands the runtime to every waiting plugin.
func (j *JEI) Start() {
	j.mu.Lock()
	j.started = true
	pending := j.callbacks
	j.callbacks = nil
	j.mu.Unlock()
	for _, fn := range pending {
		fn(j)
	}
}

// SetHidden toggles the ingredient list.
func (j *JEI) SetHidden(hidden bool) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.hidden = hidden
}

// Shown returns every recipes GUI request.
func (j *JEI) Shown() []jei.Focus {
	j.mu.Lock()
	defer j.mu.Unlock()
	return append([]jei.Focus(nil), j.shown...)
}

func (j *JEI) OnRuntimeAvailable(fn func(jei.Runtime)) {
	j.mu.Lock()
	if !j.started {
		j.callbacks = append(j.callbacks, fn)
		j.mu.Unlock()
		return
	}
	j.mu.Unlock()
	fn(j)
}

func (j *JEI) RegisterGuiExtraAreas(fn func(host.Screen) []geom.Rect) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.extra = append(j.extra, fn)
}

func (j *JEI) Ingredients() jei.IngredientManager { return j }
func (j *JEI) RecipesGUI() jei.RecipesGUI         { return j }
func (j *JEI) ListOverlay() jei.ListOverlay       { return j }
func (j *JEI) Renderer() jei.Renderer             { return j }

func (j *JEI) ItemStack(id, components string) (jei.Item, bool) {
	j.check("lookup")
	if _, ok := j.host.Catalog.Item(id); !ok {
		return jei.Item{}, false
	}
	return jei.Item{ID: id, Components: components, Count: 1}, true
}

func (j *JEI) FluidStack(id string) (jei.Fluid, bool) {
	j.check("lookup")
	if _, ok := j.host.Catalog.Fluid(id); !ok {
		return jei.Fluid{}, false
	}
	return jei.Fluid{ID: id, Amount: 1000}, true
}

func (j *JEI) ByUID(typeUID, uid string) (jei.Other, bool) {
	j.check("lookup")
	if typeUID != "mekanism_gas" {
		return jei.Other{}, false
	}
	info, ok := j.host.Catalog.Gas(uid)
	if !ok {
		return jei.Other{}, false
	}
	return jei.Other{TypeUID: typeUID, UID: uid, Label: info.DisplayName}, true
}

func (j *JEI) info(ing jei.Ingredient) (host.ItemInfo, bool) {
	switch v := ing.(type) {
	case jei.Item:
		return j.host.Catalog.Item(v.ID)
	case jei.Fluid:
		return j.host.Catalog.Fluid(v.ID)
	case jei.Other:
		return j.host.Catalog.Gas(v.UID)
	}
	return host.ItemInfo{}, false
}

func (j *JEI) Display(ing jei.Ingredient) (string, host.Icon, []string) {
	j.check("display")
	info, ok := j.info(ing)
	if !ok {
		return "", host.MissingIcon, nil
	}
	return info.DisplayName, info.Icon, []string{info.DisplayName, info.ID}
}

func (j *JEI) Render(s host.Surface, ing jei.Ingredient, x, y, size int) {
	j.check("render")
	info, ok := j.info(ing)
	if !ok {
		s.DrawIcon(host.MissingIcon, x, y, size)
		return
	}
	drawInfo(s, info, x, y, size)
}

func (j *JEI) Show(focus jei.Focus) {
	j.check("show")
	j.mu.Lock()
	j.shown = append(j.shown, focus)
	j.mu.Unlock()
	title := "Recipes"
	if focus.Role == jei.RoleInput {
		title = "Uses"
	}
	info, _ := j.info(focus.Ingredient)
	j.host.Open(Screen{ID: JEIScreen, Title: "JEI " + title, Focus: info.ID})
}

func (j *JEI) IsRecipesScreen(screen host.Screen) bool {
	return screen != nil && screen.ScreenID() == JEIScreen
}

func (j *JEI) list() listGrid[jei.Ingredient] {
	g := listGrid[jei.Ingredient]{slot: j.host.slot()}
	for _, info := range j.host.Catalog.Items() {
		g.entries = append(g.entries, jei.Item{ID: info.ID, Count: 1})
	}
	for _, info := range j.host.Catalog.Fluids() {
		g.entries = append(g.entries, jei.Fluid{ID: info.ID, Amount: 1000})
	}
	for _, info := range j.host.Catalog.Gases() {
		g.entries = append(g.entries, jei.Other{TypeUID: "mekanism_gas", UID: info.ID, Label: info.DisplayName})
	}
	return g
}

func (j *JEI) exclusions(screen host.Screen) []geom.Rect {
	j.mu.Lock()
	extra := append(exclusionFuncs(nil), j.extra...)
	j.mu.Unlock()
	return extra.collect(screen)
}

func (j *JEI) IsListDisplayed() bool {
	j.check("overlay")
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.started && !j.hidden
}

func (j *JEI) Area(screen host.Screen) (geom.Rect, bool) {
	if !j.IsListDisplayed() {
		return geom.Rect{}, false
	}
	area := j.list().area(screen, j.exclusions(screen))
	return area, !area.Empty()
}

func (j *JEI) IngredientUnderMouse(x, y int) (jei.Ingredient, bool) {
	screen := j.host.CurrentScreen()
	area, ok := j.Area(screen)
	if !ok {
		return nil, false
	}
	return j.list().at(area, x, y)
}

// DrawList renders the ingredient list for the current screen.
func (j *JEI) DrawList(s host.Surface) {
	screen := j.host.CurrentScreen()
	area, ok := j.Area(screen)
	if !ok {
		return
	}
	g := j.list()
	g.cells(area, func(ing jei.Ingredient, x, y int) { j.Render(s, ing, x, y, g.slot) })
}
