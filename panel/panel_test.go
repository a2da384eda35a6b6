package panel

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stash/backend"
	"stash/backend/testutil"
	"stash/geom"
	"stash/host"
	"stash/ingredient"
	"stash/layout"
	"stash/model"
	"stash/session"
	"stash/sim"
)

type fixture struct {
	host    *sim.Host
	viewers sim.Viewers
	sess    *session.Session
	panel   *Panel
}

func newFixture(t *testing.T, ids ...backend.ID) *fixture {
	t.Helper()
	h := sim.NewHost(320, 240)
	viewers := sim.Install(h, ids...)
	viewers.Start()
	sess, err := session.Join(session.Options{
		ConfigRoot: t.TempDir(),
		World:      h.World,
		Register:   viewers.Register,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = sess.Leave() })
	sess.Start()

	p := New(sess, h.CurrentScreen(), Options{
		Metrics:   layout.DefaultMetrics(),
		Placement: layout.DefaultPlacement(),
	})
	return &fixture{host: h, viewers: viewers, sess: sess, panel: p}
}

func (f *fixture) folder(t *testing.T, name string, active bool, refs ...ingredient.Ref) model.Folder {
	t.Helper()
	folder, err := f.sess.Store.Create(name)
	require.NoError(t, err)
	for _, ref := range refs {
		_, err := f.sess.Store.AddIngredient(folder.ID, ref)
		require.NoError(t, err)
	}
	if active {
		require.NoError(t, f.sess.Store.SetActive(folder.ID))
	}
	got, _ := f.sess.Store.Get(folder.ID)
	return got
}

func center(r geom.Rect) (int, int) { return r.X + r.W/2, r.Y + r.H/2 }

func (f *fixture) click(x, y int) { f.press(x, y, ButtonLeft) }

func (f *fixture) press(x, y int, b Button) {
	f.panel.MouseClicked(x, y, b)
	f.panel.MouseReleased(x, y, b)
}

func TestAddFolderByTyping(t *testing.T) {
	f := newFixture(t)
	p := f.panel

	require.True(t, p.KeyPressed("ctrl+n"))
	_, open := p.InputText()
	require.True(t, open)
	_, ok := p.Snapshot().Control(layout.ControlAddInput)
	assert.True(t, ok, "input row is laid out in add mode")

	assert.True(t, p.KeyPressed("enter"), "empty name keeps the row open")
	_, open = p.InputText()
	assert.True(t, open)

	for _, r := range "Oress" {
		assert.True(t, p.CharTyped(r))
	}
	p.KeyPressed("backspace")
	text, _ := p.InputText()
	assert.Equal(t, "Ores", text)
	p.KeyPressed("enter")

	_, open = p.InputText()
	assert.False(t, open)
	require.Equal(t, 1, f.sess.Store.Len())
	folder, _ := f.sess.Store.At(0)
	assert.Equal(t, "Ores", folder.Name)
	assert.Len(t, p.FolderButtonTargets(), 1)
}

func TestAddButtonTogglesInput(t *testing.T) {
	f := newFixture(t)
	r, ok := f.panel.Snapshot().Control(layout.ControlAddButton)
	require.True(t, ok)

	f.click(center(r))
	_, open := f.panel.InputText()
	assert.True(t, open)

	f.panel.KeyPressed("esc")
	_, open = f.panel.InputText()
	assert.False(t, open)
	assert.Equal(t, 0, f.sess.Store.Len())
}

func TestClickFolderTogglesActive(t *testing.T) {
	f := newFixture(t)
	ores := f.folder(t, "Ores", false)
	targets := f.panel.FolderButtonTargets()
	require.Len(t, targets, 1)

	x, y := center(targets[0].Rect)
	f.click(x, y)
	active, ok := f.sess.Store.Active()
	require.True(t, ok)
	assert.Equal(t, ores.ID, active.ID)
	assert.True(t, f.panel.Snapshot().HasActiveFolder())

	f.click(x, y)
	_, ok = f.sess.Store.Active()
	assert.False(t, ok)
	assert.False(t, f.panel.Snapshot().HasActiveFolder())
}

func TestRightClickFolderRenames(t *testing.T) {
	f := newFixture(t)
	ores := f.folder(t, "Ores", false)
	x, y := center(f.panel.FolderButtonTargets()[0].Rect)

	f.press(x, y, ButtonRight)
	text, open := f.panel.InputText()
	require.True(t, open)
	assert.Equal(t, "Ores", text)

	for range 4 {
		f.panel.KeyPressed("backspace")
	}
	for _, r := range "Metals" {
		f.panel.CharTyped(r)
	}
	f.panel.KeyPressed("enter")
	got, _ := f.sess.Store.Get(ores.ID)
	assert.Equal(t, "Metals", got.Name)
}

func TestClickSlotOpensRecipesAndRestoresContext(t *testing.T) {
	f := newFixture(t, backend.JEI)
	stick := ingredient.MustItem("minecraft:stick")
	f.folder(t, "Wood", true, stick, ingredient.MustItem("minecraft:oak_log"))

	slots := f.panel.Snapshot().Slots()
	require.NotEmpty(t, slots)
	f.click(center(slots[0].Rect))

	shown := f.viewers.JEI.Shown()
	require.Len(t, shown, 1)
	assert.True(t, f.sess.Contexts.Has(backend.JEI))
	assert.Equal(t, sim.JEIScreen, f.host.CurrentScreen().ID)

	f.panel.SetScreen(f.host.CurrentScreen())
	assert.True(t, f.panel.Snapshot().HasActiveFolder(), "recipe screen shows the saved panel")

	require.True(t, f.host.Back())
	f.panel.SetScreen(f.host.CurrentScreen())
	assert.False(t, f.sess.Contexts.Has(backend.JEI), "context cleared on return")
}

func TestRecipeScreenResizeRefitsRestoredPanel(t *testing.T) {
	f := newFixture(t, backend.JEI)
	for i := range 400 {
		f.host.Catalog.AddItem(host.ItemInfo{ID: fmt.Sprintf("test:item_%d", i), DisplayName: "Item", MaxStack: 64})
	}
	bigFolder(t, f, 400)
	require.True(t, f.panel.KeyPressed("pgdown"))

	f.click(center(f.panel.Snapshot().Slots()[0].Rect))
	require.Equal(t, sim.JEIScreen, f.host.CurrentScreen().ID)
	f.panel.SetScreen(f.host.CurrentScreen())
	before := f.panel.Snapshot()
	require.Equal(t, 1, before.Page)

	f.host.Resize(640, 480)
	f.panel.Resize(f.host.CurrentScreen())
	f.panel.Render(&testutil.Surface{}, 0, 0)
	after := f.panel.Snapshot()

	ctx, ok := f.sess.Contexts.Get(backend.JEI)
	require.True(t, ok, "resizing keeps the saved context")
	want := ctx.Relayout(layout.DefaultMetrics(), layout.DefaultPlacement(), f.host.CurrentScreen())
	assert.Greater(t, after.Panel.W, before.Panel.W)
	assert.Greater(t, after.PerPage, before.PerPage)
	assert.Equal(t, want.Panel, after.Panel)
	assert.Equal(t, want.PerPage, after.PerPage)
	assert.Equal(t, 1, after.Page)

	require.True(t, f.host.Back())
	f.panel.SetScreen(f.host.CurrentScreen())
	assert.Equal(t, want.Panel, f.panel.Snapshot().Panel, "origin screen uses the new size too")
}

func TestSwitchingFoldersResetsPage(t *testing.T) {
	f := newFixture(t)
	bigFolder(t, f, 400)
	other := f.folder(t, "Other", false)
	for i := range 200 {
		_, err := f.sess.Store.AddIngredient(other.ID, ingredient.MustItem(fmt.Sprintf("test:other_%d", i)))
		require.NoError(t, err)
	}
	require.True(t, f.panel.KeyPressed("pgdown"))
	require.True(t, f.panel.KeyPressed("pgdown"))
	require.Equal(t, 2, f.panel.Snapshot().Page)

	require.NoError(t, f.sess.Store.SetActive(other.ID))
	assert.Equal(t, 0, f.panel.Snapshot().Page)
}

func TestRightClickSlotShowsUses(t *testing.T) {
	f := newFixture(t, backend.EMI)
	f.folder(t, "Fuel", true, ingredient.MustItem("minecraft:coal"))

	x, y := center(f.panel.Snapshot().Slots()[0].Rect)
	f.click(x, y)
	f.press(x, y, ButtonRight)
	f.panel.MouseClicked(x, y, ButtonRight)
	f.panel.MouseReleased(x, y, ButtonLeft)

	assert.Equal(t, []string{"recipes:minecraft:coal", "uses:minecraft:coal"}, f.viewers.EMI.Requests())
}

func TestDragFromViewerToFolderButton(t *testing.T) {
	f := newFixture(t, backend.JEI)
	ores := f.folder(t, "Ores", false)

	a, err := f.sess.Registry.Get(backend.JEI)
	require.NoError(t, err)
	area, ok := a.OverlayArea(f.host.CurrentScreen())
	require.True(t, ok)
	assert.False(t, area.Intersects(f.panel.ScreenArea()), "viewer list avoids the panel")

	px, py := area.X+1, area.Y+1
	n, ok := a.IngredientUnderMouse(px, py)
	require.True(t, ok)
	want, err := a.ToRef(n)
	require.NoError(t, err)

	assert.False(t, f.panel.MouseClicked(px, py, ButtonLeft), "presses outside the panel are not consumed")
	x, y := center(f.panel.FolderButtonTargets()[0].Rect)
	f.panel.MouseMoved(x, y)
	assert.True(t, f.panel.MouseReleased(x, y, ButtonLeft))

	got, _ := f.sess.Store.Get(ores.ID)
	assert.Equal(t, []ingredient.Ref{want}, got.Ingredients)
}

func TestDragBetweenFolders(t *testing.T) {
	f := newFixture(t, backend.JEI)
	stick := ingredient.MustItem("minecraft:stick")
	wood := f.folder(t, "Wood", true, stick)
	tools := f.folder(t, "Tools", false)

	sx, sy := center(f.panel.Snapshot().Slots()[0].Rect)
	require.True(t, f.panel.MouseClicked(sx, sy, ButtonLeft))
	var target geom.Rect
	for _, tg := range f.panel.FolderButtonTargets() {
		if tg.ID == tools.ID {
			target = tg.Rect
		}
	}
	x, y := center(target)
	f.panel.MouseMoved(x, y)
	assert.True(t, f.panel.MouseReleased(x, y, ButtonLeft))

	got, _ := f.sess.Store.Get(tools.ID)
	assert.Equal(t, []ingredient.Ref{stick}, got.Ingredients)
	src, _ := f.sess.Store.Get(wood.ID)
	assert.Equal(t, []ingredient.Ref{stick}, src.Ingredients, "dragging copies")
	assert.Empty(t, f.viewers.JEI.Shown(), "a drag does not open recipes")
}

func bigFolder(t *testing.T, f *fixture, n int) {
	t.Helper()
	folder, err := model.NewFolder("Everything")
	require.NoError(t, err)
	for i := range n {
		folder.Add(ingredient.MustItem(fmt.Sprintf("test:item_%d", i)))
	}
	folder.Active = true
	require.NoError(t, f.sess.Store.Replace([]model.Folder{folder}))
}

func TestPaginationKeys(t *testing.T) {
	f := newFixture(t)
	assert.False(t, f.panel.KeyPressed("pgdown"), "no active folder, nothing to page")

	bigFolder(t, f, 400)
	snap := f.panel.Snapshot()
	require.Greater(t, snap.TotalPages, 2)

	require.True(t, f.panel.KeyPressed("pgdown"))
	assert.Equal(t, 1, f.panel.Snapshot().Page)
	f.panel.KeyPressed("pgup")
	f.panel.KeyPressed("pgup")
	assert.Equal(t, snap.TotalPages-1, f.panel.Snapshot().Page, "paging wraps around")

	r, ok := f.panel.Snapshot().Control(layout.ControlNextPage)
	require.True(t, ok)
	f.click(center(r))
	assert.Equal(t, 0, f.panel.Snapshot().Page)
}

func TestScrollPages(t *testing.T) {
	f := newFixture(t)
	bigFolder(t, f, 400)
	x, y := center(f.panel.ScreenArea())
	assert.True(t, f.panel.Scrolled(x, y, -1))
	assert.Equal(t, 1, f.panel.Snapshot().Page)
	assert.False(t, f.panel.Scrolled(319, 239, -1))
}

func TestResizeRelayout(t *testing.T) {
	f := newFixture(t)
	bigFolder(t, f, 400)
	before := f.panel.Snapshot()

	f.host.Resize(640, 480)
	f.panel.Resize(f.host.CurrentScreen())
	f.panel.Render(&testutil.Surface{}, 0, 0)
	after := f.panel.Snapshot()

	assert.Greater(t, after.Panel.W, before.Panel.W)
	assert.Greater(t, after.PerPage, before.PerPage)
	assert.Less(t, after.TotalPages, before.TotalPages)
}

func TestFilterFolders(t *testing.T) {
	f := newFixture(t)
	f.folder(t, "Ores", false)
	f.folder(t, "Food", false)
	f.folder(t, "Redstone", false)

	require.True(t, f.panel.KeyPressed("/"))
	for _, r := range "ore" {
		f.panel.CharTyped(r)
	}
	targets := f.panel.FolderButtonTargets()
	require.Len(t, targets, 1)
	assert.Equal(t, "Ores", targets[0].Name)

	f.panel.KeyPressed("enter")
	assert.Equal(t, "ore", f.panel.Filter(), "enter keeps the filter")
	assert.Len(t, f.panel.FolderButtonTargets(), 1)

	assert.True(t, f.panel.KeyPressed("esc"))
	assert.Empty(t, f.panel.Filter())
	assert.Len(t, f.panel.FolderButtonTargets(), 3)
}

func TestDeleteHovered(t *testing.T) {
	f := newFixture(t)
	stick := ingredient.MustItem("minecraft:stick")
	coal := ingredient.MustItem("minecraft:coal")
	wood := f.folder(t, "Wood", true, stick, coal)

	f.panel.MouseMoved(center(f.panel.Snapshot().Slots()[0].Rect))
	ref, ok := f.panel.HoveredRef()
	require.True(t, ok)
	assert.Equal(t, stick, ref)
	require.True(t, f.panel.KeyPressed("delete"))

	got, _ := f.sess.Store.Get(wood.ID)
	assert.Equal(t, []ingredient.Ref{coal}, got.Ingredients)

	f.panel.MouseMoved(center(f.panel.FolderButtonTargets()[0].Rect))
	require.True(t, f.panel.KeyPressed("delete"))
	assert.Equal(t, 0, f.sess.Store.Len())
	assert.False(t, f.panel.Snapshot().HasActiveFolder())

	f.panel.MouseMoved(0, 239)
	assert.False(t, f.panel.KeyPressed("delete"))
}

func TestCopyHoveredKey(t *testing.T) {
	h := sim.NewHost(320, 240)
	sess, err := session.Join(session.Options{ConfigRoot: t.TempDir(), World: h.World})
	require.NoError(t, err)
	defer sess.Leave()

	var copied string
	p := New(sess, h.CurrentScreen(), Options{
		Metrics:   layout.DefaultMetrics(),
		Placement: layout.DefaultPlacement(),
		Copy:      func(text string) error { copied = text; return nil },
	})
	folder, err := sess.Store.Create("Misc")
	require.NoError(t, err)
	_, err = sess.Store.AddIngredient(folder.ID, ingredient.MustItem("minecraft:stick"))
	require.NoError(t, err)
	require.NoError(t, sess.Store.SetActive(folder.ID))

	p.MouseMoved(center(p.Snapshot().Slots()[0].Rect))
	require.True(t, p.KeyPressed("ctrl+y"))
	assert.Equal(t, "item|minecraft:stick", copied)
}

func TestFolderReorderKeys(t *testing.T) {
	f := newFixture(t)
	f.folder(t, "A", false)
	b := f.folder(t, "B", true)

	require.True(t, f.panel.KeyPressed("alt+left"))
	first, _ := f.sess.Store.At(0)
	assert.Equal(t, b.ID, first.ID)
	assert.Equal(t, "B", f.panel.FolderButtonTargets()[0].Name)

	require.True(t, f.panel.KeyPressed("ctrl+k"))
	got, _ := f.sess.Store.Get(b.ID)
	assert.Empty(t, got.Ingredients)

	require.True(t, f.panel.KeyPressed("ctrl+x"))
	_, ok := f.sess.Store.Active()
	assert.False(t, ok)
}

func TestRenderFallsBackToPlaceholder(t *testing.T) {
	f := newFixture(t, backend.JEI)
	f.folder(t, "Mixed", true, ingredient.MustItem("minecraft:stick"), ingredient.MustItem("gone:thing"))

	s := &testutil.Surface{}
	x, y := center(f.panel.Snapshot().Slots()[1].Rect)
	f.panel.Render(s, x, y)

	require.Len(t, s.Icons, 2)
	assert.NotEqual(t, '?', s.Icons[0].Glyph)
	assert.Equal(t, '?', s.Icons[1].Glyph)
	assert.Contains(t, s.Texts, "Mixed (2)")
	assert.Contains(t, s.Texts, "item|gone:thing", "tooltip shows the stored key")
}

func TestHiddenPanel(t *testing.T) {
	f := newFixture(t)
	f.folder(t, "Ores", false)
	require.False(t, f.panel.ScreenArea().Empty())

	f.panel.SetHidden(true)
	assert.True(t, f.panel.ScreenArea().Empty())
	assert.Nil(t, f.panel.FolderButtonTargets())
	assert.False(t, f.panel.KeyPressed("ctrl+n"))
}
