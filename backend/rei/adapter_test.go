package rei_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stash/backend"
	"stash/backend/jei"
	"stash/backend/rei"
	"stash/errors"
	"stash/ingredient"
	"stash/sim"
)

func newAdapter(t *testing.T) (*rei.Adapter, *sim.REI, *sim.Host) {
	t.Helper()
	h := sim.NewHost(320, 240)
	viewer := sim.NewREI(h)
	a := rei.New(nil, viewer)
	require.Equal(t, backend.StateAvailable, a.Probe())
	require.NoError(t, a.Setup())
	return a, viewer, h
}

func TestItemRoundTrip(t *testing.T) {
	a, viewer, _ := newAdapter(t)
	viewer.Reload()

	entry := rei.ItemEntry{ID: "create:cogwheel", Count: 3}
	ref, err := a.ToRef(entry)
	require.NoError(t, err)
	assert.Equal(t, ingredient.New("item", "create:cogwheel"), ref)

	back, err := a.FromRef(ref)
	require.NoError(t, err)
	again, err := a.ToRef(back)
	require.NoError(t, err)
	assert.Equal(t, ref, again)

	second, err := a.FromRef(ref)
	require.NoError(t, err)
	assert.Equal(t, back, second)
}

func TestUnsupportedEntries(t *testing.T) {
	a, viewer, _ := newAdapter(t)
	viewer.Reload()

	for _, e := range []rei.Entry{
		rei.FluidEntry{ID: "minecraft:lava", Amount: 1000},
		rei.OpaqueEntry{Type: "botania:mana", Data: "{}"},
		rei.ItemEntry{ID: "minecraft:air", Count: 1},
		rei.ItemEntry{ID: "air", Count: 1},
		rei.ItemEntry{ID: "minecraft:stone"},
	} {
		_, err := a.ToRef(e)
		assert.True(t, errors.Is(err, errors.CodeConversion), "%T", e)
	}

	_, err := a.ToRef(jei.Item{ID: "minecraft:stone"})
	assert.True(t, errors.Is(err, errors.CodeProtocolViolation))
}

func TestOpenView(t *testing.T) {
	a, viewer, h := newAdapter(t)
	viewer.Reload()

	a.ShowRecipes(rei.ItemEntry{ID: "minecraft:glass"})
	views := viewer.Views()
	require.Len(t, views, 1)
	assert.Equal(t, rei.ViewRecipes, views[0].Mode)
	assert.Equal(t, sim.REIScreen, h.CurrentScreen().ScreenID())
	assert.True(t, a.IsRecipeScreen(h.CurrentScreen()))

	viewer.DeclineViews(true)
	assert.NotPanics(t, func() { a.ShowUses(rei.ItemEntry{ID: "minecraft:glass"}) })
	assert.Len(t, viewer.Views(), 1)
}

func TestNotLoaded(t *testing.T) {
	a, _, _ := newAdapter(t)
	_, err := a.FromRef(ingredient.MustItem("minecraft:stone"))
	assert.True(t, errors.Is(err, errors.CodeConversion))
	assert.False(t, a.OverlayVisible())
	_, ok := a.IngredientUnderMouse(300, 10)
	assert.False(t, ok)
}
