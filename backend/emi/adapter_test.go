package emi_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stash/backend"
	"stash/backend/emi"
	"stash/backend/testutil"
	"stash/errors"
	"stash/ingredient"
	"stash/sim"
)

func newAdapter(t *testing.T, env *backend.Env) (*emi.Adapter, *sim.EMI, *sim.Host) {
	t.Helper()
	h := sim.NewHost(320, 240)
	viewer := sim.NewEMI(h)
	a := emi.New(env, viewer)
	require.Equal(t, backend.StateAvailable, a.Probe())
	require.NoError(t, a.Setup())
	return a, viewer, h
}

func TestItemRoundTrip(t *testing.T) {
	a, viewer, _ := newAdapter(t, nil)
	viewer.Reload()

	for _, st := range []emi.ItemStack{
		{ID: "minecraft:bread", Amount: 5},
		{ID: "minecraft:diamond_sword", Components: `{enchantments:{sharpness:5}}`, Amount: 1},
	} {
		ref, err := a.ToRef(st)
		require.NoError(t, err)
		assert.Equal(t, ingredient.KindItem, ref.Kind)
		assert.Equal(t, backend.StateActive, a.State())

		back, err := a.FromRef(ref)
		require.NoError(t, err)
		again, err := a.ToRef(back)
		require.NoError(t, err)
		assert.Equal(t, ref, again)
	}
}

func TestUnsupportedStacksFailExplicitly(t *testing.T) {
	a, viewer, _ := newAdapter(t, nil)
	viewer.Reload()

	tests := []struct {
		name  string
		stack emi.Stack
	}{
		{"fluid", emi.FluidStack{ID: "minecraft:water", Amount: 1000}},
		{"tag", emi.TagIngredient{Tag: "minecraft:logs"}},
		{"empty", emi.EmptyStack{}},
		{"empty item", emi.ItemStack{}},
		{"zero amount", emi.ItemStack{ID: "minecraft:stone"}},
		{"air", emi.ItemStack{ID: "air", Amount: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ref, err := a.ToRef(tt.stack)
			assert.True(t, errors.Is(err, errors.CodeConversion))
			assert.True(t, ref.IsZero())
		})
	}

	_, err := a.FromRef(ingredient.New(ingredient.KindFluid, "minecraft:water"))
	assert.True(t, errors.Is(err, errors.CodeConversion))
}

func TestRuntimeIsPulled(t *testing.T) {
	a, viewer, _ := newAdapter(t, nil)
	assert.True(t, a.IsAvailable())
	_, err := a.ToRef(emi.ItemStack{ID: "minecraft:stone", Amount: 1})
	assert.True(t, errors.Is(err, errors.CodeConversion))
	assert.Equal(t, backend.StateAvailable, a.State())

	viewer.Reload()
	_, err = a.ToRef(emi.ItemStack{ID: "minecraft:stone", Amount: 1})
	assert.NoError(t, err)
	assert.Equal(t, backend.StateActive, a.State())
}

func TestDisplayFallback(t *testing.T) {
	a, viewer, h := newAdapter(t, nil)
	viewer.Reload()

	d, err := a.DisplayStackFor(emi.ItemStack{ID: "minecraft:torch", Amount: 1})
	require.NoError(t, err)
	assert.Equal(t, "Torch", d.Name)
	assert.False(t, d.Missing)

	h.Catalog.RemoveItem("minecraft:torch")
	d, err = a.DisplayStackFor(emi.ItemStack{ID: "minecraft:torch", Amount: 1})
	assert.Error(t, err)
	assert.True(t, d.Missing)

	d, err = a.DisplayStackFor(emi.EmptyStack{})
	assert.Error(t, err)
	assert.True(t, d.Missing)
}

func TestDisplayRequestsNavigate(t *testing.T) {
	calls := 0
	a, viewer, h := newAdapter(t, &backend.Env{BeforeNavigate: func(backend.ID) { calls++ }})
	viewer.Reload()

	a.ShowUses(emi.ItemStack{ID: "minecraft:coal", Amount: 1})
	assert.Equal(t, []string{"uses:minecraft:coal"}, viewer.Requests())
	assert.Equal(t, 1, calls)
	assert.True(t, a.IsRecipeScreen(h.CurrentScreen()))
}

func TestRuntimePanicIsContained(t *testing.T) {
	a, viewer, _ := newAdapter(t, nil)
	viewer.Reload()
	viewer.Fail("runtime")

	_, err := a.ToRef(emi.ItemStack{ID: "minecraft:stone", Amount: 1})
	assert.True(t, errors.Is(err, errors.CodeConversion))
	assert.False(t, a.OverlayVisible())

	s := &testutil.Surface{}
	a.Render(s, emi.ItemStack{ID: "minecraft:stone"}, 0, 0, 16)
	assert.Empty(t, s.Icons)
}
