package session

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stash/backend"
	"stash/layout"
	"stash/sim"
)

func TestRecipeContextTransitions(t *testing.T) {
	rc := NewRecipeContexts()
	assert.False(t, rc.Has(backend.JEI))

	origin := sim.Screen{ID: sim.ScreenInventory, W: 320, H: 240}
	rc.Save(SavedContext{Backend: backend.JEI, Origin: origin, Page: 2})
	assert.True(t, rc.Has(backend.JEI))
	assert.False(t, rc.Has(backend.EMI))

	ctx, ok := rc.Get(backend.JEI)
	require.True(t, ok)
	assert.Equal(t, 2, ctx.Page)

	rc.Save(SavedContext{Backend: backend.JEI, Origin: origin, Page: 0})
	ctx, _ = rc.Get(backend.JEI)
	assert.Equal(t, 0, ctx.Page, "a second save replaces the first")

	rc.Clear(backend.JEI)
	assert.False(t, rc.Has(backend.JEI))
	rc.Clear(backend.JEI)
}

func TestReturnedTo(t *testing.T) {
	rc := NewRecipeContexts()
	rc.Save(SavedContext{Backend: backend.EMI, Origin: sim.Screen{ID: sim.ScreenChest}})

	_, ok := rc.ReturnedTo(sim.Screen{ID: sim.ScreenInventory}, nil)
	assert.False(t, ok)
	_, ok = rc.ReturnedTo(nil, nil)
	assert.False(t, ok)

	ctx, ok := rc.ReturnedTo(sim.Screen{ID: sim.ScreenChest}, nil)
	require.True(t, ok)
	assert.Equal(t, backend.EMI, ctx.Backend)
	assert.False(t, rc.Has(backend.EMI))
}

func TestReturnedToFollowsRegistrationOrder(t *testing.T) {
	chest := sim.Screen{ID: sim.ScreenChest}
	tests := []struct {
		name  string
		order []backend.ID
		want  []backend.ID
	}{
		{"registration order", []backend.ID{backend.REI, backend.EMI, backend.JEI}, []backend.ID{backend.REI, backend.JEI}},
		{"default order", []backend.ID{backend.JEI, backend.EMI, backend.REI}, []backend.ID{backend.JEI, backend.REI}},
		{"unlisted by id", []backend.ID{backend.EMI}, []backend.ID{backend.JEI, backend.REI}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rc := NewRecipeContexts()
			rc.Save(SavedContext{Backend: backend.JEI, Origin: chest})
			rc.Save(SavedContext{Backend: backend.REI, Origin: chest})

			var got []backend.ID
			for range 2 {
				ctx, ok := rc.ReturnedTo(chest, tt.order)
				require.True(t, ok)
				got = append(got, ctx.Backend)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRelayoutFollowsResize(t *testing.T) {
	m := layout.DefaultMetrics()
	p := layout.DefaultPlacement()
	active := uuid.New()

	in := p.Fit(layout.Inputs{FolderCount: 12, ActiveFolder: true, ItemCount: 400}, 600, 400)
	saved := SavedContext{
		Backend:      backend.REI,
		Inputs:       in,
		Snapshot:     layout.Compute(m, in),
		ActiveFolder: active,
		Page:         1,
	}

	same := saved.Relayout(m, p, sim.Screen{ID: sim.REIScreen, W: 600, H: 400})
	assert.Equal(t, saved.Snapshot.Panel.W, same.Panel.W)
	assert.Equal(t, 1, same.Page)

	smaller := saved.Relayout(m, p, sim.Screen{ID: sim.REIScreen, W: 300, H: 200})
	assert.Less(t, smaller.Panel.W, saved.Snapshot.Panel.W, "resized screen gets a fresh layout")
	assert.LessOrEqual(t, smaller.Panel.Bottom(), 200)
	assert.Greater(t, smaller.FolderRows, saved.Snapshot.FolderRows)
	assert.LessOrEqual(t, smaller.Page, smaller.TotalPages-1)

	assert.Equal(t, saved.Snapshot.Panel, saved.Relayout(m, p, nil).Panel, "no screen keeps the saved bounds")
}
