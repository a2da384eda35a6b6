// Package jei integrates the Just Enough Items recipe viewer.
//
// JEI pushes its runtime asynchronously: the plugin registers a callback at
// setup time and JEI invokes it once its own startup has finished. Until
// then the adapter is Available but cannot convert or render anything.
//
// JEI exposes every ingredient type through one manager, so this adapter
// supports items, fluids and any other registered type ("jei:<type uid>").
package jei

import (
	"stash/geom"
	"stash/host"
)

// Plugin is the registration surface JEI offers to stash. The host passes
// nil when JEI is not installed.
type Plugin interface {
	// OnRuntimeAvailable stores fn and calls it with the runtime once JEI
	// has started. It may call fn immediately.
	OnRuntimeAvailable(fn func(Runtime))
	// RegisterGuiExtraAreas installs a provider JEI queries when laying out
	// its ingredient list, so the list avoids those areas.
	RegisterGuiExtraAreas(fn func(screen host.Screen) []geom.Rect)
}

// Runtime is JEI's live session API.
type Runtime interface {
	Ingredients() IngredientManager
	RecipesGUI() RecipesGUI
	ListOverlay() ListOverlay
	Renderer() Renderer
}

// IngredientManager resolves ingredients registered with JEI.
type IngredientManager interface {
	ItemStack(id, components string) (Item, bool)
	FluidStack(id string) (Fluid, bool)
	// ByUID looks up an ingredient of a non item/fluid type.
	ByUID(typeUID, uid string) (Other, bool)
	Display(ing Ingredient) (name string, icon host.Icon, tooltip []string)
}

// FocusRole selects what the recipes GUI shows for an ingredient.
type FocusRole int

const (
	RoleOutput FocusRole = iota // recipes producing the ingredient
	RoleInput                   // recipes consuming it
)

// Focus is a recipes GUI query.
type Focus struct {
	Role       FocusRole
	Ingredient Ingredient
}

type RecipesGUI interface {
	Show(focus Focus)
	IsRecipesScreen(screen host.Screen) bool
}

type ListOverlay interface {
	IsListDisplayed() bool
	IngredientUnderMouse(x, y int) (Ingredient, bool)
	Area(screen host.Screen) (geom.Rect, bool)
}

type Renderer interface {
	Render(s host.Surface, ing Ingredient, x, y, size int)
}
