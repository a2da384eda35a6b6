// Package emi integrates the EMI recipe viewer.
//
// EMI has no runtime callback: its API becomes usable after its first
// reload, and the adapter pulls it on demand, becoming Active the first time
// Plugin.Runtime returns a value. Only item stacks have a stable identity
// through EMI's API; fluids, tags and empty stacks fail conversion.
package emi

import (
	"stash/geom"
	"stash/host"
)

// Plugin is EMI's entry point. The host passes nil when EMI is not installed.
type Plugin interface {
	// Runtime returns nil until EMI has finished reloading.
	Runtime() Runtime
	AddExclusionArea(fn func(screen host.Screen) []geom.Rect)
}

// Runtime is EMI's live API.
type Runtime interface {
	// ItemStack resolves a registered item.
	ItemStack(id, components string) (ItemStack, bool)
	Describe(st Stack) (name string, icon host.Icon, tooltip []string)
	Render(s host.Surface, st Stack, x, y, size int)

	DisplayRecipes(st Stack)
	DisplayUses(st Stack)
	IsRecipeScreen(screen host.Screen) bool

	SidebarVisible() bool
	HoveredStack(x, y int) (Stack, bool)
	SidebarBounds(screen host.Screen) (geom.Rect, bool)
}
